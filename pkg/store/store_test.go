package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codmate/codmate/pkg/errors"
	"github.com/codmate/codmate/pkg/rules"
	"github.com/codmate/codmate/pkg/testutil"
)

func newRule(name string) rules.Rule {
	return rules.New(name, "Stop", []rules.CommandSpec{{Program: "/bin/true"}})
}

func TestOpenMissingFile(t *testing.T) {
	env := testutil.NewEnv(t)

	s, err := Open(env.StorePath())
	require.NoError(t, err)
	assert.Empty(t, s.List())
}

func TestUpsertPersistsAndReloads(t *testing.T) {
	env := testutil.NewEnv(t)

	s, err := Open(env.StorePath())
	require.NoError(t, err)

	r := newRule("my hook")
	require.NoError(t, s.Upsert(r))

	// A fresh store sees the same collection.
	reloaded, err := Open(env.StorePath())
	require.NoError(t, err)
	list := reloaded.List()
	require.Len(t, list, 1)
	assert.Equal(t, r.ID, list[0].ID)
	assert.Equal(t, "my hook", list[0].Name)
}

func TestUpsertReplacesById(t *testing.T) {
	env := testutil.NewEnv(t)
	s, err := Open(env.StorePath())
	require.NoError(t, err)

	r := newRule("first")
	require.NoError(t, s.Upsert(r))

	r.Name = "second"
	require.NoError(t, s.Upsert(r))

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, "second", list[0].Name)
}

func TestUpsertRejectsInvalidRule(t *testing.T) {
	env := testutil.NewEnv(t)
	s, err := Open(env.StorePath())
	require.NoError(t, err)

	bad := newRule("bad")
	bad.Commands = nil
	err = s.Upsert(bad)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRuleInvalid))
	assert.Empty(t, s.List())
}

func TestUpdate(t *testing.T) {
	env := testutil.NewEnv(t)
	s, err := Open(env.StorePath())
	require.NoError(t, err)

	r := newRule("hook")
	require.NoError(t, s.Upsert(r))

	name := "renamed"
	ok, err := s.Update(r.ID, rules.Delta{Name: &name})
	require.NoError(t, err)
	assert.True(t, ok)

	got, found := s.Get(r.ID)
	require.True(t, found)
	assert.Equal(t, "renamed", got.Name)
	assert.True(t, got.UpdatedAt.After(r.CreatedAt) || got.UpdatedAt.Equal(r.CreatedAt))
}

func TestUpdateMissingIdIsNoop(t *testing.T) {
	env := testutil.NewEnv(t)
	s, err := Open(env.StorePath())
	require.NoError(t, err)

	name := "renamed"
	ok, err := s.Update("no-such-id", rules.Delta{Name: &name})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	env := testutil.NewEnv(t)
	s, err := Open(env.StorePath())
	require.NoError(t, err)

	r := newRule("hook")
	require.NoError(t, s.Upsert(r))
	require.NoError(t, s.Delete(r.ID))
	assert.Empty(t, s.List())

	// Deleting again is a no-op.
	require.NoError(t, s.Delete(r.ID))
}

func TestListReturnsSnapshotCopies(t *testing.T) {
	env := testutil.NewEnv(t)
	s, err := Open(env.StorePath())
	require.NoError(t, err)

	r := rules.New("hook", "Stop", []rules.CommandSpec{{Program: "/bin/true", Args: []string{"a"}}})
	require.NoError(t, s.Upsert(r))

	list := s.List()
	list[0].Commands[0].Args[0] = "mutated"

	again := s.List()
	assert.Equal(t, "a", again[0].Commands[0].Args[0])
}

func TestStoreFileIsValidJSON(t *testing.T) {
	env := testutil.NewEnv(t)
	s, err := Open(env.StorePath())
	require.NoError(t, err)
	require.NoError(t, s.Upsert(newRule("hook")))

	data, err := os.ReadFile(env.StorePath())
	require.NoError(t, err)

	var list []rules.Rule
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list, 1)

	// No temp files left behind after the atomic replace.
	entries, err := os.ReadDir(filepath.Dir(env.StorePath()))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestOpenCorruptFile(t *testing.T) {
	env := testutil.NewEnv(t)
	testutil.WriteFile(t, env.StorePath(), "{not json")

	_, err := Open(env.StorePath())
	assert.True(t, errors.IsErrorCode(err, errors.ErrPersistenceDecode))
	assert.True(t, errors.IsPersistence(err))
}

func TestPersistFailureSurfacesAndRollsBack(t *testing.T) {
	root := t.TempDir()
	// Parent "directory" is actually a file, so persist cannot work.
	blocker := filepath.Join(root, "blocked")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	s, err := Open(filepath.Join(blocker, "rules.json"))
	require.NoError(t, err)

	err = s.Upsert(newRule("hook"))
	require.Error(t, err)
	assert.True(t, errors.IsPersistence(err))
	assert.Empty(t, s.List(), "failed upsert must not leave the rule in memory")
}

func TestConcurrentWritersNeverInterleave(t *testing.T) {
	env := testutil.NewEnv(t)
	s, err := Open(env.StorePath())
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Upsert(newRule(fmt.Sprintf("rule-%d", i))))
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.List(), n)

	// The on-disk document is complete and parseable.
	reloaded, err := Open(env.StorePath())
	require.NoError(t, err)
	assert.Len(t, reloaded.List(), n)
}
