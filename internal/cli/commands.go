package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/codmate/codmate/internal/version"
	"github.com/codmate/codmate/pkg/importer"
	"github.com/codmate/codmate/pkg/logging"
	"github.com/codmate/codmate/pkg/providers"
	"github.com/codmate/codmate/pkg/rules"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:   "codmate",
		Short: "Sync automation hooks into your CLI tools' native configs",
		Long: `codmate keeps one canonical set of automation rules ("hooks") and
projects it into the native configuration files of the claude, gemini
and codex CLIs, without disturbing content it does not own. It can also
import pre-existing hooks from those files back into the canonical set.`,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newEnableCmd())
	rootCmd.AddCommand(newDisableCmd())
	rootCmd.AddCommand(newRemoveCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newImportCmd())

	return rootCmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List canonical rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine()
			if err != nil {
				return err
			}
			list := eng.store.List()
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No rules yet.")
				return nil
			}
			for _, r := range list {
				printRule(cmd.OutOrStdout(), r)
			}
			return nil
		},
	}
}

func newAddCmd() *cobra.Command {
	var (
		event     string
		matcher   string
		targets   []string
		timeoutMs int
	)

	cmd := &cobra.Command{
		Use:   "add NAME -- PROGRAM [ARGS...]",
		Short: "Add a rule and sync it into the native configs",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dash := cmd.ArgsLenAtDash()
			if dash != 1 {
				return fmt.Errorf("expected: add NAME -- PROGRAM [ARGS...]")
			}
			name := args[0]
			program := args[1]
			progArgs := args[2:]

			eng, err := buildEngine()
			if err != nil {
				return err
			}

			rule := rules.New(name, event, []rules.CommandSpec{{
				Program:   program,
				Args:      progArgs,
				TimeoutMs: timeoutMs,
			}})
			rule.Matcher = matcher
			rule.Source = "cli"
			if t, err := parseTargets(targets); err != nil {
				return err
			} else if t != nil {
				rule.Targets = t
			}

			if err := eng.store.Upsert(rule); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", rule.Name, rule.ID)
			printWarnings(cmd.OutOrStdout(), eng.sync())
			return nil
		},
	}

	cmd.Flags().StringVarP(&event, "event", "e", "", "Trigger event (provider-defined vocabulary)")
	cmd.Flags().StringVarP(&matcher, "matcher", "m", "", "Optional matcher narrowing sub-events")
	cmd.Flags().StringSliceVarP(&targets, "target", "t", nil, "Restrict to providers (claude, gemini, codex); default all")
	cmd.Flags().IntVar(&timeoutMs, "timeout-ms", 0, "Command timeout in milliseconds")
	_ = cmd.MarkFlagRequired("event")

	return cmd
}

func newEnableCmd() *cobra.Command {
	return newToggleCmd("enable", true)
}

func newDisableCmd() *cobra.Command {
	return newToggleCmd("disable", false)
}

func newToggleCmd(verb string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " ID",
		Short: verb + " a rule and re-sync",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine()
			if err != nil {
				return err
			}
			ok, err := eng.store.Update(args[0], rules.Delta{Enabled: &enabled})
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no rule with id %s", args[0])
			}
			printWarnings(cmd.OutOrStdout(), eng.sync())
			return nil
		},
	}
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a rule; the next sync prunes its native entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine()
			if err != nil {
				return err
			}
			if err := eng.store.Delete(args[0]); err != nil {
				return err
			}
			printWarnings(cmd.OutOrStdout(), eng.sync())
			return nil
		},
	}
}

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Reconcile every provider's native config with the rule set",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine()
			if err != nil {
				return err
			}
			warnings := eng.sync()
			printWarnings(cmd.OutOrStdout(), warnings)
			if len(warnings) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "All providers in sync.")
			}
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Adopt hooks found in native configs into the canonical set",
	}
	cmd.AddCommand(newImportScanCmd())
	cmd.AddCommand(newImportApplyCmd())
	return cmd
}

func newImportScanCmd() *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List hooks present in native configs but not in the canonical set",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine()
			if err != nil {
				return err
			}
			cands, warnings := eng.importer.Scan(scopeFor(project))
			for _, c := range cands {
				printCandidate(cmd.OutOrStdout(), c)
			}
			if len(cands) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to import.")
			}
			printWarnings(cmd.OutOrStdout(), warnings)
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Scan a project directory instead of the global configs")
	return cmd
}

func newImportApplyCmd() *cobra.Command {
	var (
		project   string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Import discovered hooks into the canonical set and re-sync",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine()
			if err != nil {
				return err
			}

			cands, warnings := eng.importer.Scan(scopeFor(project))
			for i := range cands {
				if cands[i].HasConflict && overwrite {
					cands[i].Selected = true
					cands[i].Resolution = importer.ResolutionOverwrite
				}
			}

			done, importWarnings, err := eng.importer.ImportSelected(cands)
			warnings = append(warnings, importWarnings...)
			printWarnings(cmd.OutOrStdout(), warnings)
			if err != nil {
				return err
			}

			imported := 0
			for _, c := range done {
				if c.State == importer.StateImported {
					imported++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d candidates.\n",
				imported, len(done))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Import from a project directory instead of the global configs")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite name-colliding rules instead of skipping them")
	return cmd
}

func scopeFor(project string) providers.Scope {
	if project != "" {
		return providers.ProjectScope(project)
	}
	return providers.GlobalScope()
}

// parseTargets converts --target flags into an explicit target set.
// No flags means nil: the rule applies to every current and future
// provider.
func parseTargets(names []string) (*rules.Targets, error) {
	if len(names) == 0 {
		return nil, nil
	}
	enabled := true
	t := &rules.Targets{}
	for _, n := range names {
		switch n {
		case rules.ProviderClaude:
			t.Claude = &enabled
		case rules.ProviderGemini:
			t.Gemini = &enabled
		case rules.ProviderCodex:
			t.Codex = &enabled
		default:
			return nil, fmt.Errorf("unknown provider %q", n)
		}
	}
	return t, nil
}
