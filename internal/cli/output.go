package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/codmate/codmate/pkg/importer"
	"github.com/codmate/codmate/pkg/providers"
	"github.com/codmate/codmate/pkg/rules"
)

var (
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	providerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	nameStyle     = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Faint(true)
	offStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	conflictStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
)

// printWarnings renders accumulated per-provider warnings.
func printWarnings(w io.Writer, warnings []providers.Warning) {
	for _, warning := range warnings {
		fmt.Fprintf(w, "%s %s %s\n",
			warnStyle.Render("warning:"),
			providerStyle.Render("["+warning.Provider+"]"),
			warning.Message)
	}
}

// printRule renders one rule line for list output.
func printRule(w io.Writer, r rules.Rule) {
	state := ""
	if !r.Enabled {
		state = " " + offStyle.Render("(disabled)")
	}
	fmt.Fprintf(w, "%s%s\n", nameStyle.Render(r.Name), state)
	fmt.Fprintf(w, "  %s\n", dimStyle.Render(r.ID))
	fmt.Fprintf(w, "  event: %s", r.Event)
	if r.Matcher != "" {
		fmt.Fprintf(w, "  matcher: %s", r.Matcher)
	}
	fmt.Fprintf(w, "  targets: %s\n", describeTargets(r.Targets))
	for _, c := range r.Commands {
		cmd := c.Program
		if len(c.Args) > 0 {
			cmd += " " + strings.Join(c.Args, " ")
		}
		fmt.Fprintf(w, "  runs: %s\n", cmd)
	}
}

// printCandidate renders one import candidate line.
func printCandidate(w io.Writer, c importer.Candidate) {
	mark := "+"
	if c.HasConflict {
		mark = conflictStyle.Render("!")
	}
	fmt.Fprintf(w, "%s %s %s\n", mark,
		providerStyle.Render("["+c.Provider+"]"),
		nameStyle.Render(c.Name))
	fmt.Fprintf(w, "    event: %s", c.Event)
	if c.Matcher != "" {
		fmt.Fprintf(w, "  matcher: %s", c.Matcher)
	}
	fmt.Fprintln(w)
	if c.HasConflict {
		fmt.Fprintf(w, "    %s\n",
			conflictStyle.Render("name collides with an existing rule; skipped by default"))
	}
}

func describeTargets(t *rules.Targets) string {
	if t == nil {
		return "all providers"
	}
	var on []string
	for _, name := range []string{rules.ProviderClaude, rules.ProviderGemini, rules.ProviderCodex} {
		if t.Enables(name) {
			on = append(on, name)
		}
	}
	if len(on) == 0 {
		return "none"
	}
	return strings.Join(on, ", ")
}
