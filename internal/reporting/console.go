package reporting

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	healthyColor    = color.New(color.FgGreen)
	failedColor     = color.New(color.FgRed)
	pendingColor    = color.New(color.FgYellow)
	notStartedColor = color.New(color.Faint)
)

func colorFor(o Outcome) *color.Color {
	switch o {
	case OutcomeHealthy:
		return healthyColor
	case OutcomeUnhealthy, OutcomeDeployFailed:
		return failedColor
	case OutcomeNotStarted:
		return notStartedColor
	default:
		return pendingColor
	}
}

// PrintReport writes the final per-component table and aggregate verdict.
func PrintReport(w io.Writer, rows []Row, result StackResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Deployment report:")
	for _, row := range rows {
		c := colorFor(row.Outcome)
		if row.Detail != "" {
			fmt.Fprintf(w, "  %-18s %s  %s\n", row.Component, c.Sprint(row.Outcome), row.Detail)
		} else {
			fmt.Fprintf(w, "  %-18s %s\n", row.Component, c.Sprint(row.Outcome))
		}
	}

	fmt.Fprintln(w)
	switch result.Kind {
	case ResultAllHealthy:
		fmt.Fprintf(w, "Stack result: %s\n", healthyColor.Sprint(result.Kind))
	case ResultPartialFailure:
		fmt.Fprintf(w, "Stack result: %s (failed: %v)\n", failedColor.Sprint(result.Kind), result.Failed)
	default:
		fmt.Fprintf(w, "Stack result: %s\n", failedColor.Sprint(result.Kind))
	}
}

// PrintStatus writes the probe-only health table used by `stackctl status`.
func PrintStatus(w io.Writer, statuses []StatusRow) {
	fmt.Fprintln(w, "Component health:")
	for _, s := range statuses {
		c := notStartedColor
		switch s.Health {
		case "Healthy":
			c = healthyColor
		case "Unhealthy":
			c = failedColor
		}
		fmt.Fprintf(w, "  %-18s %s  %s\n", s.Component, c.Sprint(s.Health), s.URL)
	}
}

// StatusRow is one line of the status table.
type StatusRow struct {
	Component string
	Health    string
	URL       string
}
