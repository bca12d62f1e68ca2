package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/kandev/acp-sentinel/pkg/acp/validate"
)

var (
	laneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Bold(true)

	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"})
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#F29F05", Dark: "#F29F05"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#E05252", Dark: "#E05252"}).Bold(true)

	subjectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	codeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

func severityStyle(s validate.Severity) lipgloss.Style {
	switch s {
	case validate.SeverityError:
		return errorStyle
	case validate.SeverityWarning:
		return warningStyle
	default:
		return infoStyle
	}
}

// renderFinding renders one finding as "[lane/severity] code (subject) message".
func renderFinding(f validate.Finding) string {
	lane := laneStyle.Render(fmt.Sprintf("[%s/%s]", f.Lane, f.Severity))
	sev := severityStyle(f.Severity)
	subject := subjectStyle.Render(fmt.Sprintf("(%s)", f.Subject.String()))

	if f.Failure != nil {
		code := codeStyle.Render(f.Failure.Code)
		return fmt.Sprintf("%s %s %s %s", lane, sev.Render(code), subject, f.Failure.Message)
	}
	return fmt.Sprintf("%s %s %s", lane, sev.Render("note"), fmt.Sprintf("%s %s", subject, f.Note))
}

func countBySeverity(findings []validate.Finding) (errs, warns, infos int) {
	for _, f := range findings {
		switch f.Severity {
		case validate.SeverityError:
			errs++
		case validate.SeverityWarning:
			warns++
		default:
			infos++
		}
	}
	return
}
