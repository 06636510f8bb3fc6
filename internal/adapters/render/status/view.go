package status

import (
	"fmt"
	"math"
	"time"

	"github.com/bnema/gtv-cli/internal/application"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	Now     time.Time
	NoColor bool
}

func renderStatus(status application.DeviceStatus, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Google TV"),
		s.device.Render(deviceTitle(status)),
		field(s, "address", status.Serial),
		field(s, "source", string(status.Source)),
	}

	if status.AndroidVersion != "" {
		lines = append(lines, field(s, "android", status.AndroidVersion))
	}
	lines = append(lines, field(s, "cache", cacheLine(status, opts)))
	if status.Attempts > 1 {
		lines = append(lines, s.faint.Render(fmt.Sprintf("connected after %d attempts", status.Attempts)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func deviceTitle(status application.DeviceStatus) string {
	if status.Model == "" {
		return "unknown model"
	}
	return status.Model
}

func field(s styles, key, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, s.key.Render(key+":"), " ", s.detail.Render(value))
}

func cacheLine(status application.DeviceStatus, opts RenderOptions) string {
	age, ok := status.CacheAge()
	if !ok {
		return "none before this run"
	}
	if opts.Now.IsZero() && status.CachedAt != nil {
		return "saved " + status.CachedAt.Format(time.RFC3339)
	}

	return "saved " + formatAge(age) + " ago"
}

func formatAge(age time.Duration) string {
	switch {
	case age < time.Minute:
		return "less than a minute"
	case age < time.Hour:
		return plural(int(age/time.Minute), "minute")
	case age < 48*time.Hour:
		return plural(int(math.Round(age.Hours())), "hour")
	default:
		return plural(int(age.Hours()/24), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func renderDoctor(report application.DoctorReport, s styles) string {
	lines := []string{
		s.title.Render("gtv doctor"),
		s.header.Render(fmt.Sprintf("checks: %d  ok: %d  warnings: %d  errors: %d",
			len(report.Results),
			report.Count(application.SeverityOK),
			report.Count(application.SeverityWarning),
			report.Count(application.SeverityError),
		)),
	}

	if len(report.Results) == 0 {
		lines = append(lines, s.faint.Render("No checks configured."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	checks := make([]string, 0, len(report.Results))
	for _, result := range report.Results {
		checks = append(checks, checkLine(result, s))
	}
	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, checks...)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func checkLine(result application.CheckResult, s styles) string {
	var badge string
	switch result.Severity {
	case application.SeverityOK:
		badge = s.ok.Render("[ok]  ")
	case application.SeverityWarning:
		badge = s.warning.Render("[warn]")
	default:
		badge = s.failure.Render("[fail]")
	}

	line := lipgloss.JoinHorizontal(lipgloss.Top, badge, " ", s.key.Render(result.Name), " ", s.detail.Render(result.Detail))
	if result.Hint == "" {
		return line
	}

	return lipgloss.JoinVertical(lipgloss.Left, line, s.hint.Render("       "+result.Hint))
}
