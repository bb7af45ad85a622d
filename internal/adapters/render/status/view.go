package status

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/paymail/internal/application"
	"github.com/bnema/paymail/internal/domain"
)

type RenderOptions struct {
	// Now drives the "resets in" hint; quotas reset at the next local midnight.
	Now time.Time
}

func renderView(statuses []application.AccountStatus, opts RenderOptions, s styles) string {
	capacity := 0
	for _, status := range statuses {
		capacity += status.Limit
	}

	lines := []string{
		s.title.Render("Sending Account Usage"),
		s.header.Render(fmt.Sprintf("accounts: %d  daily capacity: %d", len(statuses), capacity)),
	}

	if len(statuses) == 0 {
		lines = append(lines, s.empty.Render("No sending accounts configured."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, status := range statuses {
		lines = append(lines, s.section.Render(renderAccount(status, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderAccount(status application.AccountStatus, opts RenderOptions, s styles) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		s.account.Render(accountTitle(status)),
		quotaLine(status, opts, s),
	)
}

func quotaLine(status application.AccountStatus, opts RenderOptions, s styles) string {
	leftPercent := clampPercent(100 - float64(status.Percentage))
	percentStyle := lipgloss.NewStyle().Foreground(interpolateColor(leftPercent, 0, 100))

	parts := []string{
		s.limitKey.Render("daily quota:"),
		renderProgressBar(float64(status.Percentage), 24, s),
		percentStyle.Render(fmt.Sprintf("%2.0f%% left", leftPercent)),
		s.detail.Render(fmt.Sprintf("%d/%d sent", status.Usage, status.Limit)),
	}
	if !opts.Now.IsZero() {
		parts = append(parts, s.detail.Render(fmt.Sprintf("(%s)", formatResetRelative(nextMidnight(opts.Now), opts.Now))))
	}
	switch status.Status {
	case domain.UsageWarning:
		parts = append(parts, s.warning.Render("[warning]"))
	case domain.UsageAtLimit:
		parts = append(parts, s.atLimit.Render("[at-limit]"))
	}

	return strings.Join(parts, " ")
}

func renderCheck(report application.ConnectionReport, s styles) string {
	lines := []string{
		s.title.Render("Sending Account Check"),
		s.header.Render(report.Message),
	}

	for _, check := range report.Accounts {
		mark := s.ok.Render("ok")
		if check.Status != "success" {
			mark = s.atLimit.Render("error")
		}
		lines = append(lines, fmt.Sprintf("%s %s: %s",
			mark,
			s.account.Render(fmt.Sprintf("%s <%s>", check.Account, check.Email)),
			s.detail.Render(check.Message),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderProgressBar(usedPercent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	used := clampPercent(usedPercent)
	leftFraction := (100.0 - used) / 100.0
	filled := int(math.Round(float64(width) * leftFraction))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func nextMidnight(now time.Time) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day+1, 0, 0, 0, 0, now.Location())
}

func formatResetRelative(resetsAt, now time.Time) string {
	remaining := resetsAt.Sub(now)
	if remaining <= 0 {
		return "reset now"
	}

	if remaining < time.Hour {
		minutes := int(math.Ceil(remaining.Minutes()))
		return fmt.Sprintf("resets in %d min (%s)", minutes, resetsAt.Format("15:04"))
	}

	hours := int(math.Ceil(remaining.Hours()))
	suffix := "hours"
	if hours == 1 {
		suffix = "hour"
	}
	return fmt.Sprintf("resets in %d %s (%s)", hours, suffix, resetsAt.Format("15:04"))
}

func accountTitle(status application.AccountStatus) string {
	name := strings.TrimSpace(status.Name)
	if name == "" || name == status.Email {
		return fmt.Sprintf("#%d %s", status.Index, status.Email)
	}
	return fmt.Sprintf("#%d %s (%s)", status.Index, name, status.Email)
}

// interpolateColor maps value onto the 240..255 greyscale ramp.
func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	return lipgloss.Color(fmt.Sprintf("%d", int(240.0+15.0*normalized)))
}
