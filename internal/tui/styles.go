package tui

import "github.com/charmbracelet/lipgloss"

var (
	indigo  = lipgloss.Color("#6366F1")
	red     = lipgloss.Color("#F87171")
	green   = lipgloss.Color("#34D399")
	txtClr  = lipgloss.Color("#E5E7EB")
	subtext = lipgloss.Color("#9CA3AF")
	surface = lipgloss.Color("#374151")
	base    = lipgloss.Color("#111827")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(txtClr).
			Background(indigo).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(subtext)

	buttonStyle = lipgloss.NewStyle().
			Foreground(base).
			Background(indigo).
			Padding(0, 1)

	busyButtonStyle = lipgloss.NewStyle().
			Foreground(subtext).
			Background(surface).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(red).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(red).
			PaddingLeft(1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(txtClr).
			Background(indigo).
			Bold(true).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(subtext).
				Padding(0, 1)

	copiedStyle = lipgloss.NewStyle().
			Foreground(base).
			Background(green).
			Padding(0, 1)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(surface)

	focusedPaneStyle = paneStyle.
				BorderForeground(indigo)

	noticeStyle = lipgloss.NewStyle().
			Foreground(subtext).
			Italic(true)
)

// tab renders label as selected or not.
func tab(label string, active bool) string {
	if active {
		return activeTabStyle.Render(label)
	}
	return inactiveTabStyle.Render(label)
}
