package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorSubtle    = lipgloss.Color("240") // muted gray
	colorHighlight = lipgloss.Color("81")  // teal
	colorSpecial   = lipgloss.Color("208") // orange
	colorError     = lipgloss.Color("196")
	colorSuccess   = lipgloss.Color("40")
)

var (
	docStyle          = lipgloss.NewStyle().Margin(1, 2)
	titleStyle        = lipgloss.NewStyle().Foreground(colorHighlight).Bold(true).MarginBottom(1)
	helpStyle         = lipgloss.NewStyle().Foreground(colorSubtle).MarginTop(1)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(2)
	selectedItemStyle = lipgloss.NewStyle().Foreground(colorHighlight).PaddingLeft(0)
	detailStyle       = lipgloss.NewStyle().Foreground(colorSubtle).PaddingLeft(4)
	errorStyle        = lipgloss.NewStyle().Foreground(colorError)
	successStyle      = lipgloss.NewStyle().Foreground(colorSuccess)
	specialStyle      = lipgloss.NewStyle().Foreground(colorSpecial)
	focusedStyle      = lipgloss.NewStyle().Foreground(colorHighlight)
	blurredStyle      = lipgloss.NewStyle()
	emptyStyle        = lipgloss.NewStyle().Foreground(colorSubtle).Italic(true)
)
