package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/larder/internal/tui/styles"
)

// RenderErrorModal renders a dismissable error box, or "" when there is
// nothing to show
func RenderErrorModal(message string) string {
	if message == "" {
		return ""
	}

	const modalWidth = 36

	title := styles.ModalTitleStyle.
		Foreground(styles.Red).
		Background(styles.SlateDark).
		Width(modalWidth).
		Render("An Error Occurred!")

	body := lipgloss.NewStyle().
		Foreground(styles.White).
		Background(styles.SlateDark).
		Width(modalWidth).
		Render(message)

	hint := lipgloss.NewStyle().
		Background(styles.SlateDark).
		Width(modalWidth).
		Render(styles.AccentStyle.Render("enter") + styles.DimStyle.Render(" okay"))

	return styles.ErrorModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		body,
		"",
		hint,
	))
}
