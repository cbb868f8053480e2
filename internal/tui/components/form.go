package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/larder/internal/domain"
	"github.com/mmcdole/larder/internal/tui/styles"
)

const (
	fieldTitle = iota
	fieldAmount
	fieldCount
)

// IngredientForm captures a new ingredient's title and amount
type IngredientForm struct {
	inputs   [fieldCount]textinput.Model
	active   int
	focused  bool
	disabled bool // a store call is in flight
	invalid  string
	width    int
}

// NewIngredientForm creates an empty form
func NewIngredientForm() IngredientForm {
	title := textinput.New()
	title.Placeholder = "e.g. Apple"
	title.CharLimit = 80
	title.Prompt = ""

	amount := textinput.New()
	amount.Placeholder = "e.g. 2"
	amount.CharLimit = 12
	amount.Prompt = ""

	f := IngredientForm{inputs: [fieldCount]textinput.Model{title, amount}}
	for i := range f.inputs {
		f.inputs[i].TextStyle = lipgloss.NewStyle().Foreground(styles.White)
		f.inputs[i].PlaceholderStyle = styles.DimStyle
	}
	return f
}

// Focus gives the form keyboard focus, starting at the title field
func (f *IngredientForm) Focus() tea.Cmd {
	f.focused = true
	return f.focusField(f.active)
}

// Blur removes keyboard focus
func (f *IngredientForm) Blur() {
	f.focused = false
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

func (f IngredientForm) IsFocused() bool {
	return f.focused
}

// SetDisabled gates submission while the store is busy
func (f *IngredientForm) SetDisabled(disabled bool) {
	f.disabled = disabled
}

func (f IngredientForm) IsDisabled() bool {
	return f.disabled
}

// Reset clears both fields and any validation message
func (f *IngredientForm) Reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	f.invalid = ""
	f.active = fieldTitle
	if f.focused {
		f.focusField(fieldTitle)
	}
}

func (f *IngredientForm) SetWidth(width int) {
	f.width = width
	inputWidth := width - 14
	if inputWidth < 10 {
		inputWidth = 10
	}
	for i := range f.inputs {
		f.inputs[i].Width = inputWidth
	}
}

func (f *IngredientForm) focusField(idx int) tea.Cmd {
	f.active = idx
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == idx {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

// Update handles input events. It returns the ingredient to add when the
// user submits a valid form.
func (f IngredientForm) Update(msg tea.Msg) (IngredientForm, tea.Cmd, *domain.Ingredient) {
	if !f.focused {
		return f, nil, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "tab", "down":
			return f, f.focusField((f.active + 1) % fieldCount), nil
		case "shift+tab", "up":
			return f, f.focusField((f.active + fieldCount - 1) % fieldCount), nil
		case "enter":
			if f.active == fieldTitle {
				return f, f.focusField(fieldAmount), nil
			}
			ing, ok := f.submit()
			if !ok {
				return f, nil, nil
			}
			return f, nil, &ing
		}
	}

	var cmd tea.Cmd
	f.inputs[f.active], cmd = f.inputs[f.active].Update(msg)
	return f, cmd, nil
}

// submit validates the fields and builds the ingredient
func (f *IngredientForm) submit() (domain.Ingredient, bool) {
	if f.disabled {
		return domain.Ingredient{}, false
	}

	title := strings.TrimSpace(f.inputs[fieldTitle].Value())
	amount := strings.TrimSpace(f.inputs[fieldAmount].Value())

	switch {
	case title == "":
		f.invalid = "Name is required"
		f.focusField(fieldTitle)
		return domain.Ingredient{}, false
	case amount == "":
		f.invalid = "Amount is required"
		f.focusField(fieldAmount)
		return domain.Ingredient{}, false
	}
	if _, err := strconv.ParseFloat(amount, 64); err != nil {
		f.invalid = "Amount must be a number"
		f.focusField(fieldAmount)
		return domain.Ingredient{}, false
	}

	f.invalid = ""
	return domain.Ingredient{Title: title, Amount: domain.Amount(amount)}, true
}

// View renders the form
func (f IngredientForm) View() string {
	border := styles.InactiveBorder
	if f.focused {
		border = styles.ActiveBorder
	}

	label := func(idx int, text string) string {
		style := styles.LabelStyle
		if f.focused && f.active == idx {
			style = styles.AccentStyle
		}
		return style.Width(9).Render(text)
	}

	button := styles.ButtonStyle.Render("Add Ingredient")
	if f.disabled {
		button = styles.ButtonDisabledStyle.Render("Add Ingredient")
	}

	status := " "
	if f.invalid != "" {
		status = styles.ErrorStyle.Render(f.invalid)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("New Ingredient"),
		"",
		label(fieldTitle, "Name")+" "+f.inputs[fieldTitle].View(),
		label(fieldAmount, "Amount")+" "+f.inputs[fieldAmount].View(),
		"",
		button+"  "+status,
	)

	frameW, _ := border.GetFrameSize()
	width := f.width - frameW
	if width < 20 {
		width = 20
	}
	return border.Width(width).Padding(0, 1).Render(content)
}
