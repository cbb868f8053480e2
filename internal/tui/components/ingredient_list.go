package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/larder/internal/domain"
	"github.com/mmcdole/larder/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// BorderWidth is the horizontal space taken by a rounded border
const BorderWidth = 2

// IngredientList shows the loaded ingredients and reports delete requests
type IngredientList struct {
	items []domain.Ingredient

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	matches      fuzzy.Matches // nil when no filter query
}

// NewIngredientList creates an empty list
func NewIngredientList() IngredientList {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return IngredientList{filterInput: ti}
}

// SetItems replaces the displayed ingredients, keeping the cursor in range
// and re-running any active filter.
func (l *IngredientList) SetItems(items []domain.Ingredient) {
	l.items = items
	if l.filterQuery != "" {
		l.runFilter()
	}
	l.clampCursor()
}

func (l IngredientList) Items() []domain.Ingredient {
	return l.items
}

func (l *IngredientList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.recalcMaxVisible()
	l.ensureVisible()
}

func (l *IngredientList) SetFocused(focused bool) {
	l.focused = focused
	if !focused {
		l.filterInput.Blur()
	}
}

func (l IngredientList) IsFocused() bool {
	return l.focused
}

// IsFilterTyping reports whether keystrokes are going to the filter input
func (l IngredientList) IsFilterTyping() bool {
	return l.filterActive && l.filterInput.Focused()
}

// Selected returns the ingredient under the cursor
func (l IngredientList) Selected() (domain.Ingredient, bool) {
	if l.visibleCount() == 0 {
		return domain.Ingredient{}, false
	}
	return l.items[l.mapIndex(l.cursor)], true
}

// Update handles navigation and filtering. It returns the id of the
// ingredient to remove when the user asks for a delete.
func (l IngredientList) Update(msg tea.Msg) (IngredientList, tea.Cmd, string) {
	if !l.focused {
		return l, nil, ""
	}

	keyMsg, ok := msg.(tea.KeyMsg)

	// Typing into the filter
	if l.IsFilterTyping() {
		if ok {
			switch keyMsg.String() {
			case "esc":
				l.clearFilter()
				return l, nil, ""
			case "enter":
				l.filterInput.Blur()
				return l, nil, ""
			case "backspace":
				if l.filterInput.Value() == "" {
					l.clearFilter()
					return l, nil, ""
				}
			}
		}

		var cmd tea.Cmd
		l.filterInput, cmd = l.filterInput.Update(msg)
		l.applyFilter()
		return l, cmd, ""
	}

	if !ok {
		return l, nil, ""
	}

	switch keyMsg.String() {
	case "/":
		l.filterActive = true
		l.recalcMaxVisible()
		return l, l.filterInput.Focus(), ""
	case "esc":
		if l.filterActive {
			l.clearFilter()
		}
		return l, nil, ""
	}

	count := l.visibleCount()
	if count == 0 {
		return l, nil, ""
	}

	switch keyMsg.String() {
	case "j", "down":
		if l.cursor < count-1 {
			l.cursor++
			l.ensureVisible()
		}
	case "k", "up":
		if l.cursor > 0 {
			l.cursor--
			l.ensureVisible()
		}
	case "g", "home":
		l.cursor = 0
		l.offset = 0
	case "G", "end":
		l.cursor = count - 1
		l.ensureVisible()
	case "ctrl+d":
		l.cursor = min(l.cursor+l.maxVisible/2, count-1)
		l.ensureVisible()
	case "ctrl+u":
		l.cursor = max(l.cursor-l.maxVisible/2, 0)
		l.ensureVisible()
	case "x", "d", "delete":
		if ing, ok := l.Selected(); ok {
			return l, nil, ing.ID
		}
	}

	return l, nil, ""
}

func (l *IngredientList) recalcMaxVisible() {
	// border, title, more-above and more-below lines
	l.maxVisible = l.height - BorderWidth - 3
	if l.filterActive {
		l.maxVisible--
	}
	if l.maxVisible < 1 {
		l.maxVisible = 1
	}
}

func (l *IngredientList) ensureVisible() {
	if l.maxVisible <= 0 {
		return
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.maxVisible {
		l.offset = l.cursor - l.maxVisible + 1
	}
}

func (l *IngredientList) clampCursor() {
	count := l.visibleCount()
	if l.cursor >= count {
		l.cursor = count - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	if l.offset > l.cursor {
		l.offset = l.cursor
	}
	l.ensureVisible()
}

func (l *IngredientList) clearFilter() {
	l.filterActive = false
	l.filterQuery = ""
	l.matches = nil
	l.filterInput.SetValue("")
	l.filterInput.Blur()
	l.recalcMaxVisible()
	l.clampCursor()
}

func (l *IngredientList) applyFilter() {
	l.filterQuery = l.filterInput.Value()
	l.runFilter()
	l.cursor = 0
	l.offset = 0
}

// runFilter matches the filter query against titles, case-insensitively
func (l *IngredientList) runFilter() {
	if l.filterQuery == "" {
		l.matches = nil
		return
	}

	titles := make([]string, len(l.items))
	for i, ing := range l.items {
		titles[i] = strings.ToLower(ing.Title)
	}

	l.matches = fuzzy.Find(strings.ToLower(l.filterQuery), titles)
	if l.matches == nil {
		l.matches = fuzzy.Matches{}
	}
}

func (l IngredientList) visibleCount() int {
	if l.matches != nil {
		return len(l.matches)
	}
	return len(l.items)
}

func (l IngredientList) mapIndex(i int) int {
	if l.matches != nil && i < len(l.matches) {
		return l.matches[i].Index
	}
	return i
}

func (l IngredientList) View() string {
	style := styles.InactiveBorder
	if l.focused {
		style = styles.ActiveBorder
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(l.width - frameW).
		Height(l.height - frameH).
		Render(l.renderContent())
}

func (l IngredientList) renderContent() string {
	itemWidth := l.width - BorderWidth
	if itemWidth < 10 {
		itemWidth = 10
	}

	titleLine := styles.AccentStyle.Render(styles.Truncate(fmt.Sprintf("Ingredients (%d)", len(l.items)), itemWidth))

	count := l.visibleCount()
	if count == 0 {
		empty := styles.DimStyle.Render("No ingredients")
		if l.filterQuery != "" {
			empty = styles.DimStyle.Render("No matches")
		}
		content := titleLine + "\n \n" + empty + "\n "
		if l.filterActive {
			content += "\n" + l.renderFilterBar()
		}
		return content
	}

	end := min(l.offset+l.maxVisible, count)

	var lines []string
	for i := l.offset; i < end; i++ {
		lines = append(lines, l.renderItem(i, itemWidth))
	}

	// Reserve the scroll hint lines even when empty to keep the layout stable
	header := " "
	if l.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < count {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
	if l.filterActive {
		content += "\n" + l.renderFilterBar()
	}
	return content
}

func (l IngredientList) renderItem(i, width int) string {
	selected := l.focused && i == l.cursor
	ing := l.items[l.mapIndex(i)]

	amount := ing.Amount.String()
	titleWidth := width - len(amount) - 4
	title := styles.Truncate(ing.Title, titleWidth)

	var matched []int
	if l.matches != nil {
		matched = l.matches[i].MatchedIndexes
	}

	parts := highlightMatches(title, matched)
	if gap := titleWidth - len([]rune(title)); gap > 0 {
		parts = append(parts, styles.RowPart{Text: strings.Repeat(" ", gap)})
	}
	parts = append(parts, styles.RowPart{Text: "  " + amount, Foreground: &styles.DimGray})

	return styles.RenderListRow(parts, selected, width)
}

// highlightMatches splits text into runs, marking the matched rune indexes
func highlightMatches(text string, matchedIndexes []int) []styles.RowPart {
	if len(matchedIndexes) == 0 {
		return []styles.RowPart{{Text: text}}
	}

	matchSet := make(map[int]bool, len(matchedIndexes))
	for _, idx := range matchedIndexes {
		matchSet[idx] = true
	}

	var parts []styles.RowPart
	var run strings.Builder
	runMatched := false

	flush := func() {
		if run.Len() == 0 {
			return
		}
		part := styles.RowPart{Text: run.String()}
		if runMatched {
			part.Foreground = &styles.Saffron
			part.Bold = true
		}
		parts = append(parts, part)
		run.Reset()
	}

	// MatchedIndexes are byte offsets into the lowered title
	for i, r := range text {
		m := matchSet[i]
		if m != runMatched {
			flush()
			runMatched = m
		}
		run.WriteRune(r)
	}
	flush()

	return parts
}

func (l IngredientList) renderFilterBar() string {
	countStr := ""
	if l.filterQuery != "" {
		countStr = styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", l.visibleCount(), len(l.items)))
	}
	return l.filterInput.View() + countStr
}
