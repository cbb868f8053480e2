package tui

import (
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/larder/internal/domain"
	"github.com/mmcdole/larder/internal/ingredients"
	"github.com/mmcdole/larder/internal/request"
	"github.com/mmcdole/larder/internal/search"
	"github.com/mmcdole/larder/internal/tui/components"
	"github.com/mmcdole/larder/internal/tui/styles"
)

// Pane identifies which component receives keystrokes
type Pane int

const (
	PaneList Pane = iota
	PaneForm
	PaneSearch
)

// Layout constants
const (
	headerHeight = 1
	footerHeight = 1
	formHeight   = 8
	searchHeight = 3
	maxWidth     = 80
)

// Model is the main Bubble Tea model for the application
type Model struct {
	Ready bool

	// Services
	Controller *ingredients.Controller
	SearchSvc  *search.Service
	Debounce   time.Duration

	// UI Components
	Form      components.IngredientForm
	List      components.IngredientList
	SearchBar components.SearchBar

	// Dimensions
	Width  int
	Height int

	// UI state
	Focus        Pane
	ShowHelp     bool
	StatusMsg    string
	SpinnerFrame int

	// Search state. Search failures are kept apart from store call errors.
	Searching     bool
	SearchErr     string
	pendingSearch string // query of the most recent search sent

	logger *slog.Logger
}

// NewModel creates a new application model
func NewModel(controller *ingredients.Controller, searchSvc *search.Service, debounce time.Duration, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = search.DebounceDelay
	}

	m := Model{
		Controller: controller,
		SearchSvc:  searchSvc,
		Debounce:   debounce,
		Form:       components.NewIngredientForm(),
		List:       components.NewIngredientList(),
		SearchBar:  components.NewSearchBar(),
		Focus:      PaneList,
		Searching:  true, // initial load
		logger:     logger,
	}
	m.List.SetFocused(true)
	m.SearchBar.SetSearching(true)
	return m
}

// Init loads the whole collection and starts the spinner
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		LoadIngredientsCmd(m.SearchSvc, ""),
		TickCmd(100*time.Millisecond),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		return m, TickCmd(100 * time.Millisecond)

	case ClearStatusMsg:
		m.StatusMsg = ""
		return m, nil

	case CallCompletedMsg:
		return m.handleCallCompleted(msg)

	case IngredientsLoadedMsg:
		if msg.Query != m.pendingSearch {
			m.logger.Debug("dropping stale search result", "query", msg.Query, "current", m.pendingSearch)
			return m, nil
		}
		m.finishSearch()
		m.SearchErr = ""
		m.Controller.SetIngredients(msg.Ingredients)
		m.List.SetItems(m.Controller.Ingredients())
		return m, nil

	case SearchFailedMsg:
		if msg.Query != m.pendingSearch {
			return m, nil
		}
		m.finishSearch()
		m.logger.Error("search failed", "query", msg.Query, "error", msg.Err)
		m.SearchErr = request.GenericErrorMessage
		return m, nil

	case SearchDebounceMsg:
		// Typing moved on since this tick was scheduled
		if msg.Query != m.SearchBar.Value() {
			return m, nil
		}
		return m, m.startSearch(msg.Query)
	}

	// Cursor blink and other input plumbing
	var cmd tea.Cmd
	switch m.Focus {
	case PaneForm:
		m.Form, cmd, _ = m.Form.Update(msg)
	case PaneSearch:
		m.SearchBar, cmd, _ = m.SearchBar.Update(msg)
	default:
		m.List, cmd, _ = m.List.Update(msg)
	}
	return m, cmd
}

// handleCallCompleted reconciles a finished add or remove with the list
func (m Model) handleCallCompleted(msg CallCompletedMsg) (tea.Model, tea.Cmd) {
	res := msg.Result
	changed := m.Controller.Reconcile(res)

	m.List.SetItems(m.Controller.Ingredients())
	m.Form.SetDisabled(m.Controller.IsLoading())

	if !changed {
		return m, nil
	}

	switch res.Call.Intent {
	case ingredients.IntentAddIngredient:
		m.Form.Reset()
		m.StatusMsg = "Added ingredient"
	case ingredients.IntentRemoveIngredient:
		m.StatusMsg = "Removed ingredient"
	}
	return m, ClearStatusCmd(3 * time.Second)
}

// startSearch sends query to the store, superseding any search in flight
func (m *Model) startSearch(query string) tea.Cmd {
	m.pendingSearch = query
	m.Searching = true
	m.SearchBar.SetSearching(true)
	return LoadIngredientsCmd(m.SearchSvc, query)
}

func (m *Model) finishSearch() {
	m.Searching = false
	m.SearchBar.SetSearching(false)
}

// addIngredient issues the add call for a submitted form
func (m *Model) addIngredient(ing domain.Ingredient) tea.Cmd {
	call := m.Controller.AddIngredient(ing)
	m.Form.SetDisabled(true)
	m.StatusMsg = ""
	return ExecuteCallCmd(m.Controller.Tracker(), call)
}

// removeIngredient issues the remove call for the given id
func (m *Model) removeIngredient(id string) tea.Cmd {
	call := m.Controller.RemoveIngredient(id)
	m.Form.SetDisabled(true)
	m.StatusMsg = ""
	return ExecuteCallCmd(m.Controller.Tracker(), call)
}

// errorMessage returns the error to show in the modal. Store call errors
// take precedence over search errors.
func (m Model) errorMessage() string {
	if msg, ok := m.Controller.ErrorMessage(); ok {
		return msg
	}
	return m.SearchErr
}

// dismissError closes the visible error without retrying anything
func (m *Model) dismissError() {
	if _, ok := m.Controller.ErrorMessage(); ok {
		m.Controller.ClearError()
		return
	}
	m.SearchErr = ""
}

// setFocus moves keyboard focus to pane
func (m *Model) setFocus(pane Pane) tea.Cmd {
	m.Focus = pane
	m.Form.Blur()
	m.SearchBar.Blur()
	m.List.SetFocused(pane == PaneList)

	switch pane {
	case PaneForm:
		return m.Form.Focus()
	case PaneSearch:
		return m.SearchBar.Focus()
	}
	return nil
}

func (m *Model) updateLayout() {
	width := min(m.Width, maxWidth)
	m.Form.SetWidth(width)
	m.SearchBar.SetWidth(width)

	listHeight := m.Height - headerHeight - formHeight - searchHeight - footerHeight
	m.List.SetSize(width, max(listHeight, 5))
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.ShowHelp {
		return m.renderHelp()
	}

	header := styles.TitleStyle.Render("Larder")
	if m.Controller.IsLoading() {
		header += " " + RenderSpinner(m.SpinnerFrame)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.Form.View(),
		m.SearchBar.View(),
		m.List.View(),
	)
	view := lipgloss.JoinVertical(lipgloss.Left, body, m.renderFooter())

	if msg := m.errorMessage(); msg != "" {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			components.RenderErrorModal(msg))
	}

	return view
}

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter() string {
	var left string
	switch {
	case m.Controller.IsLoading():
		left = RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render("Saving...")
	case m.Searching:
		left = RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render("Searching...")
	case m.StatusMsg != "":
		left = styles.SuccessStyle.Render(m.StatusMsg)
	}

	var hints []string
	switch m.Focus {
	case PaneForm:
		hints = []string{hint("tab", "next field"), hint("enter", "add"), hint("esc", "list")}
	case PaneSearch:
		hints = []string{hint("tab", "complete"), hint("enter", "search now"), hint("esc", "list")}
	default:
		hints = []string{hint("a", "add"), hint("f", "filter"), hint("x", "delete")}
	}
	center := strings.Join(hints, "  ")

	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	width := min(m.Width, maxWidth)
	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= width {
		gap := max(width-leftWidth-rightWidth, 0)
		return left + strings.Repeat(" ", gap) + right
	}

	available := width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

func hint(key, desc string) string {
	return styles.AccentStyle.Render(key) + styles.DimStyle.Render(" "+desc)
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
LIST                            FORM
  j/k        Up/down              tab        Next field
  g/G        First/last           enter      Next / add
  /          Fuzzy filter list    esc        Back to list
  x/d        Delete ingredient
  a          Add ingredient     FILTER BY TITLE
  f          Filter by title      tab        Accept suggestion
  r          Reload               enter      Search now
  q          Quit                 esc        Back to list

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}
