package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/dexview/internal/catalog"
	"github.com/abelbrown/dexview/internal/engine"
	"github.com/abelbrown/dexview/internal/filter"
	"github.com/abelbrown/dexview/internal/pokeapi"
)

// noticeDuration is how long a transient notice stays on screen.
const noticeDuration = 4 * time.Second

// sortKeys is the cycling order for the sort toggle.
var sortKeys = []filter.SortKey{filter.SortByID, filter.SortByName, filter.SortByCategory}

// sortLabels are the status bar names for each sort key.
var sortLabels = map[filter.SortKey]string{
	filter.SortByID:       "number",
	filter.SortByName:     "name",
	filter.SortByCategory: "type",
}

// App is the root Bubble Tea model.
// IMPORTANT: App never reaches into the engine's state directly; it
// drives mutations through engine methods and receives the recomputed
// view via messages sent by the engine's sinks. Mutations run inside
// commands, never inline in Update, because the sinks call
// Program.Send and would otherwise block the event loop on itself.
type App struct {
	engine       *engine.Engine
	fetchSpecies func(id int) tea.Cmd // nil disables the detail fetch
	compact      bool                 // density_mode "compact" drops the badge column

	search textinput.Model
	spin   spinner.Model

	visible   []catalog.Record
	total     int
	filtered  int
	favCount  int
	empty     bool
	loaded    int
	searching bool

	cursor int
	width  int
	height int
	ready  bool

	categories []string // cycling order: "all" + engine categories
	catIndex   int
	sortIndex  int
	favsOnly   bool

	notice    string
	noticeSeq int

	detail  *catalog.Record // nil when the detail view is closed
	species map[int]pokeapi.SpeciesInfo
}

// NewApp creates the root model. fetchSpecies returns a Cmd that
// resolves to a SpeciesLoaded message for the detail view. density is
// the configured density_mode; anything but "compact" means
// comfortable.
func NewApp(eng *engine.Engine, fetchSpecies func(id int) tea.Cmd, density string) App {
	search := textinput.New()
	search.Placeholder = "name or number"
	search.Prompt = "/ "
	search.CharLimit = 40

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(colorHighlight)

	return App{
		engine:       eng,
		fetchSpecies: fetchSpecies,
		compact:      density == "compact",
		search:       search,
		spin:         spin,
		categories:   []string{filter.CategoryAll},
		species:      make(map[int]pokeapi.SpeciesInfo),
	}
}

// Init starts the spinner; the catalog load is kicked off by main.
func (a App) Init() tea.Cmd {
	return a.spin.Tick
}

// mutate wraps an engine mutation in a command so the engine's sink
// callbacks fire from a command goroutine.
func mutate(fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()
		return nil
	}
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a, nil

	case StateChanged:
		a.visible = msg.Visible
		a.total = msg.Total
		a.filtered = msg.Filtered
		a.favCount = msg.Favorites
		if a.cursor >= len(a.visible) && len(a.visible) > 0 {
			a.cursor = len(a.visible) - 1
		}
		if len(a.visible) == 0 {
			a.cursor = 0
		}
		return a, nil

	case EmptyState:
		a.empty = msg.Empty
		return a, nil

	case LoadProgress:
		a.loaded = msg.Loaded
		return a, nil

	case LoadError:
		return a.showNotice(msg.Message)

	case SpeciesLoaded:
		if msg.Err == nil {
			a.species[msg.ID] = msg.Info
		} else {
			// Degrade to "no description"; the cache entry stops
			// the detail view from re-fetching this session.
			a.species[msg.ID] = pokeapi.SpeciesInfo{}
		}
		return a, nil

	case favoriteToggled:
		if msg.member {
			return a.showNotice(fmt.Sprintf("%s added to favorites", msg.record.DisplayName))
		}
		return a.showNotice(fmt.Sprintf("%s removed from favorites", msg.record.DisplayName))

	case noticeExpired:
		if msg.id == a.noticeSeq {
			a.notice = ""
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd
	}

	return a, nil
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The search input captures keys while focused.
	if a.searching {
		return a.handleSearchKey(msg)
	}

	// The detail view swallows navigation keys while open.
	if a.detail != nil {
		return a.handleDetailKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "/":
		a.searching = true
		a.search.Focus()
		return a, textinput.Blink

	case "j", "down":
		if a.cursor < len(a.visible)-1 {
			a.cursor++
			return a, nil
		}
		// Walking past the end grows the visible prefix.
		return a, mutate(a.engine.NextPage)

	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil

	case "g", "home":
		a.cursor = 0
		return a, nil

	case "G", "end":
		if len(a.visible) > 0 {
			a.cursor = len(a.visible) - 1
		}
		return a, nil

	case "m", "pgdown":
		return a, mutate(a.engine.NextPage)

	case "t":
		a.catIndex = (a.catIndex + 1) % len(a.refreshCategories())
		cat := a.categories[a.catIndex]
		return a, mutate(func() { a.engine.SetCategory(cat) })

	case "s":
		a.sortIndex = (a.sortIndex + 1) % len(sortKeys)
		key := sortKeys[a.sortIndex]
		return a, mutate(func() { a.engine.SetSort(key) })

	case "F":
		a.favsOnly = !a.favsOnly
		on := a.favsOnly
		return a, mutate(func() { a.engine.SetFavoritesOnly(on) })

	case "f":
		return a.toggleFavoriteAtCursor()

	case "enter":
		return a.openDetail()

	case "esc":
		// Clear the search filter when one is active.
		if a.search.Value() != "" {
			a.search.SetValue("")
			return a, mutate(func() { a.engine.SetSearch("") })
		}
		return a, nil
	}

	return a, nil
}

// handleSearchKey routes keys to the focused search input. Every edit
// re-filters immediately; enter confirms, esc clears.
func (a App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.searching = false
		a.search.Blur()
		return a, nil
	case "esc":
		a.searching = false
		a.search.Blur()
		a.search.SetValue("")
		return a, mutate(func() { a.engine.SetSearch("") })
	}

	var cmd tea.Cmd
	before := a.search.Value()
	a.search, cmd = a.search.Update(msg)
	if v := a.search.Value(); v != before {
		query := strings.ToLower(v)
		cmd = tea.Batch(cmd, mutate(func() { a.engine.SetSearch(query) }))
	}
	return a, cmd
}

// handleDetailKey processes keys while the detail view is open.
func (a App) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "enter":
		a.detail = nil
		return a, nil
	case "ctrl+c":
		return a, tea.Quit
	case "f":
		return a.toggleFavorite(*a.detail)
	}
	return a, nil
}

// toggleFavoriteAtCursor toggles the highlighted record.
func (a App) toggleFavoriteAtCursor() (tea.Model, tea.Cmd) {
	if a.cursor >= len(a.visible) {
		return a, nil
	}
	return a.toggleFavorite(a.visible[a.cursor])
}

func (a App) toggleFavorite(r catalog.Record) (tea.Model, tea.Cmd) {
	eng := a.engine
	return a, func() tea.Msg {
		return favoriteToggled{record: r, member: eng.ToggleFavorite(r.ID)}
	}
}

// openDetail opens the detail view for the highlighted record and
// fetches its species description on first open.
func (a App) openDetail() (tea.Model, tea.Cmd) {
	if a.cursor >= len(a.visible) {
		return a, nil
	}
	r := a.visible[a.cursor]
	a.detail = &r

	if _, ok := a.species[r.ID]; !ok && a.fetchSpecies != nil {
		return a, a.fetchSpecies(r.ID)
	}
	return a, nil
}

// showNotice displays a transient notice and schedules its dismissal.
func (a App) showNotice(text string) (tea.Model, tea.Cmd) {
	a.notice = text
	a.noticeSeq++
	id := a.noticeSeq
	return a, tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeExpired{id: id}
	})
}

// refreshCategories rebuilds the category cycle from the loaded set.
func (a *App) refreshCategories() []string {
	a.categories = append([]string{filter.CategoryAll}, a.engine.Categories()...)
	if a.catIndex >= len(a.categories) {
		a.catIndex = 0
	}
	return a.categories
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	if a.detail != nil {
		info, cached := a.species[a.detail.ID]
		return a.renderDetail(*a.detail, info, !cached)
	}

	// Reserve one line each for filter bar and status bar, plus the
	// notice line when present.
	contentHeight := a.height - 2
	if a.notice != "" {
		contentHeight--
	}

	filterBar := a.renderFilterBar()

	var content string
	switch {
	case a.empty:
		content = EmptyStyle.Render("No matches. Press esc to clear the search, or 'F' to leave favorites.")
	case len(a.visible) == 0 && a.engine.Loading():
		content = EmptyStyle.Render(a.spin.View() + " Loading catalog...")
	case len(a.visible) == 0:
		content = EmptyStyle.Render("No records loaded.")
	default:
		content = RenderList(a.visible, a.cursor, a.engine.IsFavorite, a.width, contentHeight, a.compact)
	}

	noticeBar := ""
	if a.notice != "" {
		noticeBar = NoticeStyle.Width(a.width).Render(a.notice) + "\n"
	}

	statusBar := a.renderStatusBar()

	return filterBar + "\n" + content + "\n" + noticeBar + statusBar
}

// renderFilterBar shows the search input or the active filter summary.
func (a App) renderFilterBar() string {
	if a.searching {
		return FilterBar.Width(a.width).Render(a.search.View())
	}

	parts := []string{}
	if v := a.search.Value(); v != "" {
		parts = append(parts, fmt.Sprintf("search:%q", v))
	}
	if cat := a.categories[a.catIndex]; cat != filter.CategoryAll {
		parts = append(parts, "type:"+cat)
	}
	if a.favsOnly {
		parts = append(parts, "favorites")
	}
	summary := "all records"
	if len(parts) > 0 {
		summary = strings.Join(parts, "  ")
	}
	counts := fmt.Sprintf("%d/%d shown", len(a.visible), a.filtered)
	return FilterBar.Width(a.width).Render(summary + "  " + StatusBarText.Render(counts))
}

// renderStatusBar shows progress, counts, and key hints.
func (a App) renderStatusBar() string {
	left := fmt.Sprintf("%d records", a.total)
	if a.engine.Loading() {
		left = fmt.Sprintf("%s loading %d", a.spin.View(), a.loaded)
	}
	left += fmt.Sprintf("  ♥ %d", a.favCount)

	sortName := sortLabels[sortKeys[a.sortIndex]]
	hints := strings.Join([]string{
		StatusBarKey.Render("/") + StatusBarText.Render(" search"),
		StatusBarKey.Render("t") + StatusBarText.Render(" type"),
		StatusBarKey.Render("s") + StatusBarText.Render(" sort:"+sortName),
		StatusBarKey.Render("f") + StatusBarText.Render(" fav"),
		StatusBarKey.Render("F") + StatusBarText.Render(" favs-only"),
		StatusBarKey.Render("m") + StatusBarText.Render(" more"),
		StatusBarKey.Render("q") + StatusBarText.Render(" quit"),
	}, " ")

	return StatusBar.Width(a.width).Render(left + "  " + hints)
}

// Cursor returns the current cursor position (for testing).
func (a App) Cursor() int {
	return a.cursor
}

// Visible returns the currently displayed records (for testing).
func (a App) Visible() []catalog.Record {
	return a.visible
}
