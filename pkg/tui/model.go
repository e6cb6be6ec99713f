// Package tui is the interactive wayfind client: a small router over five
// screens (home, interests, swipe, map and places) built on bubbletea.
package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/wayfind/internal/deck"
	"github.com/marcus/wayfind/internal/gate"
	"github.com/marcus/wayfind/internal/mapview"
	"github.com/marcus/wayfind/internal/models"
	"github.com/marcus/wayfind/internal/places"
	"github.com/marcus/wayfind/internal/session"
	"github.com/marcus/wayfind/internal/slider"
	"github.com/marcus/wayfind/pkg/tui/keymap"
)

// DefaultStatusTimeout is how long a status message stays on screen.
const DefaultStatusTimeout = 3 * time.Second

// Options configures a Model.
type Options struct {
	Context     context.Context
	Session     *session.Store
	Backend     Backend
	Cache       DecisionCache // optional
	Keys        map[string]string
	DeckLimit   int
	RetryDelays []time.Duration
	StartPath   string
	Logger      *slog.Logger
	// StatusTimeout of zero keeps status messages until replaced.
	StatusTimeout time.Duration
}

// Model is the bubbletea model for the whole app.
type Model struct {
	ctx     context.Context
	session *session.Store
	backend Backend
	cache   DecisionCache
	logger  *slog.Logger
	Keymap  *keymap.Registry

	// Routing
	Path   string
	Screen Screen

	// Window dimensions
	Width  int
	Height int

	HelpOpen      bool
	StatusMessage string
	StatusIsError bool
	statusSeq     int
	statusTimeout time.Duration

	// Shared data
	Pois        []models.Poi
	PoisLoaded  bool
	poisLoading bool
	Mine        []models.Decision

	// Swipe screen
	Deck        *deck.Deck
	loader      *deck.Loader
	deckLimit   int
	swipeCancel context.CancelFunc
	deckSeq     int
	DeckLoading bool
	drag        *dragState
	now         func() time.Time

	// Home screen
	Carousel *slider.Slider

	// Onboarding screen
	Onboarding *onboardingState

	// Map screen
	Map       *mapview.Coordinator
	MapCursor int
	mapPoiID  string
	Neighbors *slider.Slider
	Detail    viewport.Model
	detailID  string

	// Places screen
	Query        places.Query
	PlacesCursor int
	SearchMode   bool
	SearchInput  textinput.Model

	Spinner spinner.Model
	initCmd tea.Cmd
}

// New builds the model and resolves the start path through the gate.
func New(opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.DeckLimit <= 0 {
		opts.DeckLimit = 10
	}
	if opts.StartPath == "" {
		opts.StartPath = gate.PathHome
	}

	km := keymap.NewRegistry()
	keymap.RegisterDefaults(km)
	for _, s := range keymap.ApplyConfig(km, opts.Keys) {
		opts.Logger.Warn("tui: ignoring key override", "binding", s)
	}

	searchInput := textinput.New()
	searchInput.Placeholder = "search places"
	searchInput.Prompt = "/ "
	searchInput.CharLimit = 100
	searchInput.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = cursorStyle

	d := deck.New(opts.Session, opts.Backend, opts.Logger)

	m := Model{
		ctx:           opts.Context,
		session:       opts.Session,
		backend:       opts.Backend,
		cache:         opts.Cache,
		logger:        opts.Logger,
		Keymap:        km,
		Width:         defaultWidth,
		Height:        defaultHeight,
		statusTimeout: opts.StatusTimeout,
		Deck:          d,
		loader:        deck.NewLoader(opts.Backend, d, opts.RetryDelays, opts.Logger),
		deckLimit:     opts.DeckLimit,
		now:           time.Now,
		Carousel:      slider.New(0),
		Map:           mapview.New(),
		Neighbors:     slider.New(0),
		Detail:        viewport.New(defaultWidth, defaultHeight),
		Query:         places.Query{CategoryID: places.AllCategories, Sort: places.SortDefault},
		SearchInput:   searchInput,
		Spinner:       sp,
		Screen:        -1,
	}

	m.resizeDetail()
	m, m.initCmd = m.navigate(opts.StartPath)
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.initCmd, m.Spinner.Tick)
}

// Close tears down screen-scoped work such as pending deck loads.
func (m Model) Close() {
	if m.swipeCancel != nil {
		m.swipeCancel()
	}
}

// navigate runs the gate for path and mounts the screen it lands on.
func (m Model) navigate(location string) (Model, tea.Cmd) {
	path, poiID := mapview.ParseLocation(location)
	decision := gate.Guard(m.session, path)
	target := decision.Target()
	if !decision.Allowed {
		m.logger.Debug("tui: navigation redirected", "path", decision.Path, "to", target)
		poiID = ""
	}

	prev := m.Screen
	m.Path = target
	m.Screen = screenFor(target)
	m.Keymap.ResetPending()

	if prev == ScreenSwipe && m.Screen != ScreenSwipe {
		m.leaveSwipe()
	}
	if m.Screen == ScreenMap {
		m.mapPoiID = poiID
		if poiID != "" {
			m.Path = mapview.Location(poiID)
		}
	}
	if prev == m.Screen {
		if m.Screen == ScreenMap {
			m.syncMap()
		}
		return m, nil
	}
	return m.enterScreen()
}

// enterScreen starts whatever the mounted screen needs.
func (m Model) enterScreen() (Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch m.Screen {
	case ScreenHome, ScreenPlaces:
		cmds = append(cmds, m.ensurePois())
	case ScreenMap:
		cmds = append(cmds, m.ensurePois(), m.loadDecisions())
		m.syncMap()
	case ScreenSwipe:
		var cmd tea.Cmd
		m, cmd = m.enterSwipe()
		cmds = append(cmds, cmd)
	case ScreenOnboarding:
		var cmd tea.Cmd
		m, cmd = m.enterOnboarding()
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// ensurePois fetches the POI list once.
func (m *Model) ensurePois() tea.Cmd {
	if m.PoisLoaded || m.poisLoading {
		return nil
	}
	m.poisLoading = true
	return m.fetchPois()
}

func (m Model) fetchPois() tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		pois, err := backend.ListPois(ctx)
		return poisLoadedMsg{Pois: pois, Err: err}
	}
}

// loadDecisions fetches the user's past decisions for marker state.
func (m Model) loadDecisions() tea.Cmd {
	userID := m.session.UserID()
	if userID == "" {
		return nil
	}
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		decisions, err := backend.ListUserDecisions(ctx, userID)
		return decisionsLoadedMsg{Decisions: decisions, Err: err}
	}
}

// setStatus shows a status line and schedules its removal.
func (m Model) setStatus(text string, isError bool) (Model, tea.Cmd) {
	m.statusSeq++
	m.StatusMessage = text
	m.StatusIsError = isError
	if m.statusTimeout <= 0 {
		return m, nil
	}
	seq := m.statusSeq
	return m, tea.Tick(m.statusTimeout, func(time.Time) tea.Msg { return ClearStatusMsg{Seq: seq} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The category form gets every message while it is showing.
	if m.Screen == ScreenOnboarding && m.Onboarding != nil && m.Onboarding.form != nil && !m.HelpOpen {
		if _, isSize := msg.(tea.WindowSizeMsg); !isSize && !isDomainMsg(msg) {
			return m.handleFormUpdate(msg)
		}
	}

	// Search mode: forward non-key messages to textinput (cursor blink, etc.)
	if m.SearchMode {
		if _, isKey := msg.(tea.KeyMsg); !isKey && !isDomainMsg(msg) {
			var inputCmd tea.Cmd
			m.SearchInput, inputCmd = m.SearchInput.Update(msg)
			if inputCmd != nil {
				return m, inputCmd
			}
		}
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.resizeDetail()
		if m.Onboarding != nil && m.Onboarding.form != nil {
			m.Onboarding.form = m.Onboarding.form.WithWidth(m.formWidth())
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.StatusMessage = ""
			m.StatusIsError = false
		}
		return m, nil

	case poisLoadedMsg:
		m.poisLoading = false
		if msg.Err != nil {
			m.logger.Debug("tui: list pois failed", "err", msg.Err)
			return m.setStatus("Could not load places: "+msg.Err.Error(), true)
		}
		m.Pois = msg.Pois
		m.PoisLoaded = true
		m.Map.SetPois(msg.Pois)
		m.Carousel.SetTotal(len(m.homeSlides()))
		m.clampPlacesCursor()
		m.syncMap()
		return m, nil

	case decisionsLoadedMsg:
		if msg.Err != nil {
			m.logger.Debug("tui: list decisions failed", "err", msg.Err)
			return m, nil
		}
		m.Mine = mergeDecisions(msg.Decisions, m.Mine)
		m.Map.SetMine(m.Mine)
		return m, nil

	case categoriesLoadedMsg:
		return m.handleCategoriesLoaded(msg)

	case profileSavedMsg:
		return m.handleProfileSaved(msg)

	case deckLoadedMsg:
		return m.handleDeckLoaded(msg)

	case decisionDoneMsg:
		return m.handleDecisionDone(msg)
	}

	return m, nil
}

func isDomainMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case poisLoadedMsg, decisionsLoadedMsg, categoriesLoadedMsg, profileSavedMsg,
		deckLoadedMsg, decisionDoneMsg, ClearStatusMsg, spinner.TickMsg:
		return true
	}
	return false
}

// mergeDecisions adds extra to base, skipping POIs base already has.
func mergeDecisions(base, extra []models.Decision) []models.Decision {
	out := append([]models.Decision(nil), base...)
	seen := models.DecisionIDs(base)
	for _, d := range extra {
		if !seen[d.PoiID] {
			out = append(out, d)
			seen[d.PoiID] = true
		}
	}
	return out
}

// currentContext returns the keymap context based on current UI state
func (m Model) currentContext() keymap.Context {
	if m.HelpOpen {
		return keymap.ContextHelp
	}
	if m.SearchMode {
		return keymap.ContextSearch
	}
	return m.Screen.context()
}

// handleKey processes key input using the centralized keymap registry
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := m.currentContext()

	if ctx == keymap.ContextSearch {
		// Printable keys always type; lookup would find global bindings like q.
		if !keymap.IsPrintable(msg) {
			if cmd, found := m.Keymap.Lookup(msg, ctx); found {
				return m.executeCommand(cmd)
			}
		}
		var inputCmd tea.Cmd
		m.SearchInput, inputCmd = m.SearchInput.Update(msg)
		if q := m.SearchInput.Value(); q != m.Query.Search {
			m.Query.Search = q
			m.PlacesCursor = 0
		}
		return m, inputCmd
	}

	cmd, found := m.Keymap.Lookup(msg, ctx)
	if !found {
		return m, nil
	}
	return m.executeCommand(cmd)
}

// executeCommand executes a keymap command and returns the updated model and any tea.Cmd
func (m Model) executeCommand(cmd keymap.Command) (tea.Model, tea.Cmd) {
	switch cmd {
	case keymap.CmdQuit:
		m.Close()
		return m, tea.Quit

	case keymap.CmdToggleHelp:
		m.HelpOpen = !m.HelpOpen
		return m, nil

	case keymap.CmdRefresh:
		return m.refresh()

	case keymap.CmdGoHome:
		return m.navigate(gate.PathHome)
	case keymap.CmdGoSwipe:
		return m.navigate(gate.PathSwipe)
	case keymap.CmdGoMap:
		return m.navigate(gate.PathMap)
	case keymap.CmdGoPlaces:
		return m.navigate(gate.PathPlaces)
	case keymap.CmdGoOnboarding:
		return m.navigate(gate.PathOnboarding)
	}

	switch m.Screen {
	case ScreenHome:
		return m.homeCommand(cmd)
	case ScreenOnboarding:
		return m.onboardingCommand(cmd)
	case ScreenSwipe:
		return m.swipeCommand(cmd)
	case ScreenMap:
		return m.mapCommand(cmd)
	case ScreenPlaces:
		return m.placesCommand(cmd)
	}
	return m, nil
}

// refresh reloads the data behind the current screen.
func (m Model) refresh() (Model, tea.Cmd) {
	switch m.Screen {
	case ScreenSwipe:
		return m.enterSwipe()
	case ScreenOnboarding:
		return m.enterOnboarding()
	case ScreenMap:
		m.poisLoading = true
		return m, tea.Batch(m.fetchPois(), m.loadDecisions())
	default:
		m.poisLoading = true
		return m, m.fetchPois()
	}
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch m.Screen {
	case ScreenSwipe:
		return m.swipeMouse(msg)
	case ScreenHome:
		return m.homeMouse(msg)
	case ScreenMap:
		if msg.Button == tea.MouseButtonWheelDown || msg.Button == tea.MouseButtonWheelUp {
			var cmd tea.Cmd
			m.Detail, cmd = m.Detail.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}
