package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/marcus/wayfind/internal/gate"
	"github.com/marcus/wayfind/internal/models"
	"github.com/marcus/wayfind/internal/session"
	"github.com/marcus/wayfind/pkg/tui/keymap"
)

// onboardingState backs the interests screen. selected is bound to the
// multi-select, so the form writes into it directly.
type onboardingState struct {
	categories []models.Category
	selected   []string
	form       *huh.Form
	loading    bool
	saving     bool
	err        error
}

func (m Model) enterOnboarding() (Model, tea.Cmd) {
	st := &onboardingState{selected: m.session.Snapshot().SelectedCategories}
	if m.Onboarding != nil {
		st.categories = m.Onboarding.categories
	}
	m.Onboarding = st
	if len(st.categories) == 0 {
		st.loading = true
		return m, m.fetchCategories()
	}
	return m, m.buildForm()
}

func (m Model) fetchCategories() tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		cats, err := backend.ListCategories(ctx)
		return categoriesLoadedMsg{Categories: cats, Err: err}
	}
}

// buildForm (re)creates the category multi-select from the current state.
func (m Model) buildForm() tea.Cmd {
	st := m.Onboarding
	picked := make(map[string]bool, len(st.selected))
	for _, id := range st.selected {
		picked[id] = true
	}
	opts := make([]huh.Option[string], 0, len(st.categories))
	for _, c := range st.categories {
		label := c.Label
		if label == "" {
			label = c.ID
		}
		opts = append(opts, huh.NewOption(label, c.ID).Selected(picked[c.ID]))
	}

	st.form = huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[string]().
			Title("What are you into?").
			Description(fmt.Sprintf("Pick at least %d. Space toggles, enter saves.", session.MinCategories)).
			Options(opts...).
			Value(&st.selected).
			Validate(validateCategories),
	)).WithShowHelp(true).WithWidth(m.formWidth())
	st.form.WithTheme(huh.ThemeCharm())
	return st.form.Init()
}

func validateCategories(ids []string) error {
	if len(ids) < session.MinCategories {
		return fmt.Errorf("pick at least %d categories (%d selected)", session.MinCategories, len(ids))
	}
	return nil
}

func (m Model) formWidth() int {
	w := m.Width - 4
	if w > 70 {
		w = 70
	}
	if w < 30 {
		w = 30
	}
	return w
}

func (m Model) handleCategoriesLoaded(msg categoriesLoadedMsg) (tea.Model, tea.Cmd) {
	st := m.Onboarding
	if st == nil {
		return m, nil
	}
	st.loading = false
	if msg.Err != nil {
		st.err = msg.Err
		m.logger.Debug("tui: list categories failed", "err", msg.Err)
		return m.setStatus("Could not load categories: "+msg.Err.Error(), true)
	}
	st.err = nil
	st.categories = msg.Categories
	if m.Screen != ScreenOnboarding {
		return m, nil
	}
	return m, m.buildForm()
}

// handleFormUpdate handles all messages when the category form is showing
func (m Model) handleFormUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	st := m.Onboarding
	if keyMsg, ok := msg.(tea.KeyMsg); ok && !keymap.IsPrintable(keyMsg) {
		if cmd, found := m.Keymap.Lookup(keyMsg, keymap.ContextOnboarding); found {
			if cmd == keymap.CmdCancel || cmd == keymap.CmdQuit {
				return m.executeCommand(cmd)
			}
		}
	}

	form, cmd := st.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		st.form = f
	}

	switch st.form.State {
	case huh.StateCompleted:
		st.form = nil
		return m.submitProfile(st.selected)
	case huh.StateAborted:
		return m.executeCommand(keymap.CmdCancel)
	}
	return m, cmd
}

// submitProfile sends the picked categories to the backend.
func (m Model) submitProfile(ids []string) (Model, tea.Cmd) {
	if err := validateCategories(ids); err != nil {
		var cmd tea.Cmd
		m, cmd = m.setStatus(err.Error(), true)
		return m, tea.Batch(cmd, m.buildForm())
	}
	m.Onboarding.saving = true
	ids = append([]string(nil), ids...)
	ctx, backend := m.ctx, m.backend
	choices := models.ChoicesFromCategories(ids)
	return m, func() tea.Msg {
		id, err := backend.CreateOrUpdateProfile(ctx, choices)
		return profileSavedMsg{ProfileID: id, Categories: ids, Err: err}
	}
}

func (m Model) handleProfileSaved(msg profileSavedMsg) (tea.Model, tea.Cmd) {
	if m.Onboarding != nil {
		m.Onboarding.saving = false
	}
	rebuild := func(m Model, status string, isError bool) (tea.Model, tea.Cmd) {
		m, cmd := m.setStatus(status, isError)
		if m.Screen == ScreenOnboarding && m.Onboarding != nil {
			return m, tea.Batch(cmd, m.buildForm())
		}
		return m, cmd
	}

	if msg.Err != nil {
		m.logger.Debug("tui: save profile failed", "err", msg.Err)
		return rebuild(m, "Could not save interests: "+msg.Err.Error(), true)
	}

	hadUser := m.session.UserID() != ""
	if err := m.session.SetSelectedCategories(msg.Categories); err != nil {
		return rebuild(m, "Could not store interests: "+err.Error(), true)
	}
	if msg.ProfileID != "" {
		if err := m.session.SetUserID(msg.ProfileID); err != nil {
			return rebuild(m, "Could not store profile: "+err.Error(), true)
		}
	}
	m.logger.Info("tui: interests saved", "profile", msg.ProfileID, "categories", len(msg.Categories))

	if hadUser {
		return rebuild(m, "Interests updated", false)
	}
	m, navCmd := m.navigate(gate.PathSwipe)
	m, statusCmd := m.setStatus("Interests saved. Start swiping!", false)
	return m, tea.Batch(navCmd, statusCmd)
}

func (m Model) onboardingCommand(cmd keymap.Command) (tea.Model, tea.Cmd) {
	if cmd == keymap.CmdCancel {
		return m.navigate(gate.PathHome)
	}
	return m, nil
}

func (m Model) viewOnboarding() string {
	st := m.Onboarding
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Your interests"))
	sb.WriteString("\n\n")

	switch {
	case st == nil || st.loading:
		sb.WriteString(m.Spinner.View() + " Loading categories...")
	case st.saving:
		sb.WriteString(m.Spinner.View() + " Saving...")
	case st.err != nil && len(st.categories) == 0:
		sb.WriteString(statusErrStyle.Render("Categories are unavailable."))
		sb.WriteString("\n" + subtleStyle.Render("Press r to retry."))
	case len(st.categories) == 0:
		sb.WriteString(subtleStyle.Render("No categories to pick from yet."))
	case st.form != nil:
		sb.WriteString(st.form.View())
	}
	return sb.String()
}
