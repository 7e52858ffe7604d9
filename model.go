package guichet

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"guichet/confirm"
	nt "guichet/entity"
	"guichet/filter"
	"guichet/grid"
	"guichet/message"
	"guichet/prefs"
	"guichet/style"
)

const (
	footerHeight = 2
	tabsHeight   = 1
	alertTimeout = 4 * time.Second
)

// alertExpiredMsg clears the footer alert.
type alertExpiredMsg struct{}

// Model is the bubbletea model for the admin console.
type Model struct {
	store  Store
	layout *Layout
	prefs  *prefs.Prefs
	logger nt.Logger
	ctx    context.Context

	screen  Screen
	current nt.Kind
	grids   map[nt.Kind]grid.GridPanel

	filterPanel  filter.FilterPanel
	confirmPanel confirm.ConfirmPanel

	deleteKind nt.Kind
	deleteRow  nt.Row

	alert    string
	selected int
	total    int

	width  int
	height int
}

// NewModel creates the console model from the layout.
func NewModel(ctx context.Context, store Store, layout *Layout, lgr nt.Logger) (model Model, err error) {

	pf := prefs.New()

	grids := map[nt.Kind]grid.GridPanel{}
	for _, gl := range layout.Grids {
		var spec nt.KindSpec
		spec, err = nt.SpecFor(gl.Kind)
		if err != nil {
			return
		}
		grids[gl.Kind] = grid.NewGridPanel(ctx, spec, gl.Columns, gl.Preset, gl.DefaultSort.Sort(), pf, lgr)
	}

	model = Model{
		store:        store,
		layout:       layout,
		prefs:        pf,
		logger:       lgr,
		ctx:          ctx,
		screen:       GridScreen,
		current:      layout.Grids[0].Kind,
		grids:        grids,
		filterPanel:  filter.NewFilterPanel(ctx, lgr),
		confirmPanel: confirm.NewConfirmPanel(ctx, lgr),
	}

	return
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {

	switch msg := msg.(type) {

	case message.SearchMsg:
		return m, m.search(msg)

	case grid.PageMsg:
		return m.routeKind(msg.Kind, msg)

	case grid.FetchFailedMsg:
		m.logger.Error(m.ctx, "fetch failed", msg.Err, "grid", msg.Kind)
		return m.routeKind(msg.Kind, msg)

	case message.SelectedMsg:
		m.selected = msg.Row
		m.total = msg.Total
		return m, nil

	case message.ErrorMsg:
		m.logger.Error(m.ctx, "error msg", msg.Err)
		m.alert = msg.Err.Error()
		return m, m.expireAlert()

	case message.AlertMsg:
		m.alert = msg.Text
		return m, m.expireAlert()

	case alertExpiredMsg:
		m.alert = ""
		return m, nil

	case message.OpenFilterMsg:
		m.screen = FilterScreen
		var cmd tea.Cmd
		m.filterPanel, cmd = m.filterPanel.Update(msg)
		return m, cmd

	case message.SetViewMsg:
		m.screen = GridScreen
		return m.routeKind(msg.Kind, msg)

	case message.OpenConfirmMsg:
		m.screen = ConfirmScreen
		var cmd tea.Cmd
		m.confirmPanel, cmd = m.confirmPanel.Update(msg)
		return m, cmd

	case message.CheckDependentsMsg:
		return m, m.checkDependents(msg)

	case message.DependentsMsg:
		return m.openDeleteGate(msg)

	case message.ConfirmedMsg:
		m.screen = GridScreen
		if msg.Kind == nt.ConfirmDelete {
			return m, m.deleteIntent(msg.Audit)
		}
		return m.routeKind(m.current, msg)

	case message.DeclinedMsg:
		m.screen = GridScreen
		return m.routeKind(m.current, msg)

	case message.UpdateMsg:
		return m, m.runUpdate(msg)

	case message.SavedMsg:
		return m.mutationDone(msg.Kind, "update", msg)

	case message.DeleteMsg:
		return m, m.runDelete(msg)

	case message.DeletedMsg:
		return m.mutationDone(msg.Kind, "delete", msg)

	case message.MutationFailedMsg:
		m.logger.Error(m.ctx, "mutation failed", msg.Err, "grid", msg.Kind, "action", msg.Action)
		model, cmd := m.routeKind(msg.Kind, msg)
		return model, tea.Batch(cmd, m.failureAlert(msg))

	case tea.WindowSizeMsg:
		return m.resize(msg)

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) View() tea.View {
	if m.width == 0 {
		return tea.NewView("Loading...")
	}

	cur := m.grids[m.current]
	content := m.renderTabs() + "\n" + cur.Render()
	screenLayer := lipgloss.NewLayer("screen", content)

	footerContent := RenderFooter(m.selected, m.total, m.alert, m.store.Name(), m.width)
	footerLayer := lipgloss.NewLayer("footer", footerContent).Y(m.height - footerHeight)

	canvas := lipgloss.NewCanvas(m.width, m.height)
	canvas.Compose(screenLayer)
	canvas.Compose(footerLayer)

	switch m.screen {
	case FilterScreen:
		canvas.Compose(m.modalLayer("filter", m.filterPanel.View()))
	case ConfirmScreen:
		canvas.Compose(m.modalLayer("confirm", m.confirmPanel.View()))
	}

	view := tea.NewView(canvas)
	view.AltScreen = true
	return view
}

// unexported

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {

	if m.alert != "" {
		m.alert = ""
	}

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.screen {

	case FilterScreen:
		if msg.String() == "esc" && !m.filterPanel.EditingValue() {
			m.screen = GridScreen
			return m, nil
		}
		var cmd tea.Cmd
		m.filterPanel, cmd = m.filterPanel.Update(msg)
		return m, cmd

	case ConfirmScreen:
		var cmd tea.Cmd
		m.confirmPanel, cmd = m.confirmPanel.Update(msg)
		return m, cmd
	}

	if !m.grids[m.current].Capturing() {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			return m.nextGrid()
		}
	}

	return m.routeKind(m.current, msg)
}

func (m Model) routeKind(kind nt.Kind, msg tea.Msg) (Model, tea.Cmd) {

	pnl, ok := m.grids[kind]
	if !ok {
		return m, nil
	}

	pnl, cmd := pnl.Update(msg)
	m.grids[kind] = pnl
	return m, cmd
}

func (m Model) nextGrid() (Model, tea.Cmd) {

	kinds := m.kinds()
	for i, kind := range kinds {
		if kind == m.current {
			m.current = kinds[(i+1)%len(kinds)]
			break
		}
	}

	// Wake the incoming grid with its panel size so it fetches
	return m.routeKind(m.current, grid.SizeMsg{
		Width:  m.width,
		Height: m.panelHeight(),
	})
}

func (m Model) kinds() []nt.Kind {
	var kinds []nt.Kind
	for _, gl := range m.layout.Grids {
		kinds = append(kinds, gl.Kind)
	}
	return kinds
}

func (m Model) resize(msg tea.WindowSizeMsg) (Model, tea.Cmd) {

	m.width = msg.Width
	m.height = msg.Height

	var cmds []tea.Cmd
	size := grid.SizeMsg{Width: msg.Width, Height: m.panelHeight()}
	for kind := range m.grids {
		var cmd tea.Cmd
		m, cmd = m.routeKind(kind, size)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.filterPanel, cmd = m.filterPanel.Update(filter.SizeMsg{Width: msg.Width, Height: msg.Height})
	cmds = append(cmds, cmd)
	m.confirmPanel, cmd = m.confirmPanel.Update(confirm.SizeMsg{Width: msg.Width, Height: msg.Height})
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) panelHeight() int {
	return m.height - footerHeight - tabsHeight
}

func (m Model) renderTabs() string {

	var tabs []string
	for _, kind := range m.kinds() {
		spec, err := nt.SpecFor(kind)
		if err != nil {
			continue
		}
		label := " " + spec.Title + " "
		if kind == m.current {
			label = style.SelectedStyle.Render(label)
		} else {
			label = style.MutedStyle.Render(label)
		}
		tabs = append(tabs, label)
	}

	return strings.Join(tabs, " ")
}

func (m Model) modalLayer(name, dialog string) *lipgloss.Layer {

	hPad := (m.width - lipgloss.Width(dialog)) / 2
	vPad := (m.height - lipgloss.Height(dialog)) / 2
	if hPad < 0 {
		hPad = 0
	}
	if vPad < 0 {
		vPad = 0
	}

	return lipgloss.NewLayer(name, dialog).X(hPad).Y(vPad)
}

func (m Model) openDeleteGate(msg message.DependentsMsg) (Model, tea.Cmd) {

	spec, err := nt.SpecFor(msg.Kind)
	if err != nil {
		return m, message.ErrorCmd(err)
	}

	m.deleteKind = msg.Kind
	m.deleteRow = msg.Row

	request := nt.ConfirmationRequest{
		Kind:       nt.ConfirmDelete,
		EntityKind: msg.Kind,
		Subject:    fmt.Sprintf("%s %s", spec.Title, msg.Row.Id),
		Blockers:   msg.Blockers,
	}
	return m, func() tea.Msg {
		return message.OpenConfirmMsg{Request: request}
	}
}

func (m Model) deleteIntent(audit nt.Audit) tea.Cmd {

	spec, err := nt.SpecFor(m.deleteKind)
	if err != nil {
		return message.ErrorCmd(err)
	}

	input := nt.DeleteInput{
		Kind:  m.deleteKind,
		Id:    m.deleteRow.Id,
		Audit: audit,
	}
	if spec.DeleteExtras != nil {
		input.Extras = spec.DeleteExtras(m.deleteRow)
	}

	return func() tea.Msg {
		return message.DeleteMsg{Input: input}
	}
}

func (m Model) mutationDone(kind nt.Kind, action string, msg tea.Msg) (Model, tea.Cmd) {

	model, cmd := m.routeKind(kind, msg)

	spec, err := nt.SpecFor(kind)
	if err != nil {
		return model, cmd
	}

	return model, tea.Batch(cmd, message.AlertCmd(spec.Success(action)))
}

func (m Model) failureAlert(msg message.MutationFailedMsg) tea.Cmd {

	spec, err := nt.SpecFor(msg.Kind)
	if err != nil {
		return message.ErrorCmd(err)
	}

	return message.AlertCmd(fmt.Sprintf("%s: %s", spec.Failure(msg.Action), msg.Err.Error()))
}

func (m Model) expireAlert() tea.Cmd {
	return tea.Tick(alertTimeout, func(time.Time) tea.Msg {
		return alertExpiredMsg{}
	})
}
