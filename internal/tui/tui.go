// Package tui is the interactive terminal client.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todos/internal/mirror"
	"todos/internal/models"
)

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEdit
)

// loadedMsg reports the end of a (re)load.
type loadedMsg struct{ err error }

// opDoneMsg reports the end of a mutation.
type opDoneMsg struct {
	op  string
	err error
}

// Model is the bubbletea model. All state about todos lives in the
// controller; the model only holds presentation state.
type Model struct {
	ctx  context.Context
	ctrl *mirror.Controller

	filter  models.Filter
	cursor  int
	mode    mode
	editID  string
	input   textinput.Model
	status  string
	pending int

	keys keyMap
	help help.Model
}

// New returns a model that renders ctrl. Requests run with ctx.
func New(ctx context.Context, ctrl *mirror.Controller) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 500

	return Model{
		ctx:    ctx,
		ctrl:   ctrl,
		filter: models.FilterAll,
		input:  ti,
		keys:   defaultKeyMap(),
		help:   help.New(),
	}
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, ctrl *mirror.Controller) error {
	p := tea.NewProgram(New(ctx, ctrl), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return loadedMsg{err: ctrl.Load(ctx)}
	}
}

// run performs a controller operation off the update loop. It counts the
// operation as pending, so callers must return m after calling it.
func (m *Model) run(op string, fn func(ctx context.Context, ctrl *mirror.Controller) error) tea.Cmd {
	m.pending++
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(ctx, ctrl)}
	}
}

func failureStatus(op string, err error) string {
	var bulk *mirror.BulkDeleteError
	if mirror.IsPartialFailure(err) && errors.As(err, &bulk) {
		return fmt.Sprintf("%s: %d of %d deletes failed", op, len(bulk.Failed), bulk.Attempted)
	}
	return fmt.Sprintf("%s failed: %v", op, err)
}

// visible returns the current filtered view.
func (m Model) visible() []models.Todo {
	return m.ctrl.Snapshot().View(m.filter)
}

func (m Model) selected() (models.Todo, bool) {
	view := m.visible()
	if m.cursor < 0 || m.cursor >= len(view) {
		return models.Todo{}, false
	}
	return view[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.status = "load failed: " + msg.err.Error()
		}
		m.clampCursor()
		return m, nil

	case opDoneMsg:
		if m.pending > 0 {
			m.pending--
		}
		if msg.err != nil {
			m.status = failureStatus(msg.op, msg.err)
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		if m.mode != modeBrowse {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		m.input.SetValue("")
		return m, nil

	case tea.KeyEnter:
		text := m.input.Value()
		if strings.TrimSpace(text) == "" {
			// Blank input is ignored, as in the web client.
			return m, nil
		}

		var cmd tea.Cmd
		if m.mode == modeAdd {
			cmd = m.run("add", func(ctx context.Context, ctrl *mirror.Controller) error {
				_, err := ctrl.Create(ctx, text)
				return err
			})
		} else {
			id := m.editID
			cmd = m.run("edit", func(ctx context.Context, ctrl *mirror.Controller) error {
				_, err := ctrl.Edit(ctx, id, text)
				return err
			})
		}

		m.mode = modeBrowse
		m.input.Blur()
		m.input.SetValue("")
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// Nothing but quit works until the first list has arrived.
	if m.ctrl.Snapshot().State == mirror.StateLoading {
		return m, nil
	}

	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		m.input.Placeholder = "Add a new task..."
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Edit):
		todo, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = modeEdit
		m.editID = todo.ID
		m.input.Placeholder = ""
		m.input.SetValue(todo.Task)
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Toggle):
		todo, ok := m.selected()
		if !ok {
			return m, nil
		}
		cmd := m.run("toggle", func(ctx context.Context, ctrl *mirror.Controller) error {
			_, err := ctrl.Toggle(ctx, todo.ID)
			return err
		})
		return m, cmd

	case key.Matches(msg, m.keys.Delete):
		todo, ok := m.selected()
		if !ok {
			return m, nil
		}
		cmd := m.run("delete", func(ctx context.Context, ctrl *mirror.Controller) error {
			return ctrl.Delete(ctx, todo.ID)
		})
		return m, cmd

	case key.Matches(msg, m.keys.Clear):
		cmd := m.run("clear completed", func(ctx context.Context, ctrl *mirror.Controller) error {
			_, err := ctrl.ClearCompleted(ctx)
			return err
		})
		return m, cmd

	case key.Matches(msg, m.keys.Filter):
		m.setFilter(m.filter.Next())
	case key.Matches(msg, m.keys.All):
		m.setFilter(models.FilterAll)
	case key.Matches(msg, m.keys.Active):
		m.setFilter(models.FilterActive)
	case key.Matches(msg, m.keys.Completed):
		m.setFilter(models.FilterCompleted)

	case key.Matches(msg, m.keys.Reload):
		return m, m.load()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m *Model) setFilter(f models.Filter) {
	m.filter = f
	m.cursor = 0
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("My Todo List"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Organize your tasks in style"))
	b.WriteString("\n\n")

	snap := m.ctrl.Snapshot()
	if snap.State == mirror.StateLoading {
		b.WriteString(mutedStyle.Render("Loading tasks..."))
		b.WriteString("\n")
		return panelStyle.Render(b.String())
	}

	active, completed := snap.Counts()
	b.WriteString(fmt.Sprintf("%s active tasks, %s completed",
		pendingStyle.Render(fmt.Sprint(active)),
		successStyle.Render(fmt.Sprint(completed))))
	if m.pending > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  (%d pending)", m.pending)))
	}
	b.WriteString("\n\n")

	view := snap.View(m.filter)
	if len(view) == 0 {
		b.WriteString(mutedStyle.Render("No tasks found. Add a task to get started!"))
		b.WriteString("\n")
	}
	for i, todo := range view {
		b.WriteString(m.renderTodo(todo, i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderFilters())
	b.WriteString("\n")

	if m.mode != modeBrowse {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("✖ " + m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return panelStyle.Render(b.String())
}

func (m Model) renderTodo(todo models.Todo, selected bool) string {
	box, text := mutedStyle.Render(boxUnchecked), todo.Task
	if todo.Completed {
		box, text = successStyle.Render(boxChecked), doneStyle.Render(todo.Task)
	}

	prefix := "  "
	if selected {
		prefix = selectedStyle.Render("> ")
	}
	return prefix + box + " " + text
}

func (m Model) renderFilters() string {
	labels := map[models.Filter]string{
		models.FilterAll:       "All",
		models.FilterActive:    "Active",
		models.FilterCompleted: "Completed",
	}

	parts := make([]string, 0, len(models.Filters))
	for _, f := range models.Filters {
		style := filterStyle
		if f == m.filter {
			style = activeFilterStyle
		}
		parts = append(parts, style.Render(labels[f]))
	}
	return strings.Join(parts, " ")
}
