// Package tui implements the interactive single-page workspace: sign-in
// and registration forms plus the protected task view with live search,
// filters, and mutations.
//
// All state lives in the bubbletea model and is mutated only inside the
// event loop; backend calls run as commands and report back as messages.
// Navigation between the views is driven entirely by session status.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"flowlist/internal/notify"
	"flowlist/internal/service"
	"flowlist/internal/session"
	"flowlist/internal/tasks"
	"flowlist/internal/viewfilter"
)

// View identifies the visible page.
type View int

const (
	// ViewLogin is the unauthenticated entry page.
	ViewLogin View = iota

	// ViewRegister is the account-creation page.
	ViewRegister

	// ViewTasks is the protected task workspace.
	ViewTasks
)

const toastDuration = 3 * time.Second

// Messages produced by backend commands.

type authResultMsg struct {
	err        error
	registered bool // account created, chained sign-in failed
}

type verifyResultMsg struct{ err error }

type loadResultMsg struct{ err error }

type mutateResultMsg struct {
	verb string // "created", "updated", "completed", "reopened", "deleted"
	err  error
}

type clearToastMsg struct{}

// Model is the bubbletea model for the whole page.
type Model struct {
	sess   *session.Session
	engine *tasks.Engine

	view View

	// Login / register forms
	loginInputs [2]textinput.Model // email, password
	regInputs   [3]textinput.Model // name, email, password
	formFocus   int

	// Task workspace
	search   textinput.Model
	status   string
	priority string
	cursor   int

	// Inline add/edit form; editID is "" while creating.
	editing    bool
	editID     string
	editInputs [2]textinput.Model
	editPrio   string

	confirmDelete string // task id pending confirmation, "" when none

	// busy disables triggering controls while a call is in flight.
	busy  bool
	toast string
	isErr bool

	width  int
	height int
	quit   bool
}

// New creates the model. The session decides the starting view: a seeded
// token starts on the task page pending verification.
func New(sess *session.Session, engine *tasks.Engine) Model {
	m := Model{
		sess:     sess,
		engine:   engine,
		status:   viewfilter.StatusAll,
		priority: viewfilter.PriorityAll,
		editPrio: service.PriorityMedium,
	}

	email := textinput.New()
	email.Placeholder = "email"
	email.Focus()
	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	m.loginInputs = [2]textinput.Model{email, password}

	name := textinput.New()
	name.Placeholder = "name"
	name.Focus()
	regEmail := textinput.New()
	regEmail.Placeholder = "email"
	regPassword := textinput.New()
	regPassword.Placeholder = "password (min 6 characters)"
	regPassword.EchoMode = textinput.EchoPassword
	m.regInputs = [3]textinput.Model{name, regEmail, regPassword}

	search := textinput.New()
	search.Placeholder = "search tasks"
	m.search = search

	title := textinput.New()
	title.Placeholder = "title"
	desc := textinput.New()
	desc.Placeholder = "description"
	m.editInputs = [2]textinput.Model{title, desc}

	if sess.Status() != session.Unauthenticated {
		m.view = ViewTasks
		m.busy = true
	}
	return m
}

// Init kicks off token verification when a stored session was found.
func (m Model) Init() tea.Cmd {
	if m.view == ViewTasks {
		return m.verifyCmd()
	}
	return textinput.Blink
}

// --- commands -------------------------------------------------------------

func (m Model) verifyCmd() tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		return verifyResultMsg{err: sess.Bootstrap(context.Background())}
	}
}

func (m Model) loginCmd(email, password string) tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		return authResultMsg{err: sess.Login(context.Background(), email, password)}
	}
}

func (m Model) registerCmd(name, email, password string) tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		err := sess.Register(context.Background(), name, email, password)
		if errors.Is(err, session.ErrRegisteredLoginFailed) {
			return authResultMsg{registered: true, err: err}
		}
		return authResultMsg{err: err}
	}
}

func (m Model) loadCmd() tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		return loadResultMsg{err: engine.Load(context.Background())}
	}
}

func (m Model) createCmd(draft service.TaskDraft) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		_, err := engine.Create(context.Background(), draft)
		return mutateResultMsg{verb: "created", err: err}
	}
}

func (m Model) updateCmd(id string, patch service.TaskPatch) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		_, err := engine.Update(context.Background(), id, patch)
		return mutateResultMsg{verb: "updated", err: err}
	}
}

func (m Model) toggleCmd(id string) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		updated, err := engine.ToggleComplete(context.Background(), id)
		verb := "completed"
		if err == nil && !updated.Completed {
			verb = "reopened"
		}
		return mutateResultMsg{verb: verb, err: err}
	}
}

func (m Model) deleteCmd(id string) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		return mutateResultMsg{verb: "deleted", err: engine.Delete(context.Background(), id)}
	}
}

func toastAfter() tea.Cmd {
	return tea.Tick(toastDuration, func(time.Time) tea.Msg { return clearToastMsg{} })
}

// --- notification routing -------------------------------------------------

// modelSink and modelNav let the shared router act on the model.
type modelSink struct{ m *Model }

func (s modelSink) Success(msg string) { s.m.toast, s.m.isErr = msg, false }
func (s modelSink) Error(msg string)   { s.m.toast, s.m.isErr = msg, true }

type modelNav struct{ m *Model }

func (n modelNav) ToLogin() {
	n.m.view = ViewLogin
	n.m.formFocus = 0
	n.m.loginInputs[0].Focus()
	n.m.loginInputs[1].Blur()
}

// routeError applies the single failure policy: auth expiry tears the
// session down and lands on the login page; anything else is a toast.
func (m *Model) routeError(err error, fallback string) {
	router := &notify.Router{
		Session:   m.sess,
		Navigator: modelNav{m: m},
		Sink:      modelSink{m: m},
	}
	router.Handle(err, fallback)
}

// --- update ---------------------------------------------------------------

// Update handles all events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case clearToastMsg:
		m.toast = ""
		return m, nil

	case verifyResultMsg:
		m.busy = false
		if msg.err != nil {
			// Stored token rejected: back to the entry page, no toast.
			modelNav{m: &m}.ToLogin()
			return m, nil
		}
		m.busy = true
		return m, m.loadCmd()

	case authResultMsg:
		m.busy = false
		if msg.registered {
			modelNav{m: &m}.ToLogin()
			modelSink{m: &m}.Success("Account created. Please sign in.")
			return m, toastAfter()
		}
		if msg.err != nil {
			m.routeError(msg.err, "Sign-in failed. Please try again.")
			return m, toastAfter()
		}
		m.view = ViewTasks
		m.busy = true
		return m, m.loadCmd()

	case loadResultMsg:
		m.busy = false
		if msg.err != nil {
			m.routeError(msg.err, "Failed to load tasks")
			return m, toastAfter()
		}
		if m.cursor >= m.engine.Count() {
			m.cursor = 0
		}
		return m, nil

	case mutateResultMsg:
		m.busy = false
		if msg.err != nil {
			m.routeError(msg.err, "Task "+msg.verb+" failed")
			return m, toastAfter()
		}
		modelSink{m: &m}.Success("Task " + msg.verb)
		return m, toastAfter()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quit = true
		return m, tea.Quit
	}

	switch m.view {
	case ViewLogin:
		return m.handleLoginKey(msg)
	case ViewRegister:
		return m.handleRegisterKey(msg)
	default:
		return m.handleTasksKey(msg)
	}
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		m.formFocus = (m.formFocus + 1) % 2
		for i := range m.loginInputs {
			if i == m.formFocus {
				m.loginInputs[i].Focus()
			} else {
				m.loginInputs[i].Blur()
			}
		}
		return m, textinput.Blink
	case "enter":
		if m.busy {
			return m, nil
		}
		email := strings.TrimSpace(m.loginInputs[0].Value())
		password := m.loginInputs[1].Value()
		if email == "" || password == "" {
			modelSink{m: &m}.Error("Please enter email and password")
			return m, toastAfter()
		}
		m.busy = true
		return m, m.loginCmd(email, password)
	case "ctrl+r":
		m.view = ViewRegister
		m.formFocus = 0
		m.regInputs[0].Focus()
		m.regInputs[1].Blur()
		m.regInputs[2].Blur()
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.loginInputs[m.formFocus], cmd = m.loginInputs[m.formFocus].Update(msg)
	return m, cmd
}

func (m Model) handleRegisterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.formFocus = (m.formFocus + 1) % 3
	case "shift+tab", "up":
		m.formFocus = (m.formFocus + 2) % 3
	case "enter":
		if m.busy {
			return m, nil
		}
		name := strings.TrimSpace(m.regInputs[0].Value())
		email := strings.TrimSpace(m.regInputs[1].Value())
		password := m.regInputs[2].Value()
		if name == "" || email == "" || password == "" {
			modelSink{m: &m}.Error("Please fill in all fields")
			return m, toastAfter()
		}
		if len(password) < 6 {
			modelSink{m: &m}.Error("Password must be at least 6 characters")
			return m, toastAfter()
		}
		m.busy = true
		return m, m.registerCmd(name, email, password)
	case "esc", "ctrl+r":
		modelNav{m: &m}.ToLogin()
		return m, textinput.Blink
	default:
		var cmd tea.Cmd
		m.regInputs[m.formFocus], cmd = m.regInputs[m.formFocus].Update(msg)
		return m, cmd
	}

	for i := range m.regInputs {
		if i == m.formFocus {
			m.regInputs[i].Focus()
		} else {
			m.regInputs[i].Blur()
		}
	}
	return m, textinput.Blink
}

func (m Model) handleTasksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Inline add/edit form takes over the keyboard.
	if m.editing {
		return m.handleEditKey(msg)
	}

	if m.confirmDelete != "" {
		switch msg.String() {
		case "y", "Y", "enter":
			id := m.confirmDelete
			m.confirmDelete = ""
			m.busy = true
			return m, m.deleteCmd(id)
		default:
			m.confirmDelete = ""
			return m, nil
		}
	}

	// Search box owns most keys while focused.
	if m.search.Focused() {
		switch msg.String() {
		case "esc", "enter":
			m.search.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			m.cursor = 0
			return m, cmd
		}
	}

	visible := m.visibleTasks()

	switch msg.String() {
	case "q":
		m.quit = true
		return m, tea.Quit
	case "/":
		m.search.Focus()
		return m, textinput.Blink
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case "s":
		m.status = nextStatus(m.status)
		m.cursor = 0
	case "p":
		m.priority = nextPriority(m.priority)
		m.cursor = 0
	case "r":
		if !m.busy {
			m.busy = true
			return m, m.loadCmd()
		}
	case "a":
		if !m.busy {
			m.startEdit("")
			return m, textinput.Blink
		}
	case "e":
		if !m.busy && m.cursor < len(visible) {
			m.startEdit(visible[m.cursor].ID)
			return m, textinput.Blink
		}
	case " ", "enter":
		if !m.busy && m.cursor < len(visible) {
			m.busy = true
			return m, m.toggleCmd(visible[m.cursor].ID)
		}
	case "d", "x":
		if !m.busy && m.cursor < len(visible) {
			m.confirmDelete = visible[m.cursor].ID
		}
	}
	return m, nil
}

func (m *Model) startEdit(id string) {
	m.editing = true
	m.editID = id
	m.formFocus = 0
	m.editInputs[0].SetValue("")
	m.editInputs[1].SetValue("")
	m.editPrio = service.PriorityMedium
	if id != "" {
		for _, t := range m.engine.Tasks() {
			if t.ID == id {
				m.editInputs[0].SetValue(t.Title)
				m.editInputs[1].SetValue(t.Description)
				if t.Priority != "" {
					m.editPrio = t.Priority
				}
				break
			}
		}
	}
	m.editInputs[0].Focus()
	m.editInputs[1].Blur()
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		return m, nil
	case "tab", "down", "shift+tab", "up":
		m.formFocus = (m.formFocus + 1) % 2
		for i := range m.editInputs {
			if i == m.formFocus {
				m.editInputs[i].Focus()
			} else {
				m.editInputs[i].Blur()
			}
		}
		return m, textinput.Blink
	case "ctrl+p":
		m.editPrio = nextEditPriority(m.editPrio)
		return m, nil
	case "enter":
		if m.busy {
			return m, nil
		}
		title := strings.TrimSpace(m.editInputs[0].Value())
		if title == "" {
			modelSink{m: &m}.Error("Title is required")
			return m, toastAfter()
		}
		description := m.editInputs[1].Value()
		m.editing = false
		m.busy = true
		if m.editID == "" {
			return m, m.createCmd(service.TaskDraft{
				Title:       title,
				Description: description,
				Priority:    m.editPrio,
			})
		}
		prio := m.editPrio
		return m, m.updateCmd(m.editID, service.TaskPatch{
			Title:       &title,
			Description: &description,
			Priority:    &prio,
		})
	}

	var cmd tea.Cmd
	m.editInputs[m.formFocus], cmd = m.editInputs[m.formFocus].Update(msg)
	return m, cmd
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	switch m.view {
	case ViewLogin:
		m.loginInputs[m.formFocus], cmd = m.loginInputs[m.formFocus].Update(msg)
		cmds = append(cmds, cmd)
	case ViewRegister:
		m.regInputs[m.formFocus], cmd = m.regInputs[m.formFocus].Update(msg)
		cmds = append(cmds, cmd)
	case ViewTasks:
		if m.editing {
			m.editInputs[m.formFocus], cmd = m.editInputs[m.formFocus].Update(msg)
		} else {
			m.search, cmd = m.search.Update(msg)
		}
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// filterInputs assembles the view-filter inputs from UI state.
func (m Model) filterInputs() viewfilter.Inputs {
	return viewfilter.Inputs{
		Query:    m.search.Value(),
		Status:   m.status,
		Priority: m.priority,
	}
}

// visibleTasks flattens the partition in presentation order: pending
// first, then completed.
func (m Model) visibleTasks() []service.Task {
	part := viewfilter.Apply(m.engine.Tasks(), m.filterInputs())
	return append(append([]service.Task{}, part.Pending...), part.Completed...)
}

func nextStatus(s string) string {
	switch s {
	case viewfilter.StatusAll:
		return viewfilter.StatusPending
	case viewfilter.StatusPending:
		return viewfilter.StatusCompleted
	default:
		return viewfilter.StatusAll
	}
}

func nextPriority(p string) string {
	switch p {
	case viewfilter.PriorityAll:
		return service.PriorityLow
	case service.PriorityLow:
		return service.PriorityMedium
	case service.PriorityMedium:
		return service.PriorityHigh
	default:
		return viewfilter.PriorityAll
	}
}

func nextEditPriority(p string) string {
	switch p {
	case service.PriorityLow:
		return service.PriorityMedium
	case service.PriorityMedium:
		return service.PriorityHigh
	default:
		return service.PriorityLow
	}
}

// --- view -----------------------------------------------------------------

// View renders the current page.
func (m Model) View() string {
	if m.quit {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("FlowList"))
	b.WriteString("\n\n")

	switch m.view {
	case ViewLogin:
		b.WriteString(m.viewLogin())
	case ViewRegister:
		b.WriteString(m.viewRegister())
	default:
		b.WriteString(m.viewTasks())
	}

	if m.toast != "" {
		b.WriteString("\n")
		if m.isErr {
			b.WriteString(toastErrStyle.Render(m.toast))
		} else {
			b.WriteString(toastOKStyle.Render(m.toast))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewLogin() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Sign in to manage your tasks"))
	b.WriteString("\n\n")
	b.WriteString("  " + m.loginInputs[0].View() + "\n")
	b.WriteString("  " + m.loginInputs[1].View() + "\n\n")
	if m.busy {
		b.WriteString(dimStyle.Render("  signing in..."))
	} else {
		b.WriteString(dimStyle.Render("  enter: sign in • ctrl+r: create account • ctrl+c: quit"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewRegister() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Create your account"))
	b.WriteString("\n\n")
	for i := range m.regInputs {
		b.WriteString("  " + m.regInputs[i].View() + "\n")
	}
	b.WriteString("\n")
	if m.busy {
		b.WriteString(dimStyle.Render("  creating account..."))
	} else {
		b.WriteString(dimStyle.Render("  enter: sign up • esc: back to sign in"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewTasks() string {
	var b strings.Builder

	identity := ""
	if user := m.sess.User(); user != nil {
		identity = user.Name
	}
	b.WriteString(headerStyle.Render(fmt.Sprintf("Tasks (%d)", m.engine.Count())))
	if identity != "" {
		b.WriteString(dimStyle.Render("  •  " + identity))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("status: %s  •  priority: %s", m.status, m.priority)))
	b.WriteString("\n")
	b.WriteString("  " + m.search.View() + "\n\n")

	if m.editing {
		return b.String() + m.viewEditForm()
	}

	if m.busy && m.engine.Count() == 0 {
		b.WriteString(dimStyle.Render("  loading...") + "\n")
		return b.String()
	}
	if errMsg := m.engine.LoadError(); errMsg != "" {
		b.WriteString(toastErrStyle.Render("  "+errMsg) + "\n")
		b.WriteString(dimStyle.Render("  r: retry") + "\n")
		return b.String()
	}

	all := m.engine.Tasks()
	inputs := m.filterInputs()
	part := viewfilter.Apply(all, inputs)

	switch viewfilter.Empty(all, inputs, part) {
	case viewfilter.NoTasks:
		b.WriteString(dimStyle.Render("  No tasks yet") + "\n")
		b.WriteString(dimStyle.Render("  Create your first task to get started") + "\n")
	case viewfilter.NoMatches:
		b.WriteString(dimStyle.Render("  No matching tasks") + "\n")
		b.WriteString(dimStyle.Render("  Try adjusting your search or filters") + "\n")
	default:
		idx := 0
		if len(part.Pending) > 0 {
			b.WriteString(headerStyle.Render(fmt.Sprintf("  Active Tasks (%d)", len(part.Pending))) + "\n")
			for _, t := range part.Pending {
				b.WriteString(m.renderTask(t, idx) + "\n")
				idx++
			}
		}
		if len(part.Completed) > 0 {
			b.WriteString(headerStyle.Render(fmt.Sprintf("  Completed (%d)", len(part.Completed))) + "\n")
			for _, t := range part.Completed {
				b.WriteString(m.renderTask(t, idx) + "\n")
				idx++
			}
		}
	}

	b.WriteString("\n")
	if m.confirmDelete != "" {
		b.WriteString(toastErrStyle.Render("  Are you sure you want to delete this task? [y/N]") + "\n")
	} else {
		b.WriteString(dimStyle.Render("  a: add • e: edit • space: toggle • d: delete • /: search • s/p: filters • r: reload • q: quit") + "\n")
	}
	return b.String()
}

func (m Model) renderTask(t service.Task, idx int) string {
	cursor := "  "
	if idx == m.cursor {
		cursor = "> "
	}
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	prio := t.Priority
	if style, ok := priorityStyle[prio]; ok {
		prio = style.Render(prio)
	}
	line := fmt.Sprintf("%s%s %s  %s", cursor, box, prio, t.Title)
	if t.Completed {
		return completedStyle.Render(line)
	}
	if idx == m.cursor {
		return selectedStyle.Render(line)
	}
	return line
}

func (m Model) viewEditForm() string {
	var b strings.Builder
	label := "New task"
	if m.editID != "" {
		label = "Edit task"
	}
	b.WriteString(headerStyle.Render("  "+label) + "\n")
	b.WriteString("  " + m.editInputs[0].View() + "\n")
	b.WriteString("  " + m.editInputs[1].View() + "\n")
	b.WriteString(fmt.Sprintf("  priority: %s\n\n", m.editPrio))
	b.WriteString(dimStyle.Render("  enter: save • ctrl+p: cycle priority • esc: cancel") + "\n")
	return b.String()
}
