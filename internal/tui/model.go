// Package tui is the interactive terminal session: an address box with
// debounced suggestions, housing and income selectors, and the resolved
// tract with its burden band.
//
// The model is driven by the bubbletea event loop. Geocoding runs inside
// tea.Cmds; responses that were superseded by newer input are dropped.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sells-group/burden-map/internal/session"
	"github.com/sells-group/burden-map/internal/suggest"
	"github.com/sells-group/burden-map/pkg/geocode"
)

const minSuggestLen = 3

// Config wires the model to its collaborators.
type Config struct {
	Controller *session.Controller
	// Geocoder serves suggestions; nil disables them.
	Geocoder     geocode.Client
	Housing      []string
	Income       []string
	Debounce     time.Duration
	SuggestLimit int
	Timeout      time.Duration
	// Clock drives the debouncer; nil uses the wall clock.
	Clock suggest.Clock
}

// suggestDueMsg fires when the debounce window for a ticket closes.
type suggestDueMsg struct {
	ticket suggest.Ticket
}

type suggestionsMsg struct {
	ticket  suggest.Ticket
	results []geocode.Result
	err     error
}

type searchDoneMsg struct {
	state   session.State
	outcome session.Outcome
	err     error
}

// Model is the bubbletea model for the explore session.
type Model struct {
	cfg   Config
	input textinput.Model

	state    session.State
	outcome  *session.Outcome
	estimate *session.Estimate

	housingIdx int
	incomeIdx  int

	suggestions []geocode.Result
	// accepted is the suggestion taken with tab; enter places it without
	// geocoding the same text again.
	accepted    *geocode.Result
	tracker     *suggest.Tracker
	debouncer   *suggest.Debouncer
	send        func(tea.Msg)

	status   string
	busy     bool
	quitting bool

	log *zap.Logger
}

// New creates a model with an Empty session.
func New(cfg Config) *Model {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 300 * time.Millisecond
	}
	if cfg.SuggestLimit <= 0 {
		cfg.SuggestLimit = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	ti := textinput.New()
	ti.Placeholder = "Enter a Philadelphia address"
	ti.Prompt = "Address: "
	ti.CharLimit = 200
	ti.Focus()

	return &Model{
		cfg:        cfg,
		input:      ti,
		state:      session.New(),
		housingIdx: -1,
		incomeIdx:  -1,
		tracker:    &suggest.Tracker{},
		debouncer:  suggest.NewDebouncer(cfg.Debounce, cfg.Clock),
		log:        zap.L().With(zap.String("component", "tui")),
	}
}

// SetSender gives the debouncer a way back into the event loop. Pass
// (*tea.Program).Send.
func (m *Model) SetSender(send func(tea.Msg)) {
	m.send = send
}

// State returns the current session state.
func (m *Model) State() session.State {
	return m.state
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case suggestDueMsg:
		if !m.tracker.Current(msg.ticket) || m.cfg.Geocoder == nil {
			return m, nil
		}
		return m, m.fetchSuggestions(msg.ticket)

	case suggestionsMsg:
		if !m.tracker.Current(msg.ticket) {
			return m, nil
		}
		if msg.err != nil {
			m.log.Debug("suggest failed", zap.String("query", msg.ticket.Query), zap.Error(msg.err))
			m.suggestions = nil
			return m, nil
		}
		m.suggestions = msg.results
		return m, nil

	case searchDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.status = session.Message(msg.err)
			return m, nil
		}
		// Selectors may have changed while the search was in flight.
		next := msg.state
		next.Housing, next.Income = m.state.Housing, m.state.Income
		m.located(next, msg.outcome)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.quitting = true
		m.debouncer.Stop()
		return m, tea.Quit

	case "left":
		m.housingIdx = cycle(m.housingIdx, len(m.cfg.Housing), -1)
		m.state.Housing = pick(m.cfg.Housing, m.housingIdx)
		return m, nil
	case "right":
		m.housingIdx = cycle(m.housingIdx, len(m.cfg.Housing), 1)
		m.state.Housing = pick(m.cfg.Housing, m.housingIdx)
		return m, nil
	case "up":
		m.incomeIdx = cycle(m.incomeIdx, len(m.cfg.Income), -1)
		m.state.Income = pick(m.cfg.Income, m.incomeIdx)
		return m, nil
	case "down":
		m.incomeIdx = cycle(m.incomeIdx, len(m.cfg.Income), 1)
		m.state.Income = pick(m.cfg.Income, m.incomeIdx)
		return m, nil

	case "tab":
		if len(m.suggestions) > 0 {
			picked := m.suggestions[0]
			m.input.SetValue(picked.DisplayName)
			m.input.CursorEnd()
			m.dropSuggestions()
			m.accepted = &picked
		}
		return m, nil

	case "enter":
		if m.busy {
			return m, nil
		}
		m.dropSuggestions()
		if acc := m.accepted; acc != nil && acc.DisplayName == m.input.Value() {
			m.accepted = nil
			next, out := m.cfg.Controller.Pick(m.state, acc.Longitude, acc.Latitude)
			next.Query = acc.DisplayName
			out.DisplayName = acc.DisplayName
			m.located(next, out)
			return m, nil
		}
		return m, m.search(m.input.Value())

	case "ctrl+e":
		if m.busy {
			return m, nil
		}
		est, err := m.cfg.Controller.Calculate(m.state, m.state.Housing, m.state.Income)
		if err != nil {
			m.estimate = nil
			m.status = session.Message(err)
			return m, nil
		}
		m.estimate = &est
		m.status = ""
		return m, nil

	case "ctrl+r":
		if m.busy {
			return m, nil
		}
		m.state = m.cfg.Controller.Clear(m.state)
		m.housingIdx, m.incomeIdx = -1, -1
		m.outcome, m.estimate = nil, nil
		m.accepted = nil
		m.status = ""
		m.input.Reset()
		m.dropSuggestions()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.accepted = nil
		m.scheduleSuggest(m.input.Value())
	}
	return m, cmd
}

// located applies a finished search or pick.
func (m *Model) located(st session.State, out session.Outcome) {
	m.state = st
	m.outcome = &out
	m.estimate = nil
	m.status = ""
	if !out.Found() {
		m.status = session.NoTractMessage
	}
}

func (m *Model) search(address string) tea.Cmd {
	if strings.TrimSpace(address) == "" {
		m.status = session.Message(session.ErrMissingAddress)
		return nil
	}
	m.busy = true
	m.status = "Searching..."
	st := m.state
	ctrl := m.cfg.Controller
	timeout := m.cfg.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		next, out, err := ctrl.Search(ctx, st, address)
		return searchDoneMsg{state: next, outcome: out, err: err}
	}
}

func (m *Model) scheduleSuggest(query string) {
	if m.cfg.Geocoder == nil || len(strings.TrimSpace(query)) < minSuggestLen {
		m.dropSuggestions()
		return
	}
	tk := m.tracker.Begin(query)
	send := m.send
	if send == nil {
		return
	}
	m.debouncer.Call(func() { send(suggestDueMsg{ticket: tk}) })
}

func (m *Model) fetchSuggestions(tk suggest.Ticket) tea.Cmd {
	gc := m.cfg.Geocoder
	limit := m.cfg.SuggestLimit
	timeout := m.cfg.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := gc.Suggest(ctx, tk.Query, limit)
		return suggestionsMsg{ticket: tk, results: res, err: err}
	}
}

func (m *Model) dropSuggestions() {
	m.debouncer.Stop()
	m.tracker.Cancel()
	m.suggestions = nil
}

// cycle steps idx through [0, n) with wraparound. From the unselected
// position (-1) a forward step selects the first entry and a backward step
// the last.
func cycle(idx, n, step int) int {
	if n == 0 {
		return -1
	}
	if idx < 0 {
		if step > 0 {
			return 0
		}
		return n - 1
	}
	return ((idx+step)%n + n) % n
}

func pick(labels []string, idx int) string {
	if idx < 0 || idx >= len(labels) {
		return ""
	}
	return labels[idx]
}
