package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

type model struct {
	cfg       appConfig
	log       zerolog.Logger
	viewport  viewport.Model
	input     textinput.Model
	ready     bool
	width     int
	height    int
	status    string
	running   bool
	events    <-chan tea.Msg
	requests  chan<- string
	cancelRun context.CancelFunc
	lines     []string
}

var (
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	echoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	inputStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("238")).Padding(0, 1)
)

func newModel(cfg appConfig, log zerolog.Logger) model {
	vp := viewport.New(80, 20)
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "statement, e.g. print(1 + 2)"
	ti.CharLimit = 4096
	ti.Focus()
	return model{
		cfg:      cfg,
		log:      log,
		viewport: vp,
		input:    ti,
		status:   "starting",
	}
}

func startVM(cfg appConfig, log zerolog.Logger) tea.Cmd {
	return func() tea.Msg {
		events := make(chan tea.Msg, 256)
		requests := make(chan string)
		go runVM(context.Background(), cfg, log, requests, events)
		return vmStartedMsg{events: events, requests: requests}
	}
}

func waitVMEvent(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case msg, ok := <-events:
			if !ok {
				return vmClosedMsg{}
			}
			return msg
		case <-time.After(20 * time.Millisecond):
			return vmPollMsg{}
		}
	}
}

func submitCmd(requests chan<- string, src string) tea.Cmd {
	return func() tea.Msg {
		requests <- src
		return nil
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(startVM(m.cfg, m.log), textinput.Blink)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vh := msg.Height - 3
		if vh < 1 {
			vh = 1
		}
		m.viewport.Width = msg.Width
		m.viewport.Height = vh
		m.input.Width = msg.Width - 6
		m.ready = true
		m.rebuildContent()
		return m, nil

	case vmStartedMsg:
		m.events = msg.events
		m.requests = msg.requests
		m.status = "ready"
		return m, waitVMEvent(m.events)

	case vmBusyMsg:
		m.running = true
		m.cancelRun = msg.cancel
		m.status = "running " + firstLine(msg.label)
		return m, waitVMEvent(m.events)

	case vmOutputMsg:
		m.appendLine(msg.out.Text)
		return m, waitVMEvent(m.events)

	case vmClosedMsg:
		m.events = nil
		m.requests = nil
		m.running = false
		m.status = "stopped"
		return m, nil

	case vmPollMsg:
		if m.events != nil {
			return m, waitVMEvent(m.events)
		}
		return m, nil

	case vmDoneMsg:
		m.running = false
		m.cancelRun = nil
		if msg.err != nil {
			m.status = "failed"
			m.appendLine(errStyle.Render(msg.err.Error()))
		} else {
			m.status = "ready"
		}
		return m, waitVMEvent(m.events)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			if m.cancelRun != nil {
				m.cancelRun()
			}
			return m, tea.Quit
		case tea.KeyEsc:
			if m.running && m.cancelRun != nil {
				m.cancelRun()
				m.status = "interrupting"
			}
			return m, nil
		case tea.KeyEnter:
			src := strings.TrimSpace(m.input.Value())
			if src == "" || m.running || m.requests == nil {
				return m, nil
			}
			m.input.SetValue("")
			m.appendLine(echoStyle.Render("> " + src))
			m.running = true
			return m, submitCmd(m.requests, src)
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if !m.ready {
		return "initializing..."
	}
	status := fmt.Sprintf("%s | %d lines | enter: run  esc: interrupt  ctrl+c: quit", m.status, len(m.lines))
	return strings.Join([]string{
		m.viewport.View(),
		statusStyle.Render(status),
		inputStyle.Render(m.input.View()),
	}, "\n")
}

func (m *model) appendLine(text string) {
	m.lines = append(m.lines, text)
	m.rebuildContent()
}

func (m *model) rebuildContent() {
	content := strings.Join(m.lines, "\n")
	if content == "" {
		content = "(no output yet)"
	}
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

func firstLine(s string) string {
	s, _, _ = strings.Cut(s, "\n")
	if r := []rune(s); len(r) > 40 {
		return string(r[:40]) + "..."
	}
	return s
}
