package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"paperdash/internal/dash"
	"paperdash/internal/library"
	"paperdash/internal/pipeline"
)

type dashModel struct {
	client   pipeline.Client
	interval time.Duration
	state    dash.State
	fatalErr error
}

type statusMsg struct {
	runs []pipeline.Run
	err  error
	at   time.Time
}

type detailMsg struct {
	detail pipeline.RunDetailResult
	err    error
}

type actionMsg struct {
	notice string
	err    error
}

type pollTickMsg time.Time

func runDashboard(args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	pipelineBin := fs.String("pipeline", "", "pipeline binary override")
	config := fs.String("config", library.DefaultConfigPath, "library config path")
	interval := fs.Int("interval", -1, "poll interval in seconds (0 disables, -1 uses settings)")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !stdinIsTTY() {
		return errors.New("dashboard requires an interactive terminal (TTY); use status or watch")
	}

	client, settings, err := newPipelineClient(*pipelineBin, *config)
	if err != nil {
		return err
	}
	pollInterval := settings.PollInterval()
	if *interval >= 0 {
		pollInterval = time.Duration(*interval) * time.Second
	}

	m := dashModel{
		client:   client,
		interval: pollInterval,
		state:    dash.State{Polling: pollInterval > 0},
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "tty") {
			return errors.New("dashboard requires an interactive terminal (TTY); use status or watch")
		}
		return err
	}
	if fm, ok := finalModel.(dashModel); ok {
		return fm.fatalErr
	}
	return nil
}

func (m dashModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.fetchStatusCmd()}
	if m.interval > 0 {
		cmds = append(cmds, m.pollTickCmd())
	}
	return tea.Batch(cmds...)
}

func (m dashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		return m, nil
	case pollTickMsg:
		return m, tea.Batch(m.fetchStatusCmd(), m.pollTickCmd())
	case statusMsg:
		if msg.err != nil {
			m.state.LastError = msg.err.Error()
			return m, nil
		}
		m.state.LastError = ""
		m.state = m.state.WithRuns(msg.runs, msg.at)
		return m, nil
	case detailMsg:
		if msg.err != nil {
			m.state.LastError = msg.err.Error()
			return m, nil
		}
		m.state.LastError = ""
		detail := msg.detail
		m.state.Detail = &detail
		return m, nil
	case actionMsg:
		if msg.err != nil {
			m.state.LastError = msg.err.Error()
			return m, nil
		}
		m.state.LastError = ""
		m.state.Notice = msg.notice
		return m, m.fetchStatusCmd()
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.state.Cursor > 0 {
			m.state.Cursor--
			m.state.Detail = nil
		}
		return m, nil
	case "down", "j":
		if m.state.Cursor < len(m.state.Runs)-1 {
			m.state.Cursor++
			m.state.Detail = nil
		}
		return m, nil
	case "enter":
		if r, ok := m.state.SelectedRun(); ok {
			return m, m.fetchDetailCmd(r.ID)
		}
		return m, nil
	case "esc":
		m.state.Detail = nil
		return m, nil
	case "r":
		return m, m.fetchStatusCmd()
	case "t":
		if r, ok := m.state.SelectedRun(); ok {
			return m, m.retryCmd(r.ID)
		}
		m.state.Notice = "select a run to retry"
		return m, nil
	case "L":
		return m, m.reconcileCmd()
	}
	return m, nil
}

func (m dashModel) View() string {
	return dash.Render(m.state)
}

func (m dashModel) pollTickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return pollTickMsg(t)
	})
}

func (m dashModel) fetchStatusCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		res, err := client.Status()
		return statusMsg{runs: res.Runs, err: err, at: time.Now()}
	}
}

func (m dashModel) fetchDetailCmd(runID string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		res, err := client.RunDetail(runID)
		return detailMsg{detail: res, err: err}
	}
}

func (m dashModel) retryCmd(runID string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if err := client.Retry(runID); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{notice: "retry requested for run " + runID}
	}
}

func (m dashModel) reconcileCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		res, err := client.ReconcileLinks("all")
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{notice: fmt.Sprintf("resolved %d links", res.Resolved)}
	}
}
