package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jaspreet-dot-casa/botvm/pkg/provision"
)

type provisionProgressMsg provision.ProgressEvent

type provisionCompleteMsg struct {
	result *provision.Result
}

// provisionModel is a Bubble Tea model for provisioning progress.
type provisionModel struct {
	pipeline *provision.Pipeline
	pctx     *provision.Context
	ctx      context.Context

	spinner      spinner.Model
	progressBar  progress.Model
	events       []provision.ProgressEvent
	progressChan chan provision.ProgressEvent
	result       *provision.Result
	done         bool
	quitting     bool

	width  int
	height int
}

func newProvisionModel(ctx context.Context, pipeline *provision.Pipeline, pctx *provision.Context) provisionModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	return provisionModel{
		pipeline:     pipeline,
		pctx:         pctx,
		ctx:          ctx,
		spinner:      s,
		progressBar:  p,
		events:       make([]provision.ProgressEvent, 0),
		progressChan: make(chan provision.ProgressEvent, 100),
	}
}

func (m provisionModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.startProvisioning(),
		m.waitForProgress(),
	)
}

func (m provisionModel) startProvisioning() tea.Cmd {
	return func() tea.Msg {
		result := m.pipeline.Run(m.ctx, m.pctx, func(e provision.ProgressEvent) {
			m.progressChan <- e
		})
		close(m.progressChan)
		return provisionCompleteMsg{result: result}
	}
}

func (m provisionModel) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-m.progressChan
		if !ok {
			return nil // Channel closed
		}
		return provisionProgressMsg(event)
	}
}

func (m provisionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progressBar.Width = min(msg.Width-10, 60)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if m.done {
				return m, tea.Quit
			}
		}

	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progressBar.Update(msg)
		m.progressBar = progressModel.(progress.Model)
		return m, cmd

	case provisionProgressMsg:
		m.events = append(m.events, provision.ProgressEvent(msg))
		return m, tea.Batch(
			m.waitForProgress(),
			m.progressBar.SetPercent(float64(msg.Percent)/100.0),
		)

	case provisionCompleteMsg:
		m.done = true
		m.result = msg.result
		return m, tea.Quit
	}

	return m, nil
}

func (m provisionModel) View() string {
	if m.quitting && !m.done {
		return "\n  Cancelling...\n"
	}

	var s strings.Builder

	s.WriteString("\n")
	s.WriteString(TitleStyle.Render(" Provisioning bot host "))
	s.WriteString("\n\n")

	if len(m.events) > 0 {
		lastEvent := m.events[len(m.events)-1]
		percent := lastEvent.Percent
		if percent < 0 {
			percent = 0
		}
		if percent > 100 {
			percent = 100
		}

		barView := m.progressBar.ViewAs(float64(percent) / 100.0)
		s.WriteString(progressBarStyle.Render(barView))
		s.WriteString(fmt.Sprintf(" %d%%", percent))
		s.WriteString("\n\n")
	}

	for i, event := range m.events {
		isLast := i == len(m.events)-1 && !m.done

		line := event.Message
		if line == "" && event.Command != "" {
			line = CommandStyle.Render("$ " + event.Command)
		}

		var icon string
		switch {
		case event.IsError:
			icon = ErrorStyle.Render("  ✗ ")
			line = ErrorStyle.Render(line)
		case event.IsWarning:
			icon = WarningStyle.Render("  ! ")
			line = WarningStyle.Render(line)
		case isLast:
			icon = "  " + m.spinner.View()
		default:
			icon = DimStyle.Render("  · ")
			if event.Message != "" {
				line = DimStyle.Render(line)
			}
		}

		s.WriteString(icon)
		s.WriteString(line)
		s.WriteString("\n")
	}

	if m.done && m.result != nil {
		s.WriteString("\n")
		if m.result.Success {
			s.WriteString(SuccessStyle.Render("  Provisioning complete"))
		} else {
			s.WriteString(ErrorStyle.Render(fmt.Sprintf("  Provisioning failed at step %q", m.result.FailedStep)))
		}
		s.WriteString("\n")
	}

	return s.String()
}

// RunProvisioning runs the pipeline behind a progress TUI and returns its
// result.
func RunProvisioning(ctx context.Context, pipeline *provision.Pipeline, pctx *provision.Context) (*provision.Result, error) {
	model := newProvisionModel(ctx, pipeline, pctx)

	p := tea.NewProgram(model)
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("progress UI failed: %w", err)
	}

	m, ok := finalModel.(provisionModel)
	if !ok || m.result == nil {
		return nil, fmt.Errorf("provisioning interrupted")
	}
	return m.result, nil
}
