package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/elijahnyp/dancing_birds/birds"
	"github.com/elijahnyp/dancing_birds/state"
)

const (
	maxLogs  = 5
	dialSize = 18 // cells for 0..180 degrees
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	currentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	onStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	offStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	alertStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// keyCommands maps console keys to the command codes a button box would send.
var keyCommands = map[string]birds.Command{
	"j":     birds.CmdJump,
	"l":     birds.CmdRotateRight,
	"right": birds.CmdRotateRight,
	"n":     birds.CmdNextBird,
	"tab":   birds.CmdNextBird,
	"h":     birds.CmdRotateLeft,
	"left":  birds.CmdRotateLeft,
	"m":     birds.CmdMusic,
	"s":     birds.CmdSound,
	"d":     birds.CmdDance,
	"x":     birds.CmdStop,
}

type consoleModel struct {
	exhibit  *birds.Exhibit
	codes    chan<- byte
	statuses <-chan state.Status
	status   state.Status
	width    int
	logs     []string // last N events
	finished bool     // exhibit run returned
	quitting bool
}

func (m *consoleModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// Messages from the exhibit
type statusMsg state.Status
type runDoneMsg struct{ err error }

func waitForStatus(statuses <-chan state.Status) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-statuses
		if !ok {
			return nil
		}
		return statusMsg(s)
	}
}

func newConsoleModel(exhibit *birds.Exhibit, codes chan<- byte, statuses <-chan state.Status) consoleModel {
	return consoleModel{
		exhibit:  exhibit,
		codes:    codes,
		statuses: statuses,
		status:   exhibit.Snapshot(),
	}
}

func (m consoleModel) Init() tea.Cmd {
	return waitForStatus(m.statuses)
}

func (m consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		key := msg.String()
		if key == "q" || key == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		cmd, ok := keyCommands[key]
		if !ok || m.finished {
			return m, nil
		}
		select {
		case m.codes <- byte(cmd):
			m.addLog("> " + cmd.String())
		default:
			m.addLog("input full, dropped " + cmd.String())
		}
		return m, nil

	case statusMsg:
		m.status = state.Status(msg)
		return m, waitForStatus(m.statuses)

	case runDoneMsg:
		m.finished = true
		if msg.err != nil {
			m.addLog("exhibit stopped: " + msg.err.Error())
		} else {
			m.addLog("exhibit at rest, press q to quit")
		}
		return m, nil
	}

	return m, nil
}

func renderFlag(name string, on bool) string {
	if on {
		return onStyle.Render(name + " ON")
	}
	return offStyle.Render(name + " off")
}

// renderDial draws a bird angle as a marker on a 0..180 track.
func renderDial(angle int) string {
	pos := angle * dialSize / state.BirdsMaxRot
	if pos < 0 {
		pos = 0
	}
	if pos > dialSize {
		pos = dialSize
	}
	return strings.Repeat("─", pos) + "●" + strings.Repeat("─", dialSize-pos)
}

func (m consoleModel) renderBirds() string {
	var sb strings.Builder
	for i := 0; i < state.NumBirds; i++ {
		arrow := "▶"
		if m.status.RotateDirection[i] == state.DirectionCCW {
			arrow = "◀"
		}
		line := fmt.Sprintf("Bird %d  %s %3d° %s", i+1, renderDial(m.status.BirdRotation[i]), m.status.BirdRotation[i], arrow)
		if i == m.status.CurrentBird {
			line = currentStyle.Render(line + "  ◆")
		}
		sb.WriteString(line)
		if i < state.NumBirds-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (m consoleModel) View() string {
	if m.quitting {
		return "Console closed.\n"
	}

	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Dancing Birds"))
	if m.status.Stopped {
		sb.WriteString("  " + alertStyle.Render("STOPPED"))
	}
	sb.WriteString("\n\n")

	sb.WriteString(panelStyle.Render(m.renderBirds()))
	sb.WriteString("\n")

	dance := renderFlag("dance", m.status.DanceActive)
	if m.status.DanceActive {
		dance += statusStyle.Render(" (" + m.exhibit.DancePhase().String() + ")")
	}
	sb.WriteString(strings.Join([]string{
		renderFlag("music", m.status.MusicOn),
		dance,
		renderFlag("jump", m.status.BirdJumpRequested),
		renderFlag("track change", m.status.MusicChangeRequested),
	}, "  "))
	sb.WriteString("\n")

	sb.WriteString(statusStyle.Render("j jump  h/l rotate  n next bird  m music  s sound  d dance  x stop  q quit"))
	sb.WriteString("\n")

	logStyle := panelStyle.Foreground(lipgloss.Color("9"))
	if m.width > 4 {
		logStyle = logStyle.Width(m.width - 4)
	}
	logLines := statusStyle.Render("no commands yet")
	if len(m.logs) > 0 {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}
