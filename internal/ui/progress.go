// Package ui provides progress display for repository analysis.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

// Analysis stages, in order.
const (
	StageFetch = iota + 1
	StageScore
	StageAugment
	StageRender
)

// StageLabels describes each stage for display.
var StageLabels = map[int]string{
	StageFetch:   "Collecting repository data",
	StageScore:   "Scoring metrics",
	StageAugment: "Running AI analysis",
	StageRender:  "Rendering report",
}

// Reporter receives stage transitions for one analysis.
type Reporter interface {
	Stage(step, total int, label string)
	Done(name string)
}

// IsTTY returns true if stderr is a terminal.
func IsTTY() bool {
	return term.IsTerminal(os.Stderr.Fd())
}

// --- Plain text fallback ---

// PlainProgress prints progress messages to a callback function.
// Used when stderr is not a TTY (e.g., piped output).
type PlainProgress struct {
	print func(string)
}

// NewPlainProgress creates a new PlainProgress with the given print callback.
func NewPlainProgress(print func(string)) *PlainProgress {
	return &PlainProgress{print: print}
}

// Stage prints the stage being entered.
func (p *PlainProgress) Stage(step, total int, label string) {
	p.print(fmt.Sprintf("[%d/%d] %s", step, total, label))
}

// Done prints a completion message.
func (p *PlainProgress) Done(name string) {
	p.print(fmt.Sprintf("Done! Analyzed %s.", name))
}

// --- TUI progress ---

// StageMsg is sent to the bubbletea program when a stage starts.
type StageMsg struct {
	Step  int
	Total int
	Label string
}

// DoneMsg is sent to the bubbletea program when the analysis finishes.
type DoneMsg struct {
	Name string
}

type model struct {
	progress progress.Model
	step     int
	total    int
	label    string
	name     string
	done     bool
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// NewTUIModel creates a new bubbletea model for the progress TUI.
func NewTUIModel(name string, total int) model {
	return model{
		progress: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(50),
			progress.WithoutPercentage(),
		),
		name:  name,
		total: total,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.progress.Width = msg.Width - 10
		if m.progress.Width > 60 {
			m.progress.Width = 60
		}
	case StageMsg:
		m.step = msg.Step
		m.total = msg.Total
		m.label = msg.Label
		// a stage counts as complete once the next one starts
		pct := float64(m.step-1) / float64(max(m.total, 1))
		return m, m.progress.SetPercent(pct)
	case DoneMsg:
		m.done = true
		if msg.Name != "" {
			m.name = msg.Name
		}
		return m, tea.Quit
	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	if m.done {
		return fmt.Sprintf("\n  %s\n\n",
			titleStyle.Render(fmt.Sprintf("Done! Analyzed %s.", m.name)))
	}

	pad := strings.Repeat(" ", 2)
	counter := infoStyle.Render(fmt.Sprintf("%d/%d", m.step, m.total))
	desc := m.label
	if desc == "" {
		desc = "Starting..."
	}

	return "\n" +
		pad + titleStyle.Render("Analyzing "+m.name) + "\n" +
		pad + m.progress.View() + "  " + counter + "\n" +
		pad + infoStyle.Render(desc) + "\n\n"
}

// RunTUI creates and returns a bubbletea program for the progress TUI.
// The program outputs to stderr so report output on stdout stays clean.
func RunTUI(name string, total int) *tea.Program {
	m := NewTUIModel(name, total)
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))
	return p
}

// TUIReporter forwards stage transitions to a running program.
type TUIReporter struct {
	Program *tea.Program
}

func (r TUIReporter) Stage(step, total int, label string) {
	r.Program.Send(StageMsg{Step: step, Total: total, Label: label})
}

func (r TUIReporter) Done(name string) {
	r.Program.Send(DoneMsg{Name: name})
}
