package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/opcodec/codec"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	offsetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	opcodeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	operandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// chrome is the number of lines around the viewport: title and help.
const chrome = 2

type viewerModel struct {
	err      error
	filename string
	listing  []codec.Decoded
	units    int
	viewport viewport.Model
	ready    bool
	loaded   bool
}

type loadedMsg struct {
	err     error
	listing []codec.Decoded
	units   int
}

func newViewerModel(filename string) *viewerModel {
	return &viewerModel{filename: filename}
}

func (m *viewerModel) Init() tea.Cmd {
	return m.loadArtifact
}

func (m *viewerModel) loadArtifact() tea.Msg {
	units, err := readStream(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}
	listing, err := codec.Disassemble(units)
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{listing: listing, units: len(units)}
}

func (m *viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		height := msg.Height - chrome
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.viewport.SetContent(m.render())

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.listing = msg.listing
		m.units = msg.units
		m.loaded = true
		if m.ready {
			m.viewport.SetContent(m.render())
		}
	}

	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *viewerModel) render() string {
	var b strings.Builder
	for _, d := range m.listing {
		b.WriteString(offsetStyle.Render(fmt.Sprintf("0x%04x", d.Offset)))
		b.WriteString("  ")
		b.WriteString(opcodeStyle.Render(fmt.Sprintf("op=%-3d", d.Opcode)))
		for _, op := range d.Operands {
			b.WriteString(" ")
			b.WriteString(operandStyle.Render(fmt.Sprintf("%d", op)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *viewerModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if !m.ready || !m.loaded {
		return "Loading artifact..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("opcodec"))
	b.WriteString(" ")
	b.WriteString(fmt.Sprintf("%s  %d instructions, %d units", m.filename, len(m.listing), m.units))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("↑/↓ scroll • pgup/pgdn page • q quit  %3.f%%", m.viewport.ScrollPercent()*100)))
	return b.String()
}

func runInteractive(filename string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode needs a terminal; use -dump without -i")
	}
	p := tea.NewProgram(newViewerModel(filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
