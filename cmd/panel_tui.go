// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holzer, Lumenworks

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lumenworks/cflink/pkg/cflcd"
	"github.com/lumenworks/cflink/pkg/cfpacket"
)

//////////////////////////////////////////////////////////////
// Constants
//////////////////////////////////////////////////////////////

const (
	backlightStep   = 10 // Percent per +/- keypress
	contrastStep    = 5  // Percent per [/] keypress
	maxPanelLog     = 100
	visibleLogLines = 8
)

// Focus states
const (
	focusScreen = iota
	focusTextInput
)

//////////////////////////////////////////////////////////////
// Types
//////////////////////////////////////////////////////////////

// panelLogEntry is one line in the activity log
type panelLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

// panelModel is the Bubble Tea model for the display panel
type panelModel struct {
	dev      *cflcd.Device
	connInfo string
	version  string

	// Local mirror of display contents
	screen      [cfpacket.DisplayRows]string
	selectedRow int

	// Control state
	backlight int
	contrast  int

	// Text entry
	textInput    textinput.Model
	focusedField int

	// Keypad
	keysHeld cfpacket.KeyMask

	// Activity log
	log []panelLogEntry

	// UI state
	width    int
	height   int
	quitting bool
	busy     bool // A device round trip is in flight
}

//////////////////////////////////////////////////////////////
// Messages
//////////////////////////////////////////////////////////////

type panelTickMsg time.Time

// panelKeyMsg carries an unsolicited keypad event from the display
type panelKeyMsg struct {
	event cfpacket.KeyEvent
}

// panelDoneMsg reports completion of a device round trip
type panelDoneMsg struct {
	op  string
	err error
}

type panelVersionMsg struct {
	version string
	err     error
}

//////////////////////////////////////////////////////////////
// Model Initialization
//////////////////////////////////////////////////////////////

func initialPanelModel(dev *cflcd.Device, connInfo string) panelModel {
	ti := textinput.New()
	ti.Placeholder = "text to write"
	ti.CharLimit = cfpacket.DisplayColumns
	ti.Width = cfpacket.DisplayColumns + 2

	m := panelModel{
		dev:          dev,
		connInfo:     connInfo,
		backlight:    100,
		contrast:     50,
		textInput:    ti,
		focusedField: focusScreen,
		log:          make([]panelLogEntry, 0),
		width:        80,
		height:       24,
	}
	for i := range m.screen {
		m.screen[i] = strings.Repeat(" ", cfpacket.DisplayColumns)
	}
	return m
}

//////////////////////////////////////////////////////////////
// Bubble Tea Interface
//////////////////////////////////////////////////////////////

func (m panelModel) Init() tea.Cmd {
	return tea.Batch(
		panelTickCmd(),
		m.fetchVersionCmd(),
	)
}

func panelTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return panelTickMsg(t)
	})
}

// fetchVersionCmd queries the display version off the UI goroutine
func (m panelModel) fetchVersionCmd() tea.Cmd {
	dev := m.dev
	return func() tea.Msg {
		v, err := dev.Version()
		return panelVersionMsg{version: v, err: err}
	}
}

// deviceCmd runs one blocking device operation off the UI goroutine
func deviceCmd(op string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return panelDoneMsg{op: op, err: fn()}
	}
}

func (m panelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case panelTickMsg:
		return m, panelTickCmd()

	case panelVersionMsg:
		if msg.err != nil {
			m.addLogEntry(fmt.Sprintf("version query failed: %v", msg.err), true)
		} else {
			m.version = msg.version
		}

	case panelKeyMsg:
		ev := msg.event
		action := "release"
		if ev.Pressed() {
			action = "press"
			m.keysHeld |= keyToMask(ev.Key())
		} else {
			m.keysHeld &^= keyToMask(ev.Key())
		}
		m.addLogEntry(fmt.Sprintf("keypad %s: %s", action, ev.Key()), false)

	case panelDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.addLogEntry(fmt.Sprintf("%s failed: %v", msg.op, msg.err), true)
		} else {
			m.addLogEntry(msg.op, false)
		}
	}

	// Update child components
	if m.focusedField == focusTextInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m panelModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "tab":
		if m.focusedField == focusScreen {
			m.focusedField = focusTextInput
			m.textInput.Focus()
		} else {
			m.focusedField = focusScreen
			m.textInput.Blur()
		}
		return m, nil

	case "ctrl+l":
		if m.busy {
			return m, nil
		}
		m.busy = true
		for i := range m.screen {
			m.screen[i] = strings.Repeat(" ", cfpacket.DisplayColumns)
		}
		return m, deviceCmd("cleared display", m.dev.ClearScreen)
	}

	// Text input owns everything else while focused, except Enter.
	if m.focusedField == focusTextInput {
		if msg.String() == "enter" {
			return m.submitText()
		}
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}

	case "down", "j":
		if m.selectedRow < cfpacket.DisplayRows-1 {
			m.selectedRow++
		}

	case "+", "=":
		return m.adjustBacklight(backlightStep)

	case "-":
		return m.adjustBacklight(-backlightStep)

	case "]":
		return m.adjustContrast(contrastStep)

	case "[":
		return m.adjustContrast(-contrastStep)
	}

	return m, nil
}

func (m panelModel) submitText() (tea.Model, tea.Cmd) {
	text := m.textInput.Value()
	if text == "" || m.busy {
		return m, nil
	}

	row := m.selectedRow
	padded := text
	if len(padded) < cfpacket.DisplayColumns {
		padded += strings.Repeat(" ", cfpacket.DisplayColumns-len(padded))
	}
	m.screen[row] = padded
	m.textInput.SetValue("")
	m.busy = true

	dev := m.dev
	return m, deviceCmd(fmt.Sprintf("wrote row %d", row), func() error {
		return dev.SetText(row, 0, padded)
	})
}

func (m panelModel) adjustBacklight(delta int) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	m.backlight = clampPercent(m.backlight + delta)
	m.busy = true

	dev, v := m.dev, m.backlight
	return m, deviceCmd(fmt.Sprintf("backlight %d%%", v), func() error {
		return dev.SetBacklight(v)
	})
}

func (m panelModel) adjustContrast(delta int) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	m.contrast = clampPercent(m.contrast + delta)
	m.busy = true

	dev, v := m.dev, m.contrast
	return m, deviceCmd(fmt.Sprintf("contrast %d%%", v), func() error {
		return dev.SetContrast(v)
	})
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// keyToMask maps a key identity to its held-state mask bit
func keyToMask(k cfpacket.Key) cfpacket.KeyMask {
	switch k {
	case cfpacket.KeyUp:
		return cfpacket.MaskUp
	case cfpacket.KeyDown:
		return cfpacket.MaskDown
	case cfpacket.KeyLeft:
		return cfpacket.MaskLeft
	case cfpacket.KeyRight:
		return cfpacket.MaskRight
	case cfpacket.KeyEnter:
		return cfpacket.MaskEnter
	case cfpacket.KeyExit:
		return cfpacket.MaskCancel
	}
	return 0
}

func (m *panelModel) addLogEntry(message string, isError bool) {
	m.log = append(m.log, panelLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	})
	if len(m.log) > maxPanelLog {
		m.log = m.log[len(m.log)-maxPanelLog:]
	}
}

//////////////////////////////////////////////////////////////
// View
//////////////////////////////////////////////////////////////

func (m panelModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	infoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	screenStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("10")).
		Foreground(lipgloss.Color("10")).
		Background(lipgloss.Color("22")).
		Padding(0, 1)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	selectedStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15"))

	var s strings.Builder
	s.WriteString(titleStyle.Render("CFLINK - DISPLAY PANEL"))
	s.WriteString("\n")

	header := m.connInfo
	if m.version != "" {
		header += " | " + m.version
	}
	header += " | Tab: focus, q: quit"
	s.WriteString(headerStyle.Render(header))
	s.WriteString("\n\n")

	// Screen mirror with row selector
	screenContent := strings.Builder{}
	for i, row := range m.screen {
		marker := "  "
		if i == m.selectedRow && m.focusedField == focusScreen {
			marker = selectedStyle.Render("> ")
		} else if i == m.selectedRow {
			marker = "> "
		}
		screenContent.WriteString(marker)
		screenContent.WriteString(row)
		if i < len(m.screen)-1 {
			screenContent.WriteString("\n")
		}
	}
	s.WriteString(screenStyle.Render(screenContent.String()))
	s.WriteString("\n\n")

	// Controls
	controls := strings.Builder{}
	controls.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
		labelStyle.Render("Backlight:"), valueStyle.Render(fmt.Sprintf("%3d%%", m.backlight)),
		labelStyle.Render("Contrast:"), valueStyle.Render(fmt.Sprintf("%3d%%", m.contrast)),
		labelStyle.Render("Keys held:"), valueStyle.Render(m.keysHeld.String()),
	))

	inputLabel := "Write row " + fmt.Sprint(m.selectedRow) + ":"
	if m.focusedField == focusTextInput {
		controls.WriteString(fmt.Sprintf("%s %s", selectedStyle.Render(inputLabel), m.textInput.View()))
	} else {
		controls.WriteString(fmt.Sprintf("%s %s", labelStyle.Render(inputLabel), m.textInput.View()))
	}
	if m.busy {
		controls.WriteString(infoStyle.Render("  (sending...)"))
	}
	s.WriteString(boxStyle.Render(controls.String()))
	s.WriteString("\n\n")

	// Activity log
	s.WriteString(labelStyle.Render("Activity:"))
	s.WriteString("\n")

	logContent := strings.Builder{}
	startIdx := len(m.log) - visibleLogLines
	if startIdx < 0 {
		startIdx = 0
	}

	if len(m.log) == 0 {
		logContent.WriteString(headerStyle.Render("  (no activity yet)"))
	} else {
		for i := startIdx; i < len(m.log); i++ {
			entry := m.log[i]
			timestamp := entry.timestamp.Format("15:04:05.000")
			if entry.isError {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					errorStyle.Render("✗ "+entry.message),
				))
			} else {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					infoStyle.Render("ℹ "+entry.message),
				))
			}
		}
	}

	s.WriteString(boxStyle.Width(m.width - 4).Render(logContent.String()))

	return s.String()
}
