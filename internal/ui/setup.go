package ui

import (
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rotisserie/eris"
	"golang.org/x/term"

	"github.com/visualbass/visualbass-sync/internal/utils"
)

var (
	ErrSelectionAborted = eris.New("selection aborted")
	ErrNoInteractiveTTY = eris.New("no interactive terminal available")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("213")).
			Bold(true)
	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246"))
	pointerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("213"))
	inactivePointerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))
	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("219")).
				Bold(true)
	instructionKeyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("213")).
				Bold(true)
	instructionTextStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))
	instructionDividerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))
	summaryLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("246"))
	summaryValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Bold(true)
	emptyStateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// Option is one selectable entry on the setup screen.
type Option struct {
	Label  string
	Detail string
}

type SetupConfig struct {
	RequireLight  bool
	RequireDevice bool
	InitialLight  int
	InitialDevice int
}

type SetupResult struct {
	LightIndex  int
	DeviceIndex int
}

// RunSetup asks the user to pick whichever of the light and input device is
// required. It returns ErrNoInteractiveTTY when a choice is needed but there
// is no terminal to ask on.
func RunSetup(lights []Option, devices []Option, cfg SetupConfig) (SetupResult, error) {
	m := newSetupModel(lights, devices, cfg)
	if m.page >= len(m.pages) {
		return m.result(), nil
	}

	if !isInteractiveTerminal() {
		return SetupResult{}, ErrNoInteractiveTTY
	}

	finalModel, err := tea.NewProgram(m).Run()
	if err != nil {
		return SetupResult{}, err
	}

	final := finalModel.(setupModel)
	if final.err != nil {
		return SetupResult{}, final.err
	}
	return final.result(), nil
}

const (
	pageLight = iota
	pageDevice
)

// setupPage is one list the user picks from. Pages that are not required
// keep their initial index and are skipped while navigating.
type setupPage struct {
	title    string
	label    string
	items    []Option
	index    int
	required bool
}

type setupModel struct {
	pages  []setupPage
	page   int
	cursor int
	done   bool
	err    error
}

func newSetupModel(lights []Option, devices []Option, cfg SetupConfig) setupModel {
	m := setupModel{
		pages: []setupPage{
			pageLight: {
				title:    "Select a LIFX light",
				label:    "Light",
				items:    lights,
				index:    utils.ClampIndex(cfg.InitialLight, len(lights)),
				required: cfg.RequireLight && len(lights) > 0,
			},
			pageDevice: {
				title:    "Select an audio input device",
				label:    "Device",
				items:    devices,
				index:    utils.ClampIndex(cfg.InitialDevice, len(devices)),
				required: cfg.RequireDevice && len(devices) > 0,
			},
		},
	}
	m.enter(m.nextPage(0))
	return m
}

func (m setupModel) result() SetupResult {
	return SetupResult{
		LightIndex:  m.pages[pageLight].index,
		DeviceIndex: m.pages[pageDevice].index,
	}
}

// nextPage returns the first required page at or after from, or the summary.
func (m setupModel) nextPage(from int) int {
	for i := from; i < len(m.pages); i++ {
		if m.pages[i].required {
			return i
		}
	}
	return len(m.pages)
}

// prevPage returns the last required page at or before from, or -1.
func (m setupModel) prevPage(from int) int {
	for i := min(from, len(m.pages)-1); i >= 0; i-- {
		if m.pages[i].required {
			return i
		}
	}
	return -1
}

func (m *setupModel) enter(page int) {
	m.page = page
	m.cursor = 0
	if page < len(m.pages) {
		m.cursor = m.pages[page].index
	}
}

func (m *setupModel) commit() {
	if m.page < len(m.pages) {
		m.pages[m.page].index = m.cursor
	}
}

func (m setupModel) onSummary() bool {
	return m.page >= len(m.pages)
}

func (m setupModel) Init() tea.Cmd {
	return nil
}

func (m setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.done {
		return m, tea.Quit
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc", "q":
		m.err = ErrSelectionAborted
		return m, tea.Quit
	case "up", "k", "down", "j":
		if m.onSummary() {
			break
		}
		delta := 1
		if s := key.String(); s == "up" || s == "k" {
			delta = -1
		}
		m.cursor = utils.WrapIndex(m.cursor+delta, len(m.pages[m.page].items))
	case "enter":
		if m.onSummary() {
			m.done = true
			return m, tea.Quit
		}
		m.commit()
		m.enter(m.nextPage(m.page + 1))
	case "tab", "right", "l":
		if !m.onSummary() {
			m.commit()
			m.enter(m.nextPage(m.page + 1))
		}
	case "shift+tab", "left", "h", "backspace", "b":
		if prev := m.prevPage(m.page - 1); prev >= 0 {
			m.commit()
			m.enter(prev)
		}
	}

	return m, nil
}

func (m setupModel) View() string {
	if m.done {
		return ""
	}
	if m.onSummary() {
		return renderSummaryView(m)
	}
	return renderPageView(m)
}

func renderPageView(m setupModel) string {
	page := m.pages[m.page]

	instructions := []string{"↑/k ↓/j move", "enter confirm"}
	if m.prevPage(m.page-1) >= 0 {
		instructions = append(instructions, "shift+tab/left back")
	}
	if m.nextPage(m.page+1) < len(m.pages) {
		instructions = append(instructions, "tab/right continue")
	} else {
		instructions = append(instructions, "tab/right finish")
	}
	instructions = append(instructions, "esc cancel")

	lines := []string{"", titleStyle.Render(page.title)}
	for _, earlier := range m.pages[:m.page] {
		if earlier.required {
			lines = append(lines, "", renderSummaryRow(earlier.label, selectedLabel(earlier)))
		}
	}
	lines = append(lines,
		"",
		renderOptionList(page.items, m.cursor),
		"",
		renderInstructions(instructions),
		"",
	)
	return strings.Join(lines, "\n")
}

func renderSummaryView(m setupModel) string {
	lines := []string{"", titleStyle.Render("Ready to start"), ""}
	for _, page := range m.pages {
		lines = append(lines, renderSummaryRow(page.label, selectedLabel(page)))
	}
	lines = append(lines,
		"",
		renderInstructions([]string{"enter start", "←/h/b/backspace edit", "esc cancel"}),
		"",
	)
	return strings.Join(lines, "\n")
}

func selectedLabel(page setupPage) string {
	if page.index >= 0 && page.index < len(page.items) {
		return page.items[page.index].Label
	}
	return "not selected"
}

func renderPointer(active bool) string {
	if active {
		return pointerStyle.Render("›")
	}
	return inactivePointerStyle.Render(" ")
}

func renderOptionLabel(text string, active bool) string {
	if active {
		return selectedItemStyle.Render(text)
	}
	return itemStyle.Render(text)
}

func renderOptionDetail(detail string) string {
	if detail == "" {
		return ""
	}
	return subtitleStyle.Render("  " + detail)
}

func renderOptionList(items []Option, cursor int) string {
	if len(items) == 0 {
		return emptyStateStyle.Render("No options detected")
	}

	rows := make([]string, len(items))
	for i, item := range items {
		rows[i] = lipgloss.JoinHorizontal(lipgloss.Left,
			renderPointer(cursor == i),
			" ",
			renderOptionLabel(item.Label, cursor == i),
			renderOptionDetail(item.Detail),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderInstructions(parts []string) string {
	if len(parts) == 0 {
		return ""
	}

	if len(parts) == 1 {
		return renderInstruction(parts[0])
	}

	var segments []string
	for i, part := range parts {
		if i > 0 {
			segments = append(segments, instructionDividerStyle.Render(" · "))
		}
		segments = append(segments, renderInstruction(part))
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, segments...)
}

func renderInstruction(part string) string {
	tokens := strings.Fields(part)
	if len(tokens) == 0 {
		return ""
	}
	if len(tokens) == 1 {
		return instructionTextStyle.Render(tokens[0])
	}

	var segments []string
	keyTokens := tokens[:len(tokens)-1]
	for i, token := range keyTokens {
		if i > 0 {
			segments = append(segments, instructionTextStyle.Render(" "))
		}
		segments = append(segments, instructionKeyStyle.Render(token))
	}
	segments = append(segments, instructionTextStyle.Render(" "))
	segments = append(segments, instructionTextStyle.Render(tokens[len(tokens)-1]))
	return lipgloss.JoinHorizontal(lipgloss.Left, segments...)
}

func renderSummaryRow(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Left,
		summaryLabelStyle.Render(label+": "),
		summaryValueStyle.Render(value),
	)
}

func isInteractiveTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
