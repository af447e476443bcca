package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/visualbass/visualbass-sync/internal/colormap"
	"github.com/visualbass/visualbass-sync/internal/controller"
	"github.com/visualbass/visualbass-sync/internal/state"
	"github.com/visualbass/visualbass-sync/internal/utils"
)

const (
	defaultCanvasWidth  = 72
	defaultCanvasHeight = 18
	minCanvasWidth      = 30
	minCanvasHeight     = 8

	meterWidth          = 4
	waveformHeightScale = 0.85
	waveformAmplitude   = 1.1
)

var (
	vizMetricLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	vizMetricValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	vizEditingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	vizKeyStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func renderVisualizerView(snap controller.Snapshot, updatedAt time.Time, width, height int) string {
	sections := []string{
		renderHeader(snap, updatedAt),
		"",
		renderCanvas(snap, width, height),
		"",
		renderMenu(snap),
	}
	if snap.ShowStatus {
		sections = append(sections, renderStatus(snap))
	}
	sections = append(sections, "", vizHintStyle.Render(hintText(snap)))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderHeader(snap controller.Snapshot, updatedAt time.Time) string {
	title := titleStyle.
		Foreground(lipgloss.Color(snap.Color)).
		Render("VisualBass")
	mode := vizMetricValueStyle.Render(snap.ModeName)
	timestamp := vizTimestampStyle.Render(updatedAt.Format("15:04:05.000"))

	return lipgloss.JoinHorizontal(lipgloss.Left, title, "  ", mode, "  ", timestamp)
}

func renderCanvas(snap controller.Snapshot, width, height int) string {
	g := newGrid(width, height)
	base := snap.RGB()

	switch snap.Mode {
	case state.ModePolygon:
		drawPolygon(g, snap)
	case state.ModeCombined:
		drawPolygon(g, snap)
		drawMeters(g, snap)
	case state.ModeDBMeters:
		drawMeters(g, snap)
	case state.ModeGravity:
		drawOrbs(g, snap)
		drawMeters(g, snap)
	case state.ModeWaveform:
		drawWaveform(g, snap)
		base = colormap.HSV(snap.Hue+0.1, 1, math.Max(snap.Glow*snap.Sensitivity*waveformAmplitude, snap.BrightnessFloor))
	case state.ModeRadial:
		drawRadial(g, snap)
	}

	// blank canvases stay visible at zero glow
	if base == (colormap.RGB{}) {
		base = colormap.RGB{R: 40, G: 40, B: 40}
	}

	canvas := lipgloss.NewStyle().Foreground(lipgloss.Color(base.Hex())).Render(g.String())
	if snap.Mode.ShowsMeters() {
		canvas = lipgloss.JoinVertical(lipgloss.Left, renderBrightnessLine(snap), canvas, renderDBLine(snap, width))
	}
	return canvas
}

func drawPolygon(g *grid, snap controller.Snapshot) {
	cx, cy := g.w/2, g.h/2
	maxRadius := min(g.w/4, g.h/2) - 1
	if maxRadius < 1 {
		return
	}

	scale := utils.Clamp(snap.Glow*snap.Sensitivity, 0.0, 1.0)
	outer := 1 + int(math.Round(scale*float64(maxRadius-1)))
	inner := max(1, outer/2)

	drawDiamond(g, cx, cy, outer, '◆')
	if inner < outer {
		drawDiamond(g, cx, cy, inner, '◇')
	}
	g.set(cx, cy, '+')
}

// drawDiamond outlines a diamond of the given vertical radius, doubling the
// horizontal extent to offset the character cell aspect ratio.
func drawDiamond(g *grid, cx, cy, radius int, r rune) {
	for dy := -radius; dy <= radius; dy++ {
		dx := (radius - absInt(dy)) * 2
		g.set(cx-dx, cy+dy, r)
		g.set(cx+dx, cy+dy, r)
	}
}

func drawMeters(g *grid, snap controller.Snapshot) {
	filled := int(math.Round(utils.Clamp(snap.DisplayGlow, 0.0, 1.0) * float64(g.h)))
	for y := g.h - filled; y < g.h; y++ {
		for x := range meterWidth {
			g.set(x, y, '█')
			g.set(g.w-1-x, y, '█')
		}
	}
}

func drawOrbs(g *grid, snap controller.Snapshot) {
	for _, orb := range snap.Orbs {
		x := int(math.Round(orb.X / state.CanvasWidth * float64(g.w-1)))
		y := int(math.Round(orb.Y / state.CanvasHeight * float64(g.h-1)))

		r := '·'
		switch {
		case orb.Radius >= 30:
			r = '●'
		case orb.Radius >= 10:
			r = '•'
		}
		g.set(x, y, r)
	}
}

func drawWaveform(g *grid, snap controller.Snapshot) {
	n := len(snap.Waveform)
	if n < 2 {
		return
	}

	half := float64(g.h) / 2
	prevY := -1
	for x := range g.w {
		idx := int(math.Round(float64(x) / float64(g.w-1) * float64(n-1)))
		v := snap.Waveform[utils.ClampIndex(idx, n)]
		y := utils.Clamp(int(half-v*half*waveformHeightScale*snap.Sensitivity), 0, g.h-1)

		if prevY >= 0 {
			for fill := min(prevY, y); fill <= max(prevY, y); fill++ {
				g.set(x, fill, '│')
			}
		}
		g.set(x, y, '•')
		prevY = y
	}
}

func drawRadial(g *grid, snap controller.Snapshot) {
	if len(snap.Bars) == 0 {
		return
	}

	barWidth := max(1, g.w/len(snap.Bars))
	for i, v := range snap.Bars {
		height := int(math.Round(utils.Clamp(v, 0.0, 1.0) * float64(g.h)))
		for y := g.h - height; y < g.h; y++ {
			for dx := range max(1, barWidth-1) {
				g.set(i*barWidth+dx, y, '▇')
			}
		}
	}
}

func renderBrightnessLine(snap controller.Snapshot) string {
	factor := math.Max(snap.DisplayGlow, snap.BrightnessFloor)
	color := snap.RGB().Scale(factor)
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(color.Hex())).
		Bold(true).
		Render(fmt.Sprintf("Brightness: %d%%", int(math.Round(factor*100))))
}

func renderDBLine(snap controller.Snapshot, width int) string {
	label := fmt.Sprintf("%.1f dB", snap.SmoothedDB)
	gap := max(1, width-2*len(label))
	return vizMetricLabelStyle.Render(label + strings.Repeat(" ", gap) + label)
}

func renderMenu(snap controller.Snapshot) string {
	editor := snap.Editor

	hue := fmt.Sprintf("%.2f", snap.Hue)
	if snap.ManualHue {
		hue += " (manual)"
	}
	cycle := fmt.Sprintf("%.4f", snap.CycleRate)
	floor := state.FormatBrightnessFloor(snap.BrightnessFloor)

	switch editor.Field() {
	case state.FieldHue:
		hue = vizEditingStyle.Render(editor.Pending() + "_")
	case state.FieldCycleRate:
		cycle = vizEditingStyle.Render(editor.Pending() + "_")
	case state.FieldBrightnessFloor:
		floor = vizEditingStyle.Render(editor.Pending() + "_")
	}

	top := lipgloss.JoinHorizontal(lipgloss.Left,
		renderMetric("Mode", snap.ModeName, "m"), "   ",
		renderMetric("Hue (0 for auto)", hue, "h"), "   ",
		renderMetric("Cycle Rate", cycle, "c"),
	)
	bottom := lipgloss.JoinHorizontal(lipgloss.Left,
		renderMetric("Sensitivity", fmt.Sprintf("%.1f", snap.Sensitivity), "+/-"), "   ",
		renderMetric("Brightness Floor", floor, "b [ ]"),
	)
	slider := renderBar("Floor", snap.BrightnessFloor, vizThemes["Floor"])
	glow := renderBar("Glow", snap.Glow, vizThemes["Glow"])

	return lipgloss.JoinVertical(lipgloss.Left, top, bottom, glow, slider)
}

func renderStatus(snap controller.Snapshot) string {
	light := snap.Light
	if light == "" {
		light = "none"
	}
	return vizTimestampStyle.Render(fmt.Sprintf(
		"%.0f fps · frames %d · dropped %d · light %s sent %d failed %d superseded %d",
		snap.UpdateRate,
		snap.FramesProcessed,
		snap.FramesDropped,
		light,
		snap.LightStats.Sent,
		snap.LightStats.Failed,
		snap.LightStats.Superseded,
	))
}

func renderMetric(label, value, key string) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Left,
		vizMetricLabelStyle.Render(label+":"),
		" ",
		vizMetricValueStyle.Render(value),
		" ",
		vizKeyStyle.Render("["+key+"]"),
	)
}

func hintText(snap controller.Snapshot) string {
	if snap.Editor.Editing() {
		return "type a value · enter apply · backspace delete · esc cancel"
	}
	return "1-6 select mode · f status · q / esc / ctrl+c quit"
}

// grid is a fixed-size character canvas.
type grid struct {
	w, h  int
	cells [][]rune
}

func newGrid(w, h int) *grid {
	w, h = max(w, 1), max(h, 1)
	cells := make([][]rune, h)
	for y := range cells {
		cells[y] = []rune(strings.Repeat(" ", w))
	}
	return &grid{w: w, h: h, cells: cells}
}

func (g *grid) set(x, y int, r rune) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.cells[y][x] = r
}

func (g *grid) String() string {
	lines := make([]string, g.h)
	for y, row := range g.cells {
		lines[y] = string(row)
	}
	return strings.Join(lines, "\n")
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
