package tui

import (
	"fmt"
	"strings"

	"github.com/1broseidon/dualscreen/internal/spanning"
)

func summarizeEvent(ev *spanning.Event) string {
	if ev == nil {
		return "no state yet"
	}
	mode := "single screen"
	if ev.IsSpanning {
		mode = "spanning"
	}
	noun := "regions"
	if len(ev.WindowRects) == 1 {
		noun = "region"
	}
	return fmt.Sprintf("%s • %s • %d %s", mode, ev.Orientation, len(ev.WindowRects), noun)
}

func describeRegion(num int, r spanning.WindowRect) string {
	return fmt.Sprintf("%d: %g×%g dp at %g,%g", num, r.Width, r.Height, r.X, r.Y)
}

// renderASCIIPreview draws the event's window regions scaled to the canvas.
// The gap between regions is the hinge.
func renderASCIIPreview(ev *spanning.Event, width, height int) []string {
	if ev == nil || width < 5 || height < 3 {
		return emptyCanvas(width, height)
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	var extentW, extentH float64
	for _, r := range ev.WindowRects {
		extentW = max(extentW, r.X+r.Width)
		extentH = max(extentH, r.Y+r.Height)
	}
	if extentW > 0 && extentH > 0 {
		for i, r := range ev.WindowRects {
			drawRegion(canvas, r, i+1, extentW, extentH, width, height)
		}
	}

	drawBorder(canvas, width, height)

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

func drawRegion(canvas [][]rune, r spanning.WindowRect, num int, extentW, extentH float64, canvasW, canvasH int) {
	x1 := int(r.X / extentW * float64(canvasW))
	y1 := int(r.Y / extentH * float64(canvasH))
	x2 := int((r.X + r.Width) / extentW * float64(canvasW))
	y2 := int((r.Y + r.Height) / extentH * float64(canvasH))

	// Keep inside the outer border.
	x1 = max(x1, 1)
	y1 = max(y1, 1)
	x2 = min(x2, canvasW-2)
	y2 = min(y2, canvasH-2)

	if x2 <= x1 || y2 <= y1 {
		return
	}

	for x := x1; x <= x2; x++ {
		canvas[y1][x] = '─'
		canvas[y2][x] = '─'
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = '│'
		canvas[y][x2] = '│'
	}
	canvas[y1][x1] = '┌'
	canvas[y1][x2] = '┐'
	canvas[y2][x1] = '└'
	canvas[y2][x2] = '┘'

	centerY := (y1 + y2) / 2
	centerX := (x1 + x2) / 2
	if centerY > y1 && centerY < y2 && centerX > x1 && centerX < x2 {
		label := fmt.Sprintf("%d", num)
		startX := centerX - len(label)/2
		for i, ch := range label {
			if startX+i > x1 && startX+i < x2 {
				canvas[centerY][startX+i] = ch
			}
		}
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}
	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}

func emptyCanvas(width, height int) []string {
	if width < 0 {
		width = 0
	}
	lines := make([]string, max(height, 0))
	empty := strings.Repeat(" ", width)
	for i := range lines {
		lines[i] = empty
	}
	return lines
}
