// Package viz renders trajectories and spectra as terminal graphics.
package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/triadlab/triadsim/internal/resonance"
)

// PlotSeries renders one field series as a line graph.
func PlotSeries(data []float64, caption string, width, height int) string {
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// PlotTrajectory renders all three fields of a trajectory stacked.
func PlotTrajectory(traj resonance.Trajectory, width, height int) string {
	var b strings.Builder
	for i := 0; i < resonance.NumFields; i++ {
		caption := fmt.Sprintf("%s field", resonance.FieldNames[i])
		b.WriteString(PlotSeries(traj.Field(i), caption, width, height))
		b.WriteString("\n\n")
	}
	return b.String()
}

// PhaseScatter draws two field series against each other as an ASCII
// scatter, marking early, middle and late samples differently.
func PhaseScatter(xData, yData []float64, width, height int) string {
	if len(xData) == 0 || len(xData) != len(yData) || width <= 0 || height <= 0 {
		return ""
	}

	xMin, xMax := xData[0], xData[0]
	yMin, yMax := yData[0], yData[0]
	for i := range xData {
		if xData[i] < xMin {
			xMin = xData[i]
		}
		if xData[i] > xMax {
			xMax = xData[i]
		}
		if yData[i] < yMin {
			yMin = yData[i]
		}
		if yData[i] > yMax {
			yMax = yData[i]
		}
	}

	xRange := xMax - xMin
	yRange := yMax - yMin
	if xRange == 0 {
		xRange = 1
	}
	if yRange == 0 {
		yRange = 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for i := range xData {
		px := int(float64(width-1) * (xData[i] - xMin) / xRange)
		py := int(float64(height-1) * (yData[i] - yMin) / yRange)
		py = height - 1 - py
		if px >= 0 && px < width && py >= 0 && py < height {
			if i < len(xData)/3 {
				canvas[py][px] = '.'
			} else if i < 2*len(xData)/3 {
				canvas[py][px] = 'o'
			} else {
				canvas[py][px] = '●'
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  %.2f ┌%s┐\n", yMax, strings.Repeat("─", width))
	for i := range canvas {
		if i == height/2 {
			fmt.Fprintf(&b, "  %.2f │", (yMax+yMin)/2)
		} else {
			b.WriteString("       │")
		}
		b.WriteString(string(canvas[i]))
		b.WriteString("│\n")
	}
	fmt.Fprintf(&b, "  %.2f └%s┘\n", yMin, strings.Repeat("─", width))
	fmt.Fprintf(&b, "       %.2f%s%.2f\n", xMin, strings.Repeat(" ", max(1, width-14)), xMax)
	b.WriteString("\nlegend: . = early, o = middle, ● = late\n")

	return b.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
