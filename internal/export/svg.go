package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/popsim/internal/growth"
)

const (
	colorA = "#00ccff"
	colorB = "#ff8800"
)

// ChartSVG draws both population series against the year on a shared scale.
// It returns an empty string for fewer than two records.
func ChartSVG(records []growth.YearRecord, labelA, labelB string, width, height int) string {
	if len(records) < 2 {
		return ""
	}

	minX, maxX := float64(records[0].Year), float64(records[len(records)-1].Year)
	minY, maxY := float64(records[0].PopulationA), float64(records[0].PopulationA)
	for _, r := range records {
		for _, v := range []float64{float64(r.PopulationA), float64(r.PopulationB)} {
			if v < minY {
				minY = v
			}
			if v > maxY {
				maxY = v
			}
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.05
	maxY += rangeY * 0.05
	rangeY = maxY - minY

	project := func(year int, v int64) (float64, float64) {
		x := (float64(year) - minX) / rangeX * float64(width)
		y := float64(height) - (float64(v)-minY)/rangeY*float64(height)
		return x, y
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	series := []struct {
		color string
		value func(growth.YearRecord) int64
	}{
		{colorA, func(r growth.YearRecord) int64 { return r.PopulationA }},
		{colorB, func(r growth.YearRecord) int64 { return r.PopulationB }},
	}
	for _, s := range series {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, s.color))
		for i, r := range records {
			x, y := project(r.Year, s.value(r))
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString(fmt.Sprintf(`<text x="8" y="16" fill="%s" font-family="monospace" font-size="12">%s</text>
<text x="8" y="32" fill="%s" font-family="monospace" font-size="12">%s</text>
`, colorA, html.EscapeString(labelA), colorB, html.EscapeString(labelB)))

	sb.WriteString("</svg>")
	return sb.String()
}
