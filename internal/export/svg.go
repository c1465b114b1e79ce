package export

import (
	"fmt"
	"strings"
)

// ProfileSVG draws a polyline of expression sizes, one point per component
// in the order given.
func ProfileSVG(sizes []int, width, height int, strokeColor string) string {
	if len(sizes) < 2 {
		return ""
	}

	maxY := sizes[0]
	for _, s := range sizes {
		if s > maxY {
			maxY = s
		}
	}
	if maxY == 0 {
		maxY = 1
	}
	top := float64(maxY) * 1.1
	stepX := float64(width) / float64(len(sizes)-1)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, s := range sizes {
		x := float64(i) * stepX
		y := float64(height) - float64(s)/top*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
