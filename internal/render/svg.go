package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/runoshun/timegrid/internal/layout"
)

// SVG layout constants in pixels.
const (
	svgHeaderHeight = 40
	svgGutter       = 48 // Hour labels left of grid columns
	svgColumnWidth  = 240
	svgFont         = "Helvetica, Arial, sans-serif"
	svgBackground   = "#ffffff"
	svgRuleColor    = "#dfe6e9"
	svgTextColor    = "#2d3436"
	svgMutedColor   = "#636e72"
)

func writeSVGHeader(svg *strings.Builder, width, height float64) {
	fmt.Fprintf(svg, `<?xml version="1.0" encoding="UTF-8"?>
<svg width="%s" height="%s" viewBox="0 0 %s %s" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
<defs>
<style>
.label { font-family: %s; font-size: 12px; fill: %s; }
.hour { font-family: %s; font-size: 10px; fill: %s; }
.title { font-family: %s; font-size: 12px; fill: #ffffff; }
.badge { font-family: %s; font-size: 10px; font-weight: bold; fill: #ffffff; }
</style>
</defs>
`, num(width), num(height), num(width), num(height), svgBackground,
		svgFont, svgTextColor, svgFont, svgMutedColor, svgFont, svgFont)
}

// TimelineSVG draws the week ruler with one rectangle per block.
func TimelineSVG(tl layout.Timeline) string {
	res := tl.Resolution
	width := tl.Width()
	height := svgHeaderHeight + math.Max(tl.Height(), layout.LaneTop(1))

	var svg strings.Builder
	writeSVGHeader(&svg, width, height)

	hourStep := 1
	if res.Zoom == layout.ZoomOut {
		hourStep = 6
	}
	for i, day := range tl.Window.Days() {
		x := float64(i) * res.DayWidth
		fmt.Fprintf(&svg, `<line x1="%s" y1="0" x2="%s" y2="%s" stroke="%s" stroke-width="1"/>`+"\n",
			num(x), num(x), num(height), svgRuleColor)
		fmt.Fprintf(&svg, `<text class="label" x="%s" y="16">%s</text>`+"\n",
			num(x+4), escapeXML(day.Format("Mon 01/02")))
		for h := hourStep; h < 24; h += hourStep {
			hx := x + res.HoursToPixels(float64(h))
			fmt.Fprintf(&svg, `<text class="hour" x="%s" y="32">%02d</text>`+"\n", num(hx+2), h)
		}
	}

	for _, b := range tl.Blocks {
		y := svgHeaderHeight + b.Top
		opacity := "1"
		if b.Task != nil && b.Task.Completed {
			opacity = "0.5"
		}
		fmt.Fprintf(&svg, `<g data-task-id="%s" data-key="%s" opacity="%s">`+"\n",
			escapeXML(b.TaskID()), escapeXML(b.Key()), opacity)
		fmt.Fprintf(&svg, `<rect x="%s" y="%s" width="%s" height="%s" rx="4" fill="%s"/>`+"\n",
			num(b.X), num(y), num(b.Width), num(b.Height), escapeXML(taskColor(b.Task)))
		fmt.Fprintf(&svg, `<text class="title" x="%s" y="%s">%s</text>`+"\n",
			num(b.X+6), num(y+20), escapeXML(taskTitle(b.Task)))
		if b.SubtaskCount > 0 {
			fmt.Fprintf(&svg, `<text class="badge" x="%s" y="%s">+%d</text>`+"\n",
				num(b.X+6), num(y+b.Height-8), b.SubtaskCount)
		}
		svg.WriteString("</g>\n")
	}

	svg.WriteString("</svg>\n")
	return svg.String()
}

// CalendarSVG draws grid columns side by side, one per day.
// Entry left and width percentages are applied to the column width.
func CalendarSVG(days []layout.DayColumn, vp layout.Viewport) string {
	pph := vp.PixelsPerHour()
	width := svgGutter + float64(len(days))*svgColumnWidth
	height := svgHeaderHeight + vp.DayHeight()

	var svg strings.Builder
	writeSVGHeader(&svg, width, height)

	for h := range 24 {
		y := svgHeaderHeight + float64(h)*pph
		fmt.Fprintf(&svg, `<line x1="%d" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1"/>`+"\n",
			svgGutter, num(y), num(width), num(y), svgRuleColor)
		fmt.Fprintf(&svg, `<text class="hour" x="4" y="%s">%02d:00</text>`+"\n", num(y+12), h)
	}

	for i, col := range days {
		x0 := svgGutter + float64(i)*svgColumnWidth
		fmt.Fprintf(&svg, `<line x1="%s" y1="0" x2="%s" y2="%s" stroke="%s" stroke-width="1"/>`+"\n",
			num(x0), num(x0), num(height), svgRuleColor)
		fmt.Fprintf(&svg, `<text class="label" x="%s" y="24">%s</text>`+"\n",
			num(x0+4), escapeXML(col.Date.Format("Mon 2006-01-02")))

		for _, e := range col.Entries {
			x := x0 + e.Left/100*svgColumnWidth
			w := e.Width / 100 * svgColumnWidth
			y := svgHeaderHeight + e.Top
			h := math.Max(e.Height, 2)
			fmt.Fprintf(&svg, `<g data-task-id="%s" data-key="%s">`+"\n", escapeXML(e.TaskID()), escapeXML(e.Key))
			fmt.Fprintf(&svg, `<rect x="%s" y="%s" width="%s" height="%s" rx="3" fill="%s"/>`+"\n",
				num(x), num(y), num(w), num(h), escapeXML(taskColor(e.Task)))
			if h >= 16 {
				fmt.Fprintf(&svg, `<text class="title" x="%s" y="%s">%s</text>`+"\n",
					num(x+4), num(y+13), escapeXML(taskTitle(e.Task)))
			}
			svg.WriteString("</g>\n")
		}
	}

	svg.WriteString("</svg>\n")
	return svg.String()
}

// num formats a pixel value without trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
