package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpggio/readtrail/internal/domain/insight"
)

var (
	weekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	levelGlyphs   = [5]string{"·", "░", "▒", "▓", "█"}
)

// Execute implements the go-flags Commander interface for HeatmapCommand.
func (c *HeatmapCommand) Execute(args []string) error {
	a, release, err := c.env.open()
	if err != nil {
		return err
	}
	defer release()

	f, err := c.filter(a.insight)
	if err != nil {
		return err
	}
	hm, err := a.insight.Heatmap(context.Background(), f)
	if err != nil {
		return fmt.Errorf("build heatmap: %w", err)
	}

	if c.env.globals.JSON {
		return writeJSON(c.env.out(), hm)
	}
	_, err = fmt.Fprint(c.env.out(), renderHeatmap(hm))
	return err
}

// renderHeatmap draws one row per weekday and one column per week. Days
// outside the window are blank.
func renderHeatmap(hm insight.Heatmap) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s .. %s  %d activities, busiest day %d\n\n", hm.Start, hm.End, hm.Total, hm.Max)
	for day := 0; day < 7; day++ {
		b.WriteString(weekdayLabels[day])
		b.WriteByte(' ')
		for _, week := range hm.Weeks {
			cell := week[day]
			if !cell.InRange {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(levelGlyphs[cell.Level])
		}
		b.WriteByte('\n')
	}
	b.WriteString("\nLess ")
	for _, g := range levelGlyphs {
		b.WriteString(g)
	}
	b.WriteString(" More\n")
	return b.String()
}
