package insight

import "time"

// Palette holds the cell color per intensity level.
var Palette = [5]string{"#ebedf0", "#9be9a8", "#40c463", "#30a14e", "#216e39"}

// LevelFor quantizes count against max into 0..4 at 25/50/75% of max.
func LevelFor(count, max int) int {
	switch {
	case count <= 0 || max <= 0:
		return 0
	case count*4 <= max:
		return 1
	case count*2 <= max:
		return 2
	case count*4 <= max*3:
		return 3
	default:
		return 4
	}
}

// ColorFor returns the palette color of level, defaulting to the empty color.
func ColorFor(level int) string {
	if level < 0 || level >= len(Palette) {
		return Palette[0]
	}
	return Palette[level]
}

// Cell is one day of the heatmap grid.
type Cell struct {
	Date    string `json:"date"`
	Count   int    `json:"count"`
	Level   int    `json:"level"`
	Color   string `json:"color"`
	InRange bool   `json:"inRange"`
}

// Heatmap is a week-column grid with Monday as the first row.
type Heatmap struct {
	Start string    `json:"start"`
	End   string    `json:"end"`
	Total int       `json:"total"`
	Max   int       `json:"max"`
	Weeks [][7]Cell `json:"weeks"`
}

// BuildHeatmap lays counts out over w. Padding cells before the window start
// and after its end are marked out of range.
func BuildHeatmap(counts map[string]int, w Window) Heatmap {
	first := w.First()
	offset := (int(first.Weekday()) + 6) % 7
	gridStart := time.Date(first.Year(), first.Month(), first.Day()-offset, 0, 0, 0, 0, first.Location())
	weeks := (offset + w.Days + 6) / 7

	keys := w.Keys()
	inRange := make(map[string]bool, len(keys))
	hm := Heatmap{Start: keys[0], End: keys[len(keys)-1]}
	for _, key := range keys {
		inRange[key] = true
		c := counts[key]
		hm.Total += c
		if c > hm.Max {
			hm.Max = c
		}
	}

	hm.Weeks = make([][7]Cell, weeks)
	for i := 0; i < weeks*7; i++ {
		day := time.Date(gridStart.Year(), gridStart.Month(), gridStart.Day()+i, 0, 0, 0, 0, gridStart.Location())
		key := day.Format(DateLayout)
		cell := Cell{Date: key, Color: Palette[0]}
		if inRange[key] {
			cell.InRange = true
			cell.Count = counts[key]
			cell.Level = LevelFor(cell.Count, hm.Max)
			cell.Color = ColorFor(cell.Level)
		}
		hm.Weeks[i/7][i%7] = cell
	}
	return hm
}
