package cli

import (
	"context"
	"fmt"

	"github.com/rpggio/readtrail/internal/domain/insight"
)

type timelineDayJSON struct {
	Date       string             `json:"date"`
	Label      string             `json:"label"`
	Activities []timelineItemJSON `json:"activities"`
}

type timelineItemJSON struct {
	Time        string `json:"time"`
	Type        string `json:"type"`
	Article     string `json:"article,omitempty"`
	Description string `json:"description"`
}

// Execute implements the go-flags Commander interface for TimelineCommand.
func (c *TimelineCommand) Execute(args []string) error {
	a, release, err := c.env.open()
	if err != nil {
		return err
	}
	defer release()

	f, err := c.filter(a.insight)
	if err != nil {
		return err
	}
	days, err := a.insight.Days(context.Background(), f)
	if err != nil {
		return fmt.Errorf("load timeline: %w", err)
	}
	if c.Days > 0 && len(days) > c.Days {
		days = days[:c.Days]
	}

	loc := a.insight.Location()
	now := a.insight.Now()
	out := make([]timelineDayJSON, 0, len(days))
	for _, day := range days {
		d := timelineDayJSON{Activities: make([]timelineItemJSON, 0, len(day.Activities))}
		d.Date = day.Date
		if len(day.Activities) > 0 {
			d.Label = insight.DayLabel(day.Activities[0].Timestamp, now, loc)
		}
		for _, rec := range day.Activities {
			d.Activities = append(d.Activities, timelineItemJSON{
				Time:        rec.Timestamp.In(loc).Format("15:04"),
				Type:        string(rec.ActivityType),
				Article:     rec.ArticleTitle,
				Description: insight.Describe(rec),
			})
		}
		out = append(out, d)
	}

	if c.env.globals.JSON {
		return writeJSON(c.env.out(), out)
	}

	w := c.env.out()
	if len(out) == 0 {
		fmt.Fprintln(w, "No activity.")
		return nil
	}
	for i, d := range out {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%d)\n", d.Label, len(d.Activities))
		for _, item := range d.Activities {
			fmt.Fprintf(w, "  %s  %s\n", item.Time, item.Description)
		}
	}
	return nil
}
