package insight

import (
	"sort"
	"time"

	"github.com/rpggio/readtrail/internal/domain/activity"
)

// OtherActivities titles the group of records without an article.
const OtherActivities = "Other Activities"

// ArticleGroup collects the records of one article title.
type ArticleGroup struct {
	Title        string
	Activities   []activity.Record
	LastModified time.Time
}

// GroupByArticle groups records by article title, most recently active first.
func GroupByArticle(records []activity.Record) []ArticleGroup {
	index := make(map[string]int)
	var groups []ArticleGroup
	for _, rec := range records {
		title := rec.ArticleTitle
		if title == "" {
			title = OtherActivities
		}
		i, ok := index[title]
		if !ok {
			i = len(groups)
			index[title] = i
			groups = append(groups, ArticleGroup{Title: title})
		}
		g := &groups[i]
		g.Activities = append(g.Activities, rec)
		if rec.Timestamp.After(g.LastModified) {
			g.LastModified = rec.Timestamp
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].LastModified.After(groups[j].LastModified)
	})
	return groups
}

// DateGroup collects the records of one local calendar date.
type DateGroup struct {
	Date       string
	Activities []activity.Record
}

// GroupByDate groups records by local date, newest date first.
func GroupByDate(records []activity.Record, loc *time.Location) []DateGroup {
	index := make(map[string]int)
	var groups []DateGroup
	for _, rec := range records {
		key := DayKey(rec.Timestamp, loc)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DateGroup{Date: key})
		}
		groups[i].Activities = append(groups[i].Activities, rec)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Date > groups[j].Date
	})
	return groups
}
