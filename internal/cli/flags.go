package cli

import (
	"io"

	"github.com/rpggio/readtrail/internal/domain/export"
	"github.com/rpggio/readtrail/internal/domain/insight"
	"github.com/rpggio/readtrail/internal/sqlite"
)

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to YAML config file" default:""`
	DB      string `long:"db" description:"Override the database path"`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Log to stderr"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// FilterFlags select the activity a command reports on.
type FilterFlags struct {
	Range  string   `long:"range" description:"Time range: today | week | month | year | custom"`
	From   string   `long:"from" description:"Custom range start (YYYY-MM-DD)"`
	To     string   `long:"to" description:"Custom range end, inclusive (YYYY-MM-DD)"`
	Type   string   `long:"type" description:"Only this activity type" default:"all"`
	Tags   []string `long:"tag" description:"Only activity carrying this tag (repeatable)"`
	Colors []string `long:"color" description:"Only annotations of this color (repeatable)"`

	Attributed bool `long:"attributed" description:"Only activity tied to an article"`
}

// HeatmapCommand prints the daily activity grid.
type HeatmapCommand struct {
	FilterFlags

	env *env
}

// TimelineCommand prints activity grouped by day.
type TimelineCommand struct {
	FilterFlags
	Days int `long:"days" description:"Maximum number of days to print (0 for all)" default:"7"`

	env *env
}

// FacetsCommand prints the most frequent tags or colors.
type FacetsCommand struct {
	FilterFlags
	Field string `long:"field" description:"Facet to count: tags | colors" default:"tags"`
	Limit int    `long:"limit" description:"Maximum results (0 for all)" default:"10"`

	env *env
}

// ExportCommand renders activity as a memo, optionally publishing it.
type ExportCommand struct {
	FilterFlags
	Publish bool `long:"publish" description:"Send the memo to the configured flomo webhook"`

	env *env
}

// PurgeCommand deletes the whole activity log.
type PurgeCommand struct {
	All   bool `long:"all" description:"Required flag to confirm purge intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	env *env
}

// env is shared by every command: parsed globals, I/O, and the opened
// services. app is injectable for tests; nil means open from config.
type env struct {
	globals *GlobalFlags
	version string
	stdout  io.Writer
	stdin   io.Reader
	app     *app
}

// app bundles the store and the services the commands read through.
type app struct {
	repo    *sqlite.ActivityRepository
	insight *insight.Service
	export  *export.Service
	close   func() error
}
