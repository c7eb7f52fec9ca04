package cli

import (
	"fmt"
	"io"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Heatmap  *HeatmapCommand
	Timeline *TimelineCommand
	Facets   *FacetsCommand
	Export   *ExportCommand
	Purge    *PurgeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(e *env) (*goflags.Parser, *commands) {
	parser := goflags.NewParser(e.globals, goflags.Default)
	parser.Name = "readtrail"
	parser.LongDescription = "Reading activity reports over the readtrail activity log."

	cmds := &commands{
		Heatmap:  &HeatmapCommand{env: e},
		Timeline: &TimelineCommand{env: e},
		Facets:   &FacetsCommand{env: e},
		Export:   &ExportCommand{env: e},
		Purge:    &PurgeCommand{env: e},
	}

	parser.AddCommand("heatmap", "Show the daily activity heatmap", "Show daily activity counts over the trailing window as a Monday-aligned week grid.", cmds.Heatmap)
	parser.AddCommand("timeline", "Show activity by day", "Show activity grouped by calendar day, newest first.", cmds.Timeline)
	parser.AddCommand("facets", "Show the most frequent tags or colors", "Show the most frequent tags or annotation colors across matching activity.", cmds.Facets)
	parser.AddCommand("export", "Render activity as a memo", "Render matching activity grouped by article as a memo, optionally publishing it to flomo.", cmds.Export)
	parser.AddCommand("purge", "Delete the whole activity log", "Delete every recorded activity. Destructive operation with safety prompt.", cmds.Purge)

	return parser, cmds
}

// Run is the main entry point for the readtrail CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	return run(&env{
		globals: &GlobalFlags{},
		version: version,
		stdout:  os.Stdout,
		stdin:   os.Stdin,
	}, args)
}

func run(e *env, args []string) error {
	// go-flags requires a subcommand, but --version is valid without one.
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Fprintf(e.out(), "readtrail %s\n", e.version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _ := buildParser(e)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}

func (e *env) out() io.Writer {
	if e.stdout == nil {
		return io.Discard
	}
	return e.stdout
}
