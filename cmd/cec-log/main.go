// Command cec-log is a tool for viewing and analyzing CEC protocol
// log files.
//
// Log files are created by cec-controller with the -log-file flag.
//
// Usage:
//
//	cec-log <command> [flags] <file.cbor>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSON or CSV format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	cec-log view session.cbor
//
//	# View only outgoing bus messages
//	cec-log view -direction out -layer bus session.cbor
//
//	# Export to JSONL
//	cec-log export -format jsonl session.cbor
//
//	# Keep only error events in a new file
//	cec-log filter -category error -o errors.cbor session.cbor
//
//	# Show statistics
//	cec-log stats session.cbor
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cec-protocol/cec-go/cmd/cec-log/commands"
	"github.com/cec-protocol/cec-go/pkg/log"
)

const usage = `cec-log - CEC Protocol Log Analyzer

Usage:
  cec-log <command> [flags] <file.cbor>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSON or CSV format
  filter   Filter log file and write to new file
  stats    Show statistics about the log file

Use "cec-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// filterFlags registers the shared filter flags on fs.
func filterFlags(fs *flag.FlagSet) (layer, direction, category, session *string) {
	layer = fs.String("layer", "", "Filter by layer (transport, bus, action)")
	direction = fs.String("direction", "", "Filter by direction (in, out)")
	category = fs.String("category", "", "Filter by category (message, state, error)")
	session = fs.String("session", "", "Filter by session ID")
	return
}

// buildFilter assembles a log.Filter from the parsed flag values.
func buildFilter(layer, direction, category, session string) (log.Filter, error) {
	var filter log.Filter

	if layer != "" {
		l, err := commands.ParseLayerFlag(layer)
		if err != nil {
			return filter, err
		}
		filter.Layer = &l
	}
	if direction != "" {
		d, err := commands.ParseDirectionFlag(direction)
		if err != nil {
			return filter, err
		}
		filter.Direction = &d
	}
	if category != "" {
		c, err := commands.ParseCategoryFlag(category)
		if err != nil {
			return filter, err
		}
		filter.Category = &c
	}
	filter.SessionID = session
	return filter, nil
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	layer, direction, category, session := filterFlags(fs)

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		os.Exit(1)
	}

	filter, err := buildFilter(*layer, *direction, *category, *session)
	if err != nil {
		fail(err)
	}
	if err := commands.RunView(fs.Arg(0), filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		os.Exit(1)
	}

	if err := commands.RunExport(fs.Arg(0), *format, *output); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	layer, direction, category, session := filterFlags(fs)
	output := fs.String("o", "", "Output file (required)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 || *output == "" {
		fmt.Fprintln(os.Stderr, "Error: log file path and -o output file required")
		os.Exit(1)
	}

	filter, err := buildFilter(*layer, *direction, *category, *session)
	if err != nil {
		fail(err)
	}
	if err := commands.RunFilter(fs.Arg(0), filter, *output); err != nil {
		fail(err)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		os.Exit(1)
	}

	if err := commands.RunStats(fs.Arg(0), os.Stdout); err != nil {
		fail(err)
	}
}
