// Command megatec-log is a tool for viewing and analyzing protocol
// capture files.
//
// Capture files are created by megatec-cli and megatec-shell with the
// --protocol-log flag.
//
// Usage:
//
//	megatec-log <command> [flags] <file.mlog>
//
// Commands:
//
//	view     View capture file in human-readable format
//	export   Export capture file to JSONL
//	stats    Show statistics about the capture file
//
// Examples:
//
//	# View all events
//	megatec-log view ups.mlog
//
//	# View only transport-layer frames going out
//	megatec-log view --layer transport --direction out ups.mlog
//
//	# Export to JSONL
//	megatec-log export ups.mlog
//
//	# Show statistics
//	megatec-log stats ups.mlog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/megatec-protocol/megatec-go/cmd/megatec-log/commands"
)

const usage = `megatec-log - Protocol Capture Analyzer

Usage:
  megatec-log <command> [flags] <file.mlog>

Commands:
  view     View capture file in human-readable format
  export   Export capture file to JSONL
  stats    Show statistics about the capture file

Use "megatec-log <command> -help" for more information about a command.
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

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `megatec-log view - View capture file in human-readable format

Usage:
  megatec-log view [flags] <file.mlog>

Flags:
`)
		fs.PrintDefaults()
	}

	layer := fs.String("layer", "", "Filter by layer (transport, wire, session)")
	direction := fs.String("direction", "", "Filter by direction (in, out)")
	category := fs.String("category", "", "Filter by category (frame, state, error)")
	sessionID := fs.String("session-id", "", "Filter by session ID")
	command := fs.String("command", "", "Filter by command kind (e.g. STATUS)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: capture file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	filter, err := commands.BuildFilter(*sessionID, *direction, *layer, *category, *command)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `megatec-log export - Export capture file to JSONL

Usage:
  megatec-log export [flags] <file.mlog>

Flags:
`)
		fs.PrintDefaults()
	}

	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: capture file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	if err := commands.RunExport(path, *output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `megatec-log stats - Show statistics about the capture file

Usage:
  megatec-log stats <file.mlog>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: capture file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
