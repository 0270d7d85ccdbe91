// Command arcmd generates, decodes and inspects ARCommands binary commands.
//
// Usage:
//
//	arcmd <command> [flags] [args]
//
// Commands:
//
//	list      List the commands of the registry
//	describe  Describe a command given as hex
//	encode    Generate a command from its name and text arguments
//	decode    Decode length-prefixed captures through the configured filter
//	shell     Interactive mode
//	view      View a protocol log in human-readable format
//	stats     Show statistics about a protocol log
//	export    Export a protocol log to JSON lines or CSV
//	filter    Filter a protocol log and write to new file
//
// Examples:
//
//	# Describe a raw command
//	arcmd describe 01 00 0b 00 2a
//
//	# Encode a command and append it to a capture
//	arcmd encode -capture flight.cap ardrone3.Piloting.PCMD 1 0 10 0 0 0
//
//	# Decode a capture with the filter and protocol log from a config file
//	arcmd decode -config arcmd.toml flight.cap
//
//	# Show only codec events of a protocol log
//	arcmd view -layer codec arcmd.alog
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Parrot-Developers/libARCommands-sub000/cmd/arcmd/commands"
)

const usage = `arcmd - ARCommands command tool

Usage:
  arcmd <command> [flags] [args]

Commands:
  list      List the commands of the registry
  describe  Describe a command given as hex
  encode    Generate a command from its name and text arguments
  decode    Decode length-prefixed captures
  shell     Interactive mode
  view      View a protocol log in human-readable format
  stats     Show statistics about a protocol log
  export    Export a protocol log to JSON lines or CSV
  filter    Filter a protocol log and write to new file

Use "arcmd <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "list":
		runList(args)
	case "describe":
		runDescribe(args)
	case "encode":
		runEncode(args)
	case "decode":
		runDecode(args)
	case "shell":
		runShell(args)
	case "view":
		runView(args)
	case "stats":
		runStats(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func newFlagSet(name, synopsis, help string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "arcmd %s - %s\n\nUsage:\n  arcmd %s %s\n\nFlags:\n", name, help, name, synopsis)
		fs.PrintDefaults()
	}
	return fs
}

func loadEnv(path string) *commands.Env {
	env, err := commands.LoadEnv(path, os.Stderr)
	if err != nil {
		fail(err)
	}
	return env
}

func runList(args []string) {
	fs := newFlagSet("list", "[flags] [prefix]", "List the commands of the registry")
	configPath := fs.String("config", "", "Config file (.yaml, .yml or .toml)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	env := loadEnv(*configPath)
	commands.RunList(env.Registry, fs.Arg(0), os.Stdout)
}

func runDescribe(args []string) {
	fs := newFlagSet("describe", "[flags] <hex>...", "Describe a command given as hex")
	configPath := fs.String("config", "", "Config file (.yaml, .yml or .toml)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: command bytes required")
		fs.Usage()
		os.Exit(1)
	}
	env := loadEnv(*configPath)
	if err := commands.RunDescribe(env.Registry, fs.Args(), os.Stdout); err != nil {
		fail(err)
	}
}

func runEncode(args []string) {
	fs := newFlagSet("encode", "[flags] <name> [args...]", "Generate a command from its name and text arguments")
	configPath := fs.String("config", "", "Config file (.yaml, .yml or .toml)")
	capture := fs.String("capture", "", "Append the command as a frame to this capture file")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: command name required")
		fs.Usage()
		os.Exit(1)
	}
	env := loadEnv(*configPath)
	opts := commands.EncodeOptions{Capture: *capture}
	if err := commands.RunEncode(env.Registry, fs.Arg(0), fs.Args()[1:], opts, os.Stdout); err != nil {
		fail(err)
	}
}

func runDecode(args []string) {
	fs := newFlagSet("decode", "[flags] <capture>...", "Decode length-prefixed captures")
	configPath := fs.String("config", "", "Config file (.yaml, .yml or .toml)")
	noFilter := fs.Bool("no-filter", false, "Decode every frame regardless of the configured filter")
	quiet := fs.Bool("quiet", false, "Print only the summary")
	metricsFile := fs.String("metrics", "", "Write Prometheus metrics to this file")
	jobs := fs.Int("j", 0, "Captures decoded at once (default: GOMAXPROCS)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: capture file path required")
		fs.Usage()
		os.Exit(1)
	}
	env := loadEnv(*configPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := commands.DecodeOptions{NoFilter: *noFilter, Quiet: *quiet, Metrics: *metricsFile, Jobs: *jobs}
	if _, err := commands.RunDecode(ctx, env, fs.Args(), opts, os.Stdout); err != nil {
		stop()
		fail(err)
	}
}

func runShell(args []string) {
	fs := newFlagSet("shell", "[flags]", "Interactive mode")
	configPath := fs.String("config", "", "Config file (.yaml, .yml or .toml)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	env := loadEnv(*configPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if err := commands.NewShell(env).Run(ctx); err != nil && ctx.Err() == nil {
		stop()
		fail(err)
	}
}

func runView(args []string) {
	fs := newFlagSet("view", "[flags] <file.alog>", "View a protocol log in human-readable format")
	layer := fs.String("layer", "", "Filter by layer (transport, codec, filter)")
	direction := fs.String("direction", "", "Filter by direction (in, out)")
	category := fs.String("category", "", "Filter by category (frame, command, filter, error)")
	session := fs.String("session", "", "Filter by session ID")
	feature := fs.Int("feature", -1, "Filter command and filter events by feature id")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	filter := commands.ViewFilter{SessionID: *session}
	if *layer != "" {
		l, err := commands.ParseLayerFlag(*layer)
		if err != nil {
			fail(err)
		}
		filter.Layer = &l
	}
	if *direction != "" {
		d, err := commands.ParseDirectionFlag(*direction)
		if err != nil {
			fail(err)
		}
		filter.Direction = &d
	}
	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fail(err)
		}
		filter.Category = &c
	}
	if *feature >= 0 {
		if *feature > 0xFF {
			fail(fmt.Errorf("invalid feature: %d", *feature))
		}
		f := uint8(*feature)
		filter.Feature = &f
	}

	if err := commands.RunView(fs.Arg(0), filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runStats(args []string) {
	fs := newFlagSet("stats", "<file.alog>", "Show statistics about a protocol log")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	if err := commands.RunStats(fs.Arg(0), os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := newFlagSet("export", "[flags] <file.alog>", "Export a protocol log to JSON lines or CSV")
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	if err := commands.RunExport(fs.Arg(0), *format, *output, os.Stdout); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := newFlagSet("filter", "[flags] <file.alog>", "Filter a protocol log and write to new file")
	output := fs.String("o", "", "Output file (required)")
	session := fs.String("session", "", "Filter by session ID")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")
	layer := fs.String("layer", "", "Filter by layer (transport, codec, filter)")
	direction := fs.String("direction", "", "Filter by direction (in, out)")
	category := fs.String("category", "", "Filter by category (frame, command, filter, error)")
	feature := fs.Int("feature", -1, "Filter command and filter events by feature id")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	opts := commands.FilterOptions{
		Output:    *output,
		SessionID: *session,
		TimeStart: *timeStart,
		TimeEnd:   *timeEnd,
		Layer:     *layer,
		Direction: *direction,
		Category:  *category,
		Feature:   *feature,
	}
	if _, err := commands.RunFilter(fs.Arg(0), opts, os.Stdout); err != nil {
		fail(err)
	}
}
