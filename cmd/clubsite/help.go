package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: clubsite <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve       Serve the site directory over HTTP")
	fmt.Fprintln(w, "  assemble    Load fragments and data into pages and write them out")
	fmt.Fprintln(w, "  template    Render a template with placeholder values")
	fmt.Fprintln(w, "  probe       Check a served page in headless Chrome")
	fmt.Fprintln(w, "  config      Print the effective configuration")
	fmt.Fprintln(w, "  doctor      Check the site and the environment")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'clubsite help <command>' for details on a specific command.")
}

// printSiteFlags prints the flags shared by site-backed commands.
func printSiteFlags(w io.Writer) {
	fmt.Fprintln(w, "Site:")
	fmt.Fprintln(w, "      --root <dir>             Site directory (default: embedded site)")
	fmt.Fprintln(w, "      --base-url <url>         Fetch the site from an http(s) origin")
	fmt.Fprintln(w, "      --strategy <name>        Fragment loading: concurrent, sequential")
	fmt.Fprintln(w, "      --fragment-workers <n>   Concurrent fragment fetches (0 = one per fragment)")
	fmt.Fprintln(w, "      --markdown               Convert .md fragments to HTML")
	fmt.Fprintln(w, "      --sanitize               Sanitize fragment HTML")
	fmt.Fprintln(w, "      --no-bind                Skip event data binding")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>          Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet                  Only show errors")
	fmt.Fprintln(w, "  -v, --verbose                Show debug logging")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: clubsite serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the site over plain HTTP until interrupted.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "      --host <addr>            Interface to bind (default: 0.0.0.0)")
	fmt.Fprintln(w, "  -p, --port <n>               Port (default: $PORT or 3000)")
	fmt.Fprintln(w, "  -d, --dir <dir>              Serve this directory, e.g. assemble output")
	fmt.Fprintln(w)
	printSiteFlags(w)
}

// printAssembleUsage prints usage for the assemble command.
func printAssembleUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: clubsite assemble [page...] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Load every fragment and bind event data into each page, then write the")
	fmt.Fprintln(w, "pages and the rest of the site to the output directory.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  page    Host page relative to the site root (default: index.html)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>           Output directory (default: $CLUBSITE_OUTPUT or dist)")
	fmt.Fprintln(w, "  -w, --workers <n>            Pages assembled at once (0 = auto)")
	fmt.Fprintln(w, "      --no-copy                Write pages only")
	fmt.Fprintln(w, "      --strict                 Fail when any fragment fails to load")
	fmt.Fprintln(w)
	printSiteFlags(w)
}

// printTemplateUsage prints usage for the template command.
func printTemplateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: clubsite template <path> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Replace {{KEY}} placeholders in a template and write the page.")
	fmt.Fprintln(w, "A value of auto, auto:long, auto:weekday or auto:FORMAT becomes today's date.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Template:")
	fmt.Fprintln(w, "  -s, --set KEY=VALUE          Placeholder value (repeatable)")
	fmt.Fprintln(w, "  -o, --output <file>          Output file (default: stdout)")
	fmt.Fprintln(w, "      --strict                 Fail when placeholders remain")
	fmt.Fprintln(w)
	printSiteFlags(w)
}

// printProbeUsage prints usage for the probe command.
func printProbeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: clubsite probe [url] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Open a page in headless Chrome and report which containers filled in.")
	fmt.Fprintln(w, "Defaults to the page of a local 'clubsite serve'.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Probe:")
	fmt.Fprintln(w, "  -t, --timeout <duration>     Load and settle timeout (default: 30s)")
	fmt.Fprintln(w, "      --json                   Print the report as JSON")
	fmt.Fprintln(w)
	printSiteFlags(w)
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: clubsite config [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the configuration after the config file, CLUBSITE_* variables")
	fmt.Fprintln(w, "and flags are applied.")
	fmt.Fprintln(w)
	printSiteFlags(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: clubsite doctor [--json] [-c config]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that the site's files are reachable and that Chrome is available")
	fmt.Fprintln(w, "for probe.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "serve":
		printServeUsage(env.Stdout)
	case "assemble":
		printAssembleUsage(env.Stdout)
	case "template":
		printTemplateUsage(env.Stdout)
	case "probe":
		printProbeUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: clubsite version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: clubsite help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
