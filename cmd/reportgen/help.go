package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: reportgen <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  generate   Generate a report for a topic")
	fmt.Fprintln(w, "  serve      Run the web form and download server")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  doctor     Check the environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'reportgen help <command>' for details on a specific command.")
}

// printGenerateUsage prints usage for the generate command.
func printGenerateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: reportgen generate <title> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate a structured report with illustrations for a topic.")
	fmt.Fprintln(w, "Words after the command form the title: reportgen generate Solar Water Heater")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory (default: <slug>.<format>)")
	fmt.Fprintln(w, "  -f, --format <s>          Format: docx, html, pdf (default docx)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -t, --timeout <d>         Report deadline (e.g., 90s, 3m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Content:")
	fmt.Fprintln(w, "  -m, --model <s>           Gemini model name")
	fmt.Fprintln(w, "      --max-images <n>      Images per report (0-5)")
	fmt.Fprintln(w, "      --image-width <f>     Image width in inches (1.0-6.5)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling (html, pdf):")
	fmt.Fprintln(w, "      --style <name>        Stylesheet name")
	fmt.Fprintln(w, "      --template <name>     Template set name")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom asset directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and report statistics")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  GEMINI_API_KEY            API key (name set by generation.apiKeyEnv)")
	fmt.Fprintln(w, "  REPORTGEN_CONFIG, REPORTGEN_FORMAT, REPORTGEN_MODEL,")
	fmt.Fprintln(w, "  REPORTGEN_OUTPUT_DIR, REPORTGEN_TIMEOUT")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: reportgen serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the report form on / and downloads on POST /generate.")
	fmt.Fprintln(w, "Also serves /healthz and /metrics (Prometheus).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -a, --addr <addr>         Listen address (default :8080)")
	fmt.Fprintln(w, "  -w, --workers <n>         Concurrent reports (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per request deadline (e.g., 90s, 3m)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --style <name>        Stylesheet name")
	fmt.Fprintln(w, "      --template <name>     Template set name")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom asset directory")
	fmt.Fprintln(w, "  -q, --quiet               Only log errors")
	fmt.Fprintln(w, "  -v, --verbose             Log every request")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  REPORTGEN_ADDR, REPORTGEN_WORKERS, REPORTGEN_TIMEOUT, REPORTGEN_FORMAT")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: reportgen config [-c name]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the effective configuration as YAML, environment overrides applied.")
	fmt.Fprintln(w, "Redirect it to a file to start a custom config.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "generate", "gen":
		printGenerateUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: reportgen doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check the API key, Chrome for pdf output, and the temp directory.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: reportgen version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: reportgen help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
