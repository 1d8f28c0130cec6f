package app

import (
	"fmt"
	"os"
	"strings"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "serve":
		return runServe(args[1:])
	case "stats":
		return runStats(args[1:])
	case "translate":
		return runTranslate(args[1:])
	case "languages":
		return runLanguages(args[1:])
	case "authtoken":
		return runAuthToken(args[1:])
	case "daemon":
		return runDaemon(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "polly CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  polly <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  serve      Start the translation bot API server")
	fmt.Fprintln(os.Stderr, "  stats      Show usage counters (global and per guild)")
	fmt.Fprintln(os.Stderr, "  translate  Translate one text from the command line")
	fmt.Fprintln(os.Stderr, "  languages  List the supported languages")
	fmt.Fprintln(os.Stderr, "  authtoken  Mint, list, and revoke API bearer tokens")
	fmt.Fprintln(os.Stderr, "  daemon     Install or control the systemd service")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"polly <command> -h\" for command-specific flags.")
}
