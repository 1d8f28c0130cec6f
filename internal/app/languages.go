package app

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"horse.fit/polly/internal/lang"
)

func runLanguages(args []string) int {
	fs := flag.NewFlagSet("languages", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "languages does not accept positional arguments")
		return 2
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatTable)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid format: %v\n", err)
		return 2
	}

	options := lang.Options()

	if outputFormat == outputFormatJSON {
		if err := printJSON(map[string]any{"items": options, "total": len(options)}); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	rows := make([][]string, 0, len(options))
	for _, option := range options {
		rows = append(rows, []string{option.Code, option.Name})
	}
	if err := writeTable([]string{"code", "name"}, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render language table: %v\n", err)
		return 1
	}
	return 0
}
