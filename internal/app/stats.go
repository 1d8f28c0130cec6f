package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"horse.fit/polly/internal/cli"
	"horse.fit/polly/internal/db"
)

type statsReport struct {
	Global db.CounterTotals            `json:"global"`
	Guilds map[string]db.CounterTotals `json:"guilds,omitempty"`
}

func runStats(args []string) int {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	format := fs.String("format", outputFormatTable, "Output format: table or json")
	guildID := fs.String("guild", "", "Limit output to one guild")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "stats does not accept positional arguments")
		return 2
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatTable)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid format: %v\n", err)
		return 2
	}

	ctx, cancel, pool, err := connectReadPool(*timeout, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cancel()
	defer pool.Close()

	report := statsReport{}

	global, err := pool.GlobalCounterTotals(ctx)
	if err != nil && !db.IsNoRows(err) {
		fmt.Fprintf(os.Stderr, "Failed to query global counters: %v\n", err)
		return 1
	}
	report.Global = global

	if scope := strings.TrimSpace(*guildID); scope != "" {
		totals, err := pool.GuildCounterTotals(ctx, scope)
		if err != nil && !db.IsNoRows(err) {
			fmt.Fprintf(os.Stderr, "Failed to query guild counters: %v\n", err)
			return 1
		}
		report.Guilds = map[string]db.CounterTotals{scope: totals}
	} else {
		guilds, err := pool.ListGuildCounterTotals(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to query guild counters: %v\n", err)
			return 1
		}
		report.Guilds = guilds
	}

	if outputFormat == outputFormatJSON {
		if err := printJSON(report); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	guildIDs := make([]string, 0, len(report.Guilds))
	for id := range report.Guilds {
		guildIDs = append(guildIDs, id)
	}
	sort.Strings(guildIDs)

	rows := make([][]string, 0, len(guildIDs)+1)
	rows = append(rows, statsRow("GLOBAL", report.Global))
	for _, id := range guildIDs {
		rows = append(rows, statsRow(id, report.Guilds[id]))
	}

	if err := writeTable([]string{"scope", "requests", "detections", "characters"}, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render stats table: %v\n", err)
		return 1
	}
	return 0
}

func statsRow(scope string, totals db.CounterTotals) []string {
	return []string{
		scope,
		fmt.Sprintf("%d", totals.Requests),
		fmt.Sprintf("%d", totals.Detections),
		fmt.Sprintf("%d", totals.Characters),
	}
}
