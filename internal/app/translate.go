package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/polly/internal/bot"
	"horse.fit/polly/internal/cli"
	"horse.fit/polly/internal/config"
	"horse.fit/polly/internal/db"
	"horse.fit/polly/internal/lang"
	"horse.fit/polly/internal/logging"
	"horse.fit/polly/internal/translation"
)

type translateResult struct {
	Text string `json:"text"`
	From string `json:"from"`
	To   string `json:"to"`
}

func runTranslate(args []string) int {
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	to := fs.String("to", "en", "Target language: a code, a name, a country, or a flag emoji")
	from := fs.String("from", "", "Source language code (detected when empty)")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "translate requires the text to translate")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  polly translate [--to <lang>] [--from <code>] <text>...")
		return 2
	}
	text := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if text == "" {
		fmt.Fprintln(os.Stderr, "translate text must not be empty")
		return 2
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatTable)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid format: %v\n", err)
		return 2
	}

	target := lang.Resolve(*to)
	if target == "" {
		fmt.Fprintf(os.Stderr, "Unknown target language: %s\n", *to)
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		return 1
	}
	defer pool.Close()

	stats := translation.NewStatsCounter(bot.NewCounterStore(pool), logger)
	if err := stats.Initialize(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load usage counters: %v\n", err)
		return 1
	}

	client := translation.NewClient(cfg.GoogleAPIKey, stats, logger, translation.Options{
		CacheSize: cfg.TranslateCacheSize,
	})
	if !client.HasCredentials() {
		fmt.Fprintln(os.Stderr, "GOOGLE_TRANSLATE_API_KEY is not set")
		return 1
	}

	source := strings.ToLower(strings.TrimSpace(*from))
	if source == "" {
		detected, err := client.DetectLanguage(ctx, text, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Detection failed: %v\n", err)
			return 1
		}
		source = "auto"
		if detected != nil {
			source = detected.Language
		}
	}

	translated, err := client.TranslateText(ctx, target, text, source, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Translation failed: %v\n", err)
		return 1
	}
	if translated == nil {
		fmt.Fprintln(os.Stderr, "The translation API returned nothing")
		return 1
	}

	if err := stats.Flush(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to flush usage counters: %v\n", err)
	}

	if outputFormat == outputFormatJSON {
		if err := printJSON(translateResult{Text: translated.Text, From: source, To: target}); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	fmt.Printf("%s  →  %s\n", lang.Name(source), lang.Name(target))
	fmt.Println(translated.Text)
	return 0
}
