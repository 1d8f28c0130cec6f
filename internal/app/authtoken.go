package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/polly/internal/auth"
	"horse.fit/polly/internal/cli"
)

func runAuthToken(args []string) int {
	if len(args) == 0 {
		printAuthTokenUsage()
		return 2
	}

	action := strings.ToLower(strings.TrimSpace(args[0]))
	switch action {
	case "help", "-h", "--help":
		printAuthTokenUsage()
		return 0
	case "mint":
		return runAuthTokenMint(args[1:])
	case "list":
		return runAuthTokenList(args[1:])
	case "revoke":
		return runAuthTokenRevoke(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown authtoken action: %s\n\n", args[0])
		printAuthTokenUsage()
		return 2
	}
}

func runAuthTokenMint(args []string) int {
	fs := flag.NewFlagSet("authtoken mint", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	name := fs.String("name", "", "Unique name for the token (for example: gateway)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	tokenName := auth.NormalizeTokenName(*name)
	if tokenName == "" {
		fmt.Fprintln(os.Stderr, "--name is required")
		return 2
	}

	raw, err := auth.MintToken()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to mint token: %v\n", err)
		return 1
	}
	digest, err := auth.HashToken(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash token: %v\n", err)
		return 1
	}

	ctx, cancel, pool, err := connectReadPool(*timeout, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cancel()
	defer pool.Close()

	row, err := pool.InsertAPIToken(ctx, tokenName, digest)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
			fmt.Fprintf(os.Stderr, "A token named %q already exists\n", tokenName)
			return 1
		}
		fmt.Fprintf(os.Stderr, "Failed to store token: %v\n", err)
		return 1
	}

	// Only the digest is stored; this is the one chance to copy the
	// token itself.
	fmt.Printf("Token %q minted (id %d).\n\n", row.Name, row.TokenID)
	fmt.Printf("  %s\n\n", raw)
	fmt.Println("Store it now; it cannot be shown again.")
	return 0
}

func runAuthTokenList(args []string) int {
	fs := flag.NewFlagSet("authtoken list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
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

	tokens, err := pool.ListAPITokens(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list tokens: %v\n", err)
		return 1
	}

	if outputFormat == outputFormatJSON {
		if err := printJSON(map[string]any{"items": tokens, "total": len(tokens)}); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	rows := make([][]string, 0, len(tokens))
	for _, token := range tokens {
		status := "active"
		if token.RevokedAt != nil {
			status = "revoked"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", token.TokenID),
			token.Name,
			status,
			formatUTCTimestamp(token.CreatedAt),
			formatUTCTimestampPtr(token.LastUsedAt),
		})
	}
	if err := writeTable([]string{"id", "name", "status", "created", "last_used"}, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render token table: %v\n", err)
		return 1
	}
	return 0
}

func runAuthTokenRevoke(args []string) int {
	fs := flag.NewFlagSet("authtoken revoke", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	name := fs.String("name", "", "Name of the token to revoke")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	tokenName := auth.NormalizeTokenName(*name)
	if tokenName == "" {
		fmt.Fprintln(os.Stderr, "--name is required")
		return 2
	}

	ctx, cancel, pool, err := connectReadPool(*timeout, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cancel()
	defer pool.Close()

	revoked, err := pool.RevokeAPIToken(ctx, tokenName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to revoke token: %v\n", err)
		return 1
	}
	if !revoked {
		fmt.Fprintf(os.Stderr, "No active token named %q\n", tokenName)
		return 1
	}

	fmt.Printf("Token %q revoked. Running servers drop it within a minute.\n", tokenName)
	return 0
}

func printAuthTokenUsage() {
	fmt.Fprintln(os.Stderr, "polly authtoken")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  polly authtoken <action> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Actions:")
	fmt.Fprintln(os.Stderr, "  mint     Create a token and print it once")
	fmt.Fprintln(os.Stderr, "  list     Show all tokens and their status")
	fmt.Fprintln(os.Stderr, "  revoke   Revoke a token by name")
}
