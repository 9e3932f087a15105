// Command cashmate-extract runs the extraction engine on local files and prints JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/shopspring/decimal"

	"github.com/zombor/cashmate/internal/document"
	"github.com/zombor/cashmate/internal/extraction"
	"github.com/zombor/cashmate/internal/scanning"
)

type rootConfig struct {
	scanner     scanning.Config
	logLevel    string
	pretty      bool
	diagnostics bool
	reader      *scanning.DocumentReader
	stdout      io.Writer
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg := &rootConfig{stdout: stdout}

	rootFlags := ff.NewFlagSet("cashmate-extract")
	rootFlags.StringVar(&cfg.scanner.Type, 0, "scanner", "none", "OCR backend for images and scanned PDFs: 'gemini', 'ollama' or 'none'")
	rootFlags.StringVar(&cfg.scanner.GeminiKey, 0, "gemini-key", "", "Google Gemini API key")
	rootFlags.StringVar(&cfg.scanner.GeminiModel, 0, "gemini-model", "gemini-2.5-flash", "Google Gemini model name")
	rootFlags.StringVar(&cfg.scanner.OllamaURL, 0, "ollama-url", "http://localhost:11434", "Ollama API base URL")
	rootFlags.StringVar(&cfg.scanner.OllamaModel, 0, "ollama-model", "llava", "Ollama vision model name")
	rootFlags.StringVar(&cfg.logLevel, 0, "log-level", "warn", "Log level: debug, info, warn or error")
	rootFlags.BoolVar(&cfg.pretty, 0, "pretty", "Indent the JSON output")

	receiptFlags := ff.NewFlagSet("receipt").SetParent(rootFlags)
	receiptCmd := &ff.Command{
		Name:      "receipt",
		Usage:     "cashmate-extract receipt [FLAGS] FILE...",
		ShortHelp: "extract amount, date and vendor from receipt images or PDFs",
		Flags:     receiptFlags,
		Exec: func(ctx context.Context, args []string) error {
			return cfg.forEachFile(ctx, args, cfg.extractReceipt)
		},
	}

	statementFlags := ff.NewFlagSet("statement").SetParent(rootFlags)
	statementFlags.BoolVar(&cfg.diagnostics, 0, "diagnostics", "Include skipped tables and missing fields in the output")
	statementCmd := &ff.Command{
		Name:      "statement",
		Usage:     "cashmate-extract statement [FLAGS] FILE...",
		ShortHelp: "reconstruct the ledger of PDF, XLSX, XLS or CSV bank statements",
		Flags:     statementFlags,
		Exec: func(ctx context.Context, args []string) error {
			return cfg.forEachFile(ctx, args, cfg.parseStatement)
		},
	}

	root := &ff.Command{
		Name:        "cashmate-extract",
		Usage:       "cashmate-extract <SUBCOMMAND> [FLAGS] FILE...",
		Flags:       rootFlags,
		Subcommands: []*ff.Command{receiptCmd, statementCmd},
		Exec: func(ctx context.Context, args []string) error {
			return ff.ErrHelp
		},
	}

	err := root.Parse(args, ff.WithEnvVarPrefix("CASHMATE"))
	if err == nil {
		err = cfg.setup()
	}
	if err == nil {
		err = root.Run(ctx)
	}

	switch {
	case errors.Is(err, ff.ErrHelp):
		fmt.Fprintf(stderr, "\n%s\n", ffhelp.Command(root.GetSelected()))
		return nil
	case err != nil:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return err
	}
	return nil
}

func (c *rootConfig) setup() error {
	level, err := log.ParseLevel(c.logLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(log.NewWithOptions(os.Stderr, log.Options{Level: level})))
	decimal.MarshalJSONWithoutQuotes = true

	if c.scanner.Type == "gemini" && c.scanner.GeminiKey == "" {
		c.scanner.GeminiKey = os.Getenv("GEMINI_API_KEY")
	}
	scanner, err := scanning.New(c.scanner)
	if err != nil {
		return err
	}
	c.reader = scanning.NewDocumentReader(scanner)
	return nil
}

// forEachFile runs fn on every file and keeps going past failures
func (c *rootConfig) forEachFile(ctx context.Context, files []string, fn func(context.Context, string, []byte) (any, error)) error {
	if len(files) == 0 {
		return ff.ErrHelp
	}

	enc := json.NewEncoder(c.stdout)
	if c.pretty {
		enc.SetIndent("", "  ")
	}

	failed := 0
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err == nil {
			var out any
			out, err = fn(ctx, path, data)
			if err == nil {
				err = enc.Encode(out)
			}
		}
		if err != nil {
			slog.Error("Extraction failed", "file", path, "error", err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

func (c *rootConfig) extractReceipt(ctx context.Context, path string, data []byte) (any, error) {
	contentType := document.ReceiptContentType(path)
	if err := document.ValidateReceipt(contentType, len(data)); err != nil {
		return nil, err
	}

	text, err := c.reader.ReadReceipt(ctx, data, contentType)
	if err != nil {
		slog.Warn("Could not read receipt", "file", path, "error", err)
		return extraction.FailedReceipt(err), nil
	}
	return extraction.ExtractReceipt(text), nil
}

type statementOutput struct {
	File        string                      `json:"file"`
	Statement   *extraction.ParsedStatement `json:"statement"`
	Diagnostics *extraction.Diagnostics     `json:"diagnostics,omitempty"`
}

func (c *rootConfig) parseStatement(ctx context.Context, path string, data []byte) (any, error) {
	contentType, ok := scanning.StatementContentType(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", document.ErrUnsupportedType, path)
	}

	content, err := c.reader.ReadStatement(ctx, data, contentType)
	if err != nil {
		return nil, err
	}

	statement, diagnostics, err := extraction.ParseStatement(content.Text, content.Tables)
	if err != nil {
		return nil, err
	}

	out := statementOutput{File: path, Statement: statement}
	if c.diagnostics {
		out.Diagnostics = &diagnostics
	}
	return out, nil
}
