// Command genrams generates a RAMS document from a scope-of-works text file
// and prints the raw content JSON, optionally rendering it to a file. It
// exercises the full generation path against the live OpenAI API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/sitewise-labs/ramsgen/internal/common"
	"github.com/sitewise-labs/ramsgen/internal/generate"
	"github.com/sitewise-labs/ramsgen/internal/llm/openai"
	"github.com/sitewise-labs/ramsgen/internal/render"
)

func main() {
	_ = godotenv.Load()

	out := flag.String("o", "", "render to this file (format from extension: .pdf, .docx, .xlsx)")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-o out.pdf] <scope-text-file>\n", os.Args[0])
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if err := run(logger, flag.Arg(0), *out); err != nil {
		logger.Error("genrams.failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, scopePath, outPath string) error {
	cfg := common.LoadConfig()

	data, err := os.ReadFile(scopePath)
	if err != nil {
		return err
	}

	completer, err := openai.NewClient(openai.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	}, logger)
	if err != nil {
		return err
	}

	// No knowledge store here: the prompt falls back to the standard
	// guidelines placeholder.
	orchestrator := generate.NewOrchestrator(completer, nil, cfg.LLM.Temperature, logger)

	content, err := orchestrator.GenerateFromScope(context.Background(), string(data), "", nil)
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))

	if outPath == "" {
		return nil
	}

	var format render.Format
	switch {
	case hasExt(outPath, ".pdf"):
		format = render.FormatPDF
	case hasExt(outPath, ".docx"):
		format = render.FormatDocx
	case hasExt(outPath, ".xlsx"):
		format = render.FormatXLSX
	default:
		return fmt.Errorf("cannot infer format from %q", outPath)
	}

	doc, err := render.Render(content, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, doc, 0o644); err != nil {
		return err
	}
	logger.Info("genrams.rendered", "path", outPath, "bytes", len(doc))
	return nil
}

func hasExt(path, ext string) bool {
	return len(path) > len(ext) && path[len(path)-len(ext):] == ext
}
