// Package main is the qabench command line entry point.
//
// qabench benchmarks open-domain question answering: for every book of a
// catalog it assembles a corpus from Wikipedia, indexes it as passages and
// answers the book's questions with a retrieve-and-read pipeline.
//
//	qabench run --books books.csv --questions questions.csv -o results
//	qabench ask "Moby-Dick" "Who is the captain of the Pequod?"
//	qabench settings set reader.provider ollama
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/qabench/internal/adapters/driven/ai"
	"github.com/custodia-labs/qabench/internal/adapters/driven/config/file"
	"github.com/custodia-labs/qabench/internal/adapters/driving/cli"
	"github.com/custodia-labs/qabench/internal/core/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}

	cli.SetVersion(version)
	cli.SetServices(services.NewSettingsService(configStore), ai.NewConfigValidator(), buildServices)

	return cli.Execute(ctx)
}
