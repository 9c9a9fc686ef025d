package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"gopair/internal/app"
	"gopair/internal/client"
	"gopair/internal/config"
	"gopair/internal/fsync"
	"gopair/internal/logging"
	"gopair/internal/repl"
)

var (
	version  = "0.3.0"
	model    string
	provider string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gopair",
		Short: "AI pair programmer for your working tree",
		Long: `Gopair sends source files plus a natural-language request to a chat
model, parses the reply for whole-file updates, writes them back to
disk, and can commit the result.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&model, "model", "", "model name override")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "", "provider override (openai, ollama, gemini)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "ask [files...] \"request\"",
		Short: "Apply a request to the given files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(args, false)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "commit [files...] \"request\"",
		Short: "Apply a request and commit the changes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(args, true)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "repl [files...]",
		Short: "Start an interactive session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(args)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("gopair version %s\n", version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads and validates configuration and builds the application.
func setup(ctx context.Context, files []string) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if model != "" {
		cfg.Model.Name = model
	}
	if provider != "" {
		cfg.API.ActiveProvider = provider
	}

	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingAuth) {
			return nil, fmt.Errorf("%w (set GOPAIR_API_KEY or edit %s/config.yaml)", err, config.ConfigDir())
		}
		return nil, err
	}

	if cfg.Logging.ToFile {
		if err := logging.EnableFileLogging(config.ConfigDir(), logging.Level(cfg.Logging.Level)); err != nil {
			fmt.Fprintf(os.Stderr, "warning: file logging disabled: %v\n", err)
		}
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	a, err := app.New(ctx, cfg, workDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	for _, f := range files {
		if _, err := a.Files().Add(f); err != nil {
			a.Close()
			return nil, fmt.Errorf("add %s: %w", f, err)
		}
	}
	return a, nil
}

// runOnce handles `ask` and `commit`: every argument but the last names a
// file for the context, the last is the request.
func runOnce(args []string, commitAfter bool) error {
	files, request := args[:len(args)-1], args[len(args)-1]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := setup(ctx, files)
	if err != nil {
		return err
	}
	defer a.Close()
	defer logging.Close()

	if commitAfter || a.Config().Git.AutoCommit {
		err = a.AskAndCommit(ctx, request, app.StreamIncremental)
	} else {
		var changes fsync.ChangeSet
		changes, err = a.Ask(ctx, request, app.StreamIncremental)
		if err == nil {
			fmt.Println()
			a.ReportChanges(changes)
		}
	}
	if client.IsCanceled(err) {
		fmt.Fprintln(os.Stderr, "aborted")
		return nil
	}
	return err
}

func runREPL(files []string) error {
	ctx := context.Background()

	a, err := setup(ctx, files)
	if err != nil {
		return err
	}
	defer a.Close()
	defer logging.Close()

	return repl.New(a, os.Stdin, os.Stdout).Run(ctx)
}
