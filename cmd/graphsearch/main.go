package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"graphsearch/internal/bootstrap"
	"graphsearch/internal/platform/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	envFile    string
	endpoint   string
	timeout    time.Duration
	logFile    string
	logLevel   string
	markdown   bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "graphsearch",
		Short:         "Graph-powered conversational search client",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, flags)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.graphsearch/config.yaml)")
	pf.StringVar(&flags.envFile, "env-file", ".env", "dotenv file with GRAPHSEARCH_* variables")
	pf.StringVar(&flags.endpoint, "endpoint", "", "search service base URL (default "+config.DefaultEndpoint+")")
	pf.DurationVar(&flags.timeout, "timeout", 0, "request timeout, 0 waits indefinitely")
	pf.StringVar(&flags.logFile, "log-file", "", "diagnostic log file")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug|info|warn|error")
	pf.BoolVar(&flags.markdown, "markdown", false, "render answers as markdown in the TUI")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newAskCmd(flags))
	root.AddCommand(newIngestCmd(flags))
	root.AddCommand(newConfigCmd(flags))
	return root
}

func loadConfig(cmd *cobra.Command, flags *globalFlags) (config.Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return config.Config{}, fmt.Errorf("resolve home directory: %w", err)
	}
	over := config.Overrides{
		Endpoint: flags.endpoint,
		LogFile:  flags.logFile,
		LogLevel: flags.logLevel,
	}
	if cmd.Flags().Changed("timeout") {
		over.Timeout = &flags.timeout
	}
	if cmd.Flags().Changed("markdown") {
		over.Markdown = &flags.markdown
	}
	return config.Load(config.Options{
		HomeDir:    home,
		ConfigPath: flags.configPath,
		EnvFile:    flags.envFile,
	}, over)
}

func loadApp(cmd *cobra.Command, flags *globalFlags) (*bootstrap.App, error) {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func runTUI(cmd *cobra.Command, flags *globalFlags) error {
	app, err := loadApp(cmd, flags)
	if err != nil {
		return err
	}
	defer app.Close()
	return bootstrap.RunTUI(cmd.Context(), app)
}

func newTUICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive query form",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, flags)
		},
	}
}

func newAskCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool
	askCmd := &cobra.Command{
		Use:   "ask <query...>",
		Short: "Submit one query and print the response",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			if query == "" {
				return fmt.Errorf("query is required")
			}
			app, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.QueryCLI.Ask(app.Context(cmd.Context()), query)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(out); err != nil {
					return err
				}
			} else {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), out.Plain)
			}
			if out.Failed() {
				return fmt.Errorf("query failed (request %s), see %s", out.RequestID, app.Config.LogFile)
			}
			return nil
		},
	}
	askCmd.Flags().BoolVar(&asJSON, "json", false, "print the response as JSON")
	return askCmd
}

func newIngestCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file>",
		Short: "Upload a text, markdown or PDF document to the search service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.QueryCLI.Ingest(app.Context(cmd.Context()), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "ingested %s status=%s bytes=%d\n", out.Filename, out.Status, out.Bytes)
			return nil
		},
	}
}

func newConfigCmd(flags *globalFlags) *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration commands"}
	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			out, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	})
	return cfgCmd
}
