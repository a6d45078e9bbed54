package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/blackconnect/internal/app"
	"github.com/five82/blackconnect/internal/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "blackconnect: %v\n", err)
		return 1
	}
	return 0
}

type rootFlags struct {
	configPath string
	host       string
	port       int
	verbose    bool
	logFile    string
}

func (f *rootFlags) options(cmd *cobra.Command) (app.Options, func(), error) {
	var w io.Writer = os.Stderr
	closeFn := func() {}
	if f.logFile != "" {
		file, err := os.OpenFile(f.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return app.Options{}, nil, fmt.Errorf("open log file: %w", err)
		}
		w = file
		closeFn = func() { _ = file.Close() }
	}
	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))

	return app.Options{
		ConfigPath: f.configPath,
		Host:       f.host,
		Port:       f.port,
		Logger:     logger,
		Out:        cmd.OutOrStdout(),
	}, closeFn, nil
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "blackconnect",
		Short:         "Reformat Python sources through a running blackd daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().StringVar(&flags.host, "host", "", "blackd hostname, overrides the config file")
	root.PersistentFlags().IntVar(&flags.port, "port", 0, "blackd port, overrides the config file")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "write logs to this file instead of stderr")

	root.AddCommand(
		newCheckCmd(flags),
		newFormatCmd(flags),
		newTUICmd(flags),
		newInitCmd(flags),
	)
	return root
}

func newCheckCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that blackd is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, closeLog, err := flags.options(cmd)
			if err != nil {
				return err
			}
			defer closeLog()

			result, err := app.Check(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if !result.Reachable {
				return fmt.Errorf("blackd unreachable: %s", result.Detail)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "blackd %s is reachable\n", result.Detail)
			return nil
		},
	}
}

func newFormatCmd(flags *rootFlags) *cobra.Command {
	var dryRun bool
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "format FILE...",
		Short: "Reformat files in place",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, closeLog, err := flags.options(cmd)
			if err != nil {
				return err
			}
			defer closeLog()

			summary, err := app.Format(cmd.Context(), app.FormatOptions{
				Options: opts,
				Files:   args,
				DryRun:  dryRun,
				Timeout: timeout,
			})
			if err != nil && !errors.Is(err, app.ErrFormatFailed) {
				return fmt.Errorf("format: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary.String())
			return err
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing files")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "abort blackd calls after this long (0 waits indefinitely)")
	return cmd
}

func newTUICmd(flags *rootFlags) *cobra.Command {
	var probeSeconds int
	cmd := &cobra.Command{
		Use:   "tui FILE...",
		Short: "Open files in the interactive reformat UI",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, closeLog, err := flags.options(cmd)
			if err != nil {
				return err
			}
			defer closeLog()
			if flags.logFile == "" {
				opts.Logger = nil
			}

			tuiOpts := app.TUIOptions{Options: opts, Files: args}
			if probeSeconds > 0 {
				tuiOpts.ProbeEvery = time.Duration(probeSeconds) * time.Second
			}
			return app.RunTUI(cmd.Context(), tuiOpts)
		},
	}
	cmd.Flags().IntVar(&probeSeconds, "probe", 0, "daemon probe interval in seconds (optional, defaults to 2s)")
	return cmd
}

func newInitCmd(flags *rootFlags) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := app.Init(flags.configPath, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}
