package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/supervisor"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/spf13/cobra"

	"github.com/aretw0/boardsync/pkg/adapters/fs"
	passsource "github.com/aretw0/boardsync/pkg/adapters/lifecycle"
	"github.com/aretw0/boardsync/pkg/document"
)

var (
	watchFile     string
	watchPattern  string
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Apply an outline every time it changes",
	Long: `Apply the outline in --file once, then again after every settled burst of
changes to it (or to the files matched by --pattern) until interrupted.
A failed pass is reported and the watch goes on.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		apply := func(ctx context.Context, path string) error {
			specs, err := document.ReadFile(watchFile)
			if err != nil {
				return err
			}
			result, err := session.Apply(ctx, specs)
			if err != nil {
				return err
			}
			slog.Info(summary(result), "trigger", path)
			return nil
		}

		cfg := fs.WatchConfig{
			Path:     watchFile,
			Pattern:  watchPattern,
			Debounce: watchDebounce,
			Logger:   slog.Default(),
		}
		if _, err := fs.NewWatchWorker(cfg, apply); err != nil {
			return err
		}

		if err := apply(ctx, watchFile); err != nil {
			slog.Error("initial pass failed", "error", err)
		}

		events := make(chan fs.PassEvent)
		cfg.Events = events
		src := passsource.NewSource(events)
		if err := src.Start(ctx); err != nil {
			return err
		}
		printed := make(chan struct{})
		go func() {
			defer close(printed)
			for e := range src.Events() {
				fmt.Fprintln(cmd.OutOrStdout(), e)
			}
		}()

		spec := supervisor.Spec{
			Name: "board-watcher",
			Type: string(worker.TypeGoroutine),
			Factory: func() (worker.Worker, error) {
				w, err := fs.NewWatchWorker(cfg, apply)
				if err != nil {
					return nil, err
				}
				return w, nil
			},
			Backoff: supervisor.Backoff{
				InitialInterval: 100 * time.Millisecond,
				MaxInterval:     5 * time.Second,
				Multiplier:      2,
				ResetDuration:   time.Minute,
				MaxRestarts:     5,
				MaxDuration:     time.Minute,
			},
			RestartPolicy: supervisor.RestartOnFailure,
		}
		sup := supervisor.New("boardsync", supervisor.StrategyOneForOne, spec)
		if err := sup.Start(ctx); err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}
		slog.Info("watching", "path", watchFile)

		<-ctx.Done()

		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = sup.Stop(stopCtx)
		<-printed
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&watchFile, "file", "f", "", "Board outline to apply")
	watchCmd.Flags().StringVar(&watchPattern, "pattern", "", "Glob, relative to the outline's directory, of files that trigger a pass")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", fs.DefaultDebounce, "Quiet period before a pass runs")
	_ = watchCmd.MarkFlagRequired("file")
}
