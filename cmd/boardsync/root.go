package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/boardsync"
	"github.com/aretw0/boardsync/internal/platform"
)

var (
	verbose    bool
	key        string
	token      string
	board      string
	configFile string
)

// extraOptions are appended to the options built from flags. Tests use it to
// point the commands at an in-memory board.
var extraOptions []boardsync.Option

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "boardsync",
	Short: "Keep a Trello board in line with a YAML outline",
	Long: `boardsync fetches a Trello board as a compact YAML outline and applies
edited outlines back: cards are renamed, moved, described, created and
closed, and lists missing from the outline are closed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&key, "key", "k", "", "Trello API key (env "+platform.EnvKey+")")
	rootCmd.PersistentFlags().StringVarP(&token, "token", "t", "", "Trello API token (env "+platform.EnvToken+")")
	rootCmd.PersistentFlags().StringVarP(&board, "board", "b", "", "Board identifier (env "+platform.EnvBoard+")")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Settings file (default: nearest "+platform.ConfigFileName+", then $HOME)")
}

// openSession builds a session from the flags that were set on the command line.
func openSession(cmd *cobra.Command) (*boardsync.Session, error) {
	var flags platform.Config
	set := func(name, value string, s *platform.Setting[string]) {
		if cmd.Flags().Changed(name) {
			*s = platform.Of(value)
		}
	}
	set("key", key, &flags.Key)
	set("token", token, &flags.Token)
	set("board", board, &flags.Board)

	opts := []boardsync.Option{
		boardsync.WithLogger(slog.Default()),
		boardsync.WithSettings(flags),
	}
	if configFile != "" {
		opts = append(opts, boardsync.WithConfigFile(configFile))
	}
	opts = append(opts, extraOptions...)
	return boardsync.Open(opts...)
}
