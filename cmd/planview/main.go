package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/nwestfall/planview/internal/api"
	"github.com/nwestfall/planview/internal/bus"
	"github.com/nwestfall/planview/internal/config"
	"github.com/nwestfall/planview/internal/tui"
)

var version = "dev"

func main() {
	logLevel := &slog.LevelVar{}

	viper.SetEnvPrefix("PLANVIEW")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:   "planview",
		Short: "Interactive console for a project's task-dependency graph",
		Long: `planview renders a project's task-dependency graph as an interactive
terminal console. It fetches tasks and dependencies from the backend,
lays them out in topological bands, and lets you inspect, expand,
rename, and delete tasks without leaving the terminal.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if viper.GetBool(FlagVerbose) {
				logLevel.Set(slog.LevelDebug)
			}

			// Load config from files with defaults
			cfg, err := config.LoadConfig(viper.GetViper())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			// Apply CLI flag overrides (only if explicitly set)
			if cmd.Flags().Changed(FlagAPIURL) {
				cfg.API.BaseURL = viper.GetString(FlagAPIURL)
			}
			if cmd.Flags().Changed(FlagTimeout) {
				cfg.API.Timeout = viper.GetDuration(FlagTimeout)
			}
			if cmd.Flags().Changed(FlagProject) {
				cfg.Project = viper.GetInt64(FlagProject)
			}
			if cmd.Flags().Changed(FlagLogDir) {
				cfg.Paths.LogDir = viper.GetString(FlagLogDir)
			}
			if cmd.Flags().Changed(FlagNodeWidth) {
				cfg.Graph.NodeWidth = viper.GetInt(FlagNodeWidth)
			}
			if cmd.Flags().Changed(FlagColGap) {
				cfg.Graph.ColGap = viper.GetInt(FlagColGap)
			}

			// The console takes over the terminal; refuse to start on a pipe
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return fmt.Errorf("planview requires an interactive terminal (stdout is not a TTY)")
			}

			// Redirect logging to a rotating file so it cannot corrupt the display
			logResult, err := SetupTUILogger(cfg.Paths.LogDir, logLevel, cfg.LogRotation)
			if err != nil {
				return fmt.Errorf("setup logger: %w", err)
			}
			defer func() { _ = logResult.Close() }()
			slog.SetDefault(logResult.Logger)

			slog.Info("planview starting",
				"version", version,
				"base_url", cfg.API.BaseURL,
				"project", cfg.Project,
				"log_file", logResult.FilePath,
			)

			client := api.NewHTTPClient(cfg.API.BaseURL).WithTimeout(cfg.API.Timeout)

			b := bus.New(bus.DefaultBufferSize)
			defer b.Close()

			app := tui.New(client, cfg,
				tui.WithBus(b),
				tui.WithOnTaskSelected(func(id *int64) {
					if id == nil {
						slog.Debug("selection cleared")
						return
					}
					slog.Debug("task selected", "id", *id)
				}),
				tui.WithOnProjectChanged(func(id int64) {
					slog.Info("project switched", "id", id)
				}),
				tui.WithOnQuit(func() {
					slog.Info("planview exiting")
				}),
			)

			return app.Run()
		},
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().Bool(FlagVerbose, false, "Enable verbose (debug) logging")
	rootCmd.PersistentFlags().String(FlagConfig, "", "Config file path (default: .planview/config.yaml)")
	rootCmd.PersistentFlags().String(FlagLogDir, "", "Directory for the debug log")

	// Root command flags
	rootCmd.Flags().String(FlagAPIURL, "", "Backend base URL")
	rootCmd.Flags().Duration(FlagTimeout, 30*time.Second, "Per-request backend timeout")
	rootCmd.Flags().Int64(FlagProject, 0, "Project id to open at startup")
	rootCmd.Flags().Int(FlagNodeWidth, 26, "Rendered width of a task node in cells")
	rootCmd.Flags().Int(FlagColGap, 2, "Gap between layout bands in cells")

	// Bind all flags to viper
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = viper.BindPFlag(f.Name, f)
	})
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = viper.BindPFlag(f.Name, f)
	})

	// Version command
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("planview %s\n", version)
		},
	}

	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
