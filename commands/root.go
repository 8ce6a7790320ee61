package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/afeibuhuifei/project-flow/config"
	"github.com/afeibuhuifei/project-flow/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	cfg       *config.Config
	dbPath    string
	logLevel  string
	noLogFile bool
)

var rootCmd = &cobra.Command{
	Use:   "projectflow",
	Short: "Project and task management API",
	Long: `projectflow serves the project management REST API: projects, tasks with
dependencies, gantt and kanban views, file attachments and notifications.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if dbPath != "" {
			loaded.DatabasePath = dbPath
		}
		if logLevel != "" {
			loaded.LogLevel = logLevel
		}
		logFile := loaded.LogFile
		if noLogFile {
			logFile = ""
		}
		if err := logging.InitLogger(logging.Options{
			File:   logFile,
			Level:  loaded.LogLevel,
			Stdout: loaded.IsDevelopment(),
		}); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		cfg = loaded
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

// SetVersion sets the build information printed by the version command.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides DATABASE_PATH)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&noLogFile, "no-log-file", false, "log to stdout only")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)
}
