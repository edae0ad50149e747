package commands

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vaughan-dsouza/quill/internal/config"
	"github.com/vaughan-dsouza/quill/internal/logging"
)

var (
	// Global flags
	dbURL    string
	envFile  string
	logLevel string

	cfg *config.Config
	log *logrus.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Quill - a small multi-user blog",
	Long: `Quill is a small multi-user blog backed by PostgreSQL.

Visitors can read the post feed; registered users can write, edit and
delete their own posts.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL (overrides DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initDBCmd)
}

// setup loads configuration and the logger shared by every subcommand.
func setup() error {
	loaded, err := config.LoadEnvFile(envFile)
	if err != nil {
		return err
	}

	cfg, err = config.Load()
	if err != nil {
		return err
	}
	if dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	log, err = logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	if !loaded {
		log.Debug("No .env file found")
	}
	return nil
}

func requireDatabaseURL() error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required (or pass --db)")
	}
	return nil
}
