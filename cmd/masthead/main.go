package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/saltyorg/masthead/internal/config"
	"github.com/saltyorg/masthead/internal/database"
	"github.com/saltyorg/masthead/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// options holds the global CLI flags
type options struct {
	configPath string
	dbPath     string
	logFile    string
	verbosity  int

	cfg *config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "masthead",
		Short: "Masthead - authors, magazines and articles over SQLite",
		Long: `Masthead stores authors, magazines and the articles that link them in an embedded SQLite database.
The default database is in-memory, so nothing outlives a single command unless --db points at a file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVarP(&opts.dbPath, "db", "d", "", "SQLite database path, \":memory:\" by default (or set DB_PATH env var)")
	rootCmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "Also write logs to this rotating file")
	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", "Increase verbosity (-v debug, -vv trace)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "masthead %s (commit: %s, built: %s)\n", version, commit, date)
		},
	})

	rootCmd.AddCommand(
		newInitCmd(opts),
		newAuthorCmd(opts),
		newMagazineCmd(opts),
		newArticleCmd(opts),
		newImportCmd(opts),
		newDBCmd(opts),
	)

	return rootCmd
}

// load resolves config from file, env and flags, then sets up logging.
// Flags win over env, env wins over the file.
func (o *options) load() error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.dbPath != "" {
		cfg.Database.Path = o.dbPath
	}
	if o.logFile != "" {
		cfg.Log.File = o.logFile
	}
	o.cfg = cfg

	logging.Apply(cfg.Log, o.verbosity)
	return nil
}

// withDB opens the configured database, ensures the schema exists and
// hands it to fn. The connection is closed on every return path.
func (o *options) withDB(fn func(db *database.DB) error) error {
	db, err := database.Open(o.cfg.DatabaseOptions())
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	if db.InMemory() {
		log.Debug().Msg("Using in-memory database; changes are discarded on exit")
	}

	if err := database.CreateTables(db); err != nil {
		return err
	}

	return fn(db)
}
