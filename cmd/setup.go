package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mccwk.com/rl/internal/config"
	"mccwk.com/rl/internal/store"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the remote database schema",
	Long: `Run the schema migrations against the database in RL_DATABASE_URL.
This only needs to happen once per database; re-running it is safe.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !cfg.Remote() {
		return errors.New("RL_DATABASE_URL is not set; nothing to set up in local-only mode")
	}

	db, err := store.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to remote database: %w", err)
	}

	if err := store.Setup(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	fmt.Println("Remote database is ready.")
	return nil
}
