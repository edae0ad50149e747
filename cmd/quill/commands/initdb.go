package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vaughan-dsouza/quill/internal/db"
)

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Drop and recreate the database tables",
	Long: `Drop the user and post tables and create them again from the built-in
schema. All existing users and posts are lost.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInitDB(cmd)
	},
}

func runInitDB(cmd *cobra.Command) error {
	if err := requireDatabaseURL(); err != nil {
		return err
	}

	dbConn, err := db.Connect(cfg.DatabaseURL, db.Options{
		MaxOpen:     1,
		MaxIdle:     1,
		MaxLifetime: cfg.DBMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if err := db.InitSchema(cmd.Context(), dbConn); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Initialized the database.")
	return nil
}
