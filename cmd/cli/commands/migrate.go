package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// MigrateCmd creates the migrate command
func MigrateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending Postgres migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Postgres == nil {
				return fmt.Errorf("migrate needs the postgres database backend (current: %s)", app.Cfg.Database.Backend)
			}

			applied, err := app.Postgres.RunMigrations(app.Ctx)
			if err != nil {
				return err
			}

			app.Logger.Info("Migrations complete", zap.Int("applied", len(applied)))

			if len(applied) == 0 {
				fmt.Print("\nDatabase is up to date\n\n")
				return nil
			}
			fmt.Printf("\n✓ Applied %d migrations:\n", len(applied))
			for _, name := range applied {
				fmt.Printf("  - %s\n", name)
			}
			fmt.Println()
			return nil
		},
	}
}
