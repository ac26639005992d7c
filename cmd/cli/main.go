package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/meeting-assignments/cmd/cli/commands"
	"github.com/jakechorley/meeting-assignments/internal/config"
	"github.com/jakechorley/meeting-assignments/pkg/clients/sheetsclient"
	"github.com/jakechorley/meeting-assignments/pkg/db"
	"github.com/jakechorley/meeting-assignments/pkg/postgres"
	"github.com/jakechorley/meeting-assignments/pkg/redisstore"
	"github.com/jakechorley/meeting-assignments/pkg/sheetssql"
	"github.com/jakechorley/meeting-assignments/pkg/utils/logging"
)

func main() {
	app := &commands.AppContext{}

	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Meeting assignments CLI - Schedule congregation meeting parts",
		Long:  `A CLI tool for finding eligible members for meeting parts, rotating them fairly and recording the schedule.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(app)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.Close()
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&app.Env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.CandidatesCmd(app))
	rootCmd.AddCommand(commands.AssignCmd(app))
	rootCmd.AddCommand(commands.ClearCmd(app))
	rootCmd.AddCommand(commands.ReviewCmd(app))
	rootCmd.AddCommand(commands.DraftCmd(app))
	rootCmd.AddCommand(commands.ExplainCmd(app))
	rootCmd.AddCommand(commands.WeeksCmd(app))
	rootCmd.AddCommand(commands.SlotsCmd(app))
	rootCmd.AddCommand(commands.MembersCmd(app))
	rootCmd.AddCommand(commands.SearchCmd(app))
	rootCmd.AddCommand(commands.AwayCmd(app))
	rootCmd.AddCommand(commands.RefreshCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, clients, and database
func initApp(app *commands.AppContext) error {
	var err error
	app.Ctx = context.Background()

	app.Logger, err = logging.InitLogger(app.Env, "")
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", app.Env))

	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(app.Env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully",
		zap.String("database", app.Cfg.Database.Backend),
		zap.String("ledger", app.Cfg.Ledger.Backend))

	app.Logger.Info("Loading OAuth client configuration")
	oauthCfg, err := config.LoadOAuthClientWithEnv(app.Env)
	if err != nil {
		return fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	app.Logger.Info("Initializing sheets client")
	app.SheetsClient, err = sheetsclient.NewClient(app.Ctx, oauthCfg, app.Env, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to create sheets client: %w", err)
	}
	app.Members = app.SheetsClient
	app.Logger.Debug("Sheets client initialized successfully")

	var store db.ScheduleStore
	switch app.Cfg.Database.Backend {
	case config.BackendPostgres:
		app.Logger.Info("Connecting to postgres")
		app.Postgres, err = postgres.NewDB(app.Ctx, app.Cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		store = app.Postgres
	default:
		schema, err := db.Schema()
		if err != nil {
			return fmt.Errorf("failed to create database schema: %w", err)
		}
		app.Logger.Debug("Database schema created", zap.Int("tables", len(schema.Tables)))

		app.Logger.Info("Connecting to database", zap.String("spreadsheet_id", app.Cfg.DatabaseSheetID))
		ssqlDB, err := sheetssql.NewDB(app.SheetsClient, app.Cfg.DatabaseSheetID, schema)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		store = db.NewDB(ssqlDB)
	}
	app.Roster = store
	app.Assignments = store

	if app.Cfg.Ledger.Backend == config.LedgerRedis {
		app.Logger.Info("Connecting to redis", zap.String("addr", app.Cfg.Redis.Addr))
		ledgerStore, client, err := redisstore.New(app.Ctx, redisstore.Options{
			Addr:     app.Cfg.Redis.Addr,
			Password: app.Cfg.Redis.Password,
			DB:       app.Cfg.Redis.DB,
			Prefix:   app.Cfg.Redis.Prefix,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		app.Redis = client
		app.Assignments = ledgerStore
	}

	app.Logger.Info("Database initialized successfully")
	return nil
}
