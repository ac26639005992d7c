package commands

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jakechorley/meeting-assignments/internal/config"
	"github.com/jakechorley/meeting-assignments/pkg/clients/sheetsclient"
	"github.com/jakechorley/meeting-assignments/pkg/core/assembly"
	"github.com/jakechorley/meeting-assignments/pkg/core/services"
	"github.com/jakechorley/meeting-assignments/pkg/db"
	"github.com/jakechorley/meeting-assignments/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Env          string
	Cfg          *config.Config
	SheetsClient *sheetsclient.Client
	Members      services.RosterSource
	Roster       db.RosterStore
	Assignments  db.AssignmentStore
	Logger       *zap.Logger
	Ctx          context.Context

	// Set only for the backends in use
	Postgres *postgres.DB
	Redis    *redis.Client

	mu        sync.Mutex
	assembler *assembly.Assembler
}

// Assembler loads the roster and assignment history on first use. Commands that
// only touch the database, such as migrate, never pay for it.
func (a *AppContext) Assembler() (*assembly.Assembler, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.assembler != nil {
		return a.assembler, nil
	}

	asm, err := services.LoadAssembler(a.Ctx, a.Members, a.Roster, a.Assignments, a.Cfg, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	a.assembler = asm
	return asm, nil
}

// Loaded reports whether the assembler has been built
func (a *AppContext) Loaded() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.assembler != nil
}

// Close releases database connections
func (a *AppContext) Close() {
	if a.Postgres != nil {
		a.Postgres.Close()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil && a.Logger != nil {
			a.Logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}
}
