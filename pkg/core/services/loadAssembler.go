package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/jakechorley/meeting-assignments/internal/config"
	"github.com/jakechorley/meeting-assignments/pkg/core/assembly"
	"github.com/jakechorley/meeting-assignments/pkg/core/availability"
	"github.com/jakechorley/meeting-assignments/pkg/core/catalog"
	"github.com/jakechorley/meeting-assignments/pkg/core/directory"
	"github.com/jakechorley/meeting-assignments/pkg/core/ledger"
	"github.com/jakechorley/meeting-assignments/pkg/core/model"
	"github.com/jakechorley/meeting-assignments/pkg/db"
)

// RosterSource provides the members list
type RosterSource interface {
	ListMembers(cfg *config.Config) ([]model.Person, error)
}

// SettingsFromConfig builds the engine settings from the configuration
func SettingsFromConfig(cfg *config.Config) (assembly.Settings, error) {
	mode, err := availability.ParseMode(cfg.AvailabilityMode)
	if err != nil {
		return assembly.Settings{}, fmt.Errorf("invalid availability mode: %w", err)
	}

	locale := language.English
	if cfg.Locale != "" {
		locale, err = language.Parse(cfg.Locale)
		if err != nil {
			return assembly.Settings{}, fmt.Errorf("invalid locale %q: %w", cfg.Locale, err)
		}
	}

	return assembly.Settings{
		CircuitOverseerName: cfg.CircuitOverseerName,
		PocketMode:          cfg.PocketMode,
		AvailabilityMode:    mode,
		Locale:              locale,
	}, nil
}

// LoadRoster reads members from the roster source and joins them with the
// status, time-away and assistant pair tables. Members with malformed data are
// dropped with a warning so one bad row does not block scheduling.
func LoadRoster(ctx context.Context, source RosterSource, store db.RosterStore, cfg *config.Config, logger *zap.Logger) (*directory.Directory, error) {
	logger.Debug("Fetching members")
	members, err := source.ListMembers(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	logger.Debug("Fetched members", zap.Int("count", len(members)))

	logger.Debug("Fetching status periods")
	statusRows, err := store.GetStatusPeriods(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch status periods: %w", err)
	}
	statuses, err := db.StatusesByPerson(statusRows)
	if err != nil {
		logger.Warn("Skipped malformed status periods", zap.Error(err))
	}

	logger.Debug("Fetching time away")
	awayRows, err := store.GetTimeAways(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch time away: %w", err)
	}
	aways, err := db.TimeAwaysByPerson(awayRows)
	if err != nil {
		logger.Warn("Skipped malformed time away", zap.Error(err))
	}

	logger.Debug("Fetching assistant pairs")
	pairRows, err := store.GetAssistantPairs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assistant pairs: %w", err)
	}

	persons := make([]model.Person, len(members))
	for i, m := range members {
		m.Statuses = statuses[m.ID]
		m.TimeAway = aways[m.ID]
		persons[i] = m
	}

	valid, err := directory.Validate(persons)
	if err != nil {
		logger.Warn("Dropped members with invalid data",
			zap.Int("dropped", len(persons)-len(valid)),
			zap.Error(err))
	}

	dir, err := directory.New(valid, db.AssistantPairs(pairRows))
	if err != nil {
		return nil, fmt.Errorf("failed to build directory: %w", err)
	}

	logger.Info("Roster loaded",
		zap.Int("members", dir.Len()),
		zap.Int("status_periods", len(statusRows)),
		zap.Int("time_away", len(awayRows)),
		zap.Int("assistant_pairs", len(pairRows)))

	return dir, nil
}

// LoadAssembler reads the roster and assignment history and wires the engine.
// assignments may be a different store from roster, e.g. redis.
func LoadAssembler(ctx context.Context, source RosterSource, roster db.RosterStore, assignments db.AssignmentStore, cfg *config.Config, logger *zap.Logger) (*assembly.Assembler, error) {
	settings, err := SettingsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	dir, err := LoadRoster(ctx, source, roster, cfg, logger)
	if err != nil {
		return nil, err
	}

	logger.Debug("Fetching assignments")
	rows, err := assignments.GetAssignments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments: %w", err)
	}

	cat := catalog.Default()
	history := ledger.New(cat, db.AssignmentRecords(rows)...)

	logger.Info("Assignment history loaded",
		zap.Int("rows", len(rows)),
		zap.Int("live", history.Len()))

	asm, err := assembly.New(assembly.Context{
		Catalog:   cat,
		Directory: dir,
		Ledger:    history,
		Settings:  settings,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create assembler: %w", err)
	}

	return asm, nil
}

// RefreshRoster reloads the roster into a running assembler
func RefreshRoster(ctx context.Context, asm *assembly.Assembler, source RosterSource, store db.RosterStore, cfg *config.Config, logger *zap.Logger) error {
	dir, err := LoadRoster(ctx, source, store, cfg, logger)
	if err != nil {
		return err
	}
	asm.RefreshRoster(dir)
	return nil
}
