package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/SheepYY039/snipeit-netbox/core/logger"
	"github.com/SheepYY039/snipeit-netbox/core/reconcile"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Syncer drives one full reconciliation pass from Snipe-IT into NetBox.
// Entity kinds are processed strictly in dependency order: tenants,
// manufacturers, device types, sites, locations, location relationships,
// devices (roles are resolved inline during the device stage).
//
// A Syncer is single-use and fully sequential; re-running a pass is safe
// because every decision restarts from matching by linkage key or name.
type Syncer struct {
	source      Source
	target      Target
	flags       reconcile.Flags
	defaultSite string
	keywords    []SiteKeyword

	log   *zap.Logger
	runID string
	now   func() time.Time
}

// New creates a Syncer for one pass.
func New(source Source, target Target, cfg Config, log *zap.Logger) *Syncer {
	runID := uuid.NewString()
	return &Syncer{
		source: source,
		target: target,
		flags: reconcile.Flags{
			AllowUpdates: cfg.AllowUpdates,
			AllowLinking: cfg.AllowLinking,
		},
		defaultSite: cfg.DefaultSite,
		keywords:    cfg.KeywordTable(),
		log:         logger.WithRun(log, runID),
		runID:       runID,
		now:         time.Now,
	}
}

// RunID returns the pass identifier stamped on logs, journal and report.
func (s *Syncer) RunID() string { return s.runID }

// Run executes the full pass. The returned report always covers the stages
// that ran, even when a transport error aborts the pass early; records
// already written stay committed.
func (s *Syncer) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:        s.runID,
		StartedAt:    s.now(),
		AllowUpdates: s.flags.AllowUpdates,
		AllowLinking: s.flags.AllowLinking,
	}

	s.log.Info("starting sync pass",
		zap.Bool("allow_updates", s.flags.AllowUpdates),
		zap.Bool("allow_linking", s.flags.AllowLinking),
	)

	err := s.run(ctx, report)
	report.FinishedAt = s.now()
	if err != nil {
		return report, err
	}

	s.log.Info("sync pass finished", zap.Int("stages", len(report.Stages)))
	return report, nil
}

func (s *Syncer) run(ctx context.Context, report *Report) error {
	record := func(stats StageStats, err error) error {
		report.Stages = append(report.Stages, stats)
		return err
	}

	companies, err := s.source.Companies(ctx)
	if err != nil {
		return fmt.Errorf("fetching companies: %w", err)
	}
	if err := record(s.syncTenants(ctx, companies)); err != nil {
		return err
	}

	manufacturers, err := s.source.Manufacturers(ctx)
	if err != nil {
		return fmt.Errorf("fetching manufacturers: %w", err)
	}
	if err := record(s.syncManufacturers(ctx, manufacturers)); err != nil {
		return err
	}

	models, err := s.source.Models(ctx)
	if err != nil {
		return fmt.Errorf("fetching models: %w", err)
	}
	if err := record(s.syncDeviceTypes(ctx, models)); err != nil {
		return err
	}

	locations, err := s.source.Locations(ctx)
	if err != nil {
		return fmt.Errorf("fetching locations: %w", err)
	}
	if err := record(s.syncSites(ctx, locations)); err != nil {
		return err
	}

	pass, stats, err := s.syncLocations(ctx, locations)
	if err := record(stats, err); err != nil {
		return err
	}
	if err := record(s.syncLocationParents(ctx, pass)); err != nil {
		return err
	}

	assets, err := s.source.Assets(ctx)
	if err != nil {
		return fmt.Errorf("fetching assets: %w", err)
	}
	return record(s.syncDevices(ctx, assets))
}
