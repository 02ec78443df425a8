package sync

import (
	"context"
	"fmt"

	"github.com/SheepYY039/snipeit-netbox/core/netbox"
	"github.com/SheepYY039/snipeit-netbox/core/reconcile"
	"github.com/SheepYY039/snipeit-netbox/core/snipe"

	"go.uber.org/zap"
)

// syncTenants reconciles Snipe-IT companies against NetBox tenants.
func (s *Syncer) syncTenants(ctx context.Context, companies []snipe.Company) (StageStats, error) {
	stats := StageStats{Stage: "tenants"}

	existing, err := s.target.Tenants.List(ctx)
	if err != nil {
		return stats, fmt.Errorf("loading tenant snapshot: %w", err)
	}
	snap := reconcile.NewSnapshot(existing)

	for _, company := range companies {
		stats.Total++
		log := s.log.With(zap.String("company", company.Name))
		log.Info("checking company")

		match := snap.Match(company.ID, company.Name)
		dirty := match.Kind == reconcile.Linked && match.Target.Name != company.Name

		switch reconcile.Decide(match.Kind, dirty, s.flags) {
		case reconcile.Create:
			created, err := s.target.Tenants.Create(ctx, netbox.Params{
				"name":        company.Name,
				"slug":        reconcile.Slugify(company.Name),
				"description": reconcile.ImportNote(s.now()),
				"custom_fields": netbox.Params{
					netbox.LinkageField: company.ID,
				},
			})
			if err != nil {
				return stats, fmt.Errorf("creating tenant %q: %w", company.Name, err)
			}
			snap.Add(created)
			stats.Created++
			log.Info("created tenant", zap.Int64("id", created.ID))

		case reconcile.Link:
			err := s.target.Tenants.Update(ctx, []netbox.Params{{
				"id":          match.Target.ID,
				"description": reconcile.UpdateNote(match.Target.Description, s.now(), reconcile.ReasonLink),
				"custom_fields": netbox.Params{
					netbox.LinkageField: company.ID,
				},
			}})
			if err != nil {
				return stats, fmt.Errorf("linking tenant %q: %w", company.Name, err)
			}
			stats.Linked++
			log.Info("found tenant by name, stamped linkage key", zap.Int64("id", match.Target.ID))

		case reconcile.Update:
			err := s.target.Tenants.Update(ctx, []netbox.Params{{
				"id":          match.Target.ID,
				"name":        company.Name,
				"slug":        reconcile.Slugify(company.Name),
				"description": reconcile.UpdateNote(match.Target.Description, s.now(), reconcile.ReasonValues),
			}})
			if err != nil {
				return stats, fmt.Errorf("updating tenant %q: %w", company.Name, err)
			}
			stats.Updated++
			log.Info("updated tenant", zap.Int64("id", match.Target.ID))

		default:
			stats.Skipped++
			s.logSkip(log, "tenant", match.Kind, dirty, match.NameCount, &stats)
		}
	}

	return stats, nil
}

// logSkip explains a Skip decision and counts ambiguous matches as
// per-item errors.
func (s *Syncer) logSkip(log *zap.Logger, kind string, match reconcile.MatchKind, dirty bool, nameCount int, stats *StageStats) {
	switch {
	case match == reconcile.Ambiguous:
		stats.Errors++
		log.Error("ambiguous name match, skipping",
			zap.String("kind", kind),
			zap.Int("candidates", nameCount),
		)
	case match == reconcile.NameMatched:
		log.Info("found by name, skipping since linking is not enabled", zap.String("kind", kind))
	case dirty:
		log.Info("changed, skipping since updating is not enabled", zap.String("kind", kind))
	default:
		log.Debug("unchanged", zap.String("kind", kind))
	}
}
