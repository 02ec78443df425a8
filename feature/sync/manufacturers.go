package sync

import (
	"context"
	"fmt"

	"github.com/SheepYY039/snipeit-netbox/core/netbox"
	"github.com/SheepYY039/snipeit-netbox/core/reconcile"
	"github.com/SheepYY039/snipeit-netbox/core/snipe"

	"go.uber.org/zap"
)

// syncManufacturers reconciles Snipe-IT manufacturers against NetBox
// manufacturers.
func (s *Syncer) syncManufacturers(ctx context.Context, manufacturers []snipe.Manufacturer) (StageStats, error) {
	stats := StageStats{Stage: "manufacturers"}

	existing, err := s.target.Manufacturers.List(ctx)
	if err != nil {
		return stats, fmt.Errorf("loading manufacturer snapshot: %w", err)
	}
	snap := reconcile.NewSnapshot(existing)

	for _, manufacturer := range manufacturers {
		stats.Total++
		log := s.log.With(zap.String("manufacturer", manufacturer.Name))
		log.Info("checking manufacturer")

		match := snap.Match(manufacturer.ID, manufacturer.Name)
		dirty := match.Kind == reconcile.Linked && match.Target.Name != manufacturer.Name

		switch reconcile.Decide(match.Kind, dirty, s.flags) {
		case reconcile.Create:
			created, err := s.target.Manufacturers.Create(ctx, netbox.Params{
				"name":        manufacturer.Name,
				"slug":        reconcile.Slugify(manufacturer.Name),
				"description": reconcile.ImportNote(s.now()),
				"custom_fields": netbox.Params{
					netbox.LinkageField: manufacturer.ID,
				},
			})
			if err != nil {
				return stats, fmt.Errorf("creating manufacturer %q: %w", manufacturer.Name, err)
			}
			snap.Add(created)
			stats.Created++
			log.Info("created manufacturer", zap.Int64("id", created.ID))

		case reconcile.Link:
			err := s.target.Manufacturers.Update(ctx, []netbox.Params{{
				"id":          match.Target.ID,
				"description": reconcile.UpdateNote(match.Target.Description, s.now(), reconcile.ReasonLink),
				"custom_fields": netbox.Params{
					netbox.LinkageField: manufacturer.ID,
				},
			}})
			if err != nil {
				return stats, fmt.Errorf("linking manufacturer %q: %w", manufacturer.Name, err)
			}
			stats.Linked++
			log.Info("found manufacturer by name, stamped linkage key", zap.Int64("id", match.Target.ID))

		case reconcile.Update:
			err := s.target.Manufacturers.Update(ctx, []netbox.Params{{
				"id":          match.Target.ID,
				"name":        manufacturer.Name,
				"slug":        reconcile.Slugify(manufacturer.Name),
				"description": reconcile.UpdateNote(match.Target.Description, s.now(), reconcile.ReasonValues),
			}})
			if err != nil {
				return stats, fmt.Errorf("updating manufacturer %q: %w", manufacturer.Name, err)
			}
			stats.Updated++
			log.Info("updated manufacturer", zap.Int64("id", match.Target.ID))

		default:
			stats.Skipped++
			s.logSkip(log, "manufacturer", match.Kind, dirty, match.NameCount, &stats)
		}
	}

	return stats, nil
}
