package sync

import (
	"context"
	"fmt"

	"github.com/SheepYY039/snipeit-netbox/core/netbox"
	"github.com/SheepYY039/snipeit-netbox/core/reconcile"
	"github.com/SheepYY039/snipeit-netbox/core/snipe"

	"go.uber.org/zap"
)

// syncDeviceTypes reconciles Snipe-IT asset models against NetBox device
// types. The manufacturer reference is resolved by name against the
// manufacturer snapshot; a model whose manufacturer is missing on the
// target side is a per-item error.
func (s *Syncer) syncDeviceTypes(ctx context.Context, models []snipe.Model) (StageStats, error) {
	stats := StageStats{Stage: "device_types"}

	manufacturers, err := s.target.Manufacturers.List(ctx)
	if err != nil {
		return stats, fmt.Errorf("loading manufacturer snapshot: %w", err)
	}
	manufSnap := reconcile.NewSnapshot(manufacturers)

	existing, err := s.target.DeviceTypes.List(ctx)
	if err != nil {
		return stats, fmt.Errorf("loading device type snapshot: %w", err)
	}
	snap := reconcile.NewSnapshot(existing)

	for _, model := range models {
		stats.Total++
		log := s.log.With(zap.String("model", model.Name))
		log.Info("checking device type")

		manufacturer, count := manufSnap.ByName(model.Manufacturer.Name)
		if count == 0 {
			stats.Errors++
			log.Error("manufacturer missing on target side, skipping model",
				zap.String("manufacturer", model.Manufacturer.Name))
			continue
		}

		// device type names are only unique per manufacturer
		match := snap.MatchScoped(model.ID, model.Name, func(d netbox.DeviceType) bool {
			return d.Manufacturer.Name == model.Manufacturer.Name
		})

		diff := deviceTypeDiff(match.Target, model, manufacturer.ID)
		dirty := match.Kind == reconcile.Linked && len(diff) > 0

		switch reconcile.Decide(match.Kind, dirty, s.flags) {
		case reconcile.Create:
			created, err := s.target.DeviceTypes.Create(ctx, netbox.Params{
				"model":         model.Name,
				"slug":          reconcile.Slugify(model.Name),
				"part_number":   model.ModelNumber,
				"manufacturer":  manufacturer.ID,
				"description":   reconcile.ImportNote(s.now()),
				"comments":      reconcile.InitialComments(model.Notes),
				"is_full_depth": false,
				"u_height":      0.0,
				"custom_fields": netbox.Params{
					netbox.LinkageField: model.ID,
				},
			})
			if err != nil {
				return stats, fmt.Errorf("creating device type %q: %w", model.Name, err)
			}
			snap.Add(created)
			stats.Created++
			log.Info("created device type", zap.Int64("id", created.ID))

		case reconcile.Link:
			err := s.target.DeviceTypes.Update(ctx, []netbox.Params{{
				"id":       match.Target.ID,
				"comments": reconcile.UpdateNote(match.Target.Comments, s.now(), reconcile.ReasonLink),
				"custom_fields": netbox.Params{
					netbox.LinkageField: model.ID,
				},
			}})
			if err != nil {
				return stats, fmt.Errorf("linking device type %q: %w", model.Name, err)
			}
			stats.Linked++
			log.Info("found device type by model and manufacturer, stamped linkage key",
				zap.Int64("id", match.Target.ID))

		case reconcile.Update:
			diff["id"] = match.Target.ID
			diff["comments"] = reconcile.UpdateNote(match.Target.Comments, s.now(), reconcile.ReasonValues)
			if err := s.target.DeviceTypes.Update(ctx, []netbox.Params{diff}); err != nil {
				return stats, fmt.Errorf("updating device type %q: %w", model.Name, err)
			}
			stats.Updated++
			log.Info("updated device type", zap.Int64("id", match.Target.ID))

		default:
			stats.Skipped++
			s.logSkip(log, "device type", match.Kind, dirty, match.NameCount, &stats)
		}
	}

	return stats, nil
}

// deviceTypeDiff computes the minimal changed attribute set for a linked
// device type. An empty diff means nothing reconciled differs.
func deviceTypeDiff(target netbox.DeviceType, model snipe.Model, manufacturerID int64) netbox.Params {
	diff := netbox.Params{}
	if target.Model != model.Name {
		diff["model"] = model.Name
		diff["slug"] = reconcile.Slugify(model.Name)
	}
	if target.PartNumber != model.ModelNumber {
		diff["part_number"] = model.ModelNumber
	}
	if target.Manufacturer.ID != manufacturerID {
		diff["manufacturer"] = manufacturerID
	}
	return diff
}
