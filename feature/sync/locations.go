package sync

import (
	"context"
	"fmt"

	"github.com/SheepYY039/snipeit-netbox/core/netbox"
	"github.com/SheepYY039/snipeit-netbox/core/reconcile"
	"github.com/SheepYY039/snipeit-netbox/core/snipe"

	"go.uber.org/zap"
)

// syncSites reconciles top-level Snipe-IT locations (those without a
// parent) against NetBox sites.
func (s *Syncer) syncSites(ctx context.Context, locations []snipe.Location) (StageStats, error) {
	stats := StageStats{Stage: "sites"}

	existing, err := s.target.Sites.List(ctx)
	if err != nil {
		return stats, fmt.Errorf("loading site snapshot: %w", err)
	}
	snap := reconcile.NewSnapshot(existing)

	for _, location := range locations {
		if location.Parent != nil {
			continue
		}
		stats.Total++
		log := s.log.With(zap.String("site", location.Name))
		log.Info("checking top location as site")

		match := snap.Match(location.ID, location.Name)
		dirty := match.Kind == reconcile.Linked && match.Target.Name != location.Name

		switch reconcile.Decide(match.Kind, dirty, s.flags) {
		case reconcile.Create:
			created, err := s.target.Sites.Create(ctx, netbox.Params{
				"name":        location.Name,
				"slug":        reconcile.Slugify(location.Name),
				"status":      "active",
				"description": reconcile.ImportNote(s.now()),
				"custom_fields": netbox.Params{
					netbox.LinkageField: location.ID,
				},
			})
			if err != nil {
				return stats, fmt.Errorf("creating site %q: %w", location.Name, err)
			}
			snap.Add(created)
			stats.Created++
			log.Info("created site", zap.Int64("id", created.ID))

		case reconcile.Link:
			err := s.target.Sites.Update(ctx, []netbox.Params{{
				"id":       match.Target.ID,
				"comments": reconcile.UpdateNote(match.Target.Comments, s.now(), reconcile.ReasonLink),
				"custom_fields": netbox.Params{
					netbox.LinkageField: location.ID,
				},
			}})
			if err != nil {
				return stats, fmt.Errorf("linking site %q: %w", location.Name, err)
			}
			stats.Linked++
			log.Info("found site by name, stamped linkage key", zap.Int64("id", match.Target.ID))

		case reconcile.Update:
			err := s.target.Sites.Update(ctx, []netbox.Params{{
				"id":       match.Target.ID,
				"name":     location.Name,
				"slug":     reconcile.Slugify(location.Name),
				"comments": reconcile.UpdateNote(match.Target.Comments, s.now(), reconcile.ReasonValues),
			}})
			if err != nil {
				return stats, fmt.Errorf("updating site %q: %w", location.Name, err)
			}
			stats.Updated++
			log.Info("updated site", zap.Int64("id", match.Target.ID))

		default:
			stats.Skipped++
			s.logSkip(log, "site", match.Kind, dirty, match.NameCount, &stats)
		}
	}

	return stats, nil
}

// locationPass is the arena the two location stages share: all source
// locations that have a parent, indexed by source id, plus the branches
// whose owning site could not be resolved.
type locationPass struct {
	withParent []snipe.Location
	byID       map[int64]snipe.Location
	failed     map[int64]struct{}
}

// branchFailed walks the parent chain and reports whether the location or
// any of its ancestors failed site resolution in the first pass.
func (p *locationPass) branchFailed(location snipe.Location) bool {
	for current, depth := location, 0; depth < len(p.byID)+1; depth++ {
		if _, bad := p.failed[current.ID]; bad {
			return true
		}
		if current.Parent == nil {
			return false
		}
		next, ok := p.byID[current.Parent.ID]
		if !ok {
			return false
		}
		current = next
	}
	return false
}

// syncLocations reconciles nested Snipe-IT locations against NetBox
// locations. Only site membership is written here; parent pointers within
// the tree are fixed up by syncLocationParents once every location is
// guaranteed to exist.
func (s *Syncer) syncLocations(ctx context.Context, locations []snipe.Location) (*locationPass, StageStats, error) {
	stats := StageStats{Stage: "locations"}

	pass := &locationPass{
		byID:   make(map[int64]snipe.Location),
		failed: make(map[int64]struct{}),
	}
	for _, location := range locations {
		if location.Parent == nil {
			continue
		}
		pass.withParent = append(pass.withParent, location)
		pass.byID[location.ID] = location
	}

	siteRecords, err := s.target.Sites.List(ctx)
	if err != nil {
		return pass, stats, fmt.Errorf("loading site snapshot: %w", err)
	}
	siteSnap := reconcile.NewSnapshot(siteRecords)

	existing, err := s.target.Locations.List(ctx)
	if err != nil {
		return pass, stats, fmt.Errorf("loading location snapshot: %w", err)
	}
	snap := reconcile.NewSnapshot(existing)

	for _, location := range pass.withParent {
		stats.Total++
		log := s.log.With(zap.String("location", location.Name))
		log.Info("checking location")

		site, ok := s.resolveOwningSite(location, pass, siteSnap)
		if !ok {
			// unresolvable ancestor chain: the branch cannot be synced
			pass.failed[location.ID] = struct{}{}
			stats.Errors++
			log.Error("cannot resolve the owning site, skipping branch")
			continue
		}
		log.Debug("resolved owning site", zap.String("site", site.Name))

		// location names are only unique within their site
		match := snap.MatchScoped(location.ID, location.Name, func(l netbox.Location) bool {
			return l.Site.ID == site.ID
		})
		dirty := match.Kind == reconcile.Linked &&
			(match.Target.Name != location.Name || match.Target.Site.ID != site.ID)

		switch reconcile.Decide(match.Kind, dirty, s.flags) {
		case reconcile.Create:
			created, err := s.target.Locations.Create(ctx, netbox.Params{
				"name":        location.Name,
				"slug":        reconcile.Slugify(location.Name),
				"status":      "active",
				"site":        site.ID,
				"description": reconcile.ImportNote(s.now()),
				"custom_fields": netbox.Params{
					netbox.LinkageField: location.ID,
				},
			})
			if err != nil {
				return pass, stats, fmt.Errorf("creating location %q: %w", location.Name, err)
			}
			snap.Add(created)
			stats.Created++
			log.Info("created location", zap.Int64("id", created.ID), zap.String("site", site.Name))

		case reconcile.Link:
			err := s.target.Locations.Update(ctx, []netbox.Params{{
				"id":          match.Target.ID,
				"description": reconcile.UpdateNote(match.Target.Description, s.now(), reconcile.ReasonLink),
				"custom_fields": netbox.Params{
					netbox.LinkageField: location.ID,
				},
			}})
			if err != nil {
				return pass, stats, fmt.Errorf("linking location %q: %w", location.Name, err)
			}
			stats.Linked++
			log.Info("found location by name, stamped linkage key", zap.Int64("id", match.Target.ID))

		case reconcile.Update:
			err := s.target.Locations.Update(ctx, []netbox.Params{{
				"id":          match.Target.ID,
				"name":        location.Name,
				"slug":        reconcile.Slugify(location.Name),
				"site":        site.ID,
				"description": reconcile.UpdateNote(match.Target.Description, s.now(), reconcile.ReasonValues),
			}})
			if err != nil {
				return pass, stats, fmt.Errorf("updating location %q: %w", location.Name, err)
			}
			stats.Updated++
			log.Info("updated location", zap.Int64("id", match.Target.ID))

		default:
			stats.Skipped++
			s.logSkip(log, "location", match.Kind, dirty, match.NameCount, &stats)
		}
	}

	return pass, stats, nil
}

// resolveOwningSite walks the parent chain upward until an ancestor is
// linked to a site. Depth does not matter: every chain either reaches a
// linked site or runs out of parents.
func (s *Syncer) resolveOwningSite(location snipe.Location, pass *locationPass, sites *reconcile.Snapshot[netbox.Site]) (netbox.Site, bool) {
	parent := location.Parent
	// bounded by the arena size, so a malformed parent cycle cannot hang
	for steps := 0; parent != nil && steps <= len(pass.byID); steps++ {
		if site, ok := sites.ByLinkage(parent.ID); ok {
			return site, true
		}
		ancestor, ok := pass.byID[parent.ID]
		if !ok {
			break
		}
		parent = ancestor.Parent
	}
	return netbox.Site{}, false
}

// syncLocationParents is the required second pass over the location tree:
// it sets each target location's immediate parent pointer for source
// locations whose own parent is a location rather than a site. It is only
// safe because the first pass guaranteed every location exists.
func (s *Syncer) syncLocationParents(ctx context.Context, pass *locationPass) (StageStats, error) {
	stats := StageStats{Stage: "location_relationships"}

	// fetch fresh so records created in the first pass are present
	records, err := s.target.Locations.List(ctx)
	if err != nil {
		return stats, fmt.Errorf("loading location snapshot: %w", err)
	}
	snap := reconcile.NewSnapshot(records)

	siteRecords, err := s.target.Sites.List(ctx)
	if err != nil {
		return stats, fmt.Errorf("loading site snapshot: %w", err)
	}
	siteSnap := reconcile.NewSnapshot(siteRecords)

	var updates []netbox.Params

	for _, location := range pass.withParent {
		// parents that are sites carry no location parent pointer
		if _, parentIsSite := siteSnap.ByLinkage(location.Parent.ID); parentIsSite {
			continue
		}
		stats.Total++
		log := s.log.With(zap.String("location", location.Name))

		if pass.branchFailed(location) {
			// already reported during the first pass
			stats.Skipped++
			log.Warn("skipping relationship fixup for failed branch")
			continue
		}

		// both ends must have been linked by the first pass; anything else
		// means the tree invariant is broken and there is no safe recovery
		record, ok := snap.ByLinkage(location.ID)
		if !ok {
			stats.Errors++
			return stats, fmt.Errorf("relationship fixup: location %q is not linked", location.Name)
		}
		parentRecord, ok := snap.ByLinkage(location.Parent.ID)
		if !ok {
			stats.Errors++
			return stats, fmt.Errorf("relationship fixup: parent of location %q is not linked", location.Name)
		}

		dirty := record.Parent == nil || record.Parent.ID != parentRecord.ID
		switch reconcile.Decide(reconcile.Linked, dirty, s.flags) {
		case reconcile.Update:
			updates = append(updates, netbox.Params{
				"id":     record.ID,
				"parent": parentRecord.ID,
			})
			stats.Updated++
			log.Info("setting location parent",
				zap.Int64("id", record.ID),
				zap.Int64("parent", parentRecord.ID),
			)
		default:
			stats.Skipped++
			if dirty {
				log.Info("location parent changed, skipping since updating is not enabled")
			}
		}
	}

	// apply all parent pointers at once
	if err := s.target.Locations.Update(ctx, updates); err != nil {
		return stats, fmt.Errorf("applying location parents: %w", err)
	}
	return stats, nil
}
