package sync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SheepYY039/snipeit-netbox/core/netbox"
	"github.com/SheepYY039/snipeit-netbox/core/reconcile"
	"github.com/SheepYY039/snipeit-netbox/core/snipe"

	"go.uber.org/zap"
)

// deviceArena bundles the snapshots the device stage resolves against.
// Roles and sites grow during the stage as missing records are created.
type deviceArena struct {
	devices *reconcile.Snapshot[netbox.Device]
	tenants *reconcile.Snapshot[netbox.Tenant]
	types   *reconcile.Snapshot[netbox.DeviceType]
	sites   *reconcile.Snapshot[netbox.Site]
	locs    *reconcile.Snapshot[netbox.Location]
	roles   *reconcile.Snapshot[netbox.DeviceRole]
}

// syncDevices reconciles Snipe-IT hardware assets against NetBox devices.
// Every asset needs its model, site and role resolved before it can be
// written; an asset whose model was never synced is a per-item error, a
// missing site falls back to the keyword table and the default site.
func (s *Syncer) syncDevices(ctx context.Context, assets []snipe.Asset) (StageStats, error) {
	stats := StageStats{Stage: "devices"}

	arena, err := s.loadDeviceArena(ctx)
	if err != nil {
		return stats, err
	}

	for _, asset := range assets {
		stats.Total++
		log := s.log.With(
			zap.Int64("asset", asset.ID),
			zap.String("tag", asset.AssetTag),
		)
		log.Info("checking asset", zap.String("name", asset.Name))

		if err := s.syncDevice(ctx, asset, arena, &stats, log); err != nil {
			return stats, err
		}
	}

	return stats, nil
}

func (s *Syncer) loadDeviceArena(ctx context.Context) (*deviceArena, error) {
	devices, err := s.target.Devices.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading device snapshot: %w", err)
	}
	tenants, err := s.target.Tenants.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tenant snapshot: %w", err)
	}
	types, err := s.target.DeviceTypes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading device type snapshot: %w", err)
	}
	sites, err := s.target.Sites.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading site snapshot: %w", err)
	}
	locs, err := s.target.Locations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading location snapshot: %w", err)
	}
	roles, err := s.target.DeviceRoles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading device role snapshot: %w", err)
	}
	return &deviceArena{
		devices: reconcile.NewSnapshot(devices),
		tenants: reconcile.NewSnapshot(tenants),
		types:   reconcile.NewSnapshot(types),
		sites:   reconcile.NewSnapshot(sites),
		locs:    reconcile.NewSnapshot(locs),
		roles:   reconcile.NewSnapshot(roles),
	}, nil
}

func (s *Syncer) syncDevice(ctx context.Context, asset snipe.Asset, arena *deviceArena, stats *StageStats, log *zap.Logger) error {
	deviceType, ok := arena.types.ByLinkage(asset.Model.ID)
	if !ok {
		stats.Errors++
		log.Error("asset model has no synced device type, skipping",
			zap.String("model", asset.Model.Name))
		return nil
	}

	siteID, err := s.resolveSite(ctx, asset, arena, log)
	if err != nil {
		return err
	}

	var tenantID *int64
	if asset.Company != nil {
		tenant, ok := arena.tenants.ByLinkage(asset.Company.ID)
		if !ok {
			stats.Errors++
			log.Error("asset company has no synced tenant, skipping",
				zap.String("company", asset.Company.Name))
			return nil
		}
		tenantID = &tenant.ID
	}

	role, err := s.resolveRole(ctx, asset.Category, arena.roles, log)
	if err != nil {
		return err
	}

	match := matchDevice(asset, tenantID, arena.devices)

	stampLinkage := false
	if match.Kind == reconcile.TagMatched {
		// a tag match is certain identity missing only its linkage stamp;
		// the stamp is a linking decision and any field drift is an update
		// decision, so both gates apply independently
		if reconcile.Decide(reconcile.NameMatched, false, s.flags) != reconcile.Link {
			stats.Skipped++
			log.Info("found device by asset tag, skipping since linking is not enabled")
			return nil
		}
		stampLinkage = true
		match.Kind = reconcile.Linked
	}

	diff := deviceDiff(match.Target, asset, siteID, role.ID, deviceType.ID, tenantID, arena.devices)
	action := reconcile.Decide(match.Kind, len(diff) > 0, s.flags)

	if stampLinkage {
		// the stamp and any permitted field drift travel in one update so
		// exactly one audit note lands in the comments
		payload := netbox.Params{}
		if action == reconcile.Update {
			payload = diff
		}
		payload["id"] = match.Target.ID
		payload["comments"] = reconcile.UpdateNote(match.Target.Comments, s.now(), reconcile.ReasonLink)
		payload["custom_fields"] = netbox.Params{
			netbox.LinkageField: asset.ID,
		}
		if err := s.target.Devices.Update(ctx, []netbox.Params{payload}); err != nil {
			return fmt.Errorf("linking device %q: %w", asset.AssetTag, err)
		}
		stats.Linked++
		log.Info("found device by asset tag, stamped linkage key",
			zap.Int64("id", match.Target.ID))
		switch {
		case action == reconcile.Update:
			stats.Updated++
			log.Info("updated device", zap.Int64("id", match.Target.ID))
		case len(diff) > 0:
			stats.Skipped++
			log.Info("device changed, skipping since updating is not enabled")
		}
		return nil
	}

	switch action {
	case reconcile.Create:
		created, err := s.target.Devices.Create(ctx, createDeviceParams(
			asset, match, siteID, role.ID, deviceType.ID, tenantID, s.now()))
		if err != nil {
			return fmt.Errorf("creating device %q: %w", asset.AssetTag, err)
		}
		arena.devices.Add(created)
		stats.Created++
		log.Info("created device", zap.Int64("id", created.ID))

	case reconcile.Update:
		diff["id"] = match.Target.ID
		diff["comments"] = reconcile.UpdateNote(match.Target.Comments, s.now(), reconcile.ReasonValues)
		if err := s.target.Devices.Update(ctx, []netbox.Params{diff}); err != nil {
			return fmt.Errorf("updating device %q: %w", asset.AssetTag, err)
		}
		stats.Updated++
		log.Info("updated device", zap.Int64("id", match.Target.ID))

	default:
		stats.Skipped++
		s.logSkip(log, "device", match.Kind, len(diff) > 0, match.NameCount, stats)
	}

	return nil
}

// matchDevice resolves an asset to an existing device. Precedence: linkage
// key, then asset tag, then the (name, tenant) pair. Names are not unique
// on either side, so a name hit never establishes identity; it only marks
// that a freshly created device needs its name disambiguated.
func matchDevice(asset snipe.Asset, tenantID *int64, devices *reconcile.Snapshot[netbox.Device]) reconcile.Match[netbox.Device] {
	if target, ok := devices.ByLinkage(asset.ID); ok {
		return reconcile.Match[netbox.Device]{Kind: reconcile.Linked, Target: target}
	}

	if asset.AssetTag != "" {
		if target, ok := devices.Find(func(d netbox.Device) bool {
			return d.Tag() == asset.AssetTag
		}); ok {
			return reconcile.Match[netbox.Device]{Kind: reconcile.TagMatched, Target: target}
		}
	}

	if asset.Name != "" {
		_, count := devices.ByNameWhere(asset.Name, func(d netbox.Device) bool {
			return sameTenant(d.Tenant, tenantID)
		})
		return reconcile.Match[netbox.Device]{Kind: reconcile.NotFound, NameCount: count}
	}

	return reconcile.Match[netbox.Device]{Kind: reconcile.NotFound}
}

func sameTenant(ref *netbox.Ref, id *int64) bool {
	if ref == nil || id == nil {
		return ref == nil && id == nil
	}
	return ref.ID == *id
}

func sameTenantRef(a, b *netbox.Ref) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.ID == b.ID
}

// createDeviceParams builds the full create payload for a new device.
// When the (name, tenant) pair already names other devices the new one
// gets its asset tag appended so operators can tell them apart.
func createDeviceParams(asset snipe.Asset, match reconcile.Match[netbox.Device], siteID, roleID, typeID int64, tenantID *int64, now time.Time) netbox.Params {
	var name any
	if asset.Name != "" {
		name = asset.Name
		if match.NameCount > 0 {
			name = asset.Name + " " + asset.AssetTag
		}
	}

	params := netbox.Params{
		"name":        name,
		"asset_tag":   asset.AssetTag,
		"serial":      asset.Serial,
		"site":        siteID,
		"role":        roleID,
		"device_type": typeID,
		"status":      "active",
		"description": reconcile.ImportNote(now),
		"comments":    reconcile.InitialComments(asset.Notes),
		"custom_fields": netbox.Params{
			netbox.LinkageField: asset.ID,
		},
	}
	if tenantID != nil {
		params["tenant"] = *tenantID
	}
	return params
}

// deviceDiff computes the sparse update payload for a linked device, or an
// empty map when the device already reflects the asset.
func deviceDiff(target netbox.Device, asset snipe.Asset, siteID, roleID, typeID int64, tenantID *int64, devices *reconcile.Snapshot[netbox.Device]) netbox.Params {
	diff := netbox.Params{}

	if target.Tag() != asset.AssetTag {
		diff["asset_tag"] = asset.AssetTag
	}
	if target.Serial != asset.Serial {
		diff["serial"] = asset.Serial
	}
	if target.Site.ID != siteID {
		diff["site"] = siteID
	}
	if target.Role.ID != roleID {
		diff["role"] = roleID
	}
	if target.DeviceType.ID != typeID {
		diff["device_type"] = typeID
	}
	if !sameTenant(target.Tenant, tenantID) {
		if tenantID != nil {
			diff["tenant"] = *tenantID
		} else {
			diff["tenant"] = nil
		}
	}

	if name, changed := deviceNameDiff(target, asset, devices); changed {
		diff["name"] = name
	}

	return diff
}

// deviceNameDiff compares names after stripping the disambiguating tag
// suffix a previous create may have appended, so a renamed-on-create
// device is not rewritten on every pass. An empty source name is treated
// as absent and never touches the target name.
func deviceNameDiff(target netbox.Device, asset snipe.Asset, devices *reconcile.Snapshot[netbox.Device]) (any, bool) {
	if asset.Name == "" {
		return nil, false
	}

	oldName := target.RecordName()
	bare := oldName
	if tag := target.Tag(); tag != "" {
		if idx := strings.LastIndex(oldName, tag); idx > 1 {
			bare = oldName[:idx-1]
		}
	}
	if bare == asset.Name || oldName == asset.Name {
		return nil, false
	}

	// the new name may collide with another device of the same tenant
	name := asset.Name
	_, count := devices.ByNameWhere(asset.Name, func(d netbox.Device) bool {
		return d.ID != target.ID && sameTenantRef(d.Tenant, target.Tenant)
	})
	if count > 0 {
		name = asset.Name + " " + asset.AssetTag
	}
	return name, true
}

// resolveSite determines the site a device belongs to. An asset checked
// out to a location (or with a return-to default) inherits that
// location's site; otherwise the keyword table decides based on the
// company name, falling back to the configured default site.
func (s *Syncer) resolveSite(ctx context.Context, asset snipe.Asset, arena *deviceArena, log *zap.Logger) (int64, error) {
	ref := asset.Location
	if ref == nil {
		ref = asset.RTDLocation
	}
	if ref != nil {
		if loc, ok := arena.locs.ByLinkage(ref.ID); ok {
			return loc.Site.ID, nil
		}
		// a top-level source location is a site itself
		if site, ok := arena.sites.ByLinkage(ref.ID); ok {
			return site.ID, nil
		}
		log.Warn("asset location is not synced, using fallback site",
			zap.String("location", ref.Name))
	}

	company := ""
	if asset.Company != nil {
		company = asset.Company.Name
	}
	return s.fallbackSite(ctx, company, arena.sites, log)
}

// fallbackSite picks a site by the first keyword rule matching the
// lower-cased company name, falling back to the default site. The default
// site is created on first use; a keyword site that does not exist falls
// through to the default.
func (s *Syncer) fallbackSite(ctx context.Context, company string, sites *reconcile.Snapshot[netbox.Site], log *zap.Logger) (int64, error) {
	lowered := strings.ToLower(company)
	for _, rule := range s.keywords {
		if !strings.Contains(lowered, rule.Keyword) {
			continue
		}
		if site, ok := sites.Find(func(s netbox.Site) bool { return s.Name == rule.Site }); ok {
			return site.ID, nil
		}
		log.Warn("keyword site does not exist, using default site",
			zap.String("site", rule.Site))
		break
	}

	if site, ok := sites.Find(func(st netbox.Site) bool { return st.Name == s.defaultSite }); ok {
		return site.ID, nil
	}

	created, err := s.target.Sites.Create(ctx, netbox.Params{
		"name":        s.defaultSite,
		"slug":        reconcile.Slugify(s.defaultSite),
		"status":      "active",
		"description": "Default Site for SnipeIT Import",
	})
	if err != nil {
		return 0, fmt.Errorf("creating default site %q: %w", s.defaultSite, err)
	}
	sites.Add(created)
	log.Info("created default site", zap.Int64("id", created.ID))
	return created.ID, nil
}

// resolveRole maps an asset category to a device role. Category names of
// the form "Family - Detail" collapse to their family part. A role found
// by name is stamped with the linkage key unconditionally, since role
// names are unique and the match is certain.
func (s *Syncer) resolveRole(ctx context.Context, category snipe.Ref, roles *reconcile.Snapshot[netbox.DeviceRole], log *zap.Logger) (netbox.DeviceRole, error) {
	name := category.Name
	if idx := strings.Index(name, "-"); idx > 1 {
		name = name[:idx]
	}
	name = strings.TrimSpace(name)

	if role, ok := roles.ByLinkage(category.ID); ok {
		return role, nil
	}

	if role, count := roles.ByName(name); count > 0 {
		err := s.target.DeviceRoles.Update(ctx, []netbox.Params{{
			"id": role.ID,
			"custom_fields": netbox.Params{
				netbox.LinkageField: category.ID,
			},
		}})
		if err != nil {
			return netbox.DeviceRole{}, fmt.Errorf("linking device role %q: %w", name, err)
		}
		role.CustomFields.SnipeObjectID = &category.ID
		roles.Refresh(role)
		log.Info("found device role by name, stamped linkage key",
			zap.String("role", name), zap.Int64("id", role.ID))
		return role, nil
	}

	created, err := s.target.DeviceRoles.Create(ctx, netbox.Params{
		"name": name,
		"slug": reconcile.Slugify(name),
	})
	if err != nil {
		return netbox.DeviceRole{}, fmt.Errorf("creating device role %q: %w", name, err)
	}
	roles.Add(created)
	log.Info("created device role", zap.String("role", name), zap.Int64("id", created.ID))
	return created, nil
}
