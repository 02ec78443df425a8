package sync

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/SheepYY039/snipeit-netbox/core/netbox"
	"github.com/SheepYY039/snipeit-netbox/core/reconcile"
	"github.com/SheepYY039/snipeit-netbox/core/snipe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testTime = time.Date(2024, 5, 2, 12, 30, 0, 0, time.UTC)

func newTestSyncer(source Source, f *fakes, cfg Config) *Syncer {
	s := New(source, f.target(), cfg, zap.NewNop())
	s.now = func() time.Time { return testTime }
	return s
}

// fullSource is a small but complete inventory: one company, one
// manufacturer, one model, a three-level location chain and one asset
// checked out to the deepest location.
func fullSource() *fakeSource {
	return &fakeSource{
		companies:     []snipe.Company{{ID: 10, Name: "Acme GmbH"}},
		manufacturers: []snipe.Manufacturer{{ID: 20, Name: "Dell"}},
		models: []snipe.Model{{
			ID:           30,
			Name:         "Latitude 5400",
			ModelNumber:  "L5400",
			Notes:        "fleet laptop",
			Manufacturer: snipe.Ref{ID: 20, Name: "Dell"},
		}},
		locations: []snipe.Location{
			{ID: 40, Name: "Hamburg"},
			{ID: 41, Name: "Floor 1", Parent: &snipe.Ref{ID: 40, Name: "Hamburg"}},
			{ID: 42, Name: "Room 101", Parent: &snipe.Ref{ID: 41, Name: "Floor 1"}},
		},
		assets: []snipe.Asset{{
			ID:       50,
			Name:     "build-runner",
			AssetTag: "AT-0001",
			Serial:   "SN1",
			Notes:    "bench notes",
			Category: snipe.Ref{ID: 60, Name: "Server - Rack"},
			Model:    snipe.Ref{ID: 30, Name: "Latitude 5400"},
			Location: &snipe.Ref{ID: 42, Name: "Room 101"},
			Company:  &snipe.Ref{ID: 10, Name: "Acme GmbH"},
		}},
	}
}

func TestRunCreatesFullInventory(t *testing.T) {
	f := newFakes()
	s := newTestSyncer(fullSource(), f, Config{AllowUpdates: true, AllowLinking: true, DefaultSite: "Default Site"})

	report, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Stages, 7)
	assert.True(t, report.Writes())

	tenant := f.tenants.records[0]
	require.Len(t, f.tenants.records, 1)
	assert.Equal(t, "Acme GmbH", tenant.Name)
	require.NotNil(t, tenant.CustomFields.SnipeObjectID)
	assert.EqualValues(t, 10, *tenant.CustomFields.SnipeObjectID)
	assert.True(t, strings.HasPrefix(tenant.Description, "Imported from SnipeIT"))

	require.Len(t, f.sites.records, 1)
	site := f.sites.records[0]
	assert.Equal(t, "Hamburg", site.Name)

	require.Len(t, f.locations.records, 2)
	floor := f.locations.records[0]
	assert.Equal(t, "Floor 1", floor.Name)
	assert.Equal(t, site.ID, floor.Site.ID)
	room := f.locations.records[1]
	assert.Equal(t, "Room 101", room.Name)
	assert.Equal(t, site.ID, room.Site.ID)
	require.NotNil(t, room.Parent, "relationship fixup must set the parent")
	assert.Equal(t, floor.ID, room.Parent.ID)
	assert.Nil(t, floor.Parent, "a site child carries no location parent")

	require.Len(t, f.deviceTypes.records, 1)
	deviceType := f.deviceTypes.records[0]
	assert.Equal(t, "Latitude 5400", deviceType.Model)
	assert.Equal(t, "L5400", deviceType.PartNumber)
	assert.Equal(t, f.manufacturers.records[0].ID, deviceType.Manufacturer.ID)

	require.Len(t, f.deviceRoles.records, 1)
	assert.Equal(t, "Server", f.deviceRoles.records[0].Name, "category name truncates at the hyphen")

	require.Len(t, f.devices.records, 1)
	device := f.devices.records[0]
	require.NotNil(t, device.Name)
	assert.Equal(t, "build-runner", *device.Name)
	assert.Equal(t, "AT-0001", device.Tag())
	assert.Equal(t, site.ID, device.Site.ID)
	assert.Equal(t, deviceType.ID, device.DeviceType.ID)
	require.NotNil(t, device.Tenant)
	assert.Equal(t, tenant.ID, device.Tenant.ID)
	require.NotNil(t, device.CustomFields.SnipeObjectID)
	assert.EqualValues(t, 50, *device.CustomFields.SnipeObjectID)
	assert.Contains(t, device.Comments, "bench notes")
}

func TestRunIsIdempotent(t *testing.T) {
	f := newFakes()
	source := fullSource()
	cfg := Config{AllowUpdates: true, AllowLinking: true, DefaultSite: "Default Site"}

	_, err := newTestSyncer(source, f, cfg).Run(context.Background())
	require.NoError(t, err)

	report, err := newTestSyncer(source, f, cfg).Run(context.Background())
	require.NoError(t, err)

	for _, stage := range report.Stages {
		assert.Zero(t, stage.Created, "stage %s created records on replay", stage.Stage)
		assert.Zero(t, stage.Linked, "stage %s linked records on replay", stage.Stage)
		assert.Zero(t, stage.Updated, "stage %s updated records on replay", stage.Stage)
		assert.Zero(t, stage.Errors, "stage %s errored on replay", stage.Stage)
	}
	assert.False(t, report.Writes())
}

func TestLinkingIsGated(t *testing.T) {
	cases := []struct {
		name       string
		allow      bool
		wantLinked int
	}{
		{name: "linking enabled", allow: true, wantLinked: 1},
		{name: "linking disabled", allow: false, wantLinked: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFakes()
			f.tenants.records = []netbox.Tenant{{ID: 1, Name: "Acme GmbH"}}
			f.tenants.nextID = 1
			source := &fakeSource{companies: []snipe.Company{{ID: 10, Name: "Acme GmbH"}}}

			report, err := newTestSyncer(source, f, Config{AllowLinking: tc.allow, DefaultSite: "Default Site"}).Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tc.wantLinked, report.Stages[0].Linked)
			assert.Equal(t, 1-tc.wantLinked, report.Stages[0].Skipped)
			linked := f.tenants.records[0].CustomFields.SnipeObjectID != nil
			assert.Equal(t, tc.allow, linked)
		})
	}
}

func TestUpdatingIsGated(t *testing.T) {
	cases := []struct {
		name        string
		allow       bool
		wantUpdated int
	}{
		{name: "updates enabled", allow: true, wantUpdated: 1},
		{name: "updates disabled", allow: false, wantUpdated: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stale := int64(10)
			f := newFakes()
			f.tenants.records = []netbox.Tenant{{
				ID:           1,
				Name:         "Acme AG",
				CustomFields: netbox.CustomFields{SnipeObjectID: &stale},
			}}
			f.tenants.nextID = 1
			source := &fakeSource{companies: []snipe.Company{{ID: 10, Name: "Acme GmbH"}}}

			report, err := newTestSyncer(source, f, Config{AllowUpdates: tc.allow, DefaultSite: "Default Site"}).Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tc.wantUpdated, report.Stages[0].Updated)
			if tc.allow {
				assert.Equal(t, "Acme GmbH", f.tenants.records[0].Name)
				assert.True(t, strings.Contains(f.tenants.records[0].Description, "Values"))
			} else {
				assert.Equal(t, "Acme AG", f.tenants.records[0].Name)
			}
		})
	}
}

func TestDeviceNameDisambiguation(t *testing.T) {
	f := newFakes()
	source := fullSource()
	source.locations = nil
	source.assets = []snipe.Asset{
		{
			ID: 50, Name: "kiosk", AssetTag: "T1", Serial: "S1",
			Category: snipe.Ref{ID: 60, Name: "Kiosk"},
			Model:    snipe.Ref{ID: 30, Name: "Latitude 5400"},
			Company:  &snipe.Ref{ID: 10, Name: "Acme GmbH"},
		},
		{
			ID: 51, Name: "kiosk", AssetTag: "T2", Serial: "S2",
			Category: snipe.Ref{ID: 60, Name: "Kiosk"},
			Model:    snipe.Ref{ID: 30, Name: "Latitude 5400"},
			Company:  &snipe.Ref{ID: 10, Name: "Acme GmbH"},
		},
	}

	_, err := newTestSyncer(source, f, Config{DefaultSite: "Default Site"}).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, f.devices.records, 2)
	require.NotNil(t, f.devices.records[0].Name)
	require.NotNil(t, f.devices.records[1].Name)
	assert.Equal(t, "kiosk", *f.devices.records[0].Name)
	assert.Equal(t, "kiosk T2", *f.devices.records[1].Name)

	// both assets had no location and no keyword rule matched
	require.Len(t, f.sites.records, 1)
	assert.Equal(t, "Default Site", f.sites.records[0].Name)
	assert.Equal(t, "Default Site for SnipeIT Import", f.sites.records[0].Description)
}

func TestDeviceTagMatchStampsAndUpdates(t *testing.T) {
	f := newFakes()
	source := fullSource()

	tag := "AT-0001"
	f.devices.records = []netbox.Device{{ID: 1, AssetTag: &tag, Serial: "OLD"}}
	f.devices.nextID = 1

	report, err := newTestSyncer(source, f, Config{AllowUpdates: true, AllowLinking: true, DefaultSite: "Default Site"}).Run(context.Background())
	require.NoError(t, err)

	devices := report.Stages[len(report.Stages)-1]
	assert.Equal(t, "devices", devices.Stage)
	assert.Zero(t, devices.Created)
	assert.Equal(t, 1, devices.Linked, "tag identity stamps the linkage key")
	assert.Equal(t, 1, devices.Updated, "field drift is applied in the same pass")

	device := f.devices.records[0]
	require.NotNil(t, device.CustomFields.SnipeObjectID)
	assert.EqualValues(t, 50, *device.CustomFields.SnipeObjectID)
	assert.Equal(t, "SN1", device.Serial)
}

func TestDeviceTagMatchGatedByLinking(t *testing.T) {
	f := newFakes()
	source := fullSource()

	tag := "AT-0001"
	f.devices.records = []netbox.Device{{ID: 1, AssetTag: &tag, Serial: "OLD"}}
	f.devices.nextID = 1

	report, err := newTestSyncer(source, f, Config{AllowUpdates: true, DefaultSite: "Default Site"}).Run(context.Background())
	require.NoError(t, err)

	devices := report.Stages[len(report.Stages)-1]
	assert.Zero(t, devices.Linked)
	assert.Zero(t, devices.Updated)
	assert.Equal(t, 1, devices.Skipped)
	assert.Nil(t, f.devices.records[0].CustomFields.SnipeObjectID)
	assert.Equal(t, "OLD", f.devices.records[0].Serial)
}

func TestDeviceTagMatchWritesOneAuditNote(t *testing.T) {
	f := newFakes()
	source := fullSource()

	tag := "AT-0001"
	f.devices.records = []netbox.Device{{ID: 1, AssetTag: &tag, Serial: "OLD", Comments: "operator note"}}
	f.devices.nextID = 1

	_, err := newTestSyncer(source, f, Config{AllowUpdates: true, AllowLinking: true, DefaultSite: "Default Site"}).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, f.devices.updates, 1, "stamp and field drift travel in one update")

	device := f.devices.records[0]
	assert.Equal(t,
		"operator note\r\n\r\nUpdated from SnipeIT 24-05-02 12:30:00 (UTC) (Snipe ID)",
		device.Comments, "prior comments survive and exactly one note is appended")
	assert.Equal(t, "SN1", device.Serial)
	require.NotNil(t, device.CustomFields.SnipeObjectID)
	assert.EqualValues(t, 50, *device.CustomFields.SnipeObjectID)
}

func TestLinkAppendsAuditNote(t *testing.T) {
	f := newFakes()
	f.manufacturers.records = []netbox.Manufacturer{{ID: 1, Name: "Dell", Description: "manual note"}}
	f.manufacturers.nextID = 1
	// the Hamburg site is created first in the pass, so it gets id 1
	f.locations.records = []netbox.Location{{ID: 1, Name: "Floor 1", Site: netbox.Ref{ID: 1}}}
	f.locations.nextID = 1

	source := fullSource()
	source.assets = nil

	_, err := newTestSyncer(source, f, Config{AllowLinking: true, DefaultSite: "Default Site"}).Run(context.Background())
	require.NoError(t, err)

	manufacturer := f.manufacturers.records[0]
	require.NotNil(t, manufacturer.CustomFields.SnipeObjectID)
	assert.Equal(t,
		"manual note\r\n\r\nUpdated from SnipeIT 24-05-02 12:30:00 (UTC) (Snipe ID)",
		manufacturer.Description)

	location := f.locations.records[0]
	require.NotNil(t, location.CustomFields.SnipeObjectID)
	assert.Contains(t, location.Description, "(Snipe ID)")
}

func TestRoleStampedOncePerPass(t *testing.T) {
	f := newFakes()
	f.deviceRoles.records = []netbox.DeviceRole{{ID: 1, Name: "Server"}}
	f.deviceRoles.nextID = 1

	source := fullSource()
	source.locations = nil
	source.assets = []snipe.Asset{
		{
			ID: 50, Name: "alpha", AssetTag: "T1",
			Category: snipe.Ref{ID: 60, Name: "Server - Rack"},
			Model:    snipe.Ref{ID: 30, Name: "Latitude 5400"},
		},
		{
			ID: 51, Name: "beta", AssetTag: "T2",
			Category: snipe.Ref{ID: 60, Name: "Server - Rack"},
			Model:    snipe.Ref{ID: 30, Name: "Latitude 5400"},
		},
	}

	_, err := newTestSyncer(source, f, Config{DefaultSite: "Default Site"}).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, f.deviceRoles.records, 1)
	role := f.deviceRoles.records[0]
	require.NotNil(t, role.CustomFields.SnipeObjectID)
	assert.EqualValues(t, 60, *role.CustomFields.SnipeObjectID)
	assert.Len(t, f.deviceRoles.updates, 1, "later assets of the category reuse the stamped role")
}

func TestFallbackSiteKeywordTable(t *testing.T) {
	f := newFakes()
	f.sites.records = []netbox.Site{{ID: 7, Name: "Munich"}}
	f.sites.nextID = 7

	source := fullSource()
	source.locations = nil
	source.assets[0].Location = nil

	cfg := Config{
		DefaultSite:  "Default Site",
		SiteKeywords: "other=Elsewhere;acme=Munich",
	}
	_, err := newTestSyncer(source, f, cfg).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, f.devices.records, 1)
	assert.EqualValues(t, 7, f.devices.records[0].Site.ID)
	assert.Len(t, f.sites.records, 1, "no default site is created when a keyword rule hits")
}

func TestUnresolvableLocationBranchIsIsolated(t *testing.T) {
	f := newFakes()
	source := fullSource()
	source.assets = nil
	source.locations = append(source.locations,
		snipe.Location{ID: 80, Name: "Orphan", Parent: &snipe.Ref{ID: 99, Name: "Missing"}},
	)

	report, err := newTestSyncer(source, f, Config{AllowUpdates: true, AllowLinking: true, DefaultSite: "Default Site"}).Run(context.Background())
	require.NoError(t, err, "a broken branch must not abort the pass")

	var locations, fixup StageStats
	for _, stage := range report.Stages {
		switch stage.Stage {
		case "locations":
			locations = stage
		case "location_relationships":
			fixup = stage
		}
	}
	assert.Equal(t, 1, locations.Errors)
	assert.Equal(t, 2, locations.Created, "healthy branches still sync")
	assert.Equal(t, 1, fixup.Skipped, "the broken branch is excluded from fixup")

	for _, loc := range f.locations.records {
		assert.NotEqual(t, "Orphan", loc.Name)
	}
}

func TestDeviceNameDiff(t *testing.T) {
	name := func(s string) *string { return &s }

	cases := []struct {
		name        string
		target      netbox.Device
		assetName   string
		others      []netbox.Device
		wantName    any
		wantChanged bool
	}{
		{
			name:        "suffixed name is not drift",
			target:      netbox.Device{ID: 1, Name: name("host T1"), AssetTag: name("T1")},
			assetName:   "host",
			wantChanged: false,
		},
		{
			name:        "empty source name leaves the target name alone",
			target:      netbox.Device{ID: 1, Name: name("host")},
			assetName:   "",
			wantChanged: false,
		},
		{
			name:        "rename applies",
			target:      netbox.Device{ID: 1, Name: name("host")},
			assetName:   "web",
			wantName:    "web",
			wantChanged: true,
		},
		{
			name:      "rename into a collision appends the tag",
			target:    netbox.Device{ID: 1, Name: name("host"), AssetTag: name("T1")},
			assetName: "web",
			others: []netbox.Device{
				{ID: 2, Name: name("web")},
			},
			wantName:    "web T1",
			wantChanged: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := reconcile.NewSnapshot(append(tc.others, tc.target))
			got, changed := deviceNameDiff(tc.target, snipe.Asset{Name: tc.assetName, AssetTag: "T1"}, snap)
			assert.Equal(t, tc.wantChanged, changed)
			if tc.wantChanged {
				assert.Equal(t, tc.wantName, got)
			}
		})
	}
}

func TestDeviceDiffIsMinimal(t *testing.T) {
	name := func(s string) *string { return &s }
	tenant := int64(10)

	target := netbox.Device{
		ID:         1,
		Name:       name("manual name"),
		AssetTag:   name("T1"),
		Serial:     "OLD",
		Site:       netbox.Ref{ID: 4},
		Role:       netbox.Ref{ID: 5},
		DeviceType: netbox.Ref{ID: 6},
		Tenant:     &netbox.Ref{ID: tenant},
	}
	asset := snipe.Asset{AssetTag: "T1", Serial: "NEW"}

	snap := reconcile.NewSnapshot([]netbox.Device{target})
	diff := deviceDiff(target, asset, 4, 5, 6, &tenant, snap)

	require.Len(t, diff, 1, "only the drifted field belongs in the payload")
	assert.Equal(t, "NEW", diff["serial"])
}

func TestKeywordTableParsing(t *testing.T) {
	cfg := Config{SiteKeywords: "Acme = Munich; broken ;=Nowhere;gmbh=Berlin"}
	table := cfg.KeywordTable()
	require.Len(t, table, 2)
	assert.Equal(t, SiteKeyword{Keyword: "acme", Site: "Munich"}, table[0])
	assert.Equal(t, SiteKeyword{Keyword: "gmbh", Site: "Berlin"}, table[1])
}
