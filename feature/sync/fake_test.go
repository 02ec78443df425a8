package sync

import (
	"context"

	"github.com/SheepYY039/snipeit-netbox/core/netbox"
	"github.com/SheepYY039/snipeit-netbox/core/snipe"
)

// fakeSource serves canned Snipe-IT collections.
type fakeSource struct {
	companies     []snipe.Company
	manufacturers []snipe.Manufacturer
	models        []snipe.Model
	locations     []snipe.Location
	assets        []snipe.Asset
}

func (f *fakeSource) Companies(context.Context) ([]snipe.Company, error) {
	return f.companies, nil
}

func (f *fakeSource) Manufacturers(context.Context) ([]snipe.Manufacturer, error) {
	return f.manufacturers, nil
}

func (f *fakeSource) Models(context.Context) ([]snipe.Model, error) {
	return f.models, nil
}

func (f *fakeSource) Locations(context.Context) ([]snipe.Location, error) {
	return f.locations, nil
}

func (f *fakeSource) Assets(context.Context) ([]snipe.Asset, error) {
	return f.assets, nil
}

// fakeService is an in-memory Service implementation. Records live in a
// slice; build turns a create payload into a record, apply merges an
// update payload into one.
type fakeService[T any] struct {
	records []T
	nextID  int64
	build   func(id int64, p netbox.Params) T
	apply   func(rec *T, p netbox.Params)
	idOf    func(rec T) int64

	updates []netbox.Params
}

func (f *fakeService[T]) List(context.Context) ([]T, error) {
	return append([]T(nil), f.records...), nil
}

func (f *fakeService[T]) Create(_ context.Context, fields netbox.Params) (T, error) {
	f.nextID++
	rec := f.build(f.nextID, fields)
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeService[T]) Update(_ context.Context, changes []netbox.Params) error {
	for _, change := range changes {
		id := i64(change, "id")
		for i := range f.records {
			if f.idOf(f.records[i]) == id {
				f.apply(&f.records[i], change)
			}
		}
		f.updates = append(f.updates, change)
	}
	return nil
}

func (f *fakeService[T]) byID(id int64) (T, bool) {
	for _, rec := range f.records {
		if f.idOf(rec) == id {
			return rec, true
		}
	}
	var zero T
	return zero, false
}

// payload readers, tolerant of absent keys

func str(p netbox.Params, key string) string {
	v, _ := p[key].(string)
	return v
}

func i64(p netbox.Params, key string) int64 {
	v, _ := p[key].(int64)
	return v
}

func optStr(p netbox.Params, key string) *string {
	if v, ok := p[key].(string); ok {
		return &v
	}
	return nil
}

func linkage(p netbox.Params) netbox.CustomFields {
	if cf, ok := p["custom_fields"].(netbox.Params); ok {
		if v, ok := cf[netbox.LinkageField].(int64); ok {
			return netbox.CustomFields{SnipeObjectID: &v}
		}
	}
	return netbox.CustomFields{}
}

func applyLinkage(dst *netbox.CustomFields, p netbox.Params) {
	if cf := linkage(p); cf.SnipeObjectID != nil {
		dst.SnipeObjectID = cf.SnipeObjectID
	}
}

func applyStr(dst *string, p netbox.Params, key string) {
	if v, ok := p[key].(string); ok {
		*dst = v
	}
}

func applyRef(dst *netbox.Ref, p netbox.Params, key string) {
	if v, ok := p[key].(int64); ok {
		dst.ID = v
	}
}

// fakes bundles one fake service per kind so tests can inspect state
// after a pass.
type fakes struct {
	tenants       *fakeService[netbox.Tenant]
	manufacturers *fakeService[netbox.Manufacturer]
	deviceTypes   *fakeService[netbox.DeviceType]
	sites         *fakeService[netbox.Site]
	locations     *fakeService[netbox.Location]
	deviceRoles   *fakeService[netbox.DeviceRole]
	devices       *fakeService[netbox.Device]
}

func newFakes() *fakes {
	return &fakes{
		tenants: &fakeService[netbox.Tenant]{
			idOf: func(t netbox.Tenant) int64 { return t.ID },
			build: func(id int64, p netbox.Params) netbox.Tenant {
				return netbox.Tenant{
					ID:           id,
					Name:         str(p, "name"),
					Slug:         str(p, "slug"),
					Description:  str(p, "description"),
					CustomFields: linkage(p),
				}
			},
			apply: func(t *netbox.Tenant, p netbox.Params) {
				applyStr(&t.Name, p, "name")
				applyStr(&t.Slug, p, "slug")
				applyStr(&t.Description, p, "description")
				applyLinkage(&t.CustomFields, p)
			},
		},
		manufacturers: &fakeService[netbox.Manufacturer]{
			idOf: func(m netbox.Manufacturer) int64 { return m.ID },
			build: func(id int64, p netbox.Params) netbox.Manufacturer {
				return netbox.Manufacturer{
					ID:           id,
					Name:         str(p, "name"),
					Slug:         str(p, "slug"),
					Description:  str(p, "description"),
					CustomFields: linkage(p),
				}
			},
			apply: func(m *netbox.Manufacturer, p netbox.Params) {
				applyStr(&m.Name, p, "name")
				applyStr(&m.Slug, p, "slug")
				applyStr(&m.Description, p, "description")
				applyLinkage(&m.CustomFields, p)
			},
		},
		deviceTypes: &fakeService[netbox.DeviceType]{
			idOf: func(d netbox.DeviceType) int64 { return d.ID },
			build: func(id int64, p netbox.Params) netbox.DeviceType {
				return netbox.DeviceType{
					ID:           id,
					Model:        str(p, "model"),
					Slug:         str(p, "slug"),
					PartNumber:   str(p, "part_number"),
					Manufacturer: netbox.Ref{ID: i64(p, "manufacturer")},
					Comments:     str(p, "comments"),
					CustomFields: linkage(p),
				}
			},
			apply: func(d *netbox.DeviceType, p netbox.Params) {
				applyStr(&d.Model, p, "model")
				applyStr(&d.Slug, p, "slug")
				applyStr(&d.PartNumber, p, "part_number")
				applyStr(&d.Comments, p, "comments")
				applyRef(&d.Manufacturer, p, "manufacturer")
				applyLinkage(&d.CustomFields, p)
			},
		},
		sites: &fakeService[netbox.Site]{
			idOf: func(s netbox.Site) int64 { return s.ID },
			build: func(id int64, p netbox.Params) netbox.Site {
				return netbox.Site{
					ID:           id,
					Name:         str(p, "name"),
					Slug:         str(p, "slug"),
					Description:  str(p, "description"),
					CustomFields: linkage(p),
				}
			},
			apply: func(s *netbox.Site, p netbox.Params) {
				applyStr(&s.Name, p, "name")
				applyStr(&s.Slug, p, "slug")
				applyStr(&s.Description, p, "description")
				applyStr(&s.Comments, p, "comments")
				applyLinkage(&s.CustomFields, p)
			},
		},
		locations: &fakeService[netbox.Location]{
			idOf: func(l netbox.Location) int64 { return l.ID },
			build: func(id int64, p netbox.Params) netbox.Location {
				return netbox.Location{
					ID:           id,
					Name:         str(p, "name"),
					Slug:         str(p, "slug"),
					Site:         netbox.Ref{ID: i64(p, "site")},
					Description:  str(p, "description"),
					CustomFields: linkage(p),
				}
			},
			apply: func(l *netbox.Location, p netbox.Params) {
				applyStr(&l.Name, p, "name")
				applyStr(&l.Slug, p, "slug")
				applyStr(&l.Description, p, "description")
				applyRef(&l.Site, p, "site")
				if v, ok := p["parent"].(int64); ok {
					l.Parent = &netbox.Ref{ID: v}
				}
				applyLinkage(&l.CustomFields, p)
			},
		},
		deviceRoles: &fakeService[netbox.DeviceRole]{
			idOf: func(r netbox.DeviceRole) int64 { return r.ID },
			build: func(id int64, p netbox.Params) netbox.DeviceRole {
				return netbox.DeviceRole{
					ID:           id,
					Name:         str(p, "name"),
					Slug:         str(p, "slug"),
					CustomFields: linkage(p),
				}
			},
			apply: func(r *netbox.DeviceRole, p netbox.Params) {
				applyStr(&r.Name, p, "name")
				applyStr(&r.Slug, p, "slug")
				applyLinkage(&r.CustomFields, p)
			},
		},
		devices: &fakeService[netbox.Device]{
			idOf: func(d netbox.Device) int64 { return d.ID },
			build: func(id int64, p netbox.Params) netbox.Device {
				d := netbox.Device{
					ID:           id,
					Name:         optStr(p, "name"),
					AssetTag:     optStr(p, "asset_tag"),
					Serial:       str(p, "serial"),
					Site:         netbox.Ref{ID: i64(p, "site")},
					Role:         netbox.Ref{ID: i64(p, "role")},
					DeviceType:   netbox.Ref{ID: i64(p, "device_type")},
					Description:  str(p, "description"),
					Comments:     str(p, "comments"),
					CustomFields: linkage(p),
				}
				if v, ok := p["tenant"].(int64); ok {
					d.Tenant = &netbox.Ref{ID: v}
				}
				return d
			},
			apply: func(d *netbox.Device, p netbox.Params) {
				if v, ok := p["name"]; ok {
					if s, ok := v.(string); ok {
						d.Name = &s
					} else {
						d.Name = nil
					}
				}
				if v, ok := p["asset_tag"].(string); ok {
					d.AssetTag = &v
				}
				applyStr(&d.Serial, p, "serial")
				applyStr(&d.Comments, p, "comments")
				applyRef(&d.Site, p, "site")
				applyRef(&d.Role, p, "role")
				applyRef(&d.DeviceType, p, "device_type")
				if v, ok := p["tenant"]; ok {
					if id, ok := v.(int64); ok {
						d.Tenant = &netbox.Ref{ID: id}
					} else {
						d.Tenant = nil
					}
				}
				applyLinkage(&d.CustomFields, p)
			},
		},
	}
}

func (f *fakes) target() Target {
	return Target{
		Tenants:       f.tenants,
		Manufacturers: f.manufacturers,
		DeviceTypes:   f.deviceTypes,
		Sites:         f.sites,
		Locations:     f.locations,
		DeviceRoles:   f.deviceRoles,
		Devices:       f.devices,
	}
}
