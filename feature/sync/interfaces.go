package sync

import (
	"context"

	"github.com/SheepYY039/snipeit-netbox/core/netbox"
	"github.com/SheepYY039/snipeit-netbox/core/snipe"
)

// Source is the read-only view of the Snipe-IT system the engine consumes.
// Collections are fully materialized; pagination is the client's concern.
type Source interface {
	Companies(ctx context.Context) ([]snipe.Company, error)
	Manufacturers(ctx context.Context) ([]snipe.Manufacturer, error)
	Models(ctx context.Context) ([]snipe.Model, error)
	Locations(ctx context.Context) ([]snipe.Location, error)
	Assets(ctx context.Context) ([]snipe.Asset, error)
}

// Service is the uniform operation set the engine needs per target kind.
// *netbox.Endpoint satisfies it; tests substitute in-memory fakes.
type Service[T any] interface {
	// List returns the full target snapshot for the kind.
	List(ctx context.Context) ([]T, error)
	// Create makes a new record from a sparse field map and returns it
	// with its assigned id.
	Create(ctx context.Context, fields netbox.Params) (T, error)
	// Update applies bulk partial updates, each carrying the record "id".
	Update(ctx context.Context, changes []netbox.Params) error
}

// Target bundles the per-kind services of the target system.
type Target struct {
	Tenants       Service[netbox.Tenant]
	Manufacturers Service[netbox.Manufacturer]
	DeviceTypes   Service[netbox.DeviceType]
	Sites         Service[netbox.Site]
	Locations     Service[netbox.Location]
	DeviceRoles   Service[netbox.DeviceRole]
	Devices       Service[netbox.Device]
}

// NewTarget wires a Target from the NetBox client.
func NewTarget(c *netbox.Client) Target {
	return Target{
		Tenants:       c.Tenants(),
		Manufacturers: c.Manufacturers(),
		DeviceTypes:   c.DeviceTypes(),
		Sites:         c.Sites(),
		Locations:     c.Locations(),
		DeviceRoles:   c.DeviceRoles(),
		Devices:       c.Devices(),
	}
}
