package netbox

import (
	"context"
	"net/http"
)

// customField is the subset of the custom field schema the bootstrap needs.
type customField struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// linkageContentTypes are the NetBox object types the linkage field must
// apply to.
var linkageContentTypes = []string{
	"dcim.device",
	"dcim.devicetype",
	"dcim.interface",
	"dcim.manufacturer",
	"dcim.site",
	"dcim.devicerole",
	"dcim.location",
	"tenancy.tenant",
}

// EnsureLinkageField provisions the integer custom field the sync engine
// matches on. It is idempotent: missing fields are created, present ones
// are updated in place to the expected schema. When lock is true the field
// is made read-only in the UI.
//
// This must run once before any sync pass against a fresh NetBox instance.
func (c *Client) EnsureLinkageField(ctx context.Context, lock bool) error {
	visibility := "read-write"
	if lock {
		visibility = "read-only"
	}
	fields := Params{
		"name":          LinkageField,
		"display":       "Snipe object id",
		"content_types": linkageContentTypes,
		"description":   "The ID of the original SnipeIT object used for sync",
		"type":          "integer",
		"ui_visibility": visibility,
	}

	var existing listResponse[customField]
	lookup := c.baseURL + "extras/custom-fields/?name=" + LinkageField
	if err := c.do(ctx, http.MethodGet, lookup, nil, &existing); err != nil {
		return err
	}

	endpoint := c.baseURL + "extras/custom-fields/"
	if len(existing.Results) == 0 {
		return c.do(ctx, http.MethodPost, endpoint, fields, nil)
	}

	fields["id"] = existing.Results[0].ID
	return c.do(ctx, http.MethodPatch, endpoint, []Params{fields}, nil)
}
