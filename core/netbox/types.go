package netbox

// LinkageField is the name of the integer custom field carrying the id of
// the Snipe-IT record a NetBox record was derived from. It is the primary
// matching mechanism of the sync engine.
const LinkageField = "snipe_object_id"

// CustomFields is the custom field slot present on every synced kind.
type CustomFields struct {
	SnipeObjectID *int64 `json:"snipe_object_id"`
}

// LinkageID returns the stamped source id, if any.
func (c CustomFields) LinkageID() (int64, bool) {
	if c.SnipeObjectID == nil {
		return 0, false
	}
	return *c.SnipeObjectID, true
}

// Ref is a nested reference to another NetBox record.
type Ref struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Params is a sparse create or update payload keyed by wire field name.
// Update payloads must carry the record "id". Foreign keys are sent as
// plain integer ids, the way the NetBox writable serializers expect them.
type Params map[string]any

// Tenant mirrors a Snipe-IT company.
type Tenant struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Slug         string       `json:"slug"`
	Description  string       `json:"description"`
	CustomFields CustomFields `json:"custom_fields"`
}

func (t Tenant) RecordID() int64          { return t.ID }
func (t Tenant) RecordName() string       { return t.Name }
func (t Tenant) LinkageID() (int64, bool) { return t.CustomFields.LinkageID() }

// Manufacturer mirrors a Snipe-IT manufacturer.
type Manufacturer struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Slug         string       `json:"slug"`
	Description  string       `json:"description"`
	CustomFields CustomFields `json:"custom_fields"`
}

func (m Manufacturer) RecordID() int64          { return m.ID }
func (m Manufacturer) RecordName() string       { return m.Name }
func (m Manufacturer) LinkageID() (int64, bool) { return m.CustomFields.LinkageID() }

// DeviceType mirrors a Snipe-IT asset model. NetBox calls the display name
// of a device type its model.
type DeviceType struct {
	ID           int64        `json:"id"`
	Model        string       `json:"model"`
	Slug         string       `json:"slug"`
	PartNumber   string       `json:"part_number"`
	Manufacturer Ref          `json:"manufacturer"`
	Comments     string       `json:"comments"`
	CustomFields CustomFields `json:"custom_fields"`
}

func (d DeviceType) RecordID() int64          { return d.ID }
func (d DeviceType) RecordName() string       { return d.Model }
func (d DeviceType) LinkageID() (int64, bool) { return d.CustomFields.LinkageID() }

// Site mirrors a top-level Snipe-IT location (one without a parent).
type Site struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Slug         string       `json:"slug"`
	Description  string       `json:"description"`
	Comments     string       `json:"comments"`
	CustomFields CustomFields `json:"custom_fields"`
}

func (s Site) RecordID() int64          { return s.ID }
func (s Site) RecordName() string       { return s.Name }
func (s Site) LinkageID() (int64, bool) { return s.CustomFields.LinkageID() }

// Location mirrors a nested Snipe-IT location. Every location belongs to
// exactly one site, directly or transitively through its parent.
type Location struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Slug         string       `json:"slug"`
	Site         Ref          `json:"site"`
	Parent       *Ref         `json:"parent"`
	Description  string       `json:"description"`
	CustomFields CustomFields `json:"custom_fields"`
}

func (l Location) RecordID() int64          { return l.ID }
func (l Location) RecordName() string       { return l.Name }
func (l Location) LinkageID() (int64, bool) { return l.CustomFields.LinkageID() }

// DeviceRole mirrors a Snipe-IT asset category (truncated at the first
// hyphen in the category name).
type DeviceRole struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Slug         string       `json:"slug"`
	CustomFields CustomFields `json:"custom_fields"`
}

func (r DeviceRole) RecordID() int64          { return r.ID }
func (r DeviceRole) RecordName() string       { return r.Name }
func (r DeviceRole) LinkageID() (int64, bool) { return r.CustomFields.LinkageID() }

// Device mirrors a Snipe-IT hardware asset. Name and AssetTag are nullable
// on the NetBox side.
type Device struct {
	ID           int64        `json:"id"`
	Name         *string      `json:"name"`
	AssetTag     *string      `json:"asset_tag"`
	Serial       string       `json:"serial"`
	Site         Ref          `json:"site"`
	Role         Ref          `json:"role"`
	Tenant       *Ref         `json:"tenant"`
	DeviceType   Ref          `json:"device_type"`
	Description  string       `json:"description"`
	Comments     string       `json:"comments"`
	CustomFields CustomFields `json:"custom_fields"`
}

func (d Device) RecordID() int64 { return d.ID }

func (d Device) RecordName() string {
	if d.Name == nil {
		return ""
	}
	return *d.Name
}

func (d Device) LinkageID() (int64, bool) { return d.CustomFields.LinkageID() }

// Tag returns the device's asset tag or "" when unset.
func (d Device) Tag() string {
	if d.AssetTag == nil {
		return ""
	}
	return *d.AssetTag
}
