package snipe

// Ref is a lightweight reference to another Snipe-IT record.
type Ref struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Company is a Snipe-IT company record.
type Company struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Manufacturer is a Snipe-IT manufacturer record.
type Manufacturer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Model is a Snipe-IT asset model record.
type Model struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ModelNumber  string `json:"model_number"`
	Notes        string `json:"notes"`
	Manufacturer Ref    `json:"manufacturer"`
}

// Location is a Snipe-IT location record. Parent is nil for top-level
// locations; the parent references form a tree.
type Location struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Parent *Ref   `json:"parent"`
}

// Asset is a Snipe-IT hardware asset record. AssetTag is required on the
// source side. Location is set while the asset is checked out somewhere,
// RTDLocation is its return-to default; either may be nil, as may Company.
type Asset struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	AssetTag    string `json:"asset_tag"`
	Serial      string `json:"serial"`
	Notes       string `json:"notes"`
	Category    Ref    `json:"category"`
	Model       Ref    `json:"model"`
	Location    *Ref   `json:"location"`
	RTDLocation *Ref   `json:"rtd_location"`
	Company     *Ref   `json:"company"`
}
