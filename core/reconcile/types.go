package reconcile

// MatchKind classifies how a source record resolved against the target
// snapshot of its kind.
type MatchKind int

const (
	// NotFound means no target record corresponds to the source record.
	NotFound MatchKind = iota

	// Linked means a target record carries the source id in its linkage
	// field. This is certain identity.
	Linked

	// NameMatched means exactly one target record shares the source
	// record's name but carries no linkage to it yet.
	NameMatched

	// TagMatched means a target device shares the source asset's tag.
	// The tag is required on the source side and optional on the target,
	// so a hit is certain identity that still needs the linkage key
	// stamped. Only the device stage produces this kind.
	TagMatched

	// Ambiguous means more than one target record shares the source
	// record's name. Stages treat this as a per-item error: log and skip.
	Ambiguous
)

func (k MatchKind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case Linked:
		return "linked"
	case NameMatched:
		return "name_matched"
	case TagMatched:
		return "tag_matched"
	case Ambiguous:
		return "ambiguous"
	default:
		return "unknown"
	}
}

// Action is the reconciliation decision for one source record.
type Action int

const (
	// Skip leaves the target record untouched (a log entry at most).
	Skip Action = iota
	// Create makes a new target record stamped with the linkage key.
	Create
	// Link stamps the linkage key on an existing target record.
	Link
	// Update applies the computed field diff to a linked target record.
	Update
)

func (a Action) String() string {
	switch a {
	case Create:
		return "create"
	case Link:
		return "link"
	case Update:
		return "update"
	default:
		return "skip"
	}
}

// Flags are the operator switches gating writes to targets that already
// exist. Creation of missing records is never gated.
type Flags struct {
	// AllowUpdates permits applying field diffs to linked records.
	AllowUpdates bool
	// AllowLinking permits stamping the linkage key on name-matched records.
	AllowLinking bool
}

// Record is the minimal view of a target record the matcher needs. Every
// target kind (tenant, site, device, ...) satisfies it.
type Record interface {
	// RecordID is the target system's own id.
	RecordID() int64
	// RecordName is the display name used for the name fallback.
	RecordName() string
	// LinkageID returns the source id stamped on the record, if any.
	LinkageID() (int64, bool)
}

// Match is the outcome of resolving one source record against a snapshot.
type Match[T Record] struct {
	Kind   MatchKind
	Target T

	// NameCount is how many targets shared the name when Kind is Ambiguous.
	NameCount int
}
