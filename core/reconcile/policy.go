package reconcile

// Decide turns a match outcome plus the operator flags into the action to
// take for one source record. It is the single decision table shared by all
// entity stages:
//
//	NotFound                     -> Create
//	NameMatched,  linking on     -> Link (stamp linkage key, nothing else)
//	NameMatched,  linking off    -> Skip
//	Linked, clean                -> Skip (nothing changed)
//	Linked, dirty, updates on    -> Update
//	Linked, dirty, updates off   -> Skip
//	Ambiguous                    -> Skip (per-item error, caller logs)
//
// dirty reports whether the kind-specific comparator found any reconciled
// field differing between source and target; it is only consulted for
// Linked matches.
//
// TagMatched is deliberately not in the table: a tag hit is certain identity
// that still needs linking, so the device stage applies the table twice,
// once as NameMatched for the linkage stamp and once as Linked for the
// field diff.
func Decide(kind MatchKind, dirty bool, flags Flags) Action {
	switch kind {
	case NotFound:
		return Create
	case NameMatched:
		if flags.AllowLinking {
			return Link
		}
		return Skip
	case Linked:
		if !dirty {
			return Skip
		}
		if flags.AllowUpdates {
			return Update
		}
		return Skip
	default:
		return Skip
	}
}
