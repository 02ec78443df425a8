package reconcile

// Snapshot is an in-memory copy of all target records of one kind, loaded
// once at stage start and indexed for linkage-key and name lookups. The
// orchestrator appends records it creates mid-stage so later iterations of
// the same stage observe them.
//
// The indices preserve insertion order: when a malformed snapshot carries
// the same linkage value or name more than once, lookups return the first
// record a linear scan would have found.
type Snapshot[T Record] struct {
	items  []T
	byLink map[int64]int
	byName map[string][]int
}

// NewSnapshot builds a snapshot over the given records. The slice is not
// retained; records are copied into the snapshot in order.
func NewSnapshot[T Record](items []T) *Snapshot[T] {
	s := &Snapshot[T]{
		byLink: make(map[int64]int, len(items)),
		byName: make(map[string][]int, len(items)),
	}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// Add appends a record and indexes it.
func (s *Snapshot[T]) Add(item T) {
	idx := len(s.items)
	s.items = append(s.items, item)

	if id, ok := item.LinkageID(); ok {
		// first record with a given linkage value wins
		if _, dup := s.byLink[id]; !dup {
			s.byLink[id] = idx
		}
	}
	if name := item.RecordName(); name != "" {
		s.byName[name] = append(s.byName[name], idx)
	}
}

// Refresh replaces the stored record carrying the same id, indexing a
// linkage value stamped since the record was loaded. Names are assumed
// unchanged; the name index is not rebuilt. A record the snapshot never
// held is ignored.
func (s *Snapshot[T]) Refresh(item T) {
	for i := range s.items {
		if s.items[i].RecordID() != item.RecordID() {
			continue
		}
		s.items[i] = item
		if id, ok := item.LinkageID(); ok {
			if _, dup := s.byLink[id]; !dup {
				s.byLink[id] = i
			}
		}
		return
	}
}

// Len returns the number of records in the snapshot.
func (s *Snapshot[T]) Len() int { return len(s.items) }

// Items returns the records in insertion order. The returned slice is the
// snapshot's backing store and must not be mutated.
func (s *Snapshot[T]) Items() []T { return s.items }

// ByLinkage returns the record whose linkage field equals sourceID.
func (s *Snapshot[T]) ByLinkage(sourceID int64) (T, bool) {
	if idx, ok := s.byLink[sourceID]; ok {
		return s.items[idx], true
	}
	var zero T
	return zero, false
}

// ByName returns the first record with the given name and how many records
// share it. An empty name never matches.
func (s *Snapshot[T]) ByName(name string) (T, int) {
	return s.ByNameWhere(name, nil)
}

// ByNameWhere is ByName constrained by a predicate, for kinds whose name
// uniqueness is scoped (locations within a site, devices within a tenant).
// A nil predicate keeps every candidate.
func (s *Snapshot[T]) ByNameWhere(name string, keep func(T) bool) (T, int) {
	var (
		first T
		count int
	)
	for _, idx := range s.byName[name] {
		item := s.items[idx]
		if keep != nil && !keep(item) {
			continue
		}
		if count == 0 {
			first = item
		}
		count++
	}
	return first, count
}

// Find returns the first record satisfying pred, in insertion order.
func (s *Snapshot[T]) Find(pred func(T) bool) (T, bool) {
	for _, item := range s.items {
		if pred(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Match resolves a source record against the snapshot: linkage key first,
// unique name second.
func (s *Snapshot[T]) Match(sourceID int64, name string) Match[T] {
	return s.MatchScoped(sourceID, name, nil)
}

// MatchScoped is Match with the name fallback constrained by a predicate.
func (s *Snapshot[T]) MatchScoped(sourceID int64, name string, keep func(T) bool) Match[T] {
	if target, ok := s.ByLinkage(sourceID); ok {
		return Match[T]{Kind: Linked, Target: target}
	}

	target, count := s.ByNameWhere(name, keep)
	switch count {
	case 0:
		return Match[T]{Kind: NotFound}
	case 1:
		return Match[T]{Kind: NameMatched, Target: target}
	default:
		return Match[T]{Kind: Ambiguous, Target: target, NameCount: count}
	}
}
