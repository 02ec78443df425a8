package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rec is a minimal Record for matcher tests.
type rec struct {
	id   int64
	name string
	link int64 // 0 means unlinked
	site int64
}

func (r rec) RecordID() int64    { return r.id }
func (r rec) RecordName() string { return r.name }
func (r rec) LinkageID() (int64, bool) {
	if r.link == 0 {
		return 0, false
	}
	return r.link, true
}

func TestSnapshotMatch_LinkageBeforeName(t *testing.T) {
	// record 1 carries the linkage key, record 2 carries the name;
	// the linkage hit must win even though the name also matches.
	snap := NewSnapshot([]rec{
		{id: 1, name: "old name", link: 77},
		{id: 2, name: "printer"},
	})

	m := snap.Match(77, "printer")
	assert.Equal(t, Linked, m.Kind)
	assert.Equal(t, int64(1), m.Target.RecordID())
}

func TestSnapshotMatch_NameFallback(t *testing.T) {
	snap := NewSnapshot([]rec{
		{id: 1, name: "printer"},
		{id: 2, name: "switch"},
	})

	m := snap.Match(42, "switch")
	assert.Equal(t, NameMatched, m.Kind)
	assert.Equal(t, int64(2), m.Target.RecordID())
}

func TestSnapshotMatch_NotFound(t *testing.T) {
	snap := NewSnapshot([]rec{{id: 1, name: "printer"}})

	m := snap.Match(42, "router")
	assert.Equal(t, NotFound, m.Kind)
}

func TestSnapshotMatch_EmptyNameNeverMatches(t *testing.T) {
	snap := NewSnapshot([]rec{
		{id: 1, name: ""},
		{id: 2, name: ""},
	})

	m := snap.Match(42, "")
	assert.Equal(t, NotFound, m.Kind)
}

func TestSnapshotMatch_AmbiguousName(t *testing.T) {
	snap := NewSnapshot([]rec{
		{id: 1, name: "printer"},
		{id: 2, name: "printer"},
	})

	m := snap.Match(42, "printer")
	assert.Equal(t, Ambiguous, m.Kind)
	assert.Equal(t, 2, m.NameCount)
	// first-found is still reported for logging
	assert.Equal(t, int64(1), m.Target.RecordID())
}

func TestSnapshotMatchScoped(t *testing.T) {
	snap := NewSnapshot([]rec{
		{id: 1, name: "storage", site: 10},
		{id: 2, name: "storage", site: 20},
	})

	// scoped to one site the name becomes unique again
	m := snap.MatchScoped(42, "storage", func(r rec) bool { return r.site == 20 })
	require.Equal(t, NameMatched, m.Kind)
	assert.Equal(t, int64(2), m.Target.RecordID())

	m = snap.MatchScoped(42, "storage", func(r rec) bool { return r.site == 30 })
	assert.Equal(t, NotFound, m.Kind)
}

func TestSnapshotByLinkage_FirstMatchWins(t *testing.T) {
	// malformed snapshot with a duplicate linkage value: the first record
	// in insertion order must win, matching linear-scan behavior.
	snap := NewSnapshot([]rec{
		{id: 5, name: "a", link: 9},
		{id: 6, name: "b", link: 9},
	})

	got, ok := snap.ByLinkage(9)
	require.True(t, ok)
	assert.Equal(t, int64(5), got.RecordID())
}

func TestSnapshotAdd_VisibleToLaterLookups(t *testing.T) {
	snap := NewSnapshot[rec](nil)
	assert.Equal(t, 0, snap.Len())

	m := snap.Match(7, "rack")
	require.Equal(t, NotFound, m.Kind)

	// the orchestrator reflects created records into the stage snapshot
	snap.Add(rec{id: 100, name: "rack", link: 7})

	m = snap.Match(7, "rack")
	assert.Equal(t, Linked, m.Kind)
	assert.Equal(t, int64(100), m.Target.RecordID())
	assert.Equal(t, 1, snap.Len())
}

func TestSnapshotRefresh_IndexesStampedLinkage(t *testing.T) {
	snap := NewSnapshot([]rec{
		{id: 1, name: "printer"},
		{id: 2, name: "switch"},
	})

	_, ok := snap.ByLinkage(9)
	require.False(t, ok)

	// a record linked after loading gets re-indexed, not appended
	snap.Refresh(rec{id: 1, name: "printer", link: 9})

	got, ok := snap.ByLinkage(9)
	require.True(t, ok)
	assert.Equal(t, int64(1), got.RecordID())
	assert.Equal(t, 2, snap.Len())

	// unknown ids are ignored
	snap.Refresh(rec{id: 99, name: "ghost", link: 8})
	_, ok = snap.ByLinkage(8)
	assert.False(t, ok)
	assert.Equal(t, 2, snap.Len())
}

func TestSnapshotFind(t *testing.T) {
	snap := NewSnapshot([]rec{
		{id: 1, name: "a"},
		{id: 2, name: "b"},
		{id: 3, name: "b"},
	})

	got, ok := snap.Find(func(r rec) bool { return r.name == "b" })
	require.True(t, ok)
	assert.Equal(t, int64(2), got.RecordID())

	_, ok = snap.Find(func(r rec) bool { return r.name == "c" })
	assert.False(t, ok)
}
