package reconcile

import (
	"strings"
	"time"
)

// noteLayout matches the timestamp format established by earlier imports,
// e.g. "24-05-02 12:00:00 (UTC)".
const noteLayout = "06-01-02 15:04:05 (UTC)"

// Reasons recorded in update notes.
const (
	// ReasonLink marks an update that only stamped the linkage key.
	ReasonLink = "Snipe ID"
	// ReasonValues marks an update that changed reconciled field values.
	ReasonValues = "Values"
)

// ImportNote is the description stamped on every record this engine creates.
func ImportNote(t time.Time) string {
	return "Imported from SnipeIT " + t.UTC().Format(noteLayout)
}

// UpdateNote appends a timestamped update marker to a record's existing
// free-text comments. Prior notes are never overwritten.
func UpdateNote(prev string, t time.Time, reason string) string {
	note := "Updated from SnipeIT " + t.UTC().Format(noteLayout)
	if reason != "" {
		note += " (" + reason + ")"
	}
	if prev == "" {
		return note
	}
	return prev + "\r\n\r\n" + note
}

// InitialComments carries the source record's notes onto a freshly created
// target record. The text makes clear it is a one-time copy.
func InitialComments(notes string) string {
	return "Notes from SnipeIT when initially creating this entry. " +
		"(It will not be updated on further syncs):\n\n " +
		strings.ReplaceAll(notes, "\r\n", "\r\n\r\n")
}
