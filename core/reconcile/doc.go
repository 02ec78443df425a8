// Package reconcile provides the kind-agnostic building blocks for matching
// source inventory records against target records and deciding what to do
// with each one.
//
// The package owns three concerns:
//
//  1. Matching: Snapshot holds an in-memory copy of all target records of one
//     kind, indexed by linkage key and by name. Lookup order is fixed:
//     linkage key first, name second, never the reverse. Index construction
//     preserves insertion order so duplicate keys resolve exactly as a linear
//     scan would (first match wins).
//
//  2. Deciding: Decide is the single pure decision function turning a match
//     outcome plus the operator flags (allow updates, allow linking) into one
//     of Create, Link, Update or Skip. Every entity stage calls the same
//     function instead of re-implementing the branching per kind.
//
//  3. Stamping: audit helpers produce the import/update notes appended to a
//     target record's free-text fields, and Slugify derives the slug the
//     target system requires on named records.
//
// The per-kind semantics (which fields to diff, how foreign keys resolve,
// the location tree walk) live in feature/sync; this package knows nothing
// about entity kinds beyond the Record interface.
package reconcile
