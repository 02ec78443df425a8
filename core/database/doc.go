// Package database handles the connection to the optional run journal
// database.
//
// The journal records one row per sync pass plus per-stage counters (see
// feature/journal). It is strictly observational: the reconciliation
// engine never reads from it, and a missing or unreachable database only
// costs the journal, never the pass.
package database
