// Package sync is the reconciliation engine. A Syncer reads the full
// inventory from Snipe-IT and mirrors it into NetBox in dependency order,
// matching records by linkage key or name, and creating, linking or
// updating them according to the operator flags. Nothing is ever deleted.
package sync
