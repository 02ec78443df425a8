// Package journal persists the outcome of sync passes to a relational
// database so operators can review what previous runs changed.
package journal
