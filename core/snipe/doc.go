// Package snipe provides the read-only client for the Snipe-IT source
// system.
//
// The sync engine consumes fully materialized collections, so every list
// method here walks Snipe-IT's limit/offset pagination to the end before
// returning, de-duplicating rows by id along the way (the row set can shift
// while a walk is in progress).
//
// The client performs no writes. Retry and backoff, if desired, belong in
// an http.RoundTripper handed to the client, not in the sync engine above.
package snipe
