// Package netbox provides the client for the NetBox target system.
//
// Every synced object type is exposed through the same uniform Endpoint:
// List materializes the full collection by following pagination, Create
// posts a sparse field map and returns the typed record with its id, and
// Update applies bulk partial updates. Write payloads are Params maps so
// the sync engine can send exactly the minimal changed attribute set.
//
// The package also owns the one-time bootstrap (EnsureLinkageField) that
// provisions the snipe_object_id custom field the whole reconciliation
// scheme hangs on.
package netbox
