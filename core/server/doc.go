// Package server holds the HTTP server configuration for the report API.
//
// The sync engine itself has no HTTP surface; this configuration only
// backs the optional serve command that exposes archived pass reports.
package server
