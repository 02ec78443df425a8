// Package storage provides an abstraction layer for the object storage
// service backing the report archive.
//
// Each completed sync pass can upload its JSON report here (see
// feature/report); the serve command reads the newest one back. The
// interface wraps the minio client so tests can substitute the mock in
// the mocks subpackage.
package storage
