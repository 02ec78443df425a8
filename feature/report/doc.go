// Package report archives sync pass reports in object storage and serves
// them, together with the run journal, over HTTP.
package report
