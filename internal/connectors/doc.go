// Package connectors groups the CloudStore implementations for remote
// object-storage backends. Each subpackage adapts one backend's API to
// the CloudStore port: dropbox is path-addressed, google/drive is
// id-addressed. Callers receive the stores through the port interface
// and never branch on the backend.
package connectors
