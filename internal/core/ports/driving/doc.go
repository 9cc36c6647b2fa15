// Package driving provides interfaces for primary/inbound ports: the
// operations a front end (CLI, HTTP endpoint) invokes on the core.
package driving
