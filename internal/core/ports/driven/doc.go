// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): remote object stores, the AI provider and
// the persistent registry.
package driven
