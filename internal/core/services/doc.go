// Package services contains the core application services: the
// reconciliation scanner, the chunked embedder, the semantic search engine
// and the category organizer. Services depend only on domain types and
// driven ports; adapters are injected at construction.
package services
