// Package sqlite provides the SQLite-backed implementation of the file
// catalogue Registry.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. One database connection
// serves the files, folders and category_folders tables.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Embeddings are stored as little-endian float32
// blobs. Catalogue entries are keyed by the natural key (service, name); on
// conflict the embedding and content text columns are coalesced so a nil
// value never erases previously stored analysis.
//
// # Data Location
//
// By default, the database is stored at ~/.nublado/data/catalog.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
