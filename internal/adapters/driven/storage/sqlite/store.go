package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nublado-labs/nublado-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/nublado-labs/nublado-cli/internal/core/domain"
	"github.com/nublado-labs/nublado-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.Registry = (*Store)(nil)

// Store is the SQLite-backed file catalogue.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.nublado/data/catalog.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".nublado", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "catalog.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Catalogue Entries ====================

// UpsertEntry stores or merges an entry keyed by (service, name). Summary,
// technical description, URL and locator overwrite the stored row; embedding
// and content text are coalesced so a nil new value never erases a stored
// one. The entry's surrogate ID is filled in on return.
func (s *Store) UpsertEntry(ctx context.Context, entry *domain.CatalogEntry) error {
	if entry.Service == "" || entry.Name == "" {
		return domain.ErrInvalidInput
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	embeddingBlob := float32SliceToBytes(entry.Embedding)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO files
			(service, name, type, remote_locator, cloud_url, content_text,
			 embedding, summary, technical_description, folder_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(service, name) DO UPDATE SET
			type = excluded.type,
			remote_locator = excluded.remote_locator,
			cloud_url = excluded.cloud_url,
			content_text = COALESCE(NULLIF(excluded.content_text, ''), files.content_text),
			embedding = COALESCE(excluded.embedding, files.embedding),
			summary = excluded.summary,
			technical_description = excluded.technical_description,
			folder_id = COALESCE(excluded.folder_id, files.folder_id)
	`, entry.Service, entry.Name, entry.Extension, entry.RemoteLocator,
		entry.CloudURL, entry.ContentText, embeddingBlob, entry.Summary,
		entry.TechnicalDescription, nullInt64(entry.FolderID), createdAt)
	if err != nil {
		return fmt.Errorf("upserting entry: %w", err)
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT id FROM files WHERE service = ? AND name = ?",
		entry.Service, entry.Name)
	if err := row.Scan(&entry.ID); err != nil {
		return fmt.Errorf("reading entry id: %w", err)
	}
	return nil
}

// FindByNameAndService looks up one entry by its natural key.
func (s *Store) FindByNameAndService(ctx context.Context, name, service string) (*domain.CatalogEntry, error) {
	row := s.db.QueryRowContext(ctx, entrySelect+`
		WHERE name = ? AND service = ?
	`, name, service)

	entry, err := scanEntryRow(row)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListEmbedded returns all entries carrying an embedding, the candidate set
// for semantic search.
func (s *Store) ListEmbedded(ctx context.Context) ([]domain.CatalogEntry, error) {
	rows, err := s.db.QueryContext(ctx, entrySelect+`
		WHERE embedding IS NOT NULL AND length(embedding) > 0
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying embedded entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListRecent returns the most recently registered entries.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]domain.CatalogEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, entrySelect+`
		ORDER BY created_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// SearchByName returns entries whose name contains the keyword,
// case-insensitively.
func (s *Store) SearchByName(ctx context.Context, keyword string) ([]domain.CatalogEntry, error) {
	rows, err := s.db.QueryContext(ctx, entrySelect+`
		WHERE name LIKE ? ORDER BY id
	`, "%"+keyword+"%")
	if err != nil {
		return nil, fmt.Errorf("searching entries by name: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// DeleteEntry removes an entry by surrogate id.
func (s *Store) DeleteEntry(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM files WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ==================== Folders ====================

// SaveFolder stores or updates a folder reference and returns its id.
func (s *Store) SaveFolder(ctx context.Context, folder *domain.FolderRef) (int64, error) {
	if folder.Service == "" || folder.Name == "" {
		return 0, domain.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO folders (name, service, cloud_folder_id, parent_id)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(service, name) DO UPDATE SET
			cloud_folder_id = excluded.cloud_folder_id,
			parent_id = excluded.parent_id
	`, folder.Name, folder.Service, folder.CloudFolderID, nullInt64(folder.ParentID))
	if err != nil {
		return 0, fmt.Errorf("saving folder: %w", err)
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT id FROM folders WHERE service = ? AND name = ?",
		folder.Service, folder.Name)
	if err := row.Scan(&folder.ID); err != nil {
		return 0, fmt.Errorf("reading folder id: %w", err)
	}
	return folder.ID, nil
}

// FolderByName finds a folder reference by (name, service).
func (s *Store) FolderByName(ctx context.Context, name, service string) (*domain.FolderRef, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, service, cloud_folder_id, parent_id
		FROM folders WHERE name = ? AND service = ?
	`, name, service)

	var folder domain.FolderRef
	var cloudFolderID sql.NullString
	var parentID sql.NullInt64
	if err := row.Scan(&folder.ID, &folder.Name, &folder.Service,
		&cloudFolderID, &parentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning folder: %w", err)
	}

	folder.CloudFolderID = cloudFolderID.String
	if parentID.Valid {
		folder.ParentID = &parentID.Int64
	}
	return &folder, nil
}

// ==================== Category Folders ====================

// LoadCategoryCache returns the persisted (category, service) -> cloud
// folder id mapping.
func (s *Store) LoadCategoryCache(ctx context.Context) (domain.CategoryCache, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, service, cloud_folder_id FROM category_folders
	`)
	if err != nil {
		return nil, fmt.Errorf("querying category folders: %w", err)
	}
	defer rows.Close()

	cache := make(domain.CategoryCache)
	for rows.Next() {
		var category, service, folderID string
		if err := rows.Scan(&category, &service, &folderID); err != nil {
			return nil, fmt.Errorf("scanning category folder: %w", err)
		}
		cache.Put(service, category, folderID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category folders: %w", err)
	}

	return cache, nil
}

// SaveCategoryFolder upserts one category folder mapping.
func (s *Store) SaveCategoryFolder(ctx context.Context, category, service, cloudFolderID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO category_folders (category, service, cloud_folder_id)
		VALUES (?, ?, ?)
		ON CONFLICT(category, service) DO UPDATE SET
			cloud_folder_id = excluded.cloud_folder_id
	`, category, service, cloudFolderID)
	if err != nil {
		return fmt.Errorf("saving category folder: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// entrySelect is the shared column list for catalogue entry queries.
const entrySelect = `
	SELECT id, service, name, type, remote_locator, cloud_url, content_text,
	       embedding, summary, technical_description, folder_id, created_at
	FROM files`

// scanEntryRow scans a single entry row.
func scanEntryRow(row *sql.Row) (*domain.CatalogEntry, error) {
	var entry domain.CatalogEntry
	var extension, locator, url, content, summary, techDesc sql.NullString
	var embeddingBlob []byte
	var folderID sql.NullInt64
	var createdAt sql.NullTime

	if err := row.Scan(&entry.ID, &entry.Service, &entry.Name, &extension,
		&locator, &url, &content, &embeddingBlob, &summary, &techDesc,
		&folderID, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning entry: %w", err)
	}

	fillEntry(&entry, extension, locator, url, content, summary, techDesc,
		embeddingBlob, folderID, createdAt)
	return &entry, nil
}

// scanEntries scans multiple entry rows.
func scanEntries(rows *sql.Rows) ([]domain.CatalogEntry, error) {
	var entries []domain.CatalogEntry //nolint:prealloc // size unknown from query
	for rows.Next() {
		var entry domain.CatalogEntry
		var extension, locator, url, content, summary, techDesc sql.NullString
		var embeddingBlob []byte
		var folderID sql.NullInt64
		var createdAt sql.NullTime

		if err := rows.Scan(&entry.ID, &entry.Service, &entry.Name, &extension,
			&locator, &url, &content, &embeddingBlob, &summary, &techDesc,
			&folderID, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}

		fillEntry(&entry, extension, locator, url, content, summary, techDesc,
			embeddingBlob, folderID, createdAt)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}

	return entries, nil
}

// fillEntry copies scanned nullable columns into the entry.
func fillEntry(
	entry *domain.CatalogEntry,
	extension, locator, url, content, summary, techDesc sql.NullString,
	embeddingBlob []byte,
	folderID sql.NullInt64,
	createdAt sql.NullTime,
) {
	entry.Extension = extension.String
	entry.RemoteLocator = locator.String
	entry.CloudURL = url.String
	entry.ContentText = content.String
	entry.Summary = summary.String
	entry.TechnicalDescription = techDesc.String
	entry.Embedding = bytesToFloat32Slice(embeddingBlob)
	if folderID.Valid {
		entry.FolderID = &folderID.Int64
	}
	if createdAt.Valid {
		entry.CreatedAt = createdAt.Time
	}
}

// nullInt64 converts a *int64 to a sql.NullInt64.
func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
