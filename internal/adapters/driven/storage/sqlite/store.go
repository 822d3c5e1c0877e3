// Package sqlite provides a SQLite-backed document store. Vectors are
// stored as JSON arrays in a TEXT column; similarity scoring happens in
// memory, so the database only needs to return candidate rows.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/draftly-ai/ragcore/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/draftly-ai/ragcore/internal/core/domain"
	"github.com/draftly-ai/ragcore/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// Store is a SQLite-based document and chunk-embedding store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.ragcore/data/ragcore.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".ragcore", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "ragcore.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

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
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

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

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Documents ====================

const documentColumns = `id, user_id, title, category, content,
	embedding_status, embedding_progress, chunks_count, embedding_model,
	last_embedded_at, created_at, updated_at, deleted_at`

// SaveDocument stores a document, assigning its ID on first insert.
func (s *Store) SaveDocument(ctx context.Context, doc *domain.Document) error {
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	if doc.ID == 0 {
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO documents
				(user_id, title, category, content, embedding_status,
				 embedding_progress, chunks_count, embedding_model,
				 last_embedded_at, created_at, updated_at, deleted_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, doc.UserID, doc.Title, string(doc.Category), doc.Content,
			string(doc.EmbeddingStatus), doc.EmbeddingProgress, doc.ChunksCount,
			nullString(doc.EmbeddingModel), nullTime(doc.LastEmbeddedAt),
			doc.CreatedAt, doc.UpdatedAt, nullTime(doc.DeletedAt))
		if err != nil {
			return fmt.Errorf("inserting document: %w", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading inserted id: %w", err)
		}
		doc.ID = id
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE documents SET
			user_id = ?, title = ?, category = ?, content = ?,
			embedding_status = ?, embedding_progress = ?, chunks_count = ?,
			embedding_model = ?, last_embedded_at = ?, updated_at = ?,
			deleted_at = ?
		WHERE id = ?
	`, doc.UserID, doc.Title, string(doc.Category), doc.Content,
		string(doc.EmbeddingStatus), doc.EmbeddingProgress, doc.ChunksCount,
		nullString(doc.EmbeddingModel), nullTime(doc.LastEmbeddedAt),
		doc.UpdatedAt, nullTime(doc.DeletedAt), doc.ID)
	if err != nil {
		return fmt.Errorf("updating document: %w", err)
	}
	return nil
}

// GetDocument retrieves a non-deleted document scoped to its owner.
func (s *Store) GetDocument(ctx context.Context, id int64, userID string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL
	`, id, userID)

	doc, err := scanDocument(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns the user's non-deleted documents, newest first.
func (s *Store) ListDocuments(
	ctx context.Context, userID string, categories []domain.Category,
) ([]domain.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE user_id = ? AND deleted_at IS NULL`
	args := []any{userID}

	if len(categories) > 0 {
		query += " AND category IN (" + placeholders(len(categories)) + ")"
		for _, c := range categories {
			args = append(args, string(c))
		}
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// SoftDeleteDocument marks a document deleted without removing its row.
func (s *Store) SoftDeleteDocument(ctx context.Context, id int64, userID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE documents SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL
	`, time.Now().UTC(), time.Now().UTC(), id, userID)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ==================== Chunk Embeddings ====================

// SearchCandidates returns every chunk of every live, fully-embedded
// document owned by userID in the given categories.
func (s *Store) SearchCandidates(
	ctx context.Context, userID string, categories []domain.Category,
) ([]driven.ChunkCandidate, error) {
	query := `
		SELECT d.id, d.title, d.category, c.chunk_index, c.chunk_text,
			c.start_offset, c.end_offset, c.embedding
		FROM chunk_embeddings c
		JOIN documents d ON d.id = c.document_id
		WHERE d.user_id = ? AND d.deleted_at IS NULL
			AND d.embedding_status = ?`
	args := []any{userID, string(domain.EmbeddingCompleted)}

	if len(categories) > 0 {
		query += " AND d.category IN (" + placeholders(len(categories)) + ")"
		for _, c := range categories {
			args = append(args, string(c))
		}
	}
	query += " ORDER BY d.id, c.chunk_index"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying candidates: %w", err)
	}
	defer rows.Close()

	var candidates []driven.ChunkCandidate //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			cand         driven.ChunkCandidate
			category     string
			embeddingRaw string
		)
		if err := rows.Scan(&cand.DocumentID, &cand.Title, &category,
			&cand.ChunkIndex, &cand.ChunkText, &cand.StartOffset,
			&cand.EndOffset, &embeddingRaw); err != nil {
			return nil, fmt.Errorf("scanning candidate: %w", err)
		}

		cand.Category = domain.Category(category)
		if err := json.Unmarshal([]byte(embeddingRaw), &cand.Embedding); err != nil {
			return nil, fmt.Errorf("unmarshaling embedding: %w", err)
		}
		candidates = append(candidates, cand)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating candidates: %w", err)
	}

	return candidates, nil
}

// DeleteChunks removes all chunk rows for a document.
func (s *Store) DeleteChunks(ctx context.Context, documentID int64) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM chunk_embeddings WHERE document_id = ?", documentID)
	if err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	return nil
}

// InsertChunk stores a single chunk-embedding row.
func (s *Store) InsertChunk(ctx context.Context, chunk *domain.ChunkEmbedding) error {
	embeddingJSON, err := json.Marshal(chunk.Embedding)
	if err != nil {
		return fmt.Errorf("marshalling embedding: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO chunk_embeddings
			(id, document_id, chunk_index, chunk_text, start_offset,
			 end_offset, embedding, model)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, chunk.ID, chunk.DocumentID, chunk.ChunkIndex, chunk.ChunkText,
		chunk.StartOffset, chunk.EndOffset, string(embeddingJSON), chunk.Model)
	if err != nil {
		return fmt.Errorf("inserting chunk: %w", err)
	}
	return nil
}

// ==================== Embedding Lifecycle ====================

// SetEmbeddingState updates the document's lifecycle columns in one step.
func (s *Store) SetEmbeddingState(
	ctx context.Context, id int64, status domain.EmbeddingStatus, chunksCount, progress int,
) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE documents SET
			embedding_status = ?, chunks_count = ?, embedding_progress = ?,
			updated_at = ?
		WHERE id = ?
	`, string(status), chunksCount, progress, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("setting embedding state: %w", err)
	}
	return nil
}

// UpdateEmbeddingProgress records the number of chunks embedded so far.
func (s *Store) UpdateEmbeddingProgress(ctx context.Context, id int64, progress int) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE documents SET embedding_progress = ?, updated_at = ?
		WHERE id = ?
	`, progress, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating embedding progress: %w", err)
	}
	return nil
}

// MarkEmbedded records a completed embedding run.
func (s *Store) MarkEmbedded(ctx context.Context, id int64, model string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE documents SET
			embedding_status = ?, embedding_model = ?, last_embedded_at = ?,
			updated_at = ?
		WHERE id = ?
	`, string(domain.EmbeddingCompleted), model, at, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("marking embedded: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// scanDocument scans a document row via the given Scan function, so it
// works for both *sql.Row and *sql.Rows.
func scanDocument(scan func(...any) error) (*domain.Document, error) {
	var (
		doc          domain.Document
		category     string
		status       string
		model        sql.NullString
		lastEmbedded sql.NullTime
		deletedAt    sql.NullTime
	)

	if err := scan(&doc.ID, &doc.UserID, &doc.Title, &category, &doc.Content,
		&status, &doc.EmbeddingProgress, &doc.ChunksCount, &model,
		&lastEmbedded, &doc.CreatedAt, &doc.UpdatedAt, &deletedAt); err != nil {
		return nil, err
	}

	doc.Category = domain.Category(category)
	doc.EmbeddingStatus = domain.EmbeddingStatus(status)
	doc.EmbeddingModel = model.String
	if lastEmbedded.Valid {
		t := lastEmbedded.Time
		doc.LastEmbeddedAt = &t
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		doc.DeletedAt = &t
	}

	return &doc, nil
}

// placeholders returns n comma-separated SQL placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// nullString converts an empty string to a SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullTime converts a nil time pointer to a SQL NULL.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
