package repository

import (
	"context"
	"errors"
	"time"

	"github.com/inkwell-ai/inkwell/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// EntryRepository persists knowledge entries and their embeddings in the
// pgvector-backed collection.
type EntryRepository struct {
	db        dbtx
	dimension int
}

func NewEntryRepository(pool *pgxpool.Pool, dimension int) *EntryRepository {
	return &EntryRepository{db: pool, dimension: dimension}
}

func NewEntryRepositoryWithTx(tx pgx.Tx, dimension int) *EntryRepository {
	return &EntryRepository{db: tx, dimension: dimension}
}

// Upsert inserts or overwrites the entry keyed by ID. Repeated upserts
// with unchanged content leave row count and content unchanged.
func (r *EntryRepository) Upsert(ctx context.Context, e *domain.KnowledgeEntry) error {
	if len(e.Embedding) != r.dimension {
		return domain.ErrWrongDimension
	}

	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := e.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO knowledge_entries
			(id, type, title, content, category, metadata, content_hash, embedding, cluster_id, created_at, updated_at)
		 VALUES
			($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (id) DO UPDATE SET
			type = EXCLUDED.type,
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			category = EXCLUDED.category,
			metadata = EXCLUDED.metadata,
			content_hash = EXCLUDED.content_hash,
			embedding = EXCLUDED.embedding,
			cluster_id = EXCLUDED.cluster_id,
			updated_at = EXCLUDED.updated_at`,
		e.ID,
		e.Type,
		e.Title,
		e.Content,
		e.Category,
		e.Metadata,
		e.ContentHash(),
		pgvector.NewVector(e.Embedding),
		nullableString(e.ClusterID),
		createdAt,
		updatedAt,
	)
	if err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodePersistence, "failed to upsert knowledge entry", err)
	}

	return nil
}

// Search returns the entries most similar to the query vector, scored by
// cosine similarity mapped to [0,1], descending. Every returned score
// clears the threshold; an empty result is not an error.
func (r *EntryRepository) Search(ctx context.Context, embedding []float32, threshold float64, topK int, category string) ([]*domain.ScoredEntry, error) {
	if len(embedding) != r.dimension {
		return nil, domain.ErrWrongDimension
	}
	if topK <= 0 {
		topK = 10
	}

	vec := pgvector.NewVector(embedding)

	var rows pgx.Rows
	var err error

	if category != "" {
		rows, err = r.db.Query(ctx,
			`SELECT id, type, title, content, category, metadata, cluster_id, created_at, updated_at,
				GREATEST(0.0, LEAST(1.0, 1.0 - (embedding <=> $1))) AS score
			 FROM knowledge_entries
			 WHERE category = $4 AND 1.0 - (embedding <=> $1) >= $2
			 ORDER BY embedding <=> $1
			 LIMIT $3`,
			vec, threshold, topK, category,
		)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT id, type, title, content, category, metadata, cluster_id, created_at, updated_at,
				GREATEST(0.0, LEAST(1.0, 1.0 - (embedding <=> $1))) AS score
			 FROM knowledge_entries
			 WHERE 1.0 - (embedding <=> $1) >= $2
			 ORDER BY embedding <=> $1
			 LIMIT $3`,
			vec, threshold, topK,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanScoredRows(rows)
}

// Stats returns aggregate counts over the collection.
func (r *EntryRepository) Stats(ctx context.Context) (*domain.StoreStats, error) {
	stats := &domain.StoreStats{
		CountByCategory: map[string]int{},
		CountByCluster:  map[string]int{},
	}

	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM knowledge_entries`).Scan(&stats.TotalCount)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT category, COUNT(*) FROM knowledge_entries GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		stats.CountByCategory[category] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	clusterRows, err := r.db.Query(ctx,
		`SELECT cluster_id, COUNT(*) FROM knowledge_entries WHERE cluster_id IS NOT NULL GROUP BY cluster_id`)
	if err != nil {
		return nil, err
	}
	defer clusterRows.Close()
	for clusterRows.Next() {
		var cluster string
		var count int
		if err := clusterRows.Scan(&cluster, &count); err != nil {
			return nil, err
		}
		stats.CountByCluster[cluster] = count
	}

	return stats, clusterRows.Err()
}

// ListHashes returns id → content_hash for every stored entry, letting
// the pipeline skip entries whose content has not changed.
func (r *EntryRepository) ListHashes(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.Query(ctx, `SELECT id, content_hash FROM knowledge_entries`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hashes := make(map[string]string)
	for rows.Next() {
		var id, hash string
		if err := rows.Scan(&id, &hash); err != nil {
			return nil, err
		}
		hashes[id] = hash
	}
	return hashes, rows.Err()
}

// GetByID fetches a single entry without its embedding.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.KnowledgeEntry, error) {
	var e domain.KnowledgeEntry
	var clusterID *string
	err := r.db.QueryRow(ctx,
		`SELECT id, type, title, content, category, metadata, cluster_id, created_at, updated_at
		 FROM knowledge_entries WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.Type, &e.Title, &e.Content, &e.Category, &e.Metadata, &clusterID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}
	if clusterID != nil {
		e.ClusterID = *clusterID
	}
	return &e, nil
}

func scanScoredRows(rows pgx.Rows) ([]*domain.ScoredEntry, error) {
	var results []*domain.ScoredEntry
	for rows.Next() {
		var e domain.KnowledgeEntry
		var clusterID *string
		var score float64
		if err := rows.Scan(&e.ID, &e.Type, &e.Title, &e.Content, &e.Category, &e.Metadata, &clusterID, &e.CreatedAt, &e.UpdatedAt, &score); err != nil {
			return nil, err
		}
		if clusterID != nil {
			e.ClusterID = *clusterID
		}
		results = append(results, &domain.ScoredEntry{Entry: e, Score: score})
	}
	return results, rows.Err()
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
