package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"polisure/internal/domain"
	"polisure/internal/port"
)

type policyRepo struct {
	db *sqlx.DB
}

// NewPolicyRepo creates a new PostgreSQL-backed PolicyRepository.
func NewPolicyRepo(db *sqlx.DB) port.PolicyRepository {
	return &policyRepo{db: db}
}

func (r *policyRepo) Upsert(ctx context.Context, doc *domain.PolicyDocument) error {
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO policies (id, name, source, content, chunk_size, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (name) DO UPDATE SET
			source = EXCLUDED.source,
			content = EXCLUDED.content,
			chunk_size = EXCLUDED.chunk_size,
			updated_at = EXCLUDED.updated_at`,
		doc.ID, doc.Name, doc.Source, doc.Content, doc.ChunkSize,
		doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("policyRepo.Upsert: %w", err)
	}
	return nil
}

func (r *policyRepo) GetByName(ctx context.Context, name string) (*domain.PolicyDocument, error) {
	var doc domain.PolicyDocument
	err := r.db.GetContext(ctx, &doc, "SELECT * FROM policies WHERE name = $1", name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("policyRepo.GetByName: %w", err)
	}
	return &doc, nil
}

func (r *policyRepo) List(ctx context.Context) ([]domain.PolicyDocument, error) {
	var docs []domain.PolicyDocument
	err := r.db.SelectContext(ctx, &docs, "SELECT * FROM policies ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("policyRepo.List: %w", err)
	}
	return docs, nil
}

func (r *policyRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM policies")
	if err != nil {
		return fmt.Errorf("policyRepo.DeleteAll: %w", err)
	}
	return nil
}
