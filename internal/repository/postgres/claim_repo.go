package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"polisure/internal/domain"
	"polisure/internal/port"
)

type claimRepo struct {
	db *sqlx.DB
}

// NewClaimRepo creates a new PostgreSQL-backed ClaimRepository.
func NewClaimRepo(db *sqlx.DB) port.ClaimRepository {
	return &claimRepo{db: db}
}

func (r *claimRepo) Create(ctx context.Context, claim *domain.Claim) error {
	now := time.Now().UTC()
	claim.CreatedAt = now
	claim.UpdatedAt = now

	query := `INSERT INTO claims (
		id, description, attachment_key, attachment_type,
		extractor_used, extraction, verification,
		status, triage_error,
		created_by, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7,
		$8, $9,
		$10, $11, $12
	)`

	_, err := r.db.ExecContext(ctx, query,
		claim.ID, claim.Description, claim.AttachmentKey, claim.AttachmentType,
		claim.ExtractorUsed, claim.Extraction, claim.Verification,
		claim.Status, claim.TriageError,
		claim.CreatedBy, claim.CreatedAt, claim.UpdatedAt)
	if err != nil {
		return fmt.Errorf("claimRepo.Create: %w", err)
	}
	return nil
}

func (r *claimRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Claim, error) {
	var claim domain.Claim
	err := r.db.GetContext(ctx, &claim, "SELECT * FROM claims WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrClaimNotFound
		}
		return nil, fmt.Errorf("claimRepo.GetByID: %w", err)
	}
	return &claim, nil
}

func (r *claimRepo) List(ctx context.Context, offset, limit int) ([]domain.Claim, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM claims")
	if err != nil {
		return nil, 0, fmt.Errorf("claimRepo.List count: %w", err)
	}

	var claims []domain.Claim
	err = r.db.SelectContext(ctx, &claims,
		"SELECT * FROM claims ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("claimRepo.List: %w", err)
	}
	return claims, total, nil
}

func (r *claimRepo) ListByStatus(ctx context.Context, status domain.ClaimStatus, offset, limit int) ([]domain.Claim, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM claims WHERE status = $1", status)
	if err != nil {
		return nil, 0, fmt.Errorf("claimRepo.ListByStatus count: %w", err)
	}

	var claims []domain.Claim
	err = r.db.SelectContext(ctx, &claims,
		`SELECT * FROM claims WHERE status = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("claimRepo.ListByStatus: %w", err)
	}
	return claims, total, nil
}

func (r *claimRepo) Update(ctx context.Context, claim *domain.Claim) error {
	claim.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE claims SET
			extractor_used = $1, extraction = $2, verification = $3,
			status = $4, triage_error = $5, updated_at = $6
		 WHERE id = $7`,
		claim.ExtractorUsed, claim.Extraction, claim.Verification,
		claim.Status, claim.TriageError, claim.UpdatedAt,
		claim.ID)
	if err != nil {
		return fmt.Errorf("claimRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrClaimNotFound
	}
	return nil
}

func (r *claimRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM claims WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("claimRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrClaimNotFound
	}
	return nil
}
