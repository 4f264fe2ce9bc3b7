package port

import (
	"context"

	"github.com/google/uuid"

	"polisure/internal/domain"
)

// UserRepository abstracts user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, int, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ClaimRepository abstracts triage-history persistence.
type ClaimRepository interface {
	Create(ctx context.Context, claim *domain.Claim) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Claim, error)
	List(ctx context.Context, offset, limit int) ([]domain.Claim, int, error)
	ListByStatus(ctx context.Context, status domain.ClaimStatus, offset, limit int) ([]domain.Claim, int, error)
	Update(ctx context.Context, claim *domain.Claim) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PolicyRepository abstracts policy document persistence.
type PolicyRepository interface {
	Upsert(ctx context.Context, doc *domain.PolicyDocument) error
	GetByName(ctx context.Context, name string) (*domain.PolicyDocument, error)
	List(ctx context.Context) ([]domain.PolicyDocument, error)
	DeleteAll(ctx context.Context) error
}
