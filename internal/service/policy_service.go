package service

import (
	"context"
	"fmt"
	"log"

	"polisure/internal/config"
	"polisure/internal/corpus"
	"polisure/internal/domain"
	"polisure/internal/port"
)

// PolicyService manages the policy corpus backing verification and chat.
type PolicyService interface {
	List(ctx context.Context) ([]domain.PolicyDocument, error)
	Reload(ctx context.Context) (int, error)
	WarmIndex(ctx context.Context) error
}

type policyService struct {
	policyRepo port.PolicyRepository
	index      *corpus.Index
	cfg        *config.CorpusConfig
}

// NewPolicyService creates a new PolicyService implementation.
func NewPolicyService(policyRepo port.PolicyRepository, index *corpus.Index, cfg *config.CorpusConfig) PolicyService {
	return &policyService{
		policyRepo: policyRepo,
		index:      index,
		cfg:        cfg,
	}
}

func (s *policyService) List(ctx context.Context) ([]domain.PolicyDocument, error) {
	return s.policyRepo.List(ctx)
}

// Reload re-reads the corpus directory, upserts every document and rebuilds
// the retrieval index. Returns the number of documents loaded.
func (s *policyService) Reload(ctx context.Context) (int, error) {
	docs, err := corpus.LoadDirectory(s.cfg.Dir)
	if err != nil {
		return 0, fmt.Errorf("policyService.Reload: %w", err)
	}

	for i := range docs {
		docs[i].ChunkSize = s.cfg.ChunkSize
		if err := s.policyRepo.Upsert(ctx, &docs[i]); err != nil {
			return 0, fmt.Errorf("policyService.Reload: %w", err)
		}
	}

	s.index.Build(docs, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
	log.Printf("policyService.Reload: loaded %d policy documents from %s", len(docs), s.cfg.Dir)
	return len(docs), nil
}

// WarmIndex rebuilds the retrieval index from persisted policies. Used at
// startup so a restart does not require re-reading the corpus directory.
func (s *policyService) WarmIndex(ctx context.Context) error {
	docs, err := s.policyRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("policyService.WarmIndex: %w", err)
	}
	if len(docs) == 0 {
		log.Printf("policyService.WarmIndex: no persisted policies, index stays empty")
		return nil
	}
	s.index.Build(docs, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
	return nil
}
