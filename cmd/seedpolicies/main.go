// Command seedpolicies loads the policy corpus directory into the policies
// table so the server can warm its retrieval index from the database.
// Usage: go run ./cmd/seedpolicies
package main

import (
	"context"
	"fmt"
	"log"

	"polisure/internal/config"
	"polisure/internal/corpus"
	"polisure/internal/repository/postgres"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	docs, err := corpus.LoadDirectory(cfg.Corpus.Dir)
	if err != nil {
		return fmt.Errorf("loading corpus: %w", err)
	}
	if len(docs) == 0 {
		return fmt.Errorf("no policy documents found in %s", cfg.Corpus.Dir)
	}

	policyRepo := postgres.NewPolicyRepo(db)
	ctx := context.Background()
	for i := range docs {
		docs[i].ChunkSize = cfg.Corpus.ChunkSize
		if err := policyRepo.Upsert(ctx, &docs[i]); err != nil {
			return fmt.Errorf("upserting policy %s: %w", docs[i].Name, err)
		}
		log.Printf("seeded policy %s (%d bytes)", docs[i].Name, len(docs[i].Content))
	}

	log.Printf("seeded %d policy documents", len(docs))
	return nil
}
