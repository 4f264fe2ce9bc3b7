package main

import (
	"context"
	"fmt"
	"log"

	"polisure/internal/chat"
	"polisure/internal/config"
	"polisure/internal/corpus"
	"polisure/internal/domain"
	openaiembed "polisure/internal/embedding/openai"
	"polisure/internal/extractor"
	claudeext "polisure/internal/extractor/claude"
	geminiext "polisure/internal/extractor/gemini"
	localext "polisure/internal/extractor/local"
	openaiext "polisure/internal/extractor/openai"
	"polisure/internal/handler"
	"polisure/internal/port"
	"polisure/internal/repository/postgres"
	"polisure/internal/router"
	"polisure/internal/service"
	s3storage "polisure/internal/storage/s3"
	"polisure/internal/tagger"
	"polisure/internal/verifier"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	claimRepo := postgres.NewClaimRepo(db)
	policyRepo := postgres.NewPolicyRepo(db)

	// Initialize storage
	archive, err := s3storage.NewArchiveClient(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize attachment archive: %w", err)
	}

	// Corpus retrieval index, with an embedder when one is configured.
	var embedder port.Embedder
	if cfg.Corpus.EmbeddingProvider == "openai" && cfg.Corpus.EmbeddingAPIKey != "" {
		embedder = openaiembed.NewEmbedder(cfg.Corpus.EmbeddingAPIKey, cfg.Corpus.EmbeddingModel)
	}
	index := corpus.NewIndex(embedder, cfg.Corpus.TopK, cfg.Corpus.CacheTTL)

	// Extraction backend
	claimExtractor, err := buildExtractor(cfg, embedder)
	if err != nil {
		return fmt.Errorf("failed to initialize extractor: %w", err)
	}

	// Verification backend
	claimVerifier, err := buildVerifier(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize verifier: %w", err)
	}

	// Chat completer shares the verifier's provider settings; nil in offline
	// deployments.
	var completer port.ChatCompleter
	if !cfg.Verifier.Offline {
		completer, err = chat.NewCompleter(cfg.Verifier.Provider, cfg.Verifier.APIKey, cfg.Verifier.DefaultModel, cfg.Verifier.TimeoutSecs)
		if err != nil {
			return fmt.Errorf("failed to initialize chat completer: %w", err)
		}
	}

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	claimSvc := service.NewClaimService(claimRepo, claimExtractor, claimVerifier, index, archive, &cfg.S3, cfg.Corpus.TopK)
	chatSvc := service.NewChatService(completer, index, cfg.Corpus.TopK)
	policySvc := service.NewPolicyService(policyRepo, index, &cfg.Corpus)

	if err := policySvc.WarmIndex(context.Background()); err != nil {
		log.Printf("warming policy index: %v", err)
	}

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	claimH := handler.NewClaimHandler(claimSvc)
	chatH := handler.NewChatHandler(chatSvc)
	policyH := handler.NewPolicyHandler(policySvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, authSvc, authH, claimH, chatH, policyH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// buildExtractor assembles the configured extraction backend: the local
// tagging pipeline, or the cloud provider chain with rate-limit fallback.
func buildExtractor(cfg *config.Config, embedder port.Embedder) (port.ClaimExtractor, error) {
	if cfg.Extractor.Backend == string(domain.ExtractorBackendLocal) {
		return localext.NewExtractor(&cfg.Tagger, tagger.NewRegistry(), embedder)
	}

	extractor.RegisterProvider("claude", func(c *config.ExtractorProviderConfig) (port.ClaimExtractor, error) {
		return claudeext.NewExtractor(c), nil
	})
	extractor.RegisterProvider("gemini", func(c *config.ExtractorProviderConfig) (port.ClaimExtractor, error) {
		return geminiext.NewExtractor(c), nil
	})
	extractor.RegisterProvider("openai", func(c *config.ExtractorProviderConfig) (port.ClaimExtractor, error) {
		return openaiext.NewExtractor(c), nil
	})

	var chain []port.ClaimExtractor
	var names []string

	primary, err := extractor.NewExtractor(&cfg.Extractor.Primary)
	if err != nil {
		return nil, err
	}
	chain = append(chain, primary)
	names = append(names, cfg.Extractor.Primary.Provider)

	if sc := cfg.Extractor.SecondaryConfig(); sc != nil {
		secondary, err := extractor.NewExtractor(sc)
		if err != nil {
			return nil, err
		}
		chain = append(chain, secondary)
		names = append(names, sc.Provider)
	}
	if tc := cfg.Extractor.TertiaryConfig(); tc != nil {
		tertiary, err := extractor.NewExtractor(tc)
		if err != nil {
			return nil, err
		}
		chain = append(chain, tertiary)
		names = append(names, tc.Provider)
	}

	if len(chain) == 1 {
		return chain[0], nil
	}
	return extractor.NewFallbackExtractor(chain, names), nil
}

// buildVerifier selects the offline short-circuit or the LLM verifier.
func buildVerifier(cfg *config.Config) (port.Verifier, error) {
	if cfg.Verifier.Offline {
		log.Printf("verifier running in offline mode")
		return verifier.NewOfflineVerifier(), nil
	}
	completer, err := chat.NewCompleter(cfg.Verifier.Provider, cfg.Verifier.APIKey, cfg.Verifier.DefaultModel, cfg.Verifier.TimeoutSecs)
	if err != nil {
		return nil, err
	}
	return verifier.NewLLMVerifier(completer), nil
}
