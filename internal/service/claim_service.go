package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"polisure/internal/config"
	"polisure/internal/corpus"
	"polisure/internal/domain"
	"polisure/internal/export"
	"polisure/internal/port"
	"polisure/internal/tagger"
)

// SubmitClaimInput is the DTO for claim submissions. File and Header are nil
// for text-only claims.
type SubmitClaimInput struct {
	Description string
	SubmittedBy uuid.UUID
	File        multipart.File
	Header      *multipart.FileHeader
}

// ExportFormat selects the claim history download format.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// ClaimService defines the claim triage contract.
type ClaimService interface {
	Submit(ctx context.Context, input SubmitClaimInput) (*domain.Claim, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Claim, error)
	List(ctx context.Context, status string, offset, limit int) ([]domain.Claim, int, error)
	Export(ctx context.Context, format ExportFormat) ([]byte, string, error)
	GetAttachmentURL(ctx context.Context, id uuid.UUID) (string, error)
}

type claimService struct {
	claimRepo port.ClaimRepository
	extractor port.ClaimExtractor
	verifier  port.Verifier
	index     *corpus.Index
	storage   port.ObjectStorage
	s3cfg     *config.S3Config
	topK      int
}

// NewClaimService creates a new ClaimService implementation.
func NewClaimService(
	claimRepo port.ClaimRepository,
	claimExtractor port.ClaimExtractor,
	claimVerifier port.Verifier,
	index *corpus.Index,
	storage port.ObjectStorage,
	s3cfg *config.S3Config,
	topK int,
) ClaimService {
	return &claimService{
		claimRepo: claimRepo,
		extractor: claimExtractor,
		verifier:  claimVerifier,
		index:     index,
		storage:   storage,
		s3cfg:     s3cfg,
		topK:      topK,
	}
}

// Submit runs the full triage pipeline: validate, archive the attachment,
// extract, cross-reference the corpus, verify, persist. Extraction and
// verification failures degrade the record instead of failing the request.
func (s *claimService) Submit(ctx context.Context, input SubmitClaimInput) (*domain.Claim, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrEmptyDescription
	}

	claim := &domain.Claim{
		ID:          uuid.New(),
		Description: description,
		Status:      domain.ClaimStatusPending,
		CreatedBy:   input.SubmittedBy,
	}

	var fileBytes []byte
	var contentType string
	if input.Header != nil {
		var err error
		fileBytes, contentType, err = s.readAttachment(input)
		if err != nil {
			return nil, err
		}

		key := fmt.Sprintf("claims/%s/%s", claim.ID, input.Header.Filename)
		_, err = s.storage.Upload(ctx, port.UploadInput{
			Bucket:      s.s3cfg.Bucket,
			Key:         key,
			Body:        bytes.NewReader(fileBytes),
			ContentType: contentType,
			Size:        input.Header.Size,
		})
		if err != nil {
			log.Printf("claimService.Submit: archiving attachment for claim %s: %v", claim.ID, err)
			return nil, domain.ErrUploadFailed
		}
		claim.AttachmentKey = key
		claim.AttachmentType = contentType
	}

	extraction, modelUsed := s.extract(ctx, description, fileBytes, contentType)
	claim.ExtractorUsed = modelUsed

	extJSON, err := json.Marshal(extraction)
	if err != nil {
		return nil, fmt.Errorf("claimService.Submit: encoding extraction: %w", err)
	}
	claim.Extraction = extJSON

	if extraction.IncidentType == domain.SentinelModelError {
		claim.Status = domain.ClaimStatusDegraded
	} else {
		claim.Status = domain.ClaimStatusExtracted
	}

	verification, verifyErr := s.verify(ctx, extraction)
	if verifyErr != nil {
		log.Printf("claimService.Submit: verification failed for claim %s: %v", claim.ID, verifyErr)
		claim.TriageError = verifyErr.Error()
	} else {
		verJSON, err := json.Marshal(verification)
		if err != nil {
			return nil, fmt.Errorf("claimService.Submit: encoding verification: %w", err)
		}
		claim.Verification = verJSON
		if claim.Status == domain.ClaimStatusExtracted {
			claim.Status = domain.ClaimStatusVerified
		}
	}

	if err := s.claimRepo.Create(ctx, claim); err != nil {
		return nil, fmt.Errorf("claimService.Submit: %w", err)
	}

	log.Printf("claimService.Submit: claim %s triaged (status=%s, extractor=%s)",
		claim.ID, claim.Status, claim.ExtractorUsed)
	return claim, nil
}

// readAttachment validates the upload by extension, size and magic bytes, and
// returns the full content.
func (s *claimService) readAttachment(input SubmitClaimInput) ([]byte, string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, "", domain.ErrUnsupportedFileType
	}

	maxBytes := s.s3cfg.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return nil, "", domain.ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(input.File, maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("reading attachment: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, "", domain.ErrFileTooLarge
	}

	sniffLen := len(data)
	if sniffLen > 512 {
		sniffLen = 512
	}
	detected := http.DetectContentType(data[:sniffLen])
	if _, valid := domain.AllowedContentTypes[detected]; !valid {
		return nil, "", domain.ErrUnsupportedFileType
	}

	return data, domain.AllowedFileTypes[fileType], nil
}

// extract runs the configured extraction backend. It never fails: a backend
// error produces a degraded extraction so the submission is still recorded.
func (s *claimService) extract(ctx context.Context, description string, fileBytes []byte, contentType string) (*domain.ClaimExtraction, string) {
	out, err := s.extractor.Extract(ctx, port.ExtractInput{
		Description: description,
		FileBytes:   fileBytes,
		ContentType: contentType,
	})
	if err != nil {
		log.Printf("claimService.extract: all extraction paths failed: %v", err)
		return tagger.DegradedExtraction(description, err), ""
	}
	return out.Extraction, out.ModelUsed
}

// verify cross-references the corpus and renders the eligibility verdict.
func (s *claimService) verify(ctx context.Context, extraction *domain.ClaimExtraction) (*domain.VerificationResult, error) {
	query := corpusQuery(extraction)
	excerpts, err := s.index.Search(ctx, query, s.topK)
	if err != nil && !errors.Is(err, domain.ErrCorpusEmpty) {
		return nil, fmt.Errorf("retrieving policy excerpts: %w", err)
	}

	result, err := s.verifier.Verify(ctx, extraction, excerpts)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// corpusQuery builds the retrieval query from the extraction, falling back to
// raw topics when the type is a sentinel.
func corpusQuery(extraction *domain.ClaimExtraction) string {
	var parts []string
	if extraction.IncidentType != domain.SentinelUnknownIncident &&
		extraction.IncidentType != domain.SentinelModelError {
		parts = append(parts, extraction.IncidentType)
	}
	if extraction.DamageDescription != "" && extraction.DamageDescription != domain.SentinelNotSpecified {
		parts = append(parts, extraction.DamageDescription)
	}
	parts = append(parts, extraction.KeyTopics...)
	return strings.Join(parts, " ")
}

func (s *claimService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Claim, error) {
	return s.claimRepo.GetByID(ctx, id)
}

func (s *claimService) List(ctx context.Context, status string, offset, limit int) ([]domain.Claim, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if status != "" {
		return s.claimRepo.ListByStatus(ctx, domain.ClaimStatus(status), offset, limit)
	}
	return s.claimRepo.List(ctx, offset, limit)
}

const exportBatchSize = 500

// Export renders the full claim history in the requested format and returns
// the content with a timestamped filename.
func (s *claimService) Export(ctx context.Context, format ExportFormat) ([]byte, string, error) {
	var claims []domain.Claim
	offset := 0
	for {
		batch, total, err := s.claimRepo.List(ctx, offset, exportBatchSize)
		if err != nil {
			return nil, "", fmt.Errorf("claimService.Export: %w", err)
		}
		claims = append(claims, batch...)
		offset += len(batch)
		if len(batch) == 0 || offset >= total {
			break
		}
	}

	stamp := time.Now().UTC().Format("20060102-150405")
	var buf bytes.Buffer
	switch format {
	case ExportFormatXLSX:
		if err := export.WriteXLSX(&buf, claims); err != nil {
			return nil, "", fmt.Errorf("claimService.Export: %w", err)
		}
		return buf.Bytes(), fmt.Sprintf("claims-%s.xlsx", stamp), nil
	case ExportFormatCSV, "":
		if err := export.WriteCSV(&buf, claims); err != nil {
			return nil, "", fmt.Errorf("claimService.Export: %w", err)
		}
		return buf.Bytes(), fmt.Sprintf("claims-%s.csv", stamp), nil
	default:
		return nil, "", fmt.Errorf("unsupported export format: %s", format)
	}
}

func (s *claimService) GetAttachmentURL(ctx context.Context, id uuid.UUID) (string, error) {
	claim, err := s.claimRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if claim.AttachmentKey == "" {
		return "", domain.ErrNotFound
	}
	return s.storage.GetPresignedURL(ctx, s.s3cfg.Bucket, claim.AttachmentKey, s.s3cfg.PresignExpiry)
}
