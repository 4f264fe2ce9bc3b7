package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"polisure/internal/config"
	"polisure/internal/corpus"
	"polisure/internal/domain"
	"polisure/internal/port"
	"polisure/internal/service"
	"polisure/mocks"
)

func builtIndex() *corpus.Index {
	idx := corpus.NewIndex(nil, 2, 0)
	idx.Build([]domain.PolicyDocument{
		{ID: uuid.New(), Name: "motor_comprehensive", Content: "Collision damage to the insured vehicle is covered."},
		{ID: uuid.New(), Name: "health_family", Content: "Hospitalization for disease treatment is covered."},
	}, 50, 5)
	return idx
}

func testS3Config() *config.S3Config {
	return &config.S3Config{Bucket: "claims-archive", MaxFileSizeMB: 10, PresignExpiry: 900}
}

func extractOutput() *port.ExtractOutput {
	return &port.ExtractOutput{
		Extraction: &domain.ClaimExtraction{
			IncidentType:      "Motor/Auto",
			DamageDescription: "rear bumper crushed",
			EstimatedCost:     "32000",
		},
		ModelUsed: "claude-sonnet-4-20250514",
	}
}

func TestClaimService_Submit_Verified(t *testing.T) {
	claimRepo := new(mocks.MockClaimRepo)
	claimExtractor := new(mocks.MockClaimExtractor)
	claimVerifier := new(mocks.MockVerifier)
	storage := new(mocks.MockObjectStorage)

	claimExtractor.On("Extract", mock.Anything, mock.Anything).Return(extractOutput(), nil)
	claimVerifier.On("Verify", mock.Anything, mock.Anything, mock.Anything).Return(&domain.VerificationResult{
		Eligible:      true,
		MatchedPolicy: "motor_comprehensive",
		Confidence:    0.9,
	}, nil)
	claimRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Claim")).Return(nil)

	svc := service.NewClaimService(claimRepo, claimExtractor, claimVerifier, builtIndex(), storage, testS3Config(), 2)

	claim, err := svc.Submit(context.Background(), service.SubmitClaimInput{
		Description: "rear-ended at a stoplight, bumper crushed",
		SubmittedBy: uuid.New(),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ClaimStatusVerified, claim.Status)
	assert.Equal(t, "claude-sonnet-4-20250514", claim.ExtractorUsed)

	var ver domain.VerificationResult
	require.NoError(t, json.Unmarshal(claim.Verification, &ver))
	assert.True(t, ver.Eligible)

	// No attachment: nothing archived.
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	claimRepo.AssertExpectations(t)
}

func TestClaimService_Submit_EmptyDescription(t *testing.T) {
	svc := service.NewClaimService(nil, nil, nil, builtIndex(), nil, testS3Config(), 2)

	_, err := svc.Submit(context.Background(), service.SubmitClaimInput{Description: "   "})
	assert.ErrorIs(t, err, domain.ErrEmptyDescription)
}

func TestClaimService_Submit_ExtractionFailureDegrades(t *testing.T) {
	claimRepo := new(mocks.MockClaimRepo)
	claimExtractor := new(mocks.MockClaimExtractor)
	claimVerifier := new(mocks.MockVerifier)

	claimExtractor.On("Extract", mock.Anything, mock.Anything).Return(nil, errors.New("all extractors failed"))
	claimVerifier.On("Verify", mock.Anything, mock.Anything, mock.Anything).Return(&domain.VerificationResult{
		Eligible: false,
	}, nil)
	claimRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Claim")).Return(nil)

	svc := service.NewClaimService(claimRepo, claimExtractor, claimVerifier, builtIndex(), nil, testS3Config(), 2)

	claim, err := svc.Submit(context.Background(), service.SubmitClaimInput{
		Description: "storm blew the roof off",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ClaimStatusDegraded, claim.Status)

	var ext domain.ClaimExtraction
	require.NoError(t, json.Unmarshal(claim.Extraction, &ext))
	assert.Equal(t, domain.SentinelModelError, ext.IncidentType)
}

func TestClaimService_Submit_VerificationFailureRecorded(t *testing.T) {
	claimRepo := new(mocks.MockClaimRepo)
	claimExtractor := new(mocks.MockClaimExtractor)
	claimVerifier := new(mocks.MockVerifier)

	claimExtractor.On("Extract", mock.Anything, mock.Anything).Return(extractOutput(), nil)
	claimVerifier.On("Verify", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("upstream down"))
	claimRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Claim")).Return(nil)

	svc := service.NewClaimService(claimRepo, claimExtractor, claimVerifier, builtIndex(), nil, testS3Config(), 2)

	claim, err := svc.Submit(context.Background(), service.SubmitClaimInput{
		Description: "rear-ended at a stoplight",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ClaimStatusExtracted, claim.Status)
	assert.Empty(t, claim.Verification)
	assert.Contains(t, claim.TriageError, "upstream down")
}

func TestClaimService_Export_CSV(t *testing.T) {
	claimRepo := new(mocks.MockClaimRepo)
	claimRepo.On("List", mock.Anything, 0, 500).Return([]domain.Claim{
		{ID: uuid.New(), Status: domain.ClaimStatusVerified},
	}, 1, nil)

	svc := service.NewClaimService(claimRepo, nil, nil, builtIndex(), nil, testS3Config(), 2)

	data, filename, err := svc.Export(context.Background(), service.ExportFormatCSV)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Contains(t, filename, ".csv")
}

func TestClaimService_GetAttachmentURL(t *testing.T) {
	id := uuid.New()
	claimRepo := new(mocks.MockClaimRepo)
	storage := new(mocks.MockObjectStorage)

	claimRepo.On("GetByID", mock.Anything, id).Return(&domain.Claim{
		ID:            id,
		AttachmentKey: "claims/" + id.String() + "/photo.jpg",
	}, nil)
	storage.On("GetPresignedURL", mock.Anything, "claims-archive", "claims/"+id.String()+"/photo.jpg", int64(900)).
		Return("https://example.com/signed", nil)

	svc := service.NewClaimService(claimRepo, nil, nil, builtIndex(), storage, testS3Config(), 2)

	url, err := svc.GetAttachmentURL(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/signed", url)
}

func TestClaimService_GetAttachmentURL_NoAttachment(t *testing.T) {
	id := uuid.New()
	claimRepo := new(mocks.MockClaimRepo)
	claimRepo.On("GetByID", mock.Anything, id).Return(&domain.Claim{ID: id}, nil)

	svc := service.NewClaimService(claimRepo, nil, nil, builtIndex(), nil, testS3Config(), 2)

	_, err := svc.GetAttachmentURL(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
