package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Sentinel values substituted for fields the extraction pipeline could not fill.
const (
	SentinelNotSpecified    = "Not specified"
	SentinelUnknownIncident = "Unknown Incident"
	SentinelModelError      = "Model Error"
	SentinelOfflineMode     = "Offline Mode"
)

// MaxKeyTopics caps the key_topics list on a ClaimExtraction.
const MaxKeyTopics = 15

// User represents an authenticated user of the triage service.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ClaimExtraction is the canonical structured record produced by either
// extraction backend. It is the sole artifact handed to the eligibility
// verifier.
type ClaimExtraction struct {
	IncidentType      string   `json:"incident_type"`
	IncidentDate      string   `json:"incident_date"`
	Location          string   `json:"location"`
	InvolvedParties   []string `json:"involved_parties"`
	DamageDescription string   `json:"damage_description"`
	EstimatedCost     string   `json:"estimated_cost"`
	KeyTopics         []string `json:"key_topics"`
}

// VerificationResult is the eligibility verdict returned by the verifier.
type VerificationResult struct {
	Eligible        bool    `json:"eligible"`
	MatchedPolicy   string  `json:"matched_policy"`
	Reasoning       string  `json:"reasoning"`
	SuggestedPolicy string  `json:"suggested_policy"`
	Confidence      float64 `json:"confidence"`
}

// Claim represents one triage submission with its extraction and verdict.
type Claim struct {
	ID             uuid.UUID          `db:"id" json:"id"`
	Description    string             `db:"description" json:"description"`
	AttachmentKey  string             `db:"attachment_key" json:"attachment_key,omitempty"`
	AttachmentType string             `db:"attachment_type" json:"attachment_type,omitempty"`
	ExtractorUsed  string             `db:"extractor_used" json:"extractor_used"`
	Extraction     json.RawMessage    `db:"extraction" json:"extraction"`
	Verification   json.RawMessage    `db:"verification" json:"verification"`
	Status         ClaimStatus        `db:"status" json:"status"`
	TriageError    string             `db:"triage_error" json:"triage_error,omitempty"`
	CreatedBy      uuid.UUID          `db:"created_by" json:"created_by"`
	CreatedAt      time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `db:"updated_at" json:"updated_at"`
}

// PolicyDocument is one policy in the corpus the verifier and chat assistant
// reason against.
type PolicyDocument struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Source    string    `db:"source" json:"source"`
	Content   string    `db:"content" json:"-"`
	ChunkSize int       `db:"chunk_size" json:"chunk_size"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PolicyChunk is a retrievable slice of a policy document.
type PolicyChunk struct {
	PolicyID   uuid.UUID `json:"policy_id"`
	PolicyName string    `json:"policy_name"`
	Ordinal    int       `json:"ordinal"`
	Text       string    `json:"text"`
}

// ChatAnswer carries the assistant's reply to a free-form policy question.
type ChatAnswer struct {
	Answer   string   `json:"answer"`
	Policies []string `json:"policies"`
}
