package domain

// FileType represents the allowed attachment types.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeJPG  FileType = "jpg"
	FileTypePNG  FileType = "png"
	FileTypeWEBP FileType = "webp"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF:  "application/pdf",
	FileTypeJPG:  "image/jpeg",
	FileTypePNG:  "image/png",
	FileTypeWEBP: "image/webp",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
	"image/webp":      FileTypeWEBP,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
	"webp": FileTypeWEBP,
}

// UserRole defines the role hierarchy.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleAdjuster UserRole = "adjuster"
)

// ClaimStatus represents the triage lifecycle of a submitted claim.
type ClaimStatus string

const (
	ClaimStatusPending   ClaimStatus = "pending"
	ClaimStatusExtracted ClaimStatus = "extracted"
	ClaimStatusVerified  ClaimStatus = "verified"
	ClaimStatusDegraded  ClaimStatus = "degraded"
)

// ExtractorBackend selects which extraction path handles a submission.
type ExtractorBackend string

const (
	ExtractorBackendCloud ExtractorBackend = "cloud"
	ExtractorBackendLocal ExtractorBackend = "local"
)

// ValidExtractorBackends enumerates accepted backend values.
var ValidExtractorBackends = map[ExtractorBackend]bool{
	ExtractorBackendCloud: true,
	ExtractorBackendLocal: true,
}
