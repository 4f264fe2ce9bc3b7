package corpus

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"polisure/internal/domain"
)

// LoadDirectory reads every .txt and .md file under dir (non-recursive) into a
// PolicyDocument. The document name is the filename without its extension.
func LoadDirectory(dir string) ([]domain.PolicyDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading corpus directory %s: %w", dir, err)
	}

	var docs []domain.PolicyDocument
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".txt" && ext != ".md" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			log.Printf("corpus.LoadDirectory: skipping %s: %v", path, err)
			continue
		}
		if len(strings.TrimSpace(string(content))) == 0 {
			log.Printf("corpus.LoadDirectory: skipping empty file %s", path)
			continue
		}

		now := time.Now()
		docs = append(docs, domain.PolicyDocument{
			ID:        uuid.New(),
			Name:      strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			Source:    path,
			Content:   string(content),
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return docs, nil
}
