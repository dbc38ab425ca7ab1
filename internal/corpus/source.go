// Package corpus loads the knowledge corpus that feeds the vectorization
// pipeline, from a local JSON file or an S3-compatible bucket.
package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/inkwell-ai/inkwell/internal/domain"
)

// Source yields the full knowledge corpus for one reindex run.
type Source interface {
	Load(ctx context.Context) ([]*domain.KnowledgeEntry, error)
}

type entryRecord struct {
	ID        string            `json:"id,omitempty"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Category  string            `json:"category,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	ClusterID string            `json:"clusterId,omitempty"`
}

// FileSource reads the corpus from a JSON file on disk.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Load(ctx context.Context) ([]*domain.KnowledgeEntry, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}
	return ParseCorpus(raw)
}

// ParseCorpus decodes corpus JSON into validated knowledge entries.
// Records without an ID get a slug derived from the title; slug collisions
// resolve with a bounded numeric suffix, then a unique uuid suffix.
func ParseCorpus(raw []byte) ([]*domain.KnowledgeEntry, error) {
	var records []entryRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to parse corpus: %w", err)
	}

	seen := make(map[string]struct{}, len(records))
	taken := func(key string) bool {
		_, ok := seen[key]
		return ok
	}
	fallback := func(candidate string) string {
		return candidate + "-" + uuid.NewString()[:8]
	}

	entries := make([]*domain.KnowledgeEntry, 0, len(records))
	for i, r := range records {
		id := r.ID
		if id == "" {
			id = domain.ResolveUniqueKey(domain.Slugify(r.Title), taken, fallback)
		} else if taken(id) {
			return nil, fmt.Errorf("corpus record %d: duplicate id %q", i, id)
		}
		seen[id] = struct{}{}

		entry := domain.NewKnowledgeEntry(id, domain.EntryType(r.Type), r.Title, r.Content, r.Category)
		if r.Metadata != nil {
			entry.Metadata = r.Metadata
		}
		entry.ClusterID = r.ClusterID

		if err := domain.ValidateKnowledgeEntry(entry); err != nil {
			return nil, fmt.Errorf("corpus record %d: %w", i, err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
