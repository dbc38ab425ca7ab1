package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// EntryType represents the type of a knowledge entry
type EntryType string

const (
	EntryTypeArticle   EntryType = "article"
	EntryTypeCaseStudy EntryType = "case_study"
	EntryTypeFAQ       EntryType = "faq"
	EntryTypeService   EntryType = "service"
	EntryTypeReference EntryType = "reference"
)

// KnowledgeEntry represents a single record in the vector collection.
// Embedding may be empty before the entry has passed through the
// vectorization pipeline; a stored entry always carries one.
type KnowledgeEntry struct {
	ID        string
	Type      EntryType
	Title     string
	Content   string
	Category  string
	Metadata  map[string]string
	Embedding []float32
	ClusterID string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewKnowledgeEntry creates a new KnowledgeEntry instance
func NewKnowledgeEntry(id string, entryType EntryType, title, content, category string) *KnowledgeEntry {
	now := time.Now().UTC()
	return &KnowledgeEntry{
		ID:        id,
		Type:      entryType,
		Title:     title,
		Content:   content,
		Category:  category,
		Metadata:  map[string]string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// EmbedText builds the text that is sent to the embedding model.
func (e *KnowledgeEntry) EmbedText() string {
	var parts []string
	if e.Title != "" {
		parts = append(parts, e.Title)
	}
	if e.Content != "" {
		parts = append(parts, e.Content)
	}
	return strings.Join(parts, "\n\n")
}

// ContentHash returns a stable hash of the embeddable text, used to skip
// re-embedding unchanged entries.
func (e *KnowledgeEntry) ContentHash() string {
	sum := sha256.Sum256([]byte(e.EmbedText()))
	return hex.EncodeToString(sum[:])
}

// ValidateKnowledgeEntry validates a KnowledgeEntry instance
func ValidateKnowledgeEntry(e *KnowledgeEntry) error {
	if e == nil {
		return fmt.Errorf("knowledge entry cannot be nil")
	}

	if e.ID == "" {
		return fmt.Errorf("knowledge entry ID is required")
	}

	if e.Title == "" {
		return fmt.Errorf("knowledge entry Title is required")
	}

	if e.Content == "" {
		return fmt.Errorf("knowledge entry Content is required")
	}

	if !isValidEntryType(e.Type) {
		return fmt.Errorf("knowledge entry Type is invalid: %s", e.Type)
	}

	return nil
}

// isValidEntryType checks if an EntryType is valid
func isValidEntryType(t EntryType) bool {
	switch t {
	case EntryTypeArticle, EntryTypeCaseStudy, EntryTypeFAQ,
		EntryTypeService, EntryTypeReference:
		return true
	}
	return false
}
