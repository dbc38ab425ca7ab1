package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewKnowledgeEntry(t *testing.T) {
	entry := NewKnowledgeEntry("pricing-guide", EntryTypeArticle, "Pricing Guide", "How pricing works.", "pricing")

	assert.Equal(t, "pricing-guide", entry.ID)
	assert.Equal(t, EntryTypeArticle, entry.Type)
	assert.NotNil(t, entry.Metadata)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.Equal(t, entry.CreatedAt, entry.UpdatedAt)
}

func TestKnowledgeEntry_EmbedText(t *testing.T) {
	entry := &KnowledgeEntry{Title: "Pricing Guide", Content: "How pricing works."}
	assert.Equal(t, "Pricing Guide\n\nHow pricing works.", entry.EmbedText())
}

func TestKnowledgeEntry_EmbedText_TitleOnly(t *testing.T) {
	entry := &KnowledgeEntry{Title: "Pricing Guide"}
	assert.Equal(t, "Pricing Guide", entry.EmbedText())
}

func TestKnowledgeEntry_ContentHash_Stable(t *testing.T) {
	a := &KnowledgeEntry{Title: "Pricing Guide", Content: "How pricing works."}
	b := &KnowledgeEntry{Title: "Pricing Guide", Content: "How pricing works."}

	assert.Equal(t, a.ContentHash(), b.ContentHash())
	assert.Len(t, a.ContentHash(), 64)
}

func TestKnowledgeEntry_ContentHash_ChangesWithContent(t *testing.T) {
	a := &KnowledgeEntry{Title: "Pricing Guide", Content: "How pricing works."}
	b := &KnowledgeEntry{Title: "Pricing Guide", Content: "How pricing really works."}

	assert.NotEqual(t, a.ContentHash(), b.ContentHash())
}

func TestValidateKnowledgeEntry_Valid(t *testing.T) {
	entry := NewKnowledgeEntry("id-1", EntryTypeFAQ, "Title", "Content", "")
	assert.NoError(t, ValidateKnowledgeEntry(entry))
}

func TestValidateKnowledgeEntry_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		entry *KnowledgeEntry
	}{
		{"nil entry", nil},
		{"missing id", &KnowledgeEntry{Type: EntryTypeArticle, Title: "t", Content: "c"}},
		{"missing title", &KnowledgeEntry{ID: "id", Type: EntryTypeArticle, Content: "c"}},
		{"missing content", &KnowledgeEntry{ID: "id", Type: EntryTypeArticle, Title: "t"}},
		{"bad type", &KnowledgeEntry{ID: "id", Type: "podcast", Title: "t", Content: "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, ValidateKnowledgeEntry(tt.entry))
		})
	}
}
