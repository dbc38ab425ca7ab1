package domain

import "fmt"

// ContentType represents the kind of content to generate
type ContentType string

const (
	ContentTypeBlog     ContentType = "blog"
	ContentTypeSocial   ContentType = "social"
	ContentTypeGuide    ContentType = "guide"
	ContentTypeAnalysis ContentType = "analysis"
)

// ContentLength represents the requested output length
type ContentLength string

const (
	LengthShort  ContentLength = "short"
	LengthMedium ContentLength = "medium"
	LengthLong   ContentLength = "long"
)

// Tone represents the requested writing tone
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneExpert       Tone = "expert"
)

// GenerationRequest describes one content-generation call.
type GenerationRequest struct {
	Topic          string
	TargetAudience string
	ContentType    ContentType
	Length         ContentLength
	Tone           Tone
}

// NewGenerationRequest creates a GenerationRequest with defaults applied.
func NewGenerationRequest(topic string) GenerationRequest {
	return GenerationRequest{
		Topic:       topic,
		ContentType: ContentTypeBlog,
		Length:      LengthMedium,
		Tone:        ToneProfessional,
	}
}

// ApplyDefaults fills zero-valued enum fields with their defaults.
func (r *GenerationRequest) ApplyDefaults() {
	if r.ContentType == "" {
		r.ContentType = ContentTypeBlog
	}
	if r.Length == "" {
		r.Length = LengthMedium
	}
	if r.Tone == "" {
		r.Tone = ToneProfessional
	}
}

// ValidateGenerationRequest validates a GenerationRequest instance.
// Malformed requests are rejected before any retrieval work starts.
func ValidateGenerationRequest(r *GenerationRequest) error {
	if r == nil {
		return fmt.Errorf("generation request cannot be nil")
	}

	if r.Topic == "" {
		return ErrEmptyTopic
	}

	if !isValidContentType(r.ContentType) {
		return ErrInvalidContentType
	}

	if !isValidLength(r.Length) {
		return ErrInvalidLength
	}

	if !isValidTone(r.Tone) {
		return ErrInvalidTone
	}

	return nil
}

func isValidContentType(t ContentType) bool {
	switch t {
	case ContentTypeBlog, ContentTypeSocial, ContentTypeGuide, ContentTypeAnalysis:
		return true
	}
	return false
}

func isValidLength(l ContentLength) bool {
	switch l {
	case LengthShort, LengthMedium, LengthLong:
		return true
	}
	return false
}

func isValidTone(t Tone) bool {
	switch t {
	case ToneProfessional, ToneCasual, ToneExpert:
		return true
	}
	return false
}
