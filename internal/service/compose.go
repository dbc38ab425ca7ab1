package service

import (
	"fmt"
	"strings"

	"github.com/inkwell-ai/inkwell/internal/domain"
)

// maxEvidenceLines caps how many evidence lines each source contributes
// to the prompt.
const maxEvidenceLines = 5

var contentTypePhrases = map[domain.ContentType]string{
	domain.ContentTypeBlog:     "a blog post",
	domain.ContentTypeSocial:   "a social media post",
	domain.ContentTypeGuide:    "a practical how-to guide",
	domain.ContentTypeAnalysis: "an in-depth analysis",
}

var lengthPhrases = map[domain.ContentLength]string{
	domain.LengthShort:  "Keep it brief: roughly 300 words.",
	domain.LengthMedium: "Aim for a medium length of roughly 800 words.",
	domain.LengthLong:   "Write a thorough long-form piece of 1500 words or more.",
}

var tonePhrases = map[domain.Tone]string{
	domain.ToneProfessional: "professional and polished",
	domain.ToneCasual:       "casual and approachable",
	domain.ToneExpert:       "authoritative, written for domain experts",
}

var sourceLabels = map[domain.RetrievalSource]string{
	domain.SourceVector:   "Knowledge base",
	domain.SourceTriples:  "Fact graph",
	domain.SourceInsights: "Industry insights",
}

// ComposePrompt renders the deterministic generation prompt from the
// merged evidence and the request parameters.
func ComposePrompt(merged *domain.MergedContext, req domain.GenerationRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write %s about: %s\n", contentTypePhrases[req.ContentType], req.Topic)

	audience := req.TargetAudience
	if audience == "" {
		audience = "a general business audience"
	}
	fmt.Fprintf(&b, "Audience: %s\n", audience)
	fmt.Fprintf(&b, "Tone: %s.\n", tonePhrases[req.Tone])
	fmt.Fprintf(&b, "%s\n", lengthPhrases[req.Length])

	b.WriteString("\nGround the piece in the evidence below. Do not invent facts beyond it.\n")

	for _, source := range merged.Sources {
		items := merged.BySource(source)
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", sourceLabels[source])
		for i, item := range items {
			if i >= maxEvidenceLines {
				break
			}
			fmt.Fprintf(&b, "- %s\n", item.Text)
		}
	}

	return b.String()
}
