package domain

// SemanticTriple is a single subject/predicate/object statement from the
// structured knowledge set. Triples are loaded once at process start and
// never mutated.
type SemanticTriple struct {
	Subject   string
	Predicate string
	Object    string
	Context   string
}

// IndustryInsight is a curated, importance-ranked piece of reference data.
type IndustryInsight struct {
	ID         string
	Content    string
	Category   string
	Importance int
}

// MinImportance and MaxImportance bound IndustryInsight.Importance.
const (
	MinImportance = 1
	MaxImportance = 5
)

// ValidateInsight validates an IndustryInsight instance
func ValidateInsight(i *IndustryInsight) error {
	if i == nil {
		return ErrMissingRequiredField
	}
	if i.ID == "" || i.Content == "" {
		return ErrMissingRequiredField
	}
	if i.Importance < MinImportance || i.Importance > MaxImportance {
		return NewDomainError(ErrCodeValidation, "insight importance out of range")
	}
	return nil
}

// ValidateTriple validates a SemanticTriple instance
func ValidateTriple(t *SemanticTriple) error {
	if t == nil {
		return ErrMissingRequiredField
	}
	if t.Subject == "" || t.Predicate == "" || t.Object == "" {
		return ErrMissingRequiredField
	}
	return nil
}
