package model

// StudentProfile is the caller-owned session context for the advisor
// flows: what the student is looking for plus optional academic signals.
// The engine and scorer stay pure functions of (tables, profile).
type StudentProfile struct {
	TargetCountry    string `json:"target_country" validate:"omitempty,max=100"`
	FieldOfStudy     string `json:"field_of_study" validate:"omitempty,max=200"`
	PreferredCity    string `json:"preferred_city" validate:"omitempty,max=100"`
	InstitutionType  string `json:"institution_type" validate:"omitempty,max=50"`
	WantsScholarship bool   `json:"wants_scholarship"`

	// Optional academic signals, informational only. Scores kept as
	// strings since source data may be unparsable.
	EnglishTest  string `json:"english_test" validate:"omitempty,max=50"`
	EnglishScore string `json:"english_score" validate:"omitempty,max=20"`
	MathLevel    string `json:"math_level" validate:"omitempty,max=50"`
}

// Signals counts the optional academic signals the student supplied.
func (p StudentProfile) Signals() int {
	n := 0
	if p.EnglishTest != "" {
		n++
	}
	if p.EnglishScore != "" {
		n++
	}
	if p.MathLevel != "" {
		n++
	}
	return n
}
