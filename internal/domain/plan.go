package domain

import "time"

// Plan is the aggregate root for a business plan document. Section content
// is sparse: a section key is absent until its content has been generated.
type Plan struct {
	ID       string
	OwnerID  string
	Title    string
	Category PlanCategory
	Status   PlanStatus
	Language string

	RequiredAnswers int
	AnsweredAnswers int
	CompletionPct   float64 // 0-100, two decimals

	QuestionnaireCompletedAt *time.Time
	GenerationStartedAt      *time.Time
	GenerationCompletedAt    *time.Time

	// Version counts taken snapshots; it is bumped only when a snapshot
	// is created.
	Version int

	Sections map[Section]string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// QuestionnaireComplete reports whether every required answer has been
// provided.
func (p *Plan) QuestionnaireComplete() bool {
	return p.RequiredAnswers > 0 && p.AnsweredAnswers >= p.RequiredAnswers
}

// SectionContent returns the generated text for a section, or "" when the
// section has not been generated yet.
func (p *Plan) SectionContent(s Section) string {
	return p.Sections[s]
}

// CompletedSections counts how many of the given manifest sections hold
// non-empty content.
func (p *Plan) CompletedSections(manifest []Section) int {
	var n int
	for _, s := range manifest {
		if p.Sections[s] != "" {
			n++
		}
	}
	return n
}

// Answer is one questionnaire response for a plan.
type Answer struct {
	PlanID     string
	QuestionID string
	Question   string
	Answer     string
	Required   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Answered reports whether the answer carries actual content.
func (a *Answer) Answered() bool {
	return a.Answer != ""
}
