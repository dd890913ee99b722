package domain

import "time"

// VersionSnapshot is an immutable point-in-time copy of a plan's content.
// It references its plan by id only and is never mutated after creation;
// deletion happens solely through the owning plan's cascade.
type VersionSnapshot struct {
	ID       string
	PlanID   string
	Version  int // unique and strictly increasing per plan, starting at 1
	Title    string
	Category PlanCategory
	Status   PlanStatus
	Comment  string

	// Sections is a by-value copy of the plan's content fields at
	// creation time.
	Sections map[Section]string

	CreatedBy string
	CreatedAt time.Time
}
