package domain

// PlanCategory selects which manifest sections a plan must populate.
type PlanCategory string

const (
	CategoryStandard   PlanCategory = "standard"
	CategoryNonProfit  PlanCategory = "nonprofit"
	CategoryLeanCanvas PlanCategory = "lean_canvas"
)

// ValidCategories is the canonical set of accepted plan categories.
var ValidCategories = map[PlanCategory]bool{
	CategoryStandard:   true,
	CategoryNonProfit:  true,
	CategoryLeanCanvas: true,
}

// PlanStatus is the lifecycle state of a plan.
type PlanStatus string

const (
	StatusDraft                 PlanStatus = "draft"
	StatusQuestionnaireComplete PlanStatus = "questionnaire_complete"
	StatusGenerating            PlanStatus = "generating"
	StatusGenerated             PlanStatus = "generated"
	StatusInReview              PlanStatus = "in_review"
	StatusFinalized             PlanStatus = "finalized"
	StatusArchived              PlanStatus = "archived"
)

// manualTransitions holds the user-driven moves allowed after generation.
// Guarded transitions (draft → questionnaire_complete → generating →
// generated) go through compare-and-set updates instead.
var manualTransitions = map[PlanStatus][]PlanStatus{
	StatusGenerated: {StatusInReview, StatusArchived},
	StatusInReview:  {StatusGenerated, StatusFinalized, StatusArchived},
	StatusFinalized: {StatusArchived},
}

// CanTransitionManually reports whether a user-driven move from one status
// to another is allowed.
func CanTransitionManually(from, to PlanStatus) bool {
	for _, next := range manualTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// SharePermission is the capability level of a share grant.
type SharePermission string

const (
	PermissionReadOnly   SharePermission = "read_only"
	PermissionEdit       SharePermission = "edit"
	PermissionFullAccess SharePermission = "full_access"
)

// ValidPermissions is the canonical set of accepted permission strings.
var ValidPermissions = map[SharePermission]bool{
	PermissionReadOnly:   true,
	PermissionEdit:       true,
	PermissionFullAccess: true,
}

// Level orders permissions by increasing capability. Unknown permissions
// rank below read_only.
func (p SharePermission) Level() int {
	switch p {
	case PermissionReadOnly:
		return 1
	case PermissionEdit:
		return 2
	case PermissionFullAccess:
		return 3
	default:
		return 0
	}
}

// Allows reports whether a grant at this permission level covers an
// operation requiring the given level.
func (p SharePermission) Allows(required SharePermission) bool {
	return p.Level() >= required.Level()
}

// SupportedLanguages is the closed set of generation target languages.
var SupportedLanguages = map[string]bool{
	"en": true, "es": true, "fr": true, "de": true, "pt": true,
}
