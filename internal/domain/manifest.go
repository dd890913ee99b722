package domain

import "fmt"

// Section is one named content field of a plan.
type Section string

const (
	SectionExecutiveSummary       Section = "executive_summary"
	SectionCompanyDescription     Section = "company_description"
	SectionMarketAnalysis         Section = "market_analysis"
	SectionCompetitiveAnalysis    Section = "competitive_analysis"
	SectionProductsServices       Section = "products_services"
	SectionMarketingPlan          Section = "marketing_plan"
	SectionSalesStrategy          Section = "sales_strategy"
	SectionOperationsPlan         Section = "operations_plan"
	SectionManagementTeam         Section = "management_team"
	SectionFinancialProjections   Section = "financial_projections"
	SectionFundingRequirements    Section = "funding_requirements"
	SectionRiskAnalysis           Section = "risk_analysis"
	SectionImplementationTimeline Section = "implementation_timeline"
	SectionAppendix               Section = "appendix"

	// Standard-only.
	SectionExitStrategy Section = "exit_strategy"

	// Non-profit only.
	SectionMissionStatement     Section = "mission_statement"
	SectionImpactMeasurement    Section = "impact_measurement"
	SectionBeneficiaryAnalysis  Section = "beneficiary_analysis"
	SectionGrantFundingStrategy Section = "grant_funding_strategy"
	SectionSustainabilityPlan   Section = "sustainability_plan"

	// Lean-canvas only.
	SectionProblemStatement       Section = "problem_statement"
	SectionSolutionOverview       Section = "solution_overview"
	SectionUniqueValueProposition Section = "unique_value_proposition"
	SectionKeyMetrics             Section = "key_metrics"
)

// sharedSections are generated for every category, in order.
var sharedSections = []Section{
	SectionExecutiveSummary,
	SectionCompanyDescription,
	SectionMarketAnalysis,
	SectionCompetitiveAnalysis,
	SectionProductsServices,
	SectionMarketingPlan,
	SectionSalesStrategy,
	SectionOperationsPlan,
	SectionManagementTeam,
	SectionFinancialProjections,
	SectionFundingRequirements,
	SectionRiskAnalysis,
	SectionImplementationTimeline,
	SectionAppendix,
}

// categorySections are generated in addition to the shared set. The
// per-category sets are disjoint.
var categorySections = map[PlanCategory][]Section{
	CategoryStandard: {
		SectionExitStrategy,
	},
	CategoryNonProfit: {
		SectionMissionStatement,
		SectionImpactMeasurement,
		SectionBeneficiaryAnalysis,
		SectionGrantFundingStrategy,
		SectionSustainabilityPlan,
	},
	CategoryLeanCanvas: {
		SectionProblemStatement,
		SectionSolutionOverview,
		SectionUniqueValueProposition,
		SectionKeyMetrics,
	},
}

// SectionsFor returns the ordered manifest for a category: the shared
// sections followed by the category-specific ones. The result is a fresh
// slice on every call.
func SectionsFor(category PlanCategory) ([]Section, error) {
	extra, ok := categorySections[category]
	if !ok {
		return nil, fmt.Errorf("unknown plan category %q", category)
	}
	out := make([]Section, 0, len(sharedSections)+len(extra))
	out = append(out, sharedSections...)
	out = append(out, extra...)
	return out, nil
}

// IsValidSection reports whether a section belongs to the manifest of the
// given category.
func IsValidSection(category PlanCategory, s Section) bool {
	sections, err := SectionsFor(category)
	if err != nil {
		return false
	}
	for _, candidate := range sections {
		if candidate == s {
			return true
		}
	}
	return false
}
