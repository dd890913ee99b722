package llm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/planweave/planweave/internal/domain"
)

// systemPrompt frames the model's role for every section call.
const systemPrompt = `You are a senior business consultant who writes investor-ready business plan documents.
You write clear, specific, well-structured prose grounded in the facts provided.
Never invent financial figures that contradict the provided answers.
Output only the section content itself: no preamble, no headings, no markdown fences.`

// languageNames maps supported language codes to the instruction wording.
var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"pt": "Portuguese",
}

// sectionGuidance tells the model what each section must cover.
var sectionGuidance = map[domain.Section]string{
	domain.SectionExecutiveSummary:       "Summarize the venture, the opportunity, the offering, and the ask in one compelling page.",
	domain.SectionCompanyDescription:     "Describe the company: legal structure, location, history, and what makes it distinct.",
	domain.SectionMarketAnalysis:         "Analyze the target market: size, segments, trends, and customer needs.",
	domain.SectionCompetitiveAnalysis:    "Identify direct and indirect competitors and explain the company's competitive position.",
	domain.SectionProductsServices:       "Detail the products and services, their benefits, and their stage of development.",
	domain.SectionMarketingPlan:          "Lay out positioning, pricing, promotion channels, and customer acquisition strategy.",
	domain.SectionSalesStrategy:          "Describe the sales process, channels, team structure, and realistic sales targets.",
	domain.SectionOperationsPlan:         "Explain day-to-day operations: facilities, suppliers, production, and logistics.",
	domain.SectionManagementTeam:         "Present the founders and key hires, their relevant experience, and open roles.",
	domain.SectionFinancialProjections:   "Project revenue, costs, and cash flow for the next three years with stated assumptions.",
	domain.SectionFundingRequirements:    "State how much funding is required, what it buys, and the expected runway.",
	domain.SectionRiskAnalysis:           "Identify the principal risks and the mitigations planned for each.",
	domain.SectionImplementationTimeline: "Give a milestone timeline from today through the first major release or launch.",
	domain.SectionAppendix:               "Collect supporting material: assumptions, references, and supplementary detail.",

	domain.SectionExitStrategy: "Describe realistic exit scenarios for investors: acquisition targets, timelines, and multiples.",

	domain.SectionMissionStatement:     "Articulate the organization's mission and the change it exists to create.",
	domain.SectionImpactMeasurement:    "Define the outcomes the organization will measure and how impact will be reported.",
	domain.SectionBeneficiaryAnalysis:  "Describe who benefits from the work, their needs, and how they are reached.",
	domain.SectionGrantFundingStrategy: "Lay out the grant and donor funding strategy, target funders, and pipeline.",
	domain.SectionSustainabilityPlan:   "Explain how the organization sustains its operations beyond initial funding.",

	domain.SectionProblemStatement:       "State the problem being solved, who has it, and how painful it is today.",
	domain.SectionSolutionOverview:       "Describe the solution and why it fits the problem better than alternatives.",
	domain.SectionUniqueValueProposition: "Give the single clear message that states why this offering is different and worth buying.",
	domain.SectionKeyMetrics:             "Define the handful of numbers that tell whether the business is working.",
}

// BuildSectionPrompt assembles the system and user instructions for one
// section from the plan metadata and every stored questionnaire answer.
func BuildSectionPrompt(plan *domain.Plan, section domain.Section, answers []*domain.Answer, language string) (string, string) {
	langName := languageNames[language]
	if langName == "" {
		langName = "English"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write the %q section of a business plan.\n\n", sectionTitle(section))
	fmt.Fprintf(&b, "Business: %s\n", plan.Title)
	fmt.Fprintf(&b, "Plan type: %s\n", plan.Category)
	fmt.Fprintf(&b, "Write the section in %s.\n\n", langName)

	if guidance := sectionGuidance[section]; guidance != "" {
		fmt.Fprintf(&b, "Section goal: %s\n\n", guidance)
	}

	if len(answers) > 0 {
		b.WriteString("Questionnaire answers provided by the founder:\n")
		sorted := make([]*domain.Answer, len(answers))
		copy(sorted, answers)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].QuestionID < sorted[j].QuestionID })
		for _, a := range sorted {
			if !a.Answered() {
				continue
			}
			question := a.Question
			if question == "" {
				question = a.QuestionID
			}
			fmt.Fprintf(&b, "- %s: %s\n", question, a.Answer)
		}
		b.WriteString("\n")
	}

	b.WriteString("Base the section on these answers. Where an answer is missing, make conservative, clearly reasonable assumptions.")

	return systemPrompt, b.String()
}

// sectionTitle renders a section identifier as a human-readable heading.
func sectionTitle(s domain.Section) string {
	words := strings.Split(string(s), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
