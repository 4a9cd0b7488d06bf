package generate

import (
	"fmt"
	"strings"
	"time"

	"github.com/sitewise-labs/ramsgen/internal/knowledge"
)

// JobDetails are optional hints forwarded into the generation prompt.
type JobDetails struct {
	ProjectName string `json:"projectName,omitempty"`
	ClientName  string `json:"clientName,omitempty"`
	SiteAddress string `json:"siteAddress,omitempty"`
}

const ramsSystemPrompt = "You are a UK health and safety expert specializing in construction RAMS documents. " +
	"Provide detailed, practical, and legally compliant safety guidance. You MUST return raw JSON."

const standardGuidelinesPlaceholder = "Standard UK Construction Safety Guidelines apply."

// BuildKnowledgeContext concatenates reference snippets as
// "[category] title:\nbody" blocks separated by "---". Snippets are used
// verbatim, in lookup order.
func BuildKnowledgeContext(snippets []knowledge.Snippet) string {
	blocks := make([]string, 0, len(snippets))
	for _, s := range snippets {
		blocks = append(blocks, fmt.Sprintf("[%s] %s:\n%s", s.Category, s.Title, s.Content))
	}
	return strings.Join(blocks, "\n\n---\n\n")
}

// BuildRamsPrompt composes the single authoring prompt: scope text, optional
// job details, knowledge context, detailed instructions and an explicit target
// JSON shape example.
func BuildRamsPrompt(scopeText string, details *JobDetails, knowledgeContext string) string {
	if knowledgeContext == "" {
		knowledgeContext = standardGuidelinesPlaceholder
	}

	var detailsBlock string
	if details != nil {
		detailsBlock = fmt.Sprintf(`PROJECT DETAILS:
Project Name: %s
Client: %s
Site Address: %s

`, orNA(details.ProjectName), orNA(details.ClientName), orNA(details.SiteAddress))
	}

	site := "site"
	if details != nil && details.SiteAddress != "" {
		site = details.SiteAddress
	}

	return fmt.Sprintf(`You are a specialized Health & Safety Consultant for the construction industry, tasked with writing a professional, site-specific Risk Assessment and Method Statement (RAMS) document.

CONTEXT:
SCOPE OF WORK:
%s

%sRELEVANT KNOWLEDGE BASE (Your primary source for safety standards):
%s

INSTRUCTIONS:
Generate a HIGH-QUALITY, DETAILED document. Do not be generic. Use the scope and site details to make it specific.
Demand specific, real-world content. For example, if the scope mentions "roof work", ensure hazards like "falls from height" and controls like "edge protection" are present. If "excavation" is mentioned, include "trench collapse" and "shoring".

1. **Method Statement**: This must be a detailed, step-by-step logic flow of how the work will be performed. Break it down into phases (e.g., Arrival, Setup, Execution, Clear-up). Each step should be actionable and specific to the scope.
2. **Hazards**: Identify specific, relevant hazards related to this scope. Avoid generic filler. For example, if "roof" is mentioned, include "Falls from height". If "electrical work" is mentioned, include "Electric shock".
3. **Controls**: Use the Knowledge Base to define strict, practical control measures. These must directly mitigate the identified hazards.
4. **Emergency**: Provide realistic and specific emergency procedures relevant to the potential incidents on this site/job.

OUTPUT FORMAT (JSON):
{
  "activityDescription": "Professional summary of the works (2-3 sentences)",
  "location": "Specific location from details or scope",
  "assessmentDate": "%s",
  "personnel": [
    {"name": "Site Supervisor", "role": "Supervision & H&S Compliance", "qualifications": "SSSTS/SMSTS"},
    {"name": "Operative", "role": "General Task Execution", "qualifications": "CSCS, Asbestos Awareness"}
  ],
  "hazards": [
    {
      "description": "Specific hazard description (e.g., 'Failure of lifting accessories during steel beam installation')",
      "riskLevel": "High",
      "affectedPersons": "Operatives, Public",
      "consequences": "Severe injury, fatality"
    }
  ],
  "controlMeasures": [
    {
      "description": "Detailed control measure (e.g., 'All lifting accessories to be certified and visually inspected before use. Exclusion zone to be established.')",
      "responsibility": "Site Supervisor",
      "timing": "Before work commences"
    }
  ],
  "ppe": ["Hard Hat", "High-Vis Vest", "Safety Boots", "Gloves", "Safety Glasses"],
  "methodStatement": [
    "1. **Arrival & Induction**: Team to arrive at %s, sign in, and receive site induction.",
    "2. **Setup**: Establish exclusion zone using barriers and signage.",
    "3. **Execution**: [Insert specific steps based on scope...]",
    "4. **Completion**: Remove all waste and equipment, leave area clean."
  ],
  "emergencyInfo": {
    "hospital": "Nearest A&E (To be confirmed on site)",
    "emergencyContact": "Site Manager"
  },
  "residualRisk": "Low"
}

Ensure the content is professional, legally compliant (HSE UK standards), and fully addresses the scope provided. You MUST return a VALID JSON object. Do not wrap in markdown code blocks.`,
		scopeText, detailsBlock, knowledgeContext,
		time.Now().UTC().Format(time.RFC3339), site)
}

// BuildScopePrompt asks for a small structured summary of a scope document.
func BuildScopePrompt(text string) string {
	return fmt.Sprintf(`Extract key information from this scope of work document for a RAMS assessment.

DOCUMENT TEXT:
%s

Return a JSON object with:
{
  "workDescription": "What work is being done",
  "location": "Where the work is happening",
  "equipment": ["List of equipment/tools mentioned"],
  "materials": ["Materials being used"],
  "identifiedHazards": ["Potential hazards mentioned or implied"],
  "duration": "Expected duration of work",
  "accessRequirements": "Any special access needed"
}

You MUST return a VALID JSON object. Do not wrap in markdown code blocks.`, text)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
