package rams

import "time"

// Content is the loosely-typed tree returned by the generation service, or
// loaded from a stored RAMS record. Older records use different field names
// (scope vs scopeOfWorks, emergency vs emergencyInfo) and some carry numeric
// risk ratings instead of level strings; Normalize reconciles all of them.
type Content map[string]any

// Risk levels carried by canonical hazards.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// Person is a member of the site team named in the RAMS.
type Person struct {
	Name           string `json:"name"`
	Role           string `json:"role"`
	Qualifications string `json:"qualifications,omitempty"`
}

// Hazard is a canonical hazard entry with its resolved risk level.
type Hazard struct {
	Description     string   `json:"description"`
	RiskLevel       string   `json:"riskLevel"`
	AffectedPersons string   `json:"affectedPersons,omitempty"`
	Consequences    string   `json:"consequences,omitempty"`
	Controls        []string `json:"controls,omitempty"`
}

// ControlMeasure is a canonical control entry.
type ControlMeasure struct {
	Description    string `json:"description"`
	Responsibility string `json:"responsibility,omitempty"`
	Timing         string `json:"timing,omitempty"`
}

// EmergencyInfo is always present on a canonical record, possibly with every
// field empty.
type EmergencyInfo struct {
	Hospital         string `json:"hospital,omitempty"`
	HospitalAddress  string `json:"hospitalAddress,omitempty"`
	HospitalPhone    string `json:"hospitalPhone,omitempty"`
	EmergencyContact string `json:"emergencyContact,omitempty"`
}

// Record is the canonical RAMS shape used for all rendering, regardless of
// which historical field names produced it.
type Record struct {
	JobNumber           string           `json:"jobNumber,omitempty"`
	ProjectName         string           `json:"projectName,omitempty"`
	ActivityDescription string           `json:"activityDescription"`
	Location            string           `json:"location"`
	AssessmentDate      time.Time        `json:"assessmentDate"`
	ScopeOfWorks        string           `json:"scopeOfWorks,omitempty"`
	Personnel           []Person         `json:"personnel,omitempty"`
	Hazards             []Hazard         `json:"hazards,omitempty"`
	ControlMeasures     []ControlMeasure `json:"controlMeasures"`
	MethodStatement     []string         `json:"methodStatement,omitempty"`
	PPE                 []string         `json:"ppe,omitempty"`
	EmergencyInfo       EmergencyInfo    `json:"emergencyInfo"`
	ResidualRisk        string           `json:"residualRisk,omitempty"`
}
