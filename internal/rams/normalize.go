package rams

import (
	"fmt"
	"strings"
	"time"
)

// Normalize reconciles any historical RAMS content shape into the canonical
// Record. It is pure and total: every missing, renamed or mistyped field has a
// defined fallback, so schema drift upstream degrades gracefully instead of
// crashing the pipeline. Normalizing an already-canonical record is a no-op.
func Normalize(raw Content) Record {
	if raw == nil {
		raw = Content{}
	}

	details := childMap(raw, "projectDetails")

	activity := firstString(raw, "activityDescription", "title")
	if activity == "" {
		activity = firstString(details, "projectName")
	}
	if activity == "" {
		activity = firstString(raw, "projectName")
	}
	if activity == "" {
		activity = "N/A"
	}

	location := firstString(raw, "location")
	if location == "" {
		location = firstString(details, "siteAddress")
	}
	if location == "" {
		location = firstString(raw, "siteAddress")
	}
	if location == "" {
		location = "N/A"
	}

	projectName := firstString(raw, "projectName")
	if projectName == "" {
		projectName = firstString(details, "projectName")
	}

	return Record{
		JobNumber:           firstString(raw, "jobNumber", "referenceNumber"),
		ProjectName:         projectName,
		ActivityDescription: activity,
		Location:            location,
		AssessmentDate:      normalizeDate(raw),
		ScopeOfWorks:        firstString(raw, "scopeOfWorks", "scope"),
		Personnel:           normalizePersonnel(raw),
		Hazards:             normalizeHazards(raw),
		ControlMeasures:     normalizeControls(raw),
		MethodStatement:     stringList(raw["methodStatement"]),
		PPE:                 stringList(raw["ppe"]),
		EmergencyInfo:       normalizeEmergency(raw),
		ResidualRisk:        firstString(raw, "residualRisk"),
	}
}

// ResolveRiskLevel applies the rating thresholds: explicit numeric rating
// first, then likelihood×severity (absent components assumed 3), then a
// trusted level string, then Medium.
func ResolveRiskLevel(h Content) string {
	if ra := childMap(h, "riskAssessment"); ra != nil {
		rating, ok := asFloat(ra["rating"])
		if !ok {
			likelihood, lok := asFloat(ra["likelihood"])
			if !lok {
				likelihood = 3
			}
			severity, sok := asFloat(ra["severity"])
			if !sok {
				severity = 3
			}
			rating = likelihood * severity
		}
		switch {
		case rating <= 4:
			return RiskLow
		case rating >= 13:
			return RiskHigh
		default:
			return RiskMedium
		}
	}
	if lvl := canonicalLevel(firstString(h, "riskLevel")); lvl != "" {
		return lvl
	}
	return RiskMedium
}

func canonicalLevel(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return RiskLow
	case "medium":
		return RiskMedium
	case "high":
		return RiskHigh
	}
	return ""
}

func normalizeHazards(raw Content) []Hazard {
	items, ok := raw["hazards"].([]any)
	if !ok {
		return nil
	}
	out := make([]Hazard, 0, len(items))
	for _, item := range items {
		h, ok := item.(map[string]any)
		if !ok {
			// A bare string still counts as a hazard description.
			if s, sok := item.(string); sok && strings.TrimSpace(s) != "" {
				out = append(out, Hazard{Description: strings.TrimSpace(s), RiskLevel: RiskMedium})
			}
			continue
		}
		out = append(out, Hazard{
			Description:     firstString(h, "description", "hazard"),
			RiskLevel:       ResolveRiskLevel(h),
			AffectedPersons: firstString(h, "affectedPersons", "personsAffected"),
			Consequences:    firstString(h, "consequences"),
			Controls:        stringList(h["controls"]),
		})
	}
	return out
}

// normalizeControls prefers a top-level controlMeasures list; when the source
// only nested controls per hazard, those are flattened into one list.
func normalizeControls(raw Content) []ControlMeasure {
	if items, ok := raw["controlMeasures"].([]any); ok {
		out := make([]ControlMeasure, 0, len(items))
		for _, item := range items {
			switch v := item.(type) {
			case map[string]any:
				out = append(out, ControlMeasure{
					Description:    firstString(v, "description", "control"),
					Responsibility: firstString(v, "responsibility"),
					Timing:         firstString(v, "timing"),
				})
			case string:
				if s := strings.TrimSpace(v); s != "" {
					out = append(out, ControlMeasure{Description: s})
				}
			}
		}
		return out
	}

	out := []ControlMeasure{}
	for _, h := range normalizeHazards(raw) {
		for _, c := range h.Controls {
			out = append(out, ControlMeasure{Description: c})
		}
	}
	return out
}

func normalizePersonnel(raw Content) []Person {
	items, ok := raw["personnel"].([]any)
	if !ok {
		return nil
	}
	out := make([]Person, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case map[string]any:
			out = append(out, Person{
				Name:           firstString(v, "name"),
				Role:           firstString(v, "role"),
				Qualifications: firstString(v, "qualifications"),
			})
		case string:
			if s := strings.TrimSpace(v); s != "" {
				out = append(out, Person{Name: s})
			}
		}
	}
	return out
}

func normalizeEmergency(raw Content) EmergencyInfo {
	em := childMap(raw, "emergencyInfo")
	if em == nil {
		em = childMap(raw, "emergency")
	}
	if em == nil {
		return EmergencyInfo{}
	}
	return EmergencyInfo{
		Hospital:         firstString(em, "hospital", "hospitalName"),
		HospitalAddress:  firstString(em, "hospitalAddress"),
		HospitalPhone:    firstString(em, "hospitalPhone"),
		EmergencyContact: firstString(em, "emergencyContact"),
	}
}

// normalizeDate falls back assessmentDate → createdAt → now.
func normalizeDate(raw Content) time.Time {
	if t, ok := parseTime(firstString(raw, "assessmentDate")); ok {
		return t
	}
	if t, ok := parseTime(firstString(raw, "createdAt")); ok {
		return t
	}
	return time.Now().UTC()
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// --- loose lookup helpers ---

func firstString(m map[string]any, keys ...string) string {
	if m == nil {
		return ""
	}
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", v), "0"), ".")
		}
	}
	return ""
}

func childMap(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return nil
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSpace(t), "%g", &f); err == nil {
			return f, true
		}
	}
	return 0, false
}

func stringList(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case []string:
		if len(t) == 0 {
			return nil
		}
		return t
	case string:
		var out []string
		for _, line := range strings.Split(t, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				out = append(out, line)
			}
		}
		return out
	}
	return nil
}
