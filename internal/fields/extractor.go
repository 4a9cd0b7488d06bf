package fields

import (
	"regexp"
	"strings"
)

// JobFields is the best-effort structured job data pulled out of a raw
// scope-of-works document. Every field except ScopeOfWorks and Confidence may
// be nil when nothing in the text matched.
type JobFields struct {
	ProjectName     *string `json:"projectName"`
	ClientName      *string `json:"clientName"`
	MainContractor  *string `json:"mainContractor"`
	SiteAddress     *string `json:"siteAddress"`
	SitePostcode    *string `json:"sitePostcode"`
	StartDate       *string `json:"startDate"` // YYYY-MM-DD
	EndDate         *string `json:"endDate"`   // YYYY-MM-DD
	ScopeOfWorks    *string `json:"scopeOfWorks"`
	ReferenceNumber *string `json:"referenceNumber"`
	Confidence      float64 `json:"confidence"`
}

const (
	maxFieldLen   = 200
	maxAddressLen = 300
)

var (
	projectPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)project\s*name\s*[:\-]\s*(.+)`),
		regexp.MustCompile(`(?i)project\s*[:\-]\s*(.+)`),
		regexp.MustCompile(`(?i)job\s*name\s*[:\-]\s*(.+)`),
		regexp.MustCompile(`(?i)job\s*[:\-]\s*(.+)`),
		regexp.MustCompile(`(?i)works\s*description\s*[:\-]\s*(.+)`),
	}
	reBoilerplateLine = regexp.MustCompile(`(?i)^(page|date|ref)`)

	clientPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)client\s*name\s*[:\-]\s*(.+)`),
		regexp.MustCompile(`(?i)client\s*[:\-]\s*(.+)`),
		regexp.MustCompile(`(?i)for\s*[:\-]\s*(.+?)\s*(ltd|limited|plc|construction)`),
		regexp.MustCompile(`(?i)customer\s*[:\-]\s*(.+)`),
	}
	reCompanySuffix = regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\s+(?:Ltd|Limited|PLC|Construction|Builders))`)

	contractorPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)main\s*contractor\s*[:\-]\s*(.+)`),
		regexp.MustCompile(`(?i)contractor\s*[:\-]\s*(.+)`),
		regexp.MustCompile(`(?i)principal\s*contractor\s*[:\-]\s*(.+)`),
	}

	addressPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:site\s*)?address\s*[:\-]\s*(.+)`),
		regexp.MustCompile(`(?i)location\s*[:\-]\s*(.+)`),
		regexp.MustCompile(`(?i)site\s*[:\-]\s*(.+)`),
	}

	// UK postcode, matched against the untransformed text.
	rePostcode = regexp.MustCompile(`\b([A-Z]{1,2}\d{1,2}[A-Z]?\s?\d[A-Z]{2})\b`)

	reStartDate      = regexp.MustCompile(`(?i)start\s*date\s*[:\-]\s*(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})`)
	reEndDate        = regexp.MustCompile(`(?i)end\s*date\s*[:\-]\s*(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})`)
	reCompletionDate = regexp.MustCompile(`(?i)completion\s*date\s*[:\-]\s*(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})`)

	referencePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)ref(?:erence)?\s*(?:no|number)?\s*[:\-]\s*([A-Za-z0-9\-]+)`),
		regexp.MustCompile(`(?i)job\s*(?:no|number)\s*[:\-]\s*([A-Za-z0-9\-]+)`),
		regexp.MustCompile(`(?i)quote\s*(?:no|number)?\s*[:\-]\s*([A-Za-z0-9\-]+)`),
	}
)

// Extract runs the heuristic cascade over raw document text. It never fails:
// every sub-extraction that finds nothing leaves its field nil. Purely
// functional, no side effects.
func Extract(text string) JobFields {
	lines := splitLines(text)

	projectName := extractProjectName(text, lines)
	clientName := extractClientName(text)
	mainContractor := firstMatch(contractorPatterns, text, maxFieldLen)
	siteAddress := extractAddress(lines)
	sitePostcode := extractPostcode(text)
	startDate, endDate := extractDates(text)
	referenceNumber := extractReference(text)

	var scopeOfWorks *string
	if s := strings.TrimSpace(text); s != "" {
		scopeOfWorks = &s
	}

	found := 0
	for _, f := range []*string{projectName, clientName, siteAddress, sitePostcode, scopeOfWorks} {
		if f != nil {
			found++
		}
	}

	return JobFields{
		ProjectName:     projectName,
		ClientName:      clientName,
		MainContractor:  mainContractor,
		SiteAddress:     siteAddress,
		SitePostcode:    sitePostcode,
		StartDate:       startDate,
		EndDate:         endDate,
		ScopeOfWorks:    scopeOfWorks,
		ReferenceNumber: referenceNumber,
		Confidence:      float64(found) / 5,
	}
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, len(raw))
	for i, l := range raw {
		out[i] = strings.TrimSpace(l)
	}
	return out
}

// firstMatch tries each pattern in priority order and returns the first
// capture, trimmed to its first line and capped.
func firstMatch(patterns []*regexp.Regexp, text string, maxLen int) *string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if v := capLine(m[1], maxLen); v != nil {
				return v
			}
		}
	}
	return nil
}

func capLine(s string, maxLen int) *string {
	s = strings.TrimSpace(strings.SplitN(strings.TrimSpace(s), "\n", 2)[0])
	if s == "" {
		return nil
	}
	// Cap on a rune boundary so a multi-byte character is never split.
	if len(s) > maxLen {
		if runes := []rune(s); len(runes) > maxLen {
			s = string(runes[:maxLen])
		}
	}
	return &s
}

func extractProjectName(text string, lines []string) *string {
	if v := firstMatch(projectPatterns, text, maxFieldLen); v != nil {
		return v
	}
	// Fallback: first substantial line that isn't obvious boilerplate.
	for _, line := range lines {
		if len(line) > 10 && !reBoilerplateLine.MatchString(line) {
			return capLine(line, maxFieldLen)
		}
	}
	return nil
}

func extractClientName(text string) *string {
	if v := firstMatch(clientPatterns, text, maxFieldLen); v != nil {
		return v
	}
	// Fallback: a capitalized company name with a UK-style suffix.
	if m := reCompanySuffix.FindStringSubmatch(text); m != nil {
		return capLine(m[1], maxFieldLen)
	}
	return nil
}

func extractAddress(lines []string) *string {
	for i, line := range lines {
		for _, p := range addressPatterns {
			m := p.FindStringSubmatch(line)
			if m == nil || strings.TrimSpace(m[1]) == "" {
				continue
			}
			address := strings.TrimSpace(m[1])
			// Multi-line join: a following line with no label of its own is
			// treated as the rest of the address.
			if i+1 < len(lines) && lines[i+1] != "" && !strings.Contains(lines[i+1], ":") {
				address += ", " + lines[i+1]
			}
			return capLine(address, maxAddressLen)
		}
	}
	return nil
}

func extractPostcode(text string) *string {
	if m := rePostcode.FindString(text); m != "" {
		s := strings.ToUpper(strings.Join(strings.Fields(m), ""))
		return &s
	}
	return nil
}

func extractDates(text string) (startDate, endDate *string) {
	if m := reStartDate.FindStringSubmatch(text); m != nil {
		startDate = parseDate(m[1])
	}
	m := reEndDate.FindStringSubmatch(text)
	if m == nil {
		m = reCompletionDate.FindStringSubmatch(text)
	}
	if m != nil {
		endDate = parseDate(m[1])
	}
	return startDate, endDate
}

func extractReference(text string) *string {
	for _, p := range referencePatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if v := strings.TrimSpace(m[1]); v != "" {
				return &v
			}
		}
	}
	return nil
}
