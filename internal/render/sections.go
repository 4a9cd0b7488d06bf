package render

import (
	"fmt"

	"github.com/sitewise-labs/ramsgen/internal/rams"
)

// documentTitle heads every exported RAMS regardless of format.
const documentTitle = "Risk Assessment & Method Statement"

type itemKind int

const (
	itemPlain itemKind = iota
	itemLabeled
	itemNumbered
	itemBullet
)

type item struct {
	kind   itemKind
	label  string // itemLabeled only
	text   string
	detail string // secondary line, e.g. a hazard's risk level
}

type section struct {
	heading string
	items   []item
}

// buildSections maps a canonical record onto the shared ordered section list.
// Both the PDF and Word renderers consume this list, which is what guarantees
// the two formats carry identical structure; empty sections are omitted here,
// once, for both.
func buildSections(rec rams.Record) []section {
	var sections []section

	details := section{heading: "Job Details", items: []item{
		{kind: itemLabeled, label: "Job Number", text: orNA(rec.JobNumber)},
		{kind: itemLabeled, label: "Activity", text: orNA(rec.ActivityDescription)},
		{kind: itemLabeled, label: "Location", text: orNA(rec.Location)},
		{kind: itemLabeled, label: "Date", text: rec.AssessmentDate.Format("02/01/2006")},
	}}
	sections = append(sections, details)

	if rec.ScopeOfWorks != "" {
		sections = append(sections, section{heading: "Scope of Works", items: []item{
			{kind: itemPlain, text: rec.ScopeOfWorks},
		}})
	}

	if len(rec.Personnel) > 0 {
		s := section{heading: "Personnel"}
		for _, p := range rec.Personnel {
			text := p.Name
			if p.Role != "" {
				text = fmt.Sprintf("%s (%s)", p.Name, p.Role)
			}
			s.items = append(s.items, item{kind: itemBullet, text: text})
		}
		sections = append(sections, s)
	}

	if len(rec.Hazards) > 0 {
		s := section{heading: "Hazards Identified"}
		for _, h := range rec.Hazards {
			s.items = append(s.items, item{
				kind:   itemNumbered,
				text:   h.Description,
				detail: "Risk Level: " + h.RiskLevel,
			})
		}
		sections = append(sections, s)
	}

	if len(rec.ControlMeasures) > 0 {
		s := section{heading: "Control Measures"}
		for _, m := range rec.ControlMeasures {
			s.items = append(s.items, item{kind: itemNumbered, text: m.Description})
		}
		sections = append(sections, s)
	}

	if len(rec.MethodStatement) > 0 {
		s := section{heading: "Method Statement"}
		for _, step := range rec.MethodStatement {
			s.items = append(s.items, item{kind: itemPlain, text: step})
		}
		sections = append(sections, s)
	}

	if len(rec.PPE) > 0 {
		s := section{heading: "Required PPE"}
		for _, p := range rec.PPE {
			s.items = append(s.items, item{kind: itemBullet, text: p})
		}
		sections = append(sections, s)
	}

	if em := emergencyItems(rec.EmergencyInfo); len(em) > 0 {
		sections = append(sections, section{heading: "Emergency Arrangements", items: em})
	}

	return sections
}

func emergencyItems(info rams.EmergencyInfo) []item {
	var items []item
	if info.Hospital != "" {
		items = append(items,
			item{kind: itemLabeled, label: "Nearest Hospital", text: info.Hospital},
			item{kind: itemLabeled, label: "Address", text: orNA(info.HospitalAddress)},
			item{kind: itemLabeled, label: "Phone", text: orNA(info.HospitalPhone)},
		)
	}
	if info.EmergencyContact != "" {
		items = append(items, item{kind: itemLabeled, label: "Emergency Contact", text: info.EmergencyContact})
	}
	return items
}

// Headings returns the ordered non-empty section headings a record renders
// with, in every format.
func Headings(rec rams.Record) []string {
	sections := buildSections(rec)
	out := make([]string, 0, len(sections))
	for _, s := range sections {
		out = append(out, s.heading)
	}
	return out
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
