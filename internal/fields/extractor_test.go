package fields

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strVal(t *testing.T, s *string) string {
	t.Helper()
	require.NotNil(t, s)
	return *s
}

func TestExtract_ProjectName(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "labelled project name",
			text: "Project Name: Steel Beam Install\nSome other content here",
			want: "Steel Beam Install",
		},
		{
			name: "project label only",
			text: "Project: Warehouse Roof Replacement\n",
			want: "Warehouse Roof Replacement",
		},
		{
			name: "job name label",
			text: "Job Name: Car Park Resurfacing",
			want: "Car Park Resurfacing",
		},
		{
			name: "works description label",
			text: "Works Description: Demolition of outbuilding",
			want: "Demolition of outbuilding",
		},
		{
			name: "fallback to first substantial line",
			text: "Page 1\nDate 01/01/2024\nScaffolding erection at Riverside House\nmore text",
			want: "Scaffolding erection at Riverside House",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			assert.Equal(t, tt.want, strVal(t, got.ProjectName))
		})
	}
}

func TestExtract_ClientName(t *testing.T) {
	t.Run("labelled client", func(t *testing.T) {
		got := Extract("Client: Acme Developments\nSite: somewhere")
		assert.Equal(t, "Acme Developments", strVal(t, got.ClientName))
	})

	t.Run("company suffix fallback", func(t *testing.T) {
		got := Extract("Works commissioned on behalf of Harrington Builders for Q3.")
		assert.Equal(t, "Harrington Builders", strVal(t, got.ClientName))
	})

	t.Run("no client found", func(t *testing.T) {
		got := Extract("nothing useful in here")
		assert.Nil(t, got.ClientName)
	})
}

func TestExtract_Contractor(t *testing.T) {
	got := Extract("Main Contractor: Wren Construction Ltd\n")
	assert.Equal(t, "Wren Construction Ltd", strVal(t, got.MainContractor))

	got = Extract("no labels at all")
	assert.Nil(t, got.MainContractor)
}

func TestExtract_Address(t *testing.T) {
	t.Run("single line", func(t *testing.T) {
		got := Extract("Site Address: 5 Queen Street, Leeds\nPostcode: LS1 2TW")
		assert.Equal(t, "5 Queen Street, Leeds", strVal(t, got.SiteAddress))
	})

	t.Run("multi-line join", func(t *testing.T) {
		got := Extract("Address: Unit 7, Riverside Park\nBristol Road, Gloucester\nClient: Someone")
		assert.Equal(t, "Unit 7, Riverside Park, Bristol Road, Gloucester", strVal(t, got.SiteAddress))
	})

	t.Run("next line with colon is not joined", func(t *testing.T) {
		got := Extract("Location: 12 High Street\nRef: ABC-1")
		assert.Equal(t, "12 High Street", strVal(t, got.SiteAddress))
	})
}

func TestExtract_Postcode(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"labelled", "Postcode SW1A 1AA", "SW1A1AA"},
		{"unlabelled anywhere", "the site at SW1A 1AA is accessed from the rear", "SW1A1AA"},
		{"no space form", "M1 1AE somewhere", "M11AE"},
		{"first of several", "From B33 8TH to CR2 6XH", "B338TH"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			assert.Equal(t, tt.want, strVal(t, got.SitePostcode))
		})
	}

	t.Run("absent", func(t *testing.T) {
		assert.Nil(t, Extract("no postcode here").SitePostcode)
	})
}

func TestExtract_Dates(t *testing.T) {
	t.Run("valid start date", func(t *testing.T) {
		got := Extract("Start Date: 05/03/2024")
		assert.Equal(t, "2024-03-05", strVal(t, got.StartDate))
	})

	t.Run("invalid calendar date yields nil", func(t *testing.T) {
		got := Extract("Start Date: 31/02/2024")
		assert.Nil(t, got.StartDate)
	})

	t.Run("two digit year", func(t *testing.T) {
		got := Extract("Start Date: 01/06/24")
		assert.Equal(t, "2024-06-01", strVal(t, got.StartDate))
	})

	t.Run("end date", func(t *testing.T) {
		got := Extract("End Date: 20-12-2024")
		assert.Equal(t, "2024-12-20", strVal(t, got.EndDate))
	})

	t.Run("completion date as end date", func(t *testing.T) {
		got := Extract("Completion Date: 14/11/2025")
		assert.Equal(t, "2025-11-14", strVal(t, got.EndDate))
	})
}

func TestExtract_ReferenceNumber(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Ref: RAMS-2024-017", "RAMS-2024-017"},
		{"Reference Number: Q-552", "Q-552"},
		{"Job No: 7781", "7781"},
		{"Quote Number: QT-19", "QT-19"},
	}
	for _, tt := range tests {
		got := Extract(tt.text)
		assert.Equal(t, tt.want, strVal(t, got.ReferenceNumber))
	}
}

func TestExtract_ScopeAndConfidence(t *testing.T) {
	t.Run("scope is full trimmed text", func(t *testing.T) {
		got := Extract("  Project: X\nbody text  ")
		assert.Equal(t, "Project: X\nbody text", strVal(t, got.ScopeOfWorks))
	})

	t.Run("confidence counts found core fields over five", func(t *testing.T) {
		text := "Project Name: Steel Beam Install\n" +
			"Client: Acme Ltd\n" +
			"Site Address: 1 Riverside Way, York\n" +
			"YO1 7HH\n"
		got := Extract(text)
		assert.InDelta(t, 1.0, got.Confidence, 1e-9)
	})

	t.Run("sparse text still scores scope", func(t *testing.T) {
		got := Extract("x")
		// Fallback project-name scan needs >10 chars, so only scope counts.
		assert.InDelta(t, 0.2, got.Confidence, 1e-9)
	})
}

func TestExtract_NeverFails(t *testing.T) {
	inputs := []string{
		"",
		"   \n\n\t  ",
		strings.Repeat("a", 100000),
		"Project::::\nClient:-\nAddress:",
		"\x00\xff weird bytes �",
	}
	for _, in := range inputs {
		got := Extract(in)
		assert.GreaterOrEqual(t, got.Confidence, 0.0)
		assert.LessOrEqual(t, got.Confidence, 1.0)
	}
}

func TestExtract_FieldCaps(t *testing.T) {
	long := "Project Name: " + strings.Repeat("z", 500)
	got := Extract(long)
	assert.Len(t, strVal(t, got.ProjectName), 200)
}

func TestExtract_FieldCapKeepsValidUTF8(t *testing.T) {
	// Multi-byte characters spanning the cap must not be cut mid-rune.
	long := "Project Name: Café" + strings.Repeat("é", 300)
	got := Extract(long)

	v := strVal(t, got.ProjectName)
	assert.True(t, utf8.ValidString(v))
	assert.Equal(t, 200, utf8.RuneCountInString(v))
	assert.True(t, strings.HasPrefix(v, "Café"))
}
