package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sectionByName(sections []Section, name string) (Section, bool) {
	for _, s := range sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

func TestCVParser_SplitsLabeledSections(t *testing.T) {
	raw := `Summary
Data analyst with three years of experience.

Skills
- Python
- SQL
- Power BI

Work Experience
Built reporting pipelines for the finance team.

Education
BSc in Computer Science.`

	sections := NewCVParser().Parse(raw)

	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"skills", "experience", "education", "summary"}, names)

	skills, ok := sectionByName(sections, "skills")
	require.True(t, ok)
	assert.Contains(t, skills.Text, "Python")
	assert.Contains(t, skills.Text, "Power BI")
}

func TestCVParser_HeaderlessTextGoesToSummary(t *testing.T) {
	raw := "Seasoned engineer who shipped multiple production systems over the last decade."

	sections := NewCVParser().Parse(raw)

	require.Len(t, sections, 1)
	assert.Equal(t, "summary", sections[0].Name)
	assert.Contains(t, sections[0].Text, "Seasoned engineer")
}

func TestCVParser_DropsOtherSection(t *testing.T) {
	raw := `Experience
Led the data platform migration.

Personal details
Phone, address and GDPR consent boilerplate.`

	sections := NewCVParser().Parse(raw)

	_, hasOther := sectionByName(sections, "other")
	assert.False(t, hasOther)
	_, hasExperience := sectionByName(sections, "experience")
	assert.True(t, hasExperience)
}

func TestJobParser_DropsAboutSection(t *testing.T) {
	raw := `Requirements
Strong SQL and Python skills.

What we offer
Free snacks and a dog-friendly office.`

	sections := NewJobParser().Parse(raw)

	require.Len(t, sections, 1)
	assert.Equal(t, "requirements", sections[0].Name)
	assert.NotContains(t, sections[0].Text, "snacks")
}

func TestJobParser_HeaderlessTextGoesToUncategorized(t *testing.T) {
	raw := "We need somebody comfortable with distributed systems and on-call work."

	sections := NewJobParser().Parse(raw)

	require.Len(t, sections, 1)
	assert.Equal(t, "uncategorized", sections[0].Name)
}

func TestParse_BulletNormalization(t *testing.T) {
	raw := `Skills
- Python
* SQL
1. Excel`

	sections := NewCVParser().Parse(raw)

	skills, ok := sectionByName(sections, "skills")
	require.True(t, ok)
	// Every bullet ends up as its own period-terminated line.
	assert.Equal(t, "Python.\nSQL.\nExcel.", skills.Text)
}

func TestParse_AppendsTerminalPunctuation(t *testing.T) {
	sections := NewCVParser().Parse("Experience\nBuilt a data warehouse")

	experience, ok := sectionByName(sections, "experience")
	require.True(t, ok)
	assert.Equal(t, "Built a data warehouse.", experience.Text)
}

func TestParse_KeepsExistingTerminalPunctuation(t *testing.T) {
	sections := NewCVParser().Parse("Experience\nBuilt a data warehouse!")

	experience, ok := sectionByName(sections, "experience")
	require.True(t, ok)
	assert.Equal(t, "Built a data warehouse!", experience.Text)
}

func TestIsLikelyHeader(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{name: "short header", line: "Work Experience", want: true},
		{name: "too many words", line: "worked on skills like python and sql daily", want: false},
		{name: "ends with period", line: "Experience.", want: false},
		{name: "ends with comma", line: "Experience,", want: false},
		{name: "ends with colon is allowed", line: "Experience:", want: true},
		{name: "empty", line: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isLikelyHeader(tt.line))
		})
	}
}

func TestParse_SixWordSentenceIsNotCapturedAsHeader(t *testing.T) {
	// Short period-terminated lines stay content even when they mention a
	// section keyword.
	sections := NewCVParser().Parse("My skills grew every year.")

	require.Len(t, sections, 1)
	assert.Equal(t, "summary", sections[0].Name)
}

func TestParse_MultipleBodiesAccumulatePerSection(t *testing.T) {
	raw := `Experience
Shipped the billing service.

Projects
Side project in Go.

Experience
Maintained the legacy monolith.`

	sections := NewCVParser().Parse(raw)

	experience, ok := sectionByName(sections, "experience")
	require.True(t, ok)
	assert.Contains(t, experience.Text, "Shipped the billing service.")
	assert.Contains(t, experience.Text, "Maintained the legacy monolith.")
}
