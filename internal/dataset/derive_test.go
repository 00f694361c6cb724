package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/model"
)

func TestCostOfLiving(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 145.0, CostOfLiving("CA"))
	assert.Equal(t, 108.0, CostOfLiving(" tx "))
	assert.Equal(t, 100.0, CostOfLiving("WY"))
}

func TestIndustryForSOC(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"15-1252":    "Technology",
		"15-1252.00": "Technology",
		"11-9041":    "Management",
		"13-2051":    "Finance",
		"29-1141":    "Healthcare",
		"27-1024":    "Media",
		"41-4011":    "Other",
		"":           "Other",
	}
	for soc, want := range tests {
		assert.Equal(t, want, IndustryForSOC(soc), soc)
	}
}

func TestManagementLevelForTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title string
		want  model.ManagementLevel
	}{
		{"Software Engineer", model.LevelIC},
		{"Director of Engineering", model.LevelDirector},
		{"Engineering Manager", model.LevelManager},
		{"Tech Lead", model.LevelManager},
		{"VP, Finance", model.LevelVP},
		{"Vice President of Sales", model.LevelVP},
		{"Chief Technology Officer", model.LevelCSuite},
		{"CTO", model.LevelCSuite},
		{"Leadership Coach", model.LevelIC},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ManagementLevelForTitle(tt.title), tt.title)
	}
}

func TestExperienceYears(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title, level string
		want         int
	}{
		{"Staff Engineer", "I", 10},
		{"Principal Scientist", "", 10},
		{"Senior Analyst", "IV", 5},
		{"Senior Director", "", 5},
		{"Director of Sales", "", 12},
		{"Project Manager", "", 7},
		{"Analyst", "IV", 8},
		{"Analyst", "III", 5},
		{"Analyst", "ii", 3},
		{"Analyst", "", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExperienceYears(tt.title, tt.level), tt.title+"/"+tt.level)
	}
}

func TestEducationAndSkills(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "PhD", EducationLevel("19-1042", "Research Scientist"))
	assert.Equal(t, "Bachelor", EducationLevel("11-9041", "Director of Engineering"))
	assert.Equal(t, "Master", EducationLevel("11-1021", "General Manager"))
	assert.Equal(t, "Bachelor", EducationLevel("41-2031", "Retail Salesperson"))

	assert.Contains(t, Skills("15-1252", "Developer"), "JavaScript")
	assert.Contains(t, Skills("", "Data Scientist"), "Machine Learning")
	assert.Contains(t, Skills("15-1242", "DBA"), "PostgreSQL")
	assert.Contains(t, Skills("", "Store Manager"), "Leadership")
	assert.Contains(t, Skills("17-2051", "Civil Engineer"), "CAD")
	assert.Equal(t, []string{"Communication", "Problem Solving", "Teamwork"}, Skills("35-2014", "Cook"))
}

func TestParseAmountAndAnnualize(t *testing.T) {
	t.Parallel()

	v, ok := parseAmount("$120,500.50")
	assert.True(t, ok)
	assert.InDelta(t, 120500.5, v, 0.001)

	for _, s := range []string{"", "#", "*", "**", "n/a", "-5"} {
		_, ok := parseAmount(s)
		assert.False(t, ok, s)
	}

	assert.Equal(t, 104000, annualize(50, "Hour"))
	assert.Equal(t, 52000, annualize(1000, "Week"))
	assert.Equal(t, 120000, annualize(10000, "Month"))
	assert.Equal(t, 95000, annualize(95000, "Year"))
}

func TestTruncate(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "abc", truncate("  abc  ", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "é", truncate("éé", 1))
}
