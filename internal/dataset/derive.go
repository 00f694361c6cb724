package dataset

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/model"
)

// stateCostOfLiving is a cost-of-living index per state, 100 = national.
var stateCostOfLiving = map[string]float64{
	"CA": 145, "NY": 138, "WA": 128, "MA": 125, "CO": 118, "VA": 122, "DC": 130,
	"TX": 108, "FL": 112, "GA": 105, "NC": 102, "IL": 115, "PA": 110, "NJ": 125,
	"AZ": 105, "OR": 120, "MD": 118, "CT": 120, "MN": 108, "OH": 98, "MI": 100,
}

// CostOfLiving returns the index for a two-letter state, 100 when unknown.
func CostOfLiving(state string) float64 {
	if v, ok := stateCostOfLiving[strings.ToUpper(strings.TrimSpace(state))]; ok {
		return v
	}
	return 100
}

// socIndustries maps SOC major groups to the industry label used in the
// dataset.
var socIndustries = map[string]string{
	"15": "Technology",
	"11": "Management",
	"13": "Finance",
	"17": "Engineering",
	"19": "Healthcare",
	"29": "Healthcare",
	"27": "Media",
}

// IndustryForSOC derives an industry from the SOC major group.
func IndustryForSOC(soc string) string {
	if major, _, ok := strings.Cut(soc, "-"); ok {
		if ind, ok := socIndustries[major]; ok {
			return ind
		}
	}
	return "Other"
}

func hasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func titleWords(title string) map[string]bool {
	words := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// ManagementLevelForTitle infers the level from words in the title.
func ManagementLevelForTitle(title string) model.ManagementLevel {
	w := titleWords(title)
	switch {
	case w["chief"] || w["cto"] || w["ceo"] || w["cfo"]:
		return model.LevelCSuite
	case w["vp"] || strings.Contains(strings.ToLower(title), "vice president"):
		return model.LevelVP
	case w["director"]:
		return model.LevelDirector
	case w["manager"] || w["lead"]:
		return model.LevelManager
	default:
		return model.LevelIC
	}
}

// ExperienceYears estimates the minimum years of experience from title
// keywords, then from the prevailing-wage level (I to IV).
func ExperienceYears(title, wageLevel string) int {
	t := strings.ToLower(title)
	switch {
	case hasAny(t, "principal", "staff"):
		return 10
	case strings.Contains(t, "senior"):
		return 5
	case strings.Contains(t, "director"):
		return 12
	case strings.Contains(t, "manager"):
		return 7
	}
	switch strings.ToUpper(strings.TrimSpace(wageLevel)) {
	case "IV":
		return 8
	case "III":
		return 5
	case "II":
		return 3
	default:
		return 1
	}
}

// EducationLevel infers the typical education for an occupation.
func EducationLevel(soc, title string) string {
	t := strings.ToLower(title)
	switch {
	case hasAny(t, "phd", "scientist", "research"):
		return "PhD"
	case hasAny(t, "engineer", "developer", "analyst"):
		return "Bachelor"
	case strings.HasPrefix(soc, "11-"):
		return "Master"
	default:
		return "Bachelor"
	}
}

// Skills lists representative skills for an occupation.
func Skills(soc, title string) []string {
	t := strings.ToLower(title)
	switch {
	case strings.HasPrefix(soc, "15-1252") || strings.Contains(t, "software"):
		return []string{"JavaScript", "Python", "SQL", "Git", "React", "Node.js"}
	case strings.HasPrefix(soc, "15-2051") || strings.Contains(t, "data scientist"):
		return []string{"Python", "SQL", "Machine Learning", "Statistics", "TensorFlow"}
	case strings.HasPrefix(soc, "15-1242") || strings.Contains(t, "database"):
		return []string{"SQL", "PostgreSQL", "Oracle", "Data Modeling", "Performance Tuning"}
	case strings.HasPrefix(soc, "11-3021") || strings.Contains(t, "manager"):
		return []string{"Leadership", "Project Management", "Strategy", "Budgeting"}
	case strings.HasPrefix(soc, "17-"):
		return []string{"Engineering", "Technical Design", "Problem Solving", "CAD"}
	default:
		return []string{"Communication", "Problem Solving", "Teamwork"}
	}
}

// RemoteEligible treats computer and mathematical occupations as remote
// friendly.
func RemoteEligible(soc string) bool {
	return strings.HasPrefix(soc, "15-")
}

// parseAmount reads a money figure such as "$120,500.00". BLS suppression
// markers ("#", "*") and blanks yield ok=false.
func parseAmount(s string) (float64, bool) {
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	if s == "" || s == "#" || s == "*" || s == "**" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// annualize converts a wage quoted per unit into a yearly figure.
func annualize(wage float64, unit string) int {
	u := strings.ToLower(unit)
	switch {
	case strings.Contains(u, "hour"):
		wage *= 2080
	case strings.Contains(u, "week"):
		wage *= 52
	case strings.Contains(u, "month"):
		wage *= 12
	}
	return int(math.Round(wage))
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > n {
		return string(r[:n])
	}
	return s
}
