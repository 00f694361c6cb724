package model

import (
	"errors"
	"strings"
	"time"
)

// ManagementLevel is the seniority band of a compensation record.
type ManagementLevel string

const (
	LevelIC       ManagementLevel = "IC"
	LevelManager  ManagementLevel = "Manager"
	LevelDirector ManagementLevel = "Director"
	LevelVP       ManagementLevel = "VP"
	LevelCSuite   ManagementLevel = "C-suite"
)

// DataSource identifies where a compensation record was imported from.
type DataSource string

const (
	SourceBLS       DataSource = "BLS"
	SourceH1B       DataSource = "H1B"
	SourceGlassdoor DataSource = "Glassdoor"
	SourceLevels    DataSource = "Levels.fyi"
	SourcePayscale  DataSource = "Payscale"
)

var managementLevels = map[ManagementLevel]bool{
	LevelIC: true, LevelManager: true, LevelDirector: true, LevelVP: true, LevelCSuite: true,
}

var dataSources = map[DataSource]bool{
	SourceBLS: true, SourceH1B: true, SourceGlassdoor: true, SourceLevels: true, SourcePayscale: true,
}

// Valid reports whether l is a known management level.
func (l ManagementLevel) Valid() bool { return managementLevels[l] }

// Valid reports whether s is a known data source.
func (s DataSource) Valid() bool { return dataSources[s] }

// CompensationRecord is one salary observation for a job title in a region.
// Records are written at import or seed time and never mutated by requests.
type CompensationRecord struct {
	ID                 int64           `json:"id"`
	RecordID           string          `json:"recordId"`
	JobTitle           string          `json:"jobTitle"`
	SOCCode            string          `json:"socCode,omitempty"`
	Industry           string          `json:"industry"`
	CompanySize        string          `json:"companySize,omitempty"`
	CompanyType        string          `json:"companyType,omitempty"`
	State              string          `json:"state"`
	MSA                string          `json:"msa,omitempty"`
	CostOfLivingIndex  float64         `json:"costOfLivingIndex"`
	RemoteEligible     bool            `json:"remoteEligible"`
	BaseSalaryMin      int             `json:"baseSalaryMin"`
	BaseSalaryMedian   int             `json:"baseSalaryMedian"`
	BaseSalaryMax      int             `json:"baseSalaryMax"`
	TotalCompMedian    int             `json:"totalCompMedian,omitempty"`
	Currency           string          `json:"currency"`
	PayType            string          `json:"payType,omitempty"`
	DataYear           int             `json:"dataYear"`
	MinYearsExperience int             `json:"minYearsExperience"`
	EducationLevel     string          `json:"educationLevel,omitempty"`
	Skills             []string        `json:"skills,omitempty"`
	ManagementLevel    ManagementLevel `json:"managementLevel"`
	DataSource         DataSource      `json:"dataSource"`
	ConfidenceScore    float64         `json:"confidenceScore"`
	SampleSize         int             `json:"sampleSize"`
	LastUpdated        time.Time       `json:"lastUpdated"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// Validate checks required fields and the min <= median <= max ordering.
func (r *CompensationRecord) Validate() error {
	var issues []string
	if strings.TrimSpace(r.RecordID) == "" {
		issues = append(issues, "recordId is required")
	}
	if strings.TrimSpace(r.JobTitle) == "" {
		issues = append(issues, "jobTitle is required")
	}
	if strings.TrimSpace(r.Industry) == "" {
		issues = append(issues, "industry is required")
	}
	if strings.TrimSpace(r.State) == "" {
		issues = append(issues, "state is required")
	}
	if r.BaseSalaryMin <= 0 || r.BaseSalaryMedian <= 0 || r.BaseSalaryMax <= 0 {
		issues = append(issues, "base salary min, median and max must be positive")
	} else if r.BaseSalaryMin > r.BaseSalaryMedian || r.BaseSalaryMedian > r.BaseSalaryMax {
		issues = append(issues, "base salary must satisfy min <= median <= max")
	}
	if !r.ManagementLevel.Valid() {
		issues = append(issues, "managementLevel is not recognized: "+string(r.ManagementLevel))
	}
	if !r.DataSource.Valid() {
		issues = append(issues, "dataSource is not recognized: "+string(r.DataSource))
	}
	if r.ConfidenceScore < 0 || r.ConfidenceScore > 1 {
		issues = append(issues, "confidenceScore must be between 0 and 1")
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// ApplyDefaults fills the optional fields the importers leave blank.
func (r *CompensationRecord) ApplyDefaults(now time.Time) {
	if r.Currency == "" {
		r.Currency = "USD"
	}
	if r.CostOfLivingIndex == 0 {
		r.CostOfLivingIndex = 100
	}
	if r.SampleSize == 0 {
		r.SampleSize = 1
	}
	if r.DataYear == 0 {
		r.DataYear = now.Year()
	}
	if r.LastUpdated.IsZero() {
		r.LastUpdated = now
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
}

// ValidationError collects input problems reported back to callers as a 400.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Issues, "; ")
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NamedValue is a label with an aggregate, used by the analytics views.
type NamedValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Count int     `json:"count,omitempty"`
}

// AggregateStats summarizes the whole compensation dataset.
type AggregateStats struct {
	TotalRecords     int `json:"totalRecords"`
	AvgSalary        int `json:"avgSalary"`
	UniqueRoles      int `json:"uniqueRoles"`
	UniqueIndustries int `json:"uniqueIndustries"`
}

// Percentiles is the salary distribution of a matched slice of the dataset.
type Percentiles struct {
	P10   int `json:"p10"`
	P25   int `json:"p25"`
	P50   int `json:"p50"`
	P75   int `json:"p75"`
	P90   int `json:"p90"`
	Count int `json:"count"`
}
