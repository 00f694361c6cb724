// Package dataset builds compensation records from public wage disclosures
// and synthetic seed data, and loads them into the store.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/model"
)

// H1B salary bounds; offers outside are treated as data-entry errors.
const (
	h1bMinSalary = 30000
	h1bMaxSalary = 1000000
	maxTitleLen  = 200
	logEvery     = 10000
)

// Parsed is the outcome of parsing one source file.
type Parsed struct {
	Records []model.CompensationRecord
	Rows    int // data rows read
	Skipped int // rows rejected as incomplete or out of range
}

// h1bRow is one line of the DOL LCA disclosure file.
type h1bRow struct {
	CaseNumber string `csv:"CASE_NUMBER"`
	JobTitle   string `csv:"JOB_TITLE"`
	SOCCode    string `csv:"SOC_CODE"`
	State      string `csv:"WORKSITE_STATE"`
	City       string `csv:"WORKSITE_CITY"`
	WageFrom   string `csv:"WAGE_RATE_OF_PAY_FROM"`
	WageTo     string `csv:"WAGE_RATE_OF_PAY_TO"`
	WageUnit   string `csv:"WAGE_UNIT_OF_PAY"`
	WageLevel  string `csv:"PW_WAGE_LEVEL"`
}

// ParseH1B reads an LCA disclosure CSV and returns at most limit records
// (0 means no limit).
func ParseH1B(ctx context.Context, r io.Reader, limit int) (*Parsed, error) {
	dec, err := newCSVDecoder(r)
	if err != nil {
		return nil, err
	}

	out := &Parsed{}
	for limit <= 0 || len(out.Records) < limit {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "dataset: h1b parse cancelled")
		}

		var row h1bRow
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if fatalDecodeErr(err) {
				return nil, eris.Wrapf(err, "dataset: h1b row %d", out.Rows+1)
			}
			out.Rows++
			out.Skipped++
			continue
		}
		out.Rows++

		rec, ok := row.record(out.Rows)
		if !ok {
			out.Skipped++
			continue
		}
		out.Records = append(out.Records, rec)
		if len(out.Records)%logEvery == 0 {
			zap.L().Info("dataset: h1b progress", zap.Int("records", len(out.Records)))
		}
	}

	zap.L().Info("dataset: parsed h1b",
		zap.Int("records", len(out.Records)),
		zap.Int("rows", out.Rows),
		zap.Int("skipped", out.Skipped),
	)
	return out, nil
}

func (row h1bRow) record(line int) (model.CompensationRecord, bool) {
	title := truncate(row.JobTitle, maxTitleLen)
	soc := strings.TrimSpace(row.SOCCode)
	state := strings.ToUpper(strings.TrimSpace(row.State))
	if title == "" || soc == "" || state == "" {
		return model.CompensationRecord{}, false
	}

	from, ok := parseAmount(row.WageFrom)
	if !ok {
		return model.CompensationRecord{}, false
	}
	median := annualize(from, row.WageUnit)
	if median < h1bMinSalary || median > h1bMaxSalary {
		return model.CompensationRecord{}, false
	}

	maxSalary := int(math.Round(float64(median) * 1.25))
	if to, ok := parseAmount(row.WageTo); ok && to > 0 {
		if v := annualize(to, row.WageUnit); v >= median {
			maxSalary = v
		}
	}

	id := strings.TrimSpace(row.CaseNumber)
	if id == "" {
		id = strconv.Itoa(line)
	}

	msa := state
	if city := strings.TrimSpace(row.City); city != "" {
		msa = city + ", " + state
	}

	return model.CompensationRecord{
		RecordID:           "H1B-" + id,
		JobTitle:           title,
		SOCCode:            soc,
		Industry:           IndustryForSOC(soc),
		CompanySize:        "201-1000",
		CompanyType:        "Private",
		State:              state,
		MSA:                msa,
		CostOfLivingIndex:  CostOfLiving(state),
		RemoteEligible:     RemoteEligible(soc),
		BaseSalaryMin:      int(math.Round(float64(median) * 0.85)),
		BaseSalaryMedian:   median,
		BaseSalaryMax:      maxSalary,
		TotalCompMedian:    int(math.Round(float64(median) * 1.15)),
		Currency:           "USD",
		PayType:            "Salary",
		MinYearsExperience: ExperienceYears(title, row.WageLevel),
		EducationLevel:     EducationLevel(soc, title),
		Skills:             Skills(soc, title),
		ManagementLevel:    ManagementLevelForTitle(title),
		DataSource:         model.SourceH1B,
		ConfidenceScore:    0.92,
		SampleSize:         1,
	}, true
}

// fatalDecodeErr separates malformed CSV, which stops the import, from a
// single row that does not fit the header.
func fatalDecodeErr(err error) bool {
	var pe *csv.ParseError
	return errors.As(err, &pe) && !errors.Is(err, csvutil.ErrFieldCount)
}
