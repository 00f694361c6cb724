package dataset

import (
	"context"
	"errors"
	"io"
	"math"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/model"
)

const (
	oewsMinMedian     = 20000
	oewsMaxMedian     = 500000
	oewsDetailedGroup = "detailed"
	oewsDefaultSample = 1000
)

// oewsRow is one line of the BLS OEWS all-data file.
type oewsRow struct {
	Area      string `csv:"AREA"`
	AreaTitle string `csv:"AREA_TITLE"`
	State     string `csv:"PRIM_STATE"`
	NAICS     string `csv:"NAICS"`
	OwnCode   string `csv:"OWN_CODE"`
	OccCode   string `csv:"OCC_CODE"`
	OccTitle  string `csv:"OCC_TITLE"`
	Group     string `csv:"O_GROUP"`
	TotalEmp  string `csv:"TOT_EMP"`
	Pct25     string `csv:"A_PCT25"`
	Median    string `csv:"A_MEDIAN"`
	Pct75     string `csv:"A_PCT75"`
}

// ParseOEWSCSV reads the OEWS all-data file exported as CSV.
func ParseOEWSCSV(ctx context.Context, r io.Reader, limit int) (*Parsed, error) {
	dec, err := newCSVDecoder(r)
	if err != nil {
		return nil, err
	}
	return parseOEWS(ctx, dec, limit)
}

// ParseOEWSXLSX reads the OEWS all-data workbook as published by BLS. An
// empty sheet name selects the first sheet.
func ParseOEWSXLSX(ctx context.Context, path, sheet string, limit int) (*Parsed, error) {
	dec, err := newSheetDecoder(path, sheet)
	if err != nil {
		return nil, err
	}
	return parseOEWS(ctx, dec, limit)
}

func parseOEWS(ctx context.Context, dec *csvutil.Decoder, limit int) (*Parsed, error) {
	out := &Parsed{}
	for limit <= 0 || len(out.Records) < limit {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "dataset: oews parse cancelled")
		}

		var row oewsRow
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if fatalDecodeErr(err) {
				return nil, eris.Wrapf(err, "dataset: oews row %d", out.Rows+1)
			}
			out.Rows++
			out.Skipped++
			continue
		}
		out.Rows++

		rec, ok := row.record()
		if !ok {
			out.Skipped++
			continue
		}
		out.Records = append(out.Records, rec)
		if len(out.Records)%logEvery == 0 {
			zap.L().Info("dataset: oews progress", zap.Int("records", len(out.Records)))
		}
	}

	zap.L().Info("dataset: parsed oews",
		zap.Int("records", len(out.Records)),
		zap.Int("rows", out.Rows),
		zap.Int("skipped", out.Skipped),
	)
	return out, nil
}

func (row oewsRow) record() (model.CompensationRecord, bool) {
	if !strings.EqualFold(strings.TrimSpace(row.Group), oewsDetailedGroup) {
		return model.CompensationRecord{}, false
	}
	title := truncate(row.OccTitle, maxTitleLen)
	soc := strings.TrimSpace(row.OccCode)
	if title == "" || soc == "" {
		return model.CompensationRecord{}, false
	}

	m, ok := parseAmount(row.Median)
	median := int(math.Round(m))
	if !ok || median < oewsMinMedian || median > oewsMaxMedian {
		return model.CompensationRecord{}, false
	}

	minSalary := int(math.Round(float64(median) * 0.75))
	if v, ok := parseAmount(row.Pct25); ok && v > 0 && int(v) <= median {
		minSalary = int(math.Round(v))
	}
	maxSalary := int(math.Round(float64(median) * 1.35))
	if v, ok := parseAmount(row.Pct75); ok && int(v) >= median {
		maxSalary = int(math.Round(v))
	}

	sample := oewsDefaultSample
	if v, ok := parseAmount(row.TotalEmp); ok && v > 0 {
		sample = int(v)
	}

	state := strings.ToUpper(strings.TrimSpace(row.State))
	if state == "" {
		state = "US"
	}
	msa := strings.TrimSpace(row.AreaTitle)
	if msa == "" {
		msa = state
	}

	id := strings.Join([]string{"BLS", row.Area, row.NAICS, row.OwnCode, soc}, "-")

	return model.CompensationRecord{
		RecordID:           id,
		JobTitle:           title,
		SOCCode:            soc,
		Industry:           IndustryForSOC(soc),
		CompanySize:        "1000+",
		CompanyType:        "Private",
		State:              state,
		MSA:                msa,
		CostOfLivingIndex:  CostOfLiving(state),
		RemoteEligible:     RemoteEligible(soc),
		BaseSalaryMin:      minSalary,
		BaseSalaryMedian:   median,
		BaseSalaryMax:      maxSalary,
		TotalCompMedian:    int(math.Round(float64(median) * 1.1)),
		Currency:           "USD",
		PayType:            "Salary",
		MinYearsExperience: ExperienceYears(title, "II"),
		EducationLevel:     EducationLevel(soc, title),
		Skills:             Skills(soc, title),
		ManagementLevel:    ManagementLevelForTitle(title),
		DataSource:         model.SourceBLS,
		ConfidenceScore:    0.95,
		SampleSize:         sample,
	}, true
}
