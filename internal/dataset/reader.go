package dataset

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// headerReader normalizes the first record it reads: byte-order mark
// removed, names trimmed and upper-cased. Later records pass through.
type headerReader struct {
	r    csvutil.Reader
	seen bool
}

func (h *headerReader) Read() ([]string, error) {
	rec, err := h.r.Read()
	if err != nil || h.seen {
		return rec, err
	}
	h.seen = true
	for i, name := range rec {
		rec[i] = strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
	}
	return rec, nil
}

func newCSVDecoder(r io.Reader) (*csvutil.Decoder, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	dec, err := csvutil.NewDecoder(&headerReader{r: cr})
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read csv header")
	}
	return dec, nil
}

// sheetReader exposes one worksheet as a csvutil.Reader. Rows are padded or
// cut to the width of the header row.
type sheetReader struct {
	rows  []*xlsx.Row
	next  int
	width int
}

func (s *sheetReader) Read() ([]string, error) {
	for s.next < len(s.rows) {
		row := s.rows[s.next]
		s.next++

		cells := make([]string, len(row.Cells))
		empty := true
		for i, c := range row.Cells {
			cells[i] = c.String()
			if strings.TrimSpace(cells[i]) != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		if s.width == 0 {
			s.width = len(cells)
			return cells, nil
		}
		if len(cells) < s.width {
			cells = append(cells, make([]string, s.width-len(cells))...)
		}
		return cells[:s.width], nil
	}
	return nil, io.EOF
}

func newSheetDecoder(path, sheetName string) (*csvutil.Decoder, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open workbook %s", path)
	}

	var sheet *xlsx.Sheet
	switch {
	case sheetName != "":
		s, ok := f.Sheet[sheetName]
		if !ok {
			return nil, eris.Errorf("dataset: sheet %q not found in %s", sheetName, path)
		}
		sheet = s
	case len(f.Sheets) > 0:
		sheet = f.Sheets[0]
	default:
		return nil, eris.Errorf("dataset: workbook %s has no sheets", path)
	}

	dec, err := csvutil.NewDecoder(&headerReader{r: &sheetReader{rows: sheet.Rows}})
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read sheet header")
	}
	return dec, nil
}
