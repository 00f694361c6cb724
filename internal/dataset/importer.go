package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/cache"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/config"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/model"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/resilience"
	"github.com/Jessmatth/Salary-Negotiation-Coach/internal/store"
)

const defaultBatchSize = 500

// Sources names the files an import reads. Either path may be empty.
type Sources struct {
	H1BPath  string
	BLSPath  string // .xlsx is read as a workbook, anything else as CSV
	BLSSheet string
	H1BLimit int
	BLSLimit int
}

// SourcesFromConfig maps the dataset config section onto Sources.
func SourcesFromConfig(cfg config.DatasetConfig) Sources {
	return Sources{
		H1BPath:  cfg.H1BPath,
		BLSPath:  cfg.BLSPath,
		H1BLimit: cfg.H1BLimit,
		BLSLimit: cfg.BLSLimit,
	}
}

// Summary reports what an import did.
type Summary struct {
	H1BRecords int
	BLSRecords int
	Skipped    int
	Duplicates int
	Inserted   int64
	Replaced   bool
	Elapsed    time.Duration
}

// Importer loads parsed records into the store.
type Importer struct {
	store     store.Store
	cache     cache.Cache
	batchSize int
	now       func() time.Time
}

// NewImporter creates an Importer. A nil cache disables invalidation and a
// non-positive batch size selects 500.
func NewImporter(st store.Store, c cache.Cache, batchSize int) *Importer {
	if c == nil {
		c = cache.Noop{}
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Importer{store: st, cache: c, batchSize: batchSize, now: time.Now}
}

// Run parses the sources concurrently and writes the records. With replace
// set the existing dataset is swapped out atomically; otherwise records are
// upserted by record id in batches.
func (im *Importer) Run(ctx context.Context, src Sources, replace bool) (*Summary, error) {
	if src.H1BPath == "" && src.BLSPath == "" {
		return nil, eris.New("dataset: no source files given")
	}
	start := im.now()

	var h1b, bls *Parsed
	g, gctx := errgroup.WithContext(ctx)
	if src.H1BPath != "" {
		g.Go(func() error {
			var err error
			h1b, err = parseFile(gctx, src.H1BPath, func(f *os.File) (*Parsed, error) {
				return ParseH1B(gctx, f, src.H1BLimit)
			})
			return err
		})
	}
	if src.BLSPath != "" {
		g.Go(func() error {
			var err error
			if strings.EqualFold(filepath.Ext(src.BLSPath), ".xlsx") {
				bls, err = ParseOEWSXLSX(gctx, src.BLSPath, src.BLSSheet, src.BLSLimit)
				return err
			}
			bls, err = parseFile(gctx, src.BLSPath, func(f *os.File) (*Parsed, error) {
				return ParseOEWSCSV(gctx, f, src.BLSLimit)
			})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sum := &Summary{Replaced: replace}
	var recs []model.CompensationRecord
	for _, p := range []*Parsed{h1b, bls} {
		if p == nil {
			continue
		}
		recs = append(recs, p.Records...)
		sum.Skipped += p.Skipped
	}
	if h1b != nil {
		sum.H1BRecords = len(h1b.Records)
	}
	if bls != nil {
		sum.BLSRecords = len(bls.Records)
	}

	n, dups, err := im.Load(ctx, recs, replace)
	if err != nil {
		return nil, err
	}
	sum.Inserted = n
	sum.Duplicates = dups
	sum.Elapsed = im.now().Sub(start)

	zap.L().Info("dataset: import complete",
		zap.Int("h1b", sum.H1BRecords),
		zap.Int("bls", sum.BLSRecords),
		zap.Int("skipped", sum.Skipped),
		zap.Int("duplicates", sum.Duplicates),
		zap.Int64("inserted", sum.Inserted),
		zap.Bool("replaced", replace),
		zap.Duration("elapsed", sum.Elapsed),
	)
	return sum, nil
}

// Seed writes the synthetic dataset for the given seed.
func (im *Importer) Seed(ctx context.Context, seed uint64, replace bool) (int64, error) {
	n, _, err := im.Load(ctx, Generate(seed, im.now().UTC()), replace)
	return n, err
}

// Batches upsert on record_id, so replaying one after a dropped connection
// is safe.
var batchPolicy = resilience.Policy{
	Name:     "dataset batch",
	Attempts: 3,
	Base:     500 * time.Millisecond,
	Max:      5 * time.Second,
	Jitter:   0.2,
}

// Load writes recs, dropping repeated record ids (the last one wins), and
// invalidates cached analytics. It returns rows written and duplicates
// dropped.
func (im *Importer) Load(ctx context.Context, recs []model.CompensationRecord, replace bool) (int64, int, error) {
	recs, dups := dedupe(recs)
	now := im.now().UTC()
	for i := range recs {
		recs[i].ApplyDefaults(now)
	}

	var total int64
	if replace {
		n, err := im.store.ReplaceCompensation(ctx, recs)
		if err != nil {
			return 0, dups, eris.Wrap(err, "dataset: replace compensation")
		}
		total = n
	} else {
		for i := 0; i < len(recs); i += im.batchSize {
			batch := recs[i:min(i+im.batchSize, len(recs))]
			n, err := resilience.Value(ctx, batchPolicy, func(ctx context.Context) (int64, error) {
				return im.store.BulkCreateCompensation(ctx, batch)
			})
			if err != nil {
				return total, dups, eris.Wrapf(err, "dataset: insert batch at %d", i)
			}
			total += n
			zap.L().Debug("dataset: batch written", zap.Int("offset", i), zap.Int64("rows", n))
		}
	}

	if err := im.cache.Invalidate(ctx); err != nil {
		zap.L().Warn("dataset: cache invalidate failed", zap.Error(err))
	}
	return total, dups, nil
}

func dedupe(recs []model.CompensationRecord) ([]model.CompensationRecord, int) {
	pos := make(map[string]int, len(recs))
	out := make([]model.CompensationRecord, 0, len(recs))
	for _, r := range recs {
		if i, ok := pos[r.RecordID]; ok {
			out[i] = r
			continue
		}
		pos[r.RecordID] = len(out)
		out = append(out, r)
	}
	return out, len(recs) - len(out)
}

func parseFile(ctx context.Context, path string, parse func(*os.File) (*Parsed, error)) (*Parsed, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "dataset: import cancelled")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close() //nolint:errcheck
	return parse(f)
}
