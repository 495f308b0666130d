// Package feed turns the published auction listing document into normalized,
// enriched listings.
//
// A load walks FETCHING, DECODING, LOCATING_HEADER, PARSING_TABLE,
// RESOLVING_COLUMNS, CONVERTING_VALUES, FILTERING_INVALID and ENRICHING_TEXT
// before reaching READY. Any invocation-level failure ends the load with a
// *PipelineError and no partial result. Row-level faults are absorbed and
// counted in Stats.
package feed

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/imoveis-cli/internal/facts"
	"github.com/sells-group/imoveis-cli/internal/fetcher"
	"github.com/sells-group/imoveis-cli/internal/model"
)

const (
	// DefaultBaseURL is where the per-region documents are published.
	DefaultBaseURL = "https://venda-imoveis.caixa.gov.br/listaweb"
	// DefaultModality labels listings whose feed has no modality column.
	DefaultModality = "Venda Direta Online"
	// StatusOK is the status reported with a successful load.
	StatusOK = "Ok"

	defaultMaxBytes = 64 << 20
)

// Options configures a Pipeline. Zero values select the defaults.
type Options struct {
	BaseURL         string
	Charset         string
	DefaultModality string
	Rules           []ColumnRule
	Classifier      *facts.Classifier
	MaxBytes        int64
}

// Stats counts what happened to the rows of one load.
type Stats struct {
	HeaderOffset       int  `json:"header_offset"`
	RowsRead           int  `json:"rows_read"`
	RowsSkipped        int  `json:"rows_skipped"`
	RowsDropped        int  `json:"rows_dropped"`
	ConversionFailures int  `json:"conversion_failures"`
	AppraisalFallback  bool `json:"appraisal_fallback"`
}

// Result is the READY output of one load. It is never mutated after it is
// returned.
type Result struct {
	Region    string            `json:"region"`
	RunID     string            `json:"run_id"`
	Status    string            `json:"status"`
	FetchedAt time.Time         `json:"fetched_at"`
	Columns   map[string]string `json:"columns"`
	Stats     Stats             `json:"stats"`
	Listings  []model.Listing   `json:"listings"`
}

// Pipeline loads and enriches region feeds. It holds no per-load state and
// is safe for concurrent use.
type Pipeline struct {
	fetcher fetcher.Fetcher
	opts    Options
	now     func() time.Time
}

// New creates a Pipeline that downloads feeds with f.
func New(f fetcher.Fetcher, opts Options) *Pipeline {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Charset == "" {
		opts.Charset = DefaultCharset
	}
	if opts.DefaultModality == "" {
		opts.DefaultModality = DefaultModality
	}
	if opts.Rules == nil {
		opts.Rules = DefaultRules
	}
	if opts.Classifier == nil {
		opts.Classifier = facts.NewClassifier(nil)
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = defaultMaxBytes
	}
	return &Pipeline{fetcher: f, opts: opts, now: time.Now}
}

// Load fetches the feed for region with a single request and runs the full
// pipeline over it.
func (p *Pipeline) Load(ctx context.Context, region string) (*Result, error) {
	code := NormalizeRegion(region)
	if !ValidRegion(code) {
		return nil, eris.Wrapf(ErrUnknownRegion, "feed: region %q", region)
	}

	r := p.newRun(code)
	r.enter(StageFetching)
	url := FeedURL(p.opts.BaseURL, code)
	raw, err := p.fetch(ctx, url)
	if err != nil {
		return nil, r.fail(transportError(err))
	}
	r.log.Debug("pipeline: fetched feed", zap.String("url", url), zap.Int("bytes", len(raw)))

	return r.process(raw)
}

// Parse runs the pipeline from DECODING onward over a document already in
// hand. region only labels the result.
func (p *Pipeline) Parse(region string, raw []byte) (*Result, error) {
	return p.newRun(NormalizeRegion(region)).process(raw)
}

func (p *Pipeline) fetch(ctx context.Context, url string) ([]byte, error) {
	body, err := p.fetcher.Download(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	// One byte past the cap tells a document that fills it exactly from one
	// that was cut.
	data, err := io.ReadAll(io.LimitReader(body, p.opts.MaxBytes+1))
	if err != nil {
		return nil, eris.Wrap(err, "read body")
	}
	if int64(len(data)) > p.opts.MaxBytes {
		return nil, &SizeLimitError{Limit: p.opts.MaxBytes}
	}
	return data, nil
}

// run carries the identity and logger of one invocation.
type run struct {
	p      *Pipeline
	region string
	id     string
	log    *zap.Logger
}

func (p *Pipeline) newRun(region string) *run {
	id := uuid.NewString()
	return &run{
		p:      p,
		region: region,
		id:     id,
		log:    zap.L().With(zap.String("region", region), zap.String("run_id", id)),
	}
}

func (r *run) enter(s Stage) {
	r.log.Debug("pipeline: stage", zap.Stringer("stage", s))
}

func (r *run) fail(pe *PipelineError) error {
	r.log.Error("pipeline: failed",
		zap.Stringer("stage", pe.Stage),
		zap.String("kind", string(pe.Kind)),
		zap.String("reason", pe.Reason),
		zap.Error(pe.Err),
	)
	return pe
}

// pendingRow is a parsed row with converted prices awaiting enrichment.
type pendingRow struct {
	raw       model.RawListing
	pos       int
	sale      float64
	appraisal float64
}

func (r *run) process(raw []byte) (*Result, error) {
	var stats Stats

	r.enter(StageDecoding)
	text, err := Decode(raw, r.p.opts.Charset)
	if err != nil {
		return nil, r.fail(decodeError(err))
	}

	r.enter(StageLocatingHeader)
	stats.HeaderOffset = FindHeaderOffset(text)

	r.enter(StageParsingTable)
	tbl, err := fetcher.ReadTable(strings.NewReader(fromLine(text, stats.HeaderOffset)), fetcher.CSVOptions{
		Delimiter:  ';',
		LazyQuotes: true,
		TrimSpace:  true,
	})
	if err != nil {
		return nil, r.fail(&PipelineError{
			Stage:  StageParsingTable,
			Kind:   KindSchemaDrift,
			Reason: "schema drift: no table found",
			Err:    err,
		})
	}
	stats.RowsRead = len(tbl.Rows)
	stats.RowsSkipped = tbl.Skipped

	r.enter(StageResolvingColumns)
	cols, err := ResolveAll(tbl.Header, r.p.opts.Rules)
	if err != nil {
		return nil, r.fail(schemaDriftError(StageResolvingColumns, err))
	}
	if !cols.Has(FieldAppraisal) {
		// Discount against the sale price is always zero for these rows.
		stats.AppraisalFallback = true
		r.log.Warn("pipeline: appraisal column not found, using sale price as appraisal")
	}

	r.enter(StageConvertingValues)
	pending := make([]pendingRow, 0, len(tbl.Rows))
	for i, cells := range tbl.Rows {
		raw := model.NewRawListing(tbl.Header, cells)
		sale, ok := ParseCurrencyOK(cols.value(raw, FieldPrice))
		if !ok {
			stats.ConversionFailures++
		}
		appraisal := sale
		if !stats.AppraisalFallback {
			appraisal, ok = ParseCurrencyOK(cols.value(raw, FieldAppraisal))
			if !ok {
				stats.ConversionFailures++
			}
		}
		pending = append(pending, pendingRow{raw: raw, pos: i, sale: sale, appraisal: appraisal})
	}

	r.enter(StageFilteringInvalid)
	kept := pending[:0]
	for _, pr := range pending {
		if pr.appraisal <= 0 {
			stats.RowsDropped++
			continue
		}
		kept = append(kept, pr)
	}

	r.enter(StageEnrichingText)
	listings := make([]model.Listing, 0, len(kept))
	for _, pr := range kept {
		listings = append(listings, r.enrich(tbl.Header, cols, pr))
	}

	r.enter(StageReady)
	r.log.Info("pipeline: ready",
		zap.Int("listings", len(listings)),
		zap.Int("header_offset", stats.HeaderOffset),
		zap.Int("rows_read", stats.RowsRead),
		zap.Int("rows_skipped", stats.RowsSkipped),
		zap.Int("rows_dropped", stats.RowsDropped),
		zap.Int("conversion_failures", stats.ConversionFailures),
	)

	return &Result{
		Region:    r.region,
		RunID:     r.id,
		Status:    StatusOK,
		FetchedAt: r.p.now(),
		Columns:   cols.Names(),
		Stats:     stats,
		Listings:  listings,
	}, nil
}

func (r *run) enrich(header []string, cols Columns, pr pendingRow) model.Listing {
	// Lower-cased concatenation of every cell; scanned by the extractors and
	// never exposed.
	blob := pr.raw.Text(header)
	classifier := r.p.opts.Classifier

	id := cols.value(pr.raw, FieldID)
	if id == "" {
		id = fmt.Sprintf("row-%d", pr.pos+1)
	}

	modality := cols.value(pr.raw, FieldModality)
	if modality == "" {
		modality = r.p.opts.DefaultModality
	}

	// The type column, then the description, then the whole row. Location
	// names such as "Casa Verde" would otherwise decide the type.
	ptype := model.PropertyTypeUnknown
	for _, src := range []string{cols.value(pr.raw, FieldType), cols.value(pr.raw, FieldDescription), blob} {
		if src == "" {
			continue
		}
		if ptype = classifier.PropertyType(src); ptype != model.PropertyTypeUnknown {
			break
		}
	}

	f := facts.Extract(blob)

	return model.Listing{
		ID:                id,
		City:              cols.value(pr.raw, FieldCity),
		Neighborhood:      cols.value(pr.raw, FieldNeighborhood),
		Address:           cols.value(pr.raw, FieldAddress),
		SalePrice:         pr.sale,
		AppraisalValue:    pr.appraisal,
		PropertyType:      ptype,
		Occupancy:         facts.ClassifyOccupancy(blob),
		Bedrooms:          f.Bedrooms,
		ParkingSpaces:     f.ParkingSpaces,
		LivingAreaM2:      f.LivingAreaM2,
		LotAreaM2:         f.LotAreaM2,
		FinancingEligible: classifier.FinancingEligible(blob),
		Modality:          modality,
	}
}
