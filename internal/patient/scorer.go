// Package patient orchestrates per-patient scoring: each variant is scored
// by the prediction service, the resulting tables are aggregated into gene
// impacts, and gene impacts are normalized into the Regulatory Burden Index.
package patient

import (
	"context"

	"go.uber.org/zap"

	"github.com/oncoreg/oncoreg/internal/genelist"
	"github.com/oncoreg/oncoreg/internal/predict"
	"github.com/oncoreg/oncoreg/internal/score"
	"github.com/oncoreg/oncoreg/internal/tissue"
	"github.com/oncoreg/oncoreg/internal/variant"
)

// Report holds the detailed result of scoring one patient.
type Report struct {
	RBI          float64
	VariantCount int
	GeneCount    int
	GeneImpacts  []score.GeneImpact
	TotalBurden  float64
	TissueID     string
}

// Scorer computes Regulatory Burden Index scores. The zero value is not
// usable; construct with NewScorer, which requires a configured Predictor.
type Scorer struct {
	predictor  predict.Predictor
	outputType string
	genes      genelist.List
	workers    int
	logger     *zap.Logger
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithLogger sets the logger for progress messages.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scorer) { s.logger = l }
}

// WithOutputType sets the assay output type used for aggregation.
// The default is RNA_SEQ (expression effects).
func WithOutputType(outputType string) Option {
	return func(s *Scorer) { s.outputType = outputType }
}

// WithGeneList restricts gene impacts to genes in the given cancer gene
// list. The filter is applied before normalization, so the RBI becomes an
// average over affected cancer genes only.
func WithGeneList(genes genelist.List) Option {
	return func(s *Scorer) { s.genes = genes }
}

// WithWorkers sets the number of concurrent scoring calls. Values <= 1
// score variants sequentially in input order.
func WithWorkers(n int) Option {
	return func(s *Scorer) { s.workers = n }
}

// NewScorer creates a Scorer backed by the given Predictor. A nil
// Predictor fails with predict.ErrNotConfigured; once constructed, a Scorer
// is always usable.
func NewScorer(p predict.Predictor, opts ...Option) (*Scorer, error) {
	if p == nil {
		return nil, predict.ErrNotConfigured
	}
	s := &Scorer{
		predictor:  p,
		outputType: score.OutputRNASeq,
		workers:    1,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Score computes the Regulatory Burden Index for one patient's variants.
func (s *Scorer) Score(ctx context.Context, variants []variant.Variant, cancerType string) (float64, error) {
	report, err := s.ScoreReport(ctx, variants, cancerType)
	if err != nil {
		return 0, err
	}
	return report.RBI, nil
}

// ScoreReport computes the Regulatory Burden Index with per-gene detail.
//
// All variants are validated and the cancer type resolved before any
// prediction call is issued, so malformed input never wastes remote work.
// Scoring is all-or-nothing: a failure on any variant fails the request
// with no partial result.
func (s *Scorer) ScoreReport(ctx context.Context, variants []variant.Variant, cancerType string) (*Report, error) {
	for _, v := range variants {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}

	tissueID, err := tissue.Resolve(cancerType)
	if err != nil {
		return nil, err
	}

	s.logger.Info("scoring patient",
		zap.Int("variants", len(variants)),
		zap.String("cancer_type", cancerType),
		zap.String("tissue_id", tissueID))

	var tables []score.Table
	if s.workers > 1 && len(variants) > 1 {
		tables, err = s.scoreParallel(ctx, variants)
	} else {
		tables, err = s.scoreSequential(ctx, variants)
	}
	if err != nil {
		return nil, err
	}

	impacts := score.AggregateGeneImpact(tables, tissueID, s.outputType)
	if s.genes != nil {
		impacts = filterGenes(impacts, s.genes)
	}

	report := &Report{
		RBI:          score.NormalizeBurden(impacts),
		VariantCount: len(variants),
		GeneCount:    len(impacts),
		GeneImpacts:  impacts,
		TotalBurden:  score.TotalBurden(impacts),
		TissueID:     tissueID,
	}

	s.logger.Info("patient scored",
		zap.Float64("rbi", report.RBI),
		zap.Int("genes", report.GeneCount))

	return report, nil
}

func (s *Scorer) scoreSequential(ctx context.Context, variants []variant.Variant) ([]score.Table, error) {
	tables := make([]score.Table, 0, len(variants))
	for i, v := range variants {
		s.logger.Info("scoring variant",
			zap.Int("n", i+1),
			zap.Int("total", len(variants)),
			zap.String("variant", v.String()))

		t, err := s.predictor.ScoreVariant(ctx, v)
		if err != nil {
			return nil, err
		}
		tables = append(tables, *t)
	}
	return tables, nil
}

// filterGenes keeps only impacts whose gene is in the list, preserving order.
func filterGenes(impacts []score.GeneImpact, genes genelist.List) []score.GeneImpact {
	kept := make([]score.GeneImpact, 0, len(impacts))
	for _, g := range impacts {
		if genes.Contains(g.GeneName) {
			kept = append(kept, g)
		}
	}
	return kept
}
