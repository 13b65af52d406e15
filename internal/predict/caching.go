package predict

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/oncoreg/oncoreg/internal/score"
	"github.com/oncoreg/oncoreg/internal/variant"
)

// CachingPredictor is a read-through cache in front of another Predictor.
// Cache hits never touch the remote service; misses are scored remotely and
// written back before returning.
type CachingPredictor struct {
	next   Predictor
	store  *Store
	logger *zap.Logger
}

// NewCachingPredictor wraps a Predictor with a score cache.
func NewCachingPredictor(next Predictor, store *Store) *CachingPredictor {
	return &CachingPredictor{
		next:   next,
		store:  store,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for cache hit/miss messages.
func (p *CachingPredictor) SetLogger(l *zap.Logger) {
	p.logger = l
}

// ScoreVariant returns the cached table when available, otherwise delegates
// to the wrapped Predictor and caches the result.
func (p *CachingPredictor) ScoreVariant(ctx context.Context, v variant.Variant) (*score.Table, error) {
	t, ok, err := p.store.Get(v)
	if err != nil {
		return nil, fmt.Errorf("score cache lookup for %s: %w", v, err)
	}
	if ok {
		p.logger.Debug("score cache hit",
			zap.String("variant", v.String()),
			zap.Int("rows", len(t.Rows)))
		return t, nil
	}

	t, err = p.next.ScoreVariant(ctx, v)
	if err != nil {
		return nil, err
	}

	if err := p.store.Put(t); err != nil {
		return nil, fmt.Errorf("cache scores for %s: %w", v, err)
	}
	p.logger.Debug("score cache miss",
		zap.String("variant", v.String()),
		zap.Int("rows", len(t.Rows)))

	return t, nil
}
