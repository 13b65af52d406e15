// Package predict provides access to the remote regulatory-effect prediction
// service and a local cache of its per-variant score tables.
package predict

import (
	"context"
	"errors"

	"github.com/oncoreg/oncoreg/internal/score"
	"github.com/oncoreg/oncoreg/internal/variant"
)

// SequenceWindow is the genomic context window, in bases, the prediction
// service models around each variant.
const SequenceWindow = 1_048_576 // 1MB

// ErrNotConfigured is returned when the prediction service cannot be used
// because no API key has been provided.
var ErrNotConfigured = errors.New(
	"prediction service not configured: pass an API key or set ONCOREG_API_KEY")

// Predictor scores a single variant, returning one score table covering the
// service's recommended output types across all tissues. Implementations may
// block on I/O; the context bounds the call.
type Predictor interface {
	ScoreVariant(ctx context.Context, v variant.Variant) (*score.Table, error)
}
