package invoicelib

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/rezonia/satr/internal/model"
	"github.com/rezonia/satr/internal/processor"
	"github.com/rezonia/satr/pkg/logger"
)

// Processor runs extraction passes over a directory tree
type Processor struct {
	pipeline *processor.Pipeline
}

// NewProcessor creates a processor logging dropped documents to log
func NewProcessor(log zerolog.Logger) *Processor {
	return &Processor{
		pipeline: processor.NewPipeline(processor.WithLogger(log)),
	}
}

// NewDefaultProcessor creates a processor that logs nothing
func NewDefaultProcessor() *Processor {
	return NewProcessor(logger.Nop())
}

// ExtractAll returns every invoice under root matching q, oldest first
func (p *Processor) ExtractAll(root string, q Query) ([]*model.Invoice, error) {
	return p.pipeline.Extract(root, q)
}

// Aggregate sums field over every invoice under root matching q
func (p *Processor) Aggregate(root string, q Query, field Field) (decimal.Decimal, error) {
	return p.pipeline.Aggregate(root, q, field)
}
