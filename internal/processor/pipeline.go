// Package processor wires the source walker, the CFDI parser, the filter
// and the aggregator into one pass over a directory tree.
package processor

import (
	"iter"
	"slices"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/rezonia/satr/internal/filter"
	"github.com/rezonia/satr/internal/model"
	xmlparser "github.com/rezonia/satr/internal/parser/xml"
	"github.com/rezonia/satr/internal/report"
	"github.com/rezonia/satr/internal/source"
	"github.com/rezonia/satr/pkg/logger"
)

// Parser turns one document's content into an invoice
type Parser interface {
	ParseBytes(content []byte) (*model.Invoice, error)
}

// Result is the outcome of parsing one document
type Result struct {
	// Source names the document (path or archive!entry)
	Source string
	// Invoice is set when parsing succeeded
	Invoice *model.Invoice
	// Error is the parse failure, nil on success
	Error error
}

// OK reports whether the document parsed
func (r *Result) OK() bool {
	return r.Error == nil && r.Invoice != nil
}

// Pipeline runs extraction passes. It holds no state between passes.
type Pipeline struct {
	parser Parser
	log    zerolog.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithParser replaces the CFDI parser
func WithParser(p Parser) Option {
	return func(pl *Pipeline) {
		pl.parser = p
	}
}

// WithLogger sets the logger for dropped documents
func WithLogger(log zerolog.Logger) Option {
	return func(pl *Pipeline) {
		pl.log = log
	}
}

// NewPipeline creates a pipeline with the CFDI parser and a silent logger
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		parser: xmlparser.NewParser(),
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Documents parses every document under root and yields one Result each.
// A traversal failure is yielded as the error and ends the sequence.
func (p *Pipeline) Documents(root string) iter.Seq2[*Result, error] {
	return func(yield func(*Result, error) bool) {
		for doc, err := range source.Walk(root) {
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(p.parse(doc), nil) {
				return
			}
		}
	}
}

// Invoices yields every parsed invoice matching criteria. Documents that
// fail to parse are logged and skipped.
func (p *Pipeline) Invoices(root string, criteria filter.Criteria) iter.Seq2[*model.Invoice, error] {
	return func(yield func(*model.Invoice, error) bool) {
		for res, err := range p.Documents(root) {
			if err != nil {
				yield(nil, err)
				return
			}
			if res.Error != nil {
				p.log.Debug().Str("source", res.Source).Err(res.Error).Msg("skipping document")
				continue
			}
			if !criteria.Matches(res.Invoice) {
				continue
			}
			if !yield(res.Invoice, nil) {
				return
			}
		}
	}
}

// Extract collects the matching invoices, oldest first
func (p *Pipeline) Extract(root string, criteria filter.Criteria) ([]*model.Invoice, error) {
	var invoices []*model.Invoice
	for inv, err := range p.Invoices(root, criteria) {
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}

	slices.SortStableFunc(invoices, func(a, b *model.Invoice) int {
		return a.Date.Compare(b.Date)
	})

	p.log.Debug().Str("root", root).Int("count", len(invoices)).Msg("extracted invoices")
	return invoices, nil
}

// Aggregate sums field over the matching invoices without collecting them
func (p *Pipeline) Aggregate(root string, criteria filter.Criteria, field report.Field) (decimal.Decimal, error) {
	var walkErr error
	seq := func(yield func(*model.Invoice) bool) {
		for inv, err := range p.Invoices(root, criteria) {
			if err != nil {
				walkErr = err
				return
			}
			if !yield(inv) {
				return
			}
		}
	}

	sum := report.Sum(seq, field)
	if walkErr != nil {
		return decimal.Zero, walkErr
	}
	return sum, nil
}

// All parses every document and returns the invoices unfiltered, oldest first
func (p *Pipeline) All(root string) ([]*model.Invoice, error) {
	var invoices []*model.Invoice
	for res, err := range p.Documents(root) {
		if err != nil {
			return nil, err
		}
		if res.Error != nil {
			p.log.Debug().Str("source", res.Source).Err(res.Error).Msg("skipping document")
			continue
		}
		invoices = append(invoices, res.Invoice)
	}

	slices.SortStableFunc(invoices, func(a, b *model.Invoice) int {
		return a.Date.Compare(b.Date)
	})
	return invoices, nil
}

func (p *Pipeline) parse(doc source.Document) *Result {
	res := &Result{Source: doc.Name()}
	inv, err := p.parser.ParseBytes(doc.Content)
	if err != nil {
		res.Error = err
		return res
	}
	if inv == nil {
		res.Error = model.NewParseError(model.ErrSchemaMismatch, "document", "parser returned no invoice", nil)
		return res
	}
	inv.Source = doc.Name()
	res.Invoice = inv
	return res
}
