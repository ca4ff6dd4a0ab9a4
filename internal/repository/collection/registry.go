// Package collection loads the persisted vector collections and caches one
// immutable snapshot per domain for the process lifetime.
package collection

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/carneosk-source/carneo-ai-bot/internal/domain"
)

// Sources names the backing files per domain. The tech domain merges two
// sources: the manuals index and the line-delimited imported support
// correspondence, in that order.
type Sources struct {
	GeneralPath     string
	ProductsPath    string
	TechManualsPath string
	TechMailPath    string
}

// Registry is the lazy per-domain collection cache. Each domain loads at
// most once, under a sync.Once guard, so concurrent first requests share a
// single load.
type Registry struct {
	sources Sources
	logger  *zap.Logger
	entries map[domain.Domain]*entry
}

type entry struct {
	once sync.Once
	coll domain.Collection
}

// NewRegistry creates a registry over the given sources.
func NewRegistry(sources Sources, logger *zap.Logger) *Registry {
	return &Registry{
		sources: sources,
		logger:  logger,
		entries: map[domain.Domain]*entry{
			domain.DomainGeneral:  {},
			domain.DomainProducts: {},
			domain.DomainTech:     {},
		},
	}
}

// Load returns the collection for a domain, reading the backing sources on
// first access. Never fails: unknown domains and missing sources yield an
// empty collection.
func (r *Registry) Load(_ context.Context, d domain.Domain) (domain.Collection, error) {
	e, ok := r.entries[d]
	if !ok {
		r.logger.Warn("Unknown collection domain requested", zap.String("domain", string(d)))
		return domain.Collection{Domain: d}, nil
	}

	e.once.Do(func() {
		e.coll = r.load(d)
		r.logger.Info("Collection loaded",
			zap.String("domain", string(d)),
			zap.Int("documents", len(e.coll.Documents)),
		)
	})
	return e.coll, nil
}

func (r *Registry) load(d domain.Domain) domain.Collection {
	var docs []domain.Document
	switch d {
	case domain.DomainGeneral:
		docs = loadArray(r.sources.GeneralPath, r.logger)
	case domain.DomainProducts:
		docs = loadArray(r.sources.ProductsPath, r.logger)
	case domain.DomainTech:
		// Manuals first, imported correspondence second; the order is part
		// of the contract so tie-broken rankings stay stable across calls.
		docs = loadArray(r.sources.TechManualsPath, r.logger)
		docs = append(docs, loadLines(r.sources.TechMailPath, r.logger)...)
	}
	return domain.Collection{Domain: d, Documents: docs}
}
