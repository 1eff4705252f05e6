// Package capacity wires the transfer length, development length, moment
// and shear engines to one set of providers and one cache arena. It is the
// read-only query surface used by the CLI and reports.
package capacity

import (
	"log/slog"

	"github.com/alexiusacademia/gopcb/internal/cache"
	"github.com/alexiusacademia/gopcb/internal/devlen"
	"github.com/alexiusacademia/gopcb/internal/girder"
	"github.com/alexiusacademia/gopcb/internal/lrfd"
	"github.com/alexiusacademia/gopcb/internal/moment"
	"github.com/alexiusacademia/gopcb/internal/shear"
	"github.com/alexiusacademia/gopcb/internal/xfer"
)

// Engine answers capacity queries for one girder project
type Engine struct {
	p      girder.Providers
	arena  *cache.Arena
	logger *slog.Logger

	xfer   *xfer.Calculator
	devlen *devlen.Calculator
	moment *moment.Engine
	shear  *shear.Engine
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger used for solve and invalidation records
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an engine over the providers
func New(p girder.Providers, opts ...Option) *Engine {
	e := &Engine{
		p:      p,
		arena:  cache.NewArena(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}

	e.xfer = xfer.New(p, e.arena, e.logger)
	e.moment = moment.NewEngine(p, e.xfer, e.arena, e.logger)
	e.devlen = devlen.New(p, e.xfer, e.moment, e.arena, e.logger)
	e.arena.Link(moment.PartitionCapacity, devlen.PartitionName)
	e.shear = shear.NewEngine(p, e.moment, e.xfer, e.arena, e.logger)
	return e
}

// Providers returns the providers the engine was built with
func (e *Engine) Providers() girder.Providers { return e.p }

// Invalidate clears every cache. Call it whenever project data changes.
func (e *Engine) Invalidate() {
	e.arena.Invalidate()
	e.logger.Debug("caches invalidated", slog.Uint64("epoch", e.arena.Epoch()))
}

// InvalidatePartition clears one cache and everything that depends on it
func (e *Engine) InvalidatePartition(name string) []string {
	cleared := e.arena.InvalidatePartition(name)
	e.logger.Debug("cache partition invalidated",
		slog.String("partition", name),
		slog.Any("cleared", cleared))
	return cleared
}

// Epoch returns the number of full invalidations
func (e *Engine) Epoch() uint64 { return e.arena.Epoch() }

// CacheStats returns the entry count of each cache partition
func (e *Engine) CacheStats() map[string]int { return e.arena.Stats() }

// MomentAnalyses returns the number of moment capacity solves performed
func (e *Engine) MomentAnalyses() int64 { return e.moment.Analyses() }

// TransferLength returns the transfer length of a strand type
func (e *Engine) TransferLength(seg girder.SegmentKey, t girder.StrandType, xt lrfd.TransferType, cfg *girder.Config) (xfer.Result, error) {
	return e.xfer.TransferLength(seg, t, xt, cfg)
}

// TransferAdjustment returns the composite bond effectiveness of a strand
// type at the POI
func (e *Engine) TransferAdjustment(poi girder.POI, t girder.StrandType, xt lrfd.TransferType, cfg *girder.Config) (float64, error) {
	return e.xfer.Adjustment(poi, t, xt, cfg)
}

// StrandTransferAdjustment returns the bond effectiveness of one strand
func (e *Engine) StrandTransferAdjustment(poi girder.POI, t girder.StrandType, strandIndex int, xt lrfd.TransferType, cfg *girder.Config) (float64, error) {
	return e.xfer.StrandAdjustment(poi, t, strandIndex, xt, cfg)
}

// DevelopmentLength returns the development length of a strand type
func (e *Engine) DevelopmentLength(poi girder.POI, t girder.StrandType, debonded bool, cfg *girder.Config) (devlen.Result, error) {
	return e.devlen.Details(poi, t, debonded, cfg)
}

// DevelopmentAdjustment returns the average partial development factor of a
// strand type at the POI
func (e *Engine) DevelopmentAdjustment(poi girder.POI, t girder.StrandType, cfg *girder.Config) (float64, error) {
	return e.devlen.Adjustment(poi, t, cfg)
}

// StrandDevelopmentAdjustment returns the partial development factor of
// one strand
func (e *Engine) StrandDevelopmentAdjustment(poi girder.POI, t girder.StrandType, strandIndex int, cfg *girder.Config) (float64, error) {
	return e.devlen.StrandAdjustment(poi, t, strandIndex, cfg)
}

// MomentCapacity returns the nominal moment capacity
func (e *Engine) MomentCapacity(interval int, sign girder.Sign, poi girder.POI, cfg *girder.Config) (*moment.Details, error) {
	return e.moment.Capacity(interval, sign, poi, cfg)
}

// CrackingMoment returns the cracking moment
func (e *Engine) CrackingMoment(interval int, sign girder.Sign, poi girder.POI, cfg *girder.Config) (*moment.CrackingDetails, error) {
	return e.moment.Cracking(interval, sign, poi, cfg)
}

// MinMomentCapacity returns the minimum moment capacity check
func (e *Engine) MinMomentCapacity(interval int, sign girder.Sign, ls lrfd.LimitState, poi girder.POI, cfg *girder.Config) (*moment.MinDetails, error) {
	return e.moment.MinCapacity(interval, sign, ls, poi, cfg)
}

// CrackedSection returns the cracked section properties
func (e *Engine) CrackedSection(sign girder.Sign, poi girder.POI, cfg *girder.Config) (*moment.CrackedDetails, error) {
	return e.moment.Cracked(sign, poi, cfg)
}

// ShearCapacity returns the shear capacity with the critical section rule
// applied
func (e *Engine) ShearCapacity(interval int, ls lrfd.LimitState, poi girder.POI, cfg *girder.Config) (*shear.Details, error) {
	return e.shear.Capacity(interval, ls, poi, cfg)
}

// Fpc returns the concrete stress at the composite centroid
func (e *Engine) Fpc(poi girder.POI, cfg *girder.Config) (*shear.FpcDetails, error) {
	return e.shear.Fpc(poi, cfg)
}

// CriticalSections returns the shear critical sections of a segment
func (e *Engine) CriticalSections(ls lrfd.LimitState, seg girder.SegmentKey, cfg *girder.Config) ([]shear.CriticalSection, error) {
	return e.shear.CriticalSections(ls, seg, cfg)
}
