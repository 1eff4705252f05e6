package capacity

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/gopcb/internal/devlen"
	"github.com/alexiusacademia/gopcb/internal/girder"
	"github.com/alexiusacademia/gopcb/internal/lrfd"
	"github.com/alexiusacademia/gopcb/internal/moment"
	"github.com/alexiusacademia/gopcb/internal/project"
	"github.com/alexiusacademia/gopcb/internal/shear"
	"github.com/alexiusacademia/gopcb/internal/xfer"
)

func newEngine(t *testing.T) (*Engine, *project.Project) {
	t.Helper()
	p, err := project.LoadFromFile("../../examples/rectangular-beam.json")
	require.NoError(t, err)
	return New(p.Providers(), WithLogger(nil)), p
}

func TestQueriesShareOneArena(t *testing.T) {
	e, p := newEngine(t)
	seg := p.Segment()
	poi := p.At(seg, 240)

	lt, err := e.TransferLength(seg, girder.Straight, lrfd.TransferMaximum, nil)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, lt.Length, 1e-9)

	ld, err := e.DevelopmentLength(poi, girder.Straight, false, nil)
	require.NoError(t, err)
	assert.Greater(t, ld.Length, lt.Length)

	mn, err := e.MomentCapacity(1, girder.Positive, poi, nil)
	require.NoError(t, err)
	// development used fps of the same resolved capacity
	assert.Equal(t, mn.Fps, ld.Fps)

	_, err = e.ShearCapacity(1, lrfd.StrengthI, poi, nil)
	require.NoError(t, err)

	stats := e.CacheStats()
	assert.Positive(t, stats[xfer.PartitionName])
	assert.Positive(t, stats[devlen.PartitionName])
	assert.Positive(t, stats[moment.PartitionCapacity])
	assert.Positive(t, stats[shear.PartitionCapacity])
	assert.Positive(t, stats[shear.PartitionCritical])
}

func TestInvalidatePartitionCascades(t *testing.T) {
	e, p := newEngine(t)
	poi := p.At(p.Segment(), 240)

	_, err := e.ShearCapacity(1, lrfd.StrengthI, poi, nil)
	require.NoError(t, err)
	_, err = e.DevelopmentLength(poi, girder.Straight, false, nil)
	require.NoError(t, err)
	solves := e.MomentAnalyses()

	cleared := e.InvalidatePartition(moment.PartitionCapacity)
	assert.Contains(t, cleared, moment.PartitionCapacity)
	assert.Contains(t, cleared, devlen.PartitionName)
	assert.Contains(t, cleared, shear.PartitionSection)
	assert.Contains(t, cleared, shear.PartitionCapacity)
	assert.NotContains(t, cleared, xfer.PartitionName)

	stats := e.CacheStats()
	assert.Zero(t, stats[devlen.PartitionName])
	assert.Zero(t, stats[shear.PartitionCapacity])
	assert.Positive(t, stats[xfer.PartitionName])

	_, err = e.MomentCapacity(1, girder.Positive, poi, nil)
	require.NoError(t, err)
	assert.Greater(t, e.MomentAnalyses(), solves)
}

func TestInvalidate(t *testing.T) {
	e, p := newEngine(t)
	poi := p.At(p.Segment(), 240)
	_, err := e.CrackingMoment(1, girder.Positive, poi, nil)
	require.NoError(t, err)

	epoch := e.Epoch()
	e.Invalidate()
	assert.Equal(t, epoch+1, e.Epoch())
	for name, n := range e.CacheStats() {
		assert.Zero(t, n, name)
	}
}

func TestFacadeDelegates(t *testing.T) {
	e, p := newEngine(t)
	poi := p.At(p.Segment(), 240)

	adj, err := e.TransferAdjustment(poi, girder.Straight, lrfd.TransferMaximum, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, adj)
	sadj, err := e.StrandTransferAdjustment(p.At(p.Segment(), 15), girder.Straight, 0, lrfd.TransferMaximum, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, sadj, 1e-9)

	dadj, err := e.DevelopmentAdjustment(poi, girder.Straight, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, dadj)
	sd, err := e.StrandDevelopmentAdjustment(poi, girder.Straight, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, sd)

	minCap, err := e.MinMomentCapacity(1, girder.Positive, lrfd.StrengthI, poi, nil)
	require.NoError(t, err)
	assert.True(t, minCap.Passes())

	cr, err := e.CrackedSection(girder.Positive, poi, nil)
	require.NoError(t, err)
	assert.Positive(t, cr.Icr)

	fpc, err := e.Fpc(poi, nil)
	require.NoError(t, err)
	assert.Positive(t, fpc.Fpc)

	css, err := e.CriticalSections(lrfd.StrengthI, p.Segment(), nil)
	require.NoError(t, err)
	assert.Len(t, css, 2)

	assert.Same(t, p, e.Providers().Geometry)
}

func TestEnvelope(t *testing.T) {
	e, p := newEngine(t)
	before := len(p.POIs(p.Segment()))

	env, err := e.Envelope(context.Background(), p.Segment(), 1, lrfd.StrengthI, 4)
	require.NoError(t, err)
	pois := p.POIs(p.Segment())
	// one row per POI, the critical sections included
	require.Len(t, env.Rows, len(pois))
	assert.LessOrEqual(t, len(pois), before+2)
	css, err := e.CriticalSections(lrfd.StrengthI, p.Segment(), nil)
	require.NoError(t, err)
	for _, cs := range css {
		assert.Contains(t, pois, cs.POI)
	}
	assert.Equal(t, lrfd.StrengthI.ID, env.LimitState)
	for i, r := range env.Rows {
		assert.Equal(t, pois[i].ID, r.POI.ID)
		assert.GreaterOrEqual(t, r.PhiMnPositive, 0.0)
		assert.LessOrEqual(t, r.PhiMnNegative, 0.0)
		assert.Positive(t, r.PhiVn)
	}

	s := env.Summary
	assert.GreaterOrEqual(t, s.MaxPhiMn, s.MeanPhiMn)
	assert.GreaterOrEqual(t, s.MeanPhiMn, s.MinPhiMn)
	assert.GreaterOrEqual(t, s.MaxPhiVn, s.MedianShear)
	assert.Greater(t, s.MinMomentRatio, 1.0)
	assert.False(t, math.IsInf(s.MinShearRatio, 0))

	// every row is now cached; a second pass solves nothing new
	solves := e.MomentAnalyses()
	again, err := e.Envelope(context.Background(), p.Segment(), 1, lrfd.StrengthI, 1)
	require.NoError(t, err)
	assert.Equal(t, env.Rows, again.Rows)
	assert.Equal(t, solves, e.MomentAnalyses())
}

func TestEnvelopeCancelled(t *testing.T) {
	e, p := newEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Envelope(ctx, p.Segment(), 1, lrfd.StrengthI, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEnvelopeBadInterval(t *testing.T) {
	e, p := newEngine(t)
	_, err := e.Envelope(context.Background(), p.Segment(), 9, lrfd.StrengthI, 2)
	var de *girder.InputDomainError
	assert.ErrorAs(t, err, &de)
}

func TestSummarize(t *testing.T) {
	rows := []EnvelopeRow{
		{PhiMnPositive: 100, PhiVn: 10, MomentRatio: math.Inf(1), ShearRatio: 2},
		{PhiMnPositive: 300, PhiVn: 30, MomentRatio: 1.5, ShearRatio: 4},
		{PhiMnPositive: 200, PhiVn: 20, MomentRatio: 3, ShearRatio: math.Inf(1)},
	}
	s := summarize(rows)
	assert.Equal(t, 300.0, s.MaxPhiMn)
	assert.Equal(t, 100.0, s.MinPhiMn)
	assert.Equal(t, 200.0, s.MeanPhiMn)
	assert.Equal(t, 30.0, s.MaxPhiVn)
	assert.Equal(t, 10.0, s.MinPhiVn)
	assert.Equal(t, 20.0, s.MedianShear)
	assert.Equal(t, 1.5, s.MinMomentRatio)
	assert.Equal(t, 2.0, s.MinShearRatio)

	assert.Equal(t, Summary{}, summarize(nil))
	assert.True(t, math.IsInf(ratio(10, 0), 1))
	assert.Equal(t, 2.0, ratio(-20, 10))
}
