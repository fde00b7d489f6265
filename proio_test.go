package caloreco

import (
	"math"
	"testing"

	"github.com/golang/protobuf/proto"
	"github.com/proio-org/go-proio"
	"github.com/proio-org/go-proio-pb/model/eic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProioEvent() *proio.Event {
	evt := proio.NewEvent()
	evt.AddEntry("GenStable", &eic.Particle{
		Pdg:    proto.Int32(11),
		Vertex: &eic.XYZTD{X: proto.Float64(0.5), Y: proto.Float64(0), Z: proto.Float64(-1)},
		P:      &eic.XYZF{X: proto.Float32(0), Y: proto.Float32(6), Z: proto.Float32(8)},
		Mass:   proto.Float32(0.5),
	})
	// no vertex
	evt.AddEntry("GenStable", &eic.Particle{
		P: &eic.XYZF{X: proto.Float32(1)},
	})
	evt.AddEntry("Tracks", &eic.Track{})
	return evt
}

func TestProioParticles(t *testing.T) {
	s := NewProioTruth(newProioEvent())

	parts, ok := s.Particles("GenStable")
	require.True(t, ok)
	require.Len(t, parts, 2)

	p := parts[0]
	assert.Equal(t, Vec3{X: 0.5, Z: -1}, p.Vertex)
	assert.Equal(t, Vec3{Y: 6, Z: 8}, p.Momentum())
	assert.InDelta(t, 0.5, p.Mass, 1e-7)
	assert.InDelta(t, 10.0125, p.P4.E(), 1e-4)
	assert.InDelta(t, math.Pi/2, p.Phi(), 1e-12)

	assert.Equal(t, Vec3{}, parts[1].Vertex)
	assert.Equal(t, Vec3{X: 1}, parts[1].Momentum())
}

func TestProioMissingCollections(t *testing.T) {
	s := NewProioTruth(newProioEvent())

	_, ok := s.Particles("GenParticles")
	assert.False(t, ok)

	// entries of another type are skipped
	parts, ok := s.Particles("Tracks")
	assert.True(t, ok)
	assert.Empty(t, parts)

	_, ok = s.Clusters("GenStable")
	assert.False(t, ok)
	_, ok = s.Hits("GenStable")
	assert.False(t, ok)
}

func TestProioTruthWithLCIOReco(t *testing.T) {
	cfg := testConfig()
	cfg.ParticleColl = "GenStable"

	reco := LCIOEvent(newLCIOEvent())
	evt := Detach(Event{
		Number: reco.Number,
		Truth:  MultiStore{NewProioTruth(newProioEvent()), reco.Truth},
		Reco:   reco.Reco,
	}, cfg)

	parts, ok := evt.Truth.Particles("GenStable")
	require.True(t, ok)
	assert.Len(t, parts, 2)

	m, _ := newTestMonitor(t, cfg)
	assert.Equal(t, StatusOK, m.ProcessEvent(evt))
	assert.Equal(t, int64(1), entries(t, m.Hists(), HEnergy))
}
