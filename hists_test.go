package caloreco

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-hep.org/x/hep/hbook"
)

func TestHistsBooking(t *testing.T) {
	cfg := testConfig()
	hs := NewHists(cfg.Binning())

	names := hs.Names()
	require.Len(t, names, 18)
	assert.Equal(t, HEnergyTotal, names[0])
	assert.Equal(t, HRDiff, names[len(names)-1])

	n2 := 0
	for _, name := range names {
		n, err := hs.Entries(name)
		require.NoError(t, err, name)
		assert.Zero(t, n, name)
		if hs.H2D(name) != nil {
			n2++
			assert.Nil(t, hs.H1D(name), name)
		}
		title, xlabel, ylabel := hs.Labels(name)
		assert.Contains(t, title, "(e-, 10 GeV)", name)
		assert.NotEmpty(t, xlabel, name)
		assert.NotEmpty(t, ylabel, name)
	}
	assert.Equal(t, 5, n2)
}

func TestHistsAxes(t *testing.T) {
	b := Binning{Energy: 20, EtaMax: 1.5, NEta: 30, NPhi: 64, DEta: 0.01, DPhi: 0.02}
	hs := NewHists(b)

	for _, tc := range []struct {
		name      string
		low, high float64
	}{
		{HEnergyTotal, 0, 30},
		{HEnergy, 0, 30},
		{HEta, -0.1, 0.1},
		{HPhi, -2, 2},
		{HClusters, -0.5, 6.5},
		{HEnergyDiff, 0, 1},
		{HEtaDuplicates, -1.5, 1.5},
		{HPhiDuplicates, -math.Pi, math.Pi},
		{HPhiDiff, -2.1 * math.Pi, 2.1 * math.Pi},
		{HRDiff, -4, 4},
	} {
		h := hs.H1D(tc.name)
		require.NotNil(t, h, tc.name)
		assert.InDelta(t, tc.low, h.XMin(), 1e-12, tc.name)
		assert.InDelta(t, tc.high, h.XMax(), 1e-12, tc.name)
	}

	nx, ny := hs.H2D(HClustersEta).Dims()
	assert.Equal(t, 30, nx)
	assert.Equal(t, 7, ny)
	nx, ny = hs.H2D(HPhiPhi).Dims()
	assert.Equal(t, 64, nx)
	assert.Equal(t, 909, ny)
}

func TestHistsUnknown(t *testing.T) {
	hs := NewHists(testConfig().Binning())

	_, err := hs.Entries("nope")
	assert.ErrorIs(t, err, ErrUnknownHist)
	assert.ErrorIs(t, hs.Scale("nope", 2), ErrUnknownHist)
	assert.ErrorIs(t, hs.Fill1D("nope", 1, 1), ErrUnknownHist)
	assert.ErrorIs(t, hs.Fill2D("nope", 1, 1, 1), ErrUnknownHist)

	// names of the other rank
	assert.ErrorIs(t, hs.Fill1D(HClustersPhi, 1, 1), ErrUnknownHist)
	assert.ErrorIs(t, hs.Fill2D(HEnergy, 1, 1, 1), ErrUnknownHist)
	n, err := hs.Entries(HClustersPhi)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Nil(t, hs.H1D("nope"))
	assert.Nil(t, hs.H2D("nope"))
}

func TestHistsScale(t *testing.T) {
	hs := NewHists(testConfig().Binning())

	require.NoError(t, hs.Fill1D(HEnergy, 5, 1))
	require.NoError(t, hs.Fill1D(HEnergy, 6, 3))
	require.NoError(t, hs.Scale(HEnergy, 0.25))
	assert.InDelta(t, 1, hs.H1D(HEnergy).SumW(), 1e-12)
	n, err := hs.Entries(HEnergy)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, hs.Fill2D(HClustersPhi, 0.1, 2, 2))
	require.NoError(t, hs.Fill2D(HClustersPhi, -0.1, 1, 2))
	require.NoError(t, hs.Scale(HClustersPhi, 0.5))
	require.NoError(t, hs.Scale(HClustersPhi, 0.5))

	h := hs.H2D(HClustersPhi)
	assert.InDelta(t, 1, h.SumW(), 1e-12)
	assert.InDelta(t, 1, h.Integral(), 1e-12)
	assert.InDelta(t, 0.5, h.SumW2(), 1e-12)

	nx, ny := h.Dims()
	sum := 0.0
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			sum += h.Z(i, j)
		}
	}
	assert.InDelta(t, 1, sum, 1e-12)
	assert.Equal(t, int64(2), h.Entries())
}

func TestH2ScaleInPlace(t *testing.T) {
	h := newH2(4, 0, 4, 2, 0, 2)
	h.Fill(0.5, 0.5, 1)
	h.Fill(2.5, 1.5, 1)
	h.Fill(10, 10, 1) // overflow
	h.Scale(0.5)

	assert.InDelta(t, 1.5, h.SumW(), 1e-12)
	assert.InDelta(t, 1.5, h.Integral(), 1e-12)
	assert.InDelta(t, 0.75, h.SumW2(), 1e-12)
	assert.InDelta(t, 0.5*(0.5+2.5+10), h.SumWX(), 1e-12)
	assert.InDelta(t, 0.5*(0.5*0.5+2.5*1.5+10*10), h.SumWXY(), 1e-12)
	assert.InDelta(t, 0.5, h.Z(0, 0), 1e-12)
	assert.InDelta(t, 0.5, h.Z(2, 1), 1e-12)
	assert.InDelta(t, 0.5, h.GridXYZ().Z(2, 1), 1e-12)
	assert.InDelta(t, 0.5, h.Binning.Outflows[hbook.BngNE-1].SumW(), 1e-12)
	assert.Equal(t, int64(3), h.Entries())

	data, err := h.MarshalYODA()
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Volume: 1.500000e+00")

	// fills after scaling keep their own weight
	h.Fill(0.5, 0.5, 1)
	assert.InDelta(t, 1.5, h.Z(0, 0), 1e-12)
	assert.InDelta(t, 2.5, h.Integral(), 1e-12)
}
