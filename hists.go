package caloreco

import (
	"errors"
	"fmt"
	"math"

	"go-hep.org/x/hep/hbook"
)

// Histogram names.
const (
	HEnergyTotal      = "energyTotal"
	HEnergy           = "energy"
	HEnergyCorrected  = "energyCorrected"
	HEnergyPhi        = "energy_phi"
	HEta              = "eta"
	HPhi              = "phi"
	HEtaEta           = "eta_eta"
	HPhiPhi           = "phi_phi"
	HClusters         = "clusters"
	HClustersPhi      = "clusters_phi"
	HClustersEta      = "clusters_eta"
	HEnergyDuplicates = "energy_duplicates"
	HEnergyDiff       = "energy_diff"
	HEtaDuplicates    = "eta_duplicates"
	HEtaDiff          = "eta_diff"
	HPhiDuplicates    = "phi_duplicates"
	HPhiDiff          = "phi_diff"
	HRDiff            = "R_diff"
)

var ErrUnknownHist = errors.New("caloreco: unknown histogram")

const (
	nBinsEnergy = 99
	nBinsDEta   = 101
	nBinsDPhi   = 909
	nBinsDiff   = 101
	nBinsMult   = 7

	// true eta axis of eta_eta
	etaEtaRange = 1.8
)

// Binning holds the run parameters every axis is derived from.
type Binning struct {
	Energy float64 // beam energy (GeV)
	EtaMax float64
	NEta   int
	NPhi   int
	DEta   float64 // eta granularity
	DPhi   float64 // phi granularity
}

// H2 is a 2D histogram that can be scaled in place.
// It implements gonum's plotter.GridXYZ.
type H2 struct {
	*hbook.H2D
}

func newH2(nx int, xlow, xhigh float64, ny int, ylow, yhigh float64) *H2 {
	return &H2{H2D: hbook.NewH2D(nx, xlow, xhigh, ny, ylow, yhigh)}
}

// Scale multiplies every bin content by factor, outflows and totals
// included. Entry counts are unchanged.
func (h *H2) Scale(factor float64) {
	bng := &h.Binning
	for i := range bng.Bins {
		scaleDist2D(&bng.Bins[i].Dist, factor)
	}
	for i := range bng.Outflows {
		scaleDist2D(&bng.Outflows[i], factor)
	}
	scaleDist2D(&bng.Dist, factor)
}

func scaleDist2D(d *hbook.Dist2D, f float64) {
	for _, d1 := range []*hbook.Dist1D{&d.X, &d.Y} {
		d1.Dist.SumW *= f
		d1.Dist.SumW2 *= f * f
		d1.SumWX *= f
		d1.SumWX2 *= f
	}
	d.SumWXY *= f
}

func (h *H2) Dims() (int, int) {
	return h.GridXYZ().Dims()
}

func (h *H2) Z(i, j int) float64 {
	return h.GridXYZ().Z(i, j)
}

func (h *H2) X(i int) float64 {
	return h.GridXYZ().X(i)
}

func (h *H2) Y(j int) float64 {
	return h.GridXYZ().Y(j)
}

type histMeta struct {
	title  string
	xlabel string
	ylabel string
}

// Hists is the set of monitoring histograms of one run.
type Hists struct {
	energy float64
	names  []string
	h1     map[string]*hbook.H1D
	h2     map[string]*H2
	meta   map[string]histMeta
}

// NewHists books all histograms. Binning never changes afterwards.
func NewHists(b Binning) *Hists {
	hs := &Hists{
		energy: b.Energy,
		h1:     make(map[string]*hbook.H1D),
		h2:     make(map[string]*H2),
		meta:   make(map[string]histMeta),
	}
	e := b.Energy
	tag := fmt.Sprintf("(e-, %d GeV)", int(e))

	hs.book1(HEnergyTotal, nBinsEnergy, 0, 1.5*e,
		histMeta{"Energy of all clusters " + tag, "energy (GeV)", "fraction of events"})
	hs.book1(HEnergy, nBinsEnergy, 0, 1.5*e,
		histMeta{"Energy of clusters " + tag, "energy (GeV)", "fraction of events"})
	hs.book1(HEnergyCorrected, nBinsEnergy, 0, 1.5*e,
		histMeta{"Energy of clusters corrected for upstream energy " + tag, "energy (GeV)", "fraction of events"})
	hs.book2(HEnergyPhi, b.NPhi, -math.Pi, math.Pi, nBinsEnergy, 0.5*e, 1.5*e,
		histMeta{"Energy of clusters " + tag, "phi", "energy (GeV)"})
	hs.book1(HEta, nBinsDEta, -10*b.DEta, 10*b.DEta,
		histMeta{"Delta eta " + tag, "Delta eta", "fraction of events"})
	hs.book1(HPhi, nBinsDPhi, -100*b.DPhi, 100*b.DPhi,
		histMeta{"Delta phi " + tag, "Delta phi", "fraction of events"})
	hs.book2(HEtaEta, b.NEta, -etaEtaRange, etaEtaRange, nBinsDEta, -10*b.DEta, 10*b.DEta,
		histMeta{"Delta eta " + tag, "eta", "Delta eta"})
	hs.book2(HPhiPhi, b.NPhi, -math.Pi, math.Pi, nBinsDPhi, -100*b.DPhi, 100*b.DPhi,
		histMeta{"Delta phi " + tag, "phi", "Delta phi"})
	hs.book1(HClusters, nBinsMult, -0.5, 6.5,
		histMeta{"Number of clusters " + tag, "number of clusters per event", "fraction of events"})
	hs.book2(HClustersPhi, b.NPhi, -math.Pi, math.Pi, nBinsMult, -0.5, 7.5,
		histMeta{"Number of clusters " + tag, "phi", "number of clusters per event"})
	hs.book2(HClustersEta, b.NEta, -b.EtaMax, b.EtaMax, nBinsMult, -0.5, 7.5,
		histMeta{"Number of clusters " + tag, "eta", "number of clusters per event"})
	hs.book1(HEnergyDuplicates, nBinsEnergy, 0, 1.5*e,
		histMeta{"Energy of cluster duplicates " + tag, "E (GeV)", "number of clusters"})
	hs.book1(HEnergyDiff, nBinsDiff, 0, 1,
		histMeta{"Delta E/E for events with more than 1 cluster " + tag, "Delta E / E", "number of clusters"})
	hs.book1(HEtaDuplicates, b.NEta, -b.EtaMax, b.EtaMax,
		histMeta{"eta of cluster duplicates " + tag, "eta", "number of clusters"})
	hs.book1(HEtaDiff, nBinsDiff, -10*b.DEta, 10*b.DEta,
		histMeta{"Delta eta for events with more than 1 cluster " + tag, "Delta eta", "number of clusters"})
	hs.book1(HPhiDuplicates, b.NPhi, -math.Pi, math.Pi,
		histMeta{"phi of cluster duplicates " + tag, "phi", "number of clusters"})
	hs.book1(HPhiDiff, nBinsDiff, -2.1*math.Pi, 2.1*math.Pi,
		histMeta{"Delta phi for events with more than 1 cluster " + tag, "Delta phi", "number of clusters"})
	hs.book1(HRDiff, nBinsDiff, -200*b.DPhi, 200*b.DPhi,
		histMeta{"Delta R for events with more than 1 cluster " + tag, "Delta R", "number of clusters"})

	return hs
}

func (hs *Hists) book1(name string, n int, low, high float64, m histMeta) {
	h := hbook.NewH1D(n, low, high)
	h.Annotation()["name"] = name
	h.Annotation()["title"] = m.title
	hs.h1[name] = h
	hs.meta[name] = m
	hs.names = append(hs.names, name)
}

func (hs *Hists) book2(name string, nx int, xlow, xhigh float64, ny int, ylow, yhigh float64, m histMeta) {
	h := newH2(nx, xlow, xhigh, ny, ylow, yhigh)
	h.Annotation()["name"] = name
	h.Annotation()["title"] = m.title
	hs.h2[name] = h
	hs.meta[name] = m
	hs.names = append(hs.names, name)
}

// Names returns the histogram names in booking order.
func (hs *Hists) Names() []string {
	names := make([]string, len(hs.names))
	copy(names, hs.names)
	return names
}

// H1D returns the named 1D histogram, or nil.
func (hs *Hists) H1D(name string) *hbook.H1D {
	return hs.h1[name]
}

// H2D returns the named 2D histogram, or nil.
func (hs *Hists) H2D(name string) *H2 {
	return hs.h2[name]
}

// Labels returns the title and axis labels of the named histogram.
func (hs *Hists) Labels(name string) (title, xlabel, ylabel string) {
	m := hs.meta[name]
	return m.title, m.xlabel, m.ylabel
}

// Fill1D fills the named 1D histogram with x and weight w.
func (hs *Hists) Fill1D(name string, x, w float64) error {
	h, ok := hs.h1[name]
	if !ok {
		return fmt.Errorf("could not fill %q: %w", name, ErrUnknownHist)
	}
	h.Fill(x, w)
	return nil
}

// Fill2D fills the named 2D histogram with (x, y) and weight w.
func (hs *Hists) Fill2D(name string, x, y, w float64) error {
	h, ok := hs.h2[name]
	if !ok {
		return fmt.Errorf("could not fill %q: %w", name, ErrUnknownHist)
	}
	h.Fill(x, y, w)
	return nil
}

// Scale multiplies every bin of the named histogram by factor.
func (hs *Hists) Scale(name string, factor float64) error {
	if h, ok := hs.h1[name]; ok {
		h.Scale(factor)
		return nil
	}
	if h, ok := hs.h2[name]; ok {
		h.Scale(factor)
		return nil
	}
	return fmt.Errorf("could not scale %q: %w", name, ErrUnknownHist)
}

// Entries returns the number of fills of the named histogram.
func (hs *Hists) Entries(name string) (int64, error) {
	if h, ok := hs.h1[name]; ok {
		return h.Entries(), nil
	}
	if h, ok := hs.h2[name]; ok {
		return h.Entries(), nil
	}
	return 0, fmt.Errorf("could not count entries of %q: %w", name, ErrUnknownHist)
}
