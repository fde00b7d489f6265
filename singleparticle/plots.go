package main

import (
	"fmt"
	"log"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/decibelcooper/caloreco"
)

// savePlots writes one PNG per non-empty histogram, named <prefix>_<hist>.png.
func savePlots(hs *caloreco.Hists, prefix string) error {
	for _, name := range hs.Names() {
		n, err := hs.Entries(name)
		if err != nil {
			return err
		}
		if n == 0 {
			log.Printf("%s: empty, not drawn", name)
			continue
		}

		output := prefix + "_" + name + ".png"
		if h := hs.H1D(name); h != nil {
			err = saveH1D(hs, name, h, output)
		} else {
			err = saveH2D(hs, name, hs.H2D(name), output)
		}
		if err != nil {
			return fmt.Errorf("could not save %s: %w", name, err)
		}
	}
	return nil
}

func newPlot(hs *caloreco.Hists, name string) (*plot.Plot, error) {
	p, err := plot.New()
	if err != nil {
		return nil, err
	}
	title, xlabel, ylabel := hs.Labels(name)
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.X.Tick.Marker = PreciseTicks{NSuggestedTicks: 5}
	p.Y.Tick.Marker = PreciseTicks{NSuggestedTicks: 5}
	return p, nil
}

func saveH1D(hs *caloreco.Hists, name string, h *hbook.H1D, output string) error {
	p, err := newPlot(hs, name)
	if err != nil {
		return err
	}

	hp := hplot.NewH1D(h)
	hp.Infos.Style = hplot.HInfoSummary
	p.Add(hp)

	return p.Save(6*vg.Inch, 4*vg.Inch, output)
}

func saveH2D(hs *caloreco.Hists, name string, h *caloreco.H2, output string) error {
	p, err := newPlot(hs, name)
	if err != nil {
		return err
	}

	zMax := maxZ(h)
	if zMax <= 0 {
		zMax = 1
	}
	colorMap := moreland.ExtendedBlackBody()
	colorMap.SetMin(0)
	colorMap.SetMax(zMax)
	heatMap := plotter.NewHeatMap(h, colorMap.Palette(255))
	heatMap.Min = 0
	heatMap.Max = zMax
	p.Add(heatMap)

	return p.Save(6*vg.Inch, 4*vg.Inch, output)
}

func maxZ(g plotter.GridXYZ) float64 {
	nx, ny := g.Dims()
	zMax := 0.0
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			if z := g.Z(i, j); z > zMax {
				zMax = z
			}
		}
	}
	return zMax
}
