package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/pkg/profile"
	"github.com/proio-org/go-proio"
	"go-hep.org/x/hep/lcio"

	"github.com/decibelcooper/caloreco"
)

var def = caloreco.DefaultConfig()

var (
	clusterColl  = flag.String("clusters", def.ClusterColl, "name of the reconstructed cluster collection")
	particleColl = flag.String("particles", def.ParticleColl, "name of the generated particle collection (tag in a proio truth file)")
	hitColl      = flag.String("hits", def.HitColl, "name of the positioned calorimeter hit collection")
	energy       = flag.Float64("energy", def.Energy, "beam energy (GeV)")
	etaMax       = flag.Float64("etamax", def.EtaMax, "maximum absolute value of eta")
	nBinsEta     = flag.Int("nbinseta", def.NEta, "number of bins in eta")
	nBinsPhi     = flag.Int("nbinsphi", def.NPhi, "number of bins in phi")
	dEta         = flag.Float64("deta", def.DEta, "eta granularity")
	dPhi         = flag.Float64("dphi", def.DPhi, "phi granularity")
	firstLayer   = flag.Int("firstlayer", def.FirstLayerID, "id of the first calorimeter layer")
	nFirstLayers = flag.Int("nfirstlayers", def.FirstLayerCount, "number of layers making up the first layer")
	verbose      = flag.Bool("v", false, "print every particle and cluster")
	maxEvents    = flag.Int("n", -1, "maximum number of events to process (-1: all)")
	nThreads     = flag.Int("t", 2, "number of concurrent files to process")
	truthFile    = flag.String("truth", "", "proio file holding the generated particles, read in step with a single LCIO input")
	prefix       = flag.String("prefix", "out", "output file prefix")
	doProfile    = flag.Bool("profile", false, "write a CPU profile to the current directory")

	upstream caloreco.UpstreamFlag
)

func init() {
	flag.Var(&upstream, "upstream", "upstream correction fit parameters p0p0,p0p1,p1p0,p1p1 (enables the correction)")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: `+os.Args[0]+` [options] <lcio-input-files>...

options:
`,
	)
	flag.PrintDefaults()
}

func main() {
	log.SetPrefix("singleparticle: ")
	log.SetFlags(0)

	flag.Usage = printUsage
	flag.Parse()
	if flag.NArg() < 1 {
		printUsage()
		log.Fatal("Invalid arguments")
	}
	if *truthFile != "" && flag.NArg() != 1 {
		printUsage()
		log.Fatal("a proio truth file pairs with exactly one LCIO input")
	}

	if *doProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	cfg, err := config()
	if err != nil {
		log.Fatal(err)
	}
	mon, err := caloreco.NewMonitor(cfg)
	if err != nil {
		log.Fatal(err)
	}

	stop := make(chan struct{})
	var events <-chan caloreco.Event
	if *truthFile != "" {
		events = scanPaired(flag.Arg(0), *truthFile, cfg, stop)
	} else {
		scan := func(fname string, events chan<- caloreco.Event, stop <-chan struct{}) error {
			return scanLCIO(fname, cfg, events, stop)
		}
		events = scanFiles(flag.Args(), *nThreads, scan, stop)
	}

	nEvents := 0
	for evt := range events {
		if *maxEvents >= 0 && nEvents >= *maxEvents {
			break
		}
		mon.ProcessEvent(evt)
		nEvents++
	}
	close(stop)

	if err := mon.FinishRun(nEvents); err != nil {
		log.Print(err)
	}
	log.Printf("events: %d", nEvents)
	for _, st := range []caloreco.Status{caloreco.StatusNoParticle, caloreco.StatusNoHits, caloreco.StatusNoClusters} {
		if n := mon.Count(st); n > 0 {
			log.Printf("skipped (%v): %d", st, n)
		}
	}

	if err := savePlots(mon.Hists(), *prefix); err != nil {
		log.Fatal(err)
	}
}

func config() (caloreco.Config, error) {
	cfg := caloreco.Config{
		ClusterColl:     *clusterColl,
		ParticleColl:    *particleColl,
		HitColl:         *hitColl,
		Energy:          *energy,
		EtaMax:          *etaMax,
		NEta:            *nBinsEta,
		NPhi:            *nBinsPhi,
		DEta:            *dEta,
		DPhi:            *dPhi,
		FirstLayerID:    *firstLayer,
		FirstLayerCount: *nFirstLayers,
		Verbose:         *verbose,
	}
	corr, err := upstream.Correction()
	if err != nil {
		return cfg, err
	}
	cfg.Upstream = corr
	return cfg, cfg.Validate()
}

// scanFunc sends the events of one file until the file ends or stop is closed.
type scanFunc func(fname string, events chan<- caloreco.Event, stop <-chan struct{}) error

// scanFiles reads up to nThreads LCIO files concurrently and funnels their
// events into a single channel. No new file is opened once stop is closed.
func scanFiles(fnames []string, nThreads int, scan scanFunc, stop <-chan struct{}) <-chan caloreco.Event {
	if nThreads < 1 {
		nThreads = 1
	}
	if nThreads > len(fnames) {
		nThreads = len(fnames)
	}
	events := make(chan caloreco.Event)
	queue := make(chan string)

	go func() {
		defer close(queue)
		for _, fname := range fnames {
			select {
			case queue <- fname:
			case <-stop:
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < nThreads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for fname := range queue {
				select {
				case <-stop:
					continue
				default:
				}
				if err := scan(fname, events, stop); err != nil {
					log.Fatal(err)
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(events)
	}()
	return events
}

func scanLCIO(fname string, cfg caloreco.Config, events chan<- caloreco.Event, stop <-chan struct{}) error {
	r, err := lcio.Open(fname)
	if err != nil {
		return fmt.Errorf("could not open %q: %w", fname, err)
	}
	defer r.Close()

	for r.Next() {
		levt := r.Event()
		evt := caloreco.Detach(caloreco.LCIOEvent(&levt), cfg)
		select {
		case events <- evt:
		case <-stop:
			return nil
		}
	}

	err = r.Err()
	if err != nil && err != io.EOF {
		return fmt.Errorf("could not read %q: %w", fname, err)
	}
	return nil
}

// scanPaired reads the generated particles from a proio file and everything
// else from an LCIO file, event by event.
func scanPaired(lcioName, proioName string, cfg caloreco.Config, stop <-chan struct{}) <-chan caloreco.Event {
	events := make(chan caloreco.Event)
	go func() {
		defer close(events)

		truth, err := proio.Open(proioName)
		if err != nil {
			log.Fatalf("could not open %q: %v", proioName, err)
		}
		defer truth.Close()
		truthEvents := truth.ScanEvents()

		r, err := lcio.Open(lcioName)
		if err != nil {
			log.Fatalf("could not open %q: %v", lcioName, err)
		}
		defer r.Close()

		for r.Next() {
			pevt, ok := <-truthEvents
			if !ok {
				log.Printf("%q has fewer events than %q", proioName, lcioName)
				return
			}
			levt := r.Event()
			reco := caloreco.LCIOEvent(&levt)
			evt := caloreco.Detach(caloreco.Event{
				Number: reco.Number,
				Truth:  caloreco.MultiStore{caloreco.NewProioTruth(pevt), reco.Truth},
				Reco:   reco.Reco,
			}, cfg)

			select {
			case events <- evt:
			case <-stop:
				return
			}
		}
		if err := r.Err(); err != nil && err != io.EOF {
			log.Fatalf("could not read %q: %v", lcioName, err)
		}
	}()
	return events
}
