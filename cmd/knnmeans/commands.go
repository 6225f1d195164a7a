package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strconv"
	"strings"

	"github.com/hupe1980/knnmeans"
	"github.com/hupe1980/knnmeans/codec"
	"github.com/hupe1980/knnmeans/condense"
	"github.com/hupe1980/knnmeans/dataset"
	"github.com/hupe1980/knnmeans/distance"
	"github.com/hupe1980/knnmeans/model"
	"github.com/hupe1980/knnmeans/render"
)

// quickTrainingLimit truncates the training set in -quick cluster runs.
const quickTrainingLimit = 100

type cli struct {
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
}

// common holds the flags every subcommand accepts.
type common struct {
	metric   string
	logLevel string
	logJSON  bool
	format   string
	dim      int
	seed     int64
	workers  int
}

func (c *cli) flagSet(name string) (*flag.FlagSet, *common) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)

	cm := &common{}
	fs.StringVar(&cm.metric, "metric", "euclidean", "Distance metric (euclidean, manhattan)")
	fs.StringVar(&cm.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	fs.BoolVar(&cm.logJSON, "log-json", false, "Log as JSON")
	fs.StringVar(&cm.format, "format", "text", "Report format (text, json)")
	fs.IntVar(&cm.dim, "dim", model.Dimension, "Record dimension (0 infers it from the first record)")
	fs.Int64Var(&cm.seed, "seed", 0, "Random seed (0 seeds from the clock)")
	fs.IntVar(&cm.workers, "workers", runtime.NumCPU(), "Concurrent classification workers")
	return fs, cm
}

func (cm *common) runner(stderr io.Writer, extra ...knnmeans.Option) (*knnmeans.Runner, error) {
	metric, err := distance.ParseMetric(cm.metric)
	if err != nil {
		return nil, err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cm.logLevel)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", cm.logLevel, err)
	}
	if cm.format != "text" && cm.format != "json" {
		return nil, fmt.Errorf("unknown format %q", cm.format)
	}

	hopts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(stderr, hopts)
	if cm.logJSON {
		handler = slog.NewJSONHandler(stderr, hopts)
	}

	opts := []knnmeans.Option{
		knnmeans.WithLogger(knnmeans.NewLogger(handler)),
		knnmeans.WithMetric(metric),
		knnmeans.WithWorkers(cm.workers),
		knnmeans.WithDimension(cm.dim),
	}
	if cm.seed != 0 {
		opts = append(opts, knnmeans.WithSeed(cm.seed))
	}
	return knnmeans.New(append(opts, extra...)...), nil
}

// report writes v as JSON, or its String form for the text format.
func (cm *common) report(w io.Writer, v fmt.Stringer) error {
	if cm.format == "json" {
		return codec.Default.Encode(w, v)
	}
	_, err := io.WriteString(w, v.String())
	return err
}

func parseKs(s string) ([]int, error) {
	var ks []int
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		k, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("k list %q: %w", s, err)
		}
		ks = append(ks, k)
	}
	if len(ks) == 0 {
		return nil, fmt.Errorf("k list %q: %w", s, knnmeans.ErrInvalidK)
	}
	return ks, nil
}

func required(fs *flag.FlagSet, names ...string) error {
	for _, name := range names {
		if fs.Lookup(name).Value.String() == "" {
			return fmt.Errorf("%s: -%s is required", fs.Name(), name)
		}
	}
	return nil
}

func (c *cli) load(ctx context.Context, r *knnmeans.Runner, raw string, optFns ...func(*dataset.Options)) ([]*model.LabeledVector, error) {
	loc, err := parseLocation(raw)
	if err != nil {
		return nil, err
	}
	store, name, err := loc.open(ctx, c.getenv)
	if err != nil {
		return nil, err
	}
	r.Logger().Debug("loading dataset", "location", loc.String())
	return r.Load(ctx, store, name, optFns...)
}

func (c *cli) sink(ctx context.Context, raw string) (condense.Sink, error) {
	loc, err := parseLocation(raw)
	if err != nil {
		return nil, err
	}
	store, name, err := loc.open(ctx, c.getenv)
	if err != nil {
		return nil, err
	}
	return dataset.BlobSink{Store: store, Name: name}, nil
}

func (c *cli) put(ctx context.Context, raw string, data []byte) error {
	loc, err := parseLocation(raw)
	if err != nil {
		return err
	}
	store, name, err := loc.open(ctx, c.getenv)
	if err != nil {
		return err
	}
	return store.Put(ctx, name, data)
}

func (c *cli) classify(ctx context.Context, args []string) error {
	fs, cm := c.flagSet("classify")
	train := fs.String("train", "", "Training set location")
	test := fs.String("test", "", "Test set location")
	ks := fs.String("k", "1,3,5,7", "Comma-separated neighbor counts")
	condensed := fs.Bool("condense", false, "Condense the training set before classifying")
	out := fs.String("out", "", "Persist the condensed training set here (implies -condense)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "train", "test"); err != nil {
		return err
	}

	kList, err := parseKs(*ks)
	if err != nil {
		return err
	}
	r, err := cm.runner(c.stderr)
	if err != nil {
		return err
	}

	training, err := c.load(ctx, r, *train)
	if err != nil {
		return err
	}
	samples, err := c.load(ctx, r, *test)
	if err != nil {
		return err
	}

	if *condensed || *out != "" {
		var sink condense.Sink
		if *out != "" {
			if sink, err = c.sink(ctx, *out); err != nil {
				return err
			}
		}
		res, err := r.Condense(ctx, training, sink)
		if err != nil {
			return err
		}
		training = res.Set
	}

	report, err := r.Classify(ctx, training, samples, kList)
	if err != nil {
		return err
	}
	return cm.report(c.stdout, report)
}

type condenseReport struct {
	*knnmeans.CondenseResult
	Out string `json:"out"`
}

func (r condenseReport) String() string {
	return fmt.Sprintf("condensed %d of %d vectors in %d passes to %s\n", r.Condensed, r.Training, r.Passes, r.Out)
}

func (c *cli) condense(ctx context.Context, args []string) error {
	fs, cm := c.flagSet("condense")
	train := fs.String("train", "", "Training set location")
	out := fs.String("out", "", "Condensed set location")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "train", "out"); err != nil {
		return err
	}

	r, err := cm.runner(c.stderr)
	if err != nil {
		return err
	}
	training, err := c.load(ctx, r, *train)
	if err != nil {
		return err
	}
	sink, err := c.sink(ctx, *out)
	if err != nil {
		return err
	}

	// The condensed set is written even when interrupted.
	res, err := r.Condense(ctx, training, sink)
	if err != nil {
		return err
	}
	return cm.report(c.stdout, condenseReport{CondenseResult: res, Out: *out})
}

func (c *cli) cluster(ctx context.Context, args []string) error {
	fs, cm := c.flagSet("cluster")
	train := fs.String("train", "", "Training set location")
	ks := fs.String("k", "5,7,9,10,12,15", "Comma-separated cluster counts")
	iterations := fs.Int("iterations", 50, "K-means iterations")
	quick := fs.Bool("quick", false, "Reduced time: 100 training records and small quality samples")
	cSamples := fs.Int("c-samples", 0, "C-index sample size (0 uses the default)")
	gkSamples := fs.Int("gk-samples", 0, "Goodman-Kruskal sample size (0 uses the default)")
	centers := fs.String("centers", "", "Write a PNG of the cluster centers of the last k here")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "train"); err != nil {
		return err
	}

	kList, err := parseKs(*ks)
	if err != nil {
		return err
	}
	r, err := cm.runner(c.stderr,
		knnmeans.WithReducedTime(*quick),
		knnmeans.WithQualitySamples(*cSamples, *gkSamples),
	)
	if err != nil {
		return err
	}

	var loadOpts []func(*dataset.Options)
	if *quick {
		loadOpts = append(loadOpts, dataset.WithLimit(quickTrainingLimit))
	}
	training, err := c.load(ctx, r, *train, loadOpts...)
	if err != nil {
		return err
	}

	side := 0
	if *centers != "" {
		if side = render.SideLength(training[0].Dim()); side == 0 {
			return fmt.Errorf("%w: -centers needs a square record dimension, got %d", errUsage, training[0].Dim())
		}
	}

	report, err := r.Cluster(ctx, training, kList, *iterations)
	if err != nil {
		return err
	}

	if *centers != "" && len(report.Runs) > 0 {
		last := report.Runs[len(report.Runs)-1]
		vs := make([][]float64, len(last.Clusters))
		for i, cl := range last.Clusters {
			vs[i] = cl.Center
		}
		var buf bytes.Buffer
		if err := render.GridPNG(&buf, vs, side, 0); err != nil {
			return err
		}
		if err := c.put(ctx, *centers, buf.Bytes()); err != nil {
			return err
		}
	}

	return cm.report(c.stdout, report)
}

func (c *cli) render(ctx context.Context, args []string) error {
	fs, cm := c.flagSet("render")
	in := fs.String("in", "", "Dataset location")
	index := fs.Int("index", 0, "Record index (0-based)")
	out := fs.String("out", "", "PNG output location")
	width := fs.Int("width", 0, "Image width (0 uses the square root of the dimension)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "in", "out"); err != nil {
		return err
	}
	if *index < 0 {
		return fmt.Errorf("render: -index must not be negative")
	}

	r, err := cm.runner(c.stderr)
	if err != nil {
		return err
	}
	vs, err := c.load(ctx, r, *in, dataset.WithLimit(*index+1))
	if err != nil {
		return err
	}
	if *index >= len(vs) {
		return fmt.Errorf("render: record %d out of range (%d records)", *index, len(vs))
	}
	v := vs[*index]

	w := *width
	if w == 0 {
		w = render.SideLength(v.Dim())
	}

	var buf bytes.Buffer
	if err := render.PNG(&buf, v.Vector, w); err != nil {
		return err
	}
	if err := c.put(ctx, *out, buf.Bytes()); err != nil {
		return err
	}

	r.Logger().InfoContext(ctx, "rendered record", "index", *index, "label", v.Label, "out", *out)
	return nil
}
