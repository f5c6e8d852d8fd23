package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/fatih/color"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/jpl-au/kmerbloom"
)

const defaultOutput = "Requests.txt"

type options struct {
	scheme   string
	output   string
	format   string
	seed     uint64
	logLevel string
	progress bool
	stats    bool
	color    string
}

// args holds the positional arguments once parsed.
type args struct {
	path    string
	config  kmerbloom.Config
	queries uint64
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "kmerbloom <file> <k> <filterSizeBits> <hashCount> <randomQueryCount>",
		Short: "Index the k-mers of a FASTA file in a Bloom filter and query it",
		Long: `kmerbloom streams a single-record FASTA file (plain, gzip or zstd),
inserts the canonical hash of every k-mer into a Bloom filter of
filterSizeBits bits using hashCount positions per k-mer, then queries
randomQueryCount uniformly random k-mers and writes one line per query.

Line breaks and N are skipped in the sequence body.`,
		Args:          cobra.ExactArgs(5),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, argv []string) error {
			a, err := parseArgs(argv, opts.scheme)
			if err != nil {
				return err
			}
			// Arguments are well formed from here on; failures are not usage errors.
			cmd.SilenceUsage = true
			return run(cmd, a, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.scheme, "scheme", "chained", "bit position scheme: chained or double")
	f.StringVarP(&opts.output, "output", "o", defaultOutput, `report file, "-" for standard output`)
	f.StringVar(&opts.format, "format", "text", "report format: text or json")
	f.Uint64Var(&opts.seed, "seed", 0, "random query seed (0 picks one from the clock)")
	f.StringVar(&opts.logLevel, "log-level", "INFO", "log level (DEBUG, INFO, NOOP)")
	f.BoolVar(&opts.progress, "progress", false, "show a progress bar while reading the file")
	f.BoolVar(&opts.stats, "stats", false, "write a JSON summary of the filter to stderr")
	f.StringVar(&opts.color, "color", "auto", "colour the text report: auto, always or never")
	return cmd
}

func parseArgs(argv []string, scheme string) (args, error) {
	k, err := strconv.Atoi(argv[1])
	if err != nil {
		return args{}, fmt.Errorf("k: %w", err)
	}
	size, err := strconv.ParseUint(argv[2], 10, 64)
	if err != nil {
		return args{}, fmt.Errorf("filterSizeBits: %w", err)
	}
	hashCount, err := strconv.ParseUint(argv[3], 10, 64)
	if err != nil {
		return args{}, fmt.Errorf("hashCount: %w", err)
	}
	queries, err := strconv.ParseUint(argv[4], 10, 64)
	if err != nil {
		return args{}, fmt.Errorf("randomQueryCount: %w", err)
	}
	s, err := kmerbloom.ParseScheme(scheme)
	if err != nil {
		return args{}, err
	}
	cfg := kmerbloom.Config{K: k, Size: size, HashCount: hashCount, Scheme: s}
	if err := cfg.Validate(); err != nil {
		return args{}, err
	}
	return args{path: argv[0], config: cfg, queries: queries}, nil
}

func run(cmd *cobra.Command, a args, opts options) error {
	format, err := kmerbloom.ParseReportFormat(opts.format)
	if err != nil {
		return err
	}

	logger.New(opts.logLevel)
	defer logger.OnExit()
	log := logger.Sugar.WithServiceName("kmerbloom")

	ix, err := kmerbloom.New(a.config)
	if err != nil {
		return err
	}

	log.Infof("Running: file=%s k=%d size=%d hashCount=%d scheme=%s",
		a.path, a.config.K, a.config.Size, a.config.HashCount, ix.Filter().Scheme())

	var bar *pb.ProgressBar
	var srcOpts *kmerbloom.SourceOptions
	if opts.progress {
		srcOpts = &kmerbloom.SourceOptions{Tap: func(r io.Reader, size int64) io.Reader {
			bar = pb.New64(size).SetTemplate(pb.Full).SetWriter(cmd.ErrOrStderr())
			bar.Set(pb.Bytes, true)
			bar.Start()
			return bar.NewProxyReader(r)
		}}
	}
	st, err := ix.IngestFile(a.path, srcOpts)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}
	log.Infof("End of file. %d elements added (%d bases, %s, %v)", st.Kmers, st.Bases, st.Compression, st.Elapsed)

	seed := opts.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	results, err := ix.RandomQueries(rng, a.queries)
	if err != nil {
		return err
	}

	out, colorize, closeOut, err := openOutput(cmd, opts)
	if err != nil {
		return err
	}
	if err := kmerbloom.WriteReport(out, results, kmerbloom.ReportOptions{Format: format, Color: colorize}); err != nil {
		closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return err
	}
	log.Infof("%d random requests written to %s (seed %d)", len(results), opts.output, seed)

	if opts.stats {
		return writeSummary(cmd.ErrOrStderr(), ix, st)
	}
	return nil
}

// openOutput resolves the report destination and whether to colour it.
func openOutput(cmd *cobra.Command, opts options) (io.Writer, bool, func() error, error) {
	if opts.output == "-" {
		colorize := opts.color == "always" || (opts.color == "auto" && !color.NoColor)
		return cmd.OutOrStdout(), colorize, func() error { return nil }, nil
	}
	f, err := os.Create(opts.output)
	if err != nil {
		return nil, false, nil, err
	}
	return f, opts.color == "always", f.Close, nil
}

type summary struct {
	kmerbloom.Stats
	K            int     `json:"k"`
	Size         uint64  `json:"size"`
	HashCount    uint64  `json:"hash_count"`
	Scheme       string  `json:"scheme"`
	SetBits      uint64  `json:"set_bits"`
	FillRatio    float64 `json:"fill_ratio"`
	EstimatedFPR float64 `json:"estimated_fpr"`
	Digest       string  `json:"digest"`
}

func writeSummary(w io.Writer, ix *kmerbloom.Index, st kmerbloom.Stats) error {
	f := ix.Filter()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summary{
		Stats:        st,
		K:            ix.Config().K,
		Size:         f.Size(),
		HashCount:    f.HashCount(),
		Scheme:       f.Scheme().String(),
		SetBits:      f.Count(),
		FillRatio:    f.FillRatio(),
		EstimatedFPR: f.FalsePositiveRate(st.Kmers),
		Digest:       f.Digest(),
	})
}
