package bench

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"slices"
	"strconv"
	"testing"
	"time"

	"github.com/ValentinKolb/plist/cmd/util"
	"github.com/ValentinKolb/plist/lib/common"
	"github.com/ValentinKolb/plist/lib/plist"
	"github.com/ValentinKolb/plist/lib/plist/metrics"
	"github.com/cockroachdb/errors"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// BenchCmd runs the performance tests
	BenchCmd = &cobra.Command{
		Use:     "bench",
		Short:   "Performance testing tool for partitioned indexes",
		RunE:    run,
		PreRunE: processBenchConfig,
	}
	benchKeys        = 1 << 20
	benchSampleEvery = 64
	benchSkip        = make([]string, 0)
)

func init() {
	util.SetupIndexFlags(BenchCmd)

	key := "skip"
	BenchCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. append,scan)"))
	key = "keys"
	BenchCmd.Flags().Int(key, 1<<20, util.WrapString("How many entries to add before the read benchmarks"))
	key = "sample-every"
	BenchCmd.Flags().Int(key, 64, util.WrapString("Record the latency of every n-th operation"))
	key = "csv"
	BenchCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processBenchConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	benchKeys = viper.GetInt("keys")
	benchSampleEvery = max(1, viper.GetInt("sample-every"))
	benchSkip = util.SplitList(viper.GetString("skip"))

	if benchKeys < 1 {
		return errors.Newf("--keys must be positive, got %d", benchKeys)
	}
	return nil
}

// --------------------------------------------------------------------------
// Benchmarks
// --------------------------------------------------------------------------

type index = plist.PartitionedSortedList[int64, int64]

// benchCase is a single performance test. op runs operation i against s.
type benchCase struct {
	name    string
	prefill bool
	op      func(s *index, i int, rng *rand.Rand) error
}

var cases = []benchCase{
	{
		name: "append",
		op: func(s *index, i int, _ *rand.Rand) error {
			return s.Add(int64(i), int64(i))
		},
	},
	{
		name:    "get",
		prefill: true,
		op: func(s *index, _ int, rng *rand.Rand) error {
			key := int64(rng.Intn(benchKeys)) * 2
			if _, ok := s.TryGetValue(key); !ok {
				return errors.Newf("key %d not found", key)
			}
			return nil
		},
	},
	{
		name:    "get-not",
		prefill: true,
		op: func(s *index, _ int, rng *rand.Rand) error {
			key := int64(rng.Intn(benchKeys))*2 + 1
			if s.ContainsKey(key) {
				return errors.Newf("key %d unexpectedly found", key)
			}
			return nil
		},
	},
	{
		name:    "set",
		prefill: true,
		op: func(s *index, i int, rng *rand.Rand) error {
			return s.Set(int64(rng.Intn(benchKeys))*2, int64(i))
		},
	},
	{
		name:    "scan",
		prefill: true,
		op: func(s *index, _ int, rng *rand.Rand) error {
			n := 0
			for range s.AscendFrom(int64(rng.Intn(benchKeys)) * 2) {
				if n++; n == 100 {
					break
				}
			}
			return nil
		},
	},
}

// result of a single benchmark
type result struct {
	name    string
	bench   testing.BenchmarkResult
	latency gometrics.Timer
	info    plist.IndexInfo
}

func (r result) skipped() bool {
	return r.bench.N == 0
}

func run(cmd *cobra.Command, _ []string) error {
	conf := util.GetToolConfig()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Performance testing tool for partitioned indexes")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Configuration:")
	fmt.Fprintln(out, conf.String())
	fmt.Fprintf(out, "Keys: %d\n\n", benchKeys)

	observer := metrics.NewObserver(conf.Name)
	registry := gometrics.NewRegistry()

	results := make([]result, 0, len(cases))
	for _, c := range cases {
		if slices.Contains(benchSkip, c.name) {
			r := result{name: c.name}
			results = append(results, r)
			printResult(out, r)
			continue
		}

		r, err := runCase(c, conf, observer, registry)
		if err != nil {
			return errors.Wrapf(err, "benchmark %s", c.name)
		}
		results = append(results, r)
		printResult(out, r)
	}

	if conf.Metrics {
		fmt.Fprintln(out)
		observer.WritePrometheus(out)
	}

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Fprintf(out, "\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, conf); err != nil {
			return errors.Wrap(err, "failed to export results to CSV")
		}
		fmt.Fprintln(out, "Export complete")
	}

	return nil
}

// runCase runs one benchmark. Every invocation by testing.Benchmark gets a fresh index.
func runCase(c benchCase, conf *common.ToolConfig, observer plist.Observer, registry gometrics.Registry) (result, error) {
	opts := conf.SortedOptions()
	opts.Observer = observer
	opts.SizeCache = sizes

	latency := gometrics.GetOrRegisterTimer(c.name, registry)
	var (
		runErr error
		last   *index
	)

	bench := testing.Benchmark(func(b *testing.B) {
		s, err := newIndex(opts)
		if err != nil {
			runErr = err
			return
		}
		if c.prefill {
			for i := 0; i < benchKeys; i++ {
				if err := s.Add(int64(i)*2, int64(i)); err != nil {
					runErr = err
					return
				}
			}
		}
		rng := rand.New(rand.NewSource(int64(b.N)))

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			var start time.Time
			sample := i%benchSampleEvery == 0
			if sample {
				start = time.Now()
			}
			if err := c.op(s, i, rng); err != nil {
				runErr = err
				b.FailNow()
			}
			if sample {
				latency.UpdateSince(start)
			}
		}
		b.StopTimer()
		last = s
	})
	if runErr != nil {
		return result{}, runErr
	}

	r := result{name: c.name, bench: bench, latency: latency}
	if last != nil {
		r.info = last.Info()
		util.Logger.Debugf("%s: final index\n%s", c.name, r.info)
	}
	return r, nil
}

func newIndex(opts *plist.SortedOptions) (*index, error) {
	return plist.NewPartitionedSortedList[int64, int64](cmp.Compare[int64], opts)
}

// sizes is shared by all benchmark runs
var sizes = plist.NewSizeCache()

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// printResult prints the result of a benchmark test in a formatted way
func printResult(out io.Writer, r result) {
	if r.skipped() {
		fmt.Fprintf(out, "%-12sskipped\n", r.name)
		return
	}

	nsPerOp := math.Max(float64(r.bench.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)
	ps := r.latency.Percentiles([]float64{0.5, 0.99})

	fmt.Fprintf(out, "%-12s%.0fns/op (%s/op)\t%.0f ops/sec\tp50 %s\tp99 %s\n",
		r.name, nsPerOp, time.Duration(nsPerOp), opsPerSec, time.Duration(ps[0]), time.Duration(ps[1]))
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results []result, conf *common.ToolConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return errors.Wrap(err, "failed to create CSV file")
	}
	defer file.Close()

	return writeResults(file, results, conf)
}

// writeResults writes benchmark results as CSV to w
func writeResults(w io.Writer, results []result, conf *common.ToolConfig) error {
	writer := csv.NewWriter(w)

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"P50Ns", "P99Ns", "Samples",
		"PartitionSize", "PartitionCount", "Partitions", "Keys",
	}
	if err := writer.Write(header); err != nil {
		return errors.Wrap(err, "failed to write CSV header")
	}

	for _, r := range results {
		row := []string{r.name, "0", "0s", "0", "true", "0", "0", "0", strconv.Itoa(conf.PartitionSize), strconv.Itoa(conf.PartitionCount), "0", strconv.Itoa(benchKeys)}

		if !r.skipped() {
			nsPerOp := math.Max(float64(r.bench.NsPerOp()), 1)
			ps := r.latency.Percentiles([]float64{0.5, 0.99})
			row[1] = fmt.Sprintf("%.0f", nsPerOp)
			row[2] = time.Duration(nsPerOp).String()
			row[3] = fmt.Sprintf("%.0f", 1.0/(nsPerOp/1e9))
			row[4] = "false"
			row[5] = fmt.Sprintf("%.0f", ps[0])
			row[6] = fmt.Sprintf("%.0f", ps[1])
			row[7] = strconv.FormatInt(r.latency.Count(), 10)
			row[8] = strconv.Itoa(r.info.MaxPartitionSize)
			row[10] = strconv.Itoa(r.info.Partitions)
		}

		if err := writer.Write(row); err != nil {
			return errors.Wrapf(err, "failed to write row for test %s", r.name)
		}
	}

	writer.Flush()
	return writer.Error()
}
