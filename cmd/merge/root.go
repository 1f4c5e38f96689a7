package merge

import (
	"context"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/ValentinKolb/plist/cmd/util"
	"github.com/ValentinKolb/plist/lib/common"
	"github.com/ValentinKolb/plist/lib/consolidate"
	"github.com/ValentinKolb/plist/lib/plist/metrics"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// MergeCmd merges sorted TSV runs into one index
var MergeCmd = &cobra.Command{
	Use:   "merge <run.tsv>...",
	Short: "Merge sorted runs into a partitioned index",
	Long: `Merge sorted runs into a partitioned index.

Every run is a file with one entry per line: the key, a tab, the value.
The key ends at the first tab, the rest of the line is the value. Both are
taken literally (no quoting, escaping or comment lines). Keys must be
strictly increasing (byte wise). Runs are given from oldest to newest;
for keys present in several runs the newest value wins.`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error { return util.BindCommandFlags(cmd) },
	RunE: func(cmd *cobra.Command, args []string) error {
		req := request{
			paths: args,
			gets:  util.SplitList(viper.GetString("get")),
			print: viper.GetBool("print"),
		}
		return runMerge(cmd.Context(), util.GetToolConfig(), req, cmd.OutOrStdout())
	},
}

func init() {
	util.SetupIndexFlags(MergeCmd)

	key := "get"
	MergeCmd.Flags().String(key, "", util.WrapString("Comma separated keys to look up in the merged index"))

	key = "tombstone"
	MergeCmd.Flags().String(key, "", util.WrapString("Value marking a deleted key. Winning entries with this value are dropped"))

	key = "print"
	MergeCmd.Flags().Bool(key, false, util.WrapString("Print the merged entries as TSV"))
}

// request holds the arguments of a merge invocation
type request struct {
	paths []string // runs, oldest first
	gets  []string // keys to look up after the merge
	print bool     // dump all merged entries
}

// runMerge merges the requested runs and writes a report to out
func runMerge(ctx context.Context, conf *common.ToolConfig, req request, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	opts := &consolidate.Options[string]{List: conf.SortedOptions()}
	if conf.Tombstone != "" {
		tombstone := conf.Tombstone
		opts.Tombstone = func(v string) bool { return v == tombstone }
	}

	var observer *metrics.Observer
	if conf.Metrics {
		observer = metrics.NewObserver(opts.List.Name)
		opts.List.Observer = observer
	}

	runs := make([]*tsvRun, len(req.paths))
	seqs := make([]iter.Seq2[string, string], len(req.paths))
	for i, path := range req.paths {
		runs[i] = newTSVRun(path)
		seqs[i] = runs[i].All()
	}

	util.Logger.Infof("merging %d runs", len(req.paths))
	list, res, err := consolidate.Merge(ctx, strings.Compare, seqs, opts)
	for _, run := range runs {
		if runErr := run.Err(); runErr != nil {
			return runErr
		}
	}
	if err != nil {
		return errors.Wrap(err, "merge failed")
	}

	fmt.Fprintf(out, "Merged %d runs: %s\n", len(req.paths), res)
	fmt.Fprint(out, list.Info().String())

	if len(req.gets) > 0 {
		fmt.Fprintln(out)
		for _, key := range req.gets {
			if value, ok := list.TryGetValue(key); ok {
				fmt.Fprintf(out, "%s\t%s\n", key, value)
			} else {
				fmt.Fprintf(out, "%s\t<not found>\n", key)
			}
		}
	}

	if req.print {
		fmt.Fprintln(out)
		for k, v := range list.All() {
			fmt.Fprintf(out, "%s\t%s\n", k, v)
		}
	}

	if observer != nil {
		fmt.Fprintln(out)
		observer.WritePrometheus(out)
	}
	return nil
}
