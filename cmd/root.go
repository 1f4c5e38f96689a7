package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/plist/cmd/bench"
	"github.com/ValentinKolb/plist/cmd/merge"
	"github.com/ValentinKolb/plist/cmd/util"
	"github.com/ValentinKolb/plist/lib/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "plist",
		Short: "partitioned sorted index tooling",
		Long: fmt.Sprintf(`plist (v%s)

Tools for partitioned, append-optimized sorted indexes: merge sorted
runs into an index and measure index performance.`, Version),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := viper.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
				return err
			}
			return common.InitLoggers(viper.GetString("log-level"))
		},
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of plist",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "plist v%s\n", Version)
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(merge.MergeCmd)
	RootCmd.AddCommand(bench.BenchCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "log-level"
	RootCmd.PersistentFlags().String(key, "warn", util.WrapString("log level (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
