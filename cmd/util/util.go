package util

import (
	"strings"

	"github.com/ValentinKolb/plist/lib/common"
	"github.com/joho/godotenv"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// Logger is the logger of all commands
var Logger = logger.GetLogger("cmd")

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupIndexFlags adds the index layout flags to a command
func SetupIndexFlags(cmd *cobra.Command) {
	key := "name"
	cmd.PersistentFlags().String(key, "default", WrapString("Name of the index, used in logs and metric labels"))

	key = "partition-size"
	cmd.PersistentFlags().Int(key, 0, WrapString("Maximum entries per partition. 0 derives the size from the key and value types"))

	key = "partition-count"
	cmd.PersistentFlags().Int(key, 0, WrapString("Maximum number of partitions. 0 means unbounded"))

	key = "unchecked"
	cmd.PersistentFlags().Bool(key, false, WrapString("Disable the check that appended keys are strictly increasing"))

	key = "metrics"
	cmd.PersistentFlags().Bool(key, false, WrapString("Print index metrics in the Prometheus text format when done"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("plist")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetToolConfig reads the tool configuration from viper
func GetToolConfig() *common.ToolConfig {
	return &common.ToolConfig{
		Name:           viper.GetString("name"),
		PartitionSize:  viper.GetInt("partition-size"),
		PartitionCount: viper.GetInt("partition-count"),
		Unchecked:      viper.GetBool("unchecked"),
		Tombstone:      viper.GetString("tombstone"),
		Metrics:        viper.GetBool("metrics"),
		LogLevel:       viper.GetString("log-level"),
	}
}

// SplitList splits a comma separated flag value, dropping empty elements
func SplitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
