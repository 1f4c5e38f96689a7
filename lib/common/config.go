package common

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ValentinKolb/plist/lib/plist"
)

// --------------------------------------------------------------------------
// Tool configuration struct
// --------------------------------------------------------------------------

// ToolConfig holds the settings shared by the plist commands.
type ToolConfig struct {
	// Name of the index, used in logs and metric labels
	Name string

	// Partition layout, 0 selects the defaults
	PartitionSize  int
	PartitionCount int

	// Disable the ordering check on append
	Unchecked bool

	// Value marking a deleted key during a merge, empty disables tombstones
	Tombstone string

	// Print metrics after the command
	Metrics bool

	// Logging configuration
	LogLevel string
}

// SortedOptions converts the configuration into list options.
func (c *ToolConfig) SortedOptions() *plist.SortedOptions {
	opts := plist.DefaultSortedOptions()
	if c.Name != "" {
		opts.Name = c.Name
	}
	opts.MaxPartitionSize = c.PartitionSize
	opts.MaxPartitionCount = c.PartitionCount
	opts.UncheckedAppend = c.Unchecked
	return opts
}

// String returns a formatted string representation of the configuration
func (c *ToolConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	orDefault := func(n int) string {
		if n == 0 {
			return "default"
		}
		return strconv.Itoa(n)
	}

	addSection("Index")
	addField("Name", c.Name)
	addField("Partition Size", orDefault(c.PartitionSize))
	addField("Partition Count", orDefault(c.PartitionCount))
	addField("Ordering Check", strconv.FormatBool(!c.Unchecked))

	addSection("Merge")
	if c.Tombstone == "" {
		addField("Tombstone", "disabled")
	} else {
		addField("Tombstone", strconv.Quote(c.Tombstone))
	}

	addSection("Output")
	addField("Metrics", strconv.FormatBool(c.Metrics))
	addField("Log Level", c.LogLevel)

	return sb.String()
}
