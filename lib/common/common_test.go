package common

import (
	"bytes"
	"testing"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]logger.LogLevel{
		"debug":   logger.DEBUG,
		"INFO":    logger.INFO,
		"warn":    logger.WARNING,
		"warning": logger.WARNING,
		"error":   logger.ERROR,
	} {
		got, err := ParseLogLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLogLevel("verbose")
	assert.Error(t, err)
	assert.Error(t, InitLoggers("verbose"))
}

func TestLoggerFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	prev := Output
	Output = &buf
	defer func() { Output = prev }()

	l := CreateLogger("plist")
	l.Debugf("hidden %d", 1)
	l.Infof("visible %d", 2)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "INFO  | plist        | visible 2")

	l.SetLevel(logger.ERROR)
	l.Warningf("dropped")
	l.Errorf("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "ERROR | plist        | kept")
}

func TestToolConfig(t *testing.T) {
	c := &ToolConfig{Name: "runs", PartitionSize: 128, Unchecked: true, LogLevel: "info"}

	opts := c.SortedOptions()
	assert.Equal(t, "runs", opts.Name)
	assert.Equal(t, 128, opts.MaxPartitionSize)
	assert.Equal(t, 0, opts.MaxPartitionCount)
	assert.True(t, opts.UncheckedAppend)

	out := c.String()
	assert.Contains(t, out, "INDEX")
	assert.Contains(t, out, "Partition Count       : default")
	assert.Contains(t, out, "Tombstone             : disabled")

	c.Tombstone = "-"
	assert.Contains(t, c.String(), `Tombstone             : "-"`)

	assert.Equal(t, "default", (&ToolConfig{}).SortedOptions().Name)
}
