package bench

import (
	"bytes"
	"encoding/csv"
	"math/rand"
	"testing"

	"github.com/ValentinKolb/plist/lib/common"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withKeys(t *testing.T, n int) {
	prev := benchKeys
	benchKeys = n
	t.Cleanup(func() { benchKeys = prev })
}

func TestCasesAgainstPrefilledIndex(t *testing.T) {
	withKeys(t, 1000)

	for _, c := range cases {
		if !c.prefill {
			continue
		}
		t.Run(c.name, func(t *testing.T) {
			r, err := runCase(c, &common.ToolConfig{PartitionSize: 16}, nil, gometrics.NewRegistry())
			require.NoError(t, err)
			assert.False(t, r.skipped())
			assert.Greater(t, r.latency.Count(), int64(0))
			assert.Equal(t, 16, r.info.MaxPartitionSize)
		})
	}
}

func TestAppendCaseFailsAtPartitionCap(t *testing.T) {
	withKeys(t, 10)

	_, err := runCase(cases[0], &common.ToolConfig{PartitionSize: 1, PartitionCount: 1}, nil, gometrics.NewRegistry())
	assert.Error(t, err)
}

func TestCaseOps(t *testing.T) {
	withKeys(t, 100)
	rng := rand.New(rand.NewSource(1))

	s, err := runCaseIndex(t)
	require.NoError(t, err)

	for _, c := range cases[1:] {
		for i := 0; i < 50; i++ {
			require.NoError(t, c.op(s, i, rng), c.name)
		}
	}
}

func runCaseIndex(t *testing.T) (*index, error) {
	t.Helper()
	opts := (&common.ToolConfig{PartitionSize: 8}).SortedOptions()
	s, err := newIndex(opts)
	if err != nil {
		return nil, err
	}
	for i := 0; i < benchKeys; i++ {
		if err := s.Add(int64(i)*2, int64(i)); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func TestWriteResults(t *testing.T) {
	timer := gometrics.NewTimer()
	timer.Update(100)
	timer.Update(300)

	results := []result{
		{name: "skipped"},
		{name: "get", bench: testing.BenchmarkResult{N: 10, T: 1000}, latency: timer},
	}
	results[1].info.MaxPartitionSize = 8
	results[1].info.Partitions = 3

	var buf bytes.Buffer
	require.NoError(t, writeResults(&buf, results, &common.ToolConfig{PartitionSize: 8}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Test", rows[0][0])
	assert.Equal(t, []string{"skipped", "0", "0s", "0", "true"}, rows[1][:5])
	assert.Equal(t, "get", rows[2][0])
	assert.Equal(t, "100", rows[2][1])
	assert.Equal(t, "false", rows[2][4])
	assert.Equal(t, "2", rows[2][7])
	assert.Equal(t, "3", rows[2][10])
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	printResult(&buf, result{name: "scan"})
	assert.Contains(t, buf.String(), "scan        skipped")
}
