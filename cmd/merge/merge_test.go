package merge

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ValentinKolb/plist/lib/common"
	"github.com/ValentinKolb/plist/lib/consolidate"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRun(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTSVRun(t *testing.T) {
	path := writeRun(t, "run.tsv", "a\t1\nb\tvalue with spaces\n")
	run := newTSVRun(path)

	got := map[string]string{}
	for k, v := range run.All() {
		got[k] = v
	}
	require.NoError(t, run.Err())
	assert.Equal(t, map[string]string{"a": "1", "b": "value with spaces"}, got)
}

func TestTSVRunKeepsEntriesLiterally(t *testing.T) {
	content := "\"b\"\tv2\n#a\tv1\nc\t\"quoted\" value\twith tab\n\tempty key\n"
	run := newTSVRun(writeRun(t, "literal.tsv", content))

	type entry struct{ key, value string }
	var got []entry
	for k, v := range run.All() {
		got = append(got, entry{k, v})
	}
	require.NoError(t, run.Err())
	assert.Equal(t, []entry{
		{`"b"`, "v2"},
		{"#a", "v1"},
		{"c", "\"quoted\" value\twith tab"},
		{"", "empty key"},
	}, got)
}

func TestRunMergeKeepsHashAndQuotedKeys(t *testing.T) {
	// byte order: '"' (0x22) < '#' (0x23) < 'c'
	run := writeRun(t, "run.tsv", "\"b\"\tv2\n#a\tv1\nc\tv3\n")

	var out bytes.Buffer
	conf := &common.ToolConfig{Name: "literal"}
	req := request{paths: []string{run}, gets: []string{"#a", `"b"`, "b"}}
	require.NoError(t, runMerge(context.Background(), conf, req, &out))

	report := out.String()
	assert.Contains(t, report, "output=3")
	assert.Contains(t, report, "#a\tv1\n")
	assert.Contains(t, report, "\"b\"\tv2\n")
	assert.Contains(t, report, "b\t<not found>\n")
}

func TestTSVRunErrors(t *testing.T) {
	missing := newTSVRun(filepath.Join(t.TempDir(), "missing.tsv"))
	for range missing.All() {
	}
	assert.Error(t, missing.Err())

	malformed := newTSVRun(writeRun(t, "bad.tsv", "a\t1\nb\nc\t3\n"))
	n := 0
	for range malformed.All() {
		n++
	}
	assert.Equal(t, 1, n)
	assert.Error(t, malformed.Err())
}

func TestRunMerge(t *testing.T) {
	older := writeRun(t, "older.tsv", "a\t1\nb\t1\nc\t1\n")
	newer := writeRun(t, "newer.tsv", "b\t2\nc\t-\nd\t2\n")

	conf := &common.ToolConfig{Name: "test", Tombstone: "-", Metrics: true, PartitionSize: 2}
	req := request{paths: []string{older, newer}, gets: []string{"b", "c"}, print: true}

	var out bytes.Buffer
	require.NoError(t, runMerge(context.Background(), conf, req, &out))

	report := out.String()
	assert.Contains(t, report, "Merged 2 runs: runs=2 input=6 output=3 shadowed=2 dropped=1")
	assert.Contains(t, report, "b\t2\n")
	assert.Contains(t, report, "c\t<not found>\n")
	assert.Contains(t, report, "a\t1\nb\t2\nd\t2\n")
	assert.Contains(t, report, `plist_appends_total{index="test"} 3`)
}

func TestRunMergeUnsortedRun(t *testing.T) {
	bad := writeRun(t, "bad.tsv", "b\t1\na\t1\n")

	var out bytes.Buffer
	err := runMerge(context.Background(), &common.ToolConfig{}, request{paths: []string{bad}}, &out)
	assert.True(t, errors.Is(err, consolidate.ErrRunOutOfOrder), "got %v", err)
}

func TestRunMergeMissingFile(t *testing.T) {
	var out bytes.Buffer
	err := runMerge(context.Background(), &common.ToolConfig{}, request{paths: []string{"/does/not/exist.tsv"}}, &out)
	assert.Error(t, err)
}
