package merge

import (
	"bufio"
	"iter"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

// maxLineBytes bounds a single line of a run
const maxLineBytes = 1 << 20

// tsvRun streams the entries of a file with one key and one value per line,
// separated by the first tab. Keys and values are taken literally: no quoting,
// escaping or comments. Errors are kept and reported by Err once the sequence ends.
type tsvRun struct {
	path string
	err  error
}

func newTSVRun(path string) *tsvRun {
	return &tsvRun{path: path}
}

// All returns the entries of the file in file order. Every call reopens the file.
func (r *tsvRun) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		f, err := os.Open(r.path)
		if err != nil {
			r.err = errors.Wrapf(err, "open run %s", r.path)
			return
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64<<10), maxLineBytes)

		line := 0
		for scanner.Scan() {
			line++
			key, value, ok := strings.Cut(scanner.Text(), "\t")
			if !ok {
				r.err = errors.Newf("read run %s: line %d has no tab separator", r.path, line)
				return
			}
			if !yield(key, value) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			r.err = errors.Wrapf(err, "read run %s", r.path)
		}
	}
}

// Err returns the first error hit while reading the run
func (r *tsvRun) Err() error {
	return r.err
}
