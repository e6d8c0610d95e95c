package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"iter"
	"os"
	"strconv"

	"github.com/rubiojr/facet/eval"
	"github.com/rubiojr/facet/factor"
)

// csvChunks returns a restartable chunk source over a headered CSV file.
// Every range over the sequence re-reads the file from the start, which is
// exactly what multi-pass streaming needs. Read or parse failures stop the
// iteration and are reported through the returned error pointer; callers
// check it after each completed range.
func csvChunks(path string, chunkSize int) (iter.Seq[factor.Chunk], *error) {
	errp := new(error)
	seq := func(yield func(factor.Chunk) bool) {
		*errp = nil
		file, err := os.Open(path)
		if err != nil {
			*errp = err
			return
		}
		defer file.Close()

		r := csv.NewReader(file)
		header, err := r.Read()
		if err != nil {
			*errp = fmt.Errorf("reading %s: %w", path, err)
			return
		}

		cols := make([][]float64, len(header))
		rows := 0
		flush := func() bool {
			chunk := factor.Chunk{}
			for i, name := range header {
				chunk[name] = eval.Value(cols[i])
				cols[i] = nil
			}
			rows = 0
			return yield(chunk)
		}

		for {
			record, err := r.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				*errp = fmt.Errorf("reading %s: %w", path, err)
				return
			}
			for i, field := range record {
				if i >= len(cols) {
					break
				}
				v, err := strconv.ParseFloat(field, 64)
				if err != nil {
					*errp = fmt.Errorf("%s: column %q: %w", path, header[i], err)
					return
				}
				cols[i] = append(cols[i], v)
			}
			rows++
			if rows == chunkSize {
				if !flush() {
					return
				}
			}
		}
		if rows > 0 {
			flush()
		}
	}
	return seq, errp
}
