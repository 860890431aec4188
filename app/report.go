package app

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/viant/qnn/index"
)

// report writes the plain-text job output and keeps the first write error.
type report struct {
	w   io.Writer
	err error
}

func (r *report) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

// neighbors prints the identifier and score matrices of the sampled queries
// followed by the text of every neighbour.
func (r *report) neighbors(results [][]index.Neighbor, texts []string) {
	r.printf("NN Indexes:\n%s", matrix(results, neighborID))
	r.printf("NN Scores:\n%s", matrix(results, func(n index.Neighbor) string { return formatScore(n.Score) }))
	for qi, ns := range results {
		r.printf("Original Q: %s\n", texts[qi])
		for rank, n := range ns {
			r.printf("NN%d of Q: %s (Score: %s)\n", rank, texts[n.ID], formatScore(n.Score))
		}
	}
}

// batch prints the neighbour identifiers of the first and last sample
// queries and the elapsed search time.
func (r *report) batch(results [][]index.Neighbor, sample int, took time.Duration) {
	if sample > 0 {
		r.printf("%s", matrix(results[:sample], neighborID))
		r.printf("%s", matrix(results[len(results)-sample:], neighborID))
	}
	r.printf("Took %.2fs\n", took.Seconds())
}

func neighborID(n index.Neighbor) string { return strconv.Itoa(n.ID) }

func formatScore(s float64) string { return strconv.FormatFloat(s, 'f', 4, 64) }

// matrix renders rows as a right-aligned bracketed grid.
func matrix(rows [][]index.Neighbor, cell func(index.Neighbor) string) string {
	cells := make([][]string, len(rows))
	width := 0
	for i, row := range rows {
		cells[i] = make([]string, len(row))
		for j, n := range row {
			c := cell(n)
			cells[i][j] = c
			width = max(width, len(c))
		}
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i, row := range cells {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteByte('[')
		for j, c := range row {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strings.Repeat(" ", width-len(c)))
			sb.WriteString(c)
		}
		sb.WriteByte(']')
		if i < len(cells)-1 {
			sb.WriteByte('\n')
		}
	}
	sb.WriteString("]\n")
	return sb.String()
}
