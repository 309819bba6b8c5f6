// Copyright 2024 The Godis Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// statsHistogramBins is the number of chain-length buckets; lengths at
// or above the last bin collapse into it (spec.md §6 constants).
const statsHistogramBins = 50

// tableStats is the aggregate report for one sub-table: size, live
// entry count, non-empty bucket count, longest chain, both forms of average
// chain length, and the per-length histogram (spec.md §4.G).
type tableStats struct {
	size           uint64
	used           uint64
	nonEmptyCount  uint64
	maxChainLength uint64
	histogram      [statsHistogramBins]uint64
}

func (d *Dict[K, V]) statsFor(tableID int) tableStats {
	t := d.ht[tableID]

	var s tableStats
	s.size = t.size
	s.used = t.used

	for i := uint64(0); i < t.size; i++ {
		var chainLen uint64
		for e := t.buckets[i]; e != nil; e = e.next {
			chainLen++
		}

		if chainLen > 0 {
			s.nonEmptyCount++
		}
		if chainLen > s.maxChainLength {
			s.maxChainLength = chainLen
		}

		bin := chainLen
		if bin >= statsHistogramBins {
			bin = statsHistogramBins - 1
		}
		s.histogram[bin]++
	}

	return s
}

func (s tableStats) avgChainLengthOverSlots() float64 {
	if s.size == 0 {
		return 0
	}
	return float64(s.used) / float64(s.size)
}

func (s tableStats) avgChainLengthOverNonEmpty() float64 {
	if s.nonEmptyCount == 0 {
		return 0
	}
	return float64(s.used) / float64(s.nonEmptyCount)
}

// WriteStats renders a chain-length histogram and summary metrics for
// each active sub-table (both, while rehashing) to w as an aligned
// table, returning the number of bytes written.
func (d *Dict[K, V]) WriteStats(w io.Writer) (int, error) {
	counter := &countingWriter{w: w}

	tables := []int{0}
	if d.isRehashing() {
		tables = append(tables, 1)
	}

	for _, id := range tables {
		s := d.statsFor(id)

		fmt.Fprintf(counter, "Hash table %d stats:\n", id)

		summary := tablewriter.NewWriter(counter)
		summary.SetHeader([]string{"slots", "used", "non-empty", "max chain", "avg/slot", "avg/non-empty"})
		summary.Append([]string{
			fmt.Sprintf("%d", s.size),
			fmt.Sprintf("%d", s.used),
			fmt.Sprintf("%d", s.nonEmptyCount),
			fmt.Sprintf("%d", s.maxChainLength),
			fmt.Sprintf("%.3f", s.avgChainLengthOverSlots()),
			fmt.Sprintf("%.3f", s.avgChainLengthOverNonEmpty()),
		})
		summary.Render()

		histo := tablewriter.NewWriter(counter)
		histo.SetHeader([]string{"chain length", "buckets"})
		for length, count := range s.histogram {
			if count == 0 {
				continue
			}
			label := fmt.Sprintf("%d", length)
			if length == statsHistogramBins-1 {
				label = fmt.Sprintf("%d+", length)
			}
			histo.Append([]string{label, fmt.Sprintf("%d", count)})
		}
		histo.Render()

		fmt.Fprintln(counter)
	}

	return counter.n, counter.err
}

// countingWriter tracks bytes written so WriteStats can report the
// total without tablewriter needing to know about it.
type countingWriter struct {
	w   io.Writer
	n   int
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	if err != nil {
		c.err = err
	}
	return n, err
}
