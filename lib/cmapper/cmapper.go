//
// Copyright (C) 2015-2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//

// Package cmapper maps genomic coordinates to a shrunk coordinate system in
// which long introns are compressed, and back.
package cmapper

import (
	"math"
	"sort"
)

// ShrinkPower is the exponent applied to the length of each shrunk span.
const ShrinkPower = 0.7

// Span is a half-open interval [Start,End).
type Span struct {
	Start, End int
}

// IntersectIntrons sorts spans and sweeps them from left to right: a span
// starting strictly before the end of the current one is intersected with it,
// otherwise the current span is emitted. The result is sorted and disjoint.
func IntersectIntrons(spans []Span) []Span {
	if len(spans) == 0 {
		return nil
	}
	s := append([]Span(nil), spans...)
	sort.Slice(s, func(i, j int) bool {
		if s[i].Start != s[j].Start {
			return s[i].Start < s[j].Start
		}
		return s[i].End < s[j].End
	})
	var out []Span
	cur := s[0]
	for _, n := range s[1:] {
		if cur.End > n.Start {
			cur.Start = max(cur.Start, n.Start)
			cur.End = min(cur.End, n.End)
		} else {
			out = append(out, cur)
			cur = n
		}
	}
	return append(out, cur)
}

// ShrunkLength returns the length of a span of length l once shrunk.
func ShrunkLength(l int) int {
	return int(math.Pow(float64(l), ShrinkPower))
}

// Shrinker maps coordinates to the shrunk system defined by disjoint sorted spans.
type Shrinker struct {
	Spans  []Span
	shrunk []int
	shifts []int
}

// NewShrinker returns a Shrinker for spans, as returned by IntersectIntrons.
func NewShrinker(spans []Span) *Shrinker {
	sh := &Shrinker{Spans: append([]Span(nil), spans...)}
	var shift int
	for _, sp := range sh.Spans {
		l := sp.End - sp.Start
		sl := ShrunkLength(l)
		shift += l - sl
		sh.shrunk = append(sh.shrunk, sl)
		sh.shifts = append(sh.shifts, shift)
	}
	return sh
}

// Shrink translates a coordinate from the genome to the shrunk system.
// Coordinates outside the spans are shifted by the total shrinking of the
// spans before them, coordinates inside a span are scaled into it.
func (sh *Shrinker) Shrink(pos int) int {
	var shift int
	for i, sp := range sh.Spans {
		if pos <= sp.Start {
			return pos - shift
		}
		if pos < sp.End {
			return sp.Start - shift + (pos-sp.Start)*sh.shrunk[i]/(sp.End-sp.Start)
		}
		shift = sh.shifts[i]
	}
	return pos - shift
}

// Shift returns the total number of bases removed.
func (sh *Shrinker) Shift() int {
	if len(sh.shifts) == 0 {
		return 0
	}
	return sh.shifts[len(sh.shifts)-1]
}

// ShrinkDensity returns the shrunk x and a copy of y. No point is dropped.
func (sh *Shrinker) ShrinkDensity(x []int, y []float64) ([]int, []float64) {
	nx := make([]int, len(x))
	for i, p := range x {
		nx[i] = sh.Shrink(p)
	}
	return nx, append([]float64(nil), y...)
}

// ShrinkJunctions returns the shrunk donors and acceptors with the remap of
// the span boundaries.
func (sh *Shrinker) ShrinkJunctions(donors, acceptors []int) (Remap, []int, []int) {
	nd := make([]int, len(donors))
	for i, p := range donors {
		nd[i] = sh.Shrink(p)
	}
	na := make([]int, len(acceptors))
	for i, p := range acceptors {
		na[i] = sh.Shrink(p)
	}
	return sh.Remap(), nd, na
}

// Remap returns the shrunk and real coordinates of every span boundary.
func (sh *Shrinker) Remap() Remap {
	r := make(Remap, 0, 2*len(sh.Spans))
	for _, sp := range sh.Spans {
		r = append(r, RemapPoint{Shrunk: sh.Shrink(sp.Start), Real: sp.Start}, RemapPoint{Shrunk: sh.Shrink(sp.End), Real: sp.End})
	}
	return r
}

// RemapPoint pairs a shrunk coordinate with its genomic coordinate.
type RemapPoint struct {
	Shrunk int
	Real   int
}

// Remap holds the start and end boundaries of each shrunk span, in order.
type Remap []RemapPoint

// Real translates a shrunk coordinate back to the genome. Inside a shrunk span
// the position is interpolated and rounded.
func (r Remap) Real(s int) int {
	var offset int
	for i := 0; i+1 < len(r); i += 2 {
		b, e := r[i], r[i+1]
		if s <= b.Shrunk {
			return s + b.Real - b.Shrunk
		}
		if s < e.Shrunk {
			p := float64(s-b.Shrunk) / float64(e.Shrunk-b.Shrunk)
			return b.Real + int(math.Round(p*float64(e.Real-b.Real)))
		}
		offset = e.Real - e.Shrunk
	}
	return s + offset
}

func min(a, b int) int {
	if a > b {
		return b
	}
	return a
}

func max(a, b int) int {
	if a < b {
		return b
	}
	return a
}
