//
// Copyright © 2015 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package profile computes per-base coverage and splice junctions of the
// alignments overlapping a region, and reduces them to plot-ready signals.
package profile

import (
	"fmt"

	"git.sr.ht/~vejnar/Sashimi/lib/region"
)

// Profile is the coverage and the junction table of one sample on one strand.
type Profile struct {
	Coverage  []uint32
	Junctions *JunctionTable
}

// NewProfile returns an empty profile for a region of length n.
func NewProfile(n int) *Profile {
	return &Profile{Coverage: make([]uint32, n), Junctions: NewJunctionTable()}
}

// Sum returns the total coverage.
func (p *Profile) Sum() (s uint64) {
	for _, c := range p.Coverage {
		s += uint64(c)
	}
	return
}

// UnsupportedOperatorError is returned when a CIGAR operation other than
// M, I, D, N or S reaches the interpreter.
type UnsupportedOperatorError struct {
	Op string
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("unsupported CIGAR operation %s", e.Op)
}

// OutOfRangeError is returned when a junction anchor falls outside the coverage.
type OutOfRangeError struct {
	Junction JunctionKey
	Index    int
	Length   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("junction %d-%d: anchor index %d outside coverage of length %d", e.Junction.Donor, e.Junction.Acceptor, e.Index, e.Length)
}

// NoDataWarning reports a sample without any coverage in the region.
type NoDataWarning struct {
	Sample   string
	Interval region.Interval
}

func (w *NoDataWarning) Error() string {
	return fmt.Sprintf("sample %s has no reads in %s", w.Sample, w.Interval)
}

// EmptyInputError is returned when no sample is left to plot.
type EmptyInputError struct{}

func (e *EmptyInputError) Error() string {
	return "no available alignment files"
}
