//
// Copyright © 2015 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package esam

import (
	"github.com/biogo/hts/sam"
	"github.com/pkg/errors"
)

// PathSAM stores Path to SAM (Binary=false) or BAM (Binary=true) file.
type PathSAM struct {
	Path   string
	Binary bool
}

// Alignment is the part of a SAM record needed to build coverage and junctions.
// Pos is the 1-based leftmost mapped position, as printed by samtools.
type Alignment struct {
	Name  string
	Flags sam.Flags
	Pos   int
	Cigar sam.Cigar
}

// FromRecord converts a SAM record (0-based) to an Alignment.
func FromRecord(r *sam.Record) Alignment {
	return Alignment{Name: r.Name, Flags: r.Flags, Pos: r.Pos + 1, Cigar: r.Cigar}
}

// NewAlignment builds an Alignment from the flag, 1-based position and CIGAR
// string columns of a SAM line.
func NewAlignment(name string, flag int, pos int, cigar string) (Alignment, error) {
	c, err := sam.ParseCigar([]byte(cigar))
	if err != nil {
		return Alignment{}, errors.Wrapf(err, "alignment %s", name)
	}
	return Alignment{Name: name, Flags: sam.Flags(flag), Pos: pos, Cigar: c}, nil
}

// Supported reports whether every CIGAR operation of the alignment is one of
// M, I, D, N or S. Alignments with H, P, X, = (or B) are not counted.
func (a Alignment) Supported() bool {
	for _, co := range a.Cigar {
		switch co.Type() {
		case sam.CigarMatch, sam.CigarInsertion, sam.CigarDeletion, sam.CigarSkipped, sam.CigarSoftClipped:
		default:
			return false
		}
	}
	return true
}

// End returns the 1-based position following the last reference base of the alignment.
func (a Alignment) End() int {
	pos := a.Pos
	for _, co := range a.Cigar {
		pos += co.Len() * co.Type().Consumes().Reference
	}
	return pos
}

// Overlap returns the number of aligned bases of a within the 0-based interval [start,end).
func Overlap(a Alignment, start, end int) int {
	var overlap int
	pos := a.Pos - 1
	for _, co := range a.Cigar {
		con := co.Type().Consumes()
		lr := co.Len() * con.Reference
		if con.Query == con.Reference {
			o := min(pos+lr, end) - max(pos, start)
			if o > 0 {
				overlap += o
			}
		}
		pos += lr
	}
	return overlap
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
