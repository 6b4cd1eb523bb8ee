//
// Copyright (C) 2015-2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package profile

import (
	"github.com/biogo/hts/sam"

	"git.sr.ht/~vejnar/Sashimi/lib/esam"
	"git.sr.ht/~vejnar/Sashimi/lib/region"
)

// ApplyOp adds one CIGAR operation starting at reference position pos to the
// coverage and junctions of the region iv, and returns the next reference position.
// Matches outside the region are skipped. Junctions are only recorded when
// strictly inside the region.
func ApplyOp(co sam.CigarOp, pos int, iv region.Interval, coverage []uint32, junctions *JunctionTable) (int, error) {
	length := co.Len()
	switch co.Type() {
	case sam.CigarMatch:
		for i := max(pos, iv.Start); i < min(pos+length, iv.End); i++ {
			coverage[i-iv.Start]++
		}
	case sam.CigarInsertion, sam.CigarSoftClipped:
		return pos, nil
	case sam.CigarDeletion:
	case sam.CigarSkipped:
		don, acc := pos, pos+length
		if don > iv.Start && acc < iv.End {
			junctions.Add(JunctionKey{Donor: don, Acceptor: acc}, 1)
		}
	default:
		return pos, &UnsupportedOperatorError{Op: co.Type().String()}
	}
	return pos + length, nil
}

// Count adds all operations of an alignment to the profile.
func Count(a esam.Alignment, iv region.Interval, p *Profile) error {
	var err error
	pos := a.Pos
	for _, co := range a.Cigar {
		if pos, err = ApplyOp(co, pos, iv, p.Coverage, p.Junctions); err != nil {
			return err
		}
	}
	return nil
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
