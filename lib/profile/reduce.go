//
// Copyright (C) 2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package profile

import (
	"git.sr.ht/~vejnar/Sashimi/lib/cmapper"
	"git.sr.ht/~vejnar/Sashimi/lib/region"
)

// Signal is the plot-ready form of a profile: the density (X, Y) and, per
// junction, its ends, the density next to each end and its read support.
type Signal struct {
	X         []int
	Y         []float64
	Donors    []int
	Acceptors []int
	YDonor    []float64
	YAcceptor []float64
	Counts    []float64
}

// Reduce converts a profile to a Signal, keeping junctions supported by at
// least minSupport reads. The anchor heights are read one base outside the
// spliced segment. A junction with an anchor outside the coverage is left out
// of the signal and reported as an OutOfRangeError; the returned signal is
// complete otherwise. Only the first such junction is returned.
func Reduce(p *Profile, iv region.Interval, minSupport uint32) (Signal, error) {
	var sig Signal
	sig.X = make([]int, len(p.Coverage))
	sig.Y = make([]float64, len(p.Coverage))
	for i, c := range p.Coverage {
		sig.X[i] = iv.Start + i
		sig.Y[i] = float64(c)
	}
	var err error
	p.Junctions.Each(func(k JunctionKey, n uint32) {
		if n < minSupport {
			return
		}
		id := k.Donor - iv.Start - 1
		ia := k.Acceptor - iv.Start + 1
		for _, i := range []int{id, ia} {
			if i < 0 || i >= len(p.Coverage) {
				if err == nil {
					err = &OutOfRangeError{Junction: k, Index: i, Length: len(p.Coverage)}
				}
				return
			}
		}
		sig.Donors = append(sig.Donors, k.Donor)
		sig.Acceptors = append(sig.Acceptors, k.Acceptor)
		sig.Counts = append(sig.Counts, float64(n))
		sig.YDonor = append(sig.YDonor, float64(p.Coverage[id]))
		sig.YAcceptor = append(sig.YAcceptor, float64(p.Coverage[ia]))
	})
	return sig, err
}

// Introns returns the junctions of the signal as spans.
func (s Signal) Introns() []cmapper.Span {
	spans := make([]cmapper.Span, len(s.Donors))
	for i := range s.Donors {
		spans[i] = cmapper.Span{Start: s.Donors[i], End: s.Acceptors[i]}
	}
	return spans
}

// Shrink returns a copy of the signal with its density and junctions moved to
// the shrunk coordinates of sh, and the remap of the shrunk spans.
func (s Signal) Shrink(sh *cmapper.Shrinker) (Signal, cmapper.Remap) {
	n := s
	n.X, n.Y = sh.ShrinkDensity(s.X, s.Y)
	var remap cmapper.Remap
	remap, n.Donors, n.Acceptors = sh.ShrinkJunctions(s.Donors, s.Acceptors)
	return n, remap
}
