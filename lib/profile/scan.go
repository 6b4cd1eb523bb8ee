//
// Copyright (C) 2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package profile

import (
	"github.com/pkg/errors"
	"gopkg.in/fatih/set.v0"

	"git.sr.ht/~vejnar/Sashimi/lib/esam"
	"git.sr.ht/~vejnar/Sashimi/lib/region"
)

// Stats summarizes a region scan.
type Stats struct {
	Alignments   int
	Rejected     int
	AlignedBases int
	Reads        set.Interface
}

// Scan holds the profiles of one sample over a region, one per strand bucket.
// Profiles[esam.Minus] is nil for unstranded libraries.
type Scan struct {
	Interval region.Interval
	Protocol esam.Protocol
	Profiles [esam.NumStrands]*Profile
	Stats    Stats
}

// Strands returns the strand buckets of the scan.
func (s *Scan) Strands() []esam.Strand {
	if s.Protocol.Stranded() {
		return []esam.Strand{esam.Plus, esam.Minus}
	}
	return []esam.Strand{esam.Plus}
}

// Empty reports whether every bucket has zero coverage.
func (s *Scan) Empty() bool {
	for _, st := range s.Strands() {
		if s.Profiles[st].Sum() > 0 {
			return false
		}
	}
	return true
}

// ScanRegion counts every alignment of src overlapping iv. Alignments with
// unsupported CIGAR operations are skipped.
func ScanRegion(src esam.Source, iv region.Interval, protocol esam.Protocol) (*Scan, error) {
	if err := iv.Validate(); err != nil {
		return nil, err
	}
	s := &Scan{Interval: iv, Protocol: protocol, Stats: Stats{Reads: set.New(set.NonThreadSafe)}}
	for _, st := range s.Strands() {
		s.Profiles[st] = NewProfile(iv.Len())
	}

	it, err := src.Fetch(iv)
	if err != nil {
		return nil, err
	}
	for it.Next() {
		a := it.Alignment()
		s.Stats.Alignments++
		if !a.Supported() {
			s.Stats.Rejected++
			continue
		}
		if err = Count(a, iv, s.Profiles[esam.ReadStrand(protocol, a.Flags)]); err != nil {
			it.Close()
			return nil, errors.Wrapf(err, "alignment %s", a.Name)
		}
		s.Stats.Reads.Add(a.Name)
		s.Stats.AlignedBases += esam.Overlap(a, iv.Start, iv.End)
	}
	if err = it.Error(); err != nil {
		it.Close()
		return nil, errors.Wrapf(err, "reading alignments in %s", iv)
	}
	if err = it.Close(); err != nil {
		return nil, err
	}
	return s, nil
}
