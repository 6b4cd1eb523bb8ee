//
// Copyright (C) 2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package region parses genomic regions given as "chr:start-end".
package region

import (
	"fmt"
	"strconv"
	"strings"
)

// Interval is a half-open 0-based genomic interval [Start,End).
type Interval struct {
	Chrom string
	Start int
	End   int
}

// FormatError is returned when a region string does not match "chr:start-end".
type FormatError struct {
	Text   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed region %q: %s", e.Text, e.Reason)
}

// InvalidRangeError is returned for intervals without a positive length.
type InvalidRangeError struct {
	Interval Interval
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range %s:%d-%d (length %d)", e.Interval.Chrom, e.Interval.Start, e.Interval.End, e.Interval.Len())
}

// Parse parses a 1-based inclusive "chr:start-end" region. Commas in numbers
// are ignored. The returned start is 0-based; end stays as given.
// Parse does not check that start < end, see Validate.
func Parse(text string) (Interval, error) {
	var iv Interval
	c := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	chrom, coords, found := strings.Cut(c, ":")
	if !found || chrom == "" {
		return iv, &FormatError{Text: text, Reason: "missing chromosome"}
	}
	rawStart, rawEnd, found := strings.Cut(coords, "-")
	if !found {
		return iv, &FormatError{Text: text, Reason: "missing start-end"}
	}
	start, err := strconv.Atoi(rawStart)
	if err != nil {
		return iv, &FormatError{Text: text, Reason: "start is not an integer"}
	}
	end, err := strconv.Atoi(rawEnd)
	if err != nil {
		return iv, &FormatError{Text: text, Reason: "end is not an integer"}
	}
	// Convert to 0-based
	return Interval{Chrom: chrom, Start: start - 1, End: end}, nil
}

// Len returns the number of bases in the interval.
func (iv Interval) Len() int {
	return iv.End - iv.Start
}

// Validate returns an InvalidRangeError if the interval is empty, reversed or
// starts before the first base.
func (iv Interval) Validate() error {
	if iv.Len() <= 0 || iv.Start < 0 {
		return &InvalidRangeError{Interval: iv}
	}
	return nil
}

// String returns the interval in the 1-based "chr:start-end" form.
func (iv Interval) String() string {
	return fmt.Sprintf("%s:%d-%d", iv.Chrom, iv.Start+1, iv.End)
}
