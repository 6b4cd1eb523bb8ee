//
// Copyright (C) 2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package profile

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// Mode is the aggregation applied to the samples of an overlay.
type Mode int

const (
	ModeNone Mode = iota
	ModeMean
	ModeMedian
	ModeMeanJunctions
	ModeMedianJunctions
)

var modeNames = []string{"none", "mean", "median", "mean_j", "median_j"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode parses none (or empty), mean, median, mean_j or median_j.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeNone, nil
	}
	for i, n := range modeNames {
		if s == n {
			return Mode(i), nil
		}
	}
	return ModeNone, fmt.Errorf("unknown aggregation %q", s)
}

// Junctions reports whether the mode aggregates junction counts only.
func (m Mode) Junctions() bool {
	return m == ModeMeanJunctions || m == ModeMedianJunctions
}

func (m Mode) statistic() func([]float64) float64 {
	switch m {
	case ModeMean, ModeMeanJunctions:
		return Mean
	case ModeMedian, ModeMedianJunctions:
		return Median
	}
	return nil
}

// Mean returns the arithmetic mean of v.
func Mean(v []float64) float64 {
	return stat.Mean(v, nil)
}

// Median returns the middle value of v, or the mean of the two middle values
// if len(v) is even. v is not modified.
func Median(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	s := append([]float64(nil), v...)
	sort.Float64s(s)
	q := len(s) / 2
	if len(s)%2 == 1 {
		return s[q]
	}
	return (s[q-1] + s[q]) / 2
}

func concatDensity(dst *Signal, signals []Signal) {
	for _, s := range signals {
		dst.X = append(dst.X, s.X...)
		dst.Y = append(dst.Y, s.Y...)
	}
}

func concatJunctions(dst *Signal, signals []Signal) {
	for _, s := range signals {
		dst.Donors = append(dst.Donors, s.Donors...)
		dst.Acceptors = append(dst.Acceptors, s.Acceptors...)
		dst.YDonor = append(dst.YDonor, s.YDonor...)
		dst.YAcceptor = append(dst.YAcceptor, s.YAcceptor...)
		dst.Counts = append(dst.Counts, s.Counts...)
	}
}

// Aggregate combines the signals of an overlay. ModeNone concatenates them.
// ModeMean and ModeMedian replace the density by the per-position statistic
// (X of the first signal) and concatenate junctions. The junction modes keep
// the concatenated density and replace the counts of each junction by the
// statistic over the signals having it.
func Aggregate(signals []Signal, m Mode) (Signal, error) {
	var agg Signal
	if len(signals) == 0 {
		return agg, &EmptyInputError{}
	}
	switch m {
	case ModeNone:
		concatDensity(&agg, signals)
		concatJunctions(&agg, signals)
	case ModeMean, ModeMedian:
		n := len(signals[0].Y)
		for i, s := range signals[1:] {
			if len(s.Y) != n {
				return agg, errors.Errorf("overlay member %d has %d positions, expected %d", i+1, len(s.Y), n)
			}
		}
		f := m.statistic()
		agg.X = append([]int(nil), signals[0].X...)
		agg.Y = make([]float64, n)
		values := make([]float64, len(signals))
		for i := 0; i < n; i++ {
			for j, s := range signals {
				values[j] = s.Y[i]
			}
			agg.Y[i] = f(values)
		}
		concatJunctions(&agg, signals)
	case ModeMeanJunctions, ModeMedianJunctions:
		concatDensity(&agg, signals)
		aggregateJunctions(&agg, signals, m.statistic())
	default:
		return agg, errors.Errorf("unknown aggregation %v", m)
	}
	return agg, nil
}

func aggregateJunctions(dst *Signal, signals []Signal, f func([]float64) float64) {
	index := make(map[JunctionKey]int)
	var counts [][]float64
	for _, s := range signals {
		for i := range s.Donors {
			k := JunctionKey{Donor: s.Donors[i], Acceptor: s.Acceptors[i]}
			j, ok := index[k]
			if !ok {
				j = len(dst.Donors)
				index[k] = j
				dst.Donors = append(dst.Donors, k.Donor)
				dst.Acceptors = append(dst.Acceptors, k.Acceptor)
				dst.YDonor = append(dst.YDonor, s.YDonor[i])
				dst.YAcceptor = append(dst.YAcceptor, s.YAcceptor[i])
				counts = append(counts, nil)
			}
			if s.YDonor[i] > dst.YDonor[j] {
				dst.YDonor[j] = s.YDonor[i]
			}
			if s.YAcceptor[i] > dst.YAcceptor[j] {
				dst.YAcceptor[j] = s.YAcceptor[i]
			}
			counts[j] = append(counts[j], s.Counts[i])
		}
	}
	dst.Counts = make([]float64, len(counts))
	for j, c := range counts {
		dst.Counts[j] = f(c)
	}
}
