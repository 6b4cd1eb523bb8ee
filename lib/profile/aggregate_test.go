//
// Copyright (C) 2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package profile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func overlaySignals() []Signal {
	return []Signal{
		{X: []int{10, 11, 12}, Y: []float64{1, 2, 3}, Donors: []int{10}, Acceptors: []int{12}, YDonor: []float64{1}, YAcceptor: []float64{3}, Counts: []float64{2}},
		{X: []int{10, 11, 12}, Y: []float64{3, 4, 5}, Donors: []int{10, 11}, Acceptors: []int{12, 12}, YDonor: []float64{3, 4}, YAcceptor: []float64{2, 5}, Counts: []float64{4, 1}},
		{X: []int{10, 11, 12}, Y: []float64{2, 9, 4}},
	}
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 2.5, Median([]float64{4, 1, 3, 2}))
	assert.Equal(t, 3.0, Median([]float64{5, 1, 3}))
	assert.Equal(t, 0.0, Median(nil))
	v := []float64{3, 1, 2}
	Median(v)
	assert.Equal(t, []float64{3, 1, 2}, v)
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
}

func TestParseMode(t *testing.T) {
	for i, s := range []string{"none", "mean", "median", "mean_j", "median_j"} {
		m, err := ParseMode(s)
		require.NoError(t, err)
		assert.Equal(t, Mode(i), m)
		assert.Equal(t, s, m.String())
	}
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeNone, m)
	assert.True(t, ModeMedianJunctions.Junctions())
	assert.False(t, ModeMedian.Junctions())
	_, err = ParseMode("max")
	assert.Error(t, err)
}

func TestAggregateNone(t *testing.T) {
	agg, err := Aggregate(overlaySignals(), ModeNone)
	require.NoError(t, err)
	assert.Len(t, agg.X, 9)
	assert.Equal(t, []float64{1, 2, 3, 3, 4, 5, 2, 9, 4}, agg.Y)
	assert.Equal(t, []int{10, 10, 11}, agg.Donors)
	assert.Equal(t, []float64{2, 4, 1}, agg.Counts)
}

func TestAggregateDensity(t *testing.T) {
	agg, err := Aggregate(overlaySignals(), ModeMean)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 11, 12}, agg.X)
	assert.Equal(t, []float64{2, 5, 4}, agg.Y)
	assert.Equal(t, []float64{2, 4, 1}, agg.Counts)

	agg, err = Aggregate(overlaySignals(), ModeMedian)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4, 4}, agg.Y)

	bad := overlaySignals()
	bad[2].Y = bad[2].Y[:2]
	_, err = Aggregate(bad, ModeMean)
	assert.Error(t, err)
}

func TestAggregateJunctions(t *testing.T) {
	agg, err := Aggregate(overlaySignals(), ModeMeanJunctions)
	require.NoError(t, err)
	assert.Len(t, agg.Y, 9)
	assert.Equal(t, []int{10, 11}, agg.Donors)
	assert.Equal(t, []int{12, 12}, agg.Acceptors)
	assert.Equal(t, []float64{3, 1}, agg.Counts)
	assert.Equal(t, []float64{3, 4}, agg.YDonor)
	assert.Equal(t, []float64{3, 5}, agg.YAcceptor)

	agg, err = Aggregate(overlaySignals(), ModeMedianJunctions)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1}, agg.Counts)

	_, err = Aggregate(nil, ModeMean)
	var ee *EmptyInputError
	assert.True(t, errors.As(err, &ee))
}
