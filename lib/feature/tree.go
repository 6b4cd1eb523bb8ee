//
// Copyright (C) 2015-2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package feature

import (
	"sort"

	"github.com/biogo/store/interval"

	"git.sr.ht/~vejnar/Sashimi/lib/region"
)

// BuildFeatTrees builds one tree of features per chromosome: each feature is
// added with its full span.
func BuildFeatTrees(features []Feature) (trees map[string]*interval.IntTree, err error) {
	trees = make(map[string]*interval.IntTree)
	for i, feat := range features {
		// Feature without coordinates
		if feat.End <= feat.Start {
			continue
		}
		// New tree for unseen chromosome
		if _, ok := trees[feat.Chrom]; !ok {
			trees[feat.Chrom] = &interval.IntTree{}
		}
		// Inserting interval
		iv := IntInterval{Start: feat.Start, End: feat.End, UID: uintptr(i), Feature: feat}
		err = trees[feat.Chrom].Insert(iv, true)
		if err != nil {
			return
		}
	}
	for k := range trees {
		trees[k].AdjustRanges()
	}
	return
}

// Overlapping returns the features overlapping iv, in insertion order.
func Overlapping(trees map[string]*interval.IntTree, iv region.Interval) []Feature {
	tree, ok := trees[iv.Chrom]
	if !ok {
		return nil
	}
	hits := tree.Get(IntInterval{Start: iv.Start, End: iv.End})
	sort.Slice(hits, func(i, j int) bool { return hits[i].ID() < hits[j].ID() })
	features := make([]Feature, len(hits))
	for i, h := range hits {
		features[i] = h.(IntInterval).Feature
	}
	return features
}
