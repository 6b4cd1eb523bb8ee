//
// Copyright (C) 2015-2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package profile

// JunctionKey is a splice junction: Donor is the position after the last
// matched base before the gap, Acceptor the first matched base after it.
type JunctionKey struct {
	Donor    int
	Acceptor int
}

// JunctionTable counts junctions and keeps them in first-insertion order.
type JunctionTable struct {
	keys   []JunctionKey
	counts []uint32
	index  map[JunctionKey]int
}

func NewJunctionTable() *JunctionTable {
	return &JunctionTable{index: make(map[JunctionKey]int)}
}

// Add adds n to the count of k.
func (t *JunctionTable) Add(k JunctionKey, n uint32) {
	if i, ok := t.index[k]; ok {
		t.counts[i] += n
		return
	}
	t.index[k] = len(t.keys)
	t.keys = append(t.keys, k)
	t.counts = append(t.counts, n)
}

// Count returns the count of k, 0 if absent.
func (t *JunctionTable) Count(k JunctionKey) uint32 {
	if i, ok := t.index[k]; ok {
		return t.counts[i]
	}
	return 0
}

func (t *JunctionTable) Len() int { return len(t.keys) }

// Each calls fn for every junction in insertion order.
func (t *JunctionTable) Each(fn func(k JunctionKey, count uint32)) {
	for i, k := range t.keys {
		fn(k, t.counts[i])
	}
}
