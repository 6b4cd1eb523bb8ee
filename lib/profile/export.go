//
// Copyright (C) 2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package profile

import (
	"strconv"
	"strings"

	"git.sr.ht/~vejnar/Sashimi/lib/esam"
)

// JunctionLines returns one tabulated line per junction supported by more
// than minCount reads: chrom, donor, acceptor, sample, count and strand.
func JunctionLines(chrom string, sample string, strand esam.Strand, t *JunctionTable, minCount uint32) (lines []string) {
	t.Each(func(k JunctionKey, n uint32) {
		if n <= minCount {
			return
		}
		lines = append(lines, strings.Join([]string{chrom, strconv.Itoa(k.Donor), strconv.Itoa(k.Acceptor), sample, strconv.FormatUint(uint64(n), 10), strand.String()}, "\t"))
	})
	return
}
