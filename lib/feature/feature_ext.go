//
// Copyright © 2015 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package feature

import (
	"bufio"
	"os"
	"sort"
	"strings"

	"github.com/pierrec/lz4"
	"github.com/pkg/errors"

	"git.sr.ht/~vejnar/Sashimi/lib/cmapper"
)

// Introns returns the gaps of the transcript span not covered by exons,
// including the parts before the first and after the last exon.
func (feat Feature) Introns() (introns [][]int) {
	exons := make([][]int, len(feat.Coords))
	copy(exons, feat.Coords)
	sort.Slice(exons, func(i, j int) bool { return exons[i][0] < exons[j][0] })
	intronStart := feat.Start
	for _, e := range exons {
		if intronStart < e[0] {
			introns = append(introns, []int{intronStart, e[0]})
		}
		if e[1] > intronStart {
			intronStart = e[1]
		}
	}
	if intronStart < feat.End {
		introns = append(introns, []int{intronStart, feat.End})
	}
	return
}

// Shrink returns a new feature with its span and exons in the shrunk
// coordinates of sh. feat is not modified.
func (feat Feature) Shrink(sh *cmapper.Shrinker) Feature {
	n := feat
	n.Start, n.End = sh.Shrink(feat.Start), sh.Shrink(feat.End)
	n.Coords = make([][]int, len(feat.Coords))
	for i, e := range feat.Coords {
		n.Coords[i] = []int{sh.Shrink(e[0]), sh.Shrink(e[1])}
	}
	return n
}

// ShrinkFeatures shrinks every feature, see Feature.Shrink.
func ShrinkFeatures(features []Feature, sh *cmapper.Shrinker) []Feature {
	shrunk := make([]Feature, len(features))
	for i, feat := range features {
		shrunk[i] = feat.Shrink(sh)
	}
	return shrunk
}

type GenericWriter interface {
	Write(buf []byte) (n int, err error)
	Close() error
}

type nopCloser struct {
	*bufio.Writer
}

func (n nopCloser) Close() error { return n.Flush() }

// WriteJunctions writes junction lines sorted lexicographically to jpath,
// adding the ".bed" extension if missing. compression is "", "lz4" or "lz4hc";
// compressed output gets the ".bed.lz4" extension. It returns the path written.
func WriteJunctions(jpath string, lines []string, compression string) (string, error) {
	jpath = strings.TrimSuffix(jpath, ".lz4")
	if !strings.HasSuffix(jpath, ".bed") {
		jpath += ".bed"
	}
	if compression != "" {
		jpath += ".lz4"
	}
	sorted := append([]string(nil), lines...)
	sort.Strings(sorted)

	f, err := os.OpenFile(jpath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return jpath, err
	}
	defer f.Close()
	var writer GenericWriter
	switch compression {
	case "lz4":
		writer = lz4.NewWriter(f)
	case "lz4hc":
		lzWriter := lz4.NewWriter(f)
		lzWriter.Header = lz4.Header{CompressionLevel: 9}
		writer = lzWriter
	case "":
		writer = nopCloser{bufio.NewWriter(f)}
	default:
		return jpath, errors.Errorf("unknown junction compression %q", compression)
	}
	if _, err = writer.Write([]byte(strings.Join(sorted, "\n"))); err != nil {
		writer.Close()
		return jpath, err
	}
	if err = writer.Close(); err != nil {
		return jpath, err
	}
	return jpath, f.Close()
}
