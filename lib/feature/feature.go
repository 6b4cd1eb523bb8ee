//
// Copyright (C) 2015-2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package feature

import (
	"io"
	"os"
	"sort"
	"strings"

	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/seq"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"

	"git.sr.ht/~vejnar/Sashimi/lib/region"
)

// Feature is a transcript: its span and its exons, 0-based half-open.
type Feature struct {
	ID     uint32
	Name   string
	Chrom  string
	Strand int8
	Start  int
	End    int
	Coords [][]int
}

// StrandSymbol returns "+", "-" or "." for unknown strand.
func (feat Feature) StrandSymbol() string {
	switch feat.Strand {
	case 1:
		return "+"
	case -1:
		return "-"
	}
	return "."
}

func attribute(f *gff.Feature, tag string) string {
	for _, a := range f.FeatAttributes {
		// GTF attributes are "tag value" pairs
		k, v, _ := strings.Cut(strings.TrimSpace(a.Tag+" "+a.Value), " ")
		if k == tag {
			return strings.Trim(strings.TrimSpace(v), `"`)
		}
	}
	return ""
}

func strand(s seq.Strand) int8 {
	switch s {
	case seq.Plus:
		return 1
	case seq.Minus:
		return -1
	}
	return 0
}

type openFile struct {
	io.Reader
	closers []io.Closer
}

func (o openFile) Close() error {
	for i := len(o.closers) - 1; i >= 0; i-- {
		o.closers[i].Close()
	}
	return nil
}

func open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "opening %s", path)
		}
		return openFile{Reader: gz, closers: []io.Closer{f, gz}}, nil
	}
	return f, nil
}

// OpenGTF reads the transcripts and exons of a GTF file (optionally gzipped)
// overlapping the region iv. Transcripts and exons are clipped to the region.
// Transcripts are returned in file order.
func OpenGTF(gpath string, iv region.Interval) (features []Feature, err error) {
	gfos, err := open(gpath)
	if err != nil {
		return
	}
	defer gfos.Close()

	var all []Feature
	index := make(map[string]int)
	get := func(name string, gf *gff.Feature) *Feature {
		i, ok := index[name]
		if !ok {
			i = len(all)
			index[name] = i
			all = append(all, Feature{ID: uint32(i), Name: name, Chrom: gf.SeqName, Strand: strand(gf.FeatStrand), Start: -1})
		}
		return &all[i]
	}

	r := gff.NewReader(gfos)
	for {
		f, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrapf(err, "reading GTF %s", gpath)
		}
		gf := f.(*gff.Feature)
		if gf.SeqName != iv.Chrom || (gf.Feature != "transcript" && gf.Feature != "exon") {
			continue
		}
		name := attribute(gf, "transcript_id")
		if name == "" {
			return nil, errors.Errorf("GTF %s: %s at %s:%d without transcript_id", gpath, gf.Feature, gf.SeqName, gf.FeatStart+1)
		}
		feat := get(name, gf)
		if gf.Feature == "transcript" {
			feat.Start, feat.End = gf.FeatStart, gf.FeatEnd
		} else {
			feat.Coords = append(feat.Coords, []int{gf.FeatStart, gf.FeatEnd})
		}
	}

	for i := range all {
		feat := &all[i]
		sort.Slice(feat.Coords, func(a, b int) bool { return feat.Coords[a][0] < feat.Coords[b][0] })
		// Transcript line missing: span of its exons
		if feat.Start == -1 {
			if len(feat.Coords) == 0 {
				continue
			}
			feat.Start, feat.End = feat.Coords[0][0], feat.Coords[len(feat.Coords)-1][1]
		}
	}

	trees, err := BuildFeatTrees(all)
	if err != nil {
		return nil, err
	}
	for _, feat := range Overlapping(trees, iv) {
		if clipped, ok := feat.Clip(iv); ok {
			features = append(features, clipped)
		}
	}
	return features, nil
}

// Clip returns a copy of feat restricted to iv. Exons outside iv are dropped.
func (feat Feature) Clip(iv region.Interval) (Feature, bool) {
	if feat.End <= iv.Start || feat.Start >= iv.End {
		return Feature{}, false
	}
	c := feat
	c.Start, c.End = max(feat.Start, iv.Start), min(feat.End, iv.End)
	c.Coords = nil
	for _, e := range feat.Coords {
		if e[1] > iv.Start && e[0] < iv.End {
			c.Coords = append(c.Coords, []int{max(e[0], iv.Start), min(e[1], iv.End)})
		}
	}
	return c, true
}
