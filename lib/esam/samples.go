//
// Copyright (C) 2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package esam

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/fatih/set.v0"
)

// Sample is one alignment file with its plotting attributes.
type Sample struct {
	ID      string
	Path    PathSAM
	Overlay string
	Color   string
	Label   string
}

// SampleColumns are the 1-based columns of the sample list holding the
// overlay level, color level and label. 0 means unused.
type SampleColumns struct {
	Overlay int
	Color   int
	Label   int
}

func pathSAM(p string) PathSAM {
	return PathSAM{Path: p, Binary: !strings.HasSuffix(strings.ToLower(p), ".sam")}
}

func column(fields []string, col int, line int) (string, error) {
	if col <= 0 {
		return "", nil
	}
	if col > len(fields) {
		return "", fmt.Errorf("line %d: missing column %d", line, col)
	}
	return fields[col-1], nil
}

// OpenSamples returns the samples of a BAM/SAM file or of a tabulated sample list.
// A list has the sample ID in the first column and the alignment path in the
// second. Relative paths are relative to the list directory.
func OpenSamples(spath string, cols SampleColumns) (samples []Sample, err error) {
	lower := strings.ToLower(spath)
	if strings.HasSuffix(lower, ".bam") || strings.HasSuffix(lower, ".sam") {
		base := filepath.Base(spath)
		id := strings.TrimSuffix(base, filepath.Ext(base))
		return []Sample{{ID: id, Path: pathSAM(spath), Label: id}}, nil
	}

	sfos, err := os.Open(spath)
	if err != nil {
		return
	}
	defer sfos.Close()

	ids := set.New(set.NonThreadSafe)
	dir := filepath.Dir(spath)
	var iline int
	tscanner := bufio.NewScanner(sfos)
	for tscanner.Scan() {
		iline++
		line := strings.TrimSpace(tscanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("%s line %d: expected ID and path", spath, iline)
		}
		s := Sample{ID: fields[0]}
		if ids.Has(s.ID) {
			return nil, fmt.Errorf("%s line %d: duplicated sample %s", spath, iline, s.ID)
		}
		ids.Add(s.ID)
		p := fields[1]
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		s.Path = pathSAM(p)
		if s.Overlay, err = column(fields, cols.Overlay, iline); err != nil {
			return nil, err
		}
		if s.Color, err = column(fields, cols.Color, iline); err != nil {
			return nil, err
		}
		if s.Label, err = column(fields, cols.Label, iline); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	if err = tscanner.Err(); err != nil {
		return
	}
	return
}
