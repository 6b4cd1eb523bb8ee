//
// Copyright (C) 2015-2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"encoding/json"
	"fmt"
	"os"
)

type sampleReport struct {
	ID           string `json:"id"`
	Path         string `json:"path"`
	Alignments   int    `json:"alignments"`
	Rejected     int    `json:"rejected"`
	Reads        int    `json:"reads"`
	AlignedBases int    `json:"aligned_bases"`
	Junctions    []int  `json:"junctions,omitempty"`
	Skipped      string `json:"skipped,omitempty"`
}

func newSampleReport(r *sampleResult) sampleReport {
	sr := sampleReport{ID: r.Sample.ID, Path: r.Sample.Path.Path, Skipped: r.Skipped}
	if r.Scan != nil {
		sr.Alignments = r.Scan.Stats.Alignments
		sr.Rejected = r.Scan.Stats.Rejected
		sr.Reads = r.Scan.Stats.Reads.Size()
		sr.AlignedBases = r.Scan.Stats.AlignedBases
		for _, st := range r.Scan.Strands() {
			sr.Junctions = append(sr.Junctions, r.Scan.Profiles[st].Junctions.Len())
		}
	}
	return sr
}

// WriteReport writes the scan statistics of every sample as JSON to
// pathReport, or to stdout if pathReport is "-".
func WriteReport(pathReport string, results []*sampleResult) (err error) {
	reports := make([]sampleReport, len(results))
	for i, r := range results {
		reports[i] = newSampleReport(r)
	}
	report, _ := json.MarshalIndent(reports, "", "  ")
	if pathReport != "-" {
		if f, err := os.Create(pathReport); err != nil {
			return err
		} else {
			if _, err = f.Write(report); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		}
	} else {
		fmt.Println(string(report))
	}
	return nil
}
