//
// Copyright (C) 2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package render builds the plot payload of one strand and hands it to an
// external rendering command.
package render

import (
	"git.sr.ht/~vejnar/Sashimi/lib/cmapper"
	"git.sr.ht/~vejnar/Sashimi/lib/feature"
	"git.sr.ht/~vejnar/Sashimi/lib/profile"
)

// Options are the drawing parameters forwarded to the renderer. JunctionsOnly
// is set when overlaid densities are kept and only junction counts aggregated.
type Options struct {
	Output        string  `json:"output"`
	Format        string  `json:"format"`
	Resolution    int     `json:"resolution"`
	Height        float64 `json:"height"`
	AnnHeight     float64 `json:"ann_height"`
	Width         float64 `json:"width"`
	BaseSize      float64 `json:"base_size"`
	Alpha         float64 `json:"alpha"`
	FixYScale     bool    `json:"fix_y_scale"`
	Aggregation   string  `json:"aggregation,omitempty"`
	JunctionsOnly bool    `json:"junctions_only,omitempty"`
	ArrowBins     int     `json:"arrow_bins"`
}

// Track is one panel of the plot: a sample, or an overlay of samples.
type Track struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Color     string    `json:"color"`
	X         []int     `json:"x"`
	Y         []float64 `json:"y"`
	Donors    []int     `json:"donors"`
	Acceptors []int     `json:"acceptors"`
	YDonor    []float64 `json:"y_donor"`
	YAcceptor []float64 `json:"y_acceptor"`
	Counts    []float64 `json:"counts"`
}

// NewTrack copies the arrays of sig into a Track.
func NewTrack(id, label, color string, sig profile.Signal) Track {
	return Track{
		ID:        id,
		Label:     label,
		Color:     color,
		X:         sig.X,
		Y:         sig.Y,
		Donors:    sig.Donors,
		Acceptors: sig.Acceptors,
		YDonor:    sig.YDonor,
		YAcceptor: sig.YAcceptor,
		Counts:    sig.Counts,
	}
}

// Transcript is an annotation row, with its exons and introns.
type Transcript struct {
	Name    string  `json:"name"`
	Strand  string  `json:"strand"`
	Start   int     `json:"start"`
	End     int     `json:"end"`
	Exons   [][]int `json:"exons"`
	Introns [][]int `json:"introns"`
}

// NewTranscripts converts features, already clipped and shrunk if required.
func NewTranscripts(features []feature.Feature) []Transcript {
	ts := make([]Transcript, len(features))
	for i, feat := range features {
		ts[i] = Transcript{
			Name:    feat.Name,
			Strand:  feat.StrandSymbol(),
			Start:   feat.Start,
			End:     feat.End,
			Exons:   feat.Coords,
			Introns: feat.Introns(),
		}
	}
	return ts
}

// RemapPoint is a boundary of a shrunk span.
type RemapPoint struct {
	Shrunk int `json:"shrunk"`
	Real   int `json:"real"`
}

// Payload is everything the renderer needs for the plot of one strand.
// XMin and XMax bound the axis in plot (possibly shrunk) coordinates.
type Payload struct {
	Region     string       `json:"region"`
	Strand     string       `json:"strand"`
	Shrink     bool         `json:"shrink"`
	XMin       int          `json:"x_min"`
	XMax       int          `json:"x_max"`
	Height     float64      `json:"height"`
	Options    Options      `json:"options"`
	Tracks     []Track      `json:"tracks"`
	Introns    [][]int      `json:"introns,omitempty"`
	Remap      []RemapPoint `json:"remap,omitempty"`
	Annotation []Transcript `json:"annotation,omitempty"`
}

// SetShrink records the spans used to shrink the plot and the boundary remap
// used to label the axis with genomic coordinates.
func (p *Payload) SetShrink(spans []cmapper.Span, remap cmapper.Remap) {
	p.Shrink = true
	p.Introns = make([][]int, len(spans))
	for i, sp := range spans {
		p.Introns[i] = []int{sp.Start, sp.End}
	}
	p.Remap = make([]RemapPoint, len(remap))
	for i, r := range remap {
		p.Remap[i] = RemapPoint{Shrunk: r.Shrunk, Real: r.Real}
	}
}

// TotalHeight returns the total plot height: one signal height per track plus
// the annotation height if any.
func (p *Payload) TotalHeight() float64 {
	h := p.Options.Height * float64(len(p.Tracks))
	if p.Annotation != nil {
		h += p.Options.AnnHeight
	}
	return h
}
