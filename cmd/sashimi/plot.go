//
// Copyright (C) 2015-2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"git.sr.ht/~vejnar/Sashimi/lib/cmapper"
	"git.sr.ht/~vejnar/Sashimi/lib/esam"
	"git.sr.ht/~vejnar/Sashimi/lib/feature"
	"git.sr.ht/~vejnar/Sashimi/lib/profile"
	"git.sr.ht/~vejnar/Sashimi/lib/region"
	"git.sr.ht/~vejnar/Sashimi/lib/render"
)

// Options holds the parsed command line.
type Options struct {
	PathSamples          string
	Columns              esam.SampleColumns
	Region               region.Interval
	Protocol             esam.Protocol
	SAMCmdIn             []string
	PathGTF              string
	PathMapping          string
	MinCoverage          uint32
	Shrink               bool
	Aggregation          profile.Mode
	OutPrefix            string
	OutStrands           []esam.Strand
	JunctionsBED         string
	JunctionsCompression string
	PathPalette          string
	Render               render.Options
	RenderCommand        []string
	PathPayload          string
	PathReport           string
	NumWorker            int
	TimeStart            time.Time
}

// sampleResult is the outcome of scanning one sample. Skipped is set when
// the sample is left out of the plot.
type sampleResult struct {
	Sample  esam.Sample
	Scan    *profile.Scan
	Signals [esam.NumStrands]profile.Signal
	Skipped string
}

func elapsed(opts Options) float64 {
	return time.Since(opts.TimeStart).Minutes()
}

// scanSample scans and reduces one sample. Anomalies are reported in the
// result and never returned as errors.
func scanSample(s esam.Sample, opts Options) *sampleResult {
	res := &sampleResult{Sample: s}
	if _, err := os.Stat(s.Path.Path); err != nil {
		res.Skipped = err.Error()
		logrus.Warnf("Sample %s: %s not found, skipping", s.ID, s.Path.Path)
		return res
	}
	logrus.Infof("%.1fmin - Opening %s", elapsed(opts), s.Path.Path)
	src := esam.OpenSource(s.Path, opts.SAMCmdIn, 1)
	scan, err := profile.ScanRegion(src, opts.Region, opts.Protocol)
	if err != nil {
		res.Skipped = err.Error()
		logrus.Warnf("Sample %s: %s, skipping", s.ID, err)
		return res
	}
	res.Scan = scan
	if scan.Empty() {
		w := &profile.NoDataWarning{Sample: s.ID, Interval: opts.Region}
		res.Skipped = w.Error()
		logrus.Warn(w)
		return res
	}
	for _, st := range scan.Strands() {
		res.Signals[st], err = profile.Reduce(scan.Profiles[st], opts.Region, opts.MinCoverage)
		var oe *profile.OutOfRangeError
		if errors.As(err, &oe) {
			logrus.Warnf("Sample %s: %s, skipping junction", s.ID, err)
		} else if err != nil {
			res.Skipped = err.Error()
			logrus.Warnf("Sample %s: %s, skipping", s.ID, err)
			return res
		}
	}
	logrus.Infof("%.1fmin - %s: %d align. (%d rejected)", elapsed(opts), s.ID, scan.Stats.Alignments, scan.Stats.Rejected)
	return res
}

// scanSamples scans samples with up to opts.NumWorker in parallel. Results
// are in sample order.
func scanSamples(ctx context.Context, samples []esam.Sample, opts Options) ([]*sampleResult, error) {
	results := make([]*sampleResult, len(samples))
	g, gctx := errgroup.WithContext(ctx)
	if opts.NumWorker > 0 {
		g.SetLimit(opts.NumWorker)
	}
	for i, s := range samples {
		i, s := i, s
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = scanSample(s, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// group is a plot track: one sample, or the samples of an overlay level.
type group struct {
	Key     string
	Label   string
	Level   string
	Members []*sampleResult
}

// makeGroups returns the tracks in order of first appearance.
func makeGroups(kept []*sampleResult, overlay bool) []*group {
	var groups []*group
	index := make(map[string]*group)
	for _, r := range kept {
		s := r.Sample
		if !overlay {
			label := s.Label
			if label == "" {
				label = s.ID
			}
			level := s.Color
			if level == "" {
				level = s.ID
			}
			groups = append(groups, &group{Key: s.ID, Label: label, Level: level, Members: []*sampleResult{r}})
			continue
		}
		g, ok := index[s.Overlay]
		if !ok {
			g = &group{Key: s.Overlay, Label: s.Overlay, Level: s.Overlay}
			index[s.Overlay] = g
			groups = append(groups, g)
		}
		g.Members = append(g.Members, r)
	}
	return groups
}

// payloadPath inserts the strand before the extension(s) of the payload path.
func payloadPath(p string, strand esam.Strand, stranded bool) string {
	if !stranded {
		return p
	}
	var gz string
	if strings.HasSuffix(p, ".gz") {
		p, gz = strings.TrimSuffix(p, ".gz"), ".gz"
	}
	ext := filepath.Ext(p)
	return strings.TrimSuffix(p, ext) + "_" + strand.String() + ext + gz
}

// buildPayload computes the plot of one strand from the kept samples.
func buildPayload(strand esam.Strand, kept []*sampleResult, features []feature.Feature, colors map[string]string, opts Options) (*render.Payload, error) {
	iv := opts.Region
	p := &render.Payload{
		Region:  iv.String(),
		Strand:  strand.String(),
		XMin:    iv.Start,
		XMax:    iv.End - 1,
		Options: opts.Render,
	}
	p.Options.Output = render.OutputPath(opts.OutPrefix, opts.Render.Format, strand, opts.Protocol.Stranded())
	if opts.Aggregation != profile.ModeNone {
		p.Options.Aggregation = opts.Aggregation.String()
		p.Options.JunctionsOnly = opts.Aggregation.Junctions()
	}

	// Shrink on the junctions shared by all samples
	var sh *cmapper.Shrinker
	if opts.Shrink {
		var introns []cmapper.Span
		for _, r := range kept {
			introns = append(introns, r.Signals[strand].Introns()...)
		}
		spans := cmapper.IntersectIntrons(introns)
		sh = cmapper.NewShrinker(spans)
		p.SetShrink(spans, sh.Remap())
		p.XMin, p.XMax = sh.Shrink(p.XMin), sh.Shrink(p.XMax)
		logrus.Infof("%.1fmin - Strand %s: %d intron(s) shrunk by %d bases", elapsed(opts), strand, len(spans), sh.Shift())
	}

	overlay := opts.Columns.Overlay > 0
	for _, g := range makeGroups(kept, overlay) {
		signals := make([]profile.Signal, len(g.Members))
		for i, m := range g.Members {
			signals[i] = m.Signals[strand]
		}
		mode := profile.ModeNone
		if overlay {
			mode = opts.Aggregation
		}
		sig, err := profile.Aggregate(signals, mode)
		if err != nil {
			return nil, errors.Wrapf(err, "track %s", g.Key)
		}
		if sh != nil {
			sig, _ = sig.Shrink(sh)
		}
		p.Tracks = append(p.Tracks, render.NewTrack(g.Key, g.Label, colors[g.Key], sig))
	}

	if features != nil {
		if sh != nil {
			features = feature.ShrinkFeatures(features, sh)
		}
		p.Annotation = render.NewTranscripts(features)
	}
	p.Height = p.TotalHeight()
	return p, nil
}

// colorize assigns a colour to every track key.
func colorize(kept []*sampleResult, opts Options) (map[string]string, error) {
	palette, err := render.ReadPalette(opts.PathPalette)
	if err != nil {
		return nil, errors.Wrap(err, "reading palette")
	}
	var keys, levels []string
	for _, g := range makeGroups(kept, opts.Columns.Overlay > 0) {
		keys = append(keys, g.Key)
		levels = append(levels, g.Level)
	}
	return render.Colorize(keys, levels, palette, opts.Columns.Color > 0), nil
}

// exportJunctions writes the junctions of the kept samples.
func exportJunctions(kept []*sampleResult, opts Options) error {
	var lines []string
	for _, r := range kept {
		for _, st := range r.Scan.Strands() {
			lines = append(lines, profile.JunctionLines(opts.Region.Chrom, r.Sample.ID, st, r.Scan.Profiles[st].Junctions, opts.MinCoverage)...)
		}
	}
	p, err := feature.WriteJunctions(opts.JunctionsBED, lines, opts.JunctionsCompression)
	if err != nil {
		return errors.Wrap(err, "writing junctions")
	}
	logrus.Infof("%.1fmin - Wrote %d junction(s) in %s", elapsed(opts), len(lines), p)
	return nil
}

// Plot scans every sample over the region and renders one plot per strand.
// It returns the number of plots.
func Plot(ctx context.Context, opts Options) (int, error) {
	samples, err := esam.OpenSamples(opts.PathSamples, opts.Columns)
	if err != nil {
		return 0, errors.Wrap(err, "opening samples")
	}
	results, err := scanSamples(ctx, samples, opts)
	if err != nil {
		return 0, err
	}
	if opts.PathReport != "" {
		if err = WriteReport(opts.PathReport, results); err != nil {
			return 0, errors.Wrap(err, "writing report")
		}
	}
	var kept []*sampleResult
	for _, r := range results {
		if r.Skipped == "" {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return 0, &profile.EmptyInputError{}
	}

	if opts.JunctionsBED != "" {
		if err = exportJunctions(kept, opts); err != nil {
			return 0, err
		}
	}

	var features []feature.Feature
	if opts.PathGTF != "" {
		if features, err = feature.OpenGTF(opts.PathGTF, opts.Region); err != nil {
			return 0, errors.Wrap(err, "reading annotation")
		}
		if opts.PathMapping != "" {
			m, err := feature.OpenMapping(opts.PathMapping)
			if err != nil {
				return 0, errors.Wrap(err, "reading mapping")
			}
			features = feature.RenameFeatures(features, m)
		}
		if features == nil {
			features = []feature.Feature{}
		}
		logrus.Infof("%.1fmin - %d transcript(s) in %s", elapsed(opts), len(features), opts.Region)
	}

	colors, err := colorize(kept, opts)
	if err != nil {
		return 0, err
	}

	stranded := opts.Protocol.Stranded()
	var nPlot int
	for _, strand := range kept[0].Scan.Strands() {
		if stranded && !hasStrand(opts.OutStrands, strand) {
			continue
		}
		p, err := buildPayload(strand, kept, features, colors, opts)
		if err != nil {
			return nPlot, err
		}
		if opts.PathPayload != "" {
			pp := payloadPath(opts.PathPayload, strand, stranded)
			if err = p.WritePayload(pp); err != nil {
				return nPlot, err
			}
			logrus.Infof("%.1fmin - Wrote payload in %s", elapsed(opts), pp)
		}
		if len(opts.RenderCommand) > 0 {
			logrus.Infof("%.1fmin - Rendering %s", elapsed(opts), p.Options.Output)
			if err = render.Run(ctx, opts.RenderCommand, p); err != nil {
				return nPlot, err
			}
		}
		nPlot++
	}
	return nPlot, nil
}

func hasStrand(strands []esam.Strand, s esam.Strand) bool {
	for _, t := range strands {
		if t == s {
			return true
		}
	}
	return false
}
