//
// Copyright © 2015 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"git.sr.ht/~vejnar/Sashimi/lib/esam"
	"git.sr.ht/~vejnar/Sashimi/lib/profile"
	"git.sr.ht/~vejnar/Sashimi/lib/region"
	"git.sr.ht/~vejnar/Sashimi/lib/render"
)

var version = "DEV"

func main() {
	// Arguments: General
	var pathReport string
	var nWorker int
	var verbose, printVersion bool
	flag.StringVar(&pathReport, "path_report", "", "Write report to path (stdout with -)")
	flag.IntVar(&nWorker, "num_worker", 1, "Number of sample(s) scanned in parallel")
	flag.BoolVar(&verbose, "verbose", false, "Verbose")
	flag.BoolVar(&printVersion, "version", false, "Print version and quit")
	// Arguments: Input
	var pathSamples, coordinates, rawSAMCmdIn, pathGTF, pathMapping, protocolRaw string
	var overlayCol, colorCol, labelCol int
	flag.StringVar(&pathSamples, "bam", "", "Path to BAM/SAM file or to tabulated sample list (1col: ID, 2col: path, 3+col: additional columns)")
	flag.StringVar(&coordinates, "coordinates", "", "Genomic region chr:start-end (1-based)")
	flag.StringVar(&rawSAMCmdIn, "sam_command_in", "", "Command line printing the SAM records of a file, called with the file path and region as last arguments (comma separated)")
	flag.StringVar(&pathGTF, "gtf", "", "Path to GTF annotation (only exons is enough, gzip supported)")
	flag.StringVar(&pathMapping, "path_mapping", "", "Path to transcript name(s) mapping (tabulated file)")
	flag.StringVar(&protocolRaw, "strand", "NONE", "Strand specificity: NONE, SENSE, ANTISENSE, MATE1_SENSE or MATE2_SENSE")
	flag.IntVar(&overlayCol, "overlay", 0, "Index of column with overlay levels (1-based)")
	flag.IntVar(&colorCol, "color_factor", 0, "Index of column with color levels (1-based)")
	flag.IntVar(&labelCol, "labels", 1, "Index of column with labels (1-based)")
	// Arguments: Signal
	var minCoverage int
	var shrink bool
	var aggrRaw string
	flag.IntVar(&minCoverage, "min_coverage", 1, "Minimum number of reads supporting a junction to be drawn")
	flag.BoolVar(&shrink, "shrink", false, "Shrink the junctions by a factor for nicer display")
	flag.StringVar(&aggrRaw, "aggr", "", "Aggregate function for overlay: mean, median, mean_j or median_j (keep density overlay but aggregate junction counts)")
	// Arguments: Output
	var outPrefix, outStrand, outFormat, junctionsBED, junctionsCompression, pathPalette, rawRenderCommand, pathPayload string
	var outResolution int
	var alpha, height, annHeight, width, baseSize float64
	var fixYScale bool
	flag.StringVar(&outPrefix, "out_prefix", "sashimi", "Prefix for plot file name")
	flag.StringVar(&outStrand, "out_strand", "both", "Only for stranded library: plot 'both', 'plus' or 'minus' strand")
	flag.StringVar(&outFormat, "out_format", "pdf", "Output format: 'pdf', 'svg', 'png', 'jpeg' or 'tiff'")
	flag.IntVar(&outResolution, "out_resolution", 300, "Output resolution in DPI")
	flag.StringVar(&junctionsBED, "junctions_bed", "", "Junction BED file name (default no junction file)")
	flag.StringVar(&junctionsCompression, "junctions_compression", "", "Junction BED compression: 'lz4' or 'lz4hc' (default none)")
	flag.StringVar(&pathPalette, "palette", "", "Color palette file (tabulated, color in first column)")
	flag.Float64Var(&alpha, "alpha", 0.5, "Transparency level for density histogram")
	flag.Float64Var(&height, "height", 2, "Height of the individual signal plot in inches")
	flag.Float64Var(&annHeight, "ann_height", 1.5, "Height of annotation plot in inches")
	flag.Float64Var(&width, "width", 10, "Width of the plot in inches")
	flag.Float64Var(&baseSize, "base_size", 14, "Base font size of the plot in pch")
	flag.BoolVar(&fixYScale, "fix_y_scale", false, "Fix y-scale across individual signal plots")
	flag.StringVar(&rawRenderCommand, "render_command", "", "Command line of the renderer reading the JSON plot payload on stdin (comma separated)")
	flag.StringVar(&pathPayload, "path_payload", "", "Write JSON plot payload to path (gzip if ending with .gz)")
	// Arguments: Parse
	flag.Parse()

	// Version
	if printVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Logging
	logrus.SetOutput(os.Stderr)
	if verbose {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}

	// Max CPU
	runtime.GOMAXPROCS(nWorker * 2)

	// Check arguments
	if pathSamples == "" {
		logrus.Fatal("No BAM input")
	} else if _, err := os.Stat(pathSamples); os.IsNotExist(err) {
		logrus.Fatalln(pathSamples, "not found")
	}
	if pathGTF != "" {
		if _, err := os.Stat(pathGTF); os.IsNotExist(err) {
			logrus.Fatalln(pathGTF, "not found")
		}
	}
	if rawRenderCommand == "" && pathPayload == "" {
		logrus.Fatal("No render command or payload path")
	}
	if aggrRaw != "" && overlayCol == 0 {
		logrus.Fatal("Cannot apply aggregate function if overlay is not selected")
	}
	if err := render.ValidateFormat(outFormat); err != nil {
		logrus.Fatal(err)
	}

	// Parse raw arguments
	opts := Options{
		PathSamples:          pathSamples,
		Columns:              esam.SampleColumns{Overlay: overlayCol, Color: colorCol, Label: labelCol},
		PathGTF:              pathGTF,
		PathMapping:          pathMapping,
		MinCoverage:          uint32(minCoverage),
		Shrink:               shrink,
		OutPrefix:            outPrefix,
		JunctionsBED:         junctionsBED,
		JunctionsCompression: junctionsCompression,
		PathPalette:          pathPalette,
		PathPayload:          pathPayload,
		PathReport:           pathReport,
		NumWorker:            nWorker,
		TimeStart:            time.Now(),
		Render: render.Options{
			Format:     outFormat,
			Resolution: outResolution,
			Height:     height,
			AnnHeight:  annHeight,
			Width:      width,
			BaseSize:   baseSize,
			Alpha:      alpha,
			FixYScale:  fixYScale,
			ArrowBins:  50,
		},
	}
	var err error
	if opts.Region, err = region.Parse(coordinates); err != nil {
		logrus.Fatal(err)
	}
	if err = opts.Region.Validate(); err != nil {
		logrus.Fatal(err)
	}
	if opts.Protocol, err = esam.ParseProtocol(protocolRaw); err != nil {
		logrus.Fatal(err)
	}
	if opts.Aggregation, err = profile.ParseMode(aggrRaw); err != nil {
		logrus.Fatal(err)
	}
	switch outStrand {
	case "both":
		opts.OutStrands = []esam.Strand{esam.Plus, esam.Minus}
	case "plus":
		opts.OutStrands = []esam.Strand{esam.Plus}
	case "minus":
		opts.OutStrands = []esam.Strand{esam.Minus}
	default:
		logrus.Fatalf("Unknown out_strand %q: 'both', 'plus' or 'minus'", outStrand)
	}
	if minCoverage < 0 {
		logrus.Fatal("min_coverage must be positive")
	}
	if rawSAMCmdIn != "" {
		opts.SAMCmdIn = strings.Split(rawSAMCmdIn, ",")
	}
	if rawRenderCommand != "" {
		opts.RenderCommand = strings.Split(rawRenderCommand, ",")
	}

	// Plot
	nPlot, err := Plot(context.Background(), opts)
	if err != nil {
		logrus.Fatal(err)
	}

	// Verbose
	logrus.Infof("%.1fmin - Done %d plot(s)", time.Since(opts.TimeStart).Minutes(), nPlot)
}
