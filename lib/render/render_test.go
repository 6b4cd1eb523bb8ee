//
// Copyright (C) 2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package render

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.sr.ht/~vejnar/Sashimi/lib/cmapper"
	"git.sr.ht/~vejnar/Sashimi/lib/esam"
	"git.sr.ht/~vejnar/Sashimi/lib/feature"
	"git.sr.ht/~vejnar/Sashimi/lib/profile"
)

func TestValidateFormat(t *testing.T) {
	for _, f := range Formats {
		assert.NoError(t, ValidateFormat(f))
	}
	for _, f := range []string{"", "tif", "jpg", "eps"} {
		assert.Error(t, ValidateFormat(f), f)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		prefix   string
		format   string
		strand   esam.Strand
		stranded bool
		expected string
	}{
		{"sashimi", "pdf", esam.Plus, false, "sashimi.pdf"},
		{"sashimi", "pdf", esam.Plus, true, "sashimi_+.pdf"},
		{"sashimi", "pdf", esam.Minus, true, "sashimi_-.pdf"},
		{"out/plot.png", "png", esam.Plus, false, "out/plot.png"},
		{"out/plot.png", "pdf", esam.Plus, false, "out/plot.png.pdf"},
		{"plot.tif", "tiff", esam.Minus, true, "plot_-.tif"},
		{"plot.tiff", "tiff", esam.Plus, false, "plot.tiff"},
		{"plot.jpg", "jpeg", esam.Plus, true, "plot_+.jpg"},
		{"plot.v2", "svg", esam.Plus, false, "plot.v2.svg"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, OutputPath(tt.prefix, tt.format, tt.strand, tt.stranded), tt.prefix)
	}
}

func TestReadPalette(t *testing.T) {
	p, err := ReadPalette("")
	require.NoError(t, err)
	assert.Equal(t, []string{"#ff0000", "#00ff00", "#0000ff", "#000000"}, p)

	path := filepath.Join(t.TempDir(), "palette.tsv")
	require.NoError(t, os.WriteFile(path, []byte("red\tfirst\n#123456\n\nblue\tthird\n"), 0644))
	p, err = ReadPalette(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"red", "#123456", "blue"}, p)

	_, err = ReadPalette(filepath.Join(t.TempDir(), "missing.tsv"))
	assert.Error(t, err)
}

func TestColorize(t *testing.T) {
	keys := []string{"s1", "s2", "s3", "s4"}
	levels := []string{"wt", "ko", "wt", "het"}
	c := Colorize(keys, levels, []string{"red", "blue"}, true)
	assert.Equal(t, map[string]string{"s1": "red", "s2": "blue", "s3": "red", "s4": "red"}, c)

	c = Colorize(keys, levels, DefaultPalette, false)
	for _, k := range keys {
		assert.Equal(t, NoFactorColor, c[k])
	}
}

func testPayload() *Payload {
	sig := profile.Signal{X: []int{100, 101, 102}, Y: []float64{1, 2, 1}, Donors: []int{101}, Acceptors: []int{102}, YDonor: []float64{2}, YAcceptor: []float64{1}, Counts: []float64{3}}
	p := &Payload{
		Region:  "chr1:101-103",
		Strand:  "+",
		XMin:    100,
		XMax:    102,
		Options: Options{Format: "pdf", Output: "sashimi.pdf", Height: 2, AnnHeight: 1.5, Width: 10},
		Tracks:  []Track{NewTrack("s1", "Sample 1", "grey", sig), NewTrack("s2", "Sample 2", "grey", sig)},
	}
	feat := feature.Feature{Name: "T1", Strand: -1, Start: 100, End: 103, Coords: [][]int{{100, 101}, {102, 103}}}
	p.Annotation = NewTranscripts([]feature.Feature{feat})
	p.SetShrink([]cmapper.Span{{Start: 101, End: 102}}, cmapper.Remap{{Shrunk: 101, Real: 101}, {Shrunk: 102, Real: 102}})
	return p
}

func TestPayload(t *testing.T) {
	p := testPayload()
	assert.Equal(t, 5.5, p.TotalHeight())
	assert.True(t, p.Shrink)
	assert.Equal(t, [][]int{{101, 102}}, p.Introns)
	require.Len(t, p.Annotation, 1)
	assert.Equal(t, "-", p.Annotation[0].Strand)
	assert.Equal(t, [][]int{{101, 102}}, p.Annotation[0].Introns)
	assert.Equal(t, []float64{3}, p.Tracks[1].Counts)
}

func readPayload(t *testing.T, path string) Payload {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	var p Payload
	var dec *json.Decoder
	if filepath.Ext(path) == ".gz" {
		gz, err := gzip.NewReader(f)
		require.NoError(t, err)
		dec = json.NewDecoder(gz)
	} else {
		dec = json.NewDecoder(f)
	}
	require.NoError(t, dec.Decode(&p))
	return p
}

func TestWritePayload(t *testing.T) {
	p := testPayload()
	dir := t.TempDir()
	for _, name := range []string{"payload.json", "payload.json.gz"} {
		path := filepath.Join(dir, name)
		require.NoError(t, p.WritePayload(path))
		assert.Equal(t, *p, readPayload(t, path), name)
	}
}

func TestRun(t *testing.T) {
	p := testPayload()
	path := filepath.Join(t.TempDir(), "received.json")
	require.NoError(t, Run(context.Background(), []string{"sh", "-c", "cat > " + path}, p))
	assert.Equal(t, *p, readPayload(t, path))

	err := Run(context.Background(), []string{"sh", "-c", "echo failed >&2; exit 3"}, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed")

	assert.Error(t, Run(context.Background(), nil, p))
}
