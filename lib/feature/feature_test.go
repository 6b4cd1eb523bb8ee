//
// Copyright (C) 2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package feature

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.sr.ht/~vejnar/Sashimi/lib/cmapper"
	"git.sr.ht/~vejnar/Sashimi/lib/region"
)

const gtf = `chr10	HAVANA	transcript	27030001	27048000	.	+	.	gene_id "G1"; transcript_id "T1";
chr10	HAVANA	exon	27030001	27035500	.	+	.	gene_id "G1"; transcript_id "T1";
chr10	HAVANA	exon	27040527	27048000	.	+	.	gene_id "G1"; transcript_id "T1";
chr10	HAVANA	exon	27037001	27037675	.	+	.	gene_id "G1"; transcript_id "T1";
chr10	HAVANA	gene	27030001	27048000	.	+	.	gene_id "G1";
chr11	HAVANA	transcript	27030001	27048000	.	-	.	gene_id "G2"; transcript_id "T2";
chr10	HAVANA	exon	1	1000	.	-	.	gene_id "G3"; transcript_id "T3";
chr10	HAVANA	exon	27049001	27052000	.	-	.	gene_id "G4"; transcript_id "T4";
`

func writeGTF(t *testing.T, gz bool) string {
	dir := t.TempDir()
	if !gz {
		p := filepath.Join(dir, "ann.gtf")
		require.NoError(t, os.WriteFile(p, []byte(gtf), 0666))
		return p
	}
	p := filepath.Join(dir, "ann.gtf.gz")
	f, err := os.Create(p)
	require.NoError(t, err)
	w := gzip.NewWriter(f)
	_, err = w.Write([]byte(gtf))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return p
}

func TestOpenGTF(t *testing.T) {
	iv, err := region.Parse("chr10:27035000-27050000")
	require.NoError(t, err)
	for _, gz := range []bool{false, true} {
		features, err := OpenGTF(writeGTF(t, gz), iv)
		require.NoError(t, err)
		require.Len(t, features, 2)

		t1 := features[0]
		assert.Equal(t, "T1", t1.Name)
		assert.Equal(t, "+", t1.StrandSymbol())
		assert.Equal(t, 27034999, t1.Start)
		assert.Equal(t, 27048000, t1.End)
		assert.Equal(t, [][]int{{27034999, 27035500}, {27037000, 27037675}, {27040526, 27048000}}, t1.Coords)
		assert.Equal(t, [][]int{{27035500, 27037000}, {27037675, 27040526}}, t1.Introns())

		// Transcript without transcript line
		t4 := features[1]
		assert.Equal(t, "T4", t4.Name)
		assert.Equal(t, "-", t4.StrandSymbol())
		assert.Equal(t, [][]int{{27049000, 27050000}}, t4.Coords)
		assert.Empty(t, t4.Introns())
	}
}

func TestIntrons(t *testing.T) {
	feat := Feature{Start: 100, End: 1000, Coords: [][]int{{500, 600}, {150, 300}}}
	assert.Equal(t, [][]int{{100, 150}, {300, 500}, {600, 1000}}, feat.Introns())
}

func TestShrinkFeatures(t *testing.T) {
	feat := Feature{Name: "T1", Start: 100, End: 1400, Coords: [][]int{{100, 150}, {300, 1400}}}
	sh := cmapper.NewShrinker([]cmapper.Span{{Start: 150, End: 250}})
	shrunk := ShrinkFeatures([]Feature{feat}, sh)
	require.Len(t, shrunk, 1)
	assert.Equal(t, [][]int{{100, 150}, {225, 1325}}, shrunk[0].Coords)
	assert.Equal(t, 1325, shrunk[0].End)
	// Input untouched
	assert.Equal(t, [][]int{{100, 150}, {300, 1400}}, feat.Coords)
}

func TestOpenMapping(t *testing.T) {
	p := filepath.Join(t.TempDir(), "names.tsv")
	require.NoError(t, os.WriteFile(p, []byte("T1\tGAPDH-201\n\nT2\tACTB-201\n"), 0666))
	m, err := OpenMapping(p)
	require.NoError(t, err)
	renamed := RenameFeatures([]Feature{{Name: "T1"}, {Name: "T9"}}, m)
	assert.Equal(t, "GAPDH-201", renamed[0].Name)
	assert.Equal(t, "T9", renamed[1].Name)
}

func TestWriteJunctions(t *testing.T) {
	dir := t.TempDir()
	lines := []string{"chr1\t300\t400\ts2\t3\t+", "chr1\t100\t200\ts1\t2\t-", "chr1\t100\t200\ts1\t5\t+"}
	want := "chr1\t100\t200\ts1\t2\t-\nchr1\t100\t200\ts1\t5\t+\nchr1\t300\t400\ts2\t3\t+"

	p, err := WriteJunctions(filepath.Join(dir, "junctions"), lines, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "junctions.bed"), p)
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, want, string(b))

	for _, tt := range []struct{ name, compression, want string }{
		{"junctions_lz4.bed", "lz4", "junctions_lz4.bed.lz4"},
		{"junctions_hc", "lz4hc", "junctions_hc.bed.lz4"},
		{"junctions_full.bed.lz4", "lz4", "junctions_full.bed.lz4"},
	} {
		p, err = WriteJunctions(filepath.Join(dir, tt.name), lines, tt.compression)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, tt.want), p)
		f, err := os.Open(p)
		require.NoError(t, err)
		b, err = io.ReadAll(lz4.NewReader(f))
		f.Close()
		require.NoError(t, err)
		assert.Equal(t, want, string(b), tt.name)
	}

	_, err = WriteJunctions(filepath.Join(dir, "j.bed"), lines, "zip")
	assert.Error(t, err)
}
