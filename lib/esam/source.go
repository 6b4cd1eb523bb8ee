//
// Copyright (C) 2015-2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package esam

import (
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"github.com/pkg/errors"

	"git.sr.ht/~vejnar/Sashimi/lib/region"
)

// Iterator walks the alignments overlapping a region.
type Iterator interface {
	Next() bool
	Alignment() Alignment
	Error() error
	Close() error
}

// Source fetches alignments overlapping a region.
type Source interface {
	Fetch(iv region.Interval) (Iterator, error)
}

// overlaps reports whether r is placed on chrom and spans part of [start,end).
func overlaps(r *sam.Record, iv region.Interval) bool {
	if r.Ref == nil || r.Ref.Name() != iv.Chrom {
		return false
	}
	return r.Start() < iv.End && r.End() > iv.Start
}

// BAMSource reads a coordinate-sorted BAM file with its BAI index.
type BAMSource struct {
	Path    string
	Workers int
}

// IndexPath returns the path of the BAI index: "<path>.bai" or, if missing,
// the path with its ".bam" extension replaced by ".bai".
func (s BAMSource) IndexPath() string {
	p := s.Path + ".bai"
	if _, err := os.Stat(p); err == nil {
		return p
	}
	if strings.HasSuffix(s.Path, ".bam") {
		alt := strings.TrimSuffix(s.Path, ".bam") + ".bai"
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}
	return p
}

func (s BAMSource) Fetch(iv region.Interval) (Iterator, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	br, err := bam.NewReader(f, s.Workers)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "opening BAM %s", s.Path)
	}
	fi, err := os.Open(s.IndexPath())
	if err != nil {
		br.Close()
		f.Close()
		return nil, errors.Wrapf(err, "opening index of %s", s.Path)
	}
	idx, err := bam.ReadIndex(fi)
	fi.Close()
	if err != nil {
		br.Close()
		f.Close()
		return nil, errors.Wrapf(err, "reading index of %s", s.Path)
	}
	var ref *sam.Reference
	for _, r := range br.Header().Refs() {
		if r.Name() == iv.Chrom {
			ref = r
			break
		}
	}
	if ref == nil {
		br.Close()
		f.Close()
		return nil, errors.Errorf("reference %s not found in %s", iv.Chrom, s.Path)
	}
	chunks, err := idx.Chunks(ref, iv.Start, iv.End)
	if err != nil {
		br.Close()
		f.Close()
		return nil, errors.Wrapf(err, "querying index of %s for %s", s.Path, iv)
	}
	it, err := bam.NewIterator(br, chunks)
	if err != nil {
		br.Close()
		f.Close()
		return nil, errors.Wrapf(err, "iterating %s", s.Path)
	}
	return &bamIterator{f: f, br: br, it: it, iv: iv}, nil
}

type bamIterator struct {
	f   *os.File
	br  *bam.Reader
	it  *bam.Iterator
	iv  region.Interval
	cur Alignment
}

func (bi *bamIterator) Next() bool {
	for bi.it.Next() {
		r := bi.it.Record()
		// Index chunks cover whole bins
		if !overlaps(r, bi.iv) {
			continue
		}
		bi.cur = FromRecord(r)
		return true
	}
	return false
}

func (bi *bamIterator) Alignment() Alignment { return bi.cur }

func (bi *bamIterator) Error() error { return bi.it.Error() }

func (bi *bamIterator) Close() error {
	err := bi.it.Close()
	bi.br.Close()
	if cerr := bi.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// OpenFunc opens a record stream for a region. The returned closer may be nil.
type OpenFunc func(iv region.Interval) (sam.RecordReader, io.Closer, error)

// RecordSource scans a whole record stream and keeps the records overlapping
// the region. It serves SAM files, unindexed BAM files and the SAM output of
// an external command.
type RecordSource struct {
	Open OpenFunc
}

// NewRecordSource returns a RecordSource using open for each Fetch.
func NewRecordSource(open OpenFunc) *RecordSource {
	return &RecordSource{Open: open}
}

func (s *RecordSource) Fetch(iv region.Interval) (Iterator, error) {
	rr, c, err := s.Open(iv)
	if err != nil {
		return nil, err
	}
	return &recordIterator{rr: rr, c: c, iv: iv}, nil
}

type recordIterator struct {
	rr  sam.RecordReader
	c   io.Closer
	iv  region.Interval
	cur Alignment
	err error
}

func (ri *recordIterator) Next() bool {
	if ri.err != nil {
		return false
	}
	for {
		r, err := ri.rr.Read()
		if err == io.EOF {
			return false
		} else if err != nil {
			ri.err = err
			return false
		}
		if !overlaps(r, ri.iv) {
			continue
		}
		ri.cur = FromRecord(r)
		return true
	}
}

func (ri *recordIterator) Alignment() Alignment { return ri.cur }

func (ri *recordIterator) Error() error { return ri.err }

func (ri *recordIterator) Close() error {
	if ri.c == nil {
		return nil
	}
	return ri.c.Close()
}

// terminatedReader ends a stream with a newline if it lacks one, so that the
// SAM reader does not drop a last record without line terminator.
type terminatedReader struct {
	r       io.Reader
	last    byte
	eof     bool
	pending bool
}

func (t *terminatedReader) Read(p []byte) (int, error) {
	if t.eof {
		if t.pending && len(p) > 0 {
			p[0], t.pending = '\n', false
			return 1, nil
		}
		return 0, io.EOF
	}
	n, err := t.r.Read(p)
	if n > 0 {
		t.last = p[n-1]
	}
	if err == io.EOF {
		t.eof = true
		if t.last != 0 && t.last != '\n' {
			t.last = '\n'
			if n < len(p) {
				p[n] = '\n'
				n++
			} else {
				t.pending = true
			}
			return n, nil
		}
	}
	return n, err
}

type emptyReader struct{}

func (emptyReader) Read() (*sam.Record, error) { return nil, io.EOF }

// newSAMReader returns a reader of the SAM text r. An empty stream has no records.
func newSAMReader(r io.Reader) (sam.RecordReader, error) {
	sr, err := sam.NewReader(&terminatedReader{r: r})
	if err == io.EOF {
		return emptyReader{}, nil
	} else if err != nil {
		return nil, err
	}
	return sr, nil
}

type multiCloser []io.Closer

func (mc multiCloser) Close() (err error) {
	for i := len(mc) - 1; i >= 0; i-- {
		if cerr := mc[i].Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

type cmdCloser struct {
	pp io.ReadCloser
	p  *exec.Cmd
}

func (c cmdCloser) Close() error {
	c.pp.Close()
	return c.p.Wait()
}

// OpenSource returns the Source for a SAM/BAM path. An indexed BAM is queried
// through its index; otherwise the file (or the SAM output of cmd run with the
// path and the region as last arguments) is scanned in full.
func OpenSource(pathSAM PathSAM, cmd []string, workers int) Source {
	if len(cmd) > 0 {
		return NewRecordSource(func(iv region.Interval) (sam.RecordReader, io.Closer, error) {
			args := append(append([]string{}, cmd[1:]...), pathSAM.Path, iv.String())
			p := exec.Command(cmd[0], args...)
			pp, err := p.StdoutPipe()
			if err != nil {
				return nil, nil, err
			}
			if err = p.Start(); err != nil {
				return nil, nil, errors.Wrapf(err, "starting %s", cmd[0])
			}
			rr, err := newSAMReader(pp)
			if err != nil {
				pp.Close()
				p.Wait()
				return nil, nil, errors.Wrapf(err, "reading %s output", cmd[0])
			}
			return rr, cmdCloser{pp: pp, p: p}, nil
		})
	}
	if pathSAM.Binary {
		bs := BAMSource{Path: pathSAM.Path, Workers: workers}
		if _, err := os.Stat(bs.IndexPath()); err == nil {
			return bs
		}
	}
	return NewRecordSource(func(iv region.Interval) (sam.RecordReader, io.Closer, error) {
		f, err := os.Open(pathSAM.Path)
		if err != nil {
			return nil, nil, err
		}
		if pathSAM.Binary {
			br, err := bam.NewReader(f, workers)
			if err != nil {
				f.Close()
				return nil, nil, errors.Wrapf(err, "opening BAM %s", pathSAM.Path)
			}
			return br, multiCloser{f, br}, nil
		}
		sr, err := newSAMReader(f)
		if err != nil {
			f.Close()
			return nil, nil, errors.Wrapf(err, "opening SAM %s", pathSAM.Path)
		}
		return sr, f, nil
	})
}
