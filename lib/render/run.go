//
// Copyright (C) 2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package render

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// WriteTo encodes the payload as JSON to w.
func (p *Payload) WriteTo(w io.Writer) (int64, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(append(b, '\n'))
	return int64(n), err
}

// WritePayload writes the payload to path, gzip compressed if path ends with ".gz".
func (p *Payload) WritePayload(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	var w io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz = gzip.NewWriter(f)
		w = gz
	}
	if _, err = p.WriteTo(w); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing payload %s", path)
	}
	if gz != nil {
		if err = gz.Close(); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}

// Run starts command with the JSON payload on its standard input and waits
// for it. The command is run once; its standard error is returned on failure.
func Run(ctx context.Context, command []string, p *Payload) error {
	if len(command) == 0 {
		return errors.New("no render command")
	}
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	if err = cmd.Start(); err != nil {
		return errors.Wrapf(err, "starting %s", command[0])
	}
	_, werr := p.WriteTo(stdin)
	stdin.Close()
	if err = cmd.Wait(); err != nil {
		return errors.Wrapf(err, "%s: %s", command[0], strings.TrimSpace(stderr.String()))
	}
	if werr != nil {
		return errors.Wrapf(werr, "sending payload to %s", command[0])
	}
	return nil
}
