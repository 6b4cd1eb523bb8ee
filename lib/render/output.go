//
// Copyright (C) 2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package render

import (
	"fmt"
	"path/filepath"
	"strings"

	"git.sr.ht/~vejnar/Sashimi/lib/esam"
)

// Formats lists the output formats a renderer must support.
var Formats = []string{"pdf", "png", "svg", "tiff", "jpeg"}

// Extensions accepted on the output prefix for each format.
var extensions = map[string][]string{
	"pdf":  {"pdf"},
	"png":  {"png"},
	"svg":  {"svg"},
	"tiff": {"tiff", "tif"},
	"jpeg": {"jpeg", "jpg"},
}

// ValidateFormat returns an error if format is not one of Formats.
func ValidateFormat(format string) error {
	if _, ok := extensions[format]; !ok {
		return fmt.Errorf("output format %q is not available, select among %s", format, strings.Join(Formats, ", "))
	}
	return nil
}

// OutputPath returns the plot path of a strand. If prefix ends with an
// extension of format, the extension is kept as the suffix; otherwise the
// format is appended. Stranded plots get "_+" or "_-" before the suffix.
func OutputPath(prefix, format string, strand esam.Strand, stranded bool) string {
	suffix := format
	if ext := filepath.Ext(prefix); ext != "" {
		for _, e := range extensions[format] {
			if ext[1:] == e {
				prefix, suffix = strings.TrimSuffix(prefix, ext), e
				break
			}
		}
	}
	if stranded {
		prefix += "_" + strand.String()
	}
	return prefix + "." + suffix
}
