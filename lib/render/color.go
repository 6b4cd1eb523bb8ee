//
// Copyright (C) 2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package render

import (
	"bufio"
	"os"
	"strings"
)

// DefaultPalette is used without a palette file.
var DefaultPalette = []string{"#ff0000", "#00ff00", "#0000ff", "#000000"}

// NoFactorColor colours every track when no colour factor is given.
const NoFactorColor = "grey"

// ReadPalette reads the colours in the first column of a tabulated file.
// An empty path returns DefaultPalette.
func ReadPalette(path string) ([]string, error) {
	if path == "" {
		return DefaultPalette, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var palette []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		col, _, _ := strings.Cut(scanner.Text(), "\t")
		if col = strings.TrimSpace(col); col != "" {
			palette = append(palette, col)
		}
	}
	if err = scanner.Err(); err != nil {
		return nil, err
	}
	if len(palette) == 0 {
		return DefaultPalette, nil
	}
	return palette, nil
}

// Colorize returns the colour of each key. levels[i] is the colour level of
// keys[i]; distinct levels take the palette colours in order of first
// appearance, the palette being repeated when too short. Without a colour
// factor every key is NoFactorColor.
func Colorize(keys, levels []string, palette []string, byFactor bool) map[string]string {
	colors := make(map[string]string, len(keys))
	rank := make(map[string]int)
	for i, k := range keys {
		if !byFactor {
			colors[k] = NoFactorColor
			continue
		}
		r, ok := rank[levels[i]]
		if !ok {
			r = len(rank)
			rank[levels[i]] = r
		}
		colors[k] = palette[r%len(palette)]
	}
	return colors
}
