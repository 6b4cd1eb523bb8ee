//
// Copyright (C) 2023 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package esam

import (
	"fmt"
	"strings"

	"github.com/biogo/hts/sam"
)

// Protocol is the strand specificity of the library preparation.
type Protocol int

const (
	ProtocolNone Protocol = iota
	ProtocolSense
	ProtocolAntisense
	ProtocolMate1Sense
	ProtocolMate2Sense
)

var protocolNames = []string{"NONE", "SENSE", "ANTISENSE", "MATE1_SENSE", "MATE2_SENSE"}

func (p Protocol) String() string {
	if p < 0 || int(p) >= len(protocolNames) {
		return fmt.Sprintf("Protocol(%d)", int(p))
	}
	return protocolNames[p]
}

// Stranded reports whether reads are split in plus and minus buckets.
func (p Protocol) Stranded() bool {
	return p != ProtocolNone
}

// ParseProtocol parses NONE, SENSE, ANTISENSE, MATE1_SENSE or MATE2_SENSE.
func ParseProtocol(s string) (Protocol, error) {
	for i, n := range protocolNames {
		if strings.EqualFold(s, n) {
			return Protocol(i), nil
		}
	}
	return ProtocolNone, fmt.Errorf("unknown strand protocol %q (expected one of %s)", s, strings.Join(protocolNames, ", "))
}

// Strand is a coverage bucket. Only two buckets exist.
type Strand int

const (
	Plus Strand = iota
	Minus
)

// NumStrands is the number of strand buckets.
const NumStrands = 2

func (s Strand) String() string {
	if s == Minus {
		return "-"
	}
	return "+"
}

// EffectiveStrand returns 1 if the read orientation must be flipped to get
// the transcript strand, 0 otherwise. Mate protocols on a read without the
// Read1 or Read2 bit return 0.
func EffectiveStrand(p Protocol, flags sam.Flags) int {
	switch p {
	case ProtocolAntisense:
		return 1
	case ProtocolMate1Sense:
		if flags&sam.Read1 != 0 {
			return 0
		}
		if flags&sam.Read2 != 0 {
			return 1
		}
	case ProtocolMate2Sense:
		if flags&sam.Read1 != 0 {
			return 1
		}
		if flags&sam.Read2 != 0 {
			return 0
		}
	}
	return 0
}

// ReadStrand returns the bucket of a read. Unstranded libraries always use Plus.
func ReadStrand(p Protocol, flags sam.Flags) Strand {
	if !p.Stranded() {
		return Plus
	}
	var reverse int
	if flags&sam.Reverse != 0 {
		reverse = 1
	}
	if EffectiveStrand(p, flags)^reverse == 1 {
		return Minus
	}
	return Plus
}
