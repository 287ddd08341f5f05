// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package plat2d

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AleutianAI/heursearch/services/search"
)

// controlSyms maps a control set to its printable symbol: '.' idle, 'l'
// left, 'r' right, 'b' both, and upper case for the same with jump held.
// 'j' is jump alone.
const controlSyms = ".lrbjLRB"

// ErrBadControl indicates an operator or symbol outside the control
// alphabet.
var ErrBadControl = errors.New("invalid control")

// ControlStr encodes ops as a string with one symbol per operator.
func ControlStr(ops []search.Oper) (string, error) {
	var b strings.Builder
	b.Grow(len(ops))
	for i, op := range ops {
		if op < 0 || int(op) >= len(controlSyms) {
			return "", fmt.Errorf("%w: operator %d at %d", ErrBadControl, op, i)
		}
		b.WriteByte(controlSyms[op])
	}
	return b.String(), nil
}

// ControlVec decodes a string written by ControlStr.
func ControlVec(s string) ([]search.Oper, error) {
	ops := make([]search.Oper, 0, len(s))
	for i := 0; i < len(s); i++ {
		n := strings.IndexByte(controlSyms, s[i])
		if n < 0 {
			return nil, fmt.Errorf("%w: symbol %q at %d", ErrBadControl, s[i], i)
		}
		ops = append(ops, search.Oper(n))
	}
	return ops, nil
}
