// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package driver

import (
	"io"
	"time"

	"github.com/AleutianAI/heursearch/services/search"
)

// procStatus is the resource usage of the current process.
type procStatus struct {
	// MaxRSS is the peak resident set size in kilobytes.
	MaxRSS int64
	User   time.Duration
	System time.Duration
}

func (p procStatus) write(w io.Writer) {
	search.DfPair(w, "max resident kilobytes", "%d", p.MaxRSS)
	search.DfPair(w, "user time", "%g", p.User.Seconds())
	search.DfPair(w, "system time", "%g", p.System.Seconds())
}
