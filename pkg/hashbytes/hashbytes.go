// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package hashbytes provides the stable byte-buffer hash used for
// duplicate detection keys.
//
// The hash is xxhash-64 with a zero seed, so the same bytes hash to the
// same value across processes and runs.
package hashbytes

import "github.com/cespare/xxhash/v2"

// Sum returns the 64-bit hash of b.
func Sum(b []byte) uint64 {
	return xxhash.Sum64(b)
}

