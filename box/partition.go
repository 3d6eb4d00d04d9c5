// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package box

import (
	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/boxgrid/procgroup"
)

// AutoLocalRows tells RowPartitioner to split totalRows evenly across ranks
// instead of honouring a caller-requested row count for this rank.
const AutoLocalRows = -1

// RowPartitioner splits totalRows box-planes (rows) along the grid's last
// axis across the ranks of pg, returning the half-open [lo,hi) range owned
// by this rank. Rows are contiguous and sum(hi-lo) over all ranks equals
// totalRows.
//
// requestedLocalRows == AutoLocalRows spreads the remainder of an uneven
// split over the first ranks (the same convention as a classic 1D range
// splitter: base = total/n, the first total%n ranks get base+1 rows), which
// is a closed-form computation requiring no communication.
//
// A positive requestedLocalRows pins this rank's row count explicitly (used
// after LoadBalance proposes a new count); the low boundary is then obtained
// by a left-to-right scan of blocking sends/recvs along the rank line, since
// the ProcessGroup capability guarantees only neighbor-to-neighbor messaging,
// not a wider collective.
func NewRowPartitioner(pg procgroup.ProcessGroup, totalRows, requestedLocalRows int) (lo, hi int, err error) {
	if totalRows <= 0 {
		return 0, 0, chk.Err("RowPartitioner: totalRows must be positive; got %d", totalRows)
	}

	if requestedLocalRows == AutoLocalRows {
		n := pg.Size()
		base := totalRows / n
		rem := totalRows % n
		r := pg.Rank()
		lo = r*base + min(r, rem)
		rows := base
		if r < rem {
			rows++
		}
		hi = lo + rows
		return lo, hi, nil
	}

	if requestedLocalRows < 0 {
		return 0, 0, chk.Err("RowPartitioner: requestedLocalRows must be >=0 or AutoLocalRows; got %d", requestedLocalRows)
	}

	const tag = 917 // arbitrary, distinct from HaloExchanger/LoadBalance tags

	if pg.IsMaster() {
		lo = 0
	} else {
		buf := make([]byte, 8)
		if err = pg.Recv(pg.Rank()-1, tag, buf); err != nil {
			return 0, 0, chk.Err("RowPartitioner: failed to receive partition scan from left neighbor:\n%v", err)
		}
		lo = int(decodeInt64(buf))
	}
	hi = lo + requestedLocalRows

	if !pg.IsTopMost() {
		buf := make([]byte, 8)
		encodeInt64(buf, int64(hi))
		if err = pg.Send(pg.Rank()+1, tag, buf); err != nil {
			return 0, 0, chk.Err("RowPartitioner: failed to send partition scan to right neighbor:\n%v", err)
		}
	} else if hi != totalRows {
		return 0, 0, chk.Err("RowPartitioner: requested local row counts sum to %d rows, expected %d", hi, totalRows)
	}

	return lo, hi, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func encodeInt64(buf []byte, v int64) {
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * uint(i)))
	}
}

func decodeInt64(buf []byte) int64 {
	var v int64
	for i := 0; i < 8; i++ {
		v |= int64(buf[i]) << (8 * uint(i))
	}
	return v
}
