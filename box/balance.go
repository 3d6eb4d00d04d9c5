// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package box

import "github.com/cpmech/boxgrid/procgroup"

// RowLoad returns, for each row this rank owns along the last axis, the
// total number of points held by that row's boxes -- the load histogram
// LoadBalance exchanges with neighboring ranks.
func (o *BoxGrid) RowLoad() []int {
	loads := make([]int, o.hiRow-o.loRow)
	for g, b := range o.localBoxes {
		row := g/o.bpf - o.loRow
		loads[row] += len(b.Points())
	}
	return loads
}

// LoadBalance decides how many rows this rank should own next, given its
// current per-row load histogram, by exchanging loads with its immediate
// row neighbors and estimating the squared-imbalance delta of nudging the
// shared boundary one row left or right. It is a direct port of Chaste's
// DistributedBoxCollection::LoadBalance: integer-only arithmetic (to avoid
// floating round-off changing the decision between ranks), and a negative
// delta (a strict improvement) required before a boundary actually moves.
// The left rank gives up a row only while it holds more than one row (so it
// can end with a single row); this rank gives up a row only while it holds
// more than two.
//
// The returned row count is meant to be fed back into NewBoxGrid as
// requestedLocalRows to rebuild the grid with the new partition; LoadBalance
// itself does not mutate this grid.
func (o *BoxGrid) LoadBalance(localDistribution []int) (newRows int, err error) {
	const tag = 123

	rank := o.pg.Rank()
	procRight := rank + 1
	if o.pg.IsTopMost() {
		procRight = procgroup.NullRank
	}
	procLeft := rank - 1
	if o.pg.IsMaster() {
		procLeft = procgroup.NullRank
	}

	newRows = len(localDistribution)
	numLocalRows := len(localDistribution)

	// Shift the row-load histogram rightward: everyone sends theirs to the
	// right and receives their left neighbor's, so each rank (other than
	// the master) learns the load distribution of the process to its left.
	if err = o.pg.Send(procRight, tag, encodeInts([]int{numLocalRows})); err != nil {
		return 0, err
	}
	sizeBuf := make([]byte, 4)
	if err = o.pg.Recv(procLeft, tag, sizeBuf); err != nil {
		return 0, err
	}
	rowsOnLeft := decodeInts(sizeBuf)[0]

	if err = o.pg.Send(procRight, tag, encodeInts(localDistribution)); err != nil {
		return 0, err
	}
	leftBuf := make([]byte, rowsOnLeft*4)
	if err = o.pg.Recv(procLeft, tag, leftBuf); err != nil {
		return 0, err
	}
	distrOnLeft := decodeInts(leftBuf)

	localLoad := sum(localDistribution)
	loadOnLeft := sum(distrOnLeft)

	if !o.pg.IsMaster() {
		localToLeftSq := (localLoad - loadOnLeft) * (localLoad - loadOnLeft)

		lastLeftRow := distrOnLeft[len(distrOnLeft)-1]
		deltaLeft := (localLoad + lastLeftRow) - (loadOnLeft - lastLeftRow)
		deltaLeft = deltaLeft*deltaLeft - localToLeftSq

		firstLocalRow := localDistribution[0]
		deltaRight := (localLoad - firstLocalRow) - (loadOnLeft + firstLocalRow)
		deltaRight = deltaRight*deltaRight - localToLeftSq

		localChange := 0
		if deltaLeft < 0 && len(distrOnLeft) > 1 {
			localChange++
		}
		if deltaRight < 0 && len(localDistribution) > 2 {
			localChange--
		}
		newRows += localChange

		if err = o.pg.Send(procLeft, tag, encodeInts([]int{localChange})); err != nil {
			return 0, err
		}
	}

	remoteBuf := make([]byte, 4)
	if err = o.pg.Recv(procRight, tag, remoteBuf); err != nil {
		return 0, err
	}
	remoteChange := decodeInts(remoteBuf)[0]
	newRows -= remoteChange

	return newRows, nil
}

func sum(vals []int) int {
	total := 0
	for _, v := range vals {
		total += v
	}
	return total
}
