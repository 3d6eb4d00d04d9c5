// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package box

import (
	"github.com/cpmech/gosl/chk"
)

const (
	tagHaloSizes = 731
	tagHaloData  = 732
)

// SetupHaloBoxes allocates this rank's mirrored halo boxes: the single row
// immediately outside its owned row range on each side that has a
// neighbor, matching Chaste's SetupHaloBoxes (one box-plane of ghost
// boxes, no wider halo is ever needed since the stencil only reaches one
// box-width).
func (o *BoxGrid) SetupHaloBoxes() {
	o.haloBoxes = make(map[int]*Box)
	if o.haloLeftRow >= 0 {
		for g := o.haloLeftRow * o.bpf; g < (o.haloLeftRow+1)*o.bpf; g++ {
			o.haloBoxes[g] = newBox()
		}
	}
	if o.haloRightRow >= 0 {
		for g := o.haloRightRow * o.bpf; g < (o.haloRightRow+1)*o.bpf; g++ {
			o.haloBoxes[g] = newBox()
		}
	}
}

// UpdateHaloBoxes exchanges the current point contents of this rank's
// boundary rows (the outermost owned row on each side) with its row
// neighbors, refreshing the halo boxes SetupHaloBoxes allocated.
//
// Each edge between adjacent ranks is a two-message conversation (box
// counts, then concatenated point indices); to avoid a blocking-Send
// deadlock without relying on any buffering from ProcessGroup, the
// lower-ranked side of each edge always sends first and the higher-ranked
// side always receives first, independent of parity or chain length.
func (o *BoxGrid) UpdateHaloBoxes() error {
	rank := o.pg.Rank()

	if o.haloRightRow >= 0 {
		// This rank is the lower-ranked side of the (rank, rank+1) edge.
		if err := o.sendRow(rank+1, o.hiRow-1); err != nil {
			return chk.Err("UpdateHaloBoxes: sending boundary row to right neighbor:\n%v", err)
		}
		if err := o.recvRow(rank+1, o.haloRightRow); err != nil {
			return chk.Err("UpdateHaloBoxes: receiving halo row from right neighbor:\n%v", err)
		}
	}
	if o.haloLeftRow >= 0 {
		// This rank is the higher-ranked side of the (rank-1, rank) edge.
		if err := o.recvRow(rank-1, o.haloLeftRow); err != nil {
			return chk.Err("UpdateHaloBoxes: receiving halo row from left neighbor:\n%v", err)
		}
		if err := o.sendRow(rank-1, o.loRow); err != nil {
			return chk.Err("UpdateHaloBoxes: sending boundary row to left neighbor:\n%v", err)
		}
	}
	return nil
}

func (o *BoxGrid) sendRow(dest, row int) error {
	counts := make([]int, o.bpf)
	var data []int
	for i := 0; i < o.bpf; i++ {
		g := row*o.bpf + i
		b := o.localBoxes[g]
		if b == nil {
			continue
		}
		for p := range b.Points() {
			data = append(data, p)
		}
		counts[i] = len(b.Points())
	}
	if err := o.pg.Send(dest, tagHaloSizes, encodeInts(counts)); err != nil {
		return err
	}
	return o.pg.Send(dest, tagHaloData, encodeInts(data))
}

func (o *BoxGrid) recvRow(src, row int) error {
	countsBuf := make([]byte, o.bpf*4)
	if err := o.pg.Recv(src, tagHaloSizes, countsBuf); err != nil {
		return err
	}
	counts := decodeInts(countsBuf)

	total := 0
	for _, c := range counts {
		total += c
	}
	dataBuf := make([]byte, total*4)
	if err := o.pg.Recv(src, tagHaloData, dataBuf); err != nil {
		return err
	}
	data := decodeInts(dataBuf)

	offset := 0
	for i := 0; i < o.bpf; i++ {
		g := row*o.bpf + i
		b := o.haloBoxes[g]
		if b == nil {
			offset += counts[i]
			continue
		}
		b.ClearPoints()
		for j := 0; j < counts[i]; j++ {
			b.AddPoint(data[offset+j])
		}
		offset += counts[i]
	}
	return nil
}

func encodeInts(vals []int) []byte {
	buf := make([]byte, len(vals)*4)
	for i, v := range vals {
		buf[4*i+0] = byte(v)
		buf[4*i+1] = byte(v >> 8)
		buf[4*i+2] = byte(v >> 16)
		buf[4*i+3] = byte(v >> 24)
	}
	return buf
}

func decodeInts(buf []byte) []int {
	out := make([]int, len(buf)/4)
	for i := range out {
		v := uint32(buf[4*i+0]) | uint32(buf[4*i+1])<<8 | uint32(buf[4*i+2])<<16 | uint32(buf[4*i+3])<<24
		out[i] = int(int32(v))
	}
	return out
}
