// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package procgroup

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/mpi"
)

// MPI is the ProcessGroup implementation backed by gosl/mpi, the same
// package gofem's main.go starts with mpi.Start/mpi.Stop and queries with
// mpi.Rank/mpi.Size/mpi.IsOn. Byte payloads are packed into int32 words and
// exchanged through the world communicator's typed Send/Recv, following
// gosl's typed-slice convention (SendI/RecvI for integers, mirroring
// la.Vector's float64 convention elsewhere in the stack).
type MPI struct {
	comm *mpi.Communicator
}

// NewMPI starts the world communicator. Callers must have already called
// mpi.Start (as gofem's main.go does) before constructing an MPI group.
func NewMPI() *MPI {
	if !mpi.IsOn() {
		chk.Panic("procgroup.NewMPI: gosl/mpi has not been started; call mpi.Start first")
	}
	return &MPI{comm: mpi.NewCommunicator(nil)}
}

func (o *MPI) Rank() int       { return o.comm.Rank() }
func (o *MPI) Size() int       { return o.comm.Size() }
func (o *MPI) IsMaster() bool  { return o.comm.Rank() == 0 }
func (o *MPI) IsTopMost() bool { return o.comm.Rank() == o.comm.Size()-1 }

func (o *MPI) Send(dest, tag int, data []byte) error {
	if dest == NullRank {
		return nil
	}
	words := bytesToWords(data)
	o.comm.SendI(words, dest)
	return nil
}

func (o *MPI) Recv(src, tag int, data []byte) error {
	if src == NullRank {
		return nil
	}
	words := make([]int32, wordsLen(len(data)))
	o.comm.RecvI(words, src)
	wordsToBytes(words, data)
	return nil
}

// bytesToWords/wordsToBytes pack an arbitrary byte payload into 32-bit words
// so it can travel over gosl/mpi's typed integer channel; the receiver knows
// the exact byte length up front (RowPartitioner/HaloExchanger/LoadBalance
// all exchange fixed-size or length-prefixed payloads), so no framing beyond
// zero-padding the final word is required.
func wordsLen(nbytes int) int {
	return (nbytes + 3) / 4
}

func bytesToWords(data []byte) []int32 {
	words := make([]int32, wordsLen(len(data)))
	for i, b := range data {
		words[i/4] |= int32(b) << (8 * uint(i%4))
	}
	return words
}

func wordsToBytes(words []int32, out []byte) {
	for i := range out {
		out[i] = byte(words[i/4] >> (8 * uint(i%4)))
	}
}
