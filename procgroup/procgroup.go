// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package procgroup defines the ProcessGroup capability consumed by the box
// grid and its collaborators, and provides two implementations: one backed
// by gosl/mpi for a real distributed run, and a local, single-process one
// for tests and non-distributed callers.
package procgroup

// NullRank is the sentinel destination/source that short-circuits Send/Recv,
// matching MPI_PROC_NULL semantics used by boundary ranks in Chaste's
// LoadBalance and halo exchange.
const NullRank = -1

// ProcessGroup is the message-passing capability the core assumes. It is
// intentionally small: rank/size, a "master"/"top-most" predicate, and
// blocking point-to-point send/recv. No wider collective is required by any
// operation in this module (see SPEC_FULL.md §5).
type ProcessGroup interface {
	// Rank returns this process's rank in [0, Size()).
	Rank() int

	// Size returns the number of cooperating processes.
	Size() int

	// IsMaster reports whether this is rank 0.
	IsMaster() bool

	// IsTopMost reports whether this is rank Size()-1.
	IsTopMost() bool

	// Send blocks until data has been handed off to dest under tag. Sending
	// to NullRank is a silent no-op.
	Send(dest, tag int, data []byte) error

	// Recv blocks until len(data) bytes have arrived from src under tag,
	// filling data in place. Receiving from NullRank is a silent no-op and
	// leaves data untouched.
	Recv(src, tag int, data []byte) error
}
