// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package procgroup

import "github.com/cpmech/gosl/chk"

// Local is a single-process ProcessGroup for tests and non-distributed
// callers. Rank 0 of size 1 is simultaneously master and top-most, matching
// Chaste's convention that a serial run has no neighbors at all.
type Local struct{}

// NewLocal returns the single-process ProcessGroup.
func NewLocal() *Local { return &Local{} }

func (o *Local) Rank() int      { return 0 }
func (o *Local) Size() int      { return 1 }
func (o *Local) IsMaster() bool { return true }
func (o *Local) IsTopMost() bool { return true }

func (o *Local) Send(dest, tag int, data []byte) error {
	if dest == NullRank {
		return nil
	}
	return chk.Err("procgroup.Local: no rank %d to send to (single-process group)", dest)
}

func (o *Local) Recv(src, tag int, data []byte) error {
	if src == NullRank {
		return nil
	}
	return chk.Err("procgroup.Local: no rank %d to receive from (single-process group)", src)
}
