// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package env holds the explicit, non-global configuration MeshPair takes
// at construction, in place of the hidden
// singletons (command-line-arguments object, process group, verbosity flag)
// the original C++ reached for. This mirrors how gofem's fem.Domain takes
// Proc/Verbose/ShowMsg as explicit fields rather than querying globals.
package env

import "github.com/cpmech/boxgrid/procgroup"

// Environment bundles the ProcessGroup capability with a verbosity flag.
// meshpair.New takes one instead of reaching for package-level state;
// box.NewBoxGrid takes the ProcessGroup directly, and locate.NewLocator
// takes neither.
type Environment struct {
	PG      procgroup.ProcessGroup
	Verbose bool
}

// New builds an Environment for the given process group.
func New(pg procgroup.ProcessGroup, verbose bool) *Environment {
	return &Environment{PG: pg, Verbose: verbose}
}

// ShowMsg reports whether progress messages should be printed: verbose and
// this is the master rank, matching gofem's Domain.ShowMsg = verb && proc==0.
func (o *Environment) ShowMsg() bool {
	return o.Verbose && o.PG.IsMaster()
}
