// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package box

import "github.com/cpmech/gosl/chk"

// ErrKind distinguishes the box grid's "invalid use" error conditions (spec
// §7). All of them are fatal to the operation that raised them; the caller
// decides what to do next (there is no internal recovery, unlike
// PointLocator's NotFoundInMesh tiers).
type ErrKind string

const (
	// ErrOutOfDomain: a location passed to CalculateContainingBox lies
	// outside the (possibly swollen) domain.
	ErrOutOfDomain ErrKind = "out_of_domain"

	// ErrInvalidConfiguration: periodic-in-x with DIM != 2, or with more
	// than one rank, or another construction-time inconsistency.
	ErrInvalidConfiguration ErrKind = "invalid_configuration"

	// ErrStencilAlreadyBuilt: a second call to SetupHalfLocalBoxes after
	// the half-stencil has already been built.
	ErrStencilAlreadyBuilt ErrKind = "stencil_already_built"

	// ErrNotOwned: Box/HaloBox called on a global index this rank
	// does not own -- a programmer error, kept as a distinguishable kind
	// for tests even though callers are expected to check ownership first.
	ErrNotOwned ErrKind = "not_owned"
)

// GridError is the error type returned for every fatal condition in
// package box. Use errors.As to recover the Kind.
type GridError struct {
	Kind ErrKind
	err  error
}

func (e *GridError) Error() string { return e.err.Error() }
func (e *GridError) Unwrap() error { return e.err }

func newErr(kind ErrKind, format string, args ...interface{}) error {
	return &GridError{Kind: kind, err: chk.Err(format, args...)}
}
