// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"fmt"

	"github.com/Pahuska/gomaya/base/errors"
	"github.com/Pahuska/gomaya/scene"
)

// Sentinel errors for the wrapper layer. Everything a [Session] or a
// wrapper object returns wraps one of these, so callers can branch
// with [errors.Is] without parsing messages.
var (
	// ErrNotFound reports that no scene object matched a name or
	// reference. A name that matches more than one object is
	// [ErrAmbiguousName] instead, never ErrNotFound.
	ErrNotFound = errors.New("core: no matching object")

	// ErrAmbiguousName reports that a name matched more than one
	// scene object and the caller gave nothing to disambiguate.
	ErrAmbiguousName = errors.New("core: name matches multiple objects")

	// ErrTypeMismatch reports an input of the wrong kind: a type hint
	// the underlying object cannot satisfy, a reference of the wrong
	// shape, or a value a plug cannot hold.
	ErrTypeMismatch = errors.New("core: type mismatch")

	// ErrLockedTarget reports an edit refused because the target is
	// locked or already claimed, such as a destination plug that is
	// driven by another connection.
	ErrLockedTarget = errors.New("core: target is locked")

	// ErrArityMismatch reports a tuple or compound value whose length
	// differs from what the attribute expects, in either direction.
	ErrArityMismatch = errors.New("core: arity mismatch")

	// ErrUnsupportedType reports an attribute whose declared data
	// type has no value marshalling, or a node type the session
	// cannot create.
	ErrUnsupportedType = errors.New("core: unsupported data type")

	// ErrInvalidHandle reports a handle whose referent no longer
	// exists, usually because the node was deleted.
	ErrInvalidHandle = errors.New("core: invalid handle")

	// ErrAttributeNotFound reports an attribute lookup on a node that
	// has no attribute of that name.
	ErrAttributeNotFound = errors.New("core: attribute not found")

	// ErrAmbiguousMatch reports that more than one registered virtual
	// type claimed the same object during resolution.
	ErrAmbiguousMatch = errors.New("core: multiple virtual types match")

	// ErrOutOfRange reports an index outside a component's element
	// count, an enum value outside its fields, or a numeric value
	// outside an attribute's hard range.
	ErrOutOfRange = errors.New("core: out of range")
)

// errMap lifts primitive-layer sentinels into the public taxonomy.
// Checked in order; scene sentinels are disjoint so order only
// matters for readability.
var errMap = []struct{ from, to error }{
	{scene.ErrNotFound, ErrNotFound},
	{scene.ErrNotUnique, ErrAmbiguousName},
	{scene.ErrInvalidHandle, ErrInvalidHandle},
	{scene.ErrLocked, ErrLockedTarget},
	{scene.ErrAlreadyConnected, ErrLockedTarget},
	{scene.ErrNotConnected, ErrNotFound},
	{scene.ErrOutOfRange, ErrOutOfRange},
	{scene.ErrValueType, ErrTypeMismatch},
	{scene.ErrBadAttrSpec, ErrTypeMismatch},
}

// wrapErr lifts an error coming out of the scene layer into the
// public taxonomy, keeping the original in the chain so both
// sentinels answer [errors.Is]. Errors that already carry a public
// category, and nil, pass through unchanged.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	for _, m := range errMap {
		if errors.Is(err, m.from) {
			return fmt.Errorf("%w: %w", m.to, err)
		}
	}
	return err
}
