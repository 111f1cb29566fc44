// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import "errors"

// Sentinel errors for the primitive store surface. The wrapper layer
// above translates these into its public taxonomy; they are all
// [errors.Is]-comparable through wrapping.
var (
	// ErrNotFound indicates a name lookup matched nothing.
	ErrNotFound = errors.New("does not exist")

	// ErrNotUnique indicates a name lookup matched more than one entity.
	ErrNotUnique = errors.New("is not unique")

	// ErrInvalidHandle indicates a reference to an entity that no
	// longer exists (deleted, or not yet applied).
	ErrInvalidHandle = errors.New("invalid handle")

	// ErrLocked indicates a write to a plug that is locked or
	// otherwise not free to change.
	ErrLocked = errors.New("locked or not free to change")

	// ErrAlreadyConnected indicates a connect to a destination that is
	// already driven by a different source.
	ErrAlreadyConnected = errors.New("already connected")

	// ErrNotConnected indicates a disconnect of a pair that is not
	// connected.
	ErrNotConnected = errors.New("not connected")

	// ErrOutOfRange indicates a numeric write outside the attribute's
	// hard min/max range, or a component index outside its element
	// count.
	ErrOutOfRange = errors.New("out of range")

	// ErrValueType indicates a value whose type does not match the
	// attribute's storage category.
	ErrValueType = errors.New("wrong value type")

	// ErrBadAttrSpec indicates an attribute definition that is
	// internally inconsistent or collides with an existing name.
	ErrBadAttrSpec = errors.New("invalid attribute definition")
)
