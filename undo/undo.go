// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package undo provides the process-wide undo ledger: a linear stack of
// named records, each pairing a forward (redo) and reverse (undo)
// closure over one already-applied edit.
//
// Records are appended as edits happen; undoing moves a cursor back
// through the records executing their reverse closures, and committing
// a new record truncates anything beyond the cursor, exactly like a
// host application's single global undo stack. The ledger does no
// locking: it relies on the module-wide single-threaded execution
// model.
package undo

import "fmt"

// DefaultLimit is the default maximum number of records retained.
var DefaultLimit = 100

// Rec is one undo record: a described, already-applied edit with the
// closures needed to reverse and re-apply it.
type Rec struct {
	// Action is a short description of the edit, for user display.
	Action string

	// Undo reverses the edit. It must restore the exact prior state.
	Undo func() error

	// Redo re-applies the edit after an Undo.
	Redo func() error
}

// Stack is an undo ledger. The zero value is usable with the default
// record limit; use [NewStack] to choose one explicitly.
type Stack struct {
	// Recs is the list of committed records.
	Recs []*Rec

	// Idx is the index of the record that will be undone next;
	// -1 when there is nothing to undo.
	Idx int

	// Limit is the maximum number of records retained; the oldest
	// records are dropped beyond it. Zero means [DefaultLimit];
	// negative means unlimited.
	Limit int
}

// NewStack returns a new undo ledger retaining at most limit records
// (zero for [DefaultLimit], negative for unlimited).
func NewStack(limit int) *Stack {
	return &Stack{Idx: -1, Limit: limit}
}

// Reset clears all records and rewinds the cursor. It does not execute
// any closures: the scene is left as it is.
func (us *Stack) Reset() {
	us.Recs = nil
	us.Idx = -1
}

// Len returns the number of committed records.
func (us *Stack) Len() int {
	return len(us.Recs)
}

// Commit appends a record for an edit that has already been applied.
// Any records beyond the cursor (undone but not redone) are discarded
// first, and the oldest records are dropped if the limit is exceeded.
func (us *Stack) Commit(action string, undo, redo func() error) {
	if us.Recs == nil && us.Idx == 0 {
		us.Idx = -1 // zero value
	}
	us.Recs = us.Recs[:us.Idx+1]
	us.Recs = append(us.Recs, &Rec{Action: action, Undo: undo, Redo: redo})
	us.Idx++
	limit := us.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit > 0 && len(us.Recs) > limit {
		over := len(us.Recs) - limit
		us.Recs = us.Recs[over:]
		us.Idx -= over
	}
}

// IsUndoAvail returns true if there is at least one record available
// to undo.
func (us *Stack) IsUndoAvail() bool {
	return us.Idx >= 0 && us.Idx < len(us.Recs)
}

// IsRedoAvail returns true if there is at least one undone record
// available to redo.
func (us *Stack) IsRedoAvail() bool {
	return us.Idx < len(us.Recs)-1
}

// UndoAction returns the description of the record that [Stack.Undo]
// would execute, or "" if none.
func (us *Stack) UndoAction() string {
	if !us.IsUndoAvail() {
		return ""
	}
	return us.Recs[us.Idx].Action
}

// RedoAction returns the description of the record that [Stack.Redo]
// would execute, or "" if none.
func (us *Stack) RedoAction() string {
	if !us.IsRedoAvail() {
		return ""
	}
	return us.Recs[us.Idx+1].Action
}

// Undo executes the reverse closure of the current record and moves
// the cursor back, returning the record's action description.
// It returns "" and no error if there is nothing to undo.
func (us *Stack) Undo() (string, error) {
	if !us.IsUndoAvail() {
		return "", nil
	}
	rec := us.Recs[us.Idx]
	if err := rec.Undo(); err != nil {
		return rec.Action, fmt.Errorf("undo %q: %w", rec.Action, err)
	}
	us.Idx--
	return rec.Action, nil
}

// Redo re-executes the forward closure of the next record and moves
// the cursor forward, returning the record's action description.
// It returns "" and no error if there is nothing to redo.
func (us *Stack) Redo() (string, error) {
	if !us.IsRedoAvail() {
		return "", nil
	}
	rec := us.Recs[us.Idx+1]
	if err := rec.Redo(); err != nil {
		return rec.Action, fmt.Errorf("redo %q: %w", rec.Action, err)
	}
	us.Idx++
	return rec.Action, nil
}
