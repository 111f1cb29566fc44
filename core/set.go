// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"fmt"

	"github.com/Pahuska/gomaya/scene"
)

// ObjectSet wraps a set node. Membership edits are bookkeeping on the
// set's list; they do not land on the undo ledger.
type ObjectSet struct {
	DependNode
}

// AsObjectSet returns the embedded set base.
func (os *ObjectSet) AsObjectSet() *ObjectSet { return os }

// members returns the live membership list.
func (os *ObjectSet) members() (*scene.SelectionList, error) {
	nd, err := os.Node()
	if err != nil {
		return nil, err
	}
	sl := nd.Members()
	if sl == nil {
		return nil, fmt.Errorf("%w: %s is not a set", ErrTypeMismatch, nd.Name())
	}
	return sl, nil
}

// Members returns wrappers for everything in the set, pruning
// members whose nodes have since been deleted.
func (os *ObjectSet) Members() ([]Object, error) {
	sl, err := os.members()
	if err != nil {
		return nil, err
	}
	sl.Prune()
	items := sl.Items()
	out := make([]Object, 0, len(items))
	for _, it := range items {
		h, err := handleForItem(it)
		if err != nil {
			return nil, err
		}
		obj, err := os.Ses.Resolve(h, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	return out, nil
}

// Count returns the number of members.
func (os *ObjectSet) Count() (int, error) {
	sl, err := os.members()
	if err != nil {
		return 0, err
	}
	return sl.Len(), nil
}

// AddMembers puts the referenced objects into the set. Members
// already present stay put.
func (os *ObjectSet) AddMembers(refs ...any) error {
	sl, err := os.members()
	if err != nil {
		return err
	}
	for _, ref := range refs {
		it, err := os.itemFor(ref)
		if err != nil {
			return err
		}
		sl.Add(it)
	}
	return nil
}

// RemoveMembers takes the referenced objects out of the set. Missing
// members are no error.
func (os *ObjectSet) RemoveMembers(refs ...any) error {
	sl, err := os.members()
	if err != nil {
		return err
	}
	for _, ref := range refs {
		it, err := os.itemFor(ref)
		if err != nil {
			return err
		}
		sl.Remove(it)
	}
	return nil
}

// IsMember reports whether the referenced object is in the set.
func (os *ObjectSet) IsMember(ref any) (bool, error) {
	sl, err := os.members()
	if err != nil {
		return false, err
	}
	it, err := os.itemFor(ref)
	if err != nil {
		return false, err
	}
	return sl.Contains(it), nil
}

func (os *ObjectSet) itemFor(ref any) (scene.SelectionItem, error) {
	h, err := os.Ses.Normalize(ref)
	if err != nil {
		return scene.SelectionItem{}, err
	}
	return itemForHandle(h)
}
