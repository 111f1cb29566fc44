// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"fmt"

	"github.com/Pahuska/gomaya/math32"
	"github.com/Pahuska/gomaya/scene"
	"github.com/Pahuska/gomaya/units"
)

// Transform wraps a hierarchy node with transformation channels.
// Vector getters and setters speak UI units; matrices are always in
// internal units.
type Transform struct {
	DagNode
}

// AsTransform returns the embedded transform base.
func (t *Transform) AsTransform() *Transform { return t }

// Translation returns the node's position in the given space, in UI
// distance units.
func (t *Transform) Translation(space Space) (math32.Vector3, error) {
	nd, err := t.Node()
	if err != nil {
		return math32.Vector3{}, err
	}
	var pos math32.Vector3
	if space == SpaceWorld {
		w := t.Ses.Graph.WorldMatrix(nd)
		pos, _, _, _ = w.Decompose()
	} else {
		pos, err = channelVec3(nd, "translate")
		if err != nil {
			return math32.Vector3{}, err
		}
	}
	return distanceToUIVec3(pos), nil
}

// SetTranslation places the node at the given position, in UI
// distance units. World positions are rewritten into the parent
// frame.
func (t *Transform) SetTranslation(v math32.Vector3, space Space, batch ...*scene.Modifier) (*Command, error) {
	nd, err := t.Node()
	if err != nil {
		return nil, err
	}
	pos := distanceToInternalVec3(v)
	if space == SpaceWorld {
		pos = t.Ses.worldToLocalPoint(nd, pos)
	}
	md, owned := t.Ses.batch(batch)
	if err := writeChannelVec3(md, nd, "translate", pos); err != nil {
		return nil, err
	}
	return t.Ses.finish("setTranslation", md, owned)
}

// Rotation returns the rotate channels in UI angle units, in the
// node's rotate order.
func (t *Transform) Rotation() (math32.Vector3, error) {
	nd, err := t.Node()
	if err != nil {
		return math32.Vector3{}, err
	}
	rot, err := channelVec3(nd, "rotate")
	if err != nil {
		return math32.Vector3{}, err
	}
	return angleToUIVec3(rot), nil
}

// SetRotation sets the rotate channels, in UI angle units
// interpreted in the node's rotate order.
func (t *Transform) SetRotation(v math32.Vector3, batch ...*scene.Modifier) (*Command, error) {
	nd, err := t.Node()
	if err != nil {
		return nil, err
	}
	md, owned := t.Ses.batch(batch)
	if err := writeChannelVec3(md, nd, "rotate", angleToInternalVec3(v)); err != nil {
		return nil, err
	}
	return t.Ses.finish("setRotation", md, owned)
}

// Scale returns the scale channels.
func (t *Transform) Scale() (math32.Vector3, error) {
	nd, err := t.Node()
	if err != nil {
		return math32.Vector3{}, err
	}
	return channelVec3(nd, "scale")
}

// SetScale sets the scale channels.
func (t *Transform) SetScale(v math32.Vector3, batch ...*scene.Modifier) (*Command, error) {
	nd, err := t.Node()
	if err != nil {
		return nil, err
	}
	md, owned := t.Ses.batch(batch)
	if err := writeChannelVec3(md, nd, "scale", v); err != nil {
		return nil, err
	}
	return t.Ses.finish("setScale", md, owned)
}

// Shear returns the shear channels as XY, XZ, YZ.
func (t *Transform) Shear() (math32.Vector3, error) {
	nd, err := t.Node()
	if err != nil {
		return math32.Vector3{}, err
	}
	return channelVec3(nd, "shear")
}

// SetShear sets the shear channels.
func (t *Transform) SetShear(v math32.Vector3, batch ...*scene.Modifier) (*Command, error) {
	nd, err := t.Node()
	if err != nil {
		return nil, err
	}
	md, owned := t.Ses.batch(batch)
	if err := writeChannelVec3(md, nd, "shear", v); err != nil {
		return nil, err
	}
	return t.Ses.finish("setShear", md, owned)
}

// RotateOrder returns the node's rotate order.
func (t *Transform) RotateOrder() (math32.RotationOrder, error) {
	nd, err := t.Node()
	if err != nil {
		return math32.XYZ, err
	}
	return t.Ses.Graph.RotateOrder(nd), nil
}

// SetRotateOrder changes the rotate order. With preserve set, the
// rotate channels are rewritten so the node keeps its orientation;
// otherwise the channel values are reinterpreted in the new order.
func (t *Transform) SetRotateOrder(order math32.RotationOrder, preserve bool, batch ...*scene.Modifier) (*Command, error) {
	nd, err := t.Node()
	if err != nil {
		return nil, err
	}
	roPlug, err := nd.FindPlug("rotateOrder")
	if err != nil {
		return nil, wrapErr(err)
	}
	md, owned := t.Ses.batch(batch)
	if preserve {
		cur := t.Ses.Graph.RotationEuler(nd)
		re := cur.Reorder(order)
		if err := writeChannelVec3(md, nd, "rotate", re.Vector3()); err != nil {
			return nil, err
		}
	}
	if err := md.SetValue(roPlug, int(order)); err != nil {
		return nil, wrapErr(err)
	}
	return t.Ses.finish("setRotateOrder", md, owned)
}

// Matrix returns the transformation matrix in the given space, in
// internal units.
func (t *Transform) Matrix(space Space) (math32.Matrix4, error) {
	nd, err := t.Node()
	if err != nil {
		return math32.Matrix4{}, err
	}
	if space == SpaceWorld {
		return t.Ses.Graph.WorldMatrix(nd), nil
	}
	return t.Ses.Graph.LocalMatrix(nd), nil
}

// SetMatrix rewrites the transformation channels from a matrix in the
// given space, in internal units. World matrices are brought into the
// parent frame first.
func (t *Transform) SetMatrix(m math32.Matrix4, space Space, batch ...*scene.Modifier) (*Command, error) {
	nd, err := t.Node()
	if err != nil {
		return nil, err
	}
	local := m
	if space == SpaceWorld {
		pw := t.Ses.parentWorld(nd)
		inv := pw.Inverse()
		local = inv.Mul(&m)
	}
	md, owned := t.Ses.batch(batch)
	if err := t.Ses.setLocalMatrix(md, nd, &local); err != nil {
		return nil, err
	}
	return t.Ses.finish("setMatrix", md, owned)
}

////////  Joint

// Joint wraps a joint node, which layers a joint orient rotation
// between translation and the rotate channels.
type Joint struct {
	Transform
}

// AsJoint returns the embedded joint base.
func (j *Joint) AsJoint() *Joint { return j }

// JointOrient returns the joint orient channels in UI angle units.
func (j *Joint) JointOrient() (math32.Vector3, error) {
	nd, err := j.Node()
	if err != nil {
		return math32.Vector3{}, err
	}
	jo, err := channelVec3(nd, "jointOrient")
	if err != nil {
		return math32.Vector3{}, err
	}
	return angleToUIVec3(jo), nil
}

// SetJointOrient sets the joint orient channels, in UI angle units.
func (j *Joint) SetJointOrient(v math32.Vector3, batch ...*scene.Modifier) (*Command, error) {
	nd, err := j.Node()
	if err != nil {
		return nil, err
	}
	md, owned := j.Ses.batch(batch)
	if err := writeChannelVec3(md, nd, "jointOrient", angleToInternalVec3(v)); err != nil {
		return nil, err
	}
	return j.Ses.finish("setJointOrient", md, owned)
}

// FreezeRotation folds the rotate channels into the joint orient,
// zeroing rotate while keeping the joint's orientation. The combined
// rotation moves wholesale into jointOrient, expressed XYZ.
func (j *Joint) FreezeRotation(batch ...*scene.Modifier) (*Command, error) {
	nd, err := j.Node()
	if err != nil {
		return nil, err
	}
	combined, err := j.combinedRotation(nd)
	if err != nil {
		return nil, err
	}
	jo := math32.EulerFromMatrix(&combined, math32.XYZ)
	md, owned := j.Ses.batch(batch)
	if err := writeChannelVec3(md, nd, "jointOrient", jo.Vector3()); err != nil {
		return nil, err
	}
	if err := writeChannelVec3(md, nd, "rotate", math32.Vector3{}); err != nil {
		return nil, err
	}
	return j.Ses.finish("freezeRotation", md, owned)
}

// ClearOrient folds the joint orient into the rotate channels,
// zeroing jointOrient while keeping the joint's orientation. The
// combined rotation lands on rotate in the node's rotate order.
func (j *Joint) ClearOrient(batch ...*scene.Modifier) (*Command, error) {
	nd, err := j.Node()
	if err != nil {
		return nil, err
	}
	combined, err := j.combinedRotation(nd)
	if err != nil {
		return nil, err
	}
	rot := math32.EulerFromMatrix(&combined, j.Ses.Graph.RotateOrder(nd))
	md, owned := j.Ses.batch(batch)
	if err := writeChannelVec3(md, nd, "rotate", rot.Vector3()); err != nil {
		return nil, err
	}
	if err := writeChannelVec3(md, nd, "jointOrient", math32.Vector3{}); err != nil {
		return nil, err
	}
	return j.Ses.finish("clearOrient", md, owned)
}

// combinedRotation returns the joint orient times rotate matrix.
func (j *Joint) combinedRotation(nd *scene.Node) (math32.Matrix4, error) {
	jo, err := channelVec3(nd, "jointOrient")
	if err != nil {
		return math32.Matrix4{}, err
	}
	rot, err := channelVec3(nd, "rotate")
	if err != nil {
		return math32.Matrix4{}, err
	}
	joMat := math32.EulerFromVector3(jo, math32.XYZ).ToMatrix()
	rotMat := math32.EulerFromVector3(rot, j.Ses.Graph.RotateOrder(nd)).ToMatrix()
	return joMat.Mul(&rotMat), nil
}

////////  Session transform operation

// TransformOptions describe one [Session.Transform] edit. Channel
// fields are UI units; nil fields are untouched. Matrix excludes the
// channel fields and is in internal units.
type TransformOptions struct {

	// Translation places or, with Relative, offsets the node.
	Translation *math32.Vector3

	// Rotation sets or composes onto the rotate channels, in the
	// node's rotate order. Object space only.
	Rotation *math32.Vector3

	// Scale sets or, with Relative, multiplies the scale channels.
	// Object space only.
	Scale *math32.Vector3

	// Shear sets or, with Relative, adds to the shear channels.
	// Object space only.
	Shear *math32.Vector3

	// Matrix rewrites every channel at once.
	Matrix *math32.Matrix4

	// Space is the frame Translation and Matrix are expressed in.
	Space Space

	// Relative composes onto the current values instead of replacing
	// them.
	Relative bool
}

// Transform applies a transformation edit to the node behind the
// reference. Rotation, scale and shear only exist in object space;
// asking for them in world space is a type mismatch.
func (s *Session) Transform(ref any, opts *TransformOptions, batch ...*scene.Modifier) (*Command, error) {
	if opts == nil {
		return nil, nil
	}
	n, err := s.nodeFor(ref)
	if err != nil {
		return nil, err
	}
	if !n.HasFn(scene.FnTransform) {
		return nil, fmt.Errorf("%w: %s has no transformation channels", ErrTypeMismatch, n.Name())
	}
	if opts.Space == SpaceWorld && (opts.Rotation != nil || opts.Scale != nil || opts.Shear != nil) {
		return nil, fmt.Errorf("%w: rotation, scale and shear only apply in object space", ErrTypeMismatch)
	}
	if opts.Matrix != nil && (opts.Translation != nil || opts.Rotation != nil || opts.Scale != nil || opts.Shear != nil) {
		return nil, fmt.Errorf("%w: a matrix excludes the channel fields", ErrTypeMismatch)
	}
	md, owned := s.batch(batch)
	if opts.Matrix != nil {
		local, err := s.targetLocal(n, *opts.Matrix, opts.Space, opts.Relative)
		if err != nil {
			return nil, err
		}
		if err := s.setLocalMatrix(md, n, &local); err != nil {
			return nil, err
		}
		return s.finish("transform", md, owned)
	}
	if opts.Translation != nil {
		pos, err := s.targetTranslation(n, distanceToInternalVec3(*opts.Translation), opts.Space, opts.Relative)
		if err != nil {
			return nil, err
		}
		if err := writeChannelVec3(md, n, "translate", pos); err != nil {
			return nil, err
		}
	}
	if opts.Rotation != nil {
		rot := angleToInternalVec3(*opts.Rotation)
		if opts.Relative {
			order := s.Graph.RotateOrder(n)
			curMat := s.Graph.RotationEuler(n).ToMatrix()
			deltaMat := math32.EulerFromVector3(rot, order).ToMatrix()
			composed := curMat.Mul(&deltaMat)
			rot = math32.EulerFromMatrix(&composed, order).Vector3()
		}
		if err := writeChannelVec3(md, n, "rotate", rot); err != nil {
			return nil, err
		}
	}
	if opts.Scale != nil {
		sc := *opts.Scale
		if opts.Relative {
			cur, err := channelVec3(n, "scale")
			if err != nil {
				return nil, err
			}
			sc = cur.Mul(sc)
		}
		if err := writeChannelVec3(md, n, "scale", sc); err != nil {
			return nil, err
		}
	}
	if opts.Shear != nil {
		sh := *opts.Shear
		if opts.Relative {
			cur, err := channelVec3(n, "shear")
			if err != nil {
				return nil, err
			}
			sh = cur.Add(sh)
		}
		if err := writeChannelVec3(md, n, "shear", sh); err != nil {
			return nil, err
		}
	}
	return s.finish("transform", md, owned)
}

// targetLocal resolves a matrix edit into the local matrix to write.
func (s *Session) targetLocal(n *scene.Node, m math32.Matrix4, space Space, relative bool) (math32.Matrix4, error) {
	if space == SpaceWorld {
		world := m
		if relative {
			old := s.Graph.WorldMatrix(n)
			world = m.Mul(&old)
		}
		pw := s.parentWorld(n)
		inv := pw.Inverse()
		return inv.Mul(&world), nil
	}
	if relative {
		old := s.Graph.LocalMatrix(n)
		return old.Mul(&m), nil
	}
	return m, nil
}

// targetTranslation resolves a translation edit into the internal
// translate channel values to write.
func (s *Session) targetTranslation(n *scene.Node, pos math32.Vector3, space Space, relative bool) (math32.Vector3, error) {
	if space == SpaceWorld {
		if relative {
			w := s.Graph.WorldMatrix(n)
			wp, _, _, _ := w.Decompose()
			return s.worldToLocalPoint(n, wp.Add(pos)), nil
		}
		return s.worldToLocalPoint(n, pos), nil
	}
	if relative {
		cur, err := channelVec3(n, "translate")
		if err != nil {
			return math32.Vector3{}, err
		}
		return cur.Add(pos), nil
	}
	return pos, nil
}

////////  Channel plumbing

// parentWorld returns the world matrix of the node's parent, identity
// at the root.
func (s *Session) parentWorld(n *scene.Node) math32.Matrix4 {
	p := n.Parent()
	if p == nil {
		return math32.Identity4()
	}
	return s.Graph.WorldMatrix(p)
}

// worldToLocalPoint brings a world-space point into the node's parent
// frame.
func (s *Session) worldToLocalPoint(n *scene.Node, p math32.Vector3) math32.Vector3 {
	pw := s.parentWorld(n)
	inv := pw.Inverse()
	return p.MulMatrix4AsPoint(&inv)
}

// setLocalMatrix queues rewriting the transformation channels from a
// local matrix. For joints the joint orient stays as it is and the
// rotate channels absorb the difference.
func (s *Session) setLocalMatrix(md *scene.Modifier, n *scene.Node, local *math32.Matrix4) error {
	pos, rotMat, shear, scale := local.Decompose()
	if n.HasFn(scene.FnJoint) {
		jo, err := channelVec3(n, "jointOrient")
		if err != nil {
			return err
		}
		joMat := math32.EulerFromVector3(jo, math32.XYZ).ToMatrix()
		joInv := joMat.Inverse()
		rotMat = joInv.Mul(&rotMat)
	}
	rot := math32.EulerFromMatrix(&rotMat, s.Graph.RotateOrder(n)).Vector3()
	if err := writeChannelVec3(md, n, "translate", pos); err != nil {
		return err
	}
	if err := writeChannelVec3(md, n, "rotate", rot); err != nil {
		return err
	}
	if err := writeChannelVec3(md, n, "shear", shear); err != nil {
		return err
	}
	return writeChannelVec3(md, n, "scale", scale)
}

// channelVec3 reads a three-child channel compound into a vector, in
// internal units.
func channelVec3(n *scene.Node, name string) (math32.Vector3, error) {
	p, err := n.FindPlug(name)
	if err != nil {
		return math32.Vector3{}, wrapErr(err)
	}
	var out math32.Vector3
	dims := []*float32{&out.X, &out.Y, &out.Z}
	for i := 0; i < 3; i++ {
		c, err := p.Child(i)
		if err != nil {
			return math32.Vector3{}, wrapErr(err)
		}
		v, err := c.Value()
		if err != nil {
			return math32.Vector3{}, wrapErr(err)
		}
		f, ok := v.(float32)
		if !ok {
			return math32.Vector3{}, fmt.Errorf("%w: channel %s holds %T", ErrTypeMismatch, c.Name(), v)
		}
		*dims[i] = f
	}
	return out, nil
}

// writeChannelVec3 queues internal-unit stores on each child of a
// three-child channel compound.
func writeChannelVec3(md *scene.Modifier, n *scene.Node, name string, v math32.Vector3) error {
	p, err := n.FindPlug(name)
	if err != nil {
		return wrapErr(err)
	}
	vals := []float32{v.X, v.Y, v.Z}
	for i := 0; i < 3; i++ {
		c, err := p.Child(i)
		if err != nil {
			return wrapErr(err)
		}
		if err := md.SetValue(c, vals[i]); err != nil {
			return wrapErr(err)
		}
	}
	return nil
}

// distanceToUIVec3 converts each component from internal to UI
// distance units.
func distanceToUIVec3(v math32.Vector3) math32.Vector3 {
	return math32.Vector3{X: units.DistanceToUI(v.X), Y: units.DistanceToUI(v.Y), Z: units.DistanceToUI(v.Z)}
}

// distanceToInternalVec3 converts each component from UI to internal
// distance units.
func distanceToInternalVec3(v math32.Vector3) math32.Vector3 {
	return math32.Vector3{X: units.DistanceToInternal(v.X), Y: units.DistanceToInternal(v.Y), Z: units.DistanceToInternal(v.Z)}
}

// angleToUIVec3 converts each component from internal to UI angle
// units.
func angleToUIVec3(v math32.Vector3) math32.Vector3 {
	return math32.Vector3{X: units.AngleToUI(v.X), Y: units.AngleToUI(v.Y), Z: units.AngleToUI(v.Z)}
}

// angleToInternalVec3 converts each component from UI to internal
// angle units.
func angleToInternalVec3(v math32.Vector3) math32.Vector3 {
	return math32.Vector3{X: units.AngleToInternal(v.X), Y: units.AngleToInternal(v.Y), Z: units.AngleToInternal(v.Z)}
}
