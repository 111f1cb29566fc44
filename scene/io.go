// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/Pahuska/gomaya/math32"
	"gopkg.in/yaml.v3"
)

// fileVersion is written into saved scenes. Loading rejects files
// from a different major version.
const fileVersion = "1.0.0"

// fileScene is the on-disk shape of a graph, shared by the JSON and
// YAML codecs. Nodes are listed parents before children so that a
// single pass can rebuild the hierarchy.
type fileScene struct {
	Version     string     `json:"version" yaml:"version"`
	Nodes       []fileNode `json:"nodes" yaml:"nodes"`
	Connections []fileConn `json:"connections,omitempty" yaml:"connections,omitempty"`
	Selection   []string   `json:"selection,omitempty" yaml:"selection,omitempty"`
}

type fileNode struct {
	Name     string        `json:"name" yaml:"name"`
	Type     string        `json:"type" yaml:"type"`
	Parent   string        `json:"parent,omitempty" yaml:"parent,omitempty"`
	Locked   bool          `json:"locked,omitempty" yaml:"locked,omitempty"`
	Dynamic  []fileAttrDef `json:"dynamic,omitempty" yaml:"dynamic,omitempty"`
	Attrs    []fileAttr    `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Geometry *fileGeometry `json:"geometry,omitempty" yaml:"geometry,omitempty"`
	Members  []string      `json:"members,omitempty" yaml:"members,omitempty"`
}

type fileAttr struct {
	Path   string `json:"path" yaml:"path"`
	Value  any    `json:"value,omitempty" yaml:"value,omitempty"`
	Locked bool   `json:"locked,omitempty" yaml:"locked,omitempty"`
}

type fileAttrDef struct {
	Name        string        `json:"name" yaml:"name"`
	Short       string        `json:"short,omitempty" yaml:"short,omitempty"`
	Kind        string        `json:"kind" yaml:"kind"`
	Numeric     string        `json:"numeric,omitempty" yaml:"numeric,omitempty"`
	Unit        string        `json:"unit,omitempty" yaml:"unit,omitempty"`
	Default     any           `json:"default,omitempty" yaml:"default,omitempty"`
	Min         *float32      `json:"min,omitempty" yaml:"min,omitempty"`
	Max         *float32      `json:"max,omitempty" yaml:"max,omitempty"`
	SoftMin     *float32      `json:"softMin,omitempty" yaml:"softMin,omitempty"`
	SoftMax     *float32      `json:"softMax,omitempty" yaml:"softMax,omitempty"`
	Keyable     bool          `json:"keyable,omitempty" yaml:"keyable,omitempty"`
	Array       bool          `json:"array,omitempty" yaml:"array,omitempty"`
	UsedAsColor bool          `json:"usedAsColor,omitempty" yaml:"usedAsColor,omitempty"`
	FieldNames  []string      `json:"fieldNames,omitempty" yaml:"fieldNames,omitempty"`
	FieldValues []int         `json:"fieldValues,omitempty" yaml:"fieldValues,omitempty"`
	Children    []fileAttrDef `json:"children,omitempty" yaml:"children,omitempty"`
}

type fileConn struct {
	Src string `json:"src" yaml:"src"`
	Dst string `json:"dst" yaml:"dst"`
}

type fileGeometry struct {
	Kind    string      `json:"kind" yaml:"kind"`
	Points  [][]float32 `json:"points,omitempty" yaml:"points,omitempty"`
	Faces   [][]int     `json:"faces,omitempty" yaml:"faces,omitempty"`
	Degree  int         `json:"degree,omitempty" yaml:"degree,omitempty"`
	Knots   []float32   `json:"knots,omitempty" yaml:"knots,omitempty"`
	Form    string      `json:"form,omitempty" yaml:"form,omitempty"`
	DegreeU int         `json:"degreeU,omitempty" yaml:"degreeU,omitempty"`
	DegreeV int         `json:"degreeV,omitempty" yaml:"degreeV,omitempty"`
	FormU   string      `json:"formU,omitempty" yaml:"formU,omitempty"`
	FormV   string      `json:"formV,omitempty" yaml:"formV,omitempty"`
	NumV    int         `json:"numV,omitempty" yaml:"numV,omitempty"`
	S       int         `json:"s,omitempty" yaml:"s,omitempty"`
	T       int         `json:"t,omitempty" yaml:"t,omitempty"`
	U       int         `json:"u,omitempty" yaml:"u,omitempty"`
}

////////  Saving

// WriteJSON writes the whole graph as indented JSON.
func (g *Graph) WriteJSON(w io.Writer) error {
	fs := g.toFile()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	return enc.Encode(fs)
}

// WriteYAML writes the whole graph as YAML.
func (g *Graph) WriteYAML(w io.Writer) error {
	fs := g.toFile()
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(fs)
}

// Save writes the graph to the given file, choosing the codec from
// the extension: .json, or .yaml / .yml.
func (g *Graph) Save(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return g.WriteYAML(f)
	default:
		return g.WriteJSON(f)
	}
}

func (g *Graph) toFile() *fileScene {
	fs := &fileScene{Version: fileVersion}
	var ordered []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		ordered = append(ordered, n)
		for _, c := range n.children {
			if c.alive {
				walk(c)
			}
		}
	}
	for _, r := range g.Roots() {
		walk(r)
	}
	for _, n := range g.list {
		if n.alive && !n.IsDag() {
			ordered = append(ordered, n)
		}
	}
	for _, n := range ordered {
		fs.Nodes = append(fs.Nodes, nodeToFile(n))
		for _, av := range n.attrs {
			av.walk(func(v *attrValue) {
				if !v.source.IsNil() {
					fs.Connections = append(fs.Connections, fileConn{
						Src: plugFileRef(v.source),
						Dst: plugFileRef(Plug{v: v}),
					})
				}
			})
		}
	}
	for _, item := range g.active.Items() {
		fs.Selection = append(fs.Selection, itemFileRef(item))
	}
	return fs
}

// nodeFileRef names a node unambiguously in a saved file: the full
// hierarchy path for DAG nodes, the flat name otherwise.
func nodeFileRef(n *Node) string {
	if n.IsDag() {
		return n.Path().FullName()
	}
	return n.name
}

func plugFileRef(p Plug) string {
	return nodeFileRef(p.Node()) + "." + p.AttrPath()
}

func itemFileRef(item SelectionItem) string {
	switch item.Kind() {
	case ResolvedPlug:
		return plugFileRef(item.Plug)
	case ResolvedComponent:
		return nodeFileRef(item.Node) + "." + item.Component.Subscript()
	}
	return nodeFileRef(item.Node)
}

func nodeToFile(n *Node) fileNode {
	fn := fileNode{Name: n.name, Type: n.typ.Name, Locked: n.locked}
	if n.parent != nil {
		fn.Parent = nodeFileRef(n.parent)
	}
	for _, av := range n.attrs {
		if av.def.IsDynamic() {
			fn.Dynamic = append(fn.Dynamic, defToFile(av.def))
		}
		av.walk(func(v *attrValue) {
			fa, ok := attrToFile(v)
			if ok {
				fn.Attrs = append(fn.Attrs, fa)
			}
		})
	}
	if n.geometry != nil {
		fg := geometryToFile(n.geometry)
		fn.Geometry = &fg
	}
	if n.members != nil && n.members.Len() > 0 {
		for _, item := range n.members.Items() {
			fn.Members = append(fn.Members, itemFileRef(item))
		}
	}
	return fn
}

// attrToFile emits one instance when it differs from its default
// state: a changed value, a lock, or an array element holding either.
func attrToFile(v *attrValue) (fileAttr, bool) {
	fa := fileAttr{Path: v.path(), Locked: v.locked}
	changed := v.locked
	switch v.def.Kind {
	case KindCompound, KindMessage:
	default:
		if !v.def.Array || v.isElement() {
			if v.value != v.def.defaultValue() {
				fa.Value = valueToWire(v.value)
				changed = true
			}
		}
	}
	return fa, changed
}

func defToFile(def *AttrDef) fileAttrDef {
	fd := fileAttrDef{
		Name:        def.Name,
		Short:       def.Short,
		Kind:        def.Kind.String(),
		Min:         def.Min,
		Max:         def.Max,
		SoftMin:     def.SoftMin,
		SoftMax:     def.SoftMax,
		Keyable:     def.Keyable,
		Array:       def.Array,
		UsedAsColor: def.UsedAsColor,
	}
	if def.Short == def.Name {
		fd.Short = ""
	}
	if def.Kind == KindNumeric {
		fd.Numeric = def.Numeric.String()
	}
	if def.Kind == KindUnit {
		fd.Unit = def.Unit.String()
	}
	if def.Default != nil {
		fd.Default = valueToWire(def.Default)
	}
	if def.Fields != nil {
		fd.FieldNames = def.Fields.Names
		fd.FieldValues = def.Fields.Values
	}
	for _, c := range def.Children {
		fd.Children = append(fd.Children, defToFile(c))
	}
	return fd
}

// valueToWire flattens canonical values into plain JSON/YAML shapes:
// vectors and matrices become float arrays.
func valueToWire(v any) any {
	switch t := v.(type) {
	case math32.Vector2:
		return []float32{t.X, t.Y}
	case math32.Vector3:
		return []float32{t.X, t.Y, t.Z}
	case math32.Vector4:
		return []float32{t.X, t.Y, t.Z, t.W}
	case math32.Matrix4:
		out := make([]float32, 16)
		t.ToSlice(out, 0)
		return out
	case [2]int:
		return []int{t[0], t[1]}
	case [3]int:
		return []int{t[0], t[1], t[2]}
	}
	return v
}

func geometryToFile(g Geometry) fileGeometry {
	switch t := g.(type) {
	case *MeshData:
		return fileGeometry{Kind: "mesh", Points: pointsToWire(t.Points), Faces: t.Faces}
	case *CurveData:
		return fileGeometry{Kind: "curve", Points: pointsToWire(t.CVs), Degree: t.Degree, Knots: t.Knots, Form: t.Form.String()}
	case *SurfaceData:
		var flat []math32.Vector3
		for _, row := range t.CVs {
			flat = append(flat, row...)
		}
		return fileGeometry{
			Kind: "surface", Points: pointsToWire(flat), NumV: t.NumCVsV(),
			DegreeU: t.DegreeU, DegreeV: t.DegreeV,
			FormU: t.FormU.String(), FormV: t.FormV.String(),
		}
	case *LatticeData:
		return fileGeometry{Kind: "lattice", Points: pointsToWire(t.Points), S: t.S, T: t.T, U: t.U}
	}
	return fileGeometry{}
}

func pointsToWire(pts []math32.Vector3) [][]float32 {
	out := make([][]float32, len(pts))
	for i, p := range pts {
		out[i] = []float32{p.X, p.Y, p.Z}
	}
	return out
}

////////  Loading

// ReadJSON loads a JSON scene file into the graph, adding to whatever
// it already holds.
func (g *Graph) ReadJSON(r io.Reader) error {
	fs := &fileScene{}
	if err := json.NewDecoder(r).Decode(fs); err != nil {
		return err
	}
	return g.fromFile(fs)
}

// ReadYAML loads a YAML scene file into the graph, adding to whatever
// it already holds.
func (g *Graph) ReadYAML(r io.Reader) error {
	fs := &fileScene{}
	if err := yaml.NewDecoder(r).Decode(fs); err != nil {
		return err
	}
	return g.fromFile(fs)
}

// Open loads the given scene file, choosing the codec from the
// extension.
func (g *Graph) Open(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return g.ReadYAML(f)
	default:
		return g.ReadJSON(f)
	}
}

func (g *Graph) fromFile(fs *fileScene) error {
	if err := checkFileVersion(fs.Version); err != nil {
		return err
	}
	for _, fn := range fs.Nodes {
		if err := g.nodeFromFile(fn); err != nil {
			return err
		}
	}
	for _, fc := range fs.Connections {
		src, err := g.lookupPlug(fc.Src)
		if err != nil {
			return err
		}
		dst, err := g.lookupPlug(fc.Dst)
		if err != nil {
			return err
		}
		connectPlugs(src, dst)
	}
	for _, fn := range fs.Nodes {
		if len(fn.Members) == 0 {
			continue
		}
		set, err := g.LookupNode(nodeRefName(fn))
		if err != nil {
			return err
		}
		members := set.Members()
		if members == nil {
			return fmt.Errorf("%w: %q has members but is not a set", ErrValueType, fn.Name)
		}
		for _, m := range fn.Members {
			if err := members.AddName(g, m); err != nil {
				return err
			}
		}
	}
	sel := NewSelectionList()
	for _, s := range fs.Selection {
		if err := sel.AddName(g, s); err != nil {
			return err
		}
	}
	g.SetActiveSelection(sel)
	return nil
}

// nodeRefName rebuilds the file reference of a just-loaded node
// entry: the full path for hierarchy nodes, the flat name otherwise.
func nodeRefName(fn fileNode) string {
	if fn.Parent != "" {
		return fn.Parent + "|" + fn.Name
	}
	if typ, err := NodeTypeByName(fn.Type); err == nil && typ.IsDag {
		return "|" + fn.Name
	}
	return fn.Name
}

// checkFileVersion rejects files from another major version.
func checkFileVersion(v string) error {
	if v == "" {
		return fmt.Errorf("scene file without version: %w", ErrValueType)
	}
	have, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("scene file version %q: %w", v, err)
	}
	want := semver.MustParse(fileVersion)
	if have.Major() != want.Major() {
		return fmt.Errorf("%w: scene file version %s, this build reads %s", ErrValueType, v, fileVersion)
	}
	return nil
}

func (g *Graph) nodeFromFile(fn fileNode) error {
	var parent *Node
	if fn.Parent != "" {
		p, err := g.LookupNode(fn.Parent)
		if err != nil {
			return fmt.Errorf("parent of %q: %w", fn.Name, err)
		}
		parent = p
	}
	n, err := g.NewNode(fn.Type, fn.Name, parent)
	if err != nil {
		return err
	}
	for _, fd := range fn.Dynamic {
		def, err := defFromFile(fd)
		if err != nil {
			return err
		}
		def.setDynamicAll(true)
		n.addAttrValue(def)
	}
	for _, fa := range fn.Attrs {
		p, err := n.PlugByPath(fa.Path)
		if err != nil {
			return err
		}
		if fa.Value != nil {
			cv, err := wireToCanonical(p.Def(), fa.Value)
			if err != nil {
				return fmt.Errorf("%s.%s: %w", fn.Name, fa.Path, err)
			}
			if err := p.setValue(cv); err != nil {
				return fmt.Errorf("%s.%s: %w", fn.Name, fa.Path, err)
			}
		}
		if fa.Locked {
			p.SetLocked(true)
		}
	}
	if fn.Geometry != nil {
		geo, err := geometryFromFile(*fn.Geometry)
		if err != nil {
			return fmt.Errorf("geometry of %q: %w", fn.Name, err)
		}
		n.geometry = geo
	}
	n.locked = fn.Locked
	return nil
}

func (g *Graph) lookupPlug(ref string) (Plug, error) {
	r, err := g.Lookup(ref)
	if err != nil {
		return Plug{}, err
	}
	if r.Kind != ResolvedPlug {
		return Plug{}, fmt.Errorf("%q is not an attribute: %w", ref, ErrValueType)
	}
	return r.Plug, nil
}

func defFromFile(fd fileAttrDef) (*AttrDef, error) {
	kind := attrKindByName(fd.Kind)
	def := NewAttrDef(fd.Name, kind)
	if fd.Short != "" {
		def.SetShort(fd.Short)
	}
	def.Numeric = numericTypeByName(fd.Numeric)
	def.Unit = unitTypeByName(fd.Unit)
	def.Min, def.Max = fd.Min, fd.Max
	def.SoftMin, def.SoftMax = fd.SoftMin, fd.SoftMax
	def.Keyable = fd.Keyable
	def.Array = fd.Array
	def.UsedAsColor = fd.UsedAsColor
	if len(fd.FieldNames) != len(fd.FieldValues) {
		return nil, fmt.Errorf("%w: %q: field names and values disagree", ErrBadAttrSpec, fd.Name)
	}
	for i, name := range fd.FieldNames {
		def.AddField(name, fd.FieldValues[i])
	}
	for _, fc := range fd.Children {
		child, err := defFromFile(fc)
		if err != nil {
			return nil, err
		}
		def.AddChildren(child)
	}
	if fd.Default != nil {
		dv, err := wireToCanonical(def, fd.Default)
		if err != nil {
			return nil, fmt.Errorf("default of %q: %w", fd.Name, err)
		}
		def.Default = dv
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

// wireToCanonical converts a decoded JSON/YAML value into the
// canonical form for the given definition. JSON decodes every number
// as float64 and YAML may produce int, so numbers convert per the
// definition, and float arrays rebuild vectors and matrices.
func wireToCanonical(def *AttrDef, wire any) (any, error) {
	switch def.Kind {
	case KindNumeric:
		switch def.Numeric {
		case NumBool:
			return wire, nil
		case NumInt:
			i, ok := wireInt(wire)
			if !ok {
				return nil, fmt.Errorf("%w: %T for int attribute %q", ErrValueType, wire, def.Name)
			}
			return i, nil
		case NumFloat:
			f, ok := wireFloat(wire)
			if !ok {
				return nil, fmt.Errorf("%w: %T for float attribute %q", ErrValueType, wire, def.Name)
			}
			return f, nil
		case NumFloat2, NumFloat3, NumFloat4:
			want := map[NumericType]int{NumFloat2: 2, NumFloat3: 3, NumFloat4: 4}[def.Numeric]
			fs, err := wireFloats(wire, want, def.Name)
			if err != nil {
				return nil, err
			}
			switch def.Numeric {
			case NumFloat2:
				return math32.Vec2(fs[0], fs[1]), nil
			case NumFloat3:
				return math32.Vec3(fs[0], fs[1], fs[2]), nil
			default:
				return math32.Vec4(fs[0], fs[1], fs[2], fs[3]), nil
			}
		case NumInt2, NumInt3:
			want := 2
			if def.Numeric == NumInt3 {
				want = 3
			}
			is, err := wireInts(wire, want, def.Name)
			if err != nil {
				return nil, err
			}
			if def.Numeric == NumInt2 {
				return [2]int{is[0], is[1]}, nil
			}
			return [3]int{is[0], is[1], is[2]}, nil
		}
	case KindUnit:
		f, ok := wireFloat(wire)
		if !ok {
			return nil, fmt.Errorf("%w: %T for unit attribute %q", ErrValueType, wire, def.Name)
		}
		return f, nil
	case KindString:
		return wire, nil
	case KindMatrix:
		fs, err := wireFloats(wire, 16, def.Name)
		if err != nil {
			return nil, err
		}
		var m math32.Matrix4
		m.FromSlice(fs, 0)
		return m, nil
	case KindEnum:
		i, ok := wireInt(wire)
		if !ok {
			return nil, fmt.Errorf("%w: %T for enum attribute %q", ErrValueType, wire, def.Name)
		}
		return i, nil
	case KindGeneric:
		switch t := wire.(type) {
		case bool, string:
			return t, nil
		case float64:
			return float32(t), nil
		case int:
			return t, nil
		case []any:
			fs := make([]float32, len(t))
			for i, e := range t {
				f, ok := wireFloat(e)
				if !ok {
					return nil, fmt.Errorf("%w: generic array element %T", ErrValueType, e)
				}
				fs[i] = f
			}
			switch len(fs) {
			case 2:
				return math32.Vec2(fs[0], fs[1]), nil
			case 3:
				return math32.Vec3(fs[0], fs[1], fs[2]), nil
			case 4:
				return math32.Vec4(fs[0], fs[1], fs[2], fs[3]), nil
			case 16:
				var m math32.Matrix4
				m.FromSlice(fs, 0)
				return m, nil
			}
		}
		return nil, fmt.Errorf("%w: %T for generic attribute %q", ErrValueType, wire, def.Name)
	}
	return nil, fmt.Errorf("%w: value for %s attribute %q", ErrValueType, def.Kind, def.Name)
}

func wireFloat(v any) (float32, bool) {
	switch t := v.(type) {
	case float64:
		return float32(t), true
	case float32:
		return t, true
	case int:
		return float32(t), true
	}
	return 0, false
}

func wireInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case int:
		return t, true
	}
	return 0, false
}

func wireFloats(v any, want int, name string) ([]float32, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %T for %q", ErrValueType, v, name)
	}
	if len(arr) != want {
		return nil, fmt.Errorf("%w: %d values for %q, want %d", ErrValueType, len(arr), name, want)
	}
	out := make([]float32, want)
	for i, e := range arr {
		f, ok := wireFloat(e)
		if !ok {
			return nil, fmt.Errorf("%w: %T in %q", ErrValueType, e, name)
		}
		out[i] = f
	}
	return out, nil
}

func wireInts(v any, want int, name string) ([]int, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %T for %q", ErrValueType, v, name)
	}
	if len(arr) != want {
		return nil, fmt.Errorf("%w: %d values for %q, want %d", ErrValueType, len(arr), name, want)
	}
	out := make([]int, want)
	for i, e := range arr {
		iv, ok := wireInt(e)
		if !ok {
			return nil, fmt.Errorf("%w: %T in %q", ErrValueType, e, name)
		}
		out[i] = iv
	}
	return out, nil
}

func formByName(name string) CurveForm {
	for i, n := range curveFormNames[:FormN] {
		if n == name {
			return CurveForm(i)
		}
	}
	return FormOpen
}

func pointsFromWire(rows [][]float32) []math32.Vector3 {
	out := make([]math32.Vector3, len(rows))
	for i, r := range rows {
		if len(r) >= 3 {
			out[i] = math32.Vec3(r[0], r[1], r[2])
		}
	}
	return out
}

func geometryFromFile(fg fileGeometry) (Geometry, error) {
	pts := pointsFromWire(fg.Points)
	switch fg.Kind {
	case "mesh":
		return &MeshData{Points: pts, Faces: fg.Faces}, nil
	case "curve":
		return &CurveData{CVs: pts, Degree: fg.Degree, Knots: fg.Knots, Form: formByName(fg.Form)}, nil
	case "surface":
		if fg.NumV <= 0 || len(pts)%fg.NumV != 0 {
			return nil, fmt.Errorf("%w: surface grid %d points by %d", ErrValueType, len(pts), fg.NumV)
		}
		sd := &SurfaceData{DegreeU: fg.DegreeU, DegreeV: fg.DegreeV, FormU: formByName(fg.FormU), FormV: formByName(fg.FormV)}
		for i := 0; i < len(pts); i += fg.NumV {
			sd.CVs = append(sd.CVs, pts[i:i+fg.NumV])
		}
		return sd, nil
	case "lattice":
		if fg.S*fg.T*fg.U != len(pts) {
			return nil, fmt.Errorf("%w: lattice %dx%dx%d with %d points", ErrValueType, fg.S, fg.T, fg.U, len(pts))
		}
		return &LatticeData{S: fg.S, T: fg.T, U: fg.U, Points: pts}, nil
	}
	return nil, fmt.Errorf("%w: geometry kind %q", ErrValueType, fg.Kind)
}
