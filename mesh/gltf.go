package mesh

import (
	"context"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

const positionAttribute = "POSITION"

var identityMatrix = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// GLTFFile loads the triangle primitives of a .gltf or .glb file in world
// space. Transform, if set, is applied after the node transforms.
type GLTFFile struct {
	Path      string
	Transform Transform
}

// Triangles opens and decodes the file.
func (g GLTFFile) Triangles(ctx context.Context) ([]r3.Triangle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := gltf.Open(g.Path)
	if err != nil {
		return nil, fmt.Errorf("opening mesh: %w", err)
	}
	tris, err := DocumentTriangles(doc, g.Transform)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", g.Path, err)
	}
	return tris, nil
}

// DocumentTriangles walks the scene graph of doc and collects every
// triangle primitive with its node's world matrix applied. Indexed
// primitives go through FromIndexed, non-indexed ones through FromSoup.
func DocumentTriangles(doc *gltf.Document, xf Transform) ([]r3.Triangle, error) {
	var tris []r3.Triangle

	var walk func(idx, depth int, parent *mat.Dense) error
	walk = func(idx, depth int, parent *mat.Dense) error {
		if idx < 0 || idx >= len(doc.Nodes) {
			return fmt.Errorf("node %d out of range (%d nodes)", idx, len(doc.Nodes))
		}
		if depth > len(doc.Nodes) {
			return fmt.Errorf("node %d: cycle in scene graph", idx)
		}
		node := doc.Nodes[idx]

		var world mat.Dense
		world.Mul(parent, localMatrix(node))

		if node.Mesh != nil {
			got, err := meshTriangles(doc, *node.Mesh, worldTransform(&world, xf))
			if err != nil {
				return fmt.Errorf("node %d: %w", idx, err)
			}
			tris = append(tris, got...)
		}
		for _, child := range node.Children {
			if err := walk(child, depth+1, &world); err != nil {
				return err
			}
		}
		return nil
	}

	for _, idx := range sceneRoots(doc) {
		if err := walk(idx, 0, mat.NewDense(4, 4, identityMatrix[:])); err != nil {
			return nil, err
		}
	}
	if len(tris) == 0 {
		return nil, ErrNoTriangles
	}
	return tris, nil
}

// sceneRoots returns the root nodes of the default scene, falling back to
// the first scene and then to every node that is nobody's child.
func sceneRoots(doc *gltf.Document) []int {
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	if len(doc.Scenes) > 0 {
		return doc.Scenes[0].Nodes
	}
	child := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(child) {
				child[c] = true
			}
		}
	}
	var roots []int
	for i, isChild := range child {
		if !isChild {
			roots = append(roots, i)
		}
	}
	return roots
}

// localMatrix returns the node's local transform. An explicit matrix wins
// over translation/rotation/scale; unset components take glTF defaults.
func localMatrix(n *gltf.Node) *mat.Dense {
	m := mat.NewDense(4, 4, nil)
	if n.Matrix != ([16]float64{}) && n.Matrix != identityMatrix {
		// glTF matrices are column-major.
		for c := 0; c < 4; c++ {
			for r := 0; r < 4; r++ {
				m.Set(r, c, n.Matrix[c*4+r])
			}
		}
		return m
	}

	s := n.Scale
	if s == ([3]float64{}) {
		s = [3]float64{1, 1, 1}
	}
	x, y, z, w := n.Rotation[0], n.Rotation[1], n.Rotation[2], n.Rotation[3]
	if x == 0 && y == 0 && z == 0 && w == 0 {
		w = 1
	}
	rot := [3][3]float64{
		{1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w)},
		{2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w)},
		{2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y)},
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m.Set(r, c, rot[r][c]*s[c])
		}
		m.Set(r, 3, n.Translation[r])
	}
	m.Set(3, 3, 1)
	return m
}

// worldTransform applies the affine part of m, then xf.
func worldTransform(m *mat.Dense, xf Transform) Transform {
	var a [3][4]float64
	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			a[r][c] = m.At(r, c)
		}
	}
	return func(v r3.Vec) r3.Vec {
		out := r3.Vec{
			X: a[0][0]*v.X + a[0][1]*v.Y + a[0][2]*v.Z + a[0][3],
			Y: a[1][0]*v.X + a[1][1]*v.Y + a[1][2]*v.Z + a[1][3],
			Z: a[2][0]*v.X + a[2][1]*v.Y + a[2][2]*v.Z + a[2][3],
		}
		return apply(xf, out)
	}
}

// meshTriangles collects the triangle-mode primitives of one mesh.
// Primitives without positions are skipped.
func meshTriangles(doc *gltf.Document, meshIdx int, xf Transform) ([]r3.Triangle, error) {
	if meshIdx < 0 || meshIdx >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh %d out of range (%d meshes)", meshIdx, len(doc.Meshes))
	}

	var tris []r3.Triangle
	for pi, prim := range doc.Meshes[meshIdx].Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		posIdx, ok := prim.Attributes[positionAttribute]
		if !ok {
			continue
		}
		if posIdx < 0 || posIdx >= len(doc.Accessors) {
			return nil, fmt.Errorf("primitive %d: position accessor %d out of range", pi, posIdx)
		}
		raw, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return nil, fmt.Errorf("primitive %d positions: %w", pi, err)
		}
		positions := make([]r3.Vec, len(raw))
		for i, p := range raw {
			positions[i] = r3.Vec{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
		}

		if prim.Indices == nil {
			tris = append(tris, FromSoup(positions, xf)...)
			continue
		}
		if *prim.Indices < 0 || *prim.Indices >= len(doc.Accessors) {
			return nil, fmt.Errorf("primitive %d: index accessor %d out of range", pi, *prim.Indices)
		}
		indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("primitive %d indices: %w", pi, err)
		}
		got, err := FromIndexed(positions, indices, xf)
		if err != nil {
			return nil, fmt.Errorf("primitive %d: %w", pi, err)
		}
		tris = append(tris, got...)
	}
	return tris, nil
}
