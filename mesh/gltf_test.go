package mesh

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"gonum.org/v1/gonum/spatial/r3"
)

// quadAndSoupDocument builds a two-node scene: an indexed unit quad
// translated to z=10, and a child node holding one non-indexed triangle
// scaled by 2.
func quadAndSoupDocument() *gltf.Document {
	doc := gltf.NewDocument()
	quad := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}})
	quadIdx := modeler.WriteIndices(doc, []uint16{0, 1, 2, 1, 3, 2})
	soup := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {0, 0, 1}, {0, 1, 0}})

	doc.Meshes = []*gltf.Mesh{
		{Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(quadIdx),
			Attributes: map[string]int{positionAttribute: quad},
		}}},
		{Primitives: []*gltf.Primitive{{
			Attributes: map[string]int{positionAttribute: soup},
		}}},
	}
	doc.Nodes = []*gltf.Node{
		{Mesh: gltf.Index(0), Translation: [3]float64{0, 0, 10}, Children: []int{1}},
		{Mesh: gltf.Index(1), Scale: [3]float64{2, 2, 2}},
	}
	doc.Scenes[0].Nodes = []int{0}
	return doc
}

func TestDocumentTriangles(t *testing.T) {
	tris, err := DocumentTriangles(quadAndSoupDocument(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tris) != 3 {
		t.Fatalf("expected 2 indexed + 1 soup triangles, got %d", len(tris))
	}

	tests := []struct {
		tri, vert int
		want      r3.Vec
	}{
		{0, 1, r3.Vec{X: 1, Z: 10}},
		{1, 1, r3.Vec{X: 1, Y: 1, Z: 10}},
		{2, 0, r3.Vec{Z: 10}},
		{2, 1, r3.Vec{Z: 12}},
		{2, 2, r3.Vec{Y: 2, Z: 10}},
	}
	for _, tt := range tests {
		if got := tris[tt.tri][tt.vert]; got != tt.want {
			t.Errorf("triangle %d vertex %d: expected %v, got %v", tt.tri, tt.vert, tt.want, got)
		}
	}
}

func TestDocumentTrianglesRotationAndTransform(t *testing.T) {
	doc := quadAndSoupDocument()
	s := math.Sqrt2 / 2
	doc.Nodes[0].Translation = [3]float64{}
	doc.Nodes[0].Rotation = [4]float64{0, 0, s, s} // 90° about +Z

	tris, err := DocumentTriangles(doc, Scaled(3, r3.Vec{X: 1}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// (1,0,0) -> rotated (0,1,0) -> scaled and shifted (1,3,0).
	want := r3.Vec{X: 1, Y: 3}
	if got := tris[0][1]; r3.Norm(r3.Sub(got, want)) > 1e-6 {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestDocumentTrianglesMatrixNode(t *testing.T) {
	doc := quadAndSoupDocument()
	doc.Nodes[0].Translation = [3]float64{}
	// Column-major translation by (5, 0, 0).
	doc.Nodes[0].Matrix = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 5, 0, 0, 1}

	tris, err := DocumentTriangles(doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tris[0][1]; got != (r3.Vec{X: 6}) {
		t.Errorf("expected (6,0,0), got %v", got)
	}
}

func TestDocumentTrianglesEmpty(t *testing.T) {
	doc := gltf.NewDocument()
	if _, err := DocumentTriangles(doc, nil); !errors.Is(err, ErrNoTriangles) {
		t.Errorf("expected ErrNoTriangles, got %v", err)
	}

	bad := quadAndSoupDocument()
	bad.Nodes[1].Mesh = gltf.Index(7)
	if _, err := DocumentTriangles(bad, nil); err == nil {
		t.Error("expected error for out-of-range mesh")
	}
}

func TestGLTFFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.glb")
	if err := gltf.SaveBinary(quadAndSoupDocument(), path); err != nil {
		t.Fatalf("saving glb: %v", err)
	}

	tris, err := GLTFFile{Path: path}.Triangles(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tris) != 3 {
		t.Errorf("expected 3 triangles, got %d", len(tris))
	}
}

func TestGLTFFileMissing(t *testing.T) {
	_, err := GLTFFile{Path: "does-not-exist.glb"}.Triangles(context.Background())
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
