package geometry

import (
	"github.com/chewxy/math32"
)

// Mesh is indexed triangle geometry with interleaved vertex data:
// position (3 floats), normal (3 floats), uv (2 floats).
type Mesh struct {
	Vertices []float32
	Indices  []uint32
}

// Stride is the float count per interleaved vertex.
const Stride = 8

// VertexCount returns the number of vertices in the mesh.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / Stride
}

// Generate returns the mesh for a scene config kind name. Unknown kinds
// fall back to a sphere.
func Generate(kind string) *Mesh {
	switch kind {
	case "box":
		return Box(1)
	case "plane":
		return Plane(2)
	case "torus":
		return Torus(0.7, 0.3, 32, 64)
	default:
		return Sphere(1, 64, 32)
	}
}

func appendVertex(m *Mesh, px, py, pz, nx, ny, nz, u, v float32) {
	m.Vertices = append(m.Vertices, px, py, pz, nx, ny, nz, u, v)
}

// Plane is a unit-normal quad in the XY plane facing +Z, centered on the
// origin.
func Plane(size float32) *Mesh {
	h := size / 2
	m := &Mesh{}
	appendVertex(m, -h, -h, 0, 0, 0, 1, 0, 0)
	appendVertex(m, h, -h, 0, 0, 0, 1, 1, 0)
	appendVertex(m, h, h, 0, 0, 0, 1, 1, 1)
	appendVertex(m, -h, h, 0, 0, 0, 1, 0, 1)
	m.Indices = []uint32{0, 1, 2, 0, 2, 3}
	return m
}

// Box is an axis-aligned cube with per-face normals, centered on the
// origin.
func Box(size float32) *Mesh {
	h := size / 2
	m := &Mesh{}

	// +X, -X, +Y, -Y, +Z, -Z
	faces := [6]struct {
		normal  [3]float32
		corners [4][3]float32
	}{
		{[3]float32{1, 0, 0}, [4][3]float32{{h, -h, -h}, {h, h, -h}, {h, h, h}, {h, -h, h}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-h, -h, h}, {-h, h, h}, {-h, h, -h}, {-h, -h, -h}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-h, h, -h}, {-h, h, h}, {h, h, h}, {h, h, -h}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-h, -h, h}, {-h, -h, -h}, {h, -h, -h}, {h, -h, h}}},
		{[3]float32{0, 0, 1}, [4][3]float32{{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{h, -h, -h}, {-h, -h, -h}, {-h, h, -h}, {h, h, -h}}},
	}
	uvs := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	for _, face := range faces {
		base := uint32(m.VertexCount())
		for i, c := range face.corners {
			appendVertex(m, c[0], c[1], c[2],
				face.normal[0], face.normal[1], face.normal[2],
				uvs[i][0], uvs[i][1])
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

// Sphere is a latitude/longitude sphere centered on the origin. segments is
// the slice count around the Y axis, rings the stack count pole to pole.
func Sphere(radius float32, segments, rings int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}
	m := &Mesh{}

	for r := 0; r <= rings; r++ {
		theta := math32.Pi * float32(r) / float32(rings)
		sinTheta, cosTheta := math32.Sincos(theta)
		for s := 0; s <= segments; s++ {
			phi := 2 * math32.Pi * float32(s) / float32(segments)
			sinPhi, cosPhi := math32.Sincos(phi)

			nx := sinTheta * cosPhi
			ny := cosTheta
			nz := sinTheta * sinPhi
			appendVertex(m,
				radius*nx, radius*ny, radius*nz,
				nx, ny, nz,
				float32(s)/float32(segments), 1-float32(r)/float32(rings))
		}
	}

	cols := uint32(segments + 1)
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			a := uint32(r)*cols + uint32(s)
			b := a + cols
			m.Indices = append(m.Indices, a, b, a+1, a+1, b, b+1)
		}
	}
	return m
}

// Torus is a ring of the given major radius and tube radius lying in the XZ
// plane, centered on the origin.
func Torus(radius, tube float32, radialSegments, tubularSegments int) *Mesh {
	if radialSegments < 3 {
		radialSegments = 3
	}
	if tubularSegments < 3 {
		tubularSegments = 3
	}
	m := &Mesh{}

	for j := 0; j <= radialSegments; j++ {
		v := 2 * math32.Pi * float32(j) / float32(radialSegments)
		sinV, cosV := math32.Sincos(v)
		for i := 0; i <= tubularSegments; i++ {
			u := 2 * math32.Pi * float32(i) / float32(tubularSegments)
			sinU, cosU := math32.Sincos(u)

			cx := radius * cosU
			cz := radius * sinU
			px := (radius + tube*cosV) * cosU
			py := tube * sinV
			pz := (radius + tube*cosV) * sinU

			nx := px - cx
			nz := pz - cz
			invLen := 1 / math32.Sqrt(nx*nx+py*py+nz*nz)
			appendVertex(m,
				px, py, pz,
				nx*invLen, py*invLen, nz*invLen,
				float32(i)/float32(tubularSegments), float32(j)/float32(radialSegments))
		}
	}

	cols := uint32(tubularSegments + 1)
	for j := 0; j < radialSegments; j++ {
		for i := 0; i < tubularSegments; i++ {
			a := uint32(j)*cols + uint32(i)
			b := a + cols
			m.Indices = append(m.Indices, a, b, a+1, a+1, b, b+1)
		}
	}
	return m
}
