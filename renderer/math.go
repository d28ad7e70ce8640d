package renderer

import (
	"github.com/chewxy/math32"
)

// mat4 is a column-major 4x4 matrix, the layout GL expects.
type mat4 [16]float32

func identity() mat4 {
	return mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func multiply(a, b mat4) mat4 {
	var out mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// perspective builds a right-handed projection. fovy is the vertical field
// of view in degrees.
func perspective(fovy, aspect, near, far float32) mat4 {
	f := 1 / math32.Tan(fovy*math32.Pi/360)
	var out mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = (far + near) / (near - far)
	out[11] = -1
	out[14] = 2 * far * near / (near - far)
	return out
}

func lookAt(eye, center, up [3]float32) mat4 {
	forward := normalize3(sub3(center, eye))
	side := normalize3(cross3(forward, up))
	upward := cross3(side, forward)

	return mat4{
		side[0], upward[0], -forward[0], 0,
		side[1], upward[1], -forward[1], 0,
		side[2], upward[2], -forward[2], 0,
		-dot3(side, eye), -dot3(upward, eye), dot3(forward, eye), 1,
	}
}

// normalMat extracts the upper-left 3x3 of a model-view matrix. Valid as a
// normal matrix as long as the transform has no non-uniform scale, which
// holds for the orbit camera over unit geometry.
func normalMat(mv mat4) [9]float32 {
	return [9]float32{
		mv[0], mv[1], mv[2],
		mv[4], mv[5], mv[6],
		mv[8], mv[9], mv[10],
	}
}

func sub3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func cross3(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot3(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func normalize3(v [3]float32) [3]float32 {
	length := math32.Sqrt(dot3(v, v))
	if length == 0 {
		return v
	}
	return [3]float32{v[0] / length, v[1] / length, v[2] / length}
}
