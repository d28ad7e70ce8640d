package renderer

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func transform(m mat4, v [3]float32) [3]float32 {
	var out [4]float32
	in := [4]float32{v[0], v[1], v[2], 1}
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out[row] += m[col*4+row] * in[col]
		}
	}
	return [3]float32{out[0] / out[3], out[1] / out[3], out[2] / out[3]}
}

func TestIdentityLeavesPointsAlone(t *testing.T) {
	p := [3]float32{1.5, -2, 0.25}
	assert.Equal(t, p, transform(identity(), p))
}

func TestMultiplyWithIdentity(t *testing.T) {
	view := lookAt([3]float32{3, 2, 5}, [3]float32{0, 0, 0}, [3]float32{0, 1, 0})
	assert.Equal(t, view, multiply(identity(), view))
	assert.Equal(t, view, multiply(view, identity()))
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := [3]float32{0, 0, 5}
	view := lookAt(eye, [3]float32{0, 0, 0}, [3]float32{0, 1, 0})

	atOrigin := transform(view, eye)
	for _, v := range atOrigin {
		assert.InDelta(t, 0, v, 1e-5)
	}

	// the look target lands on the negative Z axis in eye space
	target := transform(view, [3]float32{0, 0, 0})
	assert.InDelta(t, 0, target[0], 1e-5)
	assert.InDelta(t, 0, target[1], 1e-5)
	assert.InDelta(t, -5, target[2], 1e-5)
}

func TestPerspectiveCenterRay(t *testing.T) {
	proj := perspective(45, 1, 0.1, 100)

	// a point on the view axis stays centered
	p := transform(proj, [3]float32{0, 0, -1})
	assert.InDelta(t, 0, p[0], 1e-5)
	assert.InDelta(t, 0, p[1], 1e-5)

	// near and far planes map to the NDC depth extremes
	near := transform(proj, [3]float32{0, 0, -0.1})
	far := transform(proj, [3]float32{0, 0, -100})
	assert.InDelta(t, -1, near[2], 1e-4)
	assert.InDelta(t, 1, far[2], 1e-4)
}

func TestNormalMatFromRotation(t *testing.T) {
	view := lookAt([3]float32{1, 2, 3}, [3]float32{0, 0, 0}, [3]float32{0, 1, 0})
	n := normalMat(view)

	// rows of a rotation's 3x3 stay unit length
	for row := 0; row < 3; row++ {
		var sum float32
		for col := 0; col < 3; col++ {
			v := n[col*3+row]
			sum += v * v
		}
		assert.InDelta(t, 1, math32.Sqrt(sum), 1e-4)
	}
}

func TestOrbitCameraDistance(t *testing.T) {
	cam := newOrbitCamera(3, 45)
	pos := cam.position()
	assert.InDelta(t, 3, math32.Sqrt(dot3(pos, pos)), 1e-5)
}

func TestOrbitCameraDrag(t *testing.T) {
	cam := newOrbitCamera(3, 45)
	startYaw, startPitch := cam.yaw, cam.pitch

	// first frame of a drag only arms it
	cam.update([2]float32{0.5, 0.5}, true)
	assert.Equal(t, startYaw, cam.yaw)

	cam.update([2]float32{0.6, 0.5}, true)
	assert.Greater(t, cam.yaw, startYaw)
	assert.Equal(t, startPitch, cam.pitch)

	// releasing and moving does not rotate
	yaw := cam.yaw
	cam.update([2]float32{0.1, 0.1}, false)
	cam.update([2]float32{0.9, 0.9}, false)
	assert.Equal(t, yaw, cam.yaw)
}

func TestOrbitCameraPitchClamped(t *testing.T) {
	cam := newOrbitCamera(3, 45)
	cam.update([2]float32{0.5, 0}, true)
	for i := 0; i < 50; i++ {
		cam.update([2]float32{0.5, float32(i) * 0.1}, true)
	}
	assert.LessOrEqual(t, cam.pitch, float32(maxPitch))
}
