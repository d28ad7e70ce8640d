package renderer

import (
	"github.com/chewxy/math32"
)

// pitch stops just short of the poles so the view direction never becomes
// parallel with the up vector.
const maxPitch = math32.Pi/2 - 0.01

// orbitCamera circles the origin. Dragging with the primary button rotates;
// distance and field of view come from the scene config.
type orbitCamera struct {
	yaw      float32
	pitch    float32
	distance float32
	fov      float32

	lastPointer [2]float32
	dragging    bool
}

func newOrbitCamera(distance, fov float32) orbitCamera {
	return orbitCamera{
		yaw:      0.5,
		pitch:    0.3,
		distance: distance,
		fov:      fov,
	}
}

// update advances the orbit from the pointer state sampled this frame.
// pointer is normalized to [0,1] across the window, so the sensitivity is
// radians per window width.
func (c *orbitCamera) update(pointer [2]float32, down bool) {
	const sensitivity = 4.0

	if down && c.dragging {
		c.yaw += (pointer[0] - c.lastPointer[0]) * sensitivity
		c.pitch += (pointer[1] - c.lastPointer[1]) * sensitivity
		if c.pitch > maxPitch {
			c.pitch = maxPitch
		}
		if c.pitch < -maxPitch {
			c.pitch = -maxPitch
		}
	}
	c.dragging = down
	c.lastPointer = pointer
}

func (c *orbitCamera) position() [3]float32 {
	sinYaw, cosYaw := math32.Sincos(c.yaw)
	sinPitch, cosPitch := math32.Sincos(c.pitch)
	return [3]float32{
		c.distance * cosPitch * sinYaw,
		c.distance * sinPitch,
		c.distance * cosPitch * cosYaw,
	}
}

func (c *orbitCamera) viewMatrix() mat4 {
	return lookAt(c.position(), [3]float32{0, 0, 0}, [3]float32{0, 1, 0})
}
