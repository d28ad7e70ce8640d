package uniforms

import (
	graphics "github.com/richinsley/shaderstudio/graphics"
)

// Type is the closed set of GLSL types a user declaration can carry.
type Type int

const (
	Float Type = iota
	Vec2
	Vec3
	Vec4
	Mat3
	Mat4
	Sampler2D
)

// Components reports the float count a value of this type occupies
// (0 for samplers).
func (t Type) Components() int {
	switch t {
	case Float:
		return 1
	case Vec2:
		return 2
	case Vec3:
		return 3
	case Vec4:
		return 4
	case Mat3:
		return 9
	case Mat4:
		return 16
	default:
		return 0
	}
}

func (t Type) String() string {
	switch t {
	case Float:
		return "float"
	case Vec2:
		return "vec2"
	case Vec3:
		return "vec3"
	case Vec4:
		return "vec4"
	case Mat3:
		return "mat3"
	case Mat4:
		return "mat4"
	default:
		return "sampler2D"
	}
}

// Binding names an automatic per-frame data source. While set, it overrides
// the declaration's manual value; clearing it hands control back to the
// value on the next reconciliation.
type Binding int

const (
	BindNone Binding = iota
	BindTime
	BindPointer
)

// Declaration is one user-configured uniform. The configuration surface
// owns the list; the table only reads snapshots of it. ID is an opaque
// token that stays stable across edits, which is how in-flight texture
// decodes find their way back to the right slot (and how a removed-then-
// re-added uniform of the same name is told apart from the original).
type Declaration struct {
	ID      string
	Name    string
	Type    Type
	Value   []float32 // numeric types; arity is deliberately not validated
	Texture string    // Sampler2D source: file path, URL or data URI
	Flip    bool      // Sampler2D: flip the image vertically after decode
	Binding Binding
	Wrap    graphics.TextureWrap // Sampler2D only
}
