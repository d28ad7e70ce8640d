package graphics

// TextureWrap selects how a sampler addresses coordinates outside [0,1].
type TextureWrap int

const (
	WrapRepeat TextureWrap = iota
	WrapClamp
	WrapMirror
)

// Device extends the compiler oracle with the program, uniform and texture
// operations the render core performs every frame. All methods must be
// called from the thread that owns the GL context.
type Device interface {
	Compiler

	UseProgram(program uint32)

	// UniformLocation returns -1 for names the program does not declare;
	// writes against -1 locations are silently dropped by callers.
	UniformLocation(program uint32, name string) int32

	Uniform1f(location int32, x float32)
	Uniform1i(location int32, x int32)
	Uniform2fv(location int32, v []float32)
	Uniform3fv(location int32, v []float32)
	Uniform4fv(location int32, v []float32)
	UniformMatrix3fv(location int32, v []float32)
	UniformMatrix4fv(location int32, v []float32)

	// CreateTexture allocates a 2D RGBA8 texture and uploads pixels
	// (tightly packed RGBA, len == width*height*4).
	CreateTexture(width, height int, pixels []byte) uint32

	// UpdateTexture replaces the texture's pixel data in place, keeping the
	// texture object (and its wrap state) alive.
	UpdateTexture(id uint32, width, height int, pixels []byte)

	SetTextureWrap(id uint32, wrap TextureWrap)

	// BindTexture binds id to the given texture unit.
	BindTexture(unit int, id uint32)

	DeleteTexture(id uint32)
}
