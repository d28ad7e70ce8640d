package gldevice

import (
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	graphics "github.com/richinsley/shaderstudio/graphics"
)

// Device implements graphics.Device on a current OpenGL 4.1 core context.
// Every method must be called from the thread that owns the context.
type Device struct{}

// New loads the GL function pointers for the current context.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, err
	}
	return &Device{}, nil
}

func (*Device) CreateShader(stage graphics.Stage) uint32 {
	if stage == graphics.StageVertex {
		return gl.CreateShader(gl.VERTEX_SHADER)
	}
	return gl.CreateShader(gl.FRAGMENT_SHADER)
}

func (*Device) CompileShader(shader uint32, source string) bool {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	return status != gl.FALSE
}

func (*Device) ShaderLog(shader uint32) string {
	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
	return logText
}

func (*Device) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (*Device) AttachShader(program, shader uint32) {
	gl.AttachShader(program, shader)
}

func (*Device) LinkProgram(program uint32) bool {
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	return status != gl.FALSE
}

func (*Device) ProgramLog(program uint32) string {
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logText))
	return logText
}

func (*Device) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (*Device) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (*Device) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (*Device) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (*Device) Uniform1f(location int32, x float32) {
	gl.Uniform1f(location, x)
}

func (*Device) Uniform1i(location int32, x int32) {
	gl.Uniform1i(location, x)
}

func (*Device) Uniform2fv(location int32, v []float32) {
	gl.Uniform2fv(location, 1, &v[0])
}

func (*Device) Uniform3fv(location int32, v []float32) {
	gl.Uniform3fv(location, 1, &v[0])
}

func (*Device) Uniform4fv(location int32, v []float32) {
	gl.Uniform4fv(location, 1, &v[0])
}

func (*Device) UniformMatrix3fv(location int32, v []float32) {
	gl.UniformMatrix3fv(location, 1, false, &v[0])
}

func (*Device) UniformMatrix4fv(location int32, v []float32) {
	gl.UniformMatrix4fv(location, 1, false, &v[0])
}

func (*Device) CreateTexture(width, height int, pixels []byte) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(width), int32(height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return id
}

func (*Device) UpdateTexture(id uint32, width, height int, pixels []byte) {
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(width), int32(height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (*Device) SetTextureWrap(id uint32, wrap graphics.TextureWrap) {
	mode := int32(gl.REPEAT)
	switch wrap {
	case graphics.WrapClamp:
		mode = gl.CLAMP_TO_EDGE
	case graphics.WrapMirror:
		mode = gl.MIRRORED_REPEAT
	}
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, mode)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, mode)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (*Device) BindTexture(unit int, id uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, id)
}

func (*Device) DeleteTexture(id uint32) {
	gl.DeleteTextures(1, &id)
}
