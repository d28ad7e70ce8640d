package graphics

// Stage identifies one independently compiled unit of a shader program.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
)

func (s Stage) String() string {
	if s == StageVertex {
		return "vertex"
	}
	return "fragment"
}

// Compiler is the narrow contract the validation pipeline requires from the
// GPU shader compiler. Any conformant GL driver satisfies it; tests satisfy
// it with an in-memory fake.
type Compiler interface {
	CreateShader(stage Stage) uint32

	// CompileShader submits source for compilation and reports success.
	CompileShader(shader uint32, source string) bool

	// ShaderLog returns the raw info log for a shader, valid after a failed
	// compile. GL pads logs with trailing NULs; callers are expected to trim.
	ShaderLog(shader uint32) string

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32) bool
	ProgramLog(program uint32) string

	DeleteShader(shader uint32)
	DeleteProgram(program uint32)
}
