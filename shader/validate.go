package shader

import (
	"fmt"
	"strings"

	graphics "github.com/richinsley/shaderstudio/graphics"
)

// ErrStage identifies which validation step produced a diagnostic.
type ErrStage int

const (
	ErrVertex ErrStage = iota
	ErrFragment
	ErrLink
)

func (s ErrStage) String() string {
	switch s {
	case ErrVertex:
		return "vertex"
	case ErrFragment:
		return "fragment"
	default:
		return "link"
	}
}

// Error is one failed validation attempt. Message carries corrected line
// numbers for compile failures; link diagnostics have no usable line numbers
// and are surfaced verbatim.
type Error struct {
	Stage   ErrStage
	Message string
}

func (e *Error) Error() string {
	if e.Stage == ErrLink {
		return "link error (check that varyings match between stages): " + e.Message
	}
	return fmt.Sprintf("%s shader error:\n%s", e.Stage, e.Message)
}

// Validate compiles both user stages against the compiler oracle and links
// them off to the side. It never touches the program used for rendering and
// releases every transient object it allocates on every exit path, so it is
// safe to call on each commit without leaking driver resources.
//
// Ordering is strict: vertex, then fragment, then link, short-circuiting on
// the first failure. A fragment compile is never attempted after a vertex
// failure since link diagnostics would be meaningless anyway.
func Validate(c graphics.Compiler, vertexUser, fragmentUser string) error {
	vs := c.CreateShader(graphics.StageVertex)
	defer c.DeleteShader(vs)
	if !c.CompileShader(vs, Assemble(graphics.StageVertex, vertexUser)) {
		return &Error{
			Stage:   ErrVertex,
			Message: NormalizeLog(c.ShaderLog(vs), PreambleLines(graphics.StageVertex)),
		}
	}

	fs := c.CreateShader(graphics.StageFragment)
	defer c.DeleteShader(fs)
	if !c.CompileShader(fs, Assemble(graphics.StageFragment, fragmentUser)) {
		return &Error{
			Stage:   ErrFragment,
			Message: NormalizeLog(c.ShaderLog(fs), PreambleLines(graphics.StageFragment)),
		}
	}

	program := c.CreateProgram()
	defer c.DeleteProgram(program)
	c.AttachShader(program, vs)
	c.AttachShader(program, fs)
	if !c.LinkProgram(program) {
		return &Error{
			Stage:   ErrLink,
			Message: strings.TrimRight(c.ProgramLog(program), "\x00 \t\n"),
		}
	}

	return nil
}
