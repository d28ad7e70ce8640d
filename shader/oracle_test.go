package shader

import (
	graphics "github.com/richinsley/shaderstudio/graphics"
)

// fakeCompiler is an in-memory stand-in for the GL driver. Failure modes are
// scripted per stage and every allocation is tracked so tests can assert
// that validation never leaks a transient object.
type fakeCompiler struct {
	failVertex   bool
	failFragment bool
	failLink     bool
	vertexLog    string
	fragmentLog  string
	linkLog      string

	stages       map[uint32]graphics.Stage
	compiled     map[uint32]string
	liveShaders  map[uint32]bool
	livePrograms map[uint32]bool
	compileCalls int
	linkCalls    int
	next         uint32
}

func newFakeCompiler() *fakeCompiler {
	return &fakeCompiler{
		stages:       make(map[uint32]graphics.Stage),
		compiled:     make(map[uint32]string),
		liveShaders:  make(map[uint32]bool),
		livePrograms: make(map[uint32]bool),
	}
}

func (f *fakeCompiler) CreateShader(stage graphics.Stage) uint32 {
	f.next++
	f.stages[f.next] = stage
	f.liveShaders[f.next] = true
	return f.next
}

func (f *fakeCompiler) CompileShader(shader uint32, source string) bool {
	f.compileCalls++
	f.compiled[shader] = source
	if f.stages[shader] == graphics.StageVertex {
		return !f.failVertex
	}
	return !f.failFragment
}

func (f *fakeCompiler) ShaderLog(shader uint32) string {
	if f.stages[shader] == graphics.StageVertex {
		return f.vertexLog
	}
	return f.fragmentLog
}

func (f *fakeCompiler) CreateProgram() uint32 {
	f.next++
	f.livePrograms[f.next] = true
	return f.next
}

func (f *fakeCompiler) AttachShader(program, shader uint32) {}

func (f *fakeCompiler) LinkProgram(program uint32) bool {
	f.linkCalls++
	return !f.failLink
}

func (f *fakeCompiler) ProgramLog(program uint32) string {
	return f.linkLog
}

func (f *fakeCompiler) DeleteShader(shader uint32) {
	delete(f.liveShaders, shader)
}

func (f *fakeCompiler) DeleteProgram(program uint32) {
	delete(f.livePrograms, program)
}

func (f *fakeCompiler) liveObjects() int {
	return len(f.liveShaders) + len(f.livePrograms)
}

// compiledStages returns how many shaders of each stage were submitted.
func (f *fakeCompiler) compiledStages() (vertex, fragment int) {
	for shader := range f.compiled {
		if f.stages[shader] == graphics.StageVertex {
			vertex++
		} else {
			fragment++
		}
	}
	return
}
