package uniforms

import (
	graphics "github.com/richinsley/shaderstudio/graphics"
	texture "github.com/richinsley/shaderstudio/texture"
)

// fakeDevice records uniform writes and texture lifecycle so table behavior
// can be asserted without a GPU. Programs are declared up front with their
// uniform namespace (name → location).
type fakeDevice struct {
	programs     map[uint32]map[string]int32
	floatWrites  map[int32][]float32
	intWrites    map[int32]int32
	liveTextures map[uint32]bool
	texUploads   map[uint32]int
	texWraps     map[uint32]graphics.TextureWrap
	boundUnits   map[int]uint32
	usedProgram  uint32
	nextTex      uint32
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		programs:     make(map[uint32]map[string]int32),
		floatWrites:  make(map[int32][]float32),
		intWrites:    make(map[int32]int32),
		liveTextures: make(map[uint32]bool),
		texUploads:   make(map[uint32]int),
		texWraps:     make(map[uint32]graphics.TextureWrap),
		boundUnits:   make(map[int]uint32),
	}
}

func (d *fakeDevice) defineProgram(program uint32, uniforms map[string]int32) {
	d.programs[program] = uniforms
}

func (d *fakeDevice) wroteFloats(loc int32) ([]float32, bool) {
	v, ok := d.floatWrites[loc]
	return v, ok
}

// Compiler surface: the table never compiles, so these are inert.
func (d *fakeDevice) CreateShader(stage graphics.Stage) uint32          { return 0 }
func (d *fakeDevice) CompileShader(shader uint32, source string) bool   { return true }
func (d *fakeDevice) ShaderLog(shader uint32) string                    { return "" }
func (d *fakeDevice) CreateProgram() uint32                             { return 0 }
func (d *fakeDevice) AttachShader(program, shader uint32)               {}
func (d *fakeDevice) LinkProgram(program uint32) bool                   { return true }
func (d *fakeDevice) ProgramLog(program uint32) string                  { return "" }
func (d *fakeDevice) DeleteShader(shader uint32)                        {}
func (d *fakeDevice) DeleteProgram(program uint32)                      {}

func (d *fakeDevice) UseProgram(program uint32) { d.usedProgram = program }

func (d *fakeDevice) UniformLocation(program uint32, name string) int32 {
	if loc, ok := d.programs[program][name]; ok {
		return loc
	}
	return -1
}

func (d *fakeDevice) Uniform1f(location int32, x float32) {
	d.floatWrites[location] = []float32{x}
}

func (d *fakeDevice) Uniform1i(location int32, x int32) {
	d.intWrites[location] = x
}

func (d *fakeDevice) Uniform2fv(location int32, v []float32) {
	d.floatWrites[location] = append([]float32(nil), v...)
}

func (d *fakeDevice) Uniform3fv(location int32, v []float32) {
	d.floatWrites[location] = append([]float32(nil), v...)
}

func (d *fakeDevice) Uniform4fv(location int32, v []float32) {
	d.floatWrites[location] = append([]float32(nil), v...)
}

func (d *fakeDevice) UniformMatrix3fv(location int32, v []float32) {
	d.floatWrites[location] = append([]float32(nil), v...)
}

func (d *fakeDevice) UniformMatrix4fv(location int32, v []float32) {
	d.floatWrites[location] = append([]float32(nil), v...)
}

func (d *fakeDevice) CreateTexture(width, height int, pixels []byte) uint32 {
	d.nextTex++
	d.liveTextures[d.nextTex] = true
	d.texUploads[d.nextTex] = 1
	return d.nextTex
}

func (d *fakeDevice) UpdateTexture(id uint32, width, height int, pixels []byte) {
	d.texUploads[id]++
}

func (d *fakeDevice) SetTextureWrap(id uint32, wrap graphics.TextureWrap) {
	d.texWraps[id] = wrap
}

func (d *fakeDevice) BindTexture(unit int, id uint32) {
	d.boundUnits[unit] = id
}

func (d *fakeDevice) DeleteTexture(id uint32) {
	delete(d.liveTextures, id)
}

// fakeLoader records load requests and lets tests hand-feed results,
// including deliberately stale ones.
type fakeLoader struct {
	loads   []loadRequest
	results chan texture.Result
}

type loadRequest struct {
	id     string
	source string
	flip   bool
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{results: make(chan texture.Result, 16)}
}

func (l *fakeLoader) Load(id, source string, flip bool) {
	l.loads = append(l.loads, loadRequest{id: id, source: source, flip: flip})
}

func (l *fakeLoader) Results() <-chan texture.Result { return l.results }

func (l *fakeLoader) deliver(res texture.Result) { l.results <- res }
