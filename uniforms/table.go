package uniforms

import (
	"fmt"
	"log"
	"sort"

	graphics "github.com/richinsley/shaderstudio/graphics"
	texture "github.com/richinsley/shaderstudio/texture"
)

// TextureLoader is the slice of texture.Loader the table needs. Tests swap
// in a recording fake; the renderer passes the real thing.
type TextureLoader interface {
	Load(id, source string, flip bool)
	Results() <-chan texture.Result
}

// entry is the client-side storage slot for one declaration. loc is -1 when
// the active program does not declare the name; writes then stop here, which
// tolerates users configuring variables the current draft hasn't wired up.
type entry struct {
	id    string
	name  string
	typ   Type
	loc   int32
	value []float32
	bind  Binding
	tex   *texSlot
}

// texSlot tracks the GL texture object backing a Sampler2D entry. The
// object starts life as a 1x1 placeholder and is overwritten in place when
// the asynchronous decode lands, so rendering never stalls on image IO.
type texSlot struct {
	glID   uint32
	source string
	flip   bool
	wrap   graphics.TextureWrap
	ready  bool
}

var placeholderPixel = []byte{0, 0, 0, 255}

// Table reconciles the user's declaration list against the active program's
// uniform interface. It owns the name→storage mapping exclusively; all
// methods must be called from the render thread.
type Table struct {
	dev     graphics.Device
	loader  TextureLoader
	program uint32
	entries map[string]*entry

	timeLoc       int32
	mouseLoc      int32
	resolutionLoc int32
	cameraLoc     int32

	lightPosLoc       [MaxLights]int32
	lightColorLoc     [MaxLights]int32
	lightIntensityLoc [MaxLights]int32
}

func NewTable(dev graphics.Device, loader TextureLoader) *Table {
	t := &Table{dev: dev, loader: loader, entries: make(map[string]*entry)}
	t.clearEngineSlots()
	return t
}

func (t *Table) clearEngineSlots() {
	t.timeLoc = -1
	t.mouseLoc = -1
	t.resolutionLoc = -1
	t.cameraLoc = -1
	for i := range t.lightPosLoc {
		t.lightPosLoc[i] = -1
		t.lightColorLoc[i] = -1
		t.lightIntensityLoc[i] = -1
	}
}

// Rebuild discards the previous program's uniform namespace and reconciles
// the declarations against the new one. A new program has a disjoint
// namespace, so every location is re-resolved; texture objects survive the
// rebuild keyed by declaration id so a shader edit does not re-trigger
// image decodes.
func (t *Table) Rebuild(program uint32, decls []Declaration) {
	carried := make(map[string]*texSlot)
	for _, e := range t.entries {
		if e.tex != nil {
			carried[e.id] = e.tex
		}
	}
	t.entries = make(map[string]*entry)
	t.program = program

	t.dev.UseProgram(program)
	t.timeLoc = t.locate("u_time")
	t.mouseLoc = t.locate("u_mouse")
	t.resolutionLoc = t.locate("u_resolution")
	t.cameraLoc = t.locate("u_cameraPosition")
	for i := 0; i < MaxLights; i++ {
		t.lightPosLoc[i] = t.locate(fmt.Sprintf("u_lightPos[%d]", i))
		t.lightColorLoc[i] = t.locate(fmt.Sprintf("u_lightColor[%d]", i))
		t.lightIntensityLoc[i] = t.locate(fmt.Sprintf("u_lightIntensity[%d]", i))
	}

	t.reconcile(decls, carried)

	// textures whose declarations are gone
	for _, slot := range carried {
		t.dev.DeleteTexture(slot.glID)
	}
}

// Reconcile applies an edited declaration list against the current program.
func (t *Table) Reconcile(decls []Declaration) {
	t.dev.UseProgram(t.program)
	t.reconcile(decls, nil)
}

func (t *Table) reconcile(decls []Declaration, carried map[string]*texSlot) {
	seen := make(map[string]bool, len(decls))
	for _, d := range decls {
		if d.Name == "" {
			continue
		}
		seen[d.Name] = true

		e, ok := t.entries[d.Name]
		if ok && e.id != d.ID {
			// same name, different declaration: a removed-then-re-added
			// uniform, not an edit of the original
			t.drop(e)
			ok = false
		}
		if !ok {
			e = &entry{id: d.ID, name: d.Name, loc: t.locate(d.Name)}
			t.entries[d.Name] = e
		}
		e.typ = d.Type
		e.bind = d.Binding

		if d.Type == Sampler2D {
			t.reconcileTexture(e, d, carried)
			continue
		}
		if e.tex != nil { // type changed away from sampler
			t.dev.DeleteTexture(e.tex.glID)
			e.tex = nil
		}
		e.value = append(e.value[:0], d.Value...)
		if e.loc != -1 && e.bind == BindNone {
			t.write(e)
		}
	}

	for name, e := range t.entries {
		if !seen[name] {
			t.drop(e)
			delete(t.entries, name)
		}
	}
}

func (t *Table) reconcileTexture(e *entry, d Declaration, carried map[string]*texSlot) {
	if e.tex == nil && carried != nil {
		if slot, ok := carried[d.ID]; ok {
			e.tex = slot
			delete(carried, d.ID)
		}
	}

	if e.tex == nil || e.tex.source != d.Texture || e.tex.flip != d.Flip {
		if e.tex != nil {
			t.dev.DeleteTexture(e.tex.glID)
		}
		e.tex = &texSlot{
			glID:   t.dev.CreateTexture(1, 1, placeholderPixel),
			source: d.Texture,
			flip:   d.Flip,
			wrap:   d.Wrap,
		}
		t.dev.SetTextureWrap(e.tex.glID, d.Wrap)
		t.loader.Load(d.ID, d.Texture, d.Flip)
		return
	}

	// wrap-mode edits retarget the existing object; no re-decode
	if e.tex.wrap != d.Wrap {
		t.dev.SetTextureWrap(e.tex.glID, d.Wrap)
		e.tex.wrap = d.Wrap
	}
}

func (t *Table) drop(e *entry) {
	if e.tex != nil {
		t.dev.DeleteTexture(e.tex.glID)
		e.tex = nil
	}
}

func (t *Table) locate(name string) int32 {
	if t.program == 0 {
		return -1
	}
	return t.dev.UniformLocation(t.program, name)
}

// write pushes an entry's numeric value to the GPU. Values shorter than the
// declared type are left alone rather than treated as an error; a wrong
// arity is user error that at worst shows up as a render artifact.
func (t *Table) write(e *entry) {
	switch e.typ {
	case Float:
		if len(e.value) >= 1 {
			t.dev.Uniform1f(e.loc, e.value[0])
		}
	case Vec2:
		if len(e.value) >= 2 {
			t.dev.Uniform2fv(e.loc, e.value[:2])
		}
	case Vec3:
		if len(e.value) >= 3 {
			t.dev.Uniform3fv(e.loc, e.value[:3])
		}
	case Vec4:
		if len(e.value) >= 4 {
			t.dev.Uniform4fv(e.loc, e.value[:4])
		}
	case Mat3:
		if len(e.value) >= 9 {
			t.dev.UniformMatrix3fv(e.loc, e.value[:9])
		}
	case Mat4:
		if len(e.value) >= 16 {
			t.dev.UniformMatrix4fv(e.loc, e.value[:16])
		}
	}
}

// Pump drains completed texture decodes and uploads those whose owning
// declaration still exists. Results are matched by declaration id and
// source, so decodes that outlive a removal or a source edit are discarded
// without touching the GPU.
func (t *Table) Pump() {
	for {
		select {
		case res := <-t.loader.Results():
			t.applyDecode(res)
		default:
			return
		}
	}
}

func (t *Table) applyDecode(res texture.Result) {
	if res.Err != nil {
		log.Printf("texture %q: %v", res.Source, res.Err)
		return
	}
	for _, e := range t.entries {
		if e.id != res.ID || e.tex == nil || e.tex.source != res.Source {
			continue
		}
		bounds := res.Image.Bounds()
		t.dev.UpdateTexture(e.tex.glID, bounds.Dx(), bounds.Dy(), res.Image.Pix)
		e.tex.ready = true
		return
	}
}

// Apply writes the per-frame engine bindings: the well-known slots, any
// declaration with a time/pointer binding, the light arrays, and sampler
// unit assignments. Locations resolved to -1 drop silently; a shader that
// does not declare a slot simply never reads it.
func (t *Table) Apply(frame FrameState, lights []Light) {
	t.dev.UseProgram(t.program)

	if t.timeLoc != -1 {
		t.dev.Uniform1f(t.timeLoc, frame.Time)
	}
	if t.mouseLoc != -1 {
		t.dev.Uniform2fv(t.mouseLoc, frame.Pointer[:])
	}
	if t.resolutionLoc != -1 {
		t.dev.Uniform2fv(t.resolutionLoc, frame.Resolution[:])
	}
	if t.cameraLoc != -1 {
		t.dev.Uniform3fv(t.cameraLoc, frame.CameraPosition[:])
	}

	for i := 0; i < MaxLights; i++ {
		if i < len(lights) {
			l := lights[i]
			if t.lightPosLoc[i] != -1 {
				t.dev.Uniform3fv(t.lightPosLoc[i], l.Position[:])
			}
			if t.lightColorLoc[i] != -1 {
				t.dev.Uniform3fv(t.lightColorLoc[i], l.Color[:])
			}
			if t.lightIntensityLoc[i] != -1 {
				t.dev.Uniform1f(t.lightIntensityLoc[i], l.Intensity)
			}
		} else if t.lightIntensityLoc[i] != -1 {
			// extinguish the slot; stale position/color are harmless since
			// intensity gates their contribution
			t.dev.Uniform1f(t.lightIntensityLoc[i], 0)
		}
	}

	for _, e := range t.entries {
		if e.loc == -1 {
			continue
		}
		switch e.bind {
		case BindTime:
			t.dev.Uniform1f(e.loc, frame.Time)
		case BindPointer:
			t.dev.Uniform2fv(e.loc, frame.Pointer[:])
		}
	}

	t.bindSamplers()
}

// bindSamplers assigns texture units in sorted name order so assignments
// are stable frame to frame.
func (t *Table) bindSamplers() {
	names := make([]string, 0, len(t.entries))
	for name, e := range t.entries {
		if e.tex != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for unit, name := range names {
		e := t.entries[name]
		t.dev.BindTexture(unit, e.tex.glID)
		if e.loc != -1 {
			t.dev.Uniform1i(e.loc, int32(unit))
		}
	}
}

// Destroy releases every texture object the table owns.
func (t *Table) Destroy() {
	for name, e := range t.entries {
		t.drop(e)
		delete(t.entries, name)
	}
}
