package uniforms

import (
	"fmt"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	graphics "github.com/richinsley/shaderstudio/graphics"
	texture "github.com/richinsley/shaderstudio/texture"
)

func newTestTable(t *testing.T) (*Table, *fakeDevice, *fakeLoader) {
	t.Helper()
	dev := newFakeDevice()
	loader := newFakeLoader()
	return NewTable(dev, loader), dev, loader
}

func decodedImage(w, h int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func TestReconcileWritesTypedValues(t *testing.T) {
	tbl, dev, _ := newTestTable(t)
	dev.defineProgram(1, map[string]int32{
		"u_speed": 10,
		"u_tint":  11,
		"u_warp":  12,
	})

	mat := make([]float32, 16)
	for i := range mat {
		mat[i] = float32(i)
	}
	tbl.Rebuild(1, []Declaration{
		{ID: "a", Name: "u_speed", Type: Float, Value: []float32{2.5}},
		{ID: "b", Name: "u_tint", Type: Vec3, Value: []float32{1, 0.5, 0.25}},
		{ID: "c", Name: "u_warp", Type: Mat4, Value: mat},
	})

	got, ok := dev.wroteFloats(10)
	require.True(t, ok)
	assert.Equal(t, []float32{2.5}, got)

	got, ok = dev.wroteFloats(11)
	require.True(t, ok)
	assert.Equal(t, []float32{1, 0.5, 0.25}, got)

	got, ok = dev.wroteFloats(12)
	require.True(t, ok)
	assert.Equal(t, mat, got)
}

func TestUndeclaredNameDropsSilently(t *testing.T) {
	tbl, dev, _ := newTestTable(t)
	dev.defineProgram(1, map[string]int32{"u_known": 10})

	tbl.Rebuild(1, []Declaration{
		{ID: "a", Name: "u_known", Type: Float, Value: []float32{1}},
		{ID: "b", Name: "u_future", Type: Float, Value: []float32{9}},
	})

	_, ok := dev.wroteFloats(10)
	assert.True(t, ok)

	// the unknown name still gets a client-side slot, parked at -1
	e, ok := tbl.entries["u_future"]
	require.True(t, ok)
	assert.Equal(t, int32(-1), e.loc)
	_, wrote := dev.wroteFloats(-1)
	assert.False(t, wrote)
}

func TestMalformedArityIsNonFatal(t *testing.T) {
	tbl, dev, _ := newTestTable(t)
	dev.defineProgram(1, map[string]int32{"u_tint": 10})

	// vec3 with a single component: tolerated, not written
	tbl.Rebuild(1, []Declaration{
		{ID: "a", Name: "u_tint", Type: Vec3, Value: []float32{1}},
	})
	_, wrote := dev.wroteFloats(10)
	assert.False(t, wrote)
}

func TestRebuildDisjointNamespace(t *testing.T) {
	tbl, dev, _ := newTestTable(t)
	dev.defineProgram(1, map[string]int32{"u_old": 10, "u_both": 11})
	dev.defineProgram(2, map[string]int32{"u_new": 20, "u_both": 21})

	decls := []Declaration{
		{ID: "a", Name: "u_old", Type: Float, Value: []float32{1}},
		{ID: "b", Name: "u_both", Type: Float, Value: []float32{2}},
		{ID: "c", Name: "u_new", Type: Float, Value: []float32{3}},
	}

	tbl.Rebuild(1, decls)
	assert.Equal(t, int32(10), tbl.entries["u_old"].loc)
	assert.Equal(t, int32(11), tbl.entries["u_both"].loc)
	assert.Equal(t, int32(-1), tbl.entries["u_new"].loc)

	tbl.Rebuild(2, decls)
	assert.Equal(t, int32(-1), tbl.entries["u_old"].loc, "old program's namespace must not leak in")
	assert.Equal(t, int32(21), tbl.entries["u_both"].loc, "shared names rebind to the new program")
	assert.Equal(t, int32(20), tbl.entries["u_new"].loc)

	got, ok := dev.wroteFloats(21)
	require.True(t, ok)
	assert.Equal(t, []float32{2}, got)
}

func TestBindingOverridesManualValue(t *testing.T) {
	tbl, dev, _ := newTestTable(t)
	dev.defineProgram(1, map[string]int32{"u_t": 10, "u_ptr": 11})

	decls := []Declaration{
		{ID: "a", Name: "u_t", Type: Float, Value: []float32{99}, Binding: BindTime},
		{ID: "b", Name: "u_ptr", Type: Vec2, Value: []float32{9, 9}, Binding: BindPointer},
	}
	tbl.Rebuild(1, decls)

	// bound uniforms never see their manual values
	_, wrote := dev.wroteFloats(10)
	assert.False(t, wrote)
	_, wrote = dev.wroteFloats(11)
	assert.False(t, wrote)

	frame := FrameState{Time: 4.5, Pointer: [2]float32{0.25, 0.75}}
	tbl.Apply(frame, nil)

	got, _ := dev.wroteFloats(10)
	assert.Equal(t, []float32{4.5}, got)
	got, _ = dev.wroteFloats(11)
	assert.Equal(t, []float32{0.25, 0.75}, got)

	// clearing the binding restores manual control on the next reconcile
	decls[0].Binding = BindNone
	tbl.Reconcile(decls)
	got, _ = dev.wroteFloats(10)
	assert.Equal(t, []float32{99}, got)
}

func TestEngineSlots(t *testing.T) {
	tbl, dev, _ := newTestTable(t)
	dev.defineProgram(1, map[string]int32{
		"u_time":           1,
		"u_mouse":          2,
		"u_resolution":     3,
		"u_cameraPosition": 4,
	})
	tbl.Rebuild(1, nil)

	frame := FrameState{
		Time:           7,
		Pointer:        [2]float32{0.5, 0.5},
		Resolution:     [2]float32{1920, 1080},
		CameraPosition: [3]float32{0, 1, 5},
	}
	tbl.Apply(frame, nil)

	got, _ := dev.wroteFloats(1)
	assert.Equal(t, []float32{7}, got)
	got, _ = dev.wroteFloats(2)
	assert.Equal(t, []float32{0.5, 0.5}, got)
	got, _ = dev.wroteFloats(3)
	assert.Equal(t, []float32{1920, 1080}, got)
	got, _ = dev.wroteFloats(4)
	assert.Equal(t, []float32{0, 1, 5}, got)
}

func lightLocs() map[string]int32 {
	locs := make(map[string]int32)
	var next int32 = 30
	for i := 0; i < MaxLights; i++ {
		for _, base := range []string{"u_lightPos", "u_lightColor", "u_lightIntensity"} {
			locs[fmt.Sprintf("%s[%d]", base, i)] = next
			next++
		}
	}
	return locs
}

func TestLightSlotSaturation(t *testing.T) {
	tbl, dev, _ := newTestTable(t)
	dev.defineProgram(1, lightLocs())
	tbl.Rebuild(1, nil)

	lights := make([]Light, 6)
	for i := range lights {
		lights[i] = Light{
			Position:  [3]float32{float32(i), 0, 0},
			Color:     [3]float32{1, 1, 1},
			Intensity: float32(i + 1),
		}
	}
	tbl.Apply(FrameState{}, lights)

	// only the first four lights, in list order, reach the shader
	for i := 0; i < MaxLights; i++ {
		pos, ok := dev.wroteFloats(dev.programs[1][fmt.Sprintf("u_lightPos[%d]", i)])
		require.True(t, ok)
		assert.Equal(t, []float32{float32(i), 0, 0}, pos)

		intensity, ok := dev.wroteFloats(dev.programs[1][fmt.Sprintf("u_lightIntensity[%d]", i)])
		require.True(t, ok)
		assert.Equal(t, []float32{float32(i + 1)}, intensity)
	}
}

func TestLightSlotExtinguishing(t *testing.T) {
	tbl, dev, _ := newTestTable(t)
	dev.defineProgram(1, lightLocs())
	tbl.Rebuild(1, nil)

	lights := []Light{
		{Position: [3]float32{1, 2, 3}, Intensity: 2},
		{Position: [3]float32{4, 5, 6}, Intensity: 3},
	}
	tbl.Apply(FrameState{}, lights)

	for i := 2; i < MaxLights; i++ {
		intensity, ok := dev.wroteFloats(dev.programs[1][fmt.Sprintf("u_lightIntensity[%d]", i)])
		require.True(t, ok)
		assert.Equal(t, []float32{0}, intensity, "unused slot %d must be extinguished", i)
	}
}

func TestSamplerLifecycle(t *testing.T) {
	tbl, dev, loader := newTestTable(t)
	dev.defineProgram(1, map[string]int32{"u_tex": 10})

	decls := []Declaration{
		{ID: "a", Name: "u_tex", Type: Sampler2D, Texture: "noise.png", Wrap: graphics.WrapRepeat},
	}
	tbl.Rebuild(1, decls)

	// placeholder texture exists immediately; decode was requested once
	require.Len(t, loader.loads, 1)
	assert.Equal(t, loadRequest{id: "a", source: "noise.png"}, loader.loads[0])
	texID := tbl.entries["u_tex"].tex.glID
	assert.True(t, dev.liveTextures[texID])
	assert.Equal(t, 1, dev.texUploads[texID])

	// decode lands: pixels upload in place, no new object
	img := decodedImage(8, 8)
	loader.deliver(texture.Result{ID: "a", Source: "noise.png", Image: img})
	tbl.Pump()
	assert.Equal(t, 2, dev.texUploads[texID])
	assert.True(t, tbl.entries["u_tex"].tex.ready)

	// the sampler is bound to a unit each frame
	tbl.Apply(FrameState{}, nil)
	assert.Equal(t, texID, dev.boundUnits[0])
	assert.Equal(t, int32(0), dev.intWrites[10])
}

func TestWrapChangeWithoutRedecode(t *testing.T) {
	tbl, dev, loader := newTestTable(t)
	dev.defineProgram(1, map[string]int32{"u_tex": 10})

	decls := []Declaration{
		{ID: "a", Name: "u_tex", Type: Sampler2D, Texture: "noise.png", Wrap: graphics.WrapRepeat},
	}
	tbl.Rebuild(1, decls)
	texID := tbl.entries["u_tex"].tex.glID
	require.Len(t, loader.loads, 1)

	decls[0].Wrap = graphics.WrapMirror
	tbl.Reconcile(decls)

	assert.Equal(t, graphics.WrapMirror, dev.texWraps[texID])
	assert.Equal(t, texID, tbl.entries["u_tex"].tex.glID, "wrap edits keep the texture object")
	assert.Len(t, loader.loads, 1, "wrap edits must not re-trigger decode")
}

func TestSourceChangeRedecodes(t *testing.T) {
	tbl, dev, loader := newTestTable(t)
	dev.defineProgram(1, map[string]int32{"u_tex": 10})

	decls := []Declaration{
		{ID: "a", Name: "u_tex", Type: Sampler2D, Texture: "one.png"},
	}
	tbl.Rebuild(1, decls)
	firstID := tbl.entries["u_tex"].tex.glID

	decls[0].Texture = "two.png"
	tbl.Reconcile(decls)

	assert.Len(t, loader.loads, 2)
	assert.False(t, dev.liveTextures[firstID], "old texture must be released")
	assert.True(t, dev.liveTextures[tbl.entries["u_tex"].tex.glID])
}

func TestStaleDecodeDiscardedByID(t *testing.T) {
	tbl, dev, loader := newTestTable(t)
	dev.defineProgram(1, map[string]int32{"u_tex": 10})

	tbl.Rebuild(1, []Declaration{
		{ID: "a", Name: "u_tex", Type: Sampler2D, Texture: "noise.png"},
	})

	// the uniform is removed and re-added under the same name before the
	// first decode finishes
	tbl.Reconcile([]Declaration{
		{ID: "b", Name: "u_tex", Type: Sampler2D, Texture: "noise.png"},
	})
	texID := tbl.entries["u_tex"].tex.glID
	uploadsBefore := dev.texUploads[texID]

	loader.deliver(texture.Result{ID: "a", Source: "noise.png", Image: decodedImage(4, 4)})
	tbl.Pump()
	assert.Equal(t, uploadsBefore, dev.texUploads[texID], "stale decode must be discarded")

	loader.deliver(texture.Result{ID: "b", Source: "noise.png", Image: decodedImage(4, 4)})
	tbl.Pump()
	assert.Equal(t, uploadsBefore+1, dev.texUploads[texID])
}

func TestProgramRebuildKeepsTextures(t *testing.T) {
	tbl, dev, loader := newTestTable(t)
	dev.defineProgram(1, map[string]int32{"u_tex": 10})
	dev.defineProgram(2, map[string]int32{"u_tex": 20})

	decls := []Declaration{
		{ID: "a", Name: "u_tex", Type: Sampler2D, Texture: "noise.png"},
	}
	tbl.Rebuild(1, decls)
	texID := tbl.entries["u_tex"].tex.glID

	tbl.Rebuild(2, decls)
	assert.Equal(t, texID, tbl.entries["u_tex"].tex.glID, "shader edits must not re-trigger decodes")
	assert.Equal(t, int32(20), tbl.entries["u_tex"].loc)
	assert.Len(t, loader.loads, 1)
}

func TestRemovedDeclarationReleasesTexture(t *testing.T) {
	tbl, dev, _ := newTestTable(t)
	dev.defineProgram(1, map[string]int32{"u_tex": 10})

	tbl.Rebuild(1, []Declaration{
		{ID: "a", Name: "u_tex", Type: Sampler2D, Texture: "noise.png"},
	})
	texID := tbl.entries["u_tex"].tex.glID

	tbl.Reconcile(nil)
	assert.False(t, dev.liveTextures[texID])
	assert.Empty(t, tbl.entries)
}

func TestTypeChangeAwayFromSamplerReleasesTexture(t *testing.T) {
	tbl, dev, _ := newTestTable(t)
	dev.defineProgram(1, map[string]int32{"u_x": 10})

	decls := []Declaration{
		{ID: "a", Name: "u_x", Type: Sampler2D, Texture: "noise.png"},
	}
	tbl.Rebuild(1, decls)
	texID := tbl.entries["u_x"].tex.glID

	decls[0] = Declaration{ID: "a", Name: "u_x", Type: Float, Value: []float32{1}}
	tbl.Reconcile(decls)

	assert.False(t, dev.liveTextures[texID])
	got, _ := dev.wroteFloats(10)
	assert.Equal(t, []float32{1}, got)
}

func TestDestroyReleasesEverything(t *testing.T) {
	tbl, dev, _ := newTestTable(t)
	dev.defineProgram(1, map[string]int32{"u_tex": 10})

	tbl.Rebuild(1, []Declaration{
		{ID: "a", Name: "u_tex", Type: Sampler2D, Texture: "noise.png"},
	})
	tbl.Destroy()
	assert.Empty(t, dev.liveTextures)
	assert.Empty(t, tbl.entries)
}
