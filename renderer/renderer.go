package renderer

import (
	"fmt"
	"log"
	"os"

	"github.com/go-gl/gl/v4.1-core/gl"

	config "github.com/richinsley/shaderstudio/config"
	export "github.com/richinsley/shaderstudio/export"
	geometry "github.com/richinsley/shaderstudio/geometry"
	graphics "github.com/richinsley/shaderstudio/graphics"
	shader "github.com/richinsley/shaderstudio/shader"
	texture "github.com/richinsley/shaderstudio/texture"
	uniforms "github.com/richinsley/shaderstudio/uniforms"
	watcher "github.com/richinsley/shaderstudio/watcher"
)

// Renderer owns the render loop: it keeps the last-known-good shader pair on
// screen, rebuilds the GL program when a commit promotes a new pair, and
// feeds the uniform table every frame. All methods run on the context thread.
type Renderer struct {
	context    graphics.Context
	dev        graphics.Device
	controller *shader.Controller
	table      *uniforms.Table
	scene      *config.Scene
	scenePath  string
	events     <-chan watcher.Event

	program      uint32
	builtVersion uint64

	// built-in matrix uniforms, re-resolved per program
	modelLoc     int32
	viewLoc      int32
	projLoc      int32
	modelViewLoc int32
	normalLoc    int32
	cameraLoc    int32

	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
	wireframe  bool

	camera orbitCamera
}

// New builds a renderer for a loaded scene. The initial shader pair comes
// from the files the scene names; if those fail validation the built-in
// default pair takes their place so there is always something safe to draw.
func New(context graphics.Context, dev graphics.Device, scenePath string, scene *config.Scene) (*Renderer, error) {
	r := &Renderer{
		context:   context,
		dev:       dev,
		scene:     scene,
		scenePath: scenePath,
		camera:    newOrbitCamera(scene.Camera.Distance, scene.Camera.Fov),
		wireframe: scene.Geometry.Wireframe,
	}

	pair := r.loadPair()
	controller, err := shader.NewController(dev, pair)
	if err != nil {
		log.Printf("initial shaders rejected, using built-in defaults: %v", err)
		controller, err = shader.NewController(dev, shader.Pair{
			Vertex:   shader.DefaultVertex,
			Fragment: shader.DefaultFragment,
		})
		if err != nil {
			return nil, fmt.Errorf("default shaders failed validation: %w", err)
		}
	}
	r.controller = controller
	r.table = uniforms.NewTable(dev, texture.NewLoader())

	r.uploadMesh(geometry.Generate(scene.Geometry.Kind))
	if err := r.ensureProgram(); err != nil {
		return nil, err
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.ClearColor(0.06, 0.06, 0.08, 1.0)
	return r, nil
}

// Watch connects a file watcher; its events are drained once per frame.
func (r *Renderer) Watch(w *watcher.Watcher) {
	r.events = w.Events()
}

// ToggleWireframe flips fill/line rendering.
func (r *Renderer) ToggleWireframe() {
	r.wireframe = !r.wireframe
}

func (r *Renderer) loadPair() shader.Pair {
	pair := shader.Pair{
		Vertex:   shader.DefaultVertex,
		Fragment: shader.DefaultFragment,
	}
	if r.scene.Shaders.Vertex != "" {
		data, err := os.ReadFile(r.scene.Shaders.Vertex)
		if err != nil {
			log.Printf("read vertex shader: %v", err)
		} else {
			pair.Vertex = string(data)
		}
	}
	if r.scene.Shaders.Fragment != "" {
		data, err := os.ReadFile(r.scene.Shaders.Fragment)
		if err != nil {
			log.Printf("read fragment shader: %v", err)
		} else {
			pair.Fragment = string(data)
		}
	}
	return pair
}

// Commit re-reads the shader sources from disk and submits them. A rejected
// draft logs its diagnostics and leaves the active program untouched.
func (r *Renderer) Commit() {
	pair := r.loadPair()
	if err := r.controller.Submit(pair.Vertex, pair.Fragment); err != nil {
		log.Printf("commit rejected:\n%v", err)
		return
	}
	if err := r.ensureProgram(); err != nil {
		log.Printf("program rebuild: %v", err)
	}
}

// ReloadScene re-reads the scene file and reconciles uniforms, lights,
// camera and geometry against it. Shader path changes take effect on the
// next commit.
func (r *Renderer) ReloadScene() {
	scene, err := config.Load(r.scenePath)
	if err != nil {
		log.Printf("scene reload: %v", err)
		return
	}
	oldKind := r.scene.Geometry.Kind
	r.scene = scene

	r.camera.distance = scene.Camera.Distance
	r.camera.fov = scene.Camera.Fov
	r.wireframe = scene.Geometry.Wireframe
	if scene.Geometry.Kind != oldKind {
		r.uploadMesh(geometry.Generate(scene.Geometry.Kind))
	}
	r.table.Reconcile(scene.Declarations())
}

// ensureProgram rebuilds the render program when the controller has promoted
// a pair newer than the one the current program was built from. The sources
// were validated at promotion, so a failure here is a driver-level surprise
// and keeps the previous program.
func (r *Renderer) ensureProgram() error {
	if r.program != 0 && r.builtVersion == r.controller.Version() {
		return nil
	}

	pair := r.controller.Active()
	program, err := r.buildProgram(pair)
	if err != nil {
		return err
	}
	if r.program != 0 {
		r.dev.DeleteProgram(r.program)
	}
	r.program = program
	r.builtVersion = r.controller.Version()

	r.modelLoc = r.dev.UniformLocation(program, "modelMatrix")
	r.viewLoc = r.dev.UniformLocation(program, "viewMatrix")
	r.projLoc = r.dev.UniformLocation(program, "projectionMatrix")
	r.modelViewLoc = r.dev.UniformLocation(program, "modelViewMatrix")
	r.normalLoc = r.dev.UniformLocation(program, "normalMatrix")
	r.cameraLoc = r.dev.UniformLocation(program, "cameraPosition")

	r.table.Rebuild(program, r.scene.Declarations())
	return nil
}

func (r *Renderer) buildProgram(pair shader.Pair) (uint32, error) {
	vs := r.dev.CreateShader(graphics.StageVertex)
	defer r.dev.DeleteShader(vs)
	if !r.dev.CompileShader(vs, shader.Assemble(graphics.StageVertex, pair.Vertex)) {
		return 0, fmt.Errorf("vertex compile: %s",
			shader.NormalizeLog(r.dev.ShaderLog(vs), shader.PreambleLines(graphics.StageVertex)))
	}

	fs := r.dev.CreateShader(graphics.StageFragment)
	defer r.dev.DeleteShader(fs)
	if !r.dev.CompileShader(fs, shader.Assemble(graphics.StageFragment, pair.Fragment)) {
		return 0, fmt.Errorf("fragment compile: %s",
			shader.NormalizeLog(r.dev.ShaderLog(fs), shader.PreambleLines(graphics.StageFragment)))
	}

	program := r.dev.CreateProgram()
	r.dev.AttachShader(program, vs)
	r.dev.AttachShader(program, fs)
	if !r.dev.LinkProgram(program) {
		logText := r.dev.ProgramLog(program)
		r.dev.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", logText)
	}
	return program, nil
}

func (r *Renderer) uploadMesh(mesh *geometry.Mesh) {
	if r.vao == 0 {
		gl.GenVertexArrays(1, &r.vao)
		gl.GenBuffers(1, &r.vbo)
		gl.GenBuffers(1, &r.ebo)
	}

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*4, gl.Ptr(mesh.Vertices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)

	stride := int32(geometry.Stride * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(6*4))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)

	r.indexCount = int32(len(mesh.Indices))
}

func (r *Renderer) drainEvents() {
	if r.events == nil {
		return
	}
	for {
		select {
		case ev := <-r.events:
			switch ev.Kind {
			case watcher.ShaderChanged:
				r.Commit()
			case watcher.ConfigChanged:
				r.ReloadScene()
			}
		default:
			return
		}
	}
}

func (r *Renderer) drawFrame(time float64, width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}

	model := identity()
	view := r.camera.viewMatrix()
	proj := perspective(r.camera.fov, aspect, 0.1, 100)
	modelView := multiply(view, model)
	normal := normalMat(modelView)

	r.dev.UseProgram(r.program)
	if r.modelLoc != -1 {
		r.dev.UniformMatrix4fv(r.modelLoc, model[:])
	}
	if r.viewLoc != -1 {
		r.dev.UniformMatrix4fv(r.viewLoc, view[:])
	}
	if r.projLoc != -1 {
		r.dev.UniformMatrix4fv(r.projLoc, proj[:])
	}
	if r.modelViewLoc != -1 {
		r.dev.UniformMatrix4fv(r.modelViewLoc, modelView[:])
	}
	if r.normalLoc != -1 {
		r.dev.UniformMatrix3fv(r.normalLoc, normal[:])
	}
	eye := r.camera.position()
	if r.cameraLoc != -1 {
		r.dev.Uniform3fv(r.cameraLoc, eye[:])
	}

	frame := uniforms.FrameState{
		Time:           float32(time),
		Pointer:        r.context.PointerNormalized(),
		Resolution:     [2]float32{float32(width), float32(height)},
		CameraPosition: eye,
	}
	r.table.Apply(frame, r.scene.LightList())

	if r.wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	gl.BindVertexArray(r.vao)
	gl.DrawElements(gl.TRIANGLES, r.indexCount, gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)
}

// Run drives the interactive loop until the window closes.
func (r *Renderer) Run() {
	startTime := r.context.Time()

	for !r.context.ShouldClose() {
		r.drainEvents()
		if err := r.ensureProgram(); err != nil {
			log.Printf("program rebuild: %v", err)
		}

		r.camera.update(r.context.PointerNormalized(), r.context.PointerDown())
		r.table.Pump()

		width, height := r.context.GetFramebufferSize()
		r.drawFrame(r.context.Time()-startTime, width, height)
		r.context.EndFrame()
	}
}

// RunRecord renders duration seconds at a fixed timestep and pipes each
// frame to the encoder. The clock is synthetic, so recording is
// deterministic regardless of actual render speed.
func (r *Renderer) RunRecord(duration float64, fps int, enc *export.Encoder) error {
	width, height := r.context.GetFramebufferSize()
	frameCount := int(duration * float64(fps))
	pixels := make([]byte, width*height*4)

	for frame := 0; frame < frameCount; frame++ {
		r.table.Pump()
		r.drawFrame(float64(frame)/float64(fps), width, height)

		gl.ReadPixels(0, 0, int32(width), int32(height),
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
		export.FlipRows(pixels, width, height)
		if err := enc.WriteFrame(pixels); err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}

		r.context.EndFrame()
		if r.context.ShouldClose() {
			break
		}
	}
	return nil
}

// Shutdown releases every GL object the renderer owns.
func (r *Renderer) Shutdown() {
	r.table.Destroy()
	if r.program != 0 {
		r.dev.DeleteProgram(r.program)
	}
	gl.DeleteBuffers(1, &r.vbo)
	gl.DeleteBuffers(1, &r.ebo)
	gl.DeleteVertexArrays(1, &r.vao)
	r.context.Shutdown()
}
