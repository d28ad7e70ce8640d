package glfwcontext

import (
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
)

// Context wraps a GLFW window and tracks the pointer state the render loop
// samples every frame.
type Context struct {
	window *glfw.Window
	// functions to be called on key presses
	keyCallbacks   map[glfw.Key]func()
	commitCallback func()
}

// New creates and initializes a GLFW window with a 4.1 core profile
// context. Pass visible=false for off-screen (record) sessions.
func New(width, height int, title string, visible bool) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	if visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, err
	}

	c := &Context{
		window:       win,
		keyCallbacks: make(map[glfw.Key]func()),
	}
	win.SetKeyCallback(c.glfwKeyCallback)

	return c, nil
}

// RegisterKeyCallback registers a function to be called when a specific key
// is pressed.
func (c *Context) RegisterKeyCallback(key glfw.Key, f func()) {
	c.keyCallbacks[key] = f
}

// RegisterCommitCallback registers the function called on Ctrl/Cmd+Enter,
// the explicit "commit this draft now" gesture.
func (c *Context) RegisterCommitCallback(f func()) {
	c.commitCallback = f
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}

	if key == glfw.KeyEscape {
		w.SetShouldClose(true)
		return
	}

	if key == glfw.KeyEnter && mods&(glfw.ModControl|glfw.ModSuper) != 0 {
		if c.commitCallback != nil {
			c.commitCallback()
		}
		return
	}

	if callback, ok := c.keyCallbacks[key]; ok {
		callback()
	}
}

// PointerNormalized returns the cursor position scaled to [0,1]x[0,1] with
// the origin at the top-left corner, clamped to the window bounds.
func (c *Context) PointerNormalized() [2]float32 {
	winWidth, winHeight := c.window.GetSize()
	if winWidth <= 0 || winHeight <= 0 {
		return [2]float32{}
	}
	cursorX, cursorY := c.window.GetCursorPos()
	return [2]float32{
		clamp01(float32(cursorX) / float32(winWidth)),
		clamp01(float32(cursorY) / float32(winHeight)),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// PointerDown reports whether the left mouse button is held.
func (c *Context) PointerDown() bool {
	return c.window.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

// Shutdown destroys the window.
func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

// InitGraphics initializes the graphics subsystem (GLFW). Must be called
// from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW Initialized")
	return nil
}

// TerminateGraphics shuts down the graphics subsystem. Must be called from
// the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}
