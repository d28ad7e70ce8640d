package graphics

// Context defines the interface for a windowed OpenGL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	GetFramebufferSize() (int, int)
	Time() float64
	// PointerNormalized returns the cursor position scaled to [0,1]x[0,1]
	// with the origin at the top-left corner of the window.
	PointerNormalized() [2]float32
	// PointerDown reports whether the primary mouse button is held.
	PointerDown() bool
}
