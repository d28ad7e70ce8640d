package uniforms

// FrameState is what the host engine knows at the top of every rendered
// frame. The table writes it into the well-known slots (u_time, u_mouse,
// u_resolution, u_cameraPosition) when the active program declares them,
// and into any declaration carrying a time/pointer binding.
type FrameState struct {
	Time           float32    // seconds since the render loop started
	Pointer        [2]float32 // normalized [0,1]x[0,1], origin top-left
	Resolution     [2]float32 // framebuffer size in device pixels
	CameraPosition [3]float32 // camera world position
}
