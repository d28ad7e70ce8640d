package options

type StudioOptions struct {
	ScenePath  *string
	Init       *bool
	Help       *bool
	Width      *int
	Height     *int
	Record     *bool
	Duration   *float64
	FPS        *int
	OutputFile *string
	FFMPEGPath *string // Path to the ffmpeg executable; PATH lookup when empty
	Wireframe  *bool
}
