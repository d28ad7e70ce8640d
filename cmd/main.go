package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"

	config "github.com/richinsley/shaderstudio/config"
	export "github.com/richinsley/shaderstudio/export"
	gldevice "github.com/richinsley/shaderstudio/gldevice"
	glfwcontext "github.com/richinsley/shaderstudio/glfwcontext"
	options "github.com/richinsley/shaderstudio/options"
	renderer "github.com/richinsley/shaderstudio/renderer"
	shader "github.com/richinsley/shaderstudio/shader"
	watcher "github.com/richinsley/shaderstudio/watcher"
)

const sceneTemplate = `[shaders]
vertex = "scene.vert"
fragment = "scene.frag"

[geometry]
kind = "sphere"

[camera]
distance = 3.0
fov = 45.0

[[light]]
position = [4.0, 4.0, 4.0]
color = [1.0, 1.0, 1.0]
intensity = 1.0

[[light]]
position = [-4.0, 2.0, -2.0]
color = [0.4, 0.5, 1.0]
intensity = 0.5
`

// initProject scaffolds a new scene next to the given scene file path.
// Existing files are left alone so re-running -init is safe.
func initProject(scenePath string) error {
	dir := filepath.Dir(scenePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	files := map[string]string{
		scenePath:                        sceneTemplate,
		filepath.Join(dir, "scene.vert"): shader.DefaultVertex,
		filepath.Join(dir, "scene.frag"): shader.DefaultFragment,
	}
	for path, content := range files {
		if _, err := os.Stat(path); err == nil {
			log.Printf("%s exists, skipping", path)
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
		log.Printf("wrote %s", path)
	}
	return nil
}

func runStudio(opts *options.StudioOptions, scene *config.Scene) {
	if err := glfwcontext.InitGraphics(); err != nil {
		log.Fatalf("Failed to initialize graphics: %v", err)
	}
	defer glfwcontext.TerminateGraphics()

	// If recording, the window is hidden
	window, err := glfwcontext.New(*opts.Width, *opts.Height, "shaderstudio", !*opts.Record)
	if err != nil {
		log.Fatalf("Failed to create window: %v", err)
	}
	window.MakeCurrent()

	dev, err := gldevice.New()
	if err != nil {
		log.Fatalf("Failed to initialize OpenGL: %v", err)
	}

	r, err := renderer.New(window, dev, *opts.ScenePath, scene)
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}
	defer r.Shutdown()
	if *opts.Wireframe {
		r.ToggleWireframe()
	}

	if *opts.Record {
		fbWidth, fbHeight := window.GetFramebufferSize()
		enc := export.NewEncoder(fbWidth, fbHeight, *opts.FPS, *opts.OutputFile, *opts.FFMPEGPath)

		log.Println("Starting record loop...")
		if err := r.RunRecord(*opts.Duration, *opts.FPS, enc); err != nil {
			enc.Close()
			log.Fatalf("Recording failed: %v", err)
		}
		if err := enc.Close(); err != nil {
			log.Fatalf("Encoding failed: %v", err)
		}
		log.Printf("Successfully rendered to %s", *opts.OutputFile)
		return
	}

	var shaderPaths []string
	for _, p := range []string{scene.Shaders.Vertex, scene.Shaders.Fragment} {
		if p != "" {
			shaderPaths = append(shaderPaths, p)
		}
	}
	w, err := watcher.New(*opts.ScenePath, shaderPaths...)
	if err != nil {
		log.Fatalf("Failed to watch project files: %v", err)
	}
	defer w.Close()
	r.Watch(w)

	window.RegisterCommitCallback(r.Commit)
	window.RegisterKeyCallback(glfw.KeyW, r.ToggleWireframe)

	log.Println("Starting interactive loop (save a file or press Ctrl+Enter to commit, W toggles wireframe)...")
	r.Run()
}

func init() {
	runtime.LockOSThread()
}

func main() {
	// Command-line flags
	var scenePath = flag.String("scene", "scene.toml", "Scene file to open")
	var initFlag = flag.Bool("init", false, "Scaffold a new scene and shader pair, then exit")
	var help = flag.Bool("help", false, "Show help message")
	var wireframe = flag.Bool("wireframe", false, "Start in wireframe mode")

	// Recording flags
	var record = flag.Bool("record", false, "Enable recording mode")
	var duration = flag.Float64("duration", 10.0, "Duration to record in seconds")
	var fps = flag.Int("fps", 60, "Frames per second for recording")
	var width = flag.Int("width", 1280, "Width of the output")
	var height = flag.Int("height", 720, "Height of the output")
	var outputFile = flag.String("output", "output.mp4", "Output file name for recording")
	var ffmpegPath = flag.String("ffmpeg", "", "Path to ffmpeg executable")

	flag.Parse()

	if *help {
		fmt.Println("Shader Studio - live shader authoring and recording")
		flag.PrintDefaults()
		return
	}

	if *initFlag {
		if err := initProject(*scenePath); err != nil {
			log.Fatalf("Error scaffolding project: %v", err)
		}
		return
	}

	scene, err := config.Load(*scenePath)
	if err != nil {
		log.Fatalf("Error loading scene: %v", err)
	}

	opts := &options.StudioOptions{
		ScenePath:  scenePath,
		Init:       initFlag,
		Help:       help,
		Width:      width,
		Height:     height,
		Record:     record,
		Duration:   duration,
		FPS:        fps,
		OutputFile: outputFile,
		FFMPEGPath: ffmpegPath,
		Wireframe:  wireframe,
	}
	runStudio(opts, scene)
}
