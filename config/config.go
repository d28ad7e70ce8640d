package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	graphics "github.com/richinsley/shaderstudio/graphics"
	uniforms "github.com/richinsley/shaderstudio/uniforms"
)

// Scene is the on-disk description of everything around the shader pair:
// where the sources live, what geometry to draw, the camera, the lights and
// the user-defined uniforms. The file is reloaded live on save.
type Scene struct {
	Shaders  Shaders   `toml:"shaders"`
	Geometry Geometry  `toml:"geometry"`
	Camera   Camera    `toml:"camera"`
	Uniforms []Uniform `toml:"uniform"`
	Lights   []Light   `toml:"light"`
}

type Shaders struct {
	Vertex   string `toml:"vertex"`
	Fragment string `toml:"fragment"`
}

type Geometry struct {
	Kind      string `toml:"kind"` // box, sphere, torus, plane
	Wireframe bool   `toml:"wireframe"`
}

type Camera struct {
	Distance float32 `toml:"distance"`
	Fov      float32 `toml:"fov"` // vertical field of view, degrees
}

// Uniform is the raw TOML shape of a uniform declaration. ID is optional
// and defaults to the name; give uniforms explicit ids when scripting edits
// that remove and re-add a name and the distinction matters.
type Uniform struct {
	ID      string    `toml:"id"`
	Name    string    `toml:"name"`
	Type    string    `toml:"type"`
	Value   []float32 `toml:"value"`
	Texture string    `toml:"texture"`
	Flip    bool      `toml:"flip"`
	Binding string    `toml:"binding"` // "", "time", "pointer"
	Wrap    string    `toml:"wrap"`    // "repeat", "clamp", "mirror"
}

type Light struct {
	ID        string    `toml:"id"`
	Position  []float32 `toml:"position"`
	Color     []float32 `toml:"color"`
	Intensity float32   `toml:"intensity"`
}

// Load reads and parses a scene file. Shader paths are resolved relative to
// the scene file's directory.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	scene := &Scene{
		Geometry: Geometry{Kind: "sphere"},
		Camera:   Camera{Distance: 3, Fov: 45},
	}
	if err := toml.Unmarshal(data, scene); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if scene.Camera.Distance <= 0 {
		scene.Camera.Distance = 3
	}
	if scene.Camera.Fov <= 0 {
		scene.Camera.Fov = 45
	}

	dir := filepath.Dir(path)
	if scene.Shaders.Vertex != "" && !filepath.IsAbs(scene.Shaders.Vertex) {
		scene.Shaders.Vertex = filepath.Join(dir, scene.Shaders.Vertex)
	}
	if scene.Shaders.Fragment != "" && !filepath.IsAbs(scene.Shaders.Fragment) {
		scene.Shaders.Fragment = filepath.Join(dir, scene.Shaders.Fragment)
	}
	return scene, nil
}

// Declarations maps the raw uniform entries onto typed declarations.
// Entries with an unknown type are skipped with a log line rather than
// failing the whole reload.
func (s *Scene) Declarations() []uniforms.Declaration {
	decls := make([]uniforms.Declaration, 0, len(s.Uniforms))
	for _, u := range s.Uniforms {
		typ, ok := parseType(u.Type)
		if !ok {
			log.Printf("uniform %q: unknown type %q, skipping", u.Name, u.Type)
			continue
		}
		id := u.ID
		if id == "" {
			id = u.Name
		}
		decls = append(decls, uniforms.Declaration{
			ID:      id,
			Name:    u.Name,
			Type:    typ,
			Value:   u.Value,
			Texture: u.Texture,
			Flip:    u.Flip,
			Binding: parseBinding(u.Binding),
			Wrap:    parseWrap(u.Wrap),
		})
	}
	return decls
}

// LightList maps the raw light entries onto engine lights. Position and
// color pad with zeros when fewer than three components are given.
func (s *Scene) LightList() []uniforms.Light {
	lights := make([]uniforms.Light, 0, len(s.Lights))
	for i, l := range s.Lights {
		id := l.ID
		if id == "" {
			id = fmt.Sprintf("light%d", i)
		}
		intensity := l.Intensity
		if intensity < 0 {
			intensity = 0
		}
		lights = append(lights, uniforms.Light{
			ID:        id,
			Position:  vec3(l.Position),
			Color:     vec3(l.Color),
			Intensity: intensity,
		})
	}
	return lights
}

func vec3(v []float32) [3]float32 {
	var out [3]float32
	copy(out[:], v)
	return out
}

func parseType(s string) (uniforms.Type, bool) {
	switch s {
	case "float":
		return uniforms.Float, true
	case "vec2":
		return uniforms.Vec2, true
	case "vec3":
		return uniforms.Vec3, true
	case "vec4":
		return uniforms.Vec4, true
	case "mat3":
		return uniforms.Mat3, true
	case "mat4":
		return uniforms.Mat4, true
	case "sampler2D":
		return uniforms.Sampler2D, true
	}
	return 0, false
}

func parseBinding(s string) uniforms.Binding {
	switch s {
	case "time":
		return uniforms.BindTime
	case "pointer":
		return uniforms.BindPointer
	}
	return uniforms.BindNone
}

func parseWrap(s string) graphics.TextureWrap {
	switch s {
	case "clamp":
		return graphics.WrapClamp
	case "mirror":
		return graphics.WrapMirror
	}
	return graphics.WrapRepeat
}
