package uniforms

// MaxLights is the size of the fixed shader-side light arrays
// (u_lightPos, u_lightColor, u_lightIntensity).
const MaxLights = 4

// Light is one point light feeding the light arrays. Lists longer than
// MaxLights are truncated to their first MaxLights entries in list order;
// unused slots are extinguished by zeroing intensity.
type Light struct {
	ID        string
	Position  [3]float32
	Color     [3]float32
	Intensity float32
}
