package shader

import (
	"strings"

	graphics "github.com/richinsley/shaderstudio/graphics"
)

// The engine prepends these to user source before compiling. They declare
// every built-in the renderer feeds, plus GLSL1-style compatibility defines
// so classic tutorial shaders (attribute/varying/gl_FragColor) work as-is.

const vertexPreamble = `#version 410 core
#define attribute in
#define varying out
#define texture2D texture
uniform mat4 modelMatrix;
uniform mat4 viewMatrix;
uniform mat4 projectionMatrix;
uniform mat4 modelViewMatrix;
uniform mat3 normalMatrix;
uniform vec3 cameraPosition;
layout(location = 0) in vec3 position;
layout(location = 1) in vec3 normal;
layout(location = 2) in vec2 uv;
`

const fragmentPreamble = `#version 410 core
precision highp float;
precision highp int;
#define varying in
#define texture2D texture
#define gl_FragColor studioFragColor
uniform mat4 viewMatrix;
uniform vec3 cameraPosition;
out vec4 studioFragColor;
`

// Line counts are fixed for the life of the process; they only change when
// the preamble text itself changes, which this recomputes at init.
var preambleLines = map[graphics.Stage]int{
	graphics.StageVertex:   strings.Count(vertexPreamble, "\n"),
	graphics.StageFragment: strings.Count(fragmentPreamble, "\n"),
}

// Assemble prepends the engine preamble for the given stage to user-authored
// source. Pure function of its inputs.
func Assemble(stage graphics.Stage, userSource string) string {
	if stage == graphics.StageVertex {
		return vertexPreamble + userSource
	}
	return fragmentPreamble + userSource
}

// PreambleLines reports how many lines Assemble prepends for a stage. The
// diagnostic normalizer subtracts this so users see line numbers relative to
// the source they actually wrote.
func PreambleLines(stage graphics.Stage) int {
	return preambleLines[stage]
}
