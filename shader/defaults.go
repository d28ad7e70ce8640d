package shader

// Built-in starter shaders: a lit material driven by the engine's light
// arrays. Used to scaffold new projects and as the fallback pair when the
// sources on disk fail their initial validation.

const DefaultVertex = `varying vec3 vNormal;
varying vec2 vUv;
varying vec3 vWorldPos;

void main() {
    vNormal = normalize(normalMatrix * normal);
    vUv = uv;
    vWorldPos = (modelMatrix * vec4(position, 1.0)).xyz;
    gl_Position = projectionMatrix * modelViewMatrix * vec4(position, 1.0);
}
`

const DefaultFragment = `varying vec3 vNormal;
varying vec2 vUv;
varying vec3 vWorldPos;

uniform float u_time;
uniform vec3 u_lightPos[4];
uniform vec3 u_lightColor[4];
uniform float u_lightIntensity[4];

void main() {
    vec3 base = vec3(0.35, 0.45, 0.9);
    vec3 n = normalize(vNormal);
    vec3 col = base * 0.12;
    for (int i = 0; i < 4; i++) {
        vec3 l = normalize(u_lightPos[i] - vWorldPos);
        col += base * u_lightColor[i] * u_lightIntensity[i] * max(dot(n, l), 0.0);
    }
    gl_FragColor = vec4(col, 1.0);
}
`
