package opengl

// Shared GLSL snippets: exponential-squared fog and ACES filmic tone
// mapping, appended to both fragment shaders.
const postFragChunk = `
uniform vec3  fogColor;
uniform float fogDensity;
uniform float exposure;

vec3 applyFog(vec3 color, float dist) {
    float f = 1.0 - exp(-fogDensity * fogDensity * dist * dist);
    return mix(color, fogColor, clamp(f, 0.0, 1.0));
}

// Narkowicz fit of the ACES filmic curve.
vec3 toneMapACES(vec3 x) {
    x *= exposure;
    const float a = 2.51;
    const float b = 0.03;
    const float c = 2.43;
    const float d = 0.59;
    const float e = 0.14;
    return clamp((x * (a * x + b)) / (x * (c * x + d) + e), 0.0, 1.0);
}

vec4 finish(vec3 color, float alpha, float dist) {
    color = toneMapACES(applyFog(color, dist));
    return vec4(pow(color, vec3(1.0 / 2.2)), alpha);
}
`

// ── Surface program ──────────────────────────────────────────────────────────

const meshVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec4 inColor;

uniform mat4 mvp;
uniform mat4 model;

out vec4 fragColor;
out vec3 fragNormal;
out vec3 fragWorldPos;

void main() {
    vec4 worldPos = model * vec4(inPosition, 1.0);
    gl_Position   = mvp * vec4(inPosition, 1.0);
    fragColor     = inColor;
    fragNormal    = mat3(model) * inNormal;
    fragWorldPos  = worldPos.xyz;
}
` + "\x00"

// Cook-Torrance for lit materials; unlit materials output albedo directly.
// Both paths go through fog and tone mapping.
const meshFragSrc = `
#version 410 core
in vec4 fragColor;
in vec3 fragNormal;
in vec3 fragWorldPos;

out vec4 outColor;

uniform vec3 ambientColor;
uniform vec3 cameraPos;

#define MAX_POINT_LIGHTS 4
uniform int   pointLightCount;
uniform vec3  pointLightPos[MAX_POINT_LIGHTS];
uniform vec3  pointLightColor[MAX_POINT_LIGHTS];
uniform float pointLightIntensity[MAX_POINT_LIGHTS];
uniform float pointLightRange[MAX_POINT_LIGHTS];

uniform vec3  matAlbedo;
uniform float matMetallic;
uniform float matRoughness;
uniform vec3  matEmissive;
uniform float matOpacity;
uniform bool  unlit;
` + postFragChunk + `
const float PI = 3.14159265359;

float DistributionGGX(vec3 N, vec3 H, float roughness) {
    float a  = roughness * roughness;
    float a2 = a * a;
    float NdH = max(dot(N, H), 0.0);
    float d   = NdH * NdH * (a2 - 1.0) + 1.0;
    return a2 / (PI * d * d);
}

float GeometrySchlickGGX(float cosTheta, float roughness) {
    float r = roughness + 1.0;
    float k = (r * r) / 8.0;
    return cosTheta / (cosTheta * (1.0 - k) + k);
}

vec3 FresnelSchlick(float cosTheta, vec3 F0) {
    return F0 + (1.0 - F0) * pow(clamp(1.0 - cosTheta, 0.0, 1.0), 5.0);
}

vec3 evalPBR(vec3 N, vec3 V, vec3 L, vec3 rad, vec3 albedo, float metallic, float roughness, vec3 F0) {
    float NdL = max(dot(N, L), 0.0);
    if (NdL <= 0.0) return vec3(0.0);

    vec3  H   = normalize(V + L);
    float NdV = max(dot(N, V), 0.0);

    float D = DistributionGGX(N, H, roughness);
    float G = GeometrySchlickGGX(NdV, roughness) * GeometrySchlickGGX(NdL, roughness);
    vec3  F = FresnelSchlick(max(dot(H, V), 0.0), F0);

    vec3 kD       = (vec3(1.0) - F) * (1.0 - metallic);
    vec3 specular = D * G * F / max(4.0 * NdV * NdL, 0.001);
    return (kD * albedo / PI + specular) * rad * NdL;
}

void main() {
    float dist = length(fragWorldPos - cameraPos);
    vec3 albedo = fragColor.rgb * matAlbedo;
    float alpha = fragColor.a * matOpacity;

    if (unlit) {
        outColor = finish(albedo, alpha, dist);
        return;
    }

    vec3 N = normalize(fragNormal);
    vec3 V = normalize(cameraPos - fragWorldPos);
    float roughness = clamp(matRoughness, 0.04, 1.0);
    vec3 F0 = mix(vec3(0.04), albedo, matMetallic);

    vec3 color = ambientColor * albedo;
    for (int i = 0; i < pointLightCount && i < MAX_POINT_LIGHTS; i++) {
        vec3  toLight = pointLightPos[i] - fragWorldPos;
        float d       = length(toLight);
        float range   = max(pointLightRange[i], 0.001);
        float atten   = clamp(1.0 - (d * d) / (range * range), 0.0, 1.0);
        atten *= atten;
        vec3 rad = pointLightColor[i] * pointLightIntensity[i] * atten;
        color += evalPBR(N, V, normalize(toLight), rad, albedo, matMetallic, roughness, F0);
    }
    color += matEmissive;

    outColor = finish(color, alpha, dist);
}
` + "\x00"

// ── Point sprite program ─────────────────────────────────────────────────────

// Points shrink with view depth; pointScale is half the framebuffer height.
const pointVertSrc = `
#version 410 core
layout(location = 0) in vec3  inPosition;
layout(location = 2) in vec4  inColor;
layout(location = 3) in float inSize;

uniform mat4  mvp;
uniform mat4  modelView;
uniform float pointSize;
uniform float pointScale;

out vec4  fragColor;
out float fragDist;

void main() {
    vec4 viewPos = modelView * vec4(inPosition, 1.0);
    gl_Position  = mvp * vec4(inPosition, 1.0);
    gl_PointSize = max(pointSize * inSize * pointScale / max(-viewPos.z, 0.001), 1.0);
    fragColor    = inColor;
    fragDist     = length(viewPos.xyz);
}
` + "\x00"

// Procedural soft circle from gl_PointCoord.
const pointFragSrc = `
#version 410 core
in vec4  fragColor;
in float fragDist;

out vec4 outColor;

uniform vec3  matAlbedo;
uniform float matOpacity;
` + postFragChunk + `
void main() {
    float d = length(gl_PointCoord - vec2(0.5)) * 2.0;
    float a = fragColor.a * matOpacity * clamp(1.0 - d * d, 0.0, 1.0);
    if (a <= 0.0) discard;
    outColor = finish(fragColor.rgb * matAlbedo, a, fragDist);
}
` + "\x00"
