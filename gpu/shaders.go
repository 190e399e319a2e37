package gpu

import "strings"

// GLSL sources. Every declaration sits on its own line so that the
// simulator can discover attributes and uniforms.

const shaderHeader = `#ifdef GL_ES
#ifdef GL_FRAGMENT_PRECISION_HIGH
precision highp float;
#else
precision mediump float;
#endif
#endif
`

// vertexSource maps device pixels to clip space. screenBounds holds the
// target origin and half its size; pixelPos stays in device space so that
// every paint can be evaluated per fragment.
const vertexSource = shaderHeader + `attribute vec2 position;
attribute vec4 colour;
uniform vec4 screenBounds;
varying vec4 frontColour;
varying vec2 pixelPos;
void main() {
    frontColour = colour;
    pixelPos = position;
    vec2 scaled = (position - screenBounds.xy) / screenBounds.zw;
    gl_Position = vec4(scaled.x - 1.0, 1.0 - scaled.y, 0.0, 1.0);
}
`

const fragmentInputs = `varying vec4 frontColour;
varying vec2 pixelPos;
`

const maskFunction = `uniform sampler2D maskTexture;
uniform vec4 maskBounds;
float maskAlpha() {
    vec2 uv = vec2((pixelPos.x - maskBounds.x) * maskBounds.z, 1.0 - (pixelPos.y - maskBounds.y) * maskBounds.w);
    return texture2D(maskTexture, uv).a;
}
`

const noMaskFunction = `float maskAlpha() {
    return 1.0;
}
`

const solidPaint = `void main() {
    gl_FragColor = frontColour * maskAlpha();
}
`

const radialPaint = `uniform sampler2D gradientTexture;
uniform vec3 matrixRow0;
uniform vec3 matrixRow1;
uniform vec2 gradientLookup;
void main() {
    vec3 p = vec3(pixelPos, 1.0);
    float t = clamp(length(vec2(dot(matrixRow0, p), dot(matrixRow1, p))), 0.0, 1.0);
    vec4 c = texture2D(gradientTexture, vec2(t * gradientLookup.x + gradientLookup.y, 0.5));
    gl_FragColor = c * (frontColour.a * maskAlpha());
}
`

// gradientInfo is (x1, y1, slope, length) along the dominant axis.
const linearSteepPaint = `uniform sampler2D gradientTexture;
uniform vec4 gradientInfo;
uniform vec2 gradientLookup;
void main() {
    float t = (pixelPos.y - (gradientInfo.y + gradientInfo.z * (pixelPos.x - gradientInfo.x))) / gradientInfo.w;
    t = clamp(t, 0.0, 1.0);
    vec4 c = texture2D(gradientTexture, vec2(t * gradientLookup.x + gradientLookup.y, 0.5));
    gl_FragColor = c * (frontColour.a * maskAlpha());
}
`

const linearShallowPaint = `uniform sampler2D gradientTexture;
uniform vec4 gradientInfo;
uniform vec2 gradientLookup;
void main() {
    float t = (pixelPos.x - (gradientInfo.x + gradientInfo.z * (pixelPos.y - gradientInfo.y))) / gradientInfo.w;
    t = clamp(t, 0.0, 1.0);
    vec4 c = texture2D(gradientTexture, vec2(t * gradientLookup.x + gradientLookup.y, 0.5));
    gl_FragColor = c * (frontColour.a * maskAlpha());
}
`

// imageLimits is (content/texture width, content/texture height,
// half a texel of content in x, in y).
const imagePaint = `uniform sampler2D imageTexture;
uniform vec3 matrixRow0;
uniform vec3 matrixRow1;
uniform vec4 imageLimits;
void main() {
    vec3 q = vec3(pixelPos, 1.0);
    vec2 p = vec2(dot(matrixRow0, q), dot(matrixRow1, q));
    p = clamp(p, imageLimits.zw, vec2(1.0) - imageLimits.zw);
    vec2 uv = vec2(p.x * imageLimits.x, 1.0 - p.y * imageLimits.y);
    gl_FragColor = texture2D(imageTexture, uv) * (frontColour.a * maskAlpha());
}
`

const tiledImagePaint = `uniform sampler2D imageTexture;
uniform vec3 matrixRow0;
uniform vec3 matrixRow1;
uniform vec4 imageLimits;
void main() {
    vec3 q = vec3(pixelPos, 1.0);
    vec2 p = fract(vec2(dot(matrixRow0, q), dot(matrixRow1, q)));
    vec2 uv = vec2(p.x * imageLimits.x, 1.0 - p.y * imageLimits.y);
    gl_FragColor = texture2D(imageTexture, uv) * (frontColour.a * maskAlpha());
}
`

// imageBounds is (x, y, 1/texture width, 1/texture height) of the source
// texture placed in device space.
const copyTextureSource = shaderHeader + fragmentInputs + `uniform sampler2D imageTexture;
uniform vec4 imageBounds;
void main() {
    vec2 uv = vec2((pixelPos.x - imageBounds.x) * imageBounds.z, 1.0 - (pixelPos.y - imageBounds.y) * imageBounds.w);
    gl_FragColor = texture2D(imageTexture, uv) * frontColour.a;
}
`

const maskTextureSource = shaderHeader + fragmentInputs + `uniform sampler2D imageTexture;
uniform vec4 imageBounds;
void main() {
    vec2 uv = vec2((pixelPos.x - imageBounds.x) * imageBounds.z, 1.0 - (pixelPos.y - imageBounds.y) * imageBounds.w);
    gl_FragColor = vec4(texture2D(imageTexture, uv).a);
}
`

var paintSources = [...]string{
	Solid:                 solidPaint,
	RadialGradient:        radialPaint,
	LinearGradientSteep:   linearSteepPaint,
	LinearGradientShallow: linearShallowPaint,
	Image:                 imagePaint,
	TiledImage:            tiledImagePaint,
}

// fragmentSource assembles the fragment shader for a paint program.
func fragmentSource(kind PaintKind, masked bool) string {
	var b strings.Builder
	b.WriteString(shaderHeader)
	b.WriteString(fragmentInputs)
	if masked {
		b.WriteString(maskFunction)
	} else {
		b.WriteString(noMaskFunction)
	}
	b.WriteString(paintSources[kind])
	return b.String()
}
