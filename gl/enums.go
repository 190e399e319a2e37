package gl

import "github.com/gogpu/gputypes"

// Enum is an OpenGL enumerant.
type Enum uint32

// OpenGL enumerants used by glcanvas. Values match the Khronos headers.
const (
	NO_ERROR          Enum = 0
	INVALID_ENUM      Enum = 0x0500
	INVALID_VALUE     Enum = 0x0501
	INVALID_OPERATION Enum = 0x0502
	OUT_OF_MEMORY     Enum = 0x0505

	ZERO                Enum = 0
	ONE                 Enum = 1
	SRC_COLOR           Enum = 0x0300
	ONE_MINUS_SRC_COLOR Enum = 0x0301
	SRC_ALPHA           Enum = 0x0302
	ONE_MINUS_SRC_ALPHA Enum = 0x0303
	DST_ALPHA           Enum = 0x0304
	ONE_MINUS_DST_ALPHA Enum = 0x0305
	DST_COLOR           Enum = 0x0306
	ONE_MINUS_DST_COLOR Enum = 0x0307

	TRIANGLES Enum = 0x0004

	CULL_FACE    Enum = 0x0B44
	DEPTH_TEST   Enum = 0x0B71
	STENCIL_TEST Enum = 0x0B90
	BLEND        Enum = 0x0BE2
	SCISSOR_TEST Enum = 0x0C11

	UNPACK_ALIGNMENT Enum = 0x0CF5
	PACK_ALIGNMENT   Enum = 0x0D05
	MAX_TEXTURE_SIZE Enum = 0x0D33
	TEXTURE_2D       Enum = 0x0DE1

	BYTE           Enum = 0x1400
	UNSIGNED_BYTE  Enum = 0x1401
	SHORT          Enum = 0x1402
	UNSIGNED_SHORT Enum = 0x1403
	FLOAT          Enum = 0x1406

	TEXTURE Enum = 0x1702

	ALPHA Enum = 0x1906
	RGB   Enum = 0x1907
	RGBA  Enum = 0x1908
	RED   Enum = 0x1903
	R8    Enum = 0x8229
	RGBA8 Enum = 0x8058

	VENDOR                   Enum = 0x1F00
	RENDERER                 Enum = 0x1F01
	VERSION                  Enum = 0x1F02
	EXTENSIONS               Enum = 0x1F03
	SHADING_LANGUAGE_VERSION Enum = 0x8B8C

	NEAREST            Enum = 0x2600
	LINEAR             Enum = 0x2601
	TEXTURE_MAG_FILTER Enum = 0x2800
	TEXTURE_MIN_FILTER Enum = 0x2801
	TEXTURE_WRAP_S     Enum = 0x2802
	TEXTURE_WRAP_T     Enum = 0x2803
	REPEAT             Enum = 0x2901
	CLAMP_TO_EDGE      Enum = 0x812F

	DEPTH_BUFFER_BIT   Enum = 0x00000100
	STENCIL_BUFFER_BIT Enum = 0x00000400
	COLOR_BUFFER_BIT   Enum = 0x00004000

	TEXTURE_BINDING_2D Enum = 0x8069
	TEXTURE0           Enum = 0x84C0
	ACTIVE_TEXTURE     Enum = 0x84E0

	ARRAY_BUFFER         Enum = 0x8892
	ELEMENT_ARRAY_BUFFER Enum = 0x8893
	STREAM_DRAW          Enum = 0x88E0
	STATIC_DRAW          Enum = 0x88E4
	DYNAMIC_DRAW         Enum = 0x88E8

	FRAGMENT_SHADER Enum = 0x8B30
	VERTEX_SHADER   Enum = 0x8B31
	COMPILE_STATUS  Enum = 0x8B81
	LINK_STATUS     Enum = 0x8B82
	INFO_LOG_LENGTH Enum = 0x8B84

	SHADER  Enum = 0x82E1
	PROGRAM Enum = 0x82E2

	DEPTH_COMPONENT16        Enum = 0x81A5
	DEPTH_STENCIL_ATTACHMENT Enum = 0x821A
	DEPTH24_STENCIL8         Enum = 0x88F0

	READ_FRAMEBUFFER                  Enum = 0x8CA8
	DRAW_FRAMEBUFFER                  Enum = 0x8CA9
	FRAMEBUFFER_BINDING               Enum = 0x8CA6
	FRAMEBUFFER_COMPLETE              Enum = 0x8CD5
	FRAMEBUFFER_UNSUPPORTED           Enum = 0x8CDD
	COLOR_ATTACHMENT0                 Enum = 0x8CE0
	DEPTH_ATTACHMENT                  Enum = 0x8D00
	STENCIL_ATTACHMENT                Enum = 0x8D20
	FRAMEBUFFER                       Enum = 0x8D40
	RENDERBUFFER                      Enum = 0x8D41
	FRAMEBUFFER_INCOMPLETE_ATTACHMENT Enum = 0x8CD6
)

// BlendFactor converts a gputypes blend factor to its GL enumerant.
// Unsupported factors map to ONE.
func BlendFactor(f gputypes.BlendFactor) Enum {
	switch f {
	case gputypes.BlendFactorZero:
		return ZERO
	case gputypes.BlendFactorOne:
		return ONE
	case gputypes.BlendFactorSrc:
		return SRC_COLOR
	case gputypes.BlendFactorOneMinusSrc:
		return ONE_MINUS_SRC_COLOR
	case gputypes.BlendFactorSrcAlpha:
		return SRC_ALPHA
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return ONE_MINUS_SRC_ALPHA
	case gputypes.BlendFactorDst:
		return DST_COLOR
	case gputypes.BlendFactorOneMinusDst:
		return ONE_MINUS_DST_COLOR
	case gputypes.BlendFactorDstAlpha:
		return DST_ALPHA
	case gputypes.BlendFactorOneMinusDstAlpha:
		return ONE_MINUS_DST_ALPHA
	default:
		return ONE
	}
}

// Filter converts a gputypes filter mode to its GL enumerant.
func Filter(m gputypes.FilterMode) Enum {
	if m == gputypes.FilterModeNearest {
		return NEAREST
	}
	return LINEAR
}

// Wrap converts a gputypes address mode to its GL enumerant.
func Wrap(m gputypes.AddressMode) Enum {
	if m == gputypes.AddressModeRepeat {
		return REPEAT
	}
	return CLAMP_TO_EDGE
}
