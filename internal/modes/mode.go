// Filter modes and shader variants
package modes

// FilterMode selects which filter runs and on which path. Exactly one is active.
type FilterMode int

const (
	None FilterMode = iota
	CpuGray
	CpuEdge
	CpuPixelate
	GpuGray
	GpuEdge
	GpuPixelate
)

var modeNames = map[FilterMode]string{
	None:        "NONE",
	CpuGray:     "CPU GRAY",
	CpuEdge:     "CPU EDGE",
	CpuPixelate: "CPU PIXELATE",
	GpuGray:     "GPU GRAY",
	GpuEdge:     "GPU EDGE",
	GpuPixelate: "GPU PIXELATE",
}

func (m FilterMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsCPU reports whether the mode is a host-side filter
func (m FilterMode) IsCPU() bool {
	return m == CpuGray || m == CpuEdge || m == CpuPixelate
}

// IsGPU reports whether the mode is a shader-side filter
func (m FilterMode) IsGPU() bool {
	return m == GpuGray || m == GpuEdge || m == GpuPixelate
}

// Shader returns the shader variant that displays this mode
func (m FilterMode) Shader() ShaderKind {
	switch m {
	case GpuGray:
		return ShaderGrayscale
	case GpuEdge:
		return ShaderEdge
	case GpuPixelate:
		return ShaderPixelate
	default:
		return ShaderDefault
	}
}

// ShaderKind identifies one vertex/fragment pair bound to the display surface
type ShaderKind int

const (
	ShaderDefault ShaderKind = iota
	ShaderGrayscale
	ShaderEdge
	ShaderPixelate
	ShaderTransform
)

func (k ShaderKind) String() string {
	switch k {
	case ShaderDefault:
		return "default"
	case ShaderGrayscale:
		return "grayscale"
	case ShaderEdge:
		return "edge"
	case ShaderPixelate:
		return "pixelate"
	case ShaderTransform:
		return "transform"
	}
	return "unknown"
}
