package types

type Anchor string

const (
	AnchorTop    Anchor = "top"
	AnchorBottom Anchor = "bottom"
)

// Edge bits of zwlr_layer_surface_v1.anchor.
const (
	EdgeTop    uint32 = 1
	EdgeBottom uint32 = 2
	EdgeLeft   uint32 = 4
	EdgeRight  uint32 = 8
)

type Layer string

const (
	LayerBackground Layer = "background"
	LayerBottom     Layer = "bottom"
	LayerTop        Layer = "top"
	LayerOverlay    Layer = "overlay"
)

// Value returns the zwlr_layer_shell_v1.layer enum value.
func (l Layer) Value() (uint32, bool) {
	switch l {
	case LayerBackground:
		return 0, true
	case LayerBottom:
		return 1, true
	case LayerTop:
		return 2, true
	case LayerOverlay:
		return 3, true
	}
	return 0, false
}

const DefaultHeight uint32 = 32

// SurfaceConfig is the bar geometry requested by a layout script. It is
// fixed for the lifetime of the process.
type SurfaceConfig struct {
	Height          uint32
	ExclusiveHeight *int32
	Bottom          bool
}

func DefaultSurface() SurfaceConfig {
	return SurfaceConfig{Height: DefaultHeight}
}

func (c SurfaceConfig) Anchor() Anchor {
	if c.Bottom {
		return AnchorBottom
	}
	return AnchorTop
}

// Edges maps the anchor onto the single layer-surface edge it sticks to.
func (c SurfaceConfig) Edges() uint32 {
	if c.Bottom {
		return EdgeBottom
	}
	return EdgeTop
}

// ExclusiveZone falls back to the bar height. Negative values are passed
// through so the bar can overlap other surfaces.
func (c SurfaceConfig) ExclusiveZone() int32 {
	if c.ExclusiveHeight != nil {
		return *c.ExclusiveHeight
	}
	return int32(c.Height)
}
