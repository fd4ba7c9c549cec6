// Package script evaluates HCL layout scripts into a bar configuration and
// a widget layout.
//
// A script looks like:
//
//	surface {
//	  height = 24
//	  anchor = "bottom"
//	}
//
//	locals {
//	  red = color("#ff0000")
//	}
//
//	widget "cpu" {
//	  refresh = "2s"
//	  draw    = label("cpu: ${trimspace(command("cpu-usage").stdout)}", local.red)
//	}
//
//	spacer {}
//
// Widgets and spacers are laid out in source order. A draw expression is
// evaluated on every draw and must yield null, a label object or a list of
// label objects.
package script

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/matjam/beambar/internal/types"
	"github.com/matjam/beambar/internal/widget"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

var (
	ErrAnchor   = errors.New(`anchor must be "top" or "bottom"`)
	ErrNoLayout = errors.New("script has no widget or spacer blocks")
	ErrSurface  = errors.New("invalid surface")
	ErrDraw     = errors.New("widget needs a draw attribute")
)

type Config struct {
	Surface types.SurfaceConfig
	Layout  []widget.Widget
}

var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "surface"},
		{Type: "locals"},
		{Type: "widget", LabelNames: []string{"title"}},
		{Type: "spacer"},
	},
}

type surfaceBlock struct {
	Height          *int64  `hcl:"height,optional"`
	ExclusiveHeight *int64  `hcl:"exclusive_height,optional"`
	Anchor          *string `hcl:"anchor,optional"`
}

type widgetBlock struct {
	Width   *int64         `hcl:"width,optional"`
	Refresh *string        `hcl:"refresh,optional"`
	Draw    hcl.Expression `hcl:"draw"`
}

func Load(path string, host *Host) (*Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return Evaluate(src, path, host)
}

func Evaluate(src []byte, filename string, host *Host) (*Config, error) {
	if host == nil {
		host = NewHost()
	}

	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, diags)
	}

	content, diags := file.Body.Content(rootSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode %s: %w", filename, diags)
	}

	base := &hcl.EvalContext{Functions: host.Functions()}

	locals, err := evalLocals(content.Blocks.OfType("locals"), base)
	if err != nil {
		return nil, err
	}
	evalCtx := base.NewChild()
	evalCtx.Variables = map[string]cty.Value{"local": cty.ObjectVal(locals)}

	cfg := &Config{Surface: types.DefaultSurface()}

	surfaces := content.Blocks.OfType("surface")
	if len(surfaces) > 1 {
		return nil, fmt.Errorf("%w: %s: only one surface block is allowed", ErrSurface, surfaces[1].DefRange)
	}
	if len(surfaces) == 1 {
		cfg.Surface, err = decodeSurface(surfaces[0], evalCtx)
		if err != nil {
			return nil, err
		}
	}

	for _, block := range content.Blocks {
		switch block.Type {
		case "spacer":
			if _, diags := block.Body.Content(&hcl.BodySchema{}); diags.HasErrors() {
				return nil, fmt.Errorf("spacer: %w", diags)
			}
			cfg.Layout = append(cfg.Layout, widget.Spacer{})
		case "widget":
			w, err := decodeWidget(block, evalCtx)
			if err != nil {
				return nil, err
			}
			cfg.Layout = append(cfg.Layout, w)
		}
	}

	if len(cfg.Layout) == 0 {
		return nil, fmt.Errorf("%s: %w", filename, ErrNoLayout)
	}

	log.Debugf("loaded %s: %d layout entries, height %d, anchor %s",
		filename, len(cfg.Layout), cfg.Surface.Height, cfg.Surface.Anchor())
	return cfg, nil
}

// evalLocals evaluates every locals attribute once. Locals cannot refer to
// each other.
func evalLocals(blocks hcl.Blocks, ctx *hcl.EvalContext) (map[string]cty.Value, error) {
	locals := make(map[string]cty.Value)
	for _, block := range blocks {
		attrs, diags := block.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("locals: %w", diags)
		}
		for name, attr := range attrs {
			if _, dup := locals[name]; dup {
				return nil, fmt.Errorf("locals: %s: duplicate local %q", attr.NameRange, name)
			}
			v, diags := attr.Expr.Value(ctx)
			if diags.HasErrors() {
				return nil, fmt.Errorf("local %q: %w", name, diags)
			}
			locals[name] = v
		}
	}
	return locals, nil
}

func decodeSurface(block *hcl.Block, ctx *hcl.EvalContext) (types.SurfaceConfig, error) {
	cfg := types.DefaultSurface()

	var sb surfaceBlock
	if diags := gohcl.DecodeBody(block.Body, ctx, &sb); diags.HasErrors() {
		return cfg, fmt.Errorf("surface: %w", diags)
	}

	if sb.Height != nil {
		if *sb.Height <= 0 || *sb.Height > math.MaxInt32 {
			return cfg, fmt.Errorf("%w: height %d must be positive", ErrSurface, *sb.Height)
		}
		cfg.Height = uint32(*sb.Height)
	}

	if sb.ExclusiveHeight != nil {
		if *sb.ExclusiveHeight < math.MinInt32 || *sb.ExclusiveHeight > math.MaxInt32 {
			return cfg, fmt.Errorf("%w: exclusive_height %d out of range", ErrSurface, *sb.ExclusiveHeight)
		}
		zone := int32(*sb.ExclusiveHeight)
		cfg.ExclusiveHeight = &zone
	}

	if sb.Anchor != nil {
		switch types.Anchor(*sb.Anchor) {
		case types.AnchorTop:
			cfg.Bottom = false
		case types.AnchorBottom:
			cfg.Bottom = true
		default:
			return cfg, fmt.Errorf("%w, got %q", ErrAnchor, *sb.Anchor)
		}
	}

	return cfg, nil
}

func decodeWidget(block *hcl.Block, ctx *hcl.EvalContext) (*widget.User, error) {
	title := block.Labels[0]

	// gohcl fills a missing hcl.Expression field with a null literal.
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("widget %q: %w", title, diags)
	}
	if _, ok := attrs["draw"]; !ok {
		return nil, fmt.Errorf("widget %q: %w", title, ErrDraw)
	}

	var wb widgetBlock
	if diags := gohcl.DecodeBody(block.Body, ctx, &wb); diags.HasErrors() {
		return nil, fmt.Errorf("widget %q: %w", title, diags)
	}

	w := &widget.User{Title: title}

	if wb.Width != nil {
		if *wb.Width < 0 {
			return nil, fmt.Errorf("widget %q: width must not be negative", title)
		}
		w.WidthHint = int(*wb.Width)
	}

	if wb.Refresh != nil {
		d, err := time.ParseDuration(*wb.Refresh)
		if err != nil {
			return nil, fmt.Errorf("widget %q: refresh: %w", title, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("widget %q: refresh must not be negative", title)
		}
		w.Refresh = d
	}

	expr := wb.Draw
	w.Draw = func() ([]widget.Label, error) {
		v, diags := expr.Value(ctx)
		if diags.HasErrors() {
			return nil, diags
		}
		return Labels(v)
	}

	return w, nil
}

// Labels converts a draw result into labels. Null draws nothing.
func Labels(v cty.Value) ([]widget.Label, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("%w: value is not known", widget.ErrUnrecognizedInstruction)
	}

	ty := v.Type()
	switch {
	case ty.IsObjectType():
		l, err := toLabel(v)
		if err != nil {
			return nil, err
		}
		return []widget.Label{l}, nil
	case ty.IsTupleType() || ty.IsListType():
		var labels []widget.Label
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			if elem.IsNull() {
				continue
			}
			l, err := toLabel(elem)
			if err != nil {
				return nil, err
			}
			labels = append(labels, l)
		}
		return labels, nil
	}

	return nil, fmt.Errorf("%w: got %s", widget.ErrUnrecognizedInstruction, ty.FriendlyName())
}

func toLabel(v cty.Value) (widget.Label, error) {
	ty := v.Type()
	if !ty.IsObjectType() || !ty.HasAttribute("text") {
		return widget.Label{}, fmt.Errorf("%w: expected a label object, got %s", widget.ErrUnrecognizedInstruction, ty.FriendlyName())
	}

	text, err := convert.Convert(v.GetAttr("text"), cty.String)
	if err != nil || text.IsNull() {
		return widget.Label{}, fmt.Errorf("%w: label text must be a string", widget.ErrUnrecognizedInstruction)
	}

	l := widget.Label{Text: text.AsString(), Color: widget.White}
	if ty.HasAttribute("color") && !v.GetAttr("color").IsNull() {
		c, err := toColor(v.GetAttr("color"))
		if err != nil {
			return widget.Label{}, fmt.Errorf("%w: label color: %w", widget.ErrUnrecognizedInstruction, err)
		}
		l.Color = c
	}
	return l, nil
}

// toColor accepts a packed number or a hex string.
func toColor(v cty.Value) (widget.RGBA, error) {
	if v.Type() == cty.String {
		return widget.ParseHex(v.AsString())
	}
	var c uint32
	if err := gocty.FromCtyValue(v, &c); err != nil {
		return 0, err
	}
	return widget.RGBA(c), nil
}
