package script

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/matjam/beambar/internal/widget"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

var labelType = cty.Object(map[string]cty.Type{
	"text":  cty.String,
	"color": cty.Number,
})

var commandType = cty.Object(map[string]cty.Type{
	"status": cty.Number,
	"stdout": cty.String,
	"stderr": cty.String,
})

func labelVal(text string, c widget.RGBA) cty.Value {
	return cty.ObjectVal(map[string]cty.Value{
		"text":  cty.StringVal(text),
		"color": cty.NumberUIntVal(uint64(c)),
	})
}

// Functions returns the functions available to a layout script.
func (h *Host) Functions() map[string]function.Function {
	return map[string]function.Function{
		// general purpose
		"abs":        stdlib.AbsoluteFunc,
		"ceil":       stdlib.CeilFunc,
		"chomp":      stdlib.ChompFunc,
		"coalesce":   stdlib.CoalesceFunc,
		"concat":     stdlib.ConcatFunc,
		"floor":      stdlib.FloorFunc,
		"format":     stdlib.FormatFunc,
		"join":       stdlib.JoinFunc,
		"jsondecode": stdlib.JSONDecodeFunc,
		"jsonencode": stdlib.JSONEncodeFunc,
		"length":     stdlib.LengthFunc,
		"lower":      stdlib.LowerFunc,
		"max":        stdlib.MaxFunc,
		"min":        stdlib.MinFunc,
		"regex":      stdlib.RegexFunc,
		"replace":    stdlib.ReplaceFunc,
		"split":      stdlib.SplitFunc,
		"substr":     stdlib.SubstrFunc,
		"tonumber":   stdlib.MakeToFunc(cty.Number),
		"tostring":   stdlib.MakeToFunc(cty.String),
		"trimspace":  stdlib.TrimSpaceFunc,
		"upper":      stdlib.UpperFunc,

		// bar specific
		"color":     colorFunc,
		"rgba":      rgbaFunc,
		"label":     labelFunc,
		"command":   h.commandFunc(),
		"read_file": h.readFileFunc(),
		"env":       h.envFunc(),
		"now":       h.nowFunc(),
		"ago":       h.agoFunc(),
		"bytes":     bytesFunc,
		"comma":     commaFunc,
	}
}

var colorFunc = function.New(&function.Spec{
	Params: []function.Parameter{{Name: "hex", Type: cty.String}},
	Type:   function.StaticReturnType(cty.Number),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		c, err := widget.ParseHex(args[0].AsString())
		if err != nil {
			return cty.UnknownVal(cty.Number), err
		}
		return cty.NumberUIntVal(uint64(c)), nil
	},
})

var rgbaFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "r", Type: cty.Number},
		{Name: "g", Type: cty.Number},
		{Name: "b", Type: cty.Number},
		{Name: "a", Type: cty.Number},
	},
	Type: function.StaticReturnType(cty.Number),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		var packed uint32
		for i, arg := range args {
			var channel uint8
			if err := gocty.FromCtyValue(arg, &channel); err != nil {
				return cty.UnknownVal(cty.Number), function.NewArgErrorf(i, "channel must be 0-255")
			}
			packed = packed<<8 | uint32(channel)
		}
		return cty.NumberUIntVal(uint64(packed)), nil
	},
})

var labelFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "text", Type: cty.String},
		{Name: "color", Type: cty.Number},
	},
	Type: function.StaticReturnType(labelType),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		var c uint32
		if err := gocty.FromCtyValue(args[1], &c); err != nil {
			return cty.UnknownVal(labelType), function.NewArgErrorf(1, "color must be a packed 0xRRGGBBAA value")
		}
		return labelVal(args[0].AsString(), widget.RGBA(c)), nil
	},
})

func (h *Host) commandFunc() function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{{Name: "program", Type: cty.String}},
		VarParam: &function.Parameter{
			Name: "args",
			Type: cty.String,
		},
		Type: function.StaticReturnType(commandType),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			argv := make([]string, len(args))
			for i, a := range args {
				argv[i] = a.AsString()
			}

			res := h.run(argv)
			return cty.ObjectVal(map[string]cty.Value{
				"status": cty.NumberIntVal(int64(res.Status)),
				"stdout": cty.StringVal(res.Stdout),
				"stderr": cty.StringVal(res.Stderr),
			}), nil
		},
	})
}

func (h *Host) readFileFunc() function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{{Name: "path", Type: cty.String}},
		Type:   function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			b, err := h.readFile(args[0].AsString())
			if err != nil {
				return cty.UnknownVal(cty.String), err
			}
			return cty.StringVal(toValidUTF8(b)), nil
		},
	})
}

func (h *Host) envFunc() function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{{Name: "name", Type: cty.String}},
		Type:   function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			return cty.StringVal(h.getenv(args[0].AsString())), nil
		},
	})
}

// now formats the current time with a Go reference layout.
func (h *Host) nowFunc() function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{{Name: "layout", Type: cty.String}},
		Type:   function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			return cty.StringVal(h.now().Format(args[0].AsString())), nil
		},
	})
}

func (h *Host) agoFunc() function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{{Name: "unix", Type: cty.Number}},
		Type:   function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			var sec int64
			if err := gocty.FromCtyValue(args[0], &sec); err != nil {
				return cty.UnknownVal(cty.String), function.NewArgError(0, err)
			}
			return cty.StringVal(humanize.RelTime(time.Unix(sec, 0), h.now(), "ago", "from now")), nil
		},
	})
}

var bytesFunc = function.New(&function.Spec{
	Params: []function.Parameter{{Name: "n", Type: cty.Number}},
	Type:   function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		var n uint64
		if err := gocty.FromCtyValue(args[0], &n); err != nil {
			return cty.UnknownVal(cty.String), function.NewArgError(0, err)
		}
		return cty.StringVal(humanize.Bytes(n)), nil
	},
})

var commaFunc = function.New(&function.Spec{
	Params: []function.Parameter{{Name: "n", Type: cty.Number}},
	Type:   function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		var n int64
		if err := gocty.FromCtyValue(args[0], &n); err != nil {
			return cty.UnknownVal(cty.String), function.NewArgError(0, fmt.Errorf("comma: %w", err))
		}
		return cty.StringVal(humanize.Comma(n)), nil
	},
})
