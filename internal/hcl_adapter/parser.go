package hcl_adapter

import (
	"fmt"
	"runtime"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/buildgrid/internal/descriptor"
	"github.com/specialistvlad/buildgrid/internal/quintet"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// whenAttr conditions a collected block on a quintet pattern.
const whenAttr = "when"

// collections maps nested block types to the list attribute they fill.
var collections = map[string]string{
	"target":       "targets",
	"source":       "sources",
	"export":       "exports",
	"external_dep": "external_deps",
}

// Parser is the HCL implementation of descriptor.Parser.
type Parser struct {
	evalCtx *hcl.EvalContext
}

var _ descriptor.Parser = (*Parser)(nil)

// NewParser returns a parser whose expressions can use `host.os`,
// `host.arch` and a small set of string and collection functions.
func NewParser() *Parser {
	return &Parser{evalCtx: &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"host": cty.ObjectVal(map[string]cty.Value{
				"os":   cty.StringVal(runtime.GOOS),
				"arch": cty.StringVal(runtime.GOARCH),
			}),
		},
		Functions: map[string]function.Function{
			"concat":  stdlib.ConcatFunc,
			"format":  stdlib.FormatFunc,
			"join":    stdlib.JoinFunc,
			"lower":   stdlib.LowerFunc,
			"merge":   stdlib.MergeFunc,
			"replace": stdlib.ReplaceFunc,
			"split":   stdlib.SplitFunc,
			"upper":   stdlib.UpperFunc,
		},
	}}
}

// Parse implements descriptor.Parser.
func (p *Parser) Parse(filename string, src []byte) ([]descriptor.Record, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, &descriptor.ParseError{Filename: filename, Err: diags}
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, &descriptor.ParseError{Filename: filename, Err: fmt.Errorf("unexpected body type %T", file.Body)}
	}
	if len(body.Attributes) > 0 {
		names := make([]string, 0, len(body.Attributes))
		for name := range body.Attributes {
			names = append(names, name)
		}
		sort.Strings(names)
		attr := body.Attributes[names[0]]
		return nil, &descriptor.ParseError{Filename: filename, Err: fmt.Errorf("%s: top-level attribute %q is not allowed, declarations are blocks", attr.SrcRange, attr.Name)}
	}

	records := make([]descriptor.Record, 0, len(body.Blocks))
	for _, block := range body.Blocks {
		attrs, err := p.blockAttrs(block)
		if err != nil {
			return nil, &descriptor.ParseError{Filename: filename, Err: err}
		}
		records = append(records, descriptor.Record{Kind: block.Type, Attrs: attrs})
	}
	return records, nil
}

func (p *Parser) blockAttrs(block *hclsyntax.Block) (map[string]any, error) {
	if len(block.Labels) > 1 {
		return nil, fmt.Errorf("%s: %s block takes at most one label", block.TypeRange, block.Type)
	}
	attrs, err := p.bodyAttrs(block.Body)
	if err != nil {
		return nil, err
	}
	if len(block.Labels) == 1 {
		if _, dup := attrs["name"]; dup {
			return nil, fmt.Errorf("%s: %s %q sets name twice", block.TypeRange, block.Type, block.Labels[0])
		}
		attrs["name"] = block.Labels[0]
	}
	return attrs, nil
}

func (p *Parser) bodyAttrs(body *hclsyntax.Body) (map[string]any, error) {
	attrs := make(map[string]any, len(body.Attributes))
	for name, attr := range body.Attributes {
		val, diags := attr.Expr.Value(p.evalCtx)
		if diags.HasErrors() {
			return nil, diags
		}
		native, err := ctyToNative(val)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", attr.SrcRange, err)
		}
		attrs[name] = native
	}

	groups := map[string]*group{}
	var order []string
	for _, block := range body.Blocks {
		value, err := p.blockAttrs(block)
		if err != nil {
			return nil, err
		}
		key, collected := collections[block.Type]
		if !collected {
			key = block.Type
		}
		if _, clash := body.Attributes[key]; clash {
			return nil, fmt.Errorf("%s: %s block conflicts with attribute %q", block.TypeRange, block.Type, key)
		}
		if !collected {
			if _, dup := attrs[key]; dup {
				return nil, fmt.Errorf("%s: duplicate %s block", block.TypeRange, block.Type)
			}
			attrs[key] = value
			continue
		}
		g, ok := groups[key]
		if !ok {
			g = &group{byPattern: map[string][]any{}}
			groups[key] = g
			order = append(order, key)
		}
		if err := g.add(block, value); err != nil {
			return nil, err
		}
	}
	for _, key := range order {
		attrs[key] = groups[key].value()
	}
	return attrs, nil
}

// group collects the blocks of one collection type.
type group struct {
	all         []any
	byPattern   map[string][]any
	conditional bool
}

func (g *group) add(block *hclsyntax.Block, value map[string]any) error {
	pattern := quintet.Wildcard.String()
	if raw, ok := value[whenAttr]; ok {
		s, isString := raw.(string)
		if !isString {
			return fmt.Errorf("%s: %s must be a quintet string", block.TypeRange, whenAttr)
		}
		q, err := quintet.Parse(s)
		if err != nil {
			return fmt.Errorf("%s: %w", block.TypeRange, err)
		}
		pattern = q.String()
		delete(value, whenAttr)
		g.conditional = true
	}
	g.all = append(g.all, value)
	g.byPattern[pattern] = append(g.byPattern[pattern], value)
	return nil
}

func (g *group) value() any {
	if !g.conditional {
		return g.all
	}
	out := make(map[string]any, len(g.byPattern))
	for pattern, values := range g.byPattern {
		out[pattern] = values
	}
	return out
}
