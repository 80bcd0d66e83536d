package config

import (
	"math/big"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// decodeHcl evaluates the HCL body into plain Go values and maps them onto
// the YAML field names. Expressions may reference environment variables as
// env.NAME. Labelled `query "Name" { sql = "..." }` blocks become summary
// queries.
func decodeHcl(filename string, data []byte, cfg *Config) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return diags
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return hcl.Diagnostics{{Severity: hcl.DiagError, Summary: "unexpected HCL body type"}}
	}

	values, err := bodyValues(body, evalContext())
	if err != nil {
		return err
	}

	encoded, err := yaml.Marshal(values)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(encoded, cfg)
}

func evalContext() *hcl.EvalContext {
	env := map[string]cty.Value{}
	for _, entry := range os.Environ() {
		if key, value, ok := strings.Cut(entry, "="); ok && hclsyntax.ValidIdentifier(key) {
			env[key] = cty.StringVal(value)
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": cty.ObjectVal(env)},
	}
}

func bodyValues(body *hclsyntax.Body, ctx *hcl.EvalContext) (map[string]interface{}, error) {
	values := map[string]interface{}{}

	for name, attr := range body.Attributes {
		val, diags := attr.Expr.Value(ctx)
		if diags.HasErrors() {
			return nil, diags
		}
		values[name] = ctyToGo(val)
	}

	var queries []interface{}
	for _, block := range body.Blocks {
		nested, err := bodyValues(block.Body, ctx)
		if err != nil {
			return nil, err
		}
		if block.Type == "query" && len(block.Labels) == 1 {
			queries = append(queries, map[string]interface{}{
				"name":  block.Labels[0],
				"query": nested["sql"],
			})
			continue
		}
		values[block.Type] = nested
	}
	if len(queries) > 0 {
		values["summary"] = map[string]interface{}{"queries": queries}
	}
	return values, nil
}

func ctyToGo(val cty.Value) interface{} {
	if !val.IsKnown() || val.IsNull() {
		return nil
	}

	switch {
	case val.Type().Equals(cty.String):
		return val.AsString()
	case val.Type().Equals(cty.Bool):
		return val.True()
	case val.Type().Equals(cty.Number):
		bf := val.AsBigFloat()
		if i, acc := bf.Int64(); acc == big.Exact {
			return i
		}
		f, _ := bf.Float64()
		return f
	case val.Type().IsListType() || val.Type().IsTupleType() || val.Type().IsSetType():
		var list []interface{}
		for _, elem := range val.AsValueSlice() {
			list = append(list, ctyToGo(elem))
		}
		return list
	case val.Type().IsMapType() || val.Type().IsObjectType():
		m := map[string]interface{}{}
		for key, v := range val.AsValueMap() {
			m[key] = ctyToGo(v)
		}
		return m
	default:
		return val.GoString()
	}
}
