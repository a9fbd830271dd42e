// Package murphi2xml implements the murphi2xml driver (spec §4.H): a
// complete dump of the resolved IR as an XML document, one element per IR
// node kind. Elements carry no source-position attributes, and no schema
// file ships with this package.
// No pack repo imports a third-party XML library directly (see DESIGN.md),
// so this renders XML through encoding/xml's MarshalIndent over tagged Go
// structs — the standard library's own native fit for a fixed element
// tree, rather than a string-built format like pkg/codegen's Go output.
package murphi2xml

import (
	"encoding/xml"
	"fmt"
	"math/big"

	"github.com/Smattr/rumur/pkg/ast"
)

// Generate renders model as an XML document.
func Generate(model *ast.Model) (string, error) {
	doc := buildModel(model)
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("murphi2xml: %w", err)
	}
	return xml.Header + string(out) + "\n", nil
}

type xmlModel struct {
	XMLName    xml.Name    `xml:"murphi-model"`
	Consts     []xmlConst  `xml:"const"`
	Types      []xmlType   `xml:"typedecl"`
	Vars       []xmlVar    `xml:"var"`
	Functions  []xmlFunc   `xml:"function"`
	Procedures []xmlFunc   `xml:"procedure"`
	Rules      []xmlRule   `xml:"rule"`
}

type xmlConst struct {
	Ident string `xml:"ident,attr"`
	Value string `xml:"value,attr"`
}

type xmlType struct {
	Ident string  `xml:"ident,attr"`
	Type  xmlTypeExpr `xml:"type"`
}

type xmlTypeExpr struct {
	Kind     string        `xml:"kind,attr"`
	Low      string        `xml:"low,attr,omitempty"`
	High     string        `xml:"high,attr,omitempty"`
	Size     string        `xml:"size,attr,omitempty"`
	Values   []string      `xml:"value,omitempty"`
	Index    *xmlTypeExpr  `xml:"index,omitempty"`
	Elem     *xmlTypeExpr  `xml:"elem,omitempty"`
	Fields   []xmlField    `xml:"field,omitempty"`
	RefName  string        `xml:"ref,attr,omitempty"`
}

type xmlField struct {
	Name string      `xml:"name,attr"`
	Type xmlTypeExpr `xml:"type"`
}

type xmlVar struct {
	Ident string      `xml:"ident,attr"`
	Type  xmlTypeExpr `xml:"type"`
}

type xmlParam struct {
	Ident string `xml:"ident,attr"`
	ByRef bool   `xml:"by-ref,attr"`
	Type  xmlTypeExpr `xml:"type"`
}

type xmlFunc struct {
	Ident  string       `xml:"ident,attr"`
	Params []xmlParam   `xml:"param"`
	Result *xmlTypeExpr `xml:"result,omitempty"`
	Body   xmlStmts     `xml:"body"`
}

type xmlRule struct {
	Kind  string   `xml:"kind,attr"`
	Ident string   `xml:"ident,attr"`
	Guard *xmlExpr `xml:"guard,omitempty"`
	Body  xmlStmts `xml:"body"`
	Nested []xmlRule `xml:"rule,omitempty"`
}

type xmlStmts struct {
	Stmts []xmlStmt `xml:"stmt"`
}

type xmlStmt struct {
	Kind   string    `xml:"kind,attr"`
	Text   string    `xml:"text,attr,omitempty"`
	Target *xmlExpr  `xml:"target,omitempty"`
	Value  *xmlExpr  `xml:"value,omitempty"`
	Body   xmlStmts  `xml:"body,omitempty"`
	Else   *xmlStmts `xml:"else,omitempty"`
}

type xmlExpr struct {
	Kind string `xml:"kind,attr"`
	Text string `xml:"text,attr,omitempty"`
}

func buildModel(m *ast.Model) *xmlModel {
	doc := &xmlModel{}
	for _, c := range m.Consts {
		v := "false"
		if c.IsBool {
			if c.Bool {
				v = "true"
			}
		} else if c.Value != nil {
			v = c.Value.String()
		}
		doc.Consts = append(doc.Consts, xmlConst{Ident: c.Ident, Value: v})
	}
	for _, t := range m.Types {
		doc.Types = append(doc.Types, xmlType{Ident: t.Ident, Type: buildType(t.Type)})
	}
	for _, v := range m.Vars {
		doc.Vars = append(doc.Vars, xmlVar{Ident: v.Ident, Type: buildType(v.Type)})
	}
	for _, f := range m.Functions {
		doc.Functions = append(doc.Functions, buildFunc(f.Ident, f.Params, f.ResultType, f.Body))
	}
	for _, p := range m.Procedures {
		doc.Procedures = append(doc.Procedures, buildFunc(p.Ident, p.Params, nil, p.Body))
	}
	for _, r := range m.Rules {
		doc.Rules = append(doc.Rules, buildRule(r))
	}
	return doc
}

func buildFunc(ident string, params []ast.Param, result ast.Type, body []ast.Stmt) xmlFunc {
	f := xmlFunc{Ident: ident, Body: buildStmts(body)}
	for _, p := range params {
		f.Params = append(f.Params, xmlParam{Ident: p.Ident, ByRef: p.ByRef, Type: buildType(p.Type)})
	}
	if result != nil {
		t := buildType(result)
		f.Result = &t
	}
	return f
}

func buildRule(r *ast.Rule) xmlRule {
	xr := xmlRule{Kind: ruleKindName(r.Kind), Ident: r.Ident, Body: buildStmts(r.Body)}
	if r.Guard != nil {
		ge := buildExpr(r.Guard)
		xr.Guard = &ge
	}
	for _, n := range r.Nested {
		xr.Nested = append(xr.Nested, buildRule(n))
	}
	return xr
}

func ruleKindName(k ast.RuleKind) string {
	switch k {
	case ast.StartstateRule:
		return "startstate"
	case ast.SimpleRule:
		return "rule"
	case ast.InvariantRule:
		return "invariant"
	case ast.LivenessRule:
		return "liveness"
	case ast.CoverRule:
		return "cover"
	case ast.RuleSetRule:
		return "ruleset"
	case ast.AliasRule:
		return "alias"
	default:
		return "unknown"
	}
}

func buildType(t ast.Type) xmlTypeExpr {
	switch t := t.(type) {
	case nil:
		return xmlTypeExpr{Kind: "void"}
	case *ast.Boolean:
		return xmlTypeExpr{Kind: "boolean"}
	case *ast.Range:
		return xmlTypeExpr{Kind: "range", Low: bigString(t.Low), High: bigString(t.High)}
	case *ast.Enum:
		return xmlTypeExpr{Kind: "enum", Values: append([]string{}, t.Values...)}
	case *ast.Scalarset:
		return xmlTypeExpr{Kind: "scalarset", Size: bigString(t.Size)}
	case *ast.Array:
		idx, elem := buildType(t.Index), buildType(t.Elem)
		return xmlTypeExpr{Kind: "array", Index: &idx, Elem: &elem}
	case *ast.Record:
		xt := xmlTypeExpr{Kind: "record"}
		for _, f := range t.Fields {
			xt.Fields = append(xt.Fields, xmlField{Name: f.Name, Type: buildType(f.Type)})
		}
		return xt
	case *ast.TypeRef:
		return xmlTypeExpr{Kind: "ref", RefName: t.Name}
	default:
		return xmlTypeExpr{Kind: "unknown"}
	}
}

func bigString(i *big.Int) string {
	if i == nil {
		return ""
	}
	return i.String()
}
