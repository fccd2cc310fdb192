package config

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

const documentHeader = "# PyWall settings. Sections and keys you add here are kept across upgrades.\n"

// document is the in-memory form of the settings file. Edits go through
// hclwrite so unrelated content survives a round trip untouched.
type document struct {
	file *hclwrite.File
}

func parseDocument(data []byte, filename string) (*document, error) {
	f, diags := hclwrite.ParseConfig(data, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, &CorruptError{Path: filename, Diags: diags}
	}
	return &document{file: f}, nil
}

func newDocument(schema Schema) *document {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	body.AppendUnstructuredTokens(hclwrite.Tokens{
		{Type: hclsyntax.TokenComment, Bytes: []byte(documentHeader)},
	})
	d := &document{file: f}
	for _, sec := range schema.Sections {
		for _, k := range sec.Keys {
			v, _ := schema.Default(sec.Name, k.Name)
			d.set(sec.Name, k.Name, v)
		}
	}
	return d
}

// block returns the unlabeled block for a section. Labeled blocks of the
// same type belong to the user and are never treated as sections.
func (d *document) block(section string) *hclwrite.Block {
	for _, b := range d.file.Body().Blocks() {
		if b.Type() == section && len(b.Labels()) == 0 {
			return b
		}
	}
	return nil
}

func (d *document) hasSection(section string) bool {
	return d.block(section) != nil
}

// ensureSection returns the section block, appending it if absent.
func (d *document) ensureSection(section string) (*hclwrite.Block, bool) {
	if b := d.block(section); b != nil {
		return b, false
	}
	body := d.file.Body()
	if len(body.Blocks()) > 0 || len(body.Attributes()) > 0 {
		body.AppendNewline()
	}
	return body.AppendNewBlock(section, nil), true
}

func (d *document) get(section, key string) (string, bool) {
	b := d.block(section)
	if b == nil {
		return "", false
	}
	attr := b.Body().GetAttribute(key)
	if attr == nil {
		return "", false
	}
	return exprString(attr.Expr()), true
}

// set writes a string attribute and reports whether the section had to be
// created.
func (d *document) set(section, key, value string) bool {
	b, created := d.ensureSection(section)
	b.Body().SetAttributeValue(key, cty.StringVal(value))
	return created
}

// sections returns every unlabeled block as a flat map, user additions
// included.
func (d *document) sections() map[string]map[string]string {
	out := make(map[string]map[string]string)
	for _, b := range d.file.Body().Blocks() {
		if len(b.Labels()) != 0 {
			continue
		}
		kv := out[b.Type()]
		if kv == nil {
			kv = make(map[string]string)
			out[b.Type()] = kv
		}
		for name, attr := range b.Body().Attributes() {
			kv[name] = exprString(attr.Expr())
		}
	}
	return out
}

func (d *document) bytes() []byte {
	return hclwrite.Format(d.file.Bytes())
}

// exprString evaluates a literal attribute expression to its string form.
// Hand-edited values such as `recursive = true` convert through cty; an
// expression that cannot be evaluated without context is returned as its
// source text.
func exprString(e *hclwrite.Expression) string {
	src := e.BuildTokens(nil).Bytes()
	raw := strings.TrimSpace(string(src))

	expr, diags := hclsyntax.ParseExpression(src, "", hcl.InitialPos)
	if diags.HasErrors() {
		return raw
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() || val.IsNull() || !val.IsWhollyKnown() {
		return raw
	}
	str, err := convert.Convert(val, cty.String)
	if err != nil {
		return raw
	}
	return str.AsString()
}
