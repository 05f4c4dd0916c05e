package palette

import (
	"bytes"
	"fmt"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"

	"github.com/dshills/scriptedit/internal/renderer/core"
)

func components(c core.Color) []int {
	t := c.Triple()
	if c.A != 255 {
		return []int{t[0], t[1], t[2], int(c.A)}
	}
	return t[:]
}

// ExportJSON renders p in the theme file format, attributes in display
// order.
func ExportJSON(p *Palette) ([]byte, error) {
	out := []byte("{}")
	for _, attr := range p.Attributes() {
		c, _ := p.Color(attr)
		var err error
		out, err = sjson.SetBytes(out, attr, components(c))
		if err != nil {
			return nil, fmt.Errorf("export %s.%s: %w", p.Kind(), attr, err)
		}
	}
	return pretty.PrettyOptions(out, &pretty.Options{Width: 80, Indent: "  "}), nil
}

// ExportYAML renders p as a YAML theme file with one flow sequence per
// attribute.
func ExportYAML(p *Palette) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, attr := range p.Attributes() {
		c, _ := p.Color(attr)
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, v := range components(c) {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(v)})
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: attr},
			seq,
		)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("export %s: %w", p.Kind(), err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
