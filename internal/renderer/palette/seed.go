package palette

import (
	"fmt"
	"sort"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/dshills/scriptedit/internal/renderer/core"
	"github.com/dshills/scriptedit/internal/renderer/highlight"
)

// tokenSources lists, per attribute, the chroma token types whose colour
// seeds it. The first type the style defines wins.
var tokenSources = map[string][]chroma.TokenType{
	highlight.AttrNormal:     {chroma.Text},
	highlight.AttrKeyword:    {chroma.Keyword},
	highlight.AttrOperator:   {chroma.Operator, chroma.Punctuation},
	highlight.AttrNumbers:    {chroma.LiteralNumber},
	highlight.AttrString:     {chroma.LiteralString},
	highlight.AttrSpecial:    {chroma.LiteralStringEscape, chroma.LiteralStringInterpol},
	highlight.AttrComments:   {chroma.Comment},
	highlight.AttrSelf:       {chroma.NameBuiltinPseudo, chroma.KeywordPseudo},
	highlight.AttrClassArg:   {chroma.NameOther, chroma.NameBuiltin},
	highlight.AttrClassName:  {chroma.NameClass},
	highlight.AttrInterm:     {chroma.KeywordConstant, chroma.KeywordReserved},
	highlight.AttrDefName:    {chroma.NameFunction},
	highlight.AttrCalled:     {chroma.NameBuiltin, chroma.NameFunction},
	highlight.AttrDecorators: {chroma.NameDecorator},

	highlight.AttrFlags:      {chroma.NameAttribute, chroma.NameTag},
	highlight.AttrVariables:  {chroma.NameVariable},
	highlight.AttrProcName:   {chroma.NameFunction},
	highlight.AttrCalledExpr: {chroma.NameBuiltin},

	highlight.AttrInfo:      {chroma.Comment},
	highlight.AttrWarning:   {chroma.GenericHeading, chroma.NameDecorator, chroma.Keyword},
	highlight.AttrError:     {chroma.GenericError, chroma.Error, chroma.NameException},
	highlight.AttrSuccess:   {chroma.GenericInserted, chroma.LiteralString},
	highlight.AttrTraceback: {chroma.GenericTraceback, chroma.GenericDeleted, chroma.NameException},
}

// ChromaStyles returns the names of the chroma styles palettes can be
// seeded from.
func ChromaStyles() []string {
	names := make([]string, 0, len(styles.Registry))
	for name := range styles.Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Seed derives a palette for kind from the chroma style named style. The
// palette's theme is the style name.
func Seed(kind highlight.Kind, style string) (*Palette, error) {
	cs, ok := styles.Registry[style]
	if !ok {
		return nil, fmt.Errorf("%w: chroma style %q", ErrThemeNotFound, style)
	}

	bg := cs.Get(chroma.Background)
	normal := core.RGB(204, 204, 204)
	if bg.Colour.IsSet() {
		normal = colourOf(bg.Colour)
	}
	colors := map[string]core.Color{highlight.AttrNormal: normal}
	if bg.Background.IsSet() {
		colors[highlight.AttrBackground] = colourOf(bg.Background)
	} else {
		colors[highlight.AttrBackground] = core.RGB(255, 255, 255)
	}

	for _, attr := range highlight.Attributes(kind) {
		sources, ok := tokenSources[attr]
		if !ok {
			continue
		}
		if c, ok := pick(cs, sources); ok {
			colors[attr] = c
		} else if _, ok := colors[attr]; !ok {
			colors[attr] = normal
		}
	}
	return New(kind, style, colors), nil
}

// pick returns the colour of the first source the style sets explicitly,
// or the inherited colour of the first source.
func pick(cs *chroma.Style, sources []chroma.TokenType) (core.Color, bool) {
	for _, tt := range sources {
		if !cs.Has(tt) {
			continue
		}
		if e := cs.Get(tt); e.Colour.IsSet() {
			return colourOf(e.Colour), true
		}
	}
	if e := cs.Get(sources[0]); e.Colour.IsSet() {
		return colourOf(e.Colour), true
	}
	return core.Color{}, false
}

func colourOf(c chroma.Colour) core.Color {
	return core.RGB(c.Red(), c.Green(), c.Blue())
}
