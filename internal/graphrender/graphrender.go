// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

// Package graphrender renders a stream of theses as a Graphviz DOT
// graph: one node per thesis, plus edges for text references and
// relation endpoints.
package graphrender

import (
	"fmt"
	"html"
	"strings"

	"github.com/emicklei/dot"

	"github.com/mentalblood0/thesis/pkg/objectid"
	"github.com/mentalblood0/thesis/pkg/thesis"
)

// ExternalizeRelationNodes names how a relation thesis is drawn. Render
// does not read it: every relation thesis gets its own graph node, for
// any value of this option.
type ExternalizeRelationNodes int

const (
	ExternalizeNone ExternalizeRelationNodes = iota
	ExternalizeRelated
	ExternalizeAll
)

// ShowReferences controls whether text-reference edges are drawn:
// ShowReferencesNone draws none, and ShowReferencesMentioned and
// ShowReferencesAll both draw an edge for every reference.
type ShowReferences int

const (
	ShowReferencesNone ShowReferences = iota
	ShowReferencesMentioned
	ShowReferencesAll
)

// Options carries the rendering knobs.
type Options struct {
	WrapWidth                int
	ExternalizeRelationNodes ExternalizeRelationNodes
	ShowReferences           ShowReferences
}

// DefaultOptions is the most permissive rendering: every node shown,
// every relation externalized, every reference drawn.
func DefaultOptions() Options {
	return Options{
		WrapWidth:                80,
		ExternalizeRelationNodes: ExternalizeAll,
		ShowReferences:           ShowReferencesAll,
	}
}

// ThesisSource yields stored theses one at a time, in the same
// Next/error shape used throughout the chest and store layers.
type ThesisSource interface {
	Next() (objectid.ObjectId, thesis.Thesis, bool, error)
}

// Render consumes source to exhaustion and builds a *dot.Graph: a
// plaintext HTML-like label per node (header is the alias if set,
// otherwise the id; body is the composed text or the relation kind),
// a dotted unheaded edge per text reference, and a tee-arrow/plain-arrow
// pair of edges per relation, routed through the relation's own node.
func Render(source ThesisSource, opts Options) (*dot.Graph, error) {
	g := dot.NewGraph(dot.Directed)

	for {
		id, t, ok, err := source.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}

		header := id.String()
		if t.Alias != nil {
			header = string(*t.Alias)
		}

		node := g.Node(id.String())
		switch {
		case t.Content.Text != nil:
			node.Attr("label", dot.HTML(textNodeLabel(header, t.Content.Text.Compose(), opts.WrapWidth)))
			node.Attr("shape", "plaintext")
			if opts.ShowReferences != ShowReferencesNone {
				for _, ref := range t.Content.Text.References {
					g.Edge(node, g.Node(ref.String())).
						Attr("arrowhead", "none").
						Attr("color", "grey").
						Attr("style", "dotted")
				}
			}
		case t.Content.Relation != nil:
			node.Attr("label", dot.HTML(relationNodeLabel(header, string(t.Content.Relation.Kind))))
			node.Attr("shape", "plaintext")
			fromNode := g.Node(t.Content.Relation.From.String())
			toNode := g.Node(t.Content.Relation.To.String())
			g.Edge(fromNode, node).Attr("dir", "back").Attr("arrowtail", "tee")
			g.Edge(node, toNode)
		}
	}

	return g, nil
}

func textNodeLabel(header, body string, wrapWidth int) string {
	var b strings.Builder
	b.WriteString(`<TABLE BORDER="2" CELLSPACING="0" CELLPADDING="8">`)
	fmt.Fprintf(&b, `<TR><TD BORDER="1" SIDES="b">%s</TD></TR>`, html.EscapeString(header))
	fmt.Fprintf(&b, `<TR><TD BORDER="0">%s</TD></TR>`, wrap(body, wrapWidth))
	b.WriteString(`</TABLE>`)
	return b.String()
}

func relationNodeLabel(header, kind string) string {
	var b strings.Builder
	b.WriteString(`<TABLE CELLSPACING="0" STYLE="dashed">`)
	fmt.Fprintf(&b, `<TR><TD SIDES="b" STYLE="dashed">%s</TD></TR>`, html.EscapeString(header))
	fmt.Fprintf(&b, `<TR><TD BORDER="0">%s</TD></TR>`, html.EscapeString(kind))
	b.WriteString(`</TABLE>`)
	return b.String()
}

// wrap HTML-escapes s and inserts a line break every wrapWidth runes;
// wrapWidth <= 0 disables wrapping.
func wrap(s string, wrapWidth int) string {
	if wrapWidth <= 0 {
		return html.EscapeString(s)
	}
	var b strings.Builder
	for i, r := range []rune(s) {
		if i > 0 && i%wrapWidth == 0 {
			b.WriteString("<BR/>")
		}
		b.WriteString(html.EscapeString(string(r)))
	}
	return b.String()
}
