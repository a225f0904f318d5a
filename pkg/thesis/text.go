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

package thesis

import (
	"regexp"
	"strings"

	"github.com/mentalblood0/thesis/pkg/objectid"
	"github.com/mentalblood0/thesis/pkg/thesiserr"
)

// Text is an ordered interleaving of RawText spans and resolved
// references. RawTextParts and References are parallel sequences;
// StartWithReference disambiguates which sequence leads. Compose
// reproduces the original input byte-for-byte, modulo aliases
// rendering as their resolved id.
type Text struct {
	RawTextParts       []RawText       `json:"raw_text_parts"`
	References         []objectid.ObjectId `json:"references"`
	StartWithReference bool            `json:"start_with_reference"`
}

// bracketTokenRegex finds a bracketed reference token. The token itself
// is classified afterwards (id shape vs. alias) rather than by a second
// capture group, since Go's RE2 engine has no lookaround to do it inline.
var bracketTokenRegex = regexp.MustCompile(`\[([^\[\]]+)\]`)

// ParseText scans input left to right for bracketed reference tokens,
// resolving each one through resolver, and accumulates the text spans
// between them. Each resulting RawText part must individually validate.
func ParseText(input string, resolver Resolver) (Text, error) {
	var result Text
	lastEnd := 0
	matches := bracketTokenRegex.FindAllStringSubmatchIndex(input, -1)
	for _, m := range matches {
		fullStart, fullEnd := m[0], m[1]
		tokenStart, tokenEnd := m[2], m[3]
		token := input[tokenStart:tokenEnd]

		if fullStart == 0 {
			result.StartWithReference = true
		}

		before := input[lastEnd:fullStart]
		if before != "" {
			result.RawTextParts = append(result.RawTextParts, RawText(before))
		}

		ref, err := ParseReference(token)
		if err != nil {
			return Text{}, thesiserr.Wrap(err, thesiserr.InvalidSyntax,
				"can not parse reference token %q in text %q", token, input)
		}
		id, err := resolver.Resolve(ref)
		if err != nil {
			return Text{}, thesiserr.Wrap(err, thesiserr.UnknownAlias,
				"can not resolve reference %q in text %q", token, input)
		}
		result.References = append(result.References, id)

		lastEnd = fullEnd
	}
	if lastEnd < len(input) {
		remaining := input[lastEnd:]
		if remaining != "" {
			result.RawTextParts = append(result.RawTextParts, RawText(remaining))
		}
	}

	if err := result.Validate(); err != nil {
		return Text{}, err
	}
	return result, nil
}

// Compose reconstructs the textual form, rendering every reference as
// "[id]" regardless of whether it was originally written as an id or
// an alias.
func (t Text) Compose() string {
	var b strings.Builder
	if t.StartWithReference {
		for i, ref := range t.References {
			b.WriteByte('[')
			b.WriteString(ref.String())
			b.WriteByte(']')
			if i < len(t.RawTextParts) {
				b.WriteString(string(t.RawTextParts[i]))
			}
		}
	} else {
		for i, part := range t.RawTextParts {
			b.WriteString(string(part))
			if i < len(t.References) {
				b.WriteByte('[')
				b.WriteString(t.References[i].String())
				b.WriteByte(']')
			}
		}
	}
	return b.String()
}

// Validate checks that every raw text part is individually well-formed.
func (t Text) Validate() error {
	for _, part := range t.RawTextParts {
		if err := part.Validate(); err != nil {
			return err
		}
	}
	return nil
}
