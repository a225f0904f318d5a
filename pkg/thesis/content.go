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
	"encoding/binary"

	jsoniter "github.com/json-iterator/go"
	"github.com/mentalblood0/thesis/pkg/objectid"
	"github.com/mentalblood0/thesis/pkg/thesiserr"
	"github.com/zeebo/xxh3"
)

var contentJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// contentVariant is the canonical-encoding discriminator:
// 0 = Text, 1 = Relation.
type contentVariant uint8

const (
	variantText     contentVariant = 0
	variantRelation contentVariant = 1
)

// Content is the tagged union carried by a Thesis: exactly one of Text
// or Relation is set.
type Content struct {
	Text     *Text
	Relation *Relation
}

// NewTextContent wraps t as a Content.
func NewTextContent(t Text) Content {
	return Content{Text: &t}
}

// NewRelationContent wraps r as a Content.
func NewRelationContent(r Relation) Content {
	return Content{Relation: &r}
}

// Validate checks the wrapped value's own invariants and that exactly
// one variant is present.
func (c Content) Validate() error {
	switch {
	case c.Text != nil && c.Relation == nil:
		return c.Text.Validate()
	case c.Relation != nil && c.Text == nil:
		return c.Relation.Validate()
	default:
		return thesiserr.New(thesiserr.EncodingFailure,
			"content must be exactly one of Text or Relation")
	}
}

// References returns the outgoing references: for Text, its resolved
// reference sequence; for Relation, [from, to].
func (c Content) References() []objectid.ObjectId {
	if c.Text != nil {
		return c.Text.References
	}
	if c.Relation != nil {
		return []objectid.ObjectId{c.Relation.From, c.Relation.To}
	}
	return nil
}

// canonicalEncode produces the fixed binary layout used to derive a
// Content's id: a variant discriminator byte, then length-prefixed
// fields in a stable order. Strings are u64-LE length prefixed; a
// Relation is from ‖ to ‖ kind.
func canonicalEncode(c Content) ([]byte, error) {
	var buf []byte
	switch {
	case c.Text != nil:
		buf = append(buf, byte(variantText))
		buf = appendU64(buf, uint64(len(c.Text.RawTextParts)))
		for _, part := range c.Text.RawTextParts {
			buf = appendString(buf, string(part))
		}
		buf = appendU64(buf, uint64(len(c.Text.References)))
		for _, ref := range c.Text.References {
			buf = append(buf, ref.Bytes()...)
		}
		if c.Text.StartWithReference {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	case c.Relation != nil:
		buf = append(buf, byte(variantRelation))
		buf = append(buf, c.Relation.From.Bytes()...)
		buf = append(buf, c.Relation.To.Bytes()...)
		buf = appendString(buf, string(c.Relation.Kind))
	default:
		return nil, thesiserr.New(thesiserr.EncodingFailure,
			"content must be exactly one of Text or Relation")
	}
	return buf, nil
}

func appendU64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendString(buf []byte, s string) []byte {
	buf = appendU64(buf, uint64(len(s)))
	return append(buf, s...)
}

// ContentID computes the content-derived ObjectId: xxh3-128 of the
// canonical encoding, rendered big-endian. Identity depends
// on content only, never on alias or tags (invariant I1).
func ContentID(c Content) (objectid.ObjectId, error) {
	encoded, err := canonicalEncode(c)
	if err != nil {
		return objectid.ObjectId{}, err
	}
	sum := xxh3.Hash128(encoded)
	be := sum.Bytes() // zeebo/xxh3 returns the 128-bit value as big-endian bytes
	return objectid.FromBytes(be[:])
}

// MarshalJSON renders Content in its persisted shape:
// {"Text": {...}} or {"Relation": {...}}.
func (c Content) MarshalJSON() ([]byte, error) {
	switch {
	case c.Text != nil:
		return contentJSON.Marshal(struct {
			Text *Text `json:"Text"`
		}{c.Text})
	case c.Relation != nil:
		return contentJSON.Marshal(struct {
			Relation *Relation `json:"Relation"`
		}{c.Relation})
	default:
		return nil, thesiserr.New(thesiserr.EncodingFailure,
			"content must be exactly one of Text or Relation")
	}
}

// UnmarshalJSON parses the persisted shape back into a Content.
func (c *Content) UnmarshalJSON(data []byte) error {
	var wrapper struct {
		Text     *Text     `json:"Text"`
		Relation *Relation `json:"Relation"`
	}
	if err := contentJSON.Unmarshal(data, &wrapper); err != nil {
		return thesiserr.Wrap(err, thesiserr.EncodingFailure, "decoding content")
	}
	c.Text = wrapper.Text
	c.Relation = wrapper.Relation
	return c.Validate()
}
