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

// Package objectid implements the content-derived identifier used to
// address every thesis in the store.
package objectid

import (
	"bytes"
	"encoding/base64"
	"regexp"

	"github.com/pkg/errors"
)

// Size is the width in bytes of an ObjectId: a 128-bit xxh3 digest.
const Size = 16

// stringLen is the length of the base64url text form of an ObjectId with
// padding stripped: a 22-char base64url id.
const stringLen = 22

// ObjectId is a 128-bit value opaque to consumers. Equality and order are
// bytewise.
type ObjectId [Size]byte

var idShapeRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{22}$`)

// LooksLikeID reports whether token has the textual shape of an ObjectId
// (22 url-safe base64 characters), without decoding it. Used by the text
// tokenizer and the command parser to decide whether a bracketed token or
// a ref is an id or an alias.
func LooksLikeID(token string) bool {
	return idShapeRegex.MatchString(token)
}

// FromBytes wraps a 16-byte digest as an ObjectId. b must be exactly Size
// bytes long.
func FromBytes(b []byte) (ObjectId, error) {
	var id ObjectId
	if len(b) != Size {
		return id, errors.Errorf("object id must be %d bytes, got %d", Size, len(b))
	}
	copy(id[:], b)
	return id, nil
}

// Parse decodes the 22-character base64url text form of an ObjectId.
func Parse(s string) (ObjectId, error) {
	var id ObjectId
	if !idShapeRegex.MatchString(s) {
		return id, errors.Errorf("%q is not a well-formed object id", s)
	}
	decoded, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return id, errors.Wrapf(err, "decoding object id %q", s)
	}
	return FromBytes(decoded)
}

// String renders the URL-safe base64 text form, without padding.
func (id ObjectId) String() string {
	return base64.RawURLEncoding.EncodeToString(id[:])
}

// Bytes returns the raw 16-byte digest.
func (id ObjectId) Bytes() []byte {
	return id[:]
}

// Compare orders two ObjectId values bytewise.
func (id ObjectId) Compare(other ObjectId) int {
	return bytes.Compare(id[:], other[:])
}

// Less reports whether id sorts strictly before other.
func (id ObjectId) Less(other ObjectId) bool {
	return id.Compare(other) < 0
}

// MarshalText implements encoding.TextMarshaler so ObjectId round-trips
// through json-iterator and yaml as its 22-character string form.
func (id ObjectId) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ObjectId) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func init() {
	if stringLen != base64.RawURLEncoding.EncodedLen(Size) {
		panic("objectid: stringLen inconsistent with Size")
	}
}
