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

// Package chestkv implements the abstract chest (pkg/chest) over
// go.etcd.io/bbolt: one bucket holding documents keyed by ObjectId, and
// one bucket per declared secondary index.
package chestkv

import (
	"encoding/json"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/mentalblood0/thesis/pkg/chest"
	"github.com/mentalblood0/thesis/pkg/objectid"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

var objectsBucket = []byte("objects")

// indexSpec names one secondary index declared at chest creation.
type indexSpec struct {
	kind   chest.IndexKind
	path   chest.Path
	bucket []byte
}

// declaredIndexes lists the secondary indexes this chest maintains:
// alias (Direct), content.Relation.from (Direct), content.Relation.to
// (Direct), and content.Text.references (Array). Direct index buckets
// here store a set of member ids per value rather than a single id,
// since Relation.from/to are not unique per value.
var declaredIndexes = []indexSpec{
	{chest.Direct, chest.PathSegments("alias"), []byte("idx_alias")},
	{chest.Direct, chest.PathSegments("content", "Relation", "from"), []byte("idx_relation_from")},
	{chest.Direct, chest.PathSegments("content", "Relation", "to"), []byte("idx_relation_to")},
	{chest.Array, chest.PathSegments("content", "Text", "references"), []byte("idx_text_references")},
}

// DB is the bbolt-backed chest.
type DB struct {
	bolt *bolt.DB
}

// Open creates or opens a chest file at path, declaring the fixed set of
// buckets this store needs.
func Open(path string) (*DB, error) {
	b, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "opening chest file %q", path)
	}
	db := &DB{bolt: b}
	err = b.Update(func(btx *bolt.Tx) error {
		if _, err := btx.CreateBucketIfNotExists(objectsBucket); err != nil {
			return err
		}
		for _, spec := range declaredIndexes {
			if _, err := btx.CreateBucketIfNotExists(spec.bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = b.Close()
		return nil, errors.Wrap(err, "initializing chest buckets")
	}
	return db, nil
}

// Close releases the underlying bbolt file.
func (d *DB) Close() error {
	return d.bolt.Close()
}

// LockAllAndWrite acquires bbolt's single read-write transaction for the
// duration of scope; an error returned by scope rolls the transaction
// back, and so does a panic in scope (bbolt's Update rolls back in a
// deferred call and lets the panic continue).
func (d *DB) LockAllAndWrite(scope func(chest.RwTx) error) error {
	return d.bolt.Update(func(btx *bolt.Tx) error {
		return scope(&rwTx{tx{btx}})
	})
}

// LockAllWritesAndRead acquires a read-only snapshot transaction,
// blocking writers but not other readers, for the duration of scope.
func (d *DB) LockAllWritesAndRead(scope func(chest.Tx) error) error {
	return d.bolt.View(func(btx *bolt.Tx) error {
		return scope(&tx{btx})
	})
}

// tx implements chest.Tx over one *bolt.Tx (read-only or read-write).
type tx struct {
	btx *bolt.Tx
}

func (t *tx) Get(id objectid.ObjectId, path chest.Path) (json.RawMessage, bool, error) {
	raw := t.btx.Bucket(objectsBucket).Get(id.Bytes())
	if raw == nil {
		return nil, false, nil
	}
	if len(path) == 0 {
		out := make([]byte, len(raw))
		copy(out, raw)
		return out, true, nil
	}
	value, found, err := navigateGet(raw, path)
	if err != nil {
		return nil, false, errors.Wrapf(err, "navigating object %s at path %v", id, path)
	}
	if !found {
		return nil, false, nil
	}
	encoded, err := jsonAPI.Marshal(value)
	if err != nil {
		return nil, false, errors.Wrapf(err, "encoding field at path %v of object %s", path, id)
	}
	return encoded, true, nil
}

func (t *tx) ContainsObjectWithID(id objectid.ObjectId) (bool, error) {
	return t.btx.Bucket(objectsBucket).Get(id.Bytes()) != nil, nil
}

func (t *tx) ContainsElement(id objectid.ObjectId, path chest.Path, value any) (bool, error) {
	_, found, err := t.elementIndex(id, path, value)
	return found, err
}

func (t *tx) GetElementIndex(id objectid.ObjectId, path chest.Path, value any) (int, bool, error) {
	return t.elementIndex(id, path, value)
}

func (t *tx) elementIndex(id objectid.ObjectId, path chest.Path, value any) (int, bool, error) {
	raw := t.btx.Bucket(objectsBucket).Get(id.Bytes())
	if raw == nil {
		return 0, false, nil
	}
	arrayValue, found, err := navigateGet(raw, path)
	if err != nil {
		return 0, false, errors.Wrapf(err, "navigating object %s at path %v", id, path)
	}
	if !found {
		return 0, false, nil
	}
	array, ok := arrayValue.([]any)
	if !ok {
		return 0, false, errors.Errorf("path %v of object %s is not an array", path, id)
	}
	target, err := canonicalJSON(value)
	if err != nil {
		return 0, false, err
	}
	for i, elem := range array {
		encoded, err := canonicalJSON(elem)
		if err != nil {
			return 0, false, err
		}
		if encoded == target {
			return i, true, nil
		}
	}
	return 0, false, nil
}

func (t *tx) Select(clauses []chest.MatchClause) (chest.ObjectIDIter, error) {
	var sets []map[objectid.ObjectId]struct{}
	for _, clause := range clauses {
		spec, err := findIndex(clause.Path)
		if err != nil {
			return nil, err
		}
		key, err := canonicalJSON(clause.Value)
		if err != nil {
			return nil, err
		}
		set := make(map[objectid.ObjectId]struct{})
		members := t.btx.Bucket(spec.bucket).Bucket([]byte(key))
		if members != nil {
			if err := members.ForEach(func(k, _ []byte) error {
				id, err := objectid.FromBytes(k)
				if err != nil {
					return err
				}
				set[id] = struct{}{}
				return nil
			}); err != nil {
				return nil, err
			}
		}
		sets = append(sets, set)
	}
	result := intersect(sets)
	return &sliceIDIter{ids: result}, nil
}

func (t *tx) Objects() (chest.ObjectIter, error) {
	cursor := t.btx.Bucket(objectsBucket).Cursor()
	return &cursorObjectIter{cursor: cursor}, nil
}

// rwTx adds the mutating operations over the same transaction.
type rwTx struct {
	tx
}

func (r *rwTx) InsertWithID(id objectid.ObjectId, value json.RawMessage) error {
	objects := r.btx.Bucket(objectsBucket)
	stored := make([]byte, len(value))
	copy(stored, value)
	if err := objects.Put(id.Bytes(), stored); err != nil {
		return err
	}
	var decoded any
	if err := jsonAPI.Unmarshal(value, &decoded); err != nil {
		return errors.Wrapf(err, "decoding inserted object %s for indexing", id)
	}
	for _, spec := range declaredIndexes {
		fieldValue, found := navigate(decoded, spec.path)
		if !found {
			continue
		}
		if spec.kind == chest.Array {
			array, ok := fieldValue.([]any)
			if !ok {
				continue
			}
			for _, elem := range array {
				if err := r.addToIndex(spec, elem, id); err != nil {
					return err
				}
			}
		} else {
			if err := r.addToIndex(spec, fieldValue, id); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *rwTx) addToIndex(spec indexSpec, value any, id objectid.ObjectId) error {
	key, err := canonicalJSON(value)
	if err != nil {
		return err
	}
	bucket := r.btx.Bucket(spec.bucket)
	members, err := bucket.CreateBucketIfNotExists([]byte(key))
	if err != nil {
		return err
	}
	return members.Put(id.Bytes(), []byte{})
}

func (r *rwTx) removeFromIndex(spec indexSpec, value any, id objectid.ObjectId) error {
	key, err := canonicalJSON(value)
	if err != nil {
		return err
	}
	bucket := r.btx.Bucket(spec.bucket)
	members := bucket.Bucket([]byte(key))
	if members == nil {
		return nil
	}
	return members.Delete(id.Bytes())
}

func (r *rwTx) Push(id objectid.ObjectId, path chest.Path, value any) error {
	objects := r.btx.Bucket(objectsBucket)
	raw := objects.Get(id.Bytes())
	if raw == nil {
		return errors.Errorf("can not push to missing object %s", id)
	}
	var decoded any
	if err := jsonAPI.Unmarshal(raw, &decoded); err != nil {
		return errors.Wrapf(err, "decoding object %s", id)
	}
	updated, err := navigateAppend(decoded, path, value)
	if err != nil {
		return errors.Wrapf(err, "pushing to object %s at path %v", id, path)
	}
	encoded, err := jsonAPI.Marshal(updated)
	if err != nil {
		return errors.Wrapf(err, "encoding object %s", id)
	}
	return objects.Put(id.Bytes(), encoded)
}

func (r *rwTx) Update(id objectid.ObjectId, path chest.Path, value any) error {
	objects := r.btx.Bucket(objectsBucket)
	raw := objects.Get(id.Bytes())
	if raw == nil {
		return errors.Errorf("can not update missing object %s", id)
	}
	var decoded any
	if err := jsonAPI.Unmarshal(raw, &decoded); err != nil {
		return errors.Wrapf(err, "decoding object %s", id)
	}

	oldValue, hadOld := navigate(decoded, path)
	updated, err := navigateSet(decoded, path, value)
	if err != nil {
		return errors.Wrapf(err, "updating object %s at path %v", id, path)
	}
	encoded, err := jsonAPI.Marshal(updated)
	if err != nil {
		return errors.Wrapf(err, "encoding object %s", id)
	}
	if err := objects.Put(id.Bytes(), encoded); err != nil {
		return err
	}

	if spec, err := findIndex(path); err == nil {
		if hadOld {
			if err := r.removeFromIndex(spec, oldValue, id); err != nil {
				return err
			}
		}
		if value != nil {
			if err := r.addToIndex(spec, value, id); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *rwTx) Remove(id objectid.ObjectId, path chest.Path) error {
	objects := r.btx.Bucket(objectsBucket)
	raw := objects.Get(id.Bytes())
	if raw == nil {
		return nil
	}
	var decoded any
	if err := jsonAPI.Unmarshal(raw, &decoded); err != nil {
		return errors.Wrapf(err, "decoding object %s", id)
	}

	if len(path) == 0 {
		for _, spec := range declaredIndexes {
			fieldValue, found := navigate(decoded, spec.path)
			if !found {
				continue
			}
			if spec.kind == chest.Array {
				if array, ok := fieldValue.([]any); ok {
					for _, elem := range array {
						if err := r.removeFromIndex(spec, elem, id); err != nil {
							return err
						}
					}
				}
			} else {
				if err := r.removeFromIndex(spec, fieldValue, id); err != nil {
					return err
				}
			}
		}
		return objects.Delete(id.Bytes())
	}

	oldValue, hadOld := navigate(decoded, path)
	updated, err := navigateRemove(decoded, path)
	if err != nil {
		return errors.Wrapf(err, "removing from object %s at path %v", id, path)
	}
	encoded, err := jsonAPI.Marshal(updated)
	if err != nil {
		return errors.Wrapf(err, "encoding object %s", id)
	}
	if err := objects.Put(id.Bytes(), encoded); err != nil {
		return err
	}
	if spec, err := findIndex(path); err == nil && hadOld {
		if err := r.removeFromIndex(spec, oldValue, id); err != nil {
			return err
		}
	}
	return nil
}

func findIndex(path chest.Path) (indexSpec, error) {
	for _, spec := range declaredIndexes {
		if pathEqual(spec.path, path) {
			return spec, nil
		}
	}
	return indexSpec{}, errors.Errorf("path %v is not a declared index", path)
}

func pathEqual(a, b chest.Path) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func canonicalJSON(value any) (string, error) {
	encoded, err := jsonAPI.Marshal(value)
	if err != nil {
		return "", errors.Wrap(err, "encoding index value")
	}
	return string(encoded), nil
}

func intersect(sets []map[objectid.ObjectId]struct{}) []objectid.ObjectId {
	if len(sets) == 0 {
		return nil
	}
	smallest := sets[0]
	for _, s := range sets[1:] {
		if len(s) < len(smallest) {
			smallest = s
		}
	}
	var result []objectid.ObjectId
	for id := range smallest {
		inAll := true
		for _, s := range sets {
			if _, ok := s[id]; !ok {
				inAll = false
				break
			}
		}
		if inAll {
			result = append(result, id)
		}
	}
	return result
}

type sliceIDIter struct {
	ids []objectid.ObjectId
	pos int
}

func (s *sliceIDIter) Next() (objectid.ObjectId, bool, error) {
	if s.pos >= len(s.ids) {
		return objectid.ObjectId{}, false, nil
	}
	id := s.ids[s.pos]
	s.pos++
	return id, true, nil
}

type cursorObjectIter struct {
	cursor  *bolt.Cursor
	started bool
}

func (c *cursorObjectIter) Next() (chest.Object, bool, error) {
	var k, v []byte
	if !c.started {
		k, v = c.cursor.First()
		c.started = true
	} else {
		k, v = c.cursor.Next()
	}
	if k == nil {
		return chest.Object{}, false, nil
	}
	id, err := objectid.FromBytes(k)
	if err != nil {
		return chest.Object{}, false, err
	}
	value := make([]byte, len(v))
	copy(value, v)
	return chest.Object{ID: id, Value: value}, true, nil
}

// navigate walks decoded (the result of unmarshaling a document into
// `any`) along path, returning the value found there, if any.
func navigate(decoded any, path chest.Path) (any, bool) {
	current := decoded
	for _, segment := range path {
		switch typed := current.(type) {
		case map[string]any:
			value, ok := typed[segment]
			if !ok {
				return nil, false
			}
			current = value
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(typed) {
				return nil, false
			}
			current = typed[idx]
		default:
			return nil, false
		}
	}
	if current == nil {
		return nil, false
	}
	return current, true
}

func navigateGet(raw json.RawMessage, path chest.Path) (any, bool, error) {
	var decoded any
	if err := jsonAPI.Unmarshal(raw, &decoded); err != nil {
		return nil, false, err
	}
	value, found := navigate(decoded, path)
	return value, found, nil
}

// navigateSet replaces the field at path in decoded by value, modifying
// decoded's maps in place (creating intermediate maps as needed), and
// returns the updated value.
func navigateSet(decoded any, path chest.Path, value any) (any, error) {
	if len(path) == 0 {
		return value, nil
	}
	m, ok := decoded.(map[string]any)
	if !ok {
		return nil, errors.Errorf("can not set field on non-object value")
	}
	if len(path) == 1 {
		m[path[0]] = value
		return m, nil
	}
	child, ok := m[path[0]]
	if !ok || child == nil {
		child = map[string]any{}
	}
	updatedChild, err := navigateSet(child, path[1:], value)
	if err != nil {
		return nil, err
	}
	m[path[0]] = updatedChild
	return m, nil
}

// navigateAppend appends value to the array found at path, modifying
// decoded in place, and returns the updated value.
func navigateAppend(decoded any, path chest.Path, value any) (any, error) {
	current, found := navigate(decoded, path)
	var array []any
	if found {
		existing, ok := current.([]any)
		if !ok {
			return nil, errors.Errorf("path %v is not an array", path)
		}
		array = existing
	}
	array = append(array, value)
	return navigateSet(decoded, path, array)
}

// navigateRemove deletes the field or array element at path, modifying
// decoded in place, and returns the updated value. If the last segment
// parses as an integer and
// its parent is an array, that element is spliced out; otherwise the map
// key is deleted.
func navigateRemove(decoded any, path chest.Path) (any, error) {
	if len(path) == 0 {
		return nil, errors.New("can not remove with empty path; delete the object instead")
	}
	parentPath := path[:len(path)-1]
	last := path[len(path)-1]
	parent, found := navigate(decoded, parentPath)
	if !found {
		return decoded, nil
	}
	switch typed := parent.(type) {
	case []any:
		idx, err := strconv.Atoi(last)
		if err != nil || idx < 0 || idx >= len(typed) {
			return nil, errors.Errorf("index %q out of range for path %v", last, path)
		}
		updated := append(append([]any{}, typed[:idx]...), typed[idx+1:]...)
		return navigateSet(decoded, parentPath, updated)
	case map[string]any:
		delete(typed, last)
		return navigateSet(decoded, parentPath, typed)
	default:
		return nil, errors.Errorf("path %v does not address a removable container", path)
	}
}
