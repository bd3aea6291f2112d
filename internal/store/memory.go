package store

import (
	"cmp"
	"context"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory keeps documents as BSON maps so that filters see the same field
// names as MongoDB does. Unique lists the fields behaving like unique
// indexes.
type Memory[T any] struct {
	name   string
	unique []string

	mu    sync.RWMutex
	docs  map[primitive.ObjectID]bson.M
	order []primitive.ObjectID
}

var _ Repository[struct{}] = (*Memory[struct{}])(nil)

func NewMemory[T any](name string, unique ...string) *Memory[T] {
	return &Memory[T]{
		name:   name,
		unique: unique,
		docs:   make(map[primitive.ObjectID]bson.M),
	}
}

func (m *Memory[T]) encode(doc *T) (bson.M, primitive.ObjectID, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, primitive.NilObjectID, errors.Wrapf(err, "%s: marshal", m.name)
	}
	var out bson.M
	if err = bson.Unmarshal(raw, &out); err != nil {
		return nil, primitive.NilObjectID, errors.Wrapf(err, "%s: unmarshal", m.name)
	}
	id, ok := out["_id"].(primitive.ObjectID)
	if !ok || id.IsZero() {
		return nil, primitive.NilObjectID, errors.Errorf("%s: document has no _id", m.name)
	}
	return out, id, nil
}

func (m *Memory[T]) decode(doc bson.M) (*T, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: marshal", m.name)
	}
	var out T
	if err = bson.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrapf(err, "%s: unmarshal", m.name)
	}
	return &out, nil
}

// normalize round-trips a document so values written through Set or Push
// take their BSON decoded types.
func (m *Memory[T]) normalize(doc bson.M) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: marshal", m.name)
	}
	var out bson.M
	if err = bson.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrapf(err, "%s: unmarshal", m.name)
	}
	if _, err = m.decode(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Memory[T]) checkUnique(doc bson.M, id primitive.ObjectID) error {
	for _, field := range m.unique {
		val, ok := lookup(doc, field)
		if !ok || val == nil || val == "" {
			continue
		}
		for otherID, other := range m.docs {
			if otherID == id {
				continue
			}
			if got, ok := lookup(other, field); ok && equal(got, val) {
				return errors.Wrapf(ErrDuplicate, "%s.%s", m.name, field)
			}
		}
	}
	return nil
}

func (m *Memory[T]) Insert(_ context.Context, doc *T) error {
	encoded, id, err := m.encode(doc)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.docs[id]; exists {
		return errors.Wrapf(ErrDuplicate, "%s._id", m.name)
	}
	if err = m.checkUnique(encoded, id); err != nil {
		return err
	}
	m.docs[id] = encoded
	m.order = append(m.order, id)
	return nil
}

func (m *Memory[T]) Get(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return m.FindOne(ctx, bson.M{"_id": id})
}

func (m *Memory[T]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	docs, err := m.Find(ctx, filter, FindOptions{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, errors.Wrap(ErrNotFound, m.name)
	}
	return &docs[0], nil
}

func (m *Memory[T]) matching(filter bson.M, newest bool) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(m.order))
	for i := range m.order {
		id := m.order[i]
		if newest {
			id = m.order[len(m.order)-1-i]
		}
		if matches(m.docs[id], filter) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (m *Memory[T]) Find(_ context.Context, filter bson.M, opts ...FindOptions) ([]T, error) {
	o := mergeOptions(opts)

	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.matching(filter, o.Newest)
	if o.SortBy != "" {
		slices.SortStableFunc(ids, func(a, b primitive.ObjectID) int {
			va, _ := lookup(m.docs[a], o.SortBy)
			vb, _ := lookup(m.docs[b], o.SortBy)
			return compareValues(va, vb)
		})
	}
	if o.Skip >= int64(len(ids)) {
		ids = nil
	} else {
		ids = ids[o.Skip:]
	}
	if o.Limit > 0 && int64(len(ids)) > o.Limit {
		ids = ids[:o.Limit]
	}

	docs := make([]T, 0, len(ids))
	for _, id := range ids {
		doc, err := m.decode(m.docs[id])
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

func (m *Memory[T]) Count(_ context.Context, filter bson.M) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.matching(filter, false))), nil
}

func (m *Memory[T]) Replace(_ context.Context, id primitive.ObjectID, doc *T) error {
	encoded, _, err := m.encode(doc)
	if err != nil {
		return err
	}
	encoded["_id"] = id

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[id]; !ok {
		return errors.Wrap(ErrNotFound, m.name)
	}
	if err = m.checkUnique(encoded, id); err != nil {
		return err
	}
	m.docs[id] = encoded
	return nil
}

func (m *Memory[T]) modify(id primitive.ObjectID, fn func(doc bson.M)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[id]
	if !ok {
		return errors.Wrap(ErrNotFound, m.name)
	}
	working := copyMap(doc)
	fn(working)
	normalized, err := m.normalize(working)
	if err != nil {
		return err
	}
	if err = m.checkUnique(normalized, id); err != nil {
		return err
	}
	m.docs[id] = normalized
	return nil
}

func (m *Memory[T]) Set(_ context.Context, id primitive.ObjectID, fields bson.M) error {
	return m.modify(id, func(doc bson.M) {
		for path, val := range fields {
			setPath(doc, path, val)
		}
	})
}

func (m *Memory[T]) Push(_ context.Context, id primitive.ObjectID, field string, value interface{}) error {
	return m.modify(id, func(doc bson.M) {
		arr := bson.A{}
		if got, ok := lookup(doc, field); ok {
			if existing, isArr := got.(bson.A); isArr {
				arr = append(arr, existing...)
			}
		}
		setPath(doc, field, append(arr, value))
	})
}

func (m *Memory[T]) Pull(_ context.Context, field string, value interface{}) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, id := range m.order {
		doc := m.docs[id]
		got, ok := lookup(doc, field)
		if !ok {
			continue
		}
		arr, isArr := got.(bson.A)
		if !isArr {
			continue
		}
		kept := bson.A{}
		for _, el := range arr {
			if !equal(el, value) {
				kept = append(kept, el)
			}
		}
		if len(kept) != len(arr) {
			setPath(doc, field, kept)
			n++
		}
	}
	return n, nil
}

func (m *Memory[T]) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[id]; !ok {
		return errors.Wrap(ErrNotFound, m.name)
	}
	m.remove(id)
	return nil
}

func (m *Memory[T]) DeleteMany(_ context.Context, filter bson.M) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := m.matching(filter, false)
	for _, id := range ids {
		m.remove(id)
	}
	return int64(len(ids)), nil
}

func (m *Memory[T]) remove(id primitive.ObjectID) {
	delete(m.docs, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// filter evaluation

func matches(doc bson.M, filter bson.M) bool {
	for path, want := range filter {
		got, ok := lookup(doc, path)
		if op, isOp := want.(bson.M); isOp {
			if in, hasIn := op["$in"]; hasIn {
				if !ok || !matchIn(got, in) {
					return false
				}
				continue
			}
		}
		if !ok {
			if want == nil {
				continue
			}
			return false
		}
		if !matchValue(got, want) {
			return false
		}
	}
	return true
}

func matchValue(got, want interface{}) bool {
	if arr, ok := got.(bson.A); ok {
		for _, el := range arr {
			if equal(el, want) {
				return true
			}
		}
		return false
	}
	return equal(got, want)
}

func matchIn(got, in interface{}) bool {
	rv := reflect.ValueOf(in)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return false
	}
	for i := 0; i < rv.Len(); i++ {
		if matchValue(got, rv.Index(i).Interface()) {
			return true
		}
	}
	return false
}

func equal(a, b interface{}) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders missing values first, then numbers, strings and
// times by their natural order. Other types compare equal.
func compareValues(a, b interface{}) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return cmp.Compare(fa, fb)
		}
	}
	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return strings.Compare(sa, sb)
		}
	}
	if ta, ok := a.(primitive.DateTime); ok {
		if tb, ok := b.(primitive.DateTime); ok {
			return cmp.Compare(ta, tb)
		}
	}
	return 0
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func lookup(doc bson.M, path string) (interface{}, bool) {
	var cur interface{} = doc
	for _, part := range strings.Split(path, ".") {
		switch v := cur.(type) {
		case bson.M:
			next, ok := v[part]
			if !ok {
				return nil, false
			}
			cur = next
		case bson.D:
			next, ok := v.Map()[part]
			if !ok {
				return nil, false
			}
			cur = next
		default:
			return nil, false
		}
	}
	return cur, true
}

func setPath(doc bson.M, path string, val interface{}) {
	parts := strings.Split(path, ".")
	cur := doc
	for _, part := range parts[:len(parts)-1] {
		var next bson.M
		switch v := cur[part].(type) {
		case bson.M:
			next = v
		case bson.D:
			next = v.Map()
		default:
			next = bson.M{}
		}
		cur[part] = next
		cur = next
	}
	cur[parts[len(parts)-1]] = val
}

func copyMap(doc bson.M) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		if nested, ok := v.(bson.M); ok {
			out[k] = copyMap(nested)
			continue
		}
		out[k] = v
	}
	return out
}
