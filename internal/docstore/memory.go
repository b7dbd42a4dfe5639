package docstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used for unit tests and the standalone
// dev service. A single mutex covers every batch, so BatchWrite is genuinely
// all-or-nothing: ops are validated up front and only then applied.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
	clock       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]Document),
		clock:       func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the timestamp source. Tests use this to get
// deterministic createdAt ordering.
func (m *MemoryStore) SetClock(fn func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = fn
}

func (m *MemoryStore) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.clock()
}

func (m *MemoryStore) Get(ctx context.Context, path, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	col, ok := m.collections[path]
	if !ok {
		return nil, ErrNotFound
	}
	doc, ok := col[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := doc.Clone()
	out["_id"] = id
	return out, nil
}

func (m *MemoryStore) Query(ctx context.Context, path string, filters []Filter, order *OrderBy, limit int) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Document{}
	for id, doc := range m.collections[path] {
		if !matches(doc, id, filters) {
			continue
		}
		d := doc.Clone()
		d["_id"] = id
		out = append(out, d)
	}
	if order != nil {
		sort.SliceStable(out, func(i, j int) bool {
			less := lessValue(out[i][order.Field], out[j][order.Field])
			if order.Desc {
				return !less && !equalValue(out[i][order.Field], out[j][order.Field])
			}
			return less
		})
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) BatchWrite(ctx context.Context, ops []Op) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// validate first so a failing op leaves no partial state behind
	for _, op := range ops {
		switch op.Kind {
		case OpSet, OpMerge, OpDelete:
			// upserts and deletes cannot fail on state
		case OpUpdate:
			col, ok := m.collections[op.Path]
			if !ok {
				return fmt.Errorf("update %s/%s: %w", op.Path, op.ID, ErrNotFound)
			}
			if _, ok := col[op.ID]; !ok {
				return fmt.Errorf("update %s/%s: %w", op.Path, op.ID, ErrNotFound)
			}
		default:
			return fmt.Errorf("unknown op kind %q", op.Kind)
		}
		if op.ID == "" {
			return fmt.Errorf("batch op on %s missing id", op.Path)
		}
	}

	for _, op := range ops {
		col, ok := m.collections[op.Path]
		if !ok {
			col = make(map[string]Document)
			m.collections[op.Path] = col
		}
		switch op.Kind {
		case OpSet:
			col[op.ID] = op.Data.Clone()
		case OpMerge, OpUpdate:
			cur, ok := col[op.ID]
			if !ok {
				cur = Document{}
			}
			next := cur.Clone()
			for k, v := range op.Data {
				next[k] = cloneValue(v)
			}
			col[op.ID] = next
		case OpDelete:
			delete(col, op.ID)
		}
	}
	return nil
}

func matches(doc Document, id string, filters []Filter) bool {
	for _, f := range filters {
		var v interface{}
		if f.Field == "_id" {
			v = id
		} else {
			v = doc[f.Field]
		}
		switch f.Op {
		case "==", "":
			if !equalValue(v, f.Value) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func equalValue(a, b interface{}) bool {
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	return a == b
}

func lessValue(a, b interface{}) bool {
	switch ta := a.(type) {
	case time.Time:
		if tb, ok := b.(time.Time); ok {
			return ta.Before(tb)
		}
	case string:
		if tb, ok := b.(string); ok {
			return ta < tb
		}
	case int:
		if tb, ok := b.(int); ok {
			return ta < tb
		}
	case int64:
		if tb, ok := b.(int64); ok {
			return ta < tb
		}
	case float64:
		if tb, ok := b.(float64); ok {
			return ta < tb
		}
	}
	// missing or mixed-type fields sort last
	return a != nil && b == nil
}
