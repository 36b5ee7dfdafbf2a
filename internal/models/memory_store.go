package models

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-process TreeStore with the same path and null
// semantics as the realtime database. It backs the test suite and local
// development without a Firebase project.
type MemoryStore struct {
	mu   sync.RWMutex
	root map[string]any
	seq  int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{root: make(map[string]any)}
}

func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// toJSONValue round-trips v through JSON so the stored tree holds only
// maps, slices, numbers, strings and bools, exactly like the remote store.
func toJSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MemoryStore) lookup(parts []string) (any, bool) {
	var cur any = m.root
	for _, p := range parts {
		node, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = node[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func (m *MemoryStore) parentOf(parts []string, create bool) (map[string]any, bool) {
	cur := m.root
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur[p].(map[string]any)
		if !ok {
			if !create {
				return nil, false
			}
			next = make(map[string]any)
			cur[p] = next
		}
		cur = next
	}
	return cur, true
}

func (m *MemoryStore) Get(_ context.Context, path string, v any) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, ok := m.lookup(splitPath(path))
	if !ok || node == nil {
		// Absent node: leave v untouched, mirroring a null snapshot.
		return nil
	}
	data, err := json.Marshal(node)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (m *MemoryStore) Set(_ context.Context, path string, v any) error {
	val, err := toJSONValue(v)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	parts := splitPath(path)
	if len(parts) == 0 {
		return fmt.Errorf("cannot overwrite the tree root")
	}
	parent, _ := m.parentOf(parts, true)
	parent[parts[len(parts)-1]] = val
	return nil
}

func (m *MemoryStore) Push(ctx context.Context, path string, v any) (string, error) {
	m.mu.Lock()
	m.seq++
	key := fmt.Sprintf("-%013d-%s", m.seq, randSuffix(8))
	m.mu.Unlock()

	if v == nil {
		v = ""
	}
	if err := m.Set(ctx, path+"/"+key, v); err != nil {
		return "", err
	}
	return key, nil
}

func (m *MemoryStore) Update(_ context.Context, path string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	parts := splitPath(path)
	if len(parts) == 0 {
		return fmt.Errorf("cannot update the tree root")
	}
	parent, _ := m.parentOf(parts, true)
	leaf := parts[len(parts)-1]
	node, ok := parent[leaf].(map[string]any)
	if !ok {
		node = make(map[string]any)
		parent[leaf] = node
	}
	for k, v := range fields {
		val, err := toJSONValue(v)
		if err != nil {
			return err
		}
		node[k] = val
	}
	return nil
}

func (m *MemoryStore) OrderedLast(_ context.Context, path, child string, limit int) ([]StoreNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, ok := m.lookup(splitPath(path))
	if !ok {
		return nil, nil
	}
	children, ok := node.(map[string]any)
	if !ok {
		return nil, nil
	}

	type ordered struct {
		key  string
		sort float64
		raw  json.RawMessage
	}
	items := make([]ordered, 0, len(children))
	for key, val := range children {
		raw, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		var sortVal float64
		if obj, ok := val.(map[string]any); ok {
			if f, ok := obj[child].(float64); ok {
				sortVal = f
			}
		}
		items = append(items, ordered{key: key, sort: sortVal, raw: raw})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].sort == items[j].sort {
			return items[i].key < items[j].key
		}
		return items[i].sort < items[j].sort
	})
	if limit > 0 && len(items) > limit {
		items = items[len(items)-limit:]
	}

	out := make([]StoreNode, 0, len(items))
	for _, it := range items {
		out = append(out, StoreNode{Key: it.key, Raw: it.raw})
	}
	return out, nil
}

func (m *MemoryStore) Reserve(_ context.Context, path string, v any) (bool, error) {
	val, err := toJSONValue(v)
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	parts := splitPath(path)
	if len(parts) == 0 {
		return false, fmt.Errorf("cannot reserve the tree root")
	}
	parent, _ := m.parentOf(parts, true)
	leaf := parts[len(parts)-1]
	if existing, ok := parent[leaf]; ok && existing != nil {
		return false, nil
	}
	parent[leaf] = val
	return true, nil
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(suffixAlphabet))))
		if err != nil {
			b[i] = suffixAlphabet[0]
			continue
		}
		b[i] = suffixAlphabet[idx.Int64()]
	}
	return string(b)
}
