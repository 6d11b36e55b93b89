package cache

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Codec converts table values to and from the bytes kept in a Tier.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// JSONCodec encodes values with encoding/json.
type JSONCodec[V any] struct{}

// Encode implements Codec.
func (JSONCodec[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }

// Decode implements Codec.
func (JSONCodec[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}

// Table memoizes one function. Keys are canonical argument encodings.
type Table[V any] struct {
	name  string
	reg   *Registry
	codec Codec[V]

	mu      sync.RWMutex
	entries map[string]V
	epoch   uint64 // bumped by clear; fills that straddle a clear are dropped
	group   singleflight.Group
}

// NewTable registers a table named name with r. A nil codec keeps the table
// in memory only. Registering the same name twice panics.
func NewTable[V any](r *Registry, name string, codec Codec[V]) *Table[V] {
	t := &Table[V]{
		name:    name,
		reg:     r,
		codec:   codec,
		entries: make(map[string]V),
	}
	r.register(t)
	return t
}

// Name returns the table name.
func (t *Table[V]) Name() string { return t.name }

// Len returns the number of memoized entries.
func (t *Table[V]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Peek returns a memoized value without computing it.
func (t *Table[V]) Peek(key string) (V, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.entries[key]
	return v, ok
}

// Get returns the value memoized under key, calling fill on a miss. Errors
// from fill are returned and not memoized.
func (t *Table[V]) Get(ctx context.Context, key string, fill func() (V, error)) (V, error) {
	if v, ok := t.Peek(key); ok {
		t.reg.metrics.hits.WithLabelValues(t.name).Inc()
		return v, nil
	}

	res, err, _ := t.group.Do(key, func() (any, error) {
		t.mu.RLock()
		v, ok := t.entries[key]
		epoch := t.epoch
		t.mu.RUnlock()
		if ok {
			t.reg.metrics.hits.WithLabelValues(t.name).Inc()
			return v, nil
		}

		if v, ok := t.load(ctx, key); ok {
			t.reg.metrics.tierHits.WithLabelValues(t.name).Inc()
			t.store(key, v, epoch)
			return v, nil
		}

		t.reg.metrics.misses.WithLabelValues(t.name).Inc()
		v, err := fill()
		if err != nil {
			return v, err
		}
		t.store(key, v, epoch)
		t.save(ctx, key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	v, _ := res.(V)
	return v, nil
}

func (t *Table[V]) store(key string, v V, epoch uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.epoch == epoch {
		t.entries[key] = v
	}
}

func (t *Table[V]) clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[string]V)
	t.epoch++
}

// load consults the tier. Tier failures are logged and treated as misses.
func (t *Table[V]) load(ctx context.Context, key string) (V, bool) {
	var zero V
	if t.codec == nil || t.reg.tier == nil {
		return zero, false
	}
	data, ok, err := t.reg.tier.Load(ctx, t.name, key)
	if err != nil {
		t.reg.logger.Warn("cache tier load failed",
			zap.String("table", t.name), zap.String("key", key), zap.Error(err))
		return zero, false
	}
	if !ok {
		return zero, false
	}
	v, err := t.codec.Decode(data)
	if err != nil {
		t.reg.logger.Warn("cache tier entry undecodable",
			zap.String("table", t.name), zap.String("key", key), zap.Error(err))
		return zero, false
	}
	return v, true
}

func (t *Table[V]) save(ctx context.Context, key string, v V) {
	if t.codec == nil || t.reg.tier == nil {
		return
	}
	data, err := t.codec.Encode(v)
	if err == nil {
		err = t.reg.tier.Save(ctx, t.name, key, data)
	}
	if err != nil {
		t.reg.logger.Warn("cache tier save failed",
			zap.String("table", t.name), zap.String("key", key), zap.Error(err))
	}
}
