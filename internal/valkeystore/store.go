// Package valkeystore keeps ordered collections of JSON documents on Valkey.
//
// A collection of kind k under prefix p uses the keys:
//
//	{p:k}:<name>  the JSON document
//	{p:k}.index   sorted set of names scored by insertion sequence
//	{p:k}.seq     insertion sequence counter
//
// The {p:k} hash tag keeps a collection in one cluster slot, which the
// scripts touching several of its keys require.
//
// Failures of the store itself are reported as serviceerr.ErrStorage.
package valkeystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/valkey-io/valkey-go"

	"github.com/yogaflow/yoga-sessions/internal/serviceerr"
)

var insertScript = valkey.NewLuaScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
local seq = redis.call('INCR', KEYS[3])
redis.call('SET', KEYS[1], ARGV[2])
redis.call('ZADD', KEYS[2], seq, ARGV[1])
return 1
`)

var replaceScript = valkey.NewLuaScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
if KEYS[1] ~= KEYS[2] then
	if redis.call('EXISTS', KEYS[2]) == 1 then
		return -1
	end
	local score = redis.call('ZSCORE', KEYS[3], ARGV[1])
	redis.call('DEL', KEYS[1])
	redis.call('ZREM', KEYS[3], ARGV[1])
	redis.call('ZADD', KEYS[3], score, ARGV[2])
end
redis.call('SET', KEYS[2], ARGV[3])
return 1
`)

var removeScript = valkey.NewLuaScript(`
local document = redis.call('GET', KEYS[1])
if not document then
	return false
end
redis.call('DEL', KEYS[1])
redis.call('ZREM', KEYS[2], ARGV[1])
return document
`)

// Collection stores documents of type T keyed by a unique name.
// Name uniqueness and ordering are maintained atomically by server-side scripts.
type Collection[T any] struct {
	valkey valkey.Client
	prefix string
	kind   string
}

func NewCollection[T any](valkeyClient valkey.Client, prefix, kind string) *Collection[T] {
	prefix = strings.TrimSuffix(prefix, ":")
	return &Collection[T]{
		valkey: valkeyClient,
		prefix: prefix,
		kind:   kind,
	}
}

// Insert stores a new document. It returns serviceerr.ErrDuplicateName if the name is taken.
func (c *Collection[T]) Insert(ctx context.Context, name string, doc T) error {
	bytes, err := c.encode(doc)
	if err != nil {
		return fmt.Errorf("encoding data: %w", err)
	}

	keys := []string{c.key(name), c.indexKey(), c.seqKey()}
	inserted, err := insertScript.Exec(ctx, c.valkey, keys, []string{name, string(bytes)}).AsInt64()
	if err != nil {
		return fmt.Errorf("executing insert script: %w", storageErr(err))
	}

	if inserted == 0 {
		return serviceerr.ErrDuplicateName
	}

	return nil
}

// Replace overwrites the document stored under name with doc stored under newName.
// A rename keeps the original insertion position.
func (c *Collection[T]) Replace(ctx context.Context, name, newName string, doc T) error {
	bytes, err := c.encode(doc)
	if err != nil {
		return fmt.Errorf("encoding data: %w", err)
	}

	keys := []string{c.key(name), c.key(newName), c.indexKey()}
	result, err := replaceScript.Exec(ctx, c.valkey, keys, []string{name, newName, string(bytes)}).AsInt64()
	if err != nil {
		return fmt.Errorf("executing replace script: %w", storageErr(err))
	}

	switch result {
	case 0:
		return serviceerr.ErrNotFound
	case -1:
		return serviceerr.ErrDuplicateName
	}

	return nil
}

func (c *Collection[T]) Get(ctx context.Context, name string) (T, error) {
	var doc T

	bytes, err := c.valkey.Do(ctx, c.valkey.B().Get().Key(c.key(name)).Build()).AsBytes()
	if err != nil {
		if isNil(err) {
			return doc, serviceerr.ErrNotFound
		}

		return doc, fmt.Errorf("executing get command: %w", storageErr(err))
	}

	if err := c.decode(bytes, &doc); err != nil {
		return doc, fmt.Errorf("decoding document: %w", err)
	}

	return doc, nil
}

// Remove deletes the document and returns it.
func (c *Collection[T]) Remove(ctx context.Context, name string) (T, error) {
	var doc T

	keys := []string{c.key(name), c.indexKey()}
	bytes, err := removeScript.Exec(ctx, c.valkey, keys, []string{name}).AsBytes()
	if err != nil {
		if isNil(err) {
			return doc, serviceerr.ErrNotFound
		}

		return doc, fmt.Errorf("executing remove script: %w", storageErr(err))
	}

	if err := c.decode(bytes, &doc); err != nil {
		return doc, fmt.Errorf("decoding document: %w", err)
	}

	return doc, nil
}

// List returns all documents in insertion order.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	names, err := c.valkey.Do(ctx, c.valkey.B().Zrange().Key(c.indexKey()).Min("0").Max("-1").Build()).AsStrSlice()
	if err != nil {
		return nil, fmt.Errorf("executing zrange command: %w", storageErr(err))
	}

	docs := make([]T, 0, len(names))
	if len(names) == 0 {
		return docs, nil
	}

	keys := make([]string, 0, len(names))
	for _, name := range names {
		keys = append(keys, c.key(name))
	}

	values, err := c.valkey.Do(ctx, c.valkey.B().Mget().Key(keys...).Build()).ToArray()
	if err != nil {
		return nil, fmt.Errorf("executing mget command: %w", storageErr(err))
	}

	for _, value := range values {
		bytes, err := value.AsBytes()
		if err != nil {
			// removed between ZRANGE and MGET
			if isNil(err) {
				continue
			}

			return nil, fmt.Errorf("reading an element: %w", storageErr(err))
		}

		var doc T
		if err := c.decode(bytes, &doc); err != nil {
			return nil, fmt.Errorf("decoding document: %w", err)
		}

		docs = append(docs, doc)
	}

	return docs, nil
}

func (c *Collection[T]) hashTag() string {
	return "{" + c.prefix + ":" + c.kind + "}"
}

func (c *Collection[T]) key(name string) string {
	return c.hashTag() + ":" + name
}

func (c *Collection[T]) indexKey() string {
	return c.hashTag() + ".index"
}

func (c *Collection[T]) seqKey() string {
	return c.hashTag() + ".seq"
}

func (c *Collection[T]) encode(v T) ([]byte, error) {
	bytes, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling json: %w", err)
	}

	return bytes, nil
}

func (c *Collection[T]) decode(data []byte, into *T) error {
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("unmarshaling json: %w", err)
	}

	return nil
}

func storageErr(err error) error {
	return errors.Join(serviceerr.ErrStorage, err)
}

func isNil(err error) bool {
	valkeyErr, ok := valkey.IsValkeyErr(err)
	return ok && valkeyErr.IsNil()
}
