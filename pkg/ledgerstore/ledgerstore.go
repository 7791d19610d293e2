// Package ledgerstore contains the storage helpers shared by the ledger keepers.
//
// Records are plain Go structs persisted through cosmossdk.io/collections.
// Values are encoded as JSON, which is deterministic for structs and for the
// cosmossdk.io/math types the ledger uses.
package ledgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cosmossdk.io/collections"
	collcodec "cosmossdk.io/collections/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

var _ collcodec.ValueCodec[struct{}] = jsonValue[struct{}]{}

// JSONValue returns a collections value codec storing T as JSON.
func JSONValue[T any]() collcodec.ValueCodec[T] {
	return jsonValue[T]{}
}

type jsonValue[T any] struct{}

func (jsonValue[T]) Encode(value T) ([]byte, error) {
	return json.Marshal(value)
}

func (jsonValue[T]) Decode(b []byte) (T, error) {
	var value T
	if err := json.Unmarshal(b, &value); err != nil {
		return value, err
	}
	return value, nil
}

func (c jsonValue[T]) EncodeJSON(value T) ([]byte, error) {
	return c.Encode(value)
}

func (c jsonValue[T]) DecodeJSON(b []byte) (T, error) {
	return c.Decode(b)
}

func (jsonValue[T]) Stringify(value T) string {
	bz, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%+v", value)
	}
	return string(bz)
}

func (jsonValue[T]) ValueType() string {
	var zero T
	return fmt.Sprintf("json/%T", zero)
}

// ItemOrDefault returns the stored item or def when it has not been set yet.
func ItemOrDefault[V any](ctx context.Context, item collections.Item[V], def V) (V, error) {
	value, err := item.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	return value, nil
}

// MapOrDefault returns the value stored under key or def when the key is absent.
func MapOrDefault[K, V any](ctx context.Context, m collections.Map[K, V], key K, def V) (V, error) {
	value, err := m.Get(ctx, key)
	if errors.Is(err, collections.ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	return value, nil
}

// Atomic runs fn against a cached branch of the store and commits the branch
// only when fn succeeds. Events emitted inside fn are forwarded on commit.
func Atomic(ctx context.Context, fn func(ctx sdk.Context) error) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, writeCache := sdkCtx.CacheContext()
	if err := fn(cacheCtx); err != nil {
		return err
	}
	writeCache()
	return nil
}
