// Package extended implements the opt-in "extended" response shape.
//
// A retrieval operation is run with the resource's default serializer.
// When the request carries extended=1 it is run a second time with the
// extended serializer, and either the extended result is returned whole
// or only the fields named in extend_fields are copied over the default
// result.
//
// The serializer is passed to the operation as an argument, so the
// policy never mutates state shared between requests.
package extended

import (
	"context"
	"net/url"
)

// Operation is a retrieval whose arguments have already been bound. It
// must serialize with s and must be deterministic enough that two calls
// return records in the same order.
type Operation[T any] func(ctx context.Context, s Serializer[T]) (Result, error)

// Shape runs op under the extended-response policy.
func Shape[T any](ctx context.Context, query url.Values, strategies Strategies[T], op Operation[T]) (Result, error) {
	if strategies.Extended == nil {
		return op(ctx, strategies.Default)
	}

	def, err := op(ctx, strategies.Default)
	if err != nil {
		return Result{}, err
	}

	params, err := ParseParams(query)
	if err != nil {
		return Result{}, err
	}
	if !params.Extended {
		return def, nil
	}

	ext, err := op(ctx, strategies.Extended)
	if err != nil {
		return Result{}, err
	}
	if len(params.Fields) == 0 {
		return ext, nil
	}
	return Merge(def, ext, params.Fields), nil
}

// Wrap binds strategies and op into a function of the query alone.
func Wrap[T any](strategies Strategies[T], op Operation[T]) func(ctx context.Context, query url.Values) (Result, error) {
	return func(ctx context.Context, query url.Values) (Result, error) {
		return Shape(ctx, query, strategies, op)
	}
}

// Merge overwrites, in def, every selected field that def already has
// with the value ext holds for it. Collections are matched by index.
// def is modified in place and returned; shapes that cannot be matched
// leave it untouched.
func Merge(def, ext Result, fields []string) Result {
	switch data := def.Data.(type) {
	case Collection:
		extData, ok := ext.Data.(Collection)
		if !ok {
			return def
		}
		for i, rec := range data {
			if i >= len(extData) {
				break
			}
			mergeRecord(rec, extData[i], fields)
		}
	case Single:
		extData, ok := ext.Data.(Single)
		if !ok {
			return def
		}
		mergeRecord(data.Record, extData.Record, fields)
	}
	return def
}

func mergeRecord(dst, src *Record, fields []string) {
	if dst == nil || src == nil {
		return
	}
	for _, field := range fields {
		if !dst.Has(field) {
			continue
		}
		value, ok := src.Get(field)
		if !ok {
			continue
		}
		dst.Set(field, value)
	}
}
