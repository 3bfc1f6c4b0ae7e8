package extended

import "context"

// Serializer turns one domain value into a Record.
type Serializer[T any] interface {
	Serialize(ctx context.Context, item T) (*Record, error)
}

type SerializerFunc[T any] func(ctx context.Context, item T) (*Record, error)

func (f SerializerFunc[T]) Serialize(ctx context.Context, item T) (*Record, error) {
	return f(ctx, item)
}

// Strategies pairs the default serializer of a resource with its
// optional extended one.
type Strategies[T any] struct {
	Default  Serializer[T]
	Extended Serializer[T]
}

// SerializeAll runs s over items, preserving order.
func SerializeAll[T any](ctx context.Context, s Serializer[T], items []T) (Collection, error) {
	out := make(Collection, 0, len(items))
	for _, item := range items {
		rec, err := s.Serialize(ctx, item)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
