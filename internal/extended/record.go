package extended

import (
	"bytes"
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Record is a single serialized resource: field names mapped to values,
// kept in the order the serializer emitted them.
type Record struct {
	fields *orderedmap.OrderedMap[string, any]
}

func NewRecord() *Record {
	return &Record{fields: orderedmap.New[string, any]()}
}

func (r *Record) init() {
	if r.fields == nil {
		r.fields = orderedmap.New[string, any]()
	}
}

// Set assigns value to key. A new key is appended; an existing key keeps
// its position.
func (r *Record) Set(key string, value any) *Record {
	r.init()
	r.fields.Set(key, value)
	return r
}

func (r *Record) Get(key string) (any, bool) {
	if r == nil || r.fields == nil {
		return nil, false
	}
	return r.fields.Get(key)
}

func (r *Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

func (r *Record) Len() int {
	if r == nil || r.fields == nil {
		return 0
	}
	return r.fields.Len()
}

func (r *Record) Keys() []string {
	keys := make([]string, 0, r.Len())
	if r.Len() == 0 {
		return keys
	}
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Clone returns a shallow copy. Values are shared, the key order is not.
func (r *Record) Clone() *Record {
	out := NewRecord()
	if r.Len() == 0 {
		return out
	}
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		out.fields.Set(pair.Key, pair.Value)
	}
	return out
}

func (r *Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	if r.Len() == 0 {
		return []byte("{}"), nil
	}
	return r.fields.MarshalJSON()
}

func (r *Record) UnmarshalJSON(data []byte) error {
	fields := orderedmap.New[string, any]()
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		r.fields = fields
		return nil
	}
	if err := fields.UnmarshalJSON(data); err != nil {
		return err
	}
	r.fields = fields
	return nil
}

// Map flattens the record into a plain map. Mostly useful in tests.
func (r *Record) Map() map[string]any {
	out := make(map[string]any, r.Len())
	if r.Len() == 0 {
		return out
	}
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	return out
}

var _ json.Marshaler = (*Record)(nil)
var _ json.Unmarshaler = (*Record)(nil)
