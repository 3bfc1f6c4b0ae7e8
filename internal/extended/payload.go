package extended

import "encoding/json"

// Payload is the data carried by a Result. It is one of Collection,
// Single or Raw.
type Payload interface {
	json.Marshaler
	payload()
}

// Collection is the payload of a list retrieval.
type Collection []*Record

// Single is the payload of a detail retrieval.
type Single struct {
	Record *Record
}

// Raw carries any other shape. Merge never reconciles it.
type Raw struct {
	Value any
}

func (Collection) payload() {}
func (Single) payload()     {}
func (Raw) payload()        {}

func (c Collection) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]*Record(c))
}

func (s Single) MarshalJSON() ([]byte, error) {
	return s.Record.MarshalJSON()
}

func (r Raw) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Value)
}

// Result is what a retrieval operation produces.
type Result struct {
	Status int
	Data   Payload
}
