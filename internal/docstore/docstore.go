package docstore

import (
	"context"
	"encoding/json"
)

// Snapshot is a document's current contents: field name -> raw JSON value.
type Snapshot map[string]json.RawMessage

func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Unsubscribe detaches a subscription. Safe to call more than once.
type Unsubscribe func()

// Store is the shared mutable document tree both peers communicate through.
// It is the only channel between them; it carries no error semantics across
// the peer boundary.
//
// Write merges fields into a document; a nil value deletes the field. One
// call is one atomic mutation. Replace overwrites the whole document.
// Subscribe delivers the current snapshot immediately and then one callback
// per observed mutation; callbacks for one document are delivered to a
// subscriber in write order per writer, with no ordering across writers.
//
//go:generate mockery --name=Store --output=./mocks/store --filename=store.go
type Store interface {
	Write(ctx context.Context, key string, fields map[string]any) error
	Replace(ctx context.Context, key string, fields map[string]any) error
	Load(ctx context.Context, key string) (Snapshot, bool, error)
	Subscribe(ctx context.Context, key string, fn func(Snapshot)) (Unsubscribe, error)
}

// MarshalFields JSON-encodes a Write/Replace payload, keeping nils as nils so
// implementations can translate them into field deletions.
func MarshalFields(fields map[string]any) (map[string][]byte, error) {
	out := make(map[string][]byte, len(fields))
	for k, v := range fields {
		if v == nil {
			out[k] = nil
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		out[k] = raw
	}
	return out, nil
}
