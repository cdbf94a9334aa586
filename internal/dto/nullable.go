package dto

import "encoding/json"

// Nullable is a request field that distinguishes an absent key, an explicit
// JSON null, and a value. Pointer fields collapse the first two states, so
// partial updates could not tell "leave the column alone" from "clear it".
type Nullable[T any] struct {
	Value T
	Set   bool // key was present in the payload
	Null  bool // key was an explicit null
}

// UnmarshalJSON is only invoked for keys present in the payload, so the zero
// value of Nullable means the key was absent.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Null = true
		return nil
	}
	return json.Unmarshal(data, &n.Value)
}

// Ptr returns a pointer to the decoded value, or nil for null or absent keys.
func (n Nullable[T]) Ptr() *T {
	if !n.Set || n.Null {
		return nil
	}
	v := n.Value
	return &v
}
