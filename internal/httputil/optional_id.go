package httputil

import (
	"bytes"
	"encoding/json"
	"fmt"

	"notestore/internal/domain/models"
)

// OptionalNodeID tracks presence and value of a JSON node id field.
// Plain *NodeID cannot tell an absent field from an explicit null:
//   - Present=false: field absent from JSON
//   - Present=true, Value=nil: field is JSON null (the root level)
//   - Present=true, Value=&id: field names a node
type OptionalNodeID struct {
	Present bool
	Value   *models.NodeID
}

// UnmarshalJSON implements json.Unmarshaler.
// When this method is called, the field was present in the JSON.
func (o *OptionalNodeID) UnmarshalJSON(data []byte) error {
	o.Present = true

	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}

	var raw int64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("node id must be an integer or null: %w", err)
	}
	if raw <= 0 {
		return fmt.Errorf("node id must be positive, got %d", raw)
	}

	id := models.NodeID(raw)
	o.Value = &id
	return nil
}
