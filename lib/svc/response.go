package svc

import (
	"encoding/json"
	"fmt"

	"github.com/nottyhq/notty/lib/errors"
)

// Resp is the structure used to respond to a request.
type Resp map[string]*json.RawMessage

// ErrExtraction is returned when a key cannot be extracted from a response.
type ErrExtraction struct {
	Key string
}

func (e ErrExtraction) Error() string {
	return fmt.Sprintf("Failed to extract %q from response", e.Key)
}

// Extract extracts the value under the provided key from a response.
func (h Resp) Extract(
	key string,
	data interface{},
) error {
	raw, ok := h[key]
	if !ok || raw == nil {
		return errors.Trace(ErrExtraction{key})
	}
	if err := json.Unmarshal(*raw, data); err != nil {
		return errors.Trace(ErrExtraction{key})
	}
	return nil
}
