package mocks

import (
	"fmt"
	"sync/atomic"
)

var idCounter atomic.Uint64

// NewID returns a unique 24-character hex identifier shaped like an ObjectID.
func NewID() string {
	return fmt.Sprintf("%024x", idCounter.Add(1))
}
