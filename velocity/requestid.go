package velocity

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

const requestIDPrefix = "offlineContext_requestId_"

// IDSource hands out identifiers that are never repeated within a process.
// Implementations must be safe for concurrent use.
type IDSource interface {
	NextID() string
}

type uuidSource struct{}

func NewUUIDSource() IDSource { return uuidSource{} }

func (uuidSource) NextID() string { return uuid.New().String() }

// CounterSource is a monotonic IDSource.
type CounterSource struct {
	n atomic.Uint64
}

func NewCounterSource() *CounterSource { return &CounterSource{} }

func (s *CounterSource) NextID() string {
	return strconv.FormatUint(s.n.Add(1), 10)
}

var defaultIDSource IDSource = NewUUIDSource()

func newRequestID(src IDSource) string {
	if src == nil {
		src = defaultIDSource
	}
	return requestIDPrefix + src.NextID()
}
