package photodedup

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// GroupIDs hands out cluster ids. Ids must be unique within a run.
type GroupIDs interface {
	NextGroupID(kind MatchKind) string
}

// CounterGroupIDs numbers clusters in creation order: "exact-1",
// "similar-2", ... A fresh counter yields the same ids for the same input.
type CounterGroupIDs struct {
	n atomic.Int64
}

// NewCounterGroupIDs returns a counter starting at 1.
func NewCounterGroupIDs() *CounterGroupIDs {
	return &CounterGroupIDs{}
}

// NextGroupID implements GroupIDs.
func (c *CounterGroupIDs) NextGroupID(kind MatchKind) string {
	return fmt.Sprintf("%s-%d", kind, c.n.Add(1))
}

// UUIDGroupIDs issues random ids, for hosts that merge results of
// several runs and need ids that never collide.
type UUIDGroupIDs struct{}

// NextGroupID implements GroupIDs.
func (UUIDGroupIDs) NextGroupID(kind MatchKind) string {
	return string(kind) + "-" + uuid.NewString()
}
