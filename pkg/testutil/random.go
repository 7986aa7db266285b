package testutil

import (
	"context"
	"sync"
)

// SequenceRandomizer replays a fixed sequence of values, cycling when it
// runs out. Tests pick values to land draws on exact tier thresholds.
type SequenceRandomizer struct {
	mutex  sync.Mutex
	values []uint64
	next   int
}

func NewSequenceRandomizer(values ...uint64) *SequenceRandomizer {
	if len(values) == 0 {
		panic("no value is given")
	}

	return &SequenceRandomizer{values: values}
}

func (r *SequenceRandomizer) Draw(ctx context.Context, seed int64) uint64 {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	v := r.values[r.next%len(r.values)]
	r.next++
	return v
}
