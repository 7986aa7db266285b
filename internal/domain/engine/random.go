package engine

import (
	"context"
	"encoding/binary"
	"sync/atomic"
	"time"

	"github.com/tixpool-lab/backend/pkg/crypto"
)

// Randomizer produces one unpredictable integer per request-specific seed.
type Randomizer interface {
	Draw(ctx context.Context, seed int64) uint64
}

// weakRandomizer mixes a per-process secret salt, the clock, a process-wide
// counter and the seed through sha256.
//
// WARNING: this source is NOT verifiable by callers and is a placeholder; a
// production deployment should plug a verifiable random source behind the
// Randomizer interface without touching any other component.
type weakRandomizer struct {
	salt    []byte
	counter int64
}

func NewWeakRandomizer() *weakRandomizer {
	return &weakRandomizer{salt: crypto.RandomBytes(32)}
}

func (r *weakRandomizer) Draw(ctx context.Context, seed int64) uint64 {
	n := atomic.AddInt64(&r.counter, 1)

	buf := make([]byte, 0, len(r.salt)+24)
	buf = append(buf, r.salt...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(time.Now().UnixNano()))
	buf = binary.BigEndian.AppendUint64(buf, uint64(seed))
	buf = binary.BigEndian.AppendUint64(buf, uint64(n))

	hashed := crypto.SHA256(buf)
	return binary.BigEndian.Uint64(hashed[:8])
}
