package node

import (
	"fmt"
	"math/big"
	"os"
	"sync/atomic"
	"time"
)

// Id is a system-wide unique identifier for a Node, composed of the
// originating process id, a monotonically increasing per-process
// counter, and a creation timestamp. It stringifies to the
// decimal representation of a 128-bit value, which must be
// usable directly as a filename.
//
// No dependency in the pack provides a 128-bit integer type, so this is
// the one place this subsystem reaches for the standard library's
// math/big instead of a pack dependency.
type Id struct {
	pid       uint32
	counter   uint32
	timestamp uint64
}

var idCounter uint64

// NewId mints a fresh, host-unique Id for the calling process. Minting
// cannot fail in this implementation (the reference design allows for an
// InternalError return solely because some backends mint IDs via a
// fallible syscall; Go's equivalents here are infallible), so NewId
// returns no error and the builder has no failure path for this step.
func NewId() Id {
	counter := atomic.AddUint64(&idCounter, 1)
	return Id{
		pid:       uint32(os.Getpid()),
		counter:   uint32(counter),
		timestamp: uint64(time.Now().UnixNano()),
	}
}

// Pid returns the process id embedded in this Id, used by
// getNodeState's self-liveness shortcut.
func (id Id) Pid() uint32 { return id.pid }

// bigValue composes the three fields into a single 128-bit value: the
// high 32 bits are the pid, the next 32 the counter, the low 64 the
// timestamp. The exact bit layout is not load-bearing — nothing
// requires ordering or comparability of the encoded value — beyond the
// requirement that distinct (pid, counter, timestamp) triples produce
// distinct strings.
func (id Id) bigValue() *big.Int {
	v := new(big.Int).SetUint64(uint64(id.pid))
	v.Lsh(v, 32)
	v.Or(v, new(big.Int).SetUint64(uint64(id.counter)))
	v.Lsh(v, 64)
	v.Or(v, new(big.Int).SetUint64(id.timestamp))
	return v
}

// String renders the Id as a decimal string, valid as a filename.
func (id Id) String() string {
	return id.bigValue().String()
}

// ParseId parses the decimal string produced by Id.String back into an
// Id. Used by the enumerator to recover the pid embedded in a
// monitoring directory filename.
func ParseId(s string) (Id, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Id{}, fmt.Errorf("node: %q is not a valid NodeId", s)
	}

	timestampMask := new(big.Int).SetUint64(^uint64(0))
	timestamp := new(big.Int).And(v, timestampMask)

	rest := new(big.Int).Rsh(v, 64)
	counterMask := new(big.Int).SetUint64(uint64(^uint32(0)))
	counter := new(big.Int).And(rest, counterMask)

	pid := new(big.Int).Rsh(rest, 32)

	return Id{
		pid:       uint32(pid.Uint64()),
		counter:   uint32(counter.Uint64()),
		timestamp: timestamp.Uint64(),
	}, nil
}

// Equal reports whether two Ids are identical.
func (id Id) Equal(other Id) bool {
	return id.pid == other.pid && id.counter == other.counter && id.timestamp == other.timestamp
}
