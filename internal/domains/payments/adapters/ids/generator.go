package ids

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Apurer/paydesk/internal/domains/payments/ports"
)

// Length is the number of characters in an order identifier.
const Length = 6

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var (
	_ ports.IdentifierGenerator = (*Random)(nil)
	_ ports.IdentifierGenerator = (*Sequence)(nil)
)

// Random draws identifiers from a non-cryptographic source. Collisions are possible.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom seeds the generator from the runtime source.
func NewRandom() *Random {
	return &Random{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewRandomWithSource is used by tests that need reproducible identifiers.
func NewRandomWithSource(src rand.Source) *Random {
	return &Random{rng: rand.New(src)}
}

func (g *Random) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var b strings.Builder
	b.Grow(Length)
	for i := 0; i < Length; i++ {
		b.WriteByte(alphabet[g.rng.IntN(len(alphabet))])
	}
	return b.String()
}

// Sequence hands out monotonically increasing base-36 identifiers, unique for the
// lifetime of the process.
type Sequence struct {
	next atomic.Uint64
}

// NewSequence starts counting after start.
func NewSequence(start uint64) *Sequence {
	s := &Sequence{}
	s.next.Store(start)
	return s
}

func (g *Sequence) Next() string {
	n := g.next.Add(1)
	id := strings.ToUpper(strconv.FormatUint(n, 36))
	if len(id) < Length {
		id = strings.Repeat("0", Length-len(id)) + id
	}
	return id
}

// New picks a generator by strategy name; unknown names fall back to Random.
func New(strategy string) ports.IdentifierGenerator {
	if strings.EqualFold(strings.TrimSpace(strategy), "sequence") {
		return NewSequence(0)
	}
	return NewRandom()
}
