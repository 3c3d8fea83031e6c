package sequence

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Generator hands out prefixed, zero-padded, strictly increasing IDs such as
// "ACC_00001". Counters live in memory; callers that persist the IDs seed a
// fresh generator from the highest suffix already on disk so numbering stays
// monotonic across process runs.
type Generator struct {
	mu      sync.Mutex
	prefix  string
	counter int
}

const padWidth = 5

func NewGenerator(prefix string, start int) *Generator {
	if start < 1 {
		start = 1
	}
	return &Generator{prefix: prefix, counter: start}
}

func (g *Generator) NextID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := fmt.Sprintf("%s%0*d", g.prefix, padWidth, g.counter)
	g.counter++
	return id
}

func (g *Generator) Prefix() string {
	return g.prefix
}

// Seed advances the counter so the next ID follows the given one, if the ID
// carries this generator's prefix. IDs with other prefixes are ignored.
func (g *Generator) Seed(id string) {
	suffix, ok := strings.CutPrefix(id, g.prefix)
	if !ok {
		return
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if n >= g.counter {
		g.counter = n + 1
	}
}
