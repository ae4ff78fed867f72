package roles

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jonathan/ats-resume-generator/internal/types"
)

// Selector draws industries, roles, seniority and templates from one shared
// random source. It is safe for concurrent use.
type Selector struct {
	mapping *Mapping

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector creates a selector. A zero seed draws a seed from the clock.
func NewSelector(m *Mapping, seed uint64) *Selector {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Selector{
		mapping: m,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// SelectRole picks a role for the industry: a weighted draw between the primary
// and secondary tier, then a uniform pick within the tier.
// Panics when the industry is not in the mapping.
func (s *Selector) SelectRole(industry string) string {
	tier, ok := s.mapping.Tier(industry)
	if !ok {
		panic(fmt.Sprintf("roles: unknown industry %q", industry))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	total := tier.Weights[0] + tier.Weights[1]
	if s.rng.Float64()*total < tier.Weights[0] {
		return tier.Primary[s.rng.IntN(len(tier.Primary))]
	}
	return tier.Secondary[s.rng.IntN(len(tier.Secondary))]
}

// Industry picks an industry uniformly.
func (s *Selector) Industry() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mapping.names[s.rng.IntN(len(s.mapping.names))]
}

// Seniority picks years of experience in [types.MinSeniority, types.MaxSeniority].
func (s *Selector) Seniority() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.MinSeniority + s.rng.IntN(types.MaxSeniority-types.MinSeniority+1)
}

// Template picks one of the given layouts uniformly.
func (s *Selector) Template(choices []types.Template) types.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	return choices[s.rng.IntN(len(choices))]
}

// Draw builds a complete request for a job index.
func (s *Selector) Draw(index int, templates []types.Template) types.GenerationRequest {
	industry := s.Industry()
	return types.GenerationRequest{
		Index:     index,
		Industry:  industry,
		Role:      s.SelectRole(industry),
		Seniority: s.Seniority(),
		Template:  s.Template(templates),
	}
}
