// Package contact generates synthetic contact details for rendered resumes.
package contact

import (
	"fmt"
	"sync"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/jonathan/ats-resume-generator/internal/types"
)

// Faker produces fake names, emails, phone numbers and locations.
// It is safe for concurrent use.
type Faker struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
}

// New creates a Faker. A zero seed is random.
func New(seed uint64) *Faker {
	return &Faker{faker: gofakeit.New(seed)}
}

// Contact returns one synthetic identity.
func (f *Faker) Contact() types.Contact {
	f.mu.Lock()
	defer f.mu.Unlock()

	return types.Contact{
		Name:     f.faker.Name(),
		Email:    f.faker.Email(),
		Phone:    f.faker.PhoneFormatted(),
		Location: fmt.Sprintf("%s, %s", f.faker.City(), f.faker.StateAbr()),
	}
}
