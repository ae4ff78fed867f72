package contact

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContact_Fields(t *testing.T) {
	f := New(11)

	c := f.Contact()
	assert.NotEmpty(t, c.Name)
	assert.Contains(t, c.Email, "@")
	assert.NotEmpty(t, c.Phone)

	parts := strings.Split(c.Location, ", ")
	if assert.Len(t, parts, 2) {
		assert.NotEmpty(t, parts[0])
		assert.Len(t, parts[1], 2)
	}
}

func TestContact_Seeded(t *testing.T) {
	assert.Equal(t, New(42).Contact(), New(42).Contact())
}

func TestContact_Concurrent(t *testing.T) {
	f := New(0)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NotEmpty(t, f.Contact().Name)
		}()
	}
	wg.Wait()
}
