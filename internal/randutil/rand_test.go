package randutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsDeterministic(t *testing.T) {
	t.Parallel()
	a, b := New(5), New(5)
	for range 10 {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()
	seed := int64(11)
	rng, used := Resolve(&seed)
	assert.Equal(t, seed, used)
	assert.Equal(t, New(11).Uint64(), rng.Uint64())

	_, used = Resolve(nil)
	assert.NotZero(t, used)
}

func TestDeriveIsStable(t *testing.T) {
	t.Parallel()
	a := Derive(New(3))
	b := Derive(New(3))
	assert.Equal(t, a.IntN(1000), b.IntN(1000))
}
