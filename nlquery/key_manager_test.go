package nlquery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyManagerRotation(t *testing.T) {
	km := NewKeyManager([]string{"a", "b", "c"})
	var got []string
	for i := 0; i < 4; i++ {
		got = append(got, km.GetNextKey())
	}
	assert.Equal(t, []string{"a", "b", "c", "a"}, got)
}

func TestKeyManagerEmpty(t *testing.T) {
	km := NewKeyManager(nil)
	assert.Equal(t, 0, km.Len())
	assert.Equal(t, "", km.GetNextKey())
}

func TestKeyManagerSkipsFailedKey(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	km := NewKeyManager([]string{"a", "b"})
	km.now = func() time.Time { return now }

	km.MarkKeyFailed("b")
	assert.Equal(t, "a", km.GetNextKey())
	assert.Equal(t, "a", km.GetNextKey())

	now = now.Add(DefaultKeyCooldown)
	assert.Equal(t, "b", km.GetNextKey())
}

func TestKeyManagerAllFailed(t *testing.T) {
	km := NewKeyManager([]string{"a", "b"})
	km.MarkKeyFailed("a")
	km.MarkKeyFailed("b")
	assert.Equal(t, "a", km.GetNextKey())
	assert.Equal(t, "b", km.GetNextKey())
}
