package dedup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldProcess_SecondCallWithinTTLIsDuplicate(t *testing.T) {
	d := New(time.Minute, 10)
	assert.True(t, d.ShouldProcess("a"))
	assert.False(t, d.ShouldProcess("a"))
	assert.True(t, d.ShouldProcess("b"))
}

func TestShouldProcess_EmptyIDAlwaysProcessed(t *testing.T) {
	d := New(time.Minute, 10)
	assert.True(t, d.ShouldProcess(""))
	assert.True(t, d.ShouldProcess(""))
	assert.Equal(t, 0, d.Len())
}

func TestShouldProcess_ExpiresAfterTTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	d := New(time.Minute, 10)
	d.now = func() time.Time { return now }

	require.True(t, d.ShouldProcess("a"))
	now = now.Add(30 * time.Second)
	assert.False(t, d.ShouldProcess("a"))
	now = now.Add(2 * time.Minute)
	assert.True(t, d.ShouldProcess("a"))
}

func TestMark_ThenShouldProcessRejects(t *testing.T) {
	d := New(time.Minute, 10)
	d.Mark("k")
	assert.False(t, d.ShouldProcess("k"))
}

func TestRecord_EvictsExpiredWhenOverCapacity(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	d := New(time.Second, 2)
	d.now = func() time.Time { return now }

	d.Mark("a")
	d.Mark("b")
	now = now.Add(5 * time.Second)
	d.Mark("c")

	assert.LessOrEqual(t, d.Len(), 2)
	assert.False(t, d.ShouldProcess("c"))
}

func TestKey_DependsOnTopicAndPayload(t *testing.T) {
	k1 := Key("t/1", []byte(`{"action":"ON"}`))
	k2 := Key("t/2", []byte(`{"action":"ON"}`))
	k3 := Key("t/1", []byte(`{"action":"OFF"}`))
	assert.NotEqual(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Equal(t, k1, Key("t/1", []byte(`{"action":"ON"}`)))
}
