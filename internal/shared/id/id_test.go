package id

import (
	"math/rand"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestID(t *testing.T) {
	rid := NewRequestID()
	assert.True(t, strings.HasPrefix(rid.String(), RequestPrefix+"_"))
	assert.Len(t, rid.String(), len(RequestPrefix)+1+26)
	assert.True(t, IsValid(rid.String()))
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		valid bool
	}{
		{"bare ulid", Default().Generate().String(), true},
		{"prefixed", NewRequestID().String(), true},
		{"empty", "", false},
		{"garbage", "req_not-a-ulid", false},
		{"too short", "01ARZ3NDEKTSV4RRFFQ69G5FA", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValid(tt.id))
		})
	}
}

func TestTimestamp(t *testing.T) {
	before := time.Now().Add(-time.Second)
	rid := NewRequestID()
	ts, err := Timestamp(rid.String())
	require.NoError(t, err)
	assert.True(t, ts.After(before))
	assert.True(t, ts.Before(time.Now().Add(time.Second)))

	_, err = Timestamp("nope")
	assert.Error(t, err)
}

func TestMonotonicOrdering(t *testing.T) {
	g := NewGeneratorWithEntropy(rand.New(rand.NewSource(1)))
	ids := make([]string, 100)
	for i := range ids {
		ids[i] = g.Generate().String()
	}
	assert.True(t, sort.StringsAreSorted(ids))
}

func TestConcurrentGeneration(t *testing.T) {
	const n = 50
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[RequestID]bool)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rid := NewRequestID()
			mu.Lock()
			seen[rid] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, n)
}

func BenchmarkNewRequestID(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = NewRequestID()
	}
}
