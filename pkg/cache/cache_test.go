package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyForIsStableAndContentAddressed(t *testing.T) {
	a := KeyFor("int a; a = 1;")
	b := KeyFor("int a; a = 1;")
	c := KeyFor("int a; a = 2;")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestMemoryStoreSetThenGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	entry := Entry{TAC: "t1 = 1", Assembly: "section .data"}

	require.NoError(t, s.Set(ctx, "k", entry, 0))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, entry, got)
}

func TestMemoryStoreMissReturnsErrMiss(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryStoreExpiresAfterTTL(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "k", Entry{TAC: "x"}, time.Millisecond))

	time.Sleep(5 * time.Millisecond)
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}
