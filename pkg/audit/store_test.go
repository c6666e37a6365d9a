package audit

import (
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentID(t *testing.T) {
	id := ContentID([]byte("abc"))
	assert.Equal(t, ID("0x4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45"), id)
	assert.True(t, id.Verify([]byte("abc")))
	assert.False(t, id.Verify([]byte("abd")))
	assert.False(t, ID("nope").Verify([]byte("abc")))
}

func TestMemory(t *testing.T) {
	testStore(t, NewMemory())
}

func TestMemory_Len(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, _ = m.Put(ctx, []byte("a"))
	_, _ = m.Put(ctx, []byte("a"))
	_, _ = m.Put(ctx, []byte("b"))
	assert.Equal(t, 2, m.Len())
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("LIARS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LIARS_TEST_REDIS_ADDR is not set")
	}

	db, _ := strconv.Atoi(os.Getenv("LIARS_TEST_REDIS_DB"))
	r, err := Dial(context.Background(), addr, os.Getenv("LIARS_TEST_REDIS_PASSWORD"), db)
	require.NoError(t, err)
	defer r.Close()

	testStore(t, r)
}

func testStore(t *testing.T, store Store) {
	t.Helper()
	a := assert.New(t)
	ctx := context.Background()

	content := []byte(`{"hello":"world"}`)
	id, err := store.Put(ctx, content)
	a.NoError(err)
	a.Equal(ContentID(content), id)

	// same content, same id
	id2, err := store.Put(ctx, content)
	a.NoError(err)
	a.Equal(id, id2)

	b, err := store.Get(ctx, id)
	a.NoError(err)
	a.Equal(content, b)

	_, err = store.Get(ctx, ContentID([]byte("never stored")))
	a.Equal(ErrNotFound, err)
}
