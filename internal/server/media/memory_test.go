package media

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/campusmarket/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SaveOpen(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore("http://localhost:8080/")

	data := []byte{0x89, 'P', 'N', 'G'}
	url, err := s.Save(ctx, "avatars/2026/1/2/abc", "image/png", data)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/media/avatars/2026/1/2/abc", url)

	data[0] = 0
	o, err := s.Open(ctx, "avatars/2026/1/2/abc")
	require.NoError(t, err)
	assert.Equal(t, "image/png", o.ContentType)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, o.Data)

	o.Data[1] = 'X'
	again, _ := s.Open(ctx, "avatars/2026/1/2/abc")
	assert.Equal(t, byte('P'), again.Data[1])
}

func TestMemoryStore_OpenMissing(t *testing.T) {
	_, err := NewMemoryStore("http://x").Open(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrMediaNotFound)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
