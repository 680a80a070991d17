package gstorage

import (
	"context"
	"io/ioutil"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(t.TempDir())
	require.Nil(t, err)

	require.Nil(t, store.Upload(ctx, "avatars/tony.png", strings.NewReader("png bytes")))

	rc, err := store.Open(ctx, "avatars/tony.png")
	require.Nil(t, err)
	content, err := ioutil.ReadAll(rc)
	rc.Close()
	require.Nil(t, err)
	assert.Equal(t, "png bytes", string(content))

	require.Nil(t, store.Delete(ctx, "avatars/tony.png"))

	_, err = store.Open(ctx, "avatars/tony.png")
	assert.True(t, errors.Is(err, ErrObjectNotExist))

	err = store.Delete(ctx, "avatars/tony.png")
	assert.True(t, errors.Is(err, ErrObjectNotExist))

	err = store.Upload(ctx, "../escape.png", strings.NewReader("nope"))
	assert.NotNil(t, err)
}
