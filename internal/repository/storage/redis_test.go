package storage

import (
	"context"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-area/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("Connects to a running redis", func(t *testing.T) {
		ctx, st := suite.New(t)

		// When: connecting to the container address
		client, err := New(ctx, st.Addr)

		// Then: the client is usable
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })
		assert.NoError(t, client.Ping(ctx).Err())
	})

	t.Run("Fails when redis is unreachable", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		// When: connecting to a closed port
		client, err := New(ctx, "127.0.0.1:1")

		// Then: an error is returned
		require.Error(t, err)
		assert.Nil(t, client)
	})
}
