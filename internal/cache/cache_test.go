package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "movie:4a1f", MovieKey("4a1f"))
	assert.Equal(t, "tmdb:search:dune", SearchKey("dune"))
}

func TestNilClientIsAlwaysMiss(t *testing.T) {
	var c *Client
	ctx := context.Background()

	var out []string
	assert.False(t, c.GetJSON(ctx, MovieKey("x"), &out))
	assert.Nil(t, out)

	// must not panic
	c.SetJSON(ctx, SearchKey("x"), []string{"a"}, time.Minute)
	c.Delete(ctx, MovieKey("x"))
}
