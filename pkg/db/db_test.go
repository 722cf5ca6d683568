package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_EmptyURL(t *testing.T) {
	cli, err := Redis(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, cli)
}

func TestRedis_BadURL(t *testing.T) {
	_, err := Redis(context.Background(), "mysql://nope")
	assert.ErrorContains(t, err, "redis parse")
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "redis://***@cache:6379/0", redactURL("redis://user:pw@cache:6379/0"))
	assert.Equal(t, "redis://cache:6379", redactURL("redis://cache:6379"))
}
