package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"namescreen/internal/platform/config"
)

func TestNew_Disabled(t *testing.T) {
	c, err := New(context.Background(), config.Redis{})
	assert.NoError(t, err)
	assert.Nil(t, c)
}

func TestNew_BadURL(t *testing.T) {
	_, err := New(context.Background(), config.Redis{URL: "http://not-redis"})
	assert.Error(t, err)
}

func TestNew_Unreachable(t *testing.T) {
	_, err := New(context.Background(), config.Redis{URL: "redis://127.0.0.1:1/0", DialTimeout: 50 * time.Millisecond})
	assert.Error(t, err)
}
