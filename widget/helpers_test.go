package widget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func waitLatest(t *testing.T, c *Controller, token uint64) {
	t.Helper()
	assert.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.latest == token
	}, timeout, tick)
}
