package cli

import (
	"testing"
	"time"

	"kviz/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestSessionTTLIgnoresRedisTTL(t *testing.T) {
	var cfg config.Config
	cfg.Redis.TTL = "1m"
	assert.Equal(t, 30*time.Minute, sessionTTL(cfg))

	cfg.Session.TTL = "2h"
	assert.Equal(t, 2*time.Hour, sessionTTL(cfg))
}
