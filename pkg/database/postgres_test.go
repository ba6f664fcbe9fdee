package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/yupiflow-admin/pkg/config"
)

func TestURLEscapesCredentials(t *testing.T) {
	got := URL(config.DatabaseConfig{Host: "db", Port: 5432, User: "yupi", Password: "p@ss word", Name: "yupiflow"})
	assert.Equal(t, "postgres://yupi:p%40ss%20word@db:5432/yupiflow?sslmode=disable", got)
}

func TestURLKeepsSSLMode(t *testing.T) {
	got := URL(config.DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", Name: "n", SSLMode: "require"})
	assert.Contains(t, got, "sslmode=require")
}
