package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/yupiflow-admin/internal/models"
)

func TestParseOutput(t *testing.T) {
	for _, value := range []string{"table", "JSON", " yaml ", ""} {
		_, err := parseOutput(value)
		assert.NoError(t, err, value)
	}
	_, err := parseOutput("xml")
	assert.Error(t, err)
}

func TestRenderFormats(t *testing.T) {
	value := models.UserInfo{ID: 7, Email: "ada@yupimall.test", Name: "Ada", Role: models.RoleAdmin}
	table := func(w io.Writer) error {
		_, err := io.WriteString(w, "table\n")
		return err
	}

	defer func(prev string) { outputFormat = prev }(outputFormat)

	var buf bytes.Buffer
	outputFormat = "json"
	require.NoError(t, render(&buf, value, table))
	assert.Contains(t, buf.String(), `"email": "ada@yupimall.test"`)

	buf.Reset()
	outputFormat = "yaml"
	require.NoError(t, render(&buf, value, table))
	assert.Contains(t, buf.String(), "email: ada@yupimall.test")
	assert.Contains(t, buf.String(), "role: admin")

	buf.Reset()
	outputFormat = "table"
	require.NoError(t, render(&buf, value, table))
	assert.Equal(t, "table\n", buf.String())
}

func TestParseRoles(t *testing.T) {
	roles, err := parseRoles([]string{"consumer", " stockist "})
	require.NoError(t, err)
	assert.Equal(t, []models.UserRole{models.RoleConsumer, models.RoleStockist}, roles)

	_, err = parseRoles([]string{"owner"})
	assert.Error(t, err)
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"0", "-1", "abc"} {
		_, err := parseID(raw)
		assert.Error(t, err, raw)
	}
}

func TestPromptConfirmer(t *testing.T) {
	var out bytes.Buffer
	ok, err := promptConfirmer{in: strings.NewReader("YES\n"), out: &out}.Confirm(context.Background(), "Delete user #3?")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Delete user #3? [y/N] ", out.String())

	ok, err = promptConfirmer{in: strings.NewReader(""), out: io.Discard}.Confirm(context.Background(), "Delete?")
	require.NoError(t, err)
	assert.False(t, ok)
}
