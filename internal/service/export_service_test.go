package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/yupiflow-admin/internal/models"
	"github.com/noah-isme/yupiflow-admin/pkg/export"
)

func TestExportUsersWalksAllPages(t *testing.T) {
	repo := newMockUserRepo(seedUsers(150)...)
	svc := NewExportService(repo, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC) }

	file, err := svc.ExportUsers(context.Background(), export.FormatCSV, models.UserFilter{})
	require.NoError(t, err)
	assert.Equal(t, 150, file.Rows)
	assert.Equal(t, 2, repo.listCalls)
	assert.Equal(t, "users-20240501-083000.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)

	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	assert.Len(t, lines, 151)
	assert.Equal(t, "ID,Name,Username,Email,Role,Phone,Created", lines[0])
	assert.Contains(t, lines[1], "Consumer")
}

func TestExportUsersEmptyDirectory(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewExportService(repo, nil)

	file, err := svc.ExportUsers(context.Background(), export.FormatPDF, models.UserFilter{})
	require.NoError(t, err)
	assert.Zero(t, file.Rows)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, 1, repo.listCalls)
}
