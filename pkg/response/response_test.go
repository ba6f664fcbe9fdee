package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/yupiflow-admin/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestErrorWritesMessageAndCode(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, appErrors.Clone(appErrors.ErrConflict, "email already exists"))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"message":"email already exists","code":"CONFLICT"}`, w.Body.String())
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestErrorHidesUnknownErrors(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"internal server error","code":"INTERNAL_ERROR"}`, w.Body.String())
}

func TestFileSetsDisposition(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	File(c, "users.csv", "text/csv", []byte("a,b\n"))

	assert.Equal(t, `attachment; filename="users.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "a,b\n", w.Body.String())
}
