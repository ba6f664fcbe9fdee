package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/yupiflow-admin/pkg/errors"
)

// ErrorBody is the failure shape every endpoint returns.
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// MessageBody carries a bare confirmation message.
type MessageBody struct {
	Message string `json:"message"`
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}

// JSON sends body as-is with caching disabled.
func JSON(c *gin.Context, status int, body interface{}) {
	noStore(c)
	c.JSON(status, body)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, body interface{}) {
	JSON(c, http.StatusCreated, body)
}

// Message responds with {"message": msg}.
func Message(c *gin.Context, status int, msg string) {
	JSON(c, status, MessageBody{Message: msg})
}

// Error converts err to its status and {message, code} body.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	noStore(c)
	c.JSON(appErr.Status, ErrorBody{Message: appErr.Message, Code: appErr.Code})
}

// Abort writes the error and stops the handler chain.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

// File streams a download with the given name.
func File(c *gin.Context, filename, contentType string, data []byte) {
	noStore(c)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}
