package directory

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/yupiflow-admin/internal/models"
)

const testToken = "test-token"

var seedRoles = []models.UserRole{
	models.RoleAdmin, models.RoleWarehouse, models.RoleConsumer, models.RoleDeveloper, models.RoleStockist,
}

func makeUsers(n int) []models.User {
	created := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	users := make([]models.User, n)
	for i := range users {
		users[i] = models.User{
			ID:        int64(i + 1),
			Name:      fmt.Sprintf("User %02d", i+1),
			Email:     fmt.Sprintf("user%02d@yupimall.test", i+1),
			Role:      seedRoles[i%len(seedRoles)],
			CreatedAt: created.Add(time.Duration(i) * time.Hour),
		}
	}
	return users
}

// memoryDirectory is an in-memory stand-in for the directory API.
type memoryDirectory struct {
	mu            sync.Mutex
	users         []models.User
	registrations []models.Registration
	nextID        int64
	requests      []*http.Request
	failCreate    string
}

func newMemoryDirectory(n int) *memoryDirectory {
	return &memoryDirectory{users: makeUsers(n), nextID: int64(n + 1)}
}

func (m *memoryDirectory) requestCount(method, path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, req := range m.requests {
		if req.Method == method && strings.HasPrefix(req.URL.Path, path) {
			count++
		}
	}
	return count
}

func (m *memoryDirectory) lastRequest() *http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

func (m *memoryDirectory) start(t *testing.T) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		m.mu.Lock()
		m.requests = append(m.requests, c.Request.Clone(c.Request.Context()))
		m.mu.Unlock()
		if c.GetHeader("Authorization") != "Bearer "+testToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing or invalid token", "code": "UNAUTHORIZED"})
			return
		}
		c.Next()
	})

	api := r.Group("/api/v1")
	api.GET("/users", m.listUsers)
	api.POST("/users", m.createUser)
	api.DELETE("/users/:id", m.deleteUser)
	api.GET("/registrations", m.listRegistrations)
	api.GET("/registrations/:id", m.getRegistration)
	api.PATCH("/registrations/:id/status", m.reviewRegistration)

	srv := httptest.NewServer(r)
	transport := &http.Transport{}
	t.Cleanup(func() {
		transport.CloseIdleConnections()
		srv.Close()
	})

	client, err := NewClient(srv.URL+"/api/v1", Session{Token: testToken}, WithHTTPClient(&http.Client{Transport: transport}))
	require.NoError(t, err)
	return client
}

func (m *memoryDirectory) listUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	search := strings.ToLower(c.Query("search"))
	roles := map[models.UserRole]bool{}
	if raw := c.Query("role"); raw != "" {
		for _, role := range strings.Split(raw, ",") {
			roles[models.UserRole(role)] = true
		}
	}

	m.mu.Lock()
	matched := make([]models.User, 0, len(m.users))
	for _, user := range m.users {
		if search != "" && !strings.Contains(strings.ToLower(user.Name+" "+user.Email), search) {
			continue
		}
		if len(roles) > 0 && !roles[user.Role] {
			continue
		}
		matched = append(matched, user)
	}
	m.mu.Unlock()

	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	c.JSON(http.StatusOK, models.UserPage{
		Page:     page,
		Total:    len(matched),
		LastPage: models.LastPage(len(matched), limit),
		Message:  "Users retrieved successfully",
		Users:    matched[start:end],
	})
}

func (m *memoryDirectory) createUser(c *gin.Context) {
	var body CreateUserBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload", "code": "VALIDATION_ERROR"})
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate != "" {
		c.JSON(http.StatusInternalServerError, gin.H{"message": m.failCreate, "code": "INTERNAL_ERROR"})
		return
	}
	for _, user := range m.users {
		if user.Email == body.Email {
			c.JSON(http.StatusConflict, gin.H{"message": "email already exists", "code": "CONFLICT"})
			return
		}
	}
	user := models.User{ID: m.nextID, Name: body.Name, Email: body.Email, Role: body.Role, Phone: body.Phone, Username: body.Username}
	m.nextID++
	m.users = append(m.users, user)
	c.JSON(http.StatusCreated, user)
}

func (m *memoryDirectory) deleteUser(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, user := range m.users {
		if user.ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "user not found", "code": "NOT_FOUND"})
}

func (m *memoryDirectory) listRegistrations(c *gin.Context) {
	status := models.RegistrationStatus(c.Query("status"))
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Registration, 0, len(m.registrations))
	for _, reg := range m.registrations {
		if status == "" || reg.Status == status {
			out = append(out, reg)
		}
	}
	c.JSON(http.StatusOK, models.RegistrationList{Registrations: out})
}

func (m *memoryDirectory) getRegistration(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, reg := range m.registrations {
		if reg.ID == id {
			c.JSON(http.StatusOK, reg)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "registration not found", "code": "NOT_FOUND"})
}

func (m *memoryDirectory) reviewRegistration(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	var body struct {
		Status models.RegistrationStatus `json:"status"`
		Note   string                    `json:"note"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload", "code": "VALIDATION_ERROR"})
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.registrations {
		if m.registrations[i].ID != id {
			continue
		}
		if m.registrations[i].Status != models.RegistrationPending {
			c.JSON(http.StatusConflict, gin.H{"message": "registration is no longer pending", "code": "CONFLICT"})
			return
		}
		now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
		reviewer := int64(1)
		m.registrations[i].Status = body.Status
		m.registrations[i].ReviewedAt = &now
		m.registrations[i].ReviewedBy = &reviewer
		if body.Note != "" {
			note := body.Note
			m.registrations[i].ReviewNote = &note
		}
		c.JSON(http.StatusOK, m.registrations[i])
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "registration not found", "code": "NOT_FOUND"})
}

// fakeClock runs AfterFunc callbacks when Advance passes their deadline.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, fn: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []func()
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t.fn)
		}
	}
	c.mu.Unlock()
	for _, fn := range due {
		fn()
	}
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}
