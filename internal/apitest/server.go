// Package apitest runs an in-process Stride backend with real HTTP
// semantics: bearer-guarded routes, a rotating refresh endpoint, and JSON
// error bodies. Integration tests and the demo binary point the client at
// it instead of a deployed server.
package apitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/striderun/stride-go/api"
)

// Fixture account accepted by the login endpoint.
const (
	Email    = "runner@example.com"
	Password = "negative-split"
)

// Server is the in-process backend. Close it when done.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	seq          int
	access       string
	refresh      string
	refreshCalls int
	runs         []api.Run
	user         api.User
}

// New starts the fixture backend with one valid session already issued.
func New() *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		user: api.User{ID: uuid.New(), Email: Email, Name: "Test Runner"},
		runs: []api.Run{{
			ID:              uuid.New(),
			Date:            time.Date(2026, 8, 20, 7, 0, 0, 0, time.UTC),
			DistanceKm:      decimal.RequireFromString("12.4"),
			DurationSeconds: 3725,
			Notes:           "tempo",
		}},
	}
	s.issuePair()

	router := gin.New()

	auth := router.Group("/auth")
	{
		auth.POST("/login", s.handleLogin)
		auth.POST("/refresh", s.handleRefresh)
		auth.POST("/logout", s.handleLogout)
	}

	protected := router.Group("/api")
	protected.Use(s.authMiddleware())
	{
		protected.GET("/runs", s.handleListRuns)
		protected.POST("/runs", s.handleCreateRun)
		protected.GET("/stats", s.handleStats)
	}

	s.Server = httptest.NewServer(router)
	return s
}

// AccessToken returns the currently valid access token.
func (s *Server) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access
}

// RefreshToken returns the currently valid refresh token.
func (s *Server) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh
}

// RefreshCalls reports how many times the refresh endpoint ran.
func (s *Server) RefreshCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshCalls
}

// ExpireAccess invalidates the current access token, so the next protected
// call gets a 401.
func (s *Server) ExpireAccess() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
}

// ExpireSession invalidates both tokens, so even a refresh fails.
func (s *Server) ExpireSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
}

func (s *Server) issuePair() {
	s.seq++
	s.access = fmt.Sprintf("access-%d-%s", s.seq, uuid.NewString())
	s.refresh = fmt.Sprintf("refresh-%d-%s", s.seq, uuid.NewString())
}

func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")

		s.mu.Lock()
		valid := s.access != "" && token == s.access
		s.mu.Unlock()

		if !valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
			return
		}

		c.Next()
	}
}

func (s *Server) handleLogin(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if req.Email != Email || req.Password != Password {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	s.mu.Lock()
	s.issuePair()
	resp := api.TokenResponse{AccessToken: s.access, RefreshToken: s.refresh, User: s.user}
	s.mu.Unlock()

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleRefresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshCalls++
	if s.refresh == "" || req.RefreshToken != s.refresh {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "refresh token expired"})
		return
	}

	// Rotation: the old refresh token dies with this call.
	s.issuePair()
	c.JSON(http.StatusOK, gin.H{"access_token": s.access, "refresh_token": s.refresh})
}

func (s *Server) handleLogout(c *gin.Context) {
	s.mu.Lock()
	s.access = ""
	s.refresh = ""
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}

func (s *Server) handleListRuns(c *gin.Context) {
	s.mu.Lock()
	runs := make([]api.Run, len(s.runs))
	copy(runs, s.runs)
	s.mu.Unlock()

	c.JSON(http.StatusOK, runs)
}

func (s *Server) handleCreateRun(c *gin.Context) {
	var req api.NewRun
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "distance and duration are required"})
		return
	}

	run := api.Run{
		ID:              uuid.New(),
		Date:            req.Date,
		DistanceKm:      req.DistanceKm,
		DurationSeconds: req.DurationSeconds,
		Notes:           req.Notes,
	}

	s.mu.Lock()
	s.runs = append(s.runs, run)
	s.mu.Unlock()

	c.JSON(http.StatusCreated, run)
}

func (s *Server) handleStats(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	seconds := 0
	for _, r := range s.runs {
		total = total.Add(r.DistanceKm)
		seconds += r.DurationSeconds
	}

	c.JSON(http.StatusOK, api.Stats{
		TotalRuns:       len(s.runs),
		TotalDistanceKm: total,
		TotalSeconds:    seconds,
	})
}
