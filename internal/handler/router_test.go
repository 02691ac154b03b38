package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zhouzirui/chair-yoga/backend/internal/service/analytics"
	quizService "github.com/zhouzirui/chair-yoga/backend/internal/service/quiz"
)

func TestRouterMountsAPI(t *testing.T) {
	router := NewRouter(quizService.NewService(quizService.Config{}, nil, nil), nil, analytics.NewHub(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/steps", nil)
	req.Header.Set("Origin", "https://lp.example.com")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/sessions", nil)
	req.Header.Set("Origin", "https://lp.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.JSONEq(t, `{"status":"ok","sessions":0}`, resp.Body.String())
}

func TestRouterWithoutHubSkipsEvents(t *testing.T) {
	router := NewRouter(quizService.NewService(quizService.Config{}, nil, nil), nil, nil, nil)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/events/stream", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
