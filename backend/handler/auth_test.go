package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestAuthHandlerLogin(t *testing.T) {
	handler := NewAuthHandler(testConfig())

	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
	}{
		{
			name:           "valid login",
			body:           map[string]string{"username": "cmendoza", "password": "clave123"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid username",
			body:           map[string]string{"username": "nadie", "password": "clave123"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid password",
			body:           map[string]string{"username": "cmendoza", "password": "clave456"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing fields",
			body:           map[string]string{"username": "cmendoza"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.POST("/login", handler.Login)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest("POST", "/login", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.expectedStatus == http.StatusOK {
				var response LoginResponse
				if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
					t.Errorf("Failed to parse response: %v", err)
				}
				if response.Token == "" {
					t.Error("Expected token in response")
				}
				if response.IDTecnico != "1" || response.Nombre != "CARLOS MENDOZA QUISPE" {
					t.Errorf("Unexpected principal %+v", response)
				}
			}
		})
	}
}

func TestAuthMe(t *testing.T) {
	h := newHarness(t, nil)

	w := h.do("GET", "/api/auth/me", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 without a token, got %d", w.Code)
	}

	me := expectStatus(t, h.do("GET", "/api/auth/me", h.token(t, "lhuaman"), nil), http.StatusOK)
	if me.Get("id_tecnico").String() != "2" || me.Get("username").String() != "lhuaman" {
		t.Errorf("Unexpected principal %s", me.Raw)
	}
	if me.Get("dni").String() != "41234567" {
		t.Errorf("Expected dni 41234567, got %s", me.Get("dni").String())
	}
}
