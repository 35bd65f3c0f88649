package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func performJSON(t *testing.T, handler gin.HandlerFunc, method, target, body string, setup func(*gin.Context)) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	if setup != nil {
		setup(c)
	}
	handler(c)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestSignupRejectsMismatchedConfirmation(t *testing.T) {
	h := NewAuthHandler(nil)
	body := `{"firstName":"Sara","lastName":"Mohammadi","email":"sara@example.com","password":"abc123","passwordConfirm":"TOTALLY-DIFFERENT"}`

	rec := performJSON(t, h.Signup, http.MethodPost, "/api/v1/users/signup", body, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp["status"] != "fail" {
		t.Fatalf("expected fail status, got %v", resp["status"])
	}
	if resp["message"] != "Passwords do not match" {
		t.Fatalf("unexpected message %v", resp["message"])
	}
	if _, ok := resp["token"]; ok {
		t.Fatal("a rejected signup must not carry a token")
	}
}

func TestSignupRequiresConfirmationField(t *testing.T) {
	h := NewAuthHandler(nil)
	body := `{"firstName":"Sara","lastName":"Mohammadi","email":"sara@example.com","password":"abc123"}`

	rec := performJSON(t, h.Signup, http.MethodPost, "/api/v1/users/signup", body, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without passwordConfirm, got %d", rec.Code)
	}
	if resp := decodeBody(t, rec); resp["status"] != "fail" {
		t.Fatalf("expected fail status, got %v", resp["status"])
	}
}
