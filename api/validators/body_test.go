package validators

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/rootline/rootline-backend/pkg/errors"
)

type samplePayload struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,min=2"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{"email":"a@example.com","name":"Ada"}`)))

	var body samplePayload
	if err := DecodeJSONBody(req, &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.Email != "a@example.com" {
		t.Fatalf("unexpected email %q", body.Email)
	}
}

func TestDecodeJSONBodyMalformed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{"email":`)))

	var body samplePayload
	err := DecodeJSONBody(req, &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestDecodeJSONBodyUnknownField(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{"email":"a@example.com","name":"Ada","extra":true}`)))

	var body samplePayload
	if err := DecodeJSONBody(req, &body); err == nil {
		t.Fatalf("expected unknown field to be rejected")
	}
}

func TestDecodeJSONBodyValidationDetailsUseJSONNames(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{"email":"not-an-email","name":"A"}`)))

	var body samplePayload
	err := DecodeJSONBody(req, &body)
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details got %T", typed.Details())
	}
	if details["email"] != "must be a valid email" {
		t.Fatalf("unexpected email detail %q", details["email"])
	}
	if details["name"] != "must be at least 2" {
		t.Fatalf("unexpected name detail %q", details["name"])
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=25", nil)
	value, err := ParseQueryInt(req, "limit", 10, 1, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != 25 {
		t.Fatalf("expected 25 got %d", value)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	value, err = ParseQueryInt(req, "limit", 10, 1, 100)
	if err != nil || value != 10 {
		t.Fatalf("expected default 10 got %d (%v)", value, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/?limit=abc", nil)
	if _, err = ParseQueryInt(req, "limit", 10, 1, 100); err == nil {
		t.Fatalf("expected error for non-numeric input")
	}

	req = httptest.NewRequest(http.MethodGet, "/?limit=500", nil)
	if _, err = ParseQueryInt(req, "limit", 10, 1, 100); err == nil {
		t.Fatalf("expected error for out-of-range input")
	}
}
