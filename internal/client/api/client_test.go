package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestClient_BearerInjection(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("T1"), nil)
	if _, err := c.Get(context.Background(), "/users/me", nil, &struct{}{}); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "Bearer T1" {
		t.Errorf("expected bearer header, got %q", got)
	}
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken(""), nil)
	if _, err := c.Get(context.Background(), "/settings/public", nil, &struct{}{}); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "" {
		t.Errorf("expected no Authorization header, got %q", got)
	}
}

func TestClient_PostFormEncoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("unexpected content type %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		values, err := url.ParseQuery(string(body))
		if err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if values.Get("username") != "alice" || values.Get("password") != "p" {
			t.Errorf("unexpected form values: %v", values)
		}
		_, _ = w.Write([]byte(`{"access_token":"T1","token_type":"bearer"}`))
	}))
	defer srv.Close()

	form := url.Values{}
	form.Set("username", "alice")
	form.Set("password", "p")

	var out struct {
		AccessToken string `json:"access_token"`
	}
	c := New(srv.URL, nil, nil)
	if err := c.PostForm(context.Background(), "/token", form, &out); err != nil {
		t.Fatalf("PostForm failed: %v", err)
	}
	if out.AccessToken != "T1" {
		t.Errorf("expected token T1, got %q", out.AccessToken)
	}
}

func TestClient_StructuredError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"Incorrect flag."}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil, nil)
	err := c.Post(context.Background(), "/challenges/5/submit", map[string]string{"flag": "x"}, nil)
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", apiErr.Status)
	}
	if apiErr.Detail != "Incorrect flag." {
		t.Errorf("expected server detail, got %q", apiErr.Detail)
	}
	if string(apiErr.Body) != `{"detail":"Incorrect flag."}` {
		t.Errorf("raw body not preserved: %s", apiErr.Body)
	}
}

func TestClient_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil, nil)
	_, err := c.Get(context.Background(), "/users/me", nil, nil)
	if !IsUnauthorized(err) {
		t.Errorf("expected IsUnauthorized, got %v", err)
	}
	if IsNotFound(err) {
		t.Error("401 should not match IsNotFound")
	}
}

func TestClient_TransportError(t *testing.T) {
	c := New("http://127.0.0.1:1", nil, nil)
	_, err := c.Get(context.Background(), "/challenges/", nil, nil)
	if err == nil {
		t.Fatal("expected transport error")
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		t.Errorf("transport failure must not be an *Error: %v", err)
	}
}

func TestClient_ResponseHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("skip") != "20" || r.URL.Query().Get("limit") != "20" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Header().Set("x-total-count", "57")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	query := url.Values{}
	query.Set("skip", "20")
	query.Set("limit", "20")

	var out []struct{}
	c := New(srv.URL, nil, nil)
	header, err := c.Get(context.Background(), "/admin/logs/", query, &out)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if header.Get("x-total-count") != "57" {
		t.Errorf("expected header passthrough, got %q", header.Get("x-total-count"))
	}
}
