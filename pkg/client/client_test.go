package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSendMessage_Success(t *testing.T) {
	var gotPath string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"reply":"Fuel at 87%."}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	out := c.SendMessage(context.Background(), "What is the fuel level?")

	require.Equal(t, "Fuel at 87%.", out)
	require.Equal(t, "/api/chat", gotPath)
	require.Equal(t, "What is the fuel level?", gotReq.Message)
}

func TestSendMessage_ServerErrorUsesFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"upstream failure"}`, http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.Equal(t, FallbackUnreachable, c.SendMessage(context.Background(), "hello"))
}

func TestSendMessage_NetworkFailureIsIdempotent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	c := New(srv.URL)
	first := c.SendMessage(context.Background(), "hello")
	second := c.SendMessage(context.Background(), "hello")

	require.Equal(t, FallbackUnreachable, first)
	require.Equal(t, first, second, "consecutive failures must render identically")
}

func TestSendMessage_MalformedSuccessBody(t *testing.T) {
	for _, body := range []string{`{}`, `{"reply":""}`, `{"unexpected":true}`, `not json`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))

		c := New(srv.URL)
		out := c.SendMessage(context.Background(), "hello")
		srv.Close()

		require.Equal(t, FallbackInvalidResponse, out, "body %q", body)
	}
}

func TestSendMessage_OneAttemptPerCall(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SendMessage(context.Background(), "hello")
	require.Equal(t, 1, calls)
}

func TestSendMessageSession_CarriesSessionID(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(`{"reply":"noted"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SendMessageSession(context.Background(), "hello", "session-42")
	require.Equal(t, "session-42", gotReq.SessionID)
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.Write([]byte(`{"status":"ok"}`))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.Health(context.Background()))

	bad := New("http://127.0.0.1:1")
	require.Error(t, bad.Health(context.Background()))
}
