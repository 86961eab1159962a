package rag

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func newTestClient(server *httptest.Server) *httpClient {
	return &httpClient{
		endpoint: func(path string) string { return server.URL + path },
		client:   server.Client(),
	}
}

func TestLoginSendsFormEncodedCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		require.Equal(t, "admin@example.com", r.PostForm.Get("username"))
		require.Equal(t, "pa ss&word", r.PostForm.Get("password"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"T","token_type":"bearer"}`))
	}))
	defer server.Close()

	token, err := newTestClient(server).Login(context.Background(), Credentials{Username: "admin@example.com", Password: "pa ss&word"})
	require.NoError(t, err)
	require.Equal(t, "T", token)
}

func TestLoginForwardsEmptyCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Contains(t, r.PostForm, "username")
		require.Contains(t, r.PostForm, "password")
		require.Empty(t, r.PostForm.Get("username"))
		w.Write([]byte(`{"access_token":"T"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server).Login(context.Background(), Credentials{})
	require.NoError(t, err)
}

func TestLoginNonSuccessSurfacesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("invalid credentials"))
	}))
	defer server.Close()

	token, err := newTestClient(server).Login(context.Background(), Credentials{Username: "admin@example.com", Password: "password"})
	require.Error(t, err)
	require.Empty(t, token)
	require.Equal(t, "invalid credentials", err.Error())

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
}

func TestLoginAccessTokenShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string", `{"access_token":"abc"}`, "abc"},
		{"missing", `{"token_type":"bearer"}`, ""},
		{"null", `{"access_token":null}`, ""},
		{"number", `{"access_token":42}`, "42"},
		{"empty string", `{"access_token":""}`, ""},
		{"false", `{"access_token":false}`, ""},
		{"zero", `{"access_token":0}`, ""},
		{"zero float", `{"access_token":0.0}`, ""},
		{"true", `{"access_token":true}`, "true"},
		{"object", `{"access_token":{"v":1}}`, `{"v":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			token, err := newTestClient(server).Login(context.Background(), Credentials{})
			require.NoError(t, err)
			require.Equal(t, tt.want, token)
		})
	}
}

func TestLoginMalformedJSONIsLocalFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>oops`))
	}))
	defer server.Close()

	_, err := newTestClient(server).Login(context.Background(), Credentials{})
	require.Error(t, err)
	var statusErr *StatusError
	require.False(t, errors.As(err, &statusErr))
	require.NotEmpty(t, err.Error())
}

func TestQuerySendsBearerAndJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/query", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "Bearer tok1", r.Header.Get("Authorization"))
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, map[string]string{"question": "What is X?", "source": "Wikipedia"}, payload)
		w.Write([]byte(`{"result":"X is...","sources":["wiki/X"]}`))
	}))
	defer server.Close()

	answer, err := newTestClient(server).Query(context.Background(), "tok1", Question{Question: "What is X?", Source: SourceWikipedia})
	require.NoError(t, err)
	require.Equal(t, Answer{Result: "X is...", Sources: []string{"wiki/X"}}, answer)
}

func TestQueryEmptyTokenStillSendsBearer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer ", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Not authenticated"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server).Query(context.Background(), "", Question{Source: SourceAll})
	require.EqualError(t, err, `{"detail":"Not authenticated"}`)
}

func TestQueryResponseShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Answer
	}{
		{"round trip", `{"result":"A","sources":["s1","s2"]}`, Answer{Result: "A", Sources: []string{"s1", "s2"}}},
		{"missing sources", `{"result":"A"}`, Answer{Result: "A", Sources: []string{}}},
		{"null sources", `{"result":"A","sources":null}`, Answer{Result: "A", Sources: []string{}}},
		{"missing result", `{"sources":["s1"]}`, Answer{Result: "", Sources: []string{"s1"}}},
		{"structured result", `{"result":{"text":"A"}}`, Answer{Result: `{"text":"A"}`, Sources: []string{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			answer, err := newTestClient(server).Query(context.Background(), "tok", Question{Question: "Q", Source: SourceAll})
			require.NoError(t, err)
			require.Equal(t, tt.want, answer)
			require.NotNil(t, answer.Sources)
		})
	}
}

func TestQueryTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := newTestClient(server)
	server.Close()

	_, err := client.Query(context.Background(), "tok", Question{Question: "Q", Source: SourceAll})
	require.Error(t, err)
	require.NotEmpty(t, err.Error())
}

func TestNewUsesEndpointMapper(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		w.Write([]byte(`{"access_token":"T"}`))
	}))
	defer server.Close()

	client := New(Config{
		Endpoint:   func(path string) string { return server.URL + path },
		HTTPClient: server.Client(),
	})
	token, err := client.Login(context.Background(), Credentials{Username: "u", Password: "p"})
	require.NoError(t, err)
	require.Equal(t, "T", token)
}

func TestPickHTTPClient(t *testing.T) {
	custom := &http.Client{Timeout: 42 * time.Second}
	require.Same(t, custom, pickHTTPClient(custom, time.Second))
	require.Zero(t, pickHTTPClient(nil, 0).Timeout)
	require.Equal(t, 5*time.Second, pickHTTPClient(nil, 5*time.Second).Timeout)
}

func TestClaimsReadsSubjectAndRole(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "admin@example.com",
		"role": "admin",
		"exp":  exp.Unix(),
	}).SignedString([]byte("devsecret"))
	require.NoError(t, err)

	identity, err := Claims(token)
	require.NoError(t, err)
	require.Equal(t, "admin@example.com", identity.Subject)
	require.Equal(t, "admin", identity.Role)
	require.True(t, identity.ExpiresAt.Equal(exp))
	require.Equal(t, "admin@example.com (admin)", identity.Label())
	require.Equal(t, "expires "+exp.Local().Format("Jan 2 15:04"), identity.Expiry())
}

func TestClaimsRejectsOpaqueToken(t *testing.T) {
	_, err := Claims("tok1")
	require.Error(t, err)
	require.Empty(t, Identity{}.Label())
	require.Empty(t, Identity{Subject: "u"}.Expiry())
}
