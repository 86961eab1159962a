package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/csheth/ragdesk/internal/tuitest"
)

func TestRagdeskLoginAndAsk(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var gotQuery struct {
		Question string `json:"question"`
		Source   string `json:"source"`
	}
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("username") != "admin@example.com" || r.PostForm.Get("password") != "password" {
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok1","token_type":"bearer"}`))
	})
	mux.HandleFunc("/query", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotQuery)
		mu.Unlock()
		_, _ = w.Write([]byte(`{"result":"X is Y.","sources":["wiki"]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)
	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: ragdeskArgs(t, binary, srv.URL+"/"),
		Dir:     cmdDir,
		Steps: []tuitest.Step{
			{WaitFor: "Enterprise RAG", Input: tuitest.KeyEnter},
			{WaitFor: "Ask a question", Input: tuitest.Type("What is X?")},
			{Delay: 100 * time.Millisecond, Input: tuitest.KeyTab},
			{Delay: 100 * time.Millisecond, Input: tuitest.KeyTab},
			{Delay: 100 * time.Millisecond, Input: tuitest.KeyTab},
			{Delay: 100 * time.Millisecond, Input: tuitest.KeyShiftTab},
			{Delay: 100 * time.Millisecond, Input: tuitest.KeyEnter},
			{WaitFor: "X is Y.", Input: tuitest.KeyCtrlC},
		},
		Timeout:        15 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	if !rec.Contains("• wiki") {
		t.Fatalf("expected source bullet in output:\n%s", rec.Plain())
	}
	mu.Lock()
	defer mu.Unlock()
	if gotAuth != "Bearer tok1" {
		t.Fatalf("unexpected authorization header %q", gotAuth)
	}
	if gotQuery.Question != "What is X?" || gotQuery.Source != "Wikipedia" {
		t.Fatalf("unexpected query payload %+v", gotQuery)
	}
}

func TestRagdeskShowsLoginError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Invalid credentials"}`))
	}))
	t.Cleanup(srv.Close)

	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)
	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: ragdeskArgs(t, binary, srv.URL),
		Dir:     cmdDir,
		Steps: []tuitest.Step{
			{WaitFor: "Enterprise RAG", Input: tuitest.KeyEnter},
			{WaitFor: "Invalid credentials", Input: tuitest.KeyEsc},
		},
		Timeout: 15 * time.Second,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	frame, ok := rec.FinalFrame()
	if !ok {
		t.Fatalf("no frames captured")
	}
	if strings.Contains(frame.Plain, "Ask a question") {
		t.Fatalf("login failure should keep the login screen:\n%s", frame.Plain)
	}
	if !rec.Contains(`{"detail":"Invalid credentials"}`) {
		t.Fatalf("expected the raw response body as the error:\n%s", rec.Plain())
	}
}

func ragdeskArgs(t *testing.T, binary, api string) []string {
	t.Helper()
	return []string{
		binary,
		"--no-alt-screen",
		"--markdown=false",
		"--api", api,
		"--log-file", filepath.Join(t.TempDir(), "ragdesk.log"),
	}
}

func moduleDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	return filepath.Dir(file)
}

func buildBinary(t *testing.T, cmdDir string) string {
	t.Helper()
	name := "ragdesk-integration"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	binPath := filepath.Join(t.TempDir(), name)
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = cmdDir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build CLI: %v\n%s", err, output)
	}
	return binPath
}
