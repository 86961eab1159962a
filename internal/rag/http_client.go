package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type httpClient struct {
	endpoint func(path string) string
	client   *http.Client
}

// StatusError carries a non-2xx response. Its message is the body verbatim.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return e.Body
}

func (c *httpClient) Login(ctx context.Context, creds Credentials) (string, error) {
	form := url.Values{}
	form.Set("username", creds.Username)
	form.Set("password", creds.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(loginPath), strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	var parsed struct {
		AccessToken json.RawMessage `json:"access_token"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	return tokenText(parsed.AccessToken), nil
}

func (c *httpClient) Query(ctx context.Context, token string, question Question) (Answer, error) {
	buf, err := json.Marshal(question)
	if err != nil {
		return Answer{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(queryPath), bytes.NewReader(buf))
	if err != nil {
		return Answer{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	body, err := c.do(req)
	if err != nil {
		return Answer{}, err
	}

	var parsed struct {
		Result  json.RawMessage   `json:"result"`
		Sources []json.RawMessage `json:"sources"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Answer{}, err
	}
	sources := make([]string, 0, len(parsed.Sources))
	for _, raw := range parsed.Sources {
		sources = append(sources, rawText(raw))
	}
	return Answer{Result: rawText(parsed.Result), Sources: sources}, nil
}

func (c *httpClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", req.URL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
	}
	return body, nil
}

// tokenText is rawText with falsy JSON values (false, 0, "") read as no
// token, so the client stays signed out.
func tokenText(raw json.RawMessage) string {
	var value any
	if err := json.Unmarshal(bytes.TrimSpace(raw), &value); err == nil {
		switch v := value.(type) {
		case bool:
			if !v {
				return ""
			}
		case float64:
			if v == 0 {
				return ""
			}
		}
	}
	return rawText(raw)
}

// rawText stores a JSON value without coercion: strings verbatim, null or
// missing as empty, anything else as its JSON text.
func rawText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	return string(trimmed)
}
