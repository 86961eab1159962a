package rag

import (
	"context"
	"net/http"
	"time"
)

const (
	loginPath = "/auth/login"
	queryPath = "/query"
)

// Source selects which corpus the query endpoint searches.
type Source string

const (
	SourceAll       Source = "all"
	SourcePDF       Source = "PDF"
	SourceWikipedia Source = "Wikipedia"
)

// Sources lists the selectable corpora in display order.
var Sources = []Source{SourceAll, SourcePDF, SourceWikipedia}

// Credentials are forwarded to the authentication endpoint as-is.
type Credentials struct {
	Username string
	Password string
}

// Question is the JSON payload sent to the query endpoint.
type Question struct {
	Question string `json:"question"`
	Source   Source `json:"source"`
}

// Answer is the decoded success payload of the query endpoint.
type Answer struct {
	Result  string
	Sources []string
}

// Config describes how to build a Client.
type Config struct {
	// Endpoint maps a request path to an absolute URL.
	Endpoint   func(path string) string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client performs the two exchanges the desk needs.
type Client interface {
	Login(ctx context.Context, creds Credentials) (string, error)
	Query(ctx context.Context, token string, question Question) (Answer, error)
}

// New builds an HTTP-backed Client.
func New(cfg Config) Client {
	endpoint := cfg.Endpoint
	if endpoint == nil {
		endpoint = func(path string) string { return path }
	}
	return &httpClient{
		endpoint: endpoint,
		client:   pickHTTPClient(cfg.HTTPClient, cfg.Timeout),
	}
}

func pickHTTPClient(custom *http.Client, timeout time.Duration) *http.Client {
	if custom != nil {
		return custom
	}
	// Zero timeout leaves the transport's own limits in charge.
	return &http.Client{Timeout: timeout}
}
