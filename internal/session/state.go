// Package session holds the desk's client state and the pure transitions
// that the login and ask actions drive it through.
package session

import "github.com/csheth/ragdesk/internal/rag"

const (
	DefaultUsername = "admin@example.com"
	DefaultPassword = "password"
)

// Auth is either Unauthenticated or Authenticated.
type Auth interface {
	isAuth()
}

// Unauthenticated is the initial state; only login is reachable.
type Unauthenticated struct{}

// Authenticated carries the bearer token returned by a successful login.
type Authenticated struct {
	Token string
}

func (Unauthenticated) isAuth() {}
func (Authenticated) isAuth()   {}

// Draft is the query being composed. It survives submission.
type Draft struct {
	Question string
	Source   rag.Source
}

// Result is the last successful answer.
type Result struct {
	Answer  string
	Sources []string
}

// Empty reports whether there is nothing to show.
func (r Result) Empty() bool {
	return r.Answer == "" && len(r.Sources) == 0
}

// State is everything the view renders from.
type State struct {
	Credentials rag.Credentials
	Auth        Auth
	Draft       Draft
	Result      Result
	Error       string
}

// New returns the initial state with the given credentials prefilled.
func New(creds rag.Credentials) State {
	return State{
		Credentials: creds,
		Auth:        Unauthenticated{},
		Draft:       Draft{Source: rag.SourceAll},
		Result:      Result{Sources: []string{}},
	}
}

// Token returns the bearer token, or "" when unauthenticated.
func (s State) Token() string {
	if auth, ok := s.Auth.(Authenticated); ok {
		return auth.Token
	}
	return ""
}

// SignedIn reports which of the two screens applies.
func (s State) SignedIn() bool {
	_, ok := s.Auth.(Authenticated)
	return ok
}
