package session

import (
	"context"
	"log/slog"

	"github.com/csheth/ragdesk/internal/rag"
)

// LoginOutcome is what a finished login exchange produced.
type LoginOutcome struct {
	Token string
	Err   error
}

// AskOutcome is what a finished query exchange produced.
type AskOutcome struct {
	Answer rag.Answer
	Err    error
}

// BeginLogin clears the error before the request goes out.
func BeginLogin(s State) State {
	s.Error = ""
	return s
}

// CompleteLogin folds a login outcome into the state. An empty token on a
// successful exchange leaves the session where it was.
func CompleteLogin(s State, out LoginOutcome) State {
	if out.Err != nil {
		s.Error = errorMessage(out.Err)
		return s
	}
	if out.Token == "" {
		slog.Warn("login succeeded without access_token; staying signed out")
		return s
	}
	s.Auth = Authenticated{Token: out.Token}
	return s
}

// BeginAsk clears the error and the previous result so nothing stale is shown
// while the request is in flight.
func BeginAsk(s State) State {
	s.Error = ""
	s.Result = Result{Sources: []string{}}
	return s
}

// CompleteAsk folds a query outcome into the state. Completions overwrite
// unconditionally; the last one to arrive wins.
func CompleteAsk(s State, out AskOutcome) State {
	if out.Err != nil {
		s.Error = errorMessage(out.Err)
		s.Result = Result{Sources: []string{}}
		return s
	}
	sources := out.Answer.Sources
	if sources == nil {
		sources = []string{}
	}
	s.Result = Result{Answer: out.Answer.Result, Sources: sources}
	return s
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Controller runs the two network exchanges against a rag.Client.
type Controller struct {
	client rag.Client
}

// NewController wires a controller to the given transport.
func NewController(client rag.Client) *Controller {
	return &Controller{client: client}
}

// RunLogin performs the login exchange. It does not touch state.
func (c *Controller) RunLogin(ctx context.Context, creds rag.Credentials) LoginOutcome {
	token, err := c.client.Login(ctx, creds)
	return LoginOutcome{Token: token, Err: err}
}

// RunAsk performs the query exchange. It does not touch state.
func (c *Controller) RunAsk(ctx context.Context, token string, draft Draft) AskOutcome {
	answer, err := c.client.Query(ctx, token, rag.Question{Question: draft.Question, Source: draft.Source})
	return AskOutcome{Answer: answer, Err: err}
}

// Login is the whole login action: begin, exchange, complete.
func (c *Controller) Login(ctx context.Context, s State) State {
	s = BeginLogin(s)
	return CompleteLogin(s, c.RunLogin(ctx, s.Credentials))
}

// Ask is the whole ask action: begin, exchange, complete.
func (c *Controller) Ask(ctx context.Context, s State) State {
	s = BeginAsk(s)
	return CompleteAsk(s, c.RunAsk(ctx, s.Token(), s.Draft))
}
