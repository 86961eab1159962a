package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/ragdesk/internal/rag"
	"github.com/csheth/ragdesk/internal/session"
)

type loginResultMsg struct {
	outcome session.LoginOutcome
}

type askResultMsg struct {
	outcome session.AskOutcome
}

func loginJob(ctrl *session.Controller, creds rag.Credentials) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		out := ctrl.RunLogin(ctx, creds)
		return loginResultMsg{outcome: out}, out.Err
	}
}

func askJob(ctrl *session.Controller, token string, draft session.Draft) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		out := ctrl.RunAsk(ctx, token, draft)
		return askResultMsg{outcome: out}, out.Err
	}
}
