package session

import "github.com/csheth/ragdesk/internal/rag"

// EventKind names a draft edit.
type EventKind int

const (
	UsernameChanged EventKind = iota
	PasswordChanged
	QuestionChanged
	SourceSelected
	SourceCycled
)

// Event is one user edit to the credentials or the query draft.
type Event struct {
	Kind   EventKind
	Value  string
	Source rag.Source
	Step   int
}

// Reduce applies a draft edit. It never touches auth, result or error.
func Reduce(s State, ev Event) State {
	switch ev.Kind {
	case UsernameChanged:
		s.Credentials.Username = ev.Value
	case PasswordChanged:
		s.Credentials.Password = ev.Value
	case QuestionChanged:
		s.Draft.Question = ev.Value
	case SourceSelected:
		if validSource(ev.Source) {
			s.Draft.Source = ev.Source
		}
	case SourceCycled:
		s.Draft.Source = cycleSource(s.Draft.Source, ev.Step)
	}
	return s
}

func validSource(src rag.Source) bool {
	for _, candidate := range rag.Sources {
		if candidate == src {
			return true
		}
	}
	return false
}

func cycleSource(current rag.Source, step int) rag.Source {
	idx := 0
	for i, candidate := range rag.Sources {
		if candidate == current {
			idx = i
			break
		}
	}
	n := len(rag.Sources)
	idx = ((idx+step)%n + n) % n
	return rag.Sources[idx]
}
