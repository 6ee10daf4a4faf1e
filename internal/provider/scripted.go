package provider

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	crewerrors "github.com/felixgeelhaar/crewgen/internal/errors"
)

// MetadataRole is the Request.Metadata key the scripted provider answers by.
const MetadataRole = "role"

// Script is the on-disk form of canned responses. JSON files parse too.
//
//	responses:
//	  coordinator: '{"Frontend Tasks": "build a form", "Backend Tasks": "build an API"}'
//	  frontend: "export default function App() {}"
//	default: "fallback text"
type Script struct {
	Responses map[string]string `yaml:"responses"`
	Default   string            `yaml:"default"`
}

// Scripted replays canned responses keyed by the request's role. It records
// every request it receives and is safe for concurrent use.
type Scripted struct {
	mu       sync.Mutex
	script   Script
	failures map[string]error
	calls    []Request
}

// NewScripted returns a provider answering each role with responses[role].
func NewScripted(responses map[string]string) *Scripted {
	return &Scripted{
		script:   Script{Responses: responses},
		failures: map[string]error{},
	}
}

// LoadScript reads a Script file.
func LoadScript(path string) (*Scripted, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, crewerrors.NewFileNotFoundError(path)
		}
		return nil, crewerrors.Wrap(crewerrors.ErrCodeFileReadFailed, "failed to read script", err)
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, crewerrors.Wrap(crewerrors.ErrCodeProviderConfig, "failed to parse script "+path, err)
	}

	s := NewScripted(script.Responses)
	s.script.Default = script.Default
	return s, nil
}

// FailOn makes requests for role return err.
func (s *Scripted) FailOn(role string, err error) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[role] = err
	return s
}

// Calls returns a copy of the requests received so far.
func (s *Scripted) Calls() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.calls...)
}

// Name implements CompletionClient.
func (s *Scripted) Name() string { return NameScripted }

// Complete implements CompletionClient.
func (s *Scripted) Complete(ctx context.Context, req *Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	role := req.Metadata[MetadataRole]

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, *req)

	if err, ok := s.failures[role]; ok {
		return nil, err
	}

	text, ok := s.script.Responses[role]
	if !ok {
		if s.script.Default == "" {
			return nil, crewerrors.New(crewerrors.ErrCodeProviderConfig,
				fmt.Sprintf("no scripted response for role %q", role))
		}
		text = s.script.Default
	}

	return &Response{
		Choices:  []Choice{{Text: text, FinishReason: "stop"}},
		Model:    req.Model,
		Provider: NameScripted,
	}, nil
}
