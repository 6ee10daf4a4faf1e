// Package agent turns a task description into model output, one role at a time.
package agent

import (
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/felixgeelhaar/crewgen/internal/log"
	"github.com/felixgeelhaar/crewgen/internal/provider"
)

// Agent renders a role's template and sends it to the completion service.
type Agent struct {
	client    provider.CompletionClient
	profiles  map[Role]Profile
	templates map[Role]*template.Template
	logger    *log.Logger
}

// Option configures an Agent.
type Option func(*Agent)

// WithProfile replaces the profile for p.Role. An empty Template keeps the
// current one.
func WithProfile(p Profile) Option {
	return func(a *Agent) {
		if p.Template == "" {
			p.Template = a.profiles[p.Role].Template
		}
		a.profiles[p.Role] = p
	}
}

// WithLogger sets the logger used for call tracing.
func WithLogger(l *log.Logger) Option {
	return func(a *Agent) { a.logger = l }
}

// New builds an Agent on top of client. Templates are parsed up front so a
// bad template fails here rather than mid-run.
func New(client provider.CompletionClient, opts ...Option) (*Agent, error) {
	a := &Agent{
		client:    client,
		profiles:  DefaultProfiles(),
		templates: make(map[Role]*template.Template),
		logger:    log.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}

	for role, p := range a.profiles {
		tmpl, err := template.New(role.String()).Option("missingkey=error").Parse(p.Template)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", role, err)
		}
		a.templates[role] = tmpl
	}
	return a, nil
}

// Profile returns the profile in use for role.
func (a *Agent) Profile(role Role) (Profile, bool) {
	p, ok := a.profiles[role]
	return p, ok
}

// Prompt renders the prompt role would send for task.
func (a *Agent) Prompt(role Role, task string) (string, error) {
	tmpl, ok := a.templates[role]
	if !ok {
		return "", fmt.Errorf("no profile for role %s", role)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, struct{ Task string }{task}); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", role, err)
	}
	return b.String(), nil
}

// Run sends task to the model configured for role and returns the first
// candidate's text untouched. Completion errors are returned as is. A logger
// carried by ctx takes precedence over the one set with WithLogger.
func (a *Agent) Run(ctx context.Context, role Role, task string) (string, error) {
	prompt, err := a.Prompt(role, task)
	if err != nil {
		return "", err
	}
	p := a.profiles[role]

	req := provider.NewUserRequest(p.Model, prompt, p.Temperature)
	req.Metadata = map[string]string{provider.MetadataRole: role.String()}

	logger := log.FromContext(ctx, a.logger).With("role", role.String(), "model", p.Model, "provider", a.client.Name())
	logger.DebugContext(ctx, "calling model", "prompt_chars", len(prompt))

	start := time.Now()
	resp, err := a.client.Complete(ctx, req)
	if err != nil {
		return "", err
	}

	text := resp.Text()
	logger.InfoContext(ctx, "model answered",
		"chars", len(text),
		"tokens", resp.Usage.TotalTokens,
		"duration", time.Since(start).Round(time.Millisecond))
	return text, nil
}

// Coordinate asks the coordinator to break brief into a plan.
func (a *Agent) Coordinate(ctx context.Context, brief string) (string, error) {
	return a.Run(ctx, RoleCoordinator, brief)
}

// Frontend generates frontend code for tasks.
func (a *Agent) Frontend(ctx context.Context, tasks string) (string, error) {
	return a.Run(ctx, RoleFrontend, tasks)
}

// Backend generates backend code for tasks.
func (a *Agent) Backend(ctx context.Context, tasks string) (string, error) {
	return a.Run(ctx, RoleBackend, tasks)
}
