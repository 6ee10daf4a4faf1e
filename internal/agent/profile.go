package agent

import "github.com/felixgeelhaar/crewgen/internal/provider"

// Profile is everything that differs between agents.
type Profile struct {
	Role  Role
	Model string

	// Temperature nil leaves sampling at the service default
	Temperature *float64

	// Template is a text/template rendered with {{.Task}}
	Template string
}

const coordinatorTemplate = `You are a senior software architect.
Given this project brief: "{{.Task}}"
Break it into technical tasks divided into:
- Frontend Tasks
- Backend Tasks
Return in JSON format.`

const frontendTemplate = `You are a React developer.
Based on these frontend requirements:
{{.Task}}
Generate React component code using functional components, Tailwind CSS, and React Router.
Give me only the code that is not in comment it should be working fine directly`

const backendTemplate = `You are a backend developer.
Based on these backend requirements:
{{.Task}}
Generate a Python FastAPI backend with routes, models (SQLAlchemy), and sample database schema.
Label every file as **` + "`path`" + `**: followed by a fenced code block.`

// DefaultProfiles returns the stock profile for every role. Only the backend
// pins its temperature.
func DefaultProfiles() map[Role]Profile {
	return map[Role]Profile{
		RoleCoordinator: {Role: RoleCoordinator, Model: "gpt-5", Template: coordinatorTemplate},
		RoleFrontend:    {Role: RoleFrontend, Model: "gpt-4o", Template: frontendTemplate},
		RoleBackend:     {Role: RoleBackend, Model: "gpt-4o", Temperature: provider.Float(0), Template: backendTemplate},
	}
}
