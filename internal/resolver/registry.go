package resolver

import (
	"gitlab.com/gitlab-org/artifact-gateway/internal/handler"
)

// Factory constructs the handler serving repository name with config
type Factory func(name string, config RepoConfig) (handler.Handler, error)

// Registry maps a repository type, as declared in `repo.type`, to the
// factory building its handler
type Registry map[string]Factory

// Register adds factory for repoType, replacing any previous one
func (r Registry) Register(repoType string, factory Factory) Registry {
	r[repoType] = factory

	return r
}

// Factory returns the factory registered for repoType
func (r Registry) Factory(repoType string) (Factory, bool) {
	factory, ok := r[repoType]

	return factory, ok && factory != nil
}
