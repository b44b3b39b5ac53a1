package services

import (
	"context"
	"fmt"

	"github.com/taskora/taskora-cli/internal/client/api"
)

// ResourceService is the thin read surface over the authenticated part
// of the backend, plus the liveness probe used by the online watcher.
type ResourceService interface {
	Projects(ctx context.Context) ([]api.Project, error)
	Tasks(ctx context.Context, projectID string) ([]api.Task, error)
	Ping(ctx context.Context) error
}

type resourceService struct {
	client api.Client
}

// NewResourceService constructs a ResourceService bound to the given
// API client.
func NewResourceService(client api.Client) ResourceService {
	return &resourceService{client: client}
}

func (r *resourceService) Projects(ctx context.Context) ([]api.Project, error) {
	projects, err := r.client.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

func (r *resourceService) Tasks(ctx context.Context, projectID string) ([]api.Task, error) {
	tasks, err := r.client.ListTasks(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Ping proxies a liveness check to the underlying client.
func (r *resourceService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}
