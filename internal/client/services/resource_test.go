package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taskora/taskora-cli/internal/client/api"
)

func TestResourceService_Projects(t *testing.T) {
	fc := &fakeClient{ProjectsRes: []api.Project{
		{ID: "p1", Name: "Website relaunch", Status: "active", TaskCount: 12},
	}}
	svc := NewResourceService(fc)

	projects, err := svc.Projects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, "Website relaunch", projects[0].Name)
}

func TestResourceService_Projects_WrapsError(t *testing.T) {
	fc := &fakeClient{ProjectsErr: api.ErrUnavailable}
	svc := NewResourceService(fc)

	_, err := svc.Projects(context.Background())
	require.ErrorIs(t, err, api.ErrUnavailable)
	require.Contains(t, err.Error(), "failed to list projects:")
}

func TestResourceService_Tasks(t *testing.T) {
	fc := &fakeClient{TasksRes: []api.Task{
		{ID: "t1", Title: "Fix login", Status: "in-progress", Priority: "high", ProjectID: "p1"},
	}}
	svc := NewResourceService(fc)

	tasks, err := svc.Tasks(context.Background(), "p1")
	require.NoError(t, err)
	require.Equal(t, "p1", fc.LastProjectID)
	require.Len(t, tasks, 1)
	require.Equal(t, "Fix login", tasks[0].Title)
}

func TestResourceService_Tasks_WrapsError(t *testing.T) {
	fc := &fakeClient{TasksErr: api.ErrUnavailable}
	svc := NewResourceService(fc)

	_, err := svc.Tasks(context.Background(), "")
	require.ErrorIs(t, err, api.ErrUnavailable)
	require.Contains(t, err.Error(), "failed to list tasks:")
}

func TestResourceService_Ping(t *testing.T) {
	fc := &fakeClient{}
	svc := NewResourceService(fc)
	require.NoError(t, svc.Ping(context.Background()))

	fc.PingErr = api.ErrUnavailable
	require.ErrorIs(t, svc.Ping(context.Background()), api.ErrUnavailable)
}
