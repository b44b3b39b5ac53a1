package cli

import (
	"context"
	"fmt"
)

// Projects prints a table of the workspace's projects.
func (a *App) Projects(ctx context.Context) error {
	projects, err := a.resources.Projects(ctx)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}

	if len(projects) == 0 {
		printlnFn("No projects yet.")
		return nil
	}

	printlnFn(fmt.Sprintf("%-12s %-30s %-12s %s", "ID", "NAME", "STATUS", "TASKS"))
	for _, p := range projects {
		printlnFn(fmt.Sprintf("%-12s %-30s %-12s %d", p.ID, p.Name, p.Status, p.TaskCount))
	}
	return nil
}

// Tasks prints a table of tasks, optionally narrowed to one project.
func (a *App) Tasks(ctx context.Context, projectID string) error {
	tasks, err := a.resources.Tasks(ctx, projectID)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}

	if len(tasks) == 0 {
		printlnFn("No tasks found.")
		return nil
	}

	printlnFn(fmt.Sprintf("%-12s %-40s %-12s %-10s %s", "ID", "TITLE", "STATUS", "PRIORITY", "PROJECT"))
	for _, t := range tasks {
		printlnFn(fmt.Sprintf("%-12s %-40s %-12s %-10s %s", t.ID, t.Title, t.Status, t.Priority, t.ProjectID))
	}
	return nil
}
