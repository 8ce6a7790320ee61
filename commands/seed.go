package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/afeibuhuifei/project-flow/logging"
	"github.com/afeibuhuifei/project-flow/models"
	"github.com/afeibuhuifei/project-flow/services"
)

var (
	seedUsername string
	seedPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a demo user with a sample project",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		return seed(cmd.Context(), a, seedUsername, seedPassword)
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedUsername, "username", "demo", "demo account username")
	seedCmd.Flags().StringVar(&seedPassword, "password", "demo123", "demo account password")
}

func seed(ctx context.Context, a *app, username, password string) error {
	res, err := a.auth.Register(ctx, services.RegisterRequest{Username: username, Password: password})
	var verrs services.ValidationErrors
	if errors.As(err, &verrs) {
		logging.Logger.Infof("Event ID: SEED_SKIPPED, Description: User %s already exists or is invalid: %v", username, err)
		return nil
	}
	if err != nil {
		return err
	}
	userID := res.User.ID

	description := "Sample project created by the seed command"
	start, end := "2025-01-06", "2025-03-28"
	project, err := a.projects.Create(ctx, userID, models.ProjectInput{
		Name:        "Website Redesign",
		Description: &description,
		StartDate:   &start,
		EndDate:     &end,
	})
	if err != nil {
		return err
	}

	type sample struct {
		title    string
		status   models.TaskStatus
		priority models.TaskPriority
		start    string
		end      string
		progress int
	}
	samples := []sample{
		{"Collect requirements", models.StatusCompleted, models.PriorityHigh, "2025-01-06", "2025-01-17", 100},
		{"Design mockups", models.StatusInProgress, models.PriorityMedium, "2025-01-20", "2025-02-07", 40},
		{"Build frontend", models.StatusTodo, models.PriorityUrgent, "2025-02-10", "2025-03-14", 0},
		{"Launch", models.StatusTodo, models.PriorityLow, "2025-03-17", "2025-03-28", 0},
	}

	var prev uint
	for _, s := range samples {
		in := models.TaskInput{
			Title:      s.title,
			Status:     s.status,
			Priority:   s.priority,
			StartDate:  &s.start,
			EndDate:    &s.end,
			Progress:   &s.progress,
			ProjectID:  project.ID,
			AssigneeID: &userID,
		}
		if prev != 0 {
			in.Dependencies = []uint{prev}
		}
		task, err := a.tasks.Create(ctx, userID, in)
		if err != nil {
			return err
		}
		prev = task.ID
	}

	logging.Logger.Infof("Event ID: SEED_COMPLETED, Description: Seeded user %s with project %d and %d tasks", username, project.ID, len(samples))
	return nil
}
