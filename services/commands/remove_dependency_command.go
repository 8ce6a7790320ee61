package commands

import (
	"context"
	"fmt"

	"github.com/afeibuhuifei/project-flow/interfaces"
	"github.com/afeibuhuifei/project-flow/logging"
	"github.com/afeibuhuifei/project-flow/models"
)

type RemoveDependencyCommand struct {
	UserID     uint
	Dependency models.TaskDependencyRelation
}

type RemoveDependencyHandler struct {
	Registry interfaces.DependencyCommandContext
}

func NewRemoveDependencyHandler(ctx interfaces.DependencyCommandContext) *RemoveDependencyHandler {
	return &RemoveDependencyHandler{Registry: ctx}
}

func (h *RemoveDependencyHandler) Handle(ctx context.Context, cmd RemoveDependencyCommand) error {
	logging.Logger.Debugf("[RemoveDependencyHandler] Removing dependency %d -> %d", cmd.Dependency.TaskID, cmd.Dependency.DependsOnTaskID)

	if err := h.Registry.RemoveDependency(ctx, cmd.UserID, cmd.Dependency); err != nil {
		return fmt.Errorf("failed to remove dependency: %w", err)
	}
	return nil
}
