package commands

import (
	"context"
	"fmt"

	"github.com/afeibuhuifei/project-flow/interfaces"
	"github.com/afeibuhuifei/project-flow/models"
)

type AddDependencyCommand struct {
	UserID     uint
	Dependency models.TaskDependencyRelation
}

type AddDependencyHandler struct {
	Registry interfaces.DependencyCommandContext
}

func NewAddDependencyHandler(ctx interfaces.DependencyCommandContext) *AddDependencyHandler {
	return &AddDependencyHandler{Registry: ctx}
}

func (h *AddDependencyHandler) Handle(ctx context.Context, cmd AddDependencyCommand) (*models.TaskDependency, error) {
	dep, err := h.Registry.AddDependency(ctx, cmd.UserID, cmd.Dependency)
	if err != nil {
		return nil, fmt.Errorf("failed to add dependency: %w", err)
	}
	return dep, nil
}
