package interfaces

import (
	"context"

	"github.com/afeibuhuifei/project-flow/models"
)

// Query is a read-only request that can be executed on its own.
type Query interface {
	Execute(ctx context.Context) (interface{}, error)
}

// DependencyCommandContext mutates dependency edges on behalf of a user.
type DependencyCommandContext interface {
	AddDependency(ctx context.Context, userID uint, relation models.TaskDependencyRelation) (*models.TaskDependency, error)
	RemoveDependency(ctx context.Context, userID uint, relation models.TaskDependencyRelation) error
}

type DependencyQueryContext interface {
	GetDependencies(ctx context.Context, userID, taskID uint) (*models.TaskDependencies, error)
}
