package queries

import (
	"context"

	"github.com/afeibuhuifei/project-flow/interfaces"
)

var _ interfaces.Query = (*GetDependenciesQuery)(nil)

type GetDependenciesQuery struct {
	UserID uint
	TaskID uint
	Svc    interfaces.DependencyQueryContext
}

func (q *GetDependenciesQuery) Execute(ctx context.Context) (interface{}, error) {
	return q.Svc.GetDependencies(ctx, q.UserID, q.TaskID)
}
