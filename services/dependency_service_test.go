package services

import (
	"context"
	"errors"
	"testing"

	"github.com/afeibuhuifei/project-flow/models"
	"github.com/afeibuhuifei/project-flow/services/commands"
	"github.com/afeibuhuifei/project-flow/services/queries"
)

func TestAddDependencyRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "alice")
	other := env.user(t, "bob")
	p := env.project(t, owner, "P")
	q := env.project(t, other, "Q")
	t1 := env.task(t, owner, p.ID, "T1")
	t2 := env.task(t, owner, p.ID, "T2")
	foreign := env.task(t, other, q.ID, "F")

	dep, err := env.deps.AddDependency(ctx, owner, models.TaskDependencyRelation{TaskID: t2.ID, DependsOnTaskID: t1.ID})
	if err != nil {
		t.Fatalf("AddDependency: %v", err)
	}
	if dep.Task == nil || dep.DependsOnTask == nil || dep.DependsOnTask.Title != "T1" {
		t.Errorf("expected both tasks loaded, got %+v", dep)
	}

	tests := []struct {
		name string
		rel  models.TaskDependencyRelation
		msg  string
	}{
		{"self loop", models.TaskDependencyRelation{TaskID: t1.ID, DependsOnTaskID: t1.ID}, "a task cannot depend on itself"},
		{"duplicate", models.TaskDependencyRelation{TaskID: t2.ID, DependsOnTaskID: t1.ID}, "dependency already exists"},
		{"foreign task", models.TaskDependencyRelation{TaskID: t1.ID, DependsOnTaskID: foreign.ID}, ""},
		{"missing ids", models.TaskDependencyRelation{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.deps.AddDependency(ctx, owner, tt.rel)
			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if tt.msg != "" && PublicMessage(err) != tt.msg {
				t.Errorf("message: got %q, want %q", PublicMessage(err), tt.msg)
			}
		})
	}

	// Cycles are allowed.
	if _, err := env.deps.AddDependency(ctx, owner, models.TaskDependencyRelation{TaskID: t1.ID, DependsOnTaskID: t2.ID}); err != nil {
		t.Errorf("expected reverse edge to be accepted, got %v", err)
	}
}

func TestRemoveDependency(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "alice")
	other := env.user(t, "bob")
	p := env.project(t, owner, "P")
	t1 := env.task(t, owner, p.ID, "T1")
	t2 := env.task(t, owner, p.ID, "T2", t1.ID)
	rel := models.TaskDependencyRelation{TaskID: t2.ID, DependsOnTaskID: t1.ID}

	if err := env.deps.RemoveDependency(ctx, other, rel); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign caller: expected ErrNotFound, got %v", err)
	}
	if err := env.deps.RemoveDependency(ctx, owner, rel); err != nil {
		t.Fatalf("RemoveDependency: %v", err)
	}
	if err := env.deps.RemoveDependency(ctx, owner, rel); !errors.Is(err, ErrNotFound) {
		t.Errorf("second remove: expected ErrNotFound, got %v", err)
	}
}

func TestDeletedTaskDependencyNoLongerResolves(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "alice")
	p := env.project(t, owner, "P")
	t1 := env.task(t, owner, p.ID, "T1")
	t2 := env.task(t, owner, p.ID, "T2", t1.ID)

	deps, err := env.deps.GetDependencies(ctx, owner, t2.ID)
	if err != nil {
		t.Fatalf("GetDependencies: %v", err)
	}
	if len(deps.Dependencies) != 1 || deps.Dependencies[0].DependsOnTaskID != t1.ID {
		t.Fatalf("expected T2 to depend on T1, got %+v", deps.Dependencies)
	}

	if err := env.tasks.Delete(ctx, owner, t1.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	deps, err = env.deps.GetDependencies(ctx, owner, t2.ID)
	if err != nil {
		t.Fatalf("GetDependencies: %v", err)
	}
	if len(deps.Dependencies) != 0 {
		t.Errorf("expected no dependencies after delete, got %+v", deps.Dependencies)
	}
	var n int64
	env.db.Model(&models.TaskDependency{}).Count(&n)
	if n != 0 {
		t.Errorf("expected dependency rows to be gone, found %d", n)
	}
}

func TestDependencyCommandsAndQuery(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "alice")
	p := env.project(t, owner, "P")
	t1 := env.task(t, owner, p.ID, "T1")
	t2 := env.task(t, owner, p.ID, "T2")
	rel := models.TaskDependencyRelation{TaskID: t2.ID, DependsOnTaskID: t1.ID}

	add := commands.NewAddDependencyHandler(env.deps)
	if _, err := add.Handle(ctx, commands.AddDependencyCommand{UserID: owner, Dependency: rel}); err != nil {
		t.Fatalf("add: %v", err)
	}
	_, err := add.Handle(ctx, commands.AddDependencyCommand{UserID: owner, Dependency: rel})
	if PublicMessage(err) != "dependency already exists" {
		t.Errorf("duplicate through command: got %v", err)
	}

	query := &queries.GetDependenciesQuery{UserID: owner, TaskID: t1.ID, Svc: env.deps}
	res, err := query.Execute(ctx)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	deps := res.(*models.TaskDependencies)
	if len(deps.Dependents) != 1 || deps.Dependents[0].TaskID != t2.ID {
		t.Errorf("expected T2 as dependent of T1, got %+v", deps.Dependents)
	}

	remove := commands.NewRemoveDependencyHandler(env.deps)
	if err := remove.Handle(ctx, commands.RemoveDependencyCommand{UserID: owner, Dependency: rel}); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := remove.Handle(ctx, commands.RemoveDependencyCommand{UserID: owner, Dependency: rel}); !errors.Is(err, ErrNotFound) {
		t.Errorf("second remove: expected ErrNotFound, got %v", err)
	}
}
