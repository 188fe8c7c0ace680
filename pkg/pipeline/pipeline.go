package pipeline

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
)

// TaskFunc is one step of a pipeline. It receives the value accumulated so
// far (the seed for the first task) and produces the next value or an error.
type TaskFunc func(ctx context.Context, value any, f *Frame) (any, error)

// Task is a named pipeline step
type Task struct {
	Name string
	Run  TaskFunc
}

// NewTask creates a named task
func NewTask(name string, fn TaskFunc) Task {
	return Task{Name: name, Run: fn}
}

// Guard returns a pass-through task that asserts a precondition. Guards let
// the same check be parameterized per operation and inserted at a fixed
// position ahead of any mutating task.
func Guard(name string, pred func(ctx context.Context, f *Frame) error) Task {
	return Task{
		Name: name,
		Run: func(ctx context.Context, value any, f *Frame) (any, error) {
			if err := pred(ctx, f); err != nil {
				return nil, err
			}
			return value, nil
		},
	}
}

// Run executes the tasks strictly in order. Task n+1 never starts before
// task n returns. The first error aborts the chain and is propagated to the
// caller unchanged; nothing is retried at this layer.
func Run(ctx context.Context, tasks []Task, seed any, f *Frame) (any, error) {
	value := seed
	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return nil, goerr.Wrap(err, "pipeline aborted", goerr.V("task", task.Name))
		}

		next, err := task.Run(ctx, value, f)
		if err != nil {
			return nil, err
		}
		value = next
	}
	return value, nil
}
