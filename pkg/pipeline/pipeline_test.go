package pipeline_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/pressbridge/pressbridge/pkg/domain/types"
	"github.com/pressbridge/pressbridge/pkg/pipeline"
)

func TestRunSequential(t *testing.T) {
	ctx := context.Background()
	f := pipeline.NewFrame()

	var order []string
	tasks := []pipeline.Task{
		pipeline.NewTask("first", func(ctx context.Context, v any, f *pipeline.Frame) (any, error) {
			order = append(order, "first")
			return v.(int) + 1, nil
		}),
		pipeline.NewTask("second", func(ctx context.Context, v any, f *pipeline.Frame) (any, error) {
			order = append(order, "second")
			return v.(int) * 10, nil
		}),
		pipeline.NewTask("third", func(ctx context.Context, v any, f *pipeline.Frame) (any, error) {
			order = append(order, "third")
			return v.(int) + 3, nil
		}),
	}

	result, err := pipeline.Run(ctx, tasks, 1, f)
	gt.NoError(t, err).Required()
	gt.Value(t, result).Equal(23)
	gt.Array(t, order).Equal([]string{"first", "second", "third"})
}

func TestRunShortCircuit(t *testing.T) {
	ctx := context.Background()
	f := pipeline.NewFrame()

	boom := goerr.New("invite not found", goerr.T(types.ErrTagNotFound))
	var thirdRan bool

	tasks := []pipeline.Task{
		pipeline.NewTask("ok", func(ctx context.Context, v any, f *pipeline.Frame) (any, error) {
			return v, nil
		}),
		pipeline.NewTask("fails", func(ctx context.Context, v any, f *pipeline.Frame) (any, error) {
			return nil, boom
		}),
		pipeline.NewTask("never", func(ctx context.Context, v any, f *pipeline.Frame) (any, error) {
			thirdRan = true
			return v, nil
		}),
	}

	_, err := pipeline.Run(ctx, tasks, nil, f)
	gt.Error(t, err)

	// The typed error must come through unchanged: same value, tag intact.
	gt.B(t, err == boom).True()
	gt.B(t, goerr.HasTag(err, types.ErrTagNotFound)).True()
	gt.B(t, thirdRan).False()
}

func TestGuard(t *testing.T) {
	ctx := context.Background()

	t.Run("passes value through", func(t *testing.T) {
		f := pipeline.NewFrame()
		guard := pipeline.Guard("precondition", func(ctx context.Context, f *pipeline.Frame) error {
			return nil
		})

		result, err := pipeline.Run(ctx, []pipeline.Task{guard}, "seed", f)
		gt.NoError(t, err)
		gt.Value(t, result).Equal("seed")
	})

	t.Run("rejects on failed precondition", func(t *testing.T) {
		f := pipeline.NewFrame()
		denied := goerr.New("setup already completed", goerr.T(types.ErrTagNoPermission))
		guard := pipeline.Guard("precondition", func(ctx context.Context, f *pipeline.Frame) error {
			return denied
		})

		_, err := pipeline.Run(ctx, []pipeline.Task{guard}, "seed", f)
		gt.B(t, err == denied).True()
	})
}

func TestRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran bool
	tasks := []pipeline.Task{
		pipeline.NewTask("never", func(ctx context.Context, v any, f *pipeline.Frame) (any, error) {
			ran = true
			return v, nil
		}),
	}

	_, err := pipeline.Run(ctx, tasks, nil, pipeline.NewFrame())
	gt.Error(t, err)
	gt.B(t, ran).False()
}

func TestFrameConfigure(t *testing.T) {
	f := pipeline.NewFrame()
	f.Query = url.Values{"limit": []string{"5"}, "secret": []string{"x"}}
	f.Params = map[string]string{"id": "abc"}
	f.Body = map[string]any{"email": "a@example.com", "password": "nope"}

	f.Configure([]string{"id", "limit"}, []string{"email"})

	gt.Value(t, f.Option("id")).Equal("abc")
	gt.Value(t, f.Option("limit")).Equal("5")
	gt.Value(t, f.Option("secret")).Equal("")
	gt.Value(t, f.Body["email"]).Equal("a@example.com")
	_, hasPassword := f.Body["password"]
	gt.B(t, hasPassword).False()
}
