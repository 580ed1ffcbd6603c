package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/mdclip"
	"github.com/fwojciec/mdclip/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultWriter_WriteResult(t *testing.T) {
	t.Parallel()

	t.Run("delegates to WriteResultFn", func(t *testing.T) {
		t.Parallel()

		var calledWith *mdclip.Result
		w := &mock.ResultWriter{
			WriteResultFn: func(_ context.Context, result *mdclip.Result) (string, error) {
				calledWith = result
				return "/tmp/Hi.md", nil
			},
		}

		result := &mdclip.Result{Markdown: "# Hi\n", FileName: "Hi.md"}

		path, err := w.WriteResult(context.Background(), result)

		require.NoError(t, err)
		assert.Equal(t, "/tmp/Hi.md", path)
		assert.Equal(t, result, calledWith)
	})
}
