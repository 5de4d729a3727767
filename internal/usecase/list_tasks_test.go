package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/timegrid/internal/domain"
	"github.com/runoshun/timegrid/internal/testutil"
	"github.com/runoshun/timegrid/internal/usecase"
)

func taskTree() *testutil.MockTaskRepository {
	repo := testutil.NewMockTaskRepository()
	repo.Seed(
		&domain.Task{ID: "launch", Title: "Launch", SubTasks: []*domain.Task{
			{ID: "docs", Title: "Docs", SubTasks: []*domain.Task{{ID: "faq", Title: "FAQ"}}},
			{ID: "blog", Title: "Blog post"},
		}},
		scheduled("standup", at(14, 9, 0), at(14, 9, 15)),
	)
	return repo
}

func TestListTasks_Execute(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewListTasks(taskTree())

	t.Run("top-level only", func(t *testing.T) {
		out, err := uc.Execute(ctx, usecase.ListTasksInput{})

		require.NoError(t, err)
		require.Len(t, out.Items, 2)
		assert.Equal(t, "launch", out.Items[0].Task.ID)
		assert.Equal(t, 3, out.Items[0].SubtaskCount)
		assert.Equal(t, "standup", out.Items[1].Task.ID)
		assert.Zero(t, out.Items[1].SubtaskCount)
	})

	t.Run("all", func(t *testing.T) {
		out, err := uc.Execute(ctx, usecase.ListTasksInput{All: true})

		require.NoError(t, err)
		var ids []string
		var depths []int
		for _, item := range out.Items {
			ids = append(ids, item.Task.ID)
			depths = append(depths, item.Depth)
		}
		assert.Equal(t, []string{"launch", "docs", "faq", "blog", "standup"}, ids)
		assert.Equal(t, []int{0, 1, 2, 1, 0}, depths)
	})

	t.Run("list error", func(t *testing.T) {
		repo := taskTree()
		repo.ListErr = errors.New("locked")
		_, err := usecase.NewListTasks(repo).Execute(ctx, usecase.ListTasksInput{})
		assert.ErrorContains(t, err, "locked")
	})
}

func TestShowTask_Execute(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewShowTask(taskTree())

	out, err := uc.Execute(ctx, usecase.ShowTaskInput{ID: "docs"})
	require.NoError(t, err)
	assert.Equal(t, "Docs", out.Task.Title)
	assert.Equal(t, 1, out.SubtaskCount)
	require.Len(t, out.Task.SubTasks, 1)
	assert.Equal(t, "faq", out.Task.SubTasks[0].ID)

	_, err = uc.Execute(ctx, usecase.ShowTaskInput{ID: "missing"})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
