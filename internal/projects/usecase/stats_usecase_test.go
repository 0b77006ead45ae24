package usecase

import (
	"context"
	"testing"

	"trackserver/internal/projects/domain/model"
	"trackserver/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUniqueMetricVariants(t *testing.T) {
	tr := &mockTaskRepo{
		metricVariantsFn: func(ctx context.Context, company string, projectIDs []string) ([]model.MetricVariants, error) {
			assert.Equal(t, "acme", company)
			return []model.MetricVariants{{Metric: "accuracy", Variants: []string{"top1"}}}, nil
		},
	}
	uc := newTestUsecase(nil, tr, nil, nil)

	resp, err := uc.GetUniqueMetricVariants(testContext("acme"), MetricVariantsRequest{Projects: []string{"p1"}})
	require.NoError(t, err)
	require.Len(t, resp.Metrics, 1)
	assert.Equal(t, "accuracy", resp.Metrics[0].Metric)
}

func TestGetUniqueMetricVariantsInvalidProject(t *testing.T) {
	pr := &mockProjectRepo{
		existingIDsFn: func(ctx context.Context, company string, ids []string) ([]string, error) {
			return nil, nil
		},
	}
	uc := newTestUsecase(pr, nil, nil, nil)

	_, err := uc.GetUniqueMetricVariants(testContext("acme"), MetricVariantsRequest{Projects: []string{"ghost"}})
	assert.True(t, errors.IsInvalidProjectID(err))
}

func TestGetHyperParameters(t *testing.T) {
	t.Run("reports remaining count", func(t *testing.T) {
		tr := &mockTaskRepo{
			aggregatedFn: func(ctx context.Context, company string, projectIDs []string, page, pageSize int) (int64, []model.ParameterKey, error) {
				return 10, []model.ParameterKey{
					{Section: "Args", Name: "lr"},
					{Section: "Args", Name: "batch_size"},
				}, nil
			},
		}
		uc := newTestUsecase(nil, tr, nil, nil)

		resp, err := uc.GetHyperParameters(testContext("acme"), HyperParamsRequest{Page: 0, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(10), resp.Total)
		assert.Equal(t, int64(8), resp.Remaining)
		assert.Len(t, resp.Parameters, 2)
	})

	t.Run("negative page rejected", func(t *testing.T) {
		uc := newTestUsecase(nil, nil, nil, nil)

		_, err := uc.GetHyperParameters(testContext("acme"), HyperParamsRequest{Page: -1, PageSize: 2})
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("negative page size rejected", func(t *testing.T) {
		uc := newTestUsecase(nil, nil, nil, nil)

		_, err := uc.GetHyperParameters(testContext("acme"), HyperParamsRequest{PageSize: -5})
		assert.True(t, errors.IsValidation(err))
	})
}

func TestGetHyperParamValues(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tr := &mockTaskRepo{
			paramValuesFn: func(ctx context.Context, company string, projectIDs []string, section, name string, allowPublic bool) (int64, []string, error) {
				assert.Equal(t, "Args", section)
				assert.Equal(t, "lr", name)
				assert.True(t, allowPublic)
				return 2, []string{"0.01", "0.1"}, nil
			},
		}
		uc := newTestUsecase(nil, tr, nil, nil)

		resp, err := uc.GetHyperParamValues(testContext("acme"), HyperParamValuesRequest{
			Section: "Args",
			Name:    "lr",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Total)
		assert.Equal(t, []string{"0.01", "0.1"}, resp.Values)
	})

	t.Run("missing section", func(t *testing.T) {
		uc := newTestUsecase(nil, nil, nil, nil)

		_, err := uc.GetHyperParamValues(testContext("acme"), HyperParamValuesRequest{Name: "lr"})
		assert.True(t, errors.IsValidation(err))
	})
}

func TestGetTaskParents(t *testing.T) {
	t.Run("defaults to all states", func(t *testing.T) {
		tr := &mockTaskRepo{
			parentTasksFn: func(ctx context.Context, company string, projectIDs []string, state model.EntityState) ([]model.TaskParent, error) {
				assert.Equal(t, model.EntityStateAll, state)
				return []model.TaskParent{{ID: "t1", Name: "base"}}, nil
			},
		}
		uc := newTestUsecase(nil, tr, nil, nil)

		resp, err := uc.GetTaskParents(testContext("acme"), TaskParentsRequest{})
		require.NoError(t, err)
		require.Len(t, resp.Parents, 1)
	})

	t.Run("invalid state", func(t *testing.T) {
		uc := newTestUsecase(nil, nil, nil, nil)

		_, err := uc.GetTaskParents(testContext("acme"), TaskParentsRequest{TasksState: "bogus"})
		assert.True(t, errors.IsValidation(err))
	})
}
