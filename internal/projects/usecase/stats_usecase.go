package usecase

import (
	"context"

	"trackserver/internal/projects/domain/model"
	"trackserver/internal/shared/errors"
)

// Aggregation operations over the tasks owned by projects.

// GetUniqueMetricVariants returns the distinct (metric, variant) pairs
// reported by tasks in the projects, grouped by metric.
func (uc *ProjectUsecase) GetUniqueMetricVariants(ctx context.Context, req MetricVariantsRequest) (*MetricVariantsResponse, error) {
	company, err := uc.company(ctx)
	if err != nil {
		return nil, err
	}

	if err := uc.validateProjectIDs(ctx, company, req.Projects); err != nil {
		return nil, err
	}

	metrics, err := uc.taskRepo.UniqueMetricVariants(ctx, company, req.Projects)
	if err != nil {
		return nil, errors.NewInternalError("failed to aggregate metric variants").WithCause(err)
	}

	return &MetricVariantsResponse{Metrics: metrics}, nil
}

// GetHyperParameters returns the distinct hyperparameter (section, name) pairs
// across tasks in the projects, paginated.
func (uc *ProjectUsecase) GetHyperParameters(ctx context.Context, req HyperParamsRequest) (*HyperParamsResponse, error) {
	company, err := uc.company(ctx)
	if err != nil {
		return nil, err
	}

	if req.Page < 0 || req.PageSize < 0 {
		return nil, errors.NewValidationError("page and page_size must not be negative")
	}

	if err := uc.validateProjectIDs(ctx, company, req.Projects); err != nil {
		return nil, err
	}

	total, params, err := uc.taskRepo.AggregatedParameters(ctx, company, req.Projects, req.Page, req.PageSize)
	if err != nil {
		return nil, errors.NewInternalError("failed to aggregate hyperparameters").WithCause(err)
	}

	remaining := total - int64(req.Page*pageSizeOrDefault(req.PageSize)) - int64(len(params))
	if remaining < 0 {
		remaining = 0
	}

	return &HyperParamsResponse{
		Total:      total,
		Remaining:  remaining,
		Parameters: params,
	}, nil
}

// GetHyperParamValues returns the distinct values recorded for one
// hyperparameter across tasks in the projects.
func (uc *ProjectUsecase) GetHyperParamValues(ctx context.Context, req HyperParamValuesRequest) (*HyperParamValuesResponse, error) {
	company, err := uc.company(ctx)
	if err != nil {
		return nil, err
	}

	if req.Section == "" || req.Name == "" {
		return nil, errors.NewValidationError("section and name are required")
	}

	allowPublic := true
	if req.AllowPublic != nil {
		allowPublic = *req.AllowPublic
	}

	if err := uc.validateProjectIDs(ctx, company, req.Projects); err != nil {
		return nil, err
	}

	total, values, err := uc.taskRepo.HyperParamValues(ctx, company, req.Projects, req.Section, req.Name, allowPublic)
	if err != nil {
		return nil, errors.NewInternalError("failed to query hyperparameter values").WithCause(err)
	}

	return &HyperParamValuesResponse{Total: total, Values: values}, nil
}

// GetTaskParents returns the distinct parent tasks of tasks in the projects.
func (uc *ProjectUsecase) GetTaskParents(ctx context.Context, req TaskParentsRequest) (*TaskParentsResponse, error) {
	company, err := uc.company(ctx)
	if err != nil {
		return nil, err
	}

	state := req.TasksState
	if state == "" {
		state = model.EntityStateAll
	}
	if !model.ValidEntityState(state) {
		return nil, errors.NewValidationError("invalid tasks_state value").WithCause(errors.ErrInvalidTaskState)
	}

	if err := uc.validateProjectIDs(ctx, company, req.Projects); err != nil {
		return nil, err
	}

	parents, err := uc.taskRepo.ParentTasks(ctx, company, req.Projects, state)
	if err != nil {
		return nil, errors.NewInternalError("failed to query task parents").WithCause(err)
	}

	return &TaskParentsResponse{Parents: parents}, nil
}

// validateProjectIDs rejects requests naming projects the company cannot see.
// An empty list means company-wide scope and is always valid.
func (uc *ProjectUsecase) validateProjectIDs(ctx context.Context, company string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	existing, err := uc.projectRepo.ExistingIDs(ctx, company, ids)
	if err != nil {
		return errors.NewInternalError("failed to validate project ids").WithCause(err)
	}
	if invalid := missingIDs(ids, existing); len(invalid) > 0 {
		return errors.NewInvalidProjectIDsError(invalid)
	}
	return nil
}

func pageSizeOrDefault(pageSize int) int {
	switch {
	case pageSize <= 0:
		return 500
	case pageSize > 1000:
		return 1000
	}
	return pageSize
}
