package usecase

import (
	"context"
	"time"

	"trackserver/internal/projects/domain/model"
	"trackserver/internal/projects/domain/repository"
	"trackserver/internal/shared/errors"
	"trackserver/internal/shared/eventbus"
	"trackserver/internal/shared/logger"
	"trackserver/internal/shared/utils"

	"github.com/google/uuid"
)

// ProjectUsecase implements the project service operations on top of the
// repository ports. All operations are tenant-scoped: the company id comes
// from the request context, never from request bodies.
type ProjectUsecase struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	modelRepo   repository.ModelRepository
	tagsCache   repository.TagsCache
	eventBus    eventbus.EventBusInterface
	logger      logger.Logger
}

// NewProjectUsecase wires the project usecase. tagsCache and bus may be nil;
// caching and event publication are then skipped.
func NewProjectUsecase(
	projectRepo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
	modelRepo repository.ModelRepository,
	tagsCache repository.TagsCache,
	bus eventbus.EventBusInterface,
	log logger.Logger,
) *ProjectUsecase {
	return &ProjectUsecase{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		modelRepo:   modelRepo,
		tagsCache:   tagsCache,
		eventBus:    bus,
		logger:      log,
	}
}

func (uc *ProjectUsecase) company(ctx context.Context) (string, error) {
	company, err := utils.GetCompanyIDFromContext(ctx)
	if err != nil {
		return "", errors.NewAuthenticationError("missing company identity").WithCause(errors.ErrMissingCompanyID)
	}
	return company, nil
}

func (uc *ProjectUsecase) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if uc.eventBus == nil {
		return
	}
	uc.eventBus.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(eventType, data, "projects"))
}

// CreateProject validates and stores a new project, returning its id.
func (uc *ProjectUsecase) CreateProject(ctx context.Context, req CreateProjectRequest) (*CreateProjectResponse, error) {
	company, err := uc.company(ctx)
	if err != nil {
		return nil, err
	}

	if err := model.ValidateName(req.Name); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if req.Description == "" {
		return nil, errors.NewValidationError("description is required")
	}

	tags := model.ConformTags(req.Tags)
	if err := model.ValidateUserTags(tags); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	systemTags := model.ConformTags(req.SystemTags)

	now := time.Now().UTC()
	project := &model.Project{
		ID:                       uuid.New().String(),
		Name:                     req.Name,
		Description:              req.Description,
		Company:                  company,
		User:                     utils.GetUserIDOrDefault(ctx, ""),
		Tags:                     tags,
		SystemTags:               systemTags,
		DefaultOutputDestination: req.DefaultOutputDestination,
		Created:                  now,
		LastUpdate:               now,
	}

	if err := uc.projectRepo.Create(ctx, project); err != nil {
		uc.logger.WithContext(ctx).Errorf("Failed to create project: %v", err)
		return nil, errors.NewInternalError("failed to create project").WithCause(err)
	}

	uc.publish(ctx, eventbus.EventTypeProjectCreated, map[string]interface{}{
		"project_id": project.ID,
		"company_id": company,
		"user_id":    project.User,
	})

	return &CreateProjectResponse{ID: project.ID}, nil
}

// GetProjectByID returns a project visible to the calling company.
func (uc *ProjectUsecase) GetProjectByID(ctx context.Context, projectID string) (*model.Project, error) {
	company, err := uc.company(ctx)
	if err != nil {
		return nil, err
	}
	if projectID == "" {
		return nil, errors.NewValidationError("project id is required")
	}

	project, err := uc.projectRepo.GetByID(ctx, company, projectID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewInvalidProjectIDError(projectID)
		}
		return nil, errors.NewInternalError("failed to get project").WithCause(err)
	}

	return project, nil
}

// GetProjects runs the plain project query, public projects included.
func (uc *ProjectUsecase) GetProjects(ctx context.Context, req GetProjectsRequest) ([]*model.Project, error) {
	company, err := uc.company(ctx)
	if err != nil {
		return nil, err
	}

	projects, err := uc.projectRepo.GetMany(ctx, company, projectQueryFromRequest(req, true))
	if err != nil {
		return nil, errors.NewInternalError("failed to query projects").WithCause(err)
	}

	return projects, nil
}

// GetProjectsEx runs the extended query: visibility narrowing, active-user
// filtering and optional per-project task statistics.
func (uc *ProjectUsecase) GetProjectsEx(ctx context.Context, req GetProjectsExRequest) (*GetProjectsExResponse, error) {
	company, err := uc.company(ctx)
	if err != nil {
		return nil, err
	}

	state := req.StatsForState
	if state == "" {
		state = model.EntityStateActive
	}
	if !model.ValidEntityState(state) {
		return nil, errors.NewValidationError("invalid stats_for_state value").WithCause(errors.ErrInvalidTaskState)
	}

	query := projectQueryFromRequest(req.GetProjectsRequest, !req.NonPublic)

	if len(req.ActiveUsers) > 0 {
		activeIDs, err := uc.taskRepo.ProjectsWithActiveUsers(ctx, company, req.ActiveUsers, query.IDs, query.AllowPublic)
		if err != nil {
			return nil, errors.NewInternalError("failed to resolve active user projects").WithCause(err)
		}
		if len(activeIDs) == 0 {
			return &GetProjectsExResponse{Projects: []*ProjectWithStats{}}, nil
		}
		query.IDs = activeIDs
	}

	projects, err := uc.projectRepo.GetMany(ctx, company, query)
	if err != nil {
		return nil, errors.NewInternalError("failed to query projects").WithCause(err)
	}

	result := make([]*ProjectWithStats, 0, len(projects))
	for _, p := range projects {
		result = append(result, &ProjectWithStats{Project: p})
	}

	if req.IncludeStats && len(projects) > 0 {
		ids := make([]string, 0, len(projects))
		for _, p := range projects {
			ids = append(ids, p.ID)
		}

		stats, err := uc.taskRepo.StatsByProject(ctx, company, ids, state)
		if err != nil {
			return nil, errors.NewInternalError("failed to aggregate project stats").WithCause(err)
		}
		for _, pw := range result {
			pw.Stats = stats[pw.ID]
		}
	}

	return &GetProjectsExResponse{Projects: result}, nil
}

// UpdateProject applies a partial update and reports the changed fields.
func (uc *ProjectUsecase) UpdateProject(ctx context.Context, projectID string, req UpdateProjectRequest) (*UpdateProjectResponse, error) {
	company, err := uc.company(ctx)
	if err != nil {
		return nil, err
	}
	if projectID == "" {
		return nil, errors.NewValidationError("project id is required")
	}

	update := repository.ProjectUpdate{
		Description:              req.Description,
		DefaultOutputDestination: req.DefaultOutputDestination,
	}
	fields := map[string]interface{}{}

	if req.Name != nil {
		if err := model.ValidateName(*req.Name); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		update.Name = req.Name
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Tags != nil {
		tags := model.ConformTags(req.Tags)
		if err := model.ValidateUserTags(tags); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		update.Tags = tags
		fields["tags"] = tags
	}
	if req.SystemTags != nil {
		update.SystemTags = model.ConformTags(req.SystemTags)
		fields["system_tags"] = update.SystemTags
	}
	if req.DefaultOutputDestination != nil {
		fields["default_output_dest"] = *req.DefaultOutputDestination
	}

	matched, err := uc.projectRepo.Update(ctx, company, projectID, update)
	if err != nil {
		return nil, errors.NewInternalError("failed to update project").WithCause(err)
	}
	if matched == 0 {
		return nil, errors.NewInvalidProjectIDError(projectID)
	}

	uc.publish(ctx, eventbus.EventTypeProjectUpdated, map[string]interface{}{
		"project_id": projectID,
		"company_id": company,
		"fields":     fields,
	})

	return &UpdateProjectResponse{Updated: matched, Fields: fields}, nil
}

// DeleteProject removes a project. Without force, the delete is refused while
// non-archived tasks or models still reference the project; with force, all
// referencing tasks and models are disassociated first.
func (uc *ProjectUsecase) DeleteProject(ctx context.Context, projectID string, force bool) (*DeleteProjectResponse, error) {
	company, err := uc.company(ctx)
	if err != nil {
		return nil, err
	}
	if projectID == "" {
		return nil, errors.NewValidationError("project id is required")
	}

	if _, err := uc.projectRepo.GetForWriting(ctx, company, projectID); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewInvalidProjectIDError(projectID)
		}
		return nil, errors.NewInternalError("failed to load project").WithCause(err)
	}

	if !force {
		hasTasks, err := uc.taskRepo.HasNonArchived(ctx, projectID)
		if err != nil {
			return nil, errors.NewInternalError("failed to check project tasks").WithCause(err)
		}
		if hasTasks {
			return nil, errors.NewProjectHasTasksError(projectID)
		}

		hasModels, err := uc.modelRepo.HasNonArchived(ctx, projectID)
		if err != nil {
			return nil, errors.NewInternalError("failed to check project models").WithCause(err)
		}
		if hasModels {
			return nil, errors.NewProjectHasModelsError(projectID)
		}
	}

	resp := &DeleteProjectResponse{}

	// Orphan the referencing entities before the project document goes away.
	resp.DisassociatedTasks, err = uc.taskRepo.DisassociateFromProject(ctx, projectID)
	if err != nil {
		return nil, errors.NewInternalError("failed to disassociate tasks").WithCause(err)
	}
	resp.DisassociatedModels, err = uc.modelRepo.DisassociateFromProject(ctx, projectID)
	if err != nil {
		return nil, errors.NewInternalError("failed to disassociate models").WithCause(err)
	}

	resp.Deleted, err = uc.projectRepo.Delete(ctx, projectID)
	if err != nil {
		return nil, errors.NewInternalError("failed to delete project").WithCause(err)
	}

	uc.publish(ctx, eventbus.EventTypeProjectDeleted, map[string]interface{}{
		"project_id":           projectID,
		"company_id":           company,
		"disassociated_tasks":  resp.DisassociatedTasks,
		"disassociated_models": resp.DisassociatedModels,
	})

	return resp, nil
}

// MakeProjectsPublic moves the projects to public visibility. All ids must
// name projects visible to the calling company.
func (uc *ProjectUsecase) MakeProjectsPublic(ctx context.Context, req VisibilityRequest) (*VisibilityResponse, error) {
	return uc.setVisibility(ctx, req.IDs, true)
}

// MakeProjectsPrivate restores company ownership of projects the company
// previously made public.
func (uc *ProjectUsecase) MakeProjectsPrivate(ctx context.Context, req VisibilityRequest) (*VisibilityResponse, error) {
	return uc.setVisibility(ctx, req.IDs, false)
}

func (uc *ProjectUsecase) setVisibility(ctx context.Context, ids []string, public bool) (*VisibilityResponse, error) {
	company, err := uc.company(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, errors.NewValidationError("ids are required")
	}

	existing, err := uc.projectRepo.ExistingIDs(ctx, company, ids)
	if err != nil {
		return nil, errors.NewInternalError("failed to validate project ids").WithCause(err)
	}
	if invalid := missingIDs(ids, existing); len(invalid) > 0 {
		return nil, errors.NewInvalidProjectIDsError(invalid)
	}

	var updated int64
	if public {
		updated, err = uc.projectRepo.SetPublic(ctx, company, ids)
	} else {
		updated, err = uc.projectRepo.SetPrivate(ctx, company, ids)
	}
	if err != nil {
		return nil, errors.NewInternalError("failed to change project visibility").WithCause(err)
	}

	uc.publish(ctx, eventbus.EventTypeProjectVisibilityChanged, map[string]interface{}{
		"project_ids": ids,
		"company_id":  company,
		"public":      public,
	})

	return &VisibilityResponse{Updated: updated}, nil
}

func projectQueryFromRequest(req GetProjectsRequest, allowPublic bool) repository.ProjectQuery {
	return repository.ProjectQuery{
		IDs:                req.IDs,
		NamePattern:        req.Name,
		DescriptionPattern: req.Description,
		Tags:               req.Tags,
		SystemTags:         req.SystemTags,
		OrderBy:            req.OrderBy,
		Page:               req.Page,
		PageSize:           req.PageSize,
		AllowPublic:        allowPublic,
	}
}

func missingIDs(requested, existing []string) []string {
	found := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		found[id] = struct{}{}
	}
	var missing []string
	for _, id := range requested {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
