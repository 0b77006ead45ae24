package usecase

import (
	"context"

	"trackserver/internal/projects/domain/model"
	"trackserver/internal/projects/domain/repository"
	"trackserver/internal/shared/logger"
	"trackserver/internal/shared/utils"
)

// Hand-rolled repository mocks. Behavior is injected per test through the
// function fields; unset fields fall back to zero-value responses.

func testContext(company string) context.Context {
	ctx := utils.WithCompanyID(context.Background(), company)
	return utils.WithUserID(ctx, "tester")
}

type noopLogger struct{}

func (noopLogger) Debug(args ...interface{})                         {}
func (noopLogger) Info(args ...interface{})                          {}
func (noopLogger) Warn(args ...interface{})                          {}
func (noopLogger) Error(args ...interface{})                         {}
func (noopLogger) Fatal(args ...interface{})                         {}
func (noopLogger) Debugf(format string, args ...interface{})         {}
func (noopLogger) Infof(format string, args ...interface{})          {}
func (noopLogger) Warnf(format string, args ...interface{})          {}
func (noopLogger) Errorf(format string, args ...interface{})         {}
func (noopLogger) Fatalf(format string, args ...interface{})         {}
func (n noopLogger) WithFields(map[string]interface{}) logger.Logger { return n }
func (n noopLogger) WithContext(context.Context) logger.Logger       { return n }
func (n noopLogger) WithComponent(string) logger.Logger              { return n }

type mockProjectRepo struct {
	createFn      func(ctx context.Context, project *model.Project) error
	getByIDFn     func(ctx context.Context, company, projectID string) (*model.Project, error)
	getForWriteFn func(ctx context.Context, company, projectID string) (*model.Project, error)
	getManyFn     func(ctx context.Context, company string, query repository.ProjectQuery) ([]*model.Project, error)
	updateFn      func(ctx context.Context, company, projectID string, update repository.ProjectUpdate) (int64, error)
	deleteFn      func(ctx context.Context, projectID string) (int64, error)
	existingIDsFn func(ctx context.Context, company string, ids []string) ([]string, error)
	setPublicFn   func(ctx context.Context, company string, ids []string) (int64, error)
	setPrivateFn  func(ctx context.Context, company string, ids []string) (int64, error)

	created *model.Project
}

var _ repository.ProjectRepository = (*mockProjectRepo)(nil)

func (m *mockProjectRepo) Create(ctx context.Context, project *model.Project) error {
	m.created = project
	if m.createFn != nil {
		return m.createFn(ctx, project)
	}
	return nil
}

func (m *mockProjectRepo) GetByID(ctx context.Context, company, projectID string) (*model.Project, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, company, projectID)
	}
	return nil, nil
}

func (m *mockProjectRepo) GetForWriting(ctx context.Context, company, projectID string) (*model.Project, error) {
	if m.getForWriteFn != nil {
		return m.getForWriteFn(ctx, company, projectID)
	}
	return &model.Project{ID: projectID, Company: company}, nil
}

func (m *mockProjectRepo) GetMany(ctx context.Context, company string, query repository.ProjectQuery) ([]*model.Project, error) {
	if m.getManyFn != nil {
		return m.getManyFn(ctx, company, query)
	}
	return nil, nil
}

func (m *mockProjectRepo) Update(ctx context.Context, company, projectID string, update repository.ProjectUpdate) (int64, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, company, projectID, update)
	}
	return 1, nil
}

func (m *mockProjectRepo) Delete(ctx context.Context, projectID string) (int64, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, projectID)
	}
	return 1, nil
}

func (m *mockProjectRepo) ExistingIDs(ctx context.Context, company string, ids []string) ([]string, error) {
	if m.existingIDsFn != nil {
		return m.existingIDsFn(ctx, company, ids)
	}
	return ids, nil
}

func (m *mockProjectRepo) SetPublic(ctx context.Context, company string, ids []string) (int64, error) {
	if m.setPublicFn != nil {
		return m.setPublicFn(ctx, company, ids)
	}
	return int64(len(ids)), nil
}

func (m *mockProjectRepo) SetPrivate(ctx context.Context, company string, ids []string) (int64, error) {
	if m.setPrivateFn != nil {
		return m.setPrivateFn(ctx, company, ids)
	}
	return int64(len(ids)), nil
}

type mockTaskRepo struct {
	hasNonArchivedFn  func(ctx context.Context, projectID string) (bool, error)
	disassociateFn    func(ctx context.Context, projectID string) (int64, error)
	activeUsersFn     func(ctx context.Context, company string, users, projectIDs []string, allowPublic bool) ([]string, error)
	metricVariantsFn  func(ctx context.Context, company string, projectIDs []string) ([]model.MetricVariants, error)
	aggregatedFn      func(ctx context.Context, company string, projectIDs []string, page, pageSize int) (int64, []model.ParameterKey, error)
	paramValuesFn     func(ctx context.Context, company string, projectIDs []string, section, name string, allowPublic bool) (int64, []string, error)
	parentTasksFn     func(ctx context.Context, company string, projectIDs []string, state model.EntityState) ([]model.TaskParent, error)
	statsByProjectFn  func(ctx context.Context, company string, projectIDs []string, state model.EntityState) (map[string]*model.ProjectStats, error)
	tagSetsFn         func(ctx context.Context, company string, projectIDs []string) (*model.TagSets, error)
	tagSetsCalls      int
}

var _ repository.TaskRepository = (*mockTaskRepo)(nil)

func (m *mockTaskRepo) HasNonArchived(ctx context.Context, projectID string) (bool, error) {
	if m.hasNonArchivedFn != nil {
		return m.hasNonArchivedFn(ctx, projectID)
	}
	return false, nil
}

func (m *mockTaskRepo) DisassociateFromProject(ctx context.Context, projectID string) (int64, error) {
	if m.disassociateFn != nil {
		return m.disassociateFn(ctx, projectID)
	}
	return 0, nil
}

func (m *mockTaskRepo) ProjectsWithActiveUsers(ctx context.Context, company string, users, projectIDs []string, allowPublic bool) ([]string, error) {
	if m.activeUsersFn != nil {
		return m.activeUsersFn(ctx, company, users, projectIDs, allowPublic)
	}
	return nil, nil
}

func (m *mockTaskRepo) UniqueMetricVariants(ctx context.Context, company string, projectIDs []string) ([]model.MetricVariants, error) {
	if m.metricVariantsFn != nil {
		return m.metricVariantsFn(ctx, company, projectIDs)
	}
	return nil, nil
}

func (m *mockTaskRepo) AggregatedParameters(ctx context.Context, company string, projectIDs []string, page, pageSize int) (int64, []model.ParameterKey, error) {
	if m.aggregatedFn != nil {
		return m.aggregatedFn(ctx, company, projectIDs, page, pageSize)
	}
	return 0, nil, nil
}

func (m *mockTaskRepo) HyperParamValues(ctx context.Context, company string, projectIDs []string, section, name string, allowPublic bool) (int64, []string, error) {
	if m.paramValuesFn != nil {
		return m.paramValuesFn(ctx, company, projectIDs, section, name, allowPublic)
	}
	return 0, nil, nil
}

func (m *mockTaskRepo) ParentTasks(ctx context.Context, company string, projectIDs []string, state model.EntityState) ([]model.TaskParent, error) {
	if m.parentTasksFn != nil {
		return m.parentTasksFn(ctx, company, projectIDs, state)
	}
	return nil, nil
}

func (m *mockTaskRepo) StatsByProject(ctx context.Context, company string, projectIDs []string, state model.EntityState) (map[string]*model.ProjectStats, error) {
	if m.statsByProjectFn != nil {
		return m.statsByProjectFn(ctx, company, projectIDs, state)
	}
	return nil, nil
}

func (m *mockTaskRepo) TagSets(ctx context.Context, company string, projectIDs []string) (*model.TagSets, error) {
	m.tagSetsCalls++
	if m.tagSetsFn != nil {
		return m.tagSetsFn(ctx, company, projectIDs)
	}
	return &model.TagSets{}, nil
}

type mockModelRepo struct {
	hasNonArchivedFn func(ctx context.Context, projectID string) (bool, error)
	disassociateFn   func(ctx context.Context, projectID string) (int64, error)
	tagSetsFn        func(ctx context.Context, company string, projectIDs []string) (*model.TagSets, error)
}

var _ repository.ModelRepository = (*mockModelRepo)(nil)

func (m *mockModelRepo) HasNonArchived(ctx context.Context, projectID string) (bool, error) {
	if m.hasNonArchivedFn != nil {
		return m.hasNonArchivedFn(ctx, projectID)
	}
	return false, nil
}

func (m *mockModelRepo) DisassociateFromProject(ctx context.Context, projectID string) (int64, error) {
	if m.disassociateFn != nil {
		return m.disassociateFn(ctx, projectID)
	}
	return 0, nil
}

func (m *mockModelRepo) TagSets(ctx context.Context, company string, projectIDs []string) (*model.TagSets, error) {
	if m.tagSetsFn != nil {
		return m.tagSetsFn(ctx, company, projectIDs)
	}
	return &model.TagSets{}, nil
}

// mockTagsCache is an in-memory TagsCache.
type mockTagsCache struct {
	entries map[string]*model.TagSets
	getErr  error
	sets    int
}

var _ repository.TagsCache = (*mockTagsCache)(nil)

func newMockTagsCache() *mockTagsCache {
	return &mockTagsCache{entries: make(map[string]*model.TagSets)}
}

func cacheKey(company string, entity model.TaggedEntity) string {
	return company + "/" + string(entity)
}

func (m *mockTagsCache) Get(ctx context.Context, company string, entity model.TaggedEntity) (*model.TagSets, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	sets, ok := m.entries[cacheKey(company, entity)]
	return sets, ok, nil
}

func (m *mockTagsCache) Set(ctx context.Context, company string, entity model.TaggedEntity, sets *model.TagSets) error {
	m.sets++
	m.entries[cacheKey(company, entity)] = sets
	return nil
}

func (m *mockTagsCache) Invalidate(ctx context.Context, company string) error {
	for _, entity := range []model.TaggedEntity{model.TaggedEntityTask, model.TaggedEntityModel} {
		delete(m.entries, cacheKey(company, entity))
	}
	return nil
}

func newTestUsecase(pr *mockProjectRepo, tr *mockTaskRepo, mr *mockModelRepo, cache *mockTagsCache) *ProjectUsecase {
	if pr == nil {
		pr = &mockProjectRepo{}
	}
	if tr == nil {
		tr = &mockTaskRepo{}
	}
	if mr == nil {
		mr = &mockModelRepo{}
	}
	var tagsCache repository.TagsCache
	if cache != nil {
		tagsCache = cache
	}
	return NewProjectUsecase(pr, tr, mr, tagsCache, nil, noopLogger{})
}
