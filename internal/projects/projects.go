package projects

import (
	"context"

	httpadapter "trackserver/internal/projects/adapter/http"
	redispersistence "trackserver/internal/projects/adapter/persistence"
	mongodbpersistence "trackserver/internal/projects/adapter/persistence/mongodb"
	"trackserver/internal/projects/config"
	"trackserver/internal/projects/usecase"
	"trackserver/internal/shared/eventbus"
	"trackserver/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Module wires the projects feature: Mongo repositories, the Redis tag cache,
// the usecase layer and the HTTP handler.
type Module struct {
	Config      *config.Config
	Logger      logger.Logger
	ProjectRepo *mongodbpersistence.ProjectMongoRepository
	Usecase     *usecase.ProjectUsecase
	Handler     *httpadapter.ProjectHandler
	EventBus    *eventbus.EventBus

	redisClient *redis.Client
}

// NewModule creates and initializes the projects module.
func NewModule(cfg *config.Config, log logger.Logger, db *mongo.Database, redisClient *redis.Client) *Module {
	moduleLog := log.WithComponent("projects")

	bus := eventbus.NewEventBus(moduleLog)

	projectRepo := mongodbpersistence.NewProjectMongoRepository(db, moduleLog)
	taskRepo := mongodbpersistence.NewTaskMongoRepository(db, moduleLog)
	modelRepo := mongodbpersistence.NewModelMongoRepository(db, moduleLog)
	tagsCache := redispersistence.NewRedisTagsCache(redisClient, cfg.Redis.TagCacheTTL, moduleLog)

	uc := usecase.NewProjectUsecase(projectRepo, taskRepo, modelRepo, tagsCache, bus, moduleLog)
	handler := httpadapter.NewProjectHandler(uc, moduleLog)

	m := &Module{
		Config:      cfg,
		Logger:      moduleLog,
		ProjectRepo: projectRepo,
		Usecase:     uc,
		Handler:     handler,
		EventBus:    bus,
		redisClient: redisClient,
	}

	m.subscribeAuditLog()
	m.subscribeCacheInvalidation(tagsCache)

	return m
}

// RegisterRoutes mounts the module endpoints behind the tenant middleware.
func (m *Module) RegisterRoutes(router fiber.Router) {
	group := router.Group("/",
		httpadapter.RequestContextMiddleware(),
		httpadapter.CompanyMiddleware([]byte(m.Config.AuthSecret), m.Logger),
	)
	m.Handler.RegisterRoutes(group)

	m.Logger.Info("Projects routes registered")
}

// EnsureIndexes creates the Mongo indexes the module queries rely on.
func (m *Module) EnsureIndexes(ctx context.Context) error {
	return m.ProjectRepo.CreateIndexes(ctx)
}

// subscribeAuditLog logs every project lifecycle event.
func (m *Module) subscribeAuditLog() {
	audit := func(ctx context.Context, event eventbus.Event) error {
		fields := map[string]interface{}{"event": event.Type()}
		if data, ok := event.Data().(map[string]interface{}); ok {
			for k, v := range data {
				fields[k] = v
			}
		}
		m.Logger.WithFields(fields).Info("Project lifecycle event")
		return nil
	}

	for _, eventType := range []string{
		eventbus.EventTypeProjectCreated,
		eventbus.EventTypeProjectUpdated,
		eventbus.EventTypeProjectDeleted,
		eventbus.EventTypeProjectVisibilityChanged,
	} {
		m.EventBus.Subscribe(eventType, audit)
	}
}

// subscribeCacheInvalidation drops the company's cached tag sets when its
// projects change; stale sets would otherwise survive until the TTL.
func (m *Module) subscribeCacheInvalidation(cache *redispersistence.RedisTagsCache) {
	invalidate := func(ctx context.Context, event eventbus.Event) error {
		data, ok := event.Data().(map[string]interface{})
		if !ok {
			return nil
		}
		company, ok := data["company_id"].(string)
		if !ok || company == "" {
			return nil
		}
		return cache.Invalidate(ctx, company)
	}

	for _, eventType := range []string{
		eventbus.EventTypeProjectUpdated,
		eventbus.EventTypeProjectDeleted,
		eventbus.EventTypeProjectVisibilityChanged,
	} {
		m.EventBus.Subscribe(eventType, invalidate)
	}
}

// Stop releases module resources.
func (m *Module) Stop() error {
	m.Logger.Info("Projects module stopped")
	return nil
}
