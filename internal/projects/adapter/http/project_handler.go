package http

import (
	"strings"

	"trackserver/internal/projects/usecase"
	"trackserver/internal/shared/errors"
	"trackserver/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// ProjectHandler exposes the project service over HTTP.
type ProjectHandler struct {
	uc  *usecase.ProjectUsecase
	log logger.Logger
}

// NewProjectHandler creates the HTTP handler for the projects module.
func NewProjectHandler(uc *usecase.ProjectUsecase, log logger.Logger) *ProjectHandler {
	return &ProjectHandler{uc: uc, log: log}
}

// handleError maps application errors to HTTP responses. AppError carries its
// own status code; anything else is an internal error.
func (h *ProjectHandler) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := err.(*errors.AppError); ok {
		body := fiber.Map{
			"error":   appErr.Type,
			"message": appErr.Message,
		}
		if appErr.Code != "" {
			body["code"] = appErr.Code
		}
		if len(appErr.Details) > 0 {
			body["details"] = appErr.Details
		}
		return c.Status(appErr.HTTPCode).JSON(body)
	}

	h.log.Errorf("Unhandled error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "internal_error",
		"message": "an internal error occurred",
	})
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return errors.NewValidationError("failed to parse request body").WithCause(err)
	}
	return nil
}

// queryList splits a comma-separated query parameter into values.
func queryList(c *fiber.Ctx, key string) []string {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CreateProject handles POST /projects.
func (h *ProjectHandler) CreateProject(c *fiber.Ctx) error {
	var req usecase.CreateProjectRequest
	if err := parseBody(c, &req); err != nil {
		return h.handleError(c, err)
	}

	resp, err := h.uc.CreateProject(c.UserContext(), req)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetProject handles GET /projects/:projectID.
func (h *ProjectHandler) GetProject(c *fiber.Ctx) error {
	project, err := h.uc.GetProjectByID(c.UserContext(), c.Params("projectID"))
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(fiber.Map{"project": project})
}

// GetProjects handles GET /projects with query-parameter filters.
func (h *ProjectHandler) GetProjects(c *fiber.Ctx) error {
	req := usecase.GetProjectsRequest{
		IDs:         queryList(c, "id"),
		Name:        c.Query("name"),
		Description: c.Query("description"),
		Tags:        queryList(c, "tags"),
		SystemTags:  queryList(c, "system_tags"),
		OrderBy:     queryList(c, "order_by"),
		Page:        c.QueryInt("page"),
		PageSize:    c.QueryInt("page_size"),
	}

	projects, err := h.uc.GetProjects(c.UserContext(), req)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(fiber.Map{
		"projects": projects,
		"count":    len(projects),
	})
}

// QueryProjects handles POST /projects/query, the extended query with
// statistics and active-user options.
func (h *ProjectHandler) QueryProjects(c *fiber.Ctx) error {
	var req usecase.GetProjectsExRequest
	if err := parseBody(c, &req); err != nil {
		return h.handleError(c, err)
	}

	resp, err := h.uc.GetProjectsEx(c.UserContext(), req)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(resp)
}

// UpdateProject handles PUT /projects/:projectID.
func (h *ProjectHandler) UpdateProject(c *fiber.Ctx) error {
	var req usecase.UpdateProjectRequest
	if err := parseBody(c, &req); err != nil {
		return h.handleError(c, err)
	}

	resp, err := h.uc.UpdateProject(c.UserContext(), c.Params("projectID"), req)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(resp)
}

// DeleteProject handles DELETE /projects/:projectID. force=true disassociates
// tasks and models still referencing the project.
func (h *ProjectHandler) DeleteProject(c *fiber.Ctx) error {
	force := c.QueryBool("force")

	resp, err := h.uc.DeleteProject(c.UserContext(), c.Params("projectID"), force)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(resp)
}

// GetMetricVariants handles POST /projects/metric_variants.
func (h *ProjectHandler) GetMetricVariants(c *fiber.Ctx) error {
	var req usecase.MetricVariantsRequest
	if err := parseBody(c, &req); err != nil {
		return h.handleError(c, err)
	}

	resp, err := h.uc.GetUniqueMetricVariants(c.UserContext(), req)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(resp)
}

// GetHyperParams handles GET /projects/:projectID/hyperparams.
func (h *ProjectHandler) GetHyperParams(c *fiber.Ctx) error {
	req := usecase.HyperParamsRequest{
		Projects: []string{c.Params("projectID")},
		Page:     c.QueryInt("page"),
		PageSize: c.QueryInt("page_size"),
	}

	resp, err := h.uc.GetHyperParameters(c.UserContext(), req)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(resp)
}

// GetHyperParamValues handles POST /projects/hyperparam_values.
func (h *ProjectHandler) GetHyperParamValues(c *fiber.Ctx) error {
	var req usecase.HyperParamValuesRequest
	if err := parseBody(c, &req); err != nil {
		return h.handleError(c, err)
	}

	resp, err := h.uc.GetHyperParamValues(c.UserContext(), req)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(resp)
}

// GetTaskTags handles POST /projects/task_tags.
func (h *ProjectHandler) GetTaskTags(c *fiber.Ctx) error {
	var req usecase.EntityTagsRequest
	if err := parseBody(c, &req); err != nil {
		return h.handleError(c, err)
	}

	resp, err := h.uc.GetTaskTags(c.UserContext(), req)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(resp)
}

// GetModelTags handles POST /projects/model_tags.
func (h *ProjectHandler) GetModelTags(c *fiber.Ctx) error {
	var req usecase.EntityTagsRequest
	if err := parseBody(c, &req); err != nil {
		return h.handleError(c, err)
	}

	resp, err := h.uc.GetModelTags(c.UserContext(), req)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(resp)
}

// GetTaskParents handles POST /projects/task_parents.
func (h *ProjectHandler) GetTaskParents(c *fiber.Ctx) error {
	var req usecase.TaskParentsRequest
	if err := parseBody(c, &req); err != nil {
		return h.handleError(c, err)
	}

	resp, err := h.uc.GetTaskParents(c.UserContext(), req)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(resp)
}

// MakePublic handles POST /projects/make_public.
func (h *ProjectHandler) MakePublic(c *fiber.Ctx) error {
	var req usecase.VisibilityRequest
	if err := parseBody(c, &req); err != nil {
		return h.handleError(c, err)
	}

	resp, err := h.uc.MakeProjectsPublic(c.UserContext(), req)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(resp)
}

// MakePrivate handles POST /projects/make_private.
func (h *ProjectHandler) MakePrivate(c *fiber.Ctx) error {
	var req usecase.VisibilityRequest
	if err := parseBody(c, &req); err != nil {
		return h.handleError(c, err)
	}

	resp, err := h.uc.MakeProjectsPrivate(c.UserContext(), req)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(resp)
}

// RegisterRoutes mounts the project endpoints on the router. The fixed-path
// POST endpoints are registered before the parameterized routes so Fiber does
// not capture them as project ids.
func (h *ProjectHandler) RegisterRoutes(router fiber.Router) {
	projects := router.Group("/projects")

	projects.Post("/query", h.QueryProjects)
	projects.Post("/metric_variants", h.GetMetricVariants)
	projects.Post("/hyperparam_values", h.GetHyperParamValues)
	projects.Post("/task_tags", h.GetTaskTags)
	projects.Post("/model_tags", h.GetModelTags)
	projects.Post("/task_parents", h.GetTaskParents)
	projects.Post("/make_public", h.MakePublic)
	projects.Post("/make_private", h.MakePrivate)

	projects.Post("/", h.CreateProject)
	projects.Get("/", h.GetProjects)
	projects.Get("/:projectID", h.GetProject)
	projects.Get("/:projectID/hyperparams", h.GetHyperParams)
	projects.Put("/:projectID", h.UpdateProject)
	projects.Delete("/:projectID", h.DeleteProject)
}
