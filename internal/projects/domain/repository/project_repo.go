package repository

import (
	"context"

	"trackserver/internal/projects/domain/model"
)

// ProjectQuery carries the supported list filters for project queries. Pattern
// fields are matched as case-insensitive regular expressions, list fields as
// set membership, mirroring the query options the HTTP layer accepts.
type ProjectQuery struct {
	IDs                []string
	NamePattern        string
	DescriptionPattern string
	Tags               []string
	SystemTags         []string
	OrderBy            []string
	Page               int
	PageSize           int
	AllowPublic        bool
}

// ProjectUpdate is the set of mutable project fields for a partial update.
// Nil pointers mean "leave unchanged".
type ProjectUpdate struct {
	Name                     *string
	Description              *string
	Tags                     []string
	SystemTags               []string
	DefaultOutputDestination *string
}

// ProjectRepository is the persistence port for project documents. All reads
// are tenant-scoped: the company argument constrains visibility to documents
// owned by the company, plus public documents where allowPublic applies.
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error

	// GetByID returns a project visible to the company (own or public).
	GetByID(ctx context.Context, company, projectID string) (*model.Project, error)

	// GetForWriting returns a project only if the company owns it.
	GetForWriting(ctx context.Context, company, projectID string) (*model.Project, error)

	GetMany(ctx context.Context, company string, query ProjectQuery) ([]*model.Project, error)

	// Update applies a partial update and stamps last_update. It returns the
	// number of matched documents (0 when the project does not exist).
	Update(ctx context.Context, company, projectID string, update ProjectUpdate) (int64, error)

	Delete(ctx context.Context, projectID string) (int64, error)

	// ExistingIDs filters ids down to those visible to the company.
	ExistingIDs(ctx context.Context, company string, ids []string) ([]string, error)

	// SetPublic moves the given company-owned projects to public visibility
	// (company cleared, origin recorded). SetPrivate reverses it. Both return
	// the number of updated documents.
	SetPublic(ctx context.Context, company string, ids []string) (int64, error)
	SetPrivate(ctx context.Context, company string, ids []string) (int64, error)
}
