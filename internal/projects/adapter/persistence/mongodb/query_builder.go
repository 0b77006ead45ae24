package mongodb

import (
	"strings"

	"trackserver/internal/projects/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultPageSize = 500
	maxPageSize     = 1000
)

// companyConstraint builds the tenant filter. Public documents carry an empty
// company field, so allowing public visibility widens the match to company-or-empty.
func companyConstraint(company string, allowPublic bool) bson.M {
	if allowPublic {
		return bson.M{"company": bson.M{"$in": bson.A{company, ""}}}
	}
	return bson.M{"company": company}
}

// buildProjectFilter translates a ProjectQuery into a Mongo filter document.
func buildProjectFilter(company string, query repository.ProjectQuery) bson.M {
	filter := companyConstraint(company, query.AllowPublic)

	if len(query.IDs) > 0 {
		filter["_id"] = bson.M{"$in": query.IDs}
	}
	if len(query.Tags) > 0 {
		filter["tags"] = bson.M{"$all": query.Tags}
	}
	if len(query.SystemTags) > 0 {
		filter["system_tags"] = bson.M{"$all": query.SystemTags}
	}
	if query.NamePattern != "" {
		filter["name"] = patternFilter(query.NamePattern)
	}
	if query.DescriptionPattern != "" {
		filter["description"] = patternFilter(query.DescriptionPattern)
	}

	return filter
}

// patternFilter matches a user-supplied pattern as a case-insensitive regex.
// The pattern is passed through verbatim; callers may use regex syntax.
func patternFilter(pattern string) primitive.Regex {
	return primitive.Regex{Pattern: pattern, Options: "i"}
}

// buildFindOptions translates ordering and pagination into find options.
// Order fields use a leading '-' for descending, mirroring the API contract.
func buildFindOptions(query repository.ProjectQuery) *options.FindOptions {
	opts := options.Find()

	sort := bson.D{}
	for _, field := range query.OrderBy {
		if field == "" {
			continue
		}
		order := 1
		if strings.HasPrefix(field, "-") {
			order = -1
			field = strings.TrimPrefix(field, "-")
		}
		if field == "id" {
			field = "_id"
		}
		sort = append(sort, bson.E{Key: field, Value: order})
	}
	if len(sort) == 0 {
		sort = bson.D{{Key: "last_update", Value: -1}}
	}
	opts.SetSort(sort)

	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	opts.SetLimit(int64(pageSize))
	if query.Page > 0 {
		opts.SetSkip(int64(query.Page) * int64(pageSize))
	}

	return opts
}
