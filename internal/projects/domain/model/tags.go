package model

import (
	"errors"
	"strings"
)

// ErrReservedTag is returned when a user tag uses the reserved system prefix.
var ErrReservedTag = errors.New("tag uses reserved system prefix")

// ArchivedSystemTag marks an archived task, model, or project.
const ArchivedSystemTag = "archived"

// systemTagPrefix is reserved for platform-managed tags; user tags may not
// start with it.
const systemTagPrefix = "__$"

// TaggedEntity selects which entity type a tag query targets.
type TaggedEntity string

const (
	TaggedEntityTask  TaggedEntity = "task"
	TaggedEntityModel TaggedEntity = "model"
)

// TagSets holds the distinct user tags and system tags found on an entity type.
type TagSets struct {
	Tags       []string `json:"tags"`
	SystemTags []string `json:"system_tags"`
}

// ConformTags normalizes user-supplied tags: trims whitespace, drops empty
// entries and duplicates, and preserves first-seen order.
func ConformTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// ValidateUserTags rejects user tags that use the reserved system prefix.
func ValidateUserTags(tags []string) error {
	for _, tag := range tags {
		if strings.HasPrefix(tag, systemTagPrefix) {
			return ErrReservedTag
		}
	}
	return nil
}

// HasSystemTag reports whether tags contains the given system tag.
func HasSystemTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
