package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectIsPublic(t *testing.T) {
	p := &Project{Company: "c1"}
	assert.False(t, p.IsPublic())

	p.CompanyOrigin = p.Company
	p.Company = ""
	assert.True(t, p.IsPublic())
}

func TestProjectIsArchived(t *testing.T) {
	p := &Project{SystemTags: []string{"pinned"}}
	assert.False(t, p.IsArchived())

	p.SystemTags = append(p.SystemTags, ArchivedSystemTag)
	assert.True(t, p.IsArchived())
}

func TestValidateName(t *testing.T) {
	assert.ErrorIs(t, ValidateName(""), ErrEmptyProjectName)
	assert.NoError(t, ValidateName("experiments/vision"))
	assert.ErrorIs(t, ValidateName(strings.Repeat("x", maxNameLength+1)), ErrProjectNameTooLong)
}

func TestConformTags(t *testing.T) {
	got := ConformTags([]string{" alpha ", "", "beta", "alpha", "\t"})
	assert.Equal(t, []string{"alpha", "beta"}, got)

	assert.Nil(t, ConformTags(nil))
	assert.Equal(t, []string{}, ConformTags([]string{"", "  "}))
}

func TestValidateUserTags(t *testing.T) {
	assert.NoError(t, ValidateUserTags([]string{"baseline", "v2"}))
	assert.ErrorIs(t, ValidateUserTags([]string{"__$archived"}), ErrReservedTag)
}

func TestValidEntityState(t *testing.T) {
	assert.True(t, ValidEntityState(EntityStateActive))
	assert.True(t, ValidEntityState(EntityStateArchived))
	assert.True(t, ValidEntityState(EntityStateAll))
	assert.False(t, ValidEntityState(EntityState("frozen")))
}
