package utils

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinValidationMessages_JoinsEveryFieldError(t *testing.T) {
	err := Validate.Struct(signupShape{})
	require.Error(t, err)

	msg := JoinValidationMessages(err)

	assert.Equal(t, "email is required,fullname is required,password is required", msg)
}

func TestJoinValidationMessages_NonValidationError(t *testing.T) {
	assert.Equal(t, "plain", JoinValidationMessages(errors.New("plain")))
}

func TestValidationMessages_UsesJSONNames(t *testing.T) {
	type query struct {
		SortOrder string `json:"sortOrder" validate:"omitempty,oneof=asc desc"`
		Limit     int    `json:"limit" validate:"lte=100"`
	}

	err := Validate.Struct(query{SortOrder: "sideways", Limit: 500})
	require.Error(t, err)

	var valErrs validator.ValidationErrors
	require.True(t, errors.As(err, &valErrs))

	assert.Equal(t, []ErrorMessage{
		{Path: "sortOrder", Message: "sortOrder must be one of [asc desc]"},
		{Path: "limit", Message: "limit must be 100 or less"},
	}, ValidationMessages(valErrs))
}

func TestValidate_MaxBytesCountsEncodedLength(t *testing.T) {
	type secret struct {
		Password string `json:"password" validate:"maxbytes=72"`
	}

	assert.NoError(t, Validate.Struct(secret{Password: strings.Repeat("a", 72)}))
	assert.NoError(t, Validate.Struct(secret{Password: strings.Repeat("é", 36)}))

	err := Validate.Struct(secret{Password: strings.Repeat("é", 40)})
	require.Error(t, err)
	assert.Equal(t, "password must be at most 72 bytes", JoinValidationMessages(err))
}
