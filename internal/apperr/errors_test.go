package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfUnwrapsChains(t *testing.T) {
	cause := errors.New("E11000 duplicate key")
	err := fmt.Errorf("create item: %w", Duplicate(cause, "Item with this SKU already exists"))

	assert.Equal(t, KindDuplicate, KindOf(err))
	assert.Equal(t, "Item with this SKU already exists", MessageOf(err))
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, "", MessageOf(errors.New("boom")))
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "Invalid date: tomorrow", Validation("Invalid date: %s", "tomorrow").Error())
	assert.Equal(t, "load: disk", Internal(errors.New("disk"), "load").Error())
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "unauthorized", KindOf(Unauthorized("Invalid credentials")).String())
}
