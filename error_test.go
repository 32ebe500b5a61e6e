package instantmarqo_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/instantmarqo"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := instantmarqo.Errorf(instantmarqo.ENOTFOUND, "index %q not found", "test")

	assert.Equal(t, instantmarqo.ENOTFOUND, instantmarqo.ErrorCode(err))
	assert.Equal(t, "index \"test\" not found", instantmarqo.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, instantmarqo.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, instantmarqo.ErrorMessage(nil))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("create index: %w", instantmarqo.Errorf(instantmarqo.ECONFLICT, "index exists"))

	assert.Equal(t, instantmarqo.ECONFLICT, instantmarqo.ErrorCode(err))
	assert.Equal(t, "index exists", instantmarqo.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("disk on fire")

	assert.Equal(t, instantmarqo.EINTERNAL, instantmarqo.ErrorCode(err))
	assert.Equal(t, "Internal error.", instantmarqo.ErrorMessage(err))
}
