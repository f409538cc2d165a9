// Package errors_test provides unit tests for the AppError type, factory
// functions, and error-chain helpers defined in pkg/errors.
package errors_test

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/MolForge-AI/pkg/errors"
)

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.CodeInternal, "unexpected failure"},
		{"batch not found", errors.CodeBatchNotFound, "batch 0f8a not found"},
		{"invalid param", errors.CodeInvalidParam, "requirements must not be empty"},
		{"rate limit", errors.CodeRateLimit, "too many requests"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail, "Detail should be empty for bare New()")
			assert.Nil(t, ae.Cause, "Cause should be nil for bare New()")
		})
	}
}

func TestWrap_NilErrReturnsNil(t *testing.T) {
	t.Parallel()

	result := errors.Wrap(nil, errors.CodeInternal, "should not matter")
	assert.Nil(t, result)
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	t.Parallel()

	root := stderrors.New("connection refused")
	mid := fmt.Errorf("dialing engine: %w", root)
	ae := errors.Wrap(mid, errors.ErrCodeEngineUnavailable, "parse call failed")

	require.NotNil(t, ae)
	assert.Equal(t, errors.ErrCodeEngineUnavailable, ae.Code)
	assert.True(t, stderrors.Is(ae, root), "errors.Is must traverse to the root cause")
}

func TestWrap_UnknownCodePreservesOriginal(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.CodeBatchNotFound, "batch missing")
	wrapped := errors.Wrap(inner, errors.CodeUnknown, "adding context only")

	require.NotNil(t, wrapped)
	assert.Equal(t, errors.CodeBatchNotFound, wrapped.Code,
		"wrapping with CodeUnknown must keep the inner classification")
}

func TestError_FormatIncludesDetail(t *testing.T) {
	t.Parallel()

	ae := errors.InvalidParam("bad notation").WithDetail("smiles=C1CC")
	msg := ae.Error()

	assert.True(t, strings.Contains(msg, "bad notation"))
	assert.True(t, strings.Contains(msg, "smiles=C1CC"))
	assert.True(t, strings.Contains(msg, string(errors.CodeInvalidParam)))
}

func TestWithDetail_DoesNotMutateReceiver(t *testing.T) {
	t.Parallel()

	orig := errors.NotFound("batch not found")
	clone := orig.WithDetail("batch_id=abc")

	assert.Empty(t, orig.Detail)
	assert.Equal(t, "batch_id=abc", clone.Detail)
	assert.Equal(t, orig.Code, clone.Code)
}

func TestWithDetail_NilReceiver(t *testing.T) {
	t.Parallel()

	var ae *errors.AppError
	assert.Nil(t, ae.WithDetail("ignored"))
}

func TestIsCode_TraversesChain(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeParseFailed, "unparseable")
	outer := fmt.Errorf("validating token 3: %w", inner)

	assert.True(t, errors.IsCode(outer, errors.ErrCodeParseFailed))
	assert.False(t, errors.IsCode(outer, errors.CodeBatchNotFound))
	assert.False(t, errors.IsCode(nil, errors.ErrCodeParseFailed))
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.IsNotFound(errors.NotFound("gone")))
	assert.True(t, errors.IsNotFound(errors.New(errors.CodeBatchNotFound, "gone")))
	assert.False(t, errors.IsNotFound(errors.Internal("boom")))
	assert.False(t, errors.IsNotFound(nil))
}

func TestIsValidation(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.IsValidation(errors.InvalidParam("bad")))
	assert.True(t, errors.IsValidation(errors.New(errors.ErrCodeEmptySourceText, "empty")))
	assert.False(t, errors.IsValidation(errors.Internal("boom")))
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.ErrCodeCompletionFailed,
		errors.GetCode(errors.New(errors.ErrCodeCompletionFailed, "llm down")))
}

func TestUpstream_WrapsCause(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("502 bad gateway")
	ae := errors.Upstream(cause, "predictor call failed")

	assert.Equal(t, errors.ErrCodeExternalService, ae.Code)
	assert.True(t, stderrors.Is(ae, cause))
}
