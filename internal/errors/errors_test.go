package errors

import (
	stderrors "errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseErrorMessage(t *testing.T) {
	err := New(SyntaxErrorCode, "unexpected token").
		WithLocation(SourceLocation{File: "foundation.rtmd", Line: 3, Column: 7})
	assert.Equal(t, "foundation.rtmd:3:7: unexpected token", err.Error())

	wrapped := WrapFileSystemError("read", "rtgen.yaml", fs.ErrNotExist)
	assert.Equal(t, "failed to read file 'rtgen.yaml': file does not exist", wrapped.Error())
	assert.True(t, stderrors.Is(wrapped, fs.ErrNotExist))
	assert.Equal(t, "rtgen.yaml", wrapped.Context()["path"])
}

func TestSourceLocationString(t *testing.T) {
	assert.Equal(t, "unknown location", SourceLocation{}.String())
	assert.Equal(t, "a.rtmd", SourceLocation{File: "a.rtmd"}.String())
	assert.Equal(t, "a.rtmd:4", SourceLocation{File: "a.rtmd", Line: 4}.String())
}

func TestWrappedShapeErrorIsReachable(t *testing.T) {
	shape := NewShapeError("Windows.Foundation.IFoo", "Bar", "value", "byref input parameters are not supported")
	err := WrapGenerateError("Windows.Foundation.IFoo.Bar", shape)

	assert.Equal(t, GenerationErrorCode, err.ErrorCode())

	var target *ShapeError
	require.True(t, stderrors.As(err, &target))
	assert.Equal(t, "value", target.Parameter)
	assert.Equal(t, MetadataShapeErrorCode, target.ErrorCode())
	assert.Contains(t, err.Error(), "unsupported metadata shape in Windows.Foundation.IFoo.Bar (parameter 'value')")
}

func TestMultipleErrors(t *testing.T) {
	var all *MultipleErrors
	AddToMultiple(&all, NewConfigError("metadata", "value is required"))
	AddToMultiple(&all, NewConfigError("roots", "value is required").WithSuggestion("Set 'roots'"))

	require.Equal(t, 2, all.Count())
	assert.Equal(t, ConfigurationErrorCode, all.ErrorCode())
	assert.True(t, all.HasCode(ConfigurationErrorCode))
	assert.False(t, all.HasCode(LookupErrorCode))
	assert.Equal(t, []string{"Set 'roots'"}, all.Suggestions())
	assert.Equal(t, "roots", all.Context()["error_1_field"])
	assert.Equal(t,
		"multiple errors (2 total):\n"+
			"  1. invalid configuration 'metadata': value is required\n"+
			"  2. invalid configuration 'roots': value is required",
		all.Error())

	var cfgErr *ConfigError
	require.True(t, stderrors.As(all, &cfgErr))
	assert.Equal(t, "metadata", cfgErr.Field)
}

func TestErrorCodeString(t *testing.T) {
	assert.Equal(t, "MetadataShapeError", MetadataShapeErrorCode.String())
	assert.Equal(t, "UnknownError", ErrorCode(99).String())
}
