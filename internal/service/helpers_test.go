package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/mailer/pkg/errors"
)

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr), "expected *AppError, got %T: %v", err, err)
	return appErr.Code
}
