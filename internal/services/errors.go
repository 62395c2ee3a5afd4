package services

import (
	"errors"
	"strings"

	apperrors "gastocerto/internal/errors"
	"gastocerto/internal/recognition"
)

func requireHousehold(householdID string) error {
	if strings.TrimSpace(householdID) == "" {
		return apperrors.ErrHouseholdRequired
	}
	return nil
}

func persistenceError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Wrap(apperrors.ErrPersistenceFailure, err)
}

func recognitionError(err error) error {
	switch {
	case errors.Is(err, recognition.ErrUploadInProgress):
		return apperrors.ErrUploadInProgress
	case errors.Is(err, recognition.ErrEmptyDocument), errors.Is(err, recognition.ErrUnsupportedFormat):
		return apperrors.Invalid(err)
	}
	return apperrors.Wrap(apperrors.ErrRecognitionFailure, err)
}
