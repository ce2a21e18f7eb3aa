package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgconn"
	pkgerrors "github.com/pkg/errors"
)

const (
	msgValidationError = "Validation Error"
	msgCastError       = "Cast Error"
	msgDuplicateEntry  = "Duplicate entry"
	msgSomethingWrong  = "Something went wrong!"
)

// Postgres SQLSTATE values and classes the normalizer cares about.
const (
	pgUniqueViolation     = "23505"
	pgClassDataException  = "22"
	pgClassIntegrityError = "23"
)

// NormalizeError maps any error to a status and the uniform response body.
// First match wins:
//
//	schema validation (validator) -> 400 with one entry per field
//	cast failure (malformed id)   -> 400
//	generic validation (payload decoding, postgres data/integrity errors) -> 400
//	oversized body                -> 413
//	*AppError                     -> its own status and message
//	anything else                 -> 500
//
// It performs no I/O.
func NormalizeError(err error, path string, exposeStack bool) (int, ErrorResponse) {
	status, message, messages := classify(err, path)

	resp := ErrorResponse{
		Success:       false,
		Message:       message,
		ErrorMessages: messages,
	}
	if resp.ErrorMessages == nil {
		resp.ErrorMessages = []ErrorMessage{}
	}
	if exposeStack && err != nil {
		resp.Stack = stackOf(err)
	}
	return status, resp
}

func classify(err error, path string) (int, string, []ErrorMessage) {
	if err == nil {
		return http.StatusInternalServerError, msgSomethingWrong, nil
	}

	var valErrs validator.ValidationErrors
	if errors.As(err, &valErrs) {
		return http.StatusBadRequest, msgValidationError, ValidationMessages(valErrs)
	}

	var castErr *CastError
	if errors.As(err, &castErr) {
		return http.StatusBadRequest, msgCastError, []ErrorMessage{
			{Path: castErr.Field, Message: "Invalid " + castErr.Field},
		}
	}

	if status, msgs, ok := genericValidation(err); ok {
		message := msgValidationError
		if status == http.StatusConflict {
			message = msgDuplicateEntry
		}
		return status, message, msgs
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		var msgs []ErrorMessage
		if appErr.Message != "" {
			msgs = []ErrorMessage{{Path: path, Message: appErr.Message}}
		}
		return appErr.StatusCode, appErr.Message, msgs
	}

	return http.StatusInternalServerError, msgSomethingWrong, []ErrorMessage{
		{Path: path, Message: msgSomethingWrong},
	}
}

func genericValidation(err error) (int, []ErrorMessage, bool) {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return http.StatusBadRequest, []ErrorMessage{
			{Path: "body", Message: fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)},
		}, true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return http.StatusBadRequest, []ErrorMessage{
			{Path: field, Message: fmt.Sprintf("expected %s", typeErr.Type.String())},
		}, true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, []ErrorMessage{
			{Path: "body", Message: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)},
		}, true
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return http.StatusBadRequest, []ErrorMessage{
			{Path: "body", Message: "request body is empty or truncated"},
		}, true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		field := pgErr.ColumnName
		if field == "" {
			field = pgErr.ConstraintName
		}
		if pgErr.Code == pgUniqueViolation {
			return http.StatusConflict, []ErrorMessage{{Path: field, Message: pgErr.Detail}}, true
		}
		if strings.HasPrefix(pgErr.Code, pgClassDataException) || strings.HasPrefix(pgErr.Code, pgClassIntegrityError) {
			return http.StatusBadRequest, []ErrorMessage{{Path: field, Message: pgErr.Message}}, true
		}
	}

	return 0, nil, false
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// stackOf prefers a recorded stack trace (from NewInternal) and falls back to
// the error text.
func stackOf(err error) string {
	cause := err
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Err != nil {
		cause = appErr.Err
	}

	var st stackTracer
	if errors.As(cause, &st) {
		return fmt.Sprintf("%+v", cause)
	}
	return err.Error()
}
