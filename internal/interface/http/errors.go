package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shoplite/catalog-backend/internal/domain/apperror"
	"github.com/shoplite/catalog-backend/pkg/response"
)

// statusForError maps domain error kinds to HTTP status codes. Unknown errors
// are treated as internal and their message is not exposed.
func statusForError(err error) int {
	switch apperror.KindOf(err) {
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindDuplicateName, apperror.KindDuplicateEmail,
		apperror.KindAlreadyActive, apperror.KindAlreadyInactive, apperror.KindAlreadyVerified:
		return http.StatusConflict
	case apperror.KindForbidden, apperror.KindCannotActOnSelf:
		return http.StatusForbidden
	case apperror.KindInvalidCredential, apperror.KindInactiveAccount:
		return http.StatusUnauthorized
	case apperror.KindCategoryInactive, apperror.KindInvalidStock, apperror.KindInvalidPrice,
		apperror.KindCannotDeactivateWithStock, apperror.KindSamePassword, apperror.KindMissingField:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	status := statusForError(err)
	msg := err.Error()
	var details any
	if kind := apperror.KindOf(err); kind != apperror.KindUnknown {
		details = gin.H{"kind": kind.String()}
	} else {
		msg = "internal error"
	}
	response.Error[any](c, status, msg, details)
}
