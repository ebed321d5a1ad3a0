package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The operation-level error taxonomy. Engine functions return one of these
// wrapper types and handlers translate them to a status code uniformly, so
// a validation failure can never leak out as a 500.

// FieldError is a field-scoped validation failure, rendered DRF-style as
// {"<field>": ["<message>"]}.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ConflictError covers duplicate relation adds, self-follow attempts and an
// exhausted short-link retry budget.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NotFoundError covers lookups of missing recipes, users and relation rows.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// respondError maps an engine error onto the wire. Anything outside the
// taxonomy is a store-level failure and comes back as a 500.
func respondError(c *gin.Context, err error) {
	switch e := err.(type) {
	case *FieldError:
		c.JSON(http.StatusBadRequest, gin.H{e.Field: []string{e.Message}})
	case *ConflictError:
		c.JSON(http.StatusBadRequest, gin.H{"detail": e.Message})
	case *NotFoundError:
		c.JSON(http.StatusNotFound, gin.H{"detail": e.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error."})
	}
}
