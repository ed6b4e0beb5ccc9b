package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-crop-advisor/internal/comparison"
	"github.com/mr1hm/go-crop-advisor/internal/estimator"
	"github.com/mr1hm/go-crop-advisor/internal/logging"
	"github.com/mr1hm/go-crop-advisor/internal/repository"
)

var errBadRequest = errors.New("bad request")

func badRequest(err error) error {
	return errors.Join(errBadRequest, err)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, estimator.ErrOutOfDomain),
		errors.Is(err, estimator.ErrUnknownLevel),
		errors.Is(err, comparison.ErrNoCrops):
		return http.StatusBadRequest
	case errors.Is(err, estimator.ErrMalformedBaseline):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "path", c.FullPath(), "request_id", logging.RequestID(c), "error", err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// respond writes result on success. A malformed baseline still carries a
// computed result, so it is returned next to the error.
func respond(c *gin.Context, result any, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, result)
	case statusOf(err) == http.StatusUnprocessableEntity:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "result": result})
	default:
		writeError(c, err)
	}
}
