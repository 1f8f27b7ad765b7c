package v1

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"jobmarket-backend/internal/delivery/http/middleware"
	"jobmarket-backend/internal/domain"
	"jobmarket-backend/pkg/apperror"
	"jobmarket-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// bind decodes the JSON body and turns binding failures into a 400 with
// per-field messages.
func bind(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.Validation("Request body is required")
		}
		return apperror.Validation("Invalid input").WithDetails(validation.FormatValidationErrors(err))
	}
	return nil
}

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NotFound("Not found")
	}
	return id, nil
}

// queryInt parses an optional integer query parameter.
func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.Validation(fmt.Sprintf("%s must be an integer", name))
	}
	return v, nil
}

func queryFloat(c *gin.Context, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperror.Validation(fmt.Sprintf("%s must be a number", name))
	}
	return &v, nil
}

func queryInt64Ptr(c *gin.Context, name string) (*int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperror.Validation(fmt.Sprintf("%s must be an integer", name))
	}
	return &v, nil
}

// baseURL is the scheme and host the client used, for absolutizing media URLs.
// X-Forwarded-Proto and X-Forwarded-Host count only behind a trusted proxy.
func baseURL(c *gin.Context) string {
	forwarded := middleware.ViaTrustedProxy(c)
	scheme := "http"
	if c.Request.TLS != nil || (forwarded && strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https")) {
		scheme = "https"
	}
	host := c.Request.Host
	if fwd := c.GetHeader("X-Forwarded-Host"); forwarded && fwd != "" {
		host = fwd
	}
	if host == "" {
		return ""
	}
	return scheme + "://" + host
}

// formFile reads an optional multipart file. A missing field returns nil.
func formFile(c *gin.Context, field string, maxBytes int64) (*domain.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, apperror.Validation("Invalid multipart form")
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return nil, apperror.Validation(fmt.Sprintf("File is too large (max %d MB)", maxBytes>>20))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperror.Internal(err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, fh.Size+1))
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// requireFile is formFile for mandatory uploads.
func requireFile(c *gin.Context, field string, maxBytes int64) (domain.Upload, error) {
	up, err := formFile(c, field, maxBytes)
	if err != nil {
		return domain.Upload{}, err
	}
	if up == nil {
		return domain.Upload{}, apperror.Validation(fmt.Sprintf("%s file is required", field))
	}
	return *up, nil
}
