package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pharmacy-pos/internal/application/service"
	"github.com/sangkips/pharmacy-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/pharmacy-pos/internal/presentation/http/middleware"
	"github.com/sangkips/pharmacy-pos/pkg/pharmacyapi"
	"github.com/sangkips/pharmacy-pos/pkg/validation"
)

// GetActor returns the authenticated user the request runs for
func GetActor(c *gin.Context) (service.Actor, bool) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		return service.Actor{}, false
	}
	return service.Actor{
		UserID:  userID,
		Name:    c.GetString(middleware.ContextUserName),
		StoreID: c.GetString(middleware.ContextStoreID),
	}, true
}

// requireActor writes a 401 and returns false when nobody is authenticated
func requireActor(c *gin.Context) (service.Actor, bool) {
	actor, ok := GetActor(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
	}
	return actor, ok
}

// bindError responds to a failed ShouldBind call
func bindError(c *gin.Context, err error) {
	if fields := validation.FieldErrors(err); len(fields) > 0 {
		response.ValidationError(c, fields)
		return
	}
	if errors.Is(err, io.EOF) {
		response.BadRequest(c, "Request body is required")
		return
	}
	response.BadRequest(c, "Invalid request: "+err.Error())
}

// formFile opens an optional uploaded file. A missing field, or a request
// that is not multipart, gives nil.
func formFile(c *gin.Context, field string) (*pharmacyapi.File, func(), error) {
	noop := func() {}
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return nil, noop, nil
	}
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, noop, nil
		}
		return nil, noop, err
	}
	f, err := header.Open()
	if err != nil {
		return nil, noop, err
	}
	return &pharmacyapi.File{Field: field, Name: header.Filename, Content: f}, func() { f.Close() }, nil
}
