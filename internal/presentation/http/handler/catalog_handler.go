package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pharmacy-pos/internal/application/service"
	"github.com/sangkips/pharmacy-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/pharmacy-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/pharmacy-pos/pkg/apperror"
	"github.com/sangkips/pharmacy-pos/pkg/pagination"
	"github.com/sangkips/pharmacy-pos/pkg/pharmacyapi"
)

// CatalogHandler handles the master-data screens: categories, diseases,
// strengths, drugs and the rest of the catalog resources
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func catalogResource(c *gin.Context) pharmacyapi.Resource {
	return pharmacyapi.Resource(c.Param("resource"))
}

// List returns one page of a resource
func (h *CatalogHandler) List(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}

	var q request.CatalogListRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	perPage := q.PerPage
	if perPage == 0 {
		perPage = q.PageSize
	}

	params := service.CatalogListParams{
		PaginationParams: pagination.PaginationParams{Page: q.Page, PerPage: perPage, Search: q.Search},
		Filters:          map[string]string{},
	}
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params.Filters[key] = values[0]
		}
	}

	result, err := h.catalogService.List(c.Request.Context(), catalogResource(c), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, "Entries retrieved successfully", result)
}

// Get returns one entry
func (h *CatalogHandler) Get(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}

	data, err := h.catalogService.Get(c.Request.Context(), catalogResource(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Entry retrieved successfully", data)
}

// Create adds an entry
func (h *CatalogHandler) Create(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	r := catalogResource(c)

	form, err := h.catalogService.NewForm(r)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := c.ShouldBind(form); err != nil {
		bindError(c, err)
		return
	}

	image, closeImage, err := formFile(c, "image")
	if err != nil {
		response.BadRequest(c, "Failed to read uploaded image")
		return
	}
	defer closeImage()

	data, err := h.catalogService.Create(c.Request.Context(), r, form, image)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Entry created successfully", data)
}

// Update changes an entry
func (h *CatalogHandler) Update(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	r := catalogResource(c)

	form, err := h.catalogService.NewForm(r)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := c.ShouldBind(form); err != nil {
		bindError(c, err)
		return
	}

	image, closeImage, err := formFile(c, "image")
	if err != nil {
		response.BadRequest(c, "Failed to read uploaded image")
		return
	}
	defer closeImage()

	data, err := h.catalogService.Update(c.Request.Context(), r, c.Param("id"), form, image)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Entry updated successfully", data)
}

// Delete removes an entry
func (h *CatalogHandler) Delete(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}

	if err := h.catalogService.Delete(c.Request.Context(), catalogResource(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Import uploads a workbook of entries
func (h *CatalogHandler) Import(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		response.ValidationError(c, []apperror.FieldError{{Field: "file", Message: "A workbook is required"}})
		return
	}
	f, err := header.Open()
	if err != nil {
		response.BadRequest(c, "Failed to read uploaded file")
		return
	}
	defer f.Close()

	data, err := h.catalogService.Import(c.Request.Context(), catalogResource(c), header.Filename, f)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Workbook imported successfully", data)
}

// Export downloads every entry as a workbook
func (h *CatalogHandler) Export(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}

	dl, err := h.catalogService.Export(c.Request.Context(), catalogResource(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, dl.Filename, dl.ContentType, dl.Data)
}
