package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sangkips/pharmacy-pos/pkg/apperror"
	"github.com/sangkips/pharmacy-pos/pkg/pagination"
	"github.com/sangkips/pharmacy-pos/pkg/pharmacyapi"
	"github.com/sangkips/pharmacy-pos/pkg/spreadsheet"
	"go.uber.org/zap"
)

// CatalogService manages the master data used by the POS: drugs, brands,
// categories and their lookups
type CatalogService struct {
	backend CatalogBackend
	log     *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(backend CatalogBackend, log *zap.Logger) *CatalogService {
	return &CatalogService{backend: backend, log: log}
}

// CatalogListParams are the list query parameters accepted from clients.
type CatalogListParams struct {
	pagination.PaginationParams
	Filters map[string]string
}

var allowedImageExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

func catalogEntryFor(r pharmacyapi.Resource) (catalogEntry, error) {
	entry, ok := catalogEntries[r]
	if !ok {
		return catalogEntry{}, apperror.NewNotFoundError("Catalog resource")
	}
	return entry, nil
}

// NewForm returns an empty form for resource r, ready to be bound.
func (s *CatalogService) NewForm(r pharmacyapi.Resource) (any, error) {
	entry, err := catalogEntryFor(r)
	if err != nil {
		return nil, err
	}
	return entry.newForm(), nil
}

// List returns one page of entries of r.
func (s *CatalogService) List(ctx context.Context, r pharmacyapi.Resource, p CatalogListParams) (*pagination.PaginatedResult[json.RawMessage], error) {
	if _, err := catalogEntryFor(r); err != nil {
		return nil, err
	}
	p.Validate()

	filters := make(map[string]string)
	for _, name := range r.Filters() {
		if v := strings.TrimSpace(p.Filters[name]); v != "" {
			filters[name] = v
		}
	}

	res, err := s.backend.ListCatalog(ctx, r, pharmacyapi.ListParams{
		Page:     p.Page,
		PageSize: p.PerPage,
		Search:   strings.TrimSpace(p.Search),
		Filters:  filters,
	})
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(res.Data, pagination.NewPagination(p.Page, p.PerPage, res.TotalItems)), nil
}

// Get returns a single entry.
func (s *CatalogService) Get(ctx context.Context, r pharmacyapi.Resource, id string) (json.RawMessage, error) {
	if _, err := catalogEntryFor(r); err != nil {
		return nil, err
	}
	if err := requireID(id); err != nil {
		return nil, err
	}
	return s.backend.GetCatalog(ctx, r, id)
}

// Create sends a bound form, with its optional image, to the backend.
func (s *CatalogService) Create(ctx context.Context, r pharmacyapi.Resource, form any, image *pharmacyapi.File) (json.RawMessage, error) {
	payload, err := s.buildPayload(r, form, image)
	if err != nil {
		return nil, err
	}
	created, err := s.backend.CreateCatalog(ctx, r, payload)
	if err != nil {
		return nil, err
	}
	s.log.Info("catalog entry created", zap.String("resource", string(r)))
	return created, nil
}

// Update replaces entry id with a bound form.
func (s *CatalogService) Update(ctx context.Context, r pharmacyapi.Resource, id string, form any, image *pharmacyapi.File) (json.RawMessage, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	payload, err := s.buildPayload(r, form, image)
	if err != nil {
		return nil, err
	}
	updated, err := s.backend.UpdateCatalog(ctx, r, id, payload)
	if err != nil {
		return nil, err
	}
	s.log.Info("catalog entry updated", zap.String("resource", string(r)), zap.String("id", id))
	return updated, nil
}

// Delete removes entry id.
func (s *CatalogService) Delete(ctx context.Context, r pharmacyapi.Resource, id string) error {
	if _, err := catalogEntryFor(r); err != nil {
		return err
	}
	if err := requireID(id); err != nil {
		return err
	}
	if err := s.backend.DeleteCatalog(ctx, r, id); err != nil {
		return err
	}
	s.log.Info("catalog entry deleted", zap.String("resource", string(r)), zap.String("id", id))
	return nil
}

// Import checks the workbook locally and forwards it to the backend's import
// endpoint.
func (s *CatalogService) Import(ctx context.Context, r pharmacyapi.Resource, filename string, content io.Reader) (json.RawMessage, error) {
	entry, err := catalogEntryFor(r)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".xlsx" && ext != ".xlsm" {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "file", Message: "Only .xlsx workbooks can be imported"},
		})
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return nil, apperror.NewBadRequestError("Failed to read uploaded file")
	}

	report, err := spreadsheet.Inspect(bytes.NewReader(data), entry.columns)
	if err != nil {
		return nil, workbookError(err)
	}

	result, err := s.backend.UploadExcel(ctx, r, pharmacyapi.File{
		Field:   "file",
		Name:    filepath.Base(filename),
		Content: bytes.NewReader(data),
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("catalog workbook imported", zap.String("resource", string(r)), zap.Int("rows", report.Rows))
	return result, nil
}

// Export returns the backend's workbook of every entry of r.
func (s *CatalogService) Export(ctx context.Context, r pharmacyapi.Resource) (*pharmacyapi.Download, error) {
	if _, err := catalogEntryFor(r); err != nil {
		return nil, err
	}
	return s.backend.DownloadExcel(ctx, r)
}

func (s *CatalogService) buildPayload(r pharmacyapi.Resource, form any, image *pharmacyapi.File) (*pharmacyapi.Form, error) {
	entry, err := catalogEntryFor(r)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, apperror.NewBadRequestError("Form data is required")
	}
	payload, err := encodeForm(form)
	if err != nil {
		return nil, err
	}

	if image != nil {
		if !entry.image {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "image", Message: fmt.Sprintf("%s entries do not take an image", r)},
			})
		}
		if !allowedImageExt[strings.ToLower(filepath.Ext(image.Name))] {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "image", Message: "Image must be a jpg, png or webp file"},
			})
		}
		if image.Field == "" {
			image.Field = "image"
		}
		payload.Attach(*image)
	}
	return payload, nil
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return apperror.NewBadRequestError("Id is required")
	}
	return nil
}

func workbookError(err error) error {
	var missing *spreadsheet.MissingColumnsError
	switch {
	case errors.As(err, &missing):
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "file", Message: "Missing columns: " + strings.Join(missing.Columns, ", ")},
		})
	case errors.Is(err, spreadsheet.ErrEmpty):
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "file", Message: "The workbook has no rows to import"},
		})
	default:
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "file", Message: "The file is not a readable Excel workbook"},
		})
	}
}
