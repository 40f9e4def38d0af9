package pharmacyapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
)

// Resource names a catalog entity exposed by the backend.
type Resource string

const (
	ResourceCategory           Resource = "category"
	ResourceSubCategory        Resource = "sub-category"
	ResourceDisease            Resource = "disease"
	ResourceStrength           Resource = "strength"
	ResourceGenericDescription Resource = "generic-description"
	ResourceGroupCategory      Resource = "group-category"
	ResourceGroupDisease       Resource = "group-disease"
	ResourceCustomerType       Resource = "customer-type"
	ResourceDrug               Resource = "drug"
	ResourceBrand              Resource = "brand"
)

type resourceRoute struct {
	path          string
	pageSizeParam string
	filters       []string
}

var resourceRoutes = map[Resource]resourceRoute{
	ResourceCategory:           {path: "category", pageSizeParam: "pageSize"},
	ResourceSubCategory:        {path: "sub-category", pageSizeParam: "pageSize", filters: []string{"category_id"}},
	ResourceDisease:            {path: "disease", pageSizeParam: "pageSize"},
	ResourceStrength:           {path: "strength", pageSizeParam: "page_size"},
	ResourceGenericDescription: {path: "generic-description", pageSizeParam: "page_size"},
	ResourceGroupCategory:      {path: "group-category", pageSizeParam: "page_size", filters: []string{"category_id"}},
	ResourceGroupDisease:       {path: "group-disease", pageSizeParam: "page_size", filters: []string{"disease_id"}},
	ResourceCustomerType:       {path: "customer-type", pageSizeParam: "page_size"},
	ResourceDrug:               {path: "drug", pageSizeParam: "page_size", filters: []string{"category_id", "sub_category_id", "strength_id", "generic_description_id", "brand_id"}},
	ResourceBrand:              {path: "brand", pageSizeParam: "page_size"},
}

// Valid reports whether r is a known catalog resource.
func (r Resource) Valid() bool {
	_, ok := resourceRoutes[r]
	return ok
}

// Filters lists the query parameters r accepts for dropdown filtering.
func (r Resource) Filters() []string {
	return resourceRoutes[r].filters
}

func (r Resource) path() string {
	return resourceRoutes[r].path + "/"
}

// ListParams are the list query parameters of a catalog endpoint.
type ListParams struct {
	Page     int
	PageSize int
	Search   string
	Filters  map[string]string
}

// ListResult is the {data, total_items} list envelope. Endpoints that answer
// with a bare array are accepted too.
type ListResult struct {
	Data       []json.RawMessage `json:"data"`
	TotalItems int64             `json:"total_items"`
}

func (l *ListResult) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err == nil {
		l.Data = items
		l.TotalItems = int64(len(items))
		return nil
	}

	type alias ListResult
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*l = ListResult(a)
	if l.TotalItems == 0 {
		l.TotalItems = int64(len(l.Data))
	}
	return nil
}

// Download is a file returned by an export endpoint.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (c *Client) checkResource(r Resource) error {
	if !r.Valid() {
		return fmt.Errorf("pharmacyapi: unknown resource %q", r)
	}
	return nil
}

// ListCatalog lists entities of resource r.
func (c *Client) ListCatalog(ctx context.Context, r Resource, p ListParams) (*ListResult, error) {
	if err := c.checkResource(r); err != nil {
		return nil, err
	}
	route := resourceRoutes[r]

	query := url.Values{}
	if p.Page > 0 {
		query.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		query.Set(route.pageSizeParam, strconv.Itoa(p.PageSize))
	}
	if p.Search != "" {
		query.Set("search", p.Search)
	}
	for _, name := range route.filters {
		if v := p.Filters[name]; v != "" {
			query.Set(name, v)
		}
	}

	var result ListResult
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: r.path(), query: query}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetCatalog fetches a single entity by id.
func (c *Client) GetCatalog(ctx context.Context, r Resource, id string) (json.RawMessage, error) {
	if err := c.checkResource(r); err != nil {
		return nil, err
	}
	var raw json.RawMessage
	req := request{method: http.MethodGet, path: r.path(), query: url.Values{"id": {id}}}
	if err := c.doJSON(ctx, req, &raw); err != nil {
		return nil, err
	}
	return unwrapData(raw), nil
}

// CreateCatalog posts a new entity as multipart form data.
func (c *Client) CreateCatalog(ctx context.Context, r Resource, form *Form) (json.RawMessage, error) {
	if err := c.checkResource(r); err != nil {
		return nil, err
	}
	req, err := form.multipartRequest(http.MethodPost, r.path())
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.doJSON(ctx, req, &raw); err != nil {
		return nil, err
	}
	return unwrapData(raw), nil
}

// UpdateCatalog replaces entity id with the given form.
func (c *Client) UpdateCatalog(ctx context.Context, r Resource, id string, form *Form) (json.RawMessage, error) {
	if err := c.checkResource(r); err != nil {
		return nil, err
	}
	req, err := form.multipartRequest(http.MethodPut, r.path())
	if err != nil {
		return nil, err
	}
	req.query = url.Values{"id": {id}}
	var raw json.RawMessage
	if err := c.doJSON(ctx, req, &raw); err != nil {
		return nil, err
	}
	return unwrapData(raw), nil
}

// DeleteCatalog removes entity id.
func (c *Client) DeleteCatalog(ctx context.Context, r Resource, id string) error {
	if err := c.checkResource(r); err != nil {
		return err
	}
	return c.doJSON(ctx, request{method: http.MethodDelete, path: r.path(), query: url.Values{"id": {id}}}, nil)
}

// UploadExcel sends a workbook to the resource's import endpoint.
func (c *Client) UploadExcel(ctx context.Context, r Resource, file File) (json.RawMessage, error) {
	if err := c.checkResource(r); err != nil {
		return nil, err
	}
	if file.Field == "" {
		file.Field = "file"
	}
	req, err := NewForm().Attach(file).multipartRequest(http.MethodPost, "upload-"+r.path())
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.doJSON(ctx, req, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// DownloadExcel fetches the resource's export workbook.
func (c *Client) DownloadExcel(ctx context.Context, r Resource) (*Download, error) {
	if err := c.checkResource(r); err != nil {
		return nil, err
	}
	resp, err := c.send(ctx, request{method: http.MethodGet, path: "download-" + r.path()})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("pharmacyapi: read export: %w", err)
	}

	d := &Download{
		Filename:    string(r) + ".xlsx",
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		d.Filename = params["filename"]
	}
	if d.ContentType == "" {
		d.ContentType = "application/octet-stream"
	}
	return d, nil
}
