package service

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/sangkips/pharmacy-pos/pkg/pagination"
	"github.com/sangkips/pharmacy-pos/pkg/pharmacyapi"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestEncodeForm(t *testing.T) {
	active := false
	form, err := encodeForm(&DrugForm{
		DrugName:    "  Dolo 650 ",
		CategoryID:  3,
		ItemType:    "medical",
		PackSize:    15,
		MRP:         30.5,
		CGSTPercent: 6,
		IsActive:    &active,
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	want := map[string]string{
		"drug_name":    "Dolo 650",
		"category_id":  "3",
		"pack_size":    "15",
		"mrp":          "30.5",
		"cgst_percent": "6",
		"is_active":    "false",
	}
	for name, value := range want {
		if got, ok := form.Value(name); !ok || got != value {
			t.Errorf("%s = %q (%v), want %q", name, got, ok, value)
		}
	}
	for _, name := range []string{"brand_id", "sub_category_id", "strength_id"} {
		if _, ok := form.Value(name); ok {
			t.Errorf("unset %s should be left out", name)
		}
	}
	if got, ok := form.Value("reorder_level"); !ok || got != "0" {
		t.Errorf("reorder_level = %q (%v), want 0", got, ok)
	}

	form, err = encodeForm(&CategoryForm{CategoryName: "Analgesics"})
	if err != nil {
		t.Fatalf("encode category: %v", err)
	}
	if _, ok := form.Value("is_active"); ok {
		t.Error("a nil flag should be left out")
	}
}

func TestCatalogService_List(t *testing.T) {
	backend := newFakeBackend()
	svc := NewCatalogService(backend, zap.NewNop())

	res, err := svc.List(context.Background(), pharmacyapi.ResourceSubCategory, CatalogListParams{
		PaginationParams: pagination.PaginationParams{Page: 2, PerPage: 10, Search: " para "},
		Filters:          map[string]string{"category_id": "4", "disease_id": "9"},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(res.Items) != 2 || res.Pagination.Total != 25 || res.Pagination.TotalPages != 3 {
		t.Errorf("unexpected page %+v", res.Pagination)
	}
	p := backend.listParams
	if p.Search != "para" || p.Filters["category_id"] != "4" {
		t.Errorf("unexpected params %+v", p)
	}
	if _, ok := p.Filters["disease_id"]; ok {
		t.Error("filters the resource does not accept should be dropped")
	}
}

func TestCatalogService_CreateWithImage(t *testing.T) {
	backend := newFakeBackend()
	svc := NewCatalogService(backend, zap.NewNop())
	ctx := context.Background()

	form, err := svc.NewForm(pharmacyapi.ResourceBrand)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	brand := form.(*BrandForm)
	brand.BrandName = "Cipla"

	image := &pharmacyapi.File{Name: "logo.png", Content: strings.NewReader("png")}
	if _, err := svc.Create(ctx, pharmacyapi.ResourceBrand, brand, image); err != nil {
		t.Fatalf("create: %v", err)
	}
	if v, _ := backend.catalogForm.Value("brand_name"); v != "Cipla" {
		t.Errorf("unexpected brand_name %q", v)
	}

	bad := &pharmacyapi.File{Name: "logo.exe", Content: strings.NewReader("x")}
	_, err = svc.Create(ctx, pharmacyapi.ResourceBrand, brand, bad)
	assertStatus(t, err, http.StatusUnprocessableEntity)

	_, err = svc.Create(ctx, pharmacyapi.ResourceStrength, &StrengthForm{StrengthName: "500mg"}, image)
	assertStatus(t, err, http.StatusUnprocessableEntity)

	_, err = svc.NewForm(pharmacyapi.Resource("supplier"))
	assertStatus(t, err, http.StatusNotFound)
}

func xlsx(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	return buf
}

func TestCatalogService_Import(t *testing.T) {
	backend := newFakeBackend()
	svc := NewCatalogService(backend, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Import(ctx, pharmacyapi.ResourceCategory, "categories.xlsx", xlsx(t, []interface{}{"description"}, []interface{}{"x"}))
	assertStatus(t, err, http.StatusUnprocessableEntity)

	_, err = svc.Import(ctx, pharmacyapi.ResourceCategory, "categories.csv", strings.NewReader("a,b"))
	assertStatus(t, err, http.StatusUnprocessableEntity)

	_, err = svc.Import(ctx, pharmacyapi.ResourceCategory, "categories.xlsx", strings.NewReader("garbage"))
	assertStatus(t, err, http.StatusUnprocessableEntity)

	if backend.uploads != 0 {
		t.Fatal("rejected workbooks must not be uploaded")
	}

	_, err = svc.Import(ctx, pharmacyapi.ResourceCategory, "categories.xlsx", xlsx(t, []interface{}{"Category Name"}, []interface{}{"Antibiotics"}))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if backend.uploads != 1 {
		t.Errorf("expected one upload, got %d", backend.uploads)
	}
}

func TestCatalogService_Export(t *testing.T) {
	svc := NewCatalogService(newFakeBackend(), zap.NewNop())

	d, err := svc.Export(context.Background(), pharmacyapi.ResourceDrug)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if d.Filename != "drug.xlsx" || len(d.Data) == 0 {
		t.Errorf("unexpected download %+v", d)
	}
}
