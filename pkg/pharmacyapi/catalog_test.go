package pharmacyapi

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestListCatalogUsesResourcePageSizeParam(t *testing.T) {
	var query map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{}
		for k := range r.URL.Query() {
			query[k] = r.URL.Query().Get(k)
		}
		_, _ = io.WriteString(w, `{"data": [{"id": 1}, {"id": 2}], "total_items": 12}`)
	})

	res, err := c.ListCatalog(context.Background(), ResourceCategory, ListParams{Page: 2, PageSize: 5, Search: "ant"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if query["pageSize"] != "5" || query["page"] != "2" || query["search"] != "ant" {
		t.Fatalf("unexpected query %v", query)
	}
	if res.TotalItems != 12 || len(res.Data) != 2 {
		t.Fatalf("unexpected result %+v", res)
	}

	_, err = c.ListCatalog(context.Background(), ResourceStrength, ListParams{PageSize: 5})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if query["page_size"] != "5" {
		t.Fatalf("strength must use page_size, got %v", query)
	}
}

func TestListCatalogDropsUnknownFilters(t *testing.T) {
	var rawQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, `[]`)
	})

	res, err := c.ListCatalog(context.Background(), ResourceGroupDisease, ListParams{
		Filters: map[string]string{"disease_id": "3", "category_id": "9"},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if rawQuery != "disease_id=3" {
		t.Fatalf("unexpected query %q", rawQuery)
	}
	if res.TotalItems != 0 || len(res.Data) != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestUnknownResourceIsRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	if _, err := c.ListCatalog(context.Background(), Resource("supplier"), ListParams{}); err == nil {
		t.Fatal("expected error for unknown resource")
	}
}

func TestUpdateCatalogSendsMultipartWithID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		if r.URL.Query().Get("id") != "11" {
			t.Errorf("expected id=11, got %s", r.URL.RawQuery)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.FormValue("disease_name") != "Fever" {
			t.Errorf("missing field, got %v", r.MultipartForm.Value)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Errorf("missing image: %v", err)
		} else {
			defer file.Close()
			if header.Filename != "fever.png" {
				t.Errorf("unexpected filename %s", header.Filename)
			}
		}
		_, _ = io.WriteString(w, `{"message": "updated", "data": {"id": 11}}`)
	})

	form := NewForm().Set("disease_name", "Fever").
		Attach(File{Field: "image", Name: "fever.png", Content: strings.NewReader("png")})
	raw, err := c.UpdateCatalog(context.Background(), ResourceDisease, "11", form)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if string(raw) != `{"id": 11}` {
		t.Fatalf("unexpected body %s", raw)
	}
}

func TestUploadAndDownloadExcel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/upload-brand/":
			if _, _, err := r.FormFile("file"); err != nil {
				t.Errorf("missing file part: %v", err)
			}
			_, _ = io.WriteString(w, `{"message": "3 rows imported"}`)
		case "/api/download-brand/":
			w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			w.Header().Set("Content-Disposition", `attachment; filename="brands-2024.xlsx"`)
			_, _ = io.WriteString(w, "xlsx-bytes")
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	if _, err := c.UploadExcel(context.Background(), ResourceBrand, File{Name: "b.xlsx", Content: strings.NewReader("x")}); err != nil {
		t.Fatalf("upload: %v", err)
	}

	d, err := c.DownloadExcel(context.Background(), ResourceBrand)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if d.Filename != "brands-2024.xlsx" || string(d.Data) != "xlsx-bytes" {
		t.Fatalf("unexpected download %+v", d)
	}
}
