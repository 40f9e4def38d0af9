package pharmacyapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"slices"
)

// File is a binary part of a multipart request.
type File struct {
	Field   string
	Name    string
	Content io.Reader
}

type formField struct {
	name  string
	value string
}

// Form accumulates the fields of a multipart/form-data body. The backend
// expects multipart even when no file is attached.
type Form struct {
	fields []formField
	files  []File
}

// NewForm returns an empty form.
func NewForm() *Form {
	return &Form{}
}

// Set appends a text field.
func (f *Form) Set(name, value string) *Form {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// SetValues appends every value in values, ordered by field name.
func (f *Form) SetValues(values url.Values) *Form {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		for _, v := range values[name] {
			f.Set(name, v)
		}
	}
	return f
}

// SetJSON appends a field holding the JSON encoding of v.
func (f *Form) SetJSON(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("pharmacyapi: encode %s: %w", name, err)
	}
	f.Set(name, string(data))
	return nil
}

// Attach appends a file part.
func (f *Form) Attach(file File) *Form {
	f.files = append(f.files, file)
	return f
}

// Value returns the first value stored for name.
func (f *Form) Value(name string) (string, bool) {
	for _, field := range f.fields {
		if field.name == name {
			return field.value, true
		}
	}
	return "", false
}

func (f *Form) encode() (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for _, field := range f.fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("pharmacyapi: write field %s: %w", field.name, err)
		}
	}
	for _, file := range f.files {
		part, err := w.CreateFormFile(file.Field, file.Name)
		if err != nil {
			return nil, "", fmt.Errorf("pharmacyapi: create part %s: %w", file.Field, err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, "", fmt.Errorf("pharmacyapi: copy part %s: %w", file.Field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("pharmacyapi: close form: %w", err)
	}
	return body, w.FormDataContentType(), nil
}

// multipartRequest builds a request carrying the encoded form.
func (f *Form) multipartRequest(method, path string) (request, error) {
	body, contentType, err := f.encode()
	if err != nil {
		return request{}, err
	}
	return request{
		method:      method,
		path:        path,
		body:        body,
		contentType: contentType,
	}, nil
}
