package service

import (
	"fmt"
	"strings"

	"github.com/go-playground/form/v4"
	"github.com/sangkips/pharmacy-pos/pkg/pharmacyapi"
)

var formEncoder = form.NewEncoder()

// Catalog entry forms. They are bound from multipart or JSON requests by gin
// and sent to the backend as multipart fields named after their form tags.

type CategoryForm struct {
	CategoryName string `form:"category_name" json:"category_name" binding:"required,min=2,max=100"`
	Description  string `form:"description" json:"description" binding:"max=500"`
	IsActive     *bool  `form:"is_active" json:"is_active"`
}

type SubCategoryForm struct {
	SubCategoryName string `form:"sub_category_name" json:"sub_category_name" binding:"required,min=2,max=100"`
	CategoryID      int64  `form:"category_id" json:"category_id" binding:"required,gt=0"`
	Description     string `form:"description" json:"description" binding:"max=500"`
	IsActive        *bool  `form:"is_active" json:"is_active"`
}

type DiseaseForm struct {
	DiseaseName string `form:"disease_name" json:"disease_name" binding:"required,min=2,max=100"`
	Description string `form:"description" json:"description" binding:"max=500"`
	IsActive    *bool  `form:"is_active" json:"is_active"`
}

type StrengthForm struct {
	StrengthName string `form:"strength_name" json:"strength_name" binding:"required,max=50"`
	IsActive     *bool  `form:"is_active" json:"is_active"`
}

type GenericDescriptionForm struct {
	GenericName string `form:"generic_name" json:"generic_name" binding:"required,min=2,max=200"`
	Description string `form:"description" json:"description" binding:"max=1000"`
	IsActive    *bool  `form:"is_active" json:"is_active"`
}

type GroupCategoryForm struct {
	GroupName  string `form:"group_name" json:"group_name" binding:"required,min=2,max=100"`
	CategoryID int64  `form:"category_id" json:"category_id" binding:"required,gt=0"`
	IsActive   *bool  `form:"is_active" json:"is_active"`
}

type GroupDiseaseForm struct {
	GroupName string `form:"group_name" json:"group_name" binding:"required,min=2,max=100"`
	DiseaseID int64  `form:"disease_id" json:"disease_id" binding:"required,gt=0"`
	IsActive  *bool  `form:"is_active" json:"is_active"`
}

type CustomerTypeForm struct {
	CustomerType    string  `form:"customer_type" json:"customer_type" binding:"required,min=2,max=50"`
	DiscountPercent float64 `form:"discount_percent" json:"discount_percent" binding:"gte=0,lte=100"`
	IsActive        *bool   `form:"is_active" json:"is_active"`
}

type BrandForm struct {
	BrandName    string `form:"brand_name" json:"brand_name" binding:"required,min=2,max=100"`
	Manufacturer string `form:"manufacturer" json:"manufacturer" binding:"max=200"`
	IsActive     *bool  `form:"is_active" json:"is_active"`
}

type DrugForm struct {
	DrugName             string  `form:"drug_name" json:"drug_name" binding:"required,min=2,max=200"`
	CategoryID           int64   `form:"category_id" json:"category_id" binding:"required,gt=0"`
	SubCategoryID        int64   `form:"sub_category_id,omitempty" json:"sub_category_id" binding:"gte=0"`
	StrengthID           int64   `form:"strength_id,omitempty" json:"strength_id" binding:"gte=0"`
	GenericDescriptionID int64   `form:"generic_description_id,omitempty" json:"generic_description_id" binding:"gte=0"`
	BrandID              int64   `form:"brand_id,omitempty" json:"brand_id" binding:"gte=0"`
	Manufacturer         string  `form:"manufacturer" json:"manufacturer" binding:"max=200"`
	HSNCode              string  `form:"hsn_code" json:"hsn_code" binding:"omitempty,numeric,min=4,max=8"`
	Schedule             string  `form:"schedule" json:"schedule" binding:"omitempty,oneof=H H1 X G OTC"`
	ItemType             string  `form:"item_type" json:"item_type" binding:"required,oneof=medical non-medical"`
	PackSize             int     `form:"pack_size" json:"pack_size" binding:"required,gt=0"`
	MRP                  float64 `form:"mrp" json:"mrp" binding:"gte=0"`
	CGSTPercent          float64 `form:"cgst_percent" json:"cgst_percent" binding:"gte=0,lte=100"`
	SGSTPercent          float64 `form:"sgst_percent" json:"sgst_percent" binding:"gte=0,lte=100"`
	IGSTPercent          float64 `form:"igst_percent" json:"igst_percent" binding:"gte=0,lte=100"`
	ReorderLevel         int     `form:"reorder_level" json:"reorder_level" binding:"gte=0"`
	IsActive             *bool   `form:"is_active" json:"is_active"`
}

type catalogEntry struct {
	newForm func() any
	columns []string
	image   bool
}

var catalogEntries = map[pharmacyapi.Resource]catalogEntry{
	pharmacyapi.ResourceCategory:           {newForm: func() any { return &CategoryForm{} }, columns: []string{"category_name"}, image: true},
	pharmacyapi.ResourceSubCategory:        {newForm: func() any { return &SubCategoryForm{} }, columns: []string{"sub_category_name", "category_id"}, image: true},
	pharmacyapi.ResourceDisease:            {newForm: func() any { return &DiseaseForm{} }, columns: []string{"disease_name"}, image: true},
	pharmacyapi.ResourceStrength:           {newForm: func() any { return &StrengthForm{} }, columns: []string{"strength_name"}},
	pharmacyapi.ResourceGenericDescription: {newForm: func() any { return &GenericDescriptionForm{} }, columns: []string{"generic_name"}},
	pharmacyapi.ResourceGroupCategory:      {newForm: func() any { return &GroupCategoryForm{} }, columns: []string{"group_name", "category_id"}},
	pharmacyapi.ResourceGroupDisease:       {newForm: func() any { return &GroupDiseaseForm{} }, columns: []string{"group_name", "disease_id"}},
	pharmacyapi.ResourceCustomerType:       {newForm: func() any { return &CustomerTypeForm{} }, columns: []string{"customer_type"}},
	pharmacyapi.ResourceDrug:               {newForm: func() any { return &DrugForm{} }, columns: []string{"drug_name", "category_id", "item_type", "pack_size", "mrp"}, image: true},
	pharmacyapi.ResourceBrand:              {newForm: func() any { return &BrandForm{} }, columns: []string{"brand_name"}, image: true},
}

// encodeForm turns a catalog form into multipart fields. Nil pointers and
// unset optional ids are left out.
func encodeForm(v any) (*pharmacyapi.Form, error) {
	values, err := formEncoder.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("encode catalog form: %w", err)
	}
	for _, vs := range values {
		for i := range vs {
			vs[i] = strings.TrimSpace(vs[i])
		}
	}
	return pharmacyapi.NewForm().SetValues(values), nil
}
