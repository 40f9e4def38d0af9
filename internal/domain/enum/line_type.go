package enum

// SaleType says whether a line is sold by the pack or by the loose unit
type SaleType string

const (
	SaleTypePack SaleType = "pack"
	SaleTypeUnit SaleType = "unit"
)

func (t SaleType) IsValid() bool {
	return t == SaleTypePack || t == SaleTypeUnit
}

// ItemType partitions lines for the medical and non-medical subtotals
type ItemType string

const (
	ItemTypeMedical    ItemType = "medical"
	ItemTypeNonMedical ItemType = "non-medical"
)

func (t ItemType) IsMedical() bool {
	return t == ItemTypeMedical
}
