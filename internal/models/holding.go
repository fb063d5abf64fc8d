package models

import "time"

// AssetCategory classifies a holding.
type AssetCategory string

const (
	AssetCategoryStock      AssetCategory = "stock"
	AssetCategoryETF        AssetCategory = "etf"
	AssetCategoryCrypto     AssetCategory = "crypto"
	AssetCategoryOption     AssetCategory = "option"
	AssetCategoryMutualFund AssetCategory = "mutual_fund"
	AssetCategoryCash       AssetCategory = "cash"
	AssetCategoryOther      AssetCategory = "other"
)

// AssetCategories lists every valid category.
var AssetCategories = []AssetCategory{
	AssetCategoryStock,
	AssetCategoryETF,
	AssetCategoryCrypto,
	AssetCategoryOption,
	AssetCategoryMutualFund,
	AssetCategoryCash,
	AssetCategoryOther,
}

// IsValid reports whether c is one of the known categories.
func (c AssetCategory) IsValid() bool {
	for _, known := range AssetCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Holding is a user's recorded position in a single asset.
//
// OwnerID and CreatedAt are written once on insert. Timestamps are managed by
// the repository, not by GORM, so that updated_at ordering can be enforced.
type Holding struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	OwnerID     string        `gorm:"type:uuid;not null;index" json:"owner_id"`
	Symbol      string        `gorm:"size:10;not null;index;check:chk_holdings_symbol,symbol <> ''" json:"symbol"`
	DisplayName *string       `gorm:"size:100" json:"display_name"`
	Quantity    float64       `gorm:"not null;check:chk_holdings_quantity,quantity > 0" json:"quantity"`
	UnitCost    float64       `gorm:"not null;check:chk_holdings_unit_cost,unit_cost > 0" json:"unit_cost"`
	AcquiredAt  time.Time     `gorm:"not null" json:"acquired_at"`
	Category    AssetCategory `gorm:"size:20;not null;default:'stock';check:chk_holdings_category,category IN ('stock','etf','crypto','option','mutual_fund','cash','other')" json:"category"`
	Notes       *string       `gorm:"size:255" json:"notes"`
	CreatedAt   time.Time     `gorm:"not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null;autoUpdateTime:false" json:"updated_at"`
}
