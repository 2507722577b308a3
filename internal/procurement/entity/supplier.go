package entity

import "time"

// Supplier 供应商档案
type Supplier struct {
	ID             string `json:"id" gorm:"primaryKey;size:32"`
	Name           string `json:"name" gorm:"size:200;not null"`
	NormalizedName string `json:"-" gorm:"size:200;uniqueIndex;not null"` // 归一化名称，防止批量生成重复建档
	ShortCode      string `json:"short_code" gorm:"size:10;not null"`     // 大写，用于PO编号

	// 联系信息
	ContactName string `json:"contact_name" gorm:"size:100"`
	Email       string `json:"email" gorm:"size:200"`
	Phone       string `json:"phone" gorm:"size:50"`
	Address     string `json:"address" gorm:"size:500"`
	Website     string `json:"website" gorm:"size:200"`

	// 账务
	AccountNumber string `json:"account_number" gorm:"size:50"`
	PaymentTerms  string `json:"payment_terms" gorm:"size:100"`

	IsActive    bool `json:"is_active" gorm:"default:true"`
	IsPreferred bool `json:"is_preferred" gorm:"default:false"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Notes     string    `json:"notes" gorm:"type:text"`
}

func (Supplier) TableName() string {
	return "suppliers"
}
