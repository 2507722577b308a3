package entity

import "time"

// GlobalPart 全局零件库（产品目录模板）
type GlobalPart struct {
	ID                 string    `json:"id" gorm:"primaryKey;size:32"`
	Name               string    `json:"name" gorm:"size:200;not null"`
	PartNumber         string    `json:"part_number" gorm:"size:100;index"`
	Manufacturer       string    `json:"manufacturer" gorm:"size:100"`
	Category           string    `json:"category" gorm:"size:50"`
	RequiredForPrewire bool      `json:"required_for_prewire" gorm:"default:false"`
	UnitCost           *float64  `json:"unit_cost" gorm:"type:decimal(12,4)"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (GlobalPart) TableName() string {
	return "global_parts"
}

// EquipmentLine 项目设备行，来自方案导入，供应商名为自由文本
type EquipmentLine struct {
	ID           string  `json:"id" gorm:"primaryKey;size:32"`
	ProjectID    string  `json:"project_id" gorm:"size:32;not null;index"`
	GlobalPartID *string `json:"global_part_id" gorm:"size:32;index"`

	SupplierName string `json:"supplier_name" gorm:"size:200"` // 原始文本，不保证与供应商档案一致
	Description  string `json:"description" gorm:"size:500"`
	PartNumber   string `json:"part_number" gorm:"size:100"`
	Room         string `json:"room" gorm:"size:100"`

	// 数量与成本，导入数据可能缺失
	PlannedQuantity *float64 `json:"planned_quantity" gorm:"type:decimal(10,2)"`
	Quantity        *float64 `json:"quantity" gorm:"type:decimal(10,2)"`
	UnitCost        *float64 `json:"unit_cost" gorm:"type:decimal(12,4)"`

	Notes     string    `json:"notes" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	GlobalPart *GlobalPart `json:"global_part,omitempty" gorm:"foreignKey:GlobalPartID"`
}

func (EquipmentLine) TableName() string {
	return "equipment_lines"
}

// EffectiveQuantity 分组统计口径：planned → quantity → 0
func (e *EquipmentLine) EffectiveQuantity() float64 {
	if e.PlannedQuantity != nil {
		return *e.PlannedQuantity
	}
	if e.Quantity != nil {
		return *e.Quantity
	}
	return 0
}

// OrderQuantity 下单口径：planned → quantity → 1，订单行不允许0数量
func (e *EquipmentLine) OrderQuantity() float64 {
	if e.PlannedQuantity != nil {
		return *e.PlannedQuantity
	}
	if e.Quantity != nil {
		return *e.Quantity
	}
	return 1
}

// EffectiveUnitCost 单价，缺失按0
func (e *EquipmentLine) EffectiveUnitCost() float64 {
	if e.UnitCost != nil {
		return *e.UnitCost
	}
	return 0
}
