package entity

import "time"

// PurchaseOrder 采购订单
type PurchaseOrder struct {
	ID         string `json:"id" gorm:"primaryKey;size:32"`
	PONumber   string `json:"po_number" gorm:"size:64;uniqueIndex;not null"`
	ProjectID  string `json:"project_id" gorm:"size:32;not null;index"`
	SupplierID string `json:"supplier_id" gorm:"size:32;not null;index"`

	MilestoneStage string `json:"milestone_stage" gorm:"size:20;not null"`     // prewire_prep/trim_prep
	Status         string `json:"status" gorm:"size:20;default:draft"`         // draft/submitted/received/cancelled

	OrderDate             time.Time  `json:"order_date"`
	RequestedDeliveryDate *time.Time `json:"requested_delivery_date"`

	// 金额
	Subtotal     float64 `json:"subtotal" gorm:"type:decimal(15,2);default:0"`
	TaxAmount    float64 `json:"tax_amount" gorm:"type:decimal(15,2);default:0"` // 仅人工录入
	ShippingCost float64 `json:"shipping_cost" gorm:"type:decimal(15,2);default:0"`
	TotalAmount  float64 `json:"total_amount" gorm:"type:decimal(15,2);default:0"`

	// 流转记录
	SubmittedBy   *string    `json:"submitted_by" gorm:"size:32"`
	SubmittedDate *time.Time `json:"submitted_date"`
	ReceivedBy    *string    `json:"received_by" gorm:"size:32"`
	ReceivedDate  *time.Time `json:"received_date"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Notes     string    `json:"notes" gorm:"type:text"`

	// 关联
	Items    []PurchaseOrderItem `json:"items,omitempty" gorm:"foreignKey:POID"`
	Supplier *Supplier           `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// PO状态
const (
	POStatusDraft     = "draft"
	POStatusSubmitted = "submitted"
	POStatusReceived  = "received"
	POStatusCancelled = "cancelled"
)

// ValidPOTransitions 合法的PO状态流转，只进不退，cancelled为逃生口
var ValidPOTransitions = map[string][]string{
	POStatusDraft:     {POStatusSubmitted, POStatusCancelled},
	POStatusSubmitted: {POStatusReceived, POStatusCancelled},
	POStatusReceived:  {},
	POStatusCancelled: {},
}

// CanTransition 检查状态流转是否合法
func CanTransition(from, to string) bool {
	for _, s := range ValidPOTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// PurchaseOrderItem PO行项，随父订单一起创建，不单独改动
type PurchaseOrderItem struct {
	ID              string `json:"id" gorm:"primaryKey;size:32"`
	POID            string `json:"po_id" gorm:"size:32;not null;index"`
	EquipmentLineID string `json:"equipment_line_id" gorm:"size:32;not null;index"`

	LineNumber      int     `json:"line_number" gorm:"not null"` // 从1起，按创建顺序
	QuantityOrdered float64 `json:"quantity_ordered" gorm:"type:decimal(10,2);not null"`
	UnitCost        float64 `json:"unit_cost" gorm:"type:decimal(12,4);default:0"`

	Notes     string    `json:"notes" gorm:"size:500"`
	CreatedAt time.Time `json:"created_at"`
}

func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}
