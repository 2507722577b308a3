package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wirehaus/wirehaus/internal/procurement/entity"
	"github.com/wirehaus/wirehaus/internal/procurement/repository"
)

// DeliveryLeadDays 期望到货日提前里程碑目标日的天数
const DeliveryLeadDays = 14

var (
	// ErrPolicyViolation 业务规则不允许的操作（如删除非草稿PO）
	ErrPolicyViolation = errors.New("operation not allowed by policy")
	// ErrIllegalTransition 非法状态流转
	ErrIllegalTransition = errors.New("illegal status transition")
)

// POService 采购订单服务
type POService struct {
	poRepo        *repository.PORepository
	projectRepo   *repository.ProjectRepository
	equipmentRepo *repository.EquipmentRepository
	supplierRepo  *repository.SupplierRepository
}

func NewPOService(
	poRepo *repository.PORepository,
	projectRepo *repository.ProjectRepository,
	equipmentRepo *repository.EquipmentRepository,
	supplierRepo *repository.SupplierRepository,
) *POService {
	return &POService{
		poRepo:        poRepo,
		projectRepo:   projectRepo,
		equipmentRepo: equipmentRepo,
		supplierRepo:  supplierRepo,
	}
}

// BuildPORequest 建单请求
type BuildPORequest struct {
	ProjectID      string   `json:"project_id" binding:"required"`
	SupplierID     string   `json:"supplier_id" binding:"required"`
	MilestoneStage string   `json:"milestone_stage" binding:"required"`
	EquipmentIDs   []string `json:"equipment_ids" binding:"required"`
	CreatedBy      string   `json:"-"`
	Notes          string   `json:"notes"`
}

// POTotals 金额拆分，运费行从小计中剥离
type POTotals struct {
	Subtotal     float64 `json:"subtotal"`
	ShippingCost float64 `json:"shipping_cost"`
	TotalAmount  float64 `json:"total_amount"`
}

// POBuildResult 建单结果，统计按落库的行项重新计算
type POBuildResult struct {
	PO    *entity.PurchaseOrder      `json:"po"`
	Items []entity.PurchaseOrderItem `json:"items"`
	Stats POTotals                   `json:"stats"`
}

// List 查询PO列表
func (s *POService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PurchaseOrder, int64, error) {
	return s.poRepo.FindAll(ctx, page, pageSize, filters)
}

// Get 查询PO详情
func (s *POService) Get(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return s.poRepo.FindByID(ctx, id)
}

// Create 为一个供应商的一批设备行建草稿PO。
// 行项、金额和订单一个事务落库，失败不留半截数据。
func (s *POService) Create(ctx context.Context, req *BuildPORequest) (*POBuildResult, error) {
	if req.ProjectID == "" || req.SupplierID == "" {
		return nil, fmt.Errorf("project id and supplier id are required")
	}
	if !entity.ValidMilestoneStage(req.MilestoneStage) {
		return nil, fmt.Errorf("invalid milestone stage: %s", req.MilestoneStage)
	}
	if len(req.EquipmentIDs) == 0 {
		return nil, fmt.Errorf("equipment ids are required")
	}

	supplier, err := s.supplierRepo.FindByID(ctx, req.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("load supplier: %w", err)
	}
	project, err := s.projectRepo.FindByID(ctx, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}

	lines, err := s.equipmentRepo.FindByIDs(ctx, req.EquipmentIDs)
	if err != nil {
		return nil, fmt.Errorf("load equipment: %w", err)
	}
	if len(lines) != len(req.EquipmentIDs) {
		return nil, fmt.Errorf("equipment lines not found: expected %d, got %d", len(req.EquipmentIDs), len(lines))
	}
	lines = reorderLines(lines, req.EquipmentIDs)

	poNumber, err := s.poRepo.GeneratePONumber(ctx, supplier.ShortCode, project.Code)
	if err != nil {
		return nil, fmt.Errorf("generate po number: %w", err)
	}

	totals := ComputeTotals(lines)
	deliveryDate := s.resolveDeliveryDate(ctx, req.ProjectID, req.MilestoneStage, poNumber)

	po := &entity.PurchaseOrder{
		ID:                    uuid.New().String()[:32],
		PONumber:              poNumber,
		ProjectID:             req.ProjectID,
		SupplierID:            req.SupplierID,
		MilestoneStage:        req.MilestoneStage,
		Status:                entity.POStatusDraft,
		OrderDate:             time.Now(),
		RequestedDeliveryDate: deliveryDate,
		Subtotal:              totals.Subtotal,
		ShippingCost:          totals.ShippingCost,
		TotalAmount:           totals.TotalAmount,
		CreatedBy:             req.CreatedBy,
		Notes:                 req.Notes,
	}

	items := make([]entity.PurchaseOrderItem, 0, len(lines))
	for i, line := range lines {
		items = append(items, entity.PurchaseOrderItem{
			ID:              uuid.New().String()[:32],
			EquipmentLineID: line.ID,
			LineNumber:      i + 1,
			QuantityOrdered: line.OrderQuantity(),
			UnitCost:        line.EffectiveUnitCost(),
			Notes:           line.Description,
		})
	}

	if err := s.poRepo.CreateWithItems(ctx, po, items); err != nil {
		return nil, fmt.Errorf("create purchase order: %w", err)
	}

	// 统计按落库行项重算，作为与行项一致性的交叉校验
	persisted, err := s.poRepo.FindItems(ctx, po.ID)
	if err != nil {
		return nil, fmt.Errorf("load created items: %w", err)
	}
	var itemTotal float64
	for _, it := range persisted {
		itemTotal += it.QuantityOrdered * it.UnitCost
	}

	return &POBuildResult{
		PO:    po,
		Items: persisted,
		Stats: POTotals{
			Subtotal:     itemTotal - totals.ShippingCost,
			ShippingCost: totals.ShippingCost,
			TotalAmount:  itemTotal,
		},
	}, nil
}

// UpdatePORequest 草稿阶段可改的字段，税额人工录入
type UpdatePORequest struct {
	TaxAmount *float64 `json:"tax_amount"`
	Notes     *string  `json:"notes"`
}

// Update 更新草稿PO的税额和备注，总额随之重算
func (s *POService) Update(ctx context.Context, id string, req *UpdatePORequest) (*entity.PurchaseOrder, error) {
	po, err := s.poRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po.Status != entity.POStatusDraft {
		return nil, fmt.Errorf("%w: only draft orders can be edited", ErrPolicyViolation)
	}

	if req.TaxAmount != nil {
		po.TaxAmount = *req.TaxAmount
	}
	if req.Notes != nil {
		po.Notes = *req.Notes
	}
	po.TotalAmount = po.Subtotal + po.TaxAmount + po.ShippingCost

	if err := s.poRepo.Update(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

// Submit 提交PO
func (s *POService) Submit(ctx context.Context, id, userID string) (*entity.PurchaseOrder, error) {
	return s.transition(ctx, id, entity.POStatusSubmitted, func(po *entity.PurchaseOrder) {
		now := time.Now()
		po.SubmittedBy = &userID
		po.SubmittedDate = &now
	})
}

// Receive 收货确认
func (s *POService) Receive(ctx context.Context, id, userID string) (*entity.PurchaseOrder, error) {
	return s.transition(ctx, id, entity.POStatusReceived, func(po *entity.PurchaseOrder) {
		now := time.Now()
		po.ReceivedBy = &userID
		po.ReceivedDate = &now
	})
}

// Cancel 取消PO，draft和submitted均可取消
func (s *POService) Cancel(ctx context.Context, id, userID string) (*entity.PurchaseOrder, error) {
	return s.transition(ctx, id, entity.POStatusCancelled, nil)
}

// Delete 删除PO，仅限草稿，已流转的订单只能取消
func (s *POService) Delete(ctx context.Context, id string) error {
	po, err := s.poRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if po.Status != entity.POStatusDraft {
		return fmt.Errorf("%w: only draft orders can be deleted", ErrPolicyViolation)
	}
	return s.poRepo.Delete(ctx, id)
}

func (s *POService) transition(ctx context.Context, id, target string, stamp func(*entity.PurchaseOrder)) (*entity.PurchaseOrder, error) {
	po, err := s.poRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entity.CanTransition(po.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, po.Status, target)
	}
	po.Status = target
	if stamp != nil {
		stamp(po)
	}
	if err := s.poRepo.Update(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

// resolveDeliveryDate 期望到货日 = 里程碑目标日 - 提前期。
// 项目未配置该阶段里程碑或目标日为空时记日志并留空，不阻断建单。
func (s *POService) resolveDeliveryDate(ctx context.Context, projectID, stage, poNumber string) *time.Time {
	milestone, err := s.projectRepo.FindMilestone(ctx, projectID, stage)
	if err != nil {
		log.Printf("[PO] no %s milestone for project %s, delivery date left empty for %s", stage, projectID, poNumber)
		return nil
	}
	if milestone.TargetDate == nil {
		log.Printf("[PO] milestone %s of project %s has no target date, delivery date left empty for %s", stage, projectID, poNumber)
		return nil
	}
	d := milestone.TargetDate.AddDate(0, 0, -DeliveryLeadDays)
	return &d
}

// ComputeTotals 纯函数：行金额合计并剥离运费。
// 描述或型号里含ship字样的行按运费计，多条运费行累加，
// 小计为剔除运费后的货值，总额为两者之和。
func ComputeTotals(lines []entity.EquipmentLine) POTotals {
	var total, shipping float64
	for _, line := range lines {
		amount := line.OrderQuantity() * line.EffectiveUnitCost()
		total += amount
		if IsShippingLine(&line) {
			shipping += amount
		}
	}
	return POTotals{
		Subtotal:     total - shipping,
		ShippingCost: shipping,
		TotalAmount:  total,
	}
}

// IsShippingLine 判断设备行是否为运费行，大小写不敏感
func IsShippingLine(line *entity.EquipmentLine) bool {
	return strings.Contains(strings.ToLower(line.Description), "ship") ||
		strings.Contains(strings.ToLower(line.PartNumber), "ship")
}

// reorderLines 按请求的ID顺序重排查询结果，保证行号稳定
func reorderLines(lines []entity.EquipmentLine, ids []string) []entity.EquipmentLine {
	byID := make(map[string]entity.EquipmentLine, len(lines))
	for _, line := range lines {
		byID[line.ID] = line
	}
	ordered := make([]entity.EquipmentLine, 0, len(ids))
	for _, id := range ids {
		if line, ok := byID[id]; ok {
			ordered = append(ordered, line)
		}
	}
	return ordered
}
