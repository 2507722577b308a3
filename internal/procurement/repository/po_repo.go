package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/wirehaus/wirehaus/internal/procurement/entity"
	"gorm.io/gorm"
)

// PORepository 采购订单仓库
type PORepository struct {
	db *gorm.DB
}

func NewPORepository(db *gorm.DB) *PORepository {
	return &PORepository{db: db}
}

// FindAll 查询采购订单列表
func (r *PORepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PurchaseOrder, int64, error) {
	var items []entity.PurchaseOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.PurchaseOrder{})

	if projectID := filters["project_id"]; projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if supplierID := filters["supplier_id"]; supplierID != "" {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if stage := filters["milestone_stage"]; stage != "" {
		query = query.Where("milestone_stage = ?", stage)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("po_number ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Supplier").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找采购订单（含行项，按行号排序）
func (r *PORepository) FindByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_number ASC")
		}).
		Where("id = ?", id).
		First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &po, nil
}

// CreateWithItems 在一个事务里创建订单及全部行项，
// 任一步失败整体回滚，不留孤儿数据
func (r *PORepository) CreateWithItems(ctx context.Context, po *entity.PurchaseOrder, items []entity.PurchaseOrderItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(po).Error; err != nil {
			return fmt.Errorf("create po: %w", err)
		}
		for i := range items {
			items[i].POID = po.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return fmt.Errorf("create po items: %w", err)
			}
		}
		return nil
	})
}

// Update 更新采购订单
func (r *PORepository) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	return r.db.WithContext(ctx).Save(po).Error
}

// Delete 删除采购订单及行项
func (r *PORepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("po_id = ?", id).Delete(&entity.PurchaseOrderItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.PurchaseOrder{}).Error
	})
}

// FindItems 查询订单行项
func (r *PORepository) FindItems(ctx context.Context, poID string) ([]entity.PurchaseOrderItem, error) {
	var items []entity.PurchaseOrderItem
	err := r.db.WithContext(ctx).
		Where("po_id = ?", poID).
		Order("line_number ASC").
		Find(&items).Error
	return items, err
}

// GeneratePONumber 生成PO编号 {供应商短码}-{项目编码}-{3位序号}，
// 同一供应商同一项目内递增，po_number唯一索引兜底
func (r *PORepository) GeneratePONumber(ctx context.Context, shortCode, projectCode string) (string, error) {
	prefix := fmt.Sprintf("%s-%s-", shortCode, projectCode)

	var maxNumber string
	err := r.db.WithContext(ctx).
		Model(&entity.PurchaseOrder{}).
		Select("COALESCE(MAX(po_number), '')").
		Where("po_number LIKE ?", prefix+"%").
		Scan(&maxNumber).Error
	if err != nil {
		return "", err
	}

	var seq int
	if maxNumber != "" {
		fmt.Sscanf(maxNumber[len(prefix):], "%03d", &seq)
	}
	seq++
	return fmt.Sprintf("%s%03d", prefix, seq), nil
}
