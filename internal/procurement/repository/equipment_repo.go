package repository

import (
	"context"
	"errors"

	"github.com/wirehaus/wirehaus/internal/procurement/entity"
	"gorm.io/gorm"
)

// EquipmentRepository 设备行仓库
type EquipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

// FindByProject 查询项目全部设备行（含零件库关联）
func (r *EquipmentRepository) FindByProject(ctx context.Context, projectID string) ([]entity.EquipmentLine, error) {
	var lines []entity.EquipmentLine
	err := r.db.WithContext(ctx).
		Preload("GlobalPart").
		Where("project_id = ?", projectID).
		Order("created_at ASC, id ASC").
		Find(&lines).Error
	return lines, err
}

// FindByIDs 按ID集合查询设备行，调用方自行处理顺序
func (r *EquipmentRepository) FindByIDs(ctx context.Context, ids []string) ([]entity.EquipmentLine, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var lines []entity.EquipmentLine
	err := r.db.WithContext(ctx).
		Preload("GlobalPart").
		Where("id IN ?", ids).
		Find(&lines).Error
	return lines, err
}

// FindByID 查找单条设备行
func (r *EquipmentRepository) FindByID(ctx context.Context, id string) (*entity.EquipmentLine, error) {
	var line entity.EquipmentLine
	err := r.db.WithContext(ctx).
		Preload("GlobalPart").
		Where("id = ?", id).
		First(&line).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &line, nil
}

// Create 创建设备行
func (r *EquipmentRepository) Create(ctx context.Context, line *entity.EquipmentLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

// Update 更新设备行
func (r *EquipmentRepository) Update(ctx context.Context, line *entity.EquipmentLine) error {
	return r.db.WithContext(ctx).Save(line).Error
}

// Delete 删除设备行
func (r *EquipmentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.EquipmentLine{}).Error
}
