package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories 采购仓库集合
type Repositories struct {
	Project   *ProjectRepository
	Equipment *EquipmentRepository
	Supplier  *SupplierRepository
	PO        *PORepository
}

// NewRepositories 创建采购仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Project:   NewProjectRepository(db),
		Equipment: NewEquipmentRepository(db),
		Supplier:  NewSupplierRepository(db),
		PO:        NewPORepository(db),
	}
}
