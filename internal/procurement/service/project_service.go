package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wirehaus/wirehaus/internal/procurement/entity"
	"github.com/wirehaus/wirehaus/internal/procurement/repository"
)

// ProjectService 项目与设备清单服务
type ProjectService struct {
	projectRepo   *repository.ProjectRepository
	equipmentRepo *repository.EquipmentRepository
}

func NewProjectService(projectRepo *repository.ProjectRepository, equipmentRepo *repository.EquipmentRepository) *ProjectService {
	return &ProjectService{projectRepo: projectRepo, equipmentRepo: equipmentRepo}
}

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Name       string `json:"name" binding:"required"`
	Code       string `json:"code" binding:"required"`
	ClientName string `json:"client_name"`
	Address    string `json:"address"`
}

func (s *ProjectService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Project, int64, error) {
	return s.projectRepo.FindAll(ctx, page, pageSize, filters)
}

func (s *ProjectService) Get(ctx context.Context, id string) (*entity.Project, error) {
	return s.projectRepo.FindByID(ctx, id)
}

func (s *ProjectService) Create(ctx context.Context, userID string, req *CreateProjectRequest) (*entity.Project, error) {
	project := &entity.Project{
		ID:         uuid.New().String()[:32],
		Name:       req.Name,
		Code:       req.Code,
		ClientName: req.ClientName,
		Address:    req.Address,
		Status:     entity.ProjectStatusActive,
		CreatedBy:  userID,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return project, nil
}

// SetMilestoneRequest 配置里程碑请求
type SetMilestoneRequest struct {
	Stage      string     `json:"stage" binding:"required"`
	TargetDate *time.Time `json:"target_date"`
	ActualDate *time.Time `json:"actual_date"`
	Notes      string     `json:"notes"`
}

// SetMilestone 配置项目某阶段的里程碑，已存在则覆盖
func (s *ProjectService) SetMilestone(ctx context.Context, projectID string, req *SetMilestoneRequest) (*entity.ProjectMilestone, error) {
	if !entity.ValidMilestoneStage(req.Stage) {
		return nil, fmt.Errorf("invalid milestone stage: %s", req.Stage)
	}
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return nil, err
	}
	milestone := &entity.ProjectMilestone{
		ID:         uuid.New().String()[:32],
		ProjectID:  projectID,
		Stage:      req.Stage,
		TargetDate: req.TargetDate,
		ActualDate: req.ActualDate,
		Notes:      req.Notes,
	}
	if err := s.projectRepo.UpsertMilestone(ctx, milestone); err != nil {
		return nil, fmt.Errorf("save milestone: %w", err)
	}
	return s.projectRepo.FindMilestone(ctx, projectID, req.Stage)
}

// CreateEquipmentRequest 添加设备行请求，供应商名是自由文本
type CreateEquipmentRequest struct {
	GlobalPartID    *string  `json:"global_part_id"`
	SupplierName    string   `json:"supplier_name"`
	Description     string   `json:"description"`
	PartNumber      string   `json:"part_number"`
	Room            string   `json:"room"`
	PlannedQuantity *float64 `json:"planned_quantity"`
	Quantity        *float64 `json:"quantity"`
	UnitCost        *float64 `json:"unit_cost"`
	Notes           string   `json:"notes"`
}

func (s *ProjectService) ListEquipment(ctx context.Context, projectID string) ([]entity.EquipmentLine, error) {
	return s.equipmentRepo.FindByProject(ctx, projectID)
}

func (s *ProjectService) AddEquipment(ctx context.Context, projectID string, req *CreateEquipmentRequest) (*entity.EquipmentLine, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		return nil, err
	}
	line := &entity.EquipmentLine{
		ID:              uuid.New().String()[:32],
		ProjectID:       projectID,
		GlobalPartID:    req.GlobalPartID,
		SupplierName:    req.SupplierName,
		Description:     req.Description,
		PartNumber:      req.PartNumber,
		Room:            req.Room,
		PlannedQuantity: req.PlannedQuantity,
		Quantity:        req.Quantity,
		UnitCost:        req.UnitCost,
		Notes:           req.Notes,
	}
	if err := s.equipmentRepo.Create(ctx, line); err != nil {
		return nil, fmt.Errorf("create equipment line: %w", err)
	}
	return line, nil
}

func (s *ProjectService) DeleteEquipment(ctx context.Context, id string) error {
	if _, err := s.equipmentRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.equipmentRepo.Delete(ctx, id)
}
