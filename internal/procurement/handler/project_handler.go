package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/wirehaus/wirehaus/internal/procurement/repository"
	"github.com/wirehaus/wirehaus/internal/procurement/service"
)

// ProjectHandler 项目与设备清单处理器
type ProjectHandler struct {
	svc *service.ProjectService
}

func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// ListProjects 项目列表
// GET /api/v1/projects?search=xxx&status=active
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search": c.Query("search"),
		"status": c.Query("status"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取项目列表失败: "+err.Error())
		return
	}

	Success(c, ListResponse{
		Items: items,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: listPages(total, pageSize),
		},
	})
}

// GetProject 项目详情（含里程碑）
// GET /api/v1/projects/:id
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id := c.Param("id")
	project, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		NotFound(c, "项目不存在")
		return
	}
	Success(c, project)
}

// CreateProject 创建项目
// POST /api/v1/projects
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req service.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	project, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		InternalError(c, "创建项目失败: "+err.Error())
		return
	}
	Created(c, project)
}

// SetMilestone 配置里程碑
// PUT /api/v1/projects/:id/milestones
func (h *ProjectHandler) SetMilestone(c *gin.Context) {
	projectID := c.Param("id")
	var req service.SetMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	milestone, err := h.svc.SetMilestone(c.Request.Context(), projectID, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "项目不存在")
			return
		}
		BadRequest(c, "保存里程碑失败: "+err.Error())
		return
	}
	Success(c, milestone)
}

// ListEquipment 项目设备清单
// GET /api/v1/projects/:id/equipment
func (h *ProjectHandler) ListEquipment(c *gin.Context) {
	projectID := c.Param("id")
	items, err := h.svc.ListEquipment(c.Request.Context(), projectID)
	if err != nil {
		InternalError(c, "获取设备清单失败: "+err.Error())
		return
	}
	Success(c, gin.H{"items": items})
}

// AddEquipment 添加设备行
// POST /api/v1/projects/:id/equipment
func (h *ProjectHandler) AddEquipment(c *gin.Context) {
	projectID := c.Param("id")
	var req service.CreateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	line, err := h.svc.AddEquipment(c.Request.Context(), projectID, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "项目不存在")
			return
		}
		InternalError(c, "添加设备行失败: "+err.Error())
		return
	}
	Created(c, line)
}

// DeleteEquipment 删除设备行
// DELETE /api/v1/equipment/:id
func (h *ProjectHandler) DeleteEquipment(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.DeleteEquipment(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "设备行不存在")
			return
		}
		InternalError(c, "删除设备行失败: "+err.Error())
		return
	}
	Success(c, nil)
}
