package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/wirehaus/wirehaus/internal/procurement/service"
)

// GenerationHandler 批量建单与分组预览处理器
type GenerationHandler struct {
	grouping *service.GroupingService
	bulk     *service.BulkService
	matcher  *service.MatcherService
}

func NewGenerationHandler(grouping *service.GroupingService, bulk *service.BulkService, matcher *service.MatcherService) *GenerationHandler {
	return &GenerationHandler{grouping: grouping, bulk: bulk, matcher: matcher}
}

// GroupEquipment 按供应商分组项目设备并匹配档案
// GET /api/v1/projects/:id/equipment-groups?stage=prewire_prep
func (h *GenerationHandler) GroupEquipment(c *gin.Context) {
	projectID := c.Param("id")
	stage := c.Query("stage")

	result, err := h.grouping.GroupForPO(c.Request.Context(), projectID, stage)
	if err != nil {
		BadRequest(c, "设备分组失败: "+err.Error())
		return
	}
	Success(c, result)
}

// BatchMatchRequest 批量名称匹配请求
type BatchMatchRequest struct {
	Names []string `json:"names" binding:"required"`
}

// MatchSuppliers 批量匹配原始供应商名到档案
// POST /api/v1/suppliers/match
func (h *GenerationHandler) MatchSuppliers(c *gin.Context) {
	var req BatchMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	result, err := h.matcher.BatchMatch(c.Request.Context(), req.Names, service.DefaultMatchThreshold)
	if err != nil {
		InternalError(c, "匹配失败: "+err.Error())
		return
	}
	Success(c, result)
}

// BulkGenerateRequest 批量建单请求
type BulkGenerateRequest struct {
	MilestoneStage string `json:"milestone_stage" binding:"required"`
}

// BulkGenerate 为项目某阶段批量生成草稿PO
// POST /api/v1/projects/:id/pos/bulk
func (h *GenerationHandler) BulkGenerate(c *gin.Context) {
	projectID := c.Param("id")
	var req BulkGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	result, err := h.bulk.GenerateBulkPOs(c.Request.Context(), projectID, req.MilestoneStage, GetUserID(c))
	if err != nil {
		BadRequest(c, "批量建单失败: "+err.Error())
		return
	}
	Created(c, result)
}

// BulkPreview 批量建单预览，不写库
// GET /api/v1/projects/:id/pos/bulk-preview?stage=trim_prep
func (h *GenerationHandler) BulkPreview(c *gin.Context) {
	projectID := c.Param("id")
	stage := c.Query("stage")

	preview, err := h.bulk.GenerateBulkPOPreview(c.Request.Context(), projectID, stage)
	if err != nil {
		BadRequest(c, "预览失败: "+err.Error())
		return
	}
	Success(c, preview)
}
