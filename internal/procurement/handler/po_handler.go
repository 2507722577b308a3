package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/wirehaus/wirehaus/internal/procurement/entity"
	"github.com/wirehaus/wirehaus/internal/procurement/repository"
	"github.com/wirehaus/wirehaus/internal/procurement/service"
)

// POHandler 采购订单处理器
type POHandler struct {
	svc    *service.POService
	export *service.ExportService
}

func NewPOHandler(svc *service.POService, export *service.ExportService) *POHandler {
	return &POHandler{svc: svc, export: export}
}

// ListPOs PO列表
// GET /api/v1/pos?project_id=xxx&supplier_id=xxx&milestone_stage=xxx&status=xxx&search=xxx
func (h *POHandler) ListPOs(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"project_id":      c.Query("project_id"),
		"supplier_id":     c.Query("supplier_id"),
		"milestone_stage": c.Query("milestone_stage"),
		"status":          c.Query("status"),
		"search":          c.Query("search"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "获取采购单列表失败: "+err.Error())
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

// GetPO PO详情（含行项和供应商）
// GET /api/v1/pos/:id
func (h *POHandler) GetPO(c *gin.Context) {
	id := c.Param("id")
	po, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		NotFound(c, "采购单不存在")
		return
	}
	Success(c, po)
}

// CreatePO 为一个供应商建单
// POST /api/v1/pos
func (h *POHandler) CreatePO(c *gin.Context) {
	var req service.BuildPORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	req.CreatedBy = GetUserID(c)

	result, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, err.Error())
			return
		}
		BadRequest(c, "创建采购单失败: "+err.Error())
		return
	}

	Created(c, result)
}

// UpdatePO 更新草稿PO（税额、备注）
// PUT /api/v1/pos/:id
func (h *POHandler) UpdatePO(c *gin.Context) {
	id := c.Param("id")
	var req service.UpdatePORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	po, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondPOError(c, err, "更新采购单失败")
		return
	}
	Success(c, po)
}

// SubmitPO 提交PO
// POST /api/v1/pos/:id/submit
func (h *POHandler) SubmitPO(c *gin.Context) {
	h.transition(c, h.svc.Submit)
}

// ReceivePO 收货确认
// POST /api/v1/pos/:id/receive
func (h *POHandler) ReceivePO(c *gin.Context) {
	h.transition(c, h.svc.Receive)
}

// CancelPO 取消PO
// POST /api/v1/pos/:id/cancel
func (h *POHandler) CancelPO(c *gin.Context) {
	h.transition(c, h.svc.Cancel)
}

// DeletePO 删除草稿PO
// DELETE /api/v1/pos/:id
func (h *POHandler) DeletePO(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondPOError(c, err, "删除采购单失败")
		return
	}
	Success(c, nil)
}

// ExportPO 导出PO
// GET /api/v1/pos/:id/export?format=csv|xlsx
func (h *POHandler) ExportPO(c *gin.Context) {
	id := c.Param("id")
	format := c.DefaultQuery("format", "csv")

	switch format {
	case "csv":
		data, filename, err := h.export.RenderCSV(c.Request.Context(), id)
		if err != nil {
			respondPOError(c, err, "导出失败")
			return
		}
		c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
		c.Data(200, "text/csv", data)
	case "xlsx":
		f, filename, err := h.export.RenderXLSX(c.Request.Context(), id)
		if err != nil {
			respondPOError(c, err, "导出失败")
			return
		}
		defer f.Close()

		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
		c.Header("Content-Transfer-Encoding", "binary")

		if err := f.Write(c.Writer); err != nil {
			InternalError(c, "write excel: "+err.Error())
		}
	default:
		BadRequest(c, "不支持的导出格式: "+format)
	}
}

// ArchivePO 归档PO快照到对象存储
// POST /api/v1/pos/:id/archive
func (h *POHandler) ArchivePO(c *gin.Context) {
	id := c.Param("id")
	objectName, err := h.export.Archive(c.Request.Context(), id)
	if err != nil {
		respondPOError(c, err, "归档失败")
		return
	}
	Success(c, gin.H{"object": objectName})
}

func (h *POHandler) transition(c *gin.Context, fn func(ctx context.Context, id, userID string) (*entity.PurchaseOrder, error)) {
	id := c.Param("id")
	po, err := fn(c.Request.Context(), id, GetUserID(c))
	if err != nil {
		respondPOError(c, err, "状态流转失败")
		return
	}
	Success(c, po)
}

// respondPOError 按错误类别映射HTTP语义
func respondPOError(c *gin.Context, err error, prefix string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, "采购单不存在")
	case errors.Is(err, service.ErrPolicyViolation):
		Forbidden(c, err.Error())
	case errors.Is(err, service.ErrIllegalTransition):
		BadRequest(c, err.Error())
	default:
		InternalError(c, prefix+": "+err.Error())
	}
}
