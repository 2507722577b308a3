package service

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/wirehaus/wirehaus/internal/procurement/entity"
)

// 批量建单的失败原因，作为接口返回值保持稳定文案
const (
	FailReasonNoSupplier     = "No supplier assigned"
	FailReasonUnresolvedName = "Could not create or match supplier"
)

// poGroupBuilder 单组建单能力，便于用桩验证隔离失败
type poGroupBuilder interface {
	Create(ctx context.Context, req *BuildPORequest) (*POBuildResult, error)
}

// supplierAutoCreator 按原始名建档能力
type supplierAutoCreator interface {
	CreateFromName(ctx context.Context, rawName, userID string) (*entity.Supplier, error)
}

// equipmentGrouper 设备分组能力
type equipmentGrouper interface {
	GroupForPO(ctx context.Context, projectID, stage string) (*GroupingResult, error)
}

// BulkService 批量建单编排，一组失败不影响其余组
type BulkService struct {
	grouping  equipmentGrouper
	builder   poGroupBuilder
	suppliers supplierAutoCreator
}

func NewBulkService(grouping equipmentGrouper, builder poGroupBuilder, suppliers supplierAutoCreator) *BulkService {
	return &BulkService{grouping: grouping, builder: builder, suppliers: suppliers}
}

// BulkCreatedPO 成功建单的组
type BulkCreatedPO struct {
	Vendor    string                `json:"vendor"`
	PO        *entity.PurchaseOrder `json:"po"`
	ItemCount int                   `json:"item_count"`
	Total     float64               `json:"total"`
}

// BulkFailedGroup 建单失败的组
type BulkFailedGroup struct {
	Vendor    string `json:"vendor"`
	Reason    string `json:"reason"`
	ItemCount int    `json:"item_count"`
}

// BulkStats 批量结果统计
type BulkStats struct {
	TotalGroups      int     `json:"total_groups"`
	POsCreated       int     `json:"pos_created"`
	GroupsFailed     int     `json:"groups_failed"`
	SuppliersCreated int     `json:"suppliers_created"`
	TotalAmount      float64 `json:"total_amount"`
}

// BulkResult 批量建单结果
type BulkResult struct {
	Created          []BulkCreatedPO   `json:"created"`
	Failed           []BulkFailedGroup `json:"failed"`
	SuppliersCreated []entity.Supplier `json:"suppliers_created"`
	Stats            BulkStats         `json:"stats"`
}

// GenerateBulkPOs 为项目某阶段的全部供应商组批量建草稿PO。
// 按组名字典序处理保证结果可复现；无档案的组先自动建档再建单；
// 单组出错记入失败列表并继续，不整体回滚。
func (s *BulkService) GenerateBulkPOs(ctx context.Context, projectID, stage, createdBy string) (*BulkResult, error) {
	grouped, err := s.grouping.GroupForPO(ctx, projectID, stage)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(grouped.Groups))
	for key := range grouped.Groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := &BulkResult{
		Created:          []BulkCreatedPO{},
		Failed:           []BulkFailedGroup{},
		SuppliersCreated: []entity.Supplier{},
	}
	result.Stats.TotalGroups = len(keys)

	for _, key := range keys {
		group := grouped.Groups[key]

		if key == UnassignedGroupKey {
			result.Failed = append(result.Failed, BulkFailedGroup{
				Vendor:    key,
				Reason:    FailReasonNoSupplier,
				ItemCount: len(group.Equipment),
			})
			continue
		}

		supplier := group.ResolvedSupplier
		if supplier == nil && group.MatchStatus == MatchStatusNeedsCreation {
			created, err := s.suppliers.CreateFromName(ctx, group.CSVName, createdBy)
			if err != nil {
				log.Printf("[BULK] auto-create supplier %q failed: %v", group.CSVName, err)
			} else {
				supplier = created
				result.SuppliersCreated = append(result.SuppliersCreated, *created)
			}
		}
		if supplier == nil {
			result.Failed = append(result.Failed, BulkFailedGroup{
				Vendor:    key,
				Reason:    FailReasonUnresolvedName,
				ItemCount: len(group.Equipment),
			})
			continue
		}

		ids := make([]string, 0, len(group.Equipment))
		for _, line := range group.Equipment {
			ids = append(ids, line.ID)
		}

		built, err := s.builder.Create(ctx, &BuildPORequest{
			ProjectID:      projectID,
			SupplierID:     supplier.ID,
			MilestoneStage: stage,
			EquipmentIDs:   ids,
			CreatedBy:      createdBy,
		})
		if err != nil {
			log.Printf("[BULK] build PO for %q failed: %v", key, err)
			result.Failed = append(result.Failed, BulkFailedGroup{
				Vendor:    key,
				Reason:    err.Error(),
				ItemCount: len(group.Equipment),
			})
			continue
		}

		result.Created = append(result.Created, BulkCreatedPO{
			Vendor:    key,
			PO:        built.PO,
			ItemCount: len(built.Items),
			Total:     built.PO.TotalAmount,
		})
		result.Stats.TotalAmount += built.PO.TotalAmount
	}

	result.Stats.POsCreated = len(result.Created)
	result.Stats.GroupsFailed = len(result.Failed)
	result.Stats.SuppliersCreated = len(result.SuppliersCreated)
	return result, nil
}

// BulkPreviewGroup 预览里的一个供应商组
type BulkPreviewGroup struct {
	Vendor      string              `json:"vendor"`
	MatchStatus string              `json:"match_status"`
	Supplier    *entity.Supplier    `json:"supplier,omitempty"`
	Confidence  float64             `json:"confidence,omitempty"`
	Suggestions []SupplierCandidate `json:"suggestions,omitempty"`
	ItemCount   int                 `json:"item_count"`
	TotalCost   float64             `json:"total_cost"`
}

// BulkPreview 批量建单预览，不落库
type BulkPreview struct {
	Groups   []BulkPreviewGroup `json:"groups"`
	Warnings []string           `json:"warnings"`
	Stats    GroupStats         `json:"stats"`
}

// GenerateBulkPOPreview 只分组和匹配，给出将要发生什么的预览，无任何写入
func (s *BulkService) GenerateBulkPOPreview(ctx context.Context, projectID, stage string) (*BulkPreview, error) {
	grouped, err := s.grouping.GroupForPO(ctx, projectID, stage)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(grouped.Groups))
	for key := range grouped.Groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	preview := &BulkPreview{
		Groups:   []BulkPreviewGroup{},
		Warnings: []string{},
		Stats:    grouped.Stats,
	}

	for _, key := range keys {
		group := grouped.Groups[key]
		pg := BulkPreviewGroup{
			Vendor:      key,
			MatchStatus: group.MatchStatus,
			Supplier:    group.ResolvedSupplier,
			Confidence:  group.MatchConfidence,
			Suggestions: group.Suggestions,
			ItemCount:   len(group.Equipment),
			TotalCost:   group.TotalCost,
		}
		preview.Groups = append(preview.Groups, pg)

		switch {
		case key == UnassignedGroupKey:
			preview.Warnings = append(preview.Warnings,
				fmt.Sprintf("%d equipment lines have no supplier and will be skipped", len(group.Equipment)))
		case group.MatchStatus == MatchStatusNeedsCreation:
			preview.Warnings = append(preview.Warnings,
				fmt.Sprintf("supplier %q will be auto-created", key))
		case group.MatchStatus == MatchStatusNeedsReview:
			preview.Warnings = append(preview.Warnings,
				fmt.Sprintf("supplier %q matched with low confidence (%.2f), group will fail without review", key, group.MatchConfidence))
		}
	}

	return preview, nil
}
