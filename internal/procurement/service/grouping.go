package service

import (
	"context"
	"fmt"

	"github.com/wirehaus/wirehaus/internal/procurement/entity"
	"github.com/wirehaus/wirehaus/internal/procurement/repository"
)

// UnassignedGroupKey 无供应商文本的设备行归入该组，不参与匹配和建档
const UnassignedGroupKey = "Unassigned"

// VendorGroup 按原始供应商名聚合的设备组，仅在一次分组调用内存在
type VendorGroup struct {
	CSVName          string                 `json:"csv_name"`
	ResolvedSupplier *entity.Supplier       `json:"resolved_supplier,omitempty"`
	MatchConfidence  float64                `json:"match_confidence"`
	MatchStatus      string                 `json:"match_status,omitempty"`
	Suggestions      []SupplierCandidate    `json:"suggestions,omitempty"`
	Equipment        []entity.EquipmentLine `json:"equipment"`
	TotalCost        float64                `json:"total_cost"`
	TotalItems       float64                `json:"total_items"`
}

// GroupStats 分组统计，三类计数等于去掉Unassigned后的组数
type GroupStats struct {
	TotalVendors  int `json:"total_vendors"`
	Matched       int `json:"matched"`
	NeedsReview   int `json:"needs_review"`
	NeedsCreation int `json:"needs_creation"`
}

// GroupingResult 分组结果
type GroupingResult struct {
	Groups map[string]*VendorGroup `json:"groups"`
	Stats  GroupStats              `json:"stats"`
}

// GroupingService 设备分组服务
type GroupingService struct {
	equipmentRepo *repository.EquipmentRepository
	matcher       *MatcherService
}

func NewGroupingService(equipmentRepo *repository.EquipmentRepository, matcher *MatcherService) *GroupingService {
	return &GroupingService{equipmentRepo: equipmentRepo, matcher: matcher}
}

// GroupForPO 拉取项目设备，按阶段过滤、按供应商名分组，再整批匹配档案。
// 匹配只调一次，按名称批量，不按组逐个查。
func (s *GroupingService) GroupForPO(ctx context.Context, projectID, stage string) (*GroupingResult, error) {
	if projectID == "" {
		return nil, fmt.Errorf("project id is required")
	}
	if !entity.ValidMilestoneStage(stage) {
		return nil, fmt.Errorf("invalid milestone stage: %s", stage)
	}

	lines, err := s.equipmentRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load equipment: %w", err)
	}

	groups := GroupByVendor(FilterByStage(lines, stage))

	names := make([]string, 0, len(groups))
	for key := range groups {
		if key != UnassignedGroupKey {
			names = append(names, key)
		}
	}

	stats := GroupStats{TotalVendors: len(names)}

	if len(names) > 0 {
		matches, err := s.matcher.BatchMatch(ctx, names, DefaultMatchThreshold)
		if err != nil {
			return nil, err
		}

		for _, m := range matches.Matched {
			if g := groups[m.CSVName]; g != nil {
				g.ResolvedSupplier = m.Supplier
				g.MatchConfidence = m.Confidence
				g.MatchStatus = MatchStatusMatched
			}
		}
		for _, m := range matches.NeedsReview {
			if g := groups[m.CSVName]; g != nil {
				g.MatchConfidence = m.Confidence
				g.MatchStatus = MatchStatusNeedsReview
				g.Suggestions = m.Suggestions
			}
		}
		for _, m := range matches.NeedsCreation {
			if g := groups[m.CSVName]; g != nil {
				g.MatchStatus = MatchStatusNeedsCreation
			}
		}

		stats.Matched = len(matches.Matched)
		stats.NeedsReview = len(matches.NeedsReview)
		stats.NeedsCreation = len(matches.NeedsCreation)
	}

	return &GroupingResult{Groups: groups, Stats: stats}, nil
}

// FilterByStage 纯函数：按里程碑阶段过滤设备行。
// prewire_prep 只留零件库标记了预布线的行；
// trim_prep 留其余全部，没挂零件库的行视为非预布线。
func FilterByStage(lines []entity.EquipmentLine, stage string) []entity.EquipmentLine {
	filtered := make([]entity.EquipmentLine, 0, len(lines))
	for _, line := range lines {
		prewire := line.GlobalPart != nil && line.GlobalPart.RequiredForPrewire
		if stage == entity.MilestoneStagePrewire {
			if prewire {
				filtered = append(filtered, line)
			}
		} else if !prewire {
			filtered = append(filtered, line)
		}
	}
	return filtered
}

// GroupByVendor 纯函数：按规范化后的原始供应商名分组并累计成本数量。
// 统计口径数量缺失按0，每行只进一个组。
func GroupByVendor(lines []entity.EquipmentLine) map[string]*VendorGroup {
	groups := make(map[string]*VendorGroup)
	for _, line := range lines {
		key := CanonicalVendorKey(line.SupplierName)

		g, ok := groups[key]
		if !ok {
			g = &VendorGroup{CSVName: key, Equipment: []entity.EquipmentLine{}}
			groups[key] = g
		}

		qty := line.EffectiveQuantity()
		g.Equipment = append(g.Equipment, line)
		g.TotalCost += line.EffectiveUnitCost() * qty
		g.TotalItems += qty
	}
	return groups
}

// CanonicalVendorKey 供应商名的分组键：去首尾空白、合并连续空白；
// 空文本归入Unassigned
func CanonicalVendorKey(name string) string {
	key := collapseSpaces(name)
	if key == "" {
		return UnassignedGroupKey
	}
	return key
}
