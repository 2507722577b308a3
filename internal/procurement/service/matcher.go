package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/wirehaus/wirehaus/internal/procurement/entity"
	"github.com/wirehaus/wirehaus/internal/procurement/repository"
	"github.com/wirehaus/wirehaus/internal/shared/fuzzy"
)

// 匹配置信度分层
const (
	MatchStatusMatched       = "matched"
	MatchStatusNeedsReview   = "needs_review"
	MatchStatusNeedsCreation = "needs_creation"
)

const (
	// DefaultMatchThreshold 自动匹配阈值
	DefaultMatchThreshold = 0.7
	// MinSuggestScore 进入人工复核建议列表的下限
	MinSuggestScore = 0.4
	// 每个名称最多给几条复核建议
	maxSuggestions = 3
)

// SupplierCandidate 复核建议候选
type SupplierCandidate struct {
	Supplier   entity.Supplier `json:"supplier"`
	Confidence float64         `json:"confidence"`
}

// NameMatch 单个CSV名称的匹配结果
type NameMatch struct {
	CSVName     string              `json:"csv_name"`
	Status      string              `json:"status"`
	Supplier    *entity.Supplier    `json:"supplier,omitempty"`
	Confidence  float64             `json:"confidence"`
	Suggestions []SupplierCandidate `json:"suggestions,omitempty"`
}

// BatchMatchResult 批量匹配结果，三个桶是对输入名称集的完整划分
type BatchMatchResult struct {
	Matched       []NameMatch `json:"matched"`
	NeedsReview   []NameMatch `json:"needs_review"`
	NeedsCreation []NameMatch `json:"needs_creation"`
}

// MatcherService 供应商模糊匹配服务。只读供应商档案，从不建档。
type MatcherService struct {
	supplierRepo *repository.SupplierRepository
}

func NewMatcherService(supplierRepo *repository.SupplierRepository) *MatcherService {
	return &MatcherService{supplierRepo: supplierRepo}
}

// BatchMatch 对一批自由文本供应商名做批量匹配。
// 档案读取失败整批失败，不返回部分结果。
func (s *MatcherService) BatchMatch(ctx context.Context, names []string, threshold float64) (*BatchMatchResult, error) {
	suppliers, err := s.supplierRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load supplier registry: %w", err)
	}
	return MatchNames(names, suppliers, threshold), nil
}

// MatchNames 纯函数：名称集 × 档案快照 → 分桶。
// 同样的输入永远给同样的结果：名称先排序去重，
// 候选按分数降序、供应商ID升序排。
func MatchNames(names []string, suppliers []entity.Supplier, threshold float64) *BatchMatchResult {
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}

	distinct := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			distinct = append(distinct, n)
		}
	}
	sort.Strings(distinct)

	result := &BatchMatchResult{
		Matched:       []NameMatch{},
		NeedsReview:   []NameMatch{},
		NeedsCreation: []NameMatch{},
	}

	for _, name := range distinct {
		match := matchOne(name, suppliers, threshold)
		switch match.Status {
		case MatchStatusMatched:
			result.Matched = append(result.Matched, match)
		case MatchStatusNeedsReview:
			result.NeedsReview = append(result.NeedsReview, match)
		default:
			result.NeedsCreation = append(result.NeedsCreation, match)
		}
	}

	return result
}

func matchOne(name string, suppliers []entity.Supplier, threshold float64) NameMatch {
	candidates := make([]SupplierCandidate, 0, len(suppliers))
	for _, sup := range suppliers {
		score := fuzzy.NameScore(name, sup.Name)
		if score < MinSuggestScore {
			continue
		}
		candidates = append(candidates, SupplierCandidate{Supplier: sup, Confidence: score})
	}

	// 分数降序，平分时按供应商ID升序，保证结果可复现
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		return candidates[i].Supplier.ID < candidates[j].Supplier.ID
	})

	if len(candidates) == 0 {
		return NameMatch{CSVName: name, Status: MatchStatusNeedsCreation}
	}

	best := candidates[0]
	if best.Confidence >= threshold {
		sup := best.Supplier
		return NameMatch{
			CSVName:    name,
			Status:     MatchStatusMatched,
			Supplier:   &sup,
			Confidence: best.Confidence,
		}
	}

	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}
	return NameMatch{
		CSVName:     name,
		Status:      MatchStatusNeedsReview,
		Confidence:  best.Confidence,
		Suggestions: candidates,
	}
}
