package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/wirehaus/wirehaus/internal/procurement/entity"
	"github.com/wirehaus/wirehaus/internal/procurement/repository"
	"github.com/wirehaus/wirehaus/internal/shared/fuzzy"
)

// SupplierService 供应商服务
type SupplierService struct {
	repo *repository.SupplierRepository
	rdb  *redis.Client
}

func NewSupplierService(repo *repository.SupplierRepository, rdb *redis.Client) *SupplierService {
	return &SupplierService{repo: repo, rdb: rdb}
}

// CreateSupplierRequest 创建供应商请求
type CreateSupplierRequest struct {
	Name          string `json:"name" binding:"required"`
	ShortCode     string `json:"short_code"`
	ContactName   string `json:"contact_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Website       string `json:"website"`
	AccountNumber string `json:"account_number"`
	PaymentTerms  string `json:"payment_terms"`
	IsPreferred   bool   `json:"is_preferred"`
	Notes         string `json:"notes"`
}

// UpdateSupplierRequest 更新供应商请求
type UpdateSupplierRequest struct {
	Name          *string `json:"name"`
	ShortCode     *string `json:"short_code"`
	ContactName   *string `json:"contact_name"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	Website       *string `json:"website"`
	AccountNumber *string `json:"account_number"`
	PaymentTerms  *string `json:"payment_terms"`
	IsActive      *bool   `json:"is_active"`
	IsPreferred   *bool   `json:"is_preferred"`
	Notes         *string `json:"notes"`
}

// List 获取供应商列表
func (s *SupplierService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Supplier, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get 获取供应商详情
func (s *SupplierService) Get(ctx context.Context, id string) (*entity.Supplier, error) {
	return s.repo.FindByID(ctx, id)
}

// Create 创建供应商
func (s *SupplierService) Create(ctx context.Context, userID string, req *CreateSupplierRequest) (*entity.Supplier, error) {
	normalized := fuzzy.NormalizeName(req.Name)
	if normalized == "" {
		return nil, fmt.Errorf("supplier name is required")
	}

	shortCode := strings.ToUpper(strings.TrimSpace(req.ShortCode))
	if shortCode == "" {
		var err error
		shortCode, err = s.uniqueShortCode(ctx, req.Name)
		if err != nil {
			return nil, err
		}
	}

	supplier := &entity.Supplier{
		ID:             uuid.New().String()[:32],
		Name:           collapseSpaces(req.Name),
		NormalizedName: normalized,
		ShortCode:      shortCode,
		ContactName:    req.ContactName,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		Website:        req.Website,
		AccountNumber:  req.AccountNumber,
		PaymentTerms:   req.PaymentTerms,
		IsActive:       true,
		IsPreferred:    req.IsPreferred,
		Notes:          req.Notes,
		CreatedBy:      userID,
	}

	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}

	s.clearCache(ctx)
	return supplier, nil
}

// CreateFromName 从原始CSV供应商名自动建档。
// 归一化名称唯一索引去重：并发建档输掉竞争时按归一化名回查，
// 同名最终收敛到同一条记录。
func (s *SupplierService) CreateFromName(ctx context.Context, rawName, userID string) (*entity.Supplier, error) {
	normalized := fuzzy.NormalizeName(rawName)
	if normalized == "" {
		return nil, fmt.Errorf("cannot create supplier from empty name")
	}

	// 先查已有
	if existing, err := s.repo.FindByNormalizedName(ctx, normalized); err == nil {
		return existing, nil
	} else if err != repository.ErrNotFound {
		return nil, err
	}

	shortCode, err := s.uniqueShortCode(ctx, rawName)
	if err != nil {
		return nil, err
	}

	supplier := &entity.Supplier{
		ID:             uuid.New().String()[:32],
		Name:           collapseSpaces(rawName),
		NormalizedName: normalized,
		ShortCode:      shortCode,
		IsActive:       true,
		CreatedBy:      userID,
		Notes:          "Auto-created during bulk PO generation",
	}

	if err := s.repo.Create(ctx, supplier); err != nil {
		// 唯一索引冲突说明并发建档已落库，回查复用
		if existing, ferr := s.repo.FindByNormalizedName(ctx, normalized); ferr == nil {
			return existing, nil
		}
		return nil, err
	}

	s.clearCache(ctx)
	return supplier, nil
}

// Update 更新供应商
func (s *SupplierService) Update(ctx context.Context, id string, req *UpdateSupplierRequest) (*entity.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		supplier.Name = collapseSpaces(*req.Name)
		supplier.NormalizedName = fuzzy.NormalizeName(*req.Name)
	}
	if req.ShortCode != nil {
		supplier.ShortCode = strings.ToUpper(strings.TrimSpace(*req.ShortCode))
	}
	if req.ContactName != nil {
		supplier.ContactName = *req.ContactName
	}
	if req.Email != nil {
		supplier.Email = *req.Email
	}
	if req.Phone != nil {
		supplier.Phone = *req.Phone
	}
	if req.Address != nil {
		supplier.Address = *req.Address
	}
	if req.Website != nil {
		supplier.Website = *req.Website
	}
	if req.AccountNumber != nil {
		supplier.AccountNumber = *req.AccountNumber
	}
	if req.PaymentTerms != nil {
		supplier.PaymentTerms = *req.PaymentTerms
	}
	if req.IsActive != nil {
		supplier.IsActive = *req.IsActive
	}
	if req.IsPreferred != nil {
		supplier.IsPreferred = *req.IsPreferred
	}
	if req.Notes != nil {
		supplier.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}

	s.clearCache(ctx)
	return supplier, nil
}

// Delete 删除供应商
func (s *SupplierService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.clearCache(ctx)
	return nil
}

// clearCache 供应商有变动时清除列表缓存
func (s *SupplierService) clearCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	s.rdb.Del(ctx, "suppliers:list")
}

// uniqueShortCode 派生唯一短码：多词取各词首字母（最多4个），
// 单词取前4个字母；冲突时追加序号
func (s *SupplierService) uniqueShortCode(ctx context.Context, name string) (string, error) {
	base := DeriveShortCode(name)

	code := base
	for i := 2; ; i++ {
		count, err := s.repo.CountByShortCode(ctx, code)
		if err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
		code = fmt.Sprintf("%s%d", base, i)
	}
}

// DeriveShortCode 从供应商名派生大写短码
func DeriveShortCode(name string) string {
	tokens := strings.Fields(fuzzy.NormalizeName(name))

	var b strings.Builder
	switch {
	case len(tokens) == 0:
		return "SUP"
	case len(tokens) == 1:
		for _, r := range tokens[0] {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(unicode.ToUpper(r))
			}
			if b.Len() >= 4 {
				break
			}
		}
	default:
		for i, tok := range tokens {
			if i >= 4 {
				break
			}
			r := []rune(tok)[0]
			b.WriteRune(unicode.ToUpper(r))
		}
	}

	if b.Len() == 0 {
		return "SUP"
	}
	return b.String()
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
