package service

import (
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"github.com/wirehaus/wirehaus/internal/config"
	"github.com/wirehaus/wirehaus/internal/procurement/repository"
)

// Services 采购域服务集合
type Services struct {
	Project  *ProjectService
	Supplier *SupplierService
	Matcher  *MatcherService
	Grouping *GroupingService
	PO       *POService
	Bulk     *BulkService
	Export   *ExportService
}

// NewServices 创建服务集合
func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config) *Services {
	// 初始化MinIO客户端
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			log.Printf("[SVC] minio init failed, exports archive disabled: %v", err)
			minioClient = nil
		}
	}

	supplierSvc := NewSupplierService(repos.Supplier, rdb)
	matcherSvc := NewMatcherService(repos.Supplier)
	groupingSvc := NewGroupingService(repos.Equipment, matcherSvc)
	poSvc := NewPOService(repos.PO, repos.Project, repos.Equipment, repos.Supplier)

	return &Services{
		Project:  NewProjectService(repos.Project, repos.Equipment),
		Supplier: supplierSvc,
		Matcher:  matcherSvc,
		Grouping: groupingSvc,
		PO:       poSvc,
		Bulk:     NewBulkService(groupingSvc, poSvc, supplierSvc),
		Export:   NewExportService(repos.PO, minioClient, cfg.MinIO.Bucket),
	}
}
