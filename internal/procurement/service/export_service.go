package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/wirehaus/wirehaus/internal/procurement/repository"
	"github.com/xuri/excelize/v2"
)

// ExportService 采购单导出，供应商侧接收CSV或Excel
type ExportService struct {
	poRepo      *repository.PORepository
	minioClient *minio.Client
	bucketName  string
}

func NewExportService(poRepo *repository.PORepository, minioClient *minio.Client, bucketName string) *ExportService {
	return &ExportService{poRepo: poRepo, minioClient: minioClient, bucketName: bucketName}
}

var poExportHeaders = []string{
	"行号", "设备行ID", "描述", "数量", "单价", "金额",
}

// RenderCSV 渲染PO为CSV，首部带订单元信息
func (s *ExportService) RenderCSV(ctx context.Context, poID string) ([]byte, string, error) {
	po, err := s.poRepo.FindByID(ctx, poID)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	supplierName := ""
	if po.Supplier != nil {
		supplierName = po.Supplier.Name
	}
	meta := [][]string{
		{"PO Number", po.PONumber},
		{"Supplier", supplierName},
		{"Status", po.Status},
		{"Order Date", po.OrderDate.Format("2006-01-02")},
	}
	if po.RequestedDeliveryDate != nil {
		meta = append(meta, []string{"Requested Delivery", po.RequestedDeliveryDate.Format("2006-01-02")})
	}
	for _, row := range meta {
		if err := w.Write(row); err != nil {
			return nil, "", fmt.Errorf("write csv: %w", err)
		}
	}
	if err := w.Write([]string{}); err != nil {
		return nil, "", fmt.Errorf("write csv: %w", err)
	}

	if err := w.Write([]string{"Line", "Equipment", "Description", "Qty", "Unit Cost", "Amount"}); err != nil {
		return nil, "", fmt.Errorf("write csv: %w", err)
	}
	for _, item := range po.Items {
		record := []string{
			strconv.Itoa(item.LineNumber),
			item.EquipmentLineID,
			item.Notes,
			strconv.FormatFloat(item.QuantityOrdered, 'f', 2, 64),
			strconv.FormatFloat(item.UnitCost, 'f', 4, 64),
			strconv.FormatFloat(item.QuantityOrdered*item.UnitCost, 'f', 2, 64),
		}
		if err := w.Write(record); err != nil {
			return nil, "", fmt.Errorf("write csv: %w", err)
		}
	}
	if err := w.Write([]string{"", "", "Subtotal", "", "", strconv.FormatFloat(po.Subtotal, 'f', 2, 64)}); err != nil {
		return nil, "", fmt.Errorf("write csv: %w", err)
	}
	if err := w.Write([]string{"", "", "Shipping", "", "", strconv.FormatFloat(po.ShippingCost, 'f', 2, 64)}); err != nil {
		return nil, "", fmt.Errorf("write csv: %w", err)
	}
	if err := w.Write([]string{"", "", "Tax", "", "", strconv.FormatFloat(po.TaxAmount, 'f', 2, 64)}); err != nil {
		return nil, "", fmt.Errorf("write csv: %w", err)
	}
	if err := w.Write([]string{"", "", "Total", "", "", strconv.FormatFloat(po.TotalAmount, 'f', 2, 64)}); err != nil {
		return nil, "", fmt.Errorf("write csv: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("flush csv: %w", err)
	}

	filename := fmt.Sprintf("PO_%s.csv", po.PONumber)
	return buf.Bytes(), filename, nil
}

// RenderXLSX 渲染PO为xlsx
func (s *ExportService) RenderXLSX(ctx context.Context, poID string) (*excelize.File, string, error) {
	po, err := s.poRepo.FindByID(ctx, poID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheet := "PO"
	f.SetSheetName("Sheet1", sheet)

	// 表头样式: 加粗
	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	// 订单元信息
	f.SetCellValue(sheet, "A1", "采购单号")
	f.SetCellValue(sheet, "B1", po.PONumber)
	f.SetCellValue(sheet, "A2", "供应商")
	if po.Supplier != nil {
		f.SetCellValue(sheet, "B2", po.Supplier.Name)
	}
	f.SetCellValue(sheet, "A3", "下单日期")
	f.SetCellValue(sheet, "B3", po.OrderDate.Format("2006-01-02"))
	if po.RequestedDeliveryDate != nil {
		f.SetCellValue(sheet, "A4", "期望到货")
		f.SetCellValue(sheet, "B4", po.RequestedDeliveryDate.Format("2006-01-02"))
	}

	// 写入表头
	headerRow := 6
	for i, h := range poExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s%d", col, headerRow)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	// 写入数据行
	for rowIdx, item := range po.Items {
		row := headerRow + 1 + rowIdx
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), item.LineNumber)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), item.EquipmentLineID)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), item.Notes)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), item.QuantityOrdered)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), item.UnitCost)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), item.QuantityOrdered*item.UnitCost)
	}

	// 底部汇总行
	summaryRow := headerRow + 1 + len(po.Items)
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "汇总")
	f.SetCellValue(sheet, fmt.Sprintf("C%d", summaryRow), fmt.Sprintf("小计 %.2f / 运费 %.2f / 税 %.2f", po.Subtotal, po.ShippingCost, po.TaxAmount))
	f.SetCellValue(sheet, fmt.Sprintf("F%d", summaryRow), po.TotalAmount)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("F%d", summaryRow), summaryStyle)

	// 列宽
	colWidths := []float64{6, 34, 30, 10, 12, 12}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("PO_%s.xlsx", po.PONumber)
	return f, filename, nil
}

// Archive 将PO的CSV快照归档到对象存储，未配置MinIO时跳过
func (s *ExportService) Archive(ctx context.Context, poID string) (string, error) {
	data, _, err := s.RenderCSV(ctx, poID)
	if err != nil {
		return "", err
	}
	po, err := s.poRepo.FindByID(ctx, poID)
	if err != nil {
		return "", err
	}

	if s.minioClient == nil {
		return "", fmt.Errorf("object storage is not configured")
	}

	objectName := fmt.Sprintf("exports/%d/%s.csv", time.Now().Year(), po.PONumber)
	_, err = s.minioClient.PutObject(ctx, s.bucketName, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	if err != nil {
		return "", fmt.Errorf("upload export: %w", err)
	}
	return objectName, nil
}
