package xslsxGenerator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/sebastiangueler-commits/cARTE/utils"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet   = "Summary"
	maxSheetName   = 31
	assetsStartRow = 4
)

var sheetNameReplacer = strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", "(", "]", ")")

type XSLSXGenerator struct{}

func New() *XSLSXGenerator {
	return &XSLSXGenerator{}
}

// Generate renders a summary sheet plus one sheet with valued assets per portfolio.
func (g *XSLSXGenerator) Generate(ctx context.Context, portfolios []model.PortfolioDetails) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XSLSXGenerator.Generate"

	if len(portfolios) == 0 {
		return nil, "", errors.New("empty portfolios")
	}

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("portfolios", len(portfolios)))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{"#cfe2f3"},
		},
	})
	if err != nil {
		return nil, "", err
	}

	// лист по умолчанию переиспользуем под сводку
	if err = f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, "", err
	}
	if err = g.fillSummary(f, portfolios, headerStyle); err != nil {
		slog.Error("got error while filling summary", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	for i, portfolio := range portfolios {
		if err = g.fillSheet(f, portfolio, i+1, headerStyle); err != nil {
			slog.Error("got error while filling sheet", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", portfolio.ID), slog.String("err", err.Error()))
			return nil, "", err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while Saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func (g *XSLSXGenerator) fillSummary(f *excelize.File, portfolios []model.PortfolioDetails, headerStyle int) error {
	headers := []string{"portfolio", "assets", "invested", "value", "change", "change %"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellStr(summarySheet, cell, h)
	}
	if err := f.SetCellStyle(summarySheet, "A1", "F1", headerStyle); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	for i, p := range portfolios {
		row := i + 2
		_ = f.SetCellStr(summarySheet, fmt.Sprintf("A%d", row), p.Name)
		_ = f.SetCellInt(summarySheet, fmt.Sprintf("B%d", row), int64(p.AssetCount))
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("C%d", row), p.TotalInvested.InexactFloat64())
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("D%d", row), p.TotalValue.InexactFloat64())
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("E%d", row), p.TotalChange.InexactFloat64())
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("F%d", row), p.TotalChangePercent.InexactFloat64())
	}

	return f.SetColWidth(summarySheet, "A", "A", 30)
}

func (g *XSLSXGenerator) fillSheet(f *excelize.File, portfolio model.PortfolioDetails, ordinal int, headerStyle int) error {
	sheetName := SheetName(ordinal, portfolio.Name)
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	if err := f.MergeCell(sheetName, "A1", "I1"); err != nil {
		return err
	}
	_ = f.SetCellStr(sheetName, "A1", portfolio.Name)
	if err := f.SetCellStyle(sheetName, "A1", "A1", headerStyle); err != nil {
		return fmt.Errorf("apply title style: %w", err)
	}
	if portfolio.Description != "" {
		_ = f.SetCellStr(sheetName, "A2", portfolio.Description)
	}

	headers := []string{"symbol", "name", "quantity", "purchase price", "current price", "invested", "value", "change", "change %", "purchase date"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, assetsStartRow-1)
		_ = f.SetCellStr(sheetName, cell, h)
	}

	row := assetsStartRow
	for _, a := range portfolio.Assets {
		_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", row), a.Symbol)
		_ = f.SetCellStr(sheetName, fmt.Sprintf("B%d", row), a.Name)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), a.Quantity.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), a.PurchasePrice.InexactFloat64())
		if a.CurrentPrice.Valid {
			_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), a.CurrentPrice.Decimal.InexactFloat64())
		}
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), a.InvestedValue.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), a.CurrentValue.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), a.TotalChange.InexactFloat64())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), a.PriceChangePercent.InexactFloat64())
		_ = f.SetCellStr(sheetName, fmt.Sprintf("J%d", row), a.PurchaseDate.Format("2006-01-02"))
		row++
	}

	// итоговая строка
	_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", row), "total")
	_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), portfolio.TotalInvested.InexactFloat64())
	_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), portfolio.TotalValue.InexactFloat64())
	_ = f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), portfolio.TotalChange.InexactFloat64())
	_ = f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), portfolio.TotalChangePercent.InexactFloat64())

	return nil
}

// SheetName builds a unique sheet title that fits excel's naming rules.
func SheetName(ordinal int, name string) string {
	title := fmt.Sprintf("%d. %s", ordinal, strings.TrimSpace(sheetNameReplacer.Replace(name)))
	runes := []rune(title)
	if len(runes) > maxSheetName {
		runes = runes[:maxSheetName]
	}
	return strings.TrimSpace(string(runes))
}
