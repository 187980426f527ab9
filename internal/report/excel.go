package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hotelops/internal/domain"
	"hotelops/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Exporter writes the daily ops workbook: per-hotel ticket closures with
// SLA outcomes and open F&B orders.
type Exporter struct {
	store  domain.Store
	path   string
	logger *zerolog.Logger
}

func NewExporter(store domain.Store, path string, logger *zerolog.Logger) *Exporter {
	return &Exporter{store: store, path: path, logger: logger}
}

// Export builds the workbook for the given hotels and returns the file path.
func (e *Exporter) Export(ctx context.Context, hotelIDs []string) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating report directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Tickets"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"Hotel", "Ticket", "Service", "Room", "Status", "Minutes", "On time"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "G1", headerStyle)

	row := 2
	for _, hotelID := range hotelIDs {
		tickets, err := e.store.GetTicketsByHotel(ctx, hotelID, 500)
		if err != nil {
			return "", fmt.Errorf("error getting tickets for %s: %v", hotelID, err)
		}
		for _, t := range tickets {
			e.writeTicketRow(f, sheetName, row, t)
			row++
		}
	}

	if err := e.writeOrdersSheet(ctx, f, hotelIDs); err != nil {
		return "", err
	}

	_ = f.SetColWidth(sheetName, "A", "B", 24)
	_ = f.SetColWidth(sheetName, "C", "G", 14)
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("ops_report_%s.xlsx", time.Now().Format("2006-01-02"))
	filePath := filepath.Join(e.path, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("ops report created")
	return filePath, nil
}

func (e *Exporter) writeTicketRow(f *excelize.File, sheet string, row int, t models.Ticket) {
	values := []interface{}{t.HotelID, t.ID, t.ServiceKey, t.Room, t.Status}
	if t.MinutesToClose != nil {
		values = append(values, *t.MinutesToClose)
	} else {
		values = append(values, "")
	}
	if t.OnTime != nil {
		values = append(values, *t.OnTime)
	} else {
		values = append(values, "")
	}

	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func (e *Exporter) writeOrdersSheet(ctx context.Context, f *excelize.File, hotelIDs []string) error {
	sheetName := "Orders"
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("error creating sheet: %v", err)
	}

	headers := []string{"Hotel", "Order", "Item", "Qty", "Price (paise)", "Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	row := 2
	for _, hotelID := range hotelIDs {
		orders, err := e.store.GetOrdersByHotel(ctx, hotelID, 500)
		if err != nil {
			return fmt.Errorf("error getting orders for %s: %v", hotelID, err)
		}
		for _, o := range orders {
			values := []interface{}{o.HotelID, o.ID, o.ItemKey, o.Qty, o.PricePaise, o.Status}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				_ = f.SetCellValue(sheetName, cell, v)
			}
			row++
		}
	}

	_ = f.SetColWidth(sheetName, "A", "B", 24)
	return nil
}
