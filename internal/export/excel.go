package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"kovaidetail/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Bookings"

// Exporter renders booking snapshots to .xlsx files under the configured
// export directory.
type Exporter struct {
	dir    string
	logger *zerolog.Logger
}

func NewExporter(dir string, logger *zerolog.Logger) *Exporter {
	return &Exporter{dir: dir, logger: logger}
}

// ExportBookings writes all bookings to a timestamped workbook and returns
// its path.
func (e *Exporter) ExportBookings(bookings []*models.Booking) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{
		"ID", "Customer", "Phone", "Email", "Vehicle Type", "Vehicle Model",
		"Service", "Address", "Date", "Time", "Status", "Created At",
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, booking := range bookings {
		row := i + 2
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), booking.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), booking.FullName)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), booking.PhoneNumber)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), booking.Email)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), booking.VehicleType)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), booking.VehicleModel)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), booking.ServiceType)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), booking.Address)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), booking.PreferredDate)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("J%d", row), booking.PreferredTime)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("K%d", row), booking.Status)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("L%d", row), booking.CreatedAt.Format("02.01.2006 15:04"))
	}

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "B", 25)
	_ = f.SetColWidth(sheetName, "C", "D", 20)
	_ = f.SetColWidth(sheetName, "E", "F", 15)
	_ = f.SetColWidth(sheetName, "G", "H", 25)
	_ = f.SetColWidth(sheetName, "I", "K", 12)
	_ = f.SetColWidth(sheetName, "L", "L", 18)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_export_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(e.dir, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("bookings", len(bookings)).Msg("Excel file created")
	return filePath, nil
}
