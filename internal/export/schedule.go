package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"shareit/internal/models"
)

const sheetName = "Schedule"

// ScheduleExporter writes the bookings schedule workbook.
type ScheduleExporter struct {
	dir    string
	logger *zerolog.Logger
}

func NewScheduleExporter(dir string, logger *zerolog.Logger) *ScheduleExporter {
	return &ScheduleExporter{
		dir:    dir,
		logger: logger,
	}
}

// WriteSchedule renders entries into an xlsx file and returns its path.
// The file is overwritten on every refresh.
func (e *ScheduleExporter) WriteSchedule(entries []*models.ScheduleEntry, start, end time.Time) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Period: %s - %s",
		start.Format("02.01.2006"), end.Format("02.01.2006")))
	_ = f.MergeCell(sheetName, "A1", "G1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	headers := []string{"ID", "Item", "Owner", "Booker", "Start", "End", "Status"}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, entry := range entries {
		row := i + 3
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), entry.BookingID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), entry.ItemName)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), entry.OwnerName)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), entry.BookerName)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), entry.StartDate.Format("02.01.2006 15:04"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), entry.EndDate.Format("02.01.2006 15:04"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), entry.Status)

		if styleID, err := statusStyle(f, entry.Status); err == nil {
			cell := fmt.Sprintf("G%d", row)
			_ = f.SetCellStyle(sheetName, cell, cell, styleID)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "D", 25)
	_ = f.SetColWidth(sheetName, "E", "F", 18)
	_ = f.SetColWidth(sheetName, "G", "G", 12)

	_ = f.DeleteSheet("Sheet1")

	filePath := filepath.Join(e.dir, "bookings_schedule.xlsx")
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("entries", len(entries)).Msg("Schedule report written")
	return filePath, nil
}

func statusStyle(f *excelize.File, status string) (int, error) {
	var color string
	switch status {
	case models.StatusApproved:
		color = "#C6EFCE"
	case models.StatusWaiting:
		color = "#FFEB9C"
	case models.StatusRejected:
		color = "#FFC7CE"
	default:
		color = "#FFFFFF"
	}
	return f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
}
