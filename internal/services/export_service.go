package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rmedina/erp-admin-api/internal/repository"
)

// ExportService produces downloadable account roster exports
type ExportService struct {
	accountRepo repository.AccountRepository
}

// NewExportService creates a new export service
func NewExportService(accountRepo repository.AccountRepository) *ExportService {
	return &ExportService{accountRepo: accountRepo}
}

// AccountsXLSX renders the full account roster as an XLSX workbook
func (s *ExportService) AccountsXLSX(ctx context.Context) ([]byte, string, error) {
	accounts, err := s.accountRepo.FindAll(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Accounts"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	headers := []string{"Username", "Full Name", "Email", "Employee ID", "Role", "Department", "Position", "Active", "Last Login"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for row, a := range accounts {
		resp := a.ToResponse()
		values := []any{
			resp.Username,
			resp.FullName,
			resp.Email,
			deref(resp.EmployeeID),
			deref(resp.Role),
			deref(resp.Department),
			deref(resp.Position),
			resp.Active,
		}
		if resp.LastLoginAt != nil {
			values = append(values, resp.LastLoginAt.Format("2006-01-02 15:04"))
		} else {
			values = append(values, "")
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("accounts_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
