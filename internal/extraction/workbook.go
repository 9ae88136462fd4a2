package extraction

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"apucli/internal/grid"
	"apucli/pkg/contracts/domain"
)

const (
	// summarySheetName is the summary sheet carrying the beneficiary
	// document; the detail sheet is whatever sheet follows it.
	summarySheetName = "APU"

	// cedulaCell is the beneficiary document cell on the summary sheet.
	cedulaCell = "L6"
)

var (
	// ErrNoSummarySheet means the workbook has no APU sheet; the file is
	// reported and skipped by the caller.
	ErrNoSummarySheet = errors.New("workbook has no APU sheet")

	// ErrNoDetailSheet means nothing follows the APU sheet.
	ErrNoDetailSheet = errors.New("workbook has no sheet after APU")
)

// ExtractWorkbook opens one .xlsx file and produces its Document: the
// beneficiary document from APU!L6 plus the categories extracted from the
// sheet immediately after APU.
func ExtractWorkbook(path string, p Params) (*domain.Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return extractOpenWorkbook(f, p)
}

func extractOpenWorkbook(f *excelize.File, p Params) (*domain.Document, error) {
	sheets := f.GetSheetList()
	summaryIdx := -1
	for i, name := range sheets {
		if name == summarySheetName {
			summaryIdx = i
			break
		}
	}
	if summaryIdx < 0 {
		return nil, ErrNoSummarySheet
	}
	if summaryIdx+1 >= len(sheets) {
		return nil, ErrNoDetailSheet
	}

	cedula, err := f.GetCellValue(summarySheetName, cedulaCell)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s!%s: %w", summarySheetName, cedulaCell, err)
	}

	detail, err := grid.NewSheet(f, sheets[summaryIdx+1])
	if err != nil {
		return nil, err
	}

	return &domain.Document{
		Cedula:     rawValue(cedula),
		Categories: ExtractSheet(detail, p),
	}, nil
}
