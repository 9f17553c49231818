package automation

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

const executionSheet = "Executions"

var executionColumns = []string{"Created At", "Rule", "Trigger", "Source Type", "Source ID", "Status", "Succeeded", "Failed", "Errors"}

// ExportExecutionsToExcel renders one row per execution into an xlsx workbook
func ExportExecutionsToExcel(executions []AutomationExecution) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", executionSheet); err != nil {
		return nil, err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	for i, col := range executionColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(executionSheet, cell, col)
		f.SetCellStyle(executionSheet, cell, cell, headerStyle)
	}

	for rowIdx, ex := range executions {
		succeeded, failed := 0, 0
		var errs []string
		for _, o := range ex.Outcomes {
			if o.Success {
				succeeded++
				continue
			}
			failed++
			errs = append(errs, string(o.ActionType)+": "+o.Error)
		}

		row := []interface{}{
			ex.CreatedAt.Format("2006-01-02 15:04:05"),
			ex.RuleName,
			string(ex.TriggerType),
			ex.SourceType,
			ex.SourceID,
			string(ex.Status),
			succeeded,
			failed,
			strings.Join(errs, "; "),
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err := f.SetSheetRow(executionSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	for i := range executionColumns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(executionSheet, col, col, 18)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
