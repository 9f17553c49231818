package automation

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportExecutionsToExcel(t *testing.T) {
	executions := []AutomationExecution{
		{
			RuleName:    "Welcome",
			TriggerType: TriggerVisitorFirstTime,
			SourceType:  "check_in",
			SourceID:    "ci_1",
			Status:      ExecutionPartial,
			CreatedAt:   fixedTime,
			Outcomes: []ActionOutcome{
				{ActionType: ActionSendEmail, Success: true},
				{ActionType: ActionSendSMS, Success: false, Error: "provider not configured"},
			},
		},
	}

	data, err := ExportExecutionsToExcel(executions)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(executionSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, executionColumns, rows[0])
	assert.Equal(t, "2024-03-10 09:30:00", rows[1][0])
	assert.Equal(t, "Welcome", rows[1][1])
	assert.Equal(t, "PARTIAL", rows[1][5])
	assert.Equal(t, "1", rows[1][6])
	assert.Equal(t, "SEND_SMS: provider not configured", rows[1][8])
}
