package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labor-platform/pkg/logging"
)

func testLogger() *logging.StructuredLogger {
	return logging.NewStructuredLogger("test", "0.0.0", logging.ErrorLevel)
}

func TestLayoffParser_Parse(t *testing.T) {
	csv := strings.Join([]string{
		"Company,Industry,Location,Employees Laid Off,Date Announced",
		"acme corp,tech,\"San Francisco, CA\",\"1,200\",2023-01-15",
		"globex,retail,Austin TX,300,bad-date",
		"initech,tech,Remote,,2023-02-01",
	}, "\n")

	parser := NewLayoffParser(testLogger())
	result, err := parser.Parse(context.Background(), strings.NewReader(csv))

	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 2, result.ParsedRows)
	assert.Equal(t, 1, result.FailedRows)
	require.Len(t, result.Events, 2)

	first := result.Events[0]
	assert.Equal(t, "Acme Corp", first.Company)
	assert.Equal(t, "San Francisco, CA", first.Location)
	require.NotNil(t, first.EmployeesLaidOff)
	assert.Equal(t, 1200, *first.EmployeesLaidOff)

	second := result.Events[1]
	assert.Equal(t, "Initech", second.Company)
	assert.Nil(t, second.EmployeesLaidOff)
}

func TestLayoffParser_NormalizesHeaders(t *testing.T) {
	csv := strings.Join([]string{
		"company,date_announced",
		"Hooli,2023-03-01",
	}, "\n")

	parser := NewLayoffParser(testLogger())
	result, err := parser.Parse(context.Background(), strings.NewReader(csv))

	require.NoError(t, err)
	assert.Equal(t, 1, result.ParsedRows)
	assert.Equal(t, "Hooli", result.Events[0].Company)
	assert.Empty(t, result.Events[0].Industry)
}

func TestLayoffParser_MissingRequiredColumn(t *testing.T) {
	csv := strings.Join([]string{
		"Company,Industry",
		"Hooli,tech",
	}, "\n")

	parser := NewLayoffParser(testLogger())
	_, err := parser.Parse(context.Background(), strings.NewReader(csv))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "date_announced")
}

func TestLayoffParser_EmptyBody(t *testing.T) {
	csv := "company,date_announced\n"

	parser := NewLayoffParser(testLogger())
	result, err := parser.Parse(context.Background(), strings.NewReader(csv))

	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalRows)
	assert.Empty(t, result.Events)
}
