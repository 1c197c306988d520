package printer

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bascanada/fhirquery/pkg/fhir/search"
)

func TestPrintReportValid(t *testing.T) {
	disabled := false
	InitColorState(&disabled, nil)

	var buf bytes.Buffer
	res := search.Validate("/Patient/123?name=Jan")
	PrintReport(&buf, "/Patient/123?name=Jan", res)

	out := buf.String()
	assert.Contains(t, out, "VALID")
	assert.Contains(t, out, "type=Patient")
	assert.Contains(t, out, "id=123")
	assert.Contains(t, out, "parameters=1")
}

func TestPrintReportInvalid(t *testing.T) {
	disabled := false
	InitColorState(&disabled, nil)

	var buf bytes.Buffer
	res := search.Validate("/Patient?name:missing=yes&_offset=1")
	PrintReport(&buf, "/Patient?name:missing=yes&_offset=1", res)

	out := buf.String()
	assert.Contains(t, out, "INVALID")
	assert.Contains(t, out, "error")
	assert.Contains(t, out, "[name]")
	assert.Contains(t, out, "warning")
	assert.Contains(t, out, "[_offset]")
}

func TestPrintJSONPlain(t *testing.T) {
	disabled := false
	InitColorState(&disabled, nil)

	var buf bytes.Buffer
	res := search.Validate("/Patient?name=Jan")
	require.NoError(t, PrintJSON(&buf, res))

	var decoded search.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.True(t, decoded.Valid)
	require.NotNil(t, decoded.Parsed)
	assert.Equal(t, "Patient", decoded.Parsed.ResourceType)
}
