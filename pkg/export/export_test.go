package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Directory",
		Headers: []string{"ID", "Name", "Role"},
		Rows: []map[string]string{
			{"ID": "1", "Name": "Ada, Obi", "Role": "Admin"},
			{"ID": "2", "Name": "Bo", "Role": "Stockist"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", f.ContentType())

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestCSVRenderQuotesValues(t *testing.T) {
	out, err := RendererFor(FormatCSV).Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "ID,Name,Role\n1,\"Ada, Obi\",Admin\n2,Bo,Stockist\n", string(out))
}

func TestPDFRenderProducesDocument(t *testing.T) {
	out, err := RendererFor(FormatPDF).Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
}
