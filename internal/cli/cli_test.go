package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/birdo/internal/domain/models"
)

const sampleExport = `{
  "profile": {"id": "u1", "name": "Criadouro Solar", "registryNumber": "55920-1", "city": "Recife - PE"},
  "birds": [
    {"id": "1", "name": "Zeus", "ringNumber": "BR-2023-001", "gender": "MALE"},
    {"id": "2", "name": "Hera", "ringNumber": "BR-2023-002", "gender": "FEMALE", "fatherId": "99"},
    {"id": "3", "name": "Apolo", "ringNumber": "BR-2023-015", "gender": "MALE", "fatherId": "1", "motherId": "2"},
    {"id": "4", "name": "Thor", "ringNumber": "SP-2022-099", "gender": "MALE"}
  ]
}`

func writeExport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := RootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestReadExportAcceptsBareArray(t *testing.T) {
	ex, err := readExport(writeExport(t, `[{"id":"1","name":"Zeus"}]`))
	require.NoError(t, err)
	assert.Len(t, ex.Birds, 1)

	_, err = readExport(writeExport(t, `{"birds": 3}`))
	assert.ErrorIs(t, err, models.ErrMalformedInput)
	assert.ErrorContains(t, err, "cannot unmarshal number")

	_, err = readExport(writeExport(t, `{"birds": [`))
	assert.ErrorIs(t, err, models.ErrMalformedInput)
	assert.ErrorContains(t, err, "unexpected end of JSON input")
}

func TestPedigreeTree(t *testing.T) {
	in := writeExport(t, sampleExport)
	out, err := run(t, "pedigree", "tree", "-i", in, "-b", "br-2023-015")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 16)
	assert.Contains(t, lines[1], "APOLO / BR-2023-015")
	assert.Contains(t, lines[2], "ZEUS / BR-2023-001")
	assert.Contains(t, out, "EXTERNAL RECORD")
	assert.Contains(t, out, "NOT RECORDED")
}

func TestPedigreeTreeJSON(t *testing.T) {
	in := writeExport(t, sampleExport)
	dst := filepath.Join(t.TempDir(), "tree.json")
	_, err := run(t, "pedigree", "tree", "-i", in, "-b", "3", "-o", dst)
	require.NoError(t, err)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	var tree struct {
		BirdID string            `json:"birdId"`
		Slots  []json.RawMessage `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(data, &tree))
	assert.Equal(t, "3", tree.BirdID)
	assert.Len(t, tree.Slots, 15)
}

func TestPedigreePDF(t *testing.T) {
	in := writeExport(t, sampleExport)
	dst := filepath.Join(t.TempDir(), "card.pdf")
	out, err := run(t, "pedigree", "pdf", "-i", in, "-b", "3", "-o", dst, "--bg", "#FFE4B5")
	require.NoError(t, err)
	assert.Equal(t, dst, strings.TrimSpace(out))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	_, err = run(t, "pedigree", "pdf", "-i", in, "-b", "3", "-o", dst, "--bg", "blue")
	assert.ErrorIs(t, err, models.ErrMalformedInput)
}

func TestPedigreeDOT(t *testing.T) {
	in := writeExport(t, sampleExport)
	out, err := run(t, "pedigree", "dot", "-i", in, "-b", "3")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "digraph pedigree {"))
}

func TestPedigreeUnknownBird(t *testing.T) {
	in := writeExport(t, sampleExport)
	_, err := run(t, "pedigree", "tree", "-i", in, "-b", "404")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPedigreeRejectsNamelessAncestor(t *testing.T) {
	in := writeExport(t, `[
  {"id": "1", "name": "", "ringNumber": "BR-1", "gender": "MALE"},
  {"id": "2", "name": "Chick", "ringNumber": "BR-2", "fatherId": "1"}
]`)
	for _, sub := range []string{"tree", "pdf", "dot"} {
		_, err := run(t, "pedigree", sub, "-i", in, "-b", "2", "-o", filepath.Join(t.TempDir(), "out"))
		assert.ErrorIs(t, err, models.ErrMalformedInput, sub)
	}
}

func TestPedigreeRequiresFlags(t *testing.T) {
	_, err := run(t, "pedigree", "tree")
	assert.Error(t, err)
}

func TestCandidates(t *testing.T) {
	in := writeExport(t, sampleExport)

	out, err := run(t, "candidates", "-i", in, "-b", "3", "-r", "father")
	require.NoError(t, err)
	assert.Contains(t, out, "Zeus")
	assert.Contains(t, out, "Thor")
	assert.NotContains(t, out, "Apolo")
	assert.NotContains(t, out, "Hera")

	out, err = run(t, "candidates", "-i", in, "-b", "3", "-r", "mother")
	require.NoError(t, err)
	assert.Contains(t, out, "Hera")
	assert.NotContains(t, out, "Zeus")

	out, err = run(t, "candidates", "-i", in, "-b", "3", "-q", "sp-")
	require.NoError(t, err)
	assert.Contains(t, out, "Thor")
	assert.NotContains(t, out, "Zeus")

	_, err = run(t, "candidates", "-i", in, "-b", "3", "-r", "uncle")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}
