package sheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/mamadbah2/birdo/internal/config"
)

type sheetsAPI struct {
	appended  [][]interface{}
	query     string
	getStatus int
}

func (s *sheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
		s.query = r.URL.RawQuery
		var body struct {
			Values [][]interface{} `json:"values"`
		}
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)
		s.appended = append(s.appended, body.Values...)
		_, _ = io.WriteString(w, `{"updates":{"updatedRows":`+jsonInt(len(body.Values))+`}}`)
	case r.Method == http.MethodGet:
		if s.getStatus != 0 {
			w.WriteHeader(s.getStatus)
			_, _ = io.WriteString(w, `{"error":{"code":404,"message":"Requested entity was not found."}}`)
			return
		}
		_, _ = io.WriteString(w, `{"range":"Ledger!A1:G2","majorDimension":"ROWS","values":[["ID","Date"],["tx-1","2024-05-01"]]}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func jsonInt(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func newLedger(t *testing.T, api *sheetsAPI) *Ledger {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	l, err := NewLedger(context.Background(), config.SheetsConfig{SpreadsheetID: "sheet-1"}, nil,
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return l
}

func TestAppendRows(t *testing.T) {
	api := &sheetsAPI{}
	l := newLedger(t, api)

	err := l.AppendRows(context.Background(), "Ledger!A:G", [][]interface{}{{"tx-2", "2024-05-02", "INCOME", "Venda", "", 150.5, "u1"}})
	require.NoError(t, err)
	require.Len(t, api.appended, 1)
	assert.Equal(t, "tx-2", api.appended[0][0])
	assert.Contains(t, api.query, "valueInputOption=RAW")
	assert.Contains(t, api.query, "insertDataOption=INSERT_ROWS")
}

func TestAppendRowsSkipsEmpty(t *testing.T) {
	api := &sheetsAPI{}
	l := newLedger(t, api)
	require.NoError(t, l.AppendRows(context.Background(), "Ledger!A:G", nil))
	assert.Empty(t, api.appended)
	assert.Error(t, l.AppendRows(context.Background(), "", [][]interface{}{{"x"}}))
}

func TestReadRange(t *testing.T) {
	l := newLedger(t, &sheetsAPI{})
	rows, err := l.ReadRange(context.Background(), "Ledger!A:G")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "tx-1", rows[1][0])

	l = newLedger(t, &sheetsAPI{getStatus: http.StatusNotFound})
	_, err = l.ReadRange(context.Background(), "Ledger!A:G")
	assert.ErrorContains(t, err, "read ledger range Ledger!A:G")
}
