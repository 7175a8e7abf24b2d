package gsheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"adaptcoach/internal/adaptive"
	"adaptcoach/internal/i18n"
	"adaptcoach/internal/models"
)

type fakeSheets struct {
	mu       sync.Mutex
	tabs     []string
	calls    []string
	written  [][]any
	rangeArg string
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	f.calls = append(f.calls, r.Method+" "+path)
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(path, "/spreadsheets/sheet-1"):
		sheets := make([]map[string]any, 0, len(f.tabs))
		for i, t := range f.tabs {
			sheets = append(sheets, map[string]any{"properties": map[string]any{"sheetId": i + 1, "title": t}})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"sheets": sheets})
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":batchUpdate"):
		var req struct {
			Requests []struct {
				AddSheet *struct {
					Properties struct {
						Title string `json:"title"`
					} `json:"properties"`
				} `json:"addSheet"`
			} `json:"requests"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		var replies []map[string]any
		for _, rq := range req.Requests {
			if rq.AddSheet != nil {
				f.tabs = append(f.tabs, rq.AddSheet.Properties.Title)
				replies = append(replies, map[string]any{"addSheet": map[string]any{
					"properties": map[string]any{"sheetId": 42, "title": rq.AddSheet.Properties.Title},
				}})
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"replies": replies})
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":clear"):
		_ = json.NewEncoder(w).Encode(map[string]any{})
	case r.Method == http.MethodPut && strings.Contains(path, "/values/"):
		var vr struct {
			Values [][]any `json:"values"`
		}
		_ = json.NewDecoder(r.Body).Decode(&vr)
		f.written = vr.Values
		f.rangeArg = path[strings.Index(path, "/values/")+len("/values/"):]
		_ = json.NewEncoder(w).Encode(map[string]any{"updatedRows": len(vr.Values)})
	default:
		http.Error(w, `{"error":{"code":404,"message":"not found"}}`, http.StatusNotFound)
	}
}

func (f *fakeSheets) countCalls(substr string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.Contains(c, substr) {
			n++
		}
	}
	return n
}

func newTestClient(t *testing.T, fake *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c, err := NewClientWithOptions(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return c
}

func samplePrescriptions() []models.Prescription {
	return []models.Prescription{{
		AthleteID: 7,
		Exercise:  "Sentadilla",
		Result: adaptive.AdaptiveResult{
			Final: adaptive.Prescription{Sets: 4, Series: 4, Reps: 7, Load: 60},
		},
		ComputedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	}}
}

func TestPublishPrescriptions_CreatesMissingTab(t *testing.T) {
	fake := &fakeSheets{tabs: []string{"Resumen"}}
	c := newTestClient(t, fake)

	err := c.PublishPrescriptions(context.Background(), "sheet-1", "Martín Pérez", samplePrescriptions(), i18n.LangSpanish)
	require.NoError(t, err)

	assert.Equal(t, []string{"Resumen", "Martín Pérez"}, fake.tabs)
	assert.Equal(t, 1, fake.countCalls(":clear"))
	// one batch for the new tab, one for header formatting
	assert.Equal(t, 2, fake.countCalls(":batchUpdate"))

	require.Len(t, fake.written, 2)
	assert.Equal(t, "Sentadilla", fake.written[1][0])
	assert.Equal(t, "'Martín Pérez'!A1", fake.rangeArg)
}

func TestPublishPrescriptions_ReusesExistingTab(t *testing.T) {
	fake := &fakeSheets{tabs: []string{"Martín"}}
	c := newTestClient(t, fake)

	p := NewPublisher(c, "sheet-1", i18n.LangEnglish)
	require.NoError(t, p.PublishPrescriptions(context.Background(), "Martín", samplePrescriptions()))

	assert.Equal(t, []string{"Martín"}, fake.tabs)
	assert.Equal(t, 1, fake.countCalls(":batchUpdate"))
}

func TestPublishPrescriptions_SpreadsheetMissing(t *testing.T) {
	fake := &fakeSheets{}
	c := newTestClient(t, fake)

	err := c.PublishPrescriptions(context.Background(), "nope", "Ana", samplePrescriptions(), i18n.LangSpanish)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get spreadsheet")
}

func TestTabName(t *testing.T) {
	assert.Equal(t, "Ana López", TabName("  Ana [López] "))
	assert.Equal(t, "Atleta", TabName("/?*"))
	assert.Equal(t, "Atleta", TabName(""))
	long := strings.Repeat("ñ", 150)
	assert.Equal(t, strings.Repeat("ñ", 100), TabName(long))
}

func TestGetSpreadsheetURL(t *testing.T) {
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc/edit", GetSpreadsheetURL("abc"))
}
