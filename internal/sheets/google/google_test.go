package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"expensedash/internal/core"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{}, nil)
	if err == nil {
		t.Fatal("expected error for missing spreadsheet id")
	}
	if err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew_MissingServiceAccount(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	_, err := New(context.Background(), Config{SpreadsheetID: "sid"}, nil)
	if err == nil {
		t.Fatal("expected error without credentials")
	}
	if !strings.Contains(err.Error(), "missing service account credentials") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew_UnreadableServiceAccountFile(t *testing.T) {
	_, err := New(context.Background(), Config{
		SpreadsheetID:      "sid",
		ServiceAccountFile: t.TempDir() + "/missing.json",
	}, nil)
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		base string
		year int
		want string
	}{
		{"Dashboard", 2025, "2025 Dashboard"},
		{"  Dashboard ", 2025, "2025 Dashboard"},
		{"2024 Dashboard", 2025, "2024 Dashboard"},
		{"1234 Dashboard", 2025, "2025 1234 Dashboard"},
		{"", 2025, ""},
	}
	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			if got := yearPrefixedName(tt.base, tt.year); got != tt.want {
				t.Errorf("yearPrefixedName(%q, %d) = %q, want %q", tt.base, tt.year, got, tt.want)
			}
		})
	}
}

type recordedCall struct {
	method string
	path   string
	query  string
	body   []byte
}

func TestClient_ExportClearsThenWrites(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []recordedCall
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, recordedCall{r.Method, r.URL.Path, r.URL.RawQuery, body})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, ":clear") {
			_, _ = w.Write([]byte(`{"spreadsheetId":"sid"}`))
			return
		}
		_, _ = w.Write([]byte(`{"spreadsheetId":"sid","updatedRange":"'2025 Dashboard'!A1:C14"}`))
	}))
	defer srv.Close()

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	c := NewWithService(svc, "sid", "", nil)

	snap := core.DashboardSnapshot{
		TotalAllTime:   decimal.RequireFromString("150"),
		MonthlySeries:  []core.SummaryPoint{{Label: "Jan 2025", Total: decimal.RequireFromString("150")}},
		WeeklySeries:   []core.SummaryPoint{},
		CategoryShares: []core.CategoryShare{},
		TopCategory:    core.NoneShare(),
	}
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	ref, err := c.Export(context.Background(), snap, at)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if ref != "'2025 Dashboard'!A1:C14" {
		t.Errorf("ref = %q", ref)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(calls))
	}
	if calls[0].method != http.MethodPost || !strings.HasSuffix(calls[0].path, ":clear") {
		t.Errorf("first call = %s %s, want clear", calls[0].method, calls[0].path)
	}
	if !strings.Contains(calls[0].path, "/spreadsheets/sid/values/") {
		t.Errorf("unexpected clear path %s", calls[0].path)
	}
	if calls[1].method != http.MethodPut {
		t.Errorf("second call method = %s, want PUT", calls[1].method)
	}
	if !strings.Contains(calls[1].query, "valueInputOption=USER_ENTERED") {
		t.Errorf("missing valueInputOption in %q", calls[1].query)
	}

	var vr struct {
		Values [][]interface{} `json:"values"`
	}
	if err := json.Unmarshal(calls[1].body, &vr); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(vr.Values) == 0 || vr.Values[0][0] != "Exported at" {
		t.Fatalf("unexpected first row: %v", vr.Values)
	}
	if vr.Values[1][1] != "150.00" {
		t.Errorf("total cell = %v, want 150.00", vr.Values[1][1])
	}
}

func TestClient_ExportPropagatesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"denied"}}`))
	}))
	defer srv.Close()

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	c := NewWithService(svc, "sid", "Stats", nil)

	_, err = c.Export(context.Background(), core.DashboardSnapshot{TopCategory: core.NoneShare()}, time.Now())
	if err == nil || !strings.Contains(err.Error(), "clear") {
		t.Fatalf("expected clear error, got %v", err)
	}
}
