package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andresuchdata/furnicast/backend-go/internal/domain"
	"github.com/andresuchdata/furnicast/backend-go/internal/drive"
	"github.com/andresuchdata/furnicast/backend-go/internal/ledger"
	"github.com/andresuchdata/furnicast/backend-go/internal/pipeline/forecast"
	"github.com/andresuchdata/furnicast/backend-go/internal/repository/memory"
	"github.com/andresuchdata/furnicast/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

const workshopDir = "../ledger/testdata/workshop"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ledgers := memory.NewLedgerRepository()
	forecasts := memory.NewForecastRepository()
	p := forecast.NewForecastPipeline(forecast.DefaultConfig(), forecast.Repositories{
		Outputs:      ledgers,
		Transactions: ledgers,
		BOMs:         ledgers,
		Materials:    ledgers,
		Forecasts:    forecasts,
	})

	return NewRouter(&Services{
		ForecastService: service.NewForecastService(forecasts, p, nil, nil),
		LedgerService:   service.NewLedgerService(ledgers, nil, t.TempDir()),
	}, []string{"*"})
}

func do(router *gin.Engine, method, target string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func uploadWorkshop(t *testing.T, router *gin.Engine) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for _, name := range append(ledger.Files, "README.txt") {
		content, err := os.ReadFile(filepath.Join(workshopDir, name))
		if os.IsNotExist(err) {
			content = []byte("not a ledger")
		} else if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		part, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		part.Write(content)
	}
	mw.Close()

	return do(router, http.MethodPost, "/api/v1/ledgers/upload", body, mw.FormDataContentType())
}

func TestHealth(t *testing.T) {
	w := do(newTestRouter(t), http.MethodGet, "/health", nil, "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("unexpected health response %d: %s", w.Code, w.Body.String())
	}
}

func TestUploadRunAndQuery(t *testing.T) {
	router := newTestRouter(t)

	w := uploadWorkshop(t, router)
	if w.Code != http.StatusOK {
		t.Fatalf("upload: %d %s", w.Code, w.Body.String())
	}
	var imported struct {
		Materials    int      `json:"materials"`
		Transactions int      `json:"transactions"`
		Ignored      []string `json:"ignored_files"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &imported); err != nil {
		t.Fatalf("decode upload: %v", err)
	}
	if imported.Materials != 3 || imported.Transactions != 4 || len(imported.Ignored) != 1 {
		t.Fatalf("unexpected upload result: %+v", imported)
	}

	w = do(router, http.MethodPost, "/api/v1/forecasts/run?as_of=2024-01-05", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("run: %d %s", w.Code, w.Body.String())
	}
	var ran struct {
		Run struct {
			Status    string `json:"status"`
			Generated int    `json:"generated"`
		} `json:"run"`
		Summary struct {
			Skipped int `json:"skipped"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &ran); err != nil {
		t.Fatalf("decode run: %v", err)
	}
	if ran.Run.Status != "completed" || ran.Run.Generated != 2 || ran.Summary.Skipped != 1 {
		t.Fatalf("unexpected run response: %s", w.Body.String())
	}

	w = do(router, http.MethodGet, "/api/v1/forecasts?status=Out%20of%20Stock", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("items: %d %s", w.Code, w.Body.String())
	}
	var items domain.ForecastItemsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode items: %v", err)
	}
	if items.Total != 1 || items.Items[0].MaterialID != 2 || items.TotalPages != 1 {
		t.Fatalf("unexpected items: %+v", items)
	}

	w = do(router, http.MethodGet, "/api/v1/forecasts/summary", nil, "")
	var summary domain.ForecastSummary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Total != 2 || len(summary.StatusCounts) == 0 || summary.StatusCounts[0].Label != "Out of Stock" {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	w = do(router, http.MethodGet, "/api/v1/forecasts/materials/1", nil, "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"material_name":"Oak Plank"`) {
		t.Fatalf("material: %d %s", w.Code, w.Body.String())
	}

	w = do(router, http.MethodGet, "/api/v1/forecasts/materials/1/history", nil, "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"material_id":1`) {
		t.Fatalf("history: %d %s", w.Code, w.Body.String())
	}

	w = do(router, http.MethodGet, "/api/v1/forecasts/export", nil, "")
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "text/csv" {
		t.Fatalf("export: %d %s", w.Code, w.Header().Get("Content-Type"))
	}
	if lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n"); len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines", len(lines))
	}
}

func TestForecastErrors(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		target string
		want   int
	}{
		{"unknown status", http.MethodGet, "/api/v1/forecasts?status=plenty", http.StatusBadRequest},
		{"bad material ids", http.MethodGet, "/api/v1/forecasts?material_ids=1,x", http.StatusBadRequest},
		{"bad needs_reorder", http.MethodGet, "/api/v1/forecasts/summary?needs_reorder=maybe", http.StatusBadRequest},
		{"bad material id", http.MethodGet, "/api/v1/forecasts/materials/abc", http.StatusBadRequest},
		{"no active forecast", http.MethodGet, "/api/v1/forecasts/materials/42", http.StatusNotFound},
		{"bad as_of", http.MethodPost, "/api/v1/forecasts/run?as_of=05/01/2024", http.StatusBadRequest},
		{"no run history", http.MethodGet, "/api/v1/forecasts/runs/latest", http.StatusNotFound},
		{"drive not configured", http.MethodPost, "/api/v1/ledgers/drive?folder_id=abc", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, tt.method, tt.target, nil, "")
			if w.Code != tt.want {
				t.Fatalf("%s %s: got %d, want %d (%s)", tt.method, tt.target, w.Code, tt.want, w.Body.String())
			}
		})
	}
}

type stubBrowser struct{}

func (stubBrowser) ListFiles(ctx context.Context, folderID string) ([]drive.File, error) {
	return []drive.File{{ID: "f1", Name: folderID + ".csv"}, {ID: "f2", Name: "Production_Outputs.xlsx"}}, nil
}

func (stubBrowser) DownloadFile(ctx context.Context, fileID string, w io.Writer) error {
	_, err := fmt.Fprintf(w, "contents of %s", fileID)
	return err
}

func (stubBrowser) FindFolderByPath(ctx context.Context, path string) (string, error) {
	return "", fmt.Errorf("folder not found: %s", path)
}

func TestDriveRoutesMounted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(&Services{
		DriveHandler: drive.NewHandler(stubBrowser{}, "bom"),
	}, nil)

	w := do(router, http.MethodGet, "/api/v1/drive/files", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"ledger":"bom.csv"`) || !strings.Contains(w.Body.String(), `"ledger":"production_outputs.csv"`) {
		t.Fatalf("expected ledger detection in %s", w.Body.String())
	}

	w = do(router, http.MethodGet, "/api/v1/drive/files/f1/download", nil, "")
	if w.Code != http.StatusOK || w.Body.String() != "contents of f1" {
		t.Fatalf("unexpected download %d: %s", w.Code, w.Body.String())
	}

	w = do(router, http.MethodGet, "/api/v1/drive/files?path=nowhere", nil, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestNormalizeAllowedOrigins(t *testing.T) {
	origins, allowAll := normalizeAllowedOrigins([]string{"https://a.example, https://b.example", " "})
	if allowAll || len(origins) != 2 || origins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v (allowAll=%v)", origins, allowAll)
	}

	if _, allowAll := normalizeAllowedOrigins([]string{"*"}); !allowAll {
		t.Fatalf("expected * to allow every origin")
	}
}
