package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

type fakeBrowser struct {
	*fakeSource
	folders map[string]string
}

func (b *fakeBrowser) FindFolderByPath(ctx context.Context, path string) (string, error) {
	id, ok := b.folders[path]
	if !ok {
		return "", fmt.Errorf("folder not found: %s", path)
	}
	return id, nil
}

func newTestHandlerRouter() *mux.Router {
	browser := &fakeBrowser{
		fakeSource: &fakeSource{
			files: []File{
				{ID: "a", Name: "materials.csv"},
				{ID: "b", Name: "notes.txt"},
			},
			contents: map[string][]byte{"a": []byte("id,name,current_stock\n")},
		},
		folders: map[string]string{"ledgers/2024": "folder-2024"},
	}

	router := mux.NewRouter()
	NewHandler(browser, "default-folder").RegisterRoutes(router)
	return router
}

func TestHandler_ListFiles(t *testing.T) {
	router := newTestHandlerRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/drive/files?path=ledgers/2024", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		FolderID string       `json:"folder_id"`
		Files    []listedFile `json:"files"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.FolderID != "folder-2024" || len(body.Files) != 2 {
		t.Fatalf("unexpected body: %+v", body)
	}
	if body.Files[0].Ledger != "materials.csv" || body.Files[1].Ledger != "" {
		t.Fatalf("unexpected ledger detection: %+v", body.Files)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/drive/files?path=missing", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown path, got %d", w.Code)
	}
}

func TestHandler_DownloadFile(t *testing.T) {
	router := newTestHandlerRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/drive/files/a/download", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "id,name,current_stock\n" {
		t.Fatalf("unexpected download %d: %q", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/drive/files/zzz/download", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 for a failed download, got %d", w.Code)
	}
}
