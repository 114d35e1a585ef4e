package reconcile

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/modsync/modsync/internal/fingerprint"
	"github.com/modsync/modsync/internal/modmeta"
	"github.com/modsync/modsync/internal/modrinth"
	"github.com/modsync/modsync/internal/replace"
)

// fakeModrinth serves the registry endpoints from in-memory tables.
type fakeModrinth struct {
	mu        sync.Mutex
	byHash    map[string]modrinth.Version
	files     map[string][]byte
	failFiles map[string]bool
	server    *httptest.Server
}

func newFakeModrinth(t *testing.T) *fakeModrinth {
	t.Helper()
	f := &fakeModrinth{
		byHash:    make(map[string]modrinth.Version),
		files:     make(map[string][]byte),
		failFiles: make(map[string]bool),
	}

	r := chi.NewRouter()
	r.Post("/version_file/{hash}/update", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		v, ok := f.byHash[chi.URLParam(req, "hash")]
		f.mu.Unlock()
		if !ok {
			http.NotFound(w, req)
			return
		}
		json.NewEncoder(w).Encode(v)
	})
	r.Get("/project/{id}/version", func(w http.ResponseWriter, req *http.Request) {
		http.NotFound(w, req)
	})
	r.Get("/search", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"hits":[],"total_hits":0}`))
	})
	r.Get("/files/{name}", func(w http.ResponseWriter, req *http.Request) {
		name := chi.URLParam(req, "name")
		f.mu.Lock()
		data, ok := f.files[name]
		fail := f.failFiles[name]
		f.mu.Unlock()
		if fail {
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
		if !ok {
			http.NotFound(w, req)
			return
		}
		w.Write(data)
	})

	f.server = httptest.NewServer(r)
	t.Cleanup(f.server.Close)
	return f
}

// publish registers a release: any installed file whose content hashes to
// one of fromContents resolves to a version whose primary file is name.
func (f *fakeModrinth) publish(name string, content []byte, fromContents ...[]byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := modrinth.Version{
		ID:        "v-" + name,
		ProjectID: "p-" + name,
		Files: []modrinth.File{{
			Filename: name,
			URL:      f.server.URL + "/files/" + name,
			Primary:  true,
			Hashes:   modrinth.Hashes{SHA512: fingerprint.Bytes(content)},
		}},
	}
	f.files[name] = content
	for _, c := range append(fromContents, content) {
		f.byHash[fingerprint.Bytes(c)] = v
	}
}

func (f *fakeModrinth) reconciler(t *testing.T, dir string) *Reconciler {
	t.Helper()
	cfg := testConfig(dir)
	client := modrinth.New(cfg.Target, modrinth.WithBaseURL(f.server.URL), modrinth.WithHTTPClient(f.server.Client()))
	return New(cfg, client, modmeta.Extractor{}, replace.New(cfg.ModsDir, cfg.BackupDir, client))
}

// jarBytes builds a minimal jar; a non-empty id adds a fabric.mod.json.
func jarBytes(t *testing.T, id, marker string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if id != "" {
		w, _ := zw.Create("fabric.mod.json")
		w.Write([]byte(`{"schemaVersion":1,"id":"` + id + `"}`))
	}
	w, _ := zw.Create("marker.txt")
	w.Write([]byte(marker))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func statuses(report *Report) map[string]Status {
	out := make(map[string]Status, len(report.Results))
	for _, r := range report.Results {
		out[r.Artifact.Name] = r.Status()
	}
	return out
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return data
}

func TestPipeline_Scenarios(t *testing.T) {
	fake := newFakeModrinth(t)
	dir := t.TempDir()

	modA := jarBytes(t, "moda", "A 1.0")
	modB1 := jarBytes(t, "modb", "B 1.0")
	modB2 := jarBytes(t, "modb", "B 2.0")
	unknown := jarBytes(t, "", "who knows")

	os.WriteFile(filepath.Join(dir, "modA-1.0.jar"), modA, 0644)
	os.WriteFile(filepath.Join(dir, "modB-1.0.jar"), modB1, 0644)
	os.WriteFile(filepath.Join(dir, "unknown.jar"), unknown, 0644)

	fake.publish("modA-1.0.jar", modA)
	fake.publish("modB-2.0.jar", modB2, modB1)

	report, err := fake.reconciler(t, dir).Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := map[string]Status{
		"modA-1.0.jar": StatusUpToDate,
		"modB-1.0.jar": StatusUpdated,
		"unknown.jar":  StatusUnresolved,
	}
	got := statuses(report)
	for name, status := range want {
		if got[name] != status {
			t.Errorf("%s: status = %s, want %s", name, got[name], status)
		}
	}

	// modA untouched.
	if !bytes.Equal(mustRead(t, filepath.Join(dir, "modA-1.0.jar")), modA) {
		t.Error("modA-1.0.jar was modified")
	}
	// modB moved to backup and replaced.
	if _, err := os.Stat(filepath.Join(dir, "modB-1.0.jar")); !os.IsNotExist(err) {
		t.Error("modB-1.0.jar still in mods dir")
	}
	if !bytes.Equal(mustRead(t, filepath.Join(dir, "backup", "modB-1.0.jar")), modB1) {
		t.Error("backup of modB-1.0.jar does not match the original")
	}
	if !bytes.Equal(mustRead(t, filepath.Join(dir, "modB-2.0.jar")), modB2) {
		t.Error("modB-2.0.jar does not hold the downloaded bytes")
	}
	// unknown untouched.
	if !bytes.Equal(mustRead(t, filepath.Join(dir, "unknown.jar")), unknown) {
		t.Error("unknown.jar was modified")
	}

	// Second run with no registry changes: everything updated is now current.
	second, err := fake.reconciler(t, dir).Run()
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	got = statuses(second)
	if got["modB-2.0.jar"] != StatusUpToDate {
		t.Errorf("second run: modB-2.0.jar status = %s, want up_to_date", got["modB-2.0.jar"])
	}
	if got["modA-1.0.jar"] != StatusUpToDate {
		t.Errorf("second run: modA-1.0.jar status = %s", got["modA-1.0.jar"])
	}
	if len(second.Results) != 3 {
		t.Errorf("second run saw %d artifacts, want 3 (backup dir must not be scanned)", len(second.Results))
	}
}

func TestPipeline_DownloadFailureKeepsBackup(t *testing.T) {
	fake := newFakeModrinth(t)
	dir := t.TempDir()

	modB1 := jarBytes(t, "modb", "B 1.0")
	modB2 := jarBytes(t, "modb", "B 2.0")
	os.WriteFile(filepath.Join(dir, "modB-1.0.jar"), modB1, 0644)

	fake.publish("modB-2.0.jar", modB2, modB1)
	fake.failFiles["modB-2.0.jar"] = true

	report, err := fake.reconciler(t, dir).Run()
	if err != nil {
		t.Fatalf("Run should not fail on a per-artifact error: %v", err)
	}

	res := report.Results[0]
	if res.Status() != StatusUpdateFailed {
		t.Fatalf("status = %s, want update_failed", res.Status())
	}
	backup := filepath.Join(dir, "backup", "modB-1.0.jar")
	if res.BackupPath != backup {
		t.Errorf("BackupPath = %q, want %q", res.BackupPath, backup)
	}
	if !bytes.Equal(mustRead(t, backup), modB1) {
		t.Error("backup content differs from the pre-run original")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			t.Errorf("mods dir should hold no files after a failed download, found %s", e.Name())
		}
	}
}

func TestPipeline_NoCompatibleRelease(t *testing.T) {
	fake := newFakeModrinth(t)
	dir := t.TempDir()

	content := jarBytes(t, "orphan", "1.0")
	path := filepath.Join(dir, "orphan-1.0.jar")
	os.WriteFile(path, content, 0644)

	report, err := fake.reconciler(t, dir).Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := report.Results[0].Status(); got != StatusUnresolved {
		t.Errorf("status = %s, want unresolved", got)
	}
	if !bytes.Equal(mustRead(t, path), content) {
		t.Error("artifact changed")
	}
}
