package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gridmesh-network/gridmesh/internal/app/consensus"
	"github.com/gridmesh-network/gridmesh/internal/app/escrow"
	"github.com/gridmesh-network/gridmesh/internal/app/lifecycle"
	"github.com/gridmesh-network/gridmesh/internal/app/registry"
	"github.com/gridmesh-network/gridmesh/internal/app/staking"
	"github.com/gridmesh-network/gridmesh/internal/infra/sqlite"
)

func newTestServer(t *testing.T) (*Server, *sqlite.DB) {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("Open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	srv := NewServer(
		registry.NewService(db),
		staking.NewEngine(db),
		lifecycle.NewMachine(db),
		consensus.NewEngine(db),
		escrow.NewLedger(db),
		nil, // No background health checker in unit tests
	)
	return srv, db
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestAPI_Health(t *testing.T) {
	srv, _ := newTestServer(t)
	w := doJSON(t, srv.Handler(), "GET", "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestAPI_NetworkLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	// Not initialized yet
	w := doJSON(t, h, "GET", "/api/network", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("GET before init: status = %d, want 404", w.Code)
	}

	w = doJSON(t, h, "POST", "/api/network", map[string]string{"authority": "authority-1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("init: status = %d, want 201 (%s)", w.Code, w.Body.String())
	}

	// Second init conflicts
	w = doJSON(t, h, "POST", "/api/network", map[string]string{"authority": "authority-2"})
	if w.Code != http.StatusConflict {
		t.Errorf("re-init: status = %d, want 409", w.Code)
	}

	w = doJSON(t, h, "GET", "/api/network", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET: status = %d, want 200", w.Code)
	}
	var ns struct {
		Authority string `json:"authority"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &ns); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ns.Authority != "authority-1" {
		t.Errorf("authority = %q, want authority-1", ns.Authority)
	}
}

func TestAPI_RegisterAndGetDevice(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	doJSON(t, h, "POST", "/api/network", map[string]string{"authority": "a"})

	w := doJSON(t, h, "POST", "/api/devices", map[string]interface{}{
		"device_id": "dev-1",
		"owner":     "alice",
		"specs": map[string]interface{}{
			"cpu_cores": 4, "ram_gb": 8, "storage_gb": 100, "gpu_available": true,
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status = %d (%s)", w.Code, w.Body.String())
	}

	w = doJSON(t, h, "GET", "/api/devices/dev-1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: status = %d", w.Code)
	}
	var dev struct {
		Tier            string `json:"tier"`
		ReputationScore uint16 `json:"reputation_score"`
	}
	json.Unmarshal(w.Body.Bytes(), &dev)
	if dev.Tier != "BRONZE" || dev.ReputationScore != 100 {
		t.Errorf("device = %+v, want BRONZE/100", dev)
	}

	// Missing device
	w = doJSON(t, h, "GET", "/api/devices/ghost", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing: status = %d, want 404", w.Code)
	}
}

func TestAPI_StakeRaisesTier(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	doJSON(t, h, "POST", "/api/network", map[string]string{"authority": "a"})
	doJSON(t, h, "POST", "/api/devices", map[string]interface{}{
		"device_id": "dev-1", "owner": "alice",
		"specs": map[string]interface{}{"cpu_cores": 4, "ram_gb": 8, "storage_gb": 100},
	})

	w := doJSON(t, h, "POST", "/api/devices/dev-1/stake", map[string]interface{}{
		"owner": "alice", "amount": 6_000,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("stake: status = %d (%s)", w.Code, w.Body.String())
	}
	var dev struct {
		Tier string `json:"tier"`
	}
	json.Unmarshal(w.Body.Bytes(), &dev)
	if dev.Tier != "GOLD" {
		t.Errorf("tier = %s, want GOLD", dev.Tier)
	}

	// Wrong owner forbidden
	w = doJSON(t, h, "POST", "/api/devices/dev-1/stake", map[string]interface{}{
		"owner": "mallory", "amount": 100,
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("wrong owner: status = %d, want 403", w.Code)
	}

	// Unstake before lock fails validation
	w = doJSON(t, h, "POST", "/api/devices/dev-1/unstake", map[string]interface{}{
		"owner": "alice", "amount": 100,
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("early unstake: status = %d, want 422", w.Code)
	}
}

func TestAPI_TaskFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	doJSON(t, h, "POST", "/api/network", map[string]string{"authority": "a"})
	doJSON(t, h, "POST", "/api/devices", map[string]interface{}{
		"device_id": "dev-1", "owner": "bob",
		"specs": map[string]interface{}{"cpu_cores": 4, "ram_gb": 8, "storage_gb": 100},
	})

	w := doJSON(t, h, "POST", "/api/tasks", map[string]interface{}{
		"task_id":   "task-1",
		"submitter": "client",
		"type":      "DATA_PROCESSING",
		"requirements": map[string]interface{}{
			"cpu_cores_required": 2, "ram_gb_required": 4,
			"storage_gb_required": 10, "estimated_duration": 100,
		},
		"reward_amount": 1_000,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("submit: status = %d (%s)", w.Code, w.Body.String())
	}

	w = doJSON(t, h, "POST", "/api/tasks/task-1/assign", map[string]string{"device_id": "dev-1"})
	if w.Code != http.StatusOK {
		t.Fatalf("assign: status = %d (%s)", w.Code, w.Body.String())
	}

	w = doJSON(t, h, "POST", "/api/tasks/task-1/complete", map[string]string{
		"device_id": "dev-1", "result_hash": "abc",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("complete: status = %d (%s)", w.Code, w.Body.String())
	}
	var task struct {
		Status string `json:"status"`
	}
	json.Unmarshal(w.Body.Bytes(), &task)
	if task.Status != "COMPLETED" {
		t.Errorf("status = %s, want COMPLETED", task.Status)
	}

	// Escrowed reward moved to bob (early finish bonus applies)
	w = doJSON(t, h, "GET", "/api/ledger/bob", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("ledger: status = %d", w.Code)
	}
	var ledger struct {
		Balance int64 `json:"balance"`
	}
	json.Unmarshal(w.Body.Bytes(), &ledger)
	if ledger.Balance != 1_100 {
		t.Errorf("bob balance = %d, want 1100", ledger.Balance)
	}
}

func TestAPI_VerifyQuorum(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	doJSON(t, h, "POST", "/api/network", map[string]string{"authority": "a"})
	for _, id := range []string{"dev-1", "v1", "v2", "v3"} {
		doJSON(t, h, "POST", "/api/devices", map[string]interface{}{
			"device_id": id, "owner": "owner-" + id,
			"specs": map[string]interface{}{"cpu_cores": 4, "ram_gb": 8, "storage_gb": 100},
		})
	}
	doJSON(t, h, "POST", "/api/tasks", map[string]interface{}{
		"task_id": "task-1", "submitter": "client", "type": "DATA_PROCESSING",
		"requirements": map[string]interface{}{
			"cpu_cores_required": 1, "ram_gb_required": 1,
			"storage_gb_required": 1, "estimated_duration": 100,
		},
		"reward_amount": 100,
	})
	doJSON(t, h, "POST", "/api/tasks/task-1/assign", map[string]string{"device_id": "dev-1"})
	doJSON(t, h, "POST", "/api/tasks/task-1/complete", map[string]string{"device_id": "dev-1"})

	for _, v := range []string{"v1", "v2"} {
		w := doJSON(t, h, "POST", "/api/tasks/task-1/verify", map[string]interface{}{
			"verifier_id": v, "valid": true,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("verify %s: status = %d (%s)", v, w.Code, w.Body.String())
		}
	}
	w := doJSON(t, h, "POST", "/api/tasks/task-1/verify", map[string]interface{}{
		"verifier_id": "v3", "valid": false,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("verify v3: status = %d", w.Code)
	}
	var task struct {
		IsVerified bool `json:"is_verified"`
		Finalized  bool `json:"finalized"`
	}
	json.Unmarshal(w.Body.Bytes(), &task)
	if !task.Finalized || !task.IsVerified {
		t.Errorf("task = %+v, want finalized and verified", task)
	}
}

func TestAPI_BadJSON(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	req := httptest.NewRequest("POST", "/api/tasks", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
