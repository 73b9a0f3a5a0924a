package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gridmesh-network/gridmesh/internal/domain"
)

// ─── Network ────────────────────────────────────────────────────────────────

type initNetworkRequest struct {
	Authority string `json:"authority"`
}

func (s *Server) handleInitNetwork(w http.ResponseWriter, r *http.Request) {
	var req initNetworkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Authority == "" {
		writeError(w, http.StatusBadRequest, "authority is required")
		return
	}

	ns, err := s.registry.Initialize(req.Authority)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, ns)
}

func (s *Server) handleGetNetwork(w http.ResponseWriter, r *http.Request) {
	ns, err := s.registry.Network()
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ns)
}

// ─── Devices ────────────────────────────────────────────────────────────────

type registerDeviceRequest struct {
	DeviceID string             `json:"device_id"`
	Owner    string             `json:"owner"`
	Specs    domain.DeviceSpecs `json:"specs"`
}

func (s *Server) handleRegisterDevice(w http.ResponseWriter, r *http.Request) {
	var req registerDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.DeviceID == "" || req.Owner == "" {
		writeError(w, http.StatusBadRequest, "device_id and owner are required")
		return
	}

	dev, err := s.registry.RegisterDevice(req.DeviceID, req.Owner, req.Specs)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, dev)
}

func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := s.registry.ListDevices()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"devices": devices})
}

func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	dev, err := s.registry.Device(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dev)
}

type updateDeviceStatusRequest struct {
	Owner       string `json:"owner"`
	IsActive    bool   `json:"is_active"`
	CurrentLoad uint8  `json:"current_load"`
}

func (s *Server) handleUpdateDeviceStatus(w http.ResponseWriter, r *http.Request) {
	var req updateDeviceStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	dev, err := s.registry.UpdateDeviceStatus(chi.URLParam(r, "id"), req.Owner, req.IsActive, req.CurrentLoad)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dev)
}

// ─── Staking ────────────────────────────────────────────────────────────────

type stakeRequest struct {
	Owner  string `json:"owner"`
	Amount uint64 `json:"amount"`
}

func (s *Server) handleStake(w http.ResponseWriter, r *http.Request) {
	var req stakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	dev, err := s.staking.Stake(chi.URLParam(r, "id"), req.Owner, req.Amount)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dev)
}

func (s *Server) handleUnstake(w http.ResponseWriter, r *http.Request) {
	var req stakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	dev, err := s.staking.Unstake(chi.URLParam(r, "id"), req.Owner, req.Amount)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dev)
}

// ─── Tasks ──────────────────────────────────────────────────────────────────

type submitTaskRequest struct {
	TaskID       string                     `json:"task_id"`
	Submitter    string                     `json:"submitter"`
	Type         domain.TaskType            `json:"type"`
	Requirements domain.ComputeRequirements `json:"requirements"`
	RewardAmount uint64                     `json:"reward_amount"`
}

func (s *Server) handleSubmitTask(w http.ResponseWriter, r *http.Request) {
	var req submitTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.TaskID == "" || req.Submitter == "" {
		writeError(w, http.StatusBadRequest, "task_id and submitter are required")
		return
	}

	task, err := s.lifecycle.Submit(req.TaskID, req.Submitter, req.Type, req.Requirements, req.RewardAmount)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	status := domain.TaskStatus(r.URL.Query().Get("status"))
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	tasks, err := s.lifecycle.ListTasks(status, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tasks": tasks})
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.lifecycle.Task(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, task)
}

type assignTaskRequest struct {
	DeviceID string `json:"device_id"`
}

func (s *Server) handleAssignTask(w http.ResponseWriter, r *http.Request) {
	var req assignTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.DeviceID == "" {
		writeError(w, http.StatusBadRequest, "device_id is required")
		return
	}

	task, err := s.lifecycle.Assign(chi.URLParam(r, "id"), req.DeviceID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, task)
}

type completeTaskRequest struct {
	DeviceID   string `json:"device_id"`
	ResultHash string `json:"result_hash"`
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	var req completeTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.DeviceID == "" {
		writeError(w, http.StatusBadRequest, "device_id is required")
		return
	}

	task, err := s.lifecycle.Complete(chi.URLParam(r, "id"), req.DeviceID, req.ResultHash)
	if err != nil {
		// The expired transition commits before the error is reported;
		// return the failed task alongside the error status.
		if errors.Is(err, domain.ErrTaskExpired) && task != nil {
			writeJSON(w, http.StatusGone, map[string]interface{}{
				"error": map[string]interface{}{
					"message": err.Error(),
					"type":    "error",
				},
				"task": task,
			})
			return
		}
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, task)
}

type verifyTaskRequest struct {
	VerifierID string `json:"verifier_id"`
	Valid      bool   `json:"valid"`
}

func (s *Server) handleVerifyTask(w http.ResponseWriter, r *http.Request) {
	var req verifyTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.VerifierID == "" {
		writeError(w, http.StatusBadRequest, "verifier_id is required")
		return
	}

	task, err := s.consensus.Verify(chi.URLParam(r, "id"), req.VerifierID, req.Valid)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// ─── Ledger ─────────────────────────────────────────────────────────────────

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	balance, err := s.ledger.Balance(account)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	entries, err := s.ledger.History(account, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"account": account,
		"balance": balance,
		"entries": entries,
	})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNetworkExists),
		errors.Is(err, domain.ErrDeviceExists),
		errors.Is(err, domain.ErrTaskExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNetworkNotInitialized),
		errors.Is(err, domain.ErrDeviceNotFound),
		errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotDeviceOwner):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrTaskNotPending),
		errors.Is(err, domain.ErrDeviceNotActive),
		errors.Is(err, domain.ErrTaskNotAssigned),
		errors.Is(err, domain.ErrDeviceNotAssigned),
		errors.Is(err, domain.ErrTaskNotCompleted):
		return http.StatusConflict
	case errors.Is(err, domain.ErrTaskExpired):
		return http.StatusGone
	case errors.Is(err, domain.ErrInsufficientCapabilities),
		errors.Is(err, domain.ErrInsufficientTier),
		errors.Is(err, domain.ErrInsufficientStake),
		errors.Is(err, domain.ErrStakingPeriodNotMet),
		errors.Is(err, domain.ErrInsufficientReputation),
		errors.Is(err, domain.ErrMathOverflow):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
