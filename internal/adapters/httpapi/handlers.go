package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bnema/paymail/internal/application"
	"github.com/bnema/paymail/internal/domain"
)

const maxBodyBytes = 10 << 20

type sendResponse struct {
	Success      bool                 `json:"success"`
	Message      string               `json:"message"`
	MessageID    string               `json:"messageId"`
	Method       domain.Method        `json:"method"`
	Account      string               `json:"account"`
	AccountIndex int                  `json:"accountIndex"`
	Usage        int                  `json:"usage"`
	Limit        int                  `json:"limit"`
	LogEntry     domain.EmailLogEntry `json:"logEntry"`
}

type logResponse struct {
	Success bool `json:"success"`
	application.LogView
	CurrentSender string `json:"currentSender"`
}

type accountsResponse struct {
	Success            bool                        `json:"success"`
	Accounts           []application.AccountStatus `json:"accounts"`
	TotalAccounts      int                         `json:"totalAccounts"`
	TotalDailyCapacity int                         `json:"totalDailyCapacity"`
	Timestamp          time.Time                   `json:"timestamp"`
}

type senderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	application.SenderConfigView
}

func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *Handler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var req application.DispatchRequest
	if !h.decode(w, r, &req) {
		return
	}

	notification, err := h.notifier.Notify(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result := notification.Result
	message := fmt.Sprintf("Payment confirmation sent to %s", req.Email)
	if result.Method == domain.MethodSimulated {
		message = fmt.Sprintf("Payment confirmation to %s simulated (no network delivery)", req.Email)
	}

	writeJSON(w, http.StatusOK, sendResponse{
		Success:      true,
		Message:      message,
		MessageID:    result.MessageID,
		Method:       result.Method,
		Account:      result.AccountName,
		AccountIndex: result.AccountIndex,
		Usage:        result.UsageAfter,
		Limit:        result.Quota,
		LogEntry:     notification.Entry,
	})
}

func (h *Handler) EmailLog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, logResponse{
		Success:       true,
		LogView:       h.notifier.Log().View(),
		CurrentSender: h.sender.CurrentSender(),
	})
}

func (h *Handler) AccountsStatus(w http.ResponseWriter, _ *http.Request) {
	report := h.pool.StatusReport()
	capacity := 0
	for _, status := range report {
		capacity += status.Limit
	}

	writeJSON(w, http.StatusOK, accountsResponse{
		Success:            true,
		Accounts:           report,
		TotalAccounts:      len(report),
		TotalDailyCapacity: capacity,
		Timestamp:          h.clock.Now().UTC(),
	})
}

func (h *Handler) GetSenderConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, senderResponse{Success: true, SenderConfigView: h.sender.Current()})
}

func (h *Handler) UpdateSenderConfig(w http.ResponseWriter, r *http.Request) {
	var input application.SenderConfigInput
	if !h.decode(w, r, &input) {
		return
	}

	view, err := h.sender.Update(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, senderResponse{
		Success:          true,
		Message:          "Sender configuration updated successfully",
		SenderConfigView: view,
	})
}

func (h *Handler) TestConnection(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.sender.CheckConnection())
}

func (h *Handler) MonitorControl(w http.ResponseWriter, r *http.Request) {
	var req application.ControlRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.controller.Handle(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// decode reads a JSON body, answering 400 itself for empty or malformed
// bodies. Field-level decode failures that are validation errors keep
// their message.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, r, fmt.Errorf("read request body: %w", err))
		return false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		writeFailure(w, http.StatusBadRequest, "Empty request body")
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		if statusFor(err) == http.StatusBadRequest {
			writeFailure(w, http.StatusBadRequest, err.Error())
			return false
		}
		writeFailure(w, http.StatusBadRequest, "Invalid JSON in request body")
		return false
	}

	return true
}
