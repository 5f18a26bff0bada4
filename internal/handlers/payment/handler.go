package payment

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/urbanserve/payments/internal/domain"
	paymentservice "github.com/urbanserve/payments/internal/services/payment"
	"github.com/urbanserve/payments/pkg/observability"
)

// Handler exposes the payment lifecycle over HTTP: a JSON API for initiate
// and status, and browser-facing HTML responses for the gateway callback and
// cancellation redirects.
type Handler struct {
	service   *paymentservice.Service
	responder *RedirectResponder
	logger    *zap.Logger
}

// NewHandler creates a payment HTTP handler
func NewHandler(service *paymentservice.Service, responder *RedirectResponder, logger *zap.Logger) *Handler {
	return &Handler{
		service:   service,
		responder: responder,
		logger:    logger,
	}
}

// Register mounts the payment routes on the mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/payments/initiate", h.Initiate)
	mux.HandleFunc("/api/v1/payments/callback", h.Callback)
	mux.HandleFunc("GET /api/v1/payments/cancel", h.Cancel)
	mux.HandleFunc("GET /api/v1/payments/status/{orderId}", h.Status)
}

type initiateRequest struct {
	OrderID string `json:"orderId"`
}

type initiateResponse struct {
	PaymentURL      string          `json:"paymentUrl"`
	PaymentFormData paymentFormData `json:"paymentFormData"`
	OrderID         string          `json:"orderId"`
	Amount          string          `json:"amount"`
	Currency        string          `json:"currency"`
}

type paymentFormData struct {
	EncRequest string `json:"encRequest"`
	AccessCode string `json:"access_code"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Initiate handles POST /api/v1/payments/initiate
func (h *Handler) Initiate(w http.ResponseWriter, r *http.Request) {
	var req initiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, domain.WrapError(domain.ErrorCodeInvalidOrderID, "malformed request body", err))
		return
	}

	resp, err := h.service.Initiate(r.Context(), req.OrderID)
	if err != nil {
		observability.RecordInitiation("rejected")
		h.writeError(w, err)
		return
	}
	observability.RecordInitiation("accepted")

	h.writeJSON(w, http.StatusOK, initiateResponse{
		PaymentURL: resp.PaymentURL,
		PaymentFormData: paymentFormData{
			EncRequest: resp.EncRequest,
			AccessCode: resp.AccessCode,
		},
		OrderID:  resp.OrderID,
		Amount:   resp.Amount.StringFixed(2),
		Currency: resp.Currency,
	})
}

// Callback handles POST|GET /api/v1/payments/callback. The caller is the
// gateway driving the user's browser, so every failure path still answers
// with a redirect page; returning an HTTP error here would leave the browser
// stranded and the gateway retrying indefinitely.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	callbackID := uuid.New().String()

	if err := r.ParseForm(); err != nil {
		h.logger.Error("failed to parse callback form",
			zap.String("callback_id", callbackID),
			zap.Error(err),
		)
		observability.RecordCallback("parse_error")
		h.responder.Failure(w, "", "invalid_callback")
		return
	}

	encResponse := r.Form.Get("encResponse")
	if encResponse == "" {
		h.logger.Warn("callback without encResponse",
			zap.String("callback_id", callbackID),
			zap.Int("form_values", len(r.Form)),
		)
		observability.RecordCallback("missing_payload")
		h.responder.Failure(w, "", "missing_payload")
		return
	}

	outcome, err := h.service.HandleCallback(r.Context(), encResponse)
	if err != nil {
		h.logger.Error("failed to decode callback payload",
			zap.String("callback_id", callbackID),
			zap.String("error_code", string(domain.GetErrorCode(err))),
			zap.Error(err),
		)
		observability.RecordCallback("decode_error")
		h.responder.Failure(w, "", "invalid_callback")
		return
	}

	observability.RecordCallback(string(outcome.Outcome))

	h.logger.Info("callback reconciled",
		zap.String("callback_id", callbackID),
		zap.String("order_id", outcome.OrderID),
		zap.String("outcome", string(outcome.Outcome)),
		zap.String("status", string(outcome.Status)),
	)

	switch outcome.Outcome {
	case paymentservice.OutcomeApplied:
		if outcome.Status == domain.PaymentStatusSuccess {
			h.responder.Success(w, outcome.OrderID)
		} else {
			h.responder.Failure(w, outcome.OrderID, outcome.Reason)
		}
	case paymentservice.OutcomeAlreadyFinal:
		h.responder.Success(w, outcome.OrderID)
	default:
		// no-op callbacks, unknown orders and store failures all land on the
		// failure page; the reason tells the client page which it was
		h.responder.Failure(w, outcome.OrderID, outcome.Reason)
	}
}

// Cancel handles GET /api/v1/payments/cancel?orderId=...
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("orderId")

	err := h.service.Cancel(r.Context(), orderID)
	if err != nil {
		h.logger.Warn("cancellation failed",
			zap.String("order_id", orderID),
			zap.String("error_code", string(domain.GetErrorCode(err))),
		)
		observability.RecordCancellation("rejected")
		// The caller is still a browser mid-payment; land it somewhere sensible
		h.responder.Failure(w, orderID, "cancellation_failed")
		return
	}

	observability.RecordCancellation("cancelled")
	h.responder.Cancelled(w, orderID)
}

// Status handles GET /api/v1/payments/status/{orderId}
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("orderId")

	resp, err := h.service.GetStatus(r.Context(), orderID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := domain.GetErrorCode(err)
	message := "internal server error"

	switch {
	case domain.IsValidationError(err), domain.IsConflictError(err):
		status = http.StatusBadRequest
		message = err.Error()
	case domain.IsNotFoundError(err):
		status = http.StatusNotFound
		message = err.Error()
	case domain.IsCryptoError(err):
		// never leak payload or key material
		message = "payment processing error"
	default:
		h.logger.Error("unhandled error", zap.Error(err))
	}

	h.writeJSON(w, status, errorResponse{
		Code:    string(code),
		Message: message,
	})
}
