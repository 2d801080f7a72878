package webhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/tuannda/membership-payments/internal"
	"github.com/tuannda/membership-payments/internal/core/datamodel/order"
	"github.com/tuannda/membership-payments/internal/transport"
)

// ServiceAPI is what the HTTP layer needs from the webhook pipeline.
type ServiceAPI interface {
	Process(ctx context.Context, provider string, payload *GatewayPayload, raw json.RawMessage) (*Result, error)
	GetOrderByCode(code string) (*order.PaymentOrder, error)
}

type Handler struct {
	*transport.BaseHandler
	service ServiceAPI
	logger  *slog.Logger
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		service:     service,
		logger:      logger,
	}
}

// HandleWebhook handles POST /payments/{provider}/webhook.
//
// Once past the access guard the response is 200 for every logical outcome,
// including unmatched and needs_review: a non-2xx would make the gateway
// redeliver forever for conditions that will never resolve. Only unexpected
// persistence errors surface as 500, which the gateway is expected to retry.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Error("failed to read webhook body", "error", err, "provider", provider)
		h.HandleError(w, internal.NewInternalError("failed to read request body", err))
		return
	}

	var payload GatewayPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		// malformed bodies are structural, not retryable: acknowledge and move on
		h.logger.Warn("undecodable webhook payload ignored",
			"error", err,
			"provider", provider,
			"body_size", len(body))
		h.WriteJSON(w, http.StatusOK, Result{Success: true, Ignored: true})
		return
	}

	ctx := internal.ContextWithProvider(r.Context(), provider)

	result, err := h.service.Process(ctx, provider, &payload, body)
	if err != nil {
		h.logger.Error("webhook processing failed",
			"error", err,
			"provider", provider)
		h.HandleError(w, internal.NewInternalError("webhook processing failed", err))
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// HandleGetOrder handles GET /api/v1/orders/{code}: the read side used when
// manually reconciling needs_review orders.
func (h *Handler) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	ord, err := h.service.GetOrderByCode(code)
	if err != nil {
		h.logger.Error("order lookup failed", "error", err, "order_code", code)
		h.HandleError(w, internal.NewInternalError("order lookup failed", err))
		return
	}
	if ord == nil {
		h.HandleError(w, internal.ErrOrderNotFound)
		return
	}

	view := OrderView{
		ID:                    ord.ID,
		OrderCode:             ord.OrderCode,
		Provider:              ord.Provider,
		UserID:                ord.UserID,
		AmountVND:             ord.AmountVND,
		Type:                  ord.Type,
		PlanID:                ord.PlanID,
		Status:                ord.Status,
		ProviderTransactionID: ord.ProviderTransactionID,
		ReviewReason:          ord.ReviewReason,
	}
	if ord.PaidAt != nil {
		s := ord.PaidAt.UTC().Format(time.RFC3339)
		view.PaidAt = &s
	}
	if ord.ExpiresAt != nil {
		s := ord.ExpiresAt.UTC().Format(time.RFC3339)
		view.ExpiresAt = &s
	}

	h.WriteJSON(w, http.StatusOK, view)
}
