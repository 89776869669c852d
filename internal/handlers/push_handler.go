package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/callwatch/internal/common"
	"github.com/ternarybob/callwatch/internal/interfaces"
	"github.com/ternarybob/callwatch/internal/models"
)

// PushHandler serves the web-push subscription API used by browsers
type PushHandler struct {
	config *common.Config
	push   interfaces.PushService
	logger arbor.ILogger
}

func NewPushHandler(config *common.Config, push interfaces.PushService, logger arbor.ILogger) *PushHandler {
	return &PushHandler{
		config: config,
		push:   push,
		logger: logger,
	}
}

// VapidPublicKeyHandler returns the VAPID public key browsers need to
// create a push subscription
func (h *PushHandler) VapidPublicKeyHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"vapidPublicKey": h.push.PublicKey(),
	})
}

// DestinationsHandler lists the names of web-push destinations a
// browser can subscribe to. Other destination types are not exposed.
func (h *PushHandler) DestinationsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	names := []string{}
	for _, d := range h.config.Destinations {
		if d.Type == models.DestinationWebPush {
			names = append(names, d.Name)
		}
	}

	WriteJSON(w, http.StatusOK, map[string][]string{
		"destinations": names,
	})
}

// SubscribeRouteHandler routes /api/subscribe by method
func (h *PushHandler) SubscribeRouteHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.subscribe(w, r)
	case http.MethodDelete:
		h.unsubscribe(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// subscribe upserts the subscription and immediately pushes a
// confirmation so the browser sees delivery working end to end. The
// response status mirrors the push service's answer.
func (h *PushHandler) subscribe(w http.ResponseWriter, r *http.Request) {
	var sub models.Subscription
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid subscription body")
		return
	}
	if sub.DestinationName == "" || sub.Endpoint == "" {
		WriteError(w, http.StatusBadRequest, "destinationName and endpoint are required")
		return
	}

	if err := h.push.Upsert(sub); err != nil {
		h.logger.Error().Err(err).Msg("Failed to store subscription")
		WriteError(w, http.StatusInternalServerError, "failed to store subscription")
		return
	}

	payload, _ := json.Marshal(map[string]string{
		"title": "購読完了",
		"body":  fmt.Sprintf("購読が完了しました。%s の通知をお届けします。", sub.DestinationName),
	})

	status, err := h.push.Send(sub, payload)
	if err != nil {
		h.logger.Warn().Err(err).Str("endpoint", sub.Endpoint).Msg("Confirmation push failed")
		WriteError(w, http.StatusBadGateway, "subscription stored but confirmation push failed")
		return
	}

	h.logger.Info().
		Str("destination", sub.DestinationName).
		Int("push_status", status).
		Msg("Subscription stored")

	w.WriteHeader(status)
}

// unsubscribe removes the subscription matched by endpoint alone
func (h *PushHandler) unsubscribe(w http.ResponseWriter, r *http.Request) {
	var sub models.Subscription
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid subscription body")
		return
	}

	found, err := h.push.Remove(sub.Endpoint)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to remove subscription")
		WriteError(w, http.StatusInternalServerError, "failed to remove subscription")
		return
	}
	if !found {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
}
