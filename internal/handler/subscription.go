package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vidtube/internal/utils"
)

// SubscriptionHandler bundles dependencies for the subscription endpoints.
type SubscriptionHandler struct {
	Subscriptions SubscriptionStore
}

func NewSubscriptionHandler(subs SubscriptionStore) *SubscriptionHandler {
	return &SubscriptionHandler{Subscriptions: subs}
}

// Toggle handles POST /subscriptions/c/:channelId (protected). Subscribes
// the caller when no edge exists and unsubscribes otherwise. Subscribing
// to your own channel is rejected.
func (h *SubscriptionHandler) Toggle(c echo.Context) error {
	subscriberID, err := getUserID(c)
	if err != nil {
		return utils.Fail(c, http.StatusUnauthorized, "unauthorized")
	}
	channelID, ok := parseID(c.Param("channelId"))
	if !ok {
		return utils.Fail(c, http.StatusBadRequest, "invalid channel id")
	}
	if channelID == subscriberID {
		return utils.Fail(c, http.StatusBadRequest, "you cannot subscribe to your own channel")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	subscribed, err := h.Subscriptions.Toggle(ctx, channelID, subscriberID)
	if err != nil {
		return failFor(c, err, "could not toggle subscription")
	}
	msg := "unsubscribed successfully"
	if subscribed {
		msg = "subscribed successfully"
	}
	return utils.Respond(c, http.StatusOK, map[string]bool{"subscribed": subscribed}, msg)
}
