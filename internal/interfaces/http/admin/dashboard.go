package admin

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/interfaces/http/common"
)

func (h *Handler) statsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		stats, err := h.dashboardService.Stats(ctx)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"stats": stats})
	}
}

func (h *Handler) activityLogListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		logs, pagination, err := h.dashboardService.ActivityLogs(ctx, common.ParsePaging(r))
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		items := make([]common.ActivityLogResponse, 0, len(logs))
		for _, entry := range logs {
			items = append(items, common.NewActivityLogResponse(entry))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"activityLogs": items,
			"pagination":   pagination,
		})
	}
}

func (h *Handler) failedNotificationListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := strings.TrimSpace(r.URL.Query().Get("status"))
		limit, _ := common.ParsePositiveInt(r.URL.Query().Get("limit"), domain.DefaultPageLimit)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		failures, err := h.dashboardService.FailedNotifications(ctx, status, limit)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		items := make([]common.FailedNotificationResponse, 0, len(failures))
		for _, failure := range failures {
			items = append(items, common.NewFailedNotificationResponse(failure))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"notifications": items})
	}
}

func (h *Handler) notificationResendHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			common.WriteError(h.logger, w, r, domain.Validation("通知IDが指定されていません"))
			return
		}

		// SMTP delivery happens inline here.
		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		failure, err := h.dashboardService.ResendNotification(ctx, currentAdmin(r).ID, id)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteSuccess(h.logger, w, http.StatusOK, "notification", common.NewFailedNotificationResponse(*failure))
	}
}
