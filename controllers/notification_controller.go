package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dimas0315/AI-Social-Platform/models"
	"github.com/dimas0315/AI-Social-Platform/utils"
)

// NotificationController lets users read and acknowledge their notifications.
type NotificationController struct {
	db *gorm.DB
}

// NewNotificationController creates a new controller instance.
func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{db: db}
}

// ListNotifications returns the caller's notifications, newest first,
// together with the current unread count.
func (n *NotificationController) ListNotifications(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40140, "unauthorized")
		return
	}

	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	var notifications []models.Notification
	var total int64
	q := n.db.Where("recipient_id = ?", userID).Preload("Actor").Order("created_at DESC")
	if err := q.Model(&models.Notification{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50110, "failed to count notifications")
		return
	}
	if err := q.Offset((page - 1) * pageSize).Limit(pageSize).Find(&notifications).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50111, "failed to list notifications")
		return
	}

	var unread int64
	if err := n.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).Count(&unread).Error; err != nil {
		unread = 0
	}

	utils.Success(ctx, gin.H{
		"items":        notifications,
		"unread_count": unread,
		"pagination": utils.Pagination(page, pageSize, total),
	})
}

// MarkRead marks a single notification as read. Recipient only.
func (n *NotificationController) MarkRead(ctx *gin.Context) {
	id := ctx.Param("id")
	var notification models.Notification
	if err := n.db.First(&notification, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40423, "notification not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50112, "failed to load notification")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40140, "unauthorized")
		return
	}
	if notification.RecipientID != userID {
		utils.Error(ctx, http.StatusForbidden, 40305, "not your notification")
		return
	}

	if !notification.IsRead {
		if err := n.db.Model(&notification).UpdateColumn("is_read", true).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50113, "failed to update notification")
			return
		}
		notification.IsRead = true
	}

	utils.Success(ctx, gin.H{"notification": notification})
}

// MarkAllRead marks every unread notification of the caller as read.
func (n *NotificationController) MarkAllRead(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40140, "unauthorized")
		return
	}

	res := n.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		UpdateColumn("is_read", true)
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50114, "failed to update notifications")
		return
	}

	utils.Success(ctx, gin.H{"updated": res.RowsAffected})
}

// notify records a notification for a recipient. It is best-effort: failures
// are logged and never fail the triggering operation. Self-actions are skipped.
func notify(db *gorm.DB, recipientID, actorID uint, ntype, targetType string, targetID uint, message string) {
	if recipientID == 0 || recipientID == actorID {
		return
	}
	n := models.Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		Type:        ntype,
		TargetType:  targetType,
		TargetID:    targetID,
		Message:     message,
	}
	if err := db.Create(&n).Error; err != nil {
		utils.Sugar.Warnf("notification create failed type=%s recipient=%d: %v", ntype, recipientID, err)
	}
}
