package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dimas0315/AI-Social-Platform/models"
	"github.com/dimas0315/AI-Social-Platform/utils"
)

// FriendshipController handles friend requests and the friend list.
type FriendshipController struct {
	db *gorm.DB
}

var (
	errNotAddressee = errors.New("only the addressee can accept")
	errNotPending   = errors.New("request is not pending")
)

// NewFriendshipController creates a new controller instance.
func NewFriendshipController(db *gorm.DB) *FriendshipController {
	return &FriendshipController{db: db}
}

// RequestFriend creates a pending friendship from the caller to another user.
func (f *FriendshipController) RequestFriend(ctx *gin.Context) {
	var req struct {
		UserID uint `json:"user_id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40080, "invalid request payload")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40130, "unauthorized")
		return
	}
	if req.UserID == userID {
		utils.Error(ctx, http.StatusBadRequest, 40081, "cannot send a friend request to yourself")
		return
	}

	var target models.User
	if err := f.db.First(&target, req.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40412, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50091, "failed to load user")
		return
	}

	// One row per pair regardless of direction
	var existing models.Friendship
	err := f.db.Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
		userID, req.UserID, req.UserID, userID).First(&existing).Error
	if err == nil {
		utils.Error(ctx, http.StatusConflict, 40904, "friendship or request already exists")
		return
	}
	if err != gorm.ErrRecordNotFound {
		utils.Error(ctx, http.StatusInternalServerError, 50092, "failed to check friendship")
		return
	}

	friendship := models.Friendship{
		RequesterID: userID,
		AddresseeID: req.UserID,
		Status:      models.FriendshipPending,
	}
	if err := f.db.Create(&friendship).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50093, "failed to create friend request")
		return
	}

	notify(f.db, req.UserID, userID, models.NotificationFriendRequest,
		models.NotificationTargetUser, userID, "sent you a friend request")

	utils.Success(ctx, gin.H{"friendship": friendship})
}

// AcceptFriend flips a pending request to accepted. Only the addressee may
// accept; the flip runs under a row lock so concurrent accepts cannot race.
func (f *FriendshipController) AcceptFriend(ctx *gin.Context) {
	requestID := ctx.Param("id")

	var friendship models.Friendship
	if err := f.db.First(&friendship, requestID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40421, "friend request not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50094, "failed to load friend request")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40130, "unauthorized")
		return
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		var fr models.Friendship
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&fr, requestID).Error; err != nil {
			return err
		}
		if fr.AddresseeID != userID {
			return errNotAddressee
		}
		if fr.Status != models.FriendshipPending {
			return errNotPending
		}

		now := time.Now()
		fr.Status = models.FriendshipAccepted
		fr.AcceptedAt = &now
		if err := tx.Save(&fr).Error; err != nil {
			return err
		}
		friendship = fr
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.Error(ctx, http.StatusNotFound, 40421, "friend request not found")
		case errors.Is(err, errNotAddressee):
			utils.Error(ctx, http.StatusForbidden, 40303, err.Error())
		case errors.Is(err, errNotPending):
			utils.Error(ctx, http.StatusConflict, 40905, err.Error())
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50095, "failed to accept friend request")
		}
		return
	}

	notify(f.db, friendship.RequesterID, userID, models.NotificationFriendAccept,
		models.NotificationTargetUser, userID, "accepted your friend request")

	utils.Success(ctx, gin.H{"friendship": friendship})
}

// RemoveRequest declines an incoming pending request or cancels an outgoing one.
func (f *FriendshipController) RemoveRequest(ctx *gin.Context) {
	requestID := ctx.Param("id")

	var friendship models.Friendship
	if err := f.db.First(&friendship, requestID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40421, "friend request not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50096, "failed to load friend request")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40130, "unauthorized")
		return
	}
	if friendship.RequesterID != userID && friendship.AddresseeID != userID {
		utils.Error(ctx, http.StatusForbidden, 40304, "not your friend request")
		return
	}
	if friendship.Status != models.FriendshipPending {
		utils.Error(ctx, http.StatusConflict, 40905, "request is not pending")
		return
	}

	if err := f.db.Delete(&friendship).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50097, "failed to remove friend request")
		return
	}

	utils.Success(ctx, gin.H{"message": "friend request removed"})
}

// Unfriend removes an accepted friendship with another user.
func (f *FriendshipController) Unfriend(ctx *gin.Context) {
	otherIDStr := ctx.Param("userId")
	otherID, err := strconv.Atoi(otherIDStr)
	if err != nil || otherID <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40082, "invalid user id")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40130, "unauthorized")
		return
	}

	var friendship models.Friendship
	err = f.db.Where("status = ? AND ((requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?))",
		models.FriendshipAccepted, userID, otherID, otherID, userID).First(&friendship).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40422, "friendship not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50098, "failed to load friendship")
		return
	}

	if err := f.db.Delete(&friendship).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50099, "failed to remove friendship")
		return
	}

	utils.Success(ctx, gin.H{"message": "friend removed"})
}

// ListFriends returns the caller's accepted friendships as user summaries.
func (f *FriendshipController) ListFriends(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40130, "unauthorized")
		return
	}

	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	var friendships []models.Friendship
	var total int64
	q := f.db.Where("status = ? AND (requester_id = ? OR addressee_id = ?)",
		models.FriendshipAccepted, userID, userID).
		Preload("Requester").Preload("Addressee").Order("accepted_at DESC")
	if err := q.Model(&models.Friendship{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50100, "failed to count friends")
		return
	}
	if err := q.Offset((page - 1) * pageSize).Limit(pageSize).Find(&friendships).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50101, "failed to list friends")
		return
	}

	items := make([]gin.H, 0, len(friendships))
	for _, fr := range friendships {
		other := fr.Requester
		if fr.RequesterID == userID {
			other = fr.Addressee
		}
		items = append(items, gin.H{
			"friendship_id": fr.ID,
			"user":          sanitizeUserResponse(other),
			"since":         fr.AcceptedAt,
		})
	}

	utils.Success(ctx, gin.H{
		"items": items,
		"pagination": utils.Pagination(page, pageSize, total),
	})
}

// ListRequests returns incoming pending friend requests for the caller.
func (f *FriendshipController) ListRequests(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40130, "unauthorized")
		return
	}

	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	var requests []models.Friendship
	var total int64
	q := f.db.Where("addressee_id = ? AND status = ?", userID, models.FriendshipPending).
		Preload("Requester").Order("created_at DESC")
	if err := q.Model(&models.Friendship{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50102, "failed to count friend requests")
		return
	}
	if err := q.Offset((page - 1) * pageSize).Limit(pageSize).Find(&requests).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50103, "failed to list friend requests")
		return
	}

	utils.Success(ctx, gin.H{
		"items": requests,
		"pagination": utils.Pagination(page, pageSize, total),
	})
}
