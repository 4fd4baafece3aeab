package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dimas0315/AI-Social-Platform/models"
	"github.com/dimas0315/AI-Social-Platform/utils"
)

// CommentController manages comments on publications.
type CommentController struct {
	db *gorm.DB
}

// NewCommentController creates a new CommentController instance.
func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{db: db}
}

// CreateComment allows authenticated users to comment on publications.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40070, "invalid request payload")
		return
	}

	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40071, "content cannot be empty")
		return
	}
	if utf8.RuneCountInString(content) > models.CommentContentMaxLen {
		utils.Error(ctx, http.StatusBadRequest, 40072, fmt.Sprintf("content exceeds %d characters", models.CommentContentMaxLen))
		return
	}

	pubID := ctx.Param("id")
	var publication models.Publication
	if err := c.db.First(&publication, pubID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40402, "publication not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to load publication")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	comment := models.Comment{
		PublicationID: publication.ID,
		UserID:        userID,
		Content:       content,
	}

	if err := c.db.Create(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to create comment")
		return
	}

	if err := c.db.Preload("User").First(&comment, comment.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to load comment")
		return
	}

	bumpLastActivity(c.db, publication.ID)
	notify(c.db, publication.UserID, userID, models.NotificationComment,
		models.NotificationTargetPublication, publication.ID, "commented on your publication")

	// Invalidate publication caches on new comment (counts changed)
	utils.InvalidateByPrefix("cache:publications:list:")
	utils.InvalidateByPrefix("cache:publication:detail:" + strconv.Itoa(int(publication.ID)))

	utils.Success(ctx, gin.H{"comment": comment})
}

// ListComments returns the comments of a publication, oldest first.
func (c *CommentController) ListComments(ctx *gin.Context) {
	pubID := ctx.Param("id")
	var publication models.Publication
	if err := c.db.First(&publication, pubID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40402, "publication not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50073, "failed to load publication")
		return
	}

	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	var comments []models.Comment
	var total int64
	q := c.db.Where("publication_id = ?", publication.ID).Order("created_at ASC")
	if err := q.Model(&models.Comment{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50074, "failed to count comments")
		return
	}
	if err := q.Offset((page - 1) * pageSize).Limit(pageSize).Find(&comments).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50075, "failed to list comments")
		return
	}

	// Batch-load comment authors instead of per-row preloads
	if len(comments) > 0 {
		var userIDs []uint
		for _, cm := range comments {
			userIDs = append(userIDs, cm.UserID)
		}
		userIDs = utils.UniqueUint(userIDs)

		var users []models.User
		if err := c.db.Find(&users, userIDs).Error; err == nil {
			userMap := make(map[uint]models.User, len(users))
			for _, u := range users {
				userMap[u.ID] = u
			}
			for i := range comments {
				if user, ok := userMap[comments[i].UserID]; ok {
					comments[i].User = user
				}
			}
		}
	}

	utils.Success(ctx, gin.H{
		"items": comments,
		"pagination": utils.Pagination(page, pageSize, total),
	})
}

// UpdateComment allows the comment owner to edit its content.
func (c *CommentController) UpdateComment(ctx *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40073, "invalid request payload")
		return
	}

	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40074, "content cannot be empty")
		return
	}
	if utf8.RuneCountInString(content) > models.CommentContentMaxLen {
		utils.Error(ctx, http.StatusBadRequest, 40075, fmt.Sprintf("content exceeds %d characters", models.CommentContentMaxLen))
		return
	}

	cid := ctx.Param("id")
	var comment models.Comment
	if err := c.db.First(&comment, cid).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40420, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50076, "failed to load comment")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "unauthorized")
		return
	}
	if comment.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40321, "you can only update your own comments")
		return
	}

	comment.Content = content
	if err := c.db.Save(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50077, "failed to update comment")
		return
	}

	utils.InvalidateByPrefix("cache:publication:detail:" + strconv.Itoa(int(comment.PublicationID)))

	utils.Success(ctx, gin.H{"comment": comment})
}

// DeleteComment allows the comment owner or an admin to delete a comment.
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	cid := strings.TrimSpace(ctx.Param("id"))
	if cid == "" {
		utils.Error(ctx, http.StatusBadRequest, 40076, "missing comment id")
		return
	}
	var comment models.Comment
	if err := c.db.First(&comment, cid).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40420, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50078, "failed to load comment")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "unauthorized")
		return
	}
	if comment.UserID != userID && !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40320, "you can only delete your own comments")
		return
	}
	if err := c.db.Delete(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50079, "failed to delete comment")
		return
	}

	utils.InvalidateByPrefix("cache:publications:list:")
	utils.InvalidateByPrefix("cache:publication:detail:" + strconv.Itoa(int(comment.PublicationID)))

	utils.Success(ctx, gin.H{"message": "comment deleted"})
}

// bumpLastActivity refreshes a publication's last activity marker without
// touching its modification timestamp.
func bumpLastActivity(db *gorm.DB, publicationID uint) {
	_ = db.Model(&models.Publication{}).Where("id = ?", publicationID).
		UpdateColumn("last_activity_at", time.Now()).Error
}
