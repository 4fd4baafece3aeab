package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dimas0315/AI-Social-Platform/models"
	"github.com/dimas0315/AI-Social-Platform/utils"
)

// EngagementController manages likes and shares on publications.
type EngagementController struct {
	db *gorm.DB
}

// NewEngagementController creates a new EngagementController instance.
func NewEngagementController(db *gorm.DB) *EngagementController {
	return &EngagementController{db: db}
}

// Like records a like for the authenticated user on a publication.
func (e *EngagementController) Like(ctx *gin.Context) {
	pubID := ctx.Param("id")
	var publication models.Publication
	if err := e.db.First(&publication, pubID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40405, "publication not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to load publication")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40114, "unauthorized")
		return
	}

	var existing models.Like
	if err := e.db.Where("publication_id = ? AND user_id = ?", publication.ID, userID).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusConflict, 40902, "already liked")
		return
	}

	like := models.Like{PublicationID: publication.ID, UserID: userID}
	if err := e.db.Create(&like).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50081, "failed to like publication")
		return
	}

	bumpLastActivity(e.db, publication.ID)
	notify(e.db, publication.UserID, userID, models.NotificationLike,
		models.NotificationTargetPublication, publication.ID, "liked your publication")

	e.invalidateEngagementCaches(publication.ID)
	utils.Success(ctx, gin.H{"like": like})
}

// Unlike removes the authenticated user's like from a publication.
func (e *EngagementController) Unlike(ctx *gin.Context) {
	pubID := ctx.Param("id")
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40114, "unauthorized")
		return
	}

	var like models.Like
	if err := e.db.Where("publication_id = ? AND user_id = ?", pubID, userID).First(&like).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40406, "like not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50082, "failed to load like")
		return
	}

	if err := e.db.Delete(&like).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50083, "failed to remove like")
		return
	}

	e.invalidateEngagementCaches(like.PublicationID)
	utils.Success(ctx, gin.H{"message": "like removed"})
}

// ListLikes returns the like records of a publication with user summaries.
func (e *EngagementController) ListLikes(ctx *gin.Context) {
	pubID := ctx.Param("id")
	var publication models.Publication
	if err := e.db.First(&publication, pubID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40405, "publication not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50084, "failed to load publication")
		return
	}

	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	var likes []models.Like
	var total int64
	q := e.db.Where("publication_id = ?", publication.ID).Preload("User").Order("created_at DESC")
	if err := q.Model(&models.Like{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50085, "failed to count likes")
		return
	}
	if err := q.Offset((page - 1) * pageSize).Limit(pageSize).Find(&likes).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50086, "failed to list likes")
		return
	}

	utils.Success(ctx, gin.H{
		"items": likes,
		"pagination": utils.Pagination(page, pageSize, total),
	})
}

// Share records a share for the authenticated user on a publication.
func (e *EngagementController) Share(ctx *gin.Context) {
	pubID := ctx.Param("id")
	var publication models.Publication
	if err := e.db.First(&publication, pubID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40405, "publication not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50087, "failed to load publication")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40114, "unauthorized")
		return
	}

	var existing models.Share
	if err := e.db.Where("publication_id = ? AND user_id = ?", publication.ID, userID).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusConflict, 40903, "already shared")
		return
	}

	share := models.Share{PublicationID: publication.ID, UserID: userID}
	if err := e.db.Create(&share).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50088, "failed to share publication")
		return
	}

	bumpLastActivity(e.db, publication.ID)
	notify(e.db, publication.UserID, userID, models.NotificationShare,
		models.NotificationTargetPublication, publication.ID, "shared your publication")

	e.invalidateEngagementCaches(publication.ID)
	utils.Success(ctx, gin.H{"share": share})
}

// Unshare removes the authenticated user's share from a publication.
func (e *EngagementController) Unshare(ctx *gin.Context) {
	pubID := ctx.Param("id")
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40114, "unauthorized")
		return
	}

	var share models.Share
	if err := e.db.Where("publication_id = ? AND user_id = ?", pubID, userID).First(&share).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40407, "share not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50089, "failed to load share")
		return
	}

	if err := e.db.Delete(&share).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50090, "failed to remove share")
		return
	}

	e.invalidateEngagementCaches(share.PublicationID)
	utils.Success(ctx, gin.H{"message": "share removed"})
}

// invalidateEngagementCaches drops the cached payloads whose counts changed.
func (e *EngagementController) invalidateEngagementCaches(publicationID uint) {
	utils.InvalidateByPrefix("cache:publications:list:")
	utils.InvalidateByPrefix("cache:publication:detail:" + strconv.Itoa(int(publicationID)))

	// The author's publication page embeds the same counts.
	var ownerID uint
	if err := e.db.Model(&models.Publication{}).Where("id = ?", publicationID).
		Select("user_id").Scan(&ownerID).Error; err == nil && ownerID != 0 {
		utils.InvalidateByPrefix("cache:user:" + strconv.Itoa(int(ownerID)) + ":publications:")
	}
}
