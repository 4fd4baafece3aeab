package controllers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dimas0315/AI-Social-Platform/config"
	"github.com/dimas0315/AI-Social-Platform/middleware"
	"github.com/dimas0315/AI-Social-Platform/models"
	"github.com/dimas0315/AI-Social-Platform/utils"
)

// PublicationController manages CRUD operations for publications and media uploads.
type PublicationController struct {
	db *gorm.DB
}

// NewPublicationController creates a new PublicationController instance.
func NewPublicationController(db *gorm.DB) *PublicationController {
	return &PublicationController{db: db}
}

// CreatePublication allows authenticated users to create new publications.
func (p *PublicationController) CreatePublication(ctx *gin.Context) {
	var req struct {
		Content  string `json:"content" binding:"required"`
		TopicID  *uint  `json:"topic_id"`
		MediaIDs []uint `json:"media_ids"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40021, "content cannot be empty")
		return
	}
	if utf8.RuneCountInString(content) > models.PublicationContentMaxLen {
		utils.Error(ctx, http.StatusBadRequest, 40022, fmt.Sprintf("content exceeds %d characters", models.PublicationContentMaxLen))
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	if req.TopicID != nil {
		var topic models.Topic
		if err := p.db.First(&topic, *req.TopicID).Error; err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40023, "unknown topic")
			return
		}
	}

	mediaIDs := utils.UniqueUint(req.MediaIDs)
	if len(mediaIDs) > 0 {
		// Only the caller's own unattached uploads may be linked.
		var count int64
		if err := p.db.Model(&models.MediaFile{}).
			Where("id IN ? AND user_id = ? AND publication_id IS NULL", mediaIDs, userID).
			Count(&count).Error; err != nil || count != int64(len(mediaIDs)) {
			utils.Error(ctx, http.StatusBadRequest, 40024, "invalid media ids")
			return
		}
	}

	publication := models.Publication{
		UserID:  userID,
		Content: content,
		TopicID: req.TopicID,
	}

	if err := p.db.Create(&publication).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to create publication")
		return
	}

	if len(mediaIDs) > 0 {
		// Attached uploads stop being reap candidates.
		if err := p.db.Model(&models.MediaFile{}).
			Where("id IN ? AND user_id = ? AND publication_id IS NULL", mediaIDs, userID).
			Updates(map[string]interface{}{"publication_id": publication.ID, "expire_at": nil}).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to attach media")
			return
		}
	}

	if err := p.db.Preload("User").Preload("Media").First(&publication, publication.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load publication")
		return
	}

	// Invalidate lists cache (feed and topics)
	utils.InvalidateByPrefix("cache:publications:list:")
	// Invalidate user publications cache for this author
	utils.InvalidateByPrefix("cache:user:" + strconv.Itoa(int(userID)) + ":publications:")
	// Topic listings embed publication counts
	utils.InvalidateByPrefix("cache:topics:")

	utils.Success(ctx, gin.H{"publication": publication})
}

// ListPublications returns paginated publications including author information
// and engagement counts, newest first.
func (p *PublicationController) ListPublications(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	search := strings.TrimSpace(ctx.Query("search"))
	topicID := strings.TrimSpace(ctx.Query("topic_id"))

	// Cache feed/topic lists when no search term to avoid cache key explosion
	if search == "" {
		cacheKey := fmt.Sprintf("cache:publications:list:topic=%s:page=%d:size=%d", topicID, page, pageSize)
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(200, "application/json", b)
			return
		}
	}

	var publications []models.Publication
	var total int64

	query := p.db.Preload("User").Preload("Media").Order("created_at DESC")
	if search != "" {
		query = query.Where("content LIKE ?", "%"+search+"%")
	}
	if topicID != "" {
		query = query.Where("topic_id = ?", topicID)
	}
	if err := query.Model(&models.Publication{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to count publications")
		return
	}

	offset := (page - 1) * pageSize
	if err := query.Offset(offset).Limit(pageSize).Find(&publications).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to list publications")
		return
	}

	p.attachEngagementCounts(publications)

	payload := gin.H{
		"items": publications,
		"pagination": utils.Pagination(page, pageSize, total),
	}
	if search == "" {
		cacheKey := fmt.Sprintf("cache:publications:list:topic=%s:page=%d:size=%d", topicID, page, pageSize)
		// Wrap in standard response and cache
		wrapper := struct {
			Code    int         `json:"code"`
			Message string      `json:"message"`
			Data    interface{} `json:"data"`
		}{Code: 0, Message: "success", Data: payload}
		utils.CacheSetJSON(cacheKey, wrapper, time.Hour)
	}
	utils.Success(ctx, payload)
}

// GetPublication returns a single publication with author, media and counts.
func (p *PublicationController) GetPublication(ctx *gin.Context) {
	pubID := ctx.Param("id")

	// Try cache first
	if b, ok := utils.CacheGetBytes("cache:publication:detail:" + pubID); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	var publication models.Publication
	if err := p.db.Preload("User").Preload("Media").First(&publication, pubID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "publication not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to load publication")
		return
	}

	single := []models.Publication{publication}
	p.attachEngagementCounts(single)
	publication = single[0]

	payload := gin.H{"publication": publication}
	wrapper := struct {
		Code    int         `json:"code"`
		Message string      `json:"message"`
		Data    interface{} `json:"data"`
	}{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON("cache:publication:detail:"+pubID, wrapper, time.Hour)
	utils.Success(ctx, payload)
}

// ListUserPublications returns publications created by a specific user (public).
func (p *PublicationController) ListUserPublications(ctx *gin.Context) {
	userID := strings.TrimSpace(ctx.Param("id"))
	if userID == "" {
		utils.Error(ctx, http.StatusBadRequest, 40060, "missing user id")
		return
	}
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	// try cache first
	cacheKey := fmt.Sprintf("cache:user:%s:publications:page=%d:size=%d", userID, page, pageSize)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}
	var publications []models.Publication
	var total int64
	q := p.db.Where("user_id = ?", userID).Preload("User").Preload("Media").Order("created_at DESC")
	if err := q.Model(&models.Publication{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to count user publications")
		return
	}
	if err := q.Offset((page - 1) * pageSize).Limit(pageSize).Find(&publications).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50027, "failed to list user publications")
		return
	}
	p.attachEngagementCounts(publications)
	payload := gin.H{
		"items": publications,
		"pagination": utils.Pagination(page, pageSize, total),
	}
	wrapper := struct {
		Code    int         `json:"code"`
		Message string      `json:"message"`
		Data    interface{} `json:"data"`
	}{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(cacheKey, wrapper, time.Hour)
	utils.Success(ctx, payload)
}

// UpdatePublication allows the author to update their publication.
func (p *PublicationController) UpdatePublication(ctx *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
		TopicID *uint  `json:"topic_id"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40025, "invalid request payload")
		return
	}

	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40026, "content cannot be empty")
		return
	}
	if utf8.RuneCountInString(content) > models.PublicationContentMaxLen {
		utils.Error(ctx, http.StatusBadRequest, 40027, fmt.Sprintf("content exceeds %d characters", models.PublicationContentMaxLen))
		return
	}

	pubID := ctx.Param("id")
	var publication models.Publication
	if err := p.db.First(&publication, pubID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40403, "publication not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50028, "failed to load publication")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}

	if publication.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40301, "you can only update your own publications")
		return
	}

	if req.TopicID != nil {
		var topic models.Topic
		if err := p.db.First(&topic, *req.TopicID).Error; err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40023, "unknown topic")
			return
		}
	}

	publication.Content = content
	publication.TopicID = req.TopicID
	if err := p.db.Save(&publication).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50029, "failed to update publication")
		return
	}

	// Invalidate caches for lists and detail
	utils.InvalidateByPrefix("cache:publications:list:")
	utils.InvalidateByPrefix("cache:publication:detail:" + pubID)
	utils.InvalidateByPrefix("cache:user:" + strconv.Itoa(int(publication.UserID)) + ":publications:")
	utils.InvalidateByPrefix("cache:topics:")

	utils.Success(ctx, gin.H{"publication": publication})
}

// DeletePublication allows the author or an admin to delete a publication
// together with every dependent comment, like, share and media record.
func (p *PublicationController) DeletePublication(ctx *gin.Context) {
	pubID := ctx.Param("id")
	var publication models.Publication
	if err := p.db.First(&publication, pubID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40404, "publication not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load publication")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	if publication.UserID != userID && !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40302, "you can only delete your own publications")
		return
	}

	// Disk paths must be collected before the rows go away.
	var media []models.MediaFile
	_ = p.db.Where("publication_id = ?", publication.ID).Find(&media).Error

	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("publication_id = ?", publication.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("publication_id = ?", publication.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("publication_id = ?", publication.ID).Delete(&models.Share{}).Error; err != nil {
			return err
		}
		if err := tx.Where("publication_id = ?", publication.ID).Delete(&models.MediaFile{}).Error; err != nil {
			return err
		}
		return tx.Delete(&publication).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to delete publication")
		return
	}

	// Remove files from disk after the transaction committed; best-effort.
	go func(files []models.MediaFile) {
		defer func() { _ = recover() }()
		for _, m := range files {
			if m.FilePath != "" {
				_ = os.Remove(m.FilePath)
			}
		}
	}(media)

	// Invalidate lists and detail cache
	utils.InvalidateByPrefix("cache:publications:list:")
	utils.InvalidateByPrefix("cache:publication:detail:" + pubID)
	utils.InvalidateByPrefix("cache:user:" + strconv.Itoa(int(publication.UserID)) + ":publications:")
	utils.InvalidateByPrefix("cache:topics:")

	utils.Success(ctx, gin.H{"message": "publication deleted"})
}

// UploadMedia handles image uploads. The file is stored on disk and recorded
// with an expiry; unattached uploads are reaped after the TTL.
func (p *PublicationController) UploadMedia(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40113, "unauthorized")
		return
	}

	// Accept common field name 'file' or fallback to 'f'
	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		file, header, err = ctx.Request.FormFile("f")
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40030, "no file uploaded")
			return
		}
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		utils.Error(ctx, http.StatusBadRequest, 40031, "unsupported file type")
		return
	}

	conf := config.Get()
	maxSize := int64(conf.UploadMaxSizeMB) * 1024 * 1024
	if maxSize <= 0 {
		maxSize = 10 * 1024 * 1024
	}
	if header.Size > 0 && header.Size > maxSize {
		utils.Error(ctx, http.StatusBadRequest, 40032, fmt.Sprintf("file size exceeds %dMB", conf.UploadMaxSizeMB))
		return
	}

	now := time.Now()
	year := now.Format("2006")
	month := now.Format("01")
	day := now.Format("02")
	baseDir := filepath.Join(conf.UploadDir, year, month, day)
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to create upload directory")
		return
	}

	// Random object name prevents collisions and path guessing
	safeName := uuid.NewString() + ext
	dstPath := filepath.Join(baseDir, safeName)

	out, err := os.Create(dstPath)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to save file")
		return
	}
	defer out.Close()

	lr := &io.LimitedReader{R: file, N: maxSize + 1}
	written, err := io.Copy(out, lr)
	if err != nil {
		_ = out.Close()
		_ = os.Remove(dstPath)
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to write file")
		return
	}
	if written > maxSize {
		_ = out.Close()
		_ = os.Remove(dstPath)
		utils.Error(ctx, http.StatusBadRequest, 40032, fmt.Sprintf("file size exceeds %dMB", conf.UploadMaxSizeMB))
		return
	}

	relURL := fmt.Sprintf("/static/uploads/%s/%s/%s/%s", year, month, day, safeName)
	ttlMinutes := conf.UploadOrphanTTLMin
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	expireAt := now.Add(time.Duration(ttlMinutes) * time.Minute)
	absPath, _ := filepath.Abs(dstPath)

	record := models.MediaFile{
		UserID:   userID,
		FilePath: absPath,
		URL:      relURL,
		ExpireAt: &expireAt,
	}
	if err := p.db.Create(&record).Error; err != nil {
		_ = os.Remove(dstPath)
		utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to record upload")
		return
	}

	utils.Success(ctx, gin.H{"media": record})
}

// attachEngagementCounts fills like/share/comment counters for a page of
// publications with three grouped queries instead of per-row counts.
func (p *PublicationController) attachEngagementCounts(publications []models.Publication) {
	if len(publications) == 0 {
		return
	}
	ids := make([]uint, 0, len(publications))
	for _, pub := range publications {
		ids = append(ids, pub.ID)
	}
	ids = utils.UniqueUint(ids)

	type pubCount struct {
		PublicationID uint
		N             int64
	}
	collect := func(model interface{}) map[uint]int64 {
		var rows []pubCount
		m := make(map[uint]int64, len(ids))
		if err := p.db.Model(model).
			Select("publication_id, COUNT(*) AS n").
			Where("publication_id IN ?", ids).
			Group("publication_id").
			Scan(&rows).Error; err != nil {
			return m
		}
		for _, r := range rows {
			m[r.PublicationID] = r.N
		}
		return m
	}

	likes := collect(&models.Like{})
	shares := collect(&models.Share{})
	comments := collect(&models.Comment{})
	for i := range publications {
		publications[i].LikeCount = likes[publications[i].ID]
		publications[i].ShareCount = shares[publications[i].ID]
		publications[i].CommentCount = comments[publications[i].ID]
	}
}

func parsePagination(pageStr, sizeStr string) (int, int) {
	page := 1
	pageSize := 10
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
		pageSize = s
	}
	return page, pageSize
}

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

func isAdmin(ctx *gin.Context) bool {
	unameVal, exists := ctx.Get(middleware.ContextUsernameKey)
	if !exists {
		return false
	}
	uname, _ := unameVal.(string)
	if uname == "" {
		return false
	}
	cfg := config.Get()
	for _, u := range cfg.AdminUsernames {
		if strings.EqualFold(strings.TrimSpace(u), uname) {
			return true
		}
	}
	return false
}
