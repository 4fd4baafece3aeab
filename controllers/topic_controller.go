package controllers

import (
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dimas0315/AI-Social-Platform/models"
	"github.com/dimas0315/AI-Social-Platform/utils"
)

// TopicController manages the topic catalog publications are filed under.
type TopicController struct {
	db *gorm.DB
}

// NewTopicController creates a new TopicController instance.
func NewTopicController(db *gorm.DB) *TopicController {
	return &TopicController{db: db}
}

// ListTopics returns all topics with their publication counts.
func (t *TopicController) ListTopics(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes("cache:topics:list"); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	var topics []models.Topic
	if err := t.db.Order("name ASC").Find(&topics).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50120, "failed to list topics")
		return
	}

	type topicCount struct {
		TopicID uint
		N       int64
	}
	var rows []topicCount
	if err := t.db.Model(&models.Publication{}).
		Select("topic_id, COUNT(*) AS n").
		Where("topic_id IS NOT NULL").
		Group("topic_id").
		Scan(&rows).Error; err == nil {
		counts := make(map[uint]int64, len(rows))
		for _, r := range rows {
			counts[r.TopicID] = r.N
		}
		for i := range topics {
			topics[i].PublicationCount = counts[topics[i].ID]
		}
	}

	payload := gin.H{"items": topics}
	wrapper := struct {
		Code    int         `json:"code"`
		Message string      `json:"message"`
		Data    interface{} `json:"data"`
	}{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON("cache:topics:list", wrapper, time.Hour)
	utils.Success(ctx, payload)
}

// CreateTopic adds a topic to the catalog. Admin only.
func (t *TopicController) CreateTopic(ctx *gin.Context) {
	if _, ok := getUserID(ctx); !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40150, "unauthorized")
		return
	}
	if !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40306, "admin only")
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40090, "invalid request payload")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || utf8.RuneCountInString(name) > 64 {
		utils.Error(ctx, http.StatusBadRequest, 40091, "topic name must be 1-64 characters")
		return
	}
	description := utils.Sanitize(strings.TrimSpace(req.Description))
	if utf8.RuneCountInString(description) > 255 {
		rs := []rune(description)
		description = string(rs[:255])
	}

	var existing models.Topic
	if err := t.db.Where("name = ?", name).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusConflict, 40906, "topic already exists")
		return
	}

	topic := models.Topic{Name: name, Description: description}
	if err := t.db.Create(&topic).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50121, "failed to create topic")
		return
	}

	utils.InvalidateByPrefix("cache:topics:")

	utils.Success(ctx, gin.H{"topic": topic})
}
