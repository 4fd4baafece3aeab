package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dimas0315/AI-Social-Platform/models"
	"github.com/dimas0315/AI-Social-Platform/utils"
)

// StatsController provides aggregate statistics such as counts and daily active users.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns aggregate statistics for the platform.
func (s *StatsController) GetStats(ctx *gin.Context) {
	var userCount int64
	var publicationCount int64
	var commentCount int64
	var dailyActive int64

	if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		// Fallback to 0 instead of failing the whole endpoint
		userCount = 0
	}

	if err := s.db.Model(&models.Publication{}).Count(&publicationCount).Error; err != nil {
		publicationCount = 0
	}

	if err := s.db.Model(&models.Comment{}).Count(&commentCount).Error; err != nil {
		commentCount = 0
	}

	// One activity row per user per day, so counting rows for today's
	// date counts today's distinct active users. The date value must match
	// the local midnight written by the activity recorder.
	now := time.Now().In(time.Local)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := s.db.Model(&models.UserActivity{}).
		Where("date = ?", today).
		Count(&dailyActive).Error; err != nil {
		dailyActive = 0
	}

	utils.Success(ctx, gin.H{
		"user_count":         userCount,
		"publication_count":  publicationCount,
		"comment_count":      commentCount,
		"daily_active_count": dailyActive,
	})
}

// GetPublicationStats returns engagement counts for a given publication id.
func (s *StatsController) GetPublicationStats(ctx *gin.Context) {
	id := ctx.Param("id")

	var likesCount int64
	if err := s.db.Model(&models.Like{}).Where("publication_id = ?", id).Count(&likesCount).Error; err != nil {
		likesCount = 0
	}

	var sharesCount int64
	if err := s.db.Model(&models.Share{}).Where("publication_id = ?", id).Count(&sharesCount).Error; err != nil {
		sharesCount = 0
	}

	var commentsCount int64
	if err := s.db.Model(&models.Comment{}).Where("publication_id = ?", id).Count(&commentsCount).Error; err != nil {
		commentsCount = 0
	}

	utils.Success(ctx, gin.H{
		"likes_count":    likesCount,
		"shares_count":   sharesCount,
		"comments_count": commentsCount,
	})
}
