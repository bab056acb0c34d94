package services

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"truthhub/internal/models"
	"truthhub/internal/textutil"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const summaryMaxRunes = 300

// ArticleService owns article submission, listing, and lifecycle
type ArticleService struct {
	db            *gorm.DB
	reputation    *ReputationService
	achievements  *AchievementService
	notifications *NotificationService
}

// NewArticleService creates a new article service
func NewArticleService(db *gorm.DB, reputation *ReputationService,
	achievements *AchievementService, notifications *NotificationService) *ArticleService {
	return &ArticleService{
		db:            db,
		reputation:    reputation,
		achievements:  achievements,
		notifications: notifications,
	}
}

// ArticleSubmission is the payload for submitting a new article
type ArticleSubmission struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Summary     string   `json:"summary"`
	FullContent string   `json:"fullContent"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	SourceName  string   `json:"sourceName"`
	Author      string   `json:"author"`
	ImageURL    string   `json:"imageUrl"`
}

// ArticleSubmitResult is the submission outcome returned to the handler
type ArticleSubmitResult struct {
	Article         models.Article `json:"article"`
	PointsEarned    int            `json:"pointsEarned"`
	NewAchievements []Achievement  `json:"newAchievements"`
	LevelUp         *LevelChange   `json:"levelUp"`
}

// Validate rejects submissions before any state mutation
func (sub ArticleSubmission) Validate() error {
	if strings.TrimSpace(sub.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if sub.Summary == "" && sub.FullContent == "" {
		return fmt.Errorf("summary or full content is required")
	}
	if sub.URL != "" {
		parsed, err := url.Parse(sub.URL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return fmt.Errorf("invalid article URL")
		}
	}
	return nil
}

// domainOf extracts the registrable host from an article URL,
// lowercased and without a www prefix
func domainOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	host := strings.ToLower(parsed.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// Submit creates an article for the user, links it to its source,
// awards submission points, and notifies the rest of the community
func (s *ArticleService) Submit(userID uuid.UUID, sub ArticleSubmission) (*ArticleSubmitResult, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}

	summary := sub.Summary
	if summary == "" {
		summary = textutil.Excerpt(sub.FullContent, summaryMaxRunes)
	}

	category := sub.Category
	if category == "" {
		category = "other"
	}

	article := models.Article{
		Title:               strings.TrimSpace(sub.Title),
		URL:                 sub.URL,
		Summary:             summary,
		FullContent:         sub.FullContent,
		Category:            category,
		Tags:                pq.StringArray(sub.Tags),
		SubmittedByID:       userID,
		SubmittedByUsername: user.Username,
		Author:              sub.Author,
		ImageURL:            sub.ImageURL,
		Status:              models.ArticleStatusPending,
		ConsensusVerdict:    models.VerdictPending,
		PointsEarned:        50,
	}

	if domain := domainOf(sub.URL); domain != "" {
		source, err := s.resolveSource(domain, sub.SourceName)
		if err != nil {
			return nil, err
		}
		article.SourceName = source.Name
		article.SourceDomain = source.Domain
		article.SourceReliability = source.TrustLevel
	} else if sub.SourceName != "" {
		article.SourceName = sub.SourceName
	}

	if err := s.db.Create(&article).Error; err != nil {
		return nil, err
	}

	aid := article.ID
	if err := s.reputation.Apply(Adjustment{
		UserID:            userID,
		Reputation:        article.PointsEarned,
		Points:            article.PointsEarned,
		ArticlesSubmitted: 1,
		Reason:            models.ReasonArticleSubmitted,
		TargetID:          &aid,
		TargetType:        models.TargetArticle,
	}); err != nil {
		return nil, err
	}

	// Advisory from here on
	s.notifications.Broadcast(models.Notification{
		Type:             models.NotificationNewArticle,
		Title:            "New Article Submitted",
		Message:          fmt.Sprintf("%s submitted %q for community review", user.Username, article.Title),
		RelatedArticleID: &aid,
		RelatedUserID:    &userID,
		Actionable:       true,
		ActionURL:        fmt.Sprintf("/dashboard/article/%s", article.ID),
		ActionText:       "Review Article",
		Icon:             "FileText",
		Color:            "blue",
	}, userID)

	achievementResult := s.achievements.Check(userID)

	return &ArticleSubmitResult{
		Article:         article,
		PointsEarned:    article.PointsEarned,
		NewAchievements: achievementResult.Achievements,
		LevelUp:         achievementResult.LevelUp,
	}, nil
}

// resolveSource finds or creates the source row for a domain and bumps
// its article counter
func (s *ArticleService) resolveSource(domain, fallbackName string) (*models.Source, error) {
	var source models.Source
	err := s.db.Where("domain = ?", domain).First(&source).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		name := fallbackName
		if name == "" {
			name = domain
		}
		source = models.Source{
			Name:             name,
			Domain:           domain,
			ReliabilityScore: 50,
			TrustLevel:       "medium",
		}
		if err := s.db.Create(&source).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Source{}).Where("id = ?", source.ID).
		UpdateColumn("total_articles", gorm.Expr("total_articles + 1")).Error; err != nil {
		return nil, err
	}
	return &source, nil
}

// ArticleFilters narrows article listings
type ArticleFilters struct {
	Category string
	Status   string
	Search   string
	Tag      string
	SortBy   string // created_at, credibility_score, total_votes, view_count
	Order    string // asc, desc
	Limit    int
	Offset   int
}

// List returns articles matching the filters plus the total match count
func (s *ArticleService) List(filters ArticleFilters) ([]models.Article, int64, error) {
	query := s.db.Model(&models.Article{}).Where("is_archived = ?", false)

	if filters.Category != "" && filters.Category != "all" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Status != "" && filters.Status != "all" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Tag != "" {
		query = query.Where("? = ANY(tags)", filters.Tag)
	}
	if filters.Search != "" {
		pattern := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(summary) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filters.SortBy
	switch sortBy {
	case "credibility_score", "total_votes", "view_count", "created_at":
	default:
		sortBy = "created_at"
	}
	order := "DESC"
	if filters.Order == "asc" {
		order = "ASC"
	}

	limit := filters.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var articles []models.Article
	if err := query.Order(fmt.Sprintf("%s %s", sortBy, order)).
		Limit(limit).Offset(filters.Offset).
		Find(&articles).Error; err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// Trending returns the currently trending articles
func (s *ArticleService) Trending(limit int) ([]models.Article, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	var articles []models.Article
	err := s.db.Where("is_trending = ? AND is_archived = ?", true, false).
		Order("total_votes DESC, view_count DESC").
		Limit(limit).
		Find(&articles).Error
	return articles, err
}

// Get returns one article and increments its view count
func (s *ArticleService) Get(articleID uuid.UUID) (*models.Article, error) {
	var article models.Article
	if err := s.db.Preload("SubmittedBy").
		First(&article, "id = ?", articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// View counting is advisory; a failed bump never hides the article
	s.db.Model(&models.Article{}).Where("id = ?", articleID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	article.ViewCount++

	return &article, nil
}

// Delete removes an article along with its fact-checks, votes, and
// notifications. Only the submitter or an admin may delete.
func (s *ArticleService) Delete(userID uuid.UUID, role string, articleID uuid.UUID) error {
	var article models.Article
	if err := s.db.First(&article, "id = ?", articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if article.SubmittedByID != userID && role != models.RoleAdmin {
		return ErrNotOwner
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", articleID).Delete(&models.FactCheck{}).Error; err != nil {
			return err
		}
		if err := tx.Where("target_id = ? AND target_type = ?", articleID, models.TargetArticle).
			Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("related_article_id = ?", articleID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&article).Error
	})
}
