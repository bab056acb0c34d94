package worker

import (
	"context"
	"log"
	"sync"
	"time"

	"truthhub/internal/models"
	"truthhub/internal/services"

	"gorm.io/gorm"
)

// WorkerService manages background workers for the application
type WorkerService struct {
	db            *gorm.DB
	notifications *services.NotificationService
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	running       bool
	mu            sync.RWMutex
}

// NewWorkerService creates a new worker service
func NewWorkerService(db *gorm.DB, notifications *services.NotificationService) *WorkerService {
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerService{
		db:            db,
		notifications: notifications,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Start starts all background workers
func (ws *WorkerService) Start() error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.running {
		return nil // Already running
	}

	log.Println("Starting background workers...")

	ws.wg.Add(1)
	go func() {
		defer ws.wg.Done()
		ws.runPeriodicTasks()
	}()

	ws.running = true
	log.Println("Background workers started successfully")
	return nil
}

// Stop stops all background workers
func (ws *WorkerService) Stop() {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if !ws.running {
		return // Not running
	}

	log.Println("Stopping background workers...")
	ws.cancel()
	ws.wg.Wait()
	ws.running = false
	log.Println("Background workers stopped")
}

// IsRunning returns whether the worker service is currently running
func (ws *WorkerService) IsRunning() bool {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.running
}

// runPeriodicTasks runs periodic maintenance tasks
func (ws *WorkerService) runPeriodicTasks() {
	log.Println("Starting periodic tasks worker...")

	trendingTicker := time.NewTicker(5 * time.Minute) // Refresh trending flags every 5 minutes
	cleanupTicker := time.NewTicker(1 * time.Hour)    // Cleanup tasks every hour

	defer trendingTicker.Stop()
	defer cleanupTicker.Stop()

	// Run once on startup so a fresh deployment has trending data
	ws.refreshTrending()

	for {
		select {
		case <-ws.ctx.Done():
			log.Println("Periodic tasks worker stopped")
			return

		case <-trendingTicker.C:
			ws.refreshTrending()

		case <-cleanupTicker.C:
			ws.runCleanupTasks()
		}
	}
}

// trendingScore weights recent engagement against article age. Votes
// count double, fact-checks triple, and the whole score decays by half
// every 24 hours.
func trendingScore(article *models.Article, now time.Time) float64 {
	engagement := float64(article.ViewCount) +
		2*float64(article.TotalVotes) +
		3*float64(article.FactCheckCount) +
		2*float64(article.DiscussionCount)

	ageHours := now.Sub(article.CreatedAt).Hours()
	if ageHours < 1 {
		ageHours = 1
	}
	decay := 1.0
	for h := ageHours; h >= 24; h -= 24 {
		decay /= 2
	}
	return engagement * decay
}

// refreshTrending recomputes the trending flag across recent articles.
// The top scorers above a minimum engagement floor get the flag;
// everything else loses it.
func (ws *WorkerService) refreshTrending() {
	log.Println("Running trending refresh task...")

	cutoff := time.Now().AddDate(0, 0, -7)
	var articles []models.Article
	if err := ws.db.Where("created_at > ? AND is_archived = ?", cutoff, false).
		Find(&articles).Error; err != nil {
		log.Printf("Trending refresh: failed to load articles: %v", err)
		return
	}

	now := time.Now()
	trendingIDs := make([]interface{}, 0)
	for i := range articles {
		if trendingScore(&articles[i], now) >= 10 {
			trendingIDs = append(trendingIDs, articles[i].ID)
		}
	}

	if err := ws.db.Model(&models.Article{}).Where("is_trending = ?", true).
		UpdateColumn("is_trending", false).Error; err != nil {
		log.Printf("Trending refresh: failed to clear flags: %v", err)
		return
	}
	if len(trendingIDs) > 0 {
		if err := ws.db.Model(&models.Article{}).Where("id IN ?", trendingIDs).
			UpdateColumn("is_trending", true).Error; err != nil {
			log.Printf("Trending refresh: failed to set flags: %v", err)
			return
		}
	}

	log.Printf("Trending refresh completed: %d articles trending", len(trendingIDs))
}

// runCleanupTasks performs various cleanup operations
func (ws *WorkerService) runCleanupTasks() {
	log.Println("Running cleanup tasks...")

	deleted, err := ws.notifications.DeleteExpired()
	if err != nil {
		log.Printf("Cleanup: failed to delete expired notifications: %v", err)
	} else if deleted > 0 {
		log.Printf("Cleanup: deleted %d expired notifications", deleted)
	}

	// Archive articles older than 90 days with no engagement
	cutoff := time.Now().AddDate(0, 0, -90)
	result := ws.db.Model(&models.Article{}).
		Where("created_at < ? AND is_archived = ? AND total_votes = 0 AND fact_check_count = 0", cutoff, false).
		UpdateColumn("is_archived", true)
	if result.Error != nil {
		log.Printf("Cleanup: failed to archive stale articles: %v", result.Error)
	} else if result.RowsAffected > 0 {
		log.Printf("Cleanup: archived %d stale articles", result.RowsAffected)
	}

	log.Println("Cleanup tasks completed")
}
