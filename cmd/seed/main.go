package main

import (
	"flag"
	"log"
	"time"

	"truthhub/internal/database"
	"truthhub/internal/models"
	"truthhub/internal/services"

	"github.com/joho/godotenv"
	"github.com/lib/pq"
)

// Simple utility to seed the database with demo users, articles, and
// fact-checks for local development.

func main() {
	var password = flag.String("password", "password123", "Password for all seeded accounts")
	flag.Parse()

	log.Println("TruthHub Database Seeder")
	log.Println("========================")

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Connect to database
	dbConfig := database.LoadConfig()
	if err := database.Connect(dbConfig); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	users := seedUsers(*password)
	articles := seedArticles(users)
	seedFactChecks(users, articles)

	log.Println("Database seeding completed")
	log.Println("")
	log.Println("Seeded accounts (all share the same password):")
	for _, u := range users {
		log.Printf("  %s <%s>", u.Username, u.Email)
	}
}

func seedUsers(password string) []models.User {
	log.Println("Seeding users...")

	seeds := []models.User{
		{Name: "Ada Calhoun", Username: "ada", Email: "ada@truthhub.dev", Reputation: 650, Specialties: pq.StringArray{"science", "health"}},
		{Name: "Ben Okafor", Username: "ben", Email: "ben@truthhub.dev", Reputation: 220, Specialties: pq.StringArray{"politics"}},
		{Name: "Cleo Marsh", Username: "cleo", Email: "cleo@truthhub.dev", Reputation: 100},
		{Name: "Site Admin", Username: "admin", Email: "admin@truthhub.dev", Reputation: 1200, Role: models.RoleAdmin},
	}

	created := make([]models.User, 0, len(seeds))
	for _, seed := range seeds {
		var existing models.User
		if err := database.DB.Where("username = ?", seed.Username).First(&existing).Error; err == nil {
			created = append(created, existing)
			continue
		}

		seed.Badges = pq.StringArray{"Newcomer"}
		seed.IsActive = true
		seed.LastActiveAt = time.Now()
		if err := seed.SetPassword(password); err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		if err := database.DB.Create(&seed).Error; err != nil {
			log.Fatalf("Failed to create user %s: %v", seed.Username, err)
		}
		created = append(created, seed)
	}

	log.Printf("Seeded %d users", len(created))
	return created
}

func seedArticles(users []models.User) []models.Article {
	log.Println("Seeding articles...")

	seeds := []models.Article{
		{
			Title:    "New Study Links Urban Tree Cover to Lower Summer Temperatures",
			URL:      "https://example-journal.org/urban-trees-cooling",
			Summary:  "Researchers measured a 3C difference between heavily treed and bare neighborhoods across 20 cities.",
			Category: "science",
			Tags:     pq.StringArray{"climate", "cities"},
		},
		{
			Title:    "City Council Claims Budget Surplus for Third Straight Year",
			URL:      "https://example-news.com/city-budget-surplus",
			Summary:  "The announcement cites preliminary figures that independent auditors have not yet confirmed.",
			Category: "politics",
			Tags:     pq.StringArray{"local", "budget"},
		},
		{
			Title:    "Viral Post Says Standing Desks Double Productivity",
			URL:      "https://example-blog.net/standing-desks",
			Summary:  "A widely shared claim attributes a productivity doubling to standing desks, citing a single small study.",
			Category: "health",
			Tags:     pq.StringArray{"workplace", "viral-claim"},
		},
	}

	created := make([]models.Article, 0, len(seeds))
	for i, seed := range seeds {
		var existing models.Article
		if err := database.DB.Where("url = ?", seed.URL).First(&existing).Error; err == nil {
			created = append(created, existing)
			continue
		}

		submitter := users[i%len(users)]
		seed.SubmittedByID = submitter.ID
		seed.SubmittedByUsername = submitter.Username
		seed.Status = models.ArticleStatusPending
		seed.ConsensusVerdict = models.VerdictPending
		seed.PointsEarned = 50
		if err := database.DB.Create(&seed).Error; err != nil {
			log.Fatalf("Failed to create article %q: %v", seed.Title, err)
		}
		created = append(created, seed)
	}

	log.Printf("Seeded %d articles", len(created))
	return created
}

func seedFactChecks(users []models.User, articles []models.Article) {
	log.Println("Seeding fact-checks...")

	reputation := services.NewReputationService(database.DB)
	credibility := services.NewCredibilityService(database.DB)
	achievements := services.NewAchievementService(database.DB, reputation)
	notifications := services.NewNotificationService(database.DB, nil)
	factChecks := services.NewFactCheckService(database.DB, reputation, credibility, achievements, notifications)

	type check struct {
		article  int
		reviewer int
		sub      services.FactCheckSubmission
	}
	seeds := []check{
		{0, 1, services.FactCheckSubmission{
			Verdict:    models.VerdictTrue,
			Confidence: 9,
			Evidence:   "The underlying study is peer reviewed and the temperature methodology is sound.",
			Sources:    []string{"https://example-journal.org/urban-trees-cooling/methods"},
		}},
		{1, 0, services.FactCheckSubmission{
			Verdict:    models.VerdictMixed,
			Confidence: 6,
			Evidence:   "Surplus figures are preliminary and exclude pension obligations flagged in last year's audit.",
			Sources:    []string{"https://example-news.com/audit-2025"},
		}},
		{2, 0, services.FactCheckSubmission{
			Verdict:    models.VerdictMostlyFalse,
			Confidence: 8,
			Evidence:   "The cited study measured self-reported focus in 24 participants, not productivity, and found no doubling.",
			Sources:    []string{"https://example-journal.org/standing-desk-study"},
		}},
	}

	count := 0
	for _, c := range seeds {
		reviewer := users[c.reviewer]
		article := articles[c.article]
		if _, err := factChecks.Submit(reviewer.ID, article.ID, c.sub); err != nil {
			if err == services.ErrAlreadyFactChecked {
				continue
			}
			log.Fatalf("Failed to seed fact-check on %q: %v", article.Title, err)
		}
		count++
	}

	log.Printf("Seeded %d fact-checks", count)
}
