package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/courtside/courtside/internal/engine"
	"github.com/courtside/courtside/internal/models"
	"github.com/courtside/courtside/pkg/config"
	"github.com/courtside/courtside/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed]")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		if err := runMigrations(db); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	case "seed":
		if err := seedData(db); err != nil {
			logrus.Fatalf("Failed to seed data: %v", err)
		}
		logrus.Info("Data seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", os.Args[1])
	}
}

func runMigrations(db *database.DB) error {
	if err := db.AutoMigrate(
		&models.Game{},
		&models.UserProfile{},
	); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_games_status ON games(status)",
		"CREATE INDEX IF NOT EXISTS idx_games_date ON games(date)",
		"CREATE INDEX IF NOT EXISTS idx_games_season ON games(season)",
	}
	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func dropTables(db *database.DB) error {
	tables := []string{
		"user_profiles",
		"games",
	}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}

func seedData(db *database.DB) error {
	tipoff := time.Now().Add(2 * time.Hour).Truncate(time.Hour)

	games := []models.Game{
		{
			GameID:        "0022400901",
			Season:        "2024-25",
			Date:          tipoff,
			Status:        models.StatusScheduled,
			TimeRemaining: 720,
			HomeTeam:      models.TeamState{TeamID: "1610612738", Name: "Boston Celtics", Abbreviation: "BOS"},
			AwayTeam:      models.TeamState{TeamID: "1610612752", Name: "New York Knicks", Abbreviation: "NYK"},
			Odds: models.GameOdds{
				Pregame: models.OddsLine{HomeMoneyline: -210, AwayMoneyline: 175, Spread: -5.5, Total: 221.5, LastUpdated: time.Now()},
			},
		},
		{
			GameID:        "0022400902",
			Season:        "2024-25",
			Date:          tipoff.Add(30 * time.Minute),
			Status:        models.StatusScheduled,
			TimeRemaining: 720,
			HomeTeam:      models.TeamState{TeamID: "1610612743", Name: "Denver Nuggets", Abbreviation: "DEN"},
			AwayTeam:      models.TeamState{TeamID: "1610612756", Name: "Phoenix Suns", Abbreviation: "PHX"},
			Odds: models.GameOdds{
				Pregame: models.OddsLine{HomeMoneyline: -150, AwayMoneyline: 130, Spread: -3.0, Total: 228.0, LastUpdated: time.Now()},
			},
		},
	}
	for i := range games {
		if err := db.Create(&games[i]).Error; err != nil {
			return fmt.Errorf("failed to create game %s: %w", games[i].GameID, err)
		}
	}
	logrus.Infof("Seeded %d games", len(games))

	// A demo user with a completed questionnaire.
	demo := models.NewUserProfile("demo-user")
	demo.ApplyAssessment(engine.ScoreQuestionnaire([]engine.QuestionnaireResponse{
		{QuestionID: engine.QuestionBettingFrequency, Value: 3},
		{QuestionID: engine.QuestionBetSize, Value: 3},
		{QuestionID: engine.QuestionParlayPreference, Value: 3},
		{QuestionID: engine.QuestionLosingStreak, Value: 2},
		{QuestionID: engine.QuestionOddsPreference, Value: 3},
	}))
	demo.Budget.Amount = 200
	demo.Budget.LossLimit = 100
	if err := db.Create(demo).Error; err != nil {
		return fmt.Errorf("failed to create demo profile: %w", err)
	}
	logrus.Info("Seeded demo user profile")

	return nil
}
