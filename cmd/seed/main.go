package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"internvault-backend/internal/config"
	"internvault-backend/internal/infrastructure/database"
)

type planSeed struct {
	Duration int
	Price    int64
	Currency string
	Country  string // empty means default plan
}

// Pricing matrix: durations 1-6 months, per market. The USD rows have
// no country and act as the fallback for unrecognized locations.
var planSeeds = []planSeed{
	{1, 90, "USD", ""}, {2, 170, "USD", ""}, {3, 240, "USD", ""},
	{4, 300, "USD", ""}, {5, 350, "USD", ""}, {6, 390, "USD", ""},

	{1, 3500, "INR", "IN"}, {2, 6500, "INR", "IN"}, {3, 8500, "INR", "IN"},
	{4, 10500, "INR", "IN"}, {5, 12500, "INR", "IN"}, {6, 14500, "INR", "IN"},

	{1, 80, "GBP", "GB"}, {2, 150, "GBP", "GB"}, {3, 210, "GBP", "GB"},
	{4, 260, "GBP", "GB"}, {5, 300, "GBP", "GB"}, {6, 330, "GBP", "GB"},

	{1, 89, "EUR", "EU"}, {2, 169, "EUR", "EU"}, {3, 249, "EUR", "EU"},
	{4, 329, "EUR", "EU"}, {5, 409, "EUR", "EU"}, {6, 479, "EUR", "EU"},

	{1, 6000, "NPR", "NP"}, {2, 12000, "NPR", "NP"}, {3, 16000, "NPR", "NP"},
	{4, 19000, "NPR", "NP"}, {5, 23000, "NPR", "NP"}, {6, 27000, "NPR", "NP"},

	{1, 13000, "PKR", "PK"}, {2, 25000, "PKR", "PK"}, {3, 33000, "PKR", "PK"},
	{4, 40000, "PKR", "PK"}, {5, 48000, "PKR", "PK"}, {6, 56000, "PKR", "PK"},

	{1, 780000, "IDR", "ID"}, {2, 1400000, "IDR", "ID"}, {3, 1800000, "IDR", "ID"},
	{4, 2300000, "IDR", "ID"}, {5, 2700000, "IDR", "ID"}, {6, 3100000, "IDR", "ID"},
}

func main() {
	projectsFile := flag.String("projects", "ProjectsInternVault.xlsx", "path to the projects spreadsheet")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db := database.NewPostgresDB(&cfg.Database)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Seeding database...")

	created, err := seedPricingPlans(ctx, db)
	if err != nil {
		log.Fatalf("Failed to seed pricing plans: %v", err)
	}
	log.Printf("Created %d new pricing plans (%d already existed)", created, len(planSeeds)-created)

	projectsCreated, projectsSkipped, err := seedProjects(ctx, db, *projectsFile)
	if err != nil {
		log.Fatalf("Failed to seed projects: %v", err)
	}
	log.Printf("Seeded %d new projects, %d already existed or were skipped", projectsCreated, projectsSkipped)
}

func seedPricingPlans(ctx context.Context, db *database.PostgresDB) (int, error) {
	query := `
		INSERT INTO pricing_plans (id, duration, price, currency, country, is_active)
		SELECT gen_random_uuid(), $1, $2, $3, $4, TRUE
		WHERE NOT EXISTS (
			SELECT 1 FROM pricing_plans
			WHERE duration = $1 AND currency = $3 AND country IS NOT DISTINCT FROM $4
		)
	`

	created := 0
	for _, plan := range planSeeds {
		var country *string
		if plan.Country != "" {
			country = &plan.Country
		}
		tag, err := db.Pool.Exec(ctx, query,
			plan.Duration,
			decimal.NewFromInt(plan.Price),
			plan.Currency,
			country,
		)
		if err != nil {
			return created, err
		}
		created += int(tag.RowsAffected())
	}
	return created, nil
}

func seedProjects(ctx context.Context, db *database.PostgresDB, path string) (int, int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return 0, 0, err
	}
	if len(rows) < 2 {
		return 0, 0, nil
	}

	// First row maps column headers to indexes.
	headerIndex := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		headerIndex[strings.ToLower(strings.TrimSpace(header))] = i
	}

	query := `
		INSERT INTO projects (id, name, description, domain, role, difficulty, resource_url)
		SELECT gen_random_uuid(), $1, '', $2, $3, $4, $5
		WHERE NOT EXISTS (
			SELECT 1 FROM projects
			WHERE domain = $2 AND role = $3 AND difficulty = $4 AND resource_url = $5
		)
	`

	created, skipped := 0, 0
	for _, row := range rows[1:] {
		title := cellAt(row, headerIndex, "title")
		domain := cellAt(row, headerIndex, "domain")
		role := cellAt(row, headerIndex, "role")
		difficulty := strings.ToUpper(cellAt(row, headerIndex, "difficulty"))
		url := cellAt(row, headerIndex, "url")

		if role == "" || domain == "" || difficulty == "" || url == "" {
			log.Printf("Skipping row with missing required fields: %v", row)
			skipped++
			continue
		}

		tag, err := db.Pool.Exec(ctx, query, title, domain, role, difficulty, url)
		if err != nil {
			return created, skipped, err
		}
		if tag.RowsAffected() > 0 {
			created++
		} else {
			skipped++
		}
	}
	return created, skipped, nil
}

func cellAt(row []string, headerIndex map[string]int, header string) string {
	i, ok := headerIndex[header]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
