package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/wanderlyst/backend/internal/adapters/database"
	"github.com/wanderlyst/backend/internal/application/services"
	"github.com/wanderlyst/backend/internal/domain/entities"
	"github.com/wanderlyst/backend/internal/infrastructure/auth"
	"github.com/wanderlyst/backend/internal/infrastructure/clients/postgres"
	"github.com/wanderlyst/backend/pkg/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL,
	address TEXT NOT NULL DEFAULT '',
	phone_number TEXT NOT NULL DEFAULT '',
	age INT NOT NULL DEFAULT 0,
	salary DOUBLE PRECISION,
	image TEXT NOT NULL DEFAULT '',
	image_storage_id TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL,
	tours_booked TEXT[] NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS signup_tokens (
	email TEXT PRIMARY KEY,
	token_hash TEXT NOT NULL,
	verified BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS tours (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL,
	difficulty TEXT NOT NULL,
	duration TEXT NOT NULL,
	capacity INT NOT NULL,
	price DOUBLE PRECISION NOT NULL,
	rating DOUBLE PRECISION NOT NULL DEFAULT 0,
	images JSONB NOT NULL DEFAULT '[]',
	locations JSONB NOT NULL DEFAULT '[]',
	dates JSONB NOT NULL DEFAULT '[]',
	guides TEXT[] NOT NULL DEFAULT '{}',
	reviews TEXT[] NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS bookings (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id),
	tour_id UUID NOT NULL REFERENCES tours(id),
	participants JSONB NOT NULL DEFAULT '[]',
	booking_date TIMESTAMPTZ NOT NULL,
	tour_completed BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS reviews (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id),
	tour_id UUID NOT NULL REFERENCES tours(id),
	review_text TEXT NOT NULL,
	rating INT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS queries (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	message TEXT NOT NULL,
	replied BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bookings_user_id ON bookings(user_id);
CREATE INDEX IF NOT EXISTS idx_bookings_tour_id ON bookings(tour_id);
CREATE INDEX IF NOT EXISTS idx_reviews_tour_id ON reviews(tour_id);
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()
	db := pgClient.DB()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := db.ExecContext(ctx, `
			TRUNCATE TABLE
				reviews,
				bookings,
				tours,
				signup_tokens,
				queries,
				users
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	userRepo := database.NewUserAdapter(pgClient)
	tourRepo := database.NewTourAdapter(pgClient)
	bookingRepo := database.NewBookingAdapter(pgClient)
	reviewRepo := database.NewReviewAdapter(pgClient)

	bookingService := services.NewBookingService(bookingRepo, tourRepo, userRepo)
	reviewService := services.NewReviewService(reviewRepo, tourRepo)

	hasher := auth.NewBcryptHasher()
	password, err := hasher.Hash("password1234")
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	now := time.Now().UTC()
	guideSalary := 52000.0

	// 1. Seed users
	admin := entities.User{
		ID: uuid.New().String(), Name: "Amara Okafor", Email: "admin@wanderlyst.tours",
		Password: password, Role: entities.RoleAdmin, ToursBooked: []string{},
		CreatedAt: now, UpdatedAt: now,
	}
	guide := entities.User{
		ID: uuid.New().String(), Name: "Jonas Schmidt", Email: "jonas@wanderlyst.tours",
		Password: password, Role: entities.RoleGuide, Salary: &guideSalary,
		ToursBooked: []string{}, CreatedAt: now, UpdatedAt: now,
	}
	customers := []entities.User{
		{
			ID: uuid.New().String(), Name: "Leyla Kaya", Email: "leyla@example.com",
			Password: password, Address: "14 Bosphorus Street", PhoneNumber: "0501234567",
			Age: 29, Role: entities.RoleCustomer, ToursBooked: []string{},
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: uuid.New().String(), Name: "Marcus Hale", Email: "marcus@example.com",
			Password: password, Address: "221 Hillcrest Avenue", PhoneNumber: "0559876543",
			Age: 41, Role: entities.RoleCustomer, ToursBooked: []string{},
			CreatedAt: now, UpdatedAt: now,
		},
	}

	for _, u := range append([]entities.User{admin, guide}, customers...) {
		if err := userRepo.Create(ctx, &u); err != nil {
			log.Printf("Failed to create user %s: %v", u.Email, err)
		}
	}

	// 2. Seed tours
	tours := []entities.Tour{
		{
			ID: uuid.New().String(), Name: "Forest Hiker",
			Description: "Five days through alpine meadows and old-growth forest with nights in mountain huts.",
			Difficulty:  entities.DifficultyMedium, Duration: "5 days", Capacity: 25, Price: 397,
			Locations: []entities.Location{{Label: "Banff", Latitude: 51.178, Longitude: -115.57}},
			Dates:     []time.Time{now.AddDate(0, 1, 0), now.AddDate(0, 3, 0)},
			Guides:    []string{guide.ID}, Reviews: []string{},
			Images:    []entities.TourImage{}, CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: uuid.New().String(), Name: "Sea Explorer",
			Description: "A week of coastal kayaking, island hopping and snorkelling in turquoise bays.",
			Difficulty:  entities.DifficultyEasy, Duration: "7 days", Capacity: 15, Price: 497,
			Locations: []entities.Location{{Label: "Split", Latitude: 43.508, Longitude: 16.44}},
			Dates:     []time.Time{now.AddDate(0, 2, 0)},
			Guides:    []string{guide.ID}, Reviews: []string{},
			Images:    []entities.TourImage{}, CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: uuid.New().String(), Name: "Snow Adventurer",
			Description: "Backcountry ski touring for the experienced, far from the groomed pistes.",
			Difficulty:  entities.DifficultyHard, Duration: "4 days", Capacity: 10, Price: 997,
			Locations: []entities.Location{{Label: "Chamonix", Latitude: 45.924, Longitude: 6.869}},
			Dates:     []time.Time{now.AddDate(0, 5, 0)},
			Guides:    []string{guide.ID}, Reviews: []string{},
			Images:    []entities.TourImage{}, CreatedAt: now, UpdatedAt: now,
		},
	}

	for i := range tours {
		if err := tourRepo.Create(ctx, &tours[i]); err != nil {
			log.Printf("Failed to create tour %s: %v", tours[i].Name, err)
		}
	}

	// 3. Book tours through the service so toursBooked stays in sync
	for i, customer := range customers {
		principal := entities.Principal{UserID: customer.ID, Role: customer.Role}
		_, err := bookingService.BookTour(ctx, principal, services.BookTourCommand{
			TourID: tours[i%len(tours)].ID,
			Participants: []entities.Participant{{
				Name: customer.Name, Email: customer.Email, Gender: entities.GenderFemale,
				Age: customer.Age, PhoneNumber: customer.PhoneNumber, Address: customer.Address,
			}},
			BookingDate: now.AddDate(0, 1, i),
		})
		if err != nil {
			log.Printf("Failed to book tour for %s: %v", customer.Email, err)
		}
	}

	// 4. Post reviews through the service so tour ratings stay consistent
	reviewTexts := []string{
		"The guides knew every trail and every story behind it.",
		"Well organised from the first email to the last campfire.",
	}
	for i, customer := range customers {
		principal := entities.Principal{UserID: customer.ID, Role: customer.Role}
		_, err := reviewService.PostReview(ctx, principal, services.PostReviewCommand{
			TourID: tours[i%len(tours)].ID,
			Text:   reviewTexts[i%len(reviewTexts)],
			Rating: 4 + i%2,
		})
		if err != nil {
			log.Printf("Failed to post review for %s: %v", customer.Email, err)
		}
	}

	log.Println("Seeding completed successfully")
}
