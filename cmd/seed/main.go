// seed creates an admin user and a few demo shipments with tracking history
// in the local dev database. Re-running reuses the admin and adds new
// shipments.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ErlanBelekov/shiptrack/config"
	"github.com/ErlanBelekov/shiptrack/internal/credential"
	"github.com/ErlanBelekov/shiptrack/internal/domain"
	"github.com/ErlanBelekov/shiptrack/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/shiptrack/internal/log"
	"github.com/ErlanBelekov/shiptrack/internal/usecase"
	"github.com/joho/godotenv"
)

type hop struct {
	status   domain.Status
	location string
	note     string
}

type demoShipment struct {
	sender, recipient   string
	origin, destination string
	weightKg            float64
	hops                []hop
}

var shipments = []demoShipment{
	{"Acme Corp", "Bob Smith", "New York, NY", "Los Angeles, CA", 2.4, []hop{
		{domain.StatusInTransit, "Chicago, IL", "Departed sort facility"},
		{domain.StatusOutForDelivery, "Los Angeles, CA", ""},
		{domain.StatusDelivered, "Los Angeles, CA", "Left at front door"},
	}},
	{"Globex", "Alice Jones", "Seattle, WA", "Austin, TX", 0.8, []hop{
		{domain.StatusInTransit, "Denver, CO", ""},
	}},
	{"Initech", "Peter Gibbons", "Boston, MA", "Miami, FL", 12.5, []hop{
		{domain.StatusInTransit, "Atlanta, GA", ""},
		{domain.StatusException, "Atlanta, GA", "Address could not be verified"},
	}},
	{"Umbrella", "Jill Valentine", "Denver, CO", "Portland, OR", 5, nil},
}

func main() {
	_ = godotenv.Load()
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := ctxlog.New(os.Stderr, cfg.Env, cfg.SlogLevel())

	if err := postgres.Migrate(cfg.DatabaseURL, logger); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	users := postgres.NewUserRepository(pool)
	shipmentRepo := postgres.NewShipmentRepository(pool)
	ids := credential.Generator{}
	tokens := credential.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.JWTTTL)

	auth := usecase.NewAuthUsecase(users, credential.NewPasswordHasher(cfg.BcryptCost), tokens)
	lifecycle := usecase.NewShipmentUsecase(shipmentRepo, postgres.NewEventRepository(pool), postgres.NewServiceRepository(pool), ids, logger)
	admin := usecase.NewAdminUsecase(users, shipmentRepo, lifecycle, logger)

	res, err := auth.Register(ctx, usecase.RegisterInput{
		Name:     "Admin",
		Email:    cfg.SeedAdminEmail,
		Password: cfg.SeedAdminPassword,
	})
	if errors.Is(err, domain.ErrEmailTaken) {
		res, err = auth.Login(ctx, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	}
	if err != nil {
		log.Fatalf("admin user: %v", err)
	}

	adminUser, err := users.SetAdmin(ctx, res.User.ID, true)
	if err != nil {
		log.Fatalf("promote admin: %v", err)
	}
	actor := adminUser.Identity()

	type created struct {
		trackingID, code string
		status           domain.Status
	}
	var out []created

	for _, d := range shipments {
		weight := d.weightKg
		c, err := admin.CreateShipment(ctx, actor, usecase.CreateShipmentInput{
			SenderName:    d.sender,
			RecipientName: d.recipient,
			Origin:        d.origin,
			Destination:   d.destination,
			WeightKg:      &weight,
		})
		if err != nil {
			log.Fatalf("create shipment for %s: %v", d.recipient, err)
		}

		status := c.Shipment.Status
		for _, h := range d.hops {
			in := usecase.AppendEventInput{TrackingID: c.Shipment.TrackingID, Status: string(h.status), Location: h.location}
			if h.note != "" {
				note := h.note
				in.Note = &note
			}
			s, _, err := lifecycle.AppendEvent(ctx, actor, in)
			if err != nil {
				log.Fatalf("append event to %s: %v", c.Shipment.TrackingID, err)
			}
			status = s.Status
		}
		out = append(out, created{c.Shipment.TrackingID, c.VerificationCode, status})
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Admin:     %s / %s\n", cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	fmt.Printf("  Admin ID:  %s\n", adminUser.ID)
	fmt.Println()
	fmt.Println("  Shipments:")
	for _, c := range out {
		fmt.Printf("    %s  code=%s  status=%s\n", c.trackingID, c.code, c.status)
	}
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Printf("  curl -s http://localhost:%s/api/shipments/track/%s\n", cfg.Port, out[0].trackingID)
	fmt.Println()
	fmt.Printf("  curl -s -X POST http://localhost:%s/api/auth/login \\\n", cfg.Port)
	fmt.Printf("    -H 'Content-Type: application/json' \\\n")
	fmt.Printf("    -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	fmt.Println()
	fmt.Printf("  curl -s -X POST http://localhost:%s/api/shipments/%s/verify \\\n", cfg.Port, out[0].trackingID)
	fmt.Printf("    -H 'Content-Type: application/json' -d '{\"code\":\"%s\"}'\n", out[0].code)
}
