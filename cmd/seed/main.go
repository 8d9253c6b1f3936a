package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicalocal/clinic-booking/internal/booking"
	"github.com/clinicalocal/clinic-booking/internal/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	specialtyIDs, err := seedSpecialties(context.Background(), pool)
	if err != nil {
		log.Fatalf("seed specialties: %v", err)
	}
	if err := seedDoctors(context.Background(), pool, specialtyIDs, 5); err != nil {
		log.Fatalf("seed doctors: %v", err)
	}
	if err := seedPatients(context.Background(), pool, 50); err != nil {
		log.Fatalf("seed patients: %v", err)
	}

	log.Println("seed complete")
}

func seedSpecialties(ctx context.Context, pool *pgxpool.Pool) ([]int64, error) {
	names := []string{"Medicina General", "Cardiología", "Dermatología"}
	log.Printf("seeding %d specialties", len(names))

	ids := make([]int64, 0, len(names))
	for _, name := range names {
		var id int64
		err := pool.QueryRow(ctx, `
			INSERT INTO specialties (name, created_at, updated_at)
			VALUES ($1, now(), now())
			ON CONFLICT (name) DO UPDATE SET updated_at = now()
			RETURNING id_specialty
		`, name).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	log.Println("specialties seeded")
	return ids, nil
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, specialtyIDs []int64, count int) error {
	log.Printf("seeding %d doctors", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		name := gofakeit.Name()
		document := fmt.Sprintf("%d", gofakeit.Number(10_000_000, 99_999_999))
		email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@clinicalocal.com"
		slug := booking.DeriveSlug(name)
		specialty := specialtyIDs[gofakeit.Number(0, len(specialtyIDs)-1)]

		_, err := tx.Exec(ctx, `
			INSERT INTO doctors (name, document, email, id_specialty, slug, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, 'active', now(), now())
		`, name, document, email, specialty, slug)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("doctors seeded")
	return nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d patients", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		name := gofakeit.Name()
		document := fmt.Sprintf("%d", gofakeit.Number(100_000_000, 999_999_999))
		email := gofakeit.Email()
		eps := gofakeit.Company()

		_, err := tx.Exec(ctx, `
			INSERT INTO patients (name, document, email, eps, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())
		`, name, document, email, eps)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("patients seeded")
	return nil
}
