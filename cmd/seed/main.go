package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinichub/clinic-scheduling/internal/db"
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

	clinicID, err := seedClinic(context.Background(), pool)
	if err != nil {
		log.Fatalf("seed clinic: %v", err)
	}
	serviceIDs, err := seedServices(context.Background(), pool)
	if err != nil {
		log.Fatalf("seed services: %v", err)
	}
	if err := seedDoctors(context.Background(), pool, clinicID, serviceIDs, 50); err != nil {
		log.Fatalf("seed doctors: %v", err)
	}
	if err := seedPatients(context.Background(), pool, 5000); err != nil {
		log.Fatalf("seed patients: %v", err)
	}

	log.Println("seed complete")
}

func seedClinic(ctx context.Context, pool *pgxpool.Pool) (uuid.UUID, error) {
	id := uuid.New()
	name := gofakeit.Company() + " Clinic"

	_, err := pool.Exec(ctx, `
		INSERT INTO clinics (id, name, created_at, updated_at)
		VALUES ($1, $2, now(), now())
	`, id, name)
	if err != nil {
		return uuid.Nil, err
	}

	log.Printf("clinic seeded: %s", name)
	return id, nil
}

func seedServices(ctx context.Context, pool *pgxpool.Pool) ([]uuid.UUID, error) {
	services := []struct {
		name            string
		durationMinutes int
		priceCents      int64
	}{
		{"General Consultation", 30, 5000},
		{"Follow-up Visit", 30, 3000},
		{"Extended Consultation", 60, 9000},
		{"Vaccination", 30, 2500},
		{"Physiotherapy Session", 60, 7500},
		{"Dermatology Screening", 30, 6000},
	}

	ids := make([]uuid.UUID, 0, len(services))

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	for _, s := range services {
		id := uuid.New()
		_, err := tx.Exec(ctx, `
			INSERT INTO services (id, name, duration_minutes, price_cents, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())
		`, id, s.name, s.durationMinutes, s.priceCents)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Printf("%d services seeded", len(ids))
	return ids, nil
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, clinicID uuid.UUID, serviceIDs []uuid.UUID, count int) error {
	log.Printf("seeding %d doctors", count)

	specialties := []string{
		"Dermatology",
		"Cardiology",
		"General Practice",
		"Orthopedics",
		"Endocrinology",
		"Neurology",
		"Pediatrics",
		"Psychiatry",
		"Ophthalmology",
		"ENT",
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		id := uuid.New()
		name := "Dr. " + gofakeit.Name()
		spec := specialties[gofakeit.Number(0, len(specialties)-1)]

		_, err := tx.Exec(ctx, `
			INSERT INTO doctors (id, clinic_id, name, specialty, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())
		`, id, clinicID, name, spec)
		if err != nil {
			return err
		}

		// Monday through Friday, morning or full day.
		start := "08:00"
		end := "17:00"
		if gofakeit.Bool() {
			end = "12:00"
		}
		for weekday := 1; weekday <= 5; weekday++ {
			_, err := tx.Exec(ctx, `
				INSERT INTO doctor_availability (doctor_id, weekday, start_time, end_time, created_at, updated_at)
				VALUES ($1, $2, $3, $4, now(), now())
			`, id, weekday, start, end)
			if err != nil {
				return err
			}
		}

		// Each doctor offers two to four services.
		offered := gofakeit.Number(2, 4)
		perm := indexes(len(serviceIDs))
		gofakeit.ShuffleInts(perm)
		for _, svcIdx := range perm[:offered] {
			_, err := tx.Exec(ctx, `
				INSERT INTO doctor_services (id, doctor_id, service_id, created_at, updated_at)
				VALUES ($1, $2, $3, now(), now())
			`, uuid.New(), id, serviceIDs[svcIdx])
			if err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("doctors seeded")
	return nil
}

func indexes(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d patients", count)

	const batchSize = 500

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}

		for i := offset; i < end; i++ {
			id := uuid.New()
			name := gofakeit.Name()
			email := gofakeit.Email()

			_, err := tx.Exec(ctx, `
				INSERT INTO patient_profiles (id, name, email, created_at, updated_at)
				VALUES ($1, $2, $3, now(), now())
			`, id, name, email)
			if err != nil {
				_ = tx.Rollback(ctx)
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		log.Printf("patients seeded: %d/%d", end, count)
	}

	log.Println("patients seeded")
	return nil
}
