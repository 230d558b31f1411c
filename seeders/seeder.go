package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// Seed inserts the initial dataset into postgres. Every insert is
// idempotent: existing rows are left untouched.
func Seed(db *pgxpool.Pool, adminPassword string) {
	ctx := context.Background()
	log.Println("seeding initial data...")

	if err := seedDepartments(ctx, db); err != nil {
		log.Fatalf("seeding departments failed: %v", err)
	}
	if err := seedUsers(ctx, db, adminPassword); err != nil {
		log.Fatalf("seeding users failed: %v", err)
	}
	if err := seedTasks(ctx, db); err != nil {
		log.Fatalf("seeding tasks failed: %v", err)
	}

	log.Println("seeding complete")
}

func seedDepartments(ctx context.Context, db *pgxpool.Pool) error {
	for _, d := range departmentSeeds {
		_, err := db.Exec(ctx, `
			INSERT INTO departments (id, name, description, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING`,
			d.ID, d.Name, d.Description, seededAt)
		if err != nil {
			return err
		}
	}
	return nil
}

func seedUsers(ctx context.Context, db *pgxpool.Pool, adminPassword string) error {
	var hash []byte
	if adminPassword != "" {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
	}

	for _, u := range userSeeds {
		_, err := db.Exec(ctx, `
			INSERT INTO users (id, email, full_name, role, password_hash, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO NOTHING`,
			u.ID, u.Email, u.FullName, u.Role, string(hash), seededAt)
		if err != nil {
			return err
		}
	}
	return nil
}

func seedTasks(ctx context.Context, db *pgxpool.Pool) error {
	for _, t := range taskSeeds {
		_, err := db.Exec(ctx, `
			INSERT INTO tasks (id, title, description, priority, status, deadline, department_id, assigned_to, assigned_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (id) DO NOTHING`,
			t.ID, t.Title, t.Description, t.Priority, t.Status, t.Deadline, t.DepartmentID, t.AssignedTo, t.AssignedBy, seededAt)
		if err != nil {
			return err
		}
	}
	return nil
}
