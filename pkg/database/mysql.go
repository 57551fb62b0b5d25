package database

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/okanbasoglu/outreach-dispatch-service/environments"
	"github.com/okanbasoglu/outreach-dispatch-service/pkg/logger"
)

func NewMySQLDB(cfg environments.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&collation=utf8mb4_unicode_ci",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName,
	)

	db, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Infof("Connected to MySQL database")
	return db, nil
}

func RunMigrations(db *sqlx.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS attempts (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		number VARCHAR(32) NOT NULL,
		channel VARCHAR(16) NOT NULL,
		status VARCHAR(32) NOT NULL,
		error_detail TEXT,
		session_id VARCHAR(64),
		created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		INDEX idx_attempts_channel (channel),
		INDEX idx_attempts_session_id (session_id),
		INDEX idx_attempts_created_at (created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Infof("Database migrations completed")

	return nil
}

func SeedTestData(db *sqlx.DB) error {
	var count int

	err := db.Get(&count, "SELECT COUNT(*) FROM attempts")
	if err != nil {
		return err
	}

	if count > 0 {
		logger.Infof("Database already has %d attempts, skipping seed", count)
		return nil
	}

	testAttempts := []struct {
		number  string
		channel string
		status  string
	}{
		{"+905551234567", "call", "initiated"},
		{"+905559876543", "call", "initiated"},
		{"+905551112233", "sms", "sms sent"},
		{"+905554445566", "sms", "sms sent"},
		{"+905557778899", "whatsapp", "whatsapp opened"},
		{"+905552223344", "whatsapp", "whatsapp opened"},
		{"+905556667788", "whatsapp", "whatsapp opened"},
		{"+905553334455", "call", "failed"},
	}

	for _, attempt := range testAttempts {
		_, err := db.Exec(
			"INSERT INTO attempts (number, channel, status) VALUES (?, ?, ?)",
			attempt.number, attempt.channel, attempt.status,
		)
		if err != nil {
			return fmt.Errorf("failed to seed test data: %w", err)
		}
	}

	logger.Infof("Seeded %d test attempts", len(testAttempts))
	return nil
}
