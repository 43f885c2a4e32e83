package cmd

import (
	"fmt"
	"time"
)

// Config carries everything the application needs from the environment.
type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	JWTSecret   string
	TokenExpiry time.Duration

	LowStockSchedule string

	AdminEmail    string
	AdminPassword string
}

// PostgresDSN assembles the GORM connection string.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
