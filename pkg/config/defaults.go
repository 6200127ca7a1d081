// Package config provides centralized default values for the EduGen
// engagement tracking service.
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseFloat(valStr, 64); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%g (default: %g)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Database
	DBDriver                 string
	DBDataSource             string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	DBConnectMaxRetryElapsed time.Duration
	SlowQueryThreshold       time.Duration

	// Tracking Engine
	HeartbeatInterval  time.Duration
	HeartbeatThreshold float64
	SeekThreshold      float64
	DispatchQueueSize  int
	DispatchTimeout    time.Duration

	// Live Monitor
	MonitorClientBuffer int
	MonitorMaxClients   int

	// Auth
	JWTSecret         string
	TokenTTL          time.Duration
	LearnerPassword   string
	ProfessorPassword string
	AdminPassword     string
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Database
	DBDriver = getEnvString("DB_DRIVER", "sqlite3")
	DBDataSource = getEnvString("DB_DATA_SOURCE", "edugen-tracking.db")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	DBConnectMaxRetryElapsed = getEnvDuration("DB_CONNECT_MAX_RETRY_ELAPSED", 30*time.Second)
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 50*time.Millisecond)

	// Tracking Engine
	HeartbeatInterval = getEnvDuration("HEARTBEAT_INTERVAL", 10*time.Second)
	HeartbeatThreshold = getEnvFloat("HEARTBEAT_THRESHOLD", 5.0)
	SeekThreshold = getEnvFloat("SEEK_THRESHOLD", 10.0)
	DispatchQueueSize = getEnvInt("DISPATCH_QUEUE_SIZE", 32)
	DispatchTimeout = getEnvDuration("DISPATCH_TIMEOUT", 10*time.Second)

	// Live Monitor
	MonitorClientBuffer = getEnvInt("MONITOR_CLIENT_BUFFER", 16)
	MonitorMaxClients = getEnvInt("MONITOR_MAX_CLIENTS", 100)

	// Auth
	JWTSecret = getEnvString("JWT_SECRET", "edugen-dev-secret")
	TokenTTL = getEnvDuration("TOKEN_TTL", 24*time.Hour)
	LearnerPassword = getEnvString("LEARNER_PASSWORD", "learn")
	ProfessorPassword = getEnvString("PROFESSOR_PASSWORD", "teach")
	AdminPassword = getEnvString("ADMIN_PASSWORD", "admin")
}
