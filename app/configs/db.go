package configs

import (
	"fmt"
	"strconv"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// OpenConnection opens the MySQL connection backing the mysql cart store.
func OpenConnection(env ENV) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		env.DBUser,
		env.DBPassword,
		env.DBHost,
		env.DBPort,
		env.DBName,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// OpenRedis builds the Redis client backing the redis cart store.
func OpenRedis(env ENV) (*redis.Client, error) {
	db, err := strconv.Atoi(env.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB %q: %w", env.RedisDB, err)
	}

	return redis.NewClient(&redis.Options{
		Addr:     env.RedisAddr,
		Password: env.RedisPassword,
		DB:       db,
	}), nil
}
