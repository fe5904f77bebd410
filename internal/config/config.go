package config

import "os"

type PlantCareServiceConfig struct {
	Port        string
	WeatherCfg  WeatherAPIConfig
	RoutingCfg  RoutingAPIConfig
	PostgresCfg PostgresConfig
	RedisCfg    RedisConfig
	RabbitMQCfg RabbitMQConfig
}

type WeatherAPIConfig struct {
	APIKey  string
	BaseURL string
}

type RoutingAPIConfig struct {
	BaseURL string
	APIKey  string
}

type PostgresConfig struct {
	DBname   string
	Username string
	Password string
	Host     string
	Port     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RabbitMQConfig struct {
	Username string
	Password string
	Host     string
	Port     string
}

func New() *PlantCareServiceConfig {
	return &PlantCareServiceConfig{
		Port: getEnvOrDefault("PORT", "8090"),
		WeatherCfg: WeatherAPIConfig{
			APIKey:  getEnvOrDefault("WEATHER_API_KEY", ""),
			BaseURL: getEnvOrDefault("WEATHER_API_BASE_URL", "https://api.openweathermap.org/data/3.0"),
		},
		RoutingCfg: RoutingAPIConfig{
			BaseURL: getEnvOrDefault("ROUTING_API_BASE_URL", ""),
			APIKey:  getEnvOrDefault("ROUTING_API_KEY", ""),
		},
		PostgresCfg: PostgresConfig{
			DBname:   getEnvOrDefault("POSTGRES_DB", "plantcare"),
			Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
		},
		RedisCfg: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       0,
		},
		RabbitMQCfg: RabbitMQConfig{
			Username: getEnvOrDefault("RABBITMQ_USER", "admin"),
			Password: getEnvOrDefault("RABBITMQ_PWD", "admin"),
			Host:     getEnvOrDefault("RABBITMQ_HOST", "localhost"),
			Port:     getEnvOrDefault("RABBITMQ_PORT", "5672"),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
