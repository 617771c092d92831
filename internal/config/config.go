package config

import (
	"github.com/spf13/viper"
)

const DefaultDatabasePath = "./bookshelf.db"

type (
	Config struct {
		Database
		Pool
		Search
	}

	Database struct {
		Path string
	}
	Pool struct {
		MinSize int // Number of store handles seeded per pool
	}
	Search struct {
		DefaultPageSize uint64 // Page size applied when a caller omits take
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("pool_min_size", 5)
	v.SetDefault("search_default_page_size", 50)

	return &Config{
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Pool: Pool{
			MinSize: v.GetInt("POOL_MIN_SIZE"),
		},
		Search: Search{
			DefaultPageSize: v.GetUint64("SEARCH_DEFAULT_PAGE_SIZE"),
		},
	}
}
