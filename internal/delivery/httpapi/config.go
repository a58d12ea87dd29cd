package httpapi

import "time"

type Config struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"20s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"`
	RateRPS         float64       `env:"RATE_RPS" envDefault:"20"`
	RateBurst       int           `env:"RATE_BURST" envDefault:"40"`
	GinMode         string        `env:"GIN_MODE" envDefault:"release"`
}
