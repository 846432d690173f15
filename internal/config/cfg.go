package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	DirectorySourcePoint = "point"
	DirectorySourceState = "state"
)

type Server struct {
	Host           string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port           string `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout    int    `envconfig:"SERVER_TIMEOUT" default:"10"`
	RequestTimeout int    `envconfig:"SERVER_REQUEST_TIMEOUT" default:"30"`
}

type Breaker struct {
	TimeInterval int    `envconfig:"BREAKER_INTERVAL" default:"30"`
	TimeTimeOut  int    `envconfig:"BREAKER_TIMEOUT" default:"15"`
	RepeatNumber uint32 `envconfig:"BREAKER_REPEAT_NUM" default:"5"`
}

type Redis struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	DbType   int    `envconfig:"REDIS_DB_TYPE" default:"0"`
	LiveTime int    `envconfig:"REDIS_LIVE_TIME" default:"24"`
}

type Db struct {
	Dialect string `envconfig:"DB_DIALECT" default:"sqlite"`
	Source  string `envconfig:"DB_NAME" default:"observations.db"`
}

type RabbitMQ struct {
	Enabled bool   `envconfig:"RABBITMQ_ENABLED" default:"false"`
	Host    string `envconfig:"RABBITMQ_HOST" default:"localhost"`
	Port    string `envconfig:"RABBITMQ_PORT" default:"5672"`
	User    string `envconfig:"RABBITMQ_USER" default:"guest"`
	Pass    string `envconfig:"RABBITMQ_PASSWORD" default:"guest"`
}

type Upstream struct {
	GeocoderURL string `envconfig:"NOMINATIM_URL" default:"https://nominatim.openstreetmap.org/search.php"`
	NWSURL      string `envconfig:"NWS_API_URL" default:"https://api.weather.gov"`
	UserAgent   string `envconfig:"UPSTREAM_USER_AGENT" default:"hvac-weather-recorder (ops@hvac-weather.local)"`
	Timeout     int    `envconfig:"UPSTREAM_TIMEOUT" default:"10"`
}

type Pipeline struct {
	MaxObservationAge time.Duration `envconfig:"PIPELINE_MAX_OBSERVATION_AGE" default:"3h"`
	TieEpsilonKm      float64       `envconfig:"PIPELINE_TIE_EPSILON_KM" default:"0.01"`
	MaxStationKm      float64       `envconfig:"PIPELINE_MAX_STATION_KM" default:"0"`
	TemperatureUnit   string        `envconfig:"PIPELINE_TEMPERATURE_UNIT" default:"wmoUnit:degC"`
	WindSpeedUnit     string        `envconfig:"PIPELINE_WIND_SPEED_UNIT" default:"wmoUnit:km_h-1"`
	DefaultZip        string        `envconfig:"PIPELINE_DEFAULT_ZIP" default:"15221"`
}

type Directory struct {
	Source      string   `envconfig:"DIRECTORY_SOURCE" default:"point"`
	States      []string `envconfig:"DIRECTORY_STATES"`
	RefreshSpec string   `envconfig:"DIRECTORY_REFRESH_SPEC" default:"0 0 */6 * * *"`
}

type Safety struct {
	MinTemperatureC float64 `envconfig:"SAFETY_MIN_TEMP_C" default:"10"`
	MaxTemperatureC float64 `envconfig:"SAFETY_MAX_TEMP_C" default:"32"`
}

type Telemetry struct {
	Enabled  bool   `envconfig:"TELEMETRY_ENABLED" default:"false"`
	Endpoint string `envconfig:"TELEMETRY_ENDPOINT" default:"localhost:4317"`
}

type Config struct {
	ServiceName string `envconfig:"SERVICE_NAME" default:"hvac-weather-recorder"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"debug"`
	LogsPath    string `envconfig:"LOGS_PATH" default:"./log/hvac-weather-recorder.log"`
	HTTPLogPath string `envconfig:"HTTP_LOGS_PATH" default:"./log/upstream-http.log"`

	Server    Server
	Breaker   Breaker
	Redis     Redis
	DB        Db
	RabbitMQ  RabbitMQ
	Upstream  Upstream
	Pipeline  Pipeline
	Directory Directory
	Safety    Safety
	Telemetry Telemetry
}

func NewConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Directory.Source {
	case DirectorySourcePoint:
	case DirectorySourceState:
		if len(c.Directory.States) == 0 {
			return fmt.Errorf("DIRECTORY_STATES is required when DIRECTORY_SOURCE=%s", DirectorySourceState)
		}
	default:
		return fmt.Errorf("unknown DIRECTORY_SOURCE %q", c.Directory.Source)
	}
	if c.Safety.MinTemperatureC > c.Safety.MaxTemperatureC {
		return fmt.Errorf("SAFETY_MIN_TEMP_C %.1f is above SAFETY_MAX_TEMP_C %.1f",
			c.Safety.MinTemperatureC, c.Safety.MaxTemperatureC)
	}
	if c.Pipeline.MaxObservationAge <= 0 {
		return fmt.Errorf("PIPELINE_MAX_OBSERVATION_AGE must be positive")
	}
	return nil
}

func (c *Config) ServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

func (r *Redis) Address() string {
	return r.Host + ":" + r.Port
}

func (r *RabbitMQ) Address() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", r.User, r.Pass, r.Host, r.Port)
}
