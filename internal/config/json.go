package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey       string   `json:"token_sign_key"`
		TokenIssuer        string   `json:"token_issuer"`
		TokenDuration      Duration `json:"token_duration"`
		ActionTokenHashKey string   `json:"action_token_hash_key"`
		VerifyTokenTTL     Duration `json:"verify_token_ttl"`
		ResetTokenTTL      Duration `json:"reset_token_ttl"`
		BcryptCost         int      `json:"bcrypt_cost"`
		FrontendURL        string   `json:"frontend_url"`
		LogLevel           string   `json:"log_level"`
		Version            string   `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		GRPCAddress    string   `json:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Notifier struct {
		Driver    string   `json:"driver"`
		Endpoint  string   `json:"endpoint"`
		APIKey    string   `json:"api_key"`
		Sender    string   `json:"sender"`
		Timeout   Duration `json:"timeout"`
		AMQPURL   string   `json:"amqp_url"`
		AMQPQueue string   `json:"amqp_queue"`
		QueueSize int      `json:"queue_size"`
		Workers   int      `json:"workers"`
	} `json:"notifier,omitempty"`

	Cache struct {
		RedisAddr     string `json:"redis_addr"`
		RedisPassword string `json:"redis_password"`
		RedisDB       int    `json:"redis_db"`
	} `json:"cache,omitempty"`

	Workers struct {
		PurgeInterval Duration `json:"purge_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:       jsonCfg.App.TokenSignKey,
			TokenIssuer:        jsonCfg.App.TokenIssuer,
			TokenDuration:      time.Duration(jsonCfg.App.TokenDuration),
			ActionTokenHashKey: jsonCfg.App.ActionTokenHashKey,
			VerifyTokenTTL:     time.Duration(jsonCfg.App.VerifyTokenTTL),
			ResetTokenTTL:      time.Duration(jsonCfg.App.ResetTokenTTL),
			BcryptCost:         jsonCfg.App.BcryptCost,
			FrontendURL:        jsonCfg.App.FrontendURL,
			LogLevel:           jsonCfg.App.LogLevel,
			Version:            jsonCfg.App.Version,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			GRPCAddress:    jsonCfg.Server.GRPCAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Notifier: Notifier{
			Driver:    jsonCfg.Notifier.Driver,
			Endpoint:  jsonCfg.Notifier.Endpoint,
			APIKey:    jsonCfg.Notifier.APIKey,
			Sender:    jsonCfg.Notifier.Sender,
			Timeout:   time.Duration(jsonCfg.Notifier.Timeout),
			AMQPURL:   jsonCfg.Notifier.AMQPURL,
			AMQPQueue: jsonCfg.Notifier.AMQPQueue,
			QueueSize: jsonCfg.Notifier.QueueSize,
			Workers:   jsonCfg.Notifier.Workers,
		},
		Cache: Cache{
			RedisAddr:     jsonCfg.Cache.RedisAddr,
			RedisPassword: jsonCfg.Cache.RedisPassword,
			RedisDB:       jsonCfg.Cache.RedisDB,
		},
		Workers: Workers{
			PurgeInterval: time.Duration(jsonCfg.Workers.PurgeInterval),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
