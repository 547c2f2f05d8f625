package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Host     string   `koanf:"host"`
	Listen   string   `koanf:"listen"`
	Booking  Booking  `koanf:"booking"`
	Google   Google   `koanf:"google"`
	Database Database `koanf:"db"`
	Redis    Redis    `koanf:"redis"`
}

// Booking is the static configuration surface of the availability engine:
// calendar identity, timezone, horizon, slot duration, and the ordered rule
// list. All of it is exogenous input to the engine, never computed by it.
type Booking struct {
	CalendarId          string `koanf:"calendarid"`
	Timezone            string `koanf:"timezone"`
	HorizonDays         int    `koanf:"horizondays"`
	SlotDurationMinutes int    `koanf:"slotdurationminutes"`
	Rules               []Rule `koanf:"rules"`
}

// Rule is one declarative constraint from the config file. Type selects the
// variant; the remaining fields are read per variant.
type Rule struct {
	Type           string  `koanf:"type"`
	Effect         string  `koanf:"effect"`
	Days           []int   `koanf:"days"`
	HourStart      float64 `koanf:"hourstart"`
	HourEnd        float64 `koanf:"hourend"`
	ThresholdHours float64 `koanf:"thresholdhours"`
}

type Google struct {
	ClientId     string `koanf:"clientid"`
	ClientSecret string `koanf:"clientsecret"`
	// QueryStyle selects how busy intervals are fetched: "events" (full event
	// list with transparency and attendee metadata) or "freebusy" (busy
	// intervals only).
	QueryStyle string `koanf:"querystyle"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type Redis struct {
	Addr       string `koanf:"addr"`
	TTLSeconds int    `koanf:"ttlseconds"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Host:   "http://localhost:3000",
		Listen: ":8181",
		Booking: Booking{
			CalendarId:          "primary",
			Timezone:            "UTC",
			HorizonDays:         28,
			SlotDurationMinutes: 30,
		},
		Google: Google{
			QueryStyle: "events",
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "slotbook",
			Pass:   "",
			Name:   "slotbook",
			Schema: "slotbook",
		},
		Redis: Redis{
			TTLSeconds: 30,
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "SLOTBOOK_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "SLOTBOOK_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
