package commands

import (
	"time"

	"restaurant-engine/internal/pkg/config"
)

// Settings are the time-based rules shared by every command.
type Settings struct {
	ReservationTTL           time.Duration
	ModificationWindow       time.Duration
	RotationThreshold        time.Duration
	OperationTimeout         time.Duration
	DefaultOccupancy         time.Duration
	ComplexityMinutesPerUnit int
}

func NewSettings(cfg config.EngineConfig) Settings {
	return Settings{
		ReservationTTL:           cfg.ReservationTTL,
		ModificationWindow:       cfg.ModificationWindow,
		RotationThreshold:        cfg.RotationThreshold,
		OperationTimeout:         cfg.OperationTimeout,
		DefaultOccupancy:         cfg.DefaultOccupancy,
		ComplexityMinutesPerUnit: cfg.ComplexityMinutesPerUnit,
	}
}

func DefaultSettings() Settings {
	return NewSettings(config.DefaultEngineConfig())
}
