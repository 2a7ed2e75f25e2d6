package config

import (
	"math"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации симуляции.
// Все поля имеют значения по умолчанию (см. Default), YAML переопределяет только заданные.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Motion    MotionConfig    `yaml:"motion"`
	Combat    CombatConfig    `yaml:"combat"`
	AI        AIConfig        `yaml:"ai"`
	Sim       SimConfig       `yaml:"sim"`
	Server    ServerConfig    `yaml:"server"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// WorldConfig параметры генерации и стриминга мира
type WorldConfig struct {
	Seed              int64   `yaml:"seed"`
	VoxelSize         float64 `yaml:"voxel_size"`
	ChunkSize         int     `yaml:"chunk_size"`
	DrawDistance      int     `yaml:"draw_distance"`
	HeightLevels      int     `yaml:"height_levels"`
	HillChance        float64 `yaml:"hill_chance"`
	TallChance        float64 `yaml:"tall_chance"`
	RoadSpacing       int     `yaml:"road_spacing"`
	BuildingThreshold float64 `yaml:"building_threshold"`
	BuildingChance    float64 `yaml:"building_chance"`
	HostileChance     float64 `yaml:"hostile_chance"`
	CivilianChance    float64 `yaml:"civilian_chance"`
}

// MotionConfig параметры интегратора движения
type MotionConfig struct {
	TankSpeed        float64 `yaml:"tank_speed"`
	HostileSpeed     float64 `yaml:"hostile_speed"`
	CivilianSpeed    float64 `yaml:"civilian_speed"`
	RotationSpeed    float64 `yaml:"rotation_speed"`
	Momentum         float64 `yaml:"momentum"`
	StepClimb        float64 `yaml:"step_climb"`
	FallThreshold    float64 `yaml:"fall_threshold"`
	Gravity          float64 `yaml:"gravity"`
	LandEpsilon      float64 `yaml:"land_epsilon"`
	FastSnapDistance float64 `yaml:"fast_snap_distance"`
	FastSnapFactor   float64 `yaml:"fast_snap_factor"`
	SlowSnapFactor   float64 `yaml:"slow_snap_factor"`
	FallOutDepth     float64 `yaml:"fall_out_depth"`
	FootprintRadius  float64 `yaml:"footprint_radius"`
	RecoilImpulse    float64 `yaml:"recoil_impulse"`
	RecoilDamping    float64 `yaml:"recoil_damping"`
}

// CombatConfig параметры стрельбы и снарядов
type CombatConfig struct {
	ProjectileSpeed     float64 `yaml:"projectile_speed"`
	FireCooldown        float64 `yaml:"fire_cooldown"`
	HostileFireCooldown float64 `yaml:"hostile_fire_cooldown"`
	HitRadius           float64 `yaml:"hit_radius"`
	MaxRange            float64 `yaml:"max_range"`
	NearMissRadius      float64 `yaml:"near_miss_radius"`
	MaxHealth           int     `yaml:"max_health"`
	HostileDamage       int     `yaml:"hostile_damage"`
	LockRange           float64 `yaml:"lock_range"`
	LockAngle           float64 `yaml:"lock_angle"`
}

// AIConfig параметры поведения враждебных и мирных юнитов
type AIConfig struct {
	VisionHalfAngle    float64 `yaml:"vision_half_angle"`
	BlindSpotHalfAngle float64 `yaml:"blind_spot_half_angle"`
	LongRange          float64 `yaml:"long_range"`
	MinRange           float64 `yaml:"min_range"`
	MoveFacing         float64 `yaml:"move_facing"`
	FireFacing         float64 `yaml:"fire_facing"`
	DutyPeriod         float64 `yaml:"duty_period"`
	DutyActive         float64 `yaml:"duty_active"`
	AlertDuration      float64 `yaml:"alert_duration"`
	AlertRadius        float64 `yaml:"alert_radius"`
	FireGrace          float64 `yaml:"fire_grace"`
	BlindSpotShare     float64 `yaml:"blind_spot_share"`
	Separation         float64 `yaml:"separation"`
}

// SimConfig параметры цикла симуляции
type SimConfig struct {
	MaxTickDelta  float64 `yaml:"max_tick_delta"`
	TickRate      int     `yaml:"tick_rate"`
	Reinforcement int     `yaml:"reinforcement"`
}

type ServerConfig struct {
	MetricsPort int `yaml:"metrics_port"`
}

// TelemetryConfig настройки экспорта трассировки
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
}

type LoggingConfig struct {
	Level      string            `yaml:"level"`
	Dir        string            `yaml:"dir"`
	Components map[string]string `yaml:"components"` // Уровни отдельных компонентов, например sim: debug
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Seed:              1337,
			VoxelSize:         5,
			ChunkSize:         10,
			DrawDistance:      12,
			HeightLevels:      4,
			HillChance:        0.06,
			TallChance:        0.03,
			RoadSpacing:       24,
			BuildingThreshold: 0.62,
			BuildingChance:    0.5,
			HostileChance:     0.2,
			CivilianChance:    0.3,
		},
		Motion: MotionConfig{
			TankSpeed:        20,
			HostileSpeed:     4,
			CivilianSpeed:    6,
			RotationSpeed:    2,
			Momentum:         5,
			StepClimb:        2,
			FallThreshold:    1,
			Gravity:          30,
			LandEpsilon:      0.1,
			FastSnapDistance: 0.5,
			FastSnapFactor:   0.3,
			SlowSnapFactor:   0.1,
			FallOutDepth:     -100,
			FootprintRadius:  2.5,
			RecoilImpulse:    6,
			RecoilDamping:    4,
		},
		Combat: CombatConfig{
			ProjectileSpeed:     30,
			FireCooldown:        2,
			HostileFireCooldown: 5,
			HitRadius:           4,
			MaxRange:            100,
			NearMissRadius:      10,
			MaxHealth:           100,
			HostileDamage:       25,
			LockRange:           80,
			LockAngle:           0.35,
		},
		AI: AIConfig{
			VisionHalfAngle:    math.Pi / 2,
			BlindSpotHalfAngle: 1.0,
			LongRange:          60,
			MinRange:           6,
			MoveFacing:         0.2,
			FireFacing:         0.1,
			DutyPeriod:         12,
			DutyActive:         8,
			AlertDuration:      8,
			AlertRadius:        30,
			FireGrace:          2,
			BlindSpotShare:     0.3,
			Separation:         5,
		},
		Sim: SimConfig{
			MaxTickDelta:  0.1,
			TickRate:      60,
			Reinforcement: 1,
		},
		Telemetry: TelemetryConfig{
			Endpoint:    "localhost:4318",
			ServiceName: "voxel-tanks",
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "logs",
		},
	}
}

// Validate проверяет согласованность параметров
func (c *Config) Validate() error {
	w := c.World
	switch {
	case w.VoxelSize <= 0:
		return errors.New("world.voxel_size должен быть > 0")
	case w.ChunkSize <= 0:
		return errors.New("world.chunk_size должен быть > 0")
	case w.DrawDistance < 0:
		return errors.New("world.draw_distance не может быть отрицательным")
	case w.HeightLevels < 2:
		return errors.New("world.height_levels должен быть >= 2")
	case w.RoadSpacing <= 1:
		return errors.New("world.road_spacing должен быть > 1")
	}
	if c.AI.BlindSpotHalfAngle > c.AI.VisionHalfAngle {
		return errors.Errorf("ai.blind_spot_half_angle (%.2f) больше vision_half_angle (%.2f)",
			c.AI.BlindSpotHalfAngle, c.AI.VisionHalfAngle)
	}
	if c.AI.DutyActive > c.AI.DutyPeriod || c.AI.DutyPeriod <= 0 {
		return errors.Errorf("ai.duty_active (%.1f) должен быть в пределах duty_period (%.1f)",
			c.AI.DutyActive, c.AI.DutyPeriod)
	}
	if c.Motion.StepClimb <= 0 || c.Motion.Gravity <= 0 {
		return errors.New("motion.step_climb и motion.gravity должны быть > 0")
	}
	if c.Sim.MaxTickDelta <= 0 {
		return errors.New("sim.max_tick_delta должен быть > 0")
	}
	if c.Combat.MaxHealth <= 0 {
		return errors.New("combat.max_health должен быть > 0")
	}
	return nil
}

// GetMetricsPort возвращает Prometheus метрики порт с поддержкой fallback значений
func (s *ServerConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "GAME_METRICS_PORT", 2112)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать из ENV GAME_CONFIG, иначе возвращает Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("GAME_CONFIG")
		if path == "" {
			return cfg, nil // конфиг не задан: использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "чтение конфигурации %s", path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "разбор конфигурации %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "некорректная конфигурация")
	}

	return cfg, nil
}
