package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// EntityBuildSpec is a prefab: a name plus raw component specs keyed by
// component name.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type CombatantComponentSpec struct {
	Faction string `yaml:"faction"`
}

type AppearanceComponentSpec struct {
	Color *YAMLColor `yaml:"color"`
}

type HealthComponentSpec struct {
	Max     float64 `yaml:"max"`
	IFrames float64 `yaml:"iframes"`
	Flashes int     `yaml:"flashes"`
}

type BodyComponentSpec struct {
	Width        float64  `yaml:"width"`
	Height       float64  `yaml:"height"`
	GravityScale *float64 `yaml:"gravity_scale"`
}

type DashSpec struct {
	Power    float64 `yaml:"power"`
	Duration float64 `yaml:"duration"`
	Flatten  bool    `yaml:"flatten"`
}

type WarpSpec struct {
	Distance float64 `yaml:"distance"`
	Skin     float64 `yaml:"skin"`
}

type FighterComponentSpec struct {
	MoveSpeed          float64  `yaml:"move_speed"`
	JumpSpeed          float64  `yaml:"jump_speed"`
	ExtraJumps         *int     `yaml:"extra_jumps"`
	AttackDuration     float64  `yaml:"attack_duration"`
	Dash               DashSpec `yaml:"dash"`
	Warp               WarpSpec `yaml:"warp"`
	UltimateStartReady bool     `yaml:"ultimate_start_ready"`
}

type CooldownsComponentSpec struct {
	Attack   float64 `yaml:"attack"`
	Dash     float64 `yaml:"dash"`
	Ultimate float64 `yaml:"ultimate"`
}

type PointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type BoxSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// AttackSpec describes one attack. A missing origin leaves the attack
// unconfigured.
type AttackSpec struct {
	Origin *PointSpec `yaml:"origin"`
	Radius float64    `yaml:"radius"`
	Box    *BoxSpec   `yaml:"box"`
	Damage float64    `yaml:"damage"`
	Bypass bool       `yaml:"bypass"`
}

// UltimateAttackSpec falls back to the normal attack origin, and to the
// normal radius scaled by RadiusMultiplier when neither Radius nor Box is
// set.
type UltimateAttackSpec struct {
	AttackSpec       `yaml:",inline"`
	RadiusMultiplier float64 `yaml:"radius_multiplier"`
}

type AttackProfileComponentSpec struct {
	Normal   *AttackSpec         `yaml:"normal"`
	Crouch   *AttackSpec         `yaml:"crouch"`
	Ultimate *UltimateAttackSpec `yaml:"ultimate"`
}

type TimelineComponentSpec struct {
	AttackImpact   float64 `yaml:"attack_impact"`
	UltimateImpact float64 `yaml:"ultimate_impact"`
	UltimateFinish float64 `yaml:"ultimate_finish"`
}

type AIComponentSpec struct {
	DetectRange         float64 `yaml:"detect_range"`
	AttackRange         float64 `yaml:"attack_range"`
	DashRangeMultiplier float64 `yaml:"dash_range_multiplier"`
	Script              string  `yaml:"script"`
}

// MatchSpec is the match and arena configuration.
type MatchSpec struct {
	Name             string    `yaml:"name"`
	RoundsToWin      int       `yaml:"rounds_to_win"`
	CountdownSeconds float64   `yaml:"countdown_seconds"`
	SessionSeconds   float64   `yaml:"session_seconds"`
	Arena            ArenaSpec `yaml:"arena"`
	Player           SpawnSpec `yaml:"player"`
	Enemy            SpawnSpec `yaml:"enemy"`
}

type ArenaSpec struct {
	Width     float64    `yaml:"width"`
	Height    float64    `yaml:"height"`
	Floor     float64    `yaml:"floor"`
	Gravity   float64    `yaml:"gravity"`
	MaxFall   float64    `yaml:"max_fall"`
	Obstacles []RectSpec `yaml:"obstacles"`
	Color     *YAMLColor `yaml:"color"`
}

type RectSpec struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type SpawnSpec struct {
	Prefab string  `yaml:"prefab"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Facing float64 `yaml:"facing"`
}

func LoadMatchSpec(filename string) (MatchSpec, error) {
	spec, err := LoadSpec[MatchSpec](filename)
	if err != nil {
		return spec, err
	}
	if spec.RoundsToWin <= 0 {
		spec.RoundsToWin = 2
	}
	if spec.CountdownSeconds < 0 {
		spec.CountdownSeconds = 0
	}
	if spec.SessionSeconds <= 0 {
		spec.SessionSeconds = 120
	}
	return spec, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
