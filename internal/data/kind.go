package data

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrUnknownKind is returned when a table names an enemy kind the core does
// not implement.
var ErrUnknownKind = errors.New("unknown enemy kind")

// Kind is the closed set of hostile entity kinds.
type Kind uint8

const (
	KindBat Kind = iota
	KindSlime
	KindArcher
	KindCharger
	KindBomber
	KindTurret
	KindSpitter
	KindBoss
	kindCount
)

var kindNames = [kindCount]string{
	KindBat:     "bat",
	KindSlime:   "slime",
	KindArcher:  "archer",
	KindCharger: "charger",
	KindBomber:  "bomber",
	KindTurret:  "turret",
	KindSpitter: "spitter",
	KindBoss:    "boss",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind maps a table name to its Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Stationary kinds never walk in from the top edge.
func (k Kind) Stationary() bool {
	switch k {
	case KindTurret, KindSpitter:
		return true
	case KindBat, KindSlime, KindArcher, KindCharger, KindBomber, KindBoss:
		return false
	}
	return false
}

// Ranged kinds fire hostile projectiles.
func (k Kind) Ranged() bool {
	switch k {
	case KindArcher, KindTurret, KindSpitter, KindBoss:
		return true
	case KindBat, KindSlime, KindCharger, KindBomber:
		return false
	}
	return false
}

func (k Kind) IsBoss() bool { return k == KindBoss }

// TopSpawnEligible reports whether a record of this kind may enter from the
// top edge instead of appearing at its generated position.
func (k Kind) TopSpawnEligible() bool {
	return !k.Stationary() && !k.IsBoss()
}

func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (k Kind) MarshalYAML() (any, error) {
	return k.String(), nil
}
