package domain

import (
	"fmt"
	"strings"
)

// DestinationKind — тип назначения: очередь или топик.
type DestinationKind string

const (
	DestinationQueue DestinationKind = "queue"
	DestinationTopic DestinationKind = "topic"
)

// ParseDestinationKind — разбор типа назначения без учёта регистра и пробелов.
// Пустая строка трактуется как очередь (как в исходной консольной команде).
func ParseDestinationKind(s string) (DestinationKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(DestinationQueue):
		return DestinationQueue, nil
	case string(DestinationTopic):
		return DestinationTopic, nil
	default:
		return "", fmt.Errorf("unknown destination kind %q", s)
	}
}

// ParseDestination — "queue://NAME", "topic://NAME" или просто "NAME" (тогда тип defaultKind).
func ParseDestination(s string, defaultKind DestinationKind) (Destination, error) {
	s = strings.TrimSpace(s)
	scheme, name, ok := strings.Cut(s, "://")
	if !ok {
		return Destination{Name: s, Kind: defaultKind}, nil
	}
	kind, err := ParseDestinationKind(scheme)
	if err != nil || scheme == "" {
		return Destination{}, fmt.Errorf("unknown destination scheme in %q", s)
	}
	return Destination{Name: name, Kind: kind}, nil
}

// Destination — именованная очередь или топик, из которого читает консьюмер.
type Destination struct {
	Name string
	Kind DestinationKind
}

func (d Destination) String() string {
	return string(d.Kind) + "://" + d.Name
}

// Message — полученное сообщение. Содержимое харнессу не важно, храним минимум.
type Message struct {
	ID          string
	Body        []byte
	Destination string
}
