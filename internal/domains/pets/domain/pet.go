package domain

import (
	"errors"
	"strings"
)

// Status represents the lifecycle state of a pet inside the store catalog.
type Status string

const (
	StatusAvailable Status = "available"
	StatusPending   Status = "pending"
	StatusSold      Status = "sold"
	StatusWithdrawn Status = "withdrawn"
)

var (
	ErrEmptyName         = errors.New("pet name is required")
	ErrNegativePrice     = errors.New("pet price must not be negative")
	ErrUnknownStatus     = errors.New("pet status is not recognized")
	ErrInvalidTransition = errors.New("pet status transition is not allowed")
)

// Category groups pets in the catalog.
type Category struct {
	ID   int64
	Name string
}

// Tag is a lightweight marker attached to pets for filtering.
type Tag struct {
	ID   int64
	Name string
}

// Pet represents the aggregate managed by the pets bounded context.
type Pet struct {
	ID        int64
	Name      string
	Category  *Category
	Tags      []Tag
	Status    Status
	Price     float64
	PhotoURLs []string
}

// NewPet validates the invariants and builds a new Pet aggregate. Pets always
// enter the catalog as available; pending and sold are reachable only through
// the order reservation path.
func NewPet(id int64, name string, price float64) (*Pet, error) {
	p := &Pet{ID: id, Status: StatusAvailable}
	if err := p.Rename(name); err != nil {
		return nil, err
	}
	if err := p.ChangePrice(price); err != nil {
		return nil, err
	}
	return p, nil
}

// ParseStatus validates a raw status value. An empty value defaults to available.
func ParseStatus(raw string) (Status, error) {
	if strings.TrimSpace(raw) == "" {
		return StatusAvailable, nil
	}
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch status {
	case StatusAvailable, StatusPending, StatusSold, StatusWithdrawn:
		return status, nil
	default:
		return "", ErrUnknownStatus
	}
}

// OrderPath reports whether a status may only be entered through the order
// reservation protocol, never by an administrative write.
func OrderPath(status Status) bool {
	return status == StatusPending || status == StatusSold
}

// CanTransition is the single source of truth for the pet status table.
// Sold is terminal; available can never jump straight to sold.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusAvailable:
		return to == StatusPending || to == StatusWithdrawn
	case StatusPending:
		return to == StatusAvailable || to == StatusSold
	case StatusWithdrawn:
		return to == StatusAvailable
	default:
		return false
	}
}

// TransitionTo applies a status change after checking the transition table.
func (p *Pet) TransitionTo(to Status) error {
	if _, err := ParseStatus(string(to)); err != nil {
		return err
	}
	if !CanTransition(p.Status, to) {
		return ErrInvalidTransition
	}
	p.Status = to
	return nil
}

// Rename mutates the pet name ensuring the invariant.
func (p *Pet) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	p.Name = name
	return nil
}

// ChangePrice stores a new asking price.
func (p *Pet) ChangePrice(price float64) error {
	if price < 0 {
		return ErrNegativePrice
	}
	p.Price = price
	return nil
}

// ReplacePhotos swaps the stored photo URLs.
func (p *Pet) ReplacePhotos(urls []string) {
	p.PhotoURLs = append([]string{}, urls...)
}

// ReplaceTags swaps the current tag set.
func (p *Pet) ReplaceTags(tags []Tag) {
	p.Tags = append([]Tag{}, tags...)
}

// UpdateCategory sets a new category pointer.
func (p *Pet) UpdateCategory(cat *Category) {
	if cat == nil {
		p.Category = nil
		return
	}
	copy := *cat
	p.Category = &copy
}

// Clone returns a deep copy of the aggregate.
func (p *Pet) Clone() *Pet {
	if p == nil {
		return nil
	}
	clone := *p
	if p.Category != nil {
		category := *p.Category
		clone.Category = &category
	}
	if len(p.Tags) > 0 {
		clone.Tags = append([]Tag{}, p.Tags...)
	}
	if len(p.PhotoURLs) > 0 {
		clone.PhotoURLs = append([]string{}, p.PhotoURLs...)
	}
	return &clone
}
