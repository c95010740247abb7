package domain

import (
	"context"
	"fmt"
	"strings"
)

// MaxBadges caps the positional badge list shown on a card.
const MaxBadges = 4

// Card is one homepage tile. Order is a 1-based rank; an empty Image means
// the gradient is rendered instead.
type Card struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Icon     string   `json:"icon"`
	Gradient string   `json:"gradient"`
	Link     string   `json:"link"`
	Image    string   `json:"image"`
	Active   bool     `json:"active"`
	Order    int      `json:"order"`
	Badges   []string `json:"badges"`
}

// Validate checks the fields required to create a card.
func (c Card) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("%w: title required", ErrInvalidCard)
	}
	return validateBadges(c.Badges)
}

// Clone returns a copy that shares no slice storage with c.
func (c Card) Clone() Card {
	if c.Badges != nil {
		c.Badges = append([]string(nil), c.Badges...)
	}
	return c
}

// Equal reports whether two cards carry identical values.
func (c Card) Equal(o Card) bool {
	if c.ID != o.ID || c.Title != o.Title || c.Subtitle != o.Subtitle || c.Icon != o.Icon ||
		c.Gradient != o.Gradient || c.Link != o.Link || c.Image != o.Image ||
		c.Active != o.Active || c.Order != o.Order || len(c.Badges) != len(o.Badges) {
		return false
	}
	for i := range c.Badges {
		if c.Badges[i] != o.Badges[i] {
			return false
		}
	}
	return true
}

// CardPatch is a partial card update. It carries no ID field, so an id sent
// by a client is dropped while decoding.
type CardPatch struct {
	Title    *string   `json:"title,omitempty"`
	Subtitle *string   `json:"subtitle,omitempty"`
	Icon     *string   `json:"icon,omitempty"`
	Gradient *string   `json:"gradient,omitempty"`
	Link     *string   `json:"link,omitempty"`
	Image    *string   `json:"image,omitempty"`
	Active   *bool     `json:"active,omitempty"`
	Order    *int      `json:"order,omitempty"`
	Badges   *[]string `json:"badges,omitempty"`
}

// Validate rejects patches that would produce an invalid card.
func (p CardPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalidCard)
	}
	if p.Badges != nil {
		return validateBadges(*p.Badges)
	}
	return nil
}

// IsEmpty reports whether the patch changes nothing.
func (p CardPatch) IsEmpty() bool {
	return p == CardPatch{}
}

// Apply returns c with every non-nil patch field merged in.
func (p CardPatch) Apply(c Card) Card {
	out := c.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Subtitle != nil {
		out.Subtitle = *p.Subtitle
	}
	if p.Icon != nil {
		out.Icon = *p.Icon
	}
	if p.Gradient != nil {
		out.Gradient = *p.Gradient
	}
	if p.Link != nil {
		out.Link = *p.Link
	}
	if p.Image != nil {
		out.Image = *p.Image
	}
	if p.Active != nil {
		out.Active = *p.Active
	}
	if p.Order != nil {
		out.Order = *p.Order
	}
	if p.Badges != nil {
		out.Badges = append([]string(nil), (*p.Badges)...)
	}
	return out
}

// NormalizeBadges trims every badge, keeping empty strings in place since
// badge positions are meaningful.
func NormalizeBadges(badges []string) []string {
	if badges == nil {
		return nil
	}
	out := make([]string, len(badges))
	for i, b := range badges {
		out[i] = strings.TrimSpace(b)
	}
	return out
}

func validateBadges(badges []string) error {
	if len(badges) > MaxBadges {
		return fmt.Errorf("%w: at most %d badges, got %d", ErrInvalidCard, MaxBadges, len(badges))
	}
	return nil
}

// OrderChange assigns a new rank to one card.
type OrderChange struct {
	ID    string
	Order int
}

// OrderWriter is implemented by card repositories that can apply several
// order changes atomically.
type OrderWriter interface {
	SetOrders(ctx context.Context, changes []OrderChange) error
}
