// Package generator derives a bag of items from a final seed and an identifier.
//
// Rendering is pure: the same (seed, id) always yields the same bag and image,
// and nothing outside the arguments influences the result.
package generator

import (
	"errors"
	"fmt"

	"github.com/Mindburn-Labs/floot/pkg/chain"
)

var ErrUnknownCategory = errors.New("unknown item category")

// Item is the rolled item for one category.
type Item struct {
	Category Category `json:"category"`
	Base     string   `json:"base"`
	Tier     Tier     `json:"tier"`
	Name     string   `json:"name"`
}

// Bag is the full set of items for one identifier.
type Bag struct {
	ID    uint64 `json:"id"`
	Items []Item `json:"items"`
}

// Item returns the bag's item in category c.
func (b Bag) Item(c Category) (Item, bool) {
	for _, it := range b.Items {
		if it.Category == c {
			return it, true
		}
	}
	return Item{}, false
}

// Render produces the bag and its SVG image for id under seed.
func Render(seed chain.Hash, id uint64) (Bag, []byte) {
	bag := rollBag(seed, id)
	return bag, renderSVG(bag)
}

func rollBag(seed chain.Hash, id uint64) Bag {
	s := newStream(seed, id)
	bag := Bag{ID: id, Items: make([]Item, 0, len(Categories))}
	for _, c := range Categories {
		bag.Items = append(bag.Items, roll(s, c))
	}
	return bag
}

// RenderItem returns a single category of the bag for id under seed.
func RenderItem(seed chain.Hash, id uint64, c Category) (Item, error) {
	if _, ok := baseItems[c]; !ok {
		return Item{}, fmt.Errorf("%w: %q", ErrUnknownCategory, c)
	}
	it, _ := rollBag(seed, id).Item(c)
	return it, nil
}

// ParseCategory accepts the lowercase category name.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if _, ok := baseItems[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// roll always draws the same number of words per category, so a category's
// draws do not depend on the tiers rolled before it.
func roll(s *stream, c Category) Item {
	base := baseItems[c].pick(s.next())
	tier := Tier(tiers.pick(s.next()))
	suffix := suffixes.pick(s.next())
	prefix := namePrefixes.pick(s.next())
	nameSuffix := nameSuffixes.pick(s.next())

	it := Item{Category: c, Base: base, Tier: tier}
	switch tier {
	case TierSuffix:
		it.Name = base + " " + suffix
	case TierNamed:
		it.Name = fmt.Sprintf("%q %s %s", prefix+" "+nameSuffix, base, suffix)
	case TierNamedUp:
		it.Name = fmt.Sprintf("%q %s %s +1", prefix+" "+nameSuffix, base, suffix)
	default:
		it.Name = base
	}
	return it
}
