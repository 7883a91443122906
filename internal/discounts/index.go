package discounts

import (
	"strings"
	"time"
)

type quantityFamily struct {
	prefix string
	tiers  []QuantityDiscount
}

type bundleFamily struct {
	prefix string
	bundle Bundle
}

// Index is an immutable lookup structure over a Sources snapshot.
type Index struct {
	builtAt time.Time

	fixed      map[string]FixedPrice
	promotions map[string]Promotion
	launches   map[string]Launch

	quantityByID     map[string][]QuantityDiscount
	quantityFamilies []quantityFamily

	bundleByID     map[string]Bundle
	bundleFamilies []bundleFamily

	// nextBoundary is the earliest instant after builtAt at which a time-boxed entry
	// enters or leaves the index. Zero when nothing is time-boxed.
	nextBoundary time.Time
}

// Build derives an Index from src. It never mutates src and runs in linear time.
// The first entry wins when a product id or family appears twice.
func Build(src Sources, now time.Time) *Index {
	idx := &Index{
		builtAt:      now,
		fixed:        make(map[string]FixedPrice, len(src.FixedPrices)),
		promotions:   make(map[string]Promotion, len(src.Promotions)),
		launches:     make(map[string]Launch, len(src.Launches)),
		quantityByID: make(map[string][]QuantityDiscount),
		bundleByID:   make(map[string]Bundle),
	}

	for _, fp := range src.FixedPrices {
		if fp.ProductID == "" {
			continue
		}
		if fp.ValidUntil != nil {
			idx.observeBoundary(fp.ValidUntil.Add(time.Nanosecond))
			if now.After(*fp.ValidUntil) {
				continue
			}
		}
		if _, exists := idx.fixed[fp.ProductID]; !exists {
			idx.fixed[fp.ProductID] = fp
		}
	}

	for _, p := range src.Promotions {
		if p.ProductID == "" {
			continue
		}
		if _, exists := idx.promotions[p.ProductID]; !exists {
			idx.promotions[p.ProductID] = p
		}
	}

	for _, l := range src.Launches {
		if l.ProductID == "" || !l.Active {
			continue
		}
		idx.observeBoundary(l.StartsAt)
		idx.observeBoundary(l.EndsAt.Add(time.Nanosecond))
		if !l.ActiveAt(now) {
			continue
		}
		if _, exists := idx.launches[l.ProductID]; !exists {
			idx.launches[l.ProductID] = l
		}
	}

	familyPos := map[string]int{}
	for _, q := range src.QuantityDiscounts {
		if !q.Scope.Valid() {
			continue
		}
		if !q.Scope.IsFamily() {
			idx.quantityByID[q.Scope.ProductID] = append(idx.quantityByID[q.Scope.ProductID], q)
			continue
		}
		key := strings.ToLower(q.Scope.Family)
		pos, ok := familyPos[key]
		if !ok {
			pos = len(idx.quantityFamilies)
			familyPos[key] = pos
			idx.quantityFamilies = append(idx.quantityFamilies, quantityFamily{prefix: key})
		}
		idx.quantityFamilies[pos].tiers = append(idx.quantityFamilies[pos].tiers, q)
	}

	for _, b := range src.Bundles {
		if !b.Scope.Valid() {
			continue
		}
		if !b.Scope.IsFamily() {
			if _, exists := idx.bundleByID[b.Scope.ProductID]; !exists {
				idx.bundleByID[b.Scope.ProductID] = b
			}
			continue
		}
		idx.bundleFamilies = append(idx.bundleFamilies, bundleFamily{prefix: strings.ToLower(b.Scope.Family), bundle: b})
	}

	return idx
}

func (idx *Index) observeBoundary(at time.Time) {
	if !at.After(idx.builtAt) {
		return
	}
	if idx.nextBoundary.IsZero() || at.Before(idx.nextBoundary) {
		idx.nextBoundary = at
	}
}

// StaleAt reports whether a time-boxed entry changed state between the build and now.
func (idx *Index) StaleAt(now time.Time) bool {
	if idx == nil {
		return true
	}
	return !idx.nextBoundary.IsZero() && !now.Before(idx.nextBoundary)
}

// BuiltAt is the clock value the index was built with.
func (idx *Index) BuiltAt() time.Time {
	if idx == nil {
		return time.Time{}
	}
	return idx.builtAt
}

func (idx *Index) FixedPrice(productID string) (FixedPrice, bool) {
	if idx == nil {
		return FixedPrice{}, false
	}
	fp, ok := idx.fixed[productID]
	return fp, ok
}

func (idx *Index) Promotion(productID string) (Promotion, bool) {
	if idx == nil {
		return Promotion{}, false
	}
	p, ok := idx.promotions[productID]
	return p, ok
}

// Launch returns the launch active at build time.
func (idx *Index) Launch(productID string) (Launch, bool) {
	if idx == nil {
		return Launch{}, false
	}
	l, ok := idx.launches[productID]
	return l, ok
}

// QuantityDiscounts returns the tiers for a product. The id map is probed first; family
// rules are scanned only when model is non-empty, and the first matching family wins.
func (idx *Index) QuantityDiscounts(productID, model string) []QuantityDiscount {
	if idx == nil {
		return nil
	}
	if tiers, ok := idx.quantityByID[productID]; ok {
		return append([]QuantityDiscount(nil), tiers...)
	}
	if strings.TrimSpace(model) == "" {
		return nil
	}
	lower := strings.ToLower(model)
	for _, fam := range idx.quantityFamilies {
		if strings.HasPrefix(lower, fam.prefix) {
			return append([]QuantityDiscount(nil), fam.tiers...)
		}
	}
	return nil
}

// ProductBundle returns the bundle for a product using the same lookup order as
// QuantityDiscounts.
func (idx *Index) ProductBundle(productID, model string) (Bundle, bool) {
	if idx == nil {
		return Bundle{}, false
	}
	if b, ok := idx.bundleByID[productID]; ok {
		return b, true
	}
	if strings.TrimSpace(model) == "" {
		return Bundle{}, false
	}
	lower := strings.ToLower(model)
	for _, fam := range idx.bundleFamilies {
		if strings.HasPrefix(lower, fam.prefix) {
			return fam.bundle, true
		}
	}
	return Bundle{}, false
}
