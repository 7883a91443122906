package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/leadquote-backend/internal/stock"
	pkgerrors "github.com/angelmondragon/leadquote-backend/pkg/errors"
	"github.com/angelmondragon/leadquote-backend/pkg/logger"
	"github.com/angelmondragon/leadquote-backend/pkg/types"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Container holds the resolved cart of one lead. It is the only writer of cart state:
// every mutation goes through the CartService and the local copy is a cache of it.
type Container struct {
	leadID     string
	svc        CartService
	fetcher    *stock.Fetcher
	warehouses stock.WarehouseMap
	logg       *logger.Logger
	now        func() time.Time

	mu       sync.RWMutex
	loaded   bool
	lead     types.Lead
	lines    []types.CartLine
	totals   types.CartTotals
	results  map[string]types.PricingResult
	issues   []stock.Issue
	lastUsed time.Time
}

// ContainerParams configure a Container.
type ContainerParams struct {
	LeadID     string
	Service    CartService
	Fetcher    *stock.Fetcher
	Warehouses stock.WarehouseMap
	Logger     *logger.Logger
	Clock      func() time.Time
}

func NewContainer(params ContainerParams) (*Container, error) {
	if params.LeadID == "" {
		return nil, fmt.Errorf("lead id required")
	}
	if params.Service == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if params.Fetcher == nil {
		return nil, fmt.Errorf("stock fetcher required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	warehouses := params.Warehouses
	if warehouses == nil {
		warehouses = stock.DefaultWarehouseMap()
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Container{
		leadID:     params.LeadID,
		svc:        params.Service,
		fetcher:    params.Fetcher,
		warehouses: warehouses,
		logg:       params.Logger,
		now:        clock,
		results:    map[string]types.PricingResult{},
		issues:     []stock.Issue{},
		lastUsed:   clock(),
	}, nil
}

func (c *Container) LeadID() string { return c.leadID }

func (c *Container) touch() {
	c.mu.Lock()
	c.lastUsed = c.now()
	c.mu.Unlock()
}

// LastUsed reports when the container was last accessed.
func (c *Container) LastUsed() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUsed
}

// Load fetches the cart the first time it is called.
func (c *Container) Load(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	c.touch()
	if loaded {
		return nil
	}
	return c.Reload(ctx)
}

// Reload refetches lead, lines and totals. Pricing results are cleared and stock issues
// recomputed.
func (c *Container) Reload(ctx context.Context) error {
	var (
		lead   types.Lead
		lines  []types.CartLine
		totals types.CartTotals
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lead, err = c.svc.GetLead(gctx, c.leadID)
		return err
	})
	g.Go(func() error {
		var err error
		lines, err = c.svc.GetItems(gctx, c.leadID)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = c.svc.CalculateTotals(gctx, c.leadID)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	if lines == nil {
		lines = []types.CartLine{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lead = lead
	c.lines = lines
	c.totals = totals
	c.results = map[string]types.PricingResult{}
	c.loaded = true
	c.lastUsed = c.now()
	c.recomputeLocked()
	return nil
}

// recomputeLocked rebuilds the stock issue list from scratch. c.mu must be held.
func (c *Container) recomputeLocked() {
	c.issues = stock.Reconcile(c.lines, c.fetcher.Snapshot(), c.lead.EmittingUnit, c.warehouses)
}

func (c *Container) Lead() types.Lead {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lead
}

// Lines returns a copy of the cart lines.
func (c *Container) Lines() []types.CartLine {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]types.CartLine(nil), c.lines...)
}

// Snapshot returns the lead and a copy of the lines under one lock.
func (c *Container) Snapshot() (types.Lead, []types.CartLine) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lead, append([]types.CartLine(nil), c.lines...)
}

func (c *Container) Totals() types.CartTotals {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.totals
}

func (c *Container) findLocked(itemID string) (int, bool) {
	for i, line := range c.lines {
		if line.ID == itemID {
			return i, true
		}
	}
	return -1, false
}

// Line returns one cart line.
func (c *Container) Line(itemID string) (types.CartLine, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i, ok := c.findLocked(itemID); ok {
		return c.lines[i], true
	}
	return types.CartLine{}, false
}

// AddItem validates and creates a line, then reloads.
func (c *Container) AddItem(ctx context.Context, payload types.ItemPayload) (types.CartLine, error) {
	if !payload.Times.Valid {
		payload.Times = types.NewInstallments(types.DefaultInstallments)
	}
	if err := validatePayload(payload); err != nil {
		return types.CartLine{}, err
	}
	line, err := c.svc.AddItem(ctx, c.leadID, payload)
	if err != nil {
		return types.CartLine{}, err
	}
	c.logg.Info(c.logg.WithItemID(ctx, line.ID), "cart item added")
	return line, c.Reload(ctx)
}

// UpdateItem validates and replaces a line, then reloads.
func (c *Container) UpdateItem(ctx context.Context, itemID string, payload types.ItemPayload) (types.CartLine, error) {
	if err := validatePayload(payload); err != nil {
		return types.CartLine{}, err
	}
	if _, ok := c.Line(itemID); !ok {
		return types.CartLine{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	line, err := c.svc.UpdateItem(ctx, c.leadID, itemID, payload)
	if err != nil {
		return types.CartLine{}, err
	}
	return line, c.Reload(ctx)
}

// InlineEdit changes a single numeric field. The value is checked before any call.
func (c *Container) InlineEdit(ctx context.Context, itemID string, field InlineField, raw string) (types.CartLine, error) {
	current, ok := c.Line(itemID)
	if !ok {
		return types.CartLine{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	payload := types.PayloadFromLine(current)
	if err := applyInline(&payload, field, raw); err != nil {
		return types.CartLine{}, err
	}
	return c.UpdateItem(ctx, itemID, payload)
}

// RemoveItem deletes a line and reloads.
func (c *Container) RemoveItem(ctx context.Context, itemID string) error {
	if _, ok := c.Line(itemID); !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	if err := c.svc.RemoveItem(ctx, c.leadID, itemID); err != nil {
		return err
	}
	return c.Reload(ctx)
}

// ApplyPrice persists a new unit price without reloading. The local line is replaced by
// the service response so the caller can batch several writes before one Reload.
func (c *Container) ApplyPrice(ctx context.Context, itemID string, price decimal.Decimal) error {
	current, ok := c.Line(itemID)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	payload := types.PayloadFromLine(current)
	payload.Price = price

	updated, err := c.svc.UpdateItem(ctx, c.leadID, itemID, payload)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if i, ok := c.findLocked(itemID); ok {
		if updated.ID == "" {
			c.lines[i].UnitPrice = price
		} else {
			c.lines[i] = updated
		}
	}
	c.recomputeLocked()
	return nil
}

func (c *Container) SetPricingResult(itemID string, result types.PricingResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.findLocked(itemID); !ok {
		return
	}
	result.ItemID = itemID
	c.results[itemID] = result
}

func (c *Container) ClearPricingResult(itemID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.results, itemID)
}

func (c *Container) PricingResult(itemID string) (types.PricingResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.results[itemID]
	return r, ok
}

// PricingResults copies every stored result.
func (c *Container) PricingResults() map[string]types.PricingResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]types.PricingResult, len(c.results))
	for k, v := range c.results {
		out[k] = v
	}
	return out
}

// RefreshStock fetches stock for every product in the cart and recomputes issues.
// Products already fetched are served from the fetcher cache unless force is set.
// Individual fetch failures are logged; those products are left out of reconciliation.
func (c *Container) RefreshStock(ctx context.Context, force bool) []stock.Issue {
	if force {
		c.fetcher.Reset()
	}
	lines := c.Lines()
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	if _, err := c.fetcher.FetchAll(ctx, ids); err != nil {
		c.logg.Warn(c.logg.WithFields(c.logg.WithLeadID(ctx, c.leadID), map[string]any{"error": err.Error()}), "stock refresh incomplete")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.recomputeLocked()
	return append([]stock.Issue{}, c.issues...)
}

// StockIssues returns the current issue list.
func (c *Container) StockIssues() []stock.Issue {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]stock.Issue{}, c.issues...)
}

// StockFor returns the cached warehouse stock of a product.
func (c *Container) StockFor(productID string) (types.StockByWarehouse, bool) {
	return c.fetcher.Cached(productID)
}

// ConversionGate reports whether the lead may be converted.
func (c *Container) ConversionGate() stock.GateResult {
	return stock.Gate(c.StockIssues())
}

// Convert turns the lead into an order. It is refused while stock issues exist.
func (c *Container) Convert(ctx context.Context) (types.ConversionResult, error) {
	gate := c.ConversionGate()
	if !gate.Allowed {
		return types.ConversionResult{}, pkgerrors.New(pkgerrors.CodeStateConflict, gate.Tooltip).WithDetails(gate)
	}
	result, err := c.svc.ConvertLead(ctx, c.leadID)
	if err != nil {
		return types.ConversionResult{}, err
	}
	c.logg.Info(c.logg.WithFields(c.logg.WithLeadID(ctx, c.leadID), map[string]any{"order_id": result.OrderID}), "lead converted")
	return result, nil
}
