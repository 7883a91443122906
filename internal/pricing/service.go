package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/leadquote-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/leadquote-backend/pkg/errors"
	"github.com/angelmondragon/leadquote-backend/pkg/logger"
	"github.com/angelmondragon/leadquote-backend/pkg/metrics"
	"github.com/angelmondragon/leadquote-backend/pkg/pricingapi"
	"github.com/angelmondragon/leadquote-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// Cart is the state container the orchestrator reads lines from and writes results to.
type Cart interface {
	LeadID() string
	Snapshot() (types.Lead, []types.CartLine)
	SetPricingResult(itemID string, result types.PricingResult)
	ClearPricingResult(itemID string)
	ApplyPrice(ctx context.Context, itemID string, price decimal.Decimal) error
	Reload(ctx context.Context) error
}

type decider interface {
	Decide(ctx context.Context, req pricingapi.DecisionRequest) (*pricingapi.DecisionResponse, error)
}

// ServiceParams configure the pricing orchestrator.
type ServiceParams struct {
	Client  decider
	Context RequestContext
	Queue   *Queue
	Guard   *Guard
	Metrics *metrics.QuoteMetrics
	Logger  *logger.Logger
	Clock   func() time.Time
}

// Service obtains recommended prices from the pricing-decision service.
type Service struct {
	client  decider
	rc      RequestContext
	queue   *Queue
	guard   *Guard
	metrics *metrics.QuoteMetrics
	logg    *logger.Logger
	now     func() time.Time
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("pricing client required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	queue := params.Queue
	if queue == nil {
		queue = NewQueue(DefaultInterval)
	}
	guard := params.Guard
	if guard == nil {
		guard = NewGuard(nil, 0, params.Logger)
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	m := params.Metrics
	if m == nil {
		m = metrics.NewQuoteMetrics(nil)
	}
	return &Service{
		client:  params.Client,
		rc:      params.Context,
		queue:   queue,
		guard:   guard,
		metrics: m,
		logg:    params.Logger,
		now:     clock,
	}, nil
}

// ItemFailure describes one item that failed inside a batch.
type ItemFailure struct {
	ItemID string `json:"item_id"`
	Model  string `json:"model,omitempty"`
	Error  string `json:"error"`
}

// BatchSummary aggregates a calculate-all or apply-all run.
type BatchSummary struct {
	Operation    enums.PricingOperation `json:"operation"`
	Total        int                    `json:"total"`
	SuccessCount int                    `json:"success_count"`
	ErrorCount   int                    `json:"error_count"`
	Skipped      int                    `json:"skipped"`
	Canceled     bool                   `json:"canceled"`
	Failures     []ItemFailure          `json:"failures"`
	Message      string                 `json:"message"`
}

// Calculate previews the recommended price for one item and stores it on the cart.
func (s *Service) Calculate(ctx context.Context, cart Cart, itemID string) (types.PricingResult, error) {
	return s.single(ctx, cart, itemID, enums.PricingOperationCalculate)
}

// Apply calculates the recommended price for one item, persists it and reloads the cart.
func (s *Service) Apply(ctx context.Context, cart Cart, itemID string) (types.PricingResult, error) {
	return s.single(ctx, cart, itemID, enums.PricingOperationApply)
}

// CalculateAll prices every valid line in sequence. Per-item failures are counted, not returned.
func (s *Service) CalculateAll(ctx context.Context, cart Cart) (BatchSummary, error) {
	return s.batch(ctx, cart, enums.PricingOperationCalculateAll)
}

// ApplyAll is CalculateAll plus persisting each rounded price. The cart is reloaded
// once after the batch.
func (s *Service) ApplyAll(ctx context.Context, cart Cart) (BatchSummary, error) {
	return s.batch(ctx, cart, enums.PricingOperationApplyAll)
}

func (s *Service) single(ctx context.Context, cart Cart, itemID string, op enums.PricingOperation) (types.PricingResult, error) {
	if cart == nil {
		return types.PricingResult{}, pkgerrors.New(pkgerrors.CodeInternal, "cart not loaded")
	}
	ctx = s.logg.WithItemID(s.logg.WithLeadID(ctx, cart.LeadID()), itemID)

	release, err := s.guard.Acquire(ctx, cart.LeadID(), ItemScope(itemID))
	if err != nil {
		return types.PricingResult{}, err
	}
	defer release()

	lead, lines := cart.Snapshot()
	target, ok := findLine(lines, itemID)
	if !ok {
		return types.PricingResult{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	if !priceable(target) {
		return types.PricingResult{}, pkgerrors.New(pkgerrors.CodeValidation, "cart item has no product to price")
	}

	result, err := s.decide(ctx, op, lead, lines, target)
	if err != nil {
		cart.ClearPricingResult(itemID)
		return types.PricingResult{}, err
	}

	if op == enums.PricingOperationApply {
		if err := cart.ApplyPrice(ctx, itemID, result.RecommendedPrice); err != nil {
			return types.PricingResult{}, err
		}
		result.Applied = true
		if err := cart.Reload(ctx); err != nil {
			return result, err
		}
	}
	cart.SetPricingResult(itemID, result)
	return result, nil
}

func (s *Service) batch(ctx context.Context, cart Cart, op enums.PricingOperation) (BatchSummary, error) {
	summary := BatchSummary{Operation: op, Failures: []ItemFailure{}}
	if cart == nil {
		return summary, pkgerrors.New(pkgerrors.CodeInternal, "cart not loaded")
	}
	ctx = s.logg.WithOperation(s.logg.WithLeadID(ctx, cart.LeadID()), op.String())

	release, err := s.guard.Acquire(ctx, cart.LeadID(), ScopeAllItems)
	if err != nil {
		return summary, err
	}
	defer release()

	lead, lines := cart.Snapshot()
	targets := make([]types.CartLine, 0, len(lines))
	for _, line := range lines {
		if priceable(line) {
			targets = append(targets, line)
		}
	}
	summary.Total = len(targets)
	if len(targets) == 0 {
		summary.Message = "no items to price"
		s.logg.Info(ctx, "pricing batch skipped: no valid items")
		return summary, nil
	}

	started := s.now()
	apply := op == enums.PricingOperationApplyAll
	tasks := make([]Task, 0, len(targets))
	stored := make([]*types.PricingResult, len(targets))
	for i, target := range targets {
		i, target := i, target
		tasks = append(tasks, func(ctx context.Context) error {
			itemCtx := s.logg.WithItemID(ctx, target.ID)
			result, err := s.decide(itemCtx, op, lead, lines, target)
			if err != nil {
				cart.ClearPricingResult(target.ID)
				return err
			}
			if apply {
				if err := cart.ApplyPrice(itemCtx, target.ID, result.RecommendedPrice); err != nil {
					cart.ClearPricingResult(target.ID)
					return err
				}
				result.Applied = true
			}
			cart.SetPricingResult(target.ID, result)
			stored[i] = &result
			return nil
		})
	}

	results, runErr := s.queue.Run(ctx, tasks)
	for i, taskErr := range results {
		switch {
		case taskErr == nil:
			summary.SuccessCount++
		case errors.Is(taskErr, ErrSkipped):
			summary.Skipped++
		default:
			summary.ErrorCount++
			summary.Failures = append(summary.Failures, ItemFailure{
				ItemID: targets[i].ID,
				Model:  targets[i].Model(),
				Error:  publicMessage(taskErr),
			})
			s.logg.Warn(s.logg.WithFields(s.logg.WithItemID(ctx, targets[i].ID), pkgerrors.Dump(taskErr).Fields()), "pricing item failed")
		}
	}
	summary.Canceled = runErr != nil
	s.metrics.ObserveBatch(op.String(), s.now().Sub(started))

	if apply && summary.SuccessCount > 0 {
		if err := cart.Reload(context.WithoutCancel(ctx)); err != nil {
			summary.Message = batchMessage(summary)
			return summary, err
		}
		// Reload drops results; keep the ones this batch produced.
		for i, result := range stored {
			if result != nil {
				cart.SetPricingResult(targets[i].ID, *result)
			}
		}
	}

	summary.Message = batchMessage(summary)
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"total":    summary.Total,
		"success":  summary.SuccessCount,
		"errors":   summary.ErrorCount,
		"skipped":  summary.Skipped,
		"canceled": summary.Canceled,
	}), "pricing batch finished")

	if runErr != nil {
		return summary, pkgerrors.Wrap(pkgerrors.CodeCanceled, runErr, summary.Message)
	}
	return summary, nil
}

// decide calls the pricing service for target and turns the response into a result.
func (s *Service) decide(ctx context.Context, op enums.PricingOperation, lead types.Lead, lines []types.CartLine, target types.CartLine) (types.PricingResult, error) {
	req := BuildRequest(s.rc, lead, lines, target)
	resp, err := s.client.Decide(ctx, req)
	if err == nil {
		var result types.PricingResult
		result, err = s.toResult(target.ID, resp)
		s.metrics.ObservePricingCall(op.String(), err)
		return result, err
	}
	s.metrics.ObservePricingCall(op.String(), err)
	return types.PricingResult{}, err
}

func (s *Service) toResult(itemID string, resp *pricingapi.DecisionResponse) (types.PricingResult, error) {
	if resp == nil {
		return types.PricingResult{}, pkgerrors.New(pkgerrors.CodeDependency, "empty pricing response")
	}
	decoded, err := DecodeDecision(resp.Data)
	if err != nil {
		return types.PricingResult{}, err
	}
	price, origin, ok := PreferredPrice(decoded)
	if !ok {
		return types.PricingResult{}, pkgerrors.New(pkgerrors.CodeDependency, "pricing decision carries no price")
	}

	result := types.PricingResult{
		ItemID:           itemID,
		RecommendedPrice: RoundUp(price),
		RawPrice:         price,
		PriceOrigin:      string(origin),
		DiscountAllowed:  decoded.Decision.DiscountAllowed,
		AppliedMode:      decoded.Decision.AppliedMode,
		TierCode:         decoded.Decision.TierCode,
		Explanation:      decoded.Decision.Explanation,
		Reason:           decoded.Decision.Reason,
		DecisionType:     decoded.Decision.DecisionType,
		CalculatedAt:     s.now().UTC(),
	}
	if total, ok := TotalDiscount(decoded.Decision); ok {
		result.TotalDiscount = decimal.NewNullDecimal(total)
	}
	return result, nil
}

func batchMessage(s BatchSummary) string {
	msg := fmt.Sprintf("%d of %d items priced", s.SuccessCount, s.Total)
	if s.ErrorCount > 0 {
		msg += fmt.Sprintf(", %d failed", s.ErrorCount)
	}
	if s.Skipped > 0 {
		msg += fmt.Sprintf(", %d skipped after cancellation", s.Skipped)
	}
	return msg
}

func publicMessage(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return typed.Message()
	}
	return err.Error()
}

func priceable(line types.CartLine) bool {
	return line.ID != "" && line.SKU() != "" && line.Quantity >= 1
}

func findLine(lines []types.CartLine, itemID string) (types.CartLine, bool) {
	for _, line := range lines {
		if line.ID == itemID {
			return line, true
		}
	}
	return types.CartLine{}, false
}
