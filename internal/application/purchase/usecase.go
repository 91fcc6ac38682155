package purchase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Zhima-Mochi/marketplace-console/internal/application"
	"github.com/Zhima-Mochi/marketplace-console/internal/domain/customer"
	"github.com/Zhima-Mochi/marketplace-console/internal/domain/payment"
	"github.com/Zhima-Mochi/marketplace-console/internal/domain/product"
	dompurchase "github.com/Zhima-Mochi/marketplace-console/internal/domain/purchase"
	"github.com/Zhima-Mochi/marketplace-console/internal/domain/receipt"
	"github.com/Zhima-Mochi/marketplace-console/internal/observability"
	"github.com/Zhima-Mochi/marketplace-console/internal/observability/logctx"
	"github.com/shopspring/decimal"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	purchaseService  = "purchase-service"
	useCasePurchase  = "purchase.execute"
	purchaseSpanName = "Purchase"
	spanPrefix       = "UC."
	receiptPeer      = "filesystem"
	receiptEndpoint  = "receipt.append"
	receiptTimeout   = 2 * time.Second
)

type Input struct {
	CustomerID int
	// ProductIndex is the 0-based position in the current listing order.
	ProductIndex int
	Quantity     int
	Method       payment.Method
}

type Result struct {
	Record         dompurchase.Record
	Receipt        receipt.Receipt
	Balance        decimal.Decimal
	RemainingStock int
	// ReceiptPath is empty when the receipt could not be written.
	ReceiptPath string
	// ReceiptErr wraps receipt.ErrWriteFailed; the purchase itself stays committed.
	ReceiptErr error
}

var _ application.UseCase[Input, *Result] = (*UseCase)(nil)

// UseCase runs the purchase transaction: resolve, pay, mutate, record.
type UseCase struct {
	customers customer.Repository
	products  product.Repository
	receipts  receipt.Writer
	ids       application.IDGenerator
	now       func() time.Time

	log          observability.Logger
	tracer       observability.Tracer
	reqCounter   observability.Counter   // usecase_requests_total{use_case,outcome}
	durHistogram observability.Histogram // usecase_duration_seconds{use_case}
	extCounter   observability.Counter   // external_requests_total{peer,endpoint,outcome}
	extHistogram observability.Histogram // external_request_duration_seconds{peer,endpoint}
	amountHist   observability.Histogram // purchase_amount{method}
}

func NewUseCase(
	customers customer.Repository,
	products product.Repository,
	receipts receipt.Writer,
	ids application.IDGenerator,
	tel observability.Observability,
) *UseCase {
	if tel == nil {
		tel = observability.Nop()
	}
	metricsProvider := tel.Metrics()

	return &UseCase{
		customers:    customers,
		products:     products,
		receipts:     receipts,
		ids:          ids,
		now:          time.Now,
		log:          tel.Logger().With(observability.F("service", purchaseService)),
		tracer:       tel.Tracer(),
		reqCounter:   metricsProvider.Counter(observability.MUsecaseRequests),
		durHistogram: metricsProvider.Histogram(observability.MUsecaseDuration),
		extCounter:   metricsProvider.Counter(observability.MExternalRequests),
		extHistogram: metricsProvider.Histogram(observability.MExternalRequestDuration),
		amountHist:   metricsProvider.Histogram(observability.MPurchaseAmount),
	}
}

// Execute performs the purchase. Every gate before the payment leaves state
// untouched on failure; a receipt write failure is reported in the result and
// does not undo the purchase.
func (uc *UseCase) Execute(ctx context.Context, cmd Input) (_ *Result, err error) {
	logger := logctx.FromOr(ctx, uc.log).With(
		observability.F("use_case", useCasePurchase),
		observability.F("customer_id", cmd.CustomerID),
		observability.F("product_index", cmd.ProductIndex),
		observability.F("quantity", cmd.Quantity),
		observability.F("method", cmd.Method.String()),
	)

	ctx, span := uc.tracer.Start(ctx, spanPrefix+purchaseSpanName,
		attribute.String("use_case", useCasePurchase),
		attribute.Int("customer.id", cmd.CustomerID),
		attribute.Int("product.index", cmd.ProductIndex),
		attribute.Int("purchase.quantity", cmd.Quantity),
		attribute.String("payment.method", cmd.Method.String()),
	)
	start := time.Now()
	outcome, statusText := "success", "OK"
	var result *Result

	defer func() {
		if span != nil {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, statusText)
			} else {
				span.SetStatus(codes.Ok, statusText)
			}
			span.End()
		}

		latency := time.Since(start).Seconds()
		uc.reqCounter.Add(1,
			observability.L("use_case", useCasePurchase),
			observability.L("outcome", outcome),
		)
		uc.durHistogram.Observe(latency,
			observability.L("use_case", useCasePurchase),
		)

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("status", statusText),
			observability.F("latency_seconds", latency),
		}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields,
				observability.F("trace_id", sc.TraceID().String()),
				observability.F("span_id", sc.SpanID().String()),
			)
		}
		if result != nil {
			fields = append(fields,
				observability.F("product_id", result.Record.ProductID),
				observability.F("total", result.Record.Total),
				observability.F("balance", result.Balance),
			)
			if result.ReceiptPath != "" {
				fields = append(fields, observability.F("receipt_path", result.ReceiptPath))
			}
		}
		if err != nil {
			fields = append(fields, observability.F("error", err.Error()))
		}

		logger.Info("use_case_done", fields...)
	}()

	if !cmd.Method.Valid() {
		outcome, statusText = "error", "METHOD_INVALID"
		return nil, fmt.Errorf("purchase: %w: %d", payment.ErrUnknownMethod, int(cmd.Method))
	}

	buyer, err := uc.customers.Get(ctx, cmd.CustomerID)
	if err != nil {
		outcome, statusText = "error", "CUSTOMER_LOOKUP_FAILED"
		return nil, fmt.Errorf("purchase: resolve customer: %w", err)
	}

	item, err := uc.products.At(ctx, cmd.ProductIndex)
	if err != nil {
		outcome, statusText = "error", "PRODUCT_LOOKUP_FAILED"
		return nil, fmt.Errorf("purchase: resolve product: %w", err)
	}
	span.SetAttributes(attribute.String("product.id", item.ID))

	before := buyer.Clone()
	record, err := buyer.Buy(item, cmd.Quantity, cmd.Method)
	if err != nil {
		outcome, statusText = "error", statusFromBuyError(err)
		return nil, fmt.Errorf("purchase: %w", err)
	}

	if err = uc.customers.Save(ctx, buyer); err != nil {
		outcome, statusText = "error", "CUSTOMER_SAVE_FAILED"
		return nil, fmt.Errorf("purchase: save customer: %w", err)
	}
	if err = uc.products.Save(ctx, item); err != nil {
		outcome, statusText = "error", "PRODUCT_SAVE_FAILED"
		if restoreErr := uc.customers.Save(ctx, before); restoreErr != nil {
			logger.Error("customer_restore_failed", observability.F("error", restoreErr.Error()))
		}
		return nil, fmt.Errorf("purchase: save product: %w", err)
	}

	uc.amountHist.Observe(record.Total.InexactFloat64(), observability.L("method", cmd.Method.String()))
	span.AddEvent("purchase.completed",
		trace.WithAttributes(
			attribute.String("product.id", item.ID),
			attribute.String("purchase.total", record.Total.String()),
		),
	)

	result = &Result{
		Record:         record,
		Balance:        buyer.Balance,
		RemainingStock: item.Quantity,
		Receipt: receipt.Receipt{
			ID:           uc.ids.NewID(),
			CustomerID:   buyer.ID,
			CustomerName: buyer.Name,
			ProductName:  record.ProductName,
			Quantity:     record.Quantity,
			UnitPrice:    record.UnitPrice,
			Total:        record.Total,
			MethodLabel:  record.MethodLabel,
			Balance:      buyer.Balance,
			IssuedAt:     uc.now().UTC(),
		},
	}

	result.ReceiptPath, result.ReceiptErr = uc.writeReceipt(ctx, result.Receipt)
	if result.ReceiptErr != nil {
		statusText = "RECEIPT_WRITE_FAILED"
		span.RecordError(result.ReceiptErr)
		logger.Warn("receipt_write_failed",
			observability.F("receipt_id", result.Receipt.ID),
			observability.F("error", result.ReceiptErr.Error()),
		)
	}

	return result, nil
}

func (uc *UseCase) writeReceipt(ctx context.Context, r receipt.Receipt) (string, error) {
	if uc.receipts == nil {
		return "", nil
	}

	writeCtx, cancel := context.WithTimeout(ctx, receiptTimeout)
	defer cancel()

	start := time.Now()
	path, err := uc.receipts.Write(writeCtx, r)
	outcome := "success"
	if err != nil {
		outcome = "error"
		if !errors.Is(err, receipt.ErrWriteFailed) {
			err = fmt.Errorf("%w: %w", receipt.ErrWriteFailed, err)
		}
	}

	uc.extCounter.Add(1,
		observability.L("peer", receiptPeer),
		observability.L("endpoint", receiptEndpoint),
		observability.L("outcome", outcome),
	)
	uc.extHistogram.Observe(time.Since(start).Seconds(),
		observability.L("peer", receiptPeer),
		observability.L("endpoint", receiptEndpoint),
	)

	return path, err
}

func statusFromBuyError(err error) string {
	switch {
	case errors.Is(err, product.ErrInsufficientStock):
		return "INSUFFICIENT_STOCK"
	case errors.Is(err, payment.ErrInsufficientFunds):
		return "INSUFFICIENT_FUNDS"
	case errors.Is(err, product.ErrInvalidQuantity):
		return "QUANTITY_INVALID"
	default:
		return "PURCHASE_FAILED"
	}
}
