package services

import (
	"context"
	"reflect"
	"strings"

	"products/internal/models"
	"products/internal/repositories"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "products/internal/services"

// ProductService handles business logic related to products.
type ProductService struct {
	repo       repositories.ProductRepository
	validate   *validator.Validate
	publisher  EventPublisher
	log        zerolog.Logger
	tracer     trace.Tracer
	operations metric.Int64Counter
}

// Option configures a ProductService.
type Option func(*ProductService)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(s *ProductService) {
		s.log = log.With().Str("component", "product_service").Logger()
	}
}

// WithTracerProvider sets where spans are recorded.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *ProductService) {
		s.tracer = tp.Tracer(instrumentationName)
	}
}

// WithMeterProvider sets where the operation counter is recorded.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *ProductService) {
		s.operations = newOperationsCounter(mp.Meter(instrumentationName))
	}
}

// WithPublisher enables product events.
func WithPublisher(p EventPublisher) Option {
	return func(s *ProductService) {
		s.publisher = p
	}
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, opts ...Option) *ProductService {
	s := &ProductService{
		repo:       repo,
		validate:   newRecordValidator(),
		log:        zerolog.Nop(),
		tracer:     tracenoop.NewTracerProvider().Tracer(instrumentationName),
		operations: newOperationsCounter(metricnoop.NewMeterProvider().Meter(instrumentationName)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newOperationsCounter(meter metric.Meter) metric.Int64Counter {
	counter, err := meter.Int64Counter(
		"products.operations",
		metric.WithDescription("Total number of product operations"),
	)
	if err != nil {
		counter, _ = metricnoop.NewMeterProvider().Meter(instrumentationName).Int64Counter("products.operations")
	}
	return counter
}

// newRecordValidator reports field errors under their JSON names.
func newRecordValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// ListProducts retrieves all products.
func (s *ProductService) ListProducts(ctx context.Context) (products []models.Product, err error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.ListProducts")
	defer func() { s.finish(ctx, span, "list", err) }()

	records, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	products = make([]models.Product, 0, len(records))
	for _, rec := range records {
		products = append(products, models.Load(rec))
	}
	span.SetAttributes(attribute.Int("product.count", len(products)))
	return products, nil
}

// GetProduct retrieves a single product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id int64) (product models.Product, err error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.GetProduct",
		trace.WithAttributes(attribute.Int64("product.id", id)))
	defer func() { s.finish(ctx, span, "get", err) }()

	rec, found, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	if !found {
		return models.Product{}, errors.Errorf("product with ID %d: %w", id, ErrNotFound)
	}
	return models.Load(rec), nil
}

// AddProduct stores a new product. Every field of rec must be present; values
// are passed to the repository as given.
func (s *ProductService) AddProduct(ctx context.Context, rec models.ProductRecord) (err error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.AddProduct")
	defer func() { s.finish(ctx, span, "add", err) }()

	if missing := s.missingFields(rec); len(missing) > 0 {
		return errors.Errorf("missing required fields %s: %w", strings.Join(missing, ", "), ErrInvalidArgument)
	}
	span.SetAttributes(attribute.Int64("product.id", *rec.ID))

	if err := s.repo.AddProduct(ctx, rec); err != nil {
		return err
	}

	s.log.Debug().Int64("product_id", *rec.ID).Msg("product added")
	event := newProductEvent(EventProductAdded, *rec.ID)
	product := models.Load(rec)
	event.Product = &product
	s.publish(ctx, event)
	return nil
}

// UpdateQty sets the stock quantity of an existing product.
//
// Existence is checked with a separate read before the write, so a product
// removed in between is not detected.
func (s *ProductService) UpdateQty(ctx context.Context, id int64, qty int) (err error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.UpdateQty",
		trace.WithAttributes(attribute.Int64("product.id", id), attribute.Int("product.qty", qty)))
	defer func() { s.finish(ctx, span, "update_qty", err) }()

	if qty < 0 {
		return errors.Errorf("quantity cannot be negative (got %d): %w", qty, ErrInvalidArgument)
	}

	_, found, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return errors.Errorf("product with ID %d: %w", id, ErrNotFound)
	}

	if err := s.repo.UpdateQty(ctx, id, qty); err != nil {
		return err
	}

	s.log.Debug().Int64("product_id", id).Int("qty", qty).Msg("product quantity updated")
	event := newProductEvent(EventProductQtyUpdated, id)
	event.Qty = &qty
	s.publish(ctx, event)
	return nil
}

// missingFields returns the JSON names of the absent fields of rec.
func (s *ProductService) missingFields(rec models.ProductRecord) []string {
	err := s.validate.Struct(rec)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return missing
}

// finish ends span and counts the operation under its outcome.
func (s *ProductService) finish(ctx context.Context, span trace.Span, op string, err error) {
	defer span.End()

	result := "success"
	switch {
	case err == nil:
		span.SetStatus(codes.Ok, "")
	case errors.Is(err, ErrNotFound):
		result = "not_found"
	case errors.Is(err, ErrInvalidArgument):
		result = "invalid_argument"
	default:
		result = "failure"
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	s.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("result", result),
	))
}
