package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	apperrors "github.com/allisson/webhooks/internal/errors"
	"github.com/allisson/webhooks/internal/webhook/domain"
	"github.com/allisson/webhooks/internal/webhook/signature"
)

// Log event names emitted for every terminal state of a delivery.
const (
	logProviderNotFound   = "webhook.provider_not_found"
	logVerificationFailed = "webhook.verification_failed"
	logPayloadInvalid     = "webhook.payload_invalid"
	logUnhandled          = "webhook.unhandled"
	logSkipped            = "webhook.skipped"
	logProcessed          = "webhook.processed"
	logInternalError      = "webhook.internal_error"
)

type ingestUseCase struct {
	providers map[string]Provider
	parser    EnvelopeParser
	logger    *slog.Logger
	timeout   time.Duration
}

// Ingest walks the delivery through received, verified, parsed and dispatched.
// Nothing after verification runs unless the signature is valid. The processing
// timeout bounds the whole delivery, not only the handler.
func (i *ingestUseCase) Ingest(
	ctx context.Context,
	delivery domain.RawDelivery,
	requestID string,
) (*domain.IngestResult, error) {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	logger := i.logger.With(
		slog.String("request_id", requestID),
		slog.String("provider", delivery.Provider),
	)

	provider, ok := i.providers[delivery.Provider]
	if !ok {
		logger.Warn(logProviderNotFound)
		return nil, domain.ErrProviderNotFound
	}

	verified, err := provider.Verifier.Verify(delivery)
	if err != nil {
		logger.Warn(logVerificationFailed)
		logger.Debug("webhook verification detail", slog.String("reason", signature.FailureReason(err)))
		return nil, domain.ErrVerificationFailed
	}

	event, err := i.parser.Parse(verified)
	if err != nil {
		return nil, i.failed(logger, err)
	}

	logger = logger.With(
		slog.String("event_id", event.ID),
		slog.String("event_type", event.Type),
	)

	if !provider.Registry.IsHandled(event.Type) {
		logger.Info(logUnhandled)
		return &domain.IngestResult{EventID: event.ID, EventType: event.Type, State: domain.StateUnhandled}, nil
	}

	factory, ok := provider.Registry.Lookup(event.Type)
	if !ok {
		err := fmt.Errorf("%w: %s", domain.ErrHandlerNotFound, event.Type)
		logger.Error(logInternalError, slog.Any("error", err))
		return nil, err
	}

	// Verification and parsing do not observe ctx, so the budget may already be spent.
	if err := ctx.Err(); err != nil {
		return nil, i.failed(logger, err)
	}

	start := time.Now()
	outcome, err := factory().Handle(ctx, event, logger)
	if err != nil {
		return nil, i.failed(logger, err)
	}

	result := &domain.IngestResult{EventID: event.ID, EventType: event.Type, State: domain.StateProcessed}
	if outcome.Skipped {
		result.State = domain.StateSkipped
		result.Reason = outcome.Reason
		logger.Info(logSkipped, slog.String("reason", outcome.Reason))
		return result, nil
	}

	logger.Info(logProcessed, slog.Duration("duration", time.Since(start)))
	return result, nil
}

// failed logs a parser or handler error and returns what the caller should see.
func (i *ingestUseCase) failed(logger *slog.Logger, err error) error {
	var payloadErr *domain.PayloadError
	if errors.As(err, &payloadErr) {
		logger.Warn(logPayloadInvalid, slog.Any("issues", payloadErr.Issues))
		return payloadErr
	}

	attrs := []any{slog.Any("error", err)}
	if errors.Is(err, context.DeadlineExceeded) {
		attrs = append(attrs, slog.Duration("timeout", i.timeout))
	}
	logger.Error(logInternalError, attrs...)
	return err
}

// Providers returns the configured provider names in sorted order.
func (i *ingestUseCase) Providers() []string {
	names := make([]string, 0, len(i.providers))
	for name := range i.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewIngestUseCase creates an IngestUseCase. Provider names must be unique and each
// provider needs a verifier and a registry.
func NewIngestUseCase(
	providers []Provider,
	parser EnvelopeParser,
	logger *slog.Logger,
	timeout time.Duration,
) (IngestUseCase, error) {
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		if p.Name == "" {
			return nil, apperrors.New("webhook provider with empty name")
		}
		if p.Verifier == nil || p.Registry == nil {
			return nil, fmt.Errorf("webhook provider %q is missing its verifier or registry", p.Name)
		}
		if _, exists := byName[p.Name]; exists {
			return nil, fmt.Errorf("webhook provider %q configured twice", p.Name)
		}
		byName[p.Name] = p
	}

	return &ingestUseCase{
		providers: byName,
		parser:    parser,
		logger:    logger,
		timeout:   timeout,
	}, nil
}
