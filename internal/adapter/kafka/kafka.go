// Package kafka publishes cart events and aggregates them into the product
// popularity table.
package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lovoo/goka"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/shopspring/decimal"
	"github.com/twmb/franz-go/pkg/kgo"
)

var (
	ErrTooFewOpts       = errors.New("too few options")
	ErrInvalidValueType = errors.New("invalid value type")
)

type ProducerOpt func(*producerOpts) error

type producerOpts struct {
	cl      ProducerClient
	encoder Encoder
}

// ProducerClientOpt dials the seed brokers and pings them. A nil tlsConfig
// means plaintext.
func ProducerClientOpt(
	ctx context.Context, seedBrokers []string, topic string, tlsConfig *tls.Config,
) ProducerOpt {
	return func(opts *producerOpts) error {
		kOpts := []kgo.Opt{
			kgo.SeedBrokers(seedBrokers...),
			kgo.DefaultProduceTopicAlways(),
			kgo.DefaultProduceTopic(topic),
			kgo.RequiredAcks(kgo.AllISRAcks()),
			kgo.AllowAutoTopicCreation(),
		}
		if tlsConfig != nil {
			kOpts = append(kOpts, kgo.DialTLSConfig(tlsConfig))
		}

		cl, err := kgo.NewClient(kOpts...)
		if err != nil {
			return err
		}

		if err := cl.Ping(ctx); err != nil {
			cl.Close()
			return err
		}
		opts.cl = cl
		return nil
	}
}

// ProducerCustomClientOpt sets an already built client.
func ProducerCustomClientOpt(cl ProducerClient) ProducerOpt {
	return func(opts *producerOpts) error {
		if cl == nil {
			return errors.New("producer client is nil")
		}
		opts.cl = cl
		return nil
	}
}

func ProducerEncoderOpt(encoder Encoder) ProducerOpt {
	return func(opts *producerOpts) error {
		if encoder == nil {
			return errors.New("encoder is nil")
		}
		opts.encoder = encoder
		return nil
	}
}

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

type Decoder interface {
	Decode(b []byte, v any) error
}

type Serde interface {
	Encoder
	Decoder
}

// UseTLS makes every goka processor and view created afterwards dial the
// brokers over TLS.
func UseTLS(tlsConfig *tls.Config) {
	if tlsConfig == nil {
		return
	}
	cfg := goka.DefaultConfig()
	cfg.Net.TLS.Enable = true
	cfg.Net.TLS.Config = tlsConfig
	goka.ReplaceGlobalConfig(cfg)
}

func withNonlogProcOpt() goka.ProcessorOption {
	return goka.WithLogger(log.New(io.Discard, "", 0))
}

func withNonlogViewOpt() goka.ViewOption {
	return goka.WithViewLogger(log.New(io.Discard, "", 0))
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}

func cartEventToSchemaV1(v domain.CartEvent) (s schema.CartEventV1) {
	s.CartID = v.CartID.String()
	s.Kind = string(v.Kind)
	s.ProductID = v.ProductID
	s.Quantity = v.Quantity
	s.UnitPrice = v.UnitPrice.String()
	s.OccurredAt = v.OccurredAt.UnixMilli()
	return
}

func cartEventFromSchemaV1(s schema.CartEventV1) (domain.CartEvent, error) {
	cartID, err := uuid.Parse(s.CartID)
	if err != nil {
		return domain.CartEvent{}, fmt.Errorf("%w: cart id: %w", domain.ErrInvalidCartEvent, err)
	}

	kind := domain.CartEventKind(s.Kind)
	if !kind.Valid() {
		return domain.CartEvent{}, fmt.Errorf("%w: kind %q", domain.ErrInvalidCartEvent, s.Kind)
	}

	unitPrice, err := decimal.NewFromString(s.UnitPrice)
	if err != nil {
		return domain.CartEvent{}, fmt.Errorf("%w: unit price: %w", domain.ErrInvalidCartEvent, err)
	}

	return domain.CartEvent{
		CartID:     cartID,
		Kind:       kind,
		ProductID:  s.ProductID,
		Quantity:   s.Quantity,
		UnitPrice:  unitPrice,
		OccurredAt: time.UnixMilli(s.OccurredAt).UTC(),
	}, nil
}
