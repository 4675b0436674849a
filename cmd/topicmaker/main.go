// Command topicmaker creates the cart events stream and the popularity
// group table topics.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/lovoo/goka"
	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/pkg/sigctx"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	partitions        = 3
	replicationFactor = 3
	minInSyncReplicas = "2"
	deletePolicy      = "delete"
	compactPolicy     = "compact"
)

// cart events are kept for a week, the table is compacted forever
const cartEventsRetention = "604800000"

type topicDef struct {
	name   string
	config map[string]*string
}

func main() {
	sigCtx, stop := sigctx.NotifyContext()
	defer stop()

	cfg := config.Load()
	if !cfg.Broker.Enabled {
		fmt.Println("broker is disabled in config, nothing to do")
		return
	}

	cl := createClient(cfg)
	defer cl.Close()

	topics := []topicDef{
		{
			name: cfg.Broker.Topics.CartEvents,
			config: topicConfig(deletePolicy, map[string]string{
				"retention.ms": cartEventsRetention,
			}),
		},
		{
			name:   toGroupTable(cfg.Broker.Consumers.PopularityGroup),
			config: topicConfig(compactPolicy, nil),
		},
	}

	printStart(topics)
	start := time.Now()

	var errs []error
	for _, t := range topics {
		if err := makeTopic(sigCtx, cl, t); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		printFail(err)
		os.Exit(1)
	}
	printComplete(start)
}

func createClient(cfg config.Config) *kadm.Client {
	opts := []kgo.Opt{kgo.SeedBrokers(cfg.Broker.SeedBrokers...)}

	if files := cfg.Broker.TLS; files.Enabled() {
		tlsConfig, err := adapter.MakeTLSConfig(
			files.CAFile, files.CertFile, files.KeyFile,
		)
		if err != nil {
			printFail(err)
			os.Exit(2)
		}
		opts = append(opts, kgo.DialTLSConfig(tlsConfig))
	}

	cl, err := kadm.NewOptClient(opts...)
	if err != nil {
		panic(err) // develop mistake
	}
	return cl
}

func topicConfig(cleanupPolicy string, extra map[string]string) map[string]*string {
	minISR := minInSyncReplicas
	config := map[string]*string{
		"cleanup.policy":      &cleanupPolicy,
		"min.insync.replicas": &minISR,
	}
	for k, v := range extra {
		config[k] = &v
	}
	return config
}

func makeTopic(ctx context.Context, cl *kadm.Client, t topicDef) error {
	res, err := cl.CreateTopic(
		ctx, partitions, replicationFactor, t.config, t.name,
	)
	if err != nil {
		return fmt.Errorf("topic %q: %w", t.name, err)
	}

	if res.Err != nil {
		if errors.Is(res.Err, kerr.TopicAlreadyExists) {
			fmt.Printf("topic: %q already exists\n", t.name)
			return nil
		}
		return fmt.Errorf("topic %q: %w", t.name, res.Err)
	}

	fmt.Printf("topic: %q created\n", t.name)
	return nil
}

func printStart(topics []topicDef) {
	fmt.Println("initializing topics...")
	for _, t := range topics {
		fmt.Printf("\t- %q (%s)\n", t.name, *t.config["cleanup.policy"])
	}
	fmt.Println()
}

func printComplete(start time.Time) {
	fmt.Printf("\ncomplete in %s\n", time.Since(start))
}

func printFail(err error) {
	fmt.Printf("failed to create topics:\n%s\n", err)
}

func toGroupTable(group string) string {
	return string(goka.GroupTable(goka.Group(group)))
}
