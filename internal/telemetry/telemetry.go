// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keyward Contributors

// Package telemetry installs the global OpenTelemetry tracer provider.
package telemetry

import (
	"context"
	"net/url"
	"strings"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Config selects the exporter. An empty OTLPEndpoint keeps spans in-process:
// trace IDs still appear in logs but nothing is exported.
type Config struct {
	ServiceName  string
	Version      string
	OTLPEndpoint string
	Insecure     bool
}

// Provider owns the tracer provider installed by Setup.
type Provider struct {
	tp *sdktrace.TracerProvider
}

// Setup builds a TracerProvider, installs it globally together with the W3C
// trace-context propagator, and returns it for shutdown.
func Setup(ctx context.Context, cfg Config) (*Provider, error) {
	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.Version),
	))
	if err != nil {
		return nil, oops.Code("TELEMETRY_SETUP_FAILED").With("operation", "build resource").Wrap(err)
	}

	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if strings.TrimSpace(cfg.OTLPEndpoint) != "" {
		target, insecure, err := grpcTarget(cfg.OTLPEndpoint)
		if err != nil {
			return nil, err
		}
		exporterOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(target)}
		if insecure || cfg.Insecure {
			exporterOpts = append(exporterOpts, otlptracegrpc.WithInsecure())
		}
		exporter, err := otlptracegrpc.New(ctx, exporterOpts...)
		if err != nil {
			return nil, oops.Code("TELEMETRY_SETUP_FAILED").
				With("operation", "create otlp exporter").
				With("endpoint", target).
				Wrap(err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	return &Provider{tp: tp}, nil
}

// TracerProvider exposes the sdk provider, mainly for tests.
func (p *Provider) TracerProvider() *sdktrace.TracerProvider {
	return p.tp
}

// Shutdown flushes pending spans and stops the exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	if err := p.tp.Shutdown(ctx); err != nil {
		return oops.Code("TELEMETRY_SHUTDOWN_FAILED").Wrap(err)
	}
	return nil
}

// grpcTarget reduces an endpoint URL to host:port. Plain http and bare
// host:port endpoints are dialed without TLS.
func grpcTarget(endpoint string) (string, bool, error) {
	endpoint = strings.TrimSpace(endpoint)
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, oops.Code("TELEMETRY_CONFIG_INVALID").With("endpoint", endpoint).Wrap(err)
	}
	if u.Host == "" {
		return "", false, oops.Code("TELEMETRY_CONFIG_INVALID").With("endpoint", endpoint).Errorf("endpoint has no host")
	}
	return u.Host, u.Scheme != "https", nil
}
