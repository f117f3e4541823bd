// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/NVIDIA/autodoc/pkg/config"
	"github.com/NVIDIA/autodoc/pkg/defaults"
	"github.com/NVIDIA/autodoc/pkg/describer"
	aderrors "github.com/NVIDIA/autodoc/pkg/errors"
	"github.com/NVIDIA/autodoc/pkg/graph"
	"github.com/NVIDIA/autodoc/pkg/header"
	"github.com/NVIDIA/autodoc/pkg/storage"
)

// Pass stages recorded in skip entries.
const (
	StageConfiguring = "configuring"
	StageCollecting  = "collecting"
	StageLinking     = "linking"
)

// StoreFactory creates the snapshot store for the resolved settings.
type StoreFactory func(config.Settings) (storage.Store, error)

// DescriberFactory creates the describers for the resolved settings.
type DescriberFactory func(config.Settings) []describer.Describer

// Option configures an Engine.
type Option func(*Engine)

// WithSource sets the configuration source tree.
func WithSource(src config.Source) Option {
	return func(e *Engine) {
		e.source = src
	}
}

// WithConfigFiles adds YAML files read while configuring. Later files take
// precedence over earlier ones and over the source tree. An unreadable file
// fails the pass.
func WithConfigFiles(paths ...string) Option {
	return func(e *Engine) {
		e.configFiles = append(e.configFiles, paths...)
	}
}

// WithNamespace sets the key prefix the configuration is scoped to.
func WithNamespace(ns string) Option {
	return func(e *Engine) {
		e.namespace = ns
	}
}

// WithDescribers replaces the default describers. Order is preserved.
func WithDescribers(ds ...describer.Describer) Option {
	return func(e *Engine) {
		e.describers = func(config.Settings) []describer.Describer { return ds }
	}
}

// WithDescriberFactory builds describers from the resolved settings.
func WithDescriberFactory(f DescriberFactory) Option {
	return func(e *Engine) {
		e.describers = f
	}
}

// WithStore sets a fixed store, ignoring storage settings.
func WithStore(st storage.Store) Option {
	return func(e *Engine) {
		e.storeFactory = func(config.Settings) (storage.Store, error) { return st, nil }
	}
}

// WithStoreFactory builds the store from the resolved settings.
func WithStoreFactory(f StoreFactory) Option {
	return func(e *Engine) {
		e.storeFactory = f
	}
}

// WithVersion sets the producer version written into snapshot metadata.
func WithVersion(v string) Option {
	return func(e *Engine) {
		e.version = v
	}
}

// WithDescriberTimeout overrides describer.timeout from configuration.
func WithDescriberTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.describerTimeout = d
	}
}

// WithRegisterer sets the Prometheus registerer for engine metrics.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(e *Engine) {
		e.registerer = reg
	}
}

// Result is the outcome of a successful pass.
type Result struct {
	// Snapshot is the persisted snapshot.
	Snapshot *graph.Snapshot
	// Settings are the settings the pass ran with.
	Settings config.Settings
	// Defaulted reports whether built-in defaults replaced an empty configuration.
	Defaulted bool
	// Store is the name of the store the snapshot was written to.
	Store string
	// Duration is the wall time of the pass.
	Duration time.Duration
}

// Engine runs one documentation pass: configure, collect, link, persist.
// An Engine is single use.
type Engine struct {
	source           config.Source
	configFiles      []string
	namespace        string
	describers       DescriberFactory
	storeFactory     StoreFactory
	version          string
	describerTimeout time.Duration
	registerer       prometheus.Registerer
	hostname         func() (string, error)

	metrics *metrics
	state   atomic.Int32
	started atomic.Bool
}

// New creates an idle engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		namespace:    defaults.Namespace,
		describers:   describer.Default,
		storeFactory: storage.New,
		hostname:     os.Hostname,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.metrics = metricsFor(e.registerer)
	return e
}

// State returns the current state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

func (e *Engine) transition(to State) {
	from := State(e.state.Swap(int32(to)))
	slog.Debug("documentation pass state changed", "from", from.String(), "to", to.String())
}

// fail moves the engine to Failed and returns err.
func (e *Engine) fail(err error) (*Result, error) {
	from := e.State()
	e.transition(StateFailed)
	e.metrics.passTotal.WithLabelValues("failed").Inc()
	slog.Error("documentation pass failed", "stage", from.String(), "error", err)
	return nil, err
}

// Run executes the pass. Describer and linking failures are contained and
// recorded in the snapshot; configuration and persistence failures end the
// pass in Failed and are returned.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	if !e.started.CompareAndSwap(false, true) {
		return nil, aderrors.NewWithContext(aderrors.ErrCodeInvalidRequest,
			"documentation pass already executed", map[string]any{"state": e.State().String()})
	}

	start := time.Now()
	defer func() {
		e.metrics.passDuration.Observe(time.Since(start).Seconds())
	}()

	// configuring
	e.transition(StateConfiguring)
	flat, err := e.configure()
	if err != nil {
		return e.fail(err)
	}
	settings, err := config.NewSettings(flat)
	if err != nil {
		return e.fail(err)
	}
	if e.describerTimeout > 0 {
		settings.DescriberTimeout = e.describerTimeout
	}
	store, err := e.storeFactory(settings)
	if err != nil {
		return e.fail(err)
	}
	if c, ok := store.(storage.Closer); ok {
		defer func() {
			if cerr := c.Close(); cerr != nil {
				slog.Warn("failed to close snapshot store", "store", store.Name(), "error", cerr)
			}
		}()
	}
	slog.Info("documentation pass configured",
		"store", store.Name(),
		"defaults", flat.Defaulted(),
		"application", settings.Application.Name)

	// collecting
	e.transition(StateCollecting)
	g := graph.NewStore()
	skipped := e.collect(ctx, g, e.describers(settings), settings.DescriberTimeout)

	// linking
	e.transition(StateLinking)
	skipped = append(skipped, e.link(g)...)

	snap := e.assemble(g, skipped)
	e.metrics.graphItems.Set(float64(len(snap.Items)))

	// persisting
	writeCtx, cancel := context.WithTimeout(ctx, settings.Storage.Timeout)
	defer cancel()
	if err := store.Write(writeCtx, snap.Clone()); err != nil {
		if !aderrors.IsCode(err, aderrors.ErrCodePersistence) {
			err = aderrors.WrapWithContext(aderrors.ErrCodePersistence, "failed to persist snapshot", err,
				map[string]any{"store": store.Name()})
		}
		return e.fail(err)
	}

	e.transition(StatePersisted)
	e.metrics.passTotal.WithLabelValues("persisted").Inc()

	res := &Result{
		Snapshot:  snap,
		Settings:  settings,
		Defaulted: flat.Defaulted(),
		Store:     store.Name(),
		Duration:  time.Since(start),
	}
	slog.Info("documentation pass persisted",
		"id", snap.Metadata[header.MetaID],
		"store", res.Store,
		"items", len(snap.Items),
		"relations", len(snap.Relations),
		"skipped", len(snap.Skipped),
		"duration", res.Duration.String())
	return res, nil
}

// configure resolves the source tree, with configured files layered on top.
func (e *Engine) configure() (*config.Flat, error) {
	if len(e.configFiles) == 0 {
		return config.Load(e.source, e.namespace), nil
	}

	root := config.NewCompositeSource("engine")
	if e.source != nil {
		root.Add(e.source)
	}
	for _, path := range e.configFiles {
		src, err := config.FromYAMLFile(path)
		if err != nil {
			return nil, err
		}
		root.Add(src)
	}
	return config.Load(root, e.namespace), nil
}

// collect runs describers in order and puts their items into g.
func (e *Engine) collect(ctx context.Context, g *graph.Store, ds []describer.Describer, timeout time.Duration) []graph.Skip {
	var skipped []graph.Skip
	for _, d := range ds {
		if d == nil {
			continue
		}

		started := time.Now()
		items, err := describe(ctx, d, timeout)
		e.metrics.describerDuration.WithLabelValues(d.Name()).Observe(time.Since(started).Seconds())

		if err != nil {
			code := aderrors.CodeOf(err, aderrors.ErrCodeDescriberFailure)
			e.metrics.describerFailures.WithLabelValues(d.Name(), string(code)).Inc()
			slog.Warn("describer failed, continuing without its items",
				"describer", d.Name(), "code", code, "error", err)
			skipped = append(skipped, graph.Skip{
				Stage:   StageCollecting,
				Subject: d.Name(),
				Code:    string(code),
				Reason:  err.Error(),
			})
			continue
		}

		for _, item := range items {
			if err := g.Put(item); err != nil {
				slog.Warn("describer reported an invalid item", "describer", d.Name(), "error", err)
				skipped = append(skipped, graph.Skip{
					Stage:   StageCollecting,
					Subject: d.Name(),
					Code:    string(aderrors.ErrCodeInvalidRequest),
					Reason:  err.Error(),
				})
			}
		}
		slog.Debug("describer completed", "describer", d.Name(), "items", len(items))
	}
	return skipped
}

type describeResult struct {
	items []graph.Item
	err   error
}

// describe invokes d under timeout. Panics become errors. A describer that
// ignores its context is abandoned at the deadline and its result discarded.
func describe(ctx context.Context, d describer.Describer, timeout time.Duration) ([]graph.Item, error) {
	if timeout <= 0 {
		timeout = defaults.DescriberTimeout
	}
	dctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ch := make(chan describeResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- describeResult{err: aderrors.NewWithContext(aderrors.ErrCodeDescriberFailure,
					fmt.Sprintf("describer panicked: %v", r), map[string]any{"describer": d.Name()})}
			}
		}()
		items, err := d.Describe(dctx)
		ch <- describeResult{items: items, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil, classify(dctx, d.Name(), r.err)
		}
		return r.items, nil
	case <-dctx.Done():
		return nil, aderrors.WrapWithContext(aderrors.ErrCodeTimeout, "describer did not complete in time",
			dctx.Err(), map[string]any{"describer": d.Name(), "timeout": timeout.String()})
	}
}

// classify keeps structured errors and tags others as describer failures,
// or timeouts when the describer gave up on its deadline.
func classify(ctx context.Context, name string, err error) error {
	var se *aderrors.StructuredError
	if errors.As(err, &se) {
		return err
	}
	if ctx.Err() != nil {
		return aderrors.WrapWithContext(aderrors.ErrCodeTimeout, "describer did not complete in time",
			err, map[string]any{"describer": name})
	}
	return aderrors.WrapWithContext(aderrors.ErrCodeDescriberFailure, "describer failed",
		err, map[string]any{"describer": name})
}

// link applies the topology: with a container, every application runs in
// it and the container is deployed on the host; without one, every
// application is deployed on the host directly. The first item of each type
// is used.
func (e *Engine) link(g *graph.Store) []graph.Skip {
	var skipped []graph.Skip
	try := func(from, to, toType, label string) {
		var err error
		if to == "" {
			err = &graph.DanglingReferenceError{From: from, Label: label, Missing: []string{"<" + toType + ">"}}
		} else {
			err = g.Link(from, to, label)
		}
		if err == nil {
			return
		}
		e.metrics.danglingLinks.Inc()
		slog.Warn("skipping relation", "from", from, "to", to, "label", label, "error", err)
		skipped = append(skipped, graph.Skip{
			Stage:   StageLinking,
			Subject: fmt.Sprintf("%s -[%s]-> %s", from, label, toType),
			Code:    string(aderrors.ErrCodeDanglingReference),
			Reason:  err.Error(),
		})
	}

	host, _ := g.First(graph.TypeHost)
	apps := g.FindByType(graph.TypeApplication)

	if ctr, ok := g.First(graph.TypeContainer); ok {
		for _, app := range apps {
			try(app.ID, ctr.ID, graph.TypeContainer, graph.LabelRunsIn)
		}
		try(ctr.ID, host.ID, graph.TypeHost, graph.LabelDeployedOn)
		return skipped
	}

	for _, app := range apps {
		try(app.ID, host.ID, graph.TypeHost, graph.LabelDeployedOn)
	}
	return skipped
}

// assemble builds the snapshot with its header.
func (e *Engine) assemble(g *graph.Store, skipped []graph.Skip) *graph.Snapshot {
	snap := g.Snapshot()
	snap.Init(header.KindSnapshot, graph.APIVersion, e.version)
	snap.Metadata[header.MetaID] = uuid.NewString()
	if host, err := e.hostname(); err == nil && host != "" {
		snap.Metadata[header.MetaSourceHost] = host
	}
	if len(skipped) > 0 {
		snap.Skipped = skipped
	}
	return snap
}

// RunOnce runs a single pass with opts and logs the outcome instead of
// returning it. Intended as a best-effort startup hook for host programs.
func RunOnce(ctx context.Context, opts ...Option) *Result {
	res, err := New(opts...).Run(ctx)
	if err != nil {
		slog.Error("documentation pass did not complete", "error", err)
		return nil
	}
	return res
}
