// Package controller holds the estimate form state and drives the
// Idle -> Loading -> Succeeded|Failed request lifecycle.
package controller

import (
	"context"
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hemantobora/ec2-estimator/internal/estimator"
	"github.com/hemantobora/ec2-estimator/internal/models"
)

// ErrBusy is returned for edits attempted while a request is in flight.
var ErrBusy = errors.New("an estimate request is in flight; inputs are disabled")

// Controller owns one form. All methods are safe for concurrent use.
type Controller struct {
	est    estimator.Estimator
	logger zerolog.Logger

	mu        sync.Mutex
	cfg       models.Configuration
	state     RequestState
	result    *models.CostEstimate
	errMsg    string
	errKind   models.ErrorKind
	requestID string
	observers map[int]Observer
	nextObs   int

	// serializes state transitions with their notifications
	notifyMu sync.Mutex
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(l zerolog.Logger) Option { return func(c *Controller) { c.logger = l } }

// WithConfiguration replaces the default starting configuration.
func WithConfiguration(cfg models.Configuration) Option {
	return func(c *Controller) { c.cfg = cfg }
}

// New returns an Idle controller with the default configuration.
func New(est estimator.Estimator, opts ...Option) *Controller {
	c := &Controller{
		est:       est,
		logger:    zerolog.Nop(),
		cfg:       models.DefaultConfiguration(),
		state:     Idle,
		observers: make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers o for transitions and returns a function that removes it.
func (c *Controller) Subscribe(o Observer) func() {
	c.mu.Lock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = o
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Configuration: c.cfg,
		State:         c.state,
		Result:        c.result,
		Error:         c.errMsg,
		ErrorKind:     c.errKind,
		RequestID:     c.requestID,
	}
}

// UpdateField sets one configuration field. It does not touch the request state.
// Selectors take a catalog value or "" for no selection; the volume size is parsed
// leniently and clamped to at least 1.
func (c *Controller) UpdateField(field, value string) error {
	return c.UpdateFields(map[string]string{field: value})
}

// UpdateFields applies several fields at once. Either every value is valid and all
// of them are applied, or the configuration is left unchanged.
func (c *Controller) UpdateFields(values map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Loading {
		return ErrBusy
	}

	cfg := c.cfg
	for _, field := range fieldOrder(values) {
		if err := setField(&cfg, field, values[field]); err != nil {
			return err
		}
	}
	c.cfg = cfg
	return nil
}

// fieldOrder returns the keys of values with known fields first, in form order.
func fieldOrder(values map[string]string) []string {
	known := []string{FieldInstanceType, FieldOperatingSystem, FieldEBSVolumeType, FieldEBSVolumeSizeGB}
	order := make([]string, 0, len(values))
	for _, f := range known {
		if _, ok := values[f]; ok {
			order = append(order, f)
		}
	}
	var unknown []string
	for f := range values {
		if !slices.Contains(known, f) {
			unknown = append(unknown, f)
		}
	}
	slices.Sort(unknown)
	return append(order, unknown...)
}

func setField(cfg *models.Configuration, field, value string) error {
	switch field {
	case FieldInstanceType:
		if value != "" && !models.IsInstanceType(value) {
			return &models.InputValidationError{InputType: field, Value: value, Expected: "one of the supported instance types"}
		}
		cfg.InstanceType = value
	case FieldOperatingSystem:
		if !models.IsOperatingSystem(value) {
			return &models.InputValidationError{InputType: field, Value: value, Expected: "one of the supported operating systems"}
		}
		cfg.OperatingSystem = value
	case FieldEBSVolumeType:
		if !models.IsEBSVolumeType(value) {
			return &models.InputValidationError{InputType: field, Value: value, Expected: "one of the supported EBS volume types"}
		}
		cfg.EBSVolumeType = value
	case FieldEBSVolumeSizeGB:
		cfg.EBSVolumeSizeGB = ClampVolumeSize(value)
	default:
		return &models.InputValidationError{InputType: "field", Value: field, Expected: "instanceType, operatingSystem, ebsVolumeType or ebsVolumeSizeGB"}
	}
	return nil
}

// Submit starts an estimate for the current configuration. It is a no-op, returning
// false, when no instance type is selected or a request is already in flight.
// The returned channel is closed once the terminal state has been published.
func (c *Controller) Submit(ctx context.Context) (<-chan struct{}, bool) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	if c.cfg.InstanceType == "" || c.state == Loading {
		c.mu.Unlock()
		return nil, false
	}
	c.state = Loading
	c.result = nil
	c.errMsg = ""
	c.errKind = ""
	c.requestID = uuid.NewString()
	cfg := c.cfg
	reqID := c.requestID
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Debug().Str("request_id", reqID).Stringer("configuration", cfg).Msg("estimate submitted")
	c.publishLocked(snap)

	// started only after Loading has been published
	done := make(chan struct{})
	go func() {
		defer close(done)
		est, err := c.est.Estimate(ctx, cfg)
		c.finish(reqID, est, err)
	}()
	return done, true
}

func (c *Controller) finish(reqID string, est *models.CostEstimate, err error) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	if c.requestID != reqID {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.state = Failed
		c.errMsg = err.Error()
		c.errKind = models.KindOf(err)
	} else {
		c.state = Succeeded
		c.result = est
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if err != nil {
		c.logger.Info().Str("request_id", reqID).Str("kind", string(snap.ErrorKind)).Msg("estimate failed")
	} else {
		c.logger.Info().Str("request_id", reqID).Float64("total_usd", est.TotalMonthlyCostUSD).Msg("estimate succeeded")
	}
	c.publishLocked(snap)
}

// publishLocked delivers snap to every observer in subscription order.
// notifyMu must be held, which also means observers must not call Submit.
func (c *Controller) publishLocked(snap Snapshot) {
	c.mu.Lock()
	observers := make([]Observer, 0, len(c.observers))
	for id := 0; id < c.nextObs; id++ {
		if o, ok := c.observers[id]; ok {
			observers = append(observers, o)
		}
	}
	c.mu.Unlock()

	for _, o := range observers {
		o(snap)
	}
}

// ClampVolumeSize parses s the way a numeric form input does (leading integer,
// anything else ignored) and never returns less than 1.
func ClampVolumeSize(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 1
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		if s[0] == '-' {
			return 1
		}
		return math.MaxInt32
	}
	return min(max(1, n), math.MaxInt32)
}
