// Package repl runs the estimate form in the terminal.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/briandowns/spinner"

	"github.com/hemantobora/ec2-estimator/internal/controller"
	"github.com/hemantobora/ec2-estimator/internal/display"
	"github.com/hemantobora/ec2-estimator/internal/models"
	"github.com/hemantobora/ec2-estimator/internal/pricing"
)

// ReferenceSource looks up list prices for a finished estimate.
type ReferenceSource interface {
	Reference(ctx context.Context, cfg models.Configuration) *pricing.Reference
}

// Form drives a controller from terminal prompts.
type Form struct {
	ctrl    *controller.Controller
	prompt  Prompter
	out     io.Writer
	pricing ReferenceSource

	mu      sync.Mutex
	spinner *spinner.Spinner
}

// NewForm binds a controller to a prompter. prices may be nil.
func NewForm(ctrl *controller.Controller, prompt Prompter, out io.Writer, prices ReferenceSource) *Form {
	return &Form{ctrl: ctrl, prompt: prompt, out: out, pricing: prices}
}

// Run loops until the user declines another estimate or interrupts the prompt.
func (f *Form) Run(ctx context.Context) error {
	unsubscribe := f.ctrl.Subscribe(f.onChange)
	defer unsubscribe()
	defer f.stopSpinner()

	fmt.Fprintln(f.out, "🖥️  AWS EC2 Cost Estimator")
	fmt.Fprintln(f.out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Fprintln(f.out, display.IdleHint)

	for {
		submit, err := f.edit()
		if err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				return nil
			}
			return err
		}

		if submit {
			if err := f.estimate(ctx); err != nil {
				return err
			}
		}

		again, err := f.prompt.Confirm("Estimate another configuration?", true)
		if err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				return nil
			}
			return err
		}
		if !again {
			return nil
		}
	}
}

// edit walks the four inputs and reports whether the user wants an estimate.
func (f *Form) edit() (bool, error) {
	cfg := f.ctrl.Snapshot().Configuration

	instanceType, err := f.prompt.Select("Instance type:", models.InstanceTypes, cfg.InstanceType)
	if err != nil {
		return false, err
	}
	osName, err := f.prompt.Select("Operating system:", models.OperatingSystems, cfg.OperatingSystem)
	if err != nil {
		return false, err
	}
	volumeType, err := f.prompt.Select("EBS volume type:", models.EBSVolumeTypes, cfg.EBSVolumeType)
	if err != nil {
		return false, err
	}
	size, err := f.prompt.Input("EBS volume size (GB):", strconv.Itoa(cfg.EBSVolumeSizeGB))
	if err != nil {
		return false, err
	}

	updates := []struct{ field, value string }{
		{controller.FieldInstanceType, instanceType},
		{controller.FieldOperatingSystem, osName},
		{controller.FieldEBSVolumeType, volumeType},
		{controller.FieldEBSVolumeSizeGB, size},
	}
	for _, u := range updates {
		if err := f.ctrl.UpdateField(u.field, u.value); err != nil {
			return false, err
		}
	}

	cfg = f.ctrl.Snapshot().Configuration
	return f.prompt.Confirm(fmt.Sprintf("Get estimate for %s?", cfg), true)
}

func (f *Form) estimate(ctx context.Context) error {
	done, ok := f.ctrl.Submit(ctx)
	if !ok {
		fmt.Fprintln(f.out, "⚠️  Select an instance type first.")
		return nil
	}
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	snap := f.ctrl.Snapshot()
	var ref *pricing.Reference
	if snap.State == controller.Succeeded && f.pricing != nil {
		ref = f.pricing.Reference(ctx, snap.Configuration)
	}
	display.RenderSnapshot(f.out, snap, ref)
	return nil
}

// onChange shows the spinner while a request is in flight.
func (f *Form) onChange(snap controller.Snapshot) {
	if snap.State == controller.Loading {
		f.startSpinner()
		return
	}
	f.stopSpinner()
}

func (f *Form) startSpinner() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.spinner != nil {
		return
	}
	s := spinner.New(spinner.CharSets[9], 200*time.Millisecond, spinner.WithWriter(f.out))
	s.Suffix = " " + display.LoadingMessage
	s.Start()
	f.spinner = s
}

func (f *Form) stopSpinner() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.spinner == nil {
		return
	}
	f.spinner.Stop()
	f.spinner = nil
}
