package biometric

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/dmitrijs2005/expensekeeper/internal/client/console"
	"github.com/dmitrijs2005/expensekeeper/internal/client/models"
	"github.com/dmitrijs2005/expensekeeper/internal/client/repositories/preferences"
)

// SoftwareSensor stands in for a platform sensor on a terminal. CreateKeys
// enrols the device by storing a random key handle in preferences; no
// secret material is involved. SimplePrompt is a y/N confirmation and only
// works while a handle is enrolled. It proves presence at the terminal,
// nothing more: the credential pair stays protected by the secret store's
// device-only tier.
type SoftwareSensor struct {
	prefs       preferences.Repository
	in          *console.LineReader
	out         io.Writer
	interactive func() bool
	disabled    bool
}

type SensorOption func(*SoftwareSensor)

// WithIO replaces stdin/stdout. in is normally the reader the REPL uses.
func WithIO(in *console.LineReader, out io.Writer) SensorOption {
	return func(s *SoftwareSensor) {
		s.in = in
		s.out = out
	}
}

// WithInteractive overrides the terminal check.
func WithInteractive(fn func() bool) SensorOption {
	return func(s *SoftwareSensor) { s.interactive = fn }
}

// WithDisabled makes the sensor report itself unavailable.
func WithDisabled(disabled bool) SensorOption {
	return func(s *SoftwareSensor) { s.disabled = disabled }
}

func NewSoftwareSensor(prefs preferences.Repository, opts ...SensorOption) *SoftwareSensor {
	s := &SoftwareSensor{
		prefs:       prefs,
		out:         os.Stdout,
		interactive: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.in == nil {
		s.in = console.NewLineReader(os.Stdin)
	}
	return s
}

func (s *SoftwareSensor) IsSensorAvailable(ctx context.Context) (models.Capability, error) {
	if s.disabled || !s.interactive() {
		return models.Capability{Kind: models.BiometryNone}, nil
	}
	return models.Capability{Available: true, Kind: models.BiometryGeneric}, nil
}

// CreateKeys replaces the enrolled handle with a new one and returns it.
func (s *SoftwareSensor) CreateKeys(ctx context.Context) (string, error) {
	handle := uuid.NewString()
	if err := s.prefs.Set(ctx, preferences.KeySensorKeyID, handle); err != nil {
		return "", fmt.Errorf("store key handle: %w", err)
	}
	return handle, nil
}

func (s *SoftwareSensor) DeleteKeys(ctx context.Context) (bool, error) {
	_, existed, err := s.prefs.Get(ctx, preferences.KeySensorKeyID)
	if err != nil {
		return false, err
	}
	return existed, s.prefs.Delete(ctx, preferences.KeySensorKeyID)
}

func (s *SoftwareSensor) SimplePrompt(ctx context.Context, message string) (bool, error) {
	handle, ok, err := s.prefs.Get(ctx, preferences.KeySensorKeyID)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrSensorUnavailable, err)
	}
	if _, perr := uuid.Parse(handle); !ok || perr != nil {
		return false, fmt.Errorf("%w: not enrolled", ErrSensorUnavailable)
	}

	if _, err := fmt.Fprintf(s.out, "%s [y/N]: ", message); err != nil {
		return false, fmt.Errorf("%w: %w", ErrSensorUnavailable, err)
	}

	answer, err := s.in.ReadLine(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false, ErrSensorCancelled
		}
		return false, fmt.Errorf("%w: %w", ErrSensorUnavailable, err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, ErrSensorCancelled
}
