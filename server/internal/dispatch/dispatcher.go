package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bfhl/bfhl/server/internal/answer"
	"github.com/bfhl/bfhl/server/internal/compute"
	"github.com/bfhl/bfhl/server/internal/config"
	"github.com/bfhl/bfhl/server/internal/validate"
)

// Limits are the input bounds enforced before any computation.
type Limits struct {
	SequenceMax       int
	ArrayMaxLen       int
	ArrayMaxMagnitude int64
	QuestionMaxLen    int
	AskTimeout        time.Duration
}

// LimitsFromConfig returns the limits configured in cfg.
func LimitsFromConfig(cfg *config.Config) Limits {
	return Limits{
		SequenceMax:       cfg.Limits.SequenceMax,
		ArrayMaxLen:       cfg.Limits.ArrayMaxLen,
		ArrayMaxMagnitude: cfg.Limits.ArrayMaxMagnitude,
		QuestionMaxLen:    cfg.Limits.QuestionMaxLen,
		AskTimeout:        cfg.Answer.Timeout,
	}
}

// AnswerObserver is told the outcome of every provider call.
type AnswerObserver interface {
	ObserveAnswer(provider, result string)
}

// Dispatcher validates and executes /bfhl requests. It holds no per-request
// state and is safe for concurrent use.
type Dispatcher struct {
	limits   Limits
	asker    answer.Asker
	observer AnswerObserver
}

// Option customises a Dispatcher.
type Option func(*Dispatcher)

// WithAnswerObserver reports provider call outcomes to o.
func WithAnswerObserver(o AnswerObserver) Option {
	return func(d *Dispatcher) { d.observer = o }
}

// New creates a Dispatcher. asker may be nil, in which case AI requests fail
// with CollaboratorFailure.
func New(limits Limits, asker answer.Asker, opts ...Option) *Dispatcher {
	if asker == nil {
		asker = answer.Unavailable{Err: answer.ErrNoProvider}
	}
	d := &Dispatcher{limits: limits, asker: asker}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Result is the outcome of a successful dispatch.
type Result struct {
	Operation Operation
	Data      any
}

// Dispatch selects, validates and executes the single operation in body.
func (d *Dispatcher) Dispatch(ctx context.Context, body map[string]any) (Result, error) {
	req, err := d.Parse(body)
	if err != nil {
		return Result{}, err
	}
	data, err := d.Execute(ctx, req)
	if err != nil {
		return Result{Operation: req.Operation()}, err
	}
	return Result{Operation: req.Operation(), Data: data}, nil
}

// Select returns the one recognised operation key in body and its value.
func Select(body map[string]any) (Operation, any, error) {
	var (
		found Operation
		count int
	)
	for _, op := range Operations {
		if _, ok := body[string(op)]; ok {
			found = op
			count++
		}
	}
	switch count {
	case 0:
		return "", nil, newError(MissingOperation, nil, "Request must contain one of: %s", operationList())
	case 1:
		return found, body[string(found)], nil
	default:
		return "", nil, newError(AmbiguousOperation, nil, "Request must contain exactly one of: %s", operationList())
	}
}

// Parse selects the operation in body and coerces its value into a Request.
func (d *Dispatcher) Parse(body map[string]any) (Request, error) {
	op, value, err := Select(body)
	if err != nil {
		return nil, err
	}

	switch op {
	case OpSequence:
		n, err := validate.ParseBoundedInteger(value, 0, int64(d.limits.SequenceMax))
		if err != nil {
			return nil, newError(InvalidScalar, err, "%s input must be an integer between 0 and %d", op, d.limits.SequenceMax)
		}
		return Sequence{N: int(n)}, nil

	case OpFilterPrimes, OpLCM, OpHCF:
		xs, err := validate.ParseBoundedIntegerArray(value, d.limits.ArrayMaxLen, d.limits.ArrayMaxMagnitude)
		if err != nil {
			return nil, newError(InvalidArray, err,
				"%s input must be a non-empty array of at most %d integers, each between -%d and %d",
				op, d.limits.ArrayMaxLen, d.limits.ArrayMaxMagnitude, d.limits.ArrayMaxMagnitude)
		}
		switch op {
		case OpFilterPrimes:
			return FilterPrimes{Values: xs}, nil
		case OpLCM:
			return LCM{Values: xs}, nil
		default:
			return HCF{Values: xs}, nil
		}

	case OpAsk:
		if !validate.IsNonEmptyBoundedString(value, d.limits.QuestionMaxLen) {
			return nil, newError(InvalidString, nil, "%s input must be a non-empty string (max %d characters)", op, d.limits.QuestionMaxLen)
		}
		return Ask{Question: value.(string)}, nil
	}

	return nil, newError(InternalFailure, nil, "unhandled operation %q", op)
}

// Execute runs a validated request.
func (d *Dispatcher) Execute(ctx context.Context, req Request) (any, error) {
	switch r := req.(type) {
	case Sequence:
		slog.Debug("dispatch: generating fibonacci series", "n", r.N)
		return compute.Fibonacci(r.N), nil

	case FilterPrimes:
		slog.Debug("dispatch: filtering primes", "count", len(r.Values))
		return compute.FilterPrimes(r.Values), nil

	case LCM:
		slog.Debug("dispatch: calculating lcm", "count", len(r.Values))
		return compute.ReduceLCM(r.Values), nil

	case HCF:
		slog.Debug("dispatch: calculating hcf", "count", len(r.Values))
		return compute.ReduceGCD(r.Values), nil

	case Ask:
		return d.ask(ctx, r.Question)
	}
	return nil, newError(InternalFailure, nil, "unsupported request type %T", req)
}

func (d *Dispatcher) ask(ctx context.Context, question string) (string, error) {
	provider := answer.NameOf(d.asker)
	slog.Info("dispatch: processing AI question", "provider", provider, "question", truncate(question, 50))

	if d.limits.AskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.limits.AskTimeout)
		defer cancel()
	}

	word, err := d.asker.Ask(ctx, question)
	if err != nil {
		d.observe(provider, "error")
		slog.Error("dispatch: AI processing failed", "provider", provider, "err", err)
		return "", newError(CollaboratorFailure, fmt.Errorf("%s: %w", provider, err), "Failed to process AI request")
	}
	d.observe(provider, "ok")
	return word, nil
}

func (d *Dispatcher) observe(provider, result string) {
	if d.observer != nil {
		d.observer.ObserveAnswer(provider, result)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
