package benchmarks

import (
	"context"
	"fmt"
	"time"

	"github.com/sbst-go/sbst/pkg/search/framework"
)

// Runner executes vector encodings against benchmark programs in process.
type Runner struct{}

var _ framework.EncodingRunner = Runner{}

func (Runner) Execute(ctx context.Context, subject framework.SearchSubject, encoding framework.Encoding) (*framework.ExecutionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	program, ok := subject.(*Program)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedSubject, subject)
	}
	vector, ok := encoding.(*VectorEncoding)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedEncoding, encoding)
	}
	if len(vector.values) != program.arity {
		return nil, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrUnsupportedEncoding, program.name, program.arity, len(vector.values))
	}

	probe := newProbe()
	start := time.Now()
	exception := run(program, probe, vector.Values())

	result := &framework.ExecutionResult{
		Status:    framework.StatusPassed,
		Traces:    probe.traces(program),
		Duration:  time.Since(start),
		Exception: exception,
	}
	if exception != "" {
		result.Status = framework.StatusFailed
	}
	return result, nil
}

func run(program *Program, probe *Probe, args []int) (exception string) {
	defer func() {
		if r := recover(); r != nil {
			exception = fmt.Sprint(r)
		}
	}()
	program.body(probe, args)
	return ""
}
