package dispatch

import "strings"

// Operation is a recognised wire key of the request body.
type Operation string

// Wire keys accepted in the request body.
const (
	OpSequence     Operation = "fibonacci"
	OpFilterPrimes Operation = "prime"
	OpLCM          Operation = "lcm"
	OpHCF          Operation = "hcf"
	OpAsk          Operation = "AI"
)

// Operations lists the recognised keys in their documented order.
var Operations = []Operation{OpSequence, OpFilterPrimes, OpLCM, OpHCF, OpAsk}

func operationList() string {
	names := make([]string, len(Operations))
	for i, op := range Operations {
		names[i] = string(op)
	}
	return strings.Join(names, ", ")
}

// Request is a validated computation. The concrete types are Sequence,
// FilterPrimes, LCM, HCF and Ask.
type Request interface {
	Operation() Operation
}

// Sequence asks for the first N Fibonacci terms.
type Sequence struct{ N int }

// FilterPrimes asks for the prime elements of Values.
type FilterPrimes struct{ Values []int64 }

// LCM asks for the least common multiple of Values.
type LCM struct{ Values []int64 }

// HCF asks for the highest common factor of Values.
type HCF struct{ Values []int64 }

// Ask forwards Question to the answering provider.
type Ask struct{ Question string }

func (Sequence) Operation() Operation     { return OpSequence }
func (FilterPrimes) Operation() Operation { return OpFilterPrimes }
func (LCM) Operation() Operation          { return OpLCM }
func (HCF) Operation() Operation          { return OpHCF }
func (Ask) Operation() Operation          { return OpAsk }
