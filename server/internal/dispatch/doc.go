// Package dispatch turns a decoded /bfhl body into exactly one computation
// and runs it.
//
// Dispatch has two terminal decision points:
//
//  1. Key selection. The body's keys are intersected with the recognised
//     operation set (fibonacci, prime, lcm, hcf, AI); other keys are ignored.
//     No match is MissingOperation, more than one is AmbiguousOperation.
//  2. Validation and execution. The selected value is coerced into the typed
//     Request for that operation (Sequence, FilterPrimes, LCM, HCF, Ask) and
//     executed against the compute engine or the answer.Asker.
//
// All failures are *Error values carrying an ErrorKind. Validation failures
// never reach the engine. AI calls run under the configured timeout; failure
// or timeout is CollaboratorFailure and is not retried.
package dispatch
