package pip

import "errors"

// ErrWrongKind is returned when a response's Kind does not match the
// request it is paired with.
var ErrWrongKind = errors.New("pip: response kind does not match request")

// CheckFunc validates that a candidate back-reference (reqIdx, outIdx) is
// declared with the expected OutputKind. It is supplied by the batch builder
// at Append time, when the full set of prior requests' declared outputs is
// known.
type CheckFunc func(reqIdx, outIdx uint64, expect OutputKind) error

// NoteFunc records the OutputKind this request declares at output slot idx,
// so that later requests in the batch may back-reference it.
type NoteFunc func(outIdx uint64, kind OutputKind)

// OracleFunc resolves a back-reference to the Output it names, once the
// producing request has actually been answered or ingested.
type OracleFunc func(reqIdx, outIdx uint64) (Output, error)

// MapFunc rewrites a request index, used when batches are concatenated or
// sliced and back-references must shift accordingly.
type MapFunc func(reqIdx uint64) uint64

// Request is an as-yet-possibly-incomplete member of the request catalogue:
// some of its Field inputs may still be back-references into the same
// batch.
type Request interface {
	// Kind identifies which of the ten request shapes this is.
	Kind() Kind

	// CheckOutputs statically validates every back-reference this request
	// holds against check, without needing any request to have actually
	// been answered yet. It is called once, at batch-append time.
	CheckOutputs(check CheckFunc) error

	// NoteOutputs reports, via note, the OutputKind of every output slot
	// this request declares, so that subsequent requests in the batch may
	// reference them.
	NoteOutputs(note NoteFunc)

	// Fill resolves any remaining back-references using oracle, turning a
	// partially-resolved request closer to Complete.
	Fill(oracle OracleFunc)

	// Complete returns the fully-resolved request, or ErrNoSuchOutput if
	// any input is still an unresolved back-reference.
	Complete() (CompleteRequest, error)

	// AdjustRefs rewrites every back-reference's request index through
	// mapping.
	AdjustRefs(mapping MapFunc)
}

// CompleteRequest is a Request all of whose inputs are concrete values: the
// form actually dispatched to a ChainOracle for answering.
type CompleteRequest interface {
	Kind() Kind
}

// Response is an answer to a single complete request. Its FillOutputs
// method reports the concrete Output values it produces, in declared-output
// order, so the batch pipeline can populate the output Store for later
// requests to back-reference.
type Response interface {
	Kind() Kind
	FillOutputs(note func(idx uint64, out Output))
}
