package feed

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sells-group/imoveis-cli/internal/resilience"
)

// Stage is a step of the enrichment pipeline.
type Stage int

const (
	StageFetching Stage = iota
	StageDecoding
	StageLocatingHeader
	StageParsingTable
	StageResolvingColumns
	StageConvertingValues
	StageFilteringInvalid
	StageEnrichingText
	StageReady
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageFetching:
		return "FETCHING"
	case StageDecoding:
		return "DECODING"
	case StageLocatingHeader:
		return "LOCATING_HEADER"
	case StageParsingTable:
		return "PARSING_TABLE"
	case StageResolvingColumns:
		return "RESOLVING_COLUMNS"
	case StageConvertingValues:
		return "CONVERTING_VALUES"
	case StageFilteringInvalid:
		return "FILTERING_INVALID"
	case StageEnrichingText:
		return "ENRICHING_TEXT"
	case StageReady:
		return "READY"
	case StageFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// ErrorKind classifies an invocation-level failure.
type ErrorKind string

const (
	KindTransport   ErrorKind = "transport"
	KindDecode      ErrorKind = "decode"
	KindSchemaDrift ErrorKind = "schema_drift"
)

// PipelineError is the terminal failure of one pipeline invocation. Its
// Error text is the human-readable reason shown to the user.
type PipelineError struct {
	Stage  Stage
	Kind   ErrorKind
	Reason string
	Err    error
}

func (e *PipelineError) Error() string { return e.Reason }

func (e *PipelineError) Unwrap() error { return e.Err }

// Hint returns actionable text for the user.
func (e *PipelineError) Hint() string {
	switch e.Kind {
	case KindTransport:
		var se *SizeLimitError
		if errors.As(e.Err, &se) {
			return "The feed is larger than the download limit. Raise feed.max_mb and retry."
		}
		if resilience.IsTransient(e.Err) {
			return "The listing portal did not answer in time. Wait a few minutes and retry."
		}
		return "The feed for this region is unavailable right now. Try another region or force a refresh later."
	case KindDecode:
		return "The downloaded file could not be read. Force a refresh; if it persists, retry later."
	case KindSchemaDrift:
		return "The file format changed. Force a refresh; if it persists, the column rules need updating."
	default:
		return "Force a refresh or retry later."
	}
}

// SizeLimitError reports a document larger than the download cap.
type SizeLimitError struct {
	Limit int64
}

func (e *SizeLimitError) Error() string {
	if e.Limit > 0 && e.Limit%(1<<20) == 0 {
		return fmt.Sprintf("document exceeds %d MB", e.Limit>>20)
	}
	return fmt.Sprintf("document exceeds %d bytes", e.Limit)
}

func transportError(err error) *PipelineError {
	reason := "transport error: " + err.Error()
	if code := resilience.StatusCode(err); code != 0 {
		reason = fmt.Sprintf("transport error: %d %s", code, http.StatusText(code))
	}
	return &PipelineError{Stage: StageFetching, Kind: KindTransport, Reason: reason, Err: err}
}

func decodeError(err error) *PipelineError {
	return &PipelineError{Stage: StageDecoding, Kind: KindDecode, Reason: "decode error", Err: err}
}

func schemaDriftError(stage Stage, err error) *PipelineError {
	return &PipelineError{Stage: stage, Kind: KindSchemaDrift, Reason: "schema drift: " + err.Error(), Err: err}
}
