package feed

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/imoveis-cli/internal/fetcher"
)

func TestStageString(t *testing.T) {
	assert.Equal(t, "FETCHING", StageFetching.String())
	assert.Equal(t, "RESOLVING_COLUMNS", StageResolvingColumns.String())
	assert.Equal(t, "READY", StageReady.String())
	assert.Equal(t, "FAILED", StageFailed.String())
	assert.Equal(t, "UNKNOWN", Stage(99).String())
}

func TestTransportError(t *testing.T) {
	pe := transportError(&fetcher.StatusError{StatusCode: 502, URL: "u"})
	assert.Equal(t, "transport error: 502 Bad Gateway", pe.Error())
	assert.Contains(t, pe.Hint(), "Wait a few minutes")

	pe = transportError(errors.New("boom"))
	assert.Equal(t, "transport error: boom", pe.Error())
	assert.Contains(t, pe.Hint(), "unavailable")
}

func TestPipelineError_Unwrap(t *testing.T) {
	cause := errors.New("cause")
	pe := decodeError(cause)
	assert.ErrorIs(t, pe, cause)
	assert.Contains(t, pe.Hint(), "could not be read")

	pe = schemaDriftError(StageResolvingColumns, &MissingColumnError{Field: FieldPrice})
	assert.Equal(t, "schema drift: price column not found", pe.Error())
}

func TestSizeLimitError(t *testing.T) {
	assert.Equal(t, "document exceeds 64 MB", (&SizeLimitError{Limit: 64 << 20}).Error())
	assert.Equal(t, "document exceeds 1500 bytes", (&SizeLimitError{Limit: 1500}).Error())
}
