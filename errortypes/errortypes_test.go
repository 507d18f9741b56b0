package errortypes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadCode(t *testing.T) {
	testCases := []struct {
		desc     string
		err      error
		expected int
	}{
		{
			desc:     "missing configuration",
			err:      &MissingConfiguration{Network: "maio", Keys: []string{"mediaId"}},
			expected: MissingConfigurationErrorCode,
		},
		{
			desc:     "sdk initialization",
			err:      &SDKInitialization{Network: "maio", Cause: errors.New("boom")},
			expected: SDKInitializationErrorCode,
		},
		{
			desc:     "token unavailable",
			err:      &TokenUnavailable{Network: "maio"},
			expected: TokenUnavailableWarningCode,
		},
		{
			desc:     "plain error",
			err:      errors.New("plain"),
			expected: UnknownErrorCode,
		},
	}

	for _, test := range testCases {
		assert.Equal(t, test.expected, ReadCode(test.err), test.desc)
	}
}

func TestSDKInitializationUnwrap(t *testing.T) {
	cause := errors.New("media id rejected")
	err := error(&SDKInitialization{Network: "maio", Cause: cause})

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "maio: network sdk initialization failed: media id rejected", err.Error())
}

func TestSeverity(t *testing.T) {
	errs := []error{
		&TokenUnavailable{Network: "maio"},
		&MissingConfiguration{Network: "maio"},
	}

	assert.True(t, IsWarning(errs[0]))
	assert.False(t, IsWarning(errs[1]))
	assert.True(t, ContainsFatalError(errs))
	assert.Len(t, FatalOnly(errs), 1)
	assert.False(t, ContainsFatalError(errs[:1]))
}

func TestAggregateErrors(t *testing.T) {
	agg := NewAggregateErrors("adapter initialization", []error{errors.New("a"), errors.New("b")})

	assert.Equal(t, "adapter initialization (2 errors):\n  1: a\n  2: b\n", agg.Error())
	assert.Equal(t, "", NewAggregateErrors("empty", nil).Error())
}

func TestAggregateErrorsSeverityAndUnwrap(t *testing.T) {
	cause := errors.New("refused")
	var err error = NewAggregateErrors("adapter initialization", []error{
		&SDKInitialization{Network: "bad", Cause: cause},
		&TokenUnavailable{Network: "idle"},
		errors.New("plain"),
	})

	assert.Equal(t, "adapter initialization (3 errors):\n"+
		"  1: [fatal] bad: network sdk initialization failed: refused\n"+
		"  2: [warning] idle: bidding token unavailable, network sdk is not initialized\n"+
		"  3: plain\n", err.Error())

	var initErr *SDKInitialization
	if assert.True(t, errors.As(err, &initErr)) {
		assert.Equal(t, "bad", initErr.Network)
	}
	var unavailable *TokenUnavailable
	assert.True(t, errors.As(err, &unavailable))
	assert.True(t, errors.Is(err, cause))

	var missing *MissingConfiguration
	assert.False(t, errors.As(err, &missing))
}

func TestAggregateErrorsContainsFatal(t *testing.T) {
	assert.True(t, NewAggregateErrors("m", []error{&MissingConfiguration{Network: "maio"}}).ContainsFatal())
	assert.False(t, NewAggregateErrors("m", []error{&TokenFetch{Network: "maio"}}).ContainsFatal())
}
