package connect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("example.org:8080")
	assert.NoError(t, err)
	assert.Equal(t, Address{Host: "example.org", Port: 8080}, addr)
	assert.Equal(t, "example.org:8080", addr.String())
}

func TestParseAddressIPv6(t *testing.T) {
	addr, err := ParseAddress("[::1]:443")
	assert.NoError(t, err)
	assert.Equal(t, Address{Host: "::1", Port: 443}, addr)
	assert.Equal(t, "[::1]:443", addr.String())
}

func TestParseAddressRejectsBadInput(t *testing.T) {
	for _, input := range []string{
		"no-port",
		"host:notaport",
		"host:70000",
		":8080",
		"",
	} {
		_, err := ParseAddress(input)
		assert.Error(t, err, "input %q should not parse", input)
	}
}
