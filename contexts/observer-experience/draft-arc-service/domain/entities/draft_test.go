package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeAddressedFixRequestsToleratesBadInput(t *testing.T) {
	assert.Equal(t, AddressedFixRequests{"a", "b"}, DecodeAddressedFixRequests([]byte(`["a","b"]`)))
	assert.Equal(t, AddressedFixRequests{"a"}, DecodeAddressedFixRequests([]byte(`["a", 7, null, {"x":1}, " "]`)))
	assert.Empty(t, DecodeAddressedFixRequests(nil))
	assert.Empty(t, DecodeAddressedFixRequests([]byte(`null`)))
	assert.Empty(t, DecodeAddressedFixRequests([]byte(`{"a":1}`)))
	assert.Empty(t, DecodeAddressedFixRequests([]byte(`not json`)))
}

func TestAddressedFixRequestsEncode(t *testing.T) {
	assert.Equal(t, "[]", string(AddressedFixRequests(nil).Encode()))
	assert.Equal(t, `["a"]`, string(AddressedFixRequests{"a"}.Encode()))
}

func TestDraftIsReleased(t *testing.T) {
	assert.True(t, Draft{Status: "release"}.IsReleased())
	assert.False(t, Draft{Status: "draft"}.IsReleased())
}
