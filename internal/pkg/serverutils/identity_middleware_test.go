package serverutils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGuestIdFromIPIsDeterministic(t *testing.T) {
	a := GuestIdFromIP("203.0.113.7")
	b := GuestIdFromIP("203.0.113.7")
	c := GuestIdFromIP("203.0.113.8")

	assert.Equal(t, a, b, "same IP must map to the same guest")
	assert.NotEqual(t, a, c, "different IPs must map to different guests")
}

func TestGuestIdFromIPShapesValidUUID(t *testing.T) {
	id := GuestIdFromIP("10.0.0.1")

	parsed, err := uuid.Parse(id.String())
	assert.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())
	assert.Equal(t, uuid.RFC4122, parsed.Variant())
}

func TestGuestEmailFromIP(t *testing.T) {
	assert.Equal(t, "guest-192.168.1.5@localhost", GuestEmailFromIP("192.168.1.5"))
}
