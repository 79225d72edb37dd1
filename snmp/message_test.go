package snmp

import (
	"testing"

	assert "github.com/stretchr/testify/require"
)

func TestEncodeDecodeMessageRoundTrip(t *testing.T) {
	pdu := &PDU{
		Type:      GetRequest,
		RequestID: 42,
		Varbinds: []Varbind{
			{Name: OID{1, 3, 6, 1, 2, 1, 1, 5, 0}, Value: NewNull()},
		},
	}

	b, err := EncodeMessage(V2c, "public", pdu)
	assert.NoError(t, err)

	version, community, got, err := DecodeMessage(b)
	assert.NoError(t, err)
	assert.Equal(t, V2c, version)
	assert.Equal(t, "public", community)
	assert.Equal(t, GetRequest, got.Type)
	assert.Equal(t, int32(42), got.RequestID)
	assert.Len(t, got.Varbinds, 1)
	assert.Equal(t, pdu.Varbinds[0].Name, got.Varbinds[0].Name)
}

func TestEncodeDecodeGetResponseWithValues(t *testing.T) {
	pdu := &PDU{
		Type:      GetResponse,
		RequestID: 1,
		Error:     NoError,
		Varbinds: []Varbind{
			{Name: OID{1, 3, 6, 1, 2, 1, 1, 1, 0}, Value: NewOctetString([]byte("a router"))},
			{Name: OID{1, 3, 6, 1, 2, 1, 1, 3, 0}, Value: NewTimeTicks(123456)},
		},
	}

	b, err := EncodeMessage(V1, "public", pdu)
	assert.NoError(t, err)

	_, _, got, err := DecodeMessage(b)
	assert.NoError(t, err)
	assert.Equal(t, GetResponse, got.Type)
	assert.Len(t, got.Varbinds, 2)

	s, ok := got.Varbinds[0].Value.Bytes()
	assert.True(t, ok)
	assert.Equal(t, "a router", string(s))

	ticks, ok := got.Varbinds[1].Value.Uint32()
	assert.True(t, ok)
	assert.Equal(t, uint32(123456), ticks)
}

func TestEncodeDecodeGetBulkRequest(t *testing.T) {
	pdu := &PDU{
		Type:       GetBulkRequest,
		RequestID:  7,
		Error:      ErrorStatus(1),
		ErrorIndex: 10,
		Varbinds: []Varbind{
			{Name: OID{1, 3, 6, 1, 2, 1, 2, 2}, Value: NewNull()},
		},
	}

	b, err := EncodeMessage(V2c, "public", pdu)
	assert.NoError(t, err)

	_, _, got, err := DecodeMessage(b)
	assert.NoError(t, err)
	assert.Equal(t, GetBulkRequest, got.Type)
	assert.EqualValues(t, 1, got.NonRepeaters())
	assert.EqualValues(t, 10, got.MaxRepetitions())
}

func TestDecodeMessageRejectsGarbage(t *testing.T) {
	_, _, _, err := DecodeMessage([]byte{0xff, 0xff, 0xff})
	assert.Error(t, err)
}
