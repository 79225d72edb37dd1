package snmp

import (
	"encoding/asn1"

	"github.com/geoffgarside/ber"
	"github.com/pkg/errors"
)

// wireEnvelope mirrors the SEQUENCE { version, community, pdu } message
// envelope from spec.md §3. The PDU is left as a raw value on decode so its
// context-class message-type tag can be read before the generic ASN.1
// SEQUENCE tag is substituted for it, exactly as the teacher's parseResponse
// does in three stages.
type wireEnvelope struct {
	Version   int
	Community []byte
	Data      asn1.RawValue
}

type wirePDU struct {
	RequestID   int32
	ErrorStatus int32
	ErrorIndex  int32
	VarbindList []wireVarbind
}

type wireVarbind struct {
	Name  asn1.ObjectIdentifier
	Value asn1.RawValue
}

const asn1SequenceTag = 0x30

// EncodeMessage builds the wire bytes for a complete SNMP message.
func EncodeMessage(version Version, community string, pdu *PDU) ([]byte, error) {
	pduBytes, err := encodePDU(pdu)
	if err != nil {
		return nil, errors.Wrap(err, "encode pdu")
	}

	env := wireEnvelope{
		Version:   int(version),
		Community: []byte(community),
		Data:      asn1.RawValue{FullBytes: pduBytes},
	}
	b, err := ber.Marshal(env)
	if err != nil {
		return nil, errors.Wrap(err, "encode envelope")
	}
	return b, nil
}

func encodePDU(pdu *PDU) ([]byte, error) {
	vbl := make([]wireVarbind, len(pdu.Varbinds))
	for i, vb := range pdu.Varbinds {
		raw, err := encodeValue(vb.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "encode varbind %d (%s)", i, vb.Name)
		}
		vbl[i] = wireVarbind{Name: oidToASN1(vb.Name), Value: raw}
	}

	w := wirePDU{
		RequestID:   pdu.RequestID,
		ErrorStatus: int32(pdu.Error),
		ErrorIndex:  pdu.ErrorIndex,
		VarbindList: vbl,
	}
	b, err := ber.Marshal(w)
	if err != nil {
		return nil, err
	}
	// Replace the library's universal SEQUENCE tag with the SNMP PDU's
	// context-class message-type tag; both are single identifier bytes.
	b[0] = byte(pdu.Type)
	return b, nil
}

// DecodeMessage parses a complete SNMP message, returning its version,
// community string, and decoded PDU.
func DecodeMessage(b []byte) (Version, string, *PDU, error) {
	var env wireEnvelope
	if _, err := ber.Unmarshal(b, &env); err != nil {
		return 0, "", nil, &ParseError{Message: err.Error(), Offset: 0}
	}
	if len(env.Data.FullBytes) == 0 {
		return 0, "", nil, &ParseError{Message: "missing PDU", Offset: 0}
	}

	pduType := PDUType(env.Data.FullBytes[0])
	patched := append([]byte(nil), env.Data.FullBytes...)
	patched[0] = asn1SequenceTag

	var w wirePDU
	if _, err := ber.Unmarshal(patched, &w); err != nil {
		return 0, "", nil, &ParseError{Message: err.Error(), Offset: 0}
	}

	pdu, err := decodeWirePDU(pduType, &w)
	if err != nil {
		return 0, "", nil, err
	}
	return Version(env.Version), string(env.Community), pdu, nil
}

func decodeWirePDU(t PDUType, w *wirePDU) (*PDU, error) {
	vbs := make([]Varbind, len(w.VarbindList))
	for i := range w.VarbindList {
		wv := &w.VarbindList[i]
		val, err := decodeValue(&wv.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "decode varbind %d", i)
		}
		vbs[i] = Varbind{Name: oidFromASN1(wv.Name), Value: val}
	}
	return &PDU{
		Type:       t,
		RequestID:  w.RequestID,
		Error:      ErrorStatus(w.ErrorStatus),
		ErrorIndex: w.ErrorIndex,
		Varbinds:   vbs,
	}, nil
}
