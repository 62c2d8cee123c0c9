package stockrpc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	TypeRequest  int16 = 1
	TypeResponse int16 = 2
)

// Packet is the unit of exchange. H carries metadata, B the body: a request names
// its "function" and optional msgpack "arg"; a response carries "code", "msg" and
// an optional msgpack "result".
type Packet struct {
	ID   string            `msgpack:"id"`
	Type int16             `msgpack:"t"`
	H    map[string][]byte `msgpack:"h,omitempty"`
	B    map[string][]byte `msgpack:"b,omitempty"`
}

// PacketBuffer reassembles packets from a byte stream fed in arbitrary chunks.
type PacketBuffer struct {
	buf []byte
}

func (pb *PacketBuffer) Feed(data []byte) ([]*Packet, error) {
	pb.buf = append(pb.buf, data...)

	var results []*Packet
	for len(pb.buf) > 0 {
		r := bytes.NewReader(pb.buf)
		dec := msgpack.NewDecoder(r)
		v := new(Packet)
		if err := dec.Decode(v); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				// not enough data yet, stop
				break
			}
			pb.buf = nil
			return results, err
		}
		pb.buf = pb.buf[len(pb.buf)-r.Len():]
		results = append(results, v)
	}
	return results, nil
}

// Pending is the number of buffered bytes not yet forming a whole packet.
func (pb *PacketBuffer) Pending() int {
	return len(pb.buf)
}

func EncodePacket(pkt *Packet) ([]byte, error) {
	return msgpack.Marshal(pkt)
}

// CreateRequest builds a request packet for function with arg encoded as msgpack.
// A nil arg sends no "arg" key.
func CreateRequest(function string, arg any) (*Packet, error) {
	pkt := &Packet{
		ID:   uuid.NewString(),
		Type: TypeRequest,
		B:    map[string][]byte{"function": []byte(function)},
	}
	if arg != nil {
		argBytes, err := msgpack.Marshal(arg)
		if err != nil {
			return nil, err
		}
		pkt.B["arg"] = argBytes
	}
	return pkt, nil
}

func CreateRespPkt(id string, code int32, result any, msg string) *Packet {
	codeBytes := make([]byte, 4)
	binary.LittleEndian.PutUint32(codeBytes, uint32(code))
	pkt := &Packet{
		ID:   id,
		Type: TypeResponse,
		B: map[string][]byte{
			"code": codeBytes,
			"msg":  []byte(msg),
		},
	}
	if result != nil {
		resultBytes, err := msgpack.Marshal(result)
		if err != nil {
			return CreateRespPktErr(id, CodeExecFailed, err)
		}
		pkt.B["result"] = resultBytes
	}
	return pkt
}

func CreateRespPktErr(id string, code int32, err error) *Packet {
	return CreateRespPkt(id, code, nil, err.Error())
}

// ResponseCode reads the "code" of a response; ok is false when absent or malformed.
func ResponseCode(pkt *Packet) (int32, bool) {
	codeBytes, ok := pkt.B["code"]
	if !ok || len(codeBytes) != 4 {
		return 0, false
	}
	return int32(binary.LittleEndian.Uint32(codeBytes)), true
}
