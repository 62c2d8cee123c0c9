package stockrpc

import (
	"fmt"
	"io"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Client issues requests over a stream and waits for the matching response.
// Calls are serialized.
type Client struct {
	mutex   sync.Mutex
	r       io.Reader
	w       io.Writer
	buffer  PacketBuffer
	pending []*Packet
}

func NewClient(r io.Reader, w io.Writer) *Client {
	return &Client{r: r, w: w}
}

// Call invokes function with arg and decodes the response result into result when
// both are present. A non-zero response code is returned as *ResponseError.
func (c *Client) Call(function string, arg any, result any) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	req, err := CreateRequest(function, arg)
	if err != nil {
		return err
	}
	data, err := EncodePacket(req)
	if err != nil {
		return err
	}
	if _, err := c.w.Write(data); err != nil {
		return err
	}

	resp, err := c.waitResponse(req.ID)
	if err != nil {
		return err
	}
	code, ok := ResponseCode(resp)
	if !ok {
		return ErrMalformed
	}
	if code != CodeOK {
		return &ResponseError{Code: code, Msg: string(resp.B["msg"])}
	}
	resultBytes, ok := resp.B["result"]
	if result == nil || !ok {
		return nil
	}
	if err := msgpack.Unmarshal(resultBytes, result); err != nil {
		return fmt.Errorf("decode %s result: %w", function, err)
	}
	return nil
}

func (c *Client) waitResponse(id string) (*Packet, error) {
	chunk := make([]byte, 4096)
	var readErr error
	for {
		for i, pkt := range c.pending {
			if pkt.ID == id {
				c.pending = append(c.pending[:i], c.pending[i+1:]...)
				return pkt, nil
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, readErr
		}
		var n int
		n, readErr = c.r.Read(chunk)
		if n > 0 {
			pkts, err := c.buffer.Feed(chunk[:n])
			for _, pkt := range pkts {
				if pkt.Type == TypeResponse {
					c.pending = append(c.pending, pkt)
				}
			}
			if err != nil {
				return nil, err
			}
		}
	}
}
