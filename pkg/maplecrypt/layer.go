package maplecrypt

import (
	"encoding/binary"
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// FrameLayerNum identifies the frame layer in the gopacket registry.
const FrameLayerNum = 1912

// LayerTypeFrame decodes the cipher frame header carried in a TCP payload.
var LayerTypeFrame = gopacket.RegisterLayerType(FrameLayerNum,
	gopacket.LayerTypeMetadata{Name: "MapleFrame", Decoder: gopacket.DecodeFunc(decodeFrameLayer)})

// FrameLayer is a cipher frame: the encoded sequence and the declared body
// length. The encrypted body is the layer payload.
type FrameLayer struct {
	layers.BaseLayer
	Sequence uint16
	Length   int32
}

// LayerType returns LayerTypeFrame.
func (f *FrameLayer) LayerType() gopacket.LayerType {
	return LayerTypeFrame
}

// CanDecode returns LayerTypeFrame.
func (f *FrameLayer) CanDecode() gopacket.LayerClass {
	return LayerTypeFrame
}

// NextLayerType returns the payload layer type.
func (f *FrameLayer) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypePayload
}

// DecodeFromBytes decodes the frame header. A body shorter than the declared
// length is kept and flagged as truncated.
func (f *FrameLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < HeaderSize {
		df.SetTruncated()
		return fmt.Errorf("maple frame too short: %d bytes", len(data))
	}

	f.Sequence = binary.LittleEndian.Uint16(data[0:2])
	f.Length = int32(binary.LittleEndian.Uint32(data[2:6]))
	if f.Length < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLength, f.Length)
	}

	end := HeaderSize + int(f.Length)
	if end > len(data) {
		df.SetTruncated()
		end = len(data)
	}
	f.BaseLayer = layers.BaseLayer{
		Contents: data[:HeaderSize],
		Payload:  data[HeaderSize:end],
	}
	return nil
}

// SerializeTo prepends the frame header to the buffer, which must already hold
// the encrypted body. With FixLengths the length is taken from the buffer.
func (f *FrameLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	if opts.FixLengths {
		f.Length = int32(len(b.Bytes()))
	}
	header, err := b.PrependBytes(HeaderSize)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(header[0:2], f.Sequence)
	binary.LittleEndian.PutUint32(header[2:6], uint32(f.Length))
	return nil
}

func decodeFrameLayer(data []byte, p gopacket.PacketBuilder) error {
	f := &FrameLayer{}
	if err := f.DecodeFromBytes(data, p); err != nil {
		return err
	}
	p.AddLayer(f)
	return p.NextDecoder(f.NextLayerType())
}
