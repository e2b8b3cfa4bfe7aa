// Package export converts parsed captures into pcap files.
package export

import (
	"fmt"
	"io"
	"net"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"go.uber.org/zap"

	"github.com/Faultbox/maple-msb/internal/logger"
	"github.com/Faultbox/maple-msb/pkg/maplecrypt"
	"github.com/Faultbox/maple-msb/pkg/msb"
)

const (
	// SnapLen is the snapshot length written to the pcap header.
	SnapLen = 262144

	// DefaultLocalPort and DefaultRemotePort stand in for ports the capture
	// does not record.
	DefaultLocalPort  = 50000
	DefaultRemotePort = 8484

	// maxSegment is the largest TCP payload that fits one IPv4 packet.
	maxSegment = 65535 - 20 - 20
)

var (
	clientMAC = net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x01}
	serverMAC = net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x02}
)

// Options controls pcap synthesis.
type Options struct {
	// Fallback addresses for captures without endpoints.
	LocalAddr  string
	RemoteAddr string

	// Encrypt re-frames every payload with the stream cipher. Each
	// direction gets its own encryptor seeded with IV.
	Encrypt bool
	Version uint32
	IV      uint32
	BlockIV uint32
}

// endpoint is one side of the synthesised TCP stream.
type endpoint struct {
	mac  net.HardwareAddr
	ip   net.IP
	port layers.TCPPort
	seq  uint32
	enc  *maplecrypt.Encryptor
}

// Stats summarises an export.
type Stats struct {
	Written int
	Skipped int
}

// WritePCAP writes every packet of r as an Ethernet/IPv4/TCP packet to w.
func WritePCAP(w io.Writer, r *msb.Reader, opts Options) (Stats, error) {
	var stats Stats

	packets, err := r.Packets()
	if err != nil {
		return stats, err
	}

	meta := r.Metadata()
	local := &endpoint{
		mac:  clientMAC,
		ip:   pickIP(meta.LocalEndpoint, opts.LocalAddr),
		port: pickPort(meta.LocalPort, DefaultLocalPort),
		seq:  1,
	}
	remote := &endpoint{
		mac:  serverMAC,
		ip:   pickIP(meta.RemoteEndpoint, opts.RemoteAddr),
		port: pickPort(meta.RemotePort, DefaultRemotePort),
		seq:  1,
	}
	if opts.Encrypt {
		local.enc = maplecrypt.NewEncryptor(opts.Version, opts.IV, opts.BlockIV)
		remote.enc = maplecrypt.NewEncryptor(opts.Version, opts.IV, opts.BlockIV)
	}

	pw := pcapgo.NewWriter(w)
	if err := pw.WriteFileHeader(SnapLen, layers.LinkTypeEthernet); err != nil {
		return stats, fmt.Errorf("writing pcap header: %w", err)
	}

	log := logger.Named("export")
	buf := gopacket.NewSerializeBuffer()
	for i, p := range packets {
		src, dst := remote, local
		if p.Outbound {
			src, dst = local, remote
		}

		data, err := serialize(buf, src, dst, p.Payload())
		if err != nil {
			log.Warn("skipping packet", zap.Int("index", i), zap.Uint16("opcode", p.Opcode), zap.Error(err))
			stats.Skipped++
			continue
		}

		ci := gopacket.CaptureInfo{
			Timestamp:     p.Timestamp,
			CaptureLength: len(data),
			Length:        len(data),
		}
		if err := pw.WritePacket(ci, data); err != nil {
			return stats, fmt.Errorf("writing packet %d: %w", i, err)
		}
		stats.Written++
	}

	log.Info("pcap written", zap.Int("written", stats.Written), zap.Int("skipped", stats.Skipped))
	return stats, nil
}

func serialize(buf gopacket.SerializeBuffer, src, dst *endpoint, payload []byte) ([]byte, error) {
	var app []gopacket.SerializableLayer
	size := len(payload)
	if src.enc != nil {
		frame := &maplecrypt.FrameLayer{}
		encrypted := src.enc.Encrypt(payload)
		if err := frame.DecodeFromBytes(encrypted, gopacket.NilDecodeFeedback); err != nil {
			return nil, err
		}
		app = append(app, frame, gopacket.Payload(frame.Payload))
		size += maplecrypt.HeaderSize
	} else {
		app = append(app, gopacket.Payload(payload))
	}
	if size > maxSegment {
		return nil, fmt.Errorf("payload of %d bytes does not fit one segment", size)
	}

	eth := &layers.Ethernet{
		SrcMAC:       src.mac,
		DstMAC:       dst.mac,
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Flags:    layers.IPv4DontFragment,
		Protocol: layers.IPProtocolTCP,
		SrcIP:    src.ip,
		DstIP:    dst.ip,
	}
	tcp := &layers.TCP{
		SrcPort: src.port,
		DstPort: dst.port,
		Seq:     src.seq,
		Ack:     dst.seq,
		ACK:     true,
		PSH:     true,
		Window:  65535,
	}
	if err := tcp.SetNetworkLayerForChecksum(ip); err != nil {
		return nil, err
	}

	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	all := append([]gopacket.SerializableLayer{eth, ip, tcp}, app...)
	if err := gopacket.SerializeLayers(buf, opts, all...); err != nil {
		return nil, err
	}
	src.seq += uint32(size)

	out := make([]byte, len(buf.Bytes()))
	copy(out, buf.Bytes())
	return out, nil
}

func pickIP(addrs ...string) net.IP {
	for _, a := range addrs {
		if ip := net.ParseIP(a).To4(); ip != nil {
			return ip
		}
	}
	return net.IPv4(127, 0, 0, 1).To4()
}

func pickPort(port uint16, fallback layers.TCPPort) layers.TCPPort {
	if port == 0 {
		return fallback
	}
	return layers.TCPPort(port)
}
