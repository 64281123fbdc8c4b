package demux

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"testing"
)

func collectFrames(t *testing.T, d Demuxer, r *bytes.Reader) ([]Frame, []error) {
	t.Helper()
	var frames []Frame
	var errs []error
	for f, err := range d.Frames(r) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		// PCAPDemuxer reuses its packet buffer, so keep a copy of each payload.
		f.Payload = append([]byte(nil), f.Payload...)
		frames = append(frames, f)
	}
	return frames, errs
}

func TestRawDemuxerPassesThroughUnchanged(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	frames, errs := collectFrames(t, RawDemuxer{ReadSize: 2}, bytes.NewReader(data))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	var got []byte
	for _, f := range frames {
		got = append(got, f.Payload...)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("got %x, want %x", got, data)
	}
}

func buildPCAP(packets [][]byte, snaplen uint32) []byte {
	var buf bytes.Buffer
	hdr := make([]byte, pcapGlobalHeaderSize)
	binary.BigEndian.PutUint32(hdr[0:4], pcapMagicBE)
	binary.BigEndian.PutUint32(hdr[16:20], snaplen)
	binary.BigEndian.PutUint32(hdr[20:24], linkTypeEthernet)
	buf.Write(hdr)

	for _, p := range packets {
		rec := make([]byte, pcapRecordHeaderSize)
		binary.BigEndian.PutUint32(rec[0:4], 1000)
		binary.BigEndian.PutUint32(rec[4:8], 0)
		binary.BigEndian.PutUint32(rec[8:12], uint32(len(p)))
		binary.BigEndian.PutUint32(rec[12:16], uint32(len(p)))
		buf.Write(rec)
		buf.Write(p)
	}
	return buf.Bytes()
}

func buildEthIPv4UDP(payload []byte) []byte {
	var pkt bytes.Buffer
	pkt.Write(make([]byte, etherHeaderSize))
	ip := make([]byte, 20)
	ip[0] = 0x45
	ip[9] = ipProtoUDP
	pkt.Write(ip)
	udp := make([]byte, udpHeaderSize)
	pkt.Write(udp)
	pkt.Write(payload)
	return pkt.Bytes()
}

func TestPCAPDemuxerStripsEthernetIPv4UDP(t *testing.T) {
	payload := []byte{0xAA, 0xBB, 0xCC}
	data := buildPCAP([][]byte{buildEthIPv4UDP(payload)}, 65535)

	d := NewPCAPDemuxer()
	frames, errs := collectFrames(t, d, bytes.NewReader(data))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	if !bytes.Equal(frames[0].Payload, payload) {
		t.Fatalf("got payload %x, want %x", frames[0].Payload, payload)
	}
	if !frames[0].HasTime {
		t.Fatal("expected HasTime true")
	}
}

// TestPCAPDemuxerSkipsMalformedMiddlePacket covers spec.md scenario S5: a
// capture with a malformed packet in the middle still yields the valid
// packets before and after it.
func TestPCAPDemuxerSkipsMalformedMiddlePacket(t *testing.T) {
	good1 := buildEthIPv4UDP([]byte{0x01})
	bad := []byte{0x00, 0x01} // shorter than an Ethernet header
	good2 := buildEthIPv4UDP([]byte{0x02})
	data := buildPCAP([][]byte{good1, bad, good2}, 65535)

	d := NewPCAPDemuxer()
	frames, errs := collectFrames(t, d, bytes.NewReader(data))
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if !errors.Is(errs[0], ErrBadEncapsulation) {
		t.Fatalf("error %v does not wrap ErrBadEncapsulation", errs[0])
	}
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}
	if frames[0].Payload[0] != 0x01 || frames[1].Payload[0] != 0x02 {
		t.Fatalf("unexpected frame payloads: %x, %x", frames[0].Payload, frames[1].Payload)
	}
}

func buildHDLCFrame(payload []byte) []byte {
	crc := crc16HDLC(payload)
	raw := append(append([]byte{}, payload...), byte(crc), byte(crc>>8))

	var stuffed bytes.Buffer
	stuffed.WriteByte(hdlcFlag)
	for _, b := range raw {
		if b == hdlcFlag || b == hdlcEscape {
			stuffed.WriteByte(hdlcEscape)
			stuffed.WriteByte(b ^ hdlcXOR)
		} else {
			stuffed.WriteByte(b)
		}
	}
	stuffed.WriteByte(hdlcFlag)
	return stuffed.Bytes()
}

func TestHDLCDemuxerDecodesValidFrame(t *testing.T) {
	payload := []byte{0x7E, 0x7D, 0x01, 0x02, 0x03}
	data := buildHDLCFrame(payload)

	d := NewHDLCDemuxer()
	frames, errs := collectFrames(t, d, bytes.NewReader(data))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	if !bytes.Equal(frames[0].Payload, payload) {
		t.Fatalf("got payload %x, want %x", frames[0].Payload, payload)
	}
}

// TestHDLCDemuxerSkipsCRCMismatch covers spec.md scenario S6: a frame with a
// corrupted CRC is dropped but scanning resumes at the next flag.
func TestHDLCDemuxerSkipsCRCMismatch(t *testing.T) {
	good1 := buildHDLCFrame([]byte{0x01, 0x02})
	bad := buildHDLCFrame([]byte{0x03, 0x04})
	bad[len(bad)-2] ^= 0xFF // corrupt the CRC byte just before the closing flag
	good2 := buildHDLCFrame([]byte{0x05, 0x06})

	var data []byte
	data = append(data, good1...)
	data = append(data, bad...)
	data = append(data, good2...)

	d := NewHDLCDemuxer()
	frames, errs := collectFrames(t, d, bytes.NewReader(data))
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if !errors.Is(errs[0], ErrBadEncapsulation) {
		t.Fatalf("error %v does not wrap ErrBadEncapsulation", errs[0])
	}
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}
	if !bytes.Equal(frames[0].Payload, []byte{0x01, 0x02}) || !bytes.Equal(frames[1].Payload, []byte{0x05, 0x06}) {
		t.Fatalf("unexpected frame payloads: %x, %x", frames[0].Payload, frames[1].Payload)
	}
}

func TestFinalDemuxerRoundTrip(t *testing.T) {
	payload1 := []byte{0x01, 0x02, 0x03}
	payload2 := []byte{0xAA, 0xBB}

	var buf bytes.Buffer
	for _, p := range [][]byte{payload1, payload2} {
		hdr := make([]byte, 8)
		binary.BigEndian.PutUint32(hdr[0:4], uint32(len(p)))
		binary.BigEndian.PutUint32(hdr[4:8], 1700000000)
		buf.Write(hdr)
		buf.Write(p)
	}

	d := NewLengthPrefixedDemuxer(finalHeader{})
	frames, errs := collectFrames(t, d, bytes.NewReader(buf.Bytes()))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}
	if !bytes.Equal(frames[0].Payload, payload1) || !bytes.Equal(frames[1].Payload, payload2) {
		t.Fatalf("unexpected payloads: %x, %x", frames[0].Payload, frames[1].Payload)
	}
	if !frames[0].HasTime || frames[0].Timestamp.Unix() != 1700000000 {
		t.Fatalf("unexpected timestamp: %v", frames[0].Timestamp)
	}
}

func TestGPSDemuxerRoundTrip(t *testing.T) {
	payload := []byte{0x11, 0x22, 0x33, 0x44}

	hdr := make([]byte, 12)
	binary.BigEndian.PutUint32(hdr[0:4], uint32(len(payload)))
	binary.BigEndian.PutUint64(hdr[4:12], 1000000)
	var buf bytes.Buffer
	buf.Write(hdr)
	buf.Write(payload)

	d := NewLengthPrefixedDemuxer(gpsHeader{})
	frames, errs := collectFrames(t, d, bytes.NewReader(buf.Bytes()))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	if !bytes.Equal(frames[0].Payload, payload) {
		t.Fatalf("got payload %x, want %x", frames[0].Payload, payload)
	}
}

func TestNewSelectsVariantByEncapsulation(t *testing.T) {
	cases := []struct {
		enc  Encapsulation
		want string
	}{
		{Raw, "demux.RawDemuxer"},
		{PCAP, "*demux.PCAPDemuxer"},
		{HDLC, "*demux.HDLCDemuxer"},
		{Final, "*demux.LengthPrefixedDemuxer"},
		{GPS, "*demux.LengthPrefixedDemuxer"},
	}
	for _, c := range cases {
		d := New(c.enc)
		if d == nil {
			t.Fatalf("New(%v) returned nil", c.enc)
		}
		if got := fmt.Sprintf("%T", d); got != c.want {
			t.Errorf("New(%v) = %s, want %s", c.enc, got, c.want)
		}
	}
}
