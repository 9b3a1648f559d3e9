package wire

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestVarintRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 63, -64, 300, -300, 1 << 40, -(1 << 40)}
	e := NewEncoder()
	for _, v := range values {
		e.WriteSvarint(v)
	}
	d := NewDecoder(e.Bytes())
	for _, want := range values {
		got, err := d.ReadSvarint()
		if err != nil {
			t.Fatalf("ReadSvarint() error = %v", err)
		}
		if got != want {
			t.Errorf("ReadSvarint() = %d, want %d", got, want)
		}
	}
	if !d.EOF() {
		t.Error("decoder not at EOF")
	}
}

func TestVarintOverflow(t *testing.T) {
	data := bytes.Repeat([]byte{0xFF}, 11)
	if _, err := NewDecoder(data).ReadUvarint(); !errors.Is(err, ErrVarintOverflow) {
		t.Errorf("ReadUvarint() error = %v, want ErrVarintOverflow", err)
	}
}

func TestStringLimits(t *testing.T) {
	e := NewEncoder()
	e.WriteUvarint(10)
	e.WriteBytes([]byte("abc"))
	if _, err := NewDecoder(e.Bytes()).ReadString(); !errors.Is(err, ErrBufferTooShort) {
		t.Errorf("ReadString(truncated) error = %v, want ErrBufferTooShort", err)
	}

	e.Reset()
	e.WriteUvarint(MaxStringLen + 1)
	if _, err := NewDecoder(e.Bytes()).ReadString(); !errors.Is(err, ErrTooLarge) {
		t.Errorf("ReadString(huge) error = %v, want ErrTooLarge", err)
	}
}

func TestPatchesRoundTrip(t *testing.T) {
	pf := &PatchesFrame{
		Seq: 7,
		Patches: []Patch{
			{Op: OpCreateNode, ID: "n1", Value: "div"},
			{Op: OpSetAttr, ID: "n1", Key: "id", Value: "app"},
			{Op: OpRemoveAttr, ID: "n1", Key: "title"},
			{Op: OpAddListener, ID: "n1", Key: "click"},
			{Op: OpRemoveListener, ID: "n1", Key: "click"},
			{Op: OpAppendChild, ID: "n1", Parent: "root"},
			{Op: OpInsertBefore, ID: "n2", Parent: "root", Ref: "n1"},
			{Op: OpRemoveChild, ID: "n2", Parent: "root"},
		},
	}

	got, err := DecodePatches(EncodePatches(pf))
	if err != nil {
		t.Fatalf("DecodePatches() error = %v", err)
	}
	if got.Seq != pf.Seq {
		t.Errorf("Seq = %d, want %d", got.Seq, pf.Seq)
	}
	if len(got.Patches) != len(pf.Patches) {
		t.Fatalf("len(Patches) = %d, want %d", len(got.Patches), len(pf.Patches))
	}
	for i := range pf.Patches {
		if got.Patches[i] != pf.Patches[i] {
			t.Errorf("Patches[%d] = %+v, want %+v", i, got.Patches[i], pf.Patches[i])
		}
	}
}

func TestDecodePatchesRejectsUnknownOp(t *testing.T) {
	e := NewEncoder()
	e.WriteUvarint(1)
	e.WriteUvarint(1)
	e.WriteByte(0x7F)
	e.WriteString("n1")
	if _, err := DecodePatches(e.Bytes()); !errors.Is(err, ErrUnknownOp) {
		t.Errorf("DecodePatches() error = %v, want ErrUnknownOp", err)
	}
}

func TestDecodePatchesRejectsHugeCount(t *testing.T) {
	e := NewEncoder()
	e.WriteUvarint(1)
	e.WriteUvarint(MaxPatches + 1)
	if _, err := DecodePatches(e.Bytes()); !errors.Is(err, ErrTooLarge) {
		t.Errorf("DecodePatches() error = %v, want ErrTooLarge", err)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	f := NewFrame(FrameEvent, EncodeEvent(&Event{Seq: 3, Target: "n4", Name: "click", Payload: "x"}))
	var buf bytes.Buffer
	if err := WriteFrame(&buf, f); err != nil {
		t.Fatal(err)
	}

	read, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	if read.Type != FrameEvent {
		t.Errorf("Type = %v, want Event", read.Type)
	}
	ev, err := DecodeEvent(read.Payload)
	if err != nil {
		t.Fatalf("DecodeEvent() error = %v", err)
	}
	if ev.Seq != 3 || ev.Target != "n4" || ev.Name != "click" || ev.Payload != "x" {
		t.Errorf("event = %+v", ev)
	}
}

func TestDecodeFrameErrors(t *testing.T) {
	if _, err := DecodeFrame([]byte{0x02, 0}); !errors.Is(err, ErrBufferTooShort) {
		t.Errorf("short header error = %v", err)
	}
	if _, err := DecodeFrame([]byte{0x02, 0, 0, 2, 1}); !errors.Is(err, ErrBufferTooShort) {
		t.Errorf("short payload error = %v", err)
	}
	if _, err := DecodeFrame([]byte{0x02, 0, 0, 0, 9}); !errors.Is(err, ErrTrailingBytes) {
		t.Errorf("trailing bytes error = %v", err)
	}
	if _, err := NewFrame(FramePatches, make([]byte, MaxPayloadSize+1)).Encode(); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("oversized Encode() error = %v", err)
	}
}

func TestPatchFramesSplitsLargeCommits(t *testing.T) {
	value := strings.Repeat("v", 1000)
	patches := make([]Patch, 200)
	for i := range patches {
		patches[i] = Patch{Op: OpSetAttr, ID: "n1", Key: "k", Value: value}
	}

	frames, next := PatchFrames(10, patches)
	if len(frames) < 2 {
		t.Fatalf("len(frames) = %d, want a split", len(frames))
	}
	if next != 10+uint64(len(frames)) {
		t.Errorf("next seq = %d", next)
	}

	total := 0
	for i, f := range frames {
		if len(f.Payload) > MaxPayloadSize {
			t.Errorf("frame %d payload = %d bytes", i, len(f.Payload))
		}
		if final := f.Flags.Has(FlagFinal); final != (i == len(frames)-1) {
			t.Errorf("frame %d final = %v", i, final)
		}
		pf, err := DecodePatches(f.Payload)
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if pf.Seq != 10+uint64(i) {
			t.Errorf("frame %d seq = %d", i, pf.Seq)
		}
		total += len(pf.Patches)
	}
	if total != len(patches) {
		t.Errorf("total patches = %d, want %d", total, len(patches))
	}
}

func TestPatchFramesEmpty(t *testing.T) {
	frames, next := PatchFrames(1, nil)
	if len(frames) != 1 || next != 2 {
		t.Fatalf("PatchFrames(nil) = %d frames, next %d", len(frames), next)
	}
	if !frames[0].Flags.Has(FlagFinal) {
		t.Error("single frame should be final")
	}
}

func TestErrorMessageRoundTrip(t *testing.T) {
	m, err := DecodeError(EncodeError(&ErrorMessage{Code: "E041", Message: "unknown node"}))
	if err != nil {
		t.Fatal(err)
	}
	if m.Code != "E041" || m.Message != "unknown node" {
		t.Errorf("message = %+v", m)
	}
}

func TestPatchString(t *testing.T) {
	p := Patch{Op: OpInsertBefore, ID: "n2", Parent: "root", Ref: "n1"}
	if got, want := p.String(), "InsertBefore root n2 before n1"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
