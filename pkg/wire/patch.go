package wire

import "fmt"

// Op is a host mutation carried by a Patch.
type Op uint8

const (
	OpCreateNode     Op = 0x01 // ID, Value = kind
	OpSetAttr        Op = 0x02 // ID, Key, Value
	OpRemoveAttr     Op = 0x03 // ID, Key
	OpAddListener    Op = 0x04 // ID, Key = event
	OpRemoveListener Op = 0x05 // ID, Key = event
	OpAppendChild    Op = 0x06 // ID = child, Parent
	OpInsertBefore   Op = 0x07 // ID = child, Parent, Ref
	OpRemoveChild    Op = 0x08 // ID = child, Parent
)

// String returns the string representation of the op.
func (op Op) String() string {
	switch op {
	case OpCreateNode:
		return "CreateNode"
	case OpSetAttr:
		return "SetAttr"
	case OpRemoveAttr:
		return "RemoveAttr"
	case OpAddListener:
		return "AddListener"
	case OpRemoveListener:
		return "RemoveListener"
	case OpAppendChild:
		return "AppendChild"
	case OpInsertBefore:
		return "InsertBefore"
	case OpRemoveChild:
		return "RemoveChild"
	default:
		return "Unknown"
	}
}

// Patch is one host mutation addressed by node ID.
type Patch struct {
	Op     Op
	ID     string // Target node
	Parent string // Parent for AppendChild, InsertBefore, RemoveChild
	Ref    string // Reference sibling for InsertBefore
	Key    string // Attribute key or event name
	Value  string // Attribute value or node kind
}

// String returns a one-line description of the patch.
func (p Patch) String() string {
	switch p.Op {
	case OpCreateNode:
		return fmt.Sprintf("%s %s %s", p.Op, p.ID, p.Value)
	case OpSetAttr:
		return fmt.Sprintf("%s %s %s=%q", p.Op, p.ID, p.Key, p.Value)
	case OpRemoveAttr, OpAddListener, OpRemoveListener:
		return fmt.Sprintf("%s %s %s", p.Op, p.ID, p.Key)
	case OpInsertBefore:
		return fmt.Sprintf("%s %s %s before %s", p.Op, p.Parent, p.ID, p.Ref)
	default:
		return fmt.Sprintf("%s %s %s", p.Op, p.Parent, p.ID)
	}
}

// PatchesFrame is one batch of patches with a sequence number.
type PatchesFrame struct {
	Seq     uint64
	Patches []Patch
}

// EncodePatches encodes a patches frame payload.
func EncodePatches(pf *PatchesFrame) []byte {
	e := NewEncoder()
	EncodePatchesTo(e, pf)
	return e.Bytes()
}

// EncodePatchesTo encodes a patches frame payload into e.
func EncodePatchesTo(e *Encoder, pf *PatchesFrame) {
	e.WriteUvarint(pf.Seq)
	e.WriteUvarint(uint64(len(pf.Patches)))
	for i := range pf.Patches {
		encodePatch(e, &pf.Patches[i])
	}
}

func encodePatch(e *Encoder, p *Patch) {
	e.WriteByte(byte(p.Op))
	e.WriteString(p.ID)

	switch p.Op {
	case OpCreateNode:
		e.WriteString(p.Value)
	case OpSetAttr:
		e.WriteString(p.Key)
		e.WriteString(p.Value)
	case OpRemoveAttr, OpAddListener, OpRemoveListener:
		e.WriteString(p.Key)
	case OpAppendChild, OpRemoveChild:
		e.WriteString(p.Parent)
	case OpInsertBefore:
		e.WriteString(p.Parent)
		e.WriteString(p.Ref)
	}
}

// DecodePatches decodes a patches frame payload.
func DecodePatches(data []byte) (*PatchesFrame, error) {
	d := NewDecoder(data)
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	count, err := d.ReadCount(MaxPatches)
	if err != nil {
		return nil, err
	}

	pf := &PatchesFrame{Seq: seq, Patches: make([]Patch, count)}
	for i := 0; i < count; i++ {
		if err := decodePatch(d, &pf.Patches[i]); err != nil {
			return nil, fmt.Errorf("patch %d: %w", i, err)
		}
	}
	if !d.EOF() {
		return nil, ErrTrailingBytes
	}
	return pf, nil
}

func decodePatch(d *Decoder, p *Patch) error {
	op, err := d.ReadByte()
	if err != nil {
		return err
	}
	p.Op = Op(op)
	if p.ID, err = d.ReadString(); err != nil {
		return err
	}

	switch p.Op {
	case OpCreateNode:
		p.Value, err = d.ReadString()
	case OpSetAttr:
		if p.Key, err = d.ReadString(); err != nil {
			return err
		}
		p.Value, err = d.ReadString()
	case OpRemoveAttr, OpAddListener, OpRemoveListener:
		p.Key, err = d.ReadString()
	case OpAppendChild, OpRemoveChild:
		p.Parent, err = d.ReadString()
	case OpInsertBefore:
		if p.Parent, err = d.ReadString(); err != nil {
			return err
		}
		p.Ref, err = d.ReadString()
	default:
		return fmt.Errorf("%w: 0x%02x", ErrUnknownOp, op)
	}
	return err
}

// PatchFrames splits patches into encoded frames whose payloads fit in
// MaxPayloadSize. Sequence numbers start at seq and increase by one per
// frame; the last frame carries FlagFinal. It returns the next unused
// sequence number.
func PatchFrames(seq uint64, patches []Patch) ([]*Frame, uint64) {
	var frames []*Frame
	start := 0
	for start < len(patches) || len(frames) == 0 {
		end := start
		size := 2 * 10 // seq + count varints, upper bound
		e := NewEncoder()
		for end < len(patches) {
			e.Reset()
			encodePatch(e, &patches[end])
			if size+e.Len() > MaxPayloadSize && end > start {
				break
			}
			size += e.Len()
			end++
		}
		payload := EncodePatches(&PatchesFrame{Seq: seq, Patches: patches[start:end]})
		frames = append(frames, NewFrame(FramePatches, payload))
		seq++
		start = end
	}
	frames[len(frames)-1].Flags |= FlagFinal
	return frames, seq
}
