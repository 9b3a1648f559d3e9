package wire

// Event is a user interaction reported for one node.
type Event struct {
	Seq     uint64
	Target  string // Node ID
	Name    string // Event name, e.g. "click"
	Payload string
}

// EncodeEvent encodes an event frame payload.
func EncodeEvent(ev *Event) []byte {
	e := NewEncoder()
	e.WriteUvarint(ev.Seq)
	e.WriteString(ev.Target)
	e.WriteString(ev.Name)
	e.WriteString(ev.Payload)
	return e.Bytes()
}

// DecodeEvent decodes an event frame payload.
func DecodeEvent(data []byte) (*Event, error) {
	d := NewDecoder(data)
	ev := &Event{}
	var err error
	if ev.Seq, err = d.ReadUvarint(); err != nil {
		return nil, err
	}
	if ev.Target, err = d.ReadString(); err != nil {
		return nil, err
	}
	if ev.Name, err = d.ReadString(); err != nil {
		return nil, err
	}
	if ev.Payload, err = d.ReadString(); err != nil {
		return nil, err
	}
	if !d.EOF() {
		return nil, ErrTrailingBytes
	}
	return ev, nil
}

// ErrorMessage reports a failure to the peer.
type ErrorMessage struct {
	Code    string
	Message string
}

// EncodeError encodes an error frame payload.
func EncodeError(m *ErrorMessage) []byte {
	e := NewEncoder()
	e.WriteString(m.Code)
	e.WriteString(m.Message)
	return e.Bytes()
}

// DecodeError decodes an error frame payload.
func DecodeError(data []byte) (*ErrorMessage, error) {
	d := NewDecoder(data)
	m := &ErrorMessage{}
	var err error
	if m.Code, err = d.ReadString(); err != nil {
		return nil, err
	}
	if m.Message, err = d.ReadString(); err != nil {
		return nil, err
	}
	return m, nil
}
