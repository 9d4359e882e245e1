package common

import (
	"github.com/kulaginds/q2proto-go/internal/bitio"
	"github.com/kulaginds/q2proto-go/internal/message"
	"github.com/kulaginds/q2proto-go/internal/protocol"
)

// WriteUserCmdDelta writes to as a delta against from: only the fields
// that changed are put on the wire, flagged by a leading
// protocol.ClientMoveFlags byte (clc_move's usercmd_t encoding).
func WriteUserCmdDelta(w bitio.Writer, from, to message.UserCmd) error {
	var bits protocol.ClientMoveFlags
	if to.Angles[0] != from.Angles[0] {
		bits |= protocol.MoveAngle1
	}
	if to.Angles[1] != from.Angles[1] {
		bits |= protocol.MoveAngle2
	}
	if to.Angles[2] != from.Angles[2] {
		bits |= protocol.MoveAngle3
	}
	if to.Forward != from.Forward {
		bits |= protocol.MoveForward
	}
	if to.Side != from.Side {
		bits |= protocol.MoveSide
	}
	if to.Up != from.Up {
		bits |= protocol.MoveUp
	}
	if to.Buttons != from.Buttons {
		bits |= protocol.MoveButtons
	}
	if to.Impulse != from.Impulse {
		bits |= protocol.MoveImpulse
	}

	if err := w.WriteU8(uint8(bits)); err != nil {
		return err
	}
	if bits&protocol.MoveAngle1 != 0 {
		if err := w.WriteU16(uint16(to.Angles[0])); err != nil {
			return err
		}
	}
	if bits&protocol.MoveAngle2 != 0 {
		if err := w.WriteU16(uint16(to.Angles[1])); err != nil {
			return err
		}
	}
	if bits&protocol.MoveAngle3 != 0 {
		if err := w.WriteU16(uint16(to.Angles[2])); err != nil {
			return err
		}
	}
	if bits&protocol.MoveForward != 0 {
		if err := w.WriteU16(uint16(to.Forward)); err != nil {
			return err
		}
	}
	if bits&protocol.MoveSide != 0 {
		if err := w.WriteU16(uint16(to.Side)); err != nil {
			return err
		}
	}
	if bits&protocol.MoveUp != 0 {
		if err := w.WriteU16(uint16(to.Up)); err != nil {
			return err
		}
	}
	if bits&protocol.MoveButtons != 0 {
		if err := w.WriteU8(to.Buttons); err != nil {
			return err
		}
	}
	if bits&protocol.MoveImpulse != 0 {
		if err := w.WriteU8(to.Impulse); err != nil {
			return err
		}
	}
	if err := w.WriteU8(to.Msec); err != nil {
		return err
	}
	return w.WriteU8(to.LightLevel)
}

// ReadUserCmdDelta is the read-side counterpart of WriteUserCmdDelta:
// from supplies the values for any field the delta didn't carry.
func ReadUserCmdDelta(r bitio.Reader, from message.UserCmd) (message.UserCmd, error) {
	to := from

	bitsByte, err := r.ReadU8()
	if err != nil {
		return to, err
	}
	bits := protocol.ClientMoveFlags(bitsByte)

	if bits&protocol.MoveAngle1 != 0 {
		v, err := r.ReadU16()
		if err != nil {
			return to, err
		}
		to.Angles[0] = int16(v)
	}
	if bits&protocol.MoveAngle2 != 0 {
		v, err := r.ReadU16()
		if err != nil {
			return to, err
		}
		to.Angles[1] = int16(v)
	}
	if bits&protocol.MoveAngle3 != 0 {
		v, err := r.ReadU16()
		if err != nil {
			return to, err
		}
		to.Angles[2] = int16(v)
	}
	if bits&protocol.MoveForward != 0 {
		v, err := r.ReadU16()
		if err != nil {
			return to, err
		}
		to.Forward = int16(v)
	}
	if bits&protocol.MoveSide != 0 {
		v, err := r.ReadU16()
		if err != nil {
			return to, err
		}
		to.Side = int16(v)
	}
	if bits&protocol.MoveUp != 0 {
		v, err := r.ReadU16()
		if err != nil {
			return to, err
		}
		to.Up = int16(v)
	}
	if bits&protocol.MoveButtons != 0 {
		if to.Buttons, err = r.ReadU8(); err != nil {
			return to, err
		}
	}
	if bits&protocol.MoveImpulse != 0 {
		if to.Impulse, err = r.ReadU8(); err != nil {
			return to, err
		}
	}
	if to.Msec, err = r.ReadU8(); err != nil {
		return to, err
	}
	if to.LightLevel, err = r.ReadU8(); err != nil {
		return to, err
	}
	return to, nil
}

// WriteMove writes a clc_move message: each usercmd is delta-coded
// against the one before it in the batch (the first against the zero
// value), matching the source's MSG_WriteDeltaUsercmd chaining.
func WriteMove(w bitio.Writer, m message.Move) error {
	if err := w.WriteU32(uint32(m.LastFrame)); err != nil {
		return err
	}
	var from message.UserCmd
	for _, cmd := range m.Cmds {
		if err := WriteUserCmdDelta(w, from, cmd); err != nil {
			return err
		}
		from = cmd
	}
	return nil
}

// ReadMove reads n chained usercmd deltas following the LastFrame field.
func ReadMove(r bitio.Reader, n int) (message.Move, error) {
	var m message.Move
	lastFrame, err := r.ReadU32()
	if err != nil {
		return m, err
	}
	m.LastFrame = int32(lastFrame)

	m.Cmds = make([]message.UserCmd, 0, n)
	var from message.UserCmd
	for i := 0; i < n; i++ {
		cmd, err := ReadUserCmdDelta(r, from)
		if err != nil {
			return m, err
		}
		m.Cmds = append(m.Cmds, cmd)
		from = cmd
	}
	return m, nil
}

// DispatchClientCommand decodes the body of one client-to-server
// message whose wire shape is identical across every dialect. Move
// (the usercmd batch size is dialect-specific) and UserInfoDelta (a
// dialect-specific opcode) are NOT covered -- handled == false tells
// the caller to fall back to its own handling for cmd.
func DispatchClientCommand(cmd protocol.ClientCommand, r bitio.Reader) (msg message.ClientMessage, handled bool, err error) {
	switch cmd {
	case protocol.ClcNop:
		msg, err = message.ClientNop{}, nil
	case protocol.ClcUserinfo:
		msg, err = ReadUserInfo(r)
	case protocol.ClcStringCmd:
		msg, err = ReadStringCmd(r)
	default:
		return nil, false, nil
	}
	return msg, true, err
}

// DispatchClientMessage writes one client-to-server message whose wire
// shape is identical across every dialect, opcode included. Move and
// UserInfoDelta are NOT covered -- handled == false tells the caller
// to encode m itself.
func DispatchClientMessage(w bitio.Writer, m message.ClientMessage) (handled bool, err error) {
	switch v := m.(type) {
	case message.ClientNop:
		return true, w.WriteU8(uint8(protocol.ClcNop))
	case message.UserInfo:
		if err = w.WriteU8(uint8(protocol.ClcUserinfo)); err != nil {
			return true, err
		}
		return true, WriteUserInfo(w, v)
	case message.StringCmd:
		if err = w.WriteU8(uint8(protocol.ClcStringCmd)); err != nil {
			return true, err
		}
		return true, WriteStringCmd(w, v)
	default:
		return false, nil
	}
}

func WriteUserInfo(w bitio.Writer, m message.UserInfo) error { return w.WriteString(m.Value) }
func ReadUserInfo(r bitio.Reader) (message.UserInfo, error) {
	s, err := r.ReadString()
	return message.UserInfo{Value: s}, err
}

func WriteUserInfoDelta(w bitio.Writer, m message.UserInfoDelta) error {
	if err := w.WriteString(m.Key); err != nil {
		return err
	}
	return w.WriteString(m.Value)
}

func ReadUserInfoDelta(r bitio.Reader) (message.UserInfoDelta, error) {
	var m message.UserInfoDelta
	var err error
	if m.Key, err = r.ReadString(); err != nil {
		return m, err
	}
	m.Value, err = r.ReadString()
	return m, err
}

func WriteStringCmd(w bitio.Writer, m message.StringCmd) error { return w.WriteString(m.Text) }
func ReadStringCmd(r bitio.Reader) (message.StringCmd, error) {
	s, err := r.ReadString()
	return message.StringCmd{Text: s}, err
}
