package message

import "github.com/kulaginds/q2proto-go/internal/protocol"

// ClientMessage is any message a dialect can produce from reading, or
// consume for writing, on the client-to-server direction.
type ClientMessage interface {
	isClientMessage()
}

// UserCmd is one frame of client movement input (usercmd_t).
type UserCmd struct {
	Msec                    uint8
	Buttons                 uint8
	Angles                  [3]int16
	Forward, Side, Up       int16
	Impulse                 uint8
	LightLevel              uint8
}

// Move is a Q2P_CLC_MOVE message: one or more usercmd_t frames (newer
// dialects batch several per packet to tolerate packet loss) plus the
// last-received server frame for delta purposes.
type Move struct {
	LastFrame int32
	Cmds      []UserCmd
}

func (Move) isClientMessage() {}

func (Move) Command() protocol.ClientCommand { return protocol.ClcMove }

// UserInfo is a Q2P_CLC_USERINFO message: the client's full userinfo
// string (backslash-delimited key/value pairs).
type UserInfo struct{ Value string }

func (UserInfo) isClientMessage() {}

func (UserInfo) Command() protocol.ClientCommand { return protocol.ClcUserinfo }

// UserInfoDelta is the Q2PRO userinfo_delta extension: a single
// key/value pair changed since the last full UserInfo, rather than
// resending the whole string.
type UserInfoDelta struct {
	Key, Value string
}

func (UserInfoDelta) isClientMessage() {}

// StringCmd is a Q2P_CLC_STRINGCMD message (a console command line).
type StringCmd struct{ Text string }

func (StringCmd) isClientMessage() {}

func (StringCmd) Command() protocol.ClientCommand { return protocol.ClcStringCmd }

// ClientNop is a Q2P_CLC_NOP message; it carries no data.
type ClientNop struct{}

func (ClientNop) isClientMessage() {}

func (ClientNop) Command() protocol.ClientCommand { return protocol.ClcNop }
