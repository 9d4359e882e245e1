package message

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kulaginds/q2proto-go/internal/protocol"
)

var (
	_ ServerMessage = Muzzleflash{}
	_ ServerMessage = TempEntity{}
	_ ServerMessage = Layout{}
	_ ServerMessage = Inventory{}
	_ ServerMessage = Nop{}
	_ ServerMessage = Disconnect{}
	_ ServerMessage = Reconnect{}
	_ ServerMessage = Sound{}
	_ ServerMessage = Print{}
	_ ServerMessage = StuffText{}
	_ ServerMessage = ServerData{}
	_ ServerMessage = ConfigString{}
	_ ServerMessage = SpawnBaseline{}
	_ ServerMessage = CenterPrint{}
	_ ServerMessage = Download{}
	_ ServerMessage = Frame{}
	_ ServerMessage = FrameEntityDelta{}
	_ ServerMessage = Setting{}

	_ ClientMessage = Move{}
	_ ClientMessage = UserInfo{}
	_ ClientMessage = UserInfoDelta{}
	_ ClientMessage = StringCmd{}
	_ ClientMessage = ClientNop{}
)

func TestMuzzleflashCommandPicksMonsterVariant(t *testing.T) {
	require.Equal(t, protocol.SvcMuzzleflash, Muzzleflash{Monster: false}.Command())
	require.Equal(t, protocol.SvcMuzzleflash2, Muzzleflash{Monster: true}.Command())
}

func TestValidateDirectionRange(t *testing.T) {
	require.True(t, ValidateDirection(0))
	require.True(t, ValidateDirection(protocol.NumVertexNormals-1))
	require.False(t, ValidateDirection(protocol.NumVertexNormals))
	require.False(t, ValidateDirection(255))
}
