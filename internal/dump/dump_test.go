package dump

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kulaginds/q2proto-go/internal/bitio"
	"github.com/kulaginds/q2proto-go/internal/dialect"
	_ "github.com/kulaginds/q2proto-go/internal/dialect/vanilla"
	"github.com/kulaginds/q2proto-go/internal/message"
	"github.com/kulaginds/q2proto-go/internal/protocol"
	"github.com/kulaginds/q2proto-go/internal/q2proto"
)

func buildServerDataPacket(t *testing.T) []byte {
	t.Helper()

	sc := q2proto.NewServerContext(q2proto.Options{})
	require.NoError(t, dialect.BindServer(sc, protocol.VersionVanilla, 0))

	var sd message.ServerData
	sc.FillServerData(&sd)
	sd.ServerCount = 7
	sd.GameDir = "baseq2"
	sd.LevelName = "q2dm1"

	w := bitio.NewWriteBuffer(0)
	require.NoError(t, sc.ServerWrite(w, sd))
	return w.Bytes()
}

func buildPrintPacket(t *testing.T) []byte {
	t.Helper()

	sc := q2proto.NewServerContext(q2proto.Options{})
	require.NoError(t, dialect.BindServer(sc, protocol.VersionVanilla, 0))

	w := bitio.NewWriteBuffer(0)
	require.NoError(t, sc.ServerWrite(w, message.Print{Level: 1, Text: "hello"}))
	require.NoError(t, sc.ServerWrite(w, message.Print{Level: 2, Text: "world"}))
	return w.Bytes()
}

func TestDecodeFirstPacketMustBeServerData(t *testing.T) {
	d := New(q2proto.Options{})

	_, err := d.Decode(buildPrintPacket(t))
	require.Error(t, err)

	version, _, ok := d.Negotiated()
	require.False(t, ok)
	require.Equal(t, protocol.Version(0), version)
}

func TestDecodeServerDataThenSubsequentPackets(t *testing.T) {
	d := New(q2proto.Options{})

	msgs, err := d.Decode(buildServerDataPacket(t))
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	sd, ok := msgs[0].(message.ServerData)
	require.True(t, ok)
	require.Equal(t, "baseq2", sd.GameDir)

	version, _, ok := d.Negotiated()
	require.True(t, ok)
	require.Equal(t, protocol.VersionVanilla, version)

	msgs, err = d.Decode(buildPrintPacket(t))
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, message.Print{Level: 1, Text: "hello"}, msgs[0])
	require.Equal(t, message.Print{Level: 2, Text: "world"}, msgs[1])
}
