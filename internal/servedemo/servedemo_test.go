package servedemo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kulaginds/q2proto-go/internal/handshake"
	"github.com/kulaginds/q2proto-go/internal/message"
	"github.com/kulaginds/q2proto-go/internal/protocol"
	"github.com/kulaginds/q2proto-go/internal/q2proto"
)

func TestRunRoundTripsEveryDialect(t *testing.T) {
	cases := []struct {
		name string
		conn handshake.Connect
	}{
		{"vanilla", handshake.Connect{Protocol: protocol.VersionVanilla, QPort: 10, Challenge: 1234, UserInfo: `\name\joe`}},
		{"r1q2", handshake.Connect{Protocol: protocol.VersionR1Q2, QPort: 10, Challenge: 1234, UserInfo: `\name\joe`, Minor: protocol.MinorR1Q2Current}},
		{"q2pro", handshake.Connect{Protocol: protocol.VersionQ2PRO, QPort: 10, Challenge: 1234, UserInfo: `\name\joe`, NetchanType: 1, Minor: protocol.MinorQ2PROCurrent}},
		{"q2repro", handshake.Connect{Protocol: protocol.VersionQ2rePRO, QPort: 10, Challenge: 1234, UserInfo: `\name\joe`, NetchanType: 1, Minor: protocol.MinorQ2PROCurrent}},
	}

	accepted := []protocol.Version{protocol.VersionQ2rePRO, protocol.VersionQ2PRO, protocol.VersionR1Q2, protocol.VersionVanilla}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			line := handshake.FormatConnect(tc.conn)

			report, err := Run(q2proto.Options{}, line, accepted, handshake.GameTypeVanilla, DefaultScenario())
			require.NoError(t, err)
			require.Equal(t, tc.conn.Protocol, report.Protocol)
			require.GreaterOrEqual(t, report.PacketCount, 3)
			require.NotEmpty(t, report.Messages)

			sd, ok := report.Messages[0].(message.ServerData)
			require.True(t, ok, "first decoded message must be serverdata")
			require.Equal(t, int32(tc.conn.Protocol), sd.Protocol)
			require.Equal(t, "q2proto-dump", sd.GameDir)

			var configStrings, baselines, downloads int
			for _, m := range report.Messages[1:] {
				switch m.(type) {
				case message.ConfigString:
					configStrings++
				case message.SpawnBaseline:
					baselines++
				case message.Download:
					downloads++
				}
			}
			require.Equal(t, 2, configStrings)
			require.Equal(t, 2, baselines)
			require.GreaterOrEqual(t, downloads, 1)
		})
	}
}

func TestRunRejectsProtocolNotAccepted(t *testing.T) {
	conn := handshake.Connect{Protocol: protocol.VersionR1Q2, QPort: 1, Challenge: 1, UserInfo: "x", Minor: protocol.MinorR1Q2Current}
	line := handshake.FormatConnect(conn)

	_, err := Run(q2proto.Options{}, line, []protocol.Version{protocol.VersionQ2PRO}, handshake.GameTypeExtendedQ2PRO, DefaultScenario())
	require.Error(t, err)
}
