package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AtDexters-Lab/nexus-peer-client/internal/protocol"
)

type recordingSender struct {
	labels   []string
	controls []protocol.ControlMessage
	sendErr  error
}

func (r *recordingSender) Send(text string) error {
	if r.sendErr != nil {
		return r.sendErr
	}
	r.labels = append(r.labels, text)
	return nil
}

func (r *recordingSender) SendControl(command, arg1, arg2 string) error {
	r.controls = append(r.controls, protocol.ControlMessage{Name: command, Arg1: arg1, Arg2: arg2})
	return nil
}

func TestParseCommand(t *testing.T) {
	cases := []struct {
		line string
		want protocol.ControlMessage
		ok   bool
	}{
		{"/change_peer bob", protocol.ControlMessage{Name: "/change_peer", Arg1: "bob"}, true},
		{"/end_connection", protocol.ControlMessage{Name: "/end_connection"}, true},
		{"/custom a b c", protocol.ControlMessage{Name: "/custom", Arg1: "a", Arg2: "b c"}, true},
		{"hello there", protocol.ControlMessage{}, false},
	}
	for _, tc := range cases {
		got, ok := parseCommand(tc.line)
		require.Equal(t, tc.ok, ok, tc.line)
		require.Equal(t, tc.want, got, tc.line)
	}
}

func TestSendLineRoutesByPrefix(t *testing.T) {
	rec := &recordingSender{}

	require.NoError(t, sendLine(rec, "  hi bob  "))
	require.NoError(t, sendLine(rec, "/change_id alice"))
	require.NoError(t, sendLine(rec, "   "))

	require.Equal(t, []string{"hi bob"}, rec.labels)
	require.Equal(t, []protocol.ControlMessage{{Name: "/change_id", Arg1: "alice"}}, rec.controls)
}

func TestSendTickSkipsPreconditionFailures(t *testing.T) {
	rec := &recordingSender{
		sendErr: protocol.NewError(protocol.KindPrecondition, "encode label message", errors.New("label must be set")),
	}
	require.NoError(t, sendTick(rec, "Hello World"))

	rec.sendErr = nil
	require.NoError(t, sendTick(rec, "Hello World"))
	require.Equal(t, []string{"Hello World"}, rec.labels)
}

func TestSendTickReturnsConnectionLoss(t *testing.T) {
	rec := &recordingSender{
		sendErr: protocol.NewError(protocol.KindConnectionLost, "send", errors.New("client is not connected")),
	}
	err := sendTick(rec, "Hello World")
	require.True(t, errors.Is(err, protocol.ErrConnectionLost))
}
