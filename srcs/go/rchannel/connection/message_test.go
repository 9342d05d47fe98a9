package connection

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_connectionHeader(t *testing.T) {
	ch := connectionHeader{
		Type:    uint16(ConnCollective),
		SrcPort: 9999,
		SrcIPv4: 0x7f080808,
	}
	b := &bytes.Buffer{}
	if err := ch.WriteTo(b); err != nil {
		t.Errorf("failed to write message header: %v", err)
	}
	var ch2 connectionHeader
	if err := ch2.ReadFrom(b); err != nil {
		t.Errorf("failed to read message header: %v", err)
	}
	if ch != ch2 {
		t.Error("connection header content not match")
	}
}

func Test_Message(t *testing.T) {
	b := &bytes.Buffer{}
	payload := strings.Repeat("01234567", 1<<12)
	h := MessageHeader{NameLength: 4, Name: []byte("a2aw"), Flags: 3}
	require.NoError(t, h.WriteTo(b))
	require.NoError(t, Message{Length: uint32(len(payload)), Data: []byte(payload)}.WriteTo(b))

	var h2 MessageHeader
	require.NoError(t, h2.ReadFrom(b))
	assert.Equal(t, "a2aw", string(h2.Name))
	assert.True(t, h2.HasFlag(1))
	assert.True(t, h2.HasFlag(2))

	var m Message
	require.NoError(t, m.ReadFrom(b))
	assert.Equal(t, payload, string(m.Data))
	PutBuf(m.Data)
}

func Test_ReadInto(t *testing.T) {
	b := &bytes.Buffer{}
	require.NoError(t, Message{Length: 3, Data: []byte("xyz")}.WriteTo(b))
	short := Message{Length: 2, Data: make([]byte, 2)}
	assert.Equal(t, errUnexpectedMessageLength, short.ReadInto(b))

	b.Reset()
	require.NoError(t, Message{Length: 3, Data: []byte("xyz")}.WriteTo(b))
	m := Message{Length: 3, Data: make([]byte, 3)}
	require.NoError(t, m.ReadInto(b))
	assert.Equal(t, "xyz", string(m.Data))
}

func Test_ByteSlicePool(t *testing.T) {
	p := &ByteSlicePool{}
	small := p.GetBuf(10)
	assert.Len(t, small, 10)
	buf := p.GetBuf(1000)
	assert.Len(t, buf, 1000)
	assert.Equal(t, 1024, cap(buf))
	p.PutBuf(buf)
	again := p.GetBuf(600)
	assert.Len(t, again, 600)
	assert.Equal(t, 1024, cap(again))
	assert.Len(t, p.GetBuf(0), 0)
}
