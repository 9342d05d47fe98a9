package handler

import (
	"github.com/lsds/hia2a/srcs/go/rchannel/connection"
)

// PingHandler echoes every message back on the same connection.
type PingHandler struct{}

func (h *PingHandler) Handle(conn connection.Connection) (int, error) {
	return connection.Stream(conn, connection.Accept, func(name string, msg *connection.Message, conn connection.Connection) {
		defer connection.PutBuf(msg.Data)
		mh := connection.MessageHeader{
			NameLength: uint32(len(name)),
			Name:       []byte(name),
		}
		if err := mh.WriteTo(conn.Conn()); err != nil {
			return
		}
		msg.WriteTo(conn.Conn())
	})
}
