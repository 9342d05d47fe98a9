package handler

import (
	"strconv"
	"strings"

	"github.com/lsds/hia2a/srcs/go/log"
	"github.com/lsds/hia2a/srcs/go/rchannel/connection"
)

const abortPrefix = "abort:"

// AbortMessageName encodes an abort request carrying code.
func AbortMessageName(code int) string {
	return abortPrefix + strconv.Itoa(code)
}

// ControlHandler reacts to abort requests from other peers.
type ControlHandler struct {
	OnAbort func(code int)
}

func (h *ControlHandler) Handle(conn connection.Connection) (int, error) {
	return connection.Stream(conn, connection.Accept, h.handleControl)
}

func (h *ControlHandler) handleControl(name string, msg *connection.Message, conn connection.Connection) {
	connection.PutBuf(msg.Data)
	if strings.HasPrefix(name, abortPrefix) {
		code, err := strconv.Atoi(strings.TrimPrefix(name, abortPrefix))
		if err != nil {
			log.Errorf("invalid abort control message %q from %s", name, srcOf(conn))
			return
		}
		log.Errorf("abort control message received from %s, code %d", srcOf(conn), code)
		if h.OnAbort != nil {
			h.OnAbort(code)
		}
		return
	}
	log.Errorf("unexpected control message: %q", name)
}

func srcOf(conn connection.Connection) string {
	if conn == nil {
		return "unknown peer"
	}
	return conn.Src().String()
}
