package comm

// Transport moves named byte messages between the processes of one world.
// Messages from one source with one name are received in the order they were sent.
type Transport interface {
	Self() int
	Size() int

	// Send does not retain buf after it returns.
	Send(dst int, name string, buf []byte) error

	// Recv returns a buffer owned by the caller, which may hand it back with
	// connection.PutBuf.
	Recv(src int, name string) ([]byte, error)

	// Abort fails the whole world with code.
	Abort(code int)
}
