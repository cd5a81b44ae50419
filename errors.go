package ninep

import "fmt"

// sessionErr is a distinguished error type for session-fatal
// conditions (spec §7: ProtocolDecodeError, TransportError,
// SessionError). Once any of these is returned, the Session must not
// be reused — see errors.md taxonomy in spec §7 and the original
// client's protocol/Exceptions.h, which this taxonomy is named after.
type sessionErr string

func (e sessionErr) Error() string { return string(e) }

var (
	// TransportError kinds.
	ErrConnectFailed    = sessionErr("9p: could not connect to server")
	ErrSendFailed       = sessionErr("9p: send failed")
	ErrRecvFailed       = sessionErr("9p: receive failed")
	ErrConnectionClosed = sessionErr("9p: connection closed by peer")
	ErrTimeout          = sessionErr("9p: transport read or write timed out")

	// SessionError kinds.
	ErrVersionHandshakeFailed       = sessionErr("9p: version handshake failed")
	ErrServerRequestedAuthentication = sessionErr("9p: server requires authentication, which this client does not drive")
	ErrAttachFailed                 = sessionErr("9p: attach failed")
	ErrUnexpectedMessageReceived     = sessionErr("9p: unexpected message type received")
	ErrFidSpaceExhausted             = sessionErr("9p: fid or tag space exhausted")
	ErrSessionClosed                 = sessionErr("9p: session is closed")
)

// RemoteError wraps the Ename string of an Rerror reply. It is
// operation-fatal only, so the session itself remains usable: after a
// failed Twalk the new fid never became live at the server (spec §4.8),
// and after a failed later step the façade still clunks the walked fid.
type RemoteError struct {
	Op    string // the façade operation that failed, e.g. "stat"
	Ename string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("9p: %s: %s", e.Op, e.Ename)
}

// CallbackErrorKind classifies a CallbackError for a host binding that
// wants to map it to a platform status code without string-matching
// the remote Ename (see SPEC_FULL.md, "Error-message-to-status mapping
// seam").
type CallbackErrorKind int

const (
	KindOther CallbackErrorKind = iota
	KindNotFound
	KindEOF
	KindDenied
	KindIOError
)

// CallbackError is a façade-level outcome (spec §7 "CallbackError"),
// distinct from a session-fatal error: the session remains usable
// after one of these is returned.
type CallbackError struct {
	Kind CallbackErrorKind
	Op   string
	Err  error // the underlying RemoteError or wire error, if any
}

func (e *CallbackError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("9p: %s: %v", e.Op, e.Err)
	}
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("9p: %s: file not available", e.Op)
	case KindEOF:
		return fmt.Sprintf("9p: %s: end of file", e.Op)
	case KindDenied:
		return fmt.Sprintf("9p: %s: permission denied", e.Op)
	default:
		return fmt.Sprintf("9p: %s: failed", e.Op)
	}
}

func (e *CallbackError) Unwrap() error { return e.Err }

// IsEOF reports whether err is a CallbackError signaling end-of-file.
func IsEOF(err error) bool {
	ce, ok := err.(*CallbackError)
	return ok && ce.Kind == KindEOF
}

// IsNotFound reports whether err is a CallbackError signaling that the
// requested path does not exist.
func IsNotFound(err error) bool {
	ce, ok := err.(*CallbackError)
	return ok && ce.Kind == KindNotFound
}
