package tmi

import "errors"

// Sentinel errors for Client operations. SendMessage, Reply and Part log
// misuse (anonymous client, nonce with whitespace, not connected) and
// return the matching error, so callers and tests can compare with
// errors.Is; Connect and Join log failures and report them as false.
var (
	ErrNotConnected     = errors.New("tmi: not connected")
	ErrAlreadyConnected = errors.New("tmi: already connected")
	ErrAuthFailed       = errors.New("tmi: authentication failed")
	ErrAnonymous        = errors.New("tmi: client is anonymous")
	ErrNonceHasSpace    = errors.New("tmi: nonce must not contain spaces")
	ErrConnectTimeout   = errors.New("tmi: timed out waiting for connection")
	ErrJoinTimeout      = errors.New("tmi: timed out waiting for room state")
	ErrDisposed         = errors.New("tmi: client is disposed")
)
