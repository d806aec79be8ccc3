package client

import "errors"

// ErrClosed is returned by write intents once the client has been closed.
var ErrClosed = errors.New("posts: client is closed")
