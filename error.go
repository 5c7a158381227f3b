package chatrelay

import "errors"

var errHandleOutOfRange = errors.New("socket handle exceeds connection table")
var errInvalidCapacity = errors.New("capacity must be at least 1")
var errInvalidBufferSize = errors.New("buffer size must be at least 2 bytes")
var errInvalidPort = errors.New("port must be in range 0..65535")
var errUnknownConfigFormat = errors.New("config file must end with .toml, .yaml or .yml")
var errRelayClosed = errors.New("relay is closed")
var errInvalidAddress = errors.New("invalid IPv4 listen address")
var errListenerClosed = errors.New("listening socket hung up")
