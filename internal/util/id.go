package util

import "github.com/rs/xid"

func NewUniqueId() string {
	return xid.New().String()
}

func NewSessionId() string {
	return "fses_" + NewUniqueId()
}
