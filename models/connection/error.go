package connection

import (
	"errors"
	"fmt"
)

const (
	ConnLoopBreak uint8 = iota
	ConnLoopRetry
	ConnLoopAbnormalClosureRetry
	ConnLoopContinue
	ConnInvalidMsgType
)

type ConnErr struct {
	code uint8
	desc string
}

func NewConnErr(code uint8) ConnErr {
	return ConnErr{code: code}
}

func (c ConnErr) AddDesc(desc string) ConnErr {
	c.desc = desc
	return c
}

func (c ConnErr) Error() string {
	return fmt.Sprintf("connection error - code: %d\tdesc: %s", c.code, c.desc)
}

func (c ConnErr) Code() uint8 {
	return c.code
}

// IsAbnormalClosure reports whether err ended a connection in a way
// the client may recover from by reconnecting.
func IsAbnormalClosure(err error) bool {
	var connErr ConnErr
	return errors.As(err, &connErr) && connErr.code == ConnLoopAbnormalClosureRetry
}
