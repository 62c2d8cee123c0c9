package stockrpc

import (
	"errors"
	"stockroom"
)

var (
	ErrReqHasNoFunc = errors.New("request has no function")
	ErrNoSuchFunc   = errors.New("no such function")
	ErrReqHasNoArg  = errors.New("request has no argument")
	ErrMalformed    = errors.New("malformed response")
)

const (
	CodeOK int32 = 0

	CodeNoFunc       int32 = -201
	CodeNoSuchFunc   int32 = -202
	CodeNoArg        int32 = -204
	CodeUnmarshal    int32 = -205
	CodeInvalidInput int32 = -206

	CodeExecFailed         int32 = -300
	CodeNotFound           int32 = -301
	CodeDuplicateID        int32 = -302
	CodeInvalidQuantity    int32 = -303
	CodeUnknownUnit        int32 = -304
	CodeIncompatibleFamily int32 = -305
	CodeInvalidStatus      int32 = -306
)

var errorCodes = []struct {
	err  error
	code int32
}{
	{stockroom.ErrNotFound, CodeNotFound},
	{stockroom.ErrDuplicateID, CodeDuplicateID},
	{stockroom.ErrInvalidQuantity, CodeInvalidQuantity},
	{stockroom.ErrUnknownUnit, CodeUnknownUnit},
	{stockroom.ErrIncompatibleUnitFamily, CodeIncompatibleFamily},
	{stockroom.ErrInvalidStatus, CodeInvalidStatus},
	{stockroom.ErrInvalidInput, CodeInvalidInput},
}

// CodeOf maps a domain error to its response code.
func CodeOf(err error) int32 {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return CodeExecFailed
}

// ErrorOf is the client-side inverse of CodeOf.
func ErrorOf(code int32) error {
	for _, ec := range errorCodes {
		if ec.code == code {
			return ec.err
		}
	}
	switch code {
	case CodeNoFunc:
		return ErrReqHasNoFunc
	case CodeNoSuchFunc:
		return ErrNoSuchFunc
	case CodeNoArg:
		return ErrReqHasNoArg
	}
	return nil
}

// ResponseError is a non-zero response code returned to a Client.
type ResponseError struct {
	Code int32
	Msg  string
}

func (e *ResponseError) Error() string {
	return e.Msg
}

func (e *ResponseError) Unwrap() error {
	return ErrorOf(e.Code)
}
