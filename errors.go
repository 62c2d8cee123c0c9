package stockroom

import "errors"

var (
	ErrUnknownUnit            = errors.New("unknown unit")
	ErrIncompatibleUnitFamily = errors.New("incompatible unit family")
	ErrDuplicateID            = errors.New("duplicate id")
	ErrNotFound               = errors.New("not found")
	ErrInvalidQuantity        = errors.New("invalid quantity")
	ErrInvalidStatus          = errors.New("invalid order status")
	ErrInvalidInput           = errors.New("invalid input")
)
