package inventory

import "errors"

var (
	ErrItemNotFound      = errors.New("inventory item not found")
	ErrItemCodeExists    = errors.New("inventory item with this code already exists")
	ErrInvalidItemStatus = errors.New("invalid inventory item status")
)
