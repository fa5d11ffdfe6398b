package services

import "errors"

var (
	// ErrInvalidInput is returned when a request is well-formed but its values are not acceptable
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptyCart is returned when checking out a cart without items
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidTransition is returned when an order cannot move to the requested status
	ErrInvalidTransition = errors.New("invalid order status transition")
	// ErrCouponNotApplicable is returned for inactive, expired or under-minimum coupons
	ErrCouponNotApplicable = errors.New("coupon not applicable")
)
