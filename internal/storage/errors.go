package storage

import "fmt"

// ConnectivityError classifies a probe failure caused by reaching or
// authenticating against the storage backend rather than by object absence.
// The video status fallback policy keys off this type instead of sniffing
// error text.
type ConnectivityError struct {
	error
}

func NewConnectivityError(err error) *ConnectivityError {
	return &ConnectivityError{fmt.Errorf("storage unreachable: %w", err)}
}

func (e *ConnectivityError) Unwrap() error {
	return e.error
}

// IsConnectivity reports whether err is a connectivity-class storage failure.
func IsConnectivity(err error) bool {
	for err != nil {
		if _, ok := err.(*ConnectivityError); ok {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
