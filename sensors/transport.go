package sensors

// Transport is the platform management channel that returns raw sensor
// records by instance number.
//
// Query returns (nil, nil) when no instance exists at the given number;
// a non-nil error means the channel itself failed. Implementations are
// not required to tolerate concurrent queries: callers serialize.
type Transport interface {
	Query(instance uint8) (*Object, error)
}
