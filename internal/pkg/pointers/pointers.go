package pointers

// Ptr copies v and returns the address of the copy, so the caller never
// hands out a pointer into a shared struct.
func Ptr[T any](v T) *T { return &v }
