package ptr

// Int returns a pointer to the provided int.
func Int(i int) *int {
	return &i
}

// Str returns a pointer to the provided string.
func Str(s string) *string {
	return &s
}

// Int64 returns a pointer to the provided int64.
func Int64(i int64) *int64 {
	return &i
}

// Uint64 returns a pointer to the provided uint64.
func Uint64(u uint64) *uint64 {
	return &u
}
