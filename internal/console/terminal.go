package console

// IsTTY reports whether stdout is attached to a terminal.
func IsTTY() bool {
	return isTTYGlobal
}
