this is not a Go source file
