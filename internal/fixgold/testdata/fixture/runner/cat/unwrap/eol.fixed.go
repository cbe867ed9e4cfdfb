package unwrap

func eol() int {
	x := ((40 + 2))
	return x
}
