package unwrap

func eol() int {
	x := ((40 + 2)) //fixgold:ignore unwrap nested fix is covered elsewhere
	return x
}
