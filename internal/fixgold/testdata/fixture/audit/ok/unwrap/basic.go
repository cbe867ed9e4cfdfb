package unwrap

func value() int {
	x := ((1)) // want "unnecessary literal unwrapping"
	return x
}
