package unwrap

func value() int {
	x := 1
	return x
}
