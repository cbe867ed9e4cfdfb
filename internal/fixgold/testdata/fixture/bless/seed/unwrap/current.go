package unwrap

var current = ((5))
