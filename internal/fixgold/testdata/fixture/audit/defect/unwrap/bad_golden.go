package unwrap

var e = ((5))
