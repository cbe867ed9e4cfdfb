package unwrap

var b = 2
