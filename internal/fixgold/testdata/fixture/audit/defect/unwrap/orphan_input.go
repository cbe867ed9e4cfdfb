package unwrap

var a = 1
