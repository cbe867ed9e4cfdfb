package unwrap

var d = 4
