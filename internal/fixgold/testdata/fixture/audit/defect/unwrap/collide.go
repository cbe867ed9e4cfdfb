package unwrap

var c = ((3))
