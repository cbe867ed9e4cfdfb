package unwrap

var plain = ((3))
