package unwrap

var stale = ((6))
